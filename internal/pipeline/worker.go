package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docshuffle/internal/docstore"
	"github.com/dgallion1/docshuffle/internal/importer"
	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/dgallion1/docshuffle/internal/parser"
	"github.com/dgallion1/docshuffle/internal/shuffle"
)

// Worker processes a single document job. A Worker is not safe for
// concurrent use since its shuffler's source is not.
type Worker struct {
	schema   *model.Schema
	docs     *docstore.Store
	latency  *LatencyStats
	shuffler *shuffle.Shuffler
	log      *slog.Logger
	opts     WorkerOptions
}

// WorkerOptions tunes how uploads are parsed and imported.
type WorkerOptions struct {
	Parser parser.Options
	Import importer.Options
}

func NewWorker(schema *model.Schema, docs *docstore.Store, latency *LatencyStats, shuffler *shuffle.Shuffler, log *slog.Logger, opts WorkerOptions) *Worker {
	return &Worker{
		schema:   schema,
		docs:     docs,
		latency:  latency,
		shuffler: shuffler,
		log:      log,
		opts:     opts,
	}
}

// Process runs the full ingest pipeline for a job: parse, import, shuffle
// and store.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.releaseFileData()

	fail := func(phase string, err error) {
		log.Error(phase+" failed", "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
	}

	data := job.FileData()
	job.SetContentHash(ContentHashHex(data))

	// Phase 0: Dedup check
	if !job.Force {
		if existing, ok := w.docs.FindByHash(job.ContentHash); ok {
			log.Info("duplicate document, skipping", "existing_doc_id", existing.ID)
			job.SetDocID(existing.ID)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	title := job.Title
	var doc *model.Node
	if parser.IsDocumentJSON(job.Filename) {
		var err error
		doc, err = w.schema.NodeFromJSON(data)
		if err == nil {
			err = w.schema.CheckRoot(doc)
		}
		if err != nil {
			fail("parsing", err)
			return
		}
		if title == "" {
			title = job.Filename
		}
	} else {
		p, err := parser.ForFile(job.Filename, w.opts.Parser)
		if err != nil {
			fail("parsing", err)
			return
		}
		tree, err := p.Parse(bytes.NewReader(data), job.Filename)
		if err != nil {
			fail("parsing", err)
			return
		}
		if title == "" {
			title = tree.Title
		}
		sections, paragraphs := tree.Counts()
		job.SetOutline(sections, paragraphs)
		log.Info("parsed document", "sections", sections, "paragraphs", paragraphs)

		if err := ctx.Err(); err != nil {
			fail("parsing", err)
			return
		}

		// Phase 2: Import
		job.SetStatus(StatusImporting, "importing")
		doc, err = importer.FromDocTree(w.schema, tree, w.opts.Import)
		if err != nil {
			if errors.Is(err, importer.ErrEmptyDocument) {
				err = fmt.Errorf("no importable content: %w", err)
			}
			fail("importing", err)
			return
		}
	}

	if err := ctx.Err(); err != nil {
		fail("importing", err)
		return
	}

	// Phase 3: Shuffle
	if job.Shuffle {
		job.SetStatus(StatusShuffling, "shuffling")
		out, st, err := w.shuffler.Shuffle(doc)
		job.SetShuffleStats(st)
		if err != nil {
			fail("shuffling", err)
			return
		}
		w.latency.Record(st)
		doc = out
	}

	// Phase 4: Store
	job.SetStatus(StatusStoring, "storing")
	nd := docstore.NewDocument{
		Title:       title,
		Source:      job.Filename,
		ContentHash: job.ContentHash,
		Doc:         doc,
	}
	if job.Shuffle {
		nd.Shuffles = 1
	}
	var (
		stored docstore.Document
		dup    bool
		err    error
	)
	if job.Force {
		stored, err = w.docs.Put(nd)
	} else {
		// Another job with the same content may have stored it since phase 0.
		stored, dup, err = w.docs.PutUnique(nd)
	}
	if err != nil {
		fail("storing", err)
		return
	}
	job.SetDocID(stored.ID)
	if dup {
		log.Info("duplicate document, skipping", "existing_doc_id", stored.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}
	log.Info("stored document", "doc_id", stored.ID, "revision", stored.Revision)
	job.SetStatus(StatusCompleted, "done")
}
