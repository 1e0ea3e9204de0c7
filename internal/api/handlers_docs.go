package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dgallion1/docshuffle/internal/docstore"
	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/dgallion1/docshuffle/internal/render"
	"github.com/dgallion1/docshuffle/internal/shuffle"
	"github.com/go-chi/chi/v5"
)

// handleCreateDocument stores a document sent as schema JSON or as editor
// HTML.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var doc *model.Node
	switch mediaType {
	case "", "application/json":
		doc, err = s.schema.NodeFromJSON(body)
	case "text/html":
		doc, err = render.ParseDOM(s.schema, bytes.NewReader(body))
	default:
		jsonError(w, "unsupported content type: "+mediaType, http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		writeDocError(w, err)
		return
	}
	if err := s.schema.CheckRoot(doc); err != nil {
		writeDocError(w, err)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = "untitled"
	}
	stored, err := s.docs.Put(docstore.NewDocument{Title: title, Source: "api", Doc: doc})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("created document", "doc_id", stored.ID, "title", title)
	writeJSON(w, http.StatusCreated, stored)
}

// handleListDocuments lists stored documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.docs.List()})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	d, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeDocError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleDocumentHTML renders the document; ?page=true wraps it in a full
// HTML page.
func (s *Server) handleDocumentHTML(w http.ResponseWriter, r *http.Request) {
	d, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeDocError(w, err)
		return
	}
	page, _ := strconv.ParseBool(r.URL.Query().Get("page"))

	var buf bytes.Buffer
	if page {
		err = render.Page(&buf, d.Doc, d.Title)
	} else {
		err = render.HTML(&buf, d.Doc)
	}
	if err != nil {
		jsonError(w, "render: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleShuffleDocument shuffles a stored document and saves the result as
// a new revision. ?seed=N makes the order reproducible; ?revision=N fails
// with 409 if the document has moved on.
func (s *Server) handleShuffleDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "docID")
	shuffler, err := s.shufflerFor(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := s.docs.Get(id)
	if err != nil {
		writeDocError(w, err)
		return
	}
	rev := d.Revision
	if v := r.URL.Query().Get("revision"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "revision must be an integer", http.StatusBadRequest)
			return
		}
		rev = n
	}
	if rev != d.Revision {
		jsonError(w, fmt.Sprintf("document is at revision %d, not %d", d.Revision, rev), http.StatusConflict)
		return
	}

	out, st, err := shuffler.Shuffle(d.Doc)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.orchestrator.Latency().Record(st)

	updated, err := s.docs.Update(id, rev, out, true)
	if err != nil {
		writeDocError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": updated,
		"stats":    st,
	})
}

// handleDeleteDocument removes a stored document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "docID")
	if err := s.docs.Delete(id); err != nil {
		writeDocError(w, err)
		return
	}
	s.log.Info("deleted document", "doc_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// shufflerFor returns a dedicated seeded shuffler when the request carries
// ?seed=N with N > 0 and the shared one otherwise. A seed of 0 means
// unseeded, as it does for SHUFFLE_SEED and the CLI.
func (s *Server) shufflerFor(r *http.Request) (*shuffle.Shuffler, error) {
	v := r.URL.Query().Get("seed")
	if v == "" {
		return s.shuffler, nil
	}
	seed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seed must be a non-negative integer")
	}
	if seed == 0 {
		return s.shuffler, nil
	}
	return shuffle.New(shuffle.NewSource(seed), s.log), nil
}

func writeDocError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, docstore.ErrRevisionMismatch):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrUnknownType),
		errors.Is(err, model.ErrMissingAttr),
		errors.Is(err, model.ErrInvalidContent),
		errors.Is(err, model.ErrEmptyText):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		jsonError(w, err.Error(), http.StatusBadRequest)
	}
}
