package shuffle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docshuffle/internal/model"
)

// Stats summarises one shuffle run.
type Stats struct {
	NodesVisited  int           `json:"nodes_visited"`
	NodesShuffled int           `json:"nodes_shuffled"`
	StepsStaged   int           `json:"steps_staged"`
	ApplyDuration time.Duration `json:"apply_duration_ns"`
}

// Shuffler permutes sibling order at every level of a document.
type Shuffler struct {
	src Source
	log *slog.Logger
}

// New returns a Shuffler drawing from src. A nil src uses the unseeded
// global source and a nil logger discards output.
func New(src Source, log *slog.Logger) *Shuffler {
	if src == nil {
		src = globalSource{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Shuffler{src: src, log: log}
}

// Stage walks doc once and stages one replacement into tr for every node
// with more than one child. The walk descends into the reordered nodes, so
// staged ranges are translated back to doc's own positions. It returns the
// root that was walked.
func (s *Shuffler) Stage(tr *model.Transaction, doc *model.Node) (*model.Node, Stats) {
	var st Stats
	// Walk position of a node inside a reordered parent -> its position in doc.
	origin := map[int]int{}
	root := model.Descendants(doc, func(node *model.Node, pos int, parent *model.Node, _ int) model.Visit {
		st.NodesVisited++
		if node.ChildCount() <= 1 {
			return model.SkipChildren()
		}

		at := pos
		if parent != nil {
			if p, ok := origin[pos]; ok {
				at = p
			}
		}

		perm := Permutation(node.ChildCount(), s.src)
		content := node.Content()
		for ii, i := range perm {
			content = content.ReplaceChild(ii, node.Child(i))
		}
		newNode := node.Copy(content)

		walkBase, docBase := pos+1, at+1
		if parent == nil {
			walkBase, docBase = 0, 0
			tr.ReplaceWith(0, node.Content().Size(), content.Children()...)
		} else {
			tr.ReplaceWith(at, at+node.NodeSize(), newNode)
		}
		offsets := make([]int, node.ChildCount())
		node.ForEach(func(_ *model.Node, offset, index int) { offsets[index] = offset })
		for _, i := range perm {
			origin[walkBase] = docBase + offsets[i]
			walkBase += node.Child(i).NodeSize()
		}

		st.NodesShuffled++
		st.StepsStaged++
		s.log.Debug("staged shuffle", "type", node.Type().Name, "pos", at, "children", node.ChildCount(), "order", perm)

		return model.ReplaceNode(newNode)
	})
	return root, st
}

// Shuffle stages and applies one shuffle of doc and returns the new snapshot.
func (s *Shuffler) Shuffle(doc *model.Node) (*model.Node, Stats, error) {
	tr := model.NewTransaction(doc)
	_, st := s.Stage(tr, doc)

	start := time.Now()
	out, err := tr.Apply()
	st.ApplyDuration = time.Since(start)
	if err != nil {
		return doc, st, fmt.Errorf("apply shuffle: %w", err)
	}

	s.log.Info("shuffled document",
		"nodes_visited", st.NodesVisited,
		"nodes_shuffled", st.NodesShuffled,
		"steps", st.StepsStaged,
		"apply_ms", st.ApplyDuration.Milliseconds(),
	)
	return out, st, nil
}
