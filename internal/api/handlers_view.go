package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/render"
)

// handleView serves the embedded demo document after one shuffle.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	shuffler, err := s.shufflerFor(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := demo.Document()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out, st, err := shuffler.Shuffle(doc)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.orchestrator.Latency().Record(st)

	var buf bytes.Buffer
	if err := render.Page(&buf, out, "docshuffle"); err != nil {
		jsonError(w, "render: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
