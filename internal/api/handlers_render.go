package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/orgview/internal/importer"
	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/pipeline"
	"github.com/dgallion1/orgview/internal/render"
)

// renderRequest is the body of /api/render and /api/outline.
type renderRequest struct {
	Source string `json:"source"`
	// Filename selects an importer when it names a non-org format.
	Filename string               `json:"filename"`
	Format   string               `json:"format"`
	Options  map[string]any       `json:"options"`
	Export   render.ExportOptions `json:"export"`
}

type renderResponse struct {
	Format pipeline.Format `json:"format"`
	*render.Result
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	out, format, ok := s.renderFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{Format: format, Result: out.Result})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	out, _, ok := s.renderFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out.Outline)
}

// renderFromRequest decodes, imports and renders a request body. It
// writes the error response itself and reports whether to continue.
func (s *Server) renderFromRequest(w http.ResponseWriter, r *http.Request) (*pipeline.Output, pipeline.Format, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	req := renderRequest{Export: s.export}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	format, err := pipeline.ParseFormat(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	if s.export.SanitizeRawHTML {
		// Requests cannot switch off server-side sanitizing.
		req.Export.SanitizeRawHTML = true
	}

	stats := s.orchestrator.Stats()
	source := req.Source
	if ext := strings.ToLower(filepath.Ext(req.Filename)); ext != "" && ext != ".org" {
		imp, err := importer.Config{PDFFallback: s.cfg.PDFFallbackPdftotext}.ForFile(req.Filename)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return nil, "", false
		}
		start := time.Now()
		source, err = imp.Import(bytes.NewReader([]byte(req.Source)), req.Filename)
		if err != nil {
			jsonError(w, "import: "+err.Error(), http.StatusBadRequest)
			return nil, "", false
		}
		stats.Observe(pipeline.PhaseImport, time.Since(start))
	}

	opts := s.options.Clone()
	opts.Apply(req.Options)

	start := time.Now()
	doc, err := org.Parse(source, opts)
	if err != nil {
		var perr *org.ParseError
		if errors.As(err, &perr) {
			jsonParseError(w, perr)
			return nil, "", false
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	stats.Observe(pipeline.PhaseParse, time.Since(start))

	start = time.Now()
	out, err := pipeline.RenderDocument(doc, format, req.Export)
	if err != nil {
		s.log.Error("render failed", "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return nil, "", false
	}
	stats.Observe(pipeline.PhaseRender, time.Since(start))
	stats.Rendered(format)
	return out, format, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func jsonParseError(w http.ResponseWriter, perr *org.ParseError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error": perr.Error(),
		"line":  perr.Line,
	})
}
