package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/storygraph/pkg/analysis"
	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/export"
	"github.com/matzehuels/storygraph/pkg/generator"
	"github.com/matzehuels/storygraph/pkg/render/raster"
	"github.com/matzehuels/storygraph/pkg/render/svg"
	"github.com/matzehuels/storygraph/pkg/story"
)

// =============================================================================
// Responses
// =============================================================================

// CanvasResponse is returned when a canvas is created or fetched.
type CanvasResponse struct {
	ID       string          `json:"id"`
	Created  time.Time       `json:"created"`
	Snapshot canvas.Snapshot `json:"snapshot"`
}

// AnalysisResponse is the body of GET /api/canvases/{id}/analysis.
type AnalysisResponse struct {
	analysis.Report
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// ExportRequest is the body of POST /api/canvases/{id}/export.
type ExportRequest struct {
	Dest   string `json:"dest"`
	Format string `json:"format,omitempty"`
}

// ExportResponse reports where an upload went.
type ExportResponse struct {
	Location string `json:"location"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode body")
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "canvases": s.Len()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var st story.Story
	if err := decodeBody(r, &st); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.createCanvas(w, r, st)
}

func (s *Server) createCanvas(w http.ResponseWriter, r *http.Request, st story.Story) {
	c := canvas.New(s.opts.Canvas, s.opts.Layouter, s.logger)
	if width, height := queryFloat(r, "width"), queryFloat(r, "height"); width > 0 && height > 0 {
		c.Resize(width, height)
	}
	if err := c.Load(r.Context(), st); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := newSession(uuid.NewString(), c)
	s.sessions.Add(sess.id, sess)
	s.logger.Info("canvas created", "id", sess.id, "scenes", len(st.Scenes), "title", st.Title)
	writeJSON(w, http.StatusCreated, CanvasResponse{ID: sess.id, Created: sess.created, Snapshot: c.Snapshot()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "canvas %q not found", id))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CanvasResponse{ID: sess.id, Created: sess.created, Snapshot: sess.canvas.Snapshot()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Remove(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "canvas %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	opts := []svg.SVGOption{svg.WithInteraction()}
	if queryBool(r, "viewport") {
		opts = append(opts, svg.WithViewport())
	}
	w.Header().Set("Content-Type", export.FormatSVG.ContentType())
	_, _ = w.Write(svg.RenderSVG(sess.canvas.Snapshot(), opts...))
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var opts []raster.Option
	if scale := queryFloat(r, "scale"); scale > 0 {
		opts = append(opts, raster.WithScale(scale))
	}
	if queryBool(r, "viewport") {
		opts = append(opts, raster.WithViewport())
	}
	data, err := raster.RenderPNG(sess.canvas.Snapshot(), opts...)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeExportFailed, err, "render png"))
		return
	}
	w.Header().Set("Content-Type", export.FormatPNG.ContentType())
	_, _ = w.Write(data)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	rep := analysis.Analyze(sess.canvas.Graph())
	recs := rep.Recommendations()
	if recs == nil {
		recs = []string{}
	}
	writeJSON(w, http.StatusOK, AnalysisResponse{Report: rep, Summary: rep.Summary(), Recommendations: recs})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format := export.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	data, err := export.Encode(format, sess.canvas.Story(), sess.canvas.Snapshot())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="story`+format.Ext()+`"`)
	_, _ = w.Write(data)
}

// handleUpload writes an export to object storage. File destinations are
// refused so clients cannot write to the server's filesystem.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req ExportRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !export.IsS3(req.Dest) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidPath, "export destination must be an s3:// url"))
		return
	}

	format := export.FormatFor(req.Dest)
	if req.Format != "" {
		var err error
		if format, err = export.ParseFormat(req.Format); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	data, err := export.Encode(format, sess.canvas.Story(), sess.canvas.Snapshot())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sink, name, err := export.Open(req.Dest, s.opts.S3)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loc, err := sink.Write(r.Context(), name, data, format.ContentType())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("canvas exported", "id", sess.id, "location", loc, "bytes", len(data))
	writeJSON(w, http.StatusOK, ExportResponse{Location: loc, Format: string(format), Bytes: len(data)})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var a Action
	if err := decodeBody(r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := Apply(sess.canvas, a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if out.Changed {
		sess.publish()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.opts.Generator == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "story generation is not configured"))
		return
	}
	var req generator.Request
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.opts.Generator.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.createCanvas(w, r, st)
}

func queryFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}
