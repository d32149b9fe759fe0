package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/roadweave/pkg/buildinfo"
	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen"
	"github.com/matzehuels/roadweave/pkg/pipeline"
)

type strategyInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Formats     []string `json:"formats"`
}

type statsResponse struct {
	Segments     int     `json:"segments"`
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	Rejected     int     `json:"rejected,omitempty"`
	GenerateMS   float64 `json:"generate_ms"`
	RenderMS     float64 `json:"render_ms"`
	GraphCached  bool    `json:"graph_cached"`
	RenderCached bool    `json:"render_cached"`
}

type generateResponse struct {
	RunID    string          `json:"run_id"`
	Strategy string          `json:"strategy"`
	Seed     uint64          `json:"seed"`
	Hash     string          `json:"hash"`
	Stats    statsResponse   `json:"stats"`
	Graph    json.RawMessage `json:"graph"`

	// Artifacts holds every requested format other than json. PNG data
	// is base64 encoded; the rest is returned as text.
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

type batchRequest struct {
	pipeline.Options
	Strategies []string `json:"strategies,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatPNG:    "image/png",
	pipeline.FormatSketch: "image/svg+xml",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	formats := []string{
		pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG,
		pipeline.FormatPNG, pipeline.FormatSketch,
	}
	out := make([]strategyInfo, 0, len(gen.Strategies))
	for _, st := range gen.Strategies {
		out = append(out, strategyInfo{
			Name:        string(st),
			Description: st.Description(),
			Formats:     formats,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		writeError(w, err)
		return
	}
	if err := s.limits.check(opts); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGenerateResponse(res))
}

func (s *Server) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.limits.check(req.Options); err != nil {
		writeError(w, err)
		return
	}
	strategies := gen.Strategies
	if len(req.Strategies) > 0 {
		strategies = make([]gen.Strategy, 0, len(req.Strategies))
		for _, name := range req.Strategies {
			st, err := gen.ParseStrategy(name)
			if err != nil {
				writeError(w, err)
				return
			}
			strategies = append(strategies, st)
		}
	}

	results, err := s.runner.GenerateAll(r.Context(), req.Options, strategies)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]generateResponse, len(results))
	for i, res := range results {
		out[i] = newGenerateResponse(res)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleArtifact renders a single format and writes it raw. Query
// parameters seed, direction, precision, scale, labels and width map to
// the pipeline options of the same name; generator parameters keep their
// defaults.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts, err := queryOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Strategy = chi.URLParam(r, "strategy")
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-Id", res.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options
	var err error

	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", v)
		}
	}
	opts.Direction = q.Get("direction")
	if v := q.Get("precision"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid precision %q", v)
		}
		opts.Precision = &p
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
	}
	if v := q.Get("width"); v != "" {
		if opts.Width, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid width %q", v)
		}
	}
	if v := q.Get("labels"); v != "" {
		if opts.Labels, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid labels %q", v)
		}
	}
	return opts, nil
}

func newGenerateResponse(res *pipeline.Result) generateResponse {
	out := generateResponse{
		RunID:    res.RunID,
		Strategy: string(res.Strategy),
		Seed:     res.Seed,
		Hash:     res.GraphHash,
		Graph:    res.Graph,
		Stats: statsResponse{
			Segments:     res.Stats.Segments,
			Nodes:        res.Stats.Nodes,
			Edges:        res.Stats.Edges,
			Rejected:     res.Stats.Rejected,
			GenerateMS:   float64(res.Stats.GenerateTime.Microseconds()) / 1000,
			RenderMS:     float64(res.Stats.RenderTime.Microseconds()) / 1000,
			GraphCached:  res.CacheInfo.GraphHit,
			RenderCached: res.CacheInfo.RenderHit,
		},
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if out.Artifacts == nil {
			out.Artifacts = make(map[string]string)
		}
		if format == pipeline.FormatPNG {
			out.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		} else {
			out.Artifacts[format] = string(data)
		}
	}
	return out
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, statusFor(err), body)
}
