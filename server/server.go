package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/index"
	"github.com/proteoform/thyme/peptide"
	"github.com/proteoform/thyme/search"
	"github.com/proteoform/thyme/spectrum"
	"github.com/proteoform/thyme/storage"
)

// defaultTakeTopN is the peak budget used when a request doesn't override
// max_peaks.
const defaultTakeTopN = 150

// Server routes search requests against one fragment index and one spectrum
// store. Safe for concurrent use.
type Server struct {
	index   *index.Index
	spectra storage.SpectrumRepository
	logger  *slog.Logger
	metrics *metrics
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server over a built index and a spectrum repository.
func New(ix *index.Index, spectra storage.SpectrumRepository, opts ...Option) (*Server, error) {
	if ix == nil {
		return nil, search.ErrIndexRequired
	}

	s := &Server{
		index:   ix,
		spectra: spectra,
		logger:  slog.Default(),
		metrics: newMetrics(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /spectrum/{scan}", s.metrics.instrument("get_spectrum", s.handleGetSpectrum))
	s.mux.HandleFunc("POST /spectrum/{scan}", s.metrics.instrument("score_spectrum", s.handleScoreSpectrum))
	s.mux.HandleFunc("POST /spectrum/{scan}/peptide", s.metrics.instrument("annotate_peptide", s.handleAnnotatePeptide))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.handler())

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ScoreRequest is the body of POST /spectrum/{scan}.
type ScoreRequest struct {
	PrecursorTolerance core.Tolerance `json:"precursor_tolerance"`
	FragmentTolerance  core.Tolerance `json:"fragment_tolerance"`
	// ReportPSMs bounds the ranked matches returned per hypothesis.
	// Defaults to 1.
	ReportPSMs int  `json:"report_psms"`
	Chimera    bool `json:"chimera"`
	// Deisotope defaults to true when omitted.
	Deisotope *bool `json:"deisotope"`
	// MaxPeaks overrides the preprocessing peak budget.
	MaxPeaks int `json:"max_peaks"`
}

// AnnotateRequest is the body of POST /spectrum/{scan}/peptide.
type AnnotateRequest struct {
	Sequence string  `json:"sequence"`
	Nterm    float64 `json:"nterm"`
	Cterm    float64 `json:"cterm"`
	// Modifications is a per-residue mass delta list parallel to Sequence,
	// or absent for an unmodified peptide.
	Modifications     []float64      `json:"modifications"`
	FragmentTolerance core.Tolerance `json:"fragment_tolerance"`
	Deisotope         *bool          `json:"deisotope"`
}

func (s *Server) handleGetSpectrum(w http.ResponseWriter, r *http.Request) {
	scanID, ok := s.scanID(w, r)
	if !ok {
		return
	}

	deisotope := true
	if v := r.URL.Query().Get("deisotope"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid deisotope flag")
			return
		}
		deisotope = parsed
	}
	maxPeaks := defaultTakeTopN
	if v := r.URL.Query().Get("max_peaks"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid max_peaks")
			return
		}
		maxPeaks = parsed
	}

	processed, err := s.processSpectrum(r, scanID, deisotope, maxPeaks)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, processed)
}

func (s *Server) handleScoreSpectrum(w http.ResponseWriter, r *http.Request) {
	scanID, ok := s.scanID(w, r)
	if !ok {
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ReportPSMs == 0 {
		req.ReportPSMs = 1
	}

	scorer, err := search.NewScorer(s.index, req.PrecursorTolerance, req.FragmentTolerance,
		search.WithChimera(req.Chimera), search.WithLogger(s.logger))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	maxPeaks := req.MaxPeaks
	if maxPeaks == 0 {
		maxPeaks = defaultTakeTopN
	}
	processed, err := s.processSpectrum(r, scanID, req.Deisotope == nil || *req.Deisotope, maxPeaks)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	psms, err := scorer.Score(processed, req.ReportPSMs)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if psms == nil {
		psms = []*core.PSM{}
	}
	s.metrics.psms.Add(float64(len(psms)))
	writeJSON(w, http.StatusOK, psms)
}

func (s *Server) handleAnnotatePeptide(w http.ResponseWriter, r *http.Request) {
	scanID, ok := s.scanID(w, r)
	if !ok {
		return
	}

	var req AnnotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := req.FragmentTolerance.Validate(); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	pep, err := peptide.Assemble(req.Sequence, req.Nterm, req.Cterm, req.Modifications)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	processed, err := s.processSpectrum(r, scanID, req.Deisotope == nil || *req.Deisotope, defaultTakeTopN)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	matched := search.AnnotatePeaks(pep, processed, req.FragmentTolerance)
	if matched == nil {
		matched = []core.MatchedPeak{}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processSpectrum fetches a stored spectrum and runs preprocessing with the
// index's fragment m/z window.
func (s *Server) processSpectrum(r *http.Request, scanID int, deisotope bool, maxPeaks int) (*spectrum.Processed, error) {
	raw, err := s.spectra.GetSpectrum(r.Context(), scanID)
	if err != nil {
		return nil, err
	}

	params := s.index.Params()
	proc := spectrum.NewProcessor(maxPeaks, params.FragmentMinMz, params.FragmentMaxMz, deisotope)
	return proc.Process(raw)
}

func (s *Server) scanID(w http.ResponseWriter, r *http.Request) (int, bool) {
	scanID, err := strconv.Atoi(r.PathValue("scan"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scan number")
		return 0, false
	}
	return scanID, true
}

// writeFailure maps domain errors to HTTP status codes.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "spectrum not found")
	case errors.Is(err, core.ErrInput) || errors.Is(err, peptide.ErrUnknownResidue):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
