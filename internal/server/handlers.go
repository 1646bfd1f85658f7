package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Response string         `json:"response"`
	Answer   string         `json:"answer"`
	Params   map[string]any `json:"params"`
}

// EvaluateResponse is the body returned by POST /evaluate.
type EvaluateResponse struct {
	Command      string        `json:"command"`
	Result       grader.Result `json:"result"`
	SubmissionID string        `json:"submission_id"`
}

// PreviewRequest is the body of POST /preview.
type PreviewRequest struct {
	Response string         `json:"response"`
	Params   map[string]any `json:"params"`
}

// PreviewResponse is the body returned by POST /preview.
type PreviewResponse struct {
	Command string `json:"command"`
	Result  struct {
		Preview grader.PreviewResult `json:"preview"`
	} `json:"result"`
	SubmissionID string `json:"submission_id"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error        string `json:"error"`
	SubmissionID string `json:"submission_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	logger := s.logger.With("submission_id", id, "request_id", middleware.GetReqID(r.Context()))

	var req EvaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), SubmissionID: id})
		return
	}

	st := s.current()
	start := time.Now()
	params, err := st.Params(req.Params)
	if err != nil {
		s.metrics.evaluations.WithLabelValues("unknown", outcomeAuthoring).Inc()
		logger.Warn("invalid params", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), SubmissionID: id})
		return
	}
	comparison := params.Mode().String()

	res, err := st.Evaluator.Evaluate(req.Response, req.Answer, params)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.evaluations.WithLabelValues(comparison, outcomeAuthoring).Inc()
		logger.Warn("authoring error", "comparison", comparison, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), SubmissionID: id})
		return
	}

	outcome := outcomeIncorrect
	if res.IsCorrect {
		outcome = outcomeCorrect
	}
	s.metrics.evaluations.WithLabelValues(comparison, outcome).Inc()
	logger.Info("evaluated", "comparison", comparison, "correct", res.IsCorrect)

	writeJSON(w, http.StatusOK, EvaluateResponse{Command: "eval", Result: res, SubmissionID: id})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	logger := s.logger.With("submission_id", id, "request_id", middleware.GetReqID(r.Context()))

	var req PreviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), SubmissionID: id})
		return
	}

	st := s.current()
	params, err := st.Params(req.Params)
	if err == nil {
		var resp PreviewResponse
		resp.Result.Preview, err = st.Evaluator.Preview(req.Response, params)
		if err == nil {
			s.metrics.previews.WithLabelValues(outcomeOK).Inc()
			resp.Command = "preview"
			resp.SubmissionID = id
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	s.metrics.previews.WithLabelValues(outcomeAuthoring).Inc()
	logger.Warn("authoring error", "error", err)
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), SubmissionID: id})
}

// errEmptyBody is returned for a request without a body.
var errEmptyBody = errors.New("request body is empty")

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return errEmptyBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
