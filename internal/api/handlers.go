package api

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/grade"
	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/metrics"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/report"
)

const maxBodyBytes = 64 << 10

// TierInfo describes a performance tier.
type TierInfo struct {
	Grade    float64        `json:"grade"`
	Tier     grade.Tier     `json:"tier"`
	Label    string         `json:"label"`
	Emphasis grade.Emphasis `json:"emphasis"`
	Rank     int            `json:"rank"`
}

// RecommendRequest asks for recommendations for a known grade.
type RecommendRequest struct {
	Profile        profile.Input `json:"profile"`
	PredictedGrade *float64      `json:"predicted_grade"`
}

// PredictResponse is a full report plus its share link.
type PredictResponse struct {
	report.Report
	Mailto string `json:"mailto"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]string{
		"status":    "ok",
		"predictor": s.predictor.Name(),
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("grade")
	if raw == "" {
		s.respondError(w, r, http.StatusBadRequest, CodeInvalidGrade, "grade query parameter is required", nil)
		return
	}
	g, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(g) || math.IsInf(g, 0) {
		s.respondError(w, r, http.StatusBadRequest, CodeInvalidGrade, "grade must be a finite number", nil)
		return
	}

	t := grade.Classify(g)
	s.respondJSON(w, r, http.StatusOK, TierInfo{
		Grade:    g,
		Tier:     t,
		Label:    t.Label(),
		Emphasis: t.Emphasis(),
		Rank:     t.Rank(),
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, profile.Fields())
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var req RecommendRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, "request body is not a valid recommend request", nil)
		return
	}

	p, err := profile.New(req.Profile)
	if err != nil {
		s.respondProfileError(w, r, err)
		return
	}
	if req.PredictedGrade == nil {
		s.respondError(w, r, http.StatusBadRequest, CodeValidation, "predicted_grade is required",
			[]profile.FieldError{{Column: "predicted_grade", Rule: "required"}})
		return
	}

	a := advisor.Assess(p, *req.PredictedGrade)
	metrics.RecordRecommendations(a.Recommendations)
	s.respondJSON(w, r, http.StatusOK, a)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	p, err := profile.Parse(body)
	if err != nil {
		s.respondProfileError(w, r, err)
		return
	}

	name := s.predictor.Name()
	start := time.Now()
	g, err := s.predictor.Predict(r.Context(), p)
	if err != nil {
		metrics.RecordPredictionError(name, time.Since(start))
		logging.Error().Str("predictor", name).Str("error", sanitizeLogValue(err.Error())).Msg("prediction failed")
		s.respondError(w, r, http.StatusBadGateway, CodePredictionFailed, "prediction failed: "+err.Error(), nil)
		return
	}

	a := advisor.Assess(p, g)
	metrics.RecordPrediction(name, time.Since(start), a)

	rep := report.New(p, a, s.now())
	s.respondJSON(w, r, http.StatusOK, PredictResponse{Report: rep, Mailto: rep.MailtoLink()})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge, CodeInvalidJSON, "request body too large", nil)
			return nil, false
		}
		s.respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, "could not read request body", nil)
		return nil, false
	}
	return body, true
}

func (s *Server) respondProfileError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *profile.InvalidInputError
	if errors.As(err, &invalid) {
		s.respondError(w, r, http.StatusBadRequest, CodeValidation, invalid.Error(), invalid.Fields)
		return
	}
	s.respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, "request body is not a valid profile", nil)
}
