package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/profile"
)

// Error codes.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidGrade     = "INVALID_GRADE"
	CodePredictionFailed = "PREDICTION_FAILED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL_ERROR"
)

// Response is the envelope for every API response.
type Response struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

type APIError struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []profile.FieldError `json:"fields,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.write(w, status, &Response{
		Status:   "success",
		Data:     data,
		Metadata: s.metadata(r),
	})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields []profile.FieldError) {
	s.write(w, status, &Response{
		Status:   "error",
		Metadata: s.metadata(r),
		Error:    &APIError{Code: code, Message: message, Fields: fields},
	})
}

func (s *Server) metadata(r *http.Request) Metadata {
	return Metadata{
		Timestamp: s.now().UTC(),
		RequestID: chimiddleware.GetReqID(r.Context()),
	}
}

func (s *Server) write(w http.ResponseWriter, status int, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error().Err(err).Msg("marshal api response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"status":"error","data":null,"error":{"code":%q,"message":"failed to encode response"}}`, CodeInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Warn().Err(err).Msg("write api response")
	}
}

// sanitizeLogValue escapes control characters in client-supplied strings.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
