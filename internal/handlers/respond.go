package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/metrics"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

// writeError renders business errors with their code and hides
// infrastructure errors behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := apperr.As(err); ok {
		logger.Debug.Printf("%s %s rejected: %v", r.Method, r.URL.Path, e)
		writeJSON(w, apperr.HTTPStatus(e), e)
		return
	}

	logger.Error.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.CodeValidation, "request body is empty")
		}
		return apperr.Newf(apperr.CodeValidation, "invalid request body: %v", err)
	}
	return nil
}

type authedFunc func(w http.ResponseWriter, r *http.Request, userID string)

// authed resolves the caller before running fn. Requests without a usable
// identity get 401; an unreachable session registry is a 500.
func authed(service *app.Service, fn authedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := service.Auth.UserID(r)
		if err != nil {
			if app.IsAuthFailure(err) {
				writeJSON(w, http.StatusUnauthorized, apperr.Unauthorized("authentication required"))
				return
			}
			writeError(w, r, err)
			return
		}
		fn(w, r, userID)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument records request durations labelled by route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.APIRequestDuration.WithLabelValues(
			path,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	})
}
