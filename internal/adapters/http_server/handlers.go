// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
)

const defaultMaxBodyBytes = 1 << 20

type Handlers struct {
	Q *app.QueryService
	C *app.SubmitService

	MaxBodyBytes int64
	WriteRPS     float64
	WriteBurst   int
}

type errorBody struct {
	Error string `json:"error"`
}

// MountHandlers serves GET and POST on every path; other methods get 405.
func (s *Server) MountHandlers(h *Handlers) {
	s.mux.MethodNotAllowed(methodNotAllowed)
	limited := s.mux.With(RateLimit(h.WriteRPS, h.WriteBurst))
	for _, p := range []string{"/", "/*"} {
		s.mux.Get(p, h.listReviews)
		limited.Post(p, h.createReview)
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, POST")
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Int("status", status).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, err := json.Marshal(errorBody{Error: msg})
	if err != nil {
		body = []byte(`{"error":"internal server error"}`)
	}
	writeJSON(w, status, body)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body, nil
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	// url.Query() drops malformed pairs silently; parse explicitly to reject them.
	qs, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed query string: "+err.Error())
		return
	}
	tr, err := domain.ParseTimeRange(qs.Get("start_date"), qs.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.Q.ListReviews(r.Context(), domain.ReviewQuery{Location: qs.Get("location"), Range: tr})
	if err != nil {
		logger.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, "sentiment analysis failed")
		return
	}

	etag, body, err := calcETagAndBody(out)
	if err != nil {
		logger.Error().Err(err).Msg("marshal reviews failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, body)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	form, err := readForm(w, r, h.MaxBodyBytes)
	if err != nil {
		h.reject(w, err.Error())
		return
	}

	rv, err := h.C.Submit(r.Context(), domain.Submission{
		ReviewBody: form.Get("ReviewBody"),
		Location:   form.Get("Location"),
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			h.reject(w, ve.Msg)
			return
		}
		logger.Error().Err(err).Msg("submit review failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(rv)
	if err != nil {
		logger.Error().Err(err).Msg("marshal review failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	observability.ObserveSubmission("created")
	logger.Info().Str("review_id", rv.ReviewID).Str("location", rv.Location).Msg("review created")
	writeJSON(w, http.StatusCreated, body)
}

// readForm parses the body as form-encoded whatever Content-Type says.
func readForm(w http.ResponseWriter, r *http.Request, limit int64) (url.Values, error) {
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.Invalid(domain.ErrMalformedRequest, "request body too large")
		}
		return nil, domain.Invalid(domain.ErrMalformedRequest, "read request body: "+err.Error())
	}
	if !utf8.Valid(raw) {
		return nil, domain.Invalid(domain.ErrMalformedRequest, "request body is not valid UTF-8")
	}
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, domain.Invalid(domain.ErrMalformedRequest, "malformed form body: "+err.Error())
	}
	return form, nil
}

func (h *Handlers) reject(w http.ResponseWriter, msg string) {
	observability.ObserveSubmission("invalid")
	writeError(w, http.StatusBadRequest, msg)
}
