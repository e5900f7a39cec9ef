package complaints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/reclamo-io/platform/pkg/common/logger"
	"github.com/reclamo-io/platform/pkg/common/middleware"
	"github.com/reclamo-io/platform/pkg/enrichment"
)

type HTTPHandler struct {
	service  *Service
	adminKey string
	maxBody  int64
}

func NewHTTPHandler(service *Service, adminKey string, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, adminKey: adminKey, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/complaints/", h.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/complaints/", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/complaints/{id}", h.handleGet).Methods(http.MethodGet)
	router.Handle("/complaints/{id}/close",
		middleware.RequireAPIKey(h.adminKey)(http.HandlerFunc(h.handleClose))).
		Methods(http.MethodPatch)
}

type createRequest struct {
	Text string `json:"text"`
}

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid complaint payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sub := enrichment.Submission{
		Text:         req.Text,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
	}

	c, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		if enrichment.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to submit complaint")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "complaint not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch complaint")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list complaints")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *HTTPHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.service.Close(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "complaint not found", http.StatusNotFound)
		case errors.Is(err, ErrAlreadyClosed):
			http.Error(w, "complaint already closed", http.StatusConflict)
		default:
			logger.Log.WithError(err).Error("failed to close complaint")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
	}

	if raw := q.Get("is_spam"); raw != "" {
		isSpam, err := strconv.ParseBool(raw)
		if err != nil {
			return Filter{}, errors.New("is_spam must be a boolean")
		}
		filter.IsSpam = &isSpam
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return Filter{}, errors.New("start_date must be RFC3339 or YYYY-MM-DD")
		}
		filter.StartDate = &t
	}

	if raw := q.Get("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return Filter{}, errors.New("end_date must be RFC3339 or YYYY-MM-DD")
		}
		filter.EndDate = &t
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return Filter{}, errors.New("limit must be a non-negative integer")
		}
		filter.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Filter{}, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
