package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/klacilab/region-rankings/internal/assemble"
	"github.com/klacilab/region-rankings/internal/model"
	"github.com/klacilab/region-rankings/internal/observability"
	"github.com/klacilab/region-rankings/internal/rank"
	"github.com/klacilab/region-rankings/internal/stats"
)

// DataService is the read surface the handlers serve.
type DataService interface {
	GetRegions(ctx context.Context, limit, offset *int) (*model.RegionsPage, error)
	GetRegion(ctx context.Context, id int) (*model.RegionWithDetails, error)
	GetProvinceWithRegions(ctx context.Context, provinceID int, category *rank.ScoreCategory, limit *int) ([]model.Region, error)
	GetProvincesWithRegions(ctx context.Context) ([]model.ProvinceWithRegions, error)
	GetRegionKeyIndexScores(ctx context.Context, regionID int) ([]model.KeyIndexScore, error)
	GetRegionKeyIndexScoresByYear(ctx context.Context, regionID, year int) ([]model.KeyIndexScore, error)
}

type Handler struct {
	logger *slog.Logger
	svc    DataService
}

func NewHandler(logger *slog.Logger, svc DataService) *Handler {
	return &Handler{logger: logger, svc: svc}
}

func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		observability.ObserveHTTPRequest(r.Method, "/data/regions", sw.code, time.Since(start).Seconds())
	}()

	limit, err := optIntQuery(r, "limit")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}
	offset, err := optIntQuery(r, "offset")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.svc.GetRegions(r.Context(), limit, offset)
	if err != nil {
		h.serverError(sw, r, err)
		return
	}
	writeJSON(sw, page)
}

func (h *Handler) GetRegion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		observability.ObserveHTTPRequest(r.Method, "/data/regions/{id}", sw.code, time.Since(start).Seconds())
	}()

	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}

	region, err := h.svc.GetRegion(r.Context(), id)
	if errors.Is(err, stats.ErrNotFound) {
		http.Error(sw, fmt.Sprintf("region %d not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(sw, r, err)
		return
	}
	writeJSON(sw, region)
}

func (h *Handler) ProvincesWithRegions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		observability.ObserveHTTPRequest(r.Method, "/data/provinces-with-regions", sw.code, time.Since(start).Seconds())
	}()

	provinces, err := h.svc.GetProvincesWithRegions(r.Context())
	if err != nil {
		h.serverError(sw, r, err)
		return
	}
	writeJSON(sw, provinces)
}

// ProvinceWithRegions serves one province's region ranking. An unknown
// province id answers 200 with a null body rather than 404: callers treat
// the absence itself as data.
func (h *Handler) ProvinceWithRegions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		observability.ObserveHTTPRequest(r.Method, "/data/province/{id}", sw.code, time.Since(start).Seconds())
	}()

	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}

	var category *rank.ScoreCategory
	if raw := strings.TrimSpace(r.URL.Query().Get("scoreType")); raw != "" {
		c, ok := rank.ParseScoreCategory(raw)
		if !ok {
			http.Error(sw, fmt.Sprintf("unknown scoreType %q", raw), http.StatusBadRequest)
			return
		}
		category = &c
	}

	limit, err := optIntQuery(r, "limit")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}

	regions, err := h.svc.GetProvinceWithRegions(r.Context(), id, category, limit)
	if err != nil {
		h.serverError(sw, r, err)
		return
	}
	writeJSON(sw, regions)
}

func (h *Handler) RegionKeyIndexScores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		observability.ObserveHTTPRequest(r.Method, "/data/regions/{id}/key-index-scores", sw.code, time.Since(start).Seconds())
	}()

	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}

	scores, err := h.svc.GetRegionKeyIndexScores(r.Context(), id)
	if err != nil {
		h.serverError(sw, r, err)
		return
	}
	writeJSON(sw, scores)
}

func (h *Handler) RegionKeyIndexScoresByYear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		observability.ObserveHTTPRequest(r.Method, "/data/regions/{id}/key-index-scores/{year}", sw.code, time.Since(start).Seconds())
	}()

	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}
	year, err := pathInt(r, "year")
	if err != nil {
		http.Error(sw, err.Error(), http.StatusBadRequest)
		return
	}

	scores, err := h.svc.GetRegionKeyIndexScoresByYear(r.Context(), id, year)
	if err != nil {
		h.serverError(sw, r, err)
		return
	}
	writeJSON(sw, scores)
}

// serverError hides internals from the response body; the detail goes to
// the log. Integrity violations keep their own message so operators can
// tell bad rows from transient store failures.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"err", err,
	)
	if errors.Is(err, assemble.ErrDataIntegrity) {
		http.Error(w, "data integrity error", http.StatusInternalServerError)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func optIntQuery(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q is not an integer", name, raw)
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid %s: must be non-negative", name)
	}
	return &n, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return n, nil
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
