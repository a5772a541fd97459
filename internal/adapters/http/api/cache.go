package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/mlbsim/internal/adapters/cache"
)

// CacheDependencies exposes cache inspection.
type CacheDependencies interface {
	CacheInfo(season int) (cache.Info, error)
}

// CacheHandler handles cache status requests.
type CacheHandler struct {
	deps CacheDependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps CacheDependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

// HandleStatus handles GET /api/cache/status?season=N requests. Without a
// season the default one is reported.
func (h *CacheHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.cache_status"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season := 0
	if raw := r.URL.Query().Get("season"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(w, "cache_status", WrapKind(op, ErrBadRequest, errors.New("season must be a positive integer")))
			return
		}
		season = n
	}
	info, err := h.deps.CacheInfo(season)
	if err != nil {
		fail(w, "cache_status", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
