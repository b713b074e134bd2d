package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ratoneando/querylog"
	"ratoneando/scrapers"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
	recordTimeout       = 500 * time.Millisecond
)

// Searcher runs one aggregated product search.
type Searcher interface {
	Search(ctx context.Context, raw string) []scrapers.Product
}

type Handler struct {
	Searcher Searcher
	Queries  querylog.Store
	Log      zerolog.Logger

	pending sync.WaitGroup
}

func NewHandler(searcher Searcher, queries querylog.Store, log zerolog.Logger) *Handler {
	if queries == nil {
		queries = querylog.Nop{}
	}
	return &Handler{Searcher: searcher, Queries: queries, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.search)       // GET /?q=
	rg.GET("/search", h.search) // GET /search?q=
	rg.GET("/suggest", h.suggest)
	rg.GET("/health", h.health)
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	h.Log.Info().Str("q", q).Msg("search")

	if strings.TrimSpace(q) != "" {
		h.record(c.Request.Context(), q)
	}

	products := h.Searcher.Search(c.Request.Context(), q)
	if products == nil {
		products = []scrapers.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// record writes q to the query log in the background so a slow store never
// delays the search response.
func (h *Handler) record(parent context.Context, q string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), recordTimeout)
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		defer cancel()
		if err := h.Queries.Record(ctx, q); err != nil {
			h.Log.Warn().Err(err).Str("q", q).Msg("query log write failed")
		}
	}()
}

// Wait blocks until background query log writes have finished.
func (h *Handler) Wait() {
	h.pending.Wait()
}

func (h *Handler) suggest(c *gin.Context) {
	limit := parseInt(c.Query("limit"), defaultSuggestLimit)
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	entries, err := h.Queries.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.Log.Warn().Err(err).Msg("suggest failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "suggestions unavailable"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
