package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvolkov/news-ingest/app/database"
	"github.com/pvolkov/news-ingest/app/source"
)

func NewHandler(seenRepo database.SeenURLRepository, sources *source.Cache, stats StatsProvider) *Handler {
	return &Handler{
		seenRepo: seenRepo,
		sources:  sources,
		stats:    stats,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.sources.GetSourceCount(),
	}

	if count, err := h.seenRepo.GetSeenCount(c.Request.Context()); err == nil {
		health["seen_urls"] = count
	} else {
		slog.Error("Database error", "operation", "get_seen_count", "error", err)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"runs": h.stats.LastRuns(),
	})
}

func (h *Handler) ListSources(c *gin.Context) {
	sources := h.sources.GetSources()
	out := make([]gin.H, 0, len(sources))
	for _, src := range sources {
		out = append(out, gin.H{
			"name":     src.Name,
			"query":    src.Query,
			"language": src.Language,
			"enabled":  src.IsEnabled(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sources": out})
}
