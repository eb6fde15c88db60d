package api

import (
	"github.com/pvolkov/news-ingest/app/database"
	"github.com/pvolkov/news-ingest/app/scheduler"
	"github.com/pvolkov/news-ingest/app/source"
)

// StatsProvider exposes the most recent per-source run statuses.
type StatsProvider interface {
	LastRuns() map[string]scheduler.RunStatus
}

var _ StatsProvider = (*scheduler.Scheduler)(nil)

type Handler struct {
	seenRepo database.SeenURLRepository
	sources  *source.Cache
	stats    StatsProvider
}
