package database

import (
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics collects and tracks database performance metrics
type Metrics struct {
	db     *sql.DB
	logger *zap.Logger

	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64

	slowQueryThreshold time.Duration

	stopCh chan struct{}
}

// MetricsSnapshot provides a point-in-time view of metrics
type MetricsSnapshot struct {
	QueryCount       int64         `json:"query_count"`
	ErrorCount       int64         `json:"error_count"`
	SlowQueryCount   int64         `json:"slow_query_count"`
	AvgQueryDuration time.Duration `json:"avg_query_duration"`
	DBStats          sql.DBStats   `json:"db_stats"`
	Timestamp        time.Time     `json:"timestamp"`
}

// NewMetrics creates a new metrics collector
func NewMetrics(db *sql.DB, logger *zap.Logger) *Metrics {
	m := &Metrics{
		db:                 db,
		logger:             logger,
		slowQueryThreshold: 100 * time.Millisecond,
		stopCh:             make(chan struct{}),
	}

	go m.logPeriodically()

	return m
}

// RecordQuery records metrics for a database query
func (m *Metrics) RecordQuery(queryType string, duration time.Duration, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))

	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}

	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}
}

// Snapshot returns current metrics snapshot
func (m *Metrics) Snapshot() *MetricsSnapshot {
	queryCount := atomic.LoadInt64(&m.queryCount)
	totalDuration := atomic.LoadInt64(&m.queryDuration)

	var avgDuration time.Duration
	if queryCount > 0 {
		avgDuration = time.Duration(totalDuration / queryCount)
	}

	return &MetricsSnapshot{
		QueryCount:       queryCount,
		ErrorCount:       atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:   atomic.LoadInt64(&m.slowQueryCount),
		AvgQueryDuration: avgDuration,
		DBStats:          m.db.Stats(),
		Timestamp:        time.Now(),
	}
}

func (m *Metrics) logPeriodically() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snapshot := m.Snapshot()
			m.logger.Info("database metrics",
				zap.Int64("queries", snapshot.QueryCount),
				zap.Int64("errors", snapshot.ErrorCount),
				zap.Int64("slow_queries", snapshot.SlowQueryCount),
				zap.Duration("avg_duration", snapshot.AvgQueryDuration),
				zap.Int("open_connections", snapshot.DBStats.OpenConnections),
			)
		case <-m.stopCh:
			return
		}
	}
}

// Stop stops the metrics collection
func (m *Metrics) Stop() {
	close(m.stopCh)
}
