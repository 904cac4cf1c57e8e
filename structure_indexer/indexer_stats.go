package structure_indexer

import (
	"sync"
	"time"
)

type indexStats struct {
	mutex         sync.RWMutex
	TotalRuns     int64
	FailedRuns    int64
	SharedRuns    int64
	LastDuration  time.Duration
	LastRunTime   time.Time
	LastError     string
	LastResetTime time.Time
}

func newIndexStats() *indexStats {
	return &indexStats{LastResetTime: time.Now()}
}

func (s *indexStats) recordRun(d time.Duration, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.TotalRuns++
	s.LastDuration = d
	s.LastRunTime = time.Now()
	if err != nil {
		s.FailedRuns++
		s.LastError = err.Error()
	} else {
		s.LastError = ""
	}
}

// recordShared counts callers that joined a run already in flight.
func (s *indexStats) recordShared() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.SharedRuns++
}

// GetPerformanceStats returns run counters for the indexer
func (indexer *StructureIndexer) GetPerformanceStats() map[string]interface{} {
	s := indexer.stats
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	failureRate := 0.0
	if s.TotalRuns > 0 {
		failureRate = float64(s.FailedRuns) / float64(s.TotalRuns) * 100
	}

	lastRun := ""
	if !s.LastRunTime.IsZero() {
		lastRun = s.LastRunTime.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"total_runs":           s.TotalRuns,
		"failed_runs":          s.FailedRuns,
		"shared_runs":          s.SharedRuns,
		"failure_rate_percent": failureRate,
		"last_duration_ms":     s.LastDuration.Milliseconds(),
		"last_duration_human":  s.LastDuration.String(),
		"last_run":             lastRun,
		"last_error":           s.LastError,
		"uptime_human":         time.Since(s.LastResetTime).Round(time.Second).String(),
	}
}
