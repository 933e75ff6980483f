package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"chat-rules/domain"
)

// RecentViolation is one of the last violations relayed to a channel.
type RecentViolation struct {
	Channel   domain.ChannelID `json:"channel"`
	Kind      domain.RuleKind  `json:"kind"`
	MessageID string           `json:"message_id"`
	Timestamp string           `json:"timestamp"`
}

// MonitoringStats aggregates what the bot has done since it started.
type MonitoringStats struct {
	RulesAnnounced   uint64            `json:"rules_announced"`
	RulesEnded       uint64            `json:"rules_ended"`
	Violations       uint64            `json:"violations"`
	DegradedVerdicts uint64            `json:"degraded_verdicts"`
	AllocMemMb       uint64            `json:"alloc_mem_mb"`
	NumGC            uint32            `json:"num_gc"`
	RecentViolations []RecentViolation `json:"recent_violations"`
}

const maxRecentViolations = 20

// MonitoringManager keeps live counters and a periodic snapshot of them.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MonitoringStats
	recent      []RecentViolation

	RulesAnnounced   uint64
	RulesEnded       uint64
	Violations       uint64
	DegradedVerdicts uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{
		log:    log,
		recent: make([]RecentViolation, 0, maxRecentViolations),
	}
}

func (mm *MonitoringManager) IncrRulesAnnounced() {
	atomic.AddUint64(&mm.RulesAnnounced, 1)
}

func (mm *MonitoringManager) IncrRulesEnded() {
	atomic.AddUint64(&mm.RulesEnded, 1)
}

func (mm *MonitoringManager) IncrDegradedVerdicts(n int) {
	atomic.AddUint64(&mm.DegradedVerdicts, uint64(n))
}

// AddViolation counts a violation and keeps it among the recent ones.
func (mm *MonitoringManager) AddViolation(channel domain.ChannelID, kind domain.RuleKind, messageID string) {
	atomic.AddUint64(&mm.Violations, 1)

	mm.mu.Lock()
	defer mm.mu.Unlock()
	violation := RecentViolation{
		Channel:   channel,
		Kind:      kind,
		MessageID: messageID,
		Timestamp: time.Now().Format("15:04:05"),
	}
	// Newest first
	mm.recent = append([]RecentViolation{violation}, mm.recent...)
	if len(mm.recent) > maxRecentViolations {
		mm.recent = mm.recent[:maxRecentViolations]
	}
}

// Run refreshes the snapshot at every interval until ctx is done.
func (mm *MonitoringManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Monitoring manager stopped")
			return nil
		case <-ticker.C:
			mm.updateStats()
		}
	}
}

func (mm *MonitoringManager) updateStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats = MonitoringStats{
		RulesAnnounced:   atomic.LoadUint64(&mm.RulesAnnounced),
		RulesEnded:       atomic.LoadUint64(&mm.RulesEnded),
		Violations:       atomic.LoadUint64(&mm.Violations),
		DegradedVerdicts: atomic.LoadUint64(&mm.DegradedVerdicts),
		AllocMemMb:       m.Alloc / 1024 / 1024,
		NumGC:            m.NumGC,
		RecentViolations: append([]RecentViolation(nil), mm.recent...),
	}

	mm.log.Debug("Stats updated",
		"announced", mm.latestStats.RulesAnnounced,
		"violations", mm.latestStats.Violations,
		"degraded", mm.latestStats.DegradedVerdicts,
		"mem_mb", mm.latestStats.AllocMemMb,
	)
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}

// MonitoringWorker runs the manager under the supervisor.
type MonitoringWorker struct {
	manager  *MonitoringManager
	interval time.Duration
}

func NewMonitoringWorker(manager *MonitoringManager, interval time.Duration) *MonitoringWorker {
	return &MonitoringWorker{manager: manager, interval: interval}
}

func (w *MonitoringWorker) Run(ctx context.Context) error {
	return w.manager.Run(ctx, w.interval)
}
