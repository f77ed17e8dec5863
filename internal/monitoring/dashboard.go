package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/events"
	"badgehub/internal/services"
	"badgehub/internal/utils/appinfo"

	"go.uber.org/zap"
)

// ===============================
// DASHBOARD CORE
// ===============================

// Dashboard aggregates runtime, dependency and registry figures for
// operators.
type Dashboard struct {
	services  *services.ServiceCollection
	logger    *zap.Logger
	startTime time.Time
	build     appinfo.Info

	environment string
	thresholds  Thresholds
}

// Thresholds mark resource figures as warning or critical.
type Thresholds struct {
	HeapWarningBytes   uint64
	HeapCriticalBytes  uint64
	GoroutinesWarning  int
	GoroutinesCritical int
}

// DefaultThresholds returns conservative limits for a single instance.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeapWarningBytes:   256 << 20,
		HeapCriticalBytes:  512 << 20,
		GoroutinesWarning:  1000,
		GoroutinesCritical: 2000,
	}
}

// NewDashboard creates a dashboard over sc.
func NewDashboard(sc *services.ServiceCollection, environment string, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		services:    sc,
		logger:      logger,
		startTime:   time.Now(),
		build:       appinfo.Read(),
		environment: environment,
		thresholds:  DefaultThresholds(),
	}
}

// ===============================
// DATA STRUCTURES
// ===============================

// Snapshot is one reading of the dashboard.
type Snapshot struct {
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Uptime      string       `json:"uptime"`
	Environment string       `json:"environment"`
	Build       appinfo.Info `json:"build"`

	Resources ResourceHealth          `json:"resources"`
	Cache     *cache.CacheStats       `json:"cache,omitempty"`
	Events    *events.EventBusStats   `json:"events,omitempty"`
	Registry  RegistrySummary         `json:"registry"`
	Wallet    WalletSummary           `json:"wallet"`
	Health    *services.ServiceHealth `json:"health"`

	Alerts []SystemAlert `json:"alerts,omitempty"`
}

// ResourceHealth holds process resource readings.
type ResourceHealth struct {
	Memory     ResourceMetric `json:"memory"`
	Goroutines ResourceMetric `json:"goroutines"`
}

// ResourceMetric is a reading with its status against thresholds.
type ResourceMetric struct {
	Value     interface{} `json:"value"`
	Unit      string      `json:"unit"`
	Status    string      `json:"status"`
	Threshold interface{} `json:"threshold,omitempty"`
}

// RegistrySummary counts the badge registry.
type RegistrySummary struct {
	Badges          int     `json:"badges"`
	TotalRecipients int     `json:"total_recipients"`
	IsLoading       bool    `json:"is_loading"`
	LastError       *string `json:"last_error,omitempty"`
}

// WalletSummary describes the wallet session without exposing the profile.
type WalletSummary struct {
	ProviderAvailable bool   `json:"provider_available"`
	Connected         bool   `json:"connected"`
	Network           string `json:"network"`
}

// SystemAlert flags a reading that crossed a threshold.
type SystemAlert struct {
	Severity  string    `json:"severity"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ===============================
// CORE LOGIC
// ===============================

// Snapshot collects every figure. Failing sources are reported as alerts
// rather than errors.
func (d *Dashboard) Snapshot(ctx context.Context) *Snapshot {
	now := time.Now()
	snap := &Snapshot{
		Timestamp:   now,
		Uptime:      now.Sub(d.startTime).Truncate(time.Second).String(),
		Environment: d.environment,
		Build:       d.build,
		Resources:   d.resources(),
		Health:      d.services.HealthCheck(ctx),
	}
	snap.Status = snap.Health.Status

	if d.services.Cache != nil {
		stats, err := d.services.Cache.Stats(ctx)
		if err != nil {
			snap.alert("warning", "cache", fmt.Sprintf("stats unavailable: %v", err))
		} else {
			snap.Cache = stats
		}
	}
	if d.services.EventBus != nil {
		snap.Events = d.services.EventBus.Stats()
	}

	if state, err := d.services.BadgeService.State(ctx); err != nil {
		snap.alert("warning", "registry", fmt.Sprintf("state unavailable: %v", err))
	} else {
		snap.Registry = RegistrySummary{
			Badges:    len(state.Badges),
			IsLoading: state.IsLoading,
			LastError: state.Error,
		}
		for _, b := range state.Badges {
			snap.Registry.TotalRecipients += b.Recipients
		}
	}

	session := d.services.WalletService.State()
	snap.Wallet = WalletSummary{
		ProviderAvailable: d.services.WalletService.ProviderAvailable(),
		Connected:         session.IsConnected,
		Network:           d.services.WalletService.Network().ChainName,
	}

	for name, status := range snap.Resources.byComponent() {
		if status.Status != "healthy" {
			snap.alert(status.Status, name, fmt.Sprintf("%v %s exceeds %v", status.Value, status.Unit, status.Threshold))
		}
	}
	if len(snap.Alerts) > 0 && snap.Status == "healthy" {
		snap.Status = "degraded"
	}
	return snap
}

func (d *Dashboard) resources() ResourceHealth {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()

	memThreshold := d.thresholds.HeapWarningBytes
	if mem.HeapAlloc >= d.thresholds.HeapCriticalBytes {
		memThreshold = d.thresholds.HeapCriticalBytes
	}
	grThreshold := d.thresholds.GoroutinesWarning
	if goroutines >= d.thresholds.GoroutinesCritical {
		grThreshold = d.thresholds.GoroutinesCritical
	}

	return ResourceHealth{
		Memory: ResourceMetric{
			Value: formatBytes(mem.HeapAlloc),
			Unit:  "heap",
			Status: getResourceStatus(float64(mem.HeapAlloc),
				float64(d.thresholds.HeapWarningBytes), float64(d.thresholds.HeapCriticalBytes)),
			Threshold: formatBytes(memThreshold),
		},
		Goroutines: ResourceMetric{
			Value: goroutines,
			Unit:  "goroutines",
			Status: getResourceStatus(float64(goroutines),
				float64(d.thresholds.GoroutinesWarning), float64(d.thresholds.GoroutinesCritical)),
			Threshold: grThreshold,
		},
	}
}

func (r ResourceHealth) byComponent() map[string]ResourceMetric {
	return map[string]ResourceMetric{"memory": r.Memory, "goroutines": r.Goroutines}
}

func (s *Snapshot) alert(severity, component, message string) {
	s.Alerts = append(s.Alerts, SystemAlert{
		Severity:  severity,
		Component: component,
		Message:   message,
		Timestamp: s.Timestamp,
	})
}

// ===============================
// UTILITY FUNCTIONS
// ===============================

// getResourceStatus determines resource status based on usage and thresholds
func getResourceStatus(value, warningThreshold, criticalThreshold float64) string {
	if value >= criticalThreshold {
		return "critical"
	}
	if value >= warningThreshold {
		return "warning"
	}
	return "healthy"
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
