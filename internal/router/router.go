// Package router answers the messages UI surfaces send to the background
// pipeline: settings and whitelist access, on-demand analysis and cache
// lookups.
package router

import (
	"context"
	"errors"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// ErrNoActiveTab is reported when analyzeCurrentTab finds no tab to analyze
var ErrNoActiveTab = errors.New("no active tab")

// ConfigStore is the part of the config store the router uses
type ConfigStore interface {
	Snapshot() (core.Settings, []string)
	UpdateSettings(ctx context.Context, settings core.Settings) error
	AddToWhitelist(ctx context.Context, domain string) error
	RemoveFromWhitelist(ctx context.Context, domain string) error
}

// Analyzer is the part of the protection service the router uses
type Analyzer interface {
	Analyze(tabID int, rawURL string) string
	Lookup(rawURL string) (*core.Verdict, bool)
}

// TabSource reports the tab the user is looking at
type TabSource interface {
	ActiveTab(ctx context.Context) (core.Tab, bool, error)
}

// Router dispatches decoded requests
type Router struct {
	store    ConfigStore
	analyzer Analyzer
	tabs     TabSource
	logger   *zap.Logger
}

// NewRouter creates a new message router
func NewRouter(store ConfigStore, analyzer Analyzer, tabs TabSource, logger *zap.Logger) *Router {
	return &Router{
		store:    store,
		analyzer: analyzer,
		tabs:     tabs,
		logger:   logger,
	}
}

// Handle answers a request. Every variant yields exactly one response.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	switch m := req.(type) {
	case GetSettings:
		settings, whitelist := r.store.Snapshot()
		return SettingsResponse{Settings: settings, Whitelist: whitelist}

	case UpdateSettings:
		if err := r.store.UpdateSettings(ctx, m.Settings); err != nil {
			return Failure(err)
		}
		return AckResponse{Success: true}

	case AddToWhitelist:
		if err := r.store.AddToWhitelist(ctx, m.Domain); err != nil {
			return Failure(err)
		}
		return AckResponse{Success: true}

	case RemoveFromWhitelist:
		if err := r.store.RemoveFromWhitelist(ctx, m.Domain); err != nil {
			return Failure(err)
		}
		return AckResponse{Success: true}

	case AnalyzeCurrentTab:
		return r.analyzeCurrentTab(ctx)

	case CheckURL:
		if verdict, ok := r.analyzer.Lookup(m.URL); ok {
			return CheckURLResponse{Result: verdict}
		}
		return CheckURLResponse{}

	default:
		r.logger.Warn("Unsupported message", zap.Any("request", req))
		return Failure(ErrUnknownAction)
	}
}

func (r *Router) analyzeCurrentTab(ctx context.Context) Response {
	tab, ok, err := r.tabs.ActiveTab(ctx)
	if err != nil {
		r.logger.Error("Failed to query active tab", zap.Error(err))
		return Failure(err)
	}
	if !ok || tab.URL == "" {
		return Failure(ErrNoActiveTab)
	}

	taskID := r.analyzer.Analyze(tab.ID, tab.URL)
	r.logger.Info("On-demand analysis requested",
		zap.Int("tab_id", tab.ID),
		zap.String("url", tab.URL),
		zap.String("task_id", taskID))
	return AckResponse{Success: true}
}
