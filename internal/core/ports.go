package core

import (
	"context"
)

// Classifier defines the interface for obtaining a risk verdict for a URL
type Classifier interface {
	// Analyze classifies a URL. Any failure matches ErrClassificationFailed.
	Analyze(ctx context.Context, url string) (*Verdict, error)
}

// VerdictCache defines the interface for the time-bounded verdict cache
type VerdictCache interface {
	// Get returns the verdict for url if it is still fresh
	Get(url string) (*Verdict, bool)

	// Put stores a verdict for url, replacing any previous one
	Put(url string, verdict Verdict)
}

// SettingsProvider exposes the live configuration to the pipeline
type SettingsProvider interface {
	// Settings returns the current settings snapshot
	Settings() Settings

	// IsWhitelisted reports whether domain or one of its parents is trusted
	IsWhitelisted(domain string) bool
}

// StateRepository defines the interface for the persisted key-value state
type StateRepository interface {
	// Load returns the raw value stored under key
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save stores value under key
	Save(ctx context.Context, key string, value []byte) error
}

// Platform is the browser surface the pipeline drives
type Platform interface {
	SetBadge(tabID int, badge Badge) error
	Notify(ctx context.Context, n Notification) error
	Navigate(tabID int, target string) error
	ActiveTab(ctx context.Context) (Tab, bool, error)
}
