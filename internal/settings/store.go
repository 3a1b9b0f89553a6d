// Package settings owns the protection settings and the user whitelist.
// Every mutation is persisted through a core.StateRepository.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/whitelist"
	"go.uber.org/zap"
)

const (
	// KeySettings is the state key holding the settings object
	KeySettings = "settings"
	// KeyWhitelist is the state key holding the whitelist array
	KeyWhitelist = "whitelist"
)

// Store is the config store shared by the gate, the decision engine and
// the message router
type Store struct {
	mu        sync.RWMutex
	repo      core.StateRepository
	logger    *zap.Logger
	defaults  core.Settings
	settings  core.Settings
	whitelist *whitelist.List
}

// NewStore creates a store holding defaults until Load is called
func NewStore(repo core.StateRepository, logger *zap.Logger, defaults core.Settings) *Store {
	return &Store{
		repo:      repo,
		logger:    logger,
		defaults:  defaults,
		settings:  defaults,
		whitelist: whitelist.New(nil),
	}
}

// Load reads the persisted settings and whitelist, keeping the defaults for
// anything absent or unreadable
func (s *Store) Load(ctx context.Context) error {
	settings := s.defaults
	raw, ok, err := s.repo.Load(ctx, KeySettings)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &settings); err != nil {
			s.logger.Warn("Ignoring unreadable persisted settings", zap.Error(err))
			settings = s.defaults
		}
	}

	var domains []string
	raw, ok, err = s.repo.Load(ctx, KeyWhitelist)
	if err != nil {
		return fmt.Errorf("failed to load whitelist: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &domains); err != nil {
			s.logger.Warn("Ignoring unreadable persisted whitelist", zap.Error(err))
			domains = nil
		}
	}

	s.mu.Lock()
	s.settings = settings
	s.whitelist = whitelist.New(domains)
	s.mu.Unlock()

	s.logger.Info("Loaded protection settings",
		zap.Bool("enabled", settings.Enabled),
		zap.String("sensitivity", string(settings.Sensitivity)),
		zap.Bool("auto_block", settings.AutoBlock),
		zap.Int("whitelist_size", len(domains)))
	return nil
}

// Settings returns the current settings
func (s *Store) Settings() core.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Whitelist returns a copy of the whitelist in insertion order
func (s *Store) Whitelist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.whitelist.Domains()
}

// Snapshot returns settings and whitelist read under the same lock
func (s *Store) Snapshot() (core.Settings, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.whitelist.Domains()
}

// IsWhitelisted reports whether domain or one of its parents is trusted
func (s *Store) IsWhitelisted(domain string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.whitelist.Matches(domain)
}

// UpdateSettings replaces the settings wholesale and persists them
func (s *Store) UpdateSettings(ctx context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings

	s.logger.Info("Settings updated",
		zap.Bool("enabled", settings.Enabled),
		zap.String("sensitivity", string(settings.Sensitivity)),
		zap.Bool("auto_block", settings.AutoBlock),
		zap.Bool("show_notifications", settings.ShowNotifications))

	return s.persist(ctx, KeySettings, settings)
}

// AddToWhitelist adds domain; adding a present domain is a no-op
func (s *Store) AddToWhitelist(ctx context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.whitelist.Add(domain) {
		return nil
	}

	s.logger.Info("Domain added to whitelist", zap.String("domain", whitelist.Normalize(domain)))
	return s.persist(ctx, KeyWhitelist, s.whitelist.Domains())
}

// RemoveFromWhitelist removes domain; removing an absent domain is a no-op
func (s *Store) RemoveFromWhitelist(ctx context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.whitelist.Remove(domain) {
		return nil
	}

	s.logger.Info("Domain removed from whitelist", zap.String("domain", whitelist.Normalize(domain)))
	return s.persist(ctx, KeyWhitelist, s.whitelist.Domains())
}

// persist is called with s.mu held so writes reach the repository in order
func (s *Store) persist(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.repo.Save(ctx, key, raw); err != nil {
		s.logger.Error("Failed to persist state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
