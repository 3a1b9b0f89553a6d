package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceOptions holds the tunables of the protection service
type ServiceOptions struct {
	// WarningPage is the internal page forced navigations and redirects point to
	WarningPage string
	// ClassifyTimeout bounds a single background classification
	ClassifyTimeout time.Duration
}

// ProtectionService is the interception pipeline: gate, background
// classification and decision engine
type ProtectionService struct {
	classifier Classifier
	cache      VerdictCache
	config     SettingsProvider
	platform   Platform
	logger     *zap.Logger
	opts       ServiceOptions

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// NewProtectionService creates a new protection service
func NewProtectionService(
	classifier Classifier,
	cache VerdictCache,
	config SettingsProvider,
	platform Platform,
	logger *zap.Logger,
	opts ServiceOptions,
) *ProtectionService {
	if opts.WarningPage == "" {
		opts.WarningPage = "/warning"
	}
	if opts.ClassifyTimeout <= 0 {
		opts.ClassifyTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ProtectionService{
		classifier: classifier,
		cache:      cache,
		config:     config,
		platform:   platform,
		logger:     logger,
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Intercept decides synchronously what happens to an outbound request. It
// never waits for a classification.
func (s *ProtectionService) Intercept(req InterceptRequest) Outcome {
	if req.Type != ResourceMainFrame {
		return Allow()
	}

	settings := s.config.Settings()
	if !settings.Enabled {
		return Allow()
	}

	domain, err := ExtractDomain(req.URL)
	if err != nil {
		s.logger.Debug("Skipping whitelist check", zap.String("url", req.URL), zap.Error(err))
	} else if s.config.IsWhitelisted(domain) {
		s.logger.Debug("Allowing whitelisted domain",
			zap.String("domain", domain),
			zap.String("action", "whitelist_bypass"))
		return Allow()
	}

	if verdict, ok := s.cache.Get(req.URL); ok {
		if verdict.IsSafe {
			return Allow()
		}
		return s.redirectRule(settings, req.URL, verdict)
	}

	s.Analyze(req.TabID, req.URL)
	return Allow()
}

// redirectRule turns an unsafe cached verdict into the gate outcome
func (s *ProtectionService) redirectRule(settings Settings, rawURL string, verdict *Verdict) Outcome {
	if !ShouldBlock(settings, verdict.RiskScore) {
		return Allow()
	}

	target := WarningURL(s.opts.WarningPage, rawURL, verdict.RiskScore)
	s.logger.Info("Redirecting request to warning page",
		zap.String("url", rawURL),
		zap.Int("risk_score", verdict.RiskScore),
		zap.String("action", "redirect"))
	return Redirect(target)
}

// Analyze schedules a background classification of rawURL for tabID and
// returns the task id. Results surface through the cache and the platform.
func (s *ProtectionService) Analyze(tabID int, rawURL string) string {
	taskID := uuid.NewString()
	if s.ctx.Err() != nil {
		s.logger.Debug("Service stopped, dropping classification", zap.String("url", rawURL))
		return taskID
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		s.runTask(taskID, tabID, rawURL)
	}()
	return taskID
}

func (s *ProtectionService) runTask(taskID string, tabID int, rawURL string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ClassifyTimeout)
	defer cancel()

	logger := s.logger.With(zap.String("task_id", taskID), zap.String("url", rawURL))

	verdict, err := s.Classify(ctx, rawURL)
	if err != nil {
		logger.Warn("Classification failed, request stays allowed", zap.Error(err))
		return
	}

	logger.Debug("Classification completed",
		zap.Bool("is_safe", verdict.IsSafe),
		zap.Int("risk_score", verdict.RiskScore))

	s.applyDecision(ctx, tabID, rawURL, verdict)
}

// Classify calls the classifier and caches a successful verdict
func (s *ProtectionService) Classify(ctx context.Context, rawURL string) (*Verdict, error) {
	verdict, err := s.classifier.Analyze(ctx, rawURL)
	if err != nil {
		if !errors.Is(err, ErrClassificationFailed) {
			err = fmt.Errorf("%w: %v", ErrClassificationFailed, err)
		}
		return nil, err
	}

	s.cache.Put(rawURL, *verdict)
	return verdict, nil
}

// applyDecision runs the decision engine against the settings current now,
// not the ones in force when the request was seen
func (s *ProtectionService) applyDecision(ctx context.Context, tabID int, rawURL string, verdict *Verdict) {
	settings := s.config.Settings()
	if !settings.Enabled {
		s.logger.Debug("Protection disabled, suppressing actions", zap.String("url", rawURL))
		return
	}
	if verdict.IsSafe {
		return
	}

	d := Decide(settings, s.opts.WarningPage, rawURL, *verdict)

	if d.Notify {
		if err := s.platform.Notify(ctx, d.Notification); err != nil {
			s.logger.Error("Failed to show notification", zap.Error(err))
		}
	}

	if err := s.platform.SetBadge(tabID, d.Badge); err != nil {
		s.logger.Error("Failed to update badge", zap.Int("tab_id", tabID), zap.Error(err))
	}

	if d.Block {
		s.logger.Info("Steering tab to warning page",
			zap.Int("tab_id", tabID),
			zap.String("url", rawURL),
			zap.Int("risk_score", verdict.RiskScore),
			zap.String("action", "block"))
		if err := s.platform.Navigate(tabID, d.WarningURL); err != nil {
			s.logger.Error("Failed to navigate tab", zap.Int("tab_id", tabID), zap.Error(err))
		}
	}
}

// Lookup returns a fresh cached verdict without triggering classification
func (s *ProtectionService) Lookup(rawURL string) (*Verdict, bool) {
	return s.cache.Get(rawURL)
}

// Wait blocks until all background classifications have finished
func (s *ProtectionService) Wait() {
	s.tasks.Wait()
}

// Stop cancels in-flight classifications and waits for them to return
func (s *ProtectionService) Stop() {
	s.cancel()
	s.tasks.Wait()
}
