package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// Reporter classifies single URLs from the command line and prints what the
// pipeline would do with them
type Reporter struct {
	classifier  core.Classifier
	settings    core.Settings
	warningPage string
	out         io.Writer
	logger      *zap.Logger
	verbose     bool
}

// NewReporter creates a new CLI reporter
func NewReporter(classifier core.Classifier, settings core.Settings, warningPage string, out io.Writer, logger *zap.Logger, verbose bool) *Reporter {
	return &Reporter{
		classifier:  classifier,
		settings:    settings,
		warningPage: warningPage,
		out:         out,
		logger:      logger,
		verbose:     verbose,
	}
}

// Check classifies rawURL and prints the verdict and the resulting decision
func (r *Reporter) Check(ctx context.Context, rawURL string) (*core.Verdict, error) {
	r.logger.Debug("Checking URL", zap.String("url", rawURL))

	domain, err := core.ExtractDomain(rawURL)
	if err != nil {
		domain = "(unparseable)"
	}

	fmt.Fprintf(r.out, "\n=== URL Summary ===\n")
	fmt.Fprintf(r.out, "URL: %s\n", rawURL)
	fmt.Fprintf(r.out, "Domain: %s\n", domain)
	fmt.Fprintf(r.out, "Sensitivity: %s (block threshold %d)\n", r.settings.Sensitivity, r.settings.Sensitivity.BlockThreshold())
	fmt.Fprintf(r.out, "Auto-block: %t\n", r.settings.AutoBlock)

	fmt.Fprintf(r.out, "\n=== Analysis ===\n")
	start := time.Now()
	verdict, err := r.classifier.Analyze(ctx, rawURL)
	if err != nil {
		r.logger.Error("Failed to classify URL", zap.Error(err))
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(start)

	badge := core.BadgeFor(verdict.RiskScore)
	fmt.Fprintf(r.out, "\n=== Results ===\n")
	fmt.Fprintf(r.out, "Is safe: %t\n", verdict.IsSafe)
	fmt.Fprintf(r.out, "Risk score: %d/100\n", verdict.RiskScore)
	fmt.Fprintf(r.out, "Risk band: %s %s\n", badge.Band, badge.Text)

	if verdict.IsSafe {
		fmt.Fprintf(r.out, "Decision: allow\n")
	} else {
		d := core.Decide(r.settings, r.warningPage, rawURL, *verdict)
		if d.Block {
			fmt.Fprintf(r.out, "Decision: block, redirect to %s\n", d.WarningURL)
		} else {
			fmt.Fprintf(r.out, "Decision: warn\n")
		}
	}
	fmt.Fprintf(r.out, "Processing time: %v\n", duration)

	if r.verbose && len(verdict.Payload) > 0 {
		fmt.Fprintf(r.out, "\nRaw verdict:\n%s\n", verdict.Payload)
	}

	return verdict, nil
}
