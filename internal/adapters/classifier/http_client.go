package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AnalyzePath is the analysis endpoint of the classification service
const AnalyzePath = "/api/analyze"

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 4 << 20

// HTTPClient is an implementation of the Classifier interface backed by the
// remote analysis service
type HTTPClient struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// NewHTTPClient creates a client for the service at baseURL. A nil limiter
// means no rate limiting.
func NewHTTPClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + AnalyzePath,
		client:   &http.Client{Timeout: timeout},
		limiter:  limiter,
		logger:   logger,
	}
}

// NewLimiter returns a token bucket for ratePerSecond, or nil when it is not positive
func NewLimiter(ratePerSecond float64, burst int) *rate.Limiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), burst)
}

// Analyze posts url to the service and decodes its verdict. It never retries.
func (c *HTTPClient) Analyze(ctx context.Context, url string) (*core.Verdict, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &core.ClassificationError{URL: url, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	body, err := json.Marshal(analyzeRequest{URL: url})
	if err != nil {
		return nil, &core.ClassificationError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &core.ClassificationError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.ClassificationError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &core.ClassificationError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &core.ClassificationError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	verdict, err := core.DecodeVerdict(data)
	if err != nil {
		return nil, &core.ClassificationError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Classifier responded",
		zap.String("url", url),
		zap.Bool("is_safe", verdict.IsSafe),
		zap.Int("risk_score", verdict.RiskScore),
		zap.Duration("duration", time.Since(start)))

	return verdict, nil
}
