package core

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// CacheDuration is how long a verdict stays valid after it was obtained
const CacheDuration = time.Hour

// JanitorInterval is how often expired verdicts are swept from memory
const JanitorInterval = 10 * time.Minute

// Sensitivity selects the risk score at which auto-block kicks in
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Settings represents the user-controlled protection settings
type Settings struct {
	Enabled           bool        `json:"enabled"`
	Sensitivity       Sensitivity `json:"sensitivity"`
	AutoBlock         bool        `json:"autoBlock"`
	ShowNotifications bool        `json:"showNotifications"`
}

// DefaultSettings returns the built-in settings used when nothing was persisted
func DefaultSettings() Settings {
	return Settings{
		Enabled:           true,
		Sensitivity:       SensitivityMedium,
		AutoBlock:         false,
		ShowNotifications: true,
	}
}

// Verdict is the classifier's judgment of a URL. Payload holds the full
// analyzer response and is passed through untouched.
type Verdict struct {
	IsSafe    bool
	RiskScore int
	Payload   json.RawMessage
}

type verdictFields struct {
	IsSafe    *bool    `json:"is_safe"`
	RiskScore *float64 `json:"risk_score"`
}

// DecodeVerdict parses an analyzer response. is_safe and risk_score are required.
func DecodeVerdict(data []byte) (*Verdict, error) {
	var fields verdictFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode verdict: %w", err)
	}
	if fields.IsSafe == nil || fields.RiskScore == nil {
		return nil, fmt.Errorf("verdict is missing is_safe or risk_score")
	}

	payload := make(json.RawMessage, len(data))
	copy(payload, data)

	return &Verdict{
		IsSafe:    *fields.IsSafe,
		RiskScore: ClampScore(int(math.Round(*fields.RiskScore))),
		Payload:   payload,
	}, nil
}

// MarshalJSON emits the analyzer payload if there is one
func (v Verdict) MarshalJSON() ([]byte, error) {
	if len(v.Payload) > 0 {
		return v.Payload, nil
	}
	return json.Marshal(struct {
		IsSafe    bool `json:"is_safe"`
		RiskScore int  `json:"risk_score"`
	}{v.IsSafe, v.RiskScore})
}

// ClampScore keeps a risk score within 0..100
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CacheEntry is a verdict together with the moment it was obtained
type CacheEntry struct {
	URL        string
	Verdict    Verdict
	ObtainedAt time.Time
}

// ValidAt reports whether the entry is still fresh at now
func (e CacheEntry) ValidAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.ObtainedAt) < ttl
}

// ResourceType is the kind of request seen by the interception hook
type ResourceType string

// ResourceMainFrame is a top-level document navigation
const ResourceMainFrame ResourceType = "main_frame"

// InterceptRequest is a single outbound request handed to the gate
type InterceptRequest struct {
	URL   string       `json:"url"`
	Type  ResourceType `json:"type"`
	TabID int          `json:"tabId"`
}

// Action is the gate's verdict on a request
type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Outcome is returned by the gate for every request
type Outcome struct {
	Action      Action
	RedirectURL string
}

// Allow lets the request through untouched
func Allow() Outcome {
	return Outcome{Action: ActionAllow}
}

// Redirect sends the request to target instead
func Redirect(target string) Outcome {
	return Outcome{Action: ActionRedirect, RedirectURL: target}
}

// Badge is the per-tab risk indicator
type Badge struct {
	Band  RiskBand `json:"band"`
	Text  string   `json:"text"`
	Color string   `json:"color"`
}

// Notification is a user-visible alert about a risky site
type Notification struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	RiskScore int    `json:"riskScore"`
}

// Tab identifies a browser tab and the URL it shows
type Tab struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}
