package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BlockThreshold returns the risk score at or above which auto-block applies.
// Unknown sensitivities resolve to the medium threshold.
func (s Sensitivity) BlockThreshold() int {
	switch s {
	case SensitivityLow:
		return 80
	case SensitivityHigh:
		return 40
	default:
		return 60
	}
}

// RiskBand is the coarse risk level shown on the badge
type RiskBand int

const (
	BandSafe RiskBand = iota
	BandLow
	BandElevated
	BandSevere
)

func (b RiskBand) String() string {
	switch b {
	case BandSafe:
		return "safe"
	case BandLow:
		return "low"
	case BandElevated:
		return "elevated"
	case BandSevere:
		return "severe"
	default:
		return "unknown"
	}
}

// MarshalText renders the band by name
func (b RiskBand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a band name
func (b *RiskBand) UnmarshalText(text []byte) error {
	for _, band := range []RiskBand{BandSafe, BandLow, BandElevated, BandSevere} {
		if band.String() == string(text) {
			*b = band
			return nil
		}
	}
	return fmt.Errorf("unknown risk band %q", text)
}

// BadgeFor maps a risk score to its badge. The bands are fixed and do not
// follow the sensitivity threshold.
func BadgeFor(score int) Badge {
	switch {
	case score >= 80:
		return Badge{Band: BandSevere, Text: "!!!", Color: "#E74C3C"}
	case score >= 60:
		return Badge{Band: BandElevated, Text: "!!", Color: "#FF6B6B"}
	case score >= 40:
		return Badge{Band: BandLow, Text: "!", Color: "#FFD700"}
	default:
		return Badge{Band: BandSafe, Text: "✓", Color: "#43e97b"}
	}
}

// WarningURL builds the warning page address carrying the original URL and score
func WarningURL(page, original string, score int) string {
	sep := "?"
	if strings.Contains(page, "?") {
		sep = "&"
	}
	return page + sep + "url=" + url.QueryEscape(original) + "&score=" + strconv.Itoa(score)
}

// ShouldBlock reports whether auto-block applies to score under settings
func ShouldBlock(settings Settings, score int) bool {
	return settings.AutoBlock && score >= settings.Sensitivity.BlockThreshold()
}

// Decision is the set of visible actions for an unsafe verdict
type Decision struct {
	Notify       bool
	Notification Notification
	Badge        Badge
	Block        bool
	WarningURL   string
}

// Decide computes the actions for an unsafe verdict on rawURL
func Decide(settings Settings, warningPage, rawURL string, verdict Verdict) Decision {
	d := Decision{
		Notify: settings.ShowNotifications,
		Badge:  BadgeFor(verdict.RiskScore),
		Block:  ShouldBlock(settings, verdict.RiskScore),
	}

	if d.Notify {
		domain, err := ExtractDomain(rawURL)
		if err != nil {
			domain = rawURL
		}
		d.Notification = Notification{
			Title:     "PhishGuard - suspicious site detected",
			Message:   fmt.Sprintf("The site %s may be dangerous. Risk score: %d/100. Be careful with personal information.", domain, verdict.RiskScore),
			URL:       rawURL,
			Domain:    domain,
			RiskScore: verdict.RiskScore,
		}
	}

	if d.Block {
		d.WarningURL = WarningURL(warningPage, rawURL, verdict.RiskScore)
	}

	return d
}

// ExtractDomain returns the lower-cased hostname of rawURL
func ExtractDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("%w: no host in %q", ErrMalformedURL, rawURL)
	}
	return host, nil
}
