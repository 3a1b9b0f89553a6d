package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mikey/phishguard/internal/core"
)

// URLPromptFormat is the prompt sent to LLM classifiers. The single verb
// receives the URL under analysis.
const URLPromptFormat = `You are a phishing detection system. Analyze the following URL and decide whether visiting it is safe.
Consider typosquatting and brand impersonation, suspicious TLDs, raw IP hosts, excessive subdomains, URL shorteners and credential-harvesting paths.
Respond with a JSON object containing:
- is_safe: boolean (true if the site looks legitimate)
- risk_score: integer between 0 and 100 (higher means more likely to be phishing)
- explanation: string (brief reason for the score)

URL: %s

Respond only with the JSON object and nothing else.`

// URLAnalysisResponse is the structured answer expected from the LLM
type URLAnalysisResponse struct {
	IsSafe      *bool    `json:"is_safe"`
	RiskScore   *float64 `json:"risk_score"`
	Explanation string   `json:"explanation"`
}

// ExtractJSON returns the outermost {...} section of text
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseURLVerdict turns an LLM answer into a verdict. The payload carries
// the model's explanation and name so UI surfaces can show them.
func ParseURLVerdict(url, responseText, model string) (*core.Verdict, error) {
	var parsed URLAnalysisResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		jsonStr, ok := ExtractJSON(responseText)
		if !ok {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}
	if parsed.RiskScore == nil {
		return nil, fmt.Errorf("LLM response has no risk_score")
	}

	score := core.ClampScore(int(math.Round(*parsed.RiskScore)))
	isSafe := score < 40
	if parsed.IsSafe != nil {
		isSafe = *parsed.IsSafe
	}

	payload, err := json.Marshal(map[string]interface{}{
		"url":         url,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"is_safe":     isSafe,
		"risk_score":  score,
		"explanation": parsed.Explanation,
		"model_used":  model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode verdict payload: %w", err)
	}

	return &core.Verdict{
		IsSafe:    isSafe,
		RiskScore: score,
		Payload:   payload,
	}, nil
}
