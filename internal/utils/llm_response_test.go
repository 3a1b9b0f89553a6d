package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURLVerdict(t *testing.T) {
	v, err := ParseURLVerdict("https://evil.example/", `{"is_safe":false,"risk_score":87.4,"explanation":"brand lookalike"}`, "gpt-4o-mini")
	require.NoError(t, err)
	assert.False(t, v.IsSafe)
	assert.Equal(t, 87, v.RiskScore)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(v.Payload, &payload))
	assert.Equal(t, "https://evil.example/", payload["url"])
	assert.Equal(t, "brand lookalike", payload["explanation"])
	assert.Equal(t, "gpt-4o-mini", payload["model_used"])
	assert.Equal(t, float64(87), payload["risk_score"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestParseURLVerdictExtractsEmbeddedJSON(t *testing.T) {
	text := "Here is my analysis:\n```json\n{\"is_safe\": true, \"risk_score\": 4}\n```"
	v, err := ParseURLVerdict("https://good.example/", text, "claude")
	require.NoError(t, err)
	assert.True(t, v.IsSafe)
	assert.Equal(t, 4, v.RiskScore)
}

func TestParseURLVerdictDerivesSafetyFromScore(t *testing.T) {
	v, err := ParseURLVerdict("u", `{"risk_score":39}`, "m")
	require.NoError(t, err)
	assert.True(t, v.IsSafe)

	v, err = ParseURLVerdict("u", `{"risk_score":40}`, "m")
	require.NoError(t, err)
	assert.False(t, v.IsSafe)

	v, err = ParseURLVerdict("u", `{"risk_score":140}`, "m")
	require.NoError(t, err)
	assert.Equal(t, 100, v.RiskScore)
}

func TestParseURLVerdictErrors(t *testing.T) {
	_, err := ParseURLVerdict("u", "no json here", "m")
	assert.Error(t, err)

	_, err = ParseURLVerdict("u", `{"is_safe":true}`, "m")
	assert.Error(t, err)

	_, err = ParseURLVerdict("u", `prefix {"is_safe": } suffix`, "m")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	s, ok := ExtractJSON(`noise {"a":{"b":1}} trailing`)
	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":1}}`, s)

	_, ok = ExtractJSON(`} backwards {`)
	assert.False(t, ok)
}
