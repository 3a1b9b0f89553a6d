package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVerdict(t *testing.T) {
	raw := []byte(`{"url":"https://evil.example","is_safe":false,"risk_score":74.6,"reasons":["lookalike"]}`)

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.False(t, v.IsSafe)
	assert.Equal(t, 75, v.RiskScore)
	assert.JSONEq(t, string(raw), string(v.Payload))

	raw[0] = ' '
	assert.NotEqual(t, raw[0], v.Payload[0], "payload must not alias the input")
}

func TestDecodeVerdictClampsScore(t *testing.T) {
	v, err := DecodeVerdict([]byte(`{"is_safe":false,"risk_score":250}`))
	require.NoError(t, err)
	assert.Equal(t, 100, v.RiskScore)

	v, err = DecodeVerdict([]byte(`{"is_safe":true,"risk_score":-3}`))
	require.NoError(t, err)
	assert.Equal(t, 0, v.RiskScore)
}

func TestDecodeVerdictRequiresFields(t *testing.T) {
	for _, body := range []string{
		`{"risk_score":10}`,
		`{"is_safe":true}`,
		`{}`,
		`not json`,
	} {
		_, err := DecodeVerdict([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestVerdictMarshalJSON(t *testing.T) {
	withPayload := Verdict{IsSafe: true, RiskScore: 5, Payload: json.RawMessage(`{"is_safe":true,"risk_score":5,"model":"x"}`)}
	data, err := json.Marshal(withPayload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_safe":true,"risk_score":5,"model":"x"}`, string(data))

	data, err = json.Marshal(Verdict{IsSafe: false, RiskScore: 80})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_safe":false,"risk_score":80}`, string(data))
}

func TestCacheEntryValidAt(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := CacheEntry{URL: "https://a.example", ObtainedAt: t0}

	assert.True(t, e.ValidAt(t0, CacheDuration))
	assert.True(t, e.ValidAt(t0.Add(CacheDuration-time.Millisecond), CacheDuration))
	assert.False(t, e.ValidAt(t0.Add(CacheDuration), CacheDuration))
}

func TestClassificationErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("wrapped: %w", &ClassificationError{URL: "https://a.example", Err: cause})

	assert.True(t, errors.Is(err, ErrClassificationFailed))
	assert.True(t, errors.Is(err, cause))

	var ce *ClassificationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "https://a.example", ce.URL)

	withStatus := &ClassificationError{URL: "https://a.example", StatusCode: 502, Err: errors.New("bad gateway")}
	assert.Contains(t, withStatus.Error(), "502")
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "allow", Allow().Action.String())
	assert.Equal(t, "redirect", Redirect("/warning").Action.String())
	assert.Equal(t, "/warning", Redirect("/warning").RedirectURL)
}
