package router

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mikey/phishguard/internal/adapters/state"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type analyzeCall struct {
	tabID int
	url   string
}

type fakeAnalyzer struct {
	calls  []analyzeCall
	cached map[string]core.Verdict
}

func (a *fakeAnalyzer) Analyze(tabID int, rawURL string) string {
	a.calls = append(a.calls, analyzeCall{tabID, rawURL})
	return "task-1"
}

func (a *fakeAnalyzer) Lookup(rawURL string) (*core.Verdict, bool) {
	v, ok := a.cached[rawURL]
	if !ok {
		return nil, false
	}
	return &v, true
}

type fakeTabs struct {
	tab core.Tab
	ok  bool
	err error
}

func (f *fakeTabs) ActiveTab(ctx context.Context) (core.Tab, bool, error) {
	return f.tab, f.ok, f.err
}

type fixture struct {
	store    *settings.Store
	analyzer *fakeAnalyzer
	tabs     *fakeTabs
	router   *Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := settings.NewStore(state.NewMemoryRepository(), zap.NewNop(), core.DefaultSettings())
	require.NoError(t, store.Load(context.Background()))

	f := &fixture{
		store:    store,
		analyzer: &fakeAnalyzer{cached: map[string]core.Verdict{}},
		tabs:     &fakeTabs{},
	}
	f.router = NewRouter(f.store, f.analyzer, f.tabs, zap.NewNop())
	return f
}

func (f *fixture) send(t *testing.T, wire string) string {
	t.Helper()
	req, err := DecodeRequest([]byte(wire))
	require.NoError(t, err)
	out, err := json.Marshal(f.router.Handle(context.Background(), req))
	require.NoError(t, err)
	return string(out)
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	f := newFixture(t)

	got := f.send(t, `{"action":"getSettings"}`)
	assert.JSONEq(t, `{
		"settings": {"enabled":true,"sensitivity":"medium","autoBlock":false,"showNotifications":true},
		"whitelist": []
	}`, got)
}

func TestUpdateSettingsThenGet(t *testing.T) {
	f := newFixture(t)

	got := f.send(t, `{"action":"updateSettings","settings":{"enabled":false,"sensitivity":"low","autoBlock":true,"showNotifications":false}}`)
	assert.JSONEq(t, `{"success":true}`, got)

	got = f.send(t, `{"action":"getSettings"}`)
	assert.JSONEq(t, `{
		"settings": {"enabled":false,"sensitivity":"low","autoBlock":true,"showNotifications":false},
		"whitelist": []
	}`, got)
}

func TestWhitelistMessages(t *testing.T) {
	f := newFixture(t)

	assert.JSONEq(t, `{"success":true}`, f.send(t, `{"action":"addToWhitelist","domain":"bank.example"}`))
	assert.JSONEq(t, `{"success":true}`, f.send(t, `{"action":"addToWhitelist","domain":"bank.example"}`))
	assert.JSONEq(t, `{"success":true}`, f.send(t, `{"action":"addToWhitelist","domain":"mail.example"}`))
	assert.Equal(t, []string{"bank.example", "mail.example"}, f.store.Whitelist())

	assert.JSONEq(t, `{"success":true}`, f.send(t, `{"action":"removeFromWhitelist","domain":"bank.example"}`))
	assert.JSONEq(t, `{"success":true}`, f.send(t, `{"action":"removeFromWhitelist","domain":"absent.example"}`))
	assert.Equal(t, []string{"mail.example"}, f.store.Whitelist())
}

func TestAnalyzeCurrentTab(t *testing.T) {
	f := newFixture(t)
	f.tabs.tab = core.Tab{ID: 12, URL: "https://evil.example/"}
	f.tabs.ok = true

	assert.JSONEq(t, `{"success":true}`, f.send(t, `{"action":"analyzeCurrentTab"}`))
	require.Len(t, f.analyzer.calls, 1)
	assert.Equal(t, analyzeCall{12, "https://evil.example/"}, f.analyzer.calls[0])
}

func TestAnalyzeCurrentTabWithoutTab(t *testing.T) {
	f := newFixture(t)

	resp := f.router.Handle(context.Background(), AnalyzeCurrentTab{})
	assert.Equal(t, Failure(ErrNoActiveTab), resp)
	assert.Empty(t, f.analyzer.calls)

	f.tabs.err = errors.New("browser gone")
	resp = f.router.Handle(context.Background(), AnalyzeCurrentTab{})
	assert.Equal(t, AckResponse{Success: false, Error: "browser gone"}, resp)
}

func TestCheckURL(t *testing.T) {
	f := newFixture(t)
	f.analyzer.cached["https://evil.example/"] = core.Verdict{
		IsSafe:    false,
		RiskScore: 80,
		Payload:   json.RawMessage(`{"is_safe":false,"risk_score":80,"reasons":["lookalike"]}`),
	}

	got := f.send(t, `{"action":"checkURL","url":"https://evil.example/"}`)
	assert.JSONEq(t, `{"result":{"is_safe":false,"risk_score":80,"reasons":["lookalike"]}}`, got)

	got = f.send(t, `{"action":"checkURL","url":"https://unknown.example/"}`)
	assert.JSONEq(t, `{"result":null}`, got)
	assert.Empty(t, f.analyzer.calls)
}

func TestDecodeRequestRejectsBadMessages(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"not json", `{`},
		{"unknown action", `{"action":"selfDestruct"}`},
		{"missing action", `{}`},
		{"update without settings", `{"action":"updateSettings"}`},
		{"add without domain", `{"action":"addToWhitelist"}`},
		{"remove with empty domain", `{"action":"removeFromWhitelist","domain":""}`},
		{"check without url", `{"action":"checkURL"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.wire))
			assert.Error(t, err)
		})
	}

	_, err := DecodeRequest([]byte(`{"action":"selfDestruct"}`))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDecodeRequestVariants(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"action":"addToWhitelist","domain":"a.example"}`))
	require.NoError(t, err)
	assert.Equal(t, AddToWhitelist{Domain: "a.example"}, req)
	assert.Equal(t, ActionAddToWhitelist, req.Action())

	req, err = DecodeRequest([]byte(`{"action":"checkURL","url":"https://a.example/"}`))
	require.NoError(t, err)
	assert.Equal(t, CheckURL{URL: "https://a.example/"}, req)
}
