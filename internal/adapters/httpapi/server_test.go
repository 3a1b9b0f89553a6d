package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/phishguard/internal/adapters/platform"
	"github.com/mikey/phishguard/internal/adapters/state"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/router"
	"github.com/mikey/phishguard/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGate struct {
	seen    []core.InterceptRequest
	outcome core.Outcome
}

func (g *fakeGate) Intercept(req core.InterceptRequest) core.Outcome {
	g.seen = append(g.seen, req)
	return g.outcome
}

type fakeAnalyzer struct {
	tabs []int
}

func (a *fakeAnalyzer) Analyze(tabID int, rawURL string) string {
	a.tabs = append(a.tabs, tabID)
	return "task"
}

func (a *fakeAnalyzer) Lookup(rawURL string) (*core.Verdict, bool) {
	return nil, false
}

type fixture struct {
	gate     *fakeGate
	analyzer *fakeAnalyzer
	bridge   *platform.Bridge
	handler  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := settings.NewStore(state.NewMemoryRepository(), zap.NewNop(), core.DefaultSettings())
	require.NoError(t, store.Load(context.Background()))

	f := &fixture{
		gate:     &fakeGate{outcome: core.Allow()},
		analyzer: &fakeAnalyzer{},
		bridge:   platform.NewBridge(16, zap.NewNop()),
	}
	r := router.NewRouter(store, f.analyzer, f.bridge, zap.NewNop())
	f.handler = NewServer(f.gate, r, f.bridge, zap.NewNop(), "127.0.0.1:0").Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestInterceptAllow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/intercept", `{"url":"https://a.example/","type":"main_frame","tabId":4}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	require.Len(t, f.gate.seen, 1)
	assert.Equal(t, core.InterceptRequest{URL: "https://a.example/", Type: core.ResourceMainFrame, TabID: 4}, f.gate.seen[0])
}

func TestInterceptRedirect(t *testing.T) {
	f := newFixture(t)
	f.gate.outcome = core.Redirect("/warning?url=x&score=90")

	rec := f.do(t, http.MethodPost, "/api/intercept", `{"url":"https://evil.example/","type":"main_frame","tabId":4}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"redirectUrl":"/warning?url=x&score=90"}`, rec.Body.String())
}

func TestInterceptBadBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/intercept", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.gate.seen)
}

func TestMessageRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/message", `{"action":"addToWhitelist","domain":"bank.example"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/message", `{"action":"getSettings"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"settings": {"enabled":true,"sensitivity":"medium","autoBlock":false,"showNotifications":true},
		"whitelist": ["bank.example"]
	}`, rec.Body.String())
}

func TestMessageRejectsUnknownAction(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/message", `{"action":"selfDestruct"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var ack router.AckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.False(t, ack.Success)
	assert.Contains(t, ack.Error, "unknown action")
}

func TestActiveTabDrivesAnalyzeCurrentTab(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/message", `{"action":"analyzeCurrentTab"}`)
	assert.JSONEq(t, `{"success":false,"error":"no active tab"}`, rec.Body.String())

	rec = f.do(t, http.MethodPut, "/api/tabs/active", `{"id":9,"url":"https://evil.example/"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/message", `{"action":"analyzeCurrentTab"}`)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, []int{9}, f.analyzer.tabs)
}

func TestBadgeAndEvents(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/tabs/2/badge", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/tabs/abc/badge", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, f.bridge.SetBadge(2, core.BadgeFor(65)))

	rec = f.do(t, http.MethodGet, "/api/tabs/2/badge", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"band":"elevated","text":"!!","color":"#FF6B6B"}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/events", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Events []platform.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, platform.EventBadge, body.Events[0].Kind)

	rec = f.do(t, http.MethodGet, "/api/events", "")
	assert.JSONEq(t, `{"events":[]}`, rec.Body.String())
}

func TestStartStop(t *testing.T) {
	s := NewServer(&fakeGate{outcome: core.Allow()}, nil, platform.NewBridge(1, zap.NewNop()), zap.NewNop(), "127.0.0.1:0")
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
}
