package platform

import (
	"context"
	"testing"

	"github.com/mikey/phishguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBridgeQueuesSideEffects(t *testing.T) {
	b := NewBridge(0, zap.NewNop())

	require.NoError(t, b.SetBadge(3, core.BadgeFor(85)))
	require.NoError(t, b.Notify(context.Background(), core.Notification{Domain: "evil.example", RiskScore: 85}))
	require.NoError(t, b.Navigate(3, "/warning?url=x&score=85"))

	events := b.Drain()
	require.Len(t, events, 3)
	assert.Equal(t, EventBadge, events[0].Kind)
	assert.Equal(t, core.BandSevere, events[0].Badge.Band)
	assert.Equal(t, EventNotification, events[1].Kind)
	assert.Equal(t, "evil.example", events[1].Notification.Domain)
	assert.Equal(t, EventNavigate, events[2].Kind)
	assert.Equal(t, 3, events[2].TabID)
	assert.False(t, events[2].At.IsZero())

	assert.Empty(t, b.Drain())

	badge, ok := b.Badge(3)
	require.True(t, ok)
	assert.Equal(t, "!!!", badge.Text)
	_, ok = b.Badge(4)
	assert.False(t, ok)
}

func TestBridgeActiveTab(t *testing.T) {
	b := NewBridge(10, zap.NewNop())

	_, ok, err := b.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	b.SetActiveTab(core.Tab{ID: 5, URL: "https://evil.example/"})
	require.NoError(t, b.Navigate(5, "/warning?score=90"))
	require.NoError(t, b.Navigate(6, "/elsewhere"))

	tab, ok, err := b.ActiveTab(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.Tab{ID: 5, URL: "/warning?score=90"}, tab)
}

func TestBridgeDropsOldestWhenFull(t *testing.T) {
	b := NewBridge(2, zap.NewNop())

	b.Navigate(1, "/a")
	b.Navigate(2, "/b")
	b.Navigate(3, "/c")

	events := b.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, "/b", events[0].URL)
	assert.Equal(t, "/c", events[1].URL)
}
