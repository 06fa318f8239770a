package stores

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/domain/session"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

func TestCreate_Defaults(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	segment := store.Create("s1")
	require.NotNil(t, segment)

	assert.Equal(t, "s1", segment.SessionID)
	assert.Nil(t, segment.DeterminedPersonaID)
	assert.Equal(t, session.EngagementLow, segment.EngagementLevel)
	assert.False(t, segment.IsEmailSubscriber)
	assert.Empty(t, segment.Interactions)
}

func TestCreate_Idempotent(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	first := store.Create("s1")
	store.LogInteraction("s1", "page_view", nil)
	second := store.Create("s1")

	assert.Same(t, first, second, "a live segment survives repeat visits")
	assert.Equal(t, 1, second.InteractionCount())
}

func TestLogInteraction_EngagementTiers(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	var segment *session.VisitorSegment
	for i := 0; i < config.EngagedInteractions-1; i++ {
		segment = store.LogInteraction("s1", "page_view", nil)
		assert.Equal(t, session.EngagementLow, segment.EngagementLevel)
	}

	segment = store.LogInteraction("s1", "page_view", nil)
	assert.Equal(t, session.EngagementMedium, segment.EngagementLevel)

	for segment.InteractionCount() < config.HighlyEngagedInteractions {
		segment = store.LogInteraction("s1", "calculator_use", map[string]any{"step": segment.InteractionCount()})
	}
	assert.Equal(t, session.EngagementHigh, segment.EngagementLevel)
}

func TestLogInteraction_CreatesMissingSegment(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	segment := store.LogInteraction("fresh", "page_view", nil)
	require.NotNil(t, segment)
	assert.Equal(t, 1, segment.InteractionCount())
}

func TestSetEmailSubscriberStatus(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	segment := store.SetEmailSubscriberStatus("s1", true)
	assert.True(t, segment.IsEmailSubscriber)

	segment = store.SetEmailSubscriberStatus("s1", false)
	assert.False(t, segment.IsEmailSubscriber)
}

func TestSetPersona(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	t.Run("missing segment", func(t *testing.T) {
		_, ok := store.SetPersona("absent", "fba-seller")
		assert.False(t, ok)
	})

	t.Run("existing segment", func(t *testing.T) {
		store.Create("s1")
		segment, ok := store.SetPersona("s1", "fba-seller")
		require.True(t, ok)
		require.NotNil(t, segment.DeterminedPersonaID)
		assert.Equal(t, "fba-seller", *segment.DeterminedPersonaID)
	})
}

func TestGet_ExpiredSegmentIsMiss(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	segment := store.Create("s1")
	segment.LastActive = time.Now().Add(-config.SegmentTTL - time.Minute)

	_, found := store.Get("s1")
	assert.False(t, found)
}

func TestCleanup_EvictsExpired(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	for i := 0; i < 3; i++ {
		segment := store.Create(fmt.Sprintf("expired-%d", i))
		segment.LastActive = time.Now().Add(-config.SegmentTTL - time.Minute)
	}
	store.Create("live")

	evicted := store.Cleanup()
	assert.Equal(t, 3, evicted)
	assert.Equal(t, 1, store.Count())

	_, found := store.Get("live")
	assert.True(t, found)
}

func TestRemove(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	store.Create("s1")
	store.Remove("s1")

	_, found := store.Get("s1")
	assert.False(t, found)
}

func TestGetSummary(t *testing.T) {
	store := NewVisitorSegmentStore(nil)

	store.Create("a")
	store.SetEmailSubscriberStatus("b", true)
	for i := 0; i < config.EngagedInteractions; i++ {
		store.LogInteraction("c", "page_view", nil)
	}

	summary := store.GetSummary()
	assert.Equal(t, 3, summary["segments"])
	assert.Equal(t, 1, summary["subscribers"])
	assert.Equal(t, 1, summary["medium"])
}
