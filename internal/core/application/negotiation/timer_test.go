package negotiation_test

import (
	"sync"
	"testing"
	"time"

	"dispatch/internal/core/application/negotiation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []offer.Event
}

func (r *recorder) listen(ev offer.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []offer.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]offer.Event(nil), r.events...)
}

func (r *recorder) types() []offer.EventType {
	out := make([]offer.EventType, 0)
	for _, ev := range r.all() {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) terminal() []offer.Event {
	out := make([]offer.Event, 0)
	for _, ev := range r.all() {
		if ev.IsTerminal() {
			out = append(out, ev)
		}
	}
	return out
}

func newOffer(t *testing.T, kind offer.Kind, timeout int) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(kernel.NewUUID(), kind, kernel.NewUUID(), fixedNow, timeout)
	require.NoError(t, err)
	return o
}

func newTimer(r *recorder) *negotiation.Timer {
	return negotiation.NewTimer(r.listen).WithClock(func() time.Time { return fixedNow })
}

func TestTimer_Start(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	o := newOffer(t, offer.KindBatch, 15)

	require.NoError(t, timer.Start(o))

	events := r.all()
	require.Len(t, events, 1)
	assert.Equal(t, offer.EventStarted, events[0].Type)
	assert.Equal(t, 15, events[0].RemainingSeconds)
	assert.Equal(t, 15, events[0].TotalSeconds)
	assert.InDelta(t, 1.0, events[0].Progress, 1e-9)
	assert.Equal(t, fixedNow, events[0].OccurredAt)

	snap, ok := timer.Snapshot()
	require.True(t, ok)
	assert.Equal(t, o.ID(), snap.OfferID)
	assert.Equal(t, offer.Pending, snap.State)
	assert.Equal(t, offer.KindBatch, snap.Kind)
}

func TestTimer_StartRejectsUnusableOffers(t *testing.T) {
	timer := newTimer(&recorder{})

	assert.ErrorIs(t, timer.Start(nil), offer.ErrOfferIsNotConstructed)
	assert.ErrorIs(t, timer.Start(&offer.Offer{}), offer.ErrOfferIsNotConstructed)

	resolved := newOffer(t, offer.KindSingle, 30)
	require.NoError(t, resolved.Skip())
	assert.ErrorIs(t, timer.Start(resolved), offer.ErrOfferIsNotPending)

	_, ok := timer.Snapshot()
	assert.False(t, ok)
}

func TestTimer_StartingLiveOfferAgainChangesNothing(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	o := newOffer(t, offer.KindBatch, 15)
	require.NoError(t, timer.Start(o))
	require.True(t, timer.Tick())

	err := timer.Start(o)

	require.ErrorIs(t, err, negotiation.ErrOfferAlreadyStarted)
	assert.True(t, o.IsPending())
	assert.Equal(t, []offer.EventType{offer.EventStarted, offer.EventTicked}, r.types())
	snap, ok := timer.Snapshot()
	require.True(t, ok)
	assert.Equal(t, offer.Pending, snap.State)
	assert.Equal(t, 14, snap.RemainingSeconds)
}

func TestTimer_EventSequence(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	require.NoError(t, timer.Start(newOffer(t, offer.KindBatch, 15)))
	require.True(t, timer.Tick())
	require.NoError(t, timer.Start(newOffer(t, offer.KindSingle, 30)))
	_, err := timer.Accept()
	require.NoError(t, err)

	events := r.all()
	require.Len(t, events, 5)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Sequence, "event %d (%s)", i, ev.Type)
	}
}

func TestTimer_ExpiresAfterFullCountdown(t *testing.T) {
	// Given
	r := &recorder{}
	timer := newTimer(r)
	o := newOffer(t, offer.KindSingle, 30)
	require.NoError(t, timer.Start(o))

	// When
	for i := 0; i < 30; i++ {
		assert.True(t, timer.Tick(), "tick %d", i+1)
	}

	// Then
	events := r.all()
	require.Len(t, events, 32)
	last := events[len(events)-1]
	lastTick := events[len(events)-2]
	assert.Equal(t, offer.EventTicked, lastTick.Type)
	assert.Equal(t, 0, lastTick.RemainingSeconds)
	assert.Equal(t, offer.EventExpired, last.Type)
	assert.Equal(t, offer.Expired, last.State)
	assert.Equal(t, 0, last.RemainingSeconds)
	assert.InDelta(t, 0.0, last.Progress, 1e-9)

	snap, ok := timer.Snapshot()
	require.True(t, ok)
	assert.Equal(t, offer.Expired, snap.State)
	assert.Equal(t, 0, snap.RemainingSeconds)
	assert.Equal(t, offer.Expired, o.State())

	assert.False(t, timer.Tick(), "a resolved offer is not ticked")
	assert.Len(t, r.all(), 32)
}

func TestTimer_ProgressDecreasesMonotonically(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	require.NoError(t, timer.Start(newOffer(t, offer.KindBatch, 15)))

	for i := 0; i < 15; i++ {
		timer.Tick()
	}

	previous := 1.0
	for _, ev := range r.all() {
		if ev.Type != offer.EventTicked {
			continue
		}
		assert.GreaterOrEqual(t, ev.Progress, 0.0)
		assert.LessOrEqual(t, ev.Progress, previous)
		assert.GreaterOrEqual(t, ev.RemainingSeconds, 0)
		previous = ev.Progress
	}
}

func TestTimer_NewOfferCancelsLiveOne(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	first := newOffer(t, offer.KindBatch, 15)
	second := newOffer(t, offer.KindSingle, 30)
	require.NoError(t, timer.Start(first))
	timer.Tick()

	require.NoError(t, timer.Start(second))

	assert.Equal(t, offer.Cancelled, first.State())
	assert.Equal(t, []offer.EventType{
		offer.EventStarted,
		offer.EventTicked,
		offer.EventCancelled,
		offer.EventStarted,
	}, r.types())

	events := r.all()
	assert.Equal(t, first.ID(), events[2].OfferID)
	assert.Equal(t, second.ID(), events[3].OfferID)
	assert.Equal(t, 30, events[3].RemainingSeconds)

	for i := 0; i < 15; i++ {
		timer.Tick()
	}
	assert.Equal(t, offer.Cancelled, first.State(), "a cancelled offer never expires")
	assert.Equal(t, offer.Pending, second.State())
}

func TestTimer_StartAfterResolvedOfferEmitsNoCancel(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	require.NoError(t, timer.Start(newOffer(t, offer.KindBatch, 15)))
	_, err := timer.Decline()
	require.NoError(t, err)

	require.NoError(t, timer.Start(newOffer(t, offer.KindBatch, 15)))

	assert.Equal(t, []offer.EventType{
		offer.EventStarted,
		offer.EventDeclined,
		offer.EventStarted,
	}, r.types())
}

func TestTimer_ExplicitActions(t *testing.T) {
	tests := []struct {
		name      string
		act       func(*negotiation.Timer) (negotiation.Snapshot, error)
		wantState offer.State
		wantEvent offer.EventType
	}{
		{"accept", (*negotiation.Timer).Accept, offer.Accepted, offer.EventAccepted},
		{"decline", (*negotiation.Timer).Decline, offer.Declined, offer.EventDeclined},
		{"skip", (*negotiation.Timer).Skip, offer.Skipped, offer.EventSkipped},
		{"cancel", (*negotiation.Timer).Cancel, offer.Cancelled, offer.EventCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			timer := newTimer(r)
			require.NoError(t, timer.Start(newOffer(t, offer.KindBatch, 15)))
			timer.Tick()
			timer.Tick()

			snap, err := tt.act(timer)

			require.NoError(t, err)
			assert.Equal(t, tt.wantState, snap.State)
			assert.Equal(t, 13, snap.RemainingSeconds)
			assert.Equal(t, tt.wantEvent, r.all()[len(r.all())-1].Type)

			assert.False(t, timer.Tick(), "countdown stops on an explicit action")
			_, err = tt.act(timer)
			assert.ErrorIs(t, err, negotiation.ErrNoLiveOffer)
			assert.Len(t, r.terminal(), 1)
		})
	}
}

func TestTimer_ActionsWithoutOffer(t *testing.T) {
	timer := newTimer(&recorder{})

	_, err := timer.Accept()
	assert.ErrorIs(t, err, negotiation.ErrNoLiveOffer)
	_, err = timer.Skip()
	assert.ErrorIs(t, err, negotiation.ErrNoLiveOffer)
	assert.False(t, timer.Tick())
}

func TestTimer_AcceptAtZeroWinsOverExpiry(t *testing.T) {
	// Given a listener that accepts as soon as the countdown shows zero
	r := &recorder{}
	var timer *negotiation.Timer
	var acceptErr error
	timer = negotiation.NewTimer(func(ev offer.Event) {
		r.listen(ev)
		if ev.Type == offer.EventTicked && ev.RemainingSeconds == 0 {
			_, acceptErr = timer.Accept()
		}
	})
	o := newOffer(t, offer.KindBatch, 3)
	require.NoError(t, timer.Start(o))

	// When
	for i := 0; i < 3; i++ {
		timer.Tick()
	}

	// Then
	require.NoError(t, acceptErr)
	assert.Equal(t, offer.Accepted, o.State())
	assert.Equal(t, []offer.EventType{
		offer.EventStarted,
		offer.EventTicked,
		offer.EventTicked,
		offer.EventTicked,
		offer.EventAccepted,
	}, r.types())
}

func TestTimer_ConcurrentTicksAndAccept(t *testing.T) {
	r := &recorder{}
	timer := newTimer(r)
	o := newOffer(t, offer.KindBatch, 5)
	require.NoError(t, timer.Start(o))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Tick()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = timer.Accept()
	}()
	wg.Wait()

	terminal := r.terminal()
	require.Len(t, terminal, 1, "exactly one outcome per offer")
	assert.Contains(t, []offer.State{offer.Accepted, offer.Expired}, o.State())
	assert.Equal(t, o.State(), terminal[0].State)

	// Listener order may interleave; the sequence still puts the outcome last.
	seen := make(map[uint64]bool)
	for _, ev := range r.all() {
		assert.False(t, seen[ev.Sequence], "duplicate sequence %d", ev.Sequence)
		seen[ev.Sequence] = true
		if !ev.IsTerminal() {
			assert.Less(t, ev.Sequence, terminal[0].Sequence)
		}
	}

	snap, ok := timer.Snapshot()
	require.True(t, ok)
	assert.GreaterOrEqual(t, snap.RemainingSeconds, 0)
}
