package gesture

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/flow-touch/internal/domain"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

const tick = 20 * time.Millisecond

// feed drives the classifier with touched for hold, then released samples
// for the same tick period until the classifier goes idle. It returns every
// non-none event in order.
func feed(c *Classifier, start time.Time, hold time.Duration, at image.Point) ([]Event, time.Time) {
	var events []Event
	now := start
	for ; now.Sub(start) < hold; now = now.Add(tick) {
		if ev := c.Update(domain.TouchSample{Touched: true, Point: at, HasPoint: true}, now); ev.Type != EventNone {
			events = append(events, ev)
		}
	}
	for i := 0; i < 50 && c.Pressed(); i++ {
		if ev := c.Update(domain.TouchSample{}, now); ev.Type != EventNone {
			events = append(events, ev)
		}
		now = now.Add(tick)
	}
	return events, now
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestClassifier_ShortTap(t *testing.T) {
	c := New(DefaultConfig())

	events, _ := feed(c, t0, 100*time.Millisecond, image.Pt(40, 60))

	require.Equal(t, []EventType{EventPressed, EventShortTap}, types(events))
	assert.Equal(t, image.Pt(40, 60), events[1].Point)
	assert.Equal(t, 100*time.Millisecond, events[1].Duration)
}

func TestClassifier_LongPressFiresOnceBeforeRelease(t *testing.T) {
	c := New(DefaultConfig())
	at := image.Pt(86, 160)

	now := t0
	var fired []time.Time
	for ; now.Sub(t0) < 3*time.Second; now = now.Add(tick) {
		ev := c.Update(domain.TouchSample{Touched: true, Point: at, HasPoint: true}, now)
		if ev.Type == EventLongPress {
			fired = append(fired, now)
		}
	}

	require.Len(t, fired, 1)
	assert.Equal(t, t0.Add(time.Second), fired[0], "long press fires at the threshold while still held")
	assert.True(t, c.Pressed())

	var after []EventType
	for i := 0; i < 20; i++ {
		if ev := c.Update(domain.TouchSample{}, now); ev.Type != EventNone {
			after = append(after, ev.Type)
		}
		now = now.Add(tick)
	}
	assert.Equal(t, []EventType{EventReleased}, after, "no short tap after a long press")
}

func TestClassifier_DebounceBridgesChatter(t *testing.T) {
	c := New(DefaultConfig())
	at := image.Pt(10, 10)

	// contact line drops for 100ms in the middle of a 1.2s hold
	var got []EventType
	now := t0
	for ; now.Sub(t0) < 1200*time.Millisecond; now = now.Add(tick) {
		gap := now.Sub(t0) >= 400*time.Millisecond && now.Sub(t0) < 500*time.Millisecond
		if ev := c.Update(domain.TouchSample{Touched: !gap, Point: at, HasPoint: !gap}, now); ev.Type != EventNone {
			got = append(got, ev.Type)
		}
	}

	assert.Equal(t, []EventType{EventPressed, EventLongPress}, got)
}

func TestClassifier_ReleaseNeedsDebounceWindow(t *testing.T) {
	c := New(DefaultConfig())
	at := image.Pt(5, 5)

	c.Update(domain.TouchSample{Touched: true, Point: at, HasPoint: true}, t0)
	c.Update(domain.TouchSample{Touched: true}, t0.Add(50*time.Millisecond))

	ev := c.Update(domain.TouchSample{}, t0.Add(60*time.Millisecond))
	assert.Equal(t, EventNone, ev.Type)
	ev = c.Update(domain.TouchSample{}, t0.Add(259*time.Millisecond))
	assert.Equal(t, EventNone, ev.Type)
	ev = c.Update(domain.TouchSample{}, t0.Add(260*time.Millisecond))
	assert.Equal(t, EventShortTap, ev.Type)
	assert.Equal(t, 60*time.Millisecond, ev.Duration)
}

func TestClassifier_TooShortIsNotATap(t *testing.T) {
	c := New(DefaultConfig())

	c.Update(domain.TouchSample{Touched: true, Point: image.Pt(1, 1), HasPoint: true}, t0)
	c.Update(domain.TouchSample{}, t0.Add(5*time.Millisecond))
	ev := c.Update(domain.TouchSample{}, t0.Add(300*time.Millisecond))

	assert.Equal(t, EventReleased, ev.Type)
}

func TestClassifier_CoordinateLagsContact(t *testing.T) {
	c := New(DefaultConfig())

	c.Update(domain.TouchSample{Touched: true}, t0)
	c.Update(domain.TouchSample{Touched: true, Point: image.Pt(120, 30), HasPoint: true}, t0.Add(tick))
	c.Update(domain.TouchSample{}, t0.Add(2*tick))
	ev := c.Update(domain.TouchSample{}, t0.Add(2*tick+200*time.Millisecond))

	require.Equal(t, EventShortTap, ev.Type)
	assert.Equal(t, image.Pt(120, 30), ev.Point)
}

func TestClassifier_NoCoordinateMeansNoTap(t *testing.T) {
	c := New(DefaultConfig())

	c.Update(domain.TouchSample{Touched: true}, t0)
	c.Update(domain.TouchSample{Touched: true}, t0.Add(50*time.Millisecond))
	c.Update(domain.TouchSample{}, t0.Add(60*time.Millisecond))
	ev := c.Update(domain.TouchSample{}, t0.Add(400*time.Millisecond))

	assert.Equal(t, EventReleased, ev.Type)
}

func TestClassifier_EachContactNeedsItsOwnCoordinate(t *testing.T) {
	c := New(DefaultConfig())

	events, _ := feed(c, t0, 100*time.Millisecond, image.Pt(10, 10))
	require.Equal(t, []EventType{EventPressed, EventShortTap}, types(events))
	assert.Equal(t, image.Pt(10, 10), events[1].Point)

	now := t0.Add(10 * time.Second)
	var second []EventType
	for i := 0; i < 5; i++ {
		if ev := c.Update(domain.TouchSample{Touched: true}, now); ev.Type != EventNone {
			second = append(second, ev.Type)
		}
		now = now.Add(tick)
	}
	for i := 0; i < 50 && c.Pressed(); i++ {
		if ev := c.Update(domain.TouchSample{}, now); ev.Type != EventNone {
			second = append(second, ev.Type)
		}
		now = now.Add(tick)
	}

	assert.Equal(t, []EventType{EventPressed, EventReleased}, second,
		"a contact without coordinates must not tap at the previous contact's point")
}

func TestClassifier_SuppressTapsAfterStart(t *testing.T) {
	c := New(DefaultConfig())
	at := image.Pt(86, 290)

	c.SuppressTaps(t0)

	events, end := feed(c, t0.Add(100*time.Millisecond), 100*time.Millisecond, at)
	assert.Equal(t, []EventType{EventPressed, EventReleased}, types(events), "tap inside the window is dropped")
	require.True(t, end.Before(t0.Add(1500*time.Millisecond)))

	events, _ = feed(c, t0.Add(1600*time.Millisecond), 100*time.Millisecond, at)
	assert.Equal(t, []EventType{EventPressed, EventShortTap}, types(events), "tap after the window is delivered")
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "long_press", EventLongPress.String())
	assert.Equal(t, "none", EventType(99).String())
}
