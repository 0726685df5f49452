package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillDoc(fill string) Document {
	return NewDocument([]Element{{ID: 1, Kind: KindRect, Width: 100, Height: 50, Fill: fill}}, nil)
}

func currentFill(t *testing.T, h *History) string {
	t.Helper()
	el, ok := h.Current().Element(1)
	require.True(t, ok)
	return el.Fill
}

func TestHistory_StartsWithEmptyDocument(t *testing.T) {
	h := NewHistory(immediateScheduler{})
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Current().Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(immediateScheduler{})
	a, b := fillDoc("red"), fillDoc("green")
	h.Commit(a)
	h.Commit(b)

	doc, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, a.Elements, doc.Elements)
	assert.True(t, h.CanRedo())

	doc, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, b.Elements, doc.Elements)
	assert.False(t, h.CanRedo())
}

func TestHistory_CommitTruncatesRedo(t *testing.T) {
	h := NewHistory(immediateScheduler{})
	h.Commit(fillDoc("red"))
	h.Commit(fillDoc("green"))
	h.Undo()
	h.Commit(fillDoc("blue"))

	assert.False(t, h.CanRedo())
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, "blue", currentFill(t, h))

	h.Undo()
	assert.Equal(t, "red", currentFill(t, h))
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(immediateScheduler{})
	doc := NewDocument([]Element{{ID: 1, Kind: KindPolygon, Points: []float64{0, 0, 10, 0, 5, 10}}}, nil)
	h.Commit(doc)

	doc.Elements[0].Points[0] = 42
	got := h.Current()
	assert.Equal(t, 0.0, got.Elements[0].Points[0])

	got.Elements[0].Points[1] = 42
	assert.Equal(t, 0.0, h.Current().Elements[0].Points[1])
}

func TestHistory_DebounceCollapsesBurst(t *testing.T) {
	clock := newVirtualScheduler()
	h := NewHistory(clock)
	window := 300 * time.Millisecond

	h.DebouncedCommit(fillDoc("c0"), window)
	clock.AdvanceTo(100 * time.Millisecond)
	h.DebouncedCommit(fillDoc("c100"), window)
	clock.AdvanceTo(150 * time.Millisecond)
	h.DebouncedCommit(fillDoc("c150"), window)

	clock.AdvanceTo(449 * time.Millisecond)
	assert.Equal(t, 1, h.Len(), "nothing lands before the window closes")
	assert.True(t, h.Pending())

	clock.AdvanceTo(450 * time.Millisecond)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "c150", currentFill(t, h))
	assert.False(t, h.Pending())

	clock.AdvanceTo(500 * time.Millisecond)
	h.DebouncedCommit(fillDoc("c500"), window)
	clock.AdvanceTo(799 * time.Millisecond)
	assert.Equal(t, 2, h.Len())
	clock.AdvanceTo(800 * time.Millisecond)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "c500", currentFill(t, h))
}

func TestHistory_CommitCancelsPending(t *testing.T) {
	clock := newVirtualScheduler()
	h := NewHistory(clock)

	h.DebouncedCommit(fillDoc("stale"), 300*time.Millisecond)
	h.Commit(fillDoc("now"))
	clock.Advance(time.Second)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "now", currentFill(t, h))
	assert.Equal(t, 0, clock.Pending())
}

func TestHistory_UndoCancelsPending(t *testing.T) {
	clock := newVirtualScheduler()
	h := NewHistory(clock)
	h.Commit(fillDoc("red"))

	h.DebouncedCommit(fillDoc("green"), 300*time.Millisecond)
	_, ok := h.Undo()
	require.True(t, ok)
	clock.Advance(time.Second)

	assert.Equal(t, 0, h.Cursor())
	assert.True(t, h.CanRedo(), "a late debounce must not truncate the redo stack")
}

func TestHistory_StaleFireIsIgnored(t *testing.T) {
	clock := newVirtualScheduler()
	h := NewHistory(clock)

	h.DebouncedCommit(fillDoc("first"), time.Second)
	stale := h.generation
	h.DebouncedCommit(fillDoc("second"), time.Second)

	assert.False(t, h.fire(stale))
	assert.Equal(t, 1, h.Len())

	assert.True(t, h.fire(h.generation))
	assert.Equal(t, "second", currentFill(t, h))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, h.Len(), "the timer of a fired commit does nothing")
}

func TestHistory_DebouncedPayloadIsCopied(t *testing.T) {
	clock := newVirtualScheduler()
	h := NewHistory(clock)
	doc := fillDoc("red")

	h.DebouncedCommit(doc, 10*time.Millisecond)
	doc.Elements[0].Fill = "mutated"
	clock.Advance(10 * time.Millisecond)

	assert.Equal(t, "red", currentFill(t, h))
}
