package main

import "time"

// Scheduler runs fn once after d unless the returned cancel func is called
// first. fn must be delivered on the editor's event loop, never concurrently
// with other mutations.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

type pendingCommit struct {
	doc    Document
	gen    uint64
	cancel func()
}

// History is a linear undo/redo stack of whole-document snapshots. Committing
// after an undo drops everything that could have been redone.
type History struct {
	snapshots []Document
	cursor    int

	scheduler  Scheduler
	pending    *pendingCommit
	generation uint64
}

func NewHistory(scheduler Scheduler) *History {
	return &History{
		snapshots: []Document{NewDocument(nil, nil)},
		scheduler: scheduler,
	}
}

// Commit records doc immediately. A pending debounced commit is dropped so
// it cannot land later with stale data.
func (h *History) Commit(doc Document) {
	h.CancelPending()
	h.commit(doc)
}

func (h *History) commit(doc Document) {
	h.snapshots = append(h.snapshots[:h.cursor+1], doc.Clone())
	h.cursor = len(h.snapshots) - 1
}

// DebouncedCommit collapses a burst of calls into one commit of the latest
// doc, fired window after the last call of the burst.
func (h *History) DebouncedCommit(doc Document, window time.Duration) {
	h.CancelPending()
	h.generation++
	gen := h.generation
	p := &pendingCommit{doc: doc.Clone(), gen: gen}
	h.pending = p
	p.cancel = h.scheduler.After(window, func() { h.fire(gen) })
}

// fire commits the pending doc if gen is still the live burst. A timer that
// was cancelled after its callback was already queued arrives here with an
// old generation and is ignored.
func (h *History) fire(gen uint64) bool {
	if h.pending == nil || h.pending.gen != gen {
		return false
	}
	doc := h.pending.doc
	h.pending = nil
	h.commit(doc)
	return true
}

func (h *History) CancelPending() {
	if h.pending == nil {
		return
	}
	if h.pending.cancel != nil {
		h.pending.cancel()
	}
	h.pending = nil
}

func (h *History) Pending() bool {
	return h.pending != nil
}

// Undo and Redo drop a pending debounced commit when they move the cursor,
// otherwise the timer would resurrect the state that was just left.
func (h *History) Undo() (Document, bool) {
	if h.cursor == 0 {
		return Document{}, false
	}
	h.CancelPending()
	h.cursor--
	return h.snapshots[h.cursor].Clone(), true
}

func (h *History) Redo() (Document, bool) {
	if h.cursor == len(h.snapshots)-1 {
		return Document{}, false
	}
	h.CancelPending()
	h.cursor++
	return h.snapshots[h.cursor].Clone(), true
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.snapshots)-1
}

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() Document {
	return h.snapshots[h.cursor].Clone()
}

// Len is the number of snapshots, including the initial empty document.
func (h *History) Len() int {
	return len(h.snapshots)
}

func (h *History) Cursor() int {
	return h.cursor
}
