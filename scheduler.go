package main

import (
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debounceFiredMsg carries a scheduled callback back onto the bubbletea
// loop so it runs in Update like every other mutation.
type debounceFiredMsg struct {
	fire func()
}

// teaScheduler backs History in the terminal editor. Timers run on their own
// goroutine, so they only post a message; the callback itself runs in Update.
type teaScheduler struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *teaScheduler) attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *teaScheduler) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (s *teaScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		s.send(debounceFiredMsg{fire: fn})
	})
	return func() { t.Stop() }
}

// immediateScheduler runs callbacks synchronously, which turns every
// debounced commit into an immediate one.
type immediateScheduler struct{}

func (immediateScheduler) After(_ time.Duration, fn func()) func() {
	fn()
	return func() {}
}

type virtualTask struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// virtualScheduler is a deterministic clock used by replay scripts and
// tests. Nothing fires until Advance moves time past a task's deadline.
type virtualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*virtualTask
}

func newVirtualScheduler() *virtualScheduler {
	return &virtualScheduler{}
}

func (s *virtualScheduler) Now() time.Duration {
	return s.now
}

func (s *virtualScheduler) After(d time.Duration, fn func()) func() {
	s.seq++
	task := &virtualTask{at: s.now + d, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() { task.cancelled = true }
}

// Advance moves the clock forward by d, running due tasks in deadline order
// with the clock set to each task's deadline while it runs.
func (s *virtualScheduler) Advance(d time.Duration) {
	s.AdvanceTo(s.now + d)
}

func (s *virtualScheduler) AdvanceTo(t time.Duration) {
	for {
		task := s.nextDue(t)
		if task == nil {
			break
		}
		s.now = task.at
		task.fn()
	}
	if t > s.now {
		s.now = t
	}
}

func (s *virtualScheduler) nextDue(t time.Duration) *virtualTask {
	live := s.tasks[:0]
	for _, task := range s.tasks {
		if !task.cancelled {
			live = append(live, task)
		}
	}
	s.tasks = live
	if len(s.tasks) == 0 {
		return nil
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at != s.tasks[j].at {
			return s.tasks[i].at < s.tasks[j].at
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	first := s.tasks[0]
	if first.at > t {
		return nil
	}
	s.tasks = s.tasks[1:]
	return first
}

// Pending is the number of tasks that have neither fired nor been cancelled.
func (s *virtualScheduler) Pending() int {
	n := 0
	for _, task := range s.tasks {
		if !task.cancelled {
			n++
		}
	}
	return n
}
