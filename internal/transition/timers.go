package transition

// TimerID identifies a scheduled callback.
type TimerID uint64

type timer struct {
	id   TimerID
	left float64
	fn   func()
}

// Timers runs one-shot callbacks on the game tick instead of wall-clock
// goroutines, so a paused or headless game stays deterministic.
type Timers struct {
	next   TimerID
	items  []timer
	firing map[TimerID]bool
}

func NewTimers() *Timers {
	return &Timers{firing: make(map[TimerID]bool)}
}

// After schedules fn to run once at least seconds of game time have passed.
func (t *Timers) After(seconds float64, fn func()) TimerID {
	t.next++
	t.items = append(t.items, timer{id: t.next, left: seconds, fn: fn})
	return t.next
}

// Cancel drops a pending timer. It is safe to call from inside a callback,
// including for a timer that is due on the same tick.
func (t *Timers) Cancel(id TimerID) {
	delete(t.firing, id)
	for i, tm := range t.items {
		if tm.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Update advances every timer by dt and runs the ones that came due, in
// scheduling order. Timers scheduled by those callbacks wait for a later tick.
func (t *Timers) Update(dt float64) {
	pending := t.items
	t.items = nil
	var due []timer
	for _, tm := range pending {
		tm.left -= dt
		if tm.left <= 0 {
			due = append(due, tm)
			t.firing[tm.id] = true
			continue
		}
		t.items = append(t.items, tm)
	}
	for _, tm := range due {
		if !t.firing[tm.id] {
			continue
		}
		delete(t.firing, tm.id)
		if tm.fn != nil {
			tm.fn()
		}
	}
}

// Pending reports whether id is still scheduled.
func (t *Timers) Pending(id TimerID) bool {
	for _, tm := range t.items {
		if tm.id == id {
			return true
		}
	}
	return false
}

func (t *Timers) Len() int { return len(t.items) }

// Clear drops every pending timer.
func (t *Timers) Clear() {
	t.items = nil
	t.firing = make(map[TimerID]bool)
}
