package transition

// FadePhase is where a Fader is in its cycle.
type FadePhase int

const (
	FadeNone FadePhase = iota
	FadeOut
	FadeHeld
	FadeIn
)

// Fader covers the screen with a solid colour and uncovers it again.
type Fader struct {
	phase    FadePhase
	color    string
	alpha    float64
	duration float64
	elapsed  float64
	done     func()
}

// Out fades to color over duration seconds, then holds and calls done.
func (f *Fader) Out(duration float64, color string, done func()) {
	f.color = color
	f.start(FadeOut, duration, done)
}

// In fades back from the current colour and calls done when clear.
func (f *Fader) In(duration float64, done func()) {
	f.start(FadeIn, duration, done)
}

func (f *Fader) start(p FadePhase, duration float64, done func()) {
	f.phase = p
	f.duration = duration
	f.elapsed = 0
	f.done = done
	if duration <= 0 {
		f.finish()
	}
}

func (f *Fader) Update(dt float64) {
	if f.phase != FadeOut && f.phase != FadeIn {
		return
	}
	f.elapsed += dt
	t := f.elapsed / f.duration
	if t >= 1 {
		f.finish()
		return
	}
	if f.phase == FadeOut {
		f.alpha = t
	} else {
		f.alpha = 1 - t
	}
}

func (f *Fader) finish() {
	if f.phase == FadeOut {
		f.alpha = 1
		f.phase = FadeHeld
	} else {
		f.alpha = 0
		f.phase = FadeNone
	}
	done := f.done
	f.done = nil
	if done != nil {
		done()
	}
}

// Alpha is 0 when the scene is fully visible and 1 when fully covered.
func (f *Fader) Alpha() float64   { return f.alpha }
func (f *Fader) Color() string    { return f.color }
func (f *Fader) Phase() FadePhase { return f.phase }
func (f *Fader) Busy() bool       { return f.phase == FadeOut || f.phase == FadeIn }
