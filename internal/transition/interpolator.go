// Package transition holds the time-boxed helpers driven by the game tick:
// camera interpolation, one-shot timers and screen fades.
package transition

import (
	"io"
	"log"

	"github.com/tatianab/proposal-game/internal/geom"
)

// Camera is a position and the point it looks at.
type Camera struct {
	Pos  geom.Vec3 `yaml:"pos"`
	Look geom.Vec3 `yaml:"look"`
}

// Lerp blends two cameras component by component.
func (c Camera) Lerp(to Camera, t float64) Camera {
	return Camera{Pos: c.Pos.Lerp(to.Pos, t), Look: c.Look.Lerp(to.Look, t)}
}

// Interpolator moves the camera from one pose to another over a fixed
// duration with ease-in-out, then fires its completion callback once.
type Interpolator struct {
	logger     *log.Logger
	active     bool
	from, to   Camera
	duration   float64
	progress   float64
	cam        Camera
	onComplete func()
}

func NewInterpolator(logger *log.Logger) *Interpolator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Interpolator{logger: logger}
}

// Start begins a new sweep. A sweep already in flight is dropped without its
// callback. Non-positive durations fall back to one second.
func (ip *Interpolator) Start(from, to Camera, duration float64, onComplete func()) {
	if ip.active {
		ip.logger.Printf("transition: replacing camera sweep at %.0f%%", ip.progress*100)
	}
	if duration <= 0 {
		duration = 1
	}
	ip.active = true
	ip.from, ip.to = from, to
	ip.duration = duration
	ip.progress = 0
	ip.cam = from
	ip.onComplete = onComplete
}

// Update advances the sweep by dt seconds.
func (ip *Interpolator) Update(dt float64) {
	if !ip.active {
		return
	}
	ip.progress += dt / ip.duration
	if ip.progress < 1 {
		ip.cam = ip.from.Lerp(ip.to, geom.EaseInOutQuad(ip.progress))
		return
	}
	ip.progress = 1
	ip.cam = ip.to
	ip.active = false
	done := ip.onComplete
	ip.onComplete = nil
	if done != nil {
		done()
	}
}

// Cancel stops the sweep where it is. The callback does not fire.
func (ip *Interpolator) Cancel() {
	ip.active = false
	ip.onComplete = nil
}

func (ip *Interpolator) Active() bool      { return ip.active }
func (ip *Interpolator) Progress() float64 { return ip.progress }
func (ip *Interpolator) Camera() Camera    { return ip.cam }
