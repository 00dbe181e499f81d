// Package dodge moves "no" markers out of the player's way. The same timed
// out/hold/return cycle serves both the walk-up pose spots and the aimed-at
// range targets; only the trigger differs.
package dodge

import (
	"fmt"
	"math/rand"

	"github.com/tatianab/proposal-game/internal/geom"
)

// Kind tells a yes marker from a no marker.
type Kind string

const (
	Yes Kind = "yes"
	No  Kind = "no"
)

// Trigger selects what makes a marker dodge.
type Trigger string

const (
	// Proximity dodges away from the player when they step close.
	Proximity Trigger = "proximity"
	// Aim dodges sideways when the aim ray passes close in front.
	Aim Trigger = "aim"
)

// Phase of a dodge cycle.
type Phase int

const (
	Idle Phase = iota
	Out
	Hold
	Return
)

func (p Phase) String() string {
	switch p {
	case Out:
		return "out"
	case Hold:
		return "hold"
	case Return:
		return "return"
	default:
		return "idle"
	}
}

// Spot is a pose spot or range target.
type Spot struct {
	ID     string
	Kind   Kind
	Origin geom.Vec3
	Pos    geom.Vec3
	Struck bool
	// Bounds, when set, limits where a dodge can carry the marker.
	Bounds *geom.Bounds

	dodging bool
	timer   float64
	dir     geom.Vec3
}

func NewSpot(id string, kind Kind, origin geom.Vec3, bounds *geom.Bounds) *Spot {
	return &Spot{ID: id, Kind: kind, Origin: origin, Pos: origin, Bounds: bounds}
}

func (s *Spot) Position() geom.Vec3 { return s.Pos }

func (s *Spot) Dodging() bool { return s.dodging }

// Hittable reports whether a strike can land on the spot right now.
func (s *Spot) Hittable() bool { return !s.Struck && !s.dodging }

// Config tunes one dodge system. Durations are seconds.
type Config struct {
	Trigger    Trigger  `yaml:"trigger"`
	Out        float64  `yaml:"out"`
	Hold       float64  `yaml:"hold"`
	Return     float64  `yaml:"return"`
	Threshold  float64  `yaml:"threshold"`
	Magnitude  float64  `yaml:"magnitude"`
	AimHeight  float64  `yaml:"aim_height"`
	FacingDot  float64  `yaml:"facing_dot"`
	BubbleLife float64  `yaml:"bubble_life"`
	BubbleRise float64  `yaml:"bubble_rise"`
	Bubbles    bool     `yaml:"bubbles"`
	Messages   []string `yaml:"messages"`
}

func (c Config) Total() float64 { return c.Out + c.Hold + c.Return }

func (c Config) Validate() error {
	switch c.Trigger {
	case Proximity, Aim:
	default:
		return fmt.Errorf("dodge: unknown trigger %q", c.Trigger)
	}
	if c.Out <= 0 || c.Hold < 0 || c.Return <= 0 {
		return fmt.Errorf("dodge: durations must be positive (out=%v hold=%v return=%v)", c.Out, c.Hold, c.Return)
	}
	if c.Threshold <= 0 || c.Magnitude <= 0 {
		return fmt.Errorf("dodge: threshold and magnitude must be positive")
	}
	return nil
}

// Bubble is a floating speech bubble. It is visual feedback only.
type Bubble struct {
	Text string
	Pos  geom.Vec3
	Life float64
}

// Opacity fades the bubble over its last half second.
func (b Bubble) Opacity() float64 {
	return geom.Clamp(b.Life*2, 0, 1)
}

// Sense is what the system observes each frame.
type Sense struct {
	Player geom.Vec3
	Aim    *geom.Ray
}

// System animates every no marker it tracks.
type System struct {
	cfg     Config
	spots   []*Spot
	enabled bool
	bubbles []Bubble
	msgIdx  int
	rng     *rand.Rand
}

func NewSystem(cfg Config, rng *rand.Rand) *System {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &System{cfg: cfg, rng: rng}
}

func (s *System) Config() Config { return s.cfg }

// SetSpots tracks the no markers among spots.
func (s *System) SetSpots(spots []*Spot) {
	s.spots = make([]*Spot, 0, len(spots))
	for _, sp := range spots {
		if sp != nil && sp.Kind == No {
			s.spots = append(s.spots, sp)
		}
	}
}

func (s *System) Spots() []*Spot { return s.spots }

func (s *System) Enable()       { s.enabled = true }
func (s *System) Disable()      { s.enabled = false }
func (s *System) Enabled() bool { return s.enabled }

// Bubbles returns the live bubbles.
func (s *System) Bubbles() []Bubble { return s.bubbles }

// ClearBubbles drops every live bubble.
func (s *System) ClearBubbles() { s.bubbles = nil }

// PhaseOf reports where sp is in its dodge cycle.
func (s *System) PhaseOf(sp *Spot) Phase {
	if !sp.dodging {
		return Idle
	}
	switch {
	case sp.timer < s.cfg.Out:
		return Out
	case sp.timer < s.cfg.Out+s.cfg.Hold:
		return Hold
	default:
		return Return
	}
}

// Update advances running dodges, starts new ones from in and ages bubbles.
func (s *System) Update(dt float64, in Sense) {
	if !s.enabled {
		return
	}
	for _, sp := range s.spots {
		if sp.Struck {
			continue
		}
		if sp.dodging {
			s.advance(sp, dt)
			continue
		}
		switch s.cfg.Trigger {
		case Proximity:
			if in.Player.Dist(sp.Pos) < s.cfg.Threshold {
				s.start(sp, s.awayFrom(sp, in.Player), s.cfg.Bubbles)
			}
		case Aim:
			if in.Aim != nil && s.aimedAt(sp, *in.Aim) {
				s.start(sp, s.sideways(), false)
			}
		}
	}
	s.ageBubbles(dt)
}

// advance moves sp along its cycle. The offset is eased within each moving
// phase and the marker lands exactly on its origin once the cycle is over.
func (s *System) advance(sp *Spot, dt float64) {
	sp.timer += dt
	c := s.cfg
	var frac float64
	switch {
	case sp.timer < c.Out:
		frac = geom.EaseInOutQuad(sp.timer / c.Out)
	case sp.timer < c.Out+c.Hold:
		frac = 1
	case sp.timer < c.Total():
		frac = 1 - geom.EaseInOutQuad((sp.timer-c.Out-c.Hold)/c.Return)
	default:
		sp.Pos = sp.Origin
		sp.dodging = false
		sp.timer = 0
		return
	}
	p := sp.Origin.Add(sp.dir.Scale(c.Magnitude * frac))
	if sp.Bounds != nil {
		p = sp.Bounds.Clamp(p)
	}
	sp.Pos = p
}

func (s *System) awayFrom(sp *Spot, player geom.Vec3) geom.Vec3 {
	d := geom.V(sp.Pos.X-player.X, 0, sp.Pos.Z-player.Z)
	if d.Len() > 0.01 {
		return d.Normalize()
	}
	return s.sideways()
}

func (s *System) sideways() geom.Vec3 {
	if s.rng.Float64() > 0.5 {
		return geom.V(1, 0, 0)
	}
	return geom.V(-1, 0, 0)
}

func (s *System) aimedAt(sp *Spot, ray geom.Ray) bool {
	center := sp.Pos.Add(geom.V(0, s.cfg.AimHeight, 0))
	if ray.DistanceTo(center) >= s.cfg.Threshold {
		return false
	}
	return ray.Dir.Dot(center.Sub(ray.Origin).Normalize()) > s.cfg.FacingDot
}

func (s *System) start(sp *Spot, dir geom.Vec3, bubble bool) {
	if sp.dodging || sp.Struck {
		return
	}
	sp.dodging = true
	sp.timer = 0
	sp.dir = dir
	if bubble {
		s.say(sp)
	}
}

// ShotAt makes a no marker that was actually hit dodge sideways with a bubble.
func (s *System) ShotAt(sp *Spot) {
	if sp == nil || sp.Kind != No {
		return
	}
	s.start(sp, s.sideways(), true)
}

func (s *System) say(sp *Spot) {
	if len(s.cfg.Messages) == 0 {
		return
	}
	msg := s.cfg.Messages[s.msgIdx%len(s.cfg.Messages)]
	s.msgIdx++
	life := s.cfg.BubbleLife
	if life <= 0 {
		life = 1.5
	}
	s.bubbles = append(s.bubbles, Bubble{
		Text: msg,
		Pos:  sp.Pos.Add(geom.V(0, 2, 0)),
		Life: life,
	})
}

func (s *System) ageBubbles(dt float64) {
	live := s.bubbles[:0]
	for _, b := range s.bubbles {
		b.Life -= dt
		if b.Life <= 0 {
			continue
		}
		b.Pos.Y += dt * s.cfg.BubbleRise
		live = append(live, b)
	}
	s.bubbles = live
}
