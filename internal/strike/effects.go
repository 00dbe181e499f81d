package strike

import (
	"math"
	"math/rand"

	"github.com/tatianab/proposal-game/internal/geom"
)

// EffectKind names a kind of transient particle.
type EffectKind string

const (
	Confetti EffectKind = "confetti"
	Heart    EffectKind = "heart"
	Flash    EffectKind = "flash"
	Text     EffectKind = "text"
	Spark    EffectKind = "spark"
	Tracer   EffectKind = "tracer"
	Shower   EffectKind = "shower"
)

// Particle is one short-lived effect. Each particle ages on its own.
type Particle struct {
	Kind    EffectKind
	Pos     geom.Vec3
	Vel     geom.Vec3
	End     geom.Vec3 // tracer end point
	Text    string
	Life    float64
	MaxLife float64
	Gravity float64
	Drag    float64
	Rise    float64
	Bounce  bool
}

// Opacity fades confetti over its last half second, text over its last
// second, and everything else linearly over its life.
func (p Particle) Opacity() float64 {
	switch p.Kind {
	case Confetti, Heart:
		if p.Life < 0.5 {
			return p.Life / 0.5
		}
		return 1
	case Text:
		return geom.Clamp(p.Life, 0, 1)
	default:
		if p.MaxLife <= 0 {
			return 0
		}
		return geom.Clamp(p.Life/p.MaxLife, 0, 1)
	}
}

const (
	confettiPieces = 40
	burstHearts    = 6
	showerPieces   = 300
	floorY         = 0.05
	lostY          = -0.5
)

// Effects owns every live particle.
type Effects struct {
	rng   *rand.Rand
	parts []Particle
}

func NewEffects(rng *rand.Rand) *Effects {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Effects{rng: rng}
}

func (e *Effects) between(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

func (e *Effects) heading() geom.Vec3 {
	return geom.Heading(e.between(0, 2*math.Pi))
}

// Burst throws confetti and hearts up from a struck spot.
func (e *Effects) Burst(at geom.Vec3) {
	for i := 0; i < confettiPieces; i++ {
		dir := e.heading().Scale(e.between(1.5, 4))
		dir.Y = e.between(3, 6)
		life := e.between(2, 3)
		e.parts = append(e.parts, Particle{
			Kind:    Confetti,
			Pos:     geom.V(at.X+e.between(-0.25, 0.25), e.between(1.5, 2), at.Z+e.between(-0.25, 0.25)),
			Vel:     dir,
			Life:    life,
			MaxLife: life,
			Gravity: 6,
			Drag:    1.5,
		})
	}
	for i := 0; i < burstHearts; i++ {
		dir := e.heading()
		dir.Y = e.between(4, 6)
		e.parts = append(e.parts, Particle{
			Kind:    Heart,
			Pos:     geom.V(at.X+e.between(-0.15, 0.15), 1.8, at.Z+e.between(-0.15, 0.15)),
			Vel:     dir,
			Life:    2.5,
			MaxLife: 2.5,
			Gravity: 4,
			Drag:    1.5,
		})
	}
}

// Flashes pops a camera flash on each side of the runway level with z.
func (e *Effects) Flashes(z float64) {
	for _, x := range []float64{-3.5, 3.5} {
		e.parts = append(e.parts, Particle{Kind: Flash, Pos: geom.V(x, 1.5, z), Life: 0.4, MaxLife: 0.4})
	}
}

// Say floats a line of text above at.
func (e *Effects) Say(at geom.Vec3, msg string, life float64) {
	e.parts = append(e.parts, Particle{
		Kind:    Text,
		Pos:     geom.V(at.X, 2.5, at.Z),
		Text:    msg,
		Life:    life,
		MaxLife: life,
		Rise:    0.3,
	})
}

// Sparks marks an impact point.
func (e *Effects) Sparks(at geom.Vec3) {
	for i := 0; i < 6; i++ {
		e.parts = append(e.parts, Particle{
			Kind:    Spark,
			Pos:     at,
			Vel:     geom.V(e.between(-1.5, 1.5), e.between(0, 3), e.between(-1.5, 1.5)),
			Life:    0.4,
			MaxLife: 0.4,
			Gravity: 9.8,
		})
	}
}

// Trail draws a missed shot.
func (e *Effects) Trail(from, to geom.Vec3) {
	e.parts = append(e.parts, Particle{Kind: Tracer, Pos: from, End: to, Life: 0.1, MaxLife: 0.1})
}

// Celebrate rains confetti over origin. Pieces bounce off the floor and fade
// slowly.
func (e *Effects) Celebrate(origin geom.Vec3) {
	life := 1 / 0.15
	for i := 0; i < showerPieces; i++ {
		e.parts = append(e.parts, Particle{
			Kind:    Shower,
			Pos:     origin.Add(geom.V(e.between(-2, 2), e.between(2, 5), e.between(-2, 2))),
			Vel:     geom.V(e.between(-2, 2), e.between(-1, 2), e.between(-2, 2)),
			Life:    life,
			MaxLife: life,
			Gravity: 3,
			Bounce:  true,
		})
	}
}

// Update ages and moves every particle and drops the expired ones.
func (e *Effects) Update(dt float64) {
	live := e.parts[:0]
	for _, p := range e.parts {
		p.Life -= dt
		if p.Life <= 0 || (!p.Bounce && p.Pos.Y < lostY) {
			continue
		}
		if p.Gravity != 0 {
			p.Vel.Y -= p.Gravity * dt
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Pos.Y += p.Rise * dt
		if p.Drag != 0 {
			k := 1 - p.Drag*dt
			p.Vel.X *= k
			p.Vel.Z *= k
		}
		if p.Bounce && p.Pos.Y < floorY {
			p.Pos.Y = floorY
			if p.Vel.Y < 0 {
				p.Vel.Y = -p.Vel.Y
			}
			p.Vel.Y *= 0.3
			p.Vel.X *= 0.8
			p.Vel.Z *= 0.8
		}
		live = append(live, p)
	}
	e.parts = live
}

func (e *Effects) Particles() []Particle { return e.parts }

func (e *Effects) Len() int { return len(e.parts) }

// Count returns how many live particles are of kind k.
func (e *Effects) Count(k EffectKind) int {
	n := 0
	for _, p := range e.parts {
		if p.Kind == k {
			n++
		}
	}
	return n
}

func (e *Effects) Clear() { e.parts = nil }
