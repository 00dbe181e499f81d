package strike

import (
	"math"

	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/geom"
)

// Outcome of a single shot.
type Outcome int

const (
	Miss Outcome = iota
	HitYes
	HitNo
)

func (o Outcome) String() string {
	switch o {
	case HitYes:
		return "yes"
	case HitNo:
		return "no"
	default:
		return "miss"
	}
}

type ShotResult struct {
	Outcome Outcome
	Spot    *dodge.Spot
	Reached bool
}

const shotReach = 30.0

// ShootSystem resolves aimed shots against the target boards.
type ShootSystem struct {
	spots       []*dodge.Spot
	enabled     bool
	boardHeight float64
	boardRadius float64
	progress    *Progress
	effects     *Effects
}

func NewShootSystem(boardHeight, boardRadius float64, progress *Progress, effects *Effects) *ShootSystem {
	return &ShootSystem{
		boardHeight: boardHeight,
		boardRadius: boardRadius,
		progress:    progress,
		effects:     effects,
	}
}

func (s *ShootSystem) SetSpots(spots []*dodge.Spot) { s.spots = spots }

func (s *ShootSystem) Enable()       { s.enabled = true }
func (s *ShootSystem) Disable()      { s.enabled = false }
func (s *ShootSystem) Enabled() bool { return s.enabled }

// Board is the centre of a spot's target board.
func (s *ShootSystem) Board(sp *dodge.Spot) geom.Vec3 {
	return sp.Pos.Add(geom.V(0, s.boardHeight, 0))
}

// Shoot fires along ray and reports the first board it crosses. Struck yes
// boards are out of play. A hit on a no board is reported so the caller can
// make it dodge.
func (s *ShootSystem) Shoot(ray geom.Ray) ShotResult {
	if !s.enabled {
		return ShotResult{}
	}
	var hit *dodge.Spot
	nearest := math.Inf(1)
	for _, sp := range s.spots {
		if sp.Kind == dodge.Yes && sp.Struck {
			continue
		}
		c := s.Board(sp)
		t := c.Sub(ray.Origin).Dot(ray.Dir)
		if t <= 0 || t > shotReach {
			continue
		}
		if ray.At(t).Dist(c) < s.boardRadius && t < nearest {
			hit, nearest = sp, t
		}
	}

	if hit == nil {
		if s.effects != nil {
			s.effects.Trail(ray.Origin, ray.At(shotReach))
		}
		return ShotResult{Outcome: Miss}
	}
	if s.effects != nil {
		s.effects.Sparks(ray.At(nearest))
	}
	if hit.Kind == dodge.No {
		return ShotResult{Outcome: HitNo, Spot: hit}
	}
	if !hit.Hittable() {
		return ShotResult{Outcome: Miss, Spot: hit}
	}
	hit.Struck = true
	reached := false
	if s.progress != nil {
		reached = s.progress.Increment()
	}
	return ShotResult{Outcome: HitYes, Spot: hit, Reached: reached}
}
