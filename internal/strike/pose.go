package strike

import (
	"math"

	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/geom"
)

const (
	PosePrompt  = "Press E to strike a pose!"
	BreakPrompt = "Press E to break pose"
)

// PoseAction is what a pose key press did.
type PoseAction int

const (
	NoPose PoseAction = iota
	Posed
	Released
)

// PoseResult describes one TryPose call.
type PoseResult struct {
	Action PoseAction
	Spot   *dodge.Spot
	// Reached is true on the pose that first completed the progress.
	Reached bool
}

// PoseSystem lets the player strike a pose on a yes spot. A pose is held until
// the key is pressed again.
type PoseSystem struct {
	spots     []*dodge.Spot
	proximity float64
	enabled   bool
	posing    bool
	current   *dodge.Spot
	progress  *Progress
	effects   *Effects
	lines     []string
	lineIdx   int
	lineLife  float64
}

func NewPoseSystem(proximity float64, progress *Progress, effects *Effects, lines []string) *PoseSystem {
	return &PoseSystem{
		proximity: proximity,
		progress:  progress,
		effects:   effects,
		lines:     lines,
		lineLife:  2,
	}
}

func (p *PoseSystem) SetSpots(spots []*dodge.Spot) { p.spots = spots }

func (p *PoseSystem) Enable() { p.enabled = true }

// Disable also releases a held pose.
func (p *PoseSystem) Disable() {
	p.enabled = false
	p.Release()
}

func (p *PoseSystem) Enabled() bool { return p.enabled }
func (p *PoseSystem) Posing() bool  { return p.posing }

func (p *PoseSystem) Release() {
	p.posing = false
	p.current = nil
}

// nearest returns the closest unstruck yes spot within reach of player.
func (p *PoseSystem) nearest(player geom.Vec3) *dodge.Spot {
	var best *dodge.Spot
	bestDist := math.Inf(1)
	for _, sp := range p.spots {
		if sp.Kind != dodge.Yes || sp.Struck {
			continue
		}
		d := player.Dist(sp.Position())
		if d < p.proximity && d < bestDist {
			best, bestDist = sp, d
		}
	}
	return best
}

// TryPose toggles the pose. Striking marks the spot, bumps the progress and
// spawns the camera flashes, confetti and a flirty line.
func (p *PoseSystem) TryPose(player geom.Vec3) PoseResult {
	if !p.enabled {
		return PoseResult{}
	}
	if p.posing {
		sp := p.current
		p.Release()
		return PoseResult{Action: Released, Spot: sp}
	}
	sp := p.nearest(player)
	if sp == nil {
		return PoseResult{}
	}
	sp.Struck = true
	p.posing = true
	p.current = sp

	if p.effects != nil {
		p.effects.Flashes(sp.Pos.Z)
		p.effects.Burst(sp.Pos)
		if len(p.lines) > 0 {
			p.effects.Say(sp.Pos, p.lines[p.lineIdx%len(p.lines)], p.lineLife)
			p.lineIdx++
		}
	}
	reached := false
	if p.progress != nil {
		reached = p.progress.Increment()
	}
	return PoseResult{Action: Posed, Spot: sp, Reached: reached}
}

// Prompt is the pose hint for the player's current position.
func (p *PoseSystem) Prompt(player geom.Vec3) string {
	switch {
	case !p.enabled:
		return ""
	case p.posing:
		return BreakPrompt
	case p.nearest(player) != nil:
		return PosePrompt
	}
	return ""
}
