package engine

import (
	"math"

	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/geom"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/models"
	"github.com/tatianab/proposal-game/internal/strike"
	"github.com/tatianab/proposal-game/internal/transition"
	"github.com/tatianab/proposal-game/internal/variant"
)

// PropView is one prop of the visible scene.
type PropView struct {
	ID       string
	Label    string
	Glyph    string
	Pos      geom.Vec3
	Eligible bool
	// Focused is true when the prop is its category's current candidate.
	Focused  bool
}

type SpotView struct {
	ID      string
	Kind    dodge.Kind
	Pos     geom.Vec3
	Struck  bool
	Dodging bool
}

// View is a read-only copy of everything a renderer needs for one frame.
type View struct {
	State     fsm.State
	SceneName string
	InArena   bool
	Bounds    geom.Bounds

	Player  geom.Vec3
	Yaw     float64
	Moving  bool
	Posing  bool
	Petting bool
	// Aiming is true while the rifle is live.
	Aiming  bool
	Camera  transition.Camera

	Props     []PropView
	Spots     []SpotView
	Bubbles   []dodge.Bubble
	Particles []strike.Particle
	Decorated bool

	Prompt  string
	Buttons []interact.Button
	Task    string
	Counter string
	Toast   string

	Overlay         Overlay
	PassphraseHint  string
	PassphraseError string
	Email           variant.Email
	Guidelines      string
	Celebration     string
	Narration       string
	Share           string
	Rejection       string

	Fade      float64
	FadeColor string
	Flags     []models.Flag
}

// Snapshot copies the current frame.
func (e *Engine) Snapshot() View {
	s := e.scene()
	v := View{
		State:     e.machine.Current(),
		SceneName: s.Name,
		InArena:   e.state.InArena,
		Bounds:    s.Bounds(),
		Player:    e.state.PlayerPosition,
		Yaw:       e.state.PlayerRotation,
		Moving:    e.state.IsMoving,
		Posing:    e.posed,
		Petting:   e.petting,
		Aiming:    e.shooter != nil && e.shooter.Enabled() && e.strikeUnlocked(),
		Camera:    e.camera,
		Decorated: e.state.Has(models.FlagArenaDecorated),
		Prompt:    e.prompt(),
		Buttons:   e.gate.Buttons(),
		Task:      e.task,
		Toast:     e.toast,
		Overlay:   e.overlay,
		Fade:      e.fader.Alpha(),
		FadeColor: e.fader.Color(),
		Flags:     e.state.Flags(),
	}
	if e.counter {
		v.Counter = sprintf(e.v.Texts.Counter, e.progress.Count(), e.progress.Required())
	}

	props := e.home
	if e.state.InArena {
		props = e.arena
	}
	for _, it := range props {
		pv := PropView{ID: it.ID, Pos: it.Position(), Eligible: it.Eligible}
		pv.Focused = e.gate.Current(it.Category) == it
		for _, p := range e.v.Props {
			if p.ID == it.ID {
				pv.Label, pv.Glyph = p.Label, p.Glyph
				break
			}
		}
		v.Props = append(v.Props, pv)
	}
	if e.state.InArena {
		for _, sp := range e.spots {
			v.Spots = append(v.Spots, SpotView{
				ID:      sp.ID,
				Kind:    sp.Kind,
				Pos:     sp.Pos,
				Struck:  sp.Struck,
				Dodging: sp.Dodging(),
			})
		}
		v.Bubbles = append(v.Bubbles, e.dodger.Bubbles()...)
		v.Particles = append(v.Particles, e.effects.Particles()...)
	}

	switch e.overlay {
	case PassphraseOverlay:
		v.PassphraseHint = e.v.Texts.PassphraseHint
		v.PassphraseError = e.passErr
	case EmailOverlay:
		v.Email = e.v.Texts.Email
	case GuidelinesOverlay:
		v.Guidelines = e.v.Texts.Guidelines
	case CelebrationOverlay:
		v.Celebration = e.celebration.Message
		v.Narration = e.celebration.Narration
	case ShareOverlay:
		v.Share = e.ShareText()
	case RejectionOverlay:
		v.Rejection = sprintf(e.v.Texts.Rejection, int(math.Ceil(e.rejectionLeft)))
	}
	return v
}

// prompt joins the gate prompt with the strike hint.
func (e *Engine) prompt() string {
	hint := ""
	switch {
	case e.pose != nil:
		hint = e.pose.Prompt(e.state.PlayerPosition)
	case e.shooter != nil && e.shooter.Enabled() && e.strikeUnlocked():
		hint = "Press Space to shoot"
	}
	gp := e.gate.Prompt()
	switch {
	case hint == "":
		return gp
	case gp == "":
		return hint
	}
	return hint + e.gateSeparator() + gp
}

func (e *Engine) gateSeparator() string {
	if e.v.Gate.Separator != "" {
		return e.v.Gate.Separator
	}
	return interact.DefaultConfig().Separator
}
