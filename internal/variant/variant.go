// Package variant describes one playable flavour of the game as data: rooms,
// props, gating policy, dodge tuning and all of the text.
package variant

import (
	"errors"
	"fmt"

	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/geom"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/models"
	"github.com/tatianab/proposal-game/internal/policy"
	"github.com/tatianab/proposal-game/internal/transition"
)

var ErrUnknownVariant = errors.New("variant: unknown variant")

// Scene names used by props.
const (
	SceneHome  = "home"
	SceneArena = "arena"
)

// Strike modes.
const (
	ModePose  = "pose"
	ModeShoot = "shoot"
)

// Variant is the full content of one game flavour.
type Variant struct {
	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	Setting    string `yaml:"setting"`
	Player     string `yaml:"player"`
	Partner    string `yaml:"partner"`
	PetName    string `yaml:"pet_name"`
	Passphrase string `yaml:"passphrase"`

	Home  Scene `yaml:"home"`
	Arena Scene `yaml:"arena"`

	Props  []Prop          `yaml:"props"`
	Gate   interact.Config `yaml:"gate"`
	Policy policy.Table    `yaml:"policy"`

	Strike Strike       `yaml:"strike"`
	Dodge  dodge.Config `yaml:"dodge"`
	Spots  []SpotSpec   `yaml:"spots"`

	Camera     CameraSpec `yaml:"camera"`
	Timing     Timing     `yaml:"timing"`
	Texts      Texts      `yaml:"texts"`
	Milestones Milestones `yaml:"milestones"`
}

// Scene is one room.
type Scene struct {
	Name     string    `yaml:"name"`
	Origin   geom.Vec3 `yaml:"origin"`
	Width    float64   `yaml:"width"`
	Depth    float64   `yaml:"depth"`
	Spawn    geom.Vec3 `yaml:"spawn"`
	SpawnYaw float64   `yaml:"spawn_yaw"`
	// Walk narrows where the player may stand, e.g. behind a counter.
	Walk *geom.Bounds `yaml:"walk,omitempty"`
}

// Bounds is the whole room footprint.
func (s Scene) Bounds() geom.Bounds {
	return geom.Room(s.Origin, s.Width, s.Depth)
}

// WalkBounds is where the player may move.
func (s Scene) WalkBounds() geom.Bounds {
	if s.Walk != nil {
		return *s.Walk
	}
	return s.Bounds()
}

// Prop is an interactable placed in a scene.
type Prop struct {
	ID       string            `yaml:"id"`
	Type     string            `yaml:"type"`
	Category interact.Category `yaml:"category"`
	Scene    string            `yaml:"scene"`
	Pos      geom.Vec3         `yaml:"pos"`
	Prompt   string            `yaml:"prompt,omitempty"`
	Label    string            `yaml:"label"`
	Glyph    string            `yaml:"glyph"`
}

// SpotSpec places one yes or no marker in the arena.
type SpotSpec struct {
	ID   string     `yaml:"id"`
	Kind dodge.Kind `yaml:"kind"`
	Pos  geom.Vec3  `yaml:"pos"`
}

// Strike configures how yes markers are struck.
type Strike struct {
	Mode     string `yaml:"mode"`
	Required int    `yaml:"required"`
	// Proximity is the pose reach.
	Proximity float64 `yaml:"proximity"`
	// BoardHeight and BoardRadius shape the shooting targets.
	BoardHeight float64 `yaml:"board_height"`
	BoardRadius float64 `yaml:"board_radius"`
	// Requires lists flags that must be raised before striking works.
	Requires   []models.Flag `yaml:"requires,omitempty"`
	SpotBounds *geom.Bounds  `yaml:"spot_bounds,omitempty"`
	Lines      []string      `yaml:"lines"`
}

// CameraSpec is the follow camera and the success sweep.
type CameraSpec struct {
	Offset        geom.Vec3         `yaml:"offset"`
	Sweep         transition.Camera `yaml:"sweep"`
	SweepDuration float64           `yaml:"sweep_duration"`
}

// Timing holds every fixed duration, in seconds.
type Timing struct {
	Splash       float64 `yaml:"splash"`
	Fade         float64 `yaml:"fade"`
	FlashIn      float64 `yaml:"flash_in"`
	FlashOut     float64 `yaml:"flash_out"`
	Toast        float64 `yaml:"toast"`
	Pet          float64 `yaml:"pet"`
	Rejection    float64 `yaml:"rejection"`
	SuccessDelay float64 `yaml:"success_delay"`
	ShareDelay   float64 `yaml:"share_delay"`
	MaxStep      float64 `yaml:"max_step"`
	Speed        float64 `yaml:"speed"`
}

// Email is the invitation shown on the laptop.
type Email struct {
	From    string `yaml:"from"`
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Texts is every line of copy the game shows.
type Texts struct {
	Splash          string `yaml:"splash"`
	PassphraseHint  string `yaml:"passphrase_hint"`
	PassphraseError string `yaml:"passphrase_error"`
	Email           Email  `yaml:"email"`
	Guidelines      string `yaml:"guidelines"`
	Celebration     string `yaml:"celebration"`
	Narration       string `yaml:"narration"`
	Share           string `yaml:"share"`
	Rejection       string `yaml:"rejection"`
	Pet             string `yaml:"pet"`
	FirstTask       string `yaml:"first_task"`
	AcceptTask      string `yaml:"accept_task"`
	// ArenaTask is formatted with the hit count and the bound.
	ArenaTask string `yaml:"arena_task"`
	// LockedTask is shown in the arena until the strike requirements are met.
	LockedTask string `yaml:"locked_task,omitempty"`
	Counter    string `yaml:"counter"`
}

// Milestones are the notification texts sent at fixed points.
type Milestones struct {
	EnteredHome    string `yaml:"entered_home"`
	InviteAccepted string `yaml:"invite_accepted"`
	// Strike is formatted with the hit count and the bound.
	Strike      string `yaml:"strike"`
	Final       string `yaml:"final"`
	Celebration string `yaml:"celebration"`
}

// withDefaults fills unset timings and tuning with the stock values.
func (v *Variant) withDefaults() {
	t := &v.Timing
	def := func(p *float64, val float64) {
		if *p <= 0 {
			*p = val
		}
	}
	def(&t.Splash, 0.8)
	def(&t.Fade, 0.6)
	def(&t.FlashIn, 0.5)
	def(&t.FlashOut, 0.3)
	def(&t.Toast, 2)
	def(&t.Pet, 2.5)
	def(&t.Rejection, 5)
	def(&t.SuccessDelay, 1.5)
	def(&t.ShareDelay, 2)
	def(&t.MaxStep, 0.05)
	def(&t.Speed, 3.5)
	def(&v.Camera.SweepDuration, 2.5)
	if v.Camera.Offset == (geom.Vec3{}) {
		v.Camera.Offset = geom.V(0, 2.5, 4)
	}
	def(&v.Strike.Proximity, 1.5)
	def(&v.Strike.BoardHeight, 1.65)
	def(&v.Strike.BoardRadius, 0.45)
	if v.Texts.PassphraseError == "" {
		v.Texts.PassphraseError = "That's not it. Try again."
	}
}

// Validate reports the first inconsistency in the content.
func (v *Variant) Validate() error {
	if v.Name == "" {
		return errors.New("variant: missing name")
	}
	if v.Passphrase == "" {
		return fmt.Errorf("variant %s: missing passphrase", v.Name)
	}
	for _, s := range []Scene{v.Home, v.Arena} {
		if s.Width <= 0 || s.Depth <= 0 {
			return fmt.Errorf("variant %s: scene %q has no floor", v.Name, s.Name)
		}
	}

	ids := make(map[string]bool, len(v.Props))
	for _, p := range v.Props {
		if p.ID == "" || p.Type == "" {
			return fmt.Errorf("variant %s: prop needs an id and a type", v.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("variant %s: duplicate prop %q", v.Name, p.ID)
		}
		ids[p.ID] = true
		if !p.Category.Valid() {
			return fmt.Errorf("variant %s: prop %q: unknown category %q", v.Name, p.ID, p.Category)
		}
		if p.Scene != SceneHome && p.Scene != SceneArena {
			return fmt.Errorf("variant %s: prop %q: unknown scene %q", v.Name, p.ID, p.Scene)
		}
	}
	if err := v.Policy.Validate(ids); err != nil {
		return fmt.Errorf("variant %s: policy: %w", v.Name, err)
	}
	graph := fsm.DefaultGraph()
	for _, a := range v.Policy.Actions {
		if a.Transition == "" {
			continue
		}
		if _, ok := graph[a.Transition]; !ok {
			return fmt.Errorf("variant %s: action %q: %w: %s", v.Name, a.Type, fsm.ErrUnknownState, a.Transition)
		}
	}

	switch v.Strike.Mode {
	case ModePose, ModeShoot:
	default:
		return fmt.Errorf("variant %s: unknown strike mode %q", v.Name, v.Strike.Mode)
	}
	if v.Strike.Required < 1 {
		return fmt.Errorf("variant %s: strike.required must be at least 1", v.Name)
	}
	for _, f := range v.Strike.Requires {
		if !models.IsKnownFlag(f) {
			return fmt.Errorf("variant %s: strike.requires: unknown flag %q", v.Name, f)
		}
	}
	if err := v.Dodge.Validate(); err != nil {
		return fmt.Errorf("variant %s: %w", v.Name, err)
	}

	yes := 0
	spotIDs := make(map[string]bool, len(v.Spots))
	for _, s := range v.Spots {
		if spotIDs[s.ID] {
			return fmt.Errorf("variant %s: duplicate spot %q", v.Name, s.ID)
		}
		spotIDs[s.ID] = true
		switch s.Kind {
		case dodge.Yes:
			yes++
		case dodge.No:
		default:
			return fmt.Errorf("variant %s: spot %q: unknown kind %q", v.Name, s.ID, s.Kind)
		}
	}
	if yes < v.Strike.Required {
		return fmt.Errorf("variant %s: %d yes spots cannot reach %d", v.Name, yes, v.Strike.Required)
	}
	return nil
}

// PropsIn returns the props of one scene in declaration order.
func (v *Variant) PropsIn(scene string) []Prop {
	var out []Prop
	for _, p := range v.Props {
		if p.Scene == scene {
			out = append(out, p)
		}
	}
	return out
}
