// Package engine runs one playthrough: it owns the state machine and every
// per-frame system, and turns abstract input into game-flow changes.
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"

	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/geom"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/models"
	"github.com/tatianab/proposal-game/internal/narrator"
	"github.com/tatianab/proposal-game/internal/notify"
	"github.com/tatianab/proposal-game/internal/policy"
	"github.com/tatianab/proposal-game/internal/strike"
	"github.com/tatianab/proposal-game/internal/transition"
	"github.com/tatianab/proposal-game/internal/variant"
)

// Overlay is the modal panel currently covering the scene.
type Overlay string

const (
	NoOverlay          Overlay = ""
	SplashOverlay      Overlay = "splash"
	PassphraseOverlay  Overlay = "passphrase"
	EmailOverlay       Overlay = "email"
	GuidelinesOverlay  Overlay = "guidelines"
	CelebrationOverlay Overlay = "celebration"
	ShareOverlay       Overlay = "share"
	RejectionOverlay   Overlay = "rejection"
)

// moveHold is how long one Move call keeps the player walking.
const moveHold = 0.15

type Engine struct {
	ctx      context.Context
	v        *variant.Variant
	logger   *log.Logger
	notifier notify.Notifier
	rng      *rand.Rand

	passphrase string
	shareURL   string

	state    *models.GameState
	machine  *fsm.Machine
	gate     *interact.Gate
	home     []*interact.Interactable
	arena    []*interact.Interactable
	spots    []*dodge.Spot
	dodger   *dodge.System
	progress *strike.Progress
	effects  *strike.Effects
	pose     *strike.PoseSystem
	shooter  *strike.ShootSystem

	timers *transition.Timers
	fader  transition.Fader
	sweep  *transition.Interpolator
	camera transition.Camera

	movement bool
	posed    bool
	petting  bool
	intent   geom.Vec3
	holdLeft float64

	overlay       Overlay
	passErr       string
	task          string
	counter       bool
	toast         string
	toastTimer    transition.TimerID
	shareTimer    transition.TimerID
	rejectionLeft float64
	reload        bool

	visitedHome bool
	introSeen   bool
	celebration narrator.Celebration
	sent        []string
	events      []string
}

type Option func(*Engine)

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithRand seeds every random choice (dodge sides, particle spread).
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithPassphrase replaces the variant's passphrase.
func WithPassphrase(p string) Option {
	return func(e *Engine) {
		if p != "" {
			e.passphrase = p
		}
	}
}

func WithShareURL(u string) Option {
	return func(e *Engine) { e.shareURL = u }
}

// New builds an engine parked in LOADING behind the splash screen.
func New(ctx context.Context, v *variant.Variant, opts ...Option) (*Engine, error) {
	if v == nil {
		return nil, fmt.Errorf("engine: nil variant")
	}
	e := &Engine{
		ctx:        ctx,
		v:          v,
		logger:     log.New(io.Discard, "", 0),
		notifier:   notify.Nop{},
		passphrase: v.Passphrase,
		timers:     transition.NewTimers(),
		celebration: narrator.Celebration{
			Message:   v.Texts.Celebration,
			Narration: v.Texts.Narration,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(1))
	}

	machine, err := fsm.New(fsm.DefaultGraph(), fsm.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.machine = machine
	e.state = models.NewGameState(v.Home.Spawn)
	e.state.PlayerRotation = v.Home.SpawnYaw
	e.sweep = transition.NewInterpolator(e.logger)

	e.gate = interact.NewGate(v.Gate)
	for _, c := range interact.Categories {
		e.gate.Handle(c, e.onInteract)
	}
	for _, p := range v.Props {
		it := &interact.Interactable{
			ID:       p.ID,
			Type:     p.Type,
			Category: p.Category,
			Prompt:   p.Prompt,
			Anchor:   geom.Fixed(p.Pos),
		}
		if p.Scene == variant.SceneArena {
			e.arena = append(e.arena, it)
		} else {
			e.home = append(e.home, it)
		}
	}

	for _, s := range v.Spots {
		e.spots = append(e.spots, dodge.NewSpot(s.ID, s.Kind, s.Pos, v.Strike.SpotBounds))
	}
	e.dodger = dodge.NewSystem(v.Dodge, e.rng)
	e.dodger.SetSpots(e.spots)
	e.progress = strike.NewProgress(v.Strike.Required)
	e.effects = strike.NewEffects(e.rng)
	switch v.Strike.Mode {
	case variant.ModeShoot:
		e.shooter = strike.NewShootSystem(v.Strike.BoardHeight, v.Strike.BoardRadius, e.progress, e.effects)
		e.shooter.SetSpots(e.spots)
	default:
		e.pose = strike.NewPoseSystem(v.Strike.Proximity, e.progress, e.effects, v.Strike.Lines)
		e.pose.SetSpots(e.spots)
	}

	e.registerFlow()
	e.machine.OnChange(func(from, to fsm.State) {
		e.record("state %s -> %s", from, to)
	})

	e.overlay = SplashOverlay
	e.timers.After(v.Timing.Splash, func() {
		if e.overlay == SplashOverlay {
			e.overlay = PassphraseOverlay
		}
	})
	e.followCamera()
	return e, nil
}

// SubmitPassphrase checks the secret gate. Wrong input leaves an inline
// error and may be retried without limit.
func (e *Engine) SubmitPassphrase(input string) bool {
	if !e.machine.Is(fsm.Loading) {
		return false
	}
	if strings.TrimSpace(input) != e.passphrase {
		e.passErr = e.v.Texts.PassphraseError
		e.overlay = PassphraseOverlay
		return false
	}
	e.passErr = ""
	e.overlay = NoOverlay
	return e.machine.Transition(fsm.HomeRoom)
}

// Move sets the walking direction on the XZ plane for the next moment.
func (e *Engine) Move(dx, dz float64) {
	if !e.canMove() {
		return
	}
	d := geom.V(dx, 0, dz)
	if d.Len() == 0 {
		return
	}
	e.intent = d.Normalize()
	e.holdLeft = moveHold
}

// Steer walks toward target and reports whether the player is already
// within reach of it. Callers still advance time with Tick.
func (e *Engine) Steer(target geom.Vec3, within float64) bool {
	p := e.state.PlayerPosition
	d := geom.V(target.X-p.X, 0, target.Z-p.Z)
	if d.Len() <= within {
		return true
	}
	e.Move(d.X, d.Z)
	return false
}

// Turn rotates the player in place, which is how the rifle is aimed.
func (e *Engine) Turn(delta float64) {
	if !e.movement || e.overlay != NoOverlay {
		return
	}
	e.stopWalking()
	e.state.PlayerRotation += delta
}

// Face points the player at target.
func (e *Engine) Face(target geom.Vec3) {
	if !e.movement || e.overlay != NoOverlay {
		return
	}
	e.stopWalking()
	p := e.state.PlayerPosition
	if dx, dz := target.X-p.X, target.Z-p.Z; dx != 0 || dz != 0 {
		e.state.PlayerRotation = geom.Yaw(dx, dz)
	}
}

// stopWalking drops any held movement so it cannot turn the player back.
func (e *Engine) stopWalking() {
	e.intent = geom.Vec3{}
	e.holdLeft = 0
}

func (e *Engine) canMove() bool {
	return e.movement && !e.posed && !e.petting && e.overlay == NoOverlay && !e.fader.Busy()
}

// Interact fires one category trigger. On the runway the primary key also
// toggles a pose when a yes spot is in reach or a pose is held.
func (e *Engine) Interact(c interact.Category) bool {
	if e.overlay != NoOverlay {
		return false
	}
	if c == interact.Primary && e.canPose() {
		e.strikePose()
		return true
	}
	return e.gate.Trigger(c)
}

// Strike is the dedicated strike key: a pose toggle on the runway and a
// shot on the range. Unlike Interact it never falls through to the gate.
func (e *Engine) Strike() bool {
	if e.shooter != nil {
		return e.Fire()
	}
	if e.overlay != NoOverlay || !e.canPose() {
		return false
	}
	e.strikePose()
	return true
}

func (e *Engine) canPose() bool {
	if e.pose == nil || !e.pose.Enabled() {
		return false
	}
	return e.posed || e.pose.Prompt(e.state.PlayerPosition) != ""
}

// Fire shoots along the player's facing direction.
func (e *Engine) Fire() bool {
	if e.shooter == nil || !e.shooter.Enabled() || e.overlay != NoOverlay {
		return false
	}
	if !e.strikeUnlocked() {
		e.showToast(e.v.Texts.LockedTask)
		return false
	}
	r := e.shooter.Shoot(e.aimRay())
	switch r.Outcome {
	case strike.HitNo:
		e.dodger.ShotAt(r.Spot)
	case strike.HitYes:
		at := e.shooter.Board(r.Spot)
		e.effects.Burst(at)
		if lines := e.v.Strike.Lines; len(lines) > 0 {
			e.effects.Say(at, lines[(e.progress.Count()-1)%len(lines)], 2)
		}
		e.onStruck(r.Reached)
	}
	return r.Outcome != strike.Miss
}

func (e *Engine) strikePose() {
	r := e.pose.TryPose(e.state.PlayerPosition)
	switch r.Action {
	case strike.Posed:
		e.posed = true
		e.intent = geom.Vec3{}
		e.onStruck(r.Reached)
	case strike.Released:
		e.posed = false
	}
}

func (e *Engine) strikeUnlocked() bool {
	for _, f := range e.v.Strike.Requires {
		if !e.state.Has(f) {
			return false
		}
	}
	return true
}

func (e *Engine) aimRay() geom.Ray {
	return geom.Ray{
		Origin: e.state.PlayerPosition.Add(geom.V(0, e.v.Strike.BoardHeight, 0)),
		Dir:    e.state.Facing(),
	}
}

// onInteract resolves a gate trigger against the policy table.
func (e *Engine) onInteract(it *interact.Interactable) {
	state := e.machine.Current()
	a, verdict := e.v.Policy.Resolve(it.Type, state, e.state)
	switch verdict {
	case policy.Unknown:
		e.logger.Printf("engine: no action for %s in %s", it.Type, state)
		return
	case policy.Blocked:
		e.logger.Printf("engine: %s blocked in %s", it.Type, state)
		return
	}
	e.apply(a)
}

func (e *Engine) apply(a policy.Action) {
	for _, f := range a.Set {
		if e.state.Set(f) {
			e.record("flag %s", f)
		}
	}
	if a.Notify != "" {
		e.notify(a.Notify)
	}
	if a.HideTask {
		e.task = ""
	}
	if a.Task != "" {
		e.task = a.Task
	}
	if a.Toast != "" {
		e.showToast(a.Toast)
	}
	switch a.Effect {
	case "pet":
		e.startPetting()
	case "":
	default:
		e.logger.Printf("engine: unknown effect %q", a.Effect)
	}
	switch Overlay(a.Overlay) {
	case EmailOverlay, GuidelinesOverlay:
		e.overlay = Overlay(a.Overlay)
		e.intent = geom.Vec3{}
	case NoOverlay:
	default:
		e.logger.Printf("engine: unknown overlay %q", a.Overlay)
	}
	if e.machine.Is(fsm.ArenaActive) {
		e.updateArenaHUD()
	}
	e.refresh()
	if a.Transition != "" {
		e.machine.Transition(a.Transition)
	}
}

func (e *Engine) startPetting() {
	if e.petting {
		return
	}
	e.petting = true
	e.intent = geom.Vec3{}
	e.showToast(e.v.Texts.Pet)
	e.timers.After(e.v.Timing.Pet, func() { e.petting = false })
}

// AcceptInvite answers the email with yes.
func (e *Engine) AcceptInvite() bool {
	if e.overlay != EmailOverlay {
		return false
	}
	e.overlay = NoOverlay
	if e.state.Set(models.FlagInviteAccepted) {
		e.record("flag %s", models.FlagInviteAccepted)
	}
	e.notify(e.v.Milestones.InviteAccepted)
	e.task = e.v.Texts.AcceptTask
	e.refresh()
	return true
}

// DeclineInvite answers the email with no and starts the reset countdown.
func (e *Engine) DeclineInvite() bool {
	if e.overlay != EmailOverlay {
		return false
	}
	e.state.Set(models.FlagInviteDeclined)
	e.record("flag %s", models.FlagInviteDeclined)
	e.overlay = RejectionOverlay
	e.rejectionLeft = e.v.Timing.Rejection
	e.movement = false
	e.gate.Disable()
	return true
}

// NeedsReload reports that the playthrough is over and a fresh engine
// should replace this one.
func (e *Engine) NeedsReload() bool { return e.reload }

// CloseOverlay dismisses the current panel. The email and the rejection
// countdown cannot be dismissed.
func (e *Engine) CloseOverlay() bool {
	switch e.overlay {
	case GuidelinesOverlay:
		e.overlay = NoOverlay
		if e.machine.Is(fsm.GuidedIntro) {
			e.introSeen = true
			e.machine.Transition(fsm.ArenaActive)
		}
		return true
	case CelebrationOverlay:
		e.overlay = NoOverlay
		e.machine.Transition(fsm.PostSuccess)
		return true
	case ShareOverlay:
		e.overlay = NoOverlay
		return true
	}
	return false
}

// ShareText is the message copied by the share button.
func (e *Engine) ShareText() string {
	if !strings.Contains(e.v.Texts.Share, "%s") {
		return e.v.Texts.Share
	}
	return strings.TrimSpace(fmt.Sprintf(e.v.Texts.Share, e.shareURL))
}

// Toast shows a transient message, e.g. after the share text was copied.
func (e *Engine) Toast(msg string) { e.showToast(msg) }

func (e *Engine) showToast(msg string) {
	if msg == "" {
		return
	}
	e.timers.Cancel(e.toastTimer)
	e.toast = msg
	e.toastTimer = e.timers.After(e.v.Timing.Toast, func() { e.toast = "" })
}

// Brief describes the playthrough for the narrator.
func (e *Engine) Brief() narrator.Brief {
	return narrator.Brief{
		Title:      e.v.Title,
		Setting:    e.v.Setting,
		Player:     e.v.Player,
		Partner:    e.v.Partner,
		Hits:       e.progress.Count(),
		Milestones: append([]string(nil), e.sent...),
		Message:    e.v.Texts.Celebration,
		Narration:  e.v.Texts.Narration,
	}
}

// SetCelebration replaces the celebration text; empty fields keep the
// current text.
func (e *Engine) SetCelebration(c narrator.Celebration) {
	if c.Message != "" {
		e.celebration.Message = c.Message
	}
	if c.Narration != "" {
		e.celebration.Narration = c.Narration
	}
	e.record("celebration text updated")
}

// Tick advances the whole game by dt seconds, clamped to the variant's
// maximum step.
func (e *Engine) Tick(dt float64) {
	dt = geom.Clamp(dt, 0, e.v.Timing.MaxStep)

	e.timers.Update(dt)
	e.fader.Update(dt)
	e.sweep.Update(dt)
	e.walk(dt)
	e.gate.Update(e.state.PlayerPosition)
	e.dodger.Update(dt, e.sense())
	e.effects.Update(dt)

	if e.overlay == RejectionOverlay && !e.reload {
		e.rejectionLeft -= dt
		if e.rejectionLeft <= 0 {
			e.rejectionLeft = 0
			e.reload = true
			e.record("reload requested")
		}
	}
	if e.sweep.Active() {
		e.camera = e.sweep.Camera()
	} else {
		e.followCamera()
	}
}

func (e *Engine) walk(dt float64) {
	e.state.IsMoving = false
	if e.holdLeft <= 0 {
		return
	}
	e.holdLeft -= dt
	if !e.canMove() {
		e.holdLeft = 0
		return
	}
	bounds := e.scene().WalkBounds()
	next := bounds.Clamp(e.state.PlayerPosition.Add(e.intent.Scale(e.v.Timing.Speed * dt)))
	e.state.IsMoving = next != e.state.PlayerPosition
	e.state.PlayerPosition = next
	e.state.PlayerRotation = geom.Yaw(e.intent.X, e.intent.Z)
}

func (e *Engine) sense() dodge.Sense {
	s := dodge.Sense{Player: e.state.PlayerPosition}
	if e.shooter != nil && e.strikeUnlocked() {
		ray := e.aimRay()
		s.Aim = &ray
	}
	return s
}

func (e *Engine) followCamera() {
	p := e.state.PlayerPosition
	e.camera = transition.Camera{
		Pos:  p.Add(e.v.Camera.Offset),
		Look: p.Add(geom.V(0, 1, 0)),
	}
}

func (e *Engine) scene() variant.Scene {
	if e.state.InArena {
		return e.v.Arena
	}
	return e.v.Home
}

// refresh re-runs the gating policy for the current scene and hands the
// eligible items to the gate.
func (e *Engine) refresh() {
	items := e.home
	if e.state.InArena {
		items = e.arena
	}
	lists := e.v.Policy.Apply(e.machine.Current(), e.state, items)
	for _, c := range interact.Categories {
		e.gate.Set(c, lists[c])
	}
	e.gate.Update(e.state.PlayerPosition)
}

func (e *Engine) notify(text string) {
	if text == "" {
		return
	}
	e.sent = append(e.sent, text)
	e.record("notify: %s", text)
	e.notifier.Notify(e.ctx, text)
}

func (e *Engine) record(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.events = append(e.events, msg)
	e.logger.Print("engine: " + msg)
}

// Events returns everything that happened so far, oldest first.
func (e *Engine) Events() []string {
	return append([]string(nil), e.events...)
}

func (e *Engine) State() fsm.State             { return e.machine.Current() }
func (e *Engine) GameState() *models.GameState { return e.state }
func (e *Engine) Variant() *variant.Variant    { return e.v }
func (e *Engine) Progress() *strike.Progress   { return e.progress }
func (e *Engine) Spots() []*dodge.Spot         { return e.spots }

// sprintf formats only texts that carry verbs, so plain content strings
// never pick up %!(EXTRA ...) noise.
func sprintf(format string, args ...any) string {
	if !strings.Contains(format, "%") {
		return format
	}
	return fmt.Sprintf(format, args...)
}
