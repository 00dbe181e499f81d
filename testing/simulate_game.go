package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/tatianab/proposal-game/internal/config"
	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/engine"
	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/narrator"
	"github.com/tatianab/proposal-game/internal/notify"
	"github.com/tatianab/proposal-game/internal/variant"
)

const (
	step      = 0.05
	readTime  = 0.5
	poseTime  = 0.5
	shotPause = 0.3
	// aimSettle outlasts the dodge-out of any no target the aim crosses.
	aimSettle = 0.3
)

func main() {
	variantFlag := flag.String("variant", "", "variant to play (defaults to the configured one)")
	seed := flag.Int64("seed", 1, "random seed for dodges and particles")
	budget := flag.Float64("budget", 600, "give up after this many simulated seconds")
	verbose := flag.Bool("v", false, "log engine events as they happen")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *variantFlag != "" {
		cfg.Variant = *variantFlag
	}
	v, err := variant.Resolve(cfg.Variant)
	if err != nil {
		log.Fatalf("Failed to load variant: %v", err)
	}

	rec := &notify.Recorder{}
	opts := []engine.Option{
		engine.WithNotifier(rec),
		engine.WithRand(rand.New(rand.NewSource(*seed))),
		engine.WithPassphrase(cfg.Passphrase),
		engine.WithShareURL(cfg.ShareURL),
	}
	if *verbose {
		opts = append(opts, engine.WithLogger(log.New(os.Stderr, "", 0)))
	}
	e, err := engine.New(ctx, v, opts...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	passphrase := v.Passphrase
	if cfg.Passphrase != "" {
		passphrase = cfg.Passphrase
	}
	b := &bot{e: e, v: v, passphrase: passphrase, props: map[string]variant.Prop{}}
	for _, p := range v.Props {
		b.props[p.ID] = p
	}

	fmt.Printf("--- Playing %s (%s) ---\n", v.Title, v.Name)
	elapsed := 0.0
	for ; elapsed < *budget && !b.done; elapsed += step {
		b.act()
		e.Tick(step)
	}
	if !b.done {
		fmt.Printf("Gave up after %.0fs in %s\n", elapsed, e.State())
	} else {
		fmt.Printf("Finished in %.1f simulated seconds\n", elapsed)
	}

	fmt.Println("\n--- Notifications ---")
	for _, msg := range rec.Messages() {
		fmt.Println(msg)
	}
	fmt.Println("\n--- Events ---")
	for _, ev := range e.Events() {
		fmt.Println(ev)
	}

	if cfg.GeminiAPIKey == "" {
		return
	}
	fmt.Println("\n--- Narrator ---")
	n, err := narrator.New(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create narrator: %v", err)
	}
	defer n.Close()
	c, err := n.Celebration(ctx, e.Brief())
	if err != nil {
		fmt.Printf("Narrator failed: %v\n", err)
		return
	}
	fmt.Printf("Message: %s\nNarration: %s\n", c.Message, c.Narration)
}

// bot plays by looking at the same snapshot a renderer gets and answering
// with the same calls a player's keys make.
type bot struct {
	e          *engine.Engine
	v          *variant.Variant
	passphrase string
	props      map[string]variant.Prop

	wait    float64
	reading float64
	aimAt   string
	aimed   float64
	done    bool
}

func (b *bot) act() {
	if b.wait > 0 {
		b.wait -= step
		return
	}
	view := b.e.Snapshot()
	switch view.Overlay {
	case engine.SplashOverlay, engine.RejectionOverlay:
		return
	case engine.PassphraseOverlay:
		b.e.SubmitPassphrase(b.passphrase)
		return
	case engine.EmailOverlay:
		fmt.Printf("Mail from %s: %s\n", view.Email.From, view.Email.Subject)
		b.e.AcceptInvite()
		return
	case engine.GuidelinesOverlay, engine.CelebrationOverlay:
		if b.reading < readTime {
			b.reading += step
			return
		}
		b.reading = 0
		if view.Overlay == engine.CelebrationOverlay {
			fmt.Printf("Celebration: %s\n", view.Celebration)
		}
		b.e.CloseOverlay()
		return
	case engine.ShareOverlay:
		fmt.Printf("Share: %s\n", view.Share)
		b.done = true
		return
	}
	if view.Fade > 0 {
		return
	}
	switch view.State {
	case fsm.HomeRoom:
		b.home(view)
	case fsm.ArenaActive:
		b.arena(view)
	}
}

// home walks to the first eligible prop, dressing before leaving.
func (b *bot) home(view engine.View) {
	for _, c := range []interact.Category{interact.Tertiary, interact.Secondary, interact.Primary} {
		for _, p := range view.Props {
			if !p.Eligible || b.props[p.ID].Category != c {
				continue
			}
			if b.e.Steer(p.Pos, 1) {
				fmt.Printf("Using %s\n", p.Label)
				b.e.Interact(c)
			}
			return
		}
	}
}

func (b *bot) arena(view engine.View) {
	if b.e.Progress().Done() {
		return
	}
	if b.v.Strike.Mode == variant.ModeShoot {
		b.shoot(view)
		return
	}
	if view.Posing {
		b.e.Strike()
		return
	}
	sp, ok := b.nextYes(view)
	if !ok {
		return
	}
	if b.e.Steer(sp.Pos, 0.3) && b.e.Strike() {
		fmt.Printf("Posed on %s\n", sp.ID)
		b.wait = poseTime
	}
}

func (b *bot) shoot(view engine.View) {
	if !view.Aiming {
		for _, p := range view.Props {
			t := b.props[p.ID].Type
			if !p.Eligible || t == "door_to_home" || t == "guidelines" {
				continue
			}
			if b.e.Steer(p.Pos, 1) {
				fmt.Printf("Picking up %s\n", p.Label)
				b.e.Interact(b.props[p.ID].Category)
			}
			return
		}
		return
	}
	sp, ok := b.nextYes(view)
	if !ok {
		return
	}
	if sp.ID != b.aimAt {
		b.aimAt, b.aimed = sp.ID, 0
	}
	b.e.Face(sp.Pos)
	if b.aimed < aimSettle {
		b.aimed += step
		return
	}
	if b.e.Fire() {
		fmt.Printf("Shot at %s (%d/%d)\n", sp.ID, b.e.Progress().Count(), b.e.Progress().Required())
	}
	b.aimAt, b.aimed = "", 0
	b.wait = shotPause
}

// nextYes is the closest unstruck yes spot.
func (b *bot) nextYes(view engine.View) (engine.SpotView, bool) {
	var best engine.SpotView
	bestDist := math.Inf(1)
	for _, sp := range view.Spots {
		if sp.Kind != dodge.Yes || sp.Struck {
			continue
		}
		if d := view.Player.Dist(sp.Pos); d < bestDist {
			best, bestDist = sp, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
