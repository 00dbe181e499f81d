package interact

import (
	"math"
	"regexp"
	"strings"

	"github.com/tatianab/proposal-game/internal/geom"
)

// Category selects which trigger (key or button) reaches an interactable.
type Category string

const (
	Primary   Category = "primary"
	Secondary Category = "secondary"
	Tertiary  Category = "tertiary"
	Pet       Category = "pet"
)

// Categories is the fixed scan and display order.
var Categories = []Category{Primary, Secondary, Tertiary, Pet}

func (c Category) Valid() bool {
	switch c {
	case Primary, Secondary, Tertiary, Pet:
		return true
	}
	return false
}

// Interactable is a scene object the player may act on.
type Interactable struct {
	ID       string
	Type     string
	Category Category
	Prompt   string
	Eligible bool
	Anchor   geom.Positioner
}

func (it *Interactable) Position() geom.Vec3 {
	if it.Anchor == nil {
		return geom.Vec3{}
	}
	return it.Anchor.Position()
}

// Handler receives the interactable whose trigger fired.
type Handler func(it *Interactable)

// Config holds the per-category reach and fallback prompts.
type Config struct {
	Radius    map[Category]float64 `yaml:"radius"`
	Prompts   map[Category]string  `yaml:"prompts"`
	Separator string               `yaml:"separator"`
}

func DefaultConfig() Config {
	return Config{
		Radius: map[Category]float64{
			Primary:   2.5,
			Secondary: 2.5,
			Tertiary:  2.5,
			Pet:       2.0,
		},
		Prompts: map[Category]string{
			Primary:   "Press E to interact",
			Secondary: "Press R to interact",
			Tertiary:  "Press C to interact",
			Pet:       "Press P to pet",
		},
		Separator: "  |  ",
	}
}

// merge fills zero fields of c from DefaultConfig.
func (c Config) merge() Config {
	def := DefaultConfig()
	if c.Radius == nil {
		c.Radius = map[Category]float64{}
	}
	if c.Prompts == nil {
		c.Prompts = map[Category]string{}
	}
	for _, cat := range Categories {
		if c.Radius[cat] <= 0 {
			c.Radius[cat] = def.Radius[cat]
		}
		if c.Prompts[cat] == "" {
			c.Prompts[cat] = def.Prompts[cat]
		}
	}
	if c.Separator == "" {
		c.Separator = def.Separator
	}
	return c
}

// Button is the touch-style rendering of one resolved category.
type Button struct {
	Category Category
	Label    string
}

// Gate resolves "what is nearest and eligible" per category and dispatches
// triggers. It holds no game rules.
type Gate struct {
	cfg      Config
	enabled  bool
	items    map[Category][]*Interactable
	current  map[Category]*Interactable
	handlers map[Category]Handler
	prompt   string
}

func NewGate(cfg Config) *Gate {
	return &Gate{
		cfg:      cfg.merge(),
		items:    make(map[Category][]*Interactable),
		current:  make(map[Category]*Interactable),
		handlers: make(map[Category]Handler),
	}
}

func (g *Gate) Enable() { g.enabled = true }

// Disable clears the prompt and every current reference immediately.
func (g *Gate) Disable() {
	g.enabled = false
	g.prompt = ""
	for _, c := range Categories {
		delete(g.current, c)
	}
}

func (g *Gate) Enabled() bool { return g.enabled }

// Set replaces the candidate list of one category.
func (g *Gate) Set(c Category, items []*Interactable) {
	g.items[c] = append([]*Interactable(nil), items...)
}

func (g *Gate) Items(c Category) []*Interactable {
	return g.items[c]
}

func (g *Gate) Handle(c Category, fn Handler) {
	g.handlers[c] = fn
}

// Update recomputes the nearest eligible candidate of each category around
// player. Equal distances keep the first listed candidate.
func (g *Gate) Update(player geom.Vec3) {
	if !g.enabled {
		return
	}

	var lines []string
	for _, c := range Categories {
		radius := g.cfg.Radius[c]
		var best *Interactable
		bestDist := math.Inf(1)
		for _, it := range g.items[c] {
			if it == nil || !it.Eligible {
				continue
			}
			d := it.Position().Dist(player)
			if d < radius && d < bestDist {
				best = it
				bestDist = d
			}
		}
		if best == nil {
			delete(g.current, c)
			continue
		}
		g.current[c] = best
		lines = append(lines, g.promptFor(c, best))
	}
	g.prompt = strings.Join(lines, g.cfg.Separator)
}

func (g *Gate) promptFor(c Category, it *Interactable) string {
	if it.Prompt != "" {
		return it.Prompt
	}
	return g.cfg.Prompts[c]
}

// Current returns the resolved candidate of c, if any.
func (g *Gate) Current(c Category) *Interactable {
	return g.current[c]
}

// Prompt is the composed line for keyboard-style front ends.
func (g *Gate) Prompt() string {
	return g.prompt
}

var keyPrefix = regexp.MustCompile(`(?i)^press [a-z] (to )?`)

// Buttons lists the resolved categories for touch-style front ends, with the
// "Press X to" prefix stripped from each label.
func (g *Gate) Buttons() []Button {
	if !g.enabled {
		return nil
	}
	var out []Button
	for _, c := range Categories {
		it := g.current[c]
		if it == nil {
			continue
		}
		label := keyPrefix.ReplaceAllString(g.promptFor(c, it), "")
		if label != "" {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		out = append(out, Button{Category: c, Label: label})
	}
	return out
}

// Trigger fires the handler of c with its current candidate. It reports
// whether anything was dispatched.
func (g *Gate) Trigger(c Category) bool {
	if !g.enabled {
		return false
	}
	it := g.current[c]
	fn := g.handlers[c]
	if it == nil || fn == nil {
		return false
	}
	fn(it)
	return true
}
