// Package policy decides which interactables are legal from the accumulated
// task flags, and what a triggered interaction is allowed to do.
package policy

import (
	"fmt"

	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/models"
)

// Condition is met when every flag in All is raised and none in None is.
type Condition struct {
	All  []models.Flag `yaml:"all,omitempty"`
	None []models.Flag `yaml:"none,omitempty"`
}

func (c Condition) Met(s *models.GameState) bool {
	for _, f := range c.All {
		if !s.Has(f) {
			return false
		}
	}
	for _, f := range c.None {
		if s.Has(f) {
			return false
		}
	}
	return true
}

func (c Condition) flags() []models.Flag {
	return append(append([]models.Flag(nil), c.All...), c.None...)
}

// PromptCase overrides an interactable's prompt while When holds.
type PromptCase struct {
	When Condition `yaml:"when"`
	Text string    `yaml:"text"`
}

// Rule makes one interactable eligible while the machine is in one of States
// and When holds. The first matching prompt case wins.
type Rule struct {
	Interactable string       `yaml:"interactable"`
	States       []fsm.State  `yaml:"states"`
	When         Condition    `yaml:"when"`
	Prompts      []PromptCase `yaml:"prompts,omitempty"`
}

// Action is what a triggered interaction type may do.
type Action struct {
	Type       string        `yaml:"type"`
	States     []fsm.State   `yaml:"states"`
	Require    Condition     `yaml:"require"`
	Set        []models.Flag `yaml:"set,omitempty"`
	Transition fsm.State     `yaml:"transition,omitempty"`
	Overlay    string        `yaml:"overlay,omitempty"`
	Effect     string        `yaml:"effect,omitempty"`
	Notify     string        `yaml:"notify,omitempty"`
	Task       string        `yaml:"task,omitempty"`
	HideTask   bool          `yaml:"hide_task,omitempty"`
	Toast      string        `yaml:"toast,omitempty"`
}

// Table is the whole gating policy of a variant.
type Table struct {
	Rules   []Rule   `yaml:"rules"`
	Actions []Action `yaml:"actions"`
}

func inStates(states []fsm.State, s fsm.State) bool {
	if len(states) == 0 {
		return true
	}
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

// Apply recomputes eligibility and prompts of items for the given machine
// state and flags, and returns the eligible items grouped by category in
// catalog order. Items without a rule are never eligible. Running it twice
// with the same inputs yields the same result.
func (t Table) Apply(state fsm.State, s *models.GameState, items []*interact.Interactable) map[interact.Category][]*interact.Interactable {
	out := make(map[interact.Category][]*interact.Interactable, len(interact.Categories))
	for _, c := range interact.Categories {
		out[c] = nil
	}
	for _, it := range items {
		it.Eligible = false
		for _, r := range t.Rules {
			if r.Interactable != it.ID || !inStates(r.States, state) || !r.When.Met(s) {
				continue
			}
			it.Eligible = true
			if p := r.prompt(s); p != "" {
				it.Prompt = p
			}
			break
		}
		if it.Eligible {
			out[it.Category] = append(out[it.Category], it)
		}
	}
	return out
}

func (r Rule) prompt(s *models.GameState) string {
	for _, pc := range r.Prompts {
		if pc.When.Met(s) {
			return pc.Text
		}
	}
	return ""
}

// Verdict is the outcome of resolving a triggered interaction.
type Verdict int

const (
	// Unknown means no action is declared for the type in this state.
	Unknown Verdict = iota
	// Blocked means the action exists but its requirements are unmet; the
	// interaction is a no-op.
	Blocked
	Allowed
)

func (v Verdict) String() string {
	switch v {
	case Blocked:
		return "blocked"
	case Allowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Resolve finds the action for an interaction type in the current state and
// checks its requirements.
func (t Table) Resolve(typ string, state fsm.State, s *models.GameState) (Action, Verdict) {
	verdict := Unknown
	var blocked Action
	for _, a := range t.Actions {
		if a.Type != typ || !inStates(a.States, state) {
			continue
		}
		if a.Require.Met(s) {
			return a, Allowed
		}
		if verdict == Unknown {
			blocked, verdict = a, Blocked
		}
	}
	return blocked, verdict
}

// Validate checks that every rule names a catalog id and every flag is known.
func (t Table) Validate(ids map[string]bool) error {
	check := func(where string, flags []models.Flag) error {
		for _, f := range flags {
			if !models.IsKnownFlag(f) {
				return fmt.Errorf("%s: unknown flag %q", where, f)
			}
		}
		return nil
	}
	for i, r := range t.Rules {
		if !ids[r.Interactable] {
			return fmt.Errorf("rule %d: unknown interactable %q", i, r.Interactable)
		}
		if err := check(fmt.Sprintf("rule %d", i), r.When.flags()); err != nil {
			return err
		}
		for _, pc := range r.Prompts {
			if err := check(fmt.Sprintf("rule %d prompt", i), pc.When.flags()); err != nil {
				return err
			}
		}
	}
	for i, a := range t.Actions {
		if a.Type == "" {
			return fmt.Errorf("action %d: missing type", i)
		}
		if err := check(fmt.Sprintf("action %q", a.Type), append(a.Require.flags(), a.Set...)); err != nil {
			return err
		}
	}
	return nil
}
