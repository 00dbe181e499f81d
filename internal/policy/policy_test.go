package policy

import (
	"testing"

	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/geom"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/models"
)

var home = []fsm.State{fsm.HomeRoom}

// hubTable is the home hub policy of the runway variant.
func hubTable() Table {
	return Table{
		Rules: []Rule{
			{Interactable: "laptop", States: home, When: Condition{None: []models.Flag{models.FlagMailRead}}},
			{
				Interactable: "door_home",
				States:       home,
				When:         Condition{All: []models.Flag{models.FlagInviteAccepted}},
				Prompts: []PromptCase{
					{When: Condition{None: []models.Flag{models.FlagOutfitChanged}}, Text: "Change into runway outfit first!"},
					{When: Condition{None: []models.Flag{models.FlagMakeupApplied}}, Text: "Apply makeup before heading out!"},
					{Text: "Press E to head to the runway"},
				},
			},
			{
				Interactable: "wardrobe",
				States:       home,
				When:         Condition{All: []models.Flag{models.FlagInviteAccepted}, None: []models.Flag{models.FlagOutfitChanged}},
			},
			{
				Interactable: "makeup",
				States:       home,
				When: Condition{
					All:  []models.Flag{models.FlagInviteAccepted, models.FlagOutfitChanged},
					None: []models.Flag{models.FlagMakeupApplied},
				},
			},
			{Interactable: "cat", States: home},
		},
		Actions: []Action{
			{Type: "laptop", States: home, Require: Condition{None: []models.Flag{models.FlagMailRead}}, Set: []models.Flag{models.FlagMailRead}, Overlay: "email"},
			{
				Type:       "door_to_arena",
				States:     home,
				Require:    Condition{All: []models.Flag{models.FlagInviteAccepted, models.FlagOutfitChanged, models.FlagMakeupApplied}},
				Transition: fsm.EnteringArena,
			},
			{
				Type:    "wardrobe",
				States:  home,
				Require: Condition{All: []models.Flag{models.FlagInviteAccepted}, None: []models.Flag{models.FlagOutfitChanged}},
				Set:     []models.Flag{models.FlagOutfitChanged},
			},
			{
				Type:    "makeup",
				States:  home,
				Require: Condition{All: []models.Flag{models.FlagOutfitChanged}, None: []models.Flag{models.FlagMakeupApplied}},
				Set:     []models.Flag{models.FlagMakeupApplied},
			},
		},
	}
}

func catalog() []*interact.Interactable {
	at := geom.Fixed(geom.V(0, 0, 0))
	return []*interact.Interactable{
		{ID: "laptop", Type: "laptop", Category: interact.Primary, Anchor: at},
		{ID: "door_home", Type: "door_to_arena", Category: interact.Primary, Anchor: at},
		{ID: "makeup", Type: "makeup", Category: interact.Secondary, Anchor: at},
		{ID: "wardrobe", Type: "wardrobe", Category: interact.Tertiary, Anchor: at},
		{ID: "cat", Type: "pet", Category: interact.Pet, Anchor: at},
	}
}

func ids(items []*interact.Interactable) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func eligibleIDs(lists map[interact.Category][]*interact.Interactable) []string {
	var out []string
	for _, c := range interact.Categories {
		out = append(out, ids(lists[c])...)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyHubProgression(t *testing.T) {
	tests := []struct {
		name       string
		flags      []models.Flag
		want       []string
		doorPrompt string
	}{
		{"fresh", nil, []string{"laptop", "cat"}, ""},
		{"invite_accepted", []models.Flag{models.FlagMailRead, models.FlagInviteAccepted},
			[]string{"door_home", "wardrobe", "cat"}, "Change into runway outfit first!"},
		{"outfit_changed", []models.Flag{models.FlagMailRead, models.FlagInviteAccepted, models.FlagOutfitChanged},
			[]string{"door_home", "makeup", "cat"}, "Apply makeup before heading out!"},
		{"ready", []models.Flag{models.FlagMailRead, models.FlagInviteAccepted, models.FlagOutfitChanged, models.FlagMakeupApplied},
			[]string{"door_home", "cat"}, "Press E to head to the runway"},
		{"declined", []models.Flag{models.FlagMailRead, models.FlagInviteDeclined}, []string{"cat"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewGameState(geom.Vec3{})
			for _, f := range tt.flags {
				s.Set(f)
			}
			items := catalog()
			got := eligibleIDs(hubTable().Apply(fsm.HomeRoom, s, items))
			if !equal(got, tt.want) {
				t.Fatalf("eligible = %v, want %v", got, tt.want)
			}
			if tt.doorPrompt != "" && items[1].Prompt != tt.doorPrompt {
				t.Fatalf("door prompt = %q, want %q", items[1].Prompt, tt.doorPrompt)
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	s := models.NewGameState(geom.Vec3{})
	s.Set(models.FlagMailRead)
	s.Set(models.FlagInviteAccepted)
	items := catalog()
	table := hubTable()

	first := eligibleIDs(table.Apply(fsm.HomeRoom, s, items))
	prompts := make([]string, len(items))
	for i, it := range items {
		prompts[i] = it.Prompt
	}
	second := eligibleIDs(table.Apply(fsm.HomeRoom, s, items))

	if !equal(first, second) {
		t.Fatalf("Apply not idempotent: %v then %v", first, second)
	}
	for i, it := range items {
		if it.Prompt != prompts[i] {
			t.Errorf("%s prompt changed on second Apply", it.ID)
		}
	}
}

func TestApplyOutsideRuleStates(t *testing.T) {
	s := models.NewGameState(geom.Vec3{})
	got := eligibleIDs(hubTable().Apply(fsm.ArenaActive, s, catalog()))
	if len(got) != 0 {
		t.Fatalf("home rules leaked into arena: %v", got)
	}
}

func TestFreshHomeOffersOnlyMail(t *testing.T) {
	s := models.NewGameState(geom.Vec3{})
	table := hubTable()

	lists := table.Apply(fsm.HomeRoom, s, catalog())
	if got := ids(lists[interact.Primary]); !equal(got, []string{"laptop"}) {
		t.Fatalf("primary = %v, want [laptop]", got)
	}

	a, v := table.Resolve("laptop", fsm.HomeRoom, s)
	if v != Allowed {
		t.Fatalf("laptop verdict = %v", v)
	}
	for _, f := range a.Set {
		s.Set(f)
	}
	if got := s.Flags(); len(got) != 1 || got[0] != models.FlagMailRead {
		t.Fatalf("flags after mail = %v, want [mail_read]", got)
	}
}

func TestDoorBlockedUntilDressedAndDone(t *testing.T) {
	s := models.NewGameState(geom.Vec3{})
	s.Set(models.FlagMailRead)
	s.Set(models.FlagInviteAccepted)
	table := hubTable()

	lists := table.Apply(fsm.HomeRoom, s, catalog())
	if got := ids(lists[interact.Primary]); !equal(got, []string{"door_home"}) {
		t.Fatalf("primary = %v, want [door_home]", got)
	}

	if _, v := table.Resolve("door_to_arena", fsm.HomeRoom, s); v != Blocked {
		t.Fatalf("door verdict = %v, want blocked", v)
	}
	s.Set(models.FlagOutfitChanged)
	if _, v := table.Resolve("door_to_arena", fsm.HomeRoom, s); v != Blocked {
		t.Fatalf("door verdict with outfit only = %v, want blocked", v)
	}
	s.Set(models.FlagMakeupApplied)
	a, v := table.Resolve("door_to_arena", fsm.HomeRoom, s)
	if v != Allowed || a.Transition != fsm.EnteringArena {
		t.Fatalf("door verdict = %v / %s", v, a.Transition)
	}
}

func TestResolveUnknown(t *testing.T) {
	s := models.NewGameState(geom.Vec3{})
	if _, v := hubTable().Resolve("guitar", fsm.HomeRoom, s); v != Unknown {
		t.Fatalf("verdict = %v, want unknown", v)
	}
	if _, v := hubTable().Resolve("laptop", fsm.ArenaActive, s); v != Unknown {
		t.Fatalf("laptop in arena verdict = %v, want unknown", v)
	}
}

func TestValidate(t *testing.T) {
	known := map[string]bool{"laptop": true, "door_home": true, "makeup": true, "wardrobe": true, "cat": true}
	if err := hubTable().Validate(known); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := hubTable()
	bad.Rules = append(bad.Rules, Rule{Interactable: "ghost"})
	if err := bad.Validate(known); err == nil {
		t.Fatal("Validate accepted unknown interactable")
	}

	bad = hubTable()
	bad.Actions[0].Set = []models.Flag{"cake_eaten"}
	if err := bad.Validate(known); err == nil {
		t.Fatal("Validate accepted unknown flag")
	}
}
