package models

import (
	"testing"

	"github.com/tatianab/proposal-game/internal/geom"
)

func TestGameStateFlagsAreOneWay(t *testing.T) {
	s := NewGameState(geom.V(0, 0, 0))

	if s.Has(FlagOutfitChanged) {
		t.Fatalf("fresh state should have no flags")
	}
	if !s.Set(FlagOutfitChanged) {
		t.Fatalf("first Set should report a change")
	}

	// Every further operation leaves the flag raised.
	for i := 0; i < 3; i++ {
		if s.Set(FlagOutfitChanged) {
			t.Errorf("Set #%d reported a change for an already raised flag", i+2)
		}
		s.Set(FlagMakeupApplied)
		if !s.Has(FlagOutfitChanged) {
			t.Fatalf("flag was lowered after Set #%d", i+2)
		}
	}

	got := s.Flags()
	if len(got) != 2 || got[0] != FlagMakeupApplied || got[1] != FlagOutfitChanged {
		t.Errorf("Flags() = %v, want [makeup_applied outfit_changed]", got)
	}
}

func TestGameStatePosition(t *testing.T) {
	s := NewGameState(geom.V(1, 0, 2))
	var p geom.Positioner = s
	if p.Position() != geom.V(1, 0, 2) {
		t.Errorf("Position() = %+v", p.Position())
	}
}

func TestKnownFlags(t *testing.T) {
	if !IsKnownFlag(FlagRiflePickedUp) {
		t.Errorf("rifle flag should be known")
	}
	if IsKnownFlag("cake_eaten") {
		t.Errorf("unexpected flag reported as known")
	}
}
