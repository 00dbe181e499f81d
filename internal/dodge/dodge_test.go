package dodge

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tatianab/proposal-game/internal/geom"
)

func poseConfig() Config {
	return Config{
		Trigger:    Proximity,
		Out:        0.3,
		Hold:       0.5,
		Return:     0.4,
		Threshold:  0.7,
		Magnitude:  2.0,
		BubbleLife: 1.5,
		BubbleRise: 0.4,
		Bubbles:    true,
		Messages:   []string{"Nope!", "Not this one!"},
	}
}

func aimConfig() Config {
	return Config{
		Trigger:    Aim,
		Out:        0.2,
		Hold:       0.6,
		Return:     0.3,
		Threshold:  0.8,
		Magnitude:  1.2,
		AimHeight:  1.65,
		FacingDot:  0.5,
		BubbleLife: 1.2,
		BubbleRise: 0.5,
		Bubbles:    true,
		Messages:   []string{"Missed me!"},
	}
}

func near(a, b geom.Vec3) bool {
	return a.Dist(b) < 1e-9
}

func TestProximityDodgeCycle(t *testing.T) {
	sys := NewSystem(poseConfig(), rand.New(rand.NewSource(7)))
	spot := NewSpot("no-1", No, geom.V(0, 0, -5), nil)
	sys.SetSpots([]*Spot{spot})
	sys.Enable()

	player := geom.V(0, 0, -4.5)
	sys.Update(0.016, Sense{Player: player})
	if !spot.Dodging() {
		t.Fatal("spot within threshold did not start dodging")
	}
	if !near(spot.Pos, spot.Origin) {
		t.Fatalf("trigger frame moved the spot to %v", spot.Pos)
	}
	if got := sys.PhaseOf(spot); got != Out {
		t.Fatalf("phase = %v, want out", got)
	}

	sys.Update(0.35, Sense{Player: player})
	if got := sys.PhaseOf(spot); got != Hold {
		t.Fatalf("phase = %v, want hold", got)
	}
	// Away from the player along -Z by the full magnitude.
	if want := geom.V(0, 0, -7); !near(spot.Pos, want) {
		t.Fatalf("hold position = %v, want %v", spot.Pos, want)
	}
	if spot.Hittable() {
		t.Fatal("dodging spot reported hittable")
	}

	sys.Update(0.6, Sense{Player: player})
	if got := sys.PhaseOf(spot); got != Return {
		t.Fatalf("phase = %v, want return", got)
	}
	off := spot.Pos.Dist(spot.Origin)
	if off <= 0 || off >= 2 {
		t.Fatalf("return offset = %v, want strictly between 0 and 2", off)
	}

	sys.Update(0.5, Sense{Player: geom.V(5, 0, 5)})
	if spot.Dodging() || spot.Pos != spot.Origin {
		t.Fatalf("after cycle: dodging=%v pos=%v, want idle at origin", spot.Dodging(), spot.Pos)
	}
}

func TestProximityOutsideThreshold(t *testing.T) {
	sys := NewSystem(poseConfig(), nil)
	spot := NewSpot("no-1", No, geom.V(0, 0, -5), nil)
	sys.SetSpots([]*Spot{spot})
	sys.Enable()

	sys.Update(0.016, Sense{Player: geom.V(0, 0, -4.2)})
	if spot.Dodging() {
		t.Fatal("spot at 0.8 dodged with threshold 0.7")
	}
}

func TestYesSpotsAreNotTracked(t *testing.T) {
	sys := NewSystem(poseConfig(), nil)
	yes := NewSpot("yes-1", Yes, geom.V(0, 0, -5), nil)
	no := NewSpot("no-1", No, geom.V(3, 0, -5), nil)
	sys.SetSpots([]*Spot{yes, no})
	sys.Enable()

	if got := len(sys.Spots()); got != 1 || sys.Spots()[0] != no {
		t.Fatalf("tracked spots = %d, want only the no spot", got)
	}
	sys.Update(0.016, Sense{Player: geom.V(0, 0, -5)})
	if yes.Dodging() {
		t.Fatal("yes spot dodged")
	}
}

func TestSetSpotsLeavesEarlierSliceAlone(t *testing.T) {
	sys := NewSystem(poseConfig(), nil)
	first := NewSpot("no-1", No, geom.V(0, 0, -5), nil)
	sys.SetSpots([]*Spot{first})
	old := sys.Spots()

	sys.SetSpots([]*Spot{NewSpot("no-2", No, geom.V(3, 0, -5), nil)})
	if old[0] != first {
		t.Fatalf("earlier Spots() slice now holds %s", old[0].ID)
	}
}

func TestDisabledSystemIsFrozen(t *testing.T) {
	sys := NewSystem(poseConfig(), nil)
	spot := NewSpot("no-1", No, geom.V(0, 0, 0), nil)
	sys.SetSpots([]*Spot{spot})
	sys.Enable()
	sys.Update(0.016, Sense{Player: geom.V(0, 0, 0.1)})
	sys.Disable()

	before := spot.Pos
	for i := 0; i < 10; i++ {
		sys.Update(0.05, Sense{Player: geom.V(0, 0, 0.1)})
	}
	if spot.Pos != before || len(sys.Bubbles()) != 1 {
		t.Fatalf("disabled system advanced: pos %v -> %v, bubbles %d", before, spot.Pos, len(sys.Bubbles()))
	}
}

func TestAimTrigger(t *testing.T) {
	tests := []struct {
		name  string
		ray   geom.Ray
		dodge bool
	}{
		{"straight at board", geom.Ray{Origin: geom.V(0, 1.65, 0), Dir: geom.V(0, 0, -1)}, true},
		{"grazing inside threshold", geom.Ray{Origin: geom.V(0.6, 1.65, 0), Dir: geom.V(0, 0, -1)}, true},
		{"wide of the board", geom.Ray{Origin: geom.V(1.5, 1.65, 0), Dir: geom.V(0, 0, -1)}, false},
		{"facing away", geom.Ray{Origin: geom.V(0, 1.65, 0), Dir: geom.V(0, 0, 1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := NewSystem(aimConfig(), rand.New(rand.NewSource(1)))
			spot := NewSpot("no-1", No, geom.V(0, 0, -5), nil)
			sys.SetSpots([]*Spot{spot})
			sys.Enable()

			ray := tt.ray
			sys.Update(0.016, Sense{Aim: &ray})
			if spot.Dodging() != tt.dodge {
				t.Fatalf("dodging = %v, want %v", spot.Dodging(), tt.dodge)
			}
			if len(sys.Bubbles()) != 0 {
				t.Fatal("aim-triggered dodge spawned a bubble")
			}
			if !tt.dodge {
				return
			}
			sys.Update(0.25, Sense{})
			if math.Abs(math.Abs(spot.Pos.X)-1.2) > 1e-9 || spot.Pos.Z != -5 {
				t.Fatalf("hold position = %v, want ±1.2 on X", spot.Pos)
			}
		})
	}
}

func TestShotAtSpeaksAndCyclesMessages(t *testing.T) {
	sys := NewSystem(poseConfig(), nil)
	var spots []*Spot
	for _, id := range []string{"a", "b", "c"} {
		spots = append(spots, NewSpot(id, No, geom.V(0, 0, 0), nil))
	}
	sys.SetSpots(spots)
	sys.Enable()

	for _, sp := range spots {
		sys.ShotAt(sp)
	}
	got := sys.Bubbles()
	want := []string{"Nope!", "Not this one!", "Nope!"}
	if len(got) != len(want) {
		t.Fatalf("bubbles = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("bubble %d = %q, want %q", i, got[i].Text, want[i])
		}
	}

	// A second shot while already dodging does not speak again.
	sys.ShotAt(spots[0])
	if len(sys.Bubbles()) != 3 {
		t.Fatalf("re-shot of a dodging spot added a bubble")
	}
	sys.ShotAt(NewSpot("yes", Yes, geom.Vec3{}, nil))
	if len(sys.Bubbles()) != 3 {
		t.Fatalf("shot at a yes spot added a bubble")
	}
}

func TestBubblesRiseAndExpire(t *testing.T) {
	sys := NewSystem(poseConfig(), nil)
	spot := NewSpot("no-1", No, geom.V(0, 0, 0), nil)
	sys.SetSpots([]*Spot{spot})
	sys.Enable()
	sys.ShotAt(spot)

	startY := sys.Bubbles()[0].Pos.Y
	far := Sense{Player: geom.V(10, 0, 10)}
	sys.Update(1.0, far)
	if len(sys.Bubbles()) != 1 || sys.Bubbles()[0].Pos.Y <= startY {
		t.Fatalf("bubble did not rise: %+v", sys.Bubbles())
	}
	if op := sys.Bubbles()[0].Opacity(); op != 1 {
		t.Fatalf("opacity with 0.5s left = %v, want 1", op)
	}
	sys.Update(0.6, far)
	if len(sys.Bubbles()) != 0 {
		t.Fatalf("bubble outlived its life: %+v", sys.Bubbles())
	}
}

func TestDodgeClampedToBounds(t *testing.T) {
	b := geom.Bounds{MinX: -0.5, MaxX: 0.5, MinZ: -10, MaxZ: 10}
	sys := NewSystem(aimConfig(), rand.New(rand.NewSource(3)))
	spot := NewSpot("no-1", No, geom.V(0, 0, -5), &b)
	sys.SetSpots([]*Spot{spot})
	sys.Enable()

	sys.ShotAt(spot)
	for i := 0; i < 8; i++ {
		sys.Update(0.05, Sense{})
		if !b.Contains(spot.Pos) {
			t.Fatalf("step %d: %v left bounds", i, spot.Pos)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := poseConfig().Validate(); err != nil {
		t.Fatalf("pose config: %v", err)
	}
	bad := poseConfig()
	bad.Trigger = "telepathy"
	if bad.Validate() == nil {
		t.Error("unknown trigger accepted")
	}
	bad = poseConfig()
	bad.Out = 0
	if bad.Validate() == nil {
		t.Error("zero out duration accepted")
	}
}
