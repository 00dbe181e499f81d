package models

import (
	"sort"

	"github.com/tatianab/proposal-game/internal/geom"
)

// Flag names a one-way task gate. Once set it stays set for the rest of the
// playthrough; only a full restart produces a fresh GameState.
type Flag string

const (
	FlagMailRead       Flag = "mail_read"
	FlagInviteAccepted Flag = "invite_accepted"
	FlagInviteDeclined Flag = "invite_declined"
	FlagOutfitChanged  Flag = "outfit_changed"
	FlagMakeupApplied  Flag = "makeup_applied"
	FlagRiflePickedUp  Flag = "rifle_picked_up"
	FlagArenaDecorated Flag = "arena_decorated"
	FlagCelebrated     Flag = "celebrated"
)

// KnownFlags lists every flag the content files may reference.
var KnownFlags = []Flag{
	FlagMailRead,
	FlagInviteAccepted,
	FlagInviteDeclined,
	FlagOutfitChanged,
	FlagMakeupApplied,
	FlagRiflePickedUp,
	FlagArenaDecorated,
	FlagCelebrated,
}

func IsKnownFlag(f Flag) bool {
	for _, k := range KnownFlags {
		if k == f {
			return true
		}
	}
	return false
}

// GameState represents the mutable state of a single playthrough.
type GameState struct {
	PlayerPosition geom.Vec3
	PlayerRotation float64
	IsMoving       bool
	// InArena is scene membership, not a task flag; it flips on every visit.
	InArena bool

	flags map[Flag]bool
}

func NewGameState(spawn geom.Vec3) *GameState {
	return &GameState{
		PlayerPosition: spawn,
		flags:          make(map[Flag]bool),
	}
}

// Set raises a flag and reports whether it was newly raised.
func (s *GameState) Set(f Flag) bool {
	if s.flags[f] {
		return false
	}
	s.flags[f] = true
	return true
}

func (s *GameState) Has(f Flag) bool {
	return s.flags[f]
}

// Flags returns the raised flags in a stable order.
func (s *GameState) Flags() []Flag {
	out := make([]Flag, 0, len(s.flags))
	for f, on := range s.flags {
		if on {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Position lets the player be used wherever a geom.Positioner is expected.
func (s *GameState) Position() geom.Vec3 {
	return s.PlayerPosition
}

// Facing is the player's forward direction on the XZ plane.
func (s *GameState) Facing() geom.Vec3 {
	return geom.Heading(s.PlayerRotation)
}
