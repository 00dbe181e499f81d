package engine

import (
	"github.com/tatianab/proposal-game/internal/fsm"
	"github.com/tatianab/proposal-game/internal/geom"
	"github.com/tatianab/proposal-game/internal/models"
	"github.com/tatianab/proposal-game/internal/variant"
)

const (
	fadeBlack = "black"
	fadeWhite = "white"
)

func (e *Engine) registerFlow() {
	e.machine.On(fsm.HomeRoom, e.enterHome)
	e.machine.On(fsm.EnteringArena, e.enterEnteringArena)
	e.machine.On(fsm.GuidedIntro, e.enterGuidedIntro)
	e.machine.On(fsm.ArenaActive, e.enterArenaActive)
	e.machine.On(fsm.Success, e.enterSuccess)
	e.machine.On(fsm.PostSuccess, e.enterPostSuccess)
	e.machine.On(fsm.Share, e.enterShare)
	e.machine.On(fsm.ReturningHome, e.enterReturningHome)
}

// suspend stops everything the player can drive.
func (e *Engine) suspend() {
	e.movement = false
	e.intent = geom.Vec3{}
	e.holdLeft = 0
	e.gate.Disable()
	e.dodger.Disable()
	if e.pose != nil {
		e.pose.Disable()
		e.posed = false
	}
	if e.shooter != nil {
		e.shooter.Disable()
	}
}

func (e *Engine) resume() {
	e.movement = true
	e.gate.Enable()
	e.refresh()
}

func (e *Engine) teleport(s variant.Scene, inArena bool) {
	e.state.InArena = inArena
	e.state.PlayerPosition = s.Spawn
	e.state.PlayerRotation = s.SpawnYaw
	e.state.IsMoving = false
	e.followCamera()
}

func (e *Engine) enterHome(from fsm.State) {
	if !e.visitedHome {
		e.visitedHome = true
		e.notify(e.v.Milestones.EnteredHome)
		e.task = e.v.Texts.FirstTask
	} else if from == fsm.ReturningHome {
		e.task = ""
	}
	e.counter = false
	e.resume()
}

func (e *Engine) enterEnteringArena(fsm.State) {
	e.suspend()
	e.fader.Out(e.v.Timing.Fade, fadeBlack, func() {
		e.teleport(e.v.Arena, true)
		e.fader.In(e.v.Timing.Fade, func() {
			if e.introSeen {
				e.machine.Transition(fsm.ArenaActive)
			} else {
				e.machine.Transition(fsm.GuidedIntro)
			}
		})
	})
}

func (e *Engine) enterGuidedIntro(fsm.State) {
	e.overlay = GuidelinesOverlay
}

func (e *Engine) enterArenaActive(fsm.State) {
	e.introSeen = true
	e.resume()
	if !e.progress.Done() {
		e.dodger.Enable()
		if e.pose != nil {
			e.pose.Enable()
		}
		if e.shooter != nil {
			e.shooter.Enable()
		}
	}
	e.counter = true
	e.updateArenaHUD()
}

func (e *Engine) updateArenaHUD() {
	switch {
	case e.progress.Done():
		e.task = ""
	case !e.strikeUnlocked() && e.v.Texts.LockedTask != "":
		e.task = e.v.Texts.LockedTask
	default:
		e.task = sprintf(e.v.Texts.ArenaTask, e.progress.Count(), e.progress.Required())
	}
}

// onStruck handles a landed yes strike. reached is true exactly once, on
// the strike that completes the progress.
func (e *Engine) onStruck(reached bool) {
	e.updateArenaHUD()
	if !reached {
		e.notify(sprintf(e.v.Milestones.Strike, e.progress.Count(), e.progress.Required()))
		return
	}
	e.notify(e.v.Milestones.Final)
	e.task = ""
	e.gate.Disable()
	e.timers.After(e.v.Timing.SuccessDelay, func() {
		if e.pose != nil {
			e.pose.Release()
		}
		e.posed = false
		e.machine.Transition(fsm.Success)
	})
}

func (e *Engine) enterSuccess(fsm.State) {
	e.suspend()
	e.counter = false
	e.task = ""
	e.dodger.ClearBubbles()
	e.state.Set(models.FlagCelebrated)
	e.sweep.Start(e.camera, e.v.Camera.Sweep, e.v.Camera.SweepDuration, nil)

	e.fader.Out(e.v.Timing.FlashIn, fadeWhite, func() {
		e.fader.In(e.v.Timing.FlashOut, func() {
			center := e.v.Arena.Origin.Add(geom.V(0, e.v.Strike.BoardHeight+1, 0))
			e.effects.Celebrate(center)
			e.overlay = CelebrationOverlay
			e.notify(e.v.Milestones.Celebration)
		})
	})
}

func (e *Engine) enterPostSuccess(fsm.State) {
	e.sweep.Cancel()
	if e.state.Set(models.FlagArenaDecorated) {
		e.record("flag %s", models.FlagArenaDecorated)
	}
	e.teleport(e.v.Arena, true)
	e.resume()
	e.shareTimer = e.timers.After(e.v.Timing.ShareDelay, func() {
		e.machine.Transition(fsm.Share)
	})
}

func (e *Engine) enterShare(fsm.State) {
	e.overlay = ShareOverlay
	e.intent = geom.Vec3{}
	e.refresh()
}

func (e *Engine) enterReturningHome(fsm.State) {
	e.timers.Cancel(e.shareTimer)
	e.suspend()
	e.counter = false
	e.fader.Out(e.v.Timing.Fade, fadeBlack, func() {
		e.teleport(e.v.Home, false)
		e.fader.In(e.v.Timing.Fade, func() {
			e.machine.Transition(fsm.HomeRoom)
		})
	})
}
