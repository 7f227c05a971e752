package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is one frame of player intent.
type Input struct {
	MoveX         float64
	MoveY         float64
	JumpPressed   bool
	AttackPressed bool
	CursorX       int
	CursorY       int
	AimX          float64
	AimY          float64

	PausePressed  bool
	ResetPressed  bool
	DebugPressed  bool
	CopyPressed   bool
	FreezePressed bool
}

func readInput() Input {
	const stickDeadzone = 0.2

	var in Input
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.MoveY -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.MoveY += 1
	}
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.AttackPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.CursorX, in.CursorY = ebiten.CursorPosition()

	in.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	in.ResetPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	in.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyF2)
	in.FreezePressed = inpututil.IsKeyJustPressed(ebiten.KeyF)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			in.MoveX, in.MoveY = lx, ly
		}

		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.AttackPressed = in.AttackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.PausePressed = in.PausePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.AimX, in.AimY = rx, ry
		}
	}
	return in
}
