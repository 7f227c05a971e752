package main

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/ecs/system"
)

// playerState is the interface each concrete player state implements.
type playerState interface {
	Enter(p *Player)
	HandleInput(p *Player, in Input)
	OnPhysics(p *Player, dt float64)
	Name() string
}

const (
	playerSpeed   = 4.5
	playerRadius  = 0.35
	playerMaxHP   = 100.0
	jumpSpeed     = 6.0
	gravity       = 18.0
	jumpBufferMax = 0.1 // seconds a jump press is remembered before landing
)

type groundedState struct{}

func (groundedState) Name() string { return "grounded" }
func (groundedState) Enter(p *Player) {
	p.Elevation = 0
	p.VelocityZ = 0
}
func (groundedState) HandleInput(p *Player, in Input) {
	if in.JumpPressed || p.jumpBuffer > 0 {
		p.jumpBuffer = 0
		p.VelocityZ = jumpSpeed
		p.setState(stateAirborne)
	}
}
func (groundedState) OnPhysics(p *Player, dt float64) {}

type airborneState struct{}

func (airborneState) Name() string { return "airborne" }
func (airborneState) Enter(p *Player) {}
func (airborneState) HandleInput(p *Player, in Input) {
	if in.JumpPressed {
		p.jumpBuffer = jumpBufferMax
	}
}
func (airborneState) OnPhysics(p *Player, dt float64) {
	p.VelocityZ -= gravity * dt
	p.Elevation += p.VelocityZ * dt
	if p.Elevation <= 0 {
		p.setState(stateGrounded)
	}
}

type deadState struct{}

func (deadState) Name() string { return "dead" }
func (deadState) Enter(p *Player) {
	p.Elevation = 0
	p.VelocityZ = 0
}
func (deadState) HandleInput(p *Player, in Input) {}
func (deadState) OnPhysics(p *Player, dt float64) {}

var (
	stateGrounded playerState = &groundedState{}
	stateAirborne playerState = &airborneState{}
	stateDead     playerState = &deadState{}
)

// Player is the host-side avatar the horde chases. It walks on the maze
// floor and jumps along a separate elevation axis.
type Player struct {
	Pos       cp.Vector
	Start     cp.Vector
	Elevation float64
	VelocityZ float64
	HP        float64
	Facing    cp.Vector

	state      playerState
	jumpBuffer float64
	lastHit    component.DamageSource
}

func NewPlayer(start cp.Vector) *Player {
	p := &Player{Start: start}
	p.Respawn()
	return p
}

func (p *Player) Respawn() {
	p.Pos = p.Start
	p.HP = playerMaxHP
	p.Facing = cp.Vector{X: 1}
	p.jumpBuffer = 0
	p.setState(stateGrounded)
}

func (p *Player) setState(s playerState) {
	p.state = s
	p.state.Enter(p)
}

func (p *Player) StateName() string {
	return p.state.Name()
}

func (p *Player) Alive() bool {
	return p.state != stateDead
}

// Update moves the player, then pushes it out of the maze walls.
func (p *Player) Update(in Input, dt float64, walls []cp.BB) {
	if dt <= 0 {
		return
	}
	p.state.HandleInput(p, in)
	if p.jumpBuffer > 0 {
		p.jumpBuffer -= dt
	}

	if p.Alive() {
		if dir, ok := common.SafeNormalize(cp.Vector{X: in.MoveX, Y: in.MoveY}); ok {
			p.Pos = p.Pos.Add(dir.Mult(playerSpeed * dt))
			p.Facing = dir
		}
	}
	p.Pos = system.ResolveWalls(p.Pos, playerRadius, walls)
	p.state.OnPhysics(p, dt)
}

// TakeDamage is the horde's damage callback.
func (p *Player) TakeDamage(amount float64, src component.DamageSource) {
	if !p.Alive() || amount <= 0 {
		return
	}
	p.lastHit = src
	p.HP -= amount
	if p.HP <= 0 {
		p.HP = 0
		p.setState(stateDead)
	}
}
