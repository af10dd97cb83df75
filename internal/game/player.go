package game

import (
	"math"

	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
)

// PlayerConfig параметры персонажа
type PlayerConfig struct {
	MoveSpeed          float64 // блоков в секунду
	SprintSpeed        float64
	JumpingSprintSpeed float64 // скорость бега в прыжке
	Sensitivity        float64 // градусов на единицу смещения мыши
	Gravity            float64
	JumpVelocity       float64
	Width              float64
	Height             float64
	EyeHeight          float64
	Reach              float64
	Spawn              mgl64.Vec3
}

// DefaultPlayerConfig возвращает параметры по умолчанию
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		MoveSpeed:          4.317,
		SprintSpeed:        5.612,
		JumpingSprintSpeed: 7.127,
		Sensitivity:        0.1,
		Gravity:            27.55,
		JumpVelocity:       8.0,
		Width:              0.6,
		Height:             1.8,
		EyeHeight:          1.62,
		Reach:              5,
		Spawn:              mgl64.Vec3{0, 2, 0},
	}
}

const (
	// MaxPitch ограничение наклона камеры в градусах
	MaxPitch = 89.0

	// VoidY высота, ниже которой персонаж возвращается на точку появления
	VoidY = -64.0

	// spawnClearance зазор над поверхностью при появлении: касание гранью
	// считается столкновением и заблокировало бы горизонтальное движение
	spawnClearance = 0.01
)

// Input ввод игрока за один тик. Зажатые клавиши действуют, пока не отпущены,
// а смещение мыши и действия с блоками применяются один раз.
type Input struct {
	Forward bool `json:"forward"`
	Back    bool `json:"back"`
	Left    bool `json:"left"`
	Right   bool `json:"right"`
	Jump    bool `json:"jump"`
	Sprint  bool `json:"sprint"`

	MouseDX float64 `json:"mouse_dx"`
	MouseDY float64 `json:"mouse_dy"`

	Break     bool       `json:"break"`
	Place     bool       `json:"place"`
	PlaceType block.Type `json:"place_type"`
}

// TickResult итог одного тика персонажа
type TickResult struct {
	Broken          *world.Block
	Placed          *world.Block
	PlaceErr        error
	ChunksGenerated int
	Respawned       bool
}

// Player персонаж от первого лица. Yaw и Pitch в градусах:
// yaw = 0 смотрит в -Z, рост yaw поворачивает к +X; pitch > 0 вверх.
type Player struct {
	Body  *physics.Body
	Yaw   float64
	Pitch float64

	cfg PlayerConfig
}

// NewPlayer создаёт персонажа на точке появления, поднятой на поверхность рельефа
func NewPlayer(cfg PlayerConfig, w *world.World) *Player {
	p := &Player{
		Body: physics.NewBody(cfg.Spawn, cfg.Width, cfg.Height),
		cfg:  cfg,
	}
	p.Respawn(w)
	return p
}

// Config возвращает параметры персонажа
func (p *Player) Config() PlayerConfig {
	return p.cfg
}

// Respawn возвращает персонажа на точку появления
func (p *Player) Respawn(w *world.World) {
	spawn := p.cfg.Spawn
	if surface := p.surfaceHeight(w, spawn) + spawnClearance; spawn.Y() < surface {
		spawn[1] = surface
	}
	p.Body.Position = spawn
	p.Body.Velocity = mgl64.Vec3{}
	p.Body.Grounded = false
}

// surfaceHeight возвращает высоту рельефа под AABB персонажа в точке pos
func (p *Player) surfaceHeight(w *world.World, pos mgl64.Vec3) float64 {
	box := p.Body.AABB().Offset(pos.Sub(p.Body.Position))
	lo, hi := box.BlockRange(0)

	top := math.Inf(-1)
	for x := lo.X; x <= hi.X; x++ {
		for z := lo.Z; z <= hi.Z; z++ {
			top = math.Max(top, float64(w.Generator().HeightAt(x, z)))
		}
	}
	return top
}

// EyePosition возвращает позицию камеры
func (p *Player) EyePosition() mgl64.Vec3 {
	return p.Body.Position.Add(mgl64.Vec3{0, p.cfg.EyeHeight, 0})
}

// LookDirection возвращает единичный вектор взгляда
func (p *Player) LookDirection() mgl64.Vec3 {
	yaw := mgl64.DegToRad(p.Yaw)
	pitch := mgl64.DegToRad(p.Pitch)
	return mgl64.Vec3{
		math.Sin(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw) * math.Cos(pitch),
	}
}

// Look поворачивает камеру на смещение мыши
func (p *Player) Look(dx, dy float64) {
	p.Yaw = math.Mod(p.Yaw+dx*p.cfg.Sensitivity, 360)
	if p.Yaw < 0 {
		p.Yaw += 360
	}
	p.Pitch = mgl64.Clamp(p.Pitch-dy*p.cfg.Sensitivity, -MaxPitch, MaxPitch)
}

// speed возвращает горизонтальную скорость для текущего ввода
func (p *Player) speed(in Input) float64 {
	switch {
	case in.Sprint && !p.Body.Grounded:
		return p.cfg.JumpingSprintSpeed
	case in.Sprint:
		return p.cfg.SprintSpeed
	default:
		return p.cfg.MoveSpeed
	}
}

// wishDirection возвращает горизонтальное направление движения по вводу
// (единичное либо нулевое)
func (p *Player) wishDirection(in Input) (float64, float64) {
	yaw := mgl64.DegToRad(p.Yaw)
	sin, cos := math.Sin(yaw), math.Cos(yaw)

	var dx, dz float64
	if in.Forward {
		dx += sin
		dz -= cos
	}
	if in.Back {
		dx -= sin
		dz += cos
	}
	if in.Left {
		dx -= cos
		dz -= sin
	}
	if in.Right {
		dx += cos
		dz += sin
	}

	if l := math.Hypot(dx, dz); l > 1e-9 {
		return dx / l, dz / l
	}
	return 0, 0
}

// Tick продвигает персонажа на dt секунд. Порядок: ввод, горизонтальное
// движение, вертикальное движение, изменение мира, подгрузка чанков.
func (p *Player) Tick(dt float64, in Input, w *world.World) TickResult {
	var res TickResult

	p.Look(in.MouseDX, in.MouseDY)

	dx, dz := p.wishDirection(in)
	s := p.speed(in) * dt
	p.Body.MoveHorizontal(dx*s, dz*s, w)

	if in.Jump && p.Body.Grounded {
		p.Body.Velocity[1] = p.cfg.JumpVelocity
		p.Body.Grounded = false
	}
	p.Body.Velocity[1] -= p.cfg.Gravity * dt
	p.Body.MoveVertical(p.Body.Velocity[1]*dt, w)

	if p.Body.Position.Y() < VoidY {
		p.Respawn(w)
		res.Respawned = true
	}

	if in.Break {
		if b, ok := w.BreakBlock(p.EyePosition(), p.LookDirection(), p.cfg.Reach); ok {
			res.Broken = &b
		}
	}
	if in.Place {
		b, err := w.PlaceBlock(p.EyePosition(), p.LookDirection(), p.cfg.Reach, p.Body.AABB(), in.PlaceType)
		if err != nil {
			res.PlaceErr = err
		} else {
			res.Placed = &b
		}
	}

	res.ChunksGenerated = w.EnsureAround(p.Body.Position)
	return res
}

// BlockPosition возвращает позицию блока, в котором стоят ступни
func (p *Player) BlockPosition() vec.Vec3 {
	return vec.FromFloat(p.Body.Position)
}
