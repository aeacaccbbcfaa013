package systems

import (
	"math"

	"github.com/gonewx/cryodefense/pkg/config"
)

// Gravity 抛射计算使用的重力加速度（格/秒²）
const Gravity = 9.81

// Vec3 三维坐标，Z 为高度（格）
type Vec3 struct {
	X, Y, Z float64
}

// AimStrategy 炮塔瞄准策略
// Solve 返回从 origin 命中 target 所需的水平朝向与仰角（度），无解时 ok 为 false
type AimStrategy interface {
	Solve(origin, target Vec3) (yaw, pitch float64, ok bool)
}

// NewAimStrategy 按炮塔参数创建瞄准策略
func NewAimStrategy(t config.TurretStats) AimStrategy {
	if t.Aim == config.AimBallistic {
		return BallisticAim{MuzzleHeight: t.MuzzleHeight, Speed: t.ProjectileSpeed, Gravity: Gravity}
	}
	return DirectAim{MuzzleHeight: t.MuzzleHeight}
}

// DirectAim 平射：仰角即视线角
type DirectAim struct {
	MuzzleHeight float64
}

// Solve 实现 AimStrategy
func (a DirectAim) Solve(origin, target Vec3) (float64, float64, bool) {
	dx, dy := target.X-origin.X, target.Y-origin.Y
	dz := target.Z - (origin.Z + a.MuzzleHeight)
	return yawOf(dx, dy), math.Atan2(dz, math.Hypot(dx, dy)) * 180 / math.Pi, true
}

// BallisticAim 抛射：按弹速和重力求低弹道仰角
type BallisticAim struct {
	MuzzleHeight float64
	Speed        float64
	Gravity      float64
}

// Solve 实现 AimStrategy，超出弹速射程时无解
func (a BallisticAim) Solve(origin, target Vec3) (float64, float64, bool) {
	dx, dy := target.X-origin.X, target.Y-origin.Y
	x := math.Hypot(dx, dy)
	z := target.Z - (origin.Z + a.MuzzleHeight)
	yaw := yawOf(dx, dy)
	if x == 0 {
		return yaw, 90, true
	}
	v2 := a.Speed * a.Speed
	disc := v2*v2 - a.Gravity*(a.Gravity*x*x+2*z*v2)
	if disc < 0 {
		return yaw, 0, false
	}
	pitch := math.Atan((v2-math.Sqrt(disc))/(a.Gravity*x)) * 180 / math.Pi
	return yaw, pitch, true
}

func yawOf(dx, dy float64) float64 {
	return normalizeAngle(math.Atan2(dy, dx) * 180 / math.Pi)
}

// angleDelta 从 from 转到 to 的最短有符号角度，(-180, 180]
func angleDelta(from, to float64) float64 {
	d := normalizeAngle(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}

// rotateTowards 以最大角速度 maxStep 转向
func rotateTowards(from, to, maxStep float64) float64 {
	d := angleDelta(from, to)
	if maxStep <= 0 || math.Abs(d) <= maxStep {
		return normalizeAngle(to)
	}
	if d > 0 {
		return normalizeAngle(from + maxStep)
	}
	return normalizeAngle(from - maxStep)
}
