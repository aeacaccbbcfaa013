package systems

import (
	"math"
	"testing"

	"github.com/gonewx/cryodefense/pkg/config"
)

func TestDirectAim(t *testing.T) {
	a := DirectAim{MuzzleHeight: 1}
	yaw, pitch, ok := a.Solve(Vec3{0, 0, 0}, Vec3{0, 5, 1})
	if !ok {
		t.Fatal("direct aim always has a solution")
	}
	if math.Abs(yaw-90) > 1e-9 {
		t.Errorf("yaw: got %v, want 90", yaw)
	}
	if math.Abs(pitch) > 1e-9 {
		t.Errorf("pitch with muzzle offset: got %v, want 0", pitch)
	}
}

func TestBallisticAim(t *testing.T) {
	a := BallisticAim{Speed: 10, Gravity: Gravity}

	yaw, pitch, ok := a.Solve(Vec3{0, 0, 0}, Vec3{-8, 0, 0})
	if !ok {
		t.Fatal("target within range should be reachable")
	}
	if math.Abs(yaw-180) > 1e-9 {
		t.Errorf("yaw: got %v, want 180", yaw)
	}
	// 平地低弹道：sin(2θ) = g·x / v²
	want := math.Asin(Gravity*8/100) / 2 * 180 / math.Pi
	if math.Abs(pitch-want) > 1e-6 {
		t.Errorf("pitch: got %v, want %v", pitch, want)
	}

	// 最大射程 v²/g ≈ 10.2
	if _, _, ok := a.Solve(Vec3{0, 0, 0}, Vec3{20, 0, 0}); ok {
		t.Error("target beyond v²/g should be unreachable")
	}
}

func TestNewAimStrategy(t *testing.T) {
	if _, ok := NewAimStrategy(config.TurretStats{Aim: config.AimDirect}).(DirectAim); !ok {
		t.Error("direct config should produce DirectAim")
	}
	s, ok := NewAimStrategy(config.TurretStats{Aim: config.AimBallistic, ProjectileSpeed: 12}).(BallisticAim)
	if !ok || s.Speed != 12 {
		t.Errorf("ballistic config should produce BallisticAim with speed 12, got %+v", s)
	}
}

func TestRotateTowards(t *testing.T) {
	tests := []struct {
		from, to, step, want float64
	}{
		{0, 90, 30, 30},
		{0, 270, 30, 330},
		{350, 10, 30, 10},
		{10, 20, 0, 20},
	}
	for _, tt := range tests {
		if got := rotateTowards(tt.from, tt.to, tt.step); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("rotateTowards(%v, %v, %v): got %v, want %v", tt.from, tt.to, tt.step, got, tt.want)
		}
	}
}
