package systems

import (
	"testing"

	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/ecs"
)

func TestSelectTarget(t *testing.T) {
	const egg ecs.EntityID = 1
	many := []Candidate{{ID: 5, Distance: 3}, {ID: 7, Distance: 1}, {ID: 9, Distance: 6}}

	tests := []struct {
		name       string
		candidates []Candidate
		shotBy     ecs.EntityID
		priority   config.TargetPriority
		fallback   ecs.EntityID
		want       ecs.EntityID
	}{
		{"无可见目标回退冷冻蛋", nil, 0, config.PriorityNearest, egg, egg},
		{"炮塔无目标", nil, 0, config.PriorityNearest, 0, 0},
		{"单个目标", []Candidate{{ID: 4, Distance: 10}}, 0, config.PriorityNearest, egg, 4},
		{"单个目标忽略攻击者", []Candidate{{ID: 4, Distance: 10}}, 8, config.PriorityNearest, egg, 4},
		{"最近", many, 0, config.PriorityNearest, egg, 7},
		{"最远", many, 0, config.PriorityFarthest, egg, 9},
		{"攻击者可见优先", many, 9, config.PriorityNearest, egg, 9},
		{"攻击者不可见", many, 42, config.PriorityNearest, egg, 7},
		{"距离相同取小ID", []Candidate{{ID: 8, Distance: 2}, {ID: 3, Distance: 2}}, 0, config.PriorityNearest, egg, 3},
		{"最远距离相同取小ID", []Candidate{{ID: 8, Distance: 2}, {ID: 3, Distance: 2}, {ID: 1, Distance: 1}}, 0, config.PriorityFarthest, egg, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectTarget(tt.candidates, tt.shotBy, tt.priority, tt.fallback)
			if got != tt.want {
				t.Errorf("SelectTarget: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectTarget_NonZeroWhenAnythingExists(t *testing.T) {
	for n := 0; n < 6; n++ {
		var cs []Candidate
		for i := 0; i < n; i++ {
			cs = append(cs, Candidate{ID: ecs.EntityID(10 + i), Distance: float64((i * 7) % 4)})
		}
		for _, p := range []config.TargetPriority{config.PriorityNearest, config.PriorityFarthest} {
			if got := SelectTarget(cs, 0, p, 1); got == 0 {
				t.Errorf("n=%d priority=%s: got 0 with default objective present", n, p)
			}
		}
	}
}
