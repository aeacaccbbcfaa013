package systems

import (
	"math"
	"math/rand"
	"sort"

	"github.com/gonewx/cryodefense/pkg/config"
	"github.com/gonewx/cryodefense/pkg/grid"
)

// SpawnPoint 候选生成点
type SpawnPoint struct {
	Cell  grid.Cell
	Angle float64 // 相对地图中心的角度（度），[0, 360)

	order int // 在原始列表中的序号，保证重新分区后顺序稳定
}

// SpawnPointsInRing 收集以 center 为圆心、半径在 [inner, outer] 之间且有地面的格子
func SpawnPointsInRing(g *grid.Grid, center grid.Cell, inner, outer float64) []SpawnPoint {
	var points []SpawnPoint
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := grid.Cell{X: x, Y: y}
			d := c.Distance(center)
			if d < inner || d > outer {
				continue
			}
			if _, ok := g.GroundHeight(c); !ok {
				continue
			}
			points = append(points, SpawnPoint{Cell: c, Angle: AngleFrom(center, c)})
		}
	}
	return points
}

// AngleFrom 从 center 指向 c 的角度（度），[0, 360)
func AngleFrom(center, c grid.Cell) float64 {
	a := math.Atan2(float64(c.Y-center.Y), float64(c.X-center.X)) * 180 / math.Pi
	return normalizeAngle(a)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// InWindow 角度 a 是否落在 [base, base+width) 窗口内（按 360 取模）
func InWindow(a, base, width float64) bool {
	if width >= 360 {
		return true
	}
	return normalizeAngle(a-base) < width
}

// SpawnPointSelector 生成点分区与抽取
//
// 每波开始时按随机基准角把可用点分为主方向（窗口内）与次方向（窗口外）两组，
// 主方向先抽满配额，之后从次方向抽取。被占用或验证失败的点从所在分组中移除。
type SpawnPointSelector struct {
	cfg config.SpawnConfig
	all []SpawnPoint

	majority []SpawnPoint
	minority []SpawnPoint

	baseAngle     float64
	quota         int
	majorityTaken int
	taken         int
}

// NewSpawnPointSelector 创建选择器，初始时全部点都可用
func NewSpawnPointSelector(points []SpawnPoint, cfg config.SpawnConfig) *SpawnPointSelector {
	all := make([]SpawnPoint, len(points))
	for i, p := range points {
		p.order = i
		all[i] = p
	}
	s := &SpawnPointSelector{cfg: cfg, all: all}
	s.Reset()
	return s
}

// SetConfig 替换分区参数，下一次 Partition 生效
func (s *SpawnPointSelector) SetConfig(cfg config.SpawnConfig) {
	s.cfg = cfg
}

// Reset 恢复完整的候选列表（每波开始时调用），尚未分区前全部视为主方向
func (s *SpawnPointSelector) Reset() {
	s.majority = append(s.majority[:0], s.all...)
	s.minority = s.minority[:0]
	s.majorityTaken = 0
	s.taken = 0
}

// Partition 按基准角重新分区当前可用的点，并按波次规模计算主方向配额
func (s *SpawnPointSelector) Partition(baseAngle float64, waveSize int) {
	available := s.Available()
	s.baseAngle = normalizeAngle(baseAngle)
	s.majority = s.majority[:0]
	s.minority = s.minority[:0]
	for _, p := range available {
		if InWindow(p.Angle, s.baseAngle, s.cfg.AngleRange) {
			s.majority = append(s.majority, p)
		} else {
			s.minority = append(s.minority, p)
		}
	}
	s.quota = int(math.Ceil(float64(waveSize) * s.cfg.MajorityPercent))
	s.majorityTaken = 0
	s.taken = 0
}

// Next 抽取一个候选点（不移除）
//
// 战斗模式下从全部可用点中均匀抽取；否则主方向配额未满且主方向非空时抽主方向，
// 其余情况抽次方向，次方向为空时回退到主方向。没有可用点时返回 false。
func (s *SpawnPointSelector) Next(rng *rand.Rand) (SpawnPoint, bool) {
	if s.cfg.CombatMode {
		n := len(s.majority) + len(s.minority)
		if n == 0 {
			return SpawnPoint{}, false
		}
		i := rng.Intn(n)
		if i < len(s.majority) {
			return s.majority[i], true
		}
		return s.minority[i-len(s.majority)], true
	}

	switch {
	case s.majorityTaken < s.quota && len(s.majority) > 0:
		return s.majority[rng.Intn(len(s.majority))], true
	case len(s.minority) > 0:
		return s.minority[rng.Intn(len(s.minority))], true
	case len(s.majority) > 0:
		return s.majority[rng.Intn(len(s.majority))], true
	}
	return SpawnPoint{}, false
}

// Take 确认使用该点：从分组中移除并计入配额
func (s *SpawnPointSelector) Take(p SpawnPoint) {
	if s.removeFrom(&s.majority, p.Cell) {
		s.majorityTaken++
		s.taken++
		return
	}
	if s.removeFrom(&s.minority, p.Cell) {
		s.taken++
	}
}

// Remove 移除单个点，返回是否存在
func (s *SpawnPointSelector) Remove(c grid.Cell) bool {
	return s.removeFrom(&s.majority, c) || s.removeFrom(&s.minority, c)
}

// RemoveNeighborhood 移除与 center 切比雪夫距离不超过 radius 的所有点，返回移除数量
func (s *SpawnPointSelector) RemoveNeighborhood(center grid.Cell, radius int) int {
	removed := 0
	filter := func(list []SpawnPoint) []SpawnPoint {
		kept := list[:0]
		for _, p := range list {
			if p.Cell.Chebyshev(center) <= radius {
				removed++
				continue
			}
			kept = append(kept, p)
		}
		return kept
	}
	s.majority = filter(s.majority)
	s.minority = filter(s.minority)
	return removed
}

func (s *SpawnPointSelector) removeFrom(list *[]SpawnPoint, c grid.Cell) bool {
	for i, p := range *list {
		if p.Cell == c {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Available 当前可用的点（按原始顺序）
func (s *SpawnPointSelector) Available() []SpawnPoint {
	out := make([]SpawnPoint, 0, len(s.majority)+len(s.minority))
	out = append(out, s.majority...)
	out = append(out, s.minority...)
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// Majority 主方向分组的副本
func (s *SpawnPointSelector) Majority() []SpawnPoint {
	return append([]SpawnPoint(nil), s.majority...)
}

// Minority 次方向分组的副本
func (s *SpawnPointSelector) Minority() []SpawnPoint {
	return append([]SpawnPoint(nil), s.minority...)
}

// Total 原始候选点数量
func (s *SpawnPointSelector) Total() int {
	return len(s.all)
}

// BaseAngle 本波基准角
func (s *SpawnPointSelector) BaseAngle() float64 {
	return s.baseAngle
}

// Quota 本波主方向配额
func (s *SpawnPointSelector) Quota() int {
	return s.quota
}

// MajorityTaken 本波已从主方向取出的数量
func (s *SpawnPointSelector) MajorityTaken() int {
	return s.majorityTaken
}
