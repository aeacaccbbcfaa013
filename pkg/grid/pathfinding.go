package grid

import (
	"container/heap"
	"math"
)

// CostFunc 进入某格的附加代价，返回 +Inf 表示不可进入
type CostFunc func(c Cell) float64

// FindPath 用 A* 在 8 邻接网格上寻找从 start 到 goal 的路径
//
// goal 允许是不可通行格（例如建筑本身），寻路会在其相邻格停下后直接连上 goal，
// 调用方通常只沿路径走到攻击距离内为止。对角移动不允许穿过两个不可通行格的夹角。
// 找不到路径时返回 nil。
func (g *Grid) FindPath(start, goal Cell, extra CostFunc) []Cell {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	passable := func(c Cell) bool {
		return c == goal || g.IsNavigable(c)
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &node{cell: start, priority: 0})
	cameFrom := map[Cell]Cell{}
	costSoFar := map[Cell]float64{start: 0}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*node).cell
		if current == goal {
			return reconstruct(cameFrom, start, goal)
		}
		for _, d := range neighbors8 {
			next := current.Add(d)
			if !g.InBounds(next) || !passable(next) {
				continue
			}
			step := 1.0
			if d.X != 0 && d.Y != 0 {
				// 不允许斜穿墙角
				if !passable(Cell{current.X + d.X, current.Y}) || !passable(Cell{current.X, current.Y + d.Y}) {
					continue
				}
				step = math.Sqrt2
			}
			if extra != nil {
				add := extra(next)
				if math.IsInf(add, 1) {
					continue
				}
				step += add
			}
			newCost := costSoFar[current] + step
			if old, seen := costSoFar[next]; !seen || newCost < old {
				costSoFar[next] = newCost
				cameFrom[next] = current
				heap.Push(pq, &node{cell: next, priority: newCost + octile(next, goal)})
			}
		}
	}
	return nil
}

// PathCost 计算路径的总代价（与 FindPath 使用相同的步长）
func PathCost(path []Cell) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			total += math.Sqrt2
		} else {
			total++
		}
	}
	return total
}

func octile(a, b Cell) float64 {
	dx := float64(abs(a.X - b.X))
	dy := float64(abs(a.Y - b.Y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

func reconstruct(cameFrom map[Cell]Cell, start, goal Cell) []Cell {
	path := []Cell{goal}
	for c := goal; c != start; {
		c = cameFrom[c]
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type node struct {
	cell     Cell
	priority float64
}

// priorityQueue 最小堆
type priorityQueue []*node

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*node))
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
