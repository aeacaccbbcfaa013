package game

import (
	"hash/fnv"
	"math/rand"
)

// RNG 按子系统划分的随机数源
//
// 每个子系统从同一个种子派生独立的随机流，
// 增减某个子系统的随机调用不会影响其他子系统的结果。
type RNG struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewRNG 创建随机数源
func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed, streams: make(map[string]*rand.Rand)}
}

// Seed 返回根种子
func (r *RNG) Seed() int64 {
	return r.seed
}

// Stream 返回名为 name 的随机流，同名多次调用返回同一个实例
func (r *RNG) Stream(name string) *rand.Rand {
	if s, ok := r.streams[name]; ok {
		return s
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	s := rand.New(rand.NewSource(r.seed ^ int64(h.Sum64())))
	r.streams[name] = s
	return s
}
