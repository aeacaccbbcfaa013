package components

// CryoEggComponent 冷冻蛋标记，外星生物的默认目标
type CryoEggComponent struct{}
