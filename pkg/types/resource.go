package types

// ResourceKind 资源种类
type ResourceKind string

const (
	ResourceOre   ResourceKind = "ore"   // 矿石：库存型资源，建造时扣除
	ResourcePower ResourceKind = "power" // 电力：供给/消耗型资源
	ResourceWater ResourceKind = "water" // 水：供给/消耗型资源
	ResourceGas   ResourceKind = "gas"   // 废气/气体：供给/消耗型资源
)

// FlowResources 供给/消耗型资源（不含库存型的矿石）
var FlowResources = []ResourceKind{ResourcePower, ResourceWater, ResourceGas}

// Resources 资源数量表
type Resources map[ResourceKind]int

// Clone 复制资源表
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Scale 按比例缩放资源表（向下取整），用于拆除返还
func (r Resources) Scale(ratio float64) Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = int(float64(v) * ratio)
	}
	return out
}
