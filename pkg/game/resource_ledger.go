package game

import (
	"fmt"

	"github.com/gonewx/cryodefense/pkg/types"
)

// ResourceLedger 资源账本
//
// 矿石为库存型资源：建造扣除、拆除返还、钻机产出。
// 电力、水、气体为供给/消耗型资源：运行中的建筑登记自己的供给与消耗，
// 任何新增消耗都必须不超过供给。
type ResourceLedger struct {
	stock       types.Resources
	supply      types.Resources
	consumption types.Resources
}

// NewResourceLedger 创建账本
func NewResourceLedger(startingOre int) *ResourceLedger {
	return &ResourceLedger{
		stock:       types.Resources{types.ResourceOre: startingOre},
		supply:      types.Resources{},
		consumption: types.Resources{},
	}
}

// Stock 库存数量
func (l *ResourceLedger) Stock(kind types.ResourceKind) int {
	return l.stock[kind]
}

// Ore 矿石库存
func (l *ResourceLedger) Ore() int {
	return l.stock[types.ResourceOre]
}

// Supply 当前供给
func (l *ResourceLedger) Supply(kind types.ResourceKind) int {
	return l.supply[kind]
}

// Consumption 当前消耗
func (l *ResourceLedger) Consumption(kind types.ResourceKind) int {
	return l.consumption[kind]
}

// Balance 供给减消耗
func (l *ResourceLedger) Balance(kind types.ResourceKind) int {
	return l.supply[kind] - l.consumption[kind]
}

// Satisfied 消耗是否不超过供给
func (l *ResourceLedger) Satisfied(kind types.ResourceKind) bool {
	return l.consumption[kind] <= l.supply[kind]
}

// AllSatisfied 检查给定消耗表涉及的所有资源是否都满足供给
func (l *ResourceLedger) AllSatisfied(consumption types.Resources) bool {
	for kind, v := range consumption {
		if v > 0 && !l.Satisfied(kind) {
			return false
		}
	}
	return true
}

// CanAfford 库存是否足够支付 cost
func (l *ResourceLedger) CanAfford(cost types.Resources) bool {
	for kind, v := range cost {
		if l.stock[kind] < v {
			return false
		}
	}
	return true
}

// Spend 扣除花费，库存不足时不做任何修改
func (l *ResourceLedger) Spend(cost types.Resources) error {
	for kind, v := range cost {
		if l.stock[kind] < v {
			return fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientResources, v, kind, l.stock[kind])
		}
	}
	for kind, v := range cost {
		l.stock[kind] -= v
	}
	return nil
}

// Refund 返还库存
func (l *ResourceLedger) Refund(amount types.Resources) {
	for kind, v := range amount {
		if v > 0 {
			l.stock[kind] += v
		}
	}
}

// AddOre 钻机产出
func (l *ResourceLedger) AddOre(n int) {
	if n > 0 {
		l.stock[types.ResourceOre] += n
	}
}

// CanSustain 检查新增一组供给与消耗后，每种流动资源是否仍然满足 消耗 <= 供给
//
// 已经处于赤字的资源只要本次不增加净消耗就允许通过
func (l *ResourceLedger) CanSustain(supply, consumption types.Resources) error {
	for _, kind := range types.FlowResources {
		need := consumption[kind]
		if need == 0 {
			continue
		}
		after := l.supply[kind] + supply[kind] - l.consumption[kind] - need
		if after < 0 {
			return fmt.Errorf("%w: %s consumption %d exceeds supply %d",
				ErrInsufficientResources, kind, l.consumption[kind]+need, l.supply[kind]+supply[kind])
		}
	}
	return nil
}

// AddContribution 登记运行中建筑的供给与消耗
func (l *ResourceLedger) AddContribution(supply, consumption types.Resources) {
	for kind, v := range supply {
		l.supply[kind] += v
	}
	for kind, v := range consumption {
		l.consumption[kind] += v
	}
}

// RemoveContribution 撤销登记
func (l *ResourceLedger) RemoveContribution(supply, consumption types.Resources) {
	for kind, v := range supply {
		l.supply[kind] -= v
	}
	for kind, v := range consumption {
		l.consumption[kind] -= v
	}
}

// LedgerEntry 单种资源的账面数据
type LedgerEntry struct {
	Stock       int `json:"stock" yaml:"stock"`
	Supply      int `json:"supply" yaml:"supply"`
	Consumption int `json:"consumption" yaml:"consumption"`
}

// Entries 导出账本，用于快照
func (l *ResourceLedger) Entries() map[types.ResourceKind]LedgerEntry {
	out := make(map[types.ResourceKind]LedgerEntry)
	kinds := append([]types.ResourceKind{types.ResourceOre}, types.FlowResources...)
	for _, kind := range kinds {
		out[kind] = LedgerEntry{
			Stock:       l.stock[kind],
			Supply:      l.supply[kind],
			Consumption: l.consumption[kind],
		}
	}
	return out
}
