// Package event 提供按事件类型分发的同步事件总线
//
// 每种事件是一个普通结构体，订阅者按类型注册回调，不再使用字符串标签。
// 分发是同步的：Publish 返回时所有订阅者都已处理完毕。
package event

import (
	"reflect"
	"sort"
)

type subscriber struct {
	id int
	fn func(any)
}

// Bus 事件总线
type Bus struct {
	nextID int
	subs   map[reflect.Type][]subscriber
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{subs: make(map[reflect.Type][]subscriber)}
}

// Subscribe 订阅 E 类型事件，返回取消订阅函数
func Subscribe[E any](b *Bus, fn func(E)) (unsubscribe func()) {
	t := reflect.TypeOf((*E)(nil)).Elem()
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscriber{
		id: id,
		fn: func(v any) { fn(v.(E)) },
	})
	return func() {
		list := b.subs[t]
		for i, s := range list {
			if s.id == id {
				b.subs[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish 发布事件，按订阅顺序依次调用
// 订阅者在回调中再次 Publish 是允许的（深度优先处理）
func Publish[E any](b *Bus, e E) {
	t := reflect.TypeOf((*E)(nil)).Elem()
	list := b.subs[t]
	if len(list) == 0 {
		return
	}
	// 复制一份，回调中的订阅/退订不影响本次分发
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)
	for _, s := range snapshot {
		s.fn(e)
	}
}

// SubscriberCount 返回 E 类型的订阅者数量
func SubscriberCount[E any](b *Bus) int {
	return len(b.subs[reflect.TypeOf((*E)(nil)).Elem()])
}

// Types 返回有订阅者的事件类型名（调试用）
func (b *Bus) Types() []string {
	out := make([]string, 0, len(b.subs))
	for t, list := range b.subs {
		if len(list) > 0 {
			out = append(out, t.String())
		}
	}
	sort.Strings(out)
	return out
}
