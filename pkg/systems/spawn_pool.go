package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/config"
)

// ErrPoolCapacityExceeded 对象池已达容量上限
// 属于致命配置错误：波次要求的并发实例数超过了池容量
var ErrPoolCapacityExceeded = errors.New("spawn pool capacity exceeded")

// ErrPoolClosed 对象池已销毁
var ErrPoolClosed = errors.New("spawn pool closed")

// PoolHooks 对象池生命周期钩子
//
// 四个钩子对应实例的 创建 / 出池 / 回池 / 销毁，由区域运行器实现。
type PoolHooks interface {
	// Create 构造一个新实例（只在池中没有空闲实例时调用）
	Create(archetype *config.EnemyArchetype) *components.EnemyComponent
	// OnAcquire 出池：重置属性、绑定目标、放置到生成位置、上报生成事件
	OnAcquire(enemy *components.EnemyComponent)
	// OnRelease 回池：停用实例并扣减区域存活计数
	OnRelease(enemy *components.EnemyComponent)
	// OnDestroy 销毁实例（仅在池销毁时调用）
	OnDestroy(enemy *components.EnemyComponent)
}

// SpawnPool 单个 (区域, 原型) 的实例池
//
// 不变量：Active + Idle == TotalConstructed，Active <= Capacity。
type SpawnPool struct {
	archetype *config.EnemyArchetype
	hooks     PoolHooks
	capacity  int
	warmCount int

	idle        []*components.EnemyComponent
	active      map[*components.EnemyComponent]struct{}
	constructed int
	closed      bool
}

// NewSpawnPool 创建对象池
//
// 参数：
//   - archetype: 池中实例共享的原型
//   - hooks: 生命周期钩子
//   - warmCount: 预热数量（同时作为空闲列表的初始容量）
//   - capacity: 最多构造的实例数
func NewSpawnPool(archetype *config.EnemyArchetype, hooks PoolHooks, warmCount, capacity int) *SpawnPool {
	if warmCount > capacity {
		warmCount = capacity
	}
	if warmCount < 0 {
		warmCount = 0
	}
	return &SpawnPool{
		archetype: archetype,
		hooks:     hooks,
		capacity:  capacity,
		warmCount: warmCount,
		idle:      make([]*components.EnemyComponent, 0, warmCount),
		active:    make(map[*components.EnemyComponent]struct{}, warmCount),
	}
}

// Archetype 返回池对应的原型
func (p *SpawnPool) Archetype() *config.EnemyArchetype { return p.archetype }

// Capacity 返回容量上限
func (p *SpawnPool) Capacity() int { return p.capacity }

// ActiveCount 返回池外（活跃）实例数
func (p *SpawnPool) ActiveCount() int { return len(p.active) }

// IdleCount 返回池内空闲实例数
func (p *SpawnPool) IdleCount() int { return len(p.idle) }

// TotalConstructed 返回已构造且未销毁的实例数
func (p *SpawnPool) TotalConstructed() int { return p.constructed }

// Prewarm 预先构造 warmCount 个空闲实例
func (p *SpawnPool) Prewarm() {
	for !p.closed && p.constructed < p.warmCount {
		enemy := p.construct()
		enemy.Active = false
		p.idle = append(p.idle, enemy)
	}
}

func (p *SpawnPool) construct() *components.EnemyComponent {
	enemy := p.hooks.Create(p.archetype)
	enemy.Owner = p
	p.constructed++
	return enemy
}

// Acquire 取出一个实例
//
// 优先复用空闲实例，否则在容量内构造新实例；超过容量返回 ErrPoolCapacityExceeded。
// 出池钩子负责重置、定位和上报，调用方拿到的实例已经处于可用状态。
func (p *SpawnPool) Acquire() (*components.EnemyComponent, error) {
	if p.closed {
		return nil, ErrPoolClosed
	}

	var enemy *components.EnemyComponent
	if n := len(p.idle); n > 0 {
		enemy = p.idle[n-1]
		p.idle[n-1] = nil
		p.idle = p.idle[:n-1]
	} else {
		if p.constructed >= p.capacity {
			return nil, fmt.Errorf("%w: %s (capacity %d)", ErrPoolCapacityExceeded, p.archetype.Kind, p.capacity)
		}
		enemy = p.construct()
	}

	enemy.Active = true
	p.active[enemy] = struct{}{}
	p.hooks.OnAcquire(enemy)
	return enemy, nil
}

// Release 将实例放回池中
//
// 重复回收或回收不属于本池的实例是无副作用的空操作，返回 false。
func (p *SpawnPool) Release(enemy *components.EnemyComponent) bool {
	if enemy == nil {
		return false
	}
	if _, ok := p.active[enemy]; !ok {
		return false
	}

	delete(p.active, enemy)
	enemy.Active = false
	p.idle = append(p.idle, enemy)
	p.hooks.OnRelease(enemy)
	return true
}

// Teardown 销毁池中所有实例（活跃和空闲），之后池不可再用
func (p *SpawnPool) Teardown() {
	if p.closed {
		return
	}
	p.closed = true

	for enemy := range p.active {
		enemy.Active = false
		p.hooks.OnDestroy(enemy)
	}
	for _, enemy := range p.idle {
		p.hooks.OnDestroy(enemy)
	}

	log.Printf("[SpawnPool] %s torn down (%d constructed)", p.archetype.Kind, p.constructed)

	p.active = make(map[*components.EnemyComponent]struct{})
	p.idle = nil
	p.constructed = 0
}
