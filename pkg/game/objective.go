package game

import (
	"log"

	"github.com/jakecoffman/cp"
)

// Objective 敌人攻击的目标（核心）
//
// 敌人只持有 Objective 接口值，目标被摧毁或切换时由外部重新赋值。
type Objective interface {
	Name() string
	Position() cp.Vector
	Radius() float64
	Health() int
	IsAlive() bool
	TakeDamage(amount int)
}

// ObjectiveEvents 目标的摧毁/复活通知
type ObjectiveEvents interface {
	OnDestroyed(fn func()) *Subscription
	OnRevived(fn func()) *Subscription
}

// Subscription 事件订阅句柄，Cancel 之后回调不再被调用
type Subscription struct {
	cancelled bool
}

// Cancel 取消订阅，重复调用无副作用
func (s *Subscription) Cancel() {
	if s != nil {
		s.cancelled = true
	}
}

type listener struct {
	fn  func()
	sub *Subscription
}

// listenerList 按注册顺序通知回调，并顺带清理已取消的订阅
type listenerList []listener

func (l *listenerList) add(fn func()) *Subscription {
	sub := &Subscription{}
	*l = append(*l, listener{fn: fn, sub: sub})
	return sub
}

func (l *listenerList) notify() {
	live := (*l)[:0]
	for _, ls := range *l {
		if ls.sub.cancelled {
			continue
		}
		live = append(live, ls)
	}
	*l = live

	// 回调内可能新增订阅，只通知本轮开始前已有的监听者
	snapshot := make([]listener, len(live))
	copy(snapshot, live)
	for _, ls := range snapshot {
		if !ls.sub.cancelled {
			ls.fn()
		}
	}
}

// Core 区域核心，实现 Objective 和 ObjectiveEvents
//
// 生命值降到 0 时触发一次摧毁通知；被治疗后从 0 恢复时触发复活通知。
type Core struct {
	name         string
	position     cp.Vector
	radius       float64
	maxHealth    int
	health       int
	destroyed    bool
	endGameOnDie bool

	onDestroyed listenerList
	onRevived   listenerList
}

// NewCore 创建满血核心
func NewCore(name string, position cp.Vector, radius float64, maxHealth int, endGameOnDie bool) *Core {
	return &Core{
		name:         name,
		position:     position,
		radius:       radius,
		maxHealth:    maxHealth,
		health:       maxHealth,
		endGameOnDie: endGameOnDie,
	}
}

func (c *Core) Name() string        { return c.name }
func (c *Core) Position() cp.Vector { return c.position }
func (c *Core) Radius() float64     { return c.radius }
func (c *Core) Health() int         { return c.health }
func (c *Core) MaxHealth() int      { return c.maxHealth }
func (c *Core) IsAlive() bool       { return !c.destroyed }

// EndGameOnDie 核心被摧毁是否意味着整局失败
func (c *Core) EndGameOnDie() bool { return c.endGameOnDie }

// TakeDamage 扣除生命值，下限为 0
func (c *Core) TakeDamage(amount int) {
	if c.destroyed || amount <= 0 {
		return
	}

	c.health -= amount
	if c.health <= 0 {
		c.health = 0
		c.destroyed = true
		log.Printf("[Core] %s destroyed", c.name)
		c.onDestroyed.notify()
	}
}

// Heal 恢复生命值，上限为最大生命值；从摧毁状态恢复时触发复活通知
func (c *Core) Heal(amount int) {
	if amount <= 0 {
		return
	}

	wasDestroyed := c.destroyed
	c.health += amount
	if c.health > c.maxHealth {
		c.health = c.maxHealth
	}

	if wasDestroyed && c.health > 0 {
		c.destroyed = false
		log.Printf("[Core] %s revived with %d HP", c.name, c.health)
		c.onRevived.notify()
	}
}

// AddMaxHealth 提高生命上限，当前生命值同步增加
func (c *Core) AddMaxHealth(amount int) {
	if amount <= 0 {
		return
	}
	c.maxHealth += amount
	if !c.destroyed {
		c.health += amount
	}
}

// OnDestroyed 注册摧毁回调
func (c *Core) OnDestroyed(fn func()) *Subscription {
	return c.onDestroyed.add(fn)
}

// OnRevived 注册复活回调
func (c *Core) OnRevived(fn func()) *Subscription {
	return c.onRevived.add(fn)
}
