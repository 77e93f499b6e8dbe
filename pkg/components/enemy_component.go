package components

import (
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/gonewx/planetwave/pkg/utils"
	"github.com/jakecoffman/cp"
)

// EnemyReleaser 实例的归属对象池
type EnemyReleaser interface {
	Release(enemy *EnemyComponent) bool
}

// EnemyComponent 敌人实例的运行时状态
// 注意：遵循 ECS 原则，组件仅存储数据，不包含方法
//
// 实例由对象池创建，之后在 active/idle 间循环复用，只有池销毁时才被删除。
// 生命值和计时器只在出池时（OnAcquire）重置。
type EnemyComponent struct {
	Entity    ecs.EntityID
	Zone      types.ZoneID
	Archetype *config.EnemyArchetype // 共享只读原型

	Health   int
	Position cp.Vector
	Rotation float64 // 朝向目标的角度（弧度）

	// Target 当前攻击目标，可被协调器整体改写
	Target game.Objective

	// InRange 是否收到进入射程信号
	InRange bool
	// AttackTimer 距离下次攻击的剩余时间（秒）
	AttackTimer float64

	// Active 是否在池外（活跃集合中）
	Active bool
	// Dead 本次出池后是否已死亡，保证死亡通知只发一次
	Dead bool

	// SpawnSeq 区域内的出生序号，从 1 开始
	SpawnSeq int
	// FirstAttackLogged 本次出池后是否已上报首次攻击
	FirstAttackLogged bool

	// LeashDistance 与目标的最大距离，超出后回收到目标周围的生成环
	LeashDistance float64
	// RecoveryRing 回收时使用的生成环
	RecoveryRing utils.SpawnRing

	// Owner 归属对象池
	Owner EnemyReleaser
}
