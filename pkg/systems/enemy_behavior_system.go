package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
)

// 实例回池原因
const (
	CauseWeapon     = "weapon"      // 被武器击杀
	CauseCrushed    = "crushed"     // 被碾压（免疫原型唯一的死亡方式）
	CauseExplode    = "explode"     // 自爆
	CauseTargetLost = "target_lost" // 目标丢失且无法重定向
)

// AttackResolver 攻击结算
// 远程攻击的弹道由外部系统负责，默认实现直接对目标造成伤害
type AttackResolver interface {
	ResolveAttack(enemy *components.EnemyComponent, target game.Objective)
}

// DirectDamageResolver 直接扣除目标生命值
type DirectDamageResolver struct{}

// ResolveAttack 实现 AttackResolver
func (DirectDamageResolver) ResolveAttack(enemy *components.EnemyComponent, target game.Objective) {
	target.TakeDamage(enemy.Archetype.AttackDamage)
}

// EnemyBehaviorSystem 敌人实例的逐 tick 行为
//
// 职责：
//   - 超出拴绳距离时回收到目标周围的生成环
//   - 射程内按冷却攻击，否则朝目标移动
//   - 处理受伤、死亡、自爆和射程信号
//
// 每个实例本 tick 的行为都在任何区域做清空检测之前完成。
type EnemyBehaviorSystem struct {
	entityManager *ecs.EntityManager
	analytics     game.Analytics
	resolver      AttackResolver
	rng           *rand.Rand
	verbose       bool
}

// NewEnemyBehaviorSystem 创建敌人行为系统
func NewEnemyBehaviorSystem(em *ecs.EntityManager, analytics game.Analytics, rng *rand.Rand) *EnemyBehaviorSystem {
	if analytics == nil {
		analytics = game.NopAnalytics{}
	}
	return &EnemyBehaviorSystem{
		entityManager: em,
		analytics:     analytics,
		resolver:      DirectDamageResolver{},
		rng:           rng,
	}
}

// SetAttackResolver 替换攻击结算方式
func (s *EnemyBehaviorSystem) SetAttackResolver(resolver AttackResolver) {
	if resolver == nil {
		resolver = DirectDamageResolver{}
	}
	s.resolver = resolver
}

// SetVerbose 设置是否输出详细日志
func (s *EnemyBehaviorSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 更新所有活跃实例
func (s *EnemyBehaviorSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager) {
		enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		if !ok || !enemy.Active {
			continue
		}
		s.updateEnemy(enemy, deltaTime)
	}
}

func (s *EnemyBehaviorSystem) updateEnemy(enemy *components.EnemyComponent, deltaTime float64) {
	target := enemy.Target
	if target == nil || !target.IsAlive() {
		if s.verbose {
			log.Printf("[EnemyBehaviorSystem] %s #%d lost its target, releasing", enemy.Archetype.Kind, enemy.SpawnSeq)
		}
		s.release(enemy, CauseTargetLost)
		return
	}

	targetPos := target.Position()

	// 拴绳：离目标太远时直接回收到目标周围，本 tick 不再行动
	if enemy.LeashDistance > 0 && enemy.Position.Distance(targetPos) > enemy.LeashDistance {
		enemy.Position = enemy.RecoveryRing.PointAround(targetPos, s.rng)
		enemy.InRange = false
		enemy.Rotation = targetPos.Sub(enemy.Position).ToAngle()
		if s.verbose {
			log.Printf("[EnemyBehaviorSystem] %s #%d beyond leash, recovered to (%.1f, %.1f)",
				enemy.Archetype.Kind, enemy.SpawnSeq, enemy.Position.X, enemy.Position.Y)
		}
		return
	}

	arch := enemy.Archetype
	if arch.AttackStyle.AttacksInRange() && enemy.InRange {
		if enemy.AttackTimer <= 0 {
			s.attack(enemy, target)
			enemy.AttackTimer = arch.AttackCooldown
		} else {
			enemy.AttackTimer -= deltaTime
		}
	} else {
		enemy.Position = enemy.Position.LerpConst(targetPos, arch.Speed*deltaTime)
	}

	enemy.Rotation = targetPos.Sub(enemy.Position).ToAngle()
}

func (s *EnemyBehaviorSystem) attack(enemy *components.EnemyComponent, target game.Objective) {
	if !enemy.FirstAttackLogged {
		enemy.FirstAttackLogged = true
		s.analytics.EnemyFirstAttack(enemy.Zone, enemy.Archetype.Kind, enemy.SpawnSeq)
	}
	s.resolver.ResolveAttack(enemy, target)
}

// ApplyDamage 对实例造成伤害
//
// 生命值降到 0 时上报一次击杀并回池。免疫原型只接受 CauseCrushed。
// 返回本次伤害是否导致死亡。
func (s *EnemyBehaviorSystem) ApplyDamage(enemy *components.EnemyComponent, amount int, cause string) bool {
	if enemy == nil || !enemy.Active || enemy.Dead {
		return false
	}
	if enemy.Archetype.DamageImmune && cause != CauseCrushed {
		return false
	}

	if cause == CauseCrushed {
		enemy.Health = 0
	} else {
		enemy.Health -= amount
		if enemy.Health < 0 {
			enemy.Health = 0
		}
	}

	if enemy.Health > 0 {
		return false
	}

	enemy.Dead = true
	s.analytics.EnemyKilled(enemy.Zone, enemy.Archetype.Kind, cause)
	s.release(enemy, cause)
	return true
}

// Contact 实例本体接触到目标
// 接触型原型自爆：对目标造成伤害并回池，与生命值无关
func (s *EnemyBehaviorSystem) Contact(enemy *components.EnemyComponent, obj game.Objective) {
	if enemy == nil || !enemy.Active || obj == nil || obj != enemy.Target {
		return
	}
	if enemy.Archetype.AttackStyle.AttacksInRange() {
		return
	}

	obj.TakeDamage(enemy.Archetype.ContactDamage)
	log.Printf("[EnemyBehaviorSystem] %s #%d exploded on %s", enemy.Archetype.Kind, enemy.SpawnSeq, obj.Name())
	s.release(enemy, CauseExplode)
}

// EnterRange 进入射程信号
func (s *EnemyBehaviorSystem) EnterRange(enemy *components.EnemyComponent) {
	if enemy != nil && enemy.Active {
		enemy.InRange = true
	}
}

// ExitRange 离开射程信号
func (s *EnemyBehaviorSystem) ExitRange(enemy *components.EnemyComponent) {
	if enemy != nil {
		enemy.InRange = false
	}
}

func (s *EnemyBehaviorSystem) release(enemy *components.EnemyComponent, cause string) {
	if enemy.Owner == nil {
		log.Printf("[EnemyBehaviorSystem] WARNING: %s #%d has no owning pool (%s)", enemy.Archetype.Kind, enemy.SpawnSeq, cause)
		enemy.Active = false
		return
	}
	enemy.Owner.Release(enemy)
}
