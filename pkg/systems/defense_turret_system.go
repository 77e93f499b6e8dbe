package systems

import (
	"log"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/jakecoffman/cp"
)

// TurretConfig 炮塔参数
type TurretConfig struct {
	Range       float64
	Damage      int
	Cooldown    float64
	CrushRadius float64
}

// DefaultTurretConfig 返回布局配置中的缺省炮塔参数
func DefaultTurretConfig() TurretConfig {
	return TurretConfig{
		Range:       config.TurretRange,
		Damage:      config.TurretDamage,
		Cooldown:    config.TurretCooldown,
		CrushRadius: config.TurretCrushRadius,
	}
}

type turret struct {
	objective game.Objective
	cfg       TurretConfig
	timer     float64
	shots     int
}

// DefenseTurretSystem 自动防御：每个核心带一门炮塔，按冷却射击射程内最近的敌人
//
// 免疫原型不会被射击，进入碾压距离后直接以 CauseCrushed 处理。
// 核心被摧毁期间炮塔停火。
type DefenseTurretSystem struct {
	entityManager *ecs.EntityManager
	behavior      *EnemyBehaviorSystem
	turrets       []*turret
}

// NewDefenseTurretSystem 创建炮塔系统
func NewDefenseTurretSystem(em *ecs.EntityManager, behavior *EnemyBehaviorSystem) *DefenseTurretSystem {
	return &DefenseTurretSystem{
		entityManager: em,
		behavior:      behavior,
	}
}

// AddTurret 为核心安装炮塔
func (s *DefenseTurretSystem) AddTurret(obj game.Objective, cfg TurretConfig) {
	if obj == nil {
		return
	}
	s.turrets = append(s.turrets, &turret{objective: obj, cfg: cfg})
	log.Printf("[DefenseTurretSystem] Turret installed on %s (range %.1f, damage %d, cooldown %.2fs)",
		obj.Name(), cfg.Range, cfg.Damage, cfg.Cooldown)
}

// Update 推进所有炮塔
func (s *DefenseTurretSystem) Update(deltaTime float64) {
	if len(s.turrets) == 0 {
		return
	}
	enemies := s.activeEnemies()

	for _, t := range s.turrets {
		if !t.objective.IsAlive() {
			continue
		}
		center := t.objective.Position()

		// 碾压不受冷却限制
		for _, enemy := range enemies {
			if enemy.Active && enemy.Archetype.DamageImmune && enemy.Position.Distance(center) <= t.cfg.CrushRadius {
				s.behavior.ApplyDamage(enemy, 0, CauseCrushed)
			}
		}

		if t.timer > 0 {
			t.timer -= deltaTime
			continue
		}

		target := nearestTarget(enemies, center, t.cfg.Range)
		if target == nil {
			continue
		}
		s.behavior.ApplyDamage(target, t.cfg.Damage, CauseWeapon)
		t.timer = t.cfg.Cooldown
		t.shots++
	}
}

// nearestTarget 射程内最近的可伤害敌人，距离相同时取实体 ID 较小者
func nearestTarget(enemies []*components.EnemyComponent, center cp.Vector, maxRange float64) *components.EnemyComponent {
	var best *components.EnemyComponent
	bestDist := 0.0
	for _, enemy := range enemies {
		if !enemy.Active || enemy.Archetype.DamageImmune {
			continue
		}
		d := enemy.Position.Distance(center)
		if d > maxRange {
			continue
		}
		if best == nil || d < bestDist {
			best = enemy
			bestDist = d
		}
	}
	return best
}

func (s *DefenseTurretSystem) activeEnemies() []*components.EnemyComponent {
	ids := ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager)
	result := make([]*components.EnemyComponent, 0, len(ids))
	for _, id := range ids {
		if enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id); ok && enemy.Active {
			result = append(result, enemy)
		}
	}
	return result
}

// ShotsFired 返回所有炮塔的累计射击次数
func (s *DefenseTurretSystem) ShotsFired() int {
	total := 0
	for _, t := range s.turrets {
		total += t.shots
	}
	return total
}
