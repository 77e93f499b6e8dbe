// Package entities 提供实体工厂函数
//
// 工厂只负责创建实体并挂载初始组件，运行期状态由各系统维护。
package entities

import (
	"log"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/gonewx/planetwave/pkg/utils"
)

// NewEnemyEntity 创建敌人实例实体
// 新实例处于池内（非活跃）状态，生命值、位置和目标在出池时设置
//
// 参数:
//   - em: 实体管理器
//   - zone: 所属区域
//   - archetype: 共享只读原型
//   - leash: 与目标的最大距离
//   - ring: 超出 leash 时使用的回收生成环
//
// 返回:
//   - *components.EnemyComponent: 挂在新实体上的组件
func NewEnemyEntity(em *ecs.EntityManager, zone types.ZoneID, archetype *config.EnemyArchetype, leash float64, ring utils.SpawnRing) *components.EnemyComponent {
	id := em.CreateEntity()
	enemy := &components.EnemyComponent{
		Entity:        id,
		Zone:          zone,
		Archetype:     archetype,
		Health:        archetype.Health,
		LeashDistance: leash,
		RecoveryRing:  ring,
	}
	ecs.AddComponent(em, id, enemy)
	return enemy
}

// NewZoneWaveEntity 创建承载区域波次状态的实体
// 没有定义波次的区域直接处于 Completed
func NewZoneWaveEntity(em *ecs.EntityManager, cfg *config.ZoneConfig) (ecs.EntityID, *components.ZoneWaveComponent) {
	id := em.CreateEntity()

	state := &components.ZoneWaveComponent{
		Zone:       cfg.ID,
		State:      components.ZoneIdle,
		TotalWaves: len(cfg.Waves),
		Countdown:  cfg.InitialCountdown,
		Enabled:    true,
		Remaining:  make(map[types.EnemyKind]int),
	}
	if state.TotalWaves == 0 {
		state.State = components.ZoneCompleted
		log.Printf("[ZoneEntity] Zone %s has no waves, completes immediately", cfg.ID)
	}

	ecs.AddComponent(em, id, state)
	return id, state
}
