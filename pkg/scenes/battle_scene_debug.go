package scenes

import (
	"log"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/systems"
	"github.com/gonewx/planetwave/pkg/types"
)

// ZoneSnapshot 单个区域的只读状态
type ZoneSnapshot struct {
	Zone        types.ZoneID
	State       components.ZoneWaveState
	WaveIndex   int
	TotalWaves  int
	Alive       int
	Outstanding int
	Countdown   float64
	Paused      bool
	CoreHealth  int
	CoreMax     int
	CoreAlive   bool
}

// BattleSnapshot 场景的只读状态，供 HUD 和无界面运行输出使用
type BattleSnapshot struct {
	Tick           int
	Elapsed        float64
	Phase          systems.CoordinatorPhase
	ZoneBActivated bool
	SkipGate       bool
	GameOver       bool
	Done           bool
	Zones          []ZoneSnapshot
}

// Snapshot 采集当前状态
func (s *BattleScene) Snapshot() BattleSnapshot {
	snap := BattleSnapshot{
		Tick:           s.tick,
		Elapsed:        s.elapsed,
		Phase:          s.coordinator.Phase(),
		ZoneBActivated: s.coordinator.ZoneBActivated(),
		SkipGate:       s.coordinator.SkipGate(),
		GameOver:       s.gameOver,
		Done:           s.IsDone(),
	}

	for _, id := range []types.ZoneID{types.ZonePlanet1, types.ZonePlanet2} {
		runner := s.Zone(id)
		if runner == nil {
			continue
		}
		zs := ZoneSnapshot{
			Zone:        id,
			State:       runner.State(),
			WaveIndex:   runner.WaveIndex(),
			TotalWaves:  runner.TotalWaves(),
			Alive:       runner.AliveCount(),
			Outstanding: runner.Outstanding(),
			Countdown:   runner.Countdown(),
			Paused:      runner.IsPaused(),
		}
		if core := s.Core(id); core != nil {
			zs.CoreHealth = core.Health()
			zs.CoreMax = core.MaxHealth()
			zs.CoreAlive = core.IsAlive()
		}
		snap.Zones = append(snap.Zones, zs)
	}
	return snap
}

// ActivateZoneB 玩家到达区域 B（激活信号）
func (s *BattleScene) ActivateZoneB() {
	s.activation.Activate()
	s.coordinator.NotifyZoneBActivated()
}

// ForceCombined 调试：立即进入 Combined
func (s *BattleScene) ForceCombined() {
	log.Printf("[BattleScene] Debug: force combined")
	s.coordinator.ForceCombinedStartNow()
}

// SetSkipGate 调试：开关 SoloA 阶段激活直通
func (s *BattleScene) SetSkipGate(skip bool) {
	s.coordinator.SetSkipGate(skip)
}

// DamageCore 调试：对区域核心造成伤害
func (s *BattleScene) DamageCore(id types.ZoneID, amount int) {
	if core := s.Core(id); core != nil {
		core.TakeDamage(amount)
	}
}

// HealCore 调试：治疗区域核心（可使其复活）
func (s *BattleScene) HealCore(id types.ZoneID, amount int) {
	if core := s.Core(id); core != nil {
		core.Heal(amount)
	}
}

// DamageEnemy 对实例造成伤害，返回是否击杀
func (s *BattleScene) DamageEnemy(enemy *components.EnemyComponent, amount int, cause string) bool {
	return s.behaviorSystem.ApplyDamage(enemy, amount, cause)
}

// CollectResource 记录区域 A 当前波次采集到的资源，波次结束时随摘要输出
func (s *BattleScene) CollectResource(resource string, amount int) {
	wave := 1
	if s.zoneA != nil && s.zoneA.CurrentWave() > 0 {
		wave = s.zoneA.CurrentWave()
	}
	s.ledger.Add(wave, resource, amount)
}
