package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/jakecoffman/cp"
)

// testCatalog 测试用原型目录（不含 ranged_heavy，用于缺失原型测试）
func testCatalog() *config.ArchetypeCatalog {
	return &config.ArchetypeCatalog{
		Archetypes: map[types.EnemyKind]*config.EnemyArchetype{
			types.EnemyRanged: {
				Kind:           types.EnemyRanged,
				Health:         10,
				Speed:          4,
				AttackStyle:    types.AttackRanged,
				AttackCooldown: 2,
				AttackRange:    5,
				AttackDamage:   5,
				ContactRadius:  0.5,
			},
			types.EnemyKamikaze: {
				Kind:          types.EnemyKamikaze,
				Health:        5,
				Speed:         6,
				AttackStyle:   types.AttackContact,
				ContactDamage: 10,
				ContactRadius: 0.5,
			},
			types.EnemyParasite: {
				Kind:           types.EnemyParasite,
				Health:         20,
				Speed:          2,
				AttackStyle:    types.AttackStationary,
				AttackCooldown: 1,
				AttackRange:    1,
				AttackDamage:   2,
				ContactRadius:  0.5,
				DamageImmune:   true,
			},
			types.EnemyBoss: {
				Kind:           types.EnemyBoss,
				Health:         200,
				Speed:          1,
				AttackStyle:    types.AttackRanged,
				AttackCooldown: 3,
				AttackRange:    8,
				AttackDamage:   20,
				ContactRadius:  2,
			},
		},
	}
}

// testWave 构造一个波次
func testWave(lo, hi int, interval float64, entries ...config.WaveEntry) config.WaveDefinition {
	return config.WaveDefinition{
		Enemies:       entries,
		SpawnInterval: interval,
		MinPerBurst:   lo,
		MaxPerBurst:   hi,
	}
}

func entry(kind types.EnemyKind, count int) config.WaveEntry {
	return config.WaveEntry{Kind: kind, Count: count}
}

// testZoneConfig 构造区域配置：初始倒计时为 0，第一次 Update 即开波
func testZoneConfig(id types.ZoneID, center cp.Vector, waves ...config.WaveDefinition) *config.ZoneConfig {
	return &config.ZoneConfig{
		ID:               id,
		TimeBetweenWaves: 1,
		InitialCountdown: 0,
		LeashDistance:    60,
		Objective: config.ObjectiveConfig{
			Position:  config.Point{X: center.X, Y: center.Y},
			MaxHealth: 100,
			Radius:    1.5,
		},
		SpawnRing: config.SpawnRingConfig{
			HalfHeight: 20,
			Aspect:     16.0 / 9.0,
			Offset:     2,
		},
		Pool: config.PoolConfig{
			WarmCount: 10,
			Capacity:  100,
		},
		Waves: waves,
	}
}

// newTestCore 构造与区域配置一致的核心
func newTestCore(cfg *config.ZoneConfig) *game.Core {
	return game.NewCore(string(cfg.ID)+"_core", cfg.Objective.Position.Vector(), cfg.Objective.Radius, cfg.Objective.MaxHealth, false)
}

// newTestRunner 构造运行器和它的核心
func newTestRunner(em *ecs.EntityManager, cfg *config.ZoneConfig, seed int64) (*ZoneWaveRunner, *game.Core) {
	core := newTestCore(cfg)
	runner := NewZoneWaveRunner(em, cfg, testCatalog(), core, rand.New(rand.NewSource(seed)))
	return runner, core
}

// releaseAll 模拟所有活跃实例被击杀
func releaseAll(r *ZoneWaveRunner) int {
	n := 0
	for _, enemy := range r.ActiveEnemies() {
		if enemy.Owner.Release(enemy) {
			n++
		}
	}
	return n
}

// spawnSingle 生成单个指定原型的实例
func spawnSingle(t *testing.T, em *ecs.EntityManager, kind types.EnemyKind) (*ZoneWaveRunner, *components.EnemyComponent, *game.Core) {
	t.Helper()
	cfg := testZoneConfig(types.ZonePlanet1, cp.Vector{}, testWave(1, 1, 1, entry(kind, 1)))
	runner, core := newTestRunner(em, cfg, 1)
	runner.Update(0.01)

	active := runner.ActiveEnemies()
	if len(active) != 1 {
		t.Fatalf("Expected 1 active enemy, got %d", len(active))
	}
	return runner, active[0], core
}

type zoneWave struct {
	zone types.ZoneID
	wave int
}

// recordingAnalytics 记录遥测调用
type recordingAnalytics struct {
	game.NopAnalytics

	waveStarts    []zoneWave
	waveCompletes []zoneWave
	resources     []string
	spawns        int
	kills         []string
	firstAttacks  int
}

func (a *recordingAnalytics) WaveStart(zone types.ZoneID, wave int, coreHP int) {
	a.waveStarts = append(a.waveStarts, zoneWave{zone, wave})
}

func (a *recordingAnalytics) WaveComplete(zone types.ZoneID, wave int, coreHP int) {
	a.waveCompletes = append(a.waveCompletes, zoneWave{zone, wave})
}

func (a *recordingAnalytics) WaveResources(zone types.ZoneID, wave int, summary string) {
	a.resources = append(a.resources, summary)
}

func (a *recordingAnalytics) EnemySpawn(zone types.ZoneID, kind types.EnemyKind, seq int, pos cp.Vector) {
	a.spawns++
}

func (a *recordingAnalytics) EnemyKilled(zone types.ZoneID, kind types.EnemyKind, cause string) {
	a.kills = append(a.kills, cause)
}

func (a *recordingAnalytics) EnemyFirstAttack(zone types.ZoneID, kind types.EnemyKind, seq int) {
	a.firstAttacks++
}
