package scenes

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/systems"
	"github.com/gonewx/planetwave/pkg/types"
)

// ErrContentMissing 场景构建时内容未加载
var ErrContentMissing = errors.New("battle scene requires loaded content")

// BattleOptions 场景构建参数
type BattleOptions struct {
	// Seed 随机种子，相同种子和输入得到相同的模拟结果
	Seed int64
	// Settings 调试设置，nil 时使用默认设置
	Settings *game.DebugSettings
	// Analytics 遥测接收方，nil 时丢弃
	Analytics game.Analytics
	// AutoDefense 为每个核心安装自动防御炮塔
	AutoDefense bool
}

// BattleScene 两区域波次战斗场景
//
// 持有 ECS 世界、两个核心、两个区域运行器和协调器，按固定顺序推进：
// 敌人行为 → 射程传感器 → 炮塔 → 区域 A → 区域 B → 协调器 → 实体清理。
type BattleScene struct {
	entityManager *ecs.EntityManager
	content       *config.Content
	rng           *rand.Rand
	analytics     game.Analytics
	ledger        *game.ResourceLedger
	activation    *game.ActivationFlag

	coreA *game.Core
	coreB *game.Core
	zoneA *systems.ZoneWaveRunner
	zoneB *systems.ZoneWaveRunner

	behaviorSystem *systems.EnemyBehaviorSystem
	sensorSystem   *systems.RangeSensorSystem
	turretSystem   *systems.DefenseTurretSystem
	coordinator    *systems.WaveCoordinator

	subscriptions []*game.Subscription

	tick     int
	elapsed  float64
	gameOver bool
	err      error
	closed   bool
}

// NewBattleScene 根据内容构建战斗场景
//
// 内容中缺少某个区域时该区域视为已完成，核心缺失时相关事件不会订阅。
func NewBattleScene(content *config.Content, opts BattleOptions) (*BattleScene, error) {
	if content == nil || content.Catalog == nil || content.Zones == nil {
		return nil, ErrContentMissing
	}

	settings := opts.Settings
	if settings == nil {
		settings = game.DefaultSettings()
	}
	analytics := opts.Analytics
	if analytics == nil {
		analytics = game.NopAnalytics{}
	}

	s := &BattleScene{
		entityManager: ecs.NewEntityManager(),
		content:       content,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		analytics:     game.NewSafeAnalytics(analytics),
		ledger:        game.NewResourceLedger(),
		activation:    &game.ActivationFlag{},
	}

	s.zoneA, s.coreA = s.buildZone(types.ZonePlanet1)
	s.zoneB, s.coreB = s.buildZone(types.ZonePlanet2)
	if s.zoneB != nil && s.coreA != nil {
		s.zoneB.SetFallbackObjective(s.coreA)
	}

	s.behaviorSystem = systems.NewEnemyBehaviorSystem(s.entityManager, s.analytics, s.rng)
	s.behaviorSystem.SetVerbose(settings.Verbose)

	s.sensorSystem = systems.NewRangeSensorSystem(s.entityManager, s.behaviorSystem)
	s.turretSystem = systems.NewDefenseTurretSystem(s.entityManager, s.behaviorSystem)
	for _, core := range s.cores() {
		s.sensorSystem.RegisterObjective(core)
		if opts.AutoDefense {
			s.turretSystem.AddTurret(core, systems.DefaultTurretConfig())
		}
	}

	s.buildCoordinator(settings)

	if s.coreA != nil && s.coreA.EndGameOnDie() {
		s.subscriptions = append(s.subscriptions, s.coreA.OnDestroyed(s.handlePrimaryObjectiveDestroyed))
	}

	log.Printf("[BattleScene] Initialized (seed %d, zones: A=%v B=%v, autoDefense=%v)",
		opts.Seed, s.zoneA != nil, s.zoneB != nil, opts.AutoDefense)
	return s, nil
}

// buildZone 为区域创建核心和运行器，区域不存在时返回 nil
func (s *BattleScene) buildZone(id types.ZoneID) (*systems.ZoneWaveRunner, *game.Core) {
	cfg, ok := s.content.Zones.Zone(id)
	if !ok {
		log.Printf("[BattleScene] Zone %s not configured, treated as complete", id)
		return nil, nil
	}

	obj := cfg.Objective
	core := game.NewCore(string(id)+"_core", obj.Position.Vector(), obj.Radius, obj.MaxHealth, obj.EndGameOnDie)

	runner := systems.NewZoneWaveRunner(s.entityManager, cfg, s.content.Catalog, core, s.rng)
	runner.SetAnalytics(s.analytics)
	runner.SetInventory(s.ledger)
	return runner, core
}

// buildCoordinator 创建协调器，调试设置覆盖内容文件中的开关
func (s *BattleScene) buildCoordinator(settings *game.DebugSettings) {
	cfg := s.content.Zones.Coordinator
	cfg.SkipGate = cfg.SkipGate || settings.SkipGate
	cfg.AutoDetectActivation = cfg.AutoDetectActivation && settings.AutoDetectActivation
	if settings.RetargetOnRevive != "" {
		cfg.RetargetOnRevive = settings.RetargetOnRevive
	}

	// 避免把 nil 指针包进接口
	var zoneA systems.ZoneController
	var zoneB systems.RetargetableZone
	if s.zoneA != nil {
		zoneA = s.zoneA
		s.zoneA.SetVerbose(settings.Verbose)
	}
	if s.zoneB != nil {
		zoneB = s.zoneB
		s.zoneB.SetVerbose(settings.Verbose)
	}

	s.coordinator = systems.NewWaveCoordinator(zoneA, zoneB, cfg)
	s.coordinator.SetActivationSource(s.activation)
	if s.coreA != nil && s.coreB != nil {
		s.coordinator.BindObjectives(s.coreA, s.coreB, s.coreB)
	}
	s.coordinator.OnPhaseChange(func(from, to systems.CoordinatorPhase) {
		log.Printf("[BattleScene] Phase %s → %s at %.2fs", from, to, s.elapsed)
	})
}

// handlePrimaryObjectiveDestroyed 区域 A 核心被摧毁：记录失败并结束模拟
func (s *BattleScene) handlePrimaryObjectiveDestroyed() {
	if s.gameOver {
		return
	}
	s.gameOver = true
	wave := 0
	if s.zoneA != nil {
		wave = s.zoneA.CurrentWave()
	}
	log.Printf("[BattleScene] Zone A objective destroyed during wave %d, game over", wave)
	s.analytics.WaveFail(types.ZonePlanet1, wave, 0)
}

func (s *BattleScene) cores() []*game.Core {
	var cores []*game.Core
	if s.coreA != nil {
		cores = append(cores, s.coreA)
	}
	if s.coreB != nil {
		cores = append(cores, s.coreB)
	}
	return cores
}

func (s *BattleScene) runners() []*systems.ZoneWaveRunner {
	var runners []*systems.ZoneWaveRunner
	if s.zoneA != nil {
		runners = append(runners, s.zoneA)
	}
	if s.zoneB != nil {
		runners = append(runners, s.zoneB)
	}
	return runners
}

// Update 推进一个 tick
// 对象池容量不足等致命错误会停止场景并返回错误
func (s *BattleScene) Update(deltaTime float64) error {
	if s.err != nil {
		return s.err
	}
	if s.gameOver || s.closed {
		return nil
	}

	s.tick++
	s.elapsed += deltaTime

	s.behaviorSystem.Update(deltaTime)
	s.sensorSystem.Update(deltaTime)
	s.turretSystem.Update(deltaTime)
	for _, runner := range s.runners() {
		runner.Update(deltaTime)
	}
	s.coordinator.Update()
	s.entityManager.RemoveMarkedEntities()

	for _, runner := range s.runners() {
		if err := runner.Err(); err != nil {
			s.err = fmt.Errorf("battle halted at tick %d: %w", s.tick, err)
			log.Printf("[BattleScene] ERROR: %v", s.err)
			return s.err
		}
	}
	return nil
}

// Close 释放订阅、物理空间和对象池
func (s *BattleScene) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	for _, sub := range s.subscriptions {
		sub.Cancel()
	}
	s.subscriptions = nil
	s.coordinator.Close()
	s.sensorSystem.Close()
	for _, runner := range s.runners() {
		runner.Teardown()
	}
	s.entityManager.RemoveMarkedEntities()

	log.Printf("[BattleScene] Closed after %d ticks (%.2fs)", s.tick, s.elapsed)
	return nil
}

// Phase 返回协调器阶段
func (s *BattleScene) Phase() systems.CoordinatorPhase { return s.coordinator.Phase() }

// Coordinator 返回协调器
func (s *BattleScene) Coordinator() *systems.WaveCoordinator { return s.coordinator }

// Zone 返回区域运行器，未配置时为 nil
func (s *BattleScene) Zone(id types.ZoneID) *systems.ZoneWaveRunner {
	switch id {
	case types.ZonePlanet1:
		return s.zoneA
	case types.ZonePlanet2:
		return s.zoneB
	}
	return nil
}

// Core 返回区域核心，未配置时为 nil
func (s *BattleScene) Core(id types.ZoneID) *game.Core {
	switch id {
	case types.ZonePlanet1:
		return s.coreA
	case types.ZonePlanet2:
		return s.coreB
	}
	return nil
}

// ActiveEnemies 返回两个区域的所有活跃实例
func (s *BattleScene) ActiveEnemies() []*components.EnemyComponent {
	var enemies []*components.EnemyComponent
	for _, runner := range s.runners() {
		enemies = append(enemies, runner.ActiveEnemies()...)
	}
	return enemies
}

// Err 返回导致场景停止的致命错误
func (s *BattleScene) Err() error { return s.err }

// IsGameOver 区域 A 核心是否已被摧毁
func (s *BattleScene) IsGameOver() bool { return s.gameOver }

// IsDone 两个区域是否都已完成最终波次
func (s *BattleScene) IsDone() bool { return s.coordinator.Phase() == systems.PhaseDone }

// Elapsed 返回模拟时间（秒）
func (s *BattleScene) Elapsed() float64 { return s.elapsed }

// ShotsFired 返回自动防御炮塔的累计射击次数
func (s *BattleScene) ShotsFired() int { return s.turretSystem.ShotsFired() }
