package systems

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/entities"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/gonewx/planetwave/pkg/utils"
	"github.com/jakecoffman/cp"
)

// ZoneWaveRunner 单个区域的波次状态机
//
// 职责：
//   - 倒计时结束后开波，按爆发节奏从对象池取出敌人
//   - 检测本波清空，发出一次清空通知并进入下一波倒计时
//   - 支持协调器的暂停与快进恢复
//   - 实现 PoolHooks，负责实例的重置、定位和存活计数
//
// 两个区域使用同一类型，只是配置不同。
// 状态存放在区域实体的 ZoneWaveComponent 上。
type ZoneWaveRunner struct {
	entityManager *ecs.EntityManager
	cfg           *config.ZoneConfig
	catalog       *config.ArchetypeCatalog
	analytics     game.Analytics
	inventory     game.Inventory
	rng           *rand.Rand
	ring          utils.SpawnRing
	leash         float64

	// primary 本区域核心，fallback 核心被摧毁期间新生成敌人的目标
	primary      game.Objective
	fallback     game.Objective
	primaryAlive bool

	pools        map[types.EnemyKind]*SpawnPool
	zoneEntityID ecs.EntityID

	// err 致命错误（对象池容量不足），出现后运行器停止
	err error

	verbose bool
}

// NewZoneWaveRunner 创建区域运行器
//
// 参数：
//   - em: 实体管理器
//   - cfg: 区域配置
//   - catalog: 原型目录
//   - objective: 本区域核心
//   - rng: 随机源（同一场景共享，保证可复现）
//
// 返回：
//   - *ZoneWaveRunner: 已创建区域实体和各原型对象池的运行器
func NewZoneWaveRunner(em *ecs.EntityManager, cfg *config.ZoneConfig, catalog *config.ArchetypeCatalog, objective game.Objective, rng *rand.Rand) *ZoneWaveRunner {
	r := &ZoneWaveRunner{
		entityManager: em,
		cfg:           cfg,
		catalog:       catalog,
		analytics:     game.NopAnalytics{},
		rng:           rng,
		ring: utils.SpawnRing{
			HalfHeight: cfg.SpawnRing.HalfHeight,
			Aspect:     cfg.SpawnRing.Aspect,
			Offset:     cfg.SpawnRing.Offset,
		},
		leash:        cfg.LeashDistance,
		primary:      objective,
		primaryAlive: objective != nil && objective.IsAlive(),
		pools:        make(map[types.EnemyKind]*SpawnPool),
	}

	if r.leash <= r.ring.Radius() {
		log.Printf("[ZoneWaveRunner:%s] Content error: leashDistance %.1f does not exceed spawn ring radius %.1f, using %.1f",
			cfg.ID, r.leash, r.ring.Radius(), r.ring.Radius()*1.5)
		r.leash = r.ring.Radius() * 1.5
	}

	r.createZoneEntity()
	r.createPools()

	return r
}

// createZoneEntity 创建承载 ZoneWaveComponent 的区域实体
func (r *ZoneWaveRunner) createZoneEntity() {
	var state *components.ZoneWaveComponent
	r.zoneEntityID, state = entities.NewZoneWaveEntity(r.entityManager, r.cfg)
	log.Printf("[ZoneWaveRunner:%s] Created zone entity (ID: %d), total waves: %d", r.cfg.ID, r.zoneEntityID, state.TotalWaves)
}

// createPools 为波次中引用且目录中存在的原型创建对象池
func (r *ZoneWaveRunner) createPools() {
	for _, wave := range r.cfg.Waves {
		for _, entry := range wave.Enemies {
			if _, exists := r.pools[entry.Kind]; exists {
				continue
			}
			arch, ok := r.catalog.Get(entry.Kind)
			if !ok {
				continue
			}
			pool := NewSpawnPool(arch, r, r.cfg.Pool.WarmCount, r.cfg.Pool.Capacity)
			if r.cfg.Pool.Prewarm {
				pool.Prewarm()
			}
			r.pools[entry.Kind] = pool
		}
	}
}

func (r *ZoneWaveRunner) getState() *components.ZoneWaveComponent {
	state, ok := ecs.GetComponent[*components.ZoneWaveComponent](r.entityManager, r.zoneEntityID)
	if !ok {
		return nil
	}
	return state
}

// SetAnalytics 设置遥测接收方（nil 表示丢弃）
func (r *ZoneWaveRunner) SetAnalytics(a game.Analytics) {
	if a == nil {
		a = game.NopAnalytics{}
	}
	r.analytics = a
}

// SetInventory 设置每波结束时查询的资源摘要来源
func (r *ZoneWaveRunner) SetInventory(inv game.Inventory) {
	r.inventory = inv
}

// SetFallbackObjective 设置本区域核心被摧毁期间的备用目标
func (r *ZoneWaveRunner) SetFallbackObjective(obj game.Objective) {
	r.fallback = obj
}

// SetVerbose 设置是否输出详细日志
func (r *ZoneWaveRunner) SetVerbose(verbose bool) {
	r.verbose = verbose
}

// Update 推进区域状态机
//
// 顺序：爆发续点 → 倒计时开波 → 清空检测。
// 暂停时倒计时和爆发冻结，清空检测照常进行。
func (r *ZoneWaveRunner) Update(deltaTime float64) {
	if r.err != nil {
		return
	}
	s := r.getState()
	if s == nil || s.State == components.ZoneCompleted {
		return
	}

	if s.Enabled {
		switch s.State {
		case components.ZoneSpawning:
			s.NextBurstIn -= deltaTime
			if s.NextBurstIn <= 0 {
				r.runBurst(s)
			}
		case components.ZoneIdle:
			if !s.ClearPending && s.Outstanding == 0 && s.WaveIndex < s.TotalWaves {
				s.Countdown -= deltaTime
				if s.Countdown <= 0 {
					r.startWave(s)
				}
			}
		}
	}

	r.checkWaveClear(s)
}

// startWave Idle → Spawning
func (r *ZoneWaveRunner) startWave(s *components.ZoneWaveComponent) {
	wave := &r.cfg.Waves[s.WaveIndex]

	s.KindOrder, s.Remaining = wave.Composition()
	s.Outstanding = wave.TotalEnemies()
	s.State = components.ZoneSpawning
	s.ClearPending = true
	s.Countdown = r.cfg.TimeBetweenWaves
	s.NextBurstIn = 0

	if lo, hi, ok := wave.BurstRange(); !ok {
		log.Printf("[ZoneWaveRunner:%s] Content error: wave %d burst range [%d,%d] clamped to [%d,%d]",
			r.cfg.ID, s.WaveIndex+1, wave.MinPerBurst, wave.MaxPerBurst, lo, hi)
	}

	log.Printf("[ZoneWaveRunner:%s] Wave %d/%d started (%d enemies)", r.cfg.ID, s.WaveIndex+1, s.TotalWaves, s.Outstanding)
	r.analytics.WaveStart(r.cfg.ID, s.WaveIndex+1, r.objectiveHealth())

	r.runBurst(s)
}

// runBurst 执行一次爆发，并保存下一次爆发的续点
func (r *ZoneWaveRunner) runBurst(s *components.ZoneWaveComponent) {
	wave := &r.cfg.Waves[s.WaveIndex]

	if remaining := remainingTotal(s); remaining > 0 {
		lo, hi, _ := wave.BurstRange()
		count := lo + r.rng.Intn(hi-lo+1)
		if count > remaining {
			count = remaining
		}

		for i := 0; i < count; i++ {
			kind := r.pickKind(s)
			if err := r.spawnOne(s, kind); err != nil {
				r.err = err
				log.Printf("[ZoneWaveRunner:%s] FATAL: %v", r.cfg.ID, err)
				return
			}
		}

		if r.verbose {
			log.Printf("[ZoneWaveRunner:%s] Burst of %d, %d left, alive %d", r.cfg.ID, count, remainingTotal(s), s.AliveCount)
		}
	}

	if remainingTotal(s) == 0 {
		s.State = components.ZoneIdle
		s.WaveIndex++
		log.Printf("[ZoneWaveRunner:%s] Wave %d spawning finished", r.cfg.ID, s.WaveIndex)
		return
	}

	s.NextBurstIn = wave.SpawnInterval
}

// pickKind 在剩余数量大于 0 的原型中等概率选择（不按剩余数量加权）
func (r *ZoneWaveRunner) pickKind(s *components.ZoneWaveComponent) types.EnemyKind {
	candidates := make([]types.EnemyKind, 0, len(s.KindOrder))
	for _, kind := range s.KindOrder {
		if s.Remaining[kind] > 0 {
			candidates = append(candidates, kind)
		}
	}
	return candidates[r.rng.Intn(len(candidates))]
}

// spawnOne 从对应对象池取出一个实例
// 原型缺失时跳过该单位；容量不足时保留剩余数量并返回错误
func (r *ZoneWaveRunner) spawnOne(s *components.ZoneWaveComponent, kind types.EnemyKind) error {
	pool, ok := r.pools[kind]
	if !ok {
		log.Printf("[ZoneWaveRunner:%s] Content error: archetype %q not in catalog, skipping unit", r.cfg.ID, kind)
		s.Remaining[kind]--
		if s.Outstanding > 0 {
			s.Outstanding--
		}
		return nil
	}

	if _, err := pool.Acquire(); err != nil {
		return fmt.Errorf("zone %s wave %d: %w", r.cfg.ID, s.WaveIndex+1, err)
	}
	s.Remaining[kind]--
	return nil
}

// checkWaveClear 本波出完且全部回池时发出一次清空通知
func (r *ZoneWaveRunner) checkWaveClear(s *components.ZoneWaveComponent) {
	if s.State != components.ZoneIdle || !s.ClearPending || s.Outstanding > 0 {
		return
	}
	s.ClearPending = false

	wave := s.WaveIndex
	log.Printf("[ZoneWaveRunner:%s] Wave %d complete", r.cfg.ID, wave)
	r.analytics.WaveComplete(r.cfg.ID, wave, r.objectiveHealth())

	if r.inventory != nil {
		summary := r.inventory.WaveResourceSummary(wave)
		log.Printf("[ZoneWaveRunner:%s] Wave %d resources: %s", r.cfg.ID, wave, summary)
		r.analytics.WaveResources(r.cfg.ID, wave, summary)
	}

	if s.WaveIndex >= s.TotalWaves {
		s.State = components.ZoneCompleted
		log.Printf("[ZoneWaveRunner:%s] All %d waves completed", r.cfg.ID, s.TotalWaves)
	}
}

func remainingTotal(s *components.ZoneWaveComponent) int {
	total := 0
	for _, n := range s.Remaining {
		total += n
	}
	return total
}

func (r *ZoneWaveRunner) objectiveHealth() int {
	if r.primary == nil {
		return 0
	}
	return r.primary.Health()
}

// Pause 冻结倒计时和爆发，计数保持不变
func (r *ZoneWaveRunner) Pause() {
	s := r.getState()
	if s == nil || !s.Enabled {
		return
	}
	s.Enabled = false
	log.Printf("[ZoneWaveRunner:%s] Paused at wave %d (countdown %.2fs)", r.cfg.ID, s.WaveIndex, s.Countdown)
}

// Resume 启用区域并将倒计时清零，本波清空后的下一个 tick 立即开波
func (r *ZoneWaveRunner) Resume() {
	s := r.getState()
	if s == nil {
		return
	}
	s.Enabled = true
	s.Countdown = 0
	log.Printf("[ZoneWaveRunner:%s] Resumed at wave %d, next wave fast-forwarded", r.cfg.ID, s.WaveIndex)
}

// SetPrimaryObjectiveAlive 记录本区域核心的存活状态，决定新生成敌人的目标
func (r *ZoneWaveRunner) SetPrimaryObjectiveAlive(alive bool) {
	r.primaryAlive = alive
}

// SpawnTarget 返回新生成敌人的目标
func (r *ZoneWaveRunner) SpawnTarget() game.Objective {
	if !r.primaryAlive && r.fallback != nil {
		return r.fallback
	}
	return r.primary
}

// RetargetActive 将所有活跃实例改为攻击 obj，并清除射程和攻击计时
// 返回被改写的实例数
func (r *ZoneWaveRunner) RetargetActive(obj game.Objective) int {
	count := 0
	for _, enemy := range r.ActiveEnemies() {
		enemy.Target = obj
		enemy.InRange = false
		enemy.AttackTimer = 0
		count++
	}
	log.Printf("[ZoneWaveRunner:%s] Retargeted %d active enemies", r.cfg.ID, count)
	return count
}

// ActiveEnemies 返回本区域所有活跃实例，按实体 ID 排序
func (r *ZoneWaveRunner) ActiveEnemies() []*components.EnemyComponent {
	ids := ecs.GetEntitiesWith1[*components.EnemyComponent](r.entityManager)
	result := make([]*components.EnemyComponent, 0, len(ids))
	for _, id := range ids {
		enemy, ok := ecs.GetComponent[*components.EnemyComponent](r.entityManager, id)
		if ok && enemy.Active && enemy.Zone == r.cfg.ID {
			result = append(result, enemy)
		}
	}
	return result
}

// Teardown 销毁所有对象池
func (r *ZoneWaveRunner) Teardown() {
	for _, pool := range r.pools {
		pool.Teardown()
	}
}

func (r *ZoneWaveRunner) Zone() types.ZoneID        { return r.cfg.ID }
func (r *ZoneWaveRunner) Objective() game.Objective { return r.primary }
func (r *ZoneWaveRunner) Err() error                { return r.err }
func (r *ZoneWaveRunner) LeashDistance() float64    { return r.leash }

// Pool 返回某原型的对象池
func (r *ZoneWaveRunner) Pool(kind types.EnemyKind) (*SpawnPool, bool) {
	pool, ok := r.pools[kind]
	return pool, ok
}

// WaveIndex 返回已出完的波次数
func (r *ZoneWaveRunner) WaveIndex() int {
	if s := r.getState(); s != nil {
		return s.WaveIndex
	}
	return 0
}

// CurrentWave 返回正在进行（或最近开始）的波次编号，从 1 开始；尚未开波时为 0
func (r *ZoneWaveRunner) CurrentWave() int {
	s := r.getState()
	if s == nil {
		return 0
	}
	if s.State == components.ZoneSpawning {
		return s.WaveIndex + 1
	}
	return s.WaveIndex
}

// TotalWaves 返回定义的波次数
func (r *ZoneWaveRunner) TotalWaves() int {
	return len(r.cfg.Waves)
}

// AliveCount 返回当前活跃实例数
func (r *ZoneWaveRunner) AliveCount() int {
	if s := r.getState(); s != nil {
		return s.AliveCount
	}
	return 0
}

// Outstanding 返回本波尚未结束的敌人数（活跃 + 尚未生成）
func (r *ZoneWaveRunner) Outstanding() int {
	if s := r.getState(); s != nil {
		return s.Outstanding
	}
	return 0
}

// State 返回状态机当前状态
func (r *ZoneWaveRunner) State() components.ZoneWaveState {
	if s := r.getState(); s != nil {
		return s.State
	}
	return components.ZoneCompleted
}

// IsFinished 返回区域是否已跑完全部波次
func (r *ZoneWaveRunner) IsFinished() bool {
	return r.State() == components.ZoneCompleted
}

// Countdown 返回距离下一波的剩余时间
func (r *ZoneWaveRunner) Countdown() float64 {
	if s := r.getState(); s != nil {
		return s.Countdown
	}
	return 0
}

// IsPaused 返回区域是否被暂停
func (r *ZoneWaveRunner) IsPaused() bool {
	s := r.getState()
	return s == nil || !s.Enabled
}

// ---- PoolHooks ----

// Create 创建实例实体
func (r *ZoneWaveRunner) Create(archetype *config.EnemyArchetype) *components.EnemyComponent {
	return entities.NewEnemyEntity(r.entityManager, r.cfg.ID, archetype, r.leash, r.ring)
}

// OnAcquire 重置实例属性、绑定目标、放置到生成位置并上报
func (r *ZoneWaveRunner) OnAcquire(enemy *components.EnemyComponent) {
	s := r.getState()
	s.SpawnSeq++
	s.AliveCount++

	arch := enemy.Archetype
	enemy.SpawnSeq = s.SpawnSeq
	enemy.Health = arch.Health
	enemy.Dead = false
	enemy.InRange = false
	enemy.AttackTimer = 0
	enemy.FirstAttackLogged = false
	enemy.Target = r.SpawnTarget()
	enemy.Position = r.spawnPosition(arch)
	if enemy.Target != nil {
		enemy.Rotation = enemy.Target.Position().Sub(enemy.Position).ToAngle()
	}

	if r.verbose {
		log.Printf("[ZoneWaveRunner:%s] Spawned %s #%d at (%.1f, %.1f)",
			r.cfg.ID, arch.Kind, enemy.SpawnSeq, enemy.Position.X, enemy.Position.Y)
	}
	r.analytics.EnemySpawn(r.cfg.ID, arch.Kind, enemy.SpawnSeq, enemy.Position)
}

// spawnPosition 首领优先使用固定出生点，其余在生成环上随机
func (r *ZoneWaveRunner) spawnPosition(arch *config.EnemyArchetype) cp.Vector {
	if arch.Kind == types.EnemyBoss && r.cfg.BossPoint != nil {
		return r.cfg.BossPoint.Vector()
	}
	return r.ring.PointAround(r.cfg.SpawnCenter(), r.rng)
}

// OnRelease 扣减存活计数
func (r *ZoneWaveRunner) OnRelease(enemy *components.EnemyComponent) {
	s := r.getState()
	if s.AliveCount > 0 {
		s.AliveCount--
	}
	if s.Outstanding > 0 {
		s.Outstanding--
	}
	enemy.InRange = false

	if r.verbose {
		log.Printf("[ZoneWaveRunner:%s] Released %s #%d, alive %d", r.cfg.ID, enemy.Archetype.Kind, enemy.SpawnSeq, s.AliveCount)
	}
}

// OnDestroy 删除实例实体
func (r *ZoneWaveRunner) OnDestroy(enemy *components.EnemyComponent) {
	r.entityManager.DestroyEntity(enemy.Entity)
}
