package config

import (
	"fmt"
	"log"

	"github.com/gonewx/planetwave/pkg/types"
	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// Point 内容文件中的二维坐标
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vector 转换为 cp.Vector
func (p Point) Vector() cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

// WaveEntry 一波中某个原型的数量
type WaveEntry struct {
	Kind  types.EnemyKind `yaml:"kind"`
	Count int             `yaml:"count"`
}

// WaveDefinition 单个波次的组成和节奏
type WaveDefinition struct {
	Enemies       []WaveEntry `yaml:"enemies"`       // 有序的 (原型, 数量) 列表
	SpawnInterval float64     `yaml:"spawnInterval"` // 两次爆发之间的间隔（秒）
	MinPerBurst   int         `yaml:"minPerBurst"`   // 每次爆发最少数量
	MaxPerBurst   int         `yaml:"maxPerBurst"`   // 每次爆发最多数量
}

// TotalEnemies 返回本波敌人总数
func (w *WaveDefinition) TotalEnemies() int {
	total := 0
	for _, e := range w.Enemies {
		total += e.Count
	}
	return total
}

// Composition 合并重复原型，按首次出现顺序返回
func (w *WaveDefinition) Composition() ([]types.EnemyKind, map[types.EnemyKind]int) {
	order := make([]types.EnemyKind, 0, len(w.Enemies))
	counts := make(map[types.EnemyKind]int, len(w.Enemies))
	for _, e := range w.Enemies {
		if _, seen := counts[e.Kind]; !seen {
			order = append(order, e.Kind)
		}
		counts[e.Kind] += e.Count
	}
	return order, counts
}

// BurstRange 返回规范化后的爆发数量区间 [lo, hi]
//
// min > max 属于内容错误，区间收缩到 max；hi 至少为 1，保证波次能够推进。
// ok 为 false 表示发生了修正。
func (w *WaveDefinition) BurstRange() (lo, hi int, ok bool) {
	lo, hi, ok = w.MinPerBurst, w.MaxPerBurst, true
	if hi < 1 {
		hi = 1
		ok = false
	}
	if lo < 0 {
		lo = 0
		ok = false
	}
	if lo > hi {
		lo = hi
		ok = false
	}
	return lo, hi, ok
}

// ObjectiveConfig 区域核心配置
type ObjectiveConfig struct {
	Position     Point   `yaml:"position"`
	MaxHealth    int     `yaml:"maxHealth"`
	Radius       float64 `yaml:"radius"`
	EndGameOnDie bool    `yaml:"endGameOnDie"` // 核心被摧毁即判定失败
}

// SpawnRingConfig 生成环配置
// 半径 = max(HalfHeight, HalfHeight*Aspect) + Offset，以 Center 为圆心
type SpawnRingConfig struct {
	Center     *Point  `yaml:"center"` // 为空时使用核心位置
	HalfHeight float64 `yaml:"halfHeight"`
	Aspect     float64 `yaml:"aspect"`
	Offset     float64 `yaml:"offset"`
}

// PoolConfig 对象池配置
type PoolConfig struct {
	WarmCount int  `yaml:"warmCount"`
	Capacity  int  `yaml:"capacity"`
	Prewarm   bool `yaml:"prewarm"` // 构建时预先创建 WarmCount 个空闲实例
}

// ZoneConfig 单个区域的全部配置
type ZoneConfig struct {
	ID               types.ZoneID     `yaml:"id"`
	TimeBetweenWaves float64          `yaml:"timeBetweenWaves"`
	InitialCountdown float64          `yaml:"initialCountdown"`
	LeashDistance    float64          `yaml:"leashDistance"`
	Objective        ObjectiveConfig  `yaml:"objective"`
	SpawnRing        SpawnRingConfig  `yaml:"spawnRing"`
	BossPoint        *Point           `yaml:"bossPoint"` // 可选：首领固定出生点
	Pool             PoolConfig       `yaml:"pool"`
	Waves            []WaveDefinition `yaml:"waves"`
}

// SpawnCenter 返回生成环圆心，未配置时回退到核心位置
func (z *ZoneConfig) SpawnCenter() cp.Vector {
	if z.SpawnRing.Center != nil {
		return z.SpawnRing.Center.Vector()
	}
	return z.Objective.Position.Vector()
}

// CoordinatorConfig 跨区域协调配置
type CoordinatorConfig struct {
	GateWave             int    `yaml:"gateWave"`
	FinalWaveA           int    `yaml:"finalWaveA"`
	FinalWaveB           int    `yaml:"finalWaveB"`
	SkipGate             bool   `yaml:"skipGate"`
	AutoDetectActivation bool   `yaml:"autoDetectActivation"`
	RetargetOnRevive     string `yaml:"retargetOnRevive"` // "keep" 或 "restore"
}

// ZonesConfig zones.yaml 的顶层结构
type ZonesConfig struct {
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Zones       []ZoneConfig      `yaml:"zones"`
}

// Zone 按 ID 查找区域配置
func (c *ZonesConfig) Zone(id types.ZoneID) (*ZoneConfig, bool) {
	for i := range c.Zones {
		if c.Zones[i].ID == id {
			return &c.Zones[i], true
		}
	}
	return nil, false
}

// ParseZonesConfig 解析区域与波次配置
// 参数：
//
//	data - YAML 内容
//	source - 来源描述，仅用于错误信息
//
// 返回：
//
//	*ZonesConfig - 应用缺省值并通过校验的配置
//	error - 解析或校验失败
func ParseZonesConfig(data []byte, source string) (*ZonesConfig, error) {
	cfg := ZonesConfig{
		Coordinator: CoordinatorConfig{
			AutoDetectActivation: true,
		},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse zones YAML from %s: %w", source, err)
	}

	applyZoneDefaults(&cfg)

	if err := validateZonesConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid zones config in %s: %w", source, err)
	}

	return &cfg, nil
}

// applyZoneDefaults 为缺失的可选字段设置默认值
func applyZoneDefaults(cfg *ZonesConfig) {
	for i := range cfg.Zones {
		z := &cfg.Zones[i]
		if z.TimeBetweenWaves == 0 {
			z.TimeBetweenWaves = DefaultTimeBetweenWaves
		}
		if z.InitialCountdown == 0 {
			z.InitialCountdown = DefaultInitialCountdown
		}
		if z.LeashDistance == 0 {
			z.LeashDistance = DefaultLeashDistance
		}
		if z.Objective.MaxHealth == 0 {
			z.Objective.MaxHealth = DefaultObjectiveHealth
		}
		if z.Objective.Radius == 0 {
			z.Objective.Radius = DefaultObjectiveRadius
		}
		if z.SpawnRing.HalfHeight == 0 {
			z.SpawnRing.HalfHeight = DefaultRingHalfHeight
		}
		if z.SpawnRing.Aspect == 0 {
			z.SpawnRing.Aspect = DefaultRingAspect
		}
		if z.SpawnRing.Offset == 0 {
			z.SpawnRing.Offset = DefaultRingOffset
		}
		if z.Pool.Capacity == 0 {
			z.Pool.Capacity = DefaultPoolCapacity
		}
		if z.Pool.WarmCount == 0 {
			z.Pool.WarmCount = DefaultPoolWarmCount
		}
		if z.Pool.WarmCount > z.Pool.Capacity {
			z.Pool.WarmCount = z.Pool.Capacity
		}

		for j := range z.Waves {
			w := &z.Waves[j]
			if w.SpawnInterval == 0 {
				w.SpawnInterval = DefaultSpawnInterval
			}
			if w.MinPerBurst == 0 && w.MaxPerBurst == 0 {
				w.MinPerBurst = DefaultMinPerBurst
				w.MaxPerBurst = DefaultMaxPerBurst
			}
		}
	}

	c := &cfg.Coordinator
	if c.GateWave == 0 {
		c.GateWave = DefaultGateWave
	}
	if c.FinalWaveA == 0 {
		c.FinalWaveA = DefaultFinalWaveA
	}
	if c.FinalWaveB == 0 {
		c.FinalWaveB = DefaultFinalWaveB
	}
	if c.RetargetOnRevive == "" {
		c.RetargetOnRevive = "keep"
	}

	// 闸门与最终波次不能超过实际定义的波次数，否则协调器永远无法推进
	if a, ok := cfg.Zone(types.ZonePlanet1); ok {
		if c.GateWave > len(a.Waves) {
			log.Printf("[Config] Content error: gateWave %d exceeds %d defined waves, clamped", c.GateWave, len(a.Waves))
			c.GateWave = len(a.Waves)
		}
		if c.FinalWaveA > len(a.Waves) {
			log.Printf("[Config] Content error: finalWaveA %d exceeds %d defined waves, clamped", c.FinalWaveA, len(a.Waves))
			c.FinalWaveA = len(a.Waves)
		}
	}
	if b, ok := cfg.Zone(types.ZonePlanet2); ok && c.FinalWaveB > len(b.Waves) {
		log.Printf("[Config] Content error: finalWaveB %d exceeds %d defined waves, clamped", c.FinalWaveB, len(b.Waves))
		c.FinalWaveB = len(b.Waves)
	}
}

// validateZonesConfig 验证区域配置的完整性和合法性
// min > max 等可恢复的内容错误只记录日志，由运行期修正
func validateZonesConfig(cfg *ZonesConfig) error {
	seen := make(map[types.ZoneID]bool, len(cfg.Zones))
	for i, z := range cfg.Zones {
		if z.ID == "" {
			return fmt.Errorf("zones[%d]: id is required", i)
		}
		if seen[z.ID] {
			return fmt.Errorf("zones[%d]: duplicate zone id %q", i, z.ID)
		}
		seen[z.ID] = true

		if z.TimeBetweenWaves < 0 || z.InitialCountdown < 0 {
			return fmt.Errorf("zone %s: wave timers cannot be negative", z.ID)
		}
		if z.LeashDistance < 0 {
			return fmt.Errorf("zone %s: leashDistance cannot be negative, got %.2f", z.ID, z.LeashDistance)
		}
		if z.Objective.MaxHealth < 0 {
			return fmt.Errorf("zone %s: objective maxHealth cannot be negative, got %d", z.ID, z.Objective.MaxHealth)
		}
		if z.Pool.Capacity < 0 || z.Pool.WarmCount < 0 {
			return fmt.Errorf("zone %s: pool sizes cannot be negative", z.ID)
		}

		for j, w := range z.Waves {
			if w.SpawnInterval < 0 {
				return fmt.Errorf("zone %s, wave %d: spawnInterval cannot be negative, got %.2f", z.ID, j, w.SpawnInterval)
			}
			if w.MinPerBurst > w.MaxPerBurst {
				log.Printf("[Config] Content error: zone %s wave %d has minPerBurst %d > maxPerBurst %d, burst size will be clamped",
					z.ID, j, w.MinPerBurst, w.MaxPerBurst)
			}
			for k, e := range w.Enemies {
				if e.Kind == "" {
					return fmt.Errorf("zone %s, wave %d, enemy %d: kind is required", z.ID, j, k)
				}
				if e.Count < 0 {
					return fmt.Errorf("zone %s, wave %d, enemy %d: count cannot be negative, got %d", z.ID, j, k, e.Count)
				}
			}
		}
	}

	c := cfg.Coordinator
	if c.GateWave < 0 || c.FinalWaveA < 0 || c.FinalWaveB < 0 {
		return fmt.Errorf("coordinator: wave indices cannot be negative")
	}
	if c.RetargetOnRevive != "keep" && c.RetargetOnRevive != "restore" {
		return fmt.Errorf("coordinator: retargetOnRevive must be one of: keep, restore, got %q", c.RetargetOnRevive)
	}

	return nil
}
