package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/planetwave/pkg/types"
)

const testZonesYAML = `coordinator:
  gateWave: 2
  finalWaveA: 3
  finalWaveB: 9
zones:
  - id: planet1
    objective:
      position: {x: 1, y: 2}
    waves:
      - enemies:
          - {kind: ranged, count: 2}
          - {kind: kamikaze, count: 1}
          - {kind: ranged, count: 3}
      - enemies:
          - {kind: ranged, count: 1}
        minPerBurst: 4
        maxPerBurst: 2
      - enemies: []
  - id: planet2
    spawnRing:
      center: {x: 50, y: 0}
    bossPoint: {x: 50, y: 10}
    waves:
      - enemies:
          - {kind: boss, count: 1}
`

const testArchetypesYAML = `archetypes:
  ranged: {health: 3, speed: 3, attackStyle: ranged}
  kamikaze: {health: 2, speed: 5, attackStyle: contact}
  boss: {health: 50, speed: 1, attackStyle: ranged}
`

func TestParseZonesConfig(t *testing.T) {
	cfg, err := ParseZonesConfig([]byte(testZonesYAML), "test")
	if err != nil {
		t.Fatalf("ParseZonesConfig() failed: %v", err)
	}

	t.Run("应用默认值", func(t *testing.T) {
		a, ok := cfg.Zone(types.ZonePlanet1)
		if !ok {
			t.Fatal("planet1 should exist")
		}
		if a.TimeBetweenWaves != DefaultTimeBetweenWaves {
			t.Errorf("Expected timeBetweenWaves %.1f, got %.1f", DefaultTimeBetweenWaves, a.TimeBetweenWaves)
		}
		if a.InitialCountdown != DefaultInitialCountdown {
			t.Errorf("Expected initialCountdown %.1f, got %.1f", DefaultInitialCountdown, a.InitialCountdown)
		}
		if a.Pool.Capacity != DefaultPoolCapacity || a.Pool.WarmCount != DefaultPoolWarmCount {
			t.Errorf("Unexpected pool defaults: %+v", a.Pool)
		}
		if a.Objective.MaxHealth != DefaultObjectiveHealth {
			t.Errorf("Expected objective health %d, got %d", DefaultObjectiveHealth, a.Objective.MaxHealth)
		}
		w := a.Waves[0]
		if w.SpawnInterval != DefaultSpawnInterval || w.MinPerBurst != DefaultMinPerBurst || w.MaxPerBurst != DefaultMaxPerBurst {
			t.Errorf("Unexpected wave defaults: %+v", w)
		}
		if cfg.Coordinator.RetargetOnRevive != "keep" {
			t.Errorf("Expected retarget policy keep, got %q", cfg.Coordinator.RetargetOnRevive)
		}
		if !cfg.Coordinator.AutoDetectActivation {
			t.Error("Expected auto detect activation enabled by default")
		}
	})

	t.Run("最终波次被收缩到已定义波次数", func(t *testing.T) {
		if cfg.Coordinator.FinalWaveA != 3 {
			t.Errorf("Expected finalWaveA 3, got %d", cfg.Coordinator.FinalWaveA)
		}
		if cfg.Coordinator.FinalWaveB != 1 {
			t.Errorf("Expected finalWaveB clamped to 1, got %d", cfg.Coordinator.FinalWaveB)
		}
	})

	t.Run("闸门波次被收缩到区域A的波次数", func(t *testing.T) {
		short := strings.Replace(testZonesYAML, "gateWave: 2", "gateWave: 7", 1)
		clamped, err := ParseZonesConfig([]byte(short), "test")
		if err != nil {
			t.Fatalf("ParseZonesConfig() failed: %v", err)
		}
		if clamped.Coordinator.GateWave != 3 {
			t.Errorf("Expected gateWave clamped to 3, got %d", clamped.Coordinator.GateWave)
		}

		empty := `zones:
  - id: planet1
  - id: planet2
    waves:
      - enemies:
          - {kind: boss, count: 1}
`
		noWaves, err := ParseZonesConfig([]byte(empty), "test")
		if err != nil {
			t.Fatalf("ParseZonesConfig() failed: %v", err)
		}
		if noWaves.Coordinator.GateWave != 0 || noWaves.Coordinator.FinalWaveA != 0 {
			t.Errorf("Expected default gate and final wave clamped to 0, got %d/%d",
				noWaves.Coordinator.GateWave, noWaves.Coordinator.FinalWaveA)
		}
	})

	t.Run("生成环圆心回退到核心位置", func(t *testing.T) {
		a, _ := cfg.Zone(types.ZonePlanet1)
		if c := a.SpawnCenter(); c.X != 1 || c.Y != 2 {
			t.Errorf("Expected spawn center (1,2), got %v", c)
		}
		b, _ := cfg.Zone(types.ZonePlanet2)
		if c := b.SpawnCenter(); c.X != 50 {
			t.Errorf("Expected spawn center x 50, got %v", c)
		}
		if b.BossPoint == nil || b.BossPoint.Y != 10 {
			t.Errorf("Expected boss point, got %+v", b.BossPoint)
		}
	})
}

func TestWaveDefinitionComposition(t *testing.T) {
	cfg, err := ParseZonesConfig([]byte(testZonesYAML), "test")
	if err != nil {
		t.Fatalf("ParseZonesConfig() failed: %v", err)
	}
	a, _ := cfg.Zone(types.ZonePlanet1)

	w := a.Waves[0]
	if total := w.TotalEnemies(); total != 6 {
		t.Errorf("Expected total 6, got %d", total)
	}

	order, counts := w.Composition()
	if len(order) != 2 || order[0] != types.EnemyRanged || order[1] != types.EnemyKamikaze {
		t.Errorf("Expected merged order [ranged kamikaze], got %v", order)
	}
	if counts[types.EnemyRanged] != 5 {
		t.Errorf("Expected merged ranged count 5, got %d", counts[types.EnemyRanged])
	}

	if a.Waves[2].TotalEnemies() != 0 {
		t.Error("Empty wave should have zero enemies")
	}
}

func TestWaveDefinitionBurstRange(t *testing.T) {
	tests := []struct {
		name           string
		min, max       int
		wantLo, wantHi int
		wantOK         bool
	}{
		{"正常区间", 1, 3, 1, 3, true},
		{"最小值大于最大值", 4, 2, 2, 2, false},
		{"最大值为零", 0, 0, 0, 1, false},
		{"负数最小值", -2, 3, 0, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WaveDefinition{MinPerBurst: tt.min, MaxPerBurst: tt.max}
			lo, hi, ok := w.BurstRange()
			if lo != tt.wantLo || hi != tt.wantHi || ok != tt.wantOK {
				t.Errorf("BurstRange(%d,%d) = (%d,%d,%v), want (%d,%d,%v)",
					tt.min, tt.max, lo, hi, ok, tt.wantLo, tt.wantHi, tt.wantOK)
			}
		})
	}
}

func TestParseZonesConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "负数数量",
			yaml:    "zones:\n  - id: planet1\n    waves:\n      - enemies:\n          - {kind: ranged, count: -1}\n",
			wantErr: "count cannot be negative",
		},
		{
			name:    "缺少区域ID",
			yaml:    "zones:\n  - waves: []\n",
			wantErr: "id is required",
		},
		{
			name:    "重复区域ID",
			yaml:    "zones:\n  - id: planet1\n  - id: planet1\n",
			wantErr: "duplicate zone id",
		},
		{
			name:    "非法重定向策略",
			yaml:    "coordinator:\n  retargetOnRevive: sometimes\nzones: []\n",
			wantErr: "retargetOnRevive",
		},
		{
			name:    "负数爆发间隔",
			yaml:    "zones:\n  - id: planet1\n    waves:\n      - spawnInterval: -1\n",
			wantErr: "spawnInterval cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseZonesConfig([]byte(tt.yaml), "test")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadContentFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "archetypes.yaml"), []byte(testArchetypesYAML), 0644); err != nil {
		t.Fatalf("Failed to write archetypes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "zones.yaml"), []byte(testZonesYAML), 0644); err != nil {
		t.Fatalf("Failed to write zones: %v", err)
	}

	content, err := LoadContent(DirReader(dir))
	if err != nil {
		t.Fatalf("LoadContent() failed: %v", err)
	}
	if len(content.Zones.Zones) != 2 {
		t.Errorf("Expected 2 zones, got %d", len(content.Zones.Zones))
	}
	if _, ok := content.Catalog.Get(types.EnemyBoss); !ok {
		t.Error("Expected boss archetype")
	}

	t.Run("文件缺失", func(t *testing.T) {
		_, err := LoadContent(DirReader(t.TempDir()))
		if err == nil || !strings.Contains(err.Error(), "failed to read archetype file") {
			t.Errorf("Expected read error, got %v", err)
		}
	})
}

// TestBundledContent 校验仓库自带的内容文件
func TestBundledContent(t *testing.T) {
	content, err := LoadContent(DirReader(filepath.Join("..", "..", "data")))
	if err != nil {
		t.Fatalf("Bundled content should load: %v", err)
	}
	a, ok := content.Zones.Zone(types.ZonePlanet1)
	if !ok || len(a.Waves) != 8 {
		t.Fatalf("Expected planet1 with 8 waves")
	}
	b, ok := content.Zones.Zone(types.ZonePlanet2)
	if !ok || len(b.Waves) != 4 {
		t.Fatalf("Expected planet2 with 4 waves")
	}
	if content.Zones.Coordinator.GateWave != 4 {
		t.Errorf("Expected gate wave 4, got %d", content.Zones.Coordinator.GateWave)
	}
	for _, kind := range types.AllEnemyKinds() {
		if _, ok := content.Catalog.Get(kind); !ok {
			t.Errorf("Bundled catalog missing %s", kind)
		}
	}
}
