package systems

import (
	"testing"

	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/jakecoffman/cp"
)

// TestRangeSensorEnterExit 射程圆与核心重叠时进入射程，分开后离开
func TestRangeSensorEnterExit(t *testing.T) {
	em := ecs.NewEntityManager()
	_, enemy, core := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)
	sensors := NewRangeSensorSystem(em, behavior)
	sensors.RegisterObjective(core)

	enemy.Position = cp.Vector{X: 20, Y: 0}
	sensors.Update(1.0 / 60)
	if enemy.InRange {
		t.Fatal("Enemy at distance 20 should be out of range")
	}
	if sensors.TrackedCount() != 1 {
		t.Errorf("Expected 1 tracked enemy, got %d", sensors.TrackedCount())
	}

	enemy.Position = cp.Vector{X: 5, Y: 0}
	sensors.Update(1.0 / 60)
	if !enemy.InRange {
		t.Fatal("Enemy at distance 5 with range 5 should be in range of a radius 1.5 core")
	}

	enemy.Position = cp.Vector{X: 20, Y: 0}
	sensors.Update(1.0 / 60)
	if enemy.InRange {
		t.Error("Enemy should leave range after moving away")
	}
}

// TestRangeSensorContact 自爆兵本体接触目标时自爆
func TestRangeSensorContact(t *testing.T) {
	em := ecs.NewEntityManager()
	runner, enemy, core := spawnSingle(t, em, types.EnemyKamikaze)
	behavior, _ := newTestBehavior(em)
	sensors := NewRangeSensorSystem(em, behavior)
	sensors.RegisterObjective(core)

	enemy.Position = cp.Vector{X: 1.8, Y: 0}
	sensors.Update(1.0 / 60)

	if core.Health() != 90 {
		t.Errorf("Expected contact damage, core HP %d", core.Health())
	}
	if enemy.Active || runner.AliveCount() != 0 {
		t.Error("Kamikaze should be released on contact")
	}

	sensors.Update(1.0 / 60)
	if sensors.TrackedCount() != 0 {
		t.Errorf("Released enemy should be removed from the space, tracked %d", sensors.TrackedCount())
	}
}

// TestRangeSensorIgnoresOtherObjectives 只有当前目标的重叠才算进入射程
func TestRangeSensorIgnoresOtherObjectives(t *testing.T) {
	em := ecs.NewEntityManager()
	runner, enemy, core := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)
	sensors := NewRangeSensorSystem(em, behavior)
	sensors.RegisterObjective(core)

	other := game.NewCore("other", cp.Vector{X: 40, Y: 0}, 1.5, 100, false)
	sensors.RegisterObjective(other)

	enemy.Position = cp.Vector{X: 37, Y: 0}
	sensors.Update(1.0 / 60)
	if enemy.InRange {
		t.Fatal("Overlapping a non-target objective should not set in-range")
	}

	// 重定向到已经重叠的目标，下一 tick 立即进入射程
	runner.RetargetActive(other)
	sensors.Update(1.0 / 60)
	if !enemy.InRange {
		t.Error("Retargeting onto an overlapping objective should enter range")
	}
}

// TestRangeSensorZeroDelta 时间步长为 0 时不推进物理空间
func TestRangeSensorZeroDelta(t *testing.T) {
	em := ecs.NewEntityManager()
	_, enemy, core := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)
	sensors := NewRangeSensorSystem(em, behavior)
	sensors.RegisterObjective(core)

	enemy.Position = cp.Vector{X: 3, Y: 0}
	sensors.Update(0)
	if enemy.InRange {
		t.Error("No signals should be produced without a step")
	}
	if sensors.TrackedCount() != 1 {
		t.Errorf("Shapes should still be synced, tracked %d", sensors.TrackedCount())
	}
}
