package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/jakecoffman/cp"
)

func newTestBehavior(em *ecs.EntityManager) (*EnemyBehaviorSystem, *recordingAnalytics) {
	analytics := &recordingAnalytics{}
	return NewEnemyBehaviorSystem(em, analytics, rand.New(rand.NewSource(1))), analytics
}

// TestEnemyBehaviorMoveTowardTarget 射程外朝目标匀速移动并面向目标
func TestEnemyBehaviorMoveTowardTarget(t *testing.T) {
	em := ecs.NewEntityManager()
	_, enemy, _ := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)

	enemy.Position = cp.Vector{X: 10, Y: 0}
	behavior.Update(0.5)

	if enemy.Position.Distance(cp.Vector{X: 8, Y: 0}) > 1e-9 {
		t.Errorf("Expected position (8,0), got %v", enemy.Position)
	}
	if math.Abs(math.Abs(enemy.Rotation)-math.Pi) > 1e-9 {
		t.Errorf("Expected rotation π, got %f", enemy.Rotation)
	}
}

// TestEnemyBehaviorNoOvershoot 单步移动不会越过目标
func TestEnemyBehaviorNoOvershoot(t *testing.T) {
	em := ecs.NewEntityManager()
	_, enemy, _ := spawnSingle(t, em, types.EnemyKamikaze)
	behavior, _ := newTestBehavior(em)

	enemy.Position = cp.Vector{X: 1, Y: 0}
	behavior.Update(10)

	if enemy.Position.Length() > 1e-9 {
		t.Errorf("Expected to stop on the target, got %v", enemy.Position)
	}
}

// TestEnemyBehaviorAttackCooldown 射程内按冷却攻击，首次攻击只上报一次
func TestEnemyBehaviorAttackCooldown(t *testing.T) {
	em := ecs.NewEntityManager()
	_, enemy, core := spawnSingle(t, em, types.EnemyRanged)
	behavior, analytics := newTestBehavior(em)

	enemy.Position = cp.Vector{X: 4, Y: 0}
	behavior.EnterRange(enemy)

	behavior.Update(0.5)
	if core.Health() != 95 {
		t.Fatalf("Expected first attack immediately, core HP %d", core.Health())
	}
	if enemy.AttackTimer != 2 {
		t.Errorf("Expected timer reset to cooldown 2, got %f", enemy.AttackTimer)
	}

	for i := 0; i < 4; i++ {
		behavior.Update(0.5)
	}
	if core.Health() != 95 {
		t.Errorf("Expected no attack during cooldown, core HP %d", core.Health())
	}

	behavior.Update(0.5)
	if core.Health() != 90 {
		t.Errorf("Expected second attack after cooldown, core HP %d", core.Health())
	}
	if analytics.firstAttacks != 1 {
		t.Errorf("Expected one first-attack event, got %d", analytics.firstAttacks)
	}
	if enemy.Position != (cp.Vector{X: 4, Y: 0}) {
		t.Errorf("Ranged enemy should hold position while in range, got %v", enemy.Position)
	}
}

// TestEnemyBehaviorExitRange 离开射程后继续移动
func TestEnemyBehaviorExitRange(t *testing.T) {
	em := ecs.NewEntityManager()
	_, enemy, _ := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)

	enemy.Position = cp.Vector{X: 10, Y: 0}
	behavior.EnterRange(enemy)
	behavior.ExitRange(enemy)
	behavior.Update(0.5)

	if enemy.Position.X >= 10 {
		t.Errorf("Expected enemy to move after leaving range, got %v", enemy.Position)
	}
}

// TestEnemyBehaviorLeash 超出拴绳距离时回收到目标周围的生成环，本 tick 不再行动
func TestEnemyBehaviorLeash(t *testing.T) {
	em := ecs.NewEntityManager()
	runner, enemy, core := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)

	enemy.Position = cp.Vector{X: runner.LeashDistance() + 10, Y: 0}
	enemy.InRange = true
	behavior.Update(0.1)

	d := enemy.Position.Distance(core.Position())
	if math.Abs(d-enemy.RecoveryRing.Radius()) > 1e-6 {
		t.Errorf("Expected recovery onto ring radius %.3f, got distance %.3f", enemy.RecoveryRing.Radius(), d)
	}
	if enemy.InRange {
		t.Error("Recovery should clear the in-range flag")
	}
	if core.Health() != core.MaxHealth() {
		t.Error("Enemy should not attack on the recovery tick")
	}
}

// TestEnemyBehaviorApplyDamage 死亡只上报一次，并回到对象池
func TestEnemyBehaviorApplyDamage(t *testing.T) {
	em := ecs.NewEntityManager()
	runner, enemy, _ := spawnSingle(t, em, types.EnemyRanged)
	behavior, analytics := newTestBehavior(em)

	if behavior.ApplyDamage(enemy, 4, CauseWeapon) {
		t.Fatal("4 damage should not kill a 10 HP enemy")
	}
	if enemy.Health != 6 {
		t.Errorf("Expected 6 HP, got %d", enemy.Health)
	}

	if !behavior.ApplyDamage(enemy, 100, CauseWeapon) {
		t.Fatal("Lethal damage should report death")
	}
	if enemy.Active || runner.AliveCount() != 0 {
		t.Errorf("Dead enemy should be released, active=%v alive=%d", enemy.Active, runner.AliveCount())
	}

	if behavior.ApplyDamage(enemy, 100, CauseWeapon) {
		t.Error("Damage after death should be ignored")
	}
	if len(analytics.kills) != 1 || analytics.kills[0] != CauseWeapon {
		t.Errorf("Expected exactly one weapon kill, got %v", analytics.kills)
	}
}

// TestEnemyBehaviorDamageImmune 免疫原型只能被碾压
func TestEnemyBehaviorDamageImmune(t *testing.T) {
	tests := []struct {
		name      string
		cause     string
		wantDeath bool
	}{
		{"武器伤害无效", CauseWeapon, false},
		{"碾压必死", CauseCrushed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			_, enemy, _ := spawnSingle(t, em, types.EnemyParasite)
			behavior, _ := newTestBehavior(em)

			died := behavior.ApplyDamage(enemy, 1000, tt.cause)
			if died != tt.wantDeath {
				t.Errorf("Expected death=%v, got %v", tt.wantDeath, died)
			}
			if !tt.wantDeath && enemy.Health != enemy.Archetype.Health {
				t.Errorf("Immune enemy health should be unchanged, got %d", enemy.Health)
			}
		})
	}
}

// TestEnemyBehaviorContact 自爆兵接触目标后造成伤害并回池；远程敌人接触无效果
func TestEnemyBehaviorContact(t *testing.T) {
	em := ecs.NewEntityManager()
	runner, enemy, core := spawnSingle(t, em, types.EnemyKamikaze)
	behavior, analytics := newTestBehavior(em)

	behavior.Contact(enemy, core)

	if core.Health() != 90 {
		t.Errorf("Expected core HP 90, got %d", core.Health())
	}
	if enemy.Active || runner.AliveCount() != 0 {
		t.Error("Kamikaze should be released after exploding")
	}
	if len(analytics.kills) != 0 {
		t.Errorf("Explosion is not a kill, got %v", analytics.kills)
	}

	em2 := ecs.NewEntityManager()
	_, ranged, core2 := spawnSingle(t, em2, types.EnemyRanged)
	behavior2, _ := newTestBehavior(em2)
	behavior2.Contact(ranged, core2)
	if !ranged.Active || core2.Health() != 100 {
		t.Error("Contact should not affect ranged enemies")
	}
}

// TestEnemyBehaviorTargetLost 目标被摧毁后实例回池
func TestEnemyBehaviorTargetLost(t *testing.T) {
	em := ecs.NewEntityManager()
	runner, enemy, core := spawnSingle(t, em, types.EnemyRanged)
	behavior, _ := newTestBehavior(em)

	core.TakeDamage(1000)
	behavior.Update(0.1)

	if enemy.Active {
		t.Error("Enemy without a living target should be released")
	}
	if runner.AliveCount() != 0 || runner.Outstanding() != 0 {
		t.Errorf("Expected alive=0 outstanding=0, got %d/%d", runner.AliveCount(), runner.Outstanding())
	}
}
