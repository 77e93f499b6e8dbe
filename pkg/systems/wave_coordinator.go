package systems

import (
	"fmt"
	"log"

	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/game"
)

// CoordinatorPhase 跨区域协调阶段
// 只会按 SoloA → GateWait → Combined → Done 的顺序前进
type CoordinatorPhase int

const (
	// PhaseSoloA 只有区域 A 在出兵
	PhaseSoloA CoordinatorPhase = iota
	// PhaseGateWait 区域 A 到达闸门波次后暂停，等待区域 B 激活
	PhaseGateWait
	// PhaseCombined 两个区域同时出兵
	PhaseCombined
	// PhaseDone 两个区域都完成最终波次
	PhaseDone
)

// String 返回阶段名称
func (p CoordinatorPhase) String() string {
	switch p {
	case PhaseSoloA:
		return "SoloA"
	case PhaseGateWait:
		return "GateWait"
	case PhaseCombined:
		return "Combined"
	case PhaseDone:
		return "Done"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// RetargetPolicy 区域 B 核心复活后已重定向实例的处理方式
type RetargetPolicy int

const (
	// RetargetKeepOnRevive 已改打区域 A 的实例保持不变，只有新生成的实例攻击区域 B
	RetargetKeepOnRevive RetargetPolicy = iota
	// RetargetRestoreOnRevive 复活时把区域 B 的所有活跃实例改回攻击区域 B
	RetargetRestoreOnRevive
)

// ParseRetargetPolicy 解析配置中的策略名
func ParseRetargetPolicy(name string) (RetargetPolicy, error) {
	switch name {
	case "", "keep":
		return RetargetKeepOnRevive, nil
	case "restore":
		return RetargetRestoreOnRevive, nil
	}
	return RetargetKeepOnRevive, fmt.Errorf("unknown retarget policy %q", name)
}

// ZoneController 协调器对区域运行器的依赖
type ZoneController interface {
	Pause()
	Resume()
	WaveIndex() int
	Outstanding() int
}

// RetargetableZone 支持核心被摧毁时重定向的区域（区域 B）
type RetargetableZone interface {
	ZoneController
	RetargetActive(obj game.Objective) int
	SetPrimaryObjectiveAlive(alive bool)
}

// finishedReporter 能报告已跑完全部波次的区域
type finishedReporter interface {
	IsFinished() bool
}

// ActivationSource 区域 B 的激活状态，协调器在自动检测模式下轮询
type ActivationSource interface {
	IsActive() bool
}

// WaveCoordinator 跨区域协调器
//
// 职责：
//   - 区域 A 到达闸门波次并清空后暂停 A
//   - 收到区域 B 激活信号后同时恢复两个区域
//   - 两个区域都完成最终波次后进入 Done
//   - 区域 B 核心被摧毁/复活时重定向 B 的敌人
//
// 缺失的区域或核心视为已完成，相关操作变为空操作。协调器本身不会失败。
type WaveCoordinator struct {
	zoneA ZoneController
	zoneB RetargetableZone

	objectiveA game.Objective
	objectiveB game.Objective

	gateWave   int
	finalWaveA int
	finalWaveB int

	phase           CoordinatorPhase
	history         []CoordinatorPhase
	zoneBActivated  bool
	skipGate        bool
	autoDetect      bool
	activation      ActivationSource
	lastActivation  bool
	retargetPolicy  RetargetPolicy
	zoneBRetargeted bool
	subscriptions   []*game.Subscription
	onPhaseChange   []func(from, to CoordinatorPhase)
}

// NewWaveCoordinator 创建协调器，并在构造时暂停区域 B
//
// 参数：
//   - zoneA: 主区域，可为 nil（视为已完成）
//   - zoneB: 次区域，可为 nil（视为已完成）
//   - cfg: 闸门与最终波次配置
func NewWaveCoordinator(zoneA ZoneController, zoneB RetargetableZone, cfg config.CoordinatorConfig) *WaveCoordinator {
	policy, err := ParseRetargetPolicy(cfg.RetargetOnRevive)
	if err != nil {
		log.Printf("[WaveCoordinator] Content error: %v, using keep", err)
	}

	c := &WaveCoordinator{
		zoneA:          zoneA,
		zoneB:          zoneB,
		gateWave:       cfg.GateWave,
		finalWaveA:     cfg.FinalWaveA,
		finalWaveB:     cfg.FinalWaveB,
		phase:          PhaseSoloA,
		history:        []CoordinatorPhase{PhaseSoloA},
		skipGate:       cfg.SkipGate,
		autoDetect:     cfg.AutoDetectActivation,
		retargetPolicy: policy,
	}

	if c.zoneB != nil {
		c.zoneB.Pause()
	}

	log.Printf("[WaveCoordinator] Initialized: gate wave %d, final waves A=%d B=%d, skipGate=%v",
		c.gateWave, c.finalWaveA, c.finalWaveB, c.skipGate)
	return c
}

// SetActivationSource 设置自动检测模式下轮询的激活源
func (c *WaveCoordinator) SetActivationSource(src ActivationSource) {
	c.activation = src
}

// SetAutoDetectActivation 开关激活源轮询
func (c *WaveCoordinator) SetAutoDetectActivation(enabled bool) {
	c.autoDetect = enabled
}

// SetSkipGate 调试开关：SoloA 阶段收到激活信号时直接进入 Combined
// 未收到激活信号时区域 A 仍在闸门暂停
func (c *WaveCoordinator) SetSkipGate(skip bool) {
	c.skipGate = skip
	log.Printf("[WaveCoordinator] skipGate = %v", skip)
}

// SetRetargetPolicy 设置区域 B 核心复活后的重定向策略
func (c *WaveCoordinator) SetRetargetPolicy(policy RetargetPolicy) {
	c.retargetPolicy = policy
}

// OnPhaseChange 注册阶段变化回调
func (c *WaveCoordinator) OnPhaseChange(fn func(from, to CoordinatorPhase)) {
	c.onPhaseChange = append(c.onPhaseChange, fn)
}

// BindObjectives 订阅区域 B 核心的摧毁/复活事件
//
// objectiveA 为 B 核心被摧毁期间的备用目标。任一参数为 nil 时不订阅。
func (c *WaveCoordinator) BindObjectives(objectiveA game.Objective, objectiveB game.Objective, eventsB game.ObjectiveEvents) {
	c.objectiveA = objectiveA
	c.objectiveB = objectiveB
	if c.zoneB == nil || eventsB == nil || objectiveA == nil {
		return
	}

	c.subscriptions = append(c.subscriptions,
		eventsB.OnDestroyed(c.handleZoneBObjectiveDestroyed),
		eventsB.OnRevived(c.handleZoneBObjectiveRevived),
	)
}

// handleZoneBObjectiveDestroyed 区域 B 核心被摧毁：B 的所有活跃实例立即改打 A 的核心
func (c *WaveCoordinator) handleZoneBObjectiveDestroyed() {
	c.zoneB.SetPrimaryObjectiveAlive(false)
	n := c.zoneB.RetargetActive(c.objectiveA)
	c.zoneBRetargeted = true
	log.Printf("[WaveCoordinator] Zone B objective destroyed, %d enemies retargeted to zone A", n)
}

// handleZoneBObjectiveRevived 区域 B 核心复活：新生成的实例攻击 B，已有实例按策略处理
func (c *WaveCoordinator) handleZoneBObjectiveRevived() {
	c.zoneB.SetPrimaryObjectiveAlive(true)
	if c.retargetPolicy == RetargetRestoreOnRevive && c.objectiveB != nil {
		n := c.zoneB.RetargetActive(c.objectiveB)
		log.Printf("[WaveCoordinator] Zone B objective revived, %d enemies restored to zone B", n)
		c.zoneBRetargeted = false
		return
	}
	log.Printf("[WaveCoordinator] Zone B objective revived, existing enemies keep their current target")
}

// Update 在两个区域更新之后调用，推进阶段
func (c *WaveCoordinator) Update() {
	if c.phase == PhaseDone {
		return
	}

	if c.autoDetect && c.activation != nil {
		active := c.activation.IsActive()
		if active && !c.lastActivation {
			c.NotifyZoneBActivated()
		}
		c.lastActivation = active
	}

	switch c.phase {
	case PhaseSoloA:
		if c.skipGate && c.zoneBActivated {
			c.startCombined()
			return
		}
		if c.zoneAPassedGate() {
			if c.zoneA != nil {
				c.zoneA.Pause()
			}
			c.setPhase(PhaseGateWait)
			log.Printf("[WaveSync] Zone A reached gate wave %d, waiting for zone B activation", c.gateWave)
		}

	case PhaseGateWait:
		if c.zoneBActivated {
			c.startCombined()
		}

	case PhaseCombined:
		if c.zoneCompleted(c.zoneA, c.finalWaveA) && c.zoneCompleted(c.zoneB, c.finalWaveB) {
			c.setPhase(PhaseDone)
			log.Printf("[WaveSync] Both zones completed their final waves")
		}
	}
}

// zoneAPassedGate 区域 A 清空闸门波次，或已跑完全部波次
func (c *WaveCoordinator) zoneAPassedGate() bool {
	if c.zoneA == nil {
		return true
	}
	if c.zoneA.Outstanding() != 0 {
		return false
	}
	return c.zoneA.WaveIndex() >= c.gateWave || isZoneFinished(c.zoneA)
}

// zoneCompleted 缺失的区域视为已完成
func (c *WaveCoordinator) zoneCompleted(zone ZoneController, finalWave int) bool {
	if zone == nil {
		return true
	}
	// 接口内是 nil 指针时同样视为缺失
	if rz, ok := zone.(*ZoneWaveRunner); ok && rz == nil {
		return true
	}
	if zone.Outstanding() != 0 {
		return false
	}
	return zone.WaveIndex() >= finalWave || isZoneFinished(zone)
}

// isZoneFinished 区域已没有后续波次（空区域或跑完全部波次）
func isZoneFinished(zone ZoneController) bool {
	f, ok := zone.(finishedReporter)
	return ok && f.IsFinished()
}

// NotifyZoneBActivated 区域 B 激活信号
//
// GateWait 阶段或开启 skipGate 的 SoloA 阶段立即进入 Combined；
// 其他时候记录下来，区域 A 到达闸门后生效。
func (c *WaveCoordinator) NotifyZoneBActivated() {
	if c.zoneBActivated {
		return
	}
	c.zoneBActivated = true
	log.Printf("[WaveSync] Zone B activation received in phase %s", c.phase)

	if c.phase == PhaseGateWait || (c.phase == PhaseSoloA && c.skipGate) {
		c.startCombined()
	}
}

// ForceCombinedStartNow 调试：跳过闸门直接进入 Combined
// 已处于 Combined 或 Done 时为空操作
func (c *WaveCoordinator) ForceCombinedStartNow() {
	if c.phase >= PhaseCombined {
		return
	}
	log.Printf("[WaveSync] Force combined start requested")
	c.zoneBActivated = true
	c.startCombined()
}

func (c *WaveCoordinator) startCombined() {
	if c.phase >= PhaseCombined {
		return
	}
	if c.zoneA != nil {
		c.zoneA.Resume()
	}
	if c.zoneB != nil {
		c.zoneB.Resume()
	}
	c.setPhase(PhaseCombined)
	log.Printf("[WaveSync] Combined phase started, both zones running")
}

func (c *WaveCoordinator) setPhase(next CoordinatorPhase) {
	if next <= c.phase {
		return
	}
	prev := c.phase
	c.phase = next
	c.history = append(c.history, next)
	for _, fn := range c.onPhaseChange {
		fn(prev, next)
	}
}

// Phase 返回当前阶段
func (c *WaveCoordinator) Phase() CoordinatorPhase { return c.phase }

// PhaseHistory 返回经历过的阶段（按顺序）
func (c *WaveCoordinator) PhaseHistory() []CoordinatorPhase {
	out := make([]CoordinatorPhase, len(c.history))
	copy(out, c.history)
	return out
}

// ZoneBActivated 返回是否已收到区域 B 激活信号
func (c *WaveCoordinator) ZoneBActivated() bool { return c.zoneBActivated }

// SkipGate 返回 skipGate 开关状态
func (c *WaveCoordinator) SkipGate() bool { return c.skipGate }

// ZoneBRetargeted 返回区域 B 的实例当前是否被重定向到区域 A
func (c *WaveCoordinator) ZoneBRetargeted() bool { return c.zoneBRetargeted }

// Close 取消所有事件订阅
func (c *WaveCoordinator) Close() {
	for _, sub := range c.subscriptions {
		sub.Cancel()
	}
	c.subscriptions = nil
}
