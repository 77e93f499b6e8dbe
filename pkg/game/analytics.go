package game

import (
	"log"

	"github.com/gonewx/planetwave/pkg/types"
	"github.com/jakecoffman/cp"
)

// Analytics 模拟对外发出的遥测事件
//
// wave 参数均为从 1 开始的波次编号。实现不得阻塞调用方。
type Analytics interface {
	WaveStart(zone types.ZoneID, wave int, coreHP int)
	WaveComplete(zone types.ZoneID, wave int, coreHP int)
	WaveFail(zone types.ZoneID, wave int, coreHP int)
	WaveResources(zone types.ZoneID, wave int, summary string)
	EnemySpawn(zone types.ZoneID, kind types.EnemyKind, seq int, pos cp.Vector)
	EnemyKilled(zone types.ZoneID, kind types.EnemyKind, cause string)
	EnemyFirstAttack(zone types.ZoneID, kind types.EnemyKind, seq int)
}

// NopAnalytics 丢弃所有事件
type NopAnalytics struct{}

func (NopAnalytics) WaveStart(types.ZoneID, int, int)                         {}
func (NopAnalytics) WaveComplete(types.ZoneID, int, int)                      {}
func (NopAnalytics) WaveFail(types.ZoneID, int, int)                          {}
func (NopAnalytics) WaveResources(types.ZoneID, int, string)                  {}
func (NopAnalytics) EnemySpawn(types.ZoneID, types.EnemyKind, int, cp.Vector) {}
func (NopAnalytics) EnemyKilled(types.ZoneID, types.EnemyKind, string)        {}
func (NopAnalytics) EnemyFirstAttack(types.ZoneID, types.EnemyKind, int)      {}

// SafeAnalytics 包装任意 Analytics，吞掉实现内部的 panic
// 遥测失败只记录日志，永远不会影响生成或战斗流程
type SafeAnalytics struct {
	inner Analytics
}

// NewSafeAnalytics 创建安全包装；inner 为 nil 时退化为 NopAnalytics
func NewSafeAnalytics(inner Analytics) *SafeAnalytics {
	if inner == nil {
		inner = NopAnalytics{}
	}
	return &SafeAnalytics{inner: inner}
}

func guard(event string) {
	if r := recover(); r != nil {
		log.Printf("[Analytics] Warning: %s sink panicked: %v", event, r)
	}
}

func (s *SafeAnalytics) WaveStart(zone types.ZoneID, wave int, coreHP int) {
	defer guard("wave_start")
	s.inner.WaveStart(zone, wave, coreHP)
}

func (s *SafeAnalytics) WaveComplete(zone types.ZoneID, wave int, coreHP int) {
	defer guard("wave_complete")
	s.inner.WaveComplete(zone, wave, coreHP)
}

func (s *SafeAnalytics) WaveFail(zone types.ZoneID, wave int, coreHP int) {
	defer guard("wave_fail")
	s.inner.WaveFail(zone, wave, coreHP)
}

func (s *SafeAnalytics) WaveResources(zone types.ZoneID, wave int, summary string) {
	defer guard("wave_resources")
	s.inner.WaveResources(zone, wave, summary)
}

func (s *SafeAnalytics) EnemySpawn(zone types.ZoneID, kind types.EnemyKind, seq int, pos cp.Vector) {
	defer guard("enemy_spawn")
	s.inner.EnemySpawn(zone, kind, seq, pos)
}

func (s *SafeAnalytics) EnemyKilled(zone types.ZoneID, kind types.EnemyKind, cause string) {
	defer guard("enemy_defeated")
	s.inner.EnemyKilled(zone, kind, cause)
}

func (s *SafeAnalytics) EnemyFirstAttack(zone types.ZoneID, kind types.EnemyKind, seq int) {
	defer guard("enemy_first_attack")
	s.inner.EnemyFirstAttack(zone, kind, seq)
}
