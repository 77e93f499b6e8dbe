package game

import (
	"fmt"
	"sort"
	"strings"
)

// Inventory 每波结束时查询的资源摘要，仅用于日志
type Inventory interface {
	WaveResourceSummary(wave int) string
}

// ResourceLedger 按波次统计采集到的资源
type ResourceLedger struct {
	perWave map[int]map[string]int
}

// NewResourceLedger 创建空账本
func NewResourceLedger() *ResourceLedger {
	return &ResourceLedger{perWave: make(map[int]map[string]int)}
}

// Add 记录某波采集的资源
func (l *ResourceLedger) Add(wave int, resource string, amount int) {
	if amount == 0 {
		return
	}
	m, ok := l.perWave[wave]
	if !ok {
		m = make(map[string]int)
		l.perWave[wave] = m
	}
	m[resource] += amount
}

// WaveResourceSummary 返回 "gold:1, iron:3" 形式的摘要，按资源名排序
func (l *ResourceLedger) WaveResourceSummary(wave int) string {
	m := l.perWave[wave]
	if len(m) == 0 {
		return "none"
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, m[name]))
	}
	return strings.Join(parts, ", ")
}
