package components

import "github.com/gonewx/planetwave/pkg/types"

// ZoneWaveState 区域波次状态机的状态
type ZoneWaveState int

const (
	// ZoneIdle 等待倒计时或等待本波清空
	ZoneIdle ZoneWaveState = iota
	// ZoneSpawning 正在按爆发节奏出兵
	ZoneSpawning
	// ZoneCompleted 所有波次已出完且清空
	ZoneCompleted
)

// String 返回状态名称
func (s ZoneWaveState) String() string {
	switch s {
	case ZoneIdle:
		return "Idle"
	case ZoneSpawning:
		return "Spawning"
	case ZoneCompleted:
		return "Completed"
	}
	return "Unknown"
}

// ZoneWaveComponent 区域波次状态
// 挂在区域实体上，由 ZoneWaveRunner 独占读写
// 注意：遵循 ECS 原则，组件仅存储数据，不包含方法
type ZoneWaveComponent struct {
	Zone  types.ZoneID
	State ZoneWaveState

	// WaveIndex 已出完的波次数（0-based 的下一个波次索引），只增不减
	WaveIndex int
	// TotalWaves 定义的波次总数
	TotalWaves int

	// Countdown 距离下一波开始的剩余时间（秒）
	// 只有在本波清空、区域启用且未完成时递减
	Countdown float64

	// Enabled 区域是否启用；暂停时为 false，倒计时和出兵都冻结
	Enabled bool

	// AliveCount 当前活跃实例数（出池 - 回池）
	AliveCount int
	// Outstanding 本波尚未结束的敌人数（活跃 + 尚未生成）
	// 开波时等于本波总数，回池或跳过生成时递减
	Outstanding int

	// KindOrder 本波原型的首次出现顺序，Remaining 为各原型剩余待生成数量
	KindOrder []types.EnemyKind
	Remaining map[types.EnemyKind]int

	// NextBurstIn 距离下一次爆发的剩余时间（秒），保存爆发循环的续点
	NextBurstIn float64

	// ClearPending 本波开始后尚未发出清空通知
	ClearPending bool

	// SpawnSeq 区域内累计出生数，用作实例序号
	SpawnSeq int
}
