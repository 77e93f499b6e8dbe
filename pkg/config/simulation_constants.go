package config

// 内容文件缺省值，与原版关卡参数保持一致
const (
	// DefaultTimeBetweenWaves 两波之间的间隔（秒）
	DefaultTimeBetweenWaves = 5.0
	// DefaultInitialCountdown 首波开始前的倒计时（秒）
	DefaultInitialCountdown = 10.0

	// DefaultPoolWarmCount 对象池预热数量
	DefaultPoolWarmCount = 10
	// DefaultPoolCapacity 对象池容量上限（同时存活的实例数）
	DefaultPoolCapacity = 100

	// DefaultLeashDistance 敌人与目标的最大距离，超出后回收到目标周围的生成环
	// 必须大于生成环半径，否则刚回收的实例会被再次回收
	DefaultLeashDistance = 60.0

	// DefaultRingHalfHeight 生成环基于的视野半高
	DefaultRingHalfHeight = 20.0
	// DefaultRingAspect 视野宽高比
	DefaultRingAspect = 16.0 / 9.0
	// DefaultRingOffset 生成环在视野外的额外距离
	DefaultRingOffset = 2.0

	// DefaultSpawnInterval 同一波内两次爆发之间的间隔（秒）
	DefaultSpawnInterval = 2.0
	// DefaultMinPerBurst 每次爆发的最少数量
	DefaultMinPerBurst = 1
	// DefaultMaxPerBurst 每次爆发的最多数量
	DefaultMaxPerBurst = 3

	// DefaultObjectiveHealth 核心默认生命值
	DefaultObjectiveHealth = 100
	// DefaultObjectiveRadius 核心碰撞半径
	DefaultObjectiveRadius = 1.5

	// DefaultGateWave 区域 A 在该波次清空后暂停，等待区域 B 激活
	DefaultGateWave = 4
	// DefaultFinalWaveA 区域 A 的最终波次
	DefaultFinalWaveA = 8
	// DefaultFinalWaveB 区域 B 的最终波次
	DefaultFinalWaveB = 4

	// DefaultAttackRange 远程原型的缺省射程
	DefaultAttackRange = 5.0
	// DefaultAttackCooldown 远程原型的缺省攻击冷却（秒）
	DefaultAttackCooldown = 2.0
	// DefaultContactRadius 敌人本体半径
	DefaultContactRadius = 0.5
)

// 内容文件在 data 目录下的默认路径
const (
	ArchetypesPath = "data/archetypes.yaml"
	ZonesPath      = "data/zones.yaml"
)
