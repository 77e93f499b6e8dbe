// Package types 定义共享的基础类型
package types

// EnemyKind 敌人原型标识，与内容文件中的键一一对应
type EnemyKind string

const (
	EnemyRanged        EnemyKind = "ranged"         // 远程射手
	EnemyRangedHeavy   EnemyKind = "ranged_heavy"   // 重装远程
	EnemyKamikaze      EnemyKind = "kamikaze"       // 自爆兵
	EnemyKamikazeHeavy EnemyKind = "kamikaze_heavy" // 重装自爆兵
	EnemyParasite      EnemyKind = "parasite"       // 寄生体
	EnemyBoss          EnemyKind = "boss"           // 首领
)

// AllEnemyKinds 按内容文件约定顺序返回全部已知原型
func AllEnemyKinds() []EnemyKind {
	return []EnemyKind{
		EnemyRanged,
		EnemyRangedHeavy,
		EnemyKamikaze,
		EnemyKamikazeHeavy,
		EnemyParasite,
		EnemyBoss,
	}
}

// IsKnown 检查原型是否属于内置集合
func (k EnemyKind) IsKnown() bool {
	for _, known := range AllEnemyKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// AttackStyle 攻击方式
type AttackStyle string

const (
	// AttackRanged 进入射程后原地按冷却射击
	AttackRanged AttackStyle = "ranged"
	// AttackContact 接触目标即自爆
	AttackContact AttackStyle = "contact"
	// AttackStationary 贴近目标后原地持续攻击
	AttackStationary AttackStyle = "stationary"
)

// AttacksInRange 返回该攻击方式是否依赖射程信号
func (s AttackStyle) AttacksInRange() bool {
	return s == AttackRanged || s == AttackStationary
}

// IsValid 检查攻击方式是否合法
func (s AttackStyle) IsValid() bool {
	switch s {
	case AttackRanged, AttackContact, AttackStationary:
		return true
	}
	return false
}

// ZoneID 区域标识
type ZoneID string

const (
	ZonePlanet1 ZoneID = "planet1" // 主区域 A
	ZonePlanet2 ZoneID = "planet2" // 次区域 B
)
