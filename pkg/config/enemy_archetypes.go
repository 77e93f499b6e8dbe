package config

import (
	"fmt"
	"sort"

	"github.com/gonewx/planetwave/pkg/types"
	"gopkg.in/yaml.v3"
)

// EnemyArchetype 敌人原型的只读属性
// 同一原型的所有实例共享同一个 *EnemyArchetype，运行期不得修改
type EnemyArchetype struct {
	Kind           types.EnemyKind   `yaml:"-"`              // 由映射键填充
	Health         int               `yaml:"health"`         // 初始生命值
	Speed          float64           `yaml:"speed"`          // 移动速度（单位/秒）
	AttackStyle    types.AttackStyle `yaml:"attackStyle"`    // 攻击方式
	AttackCooldown float64           `yaml:"attackCooldown"` // 攻击冷却（秒），仅远程/定点攻击使用
	AttackRange    float64           `yaml:"attackRange"`    // 射程
	AttackDamage   int               `yaml:"attackDamage"`   // 单次攻击伤害
	ContactDamage  int               `yaml:"contactDamage"`  // 自爆伤害
	ContactRadius  float64           `yaml:"contactRadius"`  // 本体半径
	DamageImmune   bool              `yaml:"damageImmune"`   // 免疫常规伤害，只能被碾压
}

// ArchetypeCatalog 原型目录，按 Kind 索引
type ArchetypeCatalog struct {
	Archetypes map[types.EnemyKind]*EnemyArchetype `yaml:"archetypes"`
}

// Get 按 Kind 查找原型
func (c *ArchetypeCatalog) Get(kind types.EnemyKind) (*EnemyArchetype, bool) {
	if c == nil {
		return nil, false
	}
	arch, ok := c.Archetypes[kind]
	return arch, ok
}

// Kinds 返回目录中所有原型（排序后）
func (c *ArchetypeCatalog) Kinds() []types.EnemyKind {
	if c == nil {
		return nil
	}
	kinds := make([]types.EnemyKind, 0, len(c.Archetypes))
	for k := range c.Archetypes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseArchetypeCatalog 解析原型目录 YAML
// 参数：
//
//	data - YAML 内容
//	source - 来源描述，仅用于错误信息
//
// 返回：
//
//	*ArchetypeCatalog - 应用缺省值并通过校验的目录
//	error - 解析或校验失败
func ParseArchetypeCatalog(data []byte, source string) (*ArchetypeCatalog, error) {
	var catalog ArchetypeCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse archetype YAML from %s: %w", source, err)
	}

	applyArchetypeDefaults(&catalog)

	if err := validateArchetypeCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid archetype catalog in %s: %w", source, err)
	}

	return &catalog, nil
}

// applyArchetypeDefaults 填充 Kind 并为缺省字段设置默认值
func applyArchetypeDefaults(catalog *ArchetypeCatalog) {
	for kind, arch := range catalog.Archetypes {
		if arch == nil {
			continue
		}
		arch.Kind = kind

		if arch.ContactRadius == 0 {
			arch.ContactRadius = DefaultContactRadius
		}

		if arch.AttackStyle.AttacksInRange() {
			if arch.AttackRange == 0 {
				arch.AttackRange = DefaultAttackRange
			}
			if arch.AttackCooldown == 0 {
				arch.AttackCooldown = DefaultAttackCooldown
			}
		}
	}
}

// validateArchetypeCatalog 验证原型目录的完整性和合法性
func validateArchetypeCatalog(catalog *ArchetypeCatalog) error {
	if len(catalog.Archetypes) == 0 {
		return fmt.Errorf("at least one archetype is required")
	}

	for kind, arch := range catalog.Archetypes {
		if arch == nil {
			return fmt.Errorf("archetype %s: definition is empty", kind)
		}
		if !kind.IsKnown() {
			return fmt.Errorf("archetype %s: unknown enemy kind", kind)
		}
		if arch.Health <= 0 {
			return fmt.Errorf("archetype %s: health must be positive, got %d", kind, arch.Health)
		}
		if arch.Speed < 0 {
			return fmt.Errorf("archetype %s: speed cannot be negative, got %.2f", kind, arch.Speed)
		}
		if !arch.AttackStyle.IsValid() {
			return fmt.Errorf("archetype %s: attackStyle must be one of: ranged, contact, stationary, got %q", kind, arch.AttackStyle)
		}
		if arch.AttackCooldown < 0 {
			return fmt.Errorf("archetype %s: attackCooldown cannot be negative, got %.2f", kind, arch.AttackCooldown)
		}
		if arch.AttackRange < 0 || arch.ContactRadius < 0 {
			return fmt.Errorf("archetype %s: attackRange and contactRadius cannot be negative", kind)
		}
		if arch.AttackDamage < 0 || arch.ContactDamage < 0 {
			return fmt.Errorf("archetype %s: damage cannot be negative", kind)
		}
	}

	return nil
}
