package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// DebugSettings 调试开关，跨会话持久化
type DebugSettings struct {
	SkipGate             bool   `yaml:"skipGate"`             // SoloA 阶段的激活信号直接进入 Combined
	AutoDetectActivation bool   `yaml:"autoDetectActivation"` // 轮询区域 B 激活状态
	Verbose              bool   `yaml:"verbose"`              // 逐 tick 详细日志
	RetargetOnRevive     string `yaml:"retargetOnRevive"`     // 覆盖内容文件中的策略，空表示不覆盖
}

// DefaultSettings 返回默认设置
func DefaultSettings() *DebugSettings {
	return &DebugSettings{
		SkipGate:             false,
		AutoDetectActivation: true,
		Verbose:              false,
	}
}

// SettingsManager 设置管理器
// 负责调试设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *DebugSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "debug"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例，加载失败时使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或数据不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *DebugSettings {
	return sm.settings
}

// SetSkipGate 设置跳过闸门
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetSkipGate(skip bool) {
	sm.settings.SkipGate = skip
}

// SetVerbose 设置详细日志
func (sm *SettingsManager) SetVerbose(verbose bool) {
	sm.settings.Verbose = verbose
}

// SetAutoDetectActivation 设置是否轮询区域 B 激活
func (sm *SettingsManager) SetAutoDetectActivation(enabled bool) {
	sm.settings.AutoDetectActivation = enabled
}
