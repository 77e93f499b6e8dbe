package config

// 布局配置常量
// 世界坐标以区域 A 核心为原点，单位与内容文件一致；屏幕坐标为像素

// Window Configuration (窗口配置)
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 960

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 540

	// WorldScale 每个世界单位对应的像素数
	// 两个核心相距 120，加上两侧生成环，整体约 200 个单位宽
	WorldScale = 4.0

	// MinEnemyDrawRadius 敌人最小绘制半径（像素），避免小型原型看不见
	MinEnemyDrawRadius = 2.0
)

// HUD Configuration (调试信息面板)
const (
	// HUDMarginX HUD 文本左边距
	HUDMarginX = 8

	// HUDMarginY HUD 文本上边距
	HUDMarginY = 8

	// HUDLineHeight HUD 行高（ebitenutil 调试字体）
	HUDLineHeight = 16
)

// Defense Turret Configuration (自动防御炮塔)
// 无人值守运行（wavesim）和演示模式下守护核心，保证波次能够清空
const (
	// TurretRange 炮塔射程（从核心中心算起）
	TurretRange = 12.0

	// TurretDamage 单发伤害
	TurretDamage = 2

	// TurretCooldown 射击间隔（秒）
	TurretCooldown = 0.4

	// TurretCrushRadius 免疫原型进入该距离后被核心碾压
	TurretCrushRadius = 4.0
)
