package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 可被 SceneManager 驱动的场景
type Scene interface {
	// Update 推进一个固定步长的 tick，返回错误时主循环终止
	Update(deltaTime float64) error

	// Draw 将场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，场景被替换或程序退出时调用
//
// 用于在退出前落盘分析数据、取消事件订阅。
type Closer interface {
	Close() error
}
