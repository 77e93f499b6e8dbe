// Package app 提供模拟应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：内容加载、设置持久化、遥测记录和热重载。
// 桌面端通过 main.go 调用 NewApp()。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/embedded"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// ErrWatchRequiresDir 热重载只支持磁盘上的内容目录
var ErrWatchRequiresDir = errors.New("content watching requires a content directory")

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Seed 随机种子
	Seed int64
	// ContentDir 内容目录，为空时使用嵌入的 data/
	ContentDir string
	// Watch 监听 ContentDir 中的 YAML 变化并重建场景
	Watch bool
	// SkipGate SoloA 阶段的激活信号直接进入 Combined（同时写入设置）
	SkipGate bool
	// AutoDefense 为核心安装自动防御炮塔
	AutoDefense bool
}

// App 是模拟应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	recorder     *game.SessionRecorder
	watcher      *ContentWatcher
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 未指定 ContentDir 时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Watch && cfg.ContentDir == "" {
		return nil, ErrWatchRequiresDir
	}

	read, err := contentReader(cfg.ContentDir)
	if err != nil {
		return nil, err
	}

	// gdata 不可用时退化为仅内存
	gdataManager, err := gdata.Open(gdata.Config{AppName: "planetwave"})
	if err != nil {
		log.Printf("[App] Warning: persistent storage unavailable: %v", err)
		gdataManager = nil
	}

	settings := game.NewSettingsManager(gdataManager)
	if cfg.SkipGate {
		settings.SetSkipGate(true)
	}

	recorder := game.NewSessionRecorder(gdataManager, nil)
	recorder.SetVerbose(cfg.Verbose)
	log.Printf("[App] Analytics session %s", recorder.SessionID())

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() (game.Scene, error) {
		content, err := config.LoadContent(read)
		if err != nil {
			return nil, err
		}
		scene, err := scenes.NewBattleScene(content, scenes.BattleOptions{
			Seed:        cfg.Seed,
			Settings:    settings.GetSettings(),
			Analytics:   recorder,
			AutoDefense: cfg.AutoDefense,
		})
		if err != nil {
			return nil, err
		}
		return scene, nil
	})
	if err := sceneManager.Reload(); err != nil {
		return nil, fmt.Errorf("failed to start simulation: %w", err)
	}

	a := &App{
		sceneManager: sceneManager,
		settings:     settings,
		recorder:     recorder,
		verbose:      cfg.Verbose,
	}

	if cfg.Watch {
		watcher, err := NewContentWatcher(cfg.ContentDir, DefaultDebounce)
		if err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", cfg.ContentDir, err)
		}
		a.watcher = watcher
		log.Printf("[App] Watching %s for content changes", cfg.ContentDir)
	}

	return a, nil
}

// contentReader 选择内容来源
func contentReader(dir string) (config.ReadFileFunc, error) {
	if dir != "" {
		return config.DirReader(dir), nil
	}
	if !embedded.IsInitialized() {
		return nil, embedded.ErrNotInitialized
	}
	return embedded.ReadFile, nil
}

// Update 更新模拟逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.pollContentChanges()
	a.handleDebugKeys()

	return a.sceneManager.Update(1.0 / 60.0)
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		return
	}
	ebiten.SetFullscreen(true)
}

// pollContentChanges 内容文件变化时重建场景，失败则保留当前场景
func (a *App) pollContentChanges() {
	if a.watcher == nil {
		return
	}
	select {
	case name, ok := <-a.watcher.Events():
		if !ok {
			a.watcher = nil
			return
		}
		log.Printf("[App] Content changed: %s", name)
		a.restart()
	default:
	}
}

// handleDebugKeys 调试快捷键
func (a *App) handleDebugKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.restart()
		return
	}

	scene := a.battleScene()
	if scene == nil {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		scene.ActivateZoneB()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		scene.ForceCombined()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		skip := !a.settings.GetSettings().SkipGate
		a.settings.SetSkipGate(skip)
		scene.SetSkipGate(skip)
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	}
}

func (a *App) restart() {
	if err := a.sceneManager.Reload(); err != nil {
		log.Printf("[App] Warning: %v (keeping current scene)", err)
	}
}

func (a *App) battleScene() *scenes.BattleScene {
	scene, _ := a.sceneManager.GetCurrentScene().(*scenes.BattleScene)
	return scene
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 关闭场景和监听器，落盘遥测和设置
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	errs = append(errs,
		a.sceneManager.Close(),
		a.recorder.Close(),
		a.settings.Save(),
	)
	return errors.Join(errs...)
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
