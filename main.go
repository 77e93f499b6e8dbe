package main

import (
	"flag"
	"log"
	"os"

	"github.com/gonewx/planetwave/pkg/app"
	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	seed        = flag.Int64("seed", 1, "随机种子")
	contentDir  = flag.String("content", "", "内容目录（为空时使用内置内容）")
	watch       = flag.Bool("watch", false, "监听内容目录变化并自动重建场景")
	skipGate    = flag.Bool("skip-gate", false, "SoloA 阶段的激活信号直接进入 Combined")
	autoDefense = flag.Bool("auto-defense", true, "为核心安装自动防御炮塔")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		Seed:        *seed,
		ContentDir:  *contentDir,
		Watch:       *watch,
		SkipGate:    *skipGate,
		AutoDefense: *autoDefense,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Planet Wave")

	runErr := ebiten.RunGame(gameApp)
	if err := gameApp.Close(); err != nil {
		log.Printf("[Main] Warning: shutdown: %v", err)
	}
	if runErr != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(runErr)
	}
}
