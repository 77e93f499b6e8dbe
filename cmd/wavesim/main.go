// wavesim 无界面运行两区域波次模拟，用于调试内容和回归
//
// 用法：
//
//	go run ./cmd/wavesim -seed 7 -activate-at 30
//	go run ./cmd/wavesim -content data -max-ticks 36000 -csv wave
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/scenes"
)

const tickDelta = 1.0 / 60.0

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	seed        = flag.Int64("seed", 1, "随机种子")
	contentDir  = flag.String("content", "data", "内容目录")
	maxTicks    = flag.Int("max-ticks", 60*60*20, "最多运行的 tick 数")
	activateAt  = flag.Float64("activate-at", 0, "在该模拟时间（秒）发出区域 B 激活信号，负数表示从不激活")
	skipGate    = flag.Bool("skip-gate", false, "SoloA 阶段的激活信号直接进入 Combined")
	forceAt     = flag.Float64("force-combined-at", -1, "在该模拟时间（秒）强制进入 Combined，负数表示不强制")
	autoDefense = flag.Bool("auto-defense", true, "为核心安装自动防御炮塔")
	retarget    = flag.String("retarget-on-revive", "", "覆盖区域 B 核心复活后的重定向策略（keep/restore）")
	csvCategory = flag.String("csv", "", "结束后输出指定分类的 CSV（session/wave/combat）")
)

// 退出码
const (
	exitDone     = 0
	exitError    = 1
	exitGameOver = 2
	exitTimeout  = 3
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	content, err := config.LoadContent(config.DirReader(*contentDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load content: %v\n", err)
		return exitError
	}

	settings := game.DefaultSettings()
	settings.SkipGate = *skipGate
	settings.Verbose = *verbose
	settings.RetargetOnRevive = *retarget

	recorder := game.NewSessionRecorder(nil, nil)
	scene, err := scenes.NewBattleScene(content, scenes.BattleOptions{
		Seed:        *seed,
		Settings:    settings,
		Analytics:   recorder,
		AutoDefense: *autoDefense,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build scene: %v\n", err)
		return exitError
	}
	defer scene.Close()

	activated := *activateAt < 0
	forced := *forceAt < 0
	code := exitTimeout

	for i := 0; i < *maxTicks; i++ {
		if !activated && scene.Elapsed() >= *activateAt {
			scene.ActivateZoneB()
			activated = true
		}
		if !forced && scene.Elapsed() >= *forceAt {
			scene.ForceCombined()
			forced = true
		}

		if err := scene.Update(tickDelta); err != nil {
			fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
			code = exitError
			break
		}
		if scene.IsGameOver() {
			code = exitGameOver
			break
		}
		if scene.IsDone() {
			code = exitDone
			break
		}
	}

	printSummary(scene.Snapshot(), scene.ShotsFired(), recorder)

	if *csvCategory != "" {
		if err := recorder.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode records: %v\n", err)
			return exitError
		}
		fmt.Print(recorder.CSV(game.RecordCategory(*csvCategory)))
	}
	return code
}

func printSummary(snap scenes.BattleSnapshot, shots int, recorder *game.SessionRecorder) {
	fmt.Printf("=== wavesim (seed %d) ===\n", *seed)
	fmt.Printf("ticks=%d elapsed=%.2fs phase=%s activated=%v skipGate=%v\n",
		snap.Tick, snap.Elapsed, snap.Phase, snap.ZoneBActivated, snap.SkipGate)
	for _, z := range snap.Zones {
		fmt.Printf("  %-8s wave %d/%d state=%s alive=%d outstanding=%d core=%d/%d alive=%v\n",
			z.Zone, z.WaveIndex, z.TotalWaves, z.State, z.Alive, z.Outstanding, z.CoreHealth, z.CoreMax, z.CoreAlive)
	}
	fmt.Printf("turret shots=%d wave events=%d combat events=%d\n",
		shots, recorder.RowCount(game.CategoryWave), recorder.RowCount(game.CategoryCombat))

	switch {
	case snap.GameOver:
		fmt.Println("result: GAME OVER")
	case snap.Done:
		fmt.Println("result: DONE")
	default:
		fmt.Println("result: INCOMPLETE")
	}
}
