package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gonewx/planetwave/pkg/config"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/gonewx/planetwave/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

var (
	backgroundColor = color.RGBA{R: 12, G: 14, B: 28, A: 255}
	coreAliveColor  = color.RGBA{R: 90, G: 200, B: 255, A: 255}
	coreDeadColor   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	ringColor       = color.RGBA{R: 60, G: 70, B: 110, A: 255}
	rangeColor      = color.RGBA{R: 255, G: 220, B: 90, A: 255}

	// 每种原型的绘制颜色
	enemyColors = map[types.EnemyKind]color.RGBA{
		types.EnemyRanged:        {R: 240, G: 90, B: 90, A: 255},
		types.EnemyRangedHeavy:   {R: 200, G: 40, B: 40, A: 255},
		types.EnemyKamikaze:      {R: 255, G: 160, B: 40, A: 255},
		types.EnemyKamikazeHeavy: {R: 230, G: 110, B: 0, A: 255},
		types.EnemyParasite:      {R: 150, G: 230, B: 90, A: 255},
		types.EnemyBoss:          {R: 220, G: 80, B: 255, A: 255},
	}
)

// Draw 绘制核心、敌人和 HUD
func (s *BattleScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	camera := s.cameraCenter()

	for _, runner := range s.runners() {
		core, ok := runner.Objective().(*game.Core)
		if !ok {
			continue
		}
		s.drawCore(screen, camera, core, runner.LeashDistance())
	}

	for _, enemy := range s.ActiveEnemies() {
		x, y := worldToScreen(camera, enemy.Position)
		r := float32(math.Max(enemy.Archetype.ContactRadius*config.WorldScale, config.MinEnemyDrawRadius))
		clr, ok := enemyColors[enemy.Archetype.Kind]
		if !ok {
			clr = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		vector.DrawFilledCircle(screen, x, y, r, clr, true)
		if enemy.InRange {
			vector.StrokeCircle(screen, x, y, r+2, 1, rangeColor, true)
		}
	}

	s.drawHUD(screen)
}

// drawCore 绘制核心、血条和生成环
func (s *BattleScene) drawCore(screen *ebiten.Image, camera cp.Vector, core *game.Core, leash float64) {
	x, y := worldToScreen(camera, core.Position())
	r := float32(core.Radius() * config.WorldScale)

	vector.StrokeCircle(screen, x, y, float32(leash*config.WorldScale), 1, ringColor, true)

	clr := coreAliveColor
	if !core.IsAlive() {
		clr = coreDeadColor
	}
	vector.DrawFilledCircle(screen, x, y, r, clr, true)

	// 血条
	const barWidth, barHeight = 40, 4
	ratio := 0.0
	if core.MaxHealth() > 0 {
		ratio = float64(core.Health()) / float64(core.MaxHealth())
	}
	vector.DrawFilledRect(screen, x-barWidth/2, y-r-10, barWidth, barHeight, coreDeadColor, false)
	vector.DrawFilledRect(screen, x-barWidth/2, y-r-10, float32(barWidth*ratio), barHeight, coreAliveColor, false)
}

// drawHUD 绘制阶段和区域状态
func (s *BattleScene) drawHUD(screen *ebiten.Image) {
	snap := s.Snapshot()
	lines := []string{
		fmt.Sprintf("t=%.1fs  phase=%s  activated=%v  skipGate=%v", snap.Elapsed, snap.Phase, snap.ZoneBActivated, snap.SkipGate),
	}
	for _, z := range snap.Zones {
		paused := ""
		if z.Paused {
			paused = " [paused]"
		}
		lines = append(lines, fmt.Sprintf("%s: wave %d/%d %s alive=%d left=%d next=%.1fs core=%d/%d%s",
			z.Zone, z.WaveIndex, z.TotalWaves, z.State, z.Alive, z.Outstanding, math.Max(z.Countdown, 0), z.CoreHealth, z.CoreMax, paused))
	}
	switch {
	case snap.GameOver:
		lines = append(lines, "GAME OVER (R to restart)")
	case snap.Done:
		lines = append(lines, "ALL WAVES CLEARED (R to restart)")
	default:
		lines = append(lines, "F: activate zone B  F9: force combined  F10: toggle skip gate  R: restart")
	}

	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, config.HUDMarginX, config.HUDMarginY+i*config.HUDLineHeight)
	}
}

// cameraCenter 两个核心的中点；只有一个核心时以它为中心
func (s *BattleScene) cameraCenter() cp.Vector {
	cores := s.cores()
	if len(cores) == 0 {
		return cp.Vector{}
	}
	sum := cp.Vector{}
	for _, core := range cores {
		sum = sum.Add(core.Position())
	}
	return sum.Mult(1 / float64(len(cores)))
}

// worldToScreen 世界坐标转屏幕坐标
func worldToScreen(camera, p cp.Vector) (float32, float32) {
	x := float64(config.GameWindowWidth)/2 + (p.X-camera.X)*config.WorldScale
	y := float64(config.GameWindowHeight)/2 + (p.Y-camera.Y)*config.WorldScale
	return float32(x), float32(y)
}
