package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Lane-Clash/internal/game"
)

var (
	colWindow    = color.RGBA{R: 8, G: 10, B: 12, A: 255}
	colLaneA     = color.RGBA{R: 34, G: 46, B: 38, A: 255}
	colLaneB     = color.RGBA{R: 30, G: 41, B: 34, A: 255}
	colLaneSel   = color.RGBA{R: 60, G: 110, B: 200, A: 60}
	colLaneLine  = color.RGBA{R: 70, G: 90, B: 70, A: 200}
	colAlly      = color.RGBA{R: 70, G: 130, B: 220, A: 255}
	colEnemy     = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	colHurt      = color.RGBA{R: 255, G: 240, B: 240, A: 255}
	colHealed    = color.RGBA{R: 120, G: 255, B: 140, A: 255}
	colHPBack    = color.RGBA{R: 30, G: 20, B: 20, A: 220}
	colHPFill    = color.RGBA{R: 90, G: 220, B: 90, A: 255}
	colArrow     = color.RGBA{R: 250, G: 230, B: 160, A: 255}
	colHUD       = color.RGBA{R: 6, G: 10, B: 6, A: 230}
	colHUDBorder = color.RGBA{R: 60, G: 100, B: 60, A: 180}
	colText      = color.RGBA{R: 230, G: 230, B: 220, A: 255}
)

// Draw renders the arena, HUD and event panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colWindow)
	s := g.sess.Match().State()
	ox, oy := float32(borderWidth), float32(borderWidth)

	g.drawLanes(screen, &s, ox, oy)
	g.drawBases(screen, &s, ox, oy)
	for _, u := range s.Units {
		g.drawUnit(screen, u, ox, oy)
	}
	for _, p := range s.Projectiles {
		vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), 2, colArrow, true)
	}
	g.drawHUD(screen)
	g.events.Draw(screen, g.width-logPanelWidth, g.height)
}

func (g *Game) drawLanes(screen *ebiten.Image, s *game.MatchState, ox, oy float32) {
	w := float32(g.arenaW)
	for lane := 0; lane < s.Lanes(); lane++ {
		y0, y1 := s.LaneBand(lane, g.arenaH)
		c := colLaneA
		if lane%2 == 1 {
			c = colLaneB
		}
		vector.FillRect(screen, ox, oy+float32(y0), w, float32(y1-y0), c, false)
		if lane == g.sess.Lane() {
			vector.FillRect(screen, ox, oy+float32(y0), w, float32(y1-y0), colLaneSel, false)
		}
		if lane > 0 {
			vector.StrokeLine(screen, ox, oy+float32(y0), ox+w, oy+float32(y0), 1, colLaneLine, false)
		}
	}
}

func (g *Game) drawBases(screen *ebiten.Image, s *game.MatchState, ox, oy float32) {
	const baseW = 16
	h := float32(g.arenaH)
	maxHP := g.sess.Match().Balance().BaseHP
	bases := []struct {
		x    float32
		hp   float64
		side color.RGBA
	}{
		{ox, s.BaseAlly, colAlly},
		{ox + float32(g.arenaW) - baseW, s.BaseEnemy, colEnemy},
	}
	for _, b := range bases {
		vector.FillRect(screen, b.x, oy, baseW, h, colHPBack, false)
		frac := float32(max(0, b.hp) / maxHP)
		vector.FillRect(screen, b.x, oy+h*(1-frac), baseW, h*frac, b.side, false)
	}
}

func (g *Game) drawUnit(screen *ebiten.Image, u game.Unit, ox, oy float32) {
	x, y := ox+float32(u.X), oy+float32(u.Y)
	r := float32(u.Radius)
	c := colAlly
	if u.Side == game.SideEnemy {
		c = colEnemy
	}
	switch g.sess.Match().Feedback(u.ID) {
	case game.FeedbackHurt:
		c = colHurt
	case game.FeedbackHealed:
		c = colHealed
	}
	vector.FillCircle(screen, x, y, r, c, true)
	if u.Role == game.RoleHealer {
		vector.StrokeLine(screen, x-r/2, y, x+r/2, y, 2, colHealed, false)
		vector.StrokeLine(screen, x, y-r/2, x, y+r/2, 2, colHealed, false)
	}
	if u.AttackingBase {
		vector.StrokeCircle(screen, x, y, r+2, 1, colText, true)
	}

	// HP bar above the unit.
	frac := float32(u.HP / u.MaxHP)
	vector.FillRect(screen, x-r, y-r-5, 2*r, 3, colHPBack, false)
	vector.FillRect(screen, x-r, y-r-5, 2*r*frac, 3, colHPFill, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprint(u.Tier), int(x)-3, int(y)-8)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	bx := float32(borderWidth)
	by := float32(borderWidth) + float32(g.arenaH) + 6
	bw := float32(g.arenaW)
	bh := float32(hudHeight - 12)
	vector.FillRect(screen, bx, by, bw, bh, colHUD, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1, colHUDBorder, false)

	lines := []string{
		g.sess.HUDLine(),
		"1-6 question  A/B/C answer  Tab lane  P pause  R reset  C copy report  D director  F events",
	}
	if q := g.sess.QuestionLine(); q != "" {
		lines = append(lines, q)
	} else if st := g.statusLine(); st != "" {
		lines = append(lines, st)
	}

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+8, float64(by)+6+float64(i)*18)
		op.ColorScale.ScaleWithColor(colText)
		text.Draw(screen, line, g.face, op)
	}
}
