package termview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Lane-Clash/internal/game"
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHeader   = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleLane     = styleDefault.Foreground(tcell.ColorDarkGreen)
	styleLaneSel  = styleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleAlly     = styleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	styleEnemy    = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHurt     = styleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon)
	styleHealed   = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLime)
	styleArrow    = styleDefault.Foreground(tcell.ColorYellow)
	styleBaseOff  = styleDefault.Foreground(tcell.ColorDarkGray)
	styleQuestion = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLog      = styleDefault.Foreground(tcell.ColorGray)
)

// Grid is the character rectangle the arena is projected onto. Column Left
// and Left+Cols-1 hold the bases.
type Grid struct {
	Left, Top  int
	Cols, Rows int
}

// Cell projects an arena point onto the grid interior, clamped.
func (g Grid) Cell(x, y, arenaW, arenaH float64) (col, row int) {
	inner := max(1, g.Cols-2)
	col = g.Left + 1 + clampInt(int(x/arenaW*float64(inner)), 0, inner-1)
	row = g.Top + clampInt(int(y/arenaH*float64(g.Rows)), 0, g.Rows-1)
	return col, row
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// arenaGrid lays the arena out between the header row and the two footer rows.
func arenaGrid(cols, rows int) Grid {
	return Grid{Left: 0, Top: 1, Cols: cols, Rows: max(1, rows-3)}
}

// drawText writes s at (x, y), clipped to the screen width.
func drawText(s tcell.Screen, x, y int, style tcell.Style, str string) {
	w, _ := s.Size()
	for _, r := range str {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawArena renders lanes, bases, projectiles and units of st into g.
func drawArena(scr tcell.Screen, g Grid, st *game.MatchState, m *game.Match, selLane int, arenaW, arenaH float64) {
	for lane := 0; lane < st.Lanes(); lane++ {
		y0, y1 := st.LaneBand(lane, arenaH)
		_, r0 := g.Cell(0, y0, arenaW, arenaH)
		_, r1 := g.Cell(0, y1-1e-6, arenaW, arenaH)
		style := styleLane
		if lane == selLane {
			style = styleLaneSel
		}
		for r := r0; r <= r1; r++ {
			for c := g.Left + 1; c < g.Left+g.Cols-1; c++ {
				ch := '·'
				if r == r0 && lane > 0 {
					ch = tcell.RuneHLine
				}
				scr.SetContent(c, r, ch, nil, style)
			}
		}
	}

	maxHP := m.Balance().BaseHP
	drawBase(scr, g, g.Left, st.BaseAlly/maxHP, styleAlly)
	drawBase(scr, g, g.Left+g.Cols-1, st.BaseEnemy/maxHP, styleEnemy)

	for _, p := range st.Projectiles {
		c, r := g.Cell(p.X, p.Y, arenaW, arenaH)
		scr.SetContent(c, r, '*', nil, styleArrow)
	}
	for _, u := range st.Units {
		c, r := g.Cell(u.X, u.Y, arenaW, arenaH)
		scr.SetContent(c, r, unitGlyph(u), nil, unitStyle(u, m.Feedback(u.ID)))
	}
}

// drawBase fills a base column from the bottom in proportion to frac.
func drawBase(scr tcell.Screen, g Grid, col int, frac float64, style tcell.Style) {
	filled := int(float64(g.Rows)*clampFrac(frac) + 0.5)
	for i := 0; i < g.Rows; i++ {
		r := g.Top + g.Rows - 1 - i
		if i < filled {
			scr.SetContent(col, r, tcell.RuneBlock, nil, style)
		} else {
			scr.SetContent(col, r, tcell.RuneBoard, nil, styleBaseOff)
		}
	}
}

func clampFrac(f float64) float64 {
	return min(max(f, 0), 1)
}

// unitGlyph is the tier digit, or '+' for healers.
func unitGlyph(u game.Unit) rune {
	if u.Role == game.RoleHealer {
		return '+'
	}
	return rune('0' + u.Tier)
}

func unitStyle(u game.Unit, fb game.Feedback) tcell.Style {
	switch fb {
	case game.FeedbackHurt:
		return styleHurt
	case game.FeedbackHealed:
		return styleHealed
	}
	style := styleAlly
	if u.Side == game.SideEnemy {
		style = styleEnemy
	}
	if u.AttackingBase {
		style = style.Reverse(true)
	}
	return style
}
