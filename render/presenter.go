package render

import (
	"github.com/gdamore/tcell/v2"
)

// HUDRows is the number of terminal rows reserved below the image
const HUDRows = 1

const halfBlock = '▀'

var (
	hudFg = tcell.NewRGBColor(200, 200, 210)
	hudBg = tcell.NewRGBColor(20, 24, 32)
)

// Presenter writes framebuffers to a tcell screen
type Presenter struct {
	screen tcell.Screen
}

// NewPresenter wraps an initialized screen
func NewPresenter(screen tcell.Screen) *Presenter {
	return &Presenter{screen: screen}
}

// FramebufferSize returns the pixel size that fills the screen above the HUD
func FramebufferSize(cols, rows int) (w, h int) {
	return max(cols, 0), max(rows-HUDRows, 0) * 2
}

// Present draws fb as half-block cells, then the HUD line, and shows the screen
// Each cell's foreground is the upper pixel and background the lower one
func (p *Presenter) Present(fb *Framebuffer, hud string) {
	cols, rows := p.screen.Size()
	imageRows := min(fb.H/2, rows-HUDRows)

	for y := 0; y < imageRows; y++ {
		for x := 0; x < min(fb.W, cols); x++ {
			top := fb.Color[(2*y)*fb.W+x]
			bot := fb.Color[(2*y+1)*fb.W+x]
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))
			p.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	if rows > 0 {
		p.drawHUD(rows-1, cols, hud)
	}
	p.screen.Show()
}

func (p *Presenter) drawHUD(row, cols int, text string) {
	style := tcell.StyleDefault.Foreground(hudFg).Background(hudBg)
	x := 0
	for _, r := range text {
		if x >= cols {
			break
		}
		p.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		p.screen.SetContent(x, row, ' ', nil, style)
	}
}
