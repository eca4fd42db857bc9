package arbor

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsMeter repaints its label image about twice a second.
type fpsMeter struct {
	img        *ebiten.Image
	sincePaint float64
}

func (m *fpsMeter) Update(ctx *FrameContext) {
	m.sincePaint += ctx.Delta
	if m.sincePaint < 0.5 {
		return
	}
	m.sincePaint = 0

	m.img.Clear()
	// Semi-transparent background for readability
	m.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(m.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Draw only paints on ebiten surfaces.
func (m *fpsMeter) Draw(s Surface) {
	if es, ok := s.(*EbitenSurface); ok {
		es.DrawImage(m.img, 0, 0)
	}
}

// NewFPSMeter creates a node that displays the current FPS and TPS, drawn
// with its top-left corner at the node position. Add it last so it draws
// on top.
func NewFPSMeter() *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	n := NewNodeWith("fps", &fpsMeter{img: ebiten.NewImage(100, 32), sincePaint: 0.5})
	n.SetSize(100, 32)
	n.SetOrigin(0, 0)
	return n
}
