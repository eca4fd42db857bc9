package arbor

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshotter is implemented by surfaces that can hand back their pixels.
type Snapshotter interface {
	Snapshot() image.Image
}

// Snapshot reads the backing image back as straight-alpha NRGBA.
func (s *EbitenSurface) Snapshot() image.Image {
	bounds := s.img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	s.img.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// Screenshot queues a labeled screenshot to be captured at the end of the
// next Render. The PNG is written to ScreenshotDir with a timestamped name.
func (a *App) Screenshot(label string) {
	a.screenshotQueue = append(a.screenshotQueue, label)
}

// flushScreenshots writes one PNG per queued label. Surfaces that cannot
// snapshot drop the queue with a warning.
func (a *App) flushScreenshots(s Surface) {
	if len(a.screenshotQueue) == 0 {
		return
	}
	defer func() { a.screenshotQueue = a.screenshotQueue[:0] }()

	snap, ok := s.(Snapshotter)
	if !ok {
		Logger().Warn("screenshot: surface cannot be read back", "queued", len(a.screenshotQueue))
		return
	}
	if err := os.MkdirAll(a.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot: mkdir failed", "dir", a.ScreenshotDir, "err", err)
		return
	}

	img := snap.Snapshot()
	stamp := time.Now().Format("20060102_150405")
	for _, label := range a.screenshotQueue {
		path := filepath.Join(a.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := WritePNG(path, img); err != nil {
			Logger().Warn("screenshot: write failed", "err", err)
			continue
		}
		Logger().Info("screenshot written", "path", path)
	}
}

// WritePNG encodes img to a PNG file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
