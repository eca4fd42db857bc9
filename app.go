package arbor

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// App owns the root node and runs the three frame passes in order: update,
// pointer reconciliation, render. It implements ebiten.Game; headless hosts
// call Step and Tick instead.
type App struct {
	// ScreenshotDir is where Screenshot writes its PNG files.
	ScreenshotDir string
	// ClearColor fills the surface before each render. Transparent skips it.
	ClearColor Color

	root       *Node
	config     RunConfig
	ctx        FrameContext
	updater    *FrameUpdater
	reconciler *PointerReconciler
	renderer   *SceneRenderer
	screen     *EbitenSurface
	debug      bool
	stats      debugStats

	testRunner      *TestRunner
	screenshotQueue []string
}

var _ ebiten.Game = (*App)(nil)

// NewApp creates an app for root. Pointers come from an EbitenInput; use
// SetPointerSource for synthetic input.
func NewApp(root *Node, cfg RunConfig) *App {
	a := &App{
		ScreenshotDir: cfg.ScreenshotDir,
		ClearColor:    cfg.ClearColor,
		root:          root,
		config:        cfg,
	}
	if a.ScreenshotDir == "" {
		a.ScreenshotDir = "screenshots"
	}
	a.ctx.App = a
	a.updater = NewFrameUpdater(&a.ctx)
	a.reconciler = NewPointerReconciler(NewEbitenInput())
	a.reconciler.MultiPointer = cfg.MultiTouch
	a.ctx.Pointers = a.reconciler.Source()
	a.renderer = NewSceneRenderer(nil)
	a.renderer.ShowCollider = cfg.ShowCollider
	a.SetDebugMode(cfg.Debug)
	return a
}

// Root returns the current root node.
func (a *App) Root() *Node { return a.root }

// SetRoot replaces the root. Nodes held by pointers under the old root are
// forgotten so the cursor affordance resets.
func (a *App) SetRoot(root *Node) {
	a.root = root
	a.reconciler.ResetHeld()
}

// Config returns the configuration the app was created with.
func (a *App) Config() RunConfig { return a.config }

// Context returns the frame context shared by every hook.
func (a *App) Context() *FrameContext { return &a.ctx }

// Updater returns the update pass.
func (a *App) Updater() *FrameUpdater { return a.updater }

// Reconciler returns the pointer pass.
func (a *App) Reconciler() *PointerReconciler { return a.reconciler }

// Renderer returns the render pass.
func (a *App) Renderer() *SceneRenderer { return a.renderer }

// SetPointerSource replaces where pointers come from.
func (a *App) SetPointerSource(src PointerSource) {
	a.reconciler.SetSource(src)
	a.ctx.Pointers = src
}

// SetEntityStore sets the optional ECS bridge.
func (a *App) SetEntityStore(store EntityStore) {
	a.reconciler.SetEntityStore(store)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame pass timings are logged at debug level.
func (a *App) SetDebugMode(enabled bool) {
	a.debug = enabled
	globalDebug = enabled
}

// Frame returns the number of completed ticks.
func (a *App) Frame() uint64 { return a.ctx.Frame }

// Step runs one tick of the update and pointer passes with a delta of dt
// seconds.
func (a *App) Step(dt float64) {
	if a.testRunner != nil {
		a.testRunner.step(a)
	}
	if src := a.reconciler.Source(); src != nil {
		src.Update()
	}
	a.ctx.Advance(dt)
	if a.root == nil {
		return
	}

	var t0 time.Time
	if a.debug {
		t0 = time.Now()
	}
	a.updater.Update(a.root)
	if a.debug {
		t1 := time.Now()
		a.stats.updateTime = t1.Sub(t0)
		t0 = t1
	}
	a.reconciler.Check(a.root)
	if a.debug {
		a.stats.checkTime = time.Since(t0)
		a.stats.updated = a.updater.Visited()
		a.stats.checked = a.reconciler.Visited()
	}
}

// Render draws the root onto s and writes any queued screenshots from it.
func (a *App) Render(s Surface) {
	if a.ClearColor.A > 0 {
		if f, ok := s.(rectFiller); ok {
			s.Save()
			s.SetTransform(identityTransform)
			s.SetAlpha(1)
			s.SetBlendMode(BlendNone)
			w, h := s.Size()
			f.FillRect(0, 0, float64(w), float64(h), a.ClearColor)
			s.Restore()
		}
	}

	var t0 time.Time
	if a.debug {
		t0 = time.Now()
	}
	a.renderer.SetSurface(s)
	a.renderer.Render(a.root)
	if a.debug {
		a.stats.renderTime = time.Since(t0)
		a.stats.rendered = a.renderer.Visited()
		a.stats.drawn = a.renderer.Drawn()
		a.stats.log(a.ctx.Frame)
	}
	a.flushScreenshots(s)
}

// Tick runs a full frame against s: Step then Render.
func (a *App) Tick(s Surface, dt float64) {
	a.Step(dt)
	a.Render(s)
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.Step(1 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.screen == nil {
		a.screen = NewEbitenSurface(screen)
	} else {
		a.screen.Reset(screen)
	}
	a.Render(a.screen)
}

// Layout implements ebiten.Game with a fixed logical size.
func (a *App) Layout(_, _ int) (int, int) {
	return a.config.Width, a.config.Height
}

// Run opens a window for root and blocks until it closes.
func Run(root *Node, cfg RunConfig) error {
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("arbor: run: %w", err)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.TPS)
	Logger().Info("arbor run", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height, "tps", cfg.TPS)
	if err := ebiten.RunGame(NewApp(root, cfg)); err != nil {
		return fmt.Errorf("arbor: run: %w", err)
	}
	return nil
}
