// Package engine runs the scene: it registers bodies as their models arrive,
// advances the orbit animator and clips from the clock, and renders each
// frame to the terminal.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/floating-isle/asset"
	"github.com/lixenwraith/floating-isle/audio"
	"github.com/lixenwraith/floating-isle/camera"
	"github.com/lixenwraith/floating-isle/clock"
	"github.com/lixenwraith/floating-isle/config"
	"github.com/lixenwraith/floating-isle/metrics"
	"github.com/lixenwraith/floating-isle/orbit"
	"github.com/lixenwraith/floating-isle/render"
	"github.com/lixenwraith/floating-isle/scene"
)

// statusDuration is how long a HUD notice stays up
const statusDuration = 3 * time.Second

// Options wires a Runtime; only Config and Screen are required
type Options struct {
	Config  *config.Config
	Screen  tcell.Screen
	Time    clock.TimeProvider  // nil uses the real clock
	Source  asset.Source        // nil loads from Config.Assets.Dir and builtins
	Sound   *audio.SoundManager // nil runs silent
	Metrics *metrics.Collector  // nil records nothing
	Logger  *slog.Logger        // nil uses slog.Default
	OnPanic func(any)           // called from the input poller on panic
}

// Runtime owns the scene and the frame loop
// All methods except Run must be called from the goroutine driving frames
type Runtime struct {
	cfg     *config.Config
	screen  tcell.Screen
	time    clock.TimeProvider
	clock   *clock.Clock
	sound   *audio.SoundManager
	metrics *metrics.Collector
	logger  *slog.Logger
	onPanic func(any)

	scene     *scene.Scene
	camera    *camera.Camera
	controls  *camera.Controls
	animator  *orbit.Animator
	loader    *asset.Loader
	fb        *render.Framebuffer
	raster    *render.Rasterizer
	presenter *render.Presenter

	bodies   map[string]config.BodyConfig
	props    map[string]config.PropConfig
	outcomes <-chan asset.Outcome
	started  bool
	pending  int
	failed   []string
	engineUp bool // an engine body is registered

	drag struct {
		active bool
		x, y   int
	}

	status      string
	statusUntil time.Time
	last        render.Stats
}

// New builds the scene, camera and loader from cfg
func New(opts Options) (*Runtime, error) {
	if opts.Config == nil || opts.Screen == nil {
		return nil, errors.New("engine: config and screen are required")
	}
	cfg := opts.Config

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := opts.Time
	if tp == nil {
		tp = clock.RealTimeProvider{}
	}
	src := opts.Source
	if src == nil {
		src = asset.NewCachedSource(asset.NewMuxSource(cfg.Assets.Dir))
	}

	s, err := buildScene(cfg)
	if err != nil {
		return nil, err
	}

	cam := camera.NewPerspective(cfg.Camera.FOV, 1, cfg.Camera.Near, cfg.Camera.Far)
	cam.Position = config.Vec(cfg.Camera.Position)
	cam.Target = config.Vec(cfg.Camera.Target)

	controls := camera.NewControls(cam)
	controls.EnableDamping = cfg.Camera.Damping > 0
	if controls.EnableDamping {
		controls.DampingFactor = cfg.Camera.Damping
	}
	controls.MinDistance = cfg.Camera.MinDistance
	controls.MaxDistance = cfg.Camera.MaxDistance

	fb := render.NewFramebuffer(0, 0)
	r := &Runtime{
		cfg:       cfg,
		screen:    opts.Screen,
		time:      tp,
		clock:     clock.New(tp),
		sound:     opts.Sound,
		metrics:   opts.Metrics,
		logger:    logger,
		onPanic:   opts.OnPanic,
		scene:     s,
		camera:    cam,
		controls:  controls,
		animator:  orbit.NewAnimator(),
		loader:    asset.NewLoader(src, logger),
		fb:        fb,
		raster:    render.NewRasterizer(fb, cfg.Render.ShadowMapSize),
		presenter: render.NewPresenter(opts.Screen),
		bodies:    make(map[string]config.BodyConfig, len(cfg.Bodies)),
		props:     make(map[string]config.PropConfig, len(cfg.Props)),
	}
	for _, b := range cfg.Bodies {
		r.bodies[b.ID] = b
	}
	for _, p := range cfg.Props {
		r.props[p.ID] = p
	}
	r.resize()
	return r, nil
}

func buildScene(cfg *config.Config) (*scene.Scene, error) {
	bg, err := config.ParseColor(cfg.Scene.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	ambient, err := config.ParseColor(cfg.Scene.Ambient.Color)
	if err != nil {
		return nil, fmt.Errorf("ambient: %w", err)
	}
	sun, err := config.ParseColor(cfg.Scene.Sun.Color)
	if err != nil {
		return nil, fmt.Errorf("sun: %w", err)
	}

	s := scene.New(bg)
	s.Ambient = scene.AmbientLight{Color: ambient, Intensity: cfg.Scene.Ambient.Intensity}
	s.Sun = scene.DirectionalLight{
		Color:      sun,
		Intensity:  cfg.Scene.Sun.Intensity,
		Position:   config.Vec(cfg.Scene.Sun.Position),
		CastShadow: cfg.Scene.Sun.CastShadow,
	}
	return s, nil
}

// Start requests every prop and body model
// Bodies appear in the scene as their loads complete, in completion order
func (r *Runtime) Start(ctx context.Context) {
	if r.started {
		return
	}
	r.started = true

	reqs := make([]asset.Request, 0, len(r.props)+len(r.bodies))
	for _, p := range r.cfg.Props {
		reqs = append(reqs, asset.Request{ID: p.ID, Spec: p.Spec()})
	}
	for _, b := range r.cfg.Bodies {
		reqs = append(reqs, asset.Request{ID: b.ID, Spec: b.Spec()})
	}
	r.pending = len(reqs)
	r.outcomes = r.loader.Start(ctx, reqs)
	r.logger.Info("loading models", "requests", len(reqs), "dir", r.cfg.Assets.Dir)

	if r.sound != nil {
		r.sound.StartWind()
	}
}

// drainOutcomes applies every finished load without blocking
func (r *Runtime) drainOutcomes() {
	for r.outcomes != nil {
		select {
		case out, ok := <-r.outcomes:
			if !ok {
				r.outcomes = nil
				return
			}
			r.pending--
			r.apply(out)
		default:
			return
		}
	}
}

// apply places a loaded model; failed loads leave their object absent
func (r *Runtime) apply(out asset.Outcome) {
	if out.Err != nil {
		r.failed = append(r.failed, out.ID)
		r.metrics.AssetLoaded(metrics.OutcomeFailed)
		r.notify(fmt.Sprintf("%s unavailable", out.ID))
		return
	}

	if out.Result.UsedFallback() {
		r.metrics.AssetLoaded(metrics.OutcomeFallback)
		r.notify(fmt.Sprintf("%s: using %s", out.ID, out.Result.Choice.Model))
	} else {
		r.metrics.AssetLoaded(metrics.OutcomePrimary)
	}

	node := scene.NewNode(out.ID, out.Result.Model, out.Result.Choice.Scale)

	if p, ok := r.props[out.ID]; ok {
		node.Position = config.Vec(p.Position)
		node.Yaw = p.Yaw
		node.CastShadow = p.CastShadow
		node.ReceiveShadow = p.ReceiveShadow
		r.scene.Add(node)
		return
	}

	b, ok := r.bodies[out.ID]
	if !ok {
		r.logger.Warn("load outcome for unknown object", "id", out.ID)
		return
	}
	node.CastShadow = b.CastShadow
	node.ReceiveShadow = b.ReceiveShadow
	if err := r.animator.Register(orbit.ID(b.ID), b.Orbit(node)); err != nil {
		r.logger.Error("register body failed", "id", b.ID, "error", err)
		return
	}
	// Step ticks the animator right after draining, so the node is posed before its first draw
	r.scene.Add(node)

	r.metrics.SetBodies(r.animator.Len())
	if b.Engine {
		r.engineUp = true
		r.syncDrone()
	}
	r.logger.Debug("body registered", "id", b.ID, "model", out.Result.Choice.Model, "tier", out.Result.Tier)
}

// syncDrone plays the engine drone while an engine body flies and the clock runs
func (r *Runtime) syncDrone() {
	if r.sound == nil {
		return
	}
	if r.engineUp && !r.clock.IsPaused() {
		r.sound.StartDrone()
	} else {
		r.sound.StopDrone()
	}
}

// Step advances and draws one frame
func (r *Runtime) Step() render.Stats {
	start := time.Now()

	r.drainOutcomes()

	elapsed := r.clock.Elapsed()
	delta := r.clock.Delta()

	r.animator.Tick(elapsed)
	r.scene.UpdateMixers(delta)
	r.controls.Update()

	r.last = r.raster.Render(r.scene, r.camera)
	r.presenter.Present(r.fb, r.hud(elapsed))

	r.metrics.ObserveFrame(time.Since(start), r.last.Triangles)
	return r.last
}

// resize matches the framebuffer and camera aspect to the screen
func (r *Runtime) resize() {
	cols, rows := r.screen.Size()
	w, h := render.FramebufferSize(cols, rows)
	r.fb.Resize(w, h)
	r.camera.SetAspect(w, h)
}

// Snapshot writes the current framebuffer as PNG and returns its path
func (r *Runtime) Snapshot() (string, error) {
	caption := fmt.Sprintf("floating-isle  t=%.1fs  bodies=%d", r.clock.Elapsed(), r.animator.Len())
	return render.SaveSnapshot(r.cfg.Render.SnapshotDir, r.fb, r.cfg.Render.SnapshotScale, caption, r.time.Now())
}

// Run drives frames at the configured rate until ctx is done or the user quits
// Loads start here unless Start was already called
// The caller owns the screen and must Fini it after Run returns
func (r *Runtime) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.Start(ctx)

	events := make(chan tcell.Event, 64)
	go r.poll(ctx, events)

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.Render.FPS))
	defer ticker.Stop()

	r.Step()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !r.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			r.Step()
		}
	}
}

// poll forwards screen events until the screen is finalized or ctx ends
func (r *Runtime) poll(ctx context.Context, events chan<- tcell.Event) {
	defer func() {
		if p := recover(); p != nil {
			if r.onPanic != nil {
				r.onPanic(p)
				return
			}
			panic(p)
		}
	}()

	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Stats returns the most recent frame's counters
func (r *Runtime) Stats() render.Stats {
	return r.last
}

// Scene exposes the live scene
func (r *Runtime) Scene() *scene.Scene {
	return r.scene
}

// Animator exposes the orbit registry
func (r *Runtime) Animator() *orbit.Animator {
	return r.animator
}

// Camera exposes the view camera
func (r *Runtime) Camera() *camera.Camera {
	return r.camera
}

// Clock exposes the frame clock
func (r *Runtime) Clock() *clock.Clock {
	return r.clock
}

// Pending returns the number of loads not yet applied
func (r *Runtime) Pending() int {
	return r.pending
}

// Failed lists objects whose every candidate failed to load
func (r *Runtime) Failed() []string {
	return r.failed
}
