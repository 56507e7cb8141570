package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/floating-isle/audio"
	"github.com/lixenwraith/floating-isle/config"
	"github.com/lixenwraith/floating-isle/engine"
	"github.com/lixenwraith/floating-isle/metrics"
)

var (
	configFlag      = flag.String("config", "", "Scene config file (default: ./floating-isle.toml if present, else built-in)")
	assetsFlag      = flag.String("assets", "", "Directory holding .glb models")
	colorModeFlag   = flag.String("color", "auto", "Color mode: auto, truecolor, 256")
	fpsFlag         = flag.Int("fps", 0, "Frame rate override")
	debugFlag       = flag.Bool("debug", false, "Write debug log to logs/floating-isle.log")
	metricsFlag     = flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :9100")
	muteFlag        = flag.Bool("mute", false, "Start with audio muted")
	snapshotDirFlag = flag.String("snapshot-dir", "", "Directory for PNG snapshots")
)

// applyColorMode steers tcell's colour detection
func applyColorMode(mode string) {
	switch mode {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}
}

func main() {
	var screen tcell.Screen

	// Panic Recovery: restore the terminal before reporting
	crash := func(r any) {
		if screen != nil {
			screen.Fini()
		}
		fmt.Fprintf(os.Stderr, "\n\x1b[31mFLOATING-ISLE CRASHED: %v\x1b[0m\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
		os.Exit(1)
	}
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()

	flag.Parse()

	logger, logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, source, err := config.LoadAuto(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "source", source, "bodies", len(cfg.Bodies), "fps", cfg.Render.FPS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := startMetrics(ctx, cfg.Metrics.Addr, logger)

	sound := audio.NewSoundManager(cfg.Audio)
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio initialization failed, continuing without audio", "error", err)
	}
	defer sound.Cleanup()
	if *muteFlag {
		sound.SetMuted(true)
	}

	applyColorMode(*colorModeFlag)
	screen, err = tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	rt, err := engine.New(engine.Options{
		Config:  cfg,
		Screen:  screen,
		Sound:   sound,
		Metrics: collector,
		Logger:  logger,
		OnPanic: crash,
	})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to build scene: %v\n", err)
		os.Exit(1)
	}

	if err := rt.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
	}
	logger.Info("exit", "failed_assets", rt.Failed())
}

// applyFlags lets command-line flags win over file and environment
func applyFlags(cfg *config.Config) {
	if *assetsFlag != "" {
		cfg.Assets.Dir = *assetsFlag
	}
	if *fpsFlag > 0 {
		cfg.Render.FPS = *fpsFlag
	}
	if *metricsFlag != "" {
		cfg.Metrics.Addr = *metricsFlag
	}
	if *snapshotDirFlag != "" {
		cfg.Render.SnapshotDir = *snapshotDirFlag
	}
}

// startMetrics serves /metrics in the background when addr is set
func startMetrics(ctx context.Context, addr string, logger *slog.Logger) *metrics.Collector {
	if addr == "" {
		return nil
	}
	collector, err := metrics.NewCollector(nil)
	if err != nil {
		logger.Error("metrics registration failed", "error", err)
		return nil
	}
	go func() {
		if err := collector.Serve(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", addr)
	return collector
}
