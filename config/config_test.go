package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/floating-isle/vmath"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultReproducesScene(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 75.0, cfg.Camera.FOV)
	assert.Equal(t, 0.1, cfg.Camera.Near)
	assert.Equal(t, 1000.0, cfg.Camera.Far)
	assert.Equal(t, vmath.V3(0, 15, 30), Vec(cfg.Camera.Position))

	sky, err := ParseColor(cfg.Scene.Background)
	require.NoError(t, err)
	assert.Equal(t, "#87ceeb", sky.Hex())
	assert.Equal(t, 0.9, cfg.Scene.Ambient.Intensity)
	assert.Equal(t, 1.5, cfg.Scene.Sun.Intensity)
	assert.Equal(t, vmath.V3(10, 20, 10), Vec(cfg.Scene.Sun.Position))

	require.Len(t, cfg.Props, 1)
	island := cfg.Props[0]
	assert.Equal(t, 0.8, island.Scale)
	assert.Equal(t, -2.0, island.Position[1])
	assert.True(t, island.ReceiveShadow)

	tests := []struct {
		id                    string
		radius, speed, height float64
		offset, scale         float64
	}{
		{"airplane", 12, 0.5, 1, math.Pi, 0.004},
		{"dove", 11, 0.4, 0.5, math.Pi, 0.2},
		{"synthwave", 20, -0.6, 2, math.Pi / 2, 4},
		{"phoenix", 18, -0.8, 1.5, math.Pi / 2, 0.005},
	}
	require.Len(t, cfg.Bodies, len(tests))
	for i, tt := range tests {
		b := cfg.Bodies[i]
		assert.Equal(t, tt.id, b.ID)
		assert.Equal(t, tt.radius, b.Radius, tt.id)
		assert.Equal(t, tt.speed, b.Speed, tt.id)
		assert.Equal(t, tt.height, b.Height, tt.id)
		assert.InDelta(t, tt.offset, b.HeadingOffset, 1e-12, tt.id)
		assert.Equal(t, tt.scale, b.Scale, tt.id)
	}

	phoenix := cfg.Bodies[3].Spec()
	require.Len(t, phoenix.Fallbacks, 2)
	assert.Equal(t, "flying_synthwave_bird.glb", phoenix.Fallbacks[0].Model)
	assert.Equal(t, 0.03, phoenix.Fallbacks[0].Scale)

	assert.True(t, cfg.Bodies[0].Engine)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeTOML(t, `
[render]
fps = 20

[scene.sun]
intensity = 2.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Render.FPS)
	assert.Equal(t, 2.0, cfg.Scene.Sun.Intensity)
	assert.Equal(t, "#ffffff", cfg.Scene.Sun.Color, "untouched keys keep defaults")
	assert.Len(t, cfg.Bodies, 4)
}

func TestLoadBodiesReplaceDefaults(t *testing.T) {
	path := writeTOML(t, `
[[body]]
id = "kite"
model = "builtin:dove"
scale = 1.0
radius = 5.0
speed = 1.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Bodies, 1)

	kite := cfg.Bodies[0]
	assert.Equal(t, "kite", kite.ID)
	assert.Empty(t, kite.Fallbacks, "no fallbacks inherited from the default airplane")
	assert.False(t, kite.Engine)
	assert.Len(t, cfg.Props, 1, "props untouched")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeTOML(t, "[render]\nfsp = 30\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeTOML(t, "[render\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAuto(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, src, err := LoadAuto("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", src)

	require.NoError(t, os.WriteFile(DefaultPath, []byte("[render]\nfps = 12\n"), 0o644))
	cfg, src, err := LoadAuto("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, src)
	assert.Equal(t, 12, cfg.Render.FPS)

	_, _, err = LoadAuto(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative radius", func(c *Config) { c.Bodies[0].Radius = -1 }},
		{"empty model", func(c *Config) { c.Bodies[1].Model = "" }},
		{"empty fallback model", func(c *Config) { c.Bodies[0].Fallbacks[0].Model = "" }},
		{"zero scale", func(c *Config) { c.Props[0].Scale = 0 }},
		{"duplicate body id", func(c *Config) { c.Bodies[2].ID = c.Bodies[0].ID }},
		{"body shadows prop id", func(c *Config) { c.Bodies[0].ID = c.Props[0].ID }},
		{"empty id", func(c *Config) { c.Bodies[0].ID = "" }},
		{"nan speed", func(c *Config) { c.Bodies[0].Speed = math.NaN() }},
		{"bad colour", func(c *Config) { c.Scene.Background = "skyblue" }},
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }},
		{"near beyond far", func(c *Config) { c.Camera.Near = 2000 }},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }},
		{"damping", func(c *Config) { c.Camera.Damping = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FLOATING_ISLE_ASSETS", "/srv/models")
	t.Setenv("FLOATING_ISLE_METRICS_ADDR", ":9100")
	t.Setenv("FLOATING_ISLE_AUDIO", "0")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "/srv/models", cfg.Assets.Dir)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.False(t, cfg.Audio.Enabled)
}

type recorder struct {
	pos vmath.Vec3
	yaw float64
}

func (r *recorder) SetPosition(x, y, z float64) { r.pos = vmath.V3(x, y, z) }
func (r *recorder) SetHeading(yaw float64)      { r.yaw = yaw }

func TestBodyOrbitBindsTarget(t *testing.T) {
	rec := &recorder{}
	b := Default().Bodies[0].Orbit(rec)
	assert.Equal(t, 12.0, b.Radius)
	assert.Same(t, rec, b.Target)

	p := b.PoseAt(0)
	assert.InDelta(t, 12, p.Position.Z, 1e-12)
	assert.InDelta(t, math.Pi, p.Heading, 1e-12)
}
