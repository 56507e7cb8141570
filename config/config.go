// Package config loads the scene description: camera, lights, static props
// and orbiting bodies, plus runtime settings for rendering, audio and metrics.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/floating-isle/asset"
	"github.com/lixenwraith/floating-isle/audio"
	"github.com/lixenwraith/floating-isle/orbit"
	"github.com/lixenwraith/floating-isle/vmath"
)

// DefaultPath is read when no explicit path is given and the file exists
const DefaultPath = "floating-isle.toml"

//go:embed default.toml
var defaultTOML string

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the complete runtime configuration
type Config struct {
	Assets  AssetsConfig  `toml:"assets"`
	Render  RenderConfig  `toml:"render"`
	Camera  CameraConfig  `toml:"camera"`
	Scene   SceneConfig   `toml:"scene"`
	Audio   audio.Config  `toml:"audio"`
	Metrics MetricsConfig `toml:"metrics"`
	Props   []PropConfig  `toml:"prop"`
	Bodies  []BodyConfig  `toml:"body"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
}

type RenderConfig struct {
	FPS           int    `toml:"fps"`
	ShadowMapSize int    `toml:"shadow_map_size"` // 0 disables shadows
	SnapshotDir   string `toml:"snapshot_dir"`
	SnapshotScale int    `toml:"snapshot_scale"`
}

type CameraConfig struct {
	FOV         float64    `toml:"fov"`
	Near        float64    `toml:"near"`
	Far         float64    `toml:"far"`
	Position    [3]float64 `toml:"position"`
	Target      [3]float64 `toml:"target"`
	Damping     float64    `toml:"damping"` // 0 disables damping
	MinDistance float64    `toml:"min_distance"`
	MaxDistance float64    `toml:"max_distance"`
	RotateStep  float64    `toml:"rotate_step"` // radians per key press
	ZoomStep    float64    `toml:"zoom_step"`   // distance factor per key press
}

type SceneConfig struct {
	Background string      `toml:"background"`
	Ambient    LightConfig `toml:"ambient"`
	Sun        SunConfig   `toml:"sun"`
}

type LightConfig struct {
	Color     string  `toml:"color"`
	Intensity float64 `toml:"intensity"`
}

type SunConfig struct {
	Color      string     `toml:"color"`
	Intensity  float64    `toml:"intensity"`
	Position   [3]float64 `toml:"position"`
	CastShadow bool       `toml:"cast_shadow"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"` // empty disables the endpoint
}

// ChoiceConfig is one model candidate
type ChoiceConfig struct {
	Model string  `toml:"model"`
	Scale float64 `toml:"scale"`
}

// PropConfig is a static model placed once
type PropConfig struct {
	ID            string         `toml:"id"`
	Model         string         `toml:"model"`
	Scale         float64        `toml:"scale"`
	Fallbacks     []ChoiceConfig `toml:"fallback"`
	Position      [3]float64     `toml:"position"`
	Yaw           float64        `toml:"yaw"`
	CastShadow    bool           `toml:"cast_shadow"`
	ReceiveShadow bool           `toml:"receive_shadow"`
}

// BodyConfig is a model flying a horizontal circle
type BodyConfig struct {
	ID            string         `toml:"id"`
	Model         string         `toml:"model"`
	Scale         float64        `toml:"scale"`
	Fallbacks     []ChoiceConfig `toml:"fallback"`
	Radius        float64        `toml:"radius"`
	Speed         float64        `toml:"speed"` // rad/s, negative runs counter-clockwise
	Height        float64        `toml:"height"`
	HeadingOffset float64        `toml:"heading_offset"`
	CastShadow    bool           `toml:"cast_shadow"`
	ReceiveShadow bool           `toml:"receive_shadow"`
	Engine        bool           `toml:"engine"` // drives the engine drone while registered
}

// Default returns the embedded scene
func Default() *Config {
	cfg := &Config{}
	if _, err := toml.Decode(defaultTOML, cfg); err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return cfg
}

// Load decodes path over the defaults
// Tables merge key by key; a [[body]] or [[prop]] list in the file replaces the default list
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Decoding into a populated slice would merge into the default entries
	var probe map[string]any
	if _, err := toml.Decode(string(data), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg := Default()
	if _, ok := probe["body"]; ok {
		cfg.Bodies = nil
	}
	if _, ok := probe["prop"]; ok {
		cfg.Props = nil
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown key %s", ErrInvalid, path, undecoded[0])
	}
	return cfg, nil
}

// LoadAuto loads with priority: customPath > DefaultPath > embedded
// The second return names where the config came from
func LoadAuto(customPath string) (*Config, string, error) {
	if customPath != "" {
		if !fileExists(customPath) {
			return nil, "", fmt.Errorf("config file not found: %s", customPath)
		}
		cfg, err := Load(customPath)
		return cfg, customPath, err
	}
	if fileExists(DefaultPath) {
		cfg, err := Load(DefaultPath)
		return cfg, DefaultPath, err
	}
	return Default(), "embedded", nil
}

// ApplyEnv overrides settings from FLOATING_ISLE_* variables
func (c *Config) ApplyEnv() {
	if dir := os.Getenv("FLOATING_ISLE_ASSETS"); dir != "" {
		c.Assets.Dir = dir
	}
	if addr := os.Getenv("FLOATING_ISLE_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}
	c.Audio = audio.ApplyEnv(c.Audio)
}

// Validate reports the first inconsistency found
func (c *Config) Validate() error {
	if c.Render.FPS <= 0 || c.Render.FPS > 240 {
		return fmt.Errorf("%w: fps %d out of range 1-240", ErrInvalid, c.Render.FPS)
	}
	if c.Render.ShadowMapSize < 0 {
		return fmt.Errorf("%w: negative shadow_map_size", ErrInvalid)
	}

	cam := c.Camera
	if !(cam.FOV > 0 && cam.FOV < 180) {
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, cam.FOV)
	}
	if !(cam.Near > 0 && cam.Far > cam.Near) {
		return fmt.Errorf("%w: camera clip planes near=%v far=%v", ErrInvalid, cam.Near, cam.Far)
	}
	if !(cam.MinDistance > 0 && cam.MaxDistance >= cam.MinDistance) {
		return fmt.Errorf("%w: camera distance range %v-%v", ErrInvalid, cam.MinDistance, cam.MaxDistance)
	}
	if cam.Damping < 0 || cam.Damping > 1 {
		return fmt.Errorf("%w: camera damping %v outside [0,1]", ErrInvalid, cam.Damping)
	}

	for name, hex := range map[string]string{
		"scene.background":    c.Scene.Background,
		"scene.ambient.color": c.Scene.Ambient.Color,
		"scene.sun.color":     c.Scene.Sun.Color,
	} {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
		}
	}

	seen := make(map[string]bool)
	checkID := func(id string) error {
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrInvalid)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalid, id)
		}
		seen[id] = true
		return nil
	}

	for _, p := range c.Props {
		if err := checkID(p.ID); err != nil {
			return err
		}
		if err := checkChoices(p.ID, p.Model, p.Scale, p.Fallbacks); err != nil {
			return err
		}
	}
	for _, b := range c.Bodies {
		if err := checkID(b.ID); err != nil {
			return err
		}
		if err := checkChoices(b.ID, b.Model, b.Scale, b.Fallbacks); err != nil {
			return err
		}
		if b.Radius < 0 {
			return fmt.Errorf("%w: %s: negative radius %v", ErrInvalid, b.ID, b.Radius)
		}
		for _, v := range []float64{b.Radius, b.Speed, b.Height, b.HeadingOffset} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s: non-finite orbit parameter", ErrInvalid, b.ID)
			}
		}
	}
	return nil
}

func checkChoices(id, model string, scale float64, fallbacks []ChoiceConfig) error {
	if model == "" {
		return fmt.Errorf("%w: %s: empty model name", ErrInvalid, id)
	}
	if scale <= 0 {
		return fmt.Errorf("%w: %s: scale must be positive", ErrInvalid, id)
	}
	for i, f := range fallbacks {
		if f.Model == "" {
			return fmt.Errorf("%w: %s: fallback %d has empty model name", ErrInvalid, id, i+1)
		}
		if f.Scale <= 0 {
			return fmt.Errorf("%w: %s: fallback %d scale must be positive", ErrInvalid, id, i+1)
		}
	}
	return nil
}

// ParseColor parses #rrggbb
func ParseColor(hex string) (colorful.Color, error) {
	return colorful.Hex(hex)
}

// Vec converts a TOML triple
func Vec(v [3]float64) vmath.Vec3 {
	return vmath.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func spec(model string, scale float64, fallbacks []ChoiceConfig) asset.Spec {
	s := asset.Spec{Primary: asset.Choice{Model: model, Scale: scale}}
	for _, f := range fallbacks {
		s.Fallbacks = append(s.Fallbacks, asset.Choice{Model: f.Model, Scale: f.Scale})
	}
	return s
}

// Spec returns the prop's load candidates
func (p PropConfig) Spec() asset.Spec {
	return spec(p.Model, p.Scale, p.Fallbacks)
}

// Spec returns the body's load candidates
func (b BodyConfig) Spec() asset.Spec {
	return spec(b.Model, b.Scale, b.Fallbacks)
}

// Orbit returns the body's motion parameters bound to target
func (b BodyConfig) Orbit(target orbit.Target) orbit.Body {
	return orbit.Body{
		Radius:        b.Radius,
		AngularSpeed:  b.Speed,
		Height:        b.Height,
		HeadingOffset: b.HeadingOffset,
		Target:        target,
	}
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
