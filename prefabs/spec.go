package prefabs

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/nightsky/common"
	"gopkg.in/yaml.v3"
)

const SkySpecFile = "sky.yaml"

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

type SkySpec struct {
	Name      string        `yaml:"name"`
	Width     float64       `yaml:"width"`
	Height    float64       `yaml:"height"`
	FPS       float64       `yaml:"fps"`
	LogLevel  string        `yaml:"log_level"`
	Stars     StarFieldSpec `yaml:"stars"`
	Comet     CometSpec     `yaml:"comet"`
	Tentacles TentacleSpec  `yaml:"tentacles"`
}

type StarFieldSpec struct {
	Count    int     `yaml:"count"`
	MinSize  float64 `yaml:"min_size"`
	MaxSize  float64 `yaml:"max_size"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

type CometSpec struct {
	LightSize     float64       `yaml:"light_size"`
	GlowSize      float64       `yaml:"glow_size"`
	Smoothing     float64       `yaml:"smoothing"`
	IdleThreshold time.Duration `yaml:"idle_threshold"`
	PathDuration  time.Duration `yaml:"path_duration"`
	Padding       float64       `yaml:"padding"`
	WanderScript  string        `yaml:"wander_script"`
}

type TentacleSpec struct {
	MaxLinks        int     `yaml:"max_links"`
	DetectionRadius float64 `yaml:"detection_radius"`
	WaveSpeed       float64 `yaml:"wave_speed"`
	WaveAmplitude   float64 `yaml:"wave_amplitude"`
	Width           float64 `yaml:"width"`
}

// DefaultSkySpec mirrors the embedded sky.yaml. Fields missing from a loaded
// file keep these values.
func DefaultSkySpec() SkySpec {
	return SkySpec{
		Name:     "night_sky",
		Width:    800,
		Height:   600,
		FPS:      60,
		LogLevel: "info",
		Stars: StarFieldSpec{
			Count:    150,
			MinSize:  0.2,
			MaxSize:  0.8,
			MinSpeed: 0.015,
			MaxSpeed: 0.04,
		},
		Comet: CometSpec{
			LightSize:     20,
			GlowSize:      40,
			Smoothing:     0.15,
			IdleThreshold: time.Second,
			PathDuration:  3 * time.Second,
			Padding:       100,
		},
		Tentacles: TentacleSpec{
			MaxLinks:        10,
			DetectionRadius: 300,
			WaveSpeed:       0.5,
			WaveAmplitude:   30,
			Width:           2,
		},
	}
}

// LoadSkySpec reads, decodes and validates a sky spec. An empty name loads
// sky.yaml.
func LoadSkySpec(name string) (SkySpec, error) {
	if name == "" {
		name = SkySpecFile
	}
	data, err := Load(name)
	if err != nil {
		return SkySpec{}, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	return ParseSkySpec(data)
}

func ParseSkySpec(data []byte) (SkySpec, error) {
	spec := DefaultSkySpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SkySpec{}, fmt.Errorf("prefabs: unmarshal sky spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return SkySpec{}, err
	}
	return spec, nil
}

// FrameInterval is the minimum time between rendered frames.
func (s SkySpec) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.FPS)
}

func (s SkySpec) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSpec}, args...)...))
		}
	}

	finite := func(field string, v float64) {
		check(common.IsFinite(v), "%s %v must be finite", field, v)
	}
	finite("width", s.Width)
	finite("height", s.Height)
	finite("fps", s.FPS)
	finite("stars.min_size", s.Stars.MinSize)
	finite("stars.max_size", s.Stars.MaxSize)
	finite("stars.min_speed", s.Stars.MinSpeed)
	finite("stars.max_speed", s.Stars.MaxSpeed)
	finite("comet.light_size", s.Comet.LightSize)
	finite("comet.glow_size", s.Comet.GlowSize)
	finite("comet.smoothing", s.Comet.Smoothing)
	finite("comet.padding", s.Comet.Padding)
	finite("tentacles.detection_radius", s.Tentacles.DetectionRadius)
	finite("tentacles.wave_speed", s.Tentacles.WaveSpeed)
	finite("tentacles.wave_amplitude", s.Tentacles.WaveAmplitude)
	finite("tentacles.width", s.Tentacles.Width)

	check(s.Width > 0 && s.Height > 0, "size %vx%v must be positive", s.Width, s.Height)
	check(s.FPS > 0, "fps %v must be positive", s.FPS)

	check(s.Stars.Count >= 0, "stars.count %d must not be negative", s.Stars.Count)
	check(s.Stars.MinSize > 0 && s.Stars.MaxSize >= s.Stars.MinSize,
		"stars size range [%v, %v] must be positive and ordered", s.Stars.MinSize, s.Stars.MaxSize)
	check(s.Stars.MinSpeed > 0 && s.Stars.MaxSpeed >= s.Stars.MinSpeed,
		"stars speed range [%v, %v] must be positive and ordered", s.Stars.MinSpeed, s.Stars.MaxSpeed)

	check(s.Comet.LightSize > 0 && s.Comet.GlowSize > 0,
		"comet light_size %v and glow_size %v must be positive", s.Comet.LightSize, s.Comet.GlowSize)
	check(s.Comet.Smoothing > 0 && s.Comet.Smoothing < 1, "comet.smoothing %v must be in (0,1)", s.Comet.Smoothing)
	check(s.Comet.IdleThreshold > 0, "comet.idle_threshold %v must be positive", s.Comet.IdleThreshold)
	check(s.Comet.PathDuration > 0, "comet.path_duration %v must be positive", s.Comet.PathDuration)
	check(s.Comet.Padding >= 0, "comet.padding %v must not be negative", s.Comet.Padding)

	check(s.Tentacles.MaxLinks >= 0, "tentacles.max_links %d must not be negative", s.Tentacles.MaxLinks)
	check(s.Tentacles.DetectionRadius >= 0, "tentacles.detection_radius %v must not be negative", s.Tentacles.DetectionRadius)
	check(s.Tentacles.Width > 0, "tentacles.width %v must be positive", s.Tentacles.Width)

	return errors.Join(errs...)
}
