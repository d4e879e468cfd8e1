package adaptive

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/remaimber-it/examprep/internal/domain/profile"
)

// Config holds the tuning of the adaptive engine. Zero values are not
// meaningful; start from DefaultConfig.
type Config struct {
	ThetaMin     float64          `yaml:"theta_min"`
	ThetaMax     float64          `yaml:"theta_max"`
	InitialStep  float64          `yaml:"initial_step"`  // k for the first observation
	StepDecay    float64          `yaml:"step_decay"`    // k_n = initial_step / (1 + step_decay*n)
	TieTolerance float64          `yaml:"tie_tolerance"` // difficulty distances closer than this tie
	Thresholds   Thresholds       `yaml:"thresholds"`
	TopicMerge   TopicMergeConfig `yaml:"topic_merge"`
}

// Thresholds classify a topic by its session accuracy.
type Thresholds struct {
	WeakBelow       float64 `yaml:"weak_below"`
	StrongAtOrAbove float64 `yaml:"strong_at_or_above"`
	MinAttempts     int     `yaml:"min_attempts"`
}

// TopicMergeConfig selects how session topic findings land on the profile.
type TopicMergeConfig struct {
	Policy    string  `yaml:"policy"`
	Decay     float64 `yaml:"decay"`
	Threshold float64 `yaml:"threshold"`
}

func DefaultConfig() Config {
	merge := profile.DefaultMergeOptions()
	return Config{
		ThetaMin:     -4,
		ThetaMax:     4,
		InitialStep:  1.0,
		StepDecay:    0.25,
		TieTolerance: 1e-9,
		Thresholds: Thresholds{
			WeakBelow:       0.5,
			StrongAtOrAbove: 0.8,
			MinAttempts:     1,
		},
		TopicMerge: TopicMergeConfig{
			Policy:    string(merge.Policy),
			Decay:     merge.Decay,
			Threshold: merge.Threshold,
		},
	}
}

// LoadConfig overlays the YAML file at path onto DefaultConfig. An empty
// path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read engine config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse engine config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("engine config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ThetaMin >= c.ThetaMax {
		return errors.New("theta_min must be below theta_max")
	}
	if c.InitialStep <= 0 {
		return errors.New("initial_step must be positive")
	}
	if c.StepDecay < 0 {
		return errors.New("step_decay cannot be negative")
	}
	if c.TieTolerance < 0 {
		return errors.New("tie_tolerance cannot be negative")
	}
	t := c.Thresholds
	if t.WeakBelow < 0 || t.StrongAtOrAbove > 1 || t.WeakBelow > t.StrongAtOrAbove {
		return errors.New("thresholds must satisfy 0 <= weak_below <= strong_at_or_above <= 1")
	}
	if t.MinAttempts < 1 {
		return errors.New("min_attempts must be at least 1")
	}
	if _, err := c.MergeOptions(); err != nil {
		return err
	}
	return nil
}

// MergeOptions converts the topic merge section for profile.Apply.
func (c Config) MergeOptions() (profile.MergeOptions, error) {
	policy, err := profile.ParsePolicy(c.TopicMerge.Policy)
	if err != nil {
		return profile.MergeOptions{}, err
	}
	if c.TopicMerge.Decay < 0 || c.TopicMerge.Decay >= 1 {
		return profile.MergeOptions{}, errors.New("topic_merge.decay must be in [0, 1)")
	}
	return profile.MergeOptions{
		Policy:    policy,
		Decay:     c.TopicMerge.Decay,
		Threshold: c.TopicMerge.Threshold,
	}, nil
}

func (c Config) clamp(theta float64) float64 {
	if theta < c.ThetaMin {
		return c.ThetaMin
	}
	if theta > c.ThetaMax {
		return c.ThetaMax
	}
	return theta
}
