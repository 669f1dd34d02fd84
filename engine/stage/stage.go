// Package stage loads the table of demo stages from the embedded stages.yaml.
// A stage names everything that varies between the incremental demos: window title and size,
// clear color, frame quantum, and which draw passes run.
package stage

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-frames/assets"
	"github.com/Carmen-Shannon/oxy-frames/common"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownStage is returned by Load when no stage has the requested name.
	ErrUnknownStage = errors.New("stage: unknown stage")

	// ErrInvalidStage wraps every validation failure.
	ErrInvalidStage = errors.New("stage: invalid stage")
)

// PassKind names one of the fixed draw passes.
type PassKind string

const (
	// PassBackground draws the animated stripe background.
	PassBackground PassKind = "background"

	// PassTriangle draws the rotating triangle.
	PassTriangle PassKind = "triangle"

	// PassForeground draws the textured quad.
	PassForeground PassKind = "foreground"
)

// BlendName is the YAML spelling of a blend mode.
type BlendName string

const (
	// BlendOpaque overwrites the target.
	BlendOpaque BlendName = "opaque"

	// BlendAlpha composites with source-over alpha blending.
	BlendAlpha BlendName = "alpha"
)

// Defaults mirror the values every stage shares unless it overrides them.
const (
	DefaultTitle  = "test"
	DefaultWidth  = 320
	DefaultHeight = 234
)

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Pass is one configured draw pass.
type Pass struct {
	Kind  PassKind  `yaml:"kind"`
	Blend BlendName `yaml:"blend"`
}

// Stage is one demo configuration.
type Stage struct {
	Name       string     `yaml:"name"`
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Quantum    Duration   `yaml:"quantum"`
	Passes     []Pass     `yaml:"passes"`
}

// file is the top-level layout of stages.yaml.
type file struct {
	Defaults Stage   `yaml:"defaults"`
	Stages   []Stage `yaml:"stages"`
}

// Clear returns the configured clear color.
func (s Stage) Clear() common.Color {
	return common.Color{R: s.ClearColor[0], G: s.ClearColor[1], B: s.ClearColor[2], A: s.ClearColor[3]}
}

// Pass returns the configured pass of the given kind, if any.
//
// Parameters:
//   - kind: the pass kind to look up
//
// Returns:
//   - Pass: the pass configuration
//   - bool: false if the stage does not draw that pass
func (s Stage) Pass(kind PassKind) (Pass, bool) {
	for _, p := range s.Passes {
		if p.Kind == kind {
			return p, true
		}
	}
	return Pass{}, false
}

// Parse decodes a stage table, applies the table's defaults (then the package defaults) to
// every stage, and validates the result.
//
// Parameters:
//   - data: YAML stage table
//
// Returns:
//   - []Stage: the stages in file order
//   - error: on malformed YAML or an invalid stage
func Parse(data []byte) ([]Stage, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing stage table: %w", err)
	}

	seen := make(map[string]bool, len(f.Stages))
	stages := make([]Stage, 0, len(f.Stages))
	for _, s := range f.Stages {
		s = applyDefaults(s, f.Defaults)
		if err := validate(s); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate stage name %q", ErrInvalidStage, s.Name)
		}
		seen[s.Name] = true
		stages = append(stages, s)
	}
	return stages, nil
}

// Load returns the named stage from the embedded stage table.
//
// Parameters:
//   - name: the stage name
//
// Returns:
//   - Stage: the stage with defaults applied
//   - error: ErrUnknownStage if absent, or a parse/validation error
func Load(name string) (Stage, error) {
	stages, err := Parse(assets.Stages())
	if err != nil {
		return Stage{}, err
	}
	for _, s := range stages {
		if s.Name == name {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

func applyDefaults(s, d Stage) Stage {
	if s.Title == "" {
		s.Title = common.Coalesce(d.Title, DefaultTitle)
	}
	if s.Width == 0 {
		s.Width = common.Coalesce(d.Width, DefaultWidth)
	}
	if s.Height == 0 {
		s.Height = common.Coalesce(d.Height, DefaultHeight)
	}
	if s.Quantum == 0 {
		s.Quantum = common.Coalesce(d.Quantum, Duration(16_666_667*time.Nanosecond))
	}
	for i := range s.Passes {
		if s.Passes[i].Blend == "" {
			s.Passes[i].Blend = defaultBlend(s.Passes[i].Kind)
		}
	}
	return s
}

func defaultBlend(kind PassKind) BlendName {
	if kind == PassForeground {
		return BlendAlpha
	}
	return BlendOpaque
}

func validate(s Stage) error {
	if s.Name == "" {
		return fmt.Errorf("%w: stage without a name", ErrInvalidStage)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %s: size %dx%d must be positive", ErrInvalidStage, s.Name, s.Width, s.Height)
	}
	if s.Quantum < 0 {
		return fmt.Errorf("%w: %s: negative quantum %v", ErrInvalidStage, s.Name, s.Quantum.Duration())
	}
	for i, c := range s.ClearColor {
		if c < 0 || c > 1 {
			return fmt.Errorf("%w: %s: clear color channel %d = %v outside [0, 1]", ErrInvalidStage, s.Name, i, c)
		}
	}
	kinds := make(map[PassKind]bool, len(s.Passes))
	for _, p := range s.Passes {
		switch p.Kind {
		case PassBackground, PassTriangle, PassForeground:
		default:
			return fmt.Errorf("%w: %s: unknown pass kind %q", ErrInvalidStage, s.Name, p.Kind)
		}
		switch p.Blend {
		case BlendOpaque, BlendAlpha:
		default:
			return fmt.Errorf("%w: %s: unknown blend %q", ErrInvalidStage, s.Name, p.Blend)
		}
		if kinds[p.Kind] {
			return fmt.Errorf("%w: %s: pass %q configured twice", ErrInvalidStage, s.Name, p.Kind)
		}
		kinds[p.Kind] = true
	}
	return nil
}
