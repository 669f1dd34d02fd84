package demo

import (
	"flag"

	"github.com/Carmen-Shannon/oxy-frames/engine/renderer"
)

// config collects the options applied by Run.
type config struct {
	profiling        bool
	skipFailedFrames bool
	presentMode      *renderer.PresentMode
	msaa             *renderer.MSAASampleCount
	forceSoftware    bool
}

// DemoBuilderOption is a functional option for Run.
type DemoBuilderOption func(*config)

// WithProfiling logs frame rate and memory statistics once per second.
//
// Parameters:
//   - enabled: true to enable the profiler
//
// Returns:
//   - DemoBuilderOption: option function to apply
func WithProfiling(enabled bool) DemoBuilderOption {
	return func(c *config) {
		c.profiling = enabled
	}
}

// WithSkipFailedFrames keeps the scheduler running after a frame fails to render.
//
// Parameters:
//   - skip: true to log and continue after a failed frame
//
// Returns:
//   - DemoBuilderOption: option function to apply
func WithSkipFailedFrames(skip bool) DemoBuilderOption {
	return func(c *config) {
		c.skipFailedFrames = skip
	}
}

// WithPresentMode overrides the renderer's present mode.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - DemoBuilderOption: option function to apply
func WithPresentMode(mode renderer.PresentMode) DemoBuilderOption {
	return func(c *config) {
		c.presentMode = &mode
	}
}

// WithMSAA sets the surface sample count. Pixels along triangle edges then differ from the
// software reference.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - DemoBuilderOption: option function to apply
func WithMSAA(count renderer.MSAASampleCount) DemoBuilderOption {
	return func(c *config) {
		c.msaa = &count
	}
}

// WithForceSoftwareRenderer requests the CPU fallback adapter (lavapipe, SwiftShader) instead of a GPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - DemoBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) DemoBuilderOption {
	return func(c *config) {
		c.forceSoftware = force
	}
}

// rendererOptions translates the run configuration into renderer options.
func (c *config) rendererOptions() []renderer.RendererBuilderOption {
	var opts []renderer.RendererBuilderOption
	if c.presentMode != nil {
		opts = append(opts, renderer.WithPresentMode(*c.presentMode))
	}
	if c.msaa != nil {
		opts = append(opts, renderer.WithMSAA(*c.msaa))
	}
	if c.forceSoftware {
		opts = append(opts, renderer.WithForceSoftwareRenderer(true))
	}
	return opts
}

// ParseFlags parses the command line shared by the demo commands.
//
// Parameters:
//   - name: the command name used in usage output
//   - args: the arguments after the program name
//
// Returns:
//   - []DemoBuilderOption: options for Run
//   - error: flag.ErrHelp for -h, or a parse error
func ParseFlags(name string, args []string) ([]DemoBuilderOption, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	profile := fs.Bool("profile", false, "log frame rate and memory statistics every second")
	skip := fs.Bool("skip-failed-frames", false, "log and continue when a frame fails to render")
	uncapped := fs.Bool("uncapped", false, "present immediately instead of waiting for vertical blank")
	msaa := fs.Bool("msaa", false, "enable 4x multisample anti-aliasing")
	software := fs.Bool("software", false, "force the software fallback adapter")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := []DemoBuilderOption{
		WithProfiling(*profile),
		WithSkipFailedFrames(*skip),
		WithForceSoftwareRenderer(*software),
	}
	if *uncapped {
		opts = append(opts, WithPresentMode(renderer.PresentModeUncapped))
	}
	if *msaa {
		opts = append(opts, WithMSAA(renderer.MSAA4x))
	}
	return opts, nil
}
