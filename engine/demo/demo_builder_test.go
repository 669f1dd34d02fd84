package demo

import (
	"errors"
	"flag"
	"testing"

	"github.com/Carmen-Shannon/oxy-frames/engine/renderer"
)

func TestParseFlags(t *testing.T) {
	uncapped := renderer.PresentModeUncapped
	msaa4x := renderer.MSAA4x
	tests := []struct {
		name            string
		args            []string
		want            config
		wantRendererOps int
	}{
		{name: "defaults", want: config{}},
		{name: "profile and skip", args: []string{"-profile", "-skip-failed-frames"}, want: config{profiling: true, skipFailedFrames: true}},
		{name: "msaa", args: []string{"-msaa"}, want: config{msaa: &msaa4x}, wantRendererOps: 1},
		{name: "software", args: []string{"-software"}, want: config{forceSoftware: true}, wantRendererOps: 1},
		{
			name:            "all renderer flags",
			args:            []string{"-uncapped", "-msaa", "-software"},
			want:            config{presentMode: &uncapped, msaa: &msaa4x, forceSoftware: true},
			wantRendererOps: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseFlags("texquad", tt.args)
			if err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			got := &config{}
			for _, opt := range opts {
				opt(got)
			}
			if got.profiling != tt.want.profiling || got.skipFailedFrames != tt.want.skipFailedFrames || got.forceSoftware != tt.want.forceSoftware {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if (got.msaa == nil) != (tt.want.msaa == nil) || (got.msaa != nil && *got.msaa != *tt.want.msaa) {
				t.Fatalf("msaa = %v, want %v", got.msaa, tt.want.msaa)
			}
			if (got.presentMode == nil) != (tt.want.presentMode == nil) || (got.presentMode != nil && *got.presentMode != *tt.want.presentMode) {
				t.Fatalf("present mode = %v, want %v", got.presentMode, tt.want.presentMode)
			}
			if n := len(got.rendererOptions()); n != tt.wantRendererOps {
				t.Fatalf("renderer options = %d, want %d", n, tt.wantRendererOps)
			}
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	if _, err := ParseFlags("triangle", []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h: expected flag.ErrHelp, got %v", err)
	}
	if _, err := ParseFlags("triangle", []string{"-frames", "3"}); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}
