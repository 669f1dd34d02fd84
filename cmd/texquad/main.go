// Command texquad opens a 320x234 window titled "test" and draws the scrolling stripe background with a 2x2 texture composited over it.
// It exits when the window is closed.
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-frames/engine/demo"
)

func init() {
	// GLFW and the GPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	opts, err := demo.ParseFlags("texquad", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := demo.Run("texquad", opts...); err != nil {
		log.Fatalf("texquad: %v", err)
	}
}
