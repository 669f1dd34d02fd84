// Command clearcolor opens a 320x234 window titled "test" and clears the window to a solid color every frame.
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
	opts, err := demo.ParseFlags("clearcolor", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := demo.Run("clearcolor", opts...); err != nil {
		log.Fatalf("clearcolor: %v", err)
	}
}
