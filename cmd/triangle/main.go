// Command triangle opens a 320x234 window titled "test" and draws a red triangle rotating once every 2π seconds.
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
	opts, err := demo.ParseFlags("triangle", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := demo.Run("triangle", opts...); err != nil {
		log.Fatalf("triangle: %v", err)
	}
}
