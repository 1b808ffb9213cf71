// Command picalc estimates pi by counting lattice points inside a
// quarter-disk on a parallel compute backend.
//
// Usage:
//
//	picalc [flags] [N]
//
// N is the grid side length (default 1024). Correctness requires N
// divisible by 8.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/Hurricane996/picalc"
	"github.com/Hurricane996/picalc/internal/gpu"
)

func main() {
	var (
		backendName = flag.String("backend", "auto", "compute backend (auto, gpu, software)")
		verbose     = flag.Bool("v", false, "enable debug logging to stderr")
	)
	flag.Parse()

	if *verbose {
		picalc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	size := uint32(1024)
	if arg := flag.Arg(0); arg != "" {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil || n == 0 {
			log.Fatalf("bad grid size %q: want a positive integer", arg)
		}
		size = uint32(n)
	}

	backend := newBackend(*backendName)
	defer backend.Close()

	ratio, err := picalc.Estimate(backend, size)
	if err != nil {
		log.Fatalf("estimation failed: %v", err)
	}

	fmt.Println("Done!")
	fmt.Printf("pi = %s\n", ratio)
}

// newBackend acquires the requested compute backend. In auto mode a GPU
// acquisition failure falls back to the software counter; with -backend
// gpu it is fatal.
func newBackend(name string) picalc.Backend {
	switch name {
	case "software":
		return picalc.NewSoftwareCounter()

	case "gpu":
		c, err := gpu.NewCounter()
		if err != nil {
			log.Fatalf("GPU backend unavailable: %v", err)
		}
		picalc.PropagateLogger(c)
		return c

	case "auto":
		c, err := gpu.NewCounter()
		if err != nil {
			picalc.Logger().Warn("picalc: GPU unavailable, using software backend", "error", err)
			return picalc.NewSoftwareCounter()
		}
		picalc.PropagateLogger(c)
		return c

	default:
		log.Fatalf("unknown backend %q: want auto, gpu, or software", name)
		return nil
	}
}
