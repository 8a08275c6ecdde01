// Package profiler captures CPU and heap profiles of a playback run. The
// render pipeline is the player's hot path; profiles gathered here feed
// converter and store tuning.
package profiler

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/pflag"
)

// Profiler manages runtime profiling for a player run.
//
// Create instances with [New], register flags with
// [Profiler.RegisterFlags], then bracket the run with [Profiler.Start] and
// [Profiler.Stop].
type Profiler struct {
	cpuFile *os.File

	// Output paths (empty = disabled).
	CPUProfile  string
	HeapProfile string
}

// New creates a new [Profiler] with all profiles disabled.
func New() *Profiler {
	return &Profiler{}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (p *Profiler) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&p.CPUProfile, "cpu-profile", "", "write CPU profile to file")
	flags.StringVar(&p.HeapProfile, "heap-profile", "", "write heap profile to file")
}

// Start begins CPU profiling when configured.
func (p *Profiler) Start() error {
	if p.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.CPUProfile)
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()

		return fmt.Errorf("starting CPU profile: %w", err)
	}

	p.cpuFile = f

	return nil
}

// Stop finishes the CPU profile and writes the heap profile when
// configured. Safe to call when [Profiler.Start] did nothing.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		if err := p.cpuFile.Close(); err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}

		p.cpuFile = nil
	}

	if p.HeapProfile == "" {
		return nil
	}

	f, err := os.Create(p.HeapProfile)
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("writing heap profile: %w", err)
	}

	return nil
}
