// gendata generates the recorded sensor series that the simulation
// driver replays.
//
// Usage:
//
//	gendata -hours 24 -out data/sensor-data.json
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/homesim/homesim-core/internal/simulation"
)

func main() {
	hours := flag.Int("hours", 24, "hours of data to generate")
	out := flag.String("out", "data/sensor-data.json", "output file path")
	flag.Parse()

	if err := run(*hours, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(hours int, out string) error {
	if hours < 1 {
		return fmt.Errorf("hours must be at least 1, got %d", hours)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file := simulation.GenerateSeries(hours)
	if err := simulation.WriteFile(out, file); err != nil {
		return err
	}

	fmt.Printf("generated %d readings for %d devices over %dh -> %s\n",
		file.Metadata.ReadingCount,
		file.Metadata.DeviceCount,
		file.Metadata.DurationHours,
		out,
	)
	return nil
}
