// Command features runs the feature stages over a JSON file of readings and
// writes the resulting table as CSV, optionally plotting it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/features"
	"github.com/banshee-data/motion.report/internal/pipeline"
)

var (
	configPath = flag.String("config", "", "Service config to take sensor addresses and sizes from")
	addresses  = flag.String("addresses", "", "Comma-separated sensor addresses (overrides config)")
	in         = flag.String("in", "-", "Readings JSON file, - for stdin")
	out        = flag.String("out", "-", "CSV output file, - for stdout")
	stage      = flag.String("stage", string(pipeline.StageMerged), "Stage to export: merged, normalized, magnitude or rolled")
	rolling    = flag.Int("rolling", 0, "Rolling average size (overrides config)")
	plotPath   = flag.String("plot", "", "Write a PNG line plot of the table to this path")
	summary    = flag.Bool("summary", false, "Print per-column statistics as JSON to stderr")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func buildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *addresses != "" {
		cfg.SensorAddresses = strings.Split(*addresses, ",")
	}
	if *rolling > 0 {
		cfg.RollingSize = rolling
	}
	return cfg, cfg.Validate()
}

func run() error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	st, err := pipeline.ParseStage(*stage)
	if err != nil {
		return err
	}
	p, err := pipeline.New(pipeline.Options{
		Addresses:     cfg.SensorAddresses,
		Skip:          cfg.SkipSensorIndexes,
		RollingSize:   cfg.GetRollingSize(),
		WindowSize:    cfg.GetWindowSize(),
		MinConfidence: cfg.GetMinConfidence(),
	}, classify.NewIdleDetector(), nil)
	if err != nil {
		return err
	}

	readings, err := readInput(*in)
	if err != nil {
		return err
	}
	table, err := p.Features(readings, st)
	if err != nil {
		return err
	}
	log.Printf("%s: %d readings -> %d rows x %d columns", st, len(readings), table.Len(), table.NumColumns())

	if err := writeOutput(*out, table); err != nil {
		return err
	}
	if *summary {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(table.Summary()); err != nil {
			return err
		}
	}
	if *plotPath != "" {
		if err := plotTable(table, string(st), *plotPath); err != nil {
			return fmt.Errorf("failed to plot: %w", err)
		}
		log.Printf("wrote plot to %s", *plotPath)
	}
	return nil
}

func readInput(path string) ([]features.Reading, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return features.ReadReadingsJSON(r)
}

func writeOutput(path string, t *features.Table) error {
	if path == "-" {
		return features.WriteCSV(os.Stdout, t)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := features.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
