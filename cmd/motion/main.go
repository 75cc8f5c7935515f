package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/motion.report/internal/api"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/db"
	"github.com/banshee-data/motion.report/internal/health"
	"github.com/banshee-data/motion.report/internal/pipeline"
	"github.com/banshee-data/motion.report/internal/serialmux"
	"github.com/banshee-data/motion.report/internal/version"
)

var (
	configPath  = flag.String("config", config.DefaultConfigPath, "Path to the JSON configuration file")
	devMode     = flag.Bool("dev", false, "Replay hub lines from -fixtures instead of opening a serial port")
	fixtures    = flag.String("fixtures", "fixtures.jsonl", "Hub lines replayed in dev mode")
	listen      = flag.String("listen", "", "HTTP listen address (overrides config)")
	grpcListen  = flag.String("grpc-listen", "", "gRPC health listen address (overrides config)")
	port        = flag.String("port", "", "Sensor hub serial port (overrides config)")
	addresses   = flag.String("addresses", "", "Comma-separated sensor addresses (overrides config)")
	dbPath      = flag.String("db", "", "SQLite database path (overrides config)")
	noDB        = flag.Bool("no-db", false, "Do not persist batches or predictions")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// loadConfig reads the configuration file. A missing file at the default
// path is not an error: the defaults apply, and sensor addresses must then
// come from -addresses.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		log.Printf("no config at %s, using defaults", path)
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// applyFlags overrides config values with any flags given on the command line.
func applyFlags(cfg *config.Config) {
	if *listen != "" {
		cfg.Listen = listen
	}
	if *grpcListen != "" {
		cfg.GRPCListen = grpcListen
	}
	if *port != "" {
		cfg.SerialPort = port
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}
	if *addresses != "" {
		cfg.SensorAddresses = nil
		for _, a := range strings.Split(*addresses, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.SensorAddresses = append(cfg.SensorAddresses, a)
			}
		}
	}
}

// buildPipeline builds the recognition pipeline, pointing at the config file
// and -addresses when no sensors are configured.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	p, err := pipeline.FromConfig(cfg)
	if errors.Is(err, pipeline.ErrNoAddresses) {
		return nil, fmt.Errorf("%w: set sensor_addresses in %s or pass -addresses", err, *configPath)
	}
	return p, err
}

func readFixtures(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures file: %w", err)
	}
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if line = bytes.TrimSpace(line); len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// openHub returns the sensor hub mux, or nil when no hub is configured.
func openHub(cfg *config.Config) (serialmux.SerialMuxInterface, error) {
	if *devMode {
		lines, err := readFixtures(*fixtures)
		if err != nil {
			return nil, err
		}
		log.Printf("dev mode: replaying %d lines from %s", len(lines), *fixtures)
		return serialmux.NewMockSerialMux(lines, 20*time.Millisecond), nil
	}
	if cfg.GetSerialPort() == "" {
		return nil, nil
	}
	mux, err := serialmux.NewRealSerialMux(cfg.GetSerialPort(), cfg.GetSerialOptions())
	if err != nil {
		return nil, err
	}
	return mux, nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("motion.report", version.String())
		return
	}

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})
	cfg, err := loadConfig(*configPath, explicitConfig)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	var database *db.DB
	if !*noDB {
		database, err = db.NewDB(cfg.GetDBPath())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
	}

	server := api.NewServer(p, database)

	hub, err := openHub(cfg)
	if err != nil {
		log.Fatalf("failed to open sensor hub: %v", err)
	}
	if hub != nil {
		defer hub.Close()
		if err := hub.Initialize(); err != nil {
			log.Fatalf("failed to initialize sensor hub: %v", err)
		}
		log.Printf("initialized sensor hub")
	}

	// Create a wait group for the HTTP server, serial monitor, collector and
	// health routines
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if hub != nil {
		// run the monitor routine to manage IO on the serial port
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := hub.Monitor(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("failed to monitor serial port: %v", err)
			}
			log.Print("monitor routine terminated")
		}()

		collector := serialmux.NewCollector(hub, cfg.GetBatchSize(), cfg.GetBatchTimeout(), server.HandleBatch)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := collector.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("collector stopped: %v", err)
			}
			log.Print("collector routine terminated")
		}()
	}

	if addr := cfg.GetGRPCListen(); addr != "" {
		hs, err := health.Listen(addr)
		if err != nil {
			log.Fatalf("failed to listen for gRPC health on %s: %v", addr, err)
		}
		hs.SetReady(true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			go func() {
				if err := hs.Serve(); err != nil {
					log.Printf("gRPC health server error: %v", err)
				}
			}()
			<-ctx.Done()
			hs.Stop()
			log.Printf("gRPC health routine stopped")
		}()
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := server.ServeMux()
		server.AttachAdminRoutes(mux)
		if hub != nil {
			hub.AttachAdminRoutes(mux)
		}
		if database != nil {
			if err := database.AttachAdminRoutes(mux); err != nil {
				log.Printf("admin database routes unavailable: %v", err)
			}
		}

		httpServer := &http.Server{
			Addr:    cfg.GetListen(),
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := httpServer.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
