package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/apisec/sentinel/pkg/api"
	"github.com/apisec/sentinel/pkg/cli"
	"github.com/apisec/sentinel/pkg/config"
	"github.com/apisec/sentinel/pkg/proxy"
	"github.com/apisec/sentinel/pkg/proxy/ca"
	"github.com/apisec/sentinel/pkg/proxy/events"
	"github.com/apisec/sentinel/pkg/scanner"
	"github.com/apisec/sentinel/pkg/scanner/plugins"
	"github.com/apisec/sentinel/pkg/store"
	"github.com/apisec/sentinel/pkg/store/retention"
	"github.com/apisec/sentinel/pkg/telemetry/logging"
	"github.com/apisec/sentinel/pkg/telemetry/metrics"
	"github.com/apisec/sentinel/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Sentinel proxy and control plane",
	Long: `Start the Sentinel interception proxy, passive scanner, drift detector,
and control plane with the specified configuration.

The proxy listens on the configured address and MITMs traffic behind a
freshly minted in-memory root CA, pausing requests and responses for
operator review when interception is enabled. Every flow is scanned for
vulnerabilities and checked for drift against stored OpenAPI specs before
being recorded in the asset store.

Examples:
  # Start with default config
  sentinel run

  # Start with custom config
  sentinel run --config /etc/sentinel/config.yaml

  # Override listen address
  sentinel run --listen 0.0.0.0:8080

  # Validate config without starting the proxy
  sentinel run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override proxy listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the proxy")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
	})
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize logger: %w", err))
	}
	slogger := logger.Slog()

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracer: %w", err))
	}
	defer tracer.Shutdown(context.Background())

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	slogger.Info("minting in-memory root CA")
	caMgr, err := ca.NewManager(cfg.CA)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize certificate authority: %w", err))
	}
	fmt.Printf("✓ Root CA minted (%s)\n", cfg.CA.CommonName)

	slogger.Info("opening asset store", "path", cfg.Store.Path)
	assetStore, err := store.New(cfg.Store, slogger)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to open asset store: %w", err))
	}
	defer assetStore.Close()
	fmt.Println("✓ Asset store opened")

	pluginLoader := plugins.NewLoader(cfg.Scanner.PluginDirectory, slogger)
	scannerInstance := scanner.New(cfg.Scanner, pluginLoader, assetStore, slogger)
	fmt.Println("✓ Scanner initialized")

	hub := events.NewHub(slogger, true)
	go hub.Run()
	defer hub.Close()

	proxySrv := proxy.NewServer(cfg.Proxy, caMgr, hub, scannerInstance, assetStore, slogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pruneScheduler *retention.Scheduler
	if cfg.Store.Retention.Days > 0 && cfg.Store.Retention.PruneSchedule != "" {
		pruner := retention.NewPruner(assetStore, cfg.Store.Retention, slogger)
		pruneScheduler = retention.NewScheduler(pruner)
		if err := pruneScheduler.Start(ctx, cfg.Store.Retention.PruneSchedule); err != nil {
			slogger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer pruneScheduler.Stop()
			fmt.Printf("✓ Retention scheduler started (%s, %d day window)\n", cfg.Store.Retention.PruneSchedule, cfg.Store.Retention.Days)
		}
	}

	errChan := make(chan error, 2)

	go func() {
		slogger.Info("starting proxy", "address", cfg.Proxy.ListenAddress)
		if err := proxySrv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("proxy error: %w", err)
		}
	}()

	if cfg.Telemetry.Metrics.Enabled {
		metricsSrv := &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: collector.Handler(),
		}
		go func() {
			slogger.Info("starting metrics endpoint", "address", cfg.Telemetry.Metrics.ListenAddress, "path", cfg.Telemetry.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
		defer metricsSrv.Shutdown(context.Background())
	}

	api.SetBuildInfo(Version, GitCommit, BuildDate)
	controlSrv, err := api.NewServer(api.Config{
		ListenAddress:   cfg.API.ListenAddress,
		ReadTimeout:     cfg.Proxy.ReadTimeout,
		WriteTimeout:    cfg.Proxy.WriteTimeout,
		ShutdownTimeout: cfg.Proxy.ShutdownTimeout,
		TLS:             cfg.API.TLS,
	}, proxySrv, assetStore, hub, slogger)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to configure control-plane TLS: %v", err))
	}

	go func() {
		slogger.Info("starting control plane", "address", controlSrv.Addr())
		if err := controlSrv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("control plane error: %w", err)
		}
	}()

	if err := waitForServerReady(cfg.Proxy.ListenAddress, 5*time.Second); err != nil {
		return fmt.Errorf("proxy failed to start: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Proxy listening on %s\n", cfg.Proxy.ListenAddress)
	fmt.Printf("✓ Control plane listening on %s\n", controlSrv.Addr())
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Proxy.ShutdownTimeout)
		defer shutdownCancel()

		if err := proxySrv.Shutdown(shutdownCtx); err != nil {
			slogger.Error("proxy shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}
		if err := controlSrv.Shutdown(shutdownCtx); err != nil {
			slogger.Error("control plane shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Proxy stopped")
		return nil
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Sentinel v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")
}

// waitForServerReady gives the proxy's accept loop a moment to bind its
// listener before the banner reports it as up.
func waitForServerReady(address string, timeout time.Duration) error {
	time.Sleep(100 * time.Millisecond)
	return nil
}

