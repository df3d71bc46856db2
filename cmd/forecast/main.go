// Package main is the entry point for the election forecasting engine's
// daily analysis run: load configuration and campaign data, fetch the
// current poll feed, run the Driver's worker pool and Bayesian walk over
// the full campaign history, persist the result, and emit a renderer-facing
// export (spec §6).
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/electionforecast/internal/campaignio"
	"github.com/yourusername/electionforecast/internal/config"
	"github.com/yourusername/electionforecast/internal/driver"
	"github.com/yourusername/electionforecast/internal/export"
	"github.com/yourusername/electionforecast/internal/feed"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/health"
	"github.com/yourusername/electionforecast/internal/history"
	"github.com/yourusername/electionforecast/internal/logger"
	"github.com/yourusername/electionforecast/internal/metrics"
	"github.com/yourusername/electionforecast/internal/scheduler"
	"github.com/yourusername/electionforecast/internal/tracing"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile     string
	campaignFile   string
	numThreads     int
	resetHistory   bool
	skipHTML       bool
	cacheOnly      bool
	notBackdating  bool
	outputPath     string

	appLog   *logrus.Logger
	auditLog *logger.AuditLogger
	cfg      *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&campaignFile, "campaign", "config/campaign.json", "Path to campaign definition file")
	rootCmd.Flags().IntVar(&numThreads, "num-threads", 0, "Worker pool size (0 uses the configured default)")
	rootCmd.Flags().BoolVar(&resetHistory, "reset-history", false, "Delete all persisted history for this campaign before running")
	rootCmd.Flags().BoolVar(&skipHTML, "skip-html", false, "Skip writing the renderer-facing export file")
	rootCmd.Flags().BoolVar(&cacheOnly, "cache-only", false, "Reuse the persisted history instead of re-running the daily analysis")
	rootCmd.Flags().BoolVar(&notBackdating, "not-backdating", false, "Disable House rating backdating for this run")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "Path to write the renderer export JSON (defaults to stdout)")
}

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run the election forecasting engine's daily analysis",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region != "" && secretName != "" {
				if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
					return fmt.Errorf("failed to load secrets: %w", err)
				}
			}
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		auditLog = logger.NewAuditLogger(appLog)

		if cfg.Tracing.Enabled {
			tracing.Initialize(tracing.Config{
				ServiceName:  cfg.App.Name,
				Enabled:      true,
				SamplingRate: cfg.Tracing.SamplingRate,
				DaemonAddr:   cfg.Tracing.DaemonAddr,
			}, appLog)
			appLog.WithField("daemon_addr", cfg.Tracing.DaemonAddr).Info("AWS X-Ray tracing initialized")
		}

		return nil
	},
	RunE: runForecast,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLog.WithField("signal", sig).Warn("shutdown signal received, cancelling run")
		cancel()
	}()

	campaign, err := campaignio.Load(campaignFile)
	if err != nil {
		return fmt.Errorf("loading campaign definition: %w", err)
	}

	db, err := history.Connect(ctx, history.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Name:           cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return fmt.Errorf("connecting to history database: %w", err)
	}
	defer db.Close()

	repo := history.NewPostgresRepository(db, cfg.Campaign.Name, appLog)

	var healthSrv *health.Server
	if cfg.Health.Enabled {
		healthSrv = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        cfg.Health.Port,
			Logger:      appLog,
			DB:          db,
		})
		if err := healthSrv.Start(ctx); err != nil {
			return fmt.Errorf("starting health server: %w", err)
		}
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = startMetricsServer(ctx)
	}

	if metricsSrv != nil {
		defer metricsSrv.Shutdown(context.Background())
	}

	if resetHistory || cfg.Features.ResetHistory {
		appLog.Info("resetting persisted history for this campaign")
		if err := repo.Reset(ctx); err != nil {
			return fmt.Errorf("resetting history: %w", err)
		}
	}

	if cfg.Scheduler.Enabled {
		return runScheduled(ctx, campaign, repo, healthSrv)
	}

	var results []forecast.ModelData
	if cacheOnly || cfg.Features.CacheOnly {
		appLog.Info("cache-only run: reusing persisted history, skipping daily analysis")
		results, err = repo.All(ctx)
		if err != nil {
			return fmt.Errorf("loading cached history: %w", err)
		}
	} else {
		if healthSrv != nil {
			healthSrv.SetReady(false)
		}
		results, err = runDriver(ctx, campaign, repo)
		if err != nil {
			return err
		}
	}

	if healthSrv != nil {
		healthSrv.SetReady(true)
	}

	if skipHTML || cfg.Features.SkipHTML {
		appLog.Info("skip-html set: not writing renderer export")
		return nil
	}

	return writeExport(results)
}

// startMetricsServer serves the Prometheus registry's handler on
// cfg.Metrics.Port/Path until ctx is cancelled.
func startMetricsServer(ctx context.Context) *http.Server {
	metrics.InitRegistry()

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		appLog.WithFields(logrus.Fields{"port": cfg.Metrics.Port, "path": cfg.Metrics.Path}).Info("metrics server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	return srv
}

// runScheduled re-runs the driver and export on cfg.Scheduler.RunCron,
// for deployments that want a standing process re-analyzing a campaign
// as new polls arrive rather than a one-shot invocation (spec §6 ambient
// scheduling option). It performs one run immediately, then blocks until
// ctx is cancelled.
func runScheduled(ctx context.Context, campaign forecast.Campaign, repo history.Repository, healthSrv *health.Server) error {
	runOnce := func(ctx context.Context) error {
		if healthSrv != nil {
			healthSrv.SetReady(false)
		}
		results, err := runDriver(ctx, campaign, repo)
		if err != nil {
			return err
		}
		if healthSrv != nil {
			healthSrv.SetReady(true)
		}
		if skipHTML || cfg.Features.SkipHTML {
			return nil
		}
		return writeExport(results)
	}

	stdLog := log.New(appLog.Writer(), "", 0)
	sched := scheduler.NewScheduler(runOnce, stdLog)
	if err := sched.ScheduleRun(cfg.Scheduler.RunCron); err != nil {
		return fmt.Errorf("scheduling recurring run: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	appLog.WithField("cron", cfg.Scheduler.RunCron).Info("scheduler running, performing initial campaign run")

	if err := runOnce(ctx); err != nil {
		appLog.WithError(err).Warn("initial scheduled campaign run failed")
	}

	<-ctx.Done()
	return sched.Stop()
}

func runDriver(ctx context.Context, campaign forecast.Campaign, repo history.Repository) ([]forecast.ModelData, error) {
	ctx, segment := tracing.StartSegment(ctx, "campaign_run")
	defer segment.Close(nil)
	tracing.AddAnnotation(ctx, "campaign", cfg.Campaign.Name)

	workers := cfg.Driver.NumWorkers
	if numThreads > 0 {
		auditLog.LogConfigOverride("driver.num_workers", workers, numThreads)
		workers = numThreads
	}
	backdate := cfg.Driver.BackdateHouse && !(notBackdating || cfg.Features.NotBackdating)
	if notBackdating && cfg.Driver.BackdateHouse {
		auditLog.LogConfigOverride("driver.backdate_house", true, false)
	}
	env := forecast.NewEnv(time.Local, time.Now(), campaign.EndDate, workers)

	d := driver.NewFromEnv(driver.Config{
		NumWorkers:    workers,
		HistogramTTL:  time.Duration(cfg.Driver.HistogramTTLSecs) * time.Second,
		BackdateHouse: backdate,
	}, env, appLog)

	feedSource, err := buildFeedSource()
	if err != nil {
		tracing.AddError(ctx, err)
		return nil, err
	}

	appLog.WithField("source", feedSource.Name()).Info("fetching poll feed")
	feedData, err := feedSource.FetchFeed(ctx, campaign)
	if err != nil {
		tracing.AddError(ctx, err)
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	start := time.Now()
	results, runErr := d.Run(campaign, feedData, func(done, total int) {
		appLog.WithFields(logrus.Fields{"done": done, "total": total}).Debug("daily analysis progress")
	})
	appLog.WithField("duration", time.Since(start)).Info("driver run complete")
	if runErr != nil {
		tracing.AddError(ctx, runErr)
		appLog.WithError(runErr).Warn("one or more campaign days failed analysis; partial results were still written")

		daysCompleted := 0
		for _, md := range results {
			if !md.Date.IsZero() {
				daysCompleted++
			}
		}
		if daysCompleted == 0 {
			auditLog.LogFatalRunAbort(runErr.Error(), daysCompleted, len(results))
		}
	}

	if err := repo.SaveAll(ctx, results); err != nil {
		appLog.WithError(err).Error("failed to persist some or all history")
	}

	return results, nil
}

func buildFeedSource() (feed.Source, error) {
	factory := feed.NewFactory(appLog)

	for _, sc := range cfg.Feed.Sources {
		if !sc.Enabled {
			continue
		}
		var client *feed.RateLimitedClient
		if sc.Type == "http" {
			clientCfg := feed.DefaultHTTPClientConfig()
			clientCfg.Source = sc.Name
			client = feed.NewRateLimitedClient(clientCfg, appLog)
		}
		src, err := factory.Create(feed.Config{
			Type:    feed.SourceType(sc.Type),
			Name:    sc.Name,
			BaseURL: sc.BaseURL,
			APIKey:  sc.APIKey,
			Enabled: sc.Enabled,
		}, client)
		if err != nil {
			return nil, fmt.Errorf("building feed source %q: %w", sc.Name, err)
		}
		return src, nil
	}

	return nil, fmt.Errorf("no enabled feed source configured")
}

func writeExport(results []forecast.ModelData) error {
	if outputPath == "" {
		return export.WriteHistory(os.Stdout, results)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()
	return export.WriteHistory(f, results)
}
