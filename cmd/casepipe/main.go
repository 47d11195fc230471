// Command casepipe runs the configured dataset pipelines: fetch, clean,
// reshape, aggregate, and optionally persist and model.
//
// Usage:
//
//	casepipe -config pipelines.json
//	casepipe -config pipelines.json -validate
//	casepipe -config pipelines.json -metrics-backend pushgateway -pushgateway-url http://localhost:9091
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"casepipe/internal/config"
	"casepipe/internal/datasource/httpds"
	"casepipe/internal/metrics"
	"casepipe/internal/metrics/datadog"
	"casepipe/internal/metrics/prompush"
	"casepipe/internal/pipeline"
	_ "casepipe/internal/storage/all" // register storage backends
)

func main() {
	var (
		configPath     = flag.String("config", "", "path to the pipelines JSON config (required)")
		validateOnly   = flag.Bool("validate", false, "validate the config and exit")
		metricsBackend = flag.String("metrics-backend", "none", "metrics backend: none, pushgateway, or datadog")
		pushgatewayURL = flag.String("pushgateway-url", os.Getenv("CASEPIPE_PUSHGATEWAY_URL"), "Prometheus Pushgateway base URL")
		datadogAddr    = flag.String("datadog-addr", os.Getenv("CASEPIPE_DATADOG_ADDR"), "DogStatsD address (host:port)")
	)
	flag.Parse()

	if *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("casepipe: %v", err)
	}

	bad := false
	for i, p := range cfg.Pipelines {
		for _, issue := range config.ValidatePipeline(p) {
			log.Printf("casepipe: pipelines[%d]: %v", i, issue)
			if issue.Severity == config.SeverityError {
				bad = true
			}
		}
	}
	if bad {
		log.Fatalf("casepipe: config %s failed validation", *configPath)
	}
	if *validateOnly {
		fmt.Printf("%s: %d pipeline(s) valid\n", *configPath, len(cfg.Pipelines))
		return
	}

	if err := setupMetrics(*metricsBackend, *pushgatewayURL, *datadogAddr); err != nil {
		log.Fatalf("casepipe: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(httpds.NewClient(httpds.Config{}))
	summaries, err := runner.RunAll(ctx, cfg.Pipelines)
	if flushErr := metrics.Flush(); flushErr != nil {
		log.Printf("casepipe: metrics flush: %v", flushErr)
	}
	if err != nil {
		log.Fatalf("casepipe: %v", err)
	}

	for _, s := range summaries {
		printSummary(s)
	}
}

func loadConfig(path string) (*config.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	var cfg config.File
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if len(cfg.Pipelines) == 0 {
		return nil, fmt.Errorf("config %s defines no pipelines", path)
	}
	return &cfg, nil
}

// setupMetrics installs the selected backend; "none" keeps the no-op default.
func setupMetrics(kind, pushgatewayURL, datadogAddr string) error {
	switch kind {
	case "", "none":
		return nil
	case "pushgateway":
		b, err := prompush.NewBackend("casepipe", pushgatewayURL)
		if err != nil {
			return fmt.Errorf("pushgateway backend: %w", err)
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: datadogAddr, Namespace: "casepipe"})
		if err != nil {
			return fmt.Errorf("datadog backend: %w", err)
		}
		metrics.SetBackend(b)
	default:
		return fmt.Errorf("unknown metrics backend %q", kind)
	}
	return nil
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("%s (%s): cleaned=%d dropped=%d", s.Job, s.Dataset, s.Cleaned, s.Dropped)
	if s.Dataset == config.DatasetCases {
		fmt.Printf(" observations=%d", s.Observations)
	}
	if s.Stored > 0 {
		fmt.Printf(" stored=%d", s.Stored)
	}
	fmt.Println()
	for _, src := range s.Sources {
		fmt.Printf("  source %s", src.Location)
		if src.Category != "" {
			fmt.Printf(" [%s]", src.Category)
		}
		fmt.Printf(": parsed=%d skipped=%d fingerprint=%s\n", src.Parsed, src.Skipped, src.Fingerprint)
	}
	for _, w := range s.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if s.Model != nil {
		fmt.Printf("  model: accuracy=%.3f train=%d test=%d features=%d\n",
			s.Model.Accuracy, s.Model.TrainRows, s.Model.TestRows, len(s.Model.Features))
	}
}
