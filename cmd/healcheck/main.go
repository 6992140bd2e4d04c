// Package main provides healcheck, which runs a locator plan against a live
// browser and writes the self-healing report for CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/entrhq/heal/pkg/config"
	"github.com/entrhq/heal/pkg/driver/pwpage"
	"github.com/entrhq/heal/pkg/driver/rodpage"
	"github.com/entrhq/heal/pkg/heal"
	"github.com/entrhq/heal/pkg/logging"
	"github.com/entrhq/heal/pkg/report"
	"github.com/entrhq/heal/pkg/suite"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	PlanFile    string
	ConfigFile  string
	Only        patternList
	Skip        patternList
	Timeout     time.Duration
	ShowVersion bool
}

// patternList collects a repeatable flag.
type patternList []string

func (p *patternList) String() string {
	return strings.Join(*p, ",")
}

func (p *patternList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("healcheck v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	failed, err := run(ctx, cli, os.Stdout)
	cancel()
	if err != nil {
		log.Printf("healcheck failed: %v", err)
		os.Exit(2)
	}
	if failed {
		os.Exit(1)
	}
}

func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.PlanFile, "plan", "", "Path to the locator plan (YAML, required)")
	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.Var(&cli.Only, "only", "Run only steps matching this glob (repeatable)")
	flag.Var(&cli.Skip, "skip", "Skip steps matching this glob (repeatable)")
	flag.DurationVar(&cli.Timeout, "timeout", 5*time.Minute, "Overall run timeout")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "healcheck - self-healing locator check\n\n")
		fmt.Fprintf(os.Stderr, "Usage: healcheck -plan plan.yaml [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  healcheck -plan login.yaml\n")
		fmt.Fprintf(os.Stderr, "  HEAL_DRIVER=rod healcheck -plan login.yaml -only 'Login*'\n\n")
	}

	flag.Parse()
	return cli
}

// browserSession is the part of a driver session healcheck needs.
type browserSession interface {
	Close() error
}

// navigablePage is a heal.Page that can load a URL.
type navigablePage interface {
	heal.Page
	Navigate(ctx context.Context, url string, timeout time.Duration) error
}

// run executes the plan and reports whether any step failed.
func run(ctx context.Context, cli *CLIConfig, out io.Writer) (bool, error) {
	if cli.PlanFile == "" {
		return false, fmt.Errorf("-plan is required")
	}

	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return false, err
	}

	plan, err := suite.LoadPlan(cli.PlanFile)
	if err != nil {
		return false, err
	}

	filter, err := suite.NewFilter(cli.Only, cli.Skip)
	if err != nil {
		return false, err
	}

	logger, err := logging.NewLogger("healcheck")
	if err != nil {
		logger.Warnf("Failed to initialize file logging, using stderr fallback: %v", err)
	}
	defer logger.Close()
	if verbosity, verr := logging.ParseVerbosity(cfg.Logging.Verbosity); verr == nil {
		logger.SetVerbosity(verbosity, os.Stderr)
	}

	if cli.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cli.Timeout)
		defer cancel()
	}

	session, page, dialect, err := openBrowser(cfg)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warnf("Failed to close browser: %v", cerr)
		}
	}()

	target := strings.TrimRight(cfg.BaseURL, "/") + plan.Path
	logger.Infof("Navigating to %s", target)
	if err := page.Navigate(ctx, target, cfg.NavigationTimeout); err != nil {
		return false, err
	}

	locator := heal.New(page, heal.WithDialect(dialect), heal.WithLogger(logger))
	runner := suite.NewRunner(locator, filter, cfg.Timeout)

	start := time.Now()
	result := runner.Run(ctx, plan)
	end := time.Now()

	sink := report.NewDirSink(cfg.Report.OutputDir)
	locator.AttachToReport(sink, cfg.Report.Name)

	summary := report.NewSummary(plan.Name, start, end, locator.Log())
	if err := report.WriteMetricsJSON(sink, summary); err != nil {
		logger.Warnf("Failed to write metrics: %v", err)
	}
	if cfg.Report.Markdown {
		if err := report.WriteSummaryMarkdown(sink, summary); err != nil {
			logger.Warnf("Failed to write summary: %v", err)
		}
	}

	printResult(out, result, summary)
	return result.Failed(), nil
}

func openBrowser(cfg *config.Config) (browserSession, navigablePage, heal.Dialect, error) {
	switch cfg.Driver {
	case config.DriverRod:
		s, err := rodpage.Launch(cfg.Headless)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s.Page(), heal.XPathDialect{}, nil
	default:
		s, err := pwpage.Launch(pwpage.SessionOptions{
			Headless: cfg.Headless,
			Install:  cfg.InstallBrowsers,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s.Page(), heal.PlaywrightDialect{}, nil
	}
}

func printResult(out io.Writer, result *suite.Result, summary *report.Summary) {
	for _, step := range result.Steps {
		switch step.Status {
		case suite.StatusPassed:
			fmt.Fprintf(out, "PASS  %s (%s)\n", step.Name, step.Duration.Round(time.Millisecond))
		case suite.StatusFailed:
			fmt.Fprintf(out, "FAIL  %s: %s\n", step.Name, step.Error)
		default:
			fmt.Fprintf(out, "SKIP  %s\n", step.Name)
		}
	}

	m := summary.Metrics
	fmt.Fprintf(out, "\n%d passed, %d failed, %d skipped | %d resolutions: %d direct, %d healed, %d not found\n",
		result.Count(suite.StatusPassed), result.Count(suite.StatusFailed), result.Count(suite.StatusSkipped),
		m.Resolutions, m.Direct, m.Healed, m.NotFound)
}
