package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tcnksm/go-latest"

	"modlauncher/internal/config"
	"modlauncher/internal/discovery"
	"modlauncher/internal/errors"
	"modlauncher/internal/logging"
	"modlauncher/internal/model"
	"modlauncher/internal/modtree"
	"modlauncher/internal/tui"
	"modlauncher/internal/utility"
	"modlauncher/internal/web"
)

func checkUpdate(currentVer string, explicit bool) {
	githubTag := &latest.GithubTag{
		Owner:      "modlauncher",
		Repository: "modlauncher",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/modlauncher/modlauncher/releases")
	} else if explicit {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

type mode int

const (
	modeTUI mode = iota
	modeReport
	modeJSON
	modeWeb
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modlauncher [options]\n\n")
		fmt.Fprintf(os.Stderr, "modlauncher lists the installed game mods, arranged by the mod each one\n")
		fmt.Fprintf(os.Stderr, "requires, and remembers the mod you played last.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables MODLAUNCHER_<KEY> override the defaults, e.g. MODLAUNCHER_UTILITY.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modlauncher                 # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  modlauncher --report        # Print the mod tree to stdout\n")
		fmt.Fprintf(os.Stderr, "  modlauncher -r -o mods.txt  # Save the report to a file\n")
		fmt.Fprintf(os.Stderr, "  modlauncher --json         # Output the mod tree as JSON\n")
		fmt.Fprintf(os.Stderr, "  modlauncher --web          # Serve the mod tree on --web-addr\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output the mod tree and records as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a mod report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include every mod record in the report")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on --web-addr")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("modlauncher version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version, true)
		return
	}

	m := modeTUI
	switch {
	case *webFlag:
		m = modeWeb
	case *reportFlag:
		m = modeReport
	case *jsonFlag:
		m = modeJSON
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, m, *outputFlag, *verboseFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.Getenv("MODLAUNCHER_DEBUG") != "" {
			fmt.Fprintln(os.Stderr, errors.ErrorStack(err))
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, m mode, outputFile string, verbose bool) error {
	v := viper.New()
	config.SetDefaults(v)
	if err := config.BindFlags(v, pflag.CommandLine); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Quiet: m == modeTUI,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	newSession := func(presenter modtree.Presenter) *discovery.Session {
		return discovery.NewSession(client, presenter, logger, discovery.Options{
			Concurrency:      cfg.Concurrency,
			RegistryCapacity: cfg.RegistryCapacity,
			DeferUnresolved:  cfg.DeferUnresolved,
			Timeout:          cfg.Timeout,
		})
	}

	switch m {
	case modeWeb:
		return runWebMode(ctx, newSession(nil), cfg.WebAddr, logger)
	case modeReport:
		return runReportMode(ctx, newSession(nil), outputFile, verbose)
	case modeJSON:
		return runJSONMode(ctx, newSession(nil), os.Stdout)
	}
	return tui.Run(ctx, newSession)
}

func newClient(cfg config.Config, logger *log.Logger) (*utility.Client, error) {
	opts := []utility.RunnerOption{utility.WithLogger(logger)}
	if cfg.GameDir != "" {
		opts = append(opts, utility.WithDir(cfg.GameDir))
	}
	runner, err := utility.NewRunner(cfg.Utility, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("using utility", "command", cfg.Utility, "dir", cfg.GameDir)
	return utility.NewClient(runner, cfg.Queries()), nil
}

func runReportMode(ctx context.Context, session *discovery.Session, outputFile string, verbose bool) error {
	res, err := session.Run(ctx)
	if err != nil {
		return err
	}
	report := discovery.GenerateReport(res, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0o644); err != nil {
			return errors.WithStackTraceAndPrefix(err, "writing report to %s", outputFile)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(report)
	return nil
}

func runJSONMode(ctx context.Context, session *discovery.Session, w io.Writer) error {
	res, err := session.Run(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStackTrace(enc.Encode(res.Snapshot()))
}

func runWebMode(ctx context.Context, session *discovery.Session, addr string, logger *log.Logger) error {
	server := web.NewServer(session, logger)
	ln, err := server.Listen(addr)
	if err != nil {
		return err
	}
	fmt.Printf("Starting modlauncher web server at http://%s\n", ln.Addr())
	return server.Serve(ctx, ln)
}
