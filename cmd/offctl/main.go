// Command offctl calls the Folksonomy Engine and NutriPatrol APIs from the
// command line and prints the results as JSON.
//
// Usage:
//
//	offctl [flags] <service> <command> [args...]
//
// Successful calls print the payload on stdout. Failed calls print the
// normalized failure on stderr and exit with status 1.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/kbukum/offclient/config"
	"github.com/kbukum/offclient/folksonomy"
	"github.com/kbukum/offclient/httpclient"
	"github.com/kbukum/offclient/httpclient/rest"
	"github.com/kbukum/offclient/logger"
	"github.com/kbukum/offclient/nutripatrol"
	"github.com/kbukum/offclient/observability"
	"github.com/kbukum/offclient/version"
)

const serviceName = "offctl"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app holds everything a command needs.
type app struct {
	cfg         *config.Config
	log         *logger.Logger
	folksonomy  *folksonomy.Client
	nutripatrol *nutripatrol.Client
}

// command runs one subcommand and returns the value to print.
type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) (any, error)
}

// errUsage marks argument errors.
var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "config file (default: search ./, ./config and the user config dir)")
	envFile := fs.String("env", "", ".env file")
	token := fs.String("token", "", "Folksonomy access token, overrides folksonomy.token")
	staging := fs.Bool("staging", false, "target the staging deployments")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() { printUsage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		return writeJSON(stdout, version.GetVersionInfo())
	}

	argv := fs.Args()
	if len(argv) == 1 && argv[0] == "health" {
		argv = []string{"health", "check"}
	}
	if len(argv) < 2 {
		fs.Usage()
		return 2
	}
	cmd, ok := commands[argv[0]][argv[1]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", strings.Join(argv[:2], " "))
		fs.Usage()
		return 2
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	cfg, err := config.Load(serviceName, opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *staging {
		cfg.Environment = config.EnvStaging
		cfg.Folksonomy.BaseURL = folksonomy.StagingBaseURL
		cfg.NutriPatrol.BaseURL = nutripatrol.StagingBaseURL
	}
	if *token != "" {
		cfg.Folksonomy.Token = *token
	}

	log := logger.NewWithWriter(&cfg.Logging, stderr, serviceName)

	shutdown, err := setupTelemetry(ctx, cfg, log)
	if err != nil {
		log.Error("telemetry setup failed", logger.ErrorFields("setup_telemetry", err))
		return 1
	}
	defer shutdown()

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error("client setup failed", logger.ErrorFields("new_app", err))
		return 1
	}

	name := argv[0] + "." + argv[1]
	ctx, span := observability.StartSpan(ctx, name)
	defer span.End()

	out, err := cmd.run(ctx, a, argv[2:])
	if out != nil {
		if code := writeJSON(stdout, out); code != 0 {
			return code
		}
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		return fail(stderr, argv[0], cmd, err)
	}
	return 0
}

// newApp builds both clients on one shared transport.
func newApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	t, err := newTransport(cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg: cfg,
		log: log,
		folksonomy: folksonomy.NewWithTransport(t,
			folksonomy.WithBaseURL(cfg.Folksonomy.BaseURL),
			folksonomy.WithToken(cfg.Folksonomy.Token),
			folksonomy.WithLogger(log),
		),
		nutripatrol: nutripatrol.NewWithTransport(t,
			nutripatrol.WithBaseURL(cfg.NutriPatrol.BaseURL),
			nutripatrol.WithLogger(log),
		),
	}, nil
}

func newTransport(cfg *config.Config, log *logger.Logger) (rest.Transport, error) {
	hcfg := cfg.HTTP.Client()
	if cfg.HTTP.Transport == config.TransportResty {
		return httpclient.NewResty(hcfg, httpclient.WithLogger(log))
	}
	return httpclient.New(hcfg, httpclient.WithLogger(log))
}

// setupTelemetry starts the exporters enabled in cfg and returns a function
// that flushes them.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *logger.Logger) (func(), error) {
	var shutdowns []func(context.Context) error
	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing, log)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, cfg.Metrics, log)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
		defer cancel()
		for _, fn := range shutdowns {
			if err := fn(ctx); err != nil {
				log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
			}
		}
	}, nil
}

// fail reports err on stderr. Failures from the services are printed as
// JSON so that scripts can read the status and details.
func fail(stderr io.Writer, service string, cmd command, err error) int {
	if errors.Is(err, errUsage) {
		fmt.Fprintf(stderr, "%v\nusage: %s %s %s\n", err, serviceName, service, cmd.usage)
		return 2
	}
	var f *rest.Failure
	if errors.As(err, &f) {
		writeJSON(stderr, f)
		return 1
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(w, err)
		return 1
	}
	return 0
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "usage: %s [flags] <service> <command> [args...]\n\nflags:\n", serviceName)
	fs.PrintDefaults()

	services := make([]string, 0, len(commands))
	for s := range commands {
		services = append(services, s)
	}
	sort.Strings(services)
	for _, s := range services {
		fmt.Fprintf(w, "\n%s commands:\n", s)
		names := make([]string, 0, len(commands[s]))
		for n := range commands[s] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", commands[s][n].usage)
		}
	}
}

var commands = map[string]map[string]command{
	"folksonomy":  folksonomyCommands,
	"nutripatrol": nutripatrolCommands,
	"health":      healthCommands,
}
