package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pders01/narou/internal/config"
	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/narou"
	"github.com/pders01/narou/internal/render"
)

// Version is the version of the application, set at build time
var Version = "dev"

type globalOptions struct {
	configPath string
	logLevel   string
	proxyHTTP  string
	proxyHTTPS string
	baseURL    string
	json       bool
	quiet      bool
}

const (
	// annotationNoConfig marks commands that run without an existing
	// --config file.
	annotationNoConfig = "narou/no-config"
)

var (
	opts globalOptions
	// cfg is loaded once per invocation, before any command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "narou",
	Short: "Fetch Syosetu writer profiles, blogs and novel catalogs",
	Long: `narou talks to the public Syosetu user API. It fetches a writer's
profile statistics, blog feed and novel catalog, renders them for the
terminal, and can keep snapshots in a local searchable archive.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = debuglog.Close()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to configuration file (default "+config.DefaultPath()+")")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	pf.StringVar(&opts.proxyHTTP, "proxy-http", "", "proxy for http requests")
	pf.StringVar(&opts.proxyHTTPS, "proxy-https", "", "proxy for https requests")
	pf.StringVar(&opts.baseURL, "base-url", "", "API base URL")
	pf.BoolVar(&opts.json, "json", false, "print records as JSON")
	pf.BoolVar(&opts.quiet, "quiet", false, "suppress banners and progress notes")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		debuglog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, render.Error(err, theme()))
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(opts.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && cmd.Annotations[annotationNoConfig] == "true":
		// config generate writes the file; config path only names it.
		loaded = config.Default()
	default:
		return err
	}

	if opts.logLevel != "" {
		loaded.Log.Level = opts.logLevel
	}
	if opts.proxyHTTP != "" {
		loaded.Proxy.HTTP = opts.proxyHTTP
	}
	if opts.proxyHTTPS != "" {
		loaded.Proxy.HTTPS = opts.proxyHTTPS
	}
	if opts.baseURL != "" {
		loaded.API.BaseURL = opts.baseURL
	}
	cfg = loaded

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.File == config.LogStderr {
		debuglog.SetOutput(level, cmd.ErrOrStderr())
	} else if err := debuglog.Setup(level, cfg.Log.File); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	debuglog.WithFields(map[string]interface{}{
		"command": cmd.CommandPath(),
		"version": Version,
	}).Debugf("starting")
	return nil
}

func theme() render.Theme {
	if cfg == nil {
		return render.DefaultTheme()
	}
	return render.NewTheme(cfg.UI.Colors)
}

func newClient() (*narou.Client, error) {
	return narou.NewClient(cfg.ClientOptions()...)
}

func parseUserID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: must be a number", arg)
	}
	return id, nil
}

// note prints progress to stderr unless --quiet is set.
func note(cmd *cobra.Command, format string, args ...any) {
	if opts.quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
