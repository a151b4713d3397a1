package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"asciifm/internal/api"
	"asciifm/internal/ascii"
	"asciifm/internal/config"
	"asciifm/internal/engine"
	"asciifm/internal/logging"
	"asciifm/internal/resolver"
	"asciifm/internal/server"
	"asciifm/internal/version"
)

type options struct {
	// lookup
	username string
	album    []string
	artist   []string

	// output
	columns  int
	color    bool
	progress bool

	// global
	configPath string
	proxy      string
	logLevel   string

	// serve
	port string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. Every failure
// ends here as a single line on stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(groupWords(args))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, exitMessage(err))
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}

	var rootCmd = &cobra.Command{
		Use:   "asciifm [flags] [last.fm URL]",
		Short: "Display album art from Last.fm as text in the terminal",
		Long: `A command-line tool for displaying album art from last.fm music data.

Give a username to show the artwork of their most recently played track,
an album (optionally refined with --artist), or an artist to show their
top album. A Last.fm user, artist or album page URL works as well.`,
		Example: `  asciifm -u rj
  asciifm -a "Abbey Road" -r "The Beatles"
  asciifm -a Abbey Road -r The Beatles
  asciifm -r Radiohead --color
  asciifm https://www.last.fm/music/Radiohead/Kid+A`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := o.applyURL(args[0]); err != nil {
					return err
				}
			}

			request, err := resolver.NewRequest(o.username, o.album, o.artist)
			if errors.Is(err, resolver.ErrNoInput) {
				return cmd.Help()
			}
			if err != nil {
				return err
			}

			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, closer := logging.New(cfg.Logging)
			defer closer.Close()

			eng := buildEngine(cfg, logger)
			if cfg.Progress && isTerminal(stderr) {
				eng.Progress = stderr
			}

			return eng.Display(cmd.Context(), request, cmd.OutOrStdout())
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate(version.Get().String() + "\n")

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve text art over HTTP",
		Long: `Start an HTTP server answering GET /art?user=&album=&artist=&columns=
with the same output the command line prints, without colour.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, closer := logging.New(cfg.Logging)
			defer closer.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on port %s...\n", o.port)
			return server.Start(cmd.Context(), buildEngine(cfg, logger), ":"+o.port, logger)
		},
	}
	serveCmd.Flags().StringVarP(&o.port, "port", "P", "8080", "Server port")

	rootCmd.AddCommand(serveCmd)

	// Lookup flags
	rootCmd.Flags().StringVarP(&o.username, "username", "u", "", "Last.fm username; shows their most recently played track")
	rootCmd.Flags().StringArrayVarP(&o.album, "album", "a", nil, "Album name; the words after it belong to it. Use --artist to refine the search")
	rootCmd.Flags().StringArrayVarP(&o.artist, "artist", "r", nil, "Artist name; the words after it belong to it. Shows their top album, or refines --album")

	// Output flags
	rootCmd.Flags().IntVarP(&o.columns, "columns", "c", 80, "Width of the art in characters")
	rootCmd.Flags().BoolVar(&o.color, "color", false, "Colour the art using the image's colours")
	rootCmd.Flags().BoolVar(&o.progress, "progress", false, "Show a progress bar while downloading the artwork")

	// Global flags
	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", "", "Config file (default "+config.GetConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&o.proxy, "proxy", "", "Proxy URL (http/https/socks5), overrides HTTP_PROXY/HTTPS_PROXY env")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return rootCmd
}

// applyURL fills inputs not already given by flags from a Last.fm URL.
func (o *options) applyURL(raw string) error {
	res, err := api.ParseURL(raw)
	if err != nil {
		return err
	}
	if o.username == "" {
		o.username = res.User
	}
	if len(o.album) == 0 && res.Album != "" {
		o.album = []string{res.Album}
	}
	if len(o.artist) == 0 && res.Artist != "" {
		o.artist = []string{res.Artist}
	}
	return nil
}

// loadConfig applies, in order: defaults, config file, environment, flags.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("columns") {
		cfg.Render.Columns = o.columns
	}
	if flags.Changed("color") {
		cfg.Render.Color = o.color
	}
	if flags.Changed("progress") {
		cfg.Progress = o.progress
	}
	if o.proxy != "" {
		cfg.Proxy = o.proxy
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildEngine(cfg *config.Config, logger *slog.Logger) *engine.Engine {
	client := api.NewClient(cfg.APIKey, cfg.BaseURL, cfg.UserAgent)
	client.SetProxy(cfg.Proxy)
	client.SetTimeout(cfg.Timeout)
	client.SetLogger(logger)

	eng := engine.New(resolver.New(client, logger), cfg.UserAgent, logger)
	eng.SetProxy(cfg.Proxy)
	eng.SetTimeout(cfg.Timeout)
	eng.Options = ascii.Options{
		Columns:    cfg.Render.Columns,
		WidthRatio: cfg.Render.WidthRatio,
		Charset:    cfg.Render.Charset,
		Color:      cfg.Render.Color,
	}
	return eng
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// exitMessage turns an error into the one line printed before exiting.
func exitMessage(err error) string {
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		return "API_KEY not found."
	case errors.Is(err, resolver.ErrInvalidUsername):
		return "Invalid username."
	case errors.Is(err, resolver.ErrNoRecentTracks):
		return "No recent tracks."
	case errors.Is(err, resolver.ErrAlbumNotFound):
		return "Album not found."
	case errors.Is(err, resolver.ErrArtistNotFound):
		return "Artist not found."
	case errors.Is(err, engine.ErrImageNotFound):
		return "Album image not found."
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
