package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jomsch/httpdir/internal/config"
	"github.com/jomsch/httpdir/internal/page"
	"github.com/jomsch/httpdir/internal/server"
)

func usage() {
	fmt.Fprintf(os.Stderr, "httpdir - Serve a directory over http\n\n")
	fmt.Fprintf(os.Stderr, "USAGE:\n")
	fmt.Fprintf(os.Stderr, "  httpdir [options] [DIR]\n\n")
	fmt.Fprintf(os.Stderr, "OPTIONS:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
	fmt.Fprintf(os.Stderr, "  Serve the current directory on port 8888:\n")
	fmt.Fprintf(os.Stderr, "    httpdir\n\n")
	fmt.Fprintf(os.Stderr, "  Serve /srv/files on port 3000, files before directories, z to a:\n")
	fmt.Fprintf(os.Stderr, "    httpdir -p 3000 -first-group-by files -sort ztoa /srv/files\n\n")
	fmt.Fprintf(os.Stderr, "  Show dotfiles and disable uploads:\n")
	fmt.Fprintf(os.Stderr, "    httpdir -show-dotfiles -read-only\n\n")
	fmt.Fprintf(os.Stderr, "  Read settings from a file, flags still win:\n")
	fmt.Fprintf(os.Stderr, "    httpdir -config httpdir.yaml -quiet\n\n")
}

// parseFlags builds the configuration from defaults, the optional config
// file and the flags that were set explicitly, in that order.
func parseFlags() (config.Config, error) {
	defaults := config.Default()
	flags := defaults

	configFile := flag.String("config", "", "YAML config file")
	flag.StringVar(&flags.Dir, "dir", defaults.Dir, "Directory to serve")
	flag.IntVar(&flags.Port, "port", defaults.Port, "Port to listen on")
	flag.IntVar(&flags.Port, "p", defaults.Port, "Port to listen on (shorthand)")
	flag.BoolVar(&flags.ShowDotfiles, "show-dotfiles", defaults.ShowDotfiles, "List files and directories starting with a dot")
	flag.StringVar(&flags.GroupBy, "first-group-by", defaults.GroupBy, "Group entries: directories, files or none")
	flag.StringVar(&flags.Sort, "sort", defaults.Sort, "Sort entries by name: atoz or ztoa")
	flag.BoolVar(&flags.ReadOnly, "read-only", defaults.ReadOnly, "Reject uploads")
	flag.Int64Var(&flags.MaxUploadMB, "maxsize", defaults.MaxUploadMB, "Max upload size in MB (0 for no limit)")
	flag.StringVar(&flags.Template, "template", defaults.Template, "HTML template containing {LIST} and {PATHMENU}")
	flag.BoolVar(&flags.Gzip, "gzip", defaults.Gzip, "Compress responses")
	flag.BoolVar(&flags.Quiet, "quiet", defaults.Quiet, "Quiet mode - only show errors")
	flag.BoolVar(&flags.LogJSON, "log-json", defaults.LogJSON, "Log JSON lines instead of console output")
	flag.Usage = usage
	flag.Parse()

	cfg := defaults
	if *configFile != "" {
		if err := config.LoadFile(*configFile, &cfg); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = flags.Dir
		case "port", "p":
			cfg.Port = flags.Port
		case "show-dotfiles":
			cfg.ShowDotfiles = flags.ShowDotfiles
		case "first-group-by":
			cfg.GroupBy = flags.GroupBy
		case "sort":
			cfg.Sort = flags.Sort
		case "read-only":
			cfg.ReadOnly = flags.ReadOnly
		case "maxsize":
			cfg.MaxUploadMB = flags.MaxUploadMB
		case "template":
			cfg.Template = flags.Template
		case "gzip":
			cfg.Gzip = flags.Gzip
		case "quiet":
			cfg.Quiet = flags.Quiet
		case "log-json":
			cfg.LogJSON = flags.LogJSON
		}
	})

	switch flag.NArg() {
	case 0:
	case 1:
		cfg.Dir = flag.Arg(0)
	default:
		return cfg, fmt.Errorf("expected at most one directory, got %d", flag.NArg())
	}
	return cfg, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.LogJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	}
	logger = logger.With().Timestamp().Logger()
	if cfg.Quiet {
		return logger.Level(zerolog.WarnLevel)
	}
	return logger.Level(zerolog.InfoLevel)
}

func main() {
	cfg, err := parseFlags()
	logger := newLogger(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	absPath, err := filepath.Abs(cfg.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid directory")
	}
	cfg.Dir = absPath

	settings, err := cfg.Validate()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	renderer, err := page.Load(settings.Template)
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot load template")
	}

	// Try to create listener first
	port := strconv.Itoa(settings.Port)
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		if strings.Contains(err.Error(), "address already in use") ||
			strings.Contains(err.Error(), "Only one usage") {
			logger.Fatal().Err(err).Msgf("Port %s is already in use by another application, try a different one with -p", port)
		}
		logger.Fatal().Err(err).Msgf("Cannot start server on port %s", port)
	}

	if !cfg.Quiet {
		printBanner(settings, port)
	}

	srv := &http.Server{
		Handler:           server.New(settings, renderer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logger.Info().Msg("Server stopped gracefully")
}

func printBanner(settings config.Settings, port string) {
	fmt.Println("==========================================")
	fmt.Println("                 httpdir")
	fmt.Println("==========================================")
	fmt.Printf("\nServing: %s\n", settings.Root)
	fmt.Printf("Started: %s\n", time.Now().Format(time.DateTime))
	fmt.Println("\nAvailable on:")
	fmt.Printf("   * http://localhost:%s\n", port)
	fmt.Printf("   * http://127.0.0.1:%s\n", port)

	// Show network addresses
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					fmt.Printf("   * http://%s:%s\n", ipnet.IP.String(), port)
				}
			}
		}
	}

	fmt.Println("\nSettings:")
	fmt.Printf("   * Grouping: %s, sort: %s\n", settings.Listing.Grouping, settings.Listing.Sort)
	if settings.Listing.Dotfiles {
		fmt.Println("   * Dotfiles shown")
	}
	if settings.AllowUpload {
		if settings.MaxUploadBytes > 0 {
			fmt.Printf("   * Upload enabled (max %dMB)\n", settings.MaxUploadBytes/(1024*1024))
		} else {
			fmt.Println("   * Upload enabled (no limit)")
		}
	} else {
		fmt.Println("   * Read-only")
	}
	if settings.Gzip {
		fmt.Println("   * GZIP compression")
	}
	fmt.Printf("   * Downloads under %s/\n", page.DownloadRoute)

	fmt.Println("\nPress Ctrl+C to stop")
	fmt.Println("==========================================")
	fmt.Println()
}
