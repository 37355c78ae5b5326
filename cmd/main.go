// Package main is the entry point for prompt-trim.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/compresr/prompt-trim/internal/config"
	"github.com/compresr/prompt-trim/internal/monitoring"
	"github.com/compresr/prompt-trim/internal/server"
)

// loadEnvFiles loads .env from standard locations.
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	configEnv := filepath.Join(homeDir, ".config", "prompt-trim", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Local .env can override
	_ = godotenv.Load()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "trim":
			runTrimCommand(os.Args[2:])
			return
		case "serve", "start":
			runServer(os.Args[2:])
			return
		case "version", "-v", "--version":
			fmt.Printf("prompt-trim %s\n", Version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	// Default: one-shot trim (args or stdin)
	runTrimCommand(os.Args[1:])
}

// runServer starts the HTTP service.
func runServer(args []string) {
	loadEnvFiles()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args) // ExitOnError handles errors

	setupLogging(*debug)

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if *debug {
		cfg.Monitoring.Level = "debug"
	}
	monitoring.Global(cfg.Monitoring)

	log.Info().
		Str("version", Version).
		Int("port", cfg.Server.Port).
		Bool("history", cfg.History.Enabled).
		Msg("prompt-trim starting")

	srv := server.New(cfg)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}

	log.Info().Msg("prompt-trim stopped")
}

// resolveConfig loads the given config file, searches standard
// locations, or falls back to built-in defaults.
func resolveConfig(userConfig string) (*config.Config, error) {
	if userConfig != "" {
		return config.Load(userConfig)
	}

	searchPaths := []string{"prompt-trim.yaml", "configs/prompt-trim.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(homeDir, ".config", "prompt-trim", "config.yaml"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return config.Load(path)
		}
	}

	return config.Default(), nil
}

// setupLogging configures zerolog. Console output when stdout is a
// terminal, JSON otherwise (pipes, service managers).
func setupLogging(debug bool) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// printHelp prints usage information.
func printHelp() {
	fmt.Println("prompt-trim - lossy text reduction for LLM prompts")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  prompt-trim [trim] [options] [text...]")
	fmt.Println("  prompt-trim serve [--config FILE] [--debug]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  trim         Reduce text from args or stdin (default)")
	fmt.Println("  serve        Start the HTTP service")
	fmt.Println("  version      Print version information")
	fmt.Println("  help         Show this help message")
	fmt.Println()
	fmt.Println("Trim options:")
	fmt.Println("  --keep-stopwords     Keep stopwords (default: removed)")
	fmt.Println("  --drop-punctuation   Remove punctuation tokens")
	fmt.Println("  --keep-spaces        Join tokens with spaces (default: removed)")
	fmt.Println("  --stem               Apply stemming")
	fmt.Println("  --stemmer VARIANT    light | extended | aggressive (default: light)")
	fmt.Println("  --language TAG       Stopword language (default: english)")
	fmt.Println("  --stats              Print size statistics to stderr")
	fmt.Println("  --savings            Print token and cost savings to stderr")
	fmt.Println("  --history FILE       Append the run to a SQLite ledger")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  prompt-trim \"The quick brown fox jumps over the lazy dog\"")
	fmt.Println("  cat prompt.txt | prompt-trim --stem --stats")
	fmt.Println("  prompt-trim serve --config prompt-trim.yaml")
}
