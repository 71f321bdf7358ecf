// Package main is the askta CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/askta/internal/assistant"
	"github.com/hyperjump/askta/internal/cli"
	"github.com/hyperjump/askta/internal/config"
	"github.com/hyperjump/askta/internal/corpus"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/internal/server"
	"github.com/hyperjump/askta/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/askta/config.yaml"
	defaultServerURL  = "http://localhost:8000"
)

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if present, and built-in defaults are used when neither file exists.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "inspect":
		runInspect()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("askta version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (retrieval scores, completion timings)")
	port := fs.Int("port", 0, "listen port (overrides config)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.Bool("debug", debugMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Assistant, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: askta ask [flags] <question>\n\nFlags:\n")
	fs.PrintDefaults()
}

func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags that follow the question to the front so flag.Parse sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// encodeImageFile reads an image from disk as a base64 payload.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = build the index locally and answer directly)")
	imagePath := fs.String("image", "", "path to an image to attach")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := models.AskRequest{Question: question}
	if *imagePath != "" {
		encoded, err := encodeImageFile(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		req.Image = &encoded
	}

	var result *models.QueryResult
	if *serverURL != "" {
		result, err = askViaHTTP(*serverURL, &req)
	} else {
		result, err = askDirect(*configPath, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askDirect(configPath string, req models.AskRequest) (*models.QueryResult, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()
	return components.Assistant.Ask(ctx, req)
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func askViaHTTP(serverURL string, req *models.AskRequest) (*models.QueryResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var d detailResponse
		if json.Unmarshal(b, &d) == nil && d.Detail != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, d.Detail)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var result models.QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	status, err := statusViaHTTP(*serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*assistant.Status, error) {
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s assistant.Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// runInspect loads and normalizes the corpus without embedding it.
func runInspect() {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	corpusPath := fs.String("corpus", "", "corpus file (overrides config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	items, err := corpus.Load(cfg.Corpus.Path, newNormalizer(cfg, logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inspect failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCorpusStats(os.Stdout, cfg.Corpus.Path, corpus.Summarize(items), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// writeDefaultConfig writes a config file holding every default so it can be edited.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "config.yaml", "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *path)
}

func printUsage() {
	fmt.Println(`askta - Course Q&A assistant over notes and forum posts

Usage:
  askta server [flags]            Load the corpus, build the index and serve the API
  askta ask [flags] <question>    Ask a question
  askta status [flags]            Show the server's corpus and model status
  askta inspect [flags]           Load the corpus and print item counts (no embedding)
  askta init [flags]              Write a config.yaml holding the defaults
  askta version                   Show version
  askta help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/askta/config.yaml, or ./config.yaml)
  --port int         Listen port (overrides config)
  --debug            Enable debug logging

Ask Flags:
  --server string    Server URL (default: http://localhost:8000). Use empty (--server "") to answer locally.
  --config string    Config file path (local mode)
  --image string     Attach an image file
  --output string    Output format: text or json (default: text)

Status Flags:
  --server string    Server URL (default: http://localhost:8000)
  --output string    Output format: text or json (default: text)

Inspect Flags:
  --config string    Config file path
  --corpus string    Corpus file (overrides config)
  --output string    Output format: text or json (default: text)

Init Flags:
  --path string      Config file to write (default: config.yaml)
  --force            Overwrite an existing file

Environment:
  AIPIPE_TOKEN       Provider token (read from .env when present)

Examples:
  askta server
  askta ask "How do I submit GA1?"
  askta ask --image screenshot.png "What does this error mean?"
  askta ask --output json "Is Docker required?"
  askta status
  askta inspect --corpus data.json
  askta init`)
}
