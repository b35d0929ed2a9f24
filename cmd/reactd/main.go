package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"react-assistant/internal/app"
	"react-assistant/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "3.0.0"

var (
	flagAddr   string
	flagConfig string
	flagDebug  bool
)

func printBanner(cfg app.Config) {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("React Code Assistant API v%s - Multi-Provider\n", version)
	fmt.Println(strings.Repeat("=", 70))

	claudeStatus := "Not configured"
	if cfg.Claude.APIKey != "" {
		claudeStatus = "Configured"
	}
	openaiStatus := "Not configured"
	if cfg.OpenAI.APIKey != "" {
		openaiStatus = "Configured"
	}
	fmt.Printf("Claude: %s\n", claudeStatus)
	fmt.Printf("OpenAI: %s\n", openaiStatus)
	fmt.Println("Provider routing: automatic based on model name")
	fmt.Printf("Listening on %s\n", cfg.Addr)
	fmt.Println(strings.Repeat("=", 70))
}

func runServe() error {
	// Missing .env is fine; real deployments export the keys directly.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagDebug {
		cfg.Debug = true
	}

	log := app.NewLogger(os.Stderr, cfg.Debug)
	chat := app.NewChatService(cfg, log)
	srv := server.New(chat, log)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner(cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		log.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}

func main() {
	root := &cobra.Command{
		Use:     "reactd",
		Short:   "React code assistant backend",
		Long:    "reactd brokers chat requests between editor clients and LLM providers (Claude and OpenAI) for React code generation and modification.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(serveCmd)

	for _, c := range []*cobra.Command{root, serveCmd} {
		c.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
		c.Flags().StringVar(&flagConfig, "config", app.DefaultConfigPath(), "path to YAML config file")
		c.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
