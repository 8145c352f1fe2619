package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	docqawebui "github.com/oselz/docqa-web-ui"
	"github.com/oselz/docqa-web-ui/internal/handlers"
	"github.com/oselz/docqa-web-ui/internal/services"
	"github.com/oselz/docqa-web-ui/internal/session"
)

func main() {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(fmt.Errorf("error getting user config dir: %w", err))
	}
	cfgPath := filepath.Join(cfgDir, "/docqa-web-ui")
	if err := os.MkdirAll(cfgPath, 0755); err != nil {
		log.Fatal(fmt.Errorf("error creating config directory: %w", err))
	}

	cfgFilePath := filepath.Join(cfgPath, "config.yaml")
	cfgFile, err := os.Open(cfgFilePath)
	if err != nil {
		log.Fatal(fmt.Errorf("error opening config file: %w", err))
	}
	defer cfgFile.Close()

	cfg := config{}
	if err := yaml.NewDecoder(cfgFile).Decode(&cfg); err != nil {
		panic(fmt.Errorf("error decoding config file: %w", err))
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dispatcher, err := cfg.Dispatcher.dispatcher(logger)
	if err != nil {
		panic(err)
	}

	dispatcher, cacheClose, err := wrapWithCache(cfg, cfgPath, dispatcher, logger)
	if err != nil {
		panic(err)
	}

	m, err := handlers.NewMain(
		dispatcher,
		services.SystemClipboard{},
		cfg.labels(),
		handlers.Features{ShowCopyButton: cfg.Features.ShowCopyButton},
		logger,
	)
	if err != nil {
		panic(err)
	}

	// Serve static files
	staticFS, err := fs.Sub(docqawebui.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	// Create custom mux
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/", m.HandleHome)
	mux.HandleFunc("/ask", m.HandleAsk)
	mux.HandleFunc("/reset", m.HandleReset)
	mux.HandleFunc("/copy", m.HandleCopy)
	mux.HandleFunc("/prompts/toggle", m.HandleTogglePrompts)
	mux.HandleFunc("/sse/session", m.HandleSSE)

	// Create custom server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.RegisterOnShutdown(func() {
		if err := m.Shutdown(context.Background()); err != nil {
			log.Printf("Failed to shutdown sse server: %v", err)
		}
		if cacheClose != nil {
			if err := cacheClose(); err != nil {
				log.Printf("Failed to close answer cache: %v", err)
			}
		}
	})

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Println("Server starting on :" + cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt/terminate signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking select waiting for either interrupt or server error
	select {
	case err := <-serverErrors:
		log.Printf("Server error: %v", err)

	case sig := <-shutdown:
		log.Printf("Start shutdown, signal: %v", sig)

		// Create context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
			if err := srv.Close(); err != nil {
				log.Printf("Forcing server close: %v", err)
			}
		}
	}
}

func wrapWithCache(
	cfg config,
	cfgPath string,
	dispatcher session.Dispatcher,
	logger *slog.Logger,
) (session.Dispatcher, func() error, error) {
	if !cfg.Cache.Enabled {
		return dispatcher, nil, nil
	}

	file := cfg.Cache.File
	if file == "" {
		file = "answers.db"
	}

	cache, err := services.NewAnswerCache(filepath.Join(cfgPath, file))
	if err != nil {
		return nil, nil, fmt.Errorf("error opening answer cache: %w", err)
	}

	return services.NewCachedDispatcher(dispatcher, cache, logger), cache.Close, nil
}
