package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkrutov/atom-comb/app/api"
	"github.com/mkrutov/atom-comb/app/atom"
	"github.com/mkrutov/atom-comb/app/cfg"
	"github.com/mkrutov/atom-comb/app/fetcher"
	"github.com/mkrutov/atom-comb/app/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	feedFetcher := fetcher.NewFetcher(
		fetcher.NewSafeClient(appCfg.FetchTimeout),
		appCfg.UserAgent,
		appCfg.MaxBodyBytes,
	)

	// One-shot modes
	if appCfg.File != "" {
		feed, err := atom.ParseFile(appCfg.File)
		if err != nil {
			log.Fatal("Failed to parse feed: ", err)
		}
		printFeed(feed)
		return
	}
	if appCfg.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), appCfg.FetchTimeout)
		defer cancel()

		data, err := feedFetcher.Run(ctx, appCfg.URL)
		if err != nil {
			log.Fatal("Failed to fetch feed: ", err)
		}
		feed, err := atom.ParseBytes(data)
		if err != nil {
			log.Fatal("Failed to parse feed: ", err)
		}
		printFeed(feed)
		return
	}

	log.Printf("Starting Atom Comb server (version %s)...", appCfg.Version)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	apiHandler := api.NewHandler(feedFetcher, collector, appCfg.Version)
	server := api.NewServer(apiHandler, registry)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("API endpoints available:")
		log.Printf("  Parse document:  http://localhost:%s/parse (POST)", appCfg.Port)
		log.Printf("  Fetch and parse: http://localhost:%s/feeds?url=<feed-url>", appCfg.Port)
		log.Printf("  Health check:    http://localhost:%s/health", appCfg.Port)
		log.Printf("  Metrics:         http://localhost:%s/metrics", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func printFeed(feed *atom.Feed) {
	data, err := json.MarshalIndent(api.NewFeed(feed), "", "  ")
	if err != nil {
		log.Fatal("Failed to encode feed: ", err)
	}
	fmt.Println(string(data))
}
