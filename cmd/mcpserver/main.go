package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/simple-portfolio/internal/mcp"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
)

func main() {
	// Server mode flags
	var (
		mode    = flag.String("mode", "stdio", "Server mode: 'stdio', 'sse', or 'http'")
		port    = flag.Int("port", 8000, "Port for the sse and http modes")
		baseURL = flag.String("base-url", "", "Public base URL for the sse mode (default http://localhost:<port>)")
	)
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file found or error loading it, using environment", "err", err)
	}

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.Environment))

	ctx := context.Background()
	rt, err := cfg.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build portfolio service", "err", err)
		os.Exit(1)
	}
	defer rt.Close()

	s := server.NewMCPServer(
		"Portfolio Content MCP",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	handler := mcp.NewHandler(rt.Service)
	handler.RegisterTools(s)

	addr := fmt.Sprintf(":%d", *port)
	switch *mode {
	case "sse":
		url := *baseURL
		if url == "" {
			url = fmt.Sprintf("http://localhost:%d", *port)
		}
		sseServer := server.NewSSEServer(s, server.WithBaseURL(url))
		slog.Info("Starting SSE server", "base_url", url)
		if err := sseServer.Start(addr); err != nil {
			slog.Error("Failed to start SSE server", "err", err)
			os.Exit(1)
		}
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		slog.Info("HTTP server listening", "port", *port)
		if err := httpServer.Start(addr); err != nil {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	default:
		slog.Info("Starting in stdio mode", "storage", cfg.StorageType)
		if err := server.ServeStdio(s); err != nil {
			slog.Error("Failed to start stdio server", "err", err)
			os.Exit(1)
		}
	}
}
