// Package main - Entry point for the basket pricing server
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"basket-pricer/adapters/pricing"
	"basket-pricer/api"
	"basket-pricer/internal/config"
	"basket-pricer/internal/logging"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Server address, overrides config")
	pricingPath := flag.String("pricing", "", "Pricing file (.hcl or .json), overrides config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *pricingPath != "" {
		cfg.Pricing.File = *pricingPath
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	def, err := pricing.LoadFile(cfg.Pricing.File)
	if err != nil {
		logging.Error("failed to load pricing", zap.Error(err))
		os.Exit(1)
	}
	if cfg.Pricing.Currency != "" {
		def.Currency = cfg.Pricing.Currency
	}
	pricer, err := def.Pricer()
	if err != nil {
		logging.Error("invalid pricing", zap.Error(err))
		os.Exit(1)
	}

	apiServer := api.NewServer(version, pricer, api.WithAllowedOrigins(cfg.Server.AllowedOrigins...))

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiServer))

	fmt.Printf("Basket Pricing Server v%s\n", version)
	fmt.Printf("   API: http://localhost%s/api\n", cfg.Server.Addr)
	fmt.Println()

	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
