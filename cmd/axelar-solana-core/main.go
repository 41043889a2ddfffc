// Copyright 2025 Certen Protocol
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axelar-network/axelar-solana-core/pkg/address"
	"github.com/axelar-network/axelar-solana-core/pkg/config"
	"github.com/axelar-network/axelar-solana-core/pkg/gateway"
	"github.com/axelar-network/axelar-solana-core/pkg/indexer"
	"github.com/axelar-network/axelar-solana-core/pkg/metrics"
	"github.com/axelar-network/axelar-solana-core/pkg/server"
	"github.com/axelar-network/axelar-solana-core/pkg/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var configPath = flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	log.Printf("starting axelar-solana-core")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	st, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	defer st.Close()
	log.Printf("record store opened: backend=%s", cfg.Store.Backend)

	var domainSeparator [32]byte
	var operator address.Address
	rootCfg := gateway.NewRootConfig(domainSeparator, operator, cfg.Network.ChainName, cfg.Network.TrustedChains, uint64(cfg.Gateway.MinimumRotationDelay.Duration().Seconds()))
	rootCfg.RotationRetention = cfg.Gateway.RotationRetention

	var itsRoot address.Address
	if cfg.Network.ITSProgram != "" {
		parsed, err := address.Parse(cfg.Network.ITSProgram)
		if err != nil {
			log.Fatalf("invalid its_program address: %v", err)
		}
		itsRoot = parsed
	}

	var idx *indexer.Client
	if cfg.Indexer.DatabaseURL != "" {
		idx, err = indexer.NewClient(cfg.Indexer, indexer.WithLogger(log.New(log.Writer(), "[indexer] ", log.LstdFlags)))
		if err != nil {
			if cfg.Indexer.Required {
				log.Fatalf("indexer database connection required but failed: %v", err)
			}
			log.Printf("indexer database connection failed, running without a read model: %v", err)
		} else {
			defer idx.Close()
			if err := idx.MigrateUp(context.Background()); err != nil {
				log.Printf("indexer migration failed: %v", err)
			}
			log.Printf("indexer connected and migrated")
		}
	}

	m := metrics.New()

	handlers := server.NewHandlers(st, itsRoot, rootCfg)
	mux := handlers.Mux()
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("introspection API listening on %s", cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("stopped")
}

func openStore(cfg config.StoreSettings) (*store.Store, error) {
	if cfg.Backend == "goleveldb" {
		return store.NewGoLevelDB(cfg.DBName, cfg.DataDir)
	}
	return store.NewMemory(), nil
}
