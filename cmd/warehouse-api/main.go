package main

import (
	"flag"
	"log"

	"covid-warehouse/internal/api"
	"covid-warehouse/internal/api/handler"
	"covid-warehouse/internal/config"
	"covid-warehouse/internal/store"
	"covid-warehouse/pkg/router"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults apply when empty)")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := store.InitDB(cfg.Tracking.Path); err != nil {
		log.Fatalf("failed to init run store: %v", err)
	}
	handler.Setup(cfg)

	r := router.New()
	api.RegisterRoutes(r)
	r.Start(*addr)
}
