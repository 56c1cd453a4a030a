package main

import (
	"log"

	"oscbridge/internal/config"
	"oscbridge/internal/relay"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	r, err := relay.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create relay: %v", err)
	}

	log.Printf("Starting oscbridge relay: ws :%d -> osc %s", cfg.WSPort, cfg.DestAddr())
	if err := r.Run(); err != nil {
		log.Fatalf("Relay error: %v", err)
	}
}
