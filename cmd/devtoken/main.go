// Command devtoken signs a bearer token for a wallet address using
// JWT_SECRET, for calling the API locally.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/config"
)

func main() {
	addr := flag.String("address", "", "0x-prefixed wallet address")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}
	tok, err := middleware.NewTokenIssuer(cfg.JWTSecret, *ttl).Sign(*addr)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok)
}
