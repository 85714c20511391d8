package main

import (
	"log"

	_ "cardstack/docs"
	"cardstack/internal/config"
	"cardstack/internal/server"
)

// @title           Cardstack API
// @version         1.0
// @description     API for collaborative boards, card decks and card sets with role-based access control.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
