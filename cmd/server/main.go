package main

import (
	"fmt"
	"log"

	"github.com/steiner385/capacinator/internal/config"
	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
