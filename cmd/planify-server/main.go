package main

import (
	"log"
	"os"

	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/permission"
	"github.com/existflow/planify/server"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found, using process environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/planify?sslmode=disable"
	}

	role := permission.RoleViewer
	if v := os.Getenv("PLANIFY_DEFAULT_ROLE"); v != "" {
		r, err := permission.ParseRole(v)
		if err != nil {
			log.Fatalf("Invalid PLANIFY_DEFAULT_ROLE: %v", err)
		}
		role = r
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	logCfg.FilePath = os.Getenv("LOG_FILE")
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	srv, err := server.New(dbURL, server.Options{DefaultRole: role, Logger: logger.Default()})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	logger.Info("Planify server starting", logger.F("port", port), logger.F("default_role", role))
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
