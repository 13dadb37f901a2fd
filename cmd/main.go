package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/courtside/games-backend/pkg/config"
	"github.com/courtside/games-backend/pkg/server"
	"go.uber.org/zap"
)

var (
	port         = flag.String("port", os.Getenv("PORT"), "Port to host the server on")
	maxWorkers   = flag.Int("maxWorkers", getEnvOrDefaultInt("MAX_WORKERS", 10), "Maximum number of workers handling socket requests")
	frontendHost = flag.String("frontendHost", os.Getenv("FRONTEND_HOST"), "The frontend host")
	configPath   = flag.String("config", getEnvOrDefault("CONFIG", "config.yaml"), "Path to the games config file")
)

// getEnvOrDefault tries to get an Environment variable or returns a default
// if it doesn't exist
func getEnvOrDefault(key, def string) string {
	if env, ok := os.LookupEnv(key); ok {
		return env
	}
	return def
}

func getEnvOrDefaultInt(key string, def int) int {
	if env, ok := os.LookupEnv(key); ok {
		if value, err := strconv.Atoi(env); err == nil {
			return value
		}
	}
	return def
}

// checkFlagsSet will panic if a flag has not been set
func checkFlagsSet() {
	flag.VisitAll(func(f *flag.Flag) {
		if f.Value.String() == "" {
			panic(fmt.Sprintf("Missing environment: %s", f.Name))
		}
	})
}

// checkOrigin checks a requests origin, returning true if the origin is valid.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return strings.Contains(origin, *frontendHost)
}

func main() {
	flag.Parse()
	checkFlagsSet()
	log, _ := zap.NewProduction()
	defer log.Sync()

	conf, err := config.ParseConfig(*configPath)
	if err != nil {
		log.Fatal("Unable to load config", zap.Error(err))
	}

	// Start-up the server
	log.Info(fmt.Sprintf("Starting server on port %s", *port))
	s := server.NewServer(log, conf, checkOrigin)
	if err := s.Start(*port, *maxWorkers); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
