package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sudheer2004/PollProject/internal/adapters/handler/http"
	"github.com/sudheer2004/PollProject/internal/adapters/handler/ws"
	"github.com/sudheer2004/PollProject/internal/adapters/repository/memory"
	"github.com/sudheer2004/PollProject/internal/adapters/repository/postgres"
	"github.com/sudheer2004/PollProject/internal/core/ports"
	"github.com/sudheer2004/PollProject/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	archive, cleanup := buildArchive()
	defer cleanup()

	gateway := ws.NewGateway()
	engine := services.NewPollEngine(gateway, archive)
	gateway.Bind(engine)

	pollHandler := http.NewPollHandler(engine)
	handler := http.NewHandler(pollHandler, gateway)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Polling server listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

// buildArchive wires the postgres archive when POSTGRES_HOST is set and
// falls back to the in-memory archive otherwise. Persistence is
// best-effort either way.
func buildArchive() (ports.ArchiveRepository, func()) {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		log.Println("POSTGRES_HOST not set, poll history kept in memory only")
		return memory.NewArchiveRepository(), func() {}
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"),
		host, os.Getenv("POSTGRES_PORT"), os.Getenv("POSTGRES_DB"),
	)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	return postgres.NewArchiveRepository(db), func() { db.Close() }
}
