package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	clientspostgres "github.com/mpigajesse/yoozak-backoffice/clients/postgres"
	fakeclientrepo "github.com/mpigajesse/yoozak-backoffice/clients/repofake"
	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	organisationpostgres "github.com/mpigajesse/yoozak-backoffice/organisation/postgres"
	fakeorganisationrepo "github.com/mpigajesse/yoozak-backoffice/organisation/repofake"
	"github.com/mpigajesse/yoozak-backoffice/server"
	"github.com/mpigajesse/yoozak-backoffice/token/refresh/redisrepo"
	refreshrepofake "github.com/mpigajesse/yoozak-backoffice/token/refresh/repofake"
	userspostgres "github.com/mpigajesse/yoozak-backoffice/users/postgres"
	fakeuserrepo "github.com/mpigajesse/yoozak-backoffice/users/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables\n")
	}

	c := config.New()
	displayAppname(c.GetAppName())

	repos, cleanup, err := buildRepos(context.Background(), c)
	if err != nil {
		return fmt.Errorf("buildRepos: %w", err)
	}
	defer cleanup()

	srv, err := server.New(c, repos)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildRepos wires Postgres and Redis backed repositories when connection
// settings are present, and falls back to in-memory fakes for local
// development without infrastructure.
func buildRepos(ctx context.Context, c config.Config) (server.Repos, func(), error) {
	repos := server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Clients:       fakeclientrepo.NewFakeClientRepo(),
		Organisation:  fakeorganisationrepo.NewFakeOrganisationRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	}
	cleanup := func() {}

	if databaseURL := c.GetDatabaseURL(); databaseURL != "" {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return server.Repos{}, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return server.Repos{}, nil, fmt.Errorf("postgres ping: %w", err)
		}
		repos.Users = userspostgres.NewRepo(pool)
		repos.Clients = clientspostgres.NewRepo(pool)
		repos.Organisation = organisationpostgres.NewRepo(pool)
		cleanup = pool.Close
		log.Printf("Using Postgres storage\n")
	} else {
		log.Printf("DATABASE_URL not set, using in-memory storage\n")
	}

	if redisAddr := c.GetRedisAddr(); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: c.GetRedisPassword(),
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cleanup()
			return server.Repos{}, nil, fmt.Errorf("redis ping: %w", err)
		}
		repos.RefreshTokens = redisrepo.NewRepo(redisClient, c)
		poolCleanup := cleanup
		cleanup = func() {
			_ = redisClient.Close()
			poolCleanup()
		}
		log.Printf("Using Redis refresh token storage\n")
	} else {
		log.Printf("REDIS_ADDR not set, using in-memory refresh token storage\n")
	}

	return repos, cleanup, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
