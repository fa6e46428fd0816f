package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/colevans/resistance/pkg/api"
	"github.com/colevans/resistance/pkg/game"
	gametypes "github.com/colevans/resistance/pkg/game/types"
	"github.com/colevans/resistance/pkg/log"
	"github.com/colevans/resistance/pkg/network"
	"github.com/colevans/resistance/pkg/queue"
	"github.com/colevans/resistance/pkg/repositories"
	"github.com/colevans/resistance/pkg/state"
	"github.com/colevans/resistance/pkg/version"
	"github.com/colevans/resistance/pkg/workers"
)

func main() {
	wsPort := flag.Int("ws-port", 8888, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 8889, "HTTP API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	repositoryType := flag.String("repository-type", "postgres", "Repository type (postgres or sqlite)")
	sqlitePath := flag.String("sqlite-path", "resistance.db", "Path to the SQLite database file")
	displaySeconds := flag.Int("display-seconds", 5, "Seconds to show transient display phases")
	certFile := flag.String("cert-file", "", "Path to TLS certificate file")
	keyFile := flag.String("key-file", "", "Path to TLS key file")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repository repositories.Repository
	switch *repositoryType {
	case "postgres":
		connStr := os.Getenv("DATABASE_URL")
		if connStr == "" {
			panic("DATABASE_URL environment variable must be set")
		}
		repository = repositories.NewPostgresRepository(ctx, connStr)
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, *sqlitePath)
		if err != nil {
			panic(fmt.Sprintf("Failed to open SQLite repository: %v", err))
		}
	default:
		panic(fmt.Sprintf("Unknown repository type: %s", *repositoryType))
	}
	defer repository.Close(ctx)

	clientManager := network.NewClientManager()
	actionQueue := queue.NewInMemoryQueue(10000)
	sessionManager := state.NewInMemorySessionManager()

	snapshotChan := make(chan *gametypes.GameSession, 100)
	saveChan := make(chan *gametypes.GameSession, 100)

	broadcastWorker := workers.NewBroadcastSnapshotWorker(workers.NewBroadcastSnapshotWorkerOptions{
		ClientManager: clientManager,
		SnapshotChan:  snapshotChan,
	})
	go broadcastWorker.Start(ctx)

	saveWorker := workers.NewSaveSessionWorker(workers.NewSaveSessionWorkerOptions{
		Repository: repository,
		SaveChan:   saveChan,
	})
	go saveWorker.Start(ctx)

	gameManager := game.NewManager(game.NewManagerOptions{
		Engine:          game.NewEngine(),
		SessionManager:  sessionManager,
		ClientManager:   clientManager,
		ActionQueue:     actionQueue,
		SnapshotChan:    snapshotChan,
		SaveChan:        saveChan,
		DisplayDuration: time.Duration(*displaySeconds) * time.Second,
	})
	go gameManager.Start(ctx)

	var wsTLS *network.TLSConfig
	var apiTLS *api.TLSConfig
	if *certFile != "" && *keyFile != "" {
		wsTLS = &network.TLSConfig{CertFile: *certFile, KeyFile: *keyFile}
		apiTLS = &api.TLSConfig{CertFile: *certFile, KeyFile: *keyFile}
	}

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port:          *wsPort,
		TLS:           wsTLS,
		ClientManager: clientManager,
	})
	go wsServer.Start(ctx, gameManager.HandleDisconnect, gameManager.HandleMessage)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:       *apiPort,
		TLS:        apiTLS,
		Repository: repository,
	})
	go apiServer.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	cancel()
}
