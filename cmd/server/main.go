package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/api"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/hub"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/log"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/messages"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/network"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/queue"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/registry"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/repositories"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/rooms"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/version"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/workers"
	"github.com/gorilla/websocket"
)

func main() {
	wsPort := flag.Int("ws-port", 8080, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 8081, "HTTP API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	certFile := flag.String("cert-file", "", "TLS certificate file")
	keyFile := flag.String("key-file", "", "TLS key file")
	sqlitePath := flag.String("sqlite", "", "Path to a SQLite snapshot database (optional)")
	snapshotInterval := flag.Duration("snapshot-interval", 10*time.Second, "Snapshot save interval")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot persistence is a best-effort collaborator; the server
	// runs fully in-memory without it.
	var repository repositories.Repository
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err = repositories.NewPostgresRepository(ctx, connStr)
		if err != nil {
			panic(fmt.Sprintf("Failed to connect snapshot repository: %v", err))
		}
	} else if *sqlitePath != "" {
		repository, err = repositories.NewSQLiteRepository(ctx, *sqlitePath)
		if err != nil {
			panic(fmt.Sprintf("Failed to open snapshot repository: %v", err))
		}
	}

	var snapshotQueue queue.Queue
	if repository != nil {
		defer repository.Close(ctx)
		snapshotQueue = queue.NewInMemoryQueue(1024)
	}

	catalog := registry.NewDefaultCatalog()
	presence := rooms.NewTracker()

	dispatcher := hub.NewHub(hub.NewHubOptions{
		Catalog:       catalog,
		Presence:      presence,
		SnapshotQueue: snapshotQueue,
	})

	if repository != nil {
		snapshotWorker := workers.NewSnapshotWorker(workers.NewSnapshotWorkerOptions{
			Repository:    repository,
			SnapshotQueue: snapshotQueue,
			Interval:      *snapshotInterval,
		})
		go snapshotWorker.Start(ctx)
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:     *apiPort,
		Catalog:  catalog,
		Presence: presence,
	})
	go apiServer.Start(ctx)

	var tlsConfig *network.TLSConfig
	if *certFile != "" && *keyFile != "" {
		tlsConfig = &network.TLSConfig{CertFile: *certFile, KeyFile: *keyFile}
	}
	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port: *wsPort,
		TLS:  tlsConfig,
	})

	wsServer.Start(ctx,
		func(connID string, conn *websocket.Conn) {
			dispatcher.Connect(connID, conn)
		},
		dispatcher.Disconnect,
		func(connID string, msg *messages.Message) {
			dispatcher.HandleMessage(connID, msg)
		},
	)
}
