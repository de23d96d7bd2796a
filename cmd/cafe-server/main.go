// Package main is the entry point for the HoloBarista cafe server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/holobarista/server/internal/engine"
	"github.com/holobarista/server/internal/events"
	"github.com/holobarista/server/internal/infra/storage"
	"github.com/holobarista/server/internal/network"
	"github.com/holobarista/server/internal/platform/logger"
	"github.com/holobarista/server/internal/platform/metrics"
	"github.com/holobarista/server/internal/platform/tuning"
)

// PersisterAdapter translates domain events to storage events and
// records write latency for the metrics collector.
type PersisterAdapter struct {
	repo storage.EventRepository
}

func (a *PersisterAdapter) Append(event events.GameEvent) error {
	storageEvent := storage.GameEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Payload:   event.Payload,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := a.repo.Append(ctx, storageEvent)
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Println("[CAFE-SERVER] Initializing HoloBarista authoritative server...")

	appLogger := logger.NewLogger()
	tun := tuning.DefaultConfig()
	if os.Getenv("CAFE_LOW_RESOURCE") != "" {
		tun = tuning.LowResourceConfig()
	}

	dbPath := envOr("CAFE_DB_PATH", "data/cafe.db")
	appLogger.Info("Initializing SQLite database '" + dbPath + "'...")
	db, err := storage.InitSQLite(dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	snapRepo := storage.NewSQLiteSnapshotRepository(db)

	// Events go to Postgres when a DSN is provided, SQLite otherwise.
	var eventRepo storage.EventRepository = storage.NewSQLiteEventRepository(db)
	if dsn := os.Getenv("CAFE_POSTGRES_DSN"); dsn != "" {
		appLogger.Info("Connecting to PostgreSQL event store...")
		pg, err := storage.InitPostgres(dsn, tun.DBMaxOpenConns, tun.DBMaxIdleConns)
		if err != nil {
			appLogger.Error("Failed to initialize PostgreSQL: " + err.Error())
			os.Exit(1)
		}
		eventRepo = storage.NewPostgresEventRepository(pg)
	}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(&PersisterAdapter{repo: eventRepo})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger, tun)

	appLogger.Info("Bootstrapping Simulation Engine...")
	eng := engine.New(
		engine.DefaultConfig(),
		appLogger,
		eventLog,
		engine.SystemClock{},
		rand.New(rand.NewSource(time.Now().UnixNano())),
		network.NewHubPresenter(hub),
		tun.CommandChannelBuffer,
	)
	hub.BindEngine(eng)

	go eng.Run(ctx)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	// Resume the last session if one was saved, otherwise open fresh.
	if saved, err := snapRepo.GetLatest(ctx); err == nil && saved != nil {
		var snap engine.Snapshot
		if err := json.Unmarshal([]byte(saved.StateJSON), &snap); err == nil {
			eng.Restore(&snap)
			appLogger.Info("Restored session " + snap.SessionID + " from database.")
		} else {
			appLogger.Warn("Saved session unreadable, starting fresh: " + err.Error())
			eng.Open()
		}
	} else {
		eng.Open()
	}

	// Automated state backup routine
	go func() {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				snap := eng.Snapshot()
				if snap == nil {
					continue
				}
				stateJSON, err := json.Marshal(snap)
				if err != nil {
					appLogger.Error("Failed to serialize snapshot: " + err.Error())
					continue
				}
				_ = snapRepo.Upsert(ctx, storage.SessionSnapshot{
					SessionID:    snap.SessionID,
					TakenAt:      snap.TakenAt,
					Mode:         string(snap.Mode),
					TutorialStep: snap.TutorialStep,
					Balance:      snap.Balance,
					StateJSON:    string(stateJSON),
				})
			}
		}
	}()

	// Setup API routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		snap := eng.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	})

	http.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = eng.Snapshot().SessionID
		}
		history, err := eventRepo.GetBySessionID(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "Failed to load events", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(history)
	})

	addr := ":" + envOr("CAFE_PORT", "8080")
	go func() {
		log.Println("[CAFE-SERVER] HTTP API & WS server listening on " + addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[CAFE-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[CAFE-SERVER] Shutting down...")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // AR clients connect from the headset's own origin
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
