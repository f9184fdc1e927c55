// Package api exposes a small read-only HTTP surface for ops: health,
// version, and a room inspector over the live registries.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/log"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/registry"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/rooms"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/version"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
}

type NewAPIServerOptions struct {
	Port     int
	Catalog  *registry.Catalog
	Presence *rooms.Tracker
}

// RoomInfo is the inspector payload for one room.
type RoomInfo struct {
	RoomID string          `json:"roomId"`
	Roster []string        `json:"roster"`
	Games  []games.Summary `json:"games"`
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"version": version.Get()})
	}).Methods(http.MethodGet)
	r.HandleFunc("/rooms", handleListRooms(opts.Catalog, opts.Presence)).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{roomID}", handleGetRoom(opts.Catalog, opts.Presence)).Methods(http.MethodGet)

	return &APIServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opts.Port),
			Handler: r,
		},
	}
}

// Start starts the API server and blocks until the context is
// cancelled or the listener fails.
func (s *APIServer) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.server.Shutdown(ctx)
	}()

	log.Info("API server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

func handleListRooms(catalog *registry.Catalog, presence *rooms.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := make([]RoomInfo, 0)
		for _, roomID := range presence.Rooms() {
			out = append(out, roomInfo(catalog, presence, roomID))
		}
		writeJSON(w, out)
	}
}

func handleGetRoom(catalog *registry.Catalog, presence *rooms.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := mux.Vars(r)["roomID"]
		info := roomInfo(catalog, presence, roomID)
		if len(info.Roster) == 0 && len(info.Games) == 0 {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		writeJSON(w, info)
	}
}

func roomInfo(catalog *registry.Catalog, presence *rooms.Tracker, roomID string) RoomInfo {
	info := RoomInfo{
		RoomID: roomID,
		Roster: presence.Roster(roomID),
		Games:  make([]games.Summary, 0),
	}
	catalog.ForEach(func(_ games.Variant, reg *registry.Registry) {
		if g, ok := reg.TryGet(roomID); ok {
			info.Games = append(info.Games, g.Summary())
		}
	})
	return info
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
