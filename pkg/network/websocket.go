// Package network hosts the WebSocket transport. It assigns each
// physical connection an opaque id and feeds decoded envelopes to the
// dispatcher; it knows nothing about rooms or games.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/log"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/messages"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ConnectHandler is invoked when a new connection is established.
type ConnectHandler func(connID string, conn *websocket.Conn)

// DisconnectHandler is invoked when a connection is lost.
type DisconnectHandler func(connID string)

// MessageHandler is invoked for every decoded inbound envelope.
type MessageHandler func(connID string, msg *messages.Message)

// WSServer represents a WebSocket server.
type WSServer struct {
	port int
	tls  *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port int
	TLS  *TLSConfig
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port: opts.Port,
		tls:  opts.TLS,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Start starts the WebSocket server and blocks until the context is
// cancelled or the listener fails.
func (s *WSServer) Start(ctx context.Context, connectHandler ConnectHandler, disconnectHandler DisconnectHandler, messageHandler MessageHandler) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", conn.RemoteAddr().String())
		go s.handleWSConnection(ctx, conn, connectHandler, disconnectHandler, messageHandler)
	})

	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(ctx)
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// handleWSConnection runs the read loop for one connection.
func (s *WSServer) handleWSConnection(ctx context.Context, conn *websocket.Conn, connectHandler ConnectHandler, disconnectHandler DisconnectHandler, messageHandler MessageHandler) {
	connID := uuid.NewString()
	connectHandler(connID, conn)

	defer func() {
		disconnectHandler(connID)
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := ReadMessageFromWS(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", conn.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", conn.RemoteAddr().String())
			return
		}

		// Each inbound action runs as its own task; per-room atomicity
		// is enforced inside the game instances, not here.
		go messageHandler(connID, msg)
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(conn *websocket.Conn, msg *messages.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(conn *websocket.Conn) (*messages.Message, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg := &messages.Message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %v", err)
	}

	return msg, nil
}
