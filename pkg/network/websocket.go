package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/colevans/resistance/pkg/log"
	"github.com/colevans/resistance/pkg/messages"
	"nhooyr.io/websocket"
)

// DisconnectHandler is called when a connection closes, after the
// connection has been removed from the directory.
type DisconnectHandler func(connectionID string)

// MessageHandler is called for every message read off a connection. The
// message's ConnectionID is set to the reading connection before the call.
type MessageHandler func(ctx context.Context, msg *messages.Message)

// WSServer represents a WebSocket server.
type WSServer struct {
	port          int
	tls           *TLSConfig
	clientManager *ClientManager
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port          int
	TLS           *TLSConfig
	ClientManager *ClientManager
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port:          opts.Port,
		tls:           opts.TLS,
		clientManager: opts.ClientManager,
	}
}

// Start starts the WebSocket server.
func (s *WSServer) Start(ctx context.Context, disconnectHandler DisconnectHandler, messageHandler MessageHandler) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Error("Failed to accept WebSocket connection: %v", err)
			return
		}
		connectionID := s.clientManager.AddConnection(conn)
		log.Debug("New WebSocket connection %s from %s", connectionID, r.RemoteAddr)
		go s.handleWSConnection(ctx, connectionID, conn, disconnectHandler, messageHandler)
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

// handleWSConnection reads messages off a WebSocket connection until it
// closes, then removes the connection and notifies the disconnect handler.
func (s *WSServer) handleWSConnection(ctx context.Context, connectionID string, conn *websocket.Conn, disconnectHandler DisconnectHandler, messageHandler MessageHandler) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.clientManager.RemoveConnection(connectionID)
		disconnectHandler(connectionID)
		conn.CloseNow()
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.Error("Error reading WebSocket message on %s: %v", connectionID, err)
			}
			log.Trace("Connection closed for %s", connectionID)
			return
		}

		msg, err := messages.DeserializeMessage(data)
		if err != nil {
			log.Error("Failed to deserialize message on %s: %v", connectionID, err)
			continue
		}
		msg.ConnectionID = connectionID
		messageHandler(ctx, msg)
	}
}
