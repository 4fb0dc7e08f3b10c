package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// LocationSource produces the current driver feed.
type LocationSource interface {
	DriverLocations(ctx context.Context) ([]byte, error)
}

// LocationHub pushes the driver feed to connected dashboard maps. It polls
// the source on an interval and broadcasts only when the feed changed.
type LocationHub struct {
	source   LocationSource
	interval time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]*locationClient
	last    []byte
}

// locationClient serializes data frames to one connection.
type locationClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (lc *locationClient) write(b []byte) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return lc.conn.WriteMessage(websocket.TextMessage, b)
}

func NewLocationHub(source LocationSource, interval time.Duration) *LocationHub {
	return &LocationHub{
		source:   source,
		interval: interval,
		clients:  make(map[*websocket.Conn]*locationClient),
	}
}

// Run polls until ctx is done, then closes every client.
func (h *LocationHub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.Poll(ctx)
		}
	}
}

// Poll fetches the feed once and broadcasts it if it changed. Nothing is
// fetched while no client is connected. Writes happen outside the hub lock
// so a slow client only delays itself.
func (h *LocationHub) Poll(ctx context.Context) {
	if h.ClientCount() == 0 {
		return
	}
	b, err := h.source.DriverLocations(ctx)
	if err != nil {
		logrus.WithError(err).Warn("driver feed poll failed")
		return
	}

	h.mu.Lock()
	if bytes.Equal(b, h.last) {
		h.mu.Unlock()
		return
	}
	h.last = b
	targets := make([]*locationClient, 0, len(h.clients))
	for _, lc := range h.clients {
		targets = append(targets, lc)
	}
	h.mu.Unlock()

	for _, lc := range targets {
		if err := lc.write(b); err != nil {
			logrus.WithError(err).Debug("dropping location client")
			h.drop(lc)
		}
	}
}

func (h *LocationHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// register adds conn and sends it the current feed. Broadcasts that see the
// new client wait for the initial frame.
func (h *LocationHub) register(ctx context.Context, conn *websocket.Conn) error {
	b, err := h.source.DriverLocations(ctx)
	if err != nil {
		return err
	}
	lc := &locationClient{conn: conn}
	lc.mu.Lock()
	h.mu.Lock()
	h.clients[conn] = lc
	h.last = b
	h.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, b)
	lc.mu.Unlock()
	if err != nil {
		h.unregister(conn)
		return err
	}
	return nil
}

func (h *LocationHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// drop removes lc if it is still registered and closes its connection.
func (h *LocationHub) drop(lc *locationClient) {
	h.mu.Lock()
	if h.clients[lc.conn] == lc {
		delete(h.clients, lc.conn)
	}
	h.mu.Unlock()
	lc.conn.Close()
}

// ping sends a ping to a registered conn. WriteControl may run alongside
// data writes.
func (h *LocationHub) ping(conn *websocket.Conn) error {
	h.mu.Lock()
	_, ok := h.clients[conn]
	h.mu.Unlock()
	if !ok {
		return websocket.ErrCloseSent
	}
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (h *LocationHub) closeAll() {
	h.mu.Lock()
	targets := h.clients
	h.clients = make(map[*websocket.Conn]*locationClient)
	h.mu.Unlock()

	for conn := range targets {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
	}
}

type LocationStreamController struct {
	hub      *LocationHub
	upgrader websocket.Upgrader
}

// NewLocationStreamController accepts same-origin upgrades and those from
// the configured CORS origins.
func NewLocationStreamController(hub *LocationHub, origins []string) *LocationStreamController {
	return &LocationStreamController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin) {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// StreamDriverLocations upgrades the request and keeps the socket open
// until the client leaves. Client messages are ignored.
func (l *LocationStreamController) StreamDriverLocations(c *gin.Context) {
	conn, err := l.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := l.hub.register(context.WithoutCancel(c.Request.Context()), conn); err != nil {
		logrus.WithError(err).Warn("could not send initial driver feed")
		return
	}
	defer l.hub.unregister(conn)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := l.hub.ping(conn); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("location client read error")
			}
			return
		}
	}
}
