package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	visteerrors "github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Config configures the inspector server.
type Config struct {
	// Address is the listen address (default: "localhost:7070").
	Address string

	// Logger is the structured logger (default: slog.Default()).
	Logger *slog.Logger

	// Gatherer serves /metrics (default: prometheus.DefaultGatherer).
	Gatherer prometheus.Gatherer

	// WriteTimeout bounds each websocket write (default: 5s).
	WriteTimeout time.Duration
}

// Option configures the inspector server.
type Option func(*Config)

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithGatherer sets the Prometheus gatherer behind /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		c.Gatherer = g
	}
}

// WithWriteTimeout sets the websocket write timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

func defaultConfig() Config {
	return Config{
		Address:      "localhost:7070",
		Logger:       slog.Default(),
		Gatherer:     prometheus.DefaultGatherer,
		WriteTimeout: 5 * time.Second,
	}
}

// Event is a websocket message from the server.
type Event struct {
	Update

	Type  string   `json:"type"` // "snapshot" or "update"
	All   []string `json:"all,omitempty"`
	Nodes int      `json:"nodes"`
	Edges int      `json:"edges"`
}

// Command is a websocket message from a client.
type Command struct {
	Op    string `json:"op"` // incr, decr, add, remove
	Label string `json:"label,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	abandoned bool // guarded by Server.mu
}

// Server exposes the demo graph and its World over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /graph              JSON snapshot of every node
//	GET    /counter
//	POST   /counter/{op}       op is incr or decr
//	GET    /labels
//	POST   /labels             body {"label": "..."}
//	DELETE /labels/{label}
//	GET    /metrics
//	GET    /ws                 live updates; accepts Command messages
type Server struct {
	config   Config
	loop     *Loop
	demo     *Demo
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[string]*client
}

// New builds the demo graph on loop and the routes serving it.
func New(ctx context.Context, loop *Loop, opts ...Option) (*Server, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	s := &Server{
		config:  config,
		loop:    loop,
		logger:  config.Logger.With("component", "inspect"),
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	err := loop.Do(ctx, func(w *viste.World) error {
		s.demo = NewDemo(w)
		s.demo.Poll()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/graph", s.handleGraph)
	r.Get("/counter", s.handleCounter)
	r.Post("/counter/{op}", s.handleCounterOp)
	r.Get("/labels", s.handleLabels)
	r.Post("/labels", s.handleAddLabel)
	r.Delete("/labels/{label}", s.handleRemoveLabel)
	r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return visteerrors.New("E180").WithDetail(s.config.Address).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return visteerrors.New("E180").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return visteerrors.New("E180").Wrap(err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return visteerrors.New("E180").Wrap(err)
	}
	return nil
}

// Close releases the demo graph. The loop is left running.
func (s *Server) Close(ctx context.Context) error {
	s.closeClients()
	return s.loop.Do(ctx, func(*viste.World) error {
		s.demo.Close()
		return nil
	})
}

// =============================================================================
// HTTP handlers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ve *visteerrors.VisteError
	errors.As(err, &ve)
	switch {
	case errors.Is(err, ErrLoopClosed), errors.Is(err, ErrLoopBusy):
		status = http.StatusServiceUnavailable
	case ve != nil && ve.Code == "E181":
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	body := errorResponse{Error: err.Error()}
	if ve != nil {
		body.Cause = json.RawMessage(ve.FormatJSON())
	}
	writeJSON(w, status, body)
}

// errorResponse is the body of every failed request. Cause carries the
// coded error when there is one.
type errorResponse struct {
	Error string          `json:"error"`
	Cause json.RawMessage `json:"cause,omitempty"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var snap viste.Snapshot
	err := s.loop.Do(r.Context(), func(world *viste.World) error {
		snap = world.Snapshot()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type counterResponse struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

func (s *Server) handleCounter(w http.ResponseWriter, r *http.Request) {
	var resp counterResponse
	err := s.loop.Do(r.Context(), func(*viste.World) error {
		resp = counterResponse{Value: s.demo.Counter(), Text: s.demo.Text()}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCounterOp(w http.ResponseWriter, r *http.Request) {
	msg, err := ParseMsg(chi.URLParam(r, "op"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var resp counterResponse
	err = s.apply(r.Context(), func() {
		s.demo.Send(msg)
		resp = counterResponse{Value: s.demo.Counter(), Text: s.demo.Text()}
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	var labels []string
	err := s.loop.Do(r.Context(), func(*viste.World) error {
		labels = s.demo.Labels()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"labels": labels})
}

func (s *Server) handleAddLabel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Label == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "expected {\"label\": \"...\"}"})
		return
	}
	var added bool
	if err := s.apply(r.Context(), func() { added = s.demo.AddLabel(body.Label) }); err != nil {
		s.writeError(w, err)
		return
	}
	if !added {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "label exists: " + body.Label})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"label": body.Label})
}

func (s *Server) handleRemoveLabel(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	var removed bool
	if err := s.apply(r.Context(), func() { removed = s.demo.RemoveLabel(label) }); err != nil {
		s.writeError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such label: " + label})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apply runs fn on the loop, then broadcasts what changed.
func (s *Server) apply(ctx context.Context, fn func()) error {
	var ev Event
	err := s.loop.Do(ctx, func(world *viste.World) error {
		fn()
		ev = Event{Type: "update", Update: s.demo.Poll(), Nodes: world.NodeCount(), Edges: world.EdgeCount()}
		return nil
	})
	if err != nil {
		return err
	}
	if !ev.Empty() {
		s.broadcast(ev)
	}
	return nil
}

// =============================================================================
// WebSocket feed
// =============================================================================

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, 16)}

	if err := s.register(r.Context(), c); err != nil {
		conn.Close()
		return
	}
	s.logger.Info("client connected", "client", c.id)

	go s.writeLoop(c)
	s.readLoop(c)
}

// register queues the snapshot for c and adds it to the broadcast set.
// Both happen on the loop, so the snapshot comes before any update computed
// after it. If ctx ends first, the task may still run later; abandoned
// keeps it from registering a client nobody writes to.
func (s *Server) register(ctx context.Context, c *client) error {
	err := s.loop.Do(ctx, func(world *viste.World) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c.abandoned {
			return nil
		}
		value := s.demo.Counter()
		c.send <- mustMarshal(Event{
			Type:   "snapshot",
			Update: Update{Counter: &value, Text: s.demo.Text()},
			All:    s.demo.Labels(),
			Nodes:  world.NodeCount(),
			Edges:  world.EdgeCount(),
		})
		s.clients[c.id] = c
		return nil
	})
	if err != nil {
		s.mu.Lock()
		c.abandoned = true
		if _, ok := s.clients[c.id]; ok {
			delete(s.clients, c.id)
			close(c.send)
		}
		s.mu.Unlock()
	}
	return err
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func (s *Server) readLoop(c *client) {
	defer s.removeClient(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "client", c.id, "error", err)
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.logger.Warn("invalid command", "client", c.id, "error", err)
			continue
		}
		if err := s.handleCommand(cmd); err != nil {
			s.logger.Warn("command failed", "client", c.id, "op", cmd.Op, "error", err)
		}
	}
}

func (s *Server) handleCommand(cmd Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	switch cmd.Op {
	case "add":
		return s.apply(ctx, func() { s.demo.AddLabel(cmd.Label) })
	case "remove":
		return s.apply(ctx, func() { s.demo.RemoveLabel(cmd.Label) })
	default:
		msg, err := ParseMsg(cmd.Op)
		if err != nil {
			return err
		}
		return s.apply(ctx, func() { s.demo.Send(msg) })
	}
}

func (s *Server) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Error("write error", "client", c.id, "error", err)
			c.conn.Close()
			return
		}
	}
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.conn.Close()
}

func (s *Server) broadcast(ev Event) {
	data := mustMarshal(ev)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Warn("client send queue full, dropping update", "client", c.id)
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	close(c.send)
	s.logger.Info("client disconnected", "client", c.id)
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		delete(s.clients, id)
		close(c.send)
	}
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (c Command) String() string {
	if c.Label == "" {
		return c.Op
	}
	return c.Op + " " + strconv.Quote(c.Label)
}
