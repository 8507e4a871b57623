// Package web provides the HTTP/WebSocket surface: proctor dashboard,
// session API, and the live monitoring streams.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/quizsecure/quizsecure/internal/log"
	"github.com/quizsecure/quizsecure/pkg/hub"
	"github.com/quizsecure/quizsecure/pkg/protocol"
	"github.com/quizsecure/quizsecure/pkg/session"
)

// Server is the quizsecure web server.
type Server struct {
	app  *fiber.App
	addr string

	sessions *session.Manager

	// Hubs for websocket broadcast: JSON monitoring updates and raw
	// binary camera frames on separate streams.
	statusHub *hub.Hub
	cameraHub *hub.Hub

	// OnResetLive resets the live monitor session. Set by main.
	OnResetLive func()

	// LiveStatus returns the live monitor session status. Set by main;
	// nil when the server runs API-only.
	LiveStatus func() session.Status

	// ProcessFrame handles a student's uploaded frame. Set by main.
	ProcessFrame func(studentID string, jpeg []byte) (session.Status, error)
}

// NewServer creates the web server on the given listen address.
func NewServer(addr string, sessions *session.Manager) *Server {
	s := &Server{
		addr:      addr,
		sessions:  sessions,
		statusHub: hub.New("status"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "QuizSecure",
		DisableStartupMessage: true,
		BodyLimit:             8 * 1024 * 1024, // frame uploads
	})

	// The dashboard may be served from another origin during development.
	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/student", s.handleStudentPage)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/system", s.handleSystem)
	api.Get("/sessions", s.handleListSessions)
	api.Get("/sessions/:student", s.handleGetSession)
	api.Post("/sessions/:student/reset", s.handleResetSession)
	api.Post("/sessions/:student/frames", s.handleStudentFrame)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.cameraHub.Run()

	log.Info("web server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishUpdate implements monitor.Publisher for JSON monitoring messages.
func (s *Server) PublishUpdate(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		log.Error("encode broadcast failed", "err", err)
		return
	}
	s.statusHub.Broadcast(hub.NewUpdate(data))
}

// PublishFrame implements monitor.Publisher for raw camera frames.
func (s *Server) PublishFrame(jpeg []byte) {
	// Encoding every frame for zero viewers is wasted work.
	if s.cameraHub.ClientCount() == 0 {
		return
	}
	s.cameraHub.BroadcastFrame(jpeg)
}

// ViewerCount returns connected status stream viewers.
func (s *Server) ViewerCount() int {
	return s.statusHub.ClientCount()
}
