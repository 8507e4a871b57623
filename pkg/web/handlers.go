package web

import (
	"io"
	"runtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/quizsecure/quizsecure/internal/log"
	"github.com/quizsecure/quizsecure/pkg/hub"
	"github.com/quizsecure/quizsecure/pkg/protocol"
)

// handleRoot returns the service banner.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "QuizSecure Gaze Monitoring API",
		"live":    s.LiveStatus != nil,
	})
}

// handleStatus reports server health for dashboards and probes.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":         "running",
		"viewers":        s.statusHub.ClientCount(),
		"camera_viewers": s.cameraHub.ClientCount(),
		"total_sessions": s.sessions.Count(),
	}
	if s.LiveStatus != nil {
		resp["live"] = s.LiveStatus()
	}
	return c.JSON(resp)
}

// handleSystem reports host and runtime information.
func (s *Server) handleSystem(c *fiber.Ctx) error {
	resp := fiber.Map{
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
		"total_sessions": s.sessions.Count(),
	}

	if info, err := host.Info(); err == nil {
		resp["hostname"] = info.Hostname
		resp["platform"] = info.Platform
		resp["uptime_seconds"] = info.Uptime
	}
	if counts, err := cpu.Counts(true); err == nil {
		resp["cpus"] = counts
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp["memory_used_percent"] = vm.UsedPercent
	}

	return c.JSON(resp)
}

// handleListSessions returns every live session's status.
func (s *Server) handleListSessions(c *fiber.Ctx) error {
	return c.JSON(s.sessions.Statuses())
}

// handleGetSession returns one student's monitoring status.
func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess := s.sessions.Get(c.Params("student"))
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "student session not found",
		})
	}
	return c.JSON(sess.Status())
}

// handleResetSession resets a student's session. "live" targets the
// monitor's own session so the reset is also broadcast to viewers.
func (s *Server) handleResetSession(c *fiber.Ctx) error {
	student := c.Params("student")

	if student == "live" && s.OnResetLive != nil {
		s.OnResetLive()
		return c.JSON(fiber.Map{"status": "success", "student_id": student})
	}

	if !s.sessions.Reset(student) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "student session not found",
		})
	}
	return c.JSON(fiber.Map{"status": "success", "student_id": student})
}

// handleStudentFrame accepts one multipart camera frame from a remote
// student and runs it through the monitoring pipeline.
func (s *Server) handleStudentFrame(c *fiber.Ctx) error {
	if s.ProcessFrame == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "frame processing not configured",
		})
	}

	fileHeader, err := c.FormFile("frame")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing frame file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unreadable frame file",
		})
	}
	defer file.Close()

	jpeg, err := io.ReadAll(file)
	if err != nil || len(jpeg) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid image data",
		})
	}

	status, err := s.ProcessFrame(c.Params("student"), jpeg)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "gaze estimation unavailable",
		})
	}
	return c.JSON(status)
}

// handleStatusWS streams monitoring updates and accepts dashboard actions.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.OnMessage = s.handleViewerAction

	// Send the current state immediately so the dashboard renders without
	// waiting for the next frame.
	if s.LiveStatus != nil {
		if msg, err := protocol.NewGazeUpdate(s.LiveStatus().Behavior, nil, 0, "snapshot"); err == nil {
			if data, err := msg.Bytes(); err == nil {
				client.Send(hub.NewUpdate(data))
			}
		}
	}

	client.Run() // Blocks until the viewer disconnects
}

// handleCameraWS streams raw JPEG frames.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}

// handleViewerAction dispatches inbound dashboard messages.
func (s *Server) handleViewerAction(data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Debug("bad viewer message", "err", err)
		return
	}

	switch msg.Type {
	case protocol.TypeResetSession:
		var req protocol.ResetSessionData
		if err := msg.ParseData(&req); err != nil {
			return
		}
		if req.SessionID == "" || req.SessionID == "live" {
			if s.OnResetLive != nil {
				s.OnResetLive()
			}
			return
		}
		s.sessions.Reset(req.SessionID)

	case protocol.TypePing:
		// Keepalives handled at the websocket layer; nothing to do.

	default:
		log.Debug("unhandled viewer message", "type", msg.Type)
	}
}

// handleStudentPage serves the embedded dashboard.
func (s *Server) handleStudentPage(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.SendString(studentPage)
}
