package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/quizsecure/quizsecure/internal/config"
	"github.com/quizsecure/quizsecure/internal/log"
	"github.com/quizsecure/quizsecure/internal/storage"
	"github.com/quizsecure/quizsecure/pkg/capture"
	"github.com/quizsecure/quizsecure/pkg/detect"
	"github.com/quizsecure/quizsecure/pkg/gaze"
	"github.com/quizsecure/quizsecure/pkg/monitor"
	"github.com/quizsecure/quizsecure/pkg/session"
	"github.com/quizsecure/quizsecure/pkg/web"
)

func main() {
	configPath := flag.String("config", "quizsecure.yaml", "Path to config file")
	noCamera := flag.Bool("no-camera", false, "Run without a local webcam")
	modelPath := flag.String("face-model", "", "Path to YuNet ONNX face model (empty disables detection)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Init("info")
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	// Gaze pipeline: external model server when configured, otherwise the
	// built-in simulator so the dashboard works end to end without one.
	var source gaze.Source
	if cfg.Estimator.URL != "" {
		source = gaze.NewEstimator(cfg.Estimator.URL, cfg.Estimator.DialTimeout)
	} else {
		log.Warn("no estimator configured, using simulated gaze")
		source = gaze.NewSimulator()
	}
	defer source.Close()

	// Local webcam is optional: remote students push frames over HTTP.
	var camera monitor.FrameSource
	if cfg.Camera.Enabled && !*noCamera {
		cam, err := capture.Open(capture.Config{
			DeviceID:  cfg.Camera.DeviceID,
			Width:     cfg.Camera.Width,
			Height:    cfg.Camera.Height,
			Framerate: cfg.Camera.Framerate,
			Quality:   cfg.Camera.Quality,
		})
		if err != nil {
			log.Warn("camera unavailable, continuing without frames", "err", err)
		} else {
			defer cam.Close()
			camera = cam
		}
	}

	var detector detect.Detector
	if *modelPath != "" {
		dcfg := detect.DefaultConfig()
		dcfg.ModelPath = *modelPath
		yn, err := detect.NewYuNet(dcfg)
		if err != nil {
			log.Warn("face detector unavailable", "err", err)
		} else {
			defer yn.Close()
			detector = yn
		}
	}

	// Audit archive is optional and only enabled by DATABASE_URL.
	var archiver monitor.Archiver
	if cfg.Database.URL != "" {
		store, err := storage.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("audit archive unavailable", "err", err)
		} else {
			defer store.Close()
			archiver = store
			log.Info("audit archive enabled")
		}
	}

	sessions := session.NewManager(cfg.Behavior.Tracker())
	server := web.NewServer(cfg.Server.Addr(), sessions)

	mon := monitor.New(monitor.DefaultConfig(), sessions, source, camera, detector, server, archiver)
	server.OnResetLive = mon.Reset
	server.LiveStatus = mon.Session().Status
	server.ProcessFrame = func(studentID string, jpeg []byte) (session.Status, error) {
		return mon.ProcessFrame(ctx, studentID, jpeg)
	}

	go mon.Run(ctx)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Info("quizsecure started", "addr", cfg.Server.Addr(), "gaze", source.Name())
	if err := server.Start(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
