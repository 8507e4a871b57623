// Command probe connects to a running quizsecure server and prints the
// live monitoring stream. Useful for checking a deployment without a
// browser.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizsecure/quizsecure/internal/httpc"
	"github.com/quizsecure/quizsecure/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8000/ws", "Monitoring stream URL")
	statusURL := flag.String("status", "", "If set, print this /api/status endpoint before connecting")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = run until interrupted)")
	reset := flag.Bool("reset", false, "Request a session reset after connecting")
	flag.Parse()

	if *statusURL != "" {
		if resp, err := httpc.Get(*statusURL); err != nil {
			fmt.Fprintf(os.Stderr, "status check: %v\n", err)
		} else {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			fmt.Printf("server status: %s\n", body)
		}
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *url, err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Printf("connected to %s\n", *url)

	if *reset {
		msg, err := protocol.NewMessage(protocol.TypeResetSession, protocol.ResetSessionData{})
		if err == nil {
			data, _ := msg.Bytes()
			conn.WriteMessage(websocket.TextMessage, data)
			fmt.Println("reset requested")
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				fmt.Fprintf(os.Stderr, "read: %v\n", err)
				return
			}
			msg, err := protocol.ParseMessage(data)
			if err != nil {
				continue
			}
			printMessage(msg)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}

	select {
	case <-sigChan:
	case <-timeout:
	case <-done:
	}
}

func printMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeGazeUpdate:
		var d protocol.GazeUpdateData
		if err := msg.ParseData(&d); err != nil {
			return
		}
		frame := ""
		if d.Frame != "" {
			frame = fmt.Sprintf(" frame=%dB", len(d.Frame))
		}
		fmt.Printf("[%s] focus=%.1f%% alerts=%d gaze=(%.2f, %.2f) faces=%d t=%ds%s\n",
			d.Status, d.Focus, d.Alerts, d.Gaze.Pitch, d.Gaze.Yaw, d.FacesDetected, d.SessionTime, frame)

	case protocol.TypeAlert:
		var d protocol.AlertData
		if err := msg.ParseData(&d); err != nil {
			return
		}
		fmt.Printf("!! ALERT #%d after %.1fs away\n", d.AlertCount, d.Duration)

	case protocol.TypeSessionReset:
		fmt.Println("-- session reset --")

	default:
		fmt.Printf("(%s)\n", msg.Type)
	}
}
