package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/headtilt/internal/app"
	"github.com/ayusman/headtilt/internal/compositor"
	"github.com/ayusman/headtilt/internal/config"
	"github.com/ayusman/headtilt/internal/gesture"
	"github.com/ayusman/headtilt/internal/server"
	"github.com/ayusman/headtilt/internal/store"
	"github.com/ayusman/headtilt/internal/track"
	"github.com/ayusman/headtilt/internal/tray"
)

func main() {
	fmt.Println("headtilt - head-tilt window navigation")

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".headtilt")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "headtilt.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	client, err := buildClient(cfg.Niri)
	if err != nil {
		log.Fatalf("Failed to configure compositor client: %v", err)
	}

	a, err := app.New(app.Config{
		Store:          st,
		Source:         track.NewListener(cfg.Port),
		Client:         client,
		Engine:         cfg.Classifier.Engine(),
		MinInterval:    time.Duration(cfg.Dispatch.MinIntervalMs) * time.Millisecond,
		RepeatInterval: time.Duration(cfg.Dispatch.RepeatIntervalMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	live := server.NewLiveHandler()
	tr := tray.New(a.IsEnabled())

	a.OnSample(live.BroadcastRecord)
	a.OnSignal(func(sig gesture.Signal, rec gesture.Record) {
		live.BroadcastSignal(sig, rec)
		tr.SetLastSignal(sig.String())
	})
	tr.OnToggle(a.SetEnabled)
	tr.OnQuit(a.Stop)

	srv := server.New(server.Config{Store: st, App: a, Live: live})
	go func() {
		fmt.Printf("Starting status server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Printf("Status server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	fmt.Printf("Listening for opentrack packets on UDP port %d\n", cfg.Port)

	// The OS signal handler and the tray both shut down through systray.Quit,
	// so the tray loop below is the only blocking point.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		tr.Quit()
	}()

	tr.Run()
	a.Stop()
}

// configPath resolves the configuration file location. HEADTILT_CONFIG wins;
// otherwise ~/.headtilt/config.yaml is used when the home directory is known.
func configPath() string {
	if p := os.Getenv("HEADTILT_CONFIG"); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".headtilt", "config.yaml")
}

// buildClient picks the compositor backend: an external command when one is
// configured, the niri IPC socket otherwise.
func buildClient(cfg config.NiriConfig) (compositor.Client, error) {
	if len(cfg.ExecCommand) > 0 {
		return compositor.NewExecClient(cfg.ExecCommand)
	}
	return compositor.NewNiriClient(cfg.Socket), nil
}
