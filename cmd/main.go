// rawdelta - Raw mouse delta recorder
// Records relative mouse movement from the Raw Input API while listening is on.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"rawdelta/internal/autostart"
	"rawdelta/internal/capture"
	"rawdelta/internal/config"
	"rawdelta/internal/hotkey"
	"rawdelta/internal/tray"
)

var version = "0.1.0"

// options holds the command line flags that are not settings overrides
type options struct {
	configPath string
	saveConfig bool
	showVer    bool
	overrides  config.Overrides
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("rawdelta", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to the settings file (default: per-user config dir)")
	fs.BoolVar(&opts.saveConfig, "save-config", false, "Write the effective settings to the config file and exit")
	fs.BoolVar(&opts.showVer, "version", false, "Show version")
	opts.overrides.Register(fs)
	return fs
}

func main() {
	opts := &options{}
	fs := newFlagSet(opts)
	fs.Parse(os.Args[1:])

	if opts.showVer {
		fmt.Printf("rawdelta version %s\n", version)
		return
	}

	cfgMgr, err := newConfigManager(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config, using defaults: %v", err)
	}

	cfg := cfgMgr.Get()
	if err := opts.overrides.Apply(fs, &cfg); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config %s: %v", cfgMgr.Path(), err)
	}
	cfgMgr.Set(cfg)

	if opts.saveConfig {
		if err := cfgMgr.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		fmt.Printf("Settings written to %s\n", cfgMgr.Path())
		return
	}

	setupLogging(cfg.LogFile)
	run(cfg, cfg.StartOnLogin || config.AutostartSet(fs))
}

func newConfigManager(path string) (*config.Manager, error) {
	if path != "" {
		return config.NewManagerAt(path), nil
	}
	return config.NewManager()
}

// setupLogging sends the log to path when set, truncating the previous run
func setupLogging(path string) {
	if path == "" {
		return
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("Failed to open log file: %v", err)
			return
		}
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags)
	log.Printf("=== rawdelta v%s started ===", version)
}

// report logs a drained batch and prints its movements on stdout
func report(batch capture.Batch) {
	dx, dy := batch.Sum()
	log.Printf("Capture: %d movements recorded (total dx=%d, dy=%d)", len(batch.Movements), dx, dy)
	if batch.Dropped > 0 {
		log.Printf("Capture: %d movements dropped after the buffer limit was reached", batch.Dropped)
	}
	fmt.Println(capture.FormatMovements(batch.Movements))
}

// run starts capture and blocks until shutdown. syncAutostart updates the
// login item once capture has registered successfully.
func run(cfg config.Config, syncAutostart bool) {
	log.Println("rawdelta starting...")

	session := capture.NewSession(cfg.MaxBuffered)

	pump, err := capture.Start(session)
	if err != nil {
		log.Fatalf("Failed to start mouse capture: %v", err)
	}

	if syncAutostart {
		if err := autostart.Sync(cfg.StartOnLogin); err != nil {
			log.Printf("Warning: failed to update start on login: %v", err)
		}
	}

	var t *tray.Tray
	listenItem := -1

	// Serializes toggles so the tray always shows the latest state
	var toggleMu sync.Mutex
	toggle := func(source string) {
		toggleMu.Lock()
		defer toggleMu.Unlock()

		opened, batch := session.Toggle()
		if opened {
			log.Printf("Capture: resuming mouse listener (%s)", source)
		} else {
			log.Printf("Capture: pausing mouse listener (%s)", source)
			report(batch)
		}

		if t != nil {
			t.SetItemChecked(listenItem, opened)
			t.SetListening(opened)
		}
	}

	if cfg.StartListening {
		session.Resume()
		log.Println("Capture: listening from startup")
	}

	hkMgr := hotkey.NewManager()
	if _, err := hkMgr.Register(cfg.ToggleHotkey, func() { toggle("hotkey") }); err != nil {
		log.Fatalf("Failed to register toggle hotkey %q: %v", cfg.ToggleHotkey, err)
	}
	if err := hkMgr.Start(); err != nil {
		log.Printf("Warning: Hotkey Engine failed to start: %v", err)
	} else {
		log.Printf("Hotkey: press %s to pause/resume listening", cfg.ToggleHotkey)
	}

	shutdown := func() {
		if session.Listening() {
			log.Println("Capture: stopping while listening, reporting pending movements")
			report(session.Pause())
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if !cfg.ShowTray {
		log.Println("rawdelta running. Press Ctrl+C to stop.")
		select {
		case <-sigCh:
			log.Println("Shutting down...")
		case <-pump.Done():
			log.Printf("Capture loop exited: %v", pump.Err())
		}
		shutdown()
		return
	}

	toggleMu.Lock()
	t = tray.New("rawdelta")
	listenItem = t.AddCheckItem("Listening", session.Listening(), func() { toggle("tray") })
	t.SetListening(session.Listening())
	t.AddSeparator()
	t.AddMenuItem("Quit", func() {
		t.Stop()
	})
	t.OnExit(shutdown)
	toggleMu.Unlock()

	go func() {
		select {
		case <-sigCh:
			log.Println("Shutting down...")
		case <-pump.Done():
			log.Printf("Capture loop exited: %v", pump.Err())
		}
		t.Stop()
	}()

	log.Println("rawdelta running. Press Ctrl+C or use the tray menu to stop.")
	t.Run()
}
