// mouse-smoother - scroll wheel debouncing filter
// Grabs a physical mouse, removes mechanical wheel jitter and re-emits the
// cleaned event stream through a virtual device.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ITJesse/mouse-smoother/internal/api"
	"github.com/ITJesse/mouse-smoother/internal/config"
	"github.com/ITJesse/mouse-smoother/internal/evdev"
	"github.com/ITJesse/mouse-smoother/internal/filter"
	"github.com/ITJesse/mouse-smoother/internal/logging"
	"github.com/ITJesse/mouse-smoother/internal/protocol"
	"github.com/ITJesse/mouse-smoother/internal/recorder"
	"github.com/ITJesse/mouse-smoother/internal/smoother"
	"github.com/ITJesse/mouse-smoother/internal/tray"
)

var (
	version      = "1.0.0"
	listDevs     = flag.Bool("list", false, "List available mouse devices")
	deviceSpec   = flag.String("device", "", "Device to intercept: list index or /dev/input/eventN path")
	configPath   = flag.String("config", config.DefaultPath, "Configuration file path")
	createConfig = flag.Bool("create-config", false, "Create a default configuration file and exit")
	logLevel     = flag.String("log-level", "", "Log level: error, warn, info, debug, trace (overrides config)")
	withAPI      = flag.Bool("api", false, "Enable the status API server")
	withTray     = flag.Bool("tray", false, "Show a system tray menu")
	recordPath   = flag.String("record", "", "Record filter decisions to this SQLite file")
	showVer      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("mouse-smoother version %s\n", version)
		return
	}

	cfgMgr := config.NewManager(*configPath)

	if *createConfig {
		if err := cfgMgr.CreateDefault(); err != nil {
			log.Fatalf("Failed to create config: %v", err)
		}
		fmt.Printf("Created default configuration file: %s\n", cfgMgr.Path())
		if !*listDevs {
			return
		}
	}

	if err := cfgMgr.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := cfgMgr.Get()

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	if *listDevs {
		if err := listMice(); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if os.Geteuid() != 0 {
		log.Fatal("Root privileges are required to access input devices; run with sudo")
	}

	if err := runService(cfgMgr, logger); err != nil {
		logger.Error("session terminated", "err", err)
		os.Exit(1)
	}
}

func listMice() error {
	mice, err := evdev.FindMice()
	if err != nil {
		return err
	}
	if len(mice) == 0 {
		return errors.New("no mouse devices found")
	}

	fmt.Println("Available mouse devices:")
	for i, m := range mice {
		fmt.Printf("%d. %s (%s)\n", i+1, m.Name, m.Path)
	}
	return nil
}

// selectDevice resolves the device to intercept from the -device flag or
// config, or interactively when several candidates remain.
func selectDevice(mice []evdev.DeviceInfo, spec string, logger *slog.Logger) (string, error) {
	if spec != "" {
		if index, err := strconv.Atoi(spec); err == nil {
			if index < 1 || index > len(mice) {
				return "", fmt.Errorf("invalid device index %d", index)
			}
			return mice[index-1].Path, nil
		}
		if strings.HasPrefix(spec, "/dev/input/") {
			for _, m := range mice {
				if m.Path == spec {
					return m.Path, nil
				}
			}
			return "", fmt.Errorf("device path %q is not a detected mouse", spec)
		}
		return "", fmt.Errorf("invalid device specification %q", spec)
	}

	if len(mice) == 1 {
		logger.Info("auto-selected the only mouse device",
			"name", mice[0].Name, "path", mice[0].Path)
		return mice[0].Path, nil
	}

	fmt.Println("Found the following mouse devices:")
	for i, m := range mice {
		fmt.Printf("%d. %s (%s)\n", i+1, m.Name, m.Path)
	}
	fmt.Print("Enter the number of the device to use: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read selection: %w", err)
	}
	selection, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || selection < 1 || selection > len(mice) {
		return "", errors.New("invalid selection")
	}
	return mice[selection-1].Path, nil
}

func runService(cfgMgr *config.Manager, logger *slog.Logger) error {
	cfg := cfgMgr.Get()

	mice, err := evdev.FindMice()
	if err != nil {
		return err
	}
	if cfg.Device.NameFilter != "" {
		var kept []evdev.DeviceInfo
		for _, m := range mice {
			if strings.Contains(m.Name, cfg.Device.NameFilter) {
				kept = append(kept, m)
			}
		}
		logger.Info("applied device name filter",
			"filter", cfg.Device.NameFilter, "matches", len(kept))
		mice = kept
	}
	if len(mice) == 0 {
		return errors.New("no mouse devices found")
	}

	spec := *deviceSpec
	if spec == "" {
		spec = cfg.Device.Path
	}
	path, err := selectDevice(mice, spec, logger)
	if err != nil {
		return err
	}

	session, err := smoother.New(path, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec *recorder.Recorder
	if *recordPath != "" {
		rec, err = recorder.Open(*recordPath)
		if err != nil {
			return err
		}
		defer rec.Close()
		logger.Info("recording filter decisions", "path", *recordPath)
	}

	var apiServer *api.Server
	if cfg.API.Enabled || *withAPI {
		apiServer = api.NewServer(cfgMgr, session, logger)
		go func() {
			if err := apiServer.Start(cfg.API.Port); err != nil {
				logger.Error("api server stopped", "err", err)
			}
		}()
	}

	if rec != nil || apiServer != nil {
		session.SetDecisionHook(func(d filter.Decision) {
			if rec != nil {
				if err := rec.Record(d); err != nil {
					logger.Warn("failed to record decision", "err", err)
				}
			}
			if apiServer != nil {
				apiServer.BroadcastDecision(protocol.DecisionPayload{
					TimestampMs: d.At.UnixMilli(),
					Axis:        string(d.Axis),
					Raw:         d.Raw,
					Filtered:    d.Filtered,
					Suppressed:  d.Suppressed,
				})
			}
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runErr := make(chan error, 1)
	go func() { runErr <- session.Run(ctx) }()

	if *withTray {
		return runWithTray(session, sigCh, runErr, cancel, logger)
	}

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		<-runErr
		return nil
	case err := <-runErr:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

// runWithTray blocks on the systray loop; the session keeps running in its
// own goroutine until quit, a signal or an I/O failure.
func runWithTray(session *smoother.Session, sigCh chan os.Signal, runErr chan error, cancel context.CancelFunc, logger *slog.Logger) error {
	t := tray.New("MouseSmoother", "Scroll wheel debouncer",
		session.SetPaused,
		cancel,
	)

	var sessionErr error
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
		case err := <-runErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				sessionErr = err
			}
		}
		cancel()
		t.Stop()
	}()

	t.Run()
	return sessionErr
}
