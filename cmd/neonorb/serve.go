package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/neonorb/internal/app"
	"github.com/ayusman/neonorb/internal/config"
	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/render"
	"github.com/ayusman/neonorb/internal/server"
	"github.com/ayusman/neonorb/internal/tray"
)

var (
	flagAddr         string
	flagCamera       int
	flagNoRecord     bool
	flagTray         bool
	flagSeed         uint64
	flagMockDetector bool
	flagWebDir       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Track hands from the webcam and serve the viewer (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides server.addr)")
	f.IntVar(&flagCamera, "camera", -1, "camera device index (overrides camera.device_id)")
	f.BoolVar(&flagNoRecord, "no-record", false, "do not record the session")
	f.BoolVar(&flagTray, "tray", false, "show a system tray menu")
	f.Uint64Var(&flagSeed, "seed", 0, "color sequence seed (0 draws one per session)")
	f.BoolVar(&flagMockDetector, "mock-detector", false, "run without the MediaPipe tracker")
	f.StringVar(&flagWebDir, "web", "", "viewer directory (overrides server.web_dir)")
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = flagAddr
	}
	if flags.Changed("camera") {
		cfg.Camera.DeviceID = flagCamera
	}
	if flags.Changed("web") {
		cfg.Server.WebDir = flagWebDir
	}
	if flagNoRecord {
		cfg.Store.Record = false
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	webDir := cfg.Server.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		slog.Info("serving viewer", "dir", webDir)
	}

	hub := server.NewHub(render.DefaultOverlay())

	var det detector.Detector
	if flagMockDetector {
		slog.Warn("using mock hand tracker")
		det = detector.NewMockDetector()
	}

	a := app.New(app.Config{
		Settings: cfg,
		Store:    st,
		Seed:     flagSeed,
		Detector: det,
		Sink:     hub,
	})

	srv := server.New(server.Config{
		StaticDir:     webDir,
		Store:         st,
		State:         a,
		Preview:       a.Preview(),
		Hub:           hub,
		ActiveSession: a.SessionID,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed start leaves the server up so the viewer can show the error.
	if err := a.Start(ctx); err != nil {
		slog.Error("tracking unavailable", "error", err)
	}

	hs := srv.HTTPServer(cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	srvDone := make(chan error, 1)
	go func() { srvDone <- watchServer(errCh, stop) }()

	if flagTray {
		runTray(ctx, stop, a, viewerURL(cfg.Server.Addr))
	} else {
		<-ctx.Done()
	}

	slog.Info("shutting down")
	a.Stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	shutdownErr := hs.Shutdown(shutdownCtx)

	if err := <-srvDone; err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return shutdownErr
}

// watchServer waits for the HTTP server to finish. A failure such as a port
// already in use is logged and stops the process through stop.
func watchServer(errCh <-chan error, stop func()) error {
	err, ok := <-errCh
	if !ok || err == nil {
		return nil
	}
	slog.Error("server failed", "error", err)
	stop()
	return err
}

// runTray blocks in the tray event loop until quit or ctx is done.
func runTray(ctx context.Context, quit context.CancelFunc, a *app.App, url string) {
	tr := tray.New()
	tr.OnToggle(a.SetEnabled)
	tr.OnViewer(func() {
		if err := openBrowser(url); err != nil {
			slog.Warn("open viewer", "url", url, "error", err)
		}
	})
	tr.OnQuit(quit)

	go tr.Watch(ctx, a)
	go func() {
		<-ctx.Done()
		tr.Quit()
	}()

	tr.Run()
}

func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
