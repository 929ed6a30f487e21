package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	listen := flag.String("listen", ":8080", "HTTP listen address")
	dataDir := flag.String("data-dir", "", "data directory (default ~/.mudra)")
	cameraID := flag.Int("camera", 0, "camera device index")
	webDir := flag.String("web", "", "static web directory (default: search web/, ../web, <data-dir>/web)")
	useTray := flag.Bool("tray", false, "show a system tray menu")
	startCamera := flag.Bool("start", true, "start the camera on launch (-start=false to wait for the tray or API)")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Tracker")

	dir, err := resolveDataDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to get data directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:    st,
		CameraID: *cameraID,
	})
	defer a.Close()

	if *startCamera {
		if err := a.Start(); err != nil {
			log.Printf("Camera not started: %v", err)
		}
	}

	static := *webDir
	if static == "" {
		static = findWebDir(dir)
	}
	if static != "" {
		fmt.Printf("Serving static files from: %s\n", static)
	}

	srv := server.New(server.Config{
		StaticDir: static,
		App:       a,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", *listen)
		errCh <- srv.ListenAndServe(*listen)
	}()

	if *useTray {
		// systray needs the main goroutine; it returns once Quit is called.
		t := newTray(a, dir, settingsURL(*listen))
		go func() {
			select {
			case <-ctx.Done():
			case <-errCh:
			}
			t.Quit()
		}()
		t.Run()
		return
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
		}
	}
}

// newTray builds the tray menu and keeps it in sync with the app.
func newTray(a *app.App, dataDir, settings string) *tray.Tray {
	t := tray.New()

	t.OnToggle(a.SetEnabled)
	t.OnCamera(func(running bool) {
		if !running {
			a.Stop()
			return
		}
		if err := a.Start(); err != nil {
			log.Printf("Camera not started: %v", err)
		}
	})
	t.OnClearLog(a.ClearLog)
	t.OnExportLog(func() {
		path, err := exportLog(a, dataDir)
		if err != nil {
			log.Printf("Export failed: %v", err)
			return
		}
		log.Printf("Exported log to %s", path)
	})
	t.OnSettings(func() {
		if err := openBrowser(settings); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})

	state, updates, _ := a.SubscribeWithSnapshot()
	mirror := func(d app.Display) {
		t.SetStatus(tray.Status{
			Gesture:       d.Gesture,
			Proximity:     d.Proximity,
			Enabled:       d.Enabled,
			CameraRunning: d.CameraRunning,
		})
	}
	mirror(state.Display)
	go func() {
		for u := range updates {
			mirror(u.Display)
		}
	}()

	return t
}

// exportLog writes the log to ~/Downloads when it exists, otherwise to
// <data-dir>/exports.
func exportLog(a *app.App, dataDir string) (string, error) {
	name, content := a.ExportLog()

	dir := filepath.Join(dataDir, "exports")
	if home, err := os.UserHomeDir(); err == nil {
		if info, err := os.Stat(filepath.Join(home, "Downloads")); err == nil && info.IsDir() {
			dir = filepath.Join(home, "Downloads")
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func resolveDataDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".mudra"), nil
}

// settingsURL turns a listen address into a browsable URL.
func settingsURL(listen string) string {
	host := listen
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host + "/"
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

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <data-dir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
