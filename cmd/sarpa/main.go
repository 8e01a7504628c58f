package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/sarpa/internal/app"
	"github.com/ayusman/sarpa/internal/server"
	"github.com/ayusman/sarpa/internal/store"
	"github.com/ayusman/sarpa/internal/tray"
)

func main() {
	var (
		cameraID  = flag.Int("camera", -1, "camera device ID (-1 uses the stored setting)")
		addr      = flag.String("addr", "", "companion server address, e.g. :8080 (empty disables)")
		dbPath    = flag.String("db", "", "database path (default ~/.sarpa/sarpa.db)")
		staticDir = flag.String("web", "", "directory of static files for the companion server")
		withTray  = flag.Bool("tray", false, "show a system tray menu")
	)
	flag.Parse()

	fmt.Println("Sarpa - Hand-Controlled Snake")

	st, err := openStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	settings := st.Settings()
	camera := *cameraID
	if camera < 0 {
		camera = settings.GetInt("camera_id", 0)
	} else if err := settings.SetInt("camera_id", camera); err != nil {
		log.Printf("Failed to save camera setting: %v", err)
	}

	session := app.New(app.Config{
		Store:        st,
		CameraID:     camera,
		MotionThresh: settings.GetFloat("motion_threshold", 1.0),
	})

	if err := session.Open(); err != nil {
		log.Fatalf("Failed to open camera: %v", err)
	}
	defer session.Close()

	if *addr != "" {
		session.SetPublish(true)
		srv := server.New(server.Config{
			StaticDir: *staticDir,
			Store:     st,
			State:     session,
			Frames:    session,
		})
		go func() {
			fmt.Printf("Starting server on %s\n", *addr)
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if *withTray {
		runWithTray(session, st)
		return
	}

	window := gocv.NewWindow(windowTitle)
	defer window.Close()

	if err := session.Run(window); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

const windowTitle = "Sarpa - Hand Controlled Snake"

// runWithTray runs the tray on the main goroutine, as system tray
// frameworks require, and the session loop on a worker goroutine.
// The window is created on that worker, the goroutine that drives it.
func runWithTray(session *app.Session, st *store.Store) {
	t := tray.New()
	t.OnPause(session.SetPaused)
	t.OnReset(session.Reset)
	t.OnQuit(func() {
		session.Close()
		os.Exit(0)
	})

	go func() {
		window := gocv.NewWindow(windowTitle)
		defer window.Close()

		if err := session.Run(window); err != nil {
			log.Fatalf("Session failed: %v", err)
		}
		os.Exit(0)
	}()

	// Keep the menu score lines fresh.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			t.SetScore(session.Snapshot().Score)
			if best, err := st.Scores().Best(); err == nil {
				t.SetBest(best.Score)
			} else if !errors.Is(err, store.ErrNotFound) {
				log.Printf("Failed to read best score: %v", err)
			}
		}
	}()

	t.Run()
}

// openStore opens the database at the given path, defaulting to
// ~/.sarpa/sarpa.db.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		dir := filepath.Join(homeDir, ".sarpa")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "sarpa.db")
	}

	return store.New(path)
}
