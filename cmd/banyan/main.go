package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/banyan/internal/app"
	"github.com/ayusman/banyan/internal/config"
	"github.com/ayusman/banyan/internal/phase"
	"github.com/ayusman/banyan/internal/scene"
	"github.com/ayusman/banyan/internal/server"
	"github.com/ayusman/banyan/internal/session"
	"github.com/ayusman/banyan/internal/store"
	"github.com/ayusman/banyan/internal/tray"
)

var (
	flagConfig string
	flagAddr   string
	flagCamera int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "banyan",
		Short: "Gesture-driven particle sculpture daemon",
		Long: `Banyan tracks the user's hands through a webcam and publishes the
control signals that drive a 3D particle tree sculpture: spread it into a
nebula with an open palm, gather it with a fist, focus a photo with a pinch.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	rootCmd.Flags().IntVar(&flagCamera, "camera", -1, "camera device ID (overrides config)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.ListenAddr = flagAddr
	}
	if flagCamera >= 0 {
		cfg.CameraID = flagCamera
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".banyan")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(filepath.Join(dataDir, "banyan.db"))
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	layout, err := loadOrGenerateLayout(st, cfg)
	if err != nil {
		return err
	}
	log.Printf("Scene %q: %d entities (seed %d)", layout.Name, len(layout.Entities), layout.Seed)

	a := app.New(app.Config{
		Store:        st,
		Layout:       layout,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThreshold,
		Session: session.Config{
			ControlHand: cfg.ControlHand,
			Phase:       cfg.PhaseConfig(),
		},
	})

	srv := server.New(server.Config{
		StaticDir:  cfg.StaticDir,
		Store:      st,
		Camera:     a.Camera(),
		Controller: a,
	})

	go func() {
		log.Printf("Serving on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Printf("Camera unavailable (%v), tracking disabled", err)
	}

	tr := tray.New()
	tr.OnToggle(func(enabled bool) {
		if err := a.SetCameraEnabled(enabled); err != nil {
			log.Printf("Camera toggle failed: %v", err)
		}
	})
	tr.OnSettings(func() {
		log.Printf("Viewer: http://localhost%s/", cfg.ListenAddr)
	})
	tr.OnQuit(func() {
		a.Stop()
		a.CloseDetector()
	})
	a.OnTransition(func(from, to phase.Phase) {
		tr.SetPhase(to.String())
	})

	tr.Run()
	return nil
}

// loadOrGenerateLayout restores the most recent layout, or generates and
// persists a fresh one on first run.
func loadOrGenerateLayout(st *store.Store, cfg *config.Config) (*scene.Layout, error) {
	layout, err := st.Layouts().Latest()
	if err == nil {
		return layout, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load layout: %w", err)
	}

	seed := cfg.LayoutSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	layout = scene.Generate("default", cfg.EntityCount, seed)
	if err := st.Layouts().Save(layout); err != nil {
		return nil, fmt.Errorf("save layout: %w", err)
	}
	return layout, nil
}
