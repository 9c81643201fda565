package fanchat

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/fanchat/fanchat/pkg/demo"
	"github.com/fanchat/fanchat/pkg/logger"
	"github.com/fanchat/fanchat/pkg/ui"
	"github.com/fanchat/fanchat/pkg/window"
)

func handlePreviewCommand(args []string) error {
	previewCmd := flag.NewFlagSet("preview", flag.ExitOnError)
	configPath := previewCmd.String("config", "", "Path to config.yaml")
	touch := previewCmd.Bool("touch", false, "Use mobile placement")
	record := previewCmd.String("record", "", "Save the session as a replay script")

	if err := previewCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// The preview owns the screen.
	logger.SetOutput(io.Discard, slog.LevelError, logger.GetFormat())

	var recorder *demo.Recorder
	if *record != "" {
		recorder = demo.NewRecorder(nil)
	}

	err = ui.RunPreview(window.Config{
		Placement:        cfg.Layout.Placement,
		Touch:            *touch,
		ThrottleInterval: cfg.Layout.Throttle,
		Logger:           logger.GetLogger(),
	}, recorder)
	if err != nil {
		return err
	}

	if recorder != nil {
		script := recorder.ToScript("FanChat preview", *touch)
		if !script.Viewport.Measured() {
			return fmt.Errorf("nothing recorded")
		}
		if err := demo.SaveScript(script, *record); err != nil {
			return err
		}
		fmt.Printf("Recorded %d events to %s\n", len(script.Events), *record)
	}
	return nil
}
