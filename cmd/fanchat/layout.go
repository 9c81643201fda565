package fanchat

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/logger"
	"github.com/fanchat/fanchat/pkg/ui"
	"github.com/fanchat/fanchat/pkg/window"
)

func handleLayoutCommand(args []string) error {
	layoutCmd := flag.NewFlagSet("layout", flag.ExitOnError)
	configPath := layoutCmd.String("config", "", "Path to config.yaml")
	width := layoutCmd.Float64("width", 1280, "Viewport width in pixels")
	height := layoutCmd.Float64("height", 800, "Viewport height in pixels")
	touch := layoutCmd.Bool("touch", false, "Assume a touch-capable pointer")
	asJSON := layoutCmd.Bool("json", false, "Print the layout as JSON")

	if err := layoutCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	vp := geometry.Viewport{Width: *width, Height: *height}
	if !vp.Measured() {
		return fmt.Errorf("viewport must have a positive width and height, got %gx%g", vp.Width, vp.Height)
	}

	// The window applies the same clamping the widget does.
	w := window.New(window.Config{
		Placement: cfg.Layout.Placement,
		Touch:     *touch,
		Logger:    logger.With("window"),
	})
	w.SetViewport(vp)
	snap := w.Snapshot()
	layout := geometry.Layout{Position: snap.Position, Size: snap.Size}
	device := cfg.Layout.Placement.Classify(vp, *touch).String()

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"viewport": vp,
			"device":   device,
			"position": layout.Position,
			"size":     layout.Size,
		})
	}

	fmt.Print(ui.RenderLayout(vp, layout, device, ui.TerminalWidth()))
	return nil
}
