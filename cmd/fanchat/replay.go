package fanchat

import (
	"flag"
	"fmt"

	"github.com/fanchat/fanchat/pkg/demo"
	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/logger"
	"github.com/fanchat/fanchat/pkg/ui"
	"github.com/fanchat/fanchat/pkg/window"
)

func handleReplayCommand(args []string) error {
	replayCmd := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := replayCmd.String("config", "", "Path to config.yaml")
	htmlOut := replayCmd.String("html", "", "Write an animated HTML page to this file")
	scale := replayCmd.Float64("scale", demo.DefaultOptions().Scale, "Drawing scale of the HTML page")

	if err := replayCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if replayCmd.NArg() != 1 {
		fmt.Println("usage: fanchat replay [--html out.html] [--scale 0.5] script.yaml")
		return fmt.Errorf("replay needs exactly one script")
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	script, err := demo.LoadScript(replayCmd.Arg(0))
	if err != nil {
		return err
	}

	frames := demo.Replay(script, window.Config{
		Placement:        cfg.Layout.Placement,
		ThrottleInterval: cfg.Layout.Throttle,
		Logger:           logger.With("replay"),
	})

	if *htmlOut != "" {
		opts := demo.DefaultOptions()
		opts.Scale = *scale
		page, err := demo.Generate(script, frames, opts)
		if err != nil {
			return err
		}
		if err := demo.SaveHTML(page, *htmlOut); err != nil {
			return fmt.Errorf("failed to write %s: %w", *htmlOut, err)
		}
		fmt.Println(ui.RenderKeyValue("Saved", *htmlOut))
		return nil
	}

	last := frames[len(frames)-1]
	device := cfg.Layout.Placement.Classify(last.Viewport, script.Touch).String()
	fmt.Printf("%d events replayed over %v\n", len(script.Events), last.At)
	fmt.Print(ui.RenderLayout(last.Viewport, geometry.Layout{Position: last.Position, Size: last.Size}, device, ui.TerminalWidth()))
	return nil
}
