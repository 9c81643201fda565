package demo

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
)

// GenerateOptions configures HTML generation
type GenerateOptions struct {
	Title string
	// Scale shrinks the viewport drawing; 0.5 draws a 1000px viewport 500px wide.
	Scale    float64
	AutoPlay bool
	Loop     bool
}

// DefaultOptions returns sensible defaults
func DefaultOptions() GenerateOptions {
	return GenerateOptions{
		Title:    "FanChat window replay",
		Scale:    0.5,
		AutoPlay: true,
		Loop:     true,
	}
}

// Generate creates a self-contained HTML page animating the replayed frames.
func Generate(script *Script, frames []Frame, options GenerateOptions) (string, error) {
	title := options.Title
	if script.Title != "" {
		title = script.Title
	}
	scale := options.Scale
	if scale <= 0 {
		scale = 1
	}

	type jsFrame struct {
		At       int64   `json:"at"`
		VW       float64 `json:"vw"`
		VH       float64 `json:"vh"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		W        float64 `json:"w"`
		H        float64 `json:"h"`
		Dragging bool    `json:"dragging"`
		Resizing bool    `json:"resizing"`
	}
	js := make([]jsFrame, len(frames))
	for i, f := range frames {
		js[i] = jsFrame{
			At: f.At.Milliseconds(),
			VW: f.Viewport.Width, VH: f.Viewport.Height,
			X: f.Position.X, Y: f.Position.Y,
			W: f.Size.Width, H: f.Size.Height,
			Dragging: f.Dragging, Resizing: f.Resizing,
		}
	}
	data, err := json.Marshal(js)
	if err != nil {
		return "", fmt.Errorf("failed to encode frames: %w", err)
	}

	return fmt.Sprintf(htmlTemplate, html.EscapeString(title), html.EscapeString(title),
		string(data), scale, options.AutoPlay, options.Loop), nil
}

// SaveHTML saves generated HTML to a file
func SaveHTML(page, path string) error {
	return os.WriteFile(path, []byte(page), 0644)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    :root {
      --bg: #0f172a;
      --panel: #1e293b;
      --text: #cbd5e1;
      --accent: #f5c518;
    }
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      background: var(--bg);
      color: var(--text);
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      display: flex;
      flex-direction: column;
      align-items: center;
      justify-content: center;
      gap: 1rem;
      padding: 2rem;
    }
    #viewport {
      position: relative;
      border: 1px dashed #475569;
      overflow: hidden;
      transition: width 120ms, height 120ms;
    }
    #window {
      position: absolute;
      background: var(--panel);
      border: 2px solid var(--accent);
      border-radius: 8px;
      transition: left 60ms linear, top 60ms linear, width 60ms linear, height 60ms linear;
    }
    #window.dragging { cursor: grabbing; box-shadow: 0 0 0 3px rgba(245, 197, 24, 0.35); }
    #window.resizing { cursor: nwse-resize; box-shadow: 0 0 0 3px rgba(34, 211, 238, 0.35); }
    #window .header { height: 18px; background: var(--accent); }
    #status { font-family: 'SF Mono', Menlo, monospace; font-size: 0.8rem; }
  </style>
</head>
<body>
  <h1>%s</h1>
  <div id="viewport"><div id="window"><div class="header"></div></div></div>
  <div id="status"></div>

  <script>
    const frames = %s;
    const scale = %g;
    const autoPlay = %t;
    const loop = %t;

    const vp = document.getElementById('viewport');
    const win = document.getElementById('window');
    const status = document.getElementById('status');

    function show(f) {
      vp.style.width = (f.vw * scale) + 'px';
      vp.style.height = (f.vh * scale) + 'px';
      win.style.left = (f.x * scale) + 'px';
      win.style.top = (f.y * scale) + 'px';
      win.style.width = (f.w * scale) + 'px';
      win.style.height = (f.h * scale) + 'px';
      win.classList.toggle('dragging', f.dragging);
      win.classList.toggle('resizing', f.resizing);
      status.textContent = 'pos ' + f.x + ',' + f.y + ' · size ' + f.w + '×' + f.h +
        ' · viewport ' + f.vw + '×' + f.vh;
    }

    async function play() {
      let last = 0;
      for (const f of frames) {
        await new Promise(r => setTimeout(r, Math.max(0, f.at - last)));
        last = f.at;
        show(f);
      }
      if (loop) setTimeout(play, 1500);
    }

    if (frames.length > 0) show(frames[0]);
    if (autoPlay) window.addEventListener('load', play);
  </script>
</body>
</html>
`
