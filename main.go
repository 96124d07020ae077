package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/umututku03/scriptorium-edit/internal/app"
	"github.com/umututku03/scriptorium-edit/internal/config"
	"github.com/umututku03/scriptorium-edit/internal/logging"
	"github.com/umututku03/scriptorium-edit/internal/logging/events"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	events.App.Start(startTrace(runtimeCfg))

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startTrace captures the launch context for the trace log: which post is
// being edited against which server, the raw invocation, and the terminal
// the session runs in.
func startTrace(cfg config.Config) map[string]interface{} {
	payload := map[string]interface{}{
		"server":   cfg.App.ServerURL,
		"post":     cfg.App.PostID,
		"argv":     cfg.Args,
		"flags":    cfg.Flags,
		"logFile":  cfg.Logging.FilePath,
		"trace":    cfg.Logging.Trace,
		"terminal": probeTerminal(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

// terminalReport describes the terminal the session runs in. Viewport holds
// the first usable geometry; Fds records every standard descriptor probed.
type terminalReport struct {
	Viewport *viewport                  `json:"viewport,omitempty"`
	Fds      map[string]descriptorProbe `json:"fds"`
}

type viewport struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type descriptorProbe struct {
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

// probeTerminal sizes up stdin, stdout and stderr. The UI sizes itself from
// WindowSizeMsg; this exists so trace logs from odd environments (pipes,
// multiplexers) explain themselves.
func probeTerminal() terminalReport {
	report := terminalReport{Fds: make(map[string]descriptorProbe, 3)}
	for _, std := range []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	} {
		fd := int(std.file.Fd())
		probe := descriptorProbe{Terminal: term.IsTerminal(fd)}
		if probe.Terminal {
			if width, height, err := term.GetSize(fd); err == nil {
				probe.Width = width
				probe.Height = height
				if report.Viewport == nil {
					report.Viewport = &viewport{Source: std.name, Width: width, Height: height}
				}
			} else {
				probe.Error = err.Error()
			}
		}
		report.Fds[std.name] = probe
	}
	return report
}
