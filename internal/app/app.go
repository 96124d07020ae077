package app

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/umututku03/scriptorium-edit/internal/api"
	"github.com/umututku03/scriptorium-edit/internal/auth"
	"github.com/umututku03/scriptorium-edit/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	ServerURL  string
	PostID     int
	TokenFile  string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

// Run bootstraps and executes the Bubble Tea program. A missing credential is
// not fatal here: the screen renders the login error instead.
func Run(cfg Config) error {
	token, err := auth.Resolve(cfg.TokenFile, os.Environ())
	if err != nil && !errors.Is(err, auth.ErrNoToken) {
		return fmt.Errorf("resolve credential: %w", err)
	}
	hasToken := err == nil
	client := api.NewClient(cfg.ServerURL, token)
	model := ui.NewModel(client, cfg.PostID, hasToken, cfg.Width, cfg.Height, cfg.ShowFooter)
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return err
	}
	// The terminal stand-in for client-side navigation: print the view page
	// the browser would have been sent to.
	if finished, ok := final.(*ui.Model); ok {
		if cfg.Verbose && finished.Saved() {
			fmt.Printf("Updated blog post %d.\n", cfg.PostID)
		}
		if url := finished.ExitURL(); url != "" {
			fmt.Println(url)
		}
	}
	return nil
}
