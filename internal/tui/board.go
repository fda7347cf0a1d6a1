package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
)

type BoardOptions struct {
	Owner     engine.OwnerStrategy
	Weights   []engine.WeightedAttribute
	NextCount int
	// Now defaults to time.Now.
	Now func() time.Time
}

func RunBoard(ctx context.Context, svc *engine.Service, opts BoardOptions, out io.Writer) error {
	m := newBoardModel(ctx, svc, opts)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
