package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sheetkit/internal/sheet"
)

// Options configures the demo program.
type Options struct {
	Sheet sheet.Config
	// Rows become the list shown inside the sheet.
	Rows []string
	// LogOutput receives logs while the TUI runs. Nil discards them.
	LogOutput io.Writer
	// AutoPresent presents the sheet as soon as the terminal size is known.
	AutoPresent bool
}

// Run starts the Bubble Tea program hosting one sheet session.
func Run(ctx context.Context, opts Options) error {
	log := logrus.WithField("component", "tui")
	pres, err := sheet.New(opts.Sheet, sheet.WithLogger(logrus.WithField("component", "sheet")))
	if err != nil {
		return err
	}
	model, err := NewModel(pres, opts.Rows, log)
	if err != nil {
		return err
	}
	model.autoPresent = opts.AutoPresent

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Silence logs during TUI to avoid corrupting the view, unless redirected.
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(out)
	defer logrus.SetOutput(prevOut)

	_, err = p.Run()
	pres.Detach()
	return err
}
