package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sheetkit/internal/gesture"
	"github.com/ensigniasec/sheetkit/internal/sheet"
)

// termHost is the terminal surface the sheet is presented on. Its usable
// height is the window minus the footer.
type termHost struct {
	usable  float64
	mounted bool
	log     *logrus.Entry
}

func (h *termHost) UsableHeight() float64 { return h.usable }

func (h *termHost) Mount(p *sheet.Presentation) {
	h.mounted = true
	h.log.WithField("session", p.ID().String()).Debug("sheet mounted on terminal")
}

func (h *termHost) Unmount(p *sheet.Presentation) {
	h.mounted = false
	h.log.WithField("session", p.ID().String()).Debug("sheet unmounted from terminal")
}

// eventLog records observer callbacks for display on the host page.
type eventLog struct {
	now     func() time.Time
	entries []string
}

func (l *eventLog) OnStateChange(e sheet.Event) { l.add("state change: " + e.String()) }
func (l *eventLog) OnOpening()                  { l.add("opening") }
func (l *eventLog) OnClosing()                  { l.add("closing") }

func (l *eventLog) add(s string) {
	l.entries = append(l.entries, fmt.Sprintf("%s  %s", l.now().Format("15:04:05.000"), s))
	if len(l.entries) > eventLogMax {
		l.entries = l.entries[len(l.entries)-eventLogMax:]
	}
}

// listView adapts the shared list model to sheet.View.
type listView struct{ l *list.Model }

func (v listView) View() string { return v.l.View() }

// noteView is a one-row content piece added at runtime.
type noteView string

func (v noteView) View() string { return string(v) }

// Model is the root Bubble Tea model.
type Model struct {
	pres     *sheet.Presentation
	host     *termHost
	rows     *list.Model
	notes    int
	progress progress.Model
	help     help.Model
	keys     keyMap
	mouse    *gesture.Handler
	events   *eventLog
	log      *logrus.Entry

	autoPresent bool
	configured  bool
	ticking     bool
	quitting    bool
	width       int
	height      int
}

// NewModel binds pres to a terminal host and stacks rows into the sheet as
// a list. The presentation is configured on the first window size message.
func NewModel(pres *sheet.Presentation, rows []string, log *logrus.Entry) (Model, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	items := make([]list.Item, 0, len(rows))
	for i, r := range rows {
		items = append(items, rowItem{Index: i, Label: r})
	}
	lst := list.New(items, rowDelegate{}, 0, len(rows))
	lst.SetShowTitle(false)
	lst.SetShowStatusBar(false)
	lst.SetShowPagination(false)
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)

	m := Model{
		pres:     pres,
		host:     &termHost{log: log},
		rows:     &lst,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     newKeyMap(),
		mouse:    gesture.NewHandler(),
		events:   &eventLog{now: pres.Timeline().Clock().Now},
		log:      log,
	}
	m.mouse.SetDraggable(regionSheet, regionHeader, regionRows)
	if err := m.addRows(); err != nil {
		return Model{}, err
	}
	pres.Subscribe(m.events)
	return m, nil
}

// addRows stacks the row list into the sheet, unless it is empty.
func (m Model) addRows() error {
	n := len(m.rows.Items())
	if n == 0 {
		return nil
	}
	_, err := m.pres.AddMeasuredContent(listView{l: m.rows}, float64(n))
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// tick schedules the next animation frame.
func (m Model) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}
