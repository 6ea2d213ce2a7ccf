package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// Terminal cells are mapped to layout pixels at a fixed scale; a cell is
// about twice as tall as it is wide.
const (
	cellWidthPx   = 8.0
	cellHeightPx  = 16.0
	frameInterval = 16 * time.Millisecond
	chromeLines   = 3
)

// groupPalette colours circles by group.
var groupPalette = []lipgloss.Color{colorCyan, colorGreen, colorYellow, colorRed, colorBlue, colorWhite}

var (
	watchStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	watchErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

type frameMsg struct{}

// convergedMsg reports the end of an AwaitConverge call.
type convergedMsg struct {
	gen      uint64
	finished bool
	err      error
}

// =============================================================================
// WatchModel - Interactive engine driver
// =============================================================================

// WatchModel is the bubbletea model for the watch command. Viewport changes
// go through a Coalescer and are applied once per frame.
type WatchModel struct {
	ctx       context.Context
	engine    *engine.Engine
	coalescer *engine.Coalescer

	// view is the newest requested viewport; it reaches the engine on the
	// next frame.
	view engine.Viewport
	// finish ends the running converge early when closed.
	finish chan struct{}

	Cols, Rows int
	Status     string
	Err        error
}

// NewWatchModel creates a watch model driving e.
func NewWatchModel(ctx context.Context, e *engine.Engine) WatchModel {
	v := e.Viewport()
	return WatchModel{
		ctx:       ctx,
		engine:    e,
		coalescer: engine.NewCoalescer(e),
		view:      v,
		Cols:      int(v.Width / cellWidthPx),
		Rows:      int(v.Height / cellHeightPx),
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m WatchModel) Init() tea.Cmd {
	return frame()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.Cols = msg.Width
		m.Rows = max(1, msg.Height-chromeLines)
		m.view.Width = float64(m.Cols) * cellWidthPx
		m.view.Height = float64(m.Rows) * cellHeightPx
		m.coalescer.Request(m.view)
	case frameMsg:
		if _, err := m.coalescer.Flush(); err != nil {
			m.Err = err
		}
		return m, frame()
	case convergedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.Err = msg.err
		}
		if msg.finished {
			m.Status = fmt.Sprintf("converge %d finished", msg.gen)
		}
		m.finish = nil
	}
	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	e := m.engine
	m.Err = nil

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "g":
		err = e.EnterGrouped()
	case "c":
		e.EnterClustered()
	case "v":
		gen, err := e.BeginConverge()
		if err != nil {
			m.Err = err
			return m, nil
		}
		m.finish = make(chan struct{})
		m.Status = fmt.Sprintf("converging (%d)", gen)
		return m, m.awaitConverge(gen, m.finish)
	case "f":
		if m.finish != nil {
			close(m.finish)
			m.finish = nil
		}
	case "r":
		err = e.Relayout()
	case "up", "k":
		m.scroll(-0.25)
	case "down", "j":
		m.scroll(0.25)
	case "+", "=":
		err = e.SetColumns(e.Snapshot().Columns + 1)
	case "-":
		if n := e.Snapshot().Columns; n > 1 {
			err = e.SetColumns(n - 1)
		}
	case "]":
		err = e.SetGroups(e.Snapshot().Groups + 1)
	case "[":
		if n := e.Snapshot().Groups; n > 1 {
			err = e.SetGroups(n - 1)
		}
	}
	if err != nil {
		m.Err = err
	}
	return m, nil
}

// scroll moves the viewport by a fraction of its height.
func (m *WatchModel) scroll(pages float64) {
	m.view.ScrollTop = max(0, m.view.ScrollTop+pages*m.view.Height)
	m.coalescer.Request(m.view)
}

func (m WatchModel) awaitConverge(gen uint64, finish <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		finished, err := m.engine.AwaitConverge(m.ctx, gen, finish, 0)
		return convergedMsg{gen: gen, finished: finished, err: err}
	}
}

func (m WatchModel) View() string {
	snap := m.engine.Snapshot()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(" ")
	b.WriteString(StyleHighlight.Render(snap.Mode.String()))
	b.WriteString(watchStatusStyle.Render(fmt.Sprintf("  %d circles · %d groups · %d columns · scroll %.0f · overlap %.2f",
		len(snap.Circles), snap.Groups, snap.Columns, snap.Viewport.ScrollTop, snap.Stats.MaxOverlap)))
	b.WriteString("\n")

	b.WriteString(rasterize(snap, m.Cols, m.Rows))

	switch {
	case m.Err != nil:
		b.WriteString(watchErrorStyle.Render(m.Err.Error()))
	case m.Status != "":
		b.WriteString(watchStatusStyle.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("g group  c cluster  v converge  f finish  ↑/↓ scroll  +/- columns  [/] groups  r relayout  q quit"))
	return b.String()
}

// rasterize draws the visible circles as a cols×rows character grid. Each
// cell whose centre lies inside a circle is filled with its group's colour.
func rasterize(snap engine.Snapshot, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	cells := make([]int, cols*rows)
	for i := range cells {
		cells[i] = -1
	}

	top := snap.Viewport.ScrollTop
	for _, c := range snap.Circles {
		if !c.Placed {
			continue
		}
		x0 := max(0, int((c.Center.X-c.R)/cellWidthPx))
		x1 := min(cols-1, int((c.Center.X+c.R)/cellWidthPx))
		y0 := max(0, int((c.Center.Y-c.R-top)/cellHeightPx))
		y1 := min(rows-1, int((c.Center.Y+c.R-top)/cellHeightPx))
		for y := y0; y <= y1; y++ {
			py := top + (float64(y)+0.5)*cellHeightPx
			for x := x0; x <= x1; x++ {
				px := (float64(x) + 0.5) * cellWidthPx
				dx, dy := px-c.Center.X, py-c.Center.Y
				if dx*dx+dy*dy <= c.R*c.R {
					cells[y*cols+x] = c.Group
				}
			}
		}
	}

	var b strings.Builder
	for y := range rows {
		line := cells[y*cols : (y+1)*cols]
		for x := 0; x < cols; {
			g := line[x]
			end := x
			for end < cols && line[end] == g {
				end++
			}
			run := end - x
			if g < 0 {
				b.WriteString(strings.Repeat(" ", run))
			} else {
				style := lipgloss.NewStyle().Foreground(groupPalette[g%len(groupPalette)])
				b.WriteString(style.Render(strings.Repeat("●", run)))
			}
			x = end
		}
		b.WriteString("\n")
	}
	return b.String()
}
