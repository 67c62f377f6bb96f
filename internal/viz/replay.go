package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
)

const (
	historyCapacity = 4000
	frameRate       = 30
	canvasWidth     = 40
	canvasHeight    = 12
	maxStepsPerTick = 1024
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	activeParam = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay re-runs a simulation frame by frame. Changing a rate restarts
// the run from the initial state with the new value.
type Replay struct {
	sys          *models.SIRS
	initial      models.Params
	runner       *sim.Simulator
	x0           dynamo.State
	cfg          dynamo.Config
	traj         *sim.Trajectory
	history      []dynamo.Sample
	infected     []float64
	current      dynamo.Sample
	running      bool
	stepsPerTick int
	paramKeys    []string
	selected     int
	canvas       *Canvas
	err          error
}

func NewReplay(p models.Params, x0 dynamo.State, cfg dynamo.Config) (*Replay, error) {
	sys := models.NewSIRS(p)
	runner := sim.New(sys, integrators.NewEuler())

	traj, err := runner.Trajectory(x0, cfg)
	if err != nil {
		return nil, err
	}

	return &Replay{
		sys:          sys,
		initial:      p,
		runner:       runner,
		x0:           x0,
		cfg:          cfg,
		traj:         traj,
		history:      make([]dynamo.Sample, 0, 256),
		infected:     make([]float64, 0, 256),
		running:      true,
		stepsPerTick: max(1, cfg.EstimatedSteps()/(20*frameRate)),
		paramKeys:    dynamo.ParamNames(sys),
		canvas:       NewCanvas(canvasWidth, canvasHeight),
	}, nil
}

func (m *Replay) Init() tea.Cmd {
	return tick()
}

func (m *Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k", "+", "=":
			m.adjustParam(1.05)
		case "down", "j", "-", "_":
			m.adjustParam(0.95)
		case "[":
			m.stepsPerTick = max(1, m.stepsPerTick/2)
		case "]":
			m.stepsPerTick = min(maxStepsPerTick, m.stepsPerTick*2)
		case "t":
			SetTheme(NextTheme(CurrentTheme.Name))
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

// advance pulls up to n samples from the trajectory.
func (m *Replay) advance(n int) {
	for range n {
		s, ok := m.traj.Next()
		if !ok {
			m.err = m.traj.Err()
			return
		}
		m.current = s
		m.record(s)
	}
}

func (m *Replay) record(s dynamo.Sample) {
	m.history = append(m.history, s)
	m.infected = append(m.infected, s.I)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
		m.infected = m.infected[1:]
	}
}

func (m *Replay) restart() {
	traj, err := m.runner.Trajectory(m.x0, m.cfg)
	if err != nil {
		m.err = err
		return
	}
	m.traj = traj
	m.err = nil
	m.current = dynamo.Sample{}
	m.history = m.history[:0]
	m.infected = m.infected[:0]
}

func (m *Replay) adjustParam(factor float64) {
	if err := dynamo.ScaleParam(m.sys, m.paramKeys[m.selected], factor); err != nil {
		m.err = err
		return
	}
	m.restart()
}

// Params reports the rates currently driving the run.
func (m *Replay) Params() models.Params { return m.sys.Params() }

// Current is the latest sample shown.
func (m *Replay) Current() dynamo.Sample { return m.current }

func (m *Replay) Done() bool { return m.traj.Done() }

func (m *Replay) status() string {
	switch {
	case m.err != nil:
		return lipgloss.NewStyle().Foreground(CurrentTheme.Infected).Render("ERROR " + m.err.Error())
	case m.traj.Done():
		return StatusDone.Render("FINISHED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

func (m *Replay) View() string {
	m.canvas.Clear()
	m.canvas.DrawPhase(m.history)
	phase := lipgloss.NewStyle().Foreground(CurrentTheme.Infected).Render(m.canvas.String())
	left := canvasStyle.Render(Subtle.Render("phase (S, I)") + "\n" + phase)

	title := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Title)

	var s strings.Builder
	s.WriteString(title.Render("SIRS REPLAY") + "\n")
	s.WriteString(m.status() + "\n\n")
	if len(m.infected) > 1 {
		s.WriteString(PlotInfected(m.infected, 30, 5) + "\n\n")
	}

	x := m.current
	s.WriteString(row("Time", fmt.Sprintf("%.2f / %g", x.Time, m.cfg.Duration)) + "\n")
	s.WriteString(ProgressBar(x.Time/m.cfg.Duration, 30) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Susceptible).Render(fmt.Sprintf("S %.6f", x.S)) + "  ")
	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Infected).Render(fmt.Sprintf("I %.6f", x.I)) + "  ")
	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Recovered).Render(fmt.Sprintf("R %.6f", x.R)) + "\n")
	s.WriteString(row("Steps", fmt.Sprint(m.traj.Steps())) + "\n")
	s.WriteString(row("Speed", fmt.Sprintf("%d/frame", m.stepsPerTick)) + "\n")

	s.WriteString("\nRATES\n")
	params := m.sys.GetParams()
	initial := map[string]float64{"beta": m.initial.Beta, "delta": m.initial.Delta, "lambda": m.initial.Lambda}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-8s %.5f (%+.0f%%)", k, params[k], pctChange(initial[k], params[k]))
		if i == m.selected {
			s.WriteString(activeParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}

	s.WriteString(KeyHint.Render("\nSP:Pause R:Restart Q:Quit T:Theme\nTab:Rate ↑↓:Tune [ ]:Speed"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, statsStyle.Render(s.String()))
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
