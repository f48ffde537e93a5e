package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midirig/debug"
	"midirig/midi"
	"midirig/router"
	"midirig/theme"
)

// EngineEvent is one engine fact forwarded to the monitor. Exactly one
// field is set.
type EngineEvent struct {
	Channel *router.ChannelEvent
	Preset  *router.PresetSelected
	Param   *router.ParameterChanged
	Learn   *router.LearnCaptured
}

// Monitor is the UI-side adapter between engine callbacks and the tea
// program. Engine listeners push into its buffered channel; pushes never
// block the dispatch path (a full buffer drops the projection, never the
// routing).
type Monitor struct {
	events chan EngineEvent
}

func NewMonitor() *Monitor {
	return &Monitor{events: make(chan EngineEvent, 64)}
}

func (m *Monitor) Push(e EngineEvent) {
	select {
	case m.events <- e:
	default:
	}
}

func (m *Monitor) Events() <-chan EngineEvent {
	return m.events
}

type channelActivity struct {
	last  router.ChannelEvent
	count int
}

type Model struct {
	Router    *router.Router
	DeviceMgr *midi.DeviceManager
	Monitor   *Monitor
	Theme     *theme.Theme

	sources    []string
	activity   map[int]*channelActivity
	lastPreset string
	lastParam  string
	lastLearn  string
	quitting   bool

	// called on "s" to persist the current mappings
	SaveFunc func() error
	saveNote string
	saveOK   bool

	// called on "1".."9" to switch presets without a hardware trigger
	PresetFunc func(index int)
}

type EngineEventMsg EngineEvent

type SourceEventMsg midi.SourceEvent

func NewModel(r *router.Router, dm *midi.DeviceManager, mon *Monitor, th *theme.Theme) Model {
	return Model{
		Router:    r,
		DeviceMgr: dm,
		Monitor:   mon,
		Theme:     th,
		activity:  make(map[int]*channelActivity),
	}
}

func ListenForEngine(mon *Monitor) tea.Cmd {
	return func() tea.Msg {
		return EngineEventMsg(<-mon.Events())
	}
}

func ListenForSources(dm *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		return SourceEventMsg(<-dm.Events())
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForEngine(m.Monitor),
		ListenForSources(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "n":
			m.Router.BeginLearn(router.LearnTarget{Kind: router.LearnNote})
		case "c":
			m.Router.BeginLearn(router.LearnTarget{Kind: router.LearnCC})
		case "t":
			m.Router.BeginLearn(router.LearnTarget{Kind: router.LearnTrigger})
		case "esc":
			m.Router.CancelLearn()

		case "r":
			m.Router.ReleaseAllActiveNotes()

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if m.PresetFunc != nil {
				n, _ := strconv.Atoi(msg.String())
				m.PresetFunc(n)
			}

		case "s":
			if m.SaveFunc != nil {
				if err := m.SaveFunc(); err != nil {
					m.saveNote, m.saveOK = "save failed: "+err.Error(), false
				} else {
					m.saveNote, m.saveOK = "saved", true
				}
			}
		}

	case EngineEventMsg:
		m.apply(EngineEvent(msg))
		return m, ListenForEngine(m.Monitor)

	case SourceEventMsg:
		m.sources = m.DeviceMgr.Sources()
		return m, ListenForSources(m.DeviceMgr)
	}

	return m, nil
}

func (m *Model) apply(e EngineEvent) {
	switch {
	case e.Channel != nil:
		a := m.activity[e.Channel.Channel]
		if a == nil {
			a = &channelActivity{}
			m.activity[e.Channel.Channel] = a
		}
		a.last = *e.Channel
		a.count++
	case e.Preset != nil:
		m.lastPreset = fmt.Sprintf("preset %d", e.Preset.Index)
	case e.Param != nil:
		m.lastParam = fmt.Sprintf("target=%d value=%.2f", e.Param.Target.Kind, e.Param.Value)
	case e.Learn != nil:
		m.lastLearn = fmt.Sprintf("%s: %s", e.Learn.Kind, e.Learn.Message)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	learnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning()).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	successStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	scale := m.Router.Scale()
	header := headerStyle.Render(fmt.Sprintf("midirig  scale:%s %s", noteName(scale.Root), scale.Type))
	if target, ok := m.Router.Learning(); ok {
		header += "  " + learnStyle.Render(fmt.Sprintf("LEARN:%s", target.Kind))
	}
	if m.Router.Spillover() {
		header += dimStyle.Render("  spillover")
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	out.WriteString(dimStyle.Render("sources"))
	out.WriteString("\n")
	if len(m.sources) == 0 {
		out.WriteString(dimStyle.Render("  (none - plug in a controller)"))
		out.WriteString("\n")
	}
	for _, s := range m.sources {
		out.WriteString("  " + fgStyle.Render(s) + "\n")
	}
	out.WriteString("\n")

	out.WriteString(dimStyle.Render("channels"))
	out.WriteString("\n")
	for _, rt := range m.Router.Routes() {
		line := fmt.Sprintf("  %d ", rt.ID) + fgStyle.Render(fmt.Sprintf("%-10s", rt.Name))
		if a := m.activity[rt.ID]; a != nil {
			line += activeStyle.Render(fmt.Sprintf(" %s %s vel=%d", a.last.Kind, midi.NoteName(a.last.Note), a.last.Velocity))
			line += dimStyle.Render(fmt.Sprintf("  (%d events)", a.count))
		}
		if n := len(m.Router.ActiveNotes(rt.ID)); n > 0 {
			line += activeStyle.Render(fmt.Sprintf("  ♪%d", n))
		}
		out.WriteString(line + "\n")
	}
	out.WriteString("\n")

	if m.lastPreset != "" {
		out.WriteString(dimStyle.Render("last trigger: ") + m.lastPreset + "\n")
	}
	if m.lastParam != "" {
		out.WriteString(dimStyle.Render("last fader:   ") + m.lastParam + "\n")
	}
	if m.lastLearn != "" {
		out.WriteString(dimStyle.Render("last learn:   ") + m.lastLearn + "\n")
	}
	if m.saveNote != "" {
		style := learnStyle
		if m.saveOK {
			style = successStyle
		}
		out.WriteString(style.Render(m.saveNote) + "\n")
	}

	if trace := debug.Recent(6); len(trace) > 0 {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(strings.Join(trace, "\n")))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("n:note-learn c:cc-learn t:trigger-learn esc:cancel 1-9:preset r:release-all s:save q:quit"))
	return out.String()
}

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(pc int) string {
	return pitchNames[(pc%12+12)%12]
}
