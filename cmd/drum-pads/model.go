package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-drums/drum"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	padStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	hitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("63")).Padding(0, 1)
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

type model struct {
	engine   *drum.Engine
	bank     *drum.Bank
	recorder *drum.Recorder
	player   *drum.Player

	loop       *drum.Loop
	hits       chan int
	cyclic     bool
	bpm        int
	metronome  *time.Ticker
	metroQuit  chan struct{}
	exportPath string

	lastPad  int
	lastHit  time.Time
	status   string
	quitting bool
}

// padHitMsg repaints after a loop-playback dispatch.
type padHitMsg int

// exportDoneMsg carries the async export result back into the TUI.
type exportDoneMsg drum.ExportResult

// fadeMsg clears the pad highlight shortly after a hit.
type fadeMsg struct{}

func newModel(engine *drum.Engine, bank *drum.Bank, bpm int, exportPath string) *model {
	return &model{
		engine:     engine,
		bank:       bank,
		recorder:   drum.NewRecorder(nil),
		player:     drum.NewPlayer(nil),
		bpm:        bpm,
		exportPath: exportPath,
		lastPad:    -1,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) trigger(pad int) tea.Cmd {
	m.engine.Trigger(pad)
	m.recorder.RecordEvent(pad)
	m.lastPad = pad
	m.lastHit = time.Now()
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg { return fadeMsg{} })
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case padHitMsg:
		m.lastPad = int(msg)
		m.lastHit = time.Now()
		return m, tea.Batch(
			tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg { return fadeMsg{} }),
			listenForHits(m.hits),
		)

	case fadeMsg:
		if time.Since(m.lastHit) >= 140*time.Millisecond {
			m.lastPad = -1
		}
		return m, nil

	case exportDoneMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("export failed: %v", msg.Err)
		} else {
			m.status = fmt.Sprintf("exported %s (%d frames)", msg.Path, msg.Frames)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.quitting = true
		m.player.Stop()
		m.engine.StopAll()
		m.stopMetronome()
		return m, tea.Quit

	case "1", "2", "3", "4", "5", "6", "7", "8":
		return m, m.trigger(int(key[0] - '1'))

	case "v":
		return m, m.trigger(drum.PadVocal)

	case "m":
		return m, m.trigger(drum.PadClick)

	case "r":
		if m.recorder.Recording() {
			m.loop = m.recorder.Stop()
			m.status = fmt.Sprintf("recorded %d events", len(m.loop.Events))
		} else {
			m.recorder.Start()
			m.status = "recording..."
		}

	case " ":
		return m, m.togglePlayback()

	case "l", "L":
		m.cyclic = !m.cyclic
		m.status = fmt.Sprintf("cyclic playback %v", m.cyclic)

	case "tab":
		packs := drum.Packs()
		m.engine.SetPack(packs[(int(m.engine.Pack())+1)%len(packs)])

	case "p":
		presets := drum.Presets()
		m.engine.SetPreset(presets[(int(m.engine.Preset())+1)%len(presets)])

	case "+", "=":
		m.engine.SetMasterGain(m.engine.MasterGain() + 0.1)

	case "-", "_":
		m.engine.SetMasterGain(m.engine.MasterGain() - 0.1)

	case "k":
		m.toggleMetronome()

	case "e":
		return m, m.export()
	}
	return m, nil
}

func (m *model) togglePlayback() tea.Cmd {
	if m.player.Playing() {
		m.player.Stop()
		m.status = "stopped"
		return nil
	}
	if m.loop.Empty() {
		m.status = "no loop recorded"
		return nil
	}
	m.hits = make(chan int, 64)
	hits := m.hits
	err := m.player.Play(m.loop, func(pad int) {
		m.engine.Trigger(pad)
		select {
		case hits <- pad:
		default:
		}
	}, m.cyclic)
	if err != nil {
		m.status = fmt.Sprintf("play: %v", err)
		return nil
	}
	m.status = "playing"
	return listenForHits(hits)
}

func listenForHits(hits chan int) tea.Cmd {
	return func() tea.Msg {
		pad, ok := <-hits
		if !ok {
			return nil
		}
		return padHitMsg(pad)
	}
}

func (m *model) export() tea.Cmd {
	if m.loop.Empty() {
		m.status = "no loop to export"
		return nil
	}
	done := make(chan drum.ExportResult, 1)
	err := drum.ExportLoop(m.loop, m.bank, m.engine.Pack(), m.engine.PadGains(), m.exportPath, 0, func(res drum.ExportResult) {
		done <- res
	})
	if err != nil {
		m.status = fmt.Sprintf("export: %v", err)
		return nil
	}
	m.status = "exporting..."
	return func() tea.Msg { return exportDoneMsg(<-done) }
}

// The metronome is a caller-side scheduler: it taps the click slot on
// the beat, it is not part of the core engine.
func (m *model) toggleMetronome() {
	if m.metronome != nil {
		m.stopMetronome()
		m.status = "metronome off"
		return
	}
	interval := time.Duration(float64(time.Minute) / float64(m.bpm))
	m.metronome = time.NewTicker(interval)
	m.metroQuit = make(chan struct{})
	go func(t *time.Ticker, quit chan struct{}) {
		for {
			select {
			case <-t.C:
				m.engine.Trigger(drum.PadClick)
			case <-quit:
				return
			}
		}
	}(m.metronome, m.metroQuit)
	m.status = fmt.Sprintf("metronome %d bpm", m.bpm)
}

func (m *model) stopMetronome() {
	if m.metronome == nil {
		return
	}
	m.metronome.Stop()
	close(m.metroQuit)
	m.metronome = nil
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render(fmt.Sprintf("algo-drums  pack:%s  preset:%s  gain:%.1f",
		m.engine.Pack(), m.engine.Preset(), m.engine.MasterGain()))

	row := ""
	for _, pad := range drum.Catalogue {
		label := fmt.Sprintf("%d %s", pad.ID+1, pad.Name)
		if pad.ID == m.lastPad {
			row += hitStyle.Render(label)
		} else {
			row += padStyle.Render(label)
		}
	}

	state := ""
	if m.recorder.Recording() {
		state = recStyle.Render(" REC")
	}
	if m.player.Playing() {
		state += " PLAY"
	}

	help := dimStyle.Render("1-8:pads v:vocal m:click r:record space:play l:cyclic tab:pack p:preset k:metronome e:export q:quit")

	return fmt.Sprintf("%s%s\n\n%s\n\n%s\n%s\n", header, state, row, m.status, help)
}
