package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/osinfo"
	"github.com/AvengeMedia/pikiosk/internal/steps"
)

type Model struct {
	version string
	state   ApplicationState
	styles  Styles

	spinner       spinner.Model
	passwordInput textinput.Model

	osInfo  *osinfo.OSInfo
	session *steps.Session
	plan    []steps.Step

	selectedCompositor int

	stepIdx   int
	promptErr string

	modes        []edid.Mode
	selectedMode int

	themes        []string
	selectedTheme int

	logChan      chan string
	progressChan chan steps.ProgressMsg

	logs       []string
	progress   steps.ProgressMsg
	validating bool

	err       error
	isLoading bool

	width  int
	height int
}

func NewModel(version string) Model {
	styles := NewStyles(RaspberryTheme())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	ti := textinput.New()
	ti.Placeholder = "Password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.CharLimit = 128
	ti.Width = 30

	return Model{
		version:       version,
		state:         StateWelcome,
		styles:        styles,
		spinner:       s,
		passwordInput: ti,
		plan:          steps.Plan(),
		logChan:       make(chan string, 100),
		progressChan:  make(chan steps.ProgressMsg, 100),
		isLoading:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.detectSystem(), m.listenForLogs())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case logMsg:
		m.logs = append(m.logs, msg.message)
		// Keep only the tail so long installs don't grow unbounded.
		if len(m.logs) > 50 {
			m.logs = m.logs[len(m.logs)-50:]
		}
		return m, m.listenForLogs()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcomeState(msg)
	case StateSelectCompositor:
		return m.updateSelectCompositorState(msg)
	case StateStepPrompts:
		return m.updateStepPromptsState(msg)
	case StateSelectResolution:
		return m.updateSelectResolutionState(msg)
	case StateSelectTheme:
		return m.updateSelectThemeState(msg)
	case StatePasswordPrompt:
		return m.updatePasswordPromptState(msg)
	case StateRunning:
		return m.updateRunningState(msg)
	case StateComplete:
		return m.updateCompleteState(msg)
	case StateError:
		return m.updateErrorState(msg)
	}

	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case StateWelcome:
		return m.viewWelcome()
	case StateSelectCompositor:
		return m.viewSelectCompositor()
	case StateStepPrompts:
		return m.viewStepPrompts()
	case StateSelectResolution:
		return m.viewSelectResolution()
	case StateSelectTheme:
		return m.viewSelectTheme()
	case StatePasswordPrompt:
		return m.viewPasswordPrompt()
	case StateRunning:
		return m.viewRunning()
	case StateComplete:
		return m.viewComplete()
	case StateError:
		return m.viewError()
	}
	return ""
}

func (m Model) listenForLogs() tea.Cmd {
	return func() tea.Msg {
		return logMsg{message: <-m.logChan}
	}
}

func (m Model) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.progressChan
		if !ok {
			return progressCompletedMsg{}
		}
		return stepProgressMsg(msg)
	}
}

func (m Model) detectSystem() tea.Cmd {
	return func() tea.Msg {
		info, err := osinfo.GetOSInfo()
		return osInfoCompleteMsg{info: info, err: err}
	}
}
