package tui

type ApplicationState int

const (
	StateWelcome ApplicationState = iota
	StateSelectCompositor
	StateStepPrompts
	StateSelectResolution
	StateSelectTheme
	StatePasswordPrompt
	StateRunning
	StateComplete
	StateError
)
