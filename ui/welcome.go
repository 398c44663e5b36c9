package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eqlens/config"
)

type welcomeStep int

const (
	welcomeStepIntro welcomeStep = iota
	welcomeStepBackendURL
	welcomeStepDataDir
	welcomeStepDone
)

// WelcomeModel is the first-run wizard. It collects the backend URL and
// data directory and writes the initial settings.toml / config.toml.
type WelcomeModel struct {
	step     welcomeStep
	urlInput textinput.Model
	dirInput textinput.Model
	errMsg   string
	complete bool
	width    int
	height   int
}

func NewWelcomeModel() WelcomeModel {
	urlInput := textinput.New()
	urlInput.Placeholder = config.DefaultBackendURL
	urlInput.Prompt = "> "
	urlInput.CharLimit = 256
	urlInput.Focus()

	dirInput := textinput.New()
	dirInput.Placeholder = "~/.local/share/eqlens"
	dirInput.Prompt = "> "
	dirInput.CharLimit = 256

	return WelcomeModel{
		step:     welcomeStepIntro,
		urlInput: urlInput,
		dirInput: dirInput,
	}
}

func (m WelcomeModel) IsComplete() bool {
	return m.complete
}

func (m WelcomeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m WelcomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			switch m.step {
			case welcomeStepIntro:
				m.step = welcomeStepBackendURL
				return m, nil

			case welcomeStepBackendURL:
				m.step = welcomeStepDataDir
				m.dirInput.Focus()
				m.urlInput.Blur()
				return m, nil

			case welcomeStepDataDir:
				if err := m.writeConfigs(); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
				m.step = welcomeStepDone
				return m, nil

			case welcomeStepDone:
				m.complete = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch m.step {
	case welcomeStepBackendURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case welcomeStepDataDir:
		m.dirInput, cmd = m.dirInput.Update(msg)
	}
	return m, cmd
}

func (m WelcomeModel) writeConfigs() error {
	dataDir := strings.TrimSpace(m.dirInput.Value())
	if dataDir == "" {
		dataDir = "~/.local/share/eqlens"
	}

	systemCfg := &config.SystemConfig{DataDirectory: dataDir}
	if err := config.SaveSystemConfig(systemCfg); err != nil {
		return err
	}

	userCfg := config.DefaultUserConfig()
	if url := strings.TrimSpace(m.urlInput.Value()); url != "" {
		userCfg.Backend.URL = url
	}
	return config.SaveUserConfig(userCfg, config.ExpandPath(dataDir))
}

func (m WelcomeModel) View() string {
	if m.width == 0 {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor).
		Render("Welcome to EQLens")

	var body string
	switch m.step {
	case welcomeStepIntro:
		body = "EQLens turns a photo of a math problem into a LaTeX\n" +
			"equation and a step-by-step solution, using a tutoring\n" +
			"backend you point it at.\n\n" +
			DimStyle.Render("Press Enter to set things up.")

	case welcomeStepBackendURL:
		body = "Backend base URL (Enter keeps the default):\n\n" + m.urlInput.View()

	case welcomeStepDataDir:
		body = "Data directory for sessions and history\n(Enter keeps the default):\n\n" + m.dirInput.View()

	case welcomeStepDone:
		body = "All set. Configuration written to\n" +
			config.GetSettingsFilePath() + "\n\n" +
			DimStyle.Render("Press Enter to start EQLens.")
	}

	if m.errMsg != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(dangerColor).Render(m.errMsg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body)

	boxed := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 3).
		Width(58).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxed)
}
