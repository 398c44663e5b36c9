package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eqlens/config"
	appmodel "eqlens/model"
	"eqlens/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model

	// Window state
	width  int
	height int
	ready  bool

	// Active theme
	theme Theme

	// Loading spinner shown while a request is in flight
	loadingSpinner spinner.Model

	// Image picker modal
	imagePicker FilePickerState

	// History browser
	showHistory         bool
	historyList         []storage.SolveRecord
	filteredHistoryList []storage.SolveRecord
	selectedHistoryIdx  int
	historyFilterMode   bool
	historyFilterInput  textinput.Model

	// Help overlay
	showHelp bool

	// Acknowledge modal (validation failures, unexpected errors)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	// Transient status bar text (clipboard feedback etc.)
	flashStatus string

	// Message IDs with a typeset pass in flight; keeps renderNewMessages
	// from queuing the same message twice. Shared across value copies.
	pendingRenders map[string]struct{}
}

func NewAppView(dataModel *appmodel.Model) AppView {
	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	imagePicker := NewFilePickerState(FilePickerConfig{
		Title:          "Select Equation Image",
		AllowedTypes:   []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"},
		StartDirectory: "",
		ShowHidden:     false,
	})

	historyFilterInput := textinput.New()
	historyFilterInput.Prompt = "Filter: "
	historyFilterInput.CharLimit = 64

	theme := ThemeByName(dataModel.Config.Theme)
	ApplyTheme(theme)

	return AppView{
		dataModel:          dataModel,
		viewport:           vp,
		theme:              theme,
		loadingSpinner:     sp,
		imagePicker:        imagePicker,
		historyFilterInput: historyFilterInput,
		pendingRenders:     make(map[string]struct{}),
	}
}

func (a AppView) Init() tea.Cmd {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[AppView] Init: backend=%s theme=%s", a.dataModel.Config.BackendURL, a.theme.Name)
	}
	return nil
}

// toggleTheme flips dark/light, persisting the choice best-effort.
func (a *AppView) toggleTheme() {
	if a.theme.Name == DarkTheme.Name {
		a.theme = LightTheme
	} else {
		a.theme = DarkTheme
	}
	ApplyTheme(a.theme)
	a.dataModel.Config.Theme = a.theme.Name
	a.loadingSpinner.Style = lipgloss.NewStyle().Foreground(accentColor)

	userCfg, err := config.LoadUserConfig(a.dataModel.Config.DataDir())
	if err == nil {
		userCfg.UI.Theme = a.theme.Name
		err = config.SaveUserConfig(userCfg, a.dataModel.Config.DataDir())
	}
	if err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[AppView] Failed to persist theme: %v", err)
	}
}

// historyEntries returns the history list the browser should display.
func (a AppView) historyEntries() []storage.SolveRecord {
	if a.historyFilterMode || a.historyFilterInput.Value() != "" {
		return a.filteredHistoryList
	}
	return a.historyList
}
