package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"eqlens/backend"
	"eqlens/config"
	"eqlens/model"
	"eqlens/storage"
	"eqlens/ui"
)

const Version = "v0.1.0"

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, both must be set:\n"+
			"  • EQLENS_BACKEND_URL\n"+
			"  • EQLENS_DATA_DIR\n\n"+
			"Set the missing variable before launching eqlens.",
			missingVar)

		runErrorModal("Configuration Error", errorMsg)
		os.Exit(0)
	}

	settingsPath := config.GetSettingsFilePath()
	isFirstRun := !config.FileExists(settingsPath)

	// Skip welcome wizard if env vars configure everything
	if config.HasAllEnvVars() {
		isFirstRun = false
	}

	if isFirstRun {
		welcomeModel := ui.NewWelcomeModel()
		p := tea.NewProgram(
			welcomeModel,
			tea.WithAltScreen(),
		)

		finalModel, err := p.Run()
		if err != nil {
			fmt.Printf("Error running welcome wizard: %v\n", err)
			os.Exit(1)
		}

		if wm, ok := finalModel.(ui.WelcomeModel); ok && !wm.IsComplete() {
			os.Exit(0)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	client, err := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	if err != nil {
		runErrorModal("Backend Configuration Error", err.Error())
		os.Exit(1)
	}

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		// Run without persistence rather than refusing to start
		if config.DebugLog != nil {
			config.DebugLog.Printf("[main] Session storage init failed: %v (persistence disabled)", err)
		}
		sessionStorage = nil
	}

	history, err := storage.NewHistoryStore(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[main] History store init failed: %v (history disabled)", err)
		}
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	// Resume the most recent session if one exists
	var lastSession *storage.Session
	if sessionStorage != nil {
		if list, err := sessionStorage.List(); err == nil && len(list) > 0 {
			lastSession, _ = sessionStorage.Load(list[0].ID)
		}
	}

	dataModel := model.NewModel(cfg, client, sessionStorage, history, lastSession, Version)
	appView := ui.NewAppView(dataModel)

	p := tea.NewProgram(
		appView,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runErrorModal(title, message string) {
	errorModal := ui.NewErrorModal(title, message)
	p := tea.NewProgram(
		errorModal,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
