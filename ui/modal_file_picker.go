package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"

	"eqlens/config"
)

type FilePickerConfig struct {
	Title          string
	AllowedTypes   []string
	StartDirectory string
	ShowHidden     bool
}

type FilePickerState struct {
	Active bool
	Picker filepicker.Model
	Config FilePickerConfig
}

func NewFilePickerState(cfg FilePickerConfig) FilePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = cfg.AllowedTypes
	fp.Height = 10
	fp.DirAllowed = true
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = cfg.ShowHidden

	startDir := cfg.StartDirectory
	if startDir == "" {
		startDir = config.GetHomeDir()
	}
	fp.CurrentDirectory = startDir

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return FilePickerState{
		Active: false,
		Picker: fp,
		Config: cfg,
	}
}

func (fps *FilePickerState) Activate() {
	fps.Active = true
	fps.Picker.Path = ""
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
	fps.Picker.Path = ""
}

func RenderFilePickerModal(state FilePickerState, width, height int) string {
	// Guard clause: prevent rendering in tiny terminals
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth < 10 {
		modalWidth = 10
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(state.Config.Title)

	pickerSection := lipgloss.NewStyle().
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("\n" + state.Picker.View())

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Cancel"))

	sections := []string{titleSection, pickerSection, footerSection}
	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
