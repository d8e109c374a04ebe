package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/bitplane/pkg/pipeline"
	"github.com/Beastly713/bitplane/pkg/quality"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

const browseHelp = "Navigate: ↑/↓ | Enter: Open Dir | x: Extract | e: Embed | q: Quit"

var imageExts = map[string]bool{
	".png": true, ".bmp": true, ".tif": true, ".tiff": true,
	".gif": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

var interactiveLSB int

type fileItem struct {
	path  string
	name  string
	isDir bool
}

type model struct {
	path      string
	files     []fileItem
	cursor    int
	lsbCount  int
	status    string
	failed    bool
	composing bool            // typing a message to embed
	textInput textinput.Model // message to embed
	quitting  bool
}

func initialModel(lsbCount int) model {
	cwd, _ := os.Getwd()

	ti := textinput.New()
	ti.Placeholder = "message to hide"
	ti.CharLimit = 4096
	ti.Width = 50

	m := model{
		path:      cwd,
		lsbCount:  lsbCount,
		status:    browseHelp,
		textInput: ti,
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	// Parent directory is always listed so there is a way back out.
	m.files = []fileItem{{name: "..", isDir: true, path: filepath.Dir(m.path)}}
	m.cursor = 0

	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.status = "Error reading directory"
		m.failed = true
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || imageExts[strings.ToLower(filepath.Ext(name))] {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.composing {
			return m.updateComposing(msg)
		}
		if len(m.files) == 0 {
			if s := msg.String(); s == "ctrl+c" || s == "q" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}

		case "enter":
			selected := m.files[m.cursor]
			if selected.isDir {
				m.path = selected.path
				m.loadFiles()
			}

		case "x":
			if selected := m.files[m.cursor]; !selected.isDir {
				return m, extractFile(selected.path, m.lsbCount)
			}

		case "e":
			if !m.files[m.cursor].isDir {
				m.composing = true
				m.failed = false
				m.textInput.SetValue("")
				m.status = "Enter: Embed | Esc: Cancel"
				cmd := m.textInput.Focus()
				return m, cmd
			}
		}

	case resultMsg:
		m.status = msg.text
		m.failed = msg.failed
		if !msg.failed {
			// Pick up a freshly written stego file.
			cursor := m.cursor
			m.loadFiles()
			if cursor < len(m.files) {
				m.cursor = cursor
			}
		}
	}

	return m, nil
}

func (m model) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.composing = false
		m.textInput.Blur()
		m.status = browseHelp
		return m, nil

	case "enter":
		m.composing = false
		m.textInput.Blur()
		return m, embedFile(m.files[m.cursor].path, m.textInput.Value(), m.lsbCount)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

type resultMsg struct {
	text   string
	failed bool
}

func extractFile(path string, lsbCount int) tea.Cmd {
	return func() tea.Msg {
		message, err := pipeline.ExtractPipeline(path, lsbCount)
		if err != nil {
			return resultMsg{text: fmt.Sprintf("Error: %v", err), failed: true}
		}
		return resultMsg{text: fmt.Sprintf("Extracted Message: %s", message)}
	}
}

// stegoPath names the output written next to the carrier: cover.jpg -> cover_stego.png
func stegoPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_stego.png"
}

func embedFile(path, message string, lsbCount int) tea.Cmd {
	return func() tea.Msg {
		out := stegoPath(path)
		report, err := pipeline.EmbedPipeline(pipeline.EmbedConfig{
			InputPath:  path,
			OutputPath: out,
			Message:    message,
			LSBCount:   lsbCount,
		})
		if err != nil {
			return resultMsg{text: fmt.Sprintf("Error: %v", err), failed: true}
		}
		return resultMsg{text: fmt.Sprintf("Embedding complete. Wrote %s (PSNR: %s dB)",
			filepath.Base(out), quality.FormatPSNR(report.PSNR))}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	s := fmt.Sprintf("Directory: %s  (lsb_count: %d)\n\n", m.path, m.lsbCount)

	for i, file := range m.files {
		if m.cursor == i {
			s += cursorStyle.Render(">")
		} else {
			s += " "
		}

		line := ""
		if file.isDir {
			line = fmt.Sprintf("[DIR] %s", file.name)
		} else {
			line = file.name
		}
		if m.cursor == i {
			line = focusedStyle.Render(line)
		}

		s += " " + line + "\n"
	}

	if m.composing {
		s += "\n" + m.textInput.View() + "\n"
	}

	status := resultStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	s += fmt.Sprintf("\n%s\n", status)
	return docStyle.Render(s)
}

// Cobra command setup
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive terminal UI for embedding and extracting",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(initialModel(interactiveLSB))
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().IntVar(&interactiveLSB, "lsb", 1, "lsb_count used for embed and extract")
}
