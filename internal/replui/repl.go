// Package replui implements an interactive Read-Eval-Print loop for
// Compiscript: it buffers multi-line input until brackets balance, runs
// the snippet through the full pipeline, and renders TAC or MIPS output
// with styled history, in the terminal-UI style of a Bubble Tea REPL.
package replui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"compiscript/internal/lexer"
	"compiscript/internal/parser"
	"compiscript/pkg/mips"
	"compiscript/pkg/semantic"
	"compiscript/pkg/tac"
)

const (
	prompt     = ">> "
	contPrompt = ".. "
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
)

// Show picks the rendering stage for each evaluated snippet: "tac" or
// "mips". Anything else defaults to "mips".
type Show string

const (
	ShowTAC  Show = "tac"
	ShowMIPS Show = "mips"
)

type historyEntry struct {
	input   string
	output  string
	isError bool
}

type model struct {
	textInput textinput.Model
	history   []historyEntry
	buffer    string
	multiline bool
	show      Show
}

// Start runs the REPL until the user quits (Ctrl+C, Ctrl+D, or Esc).
func Start(show Show) {
	p := tea.NewProgram(initialModel(show))
	if _, err := p.Run(); err != nil {
		fmt.Println("error running repl:", err)
	}
}

func initialModel(show Show) model {
	ti := textinput.New()
	ti.Placeholder = "let x: integer = 1;"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(prompt)
	return model{textInput: ti, show: show}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

// isBalanced reports whether every bracket/brace/paren in input is
// closed, the same heuristic a compiscript block needs before it's
// worth sending through the pipeline.
func isBalanced(input string) bool {
	var stack []rune
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	for _, r := range input {
		switch r {
		case '(', '{', '[':
			stack = append(stack, r)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" && m.multiline {
				snippet := m.buffer
				m.buffer, m.multiline = "", false
				m.textInput.SetValue("")
				m.history = append(m.history, m.eval(snippet))
				return m, nil
			}
			if input == "" {
				return m, nil
			}
			if m.multiline {
				m.buffer += "\n" + input
			} else {
				m.buffer = input
			}
			m.textInput.SetValue("")
			if isBalanced(m.buffer) {
				snippet := m.buffer
				m.buffer, m.multiline = "", false
				m.history = append(m.history, m.eval(snippet))
			} else {
				m.multiline = true
			}
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// eval runs one snippet through the full pipeline and captures either
// the requested stage's rendered output or all of the diagnostics.
func (m model) eval(src string) historyEntry {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return historyEntry{input: src, output: err.Error(), isError: true}
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		return historyEntry{input: src, output: err.Error(), isError: true}
	}
	an := semantic.New()
	an.Analyze(prog)
	if an.Diagnostics().Len() > 0 {
		return historyEntry{input: src, output: strings.Join(an.Diagnostics().Strings(), "\n"), isError: true}
	}
	gen := tac.New(an.Table())
	instrs, text := gen.Generate(prog)
	if m.show == ShowTAC {
		return historyEntry{input: src, output: text}
	}
	return historyEntry{input: src, output: mips.Generate(instrs)}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("compiscriptc repl") + "\n\n")
	for _, h := range m.history {
		b.WriteString(echoStyle.Render(prompt+h.input) + "\n")
		if h.isError {
			b.WriteString(errorStyle.Render(h.output) + "\n\n")
		} else {
			b.WriteString(resultStyle.Render(h.output) + "\n")
		}
	}
	if m.multiline {
		b.WriteString(contPrompt)
	}
	b.WriteString(m.textInput.View() + "\n")
	return b.String()
}
