package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
	"github.com/verte-zerg/tuiquiz/internal/report"
)

func (m *Model) renderBody(width int) string {
	var lines []string
	switch m.screen {
	case screenConfig:
		lines = m.renderConfig(width)
	case screenQuestion:
		lines = m.renderQuestion(width)
	case screenFeedback:
		lines = m.renderFeedback(width)
	case screenSummary:
		return m.summaryView.View()
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(wrapText(m.errMsg, width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfig(width int) []string {
	lines := []string{
		titleStyle.Render("tuiquiz"),
		mutedStyle.Render(wrapText(fmt.Sprintf("%s · %d questions", filepath.Base(m.bankName), len(m.bank)), width)),
		"",
		"Mode: " + m.renderModes(),
		"",
	}
	switch m.mode {
	case model.ModeRecall:
		lines = append(lines, mutedStyle.Render(wrapText(m.recallNote(), width)))
	default:
		for _, idx := range m.visibleFields() {
			lines = append(lines, m.fields[idx].View())
		}
	}
	return lines
}

func (m *Model) renderModes() string {
	parts := make([]string, 0, len(modes))
	for _, mode := range modes {
		if mode == m.mode {
			parts = append(parts, activeModeStyle.Render(string(mode)))
		} else {
			parts = append(parts, inactiveModeStyle.Render(string(mode)))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) recallNote() string {
	switch {
	case m.hasLastRun:
		n := len(quiz.MemoryFromLog(m.lastWrong))
		return fmt.Sprintf("Retry the %d missed question(s) of the last quiz.", n)
	case m.history != nil:
		return fmt.Sprintf("Retry questions missed in the last %d stored session(s).", m.recallWindow())
	default:
		return "No quiz history available."
	}
}

func (m *Model) renderQuestion(width int) []string {
	item, err := m.session.Current()
	if err != nil {
		return nil
	}
	q := item.Question
	header := titleStyle.Render(fmt.Sprintf("Question %d/%d", m.session.Position()+1, m.session.Len())) +
		mutedStyle.Render(fmt.Sprintf("  #%d", item.OriginalIndex))
	lines := []string{header, "", wrapText(q.Text, width)}
	if q.Code != "" {
		lines = append(lines, codeStyle.Render(strings.TrimRight(q.Code, "\n")))
	}
	lines = append(lines, "")
	if q.FreeText {
		return append(lines, m.answer.View())
	}
	if q.Answer.IsMulti() {
		lines = append(lines, mutedStyle.Render("Select all that apply."))
	}
	for i, option := range q.Options {
		lines = append(lines, m.renderOption(i, option, q.Answer.IsMulti(), width))
	}
	return lines
}

func (m *Model) renderOption(i int, option string, multi bool, width int) string {
	marker := "  "
	if i == m.cursor {
		marker = "> "
	}
	box := ""
	if multi {
		box = "[ ] "
		if m.selected[i] {
			box = "[x] "
		}
	}
	prefix := marker + box
	text := wrapText(option, maxInt(1, width-len(prefix)))
	text = strings.ReplaceAll(text, "\n", "\n"+strings.Repeat(" ", len(prefix)))
	if i == m.cursor {
		return cursorLineStyle.Render(prefix + text)
	}
	return optionStyle.Render(prefix + text)
}

func (m *Model) renderFeedback(width int) []string {
	verdict := correctStyle.Render("Correct!")
	if !m.feedback.Correct {
		verdict = incorrectStyle.Render("Incorrect.")
	}
	next := "Press any key for the next question."
	if m.feedback.Finished {
		next = "Press any key to see the summary."
	}
	return []string{
		verdict,
		"",
		wrapText("Keywords: "+report.Keywords(m.feedback.Keywords), width),
		wrapText("Explanation: "+report.Explanation(m.feedback.Explanation), width),
		"",
		mutedStyle.Render(next),
	}
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.session.Phase() != quiz.PhaseConfiguring {
		segments = append(segments,
			fmt.Sprintf("Answered %d/%d", m.session.Answered(), m.session.Len()),
			fmt.Sprintf("Correct %d", m.session.CorrectCount()),
		)
	}
	segments = append(segments, m.help.ShortHelpView(m.helpBindings()))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) helpBindings() []key.Binding {
	switch m.screen {
	case screenConfig:
		return []key.Binding{m.keys.NextMode, m.keys.Start, m.keys.Quit}
	case screenQuestion:
		bindings := []key.Binding{m.keys.Submit}
		if item, err := m.session.Current(); err == nil {
			switch {
			case item.Question.FreeText:
				bindings = []key.Binding{m.keys.SubmitText}
			case item.Question.Answer.IsMulti():
				bindings = append(bindings, m.keys.Toggle)
			}
		}
		return append(bindings, m.keys.End, m.keys.Reset, m.keys.Quit)
	case screenFeedback:
		return []key.Binding{m.keys.End, m.keys.Reset, m.keys.Quit}
	default:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.NewQuiz, m.keys.Close}
	}
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
