// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
	"github.com/verte-zerg/tuiquiz/internal/report"
)

type screen int

const (
	screenConfig screen = iota
	screenQuestion
	screenFeedback
	screenSummary
)

const (
	fieldStart = iota
	fieldEnd
	fieldCount
)

var modes = []model.Mode{model.ModeRange, model.ModeRecall, model.ModeRandom}

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeModeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Underline(true)
	inactiveModeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	optionStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	correctStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	codeStyle         = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E0E0E0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// History stores finished sessions and serves recall memory.
type History interface {
	SaveSession(ctx context.Context, rec model.SessionRecord) (string, error)
	RecallMemory(ctx context.Context, bank string, window int) ([]int, error)
}

// Options configures a Model. History may be nil.
type Options struct {
	Config   model.Config
	Bank     []model.Question
	BankName string
	History  History
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	cfg      model.Config
	bank     []model.Question
	bankName string
	history  History
	keys     keyMap
	help     help.Model

	screen    screen
	session   *quiz.Session
	startedAt time.Time
	errMsg    string

	mode       model.Mode
	fields     []textinput.Model
	fieldIndex int

	cursor   int
	selected map[int]bool
	answer   textarea.Model
	feedback model.Feedback

	summary     model.Summary
	summaryView viewport.Model

	// Wrong log of the session most recently finished or reset.
	lastWrong  []model.WrongRecord
	hasLastRun bool

	width  int
	height int
}

// NewModel constructs a quiz TUI model in the configuring screen.
func NewModel(opts Options) *Model {
	m := &Model{
		cfg:         opts.Config,
		bank:        opts.Bank,
		bankName:    opts.BankName,
		history:     opts.History,
		keys:        newKeyMap(),
		help:        help.New(),
		session:     quiz.NewSession(),
		mode:        opts.Config.Mode,
		summaryView: viewport.New(0, 0),
		selected:    map[int]bool{},
	}
	if m.mode == "" {
		m.mode = model.ModeRange
	}
	m.initFields()
	m.answer = newAnswerArea()
	m.focusField(0)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.finishPending()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		}
		switch m.screen {
		case screenConfig:
			return m.updateConfig(msg)
		case screenQuestion:
			return m.updateQuestion(msg)
		case screenFeedback:
			return m.updateFeedback(msg)
		case screenSummary:
			return m.updateSummary(msg)
		}
		return m, nil
	}
	return m, m.updateInputs(msg)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.screen == screenSummary && m.width > 0 && m.height > 1 {
		body := fitLines(m.summaryView.View(), m.width, m.height-1)
		return body + "\n" + lipgloss.NewStyle().MaxWidth(m.width).Render(m.renderFooter())
	}
	width := m.contentWidth()
	content := m.renderBody(width)
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(width).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

func (m *Model) initFields() {
	m.fields = []textinput.Model{
		newInput("Start: "),
		newInput("End:   "),
		newInput("Count: "),
	}
	m.fields[fieldStart].Placeholder = "1"
	m.fields[fieldEnd].Placeholder = strconv.Itoa(len(m.bank))
	m.fields[fieldCount].Placeholder = fmt.Sprintf("%d (all)", len(m.bank))
	if m.cfg.Start > 0 {
		m.fields[fieldStart].SetValue(strconv.Itoa(m.cfg.Start))
	}
	if m.cfg.End > 0 {
		m.fields[fieldEnd].SetValue(strconv.Itoa(m.cfg.End))
	}
	if m.cfg.Count > 0 {
		m.fields[fieldCount].SetValue(strconv.Itoa(m.cfg.Count))
	}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// newAnswerArea builds the free-text editor. Enter inserts a line break so
// multi-line answers can be typed or pasted; SubmitText submits.
func newAnswerArea() textarea.Model {
	area := textarea.New()
	area.Prompt = "> "
	area.Placeholder = "type your answer"
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.SetHeight(4)
	return area
}

func (m *Model) visibleFields() []int {
	switch m.mode {
	case model.ModeRange:
		return []int{fieldStart, fieldEnd}
	case model.ModeRandom:
		return []int{fieldCount}
	default:
		return nil
	}
}

func (m *Model) focusField(idx int) tea.Cmd {
	visible := m.visibleFields()
	for i := range m.fields {
		m.fields[i].Blur()
	}
	if len(visible) == 0 {
		m.fieldIndex = 0
		return nil
	}
	if idx < 0 {
		idx = len(visible) - 1
	}
	if idx >= len(visible) {
		idx = 0
	}
	m.fieldIndex = idx
	return m.fields[visible[idx]].Focus()
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case screenConfig:
		visible := m.visibleFields()
		if len(visible) > 0 {
			idx := visible[m.fieldIndex]
			m.fields[idx], cmd = m.fields[idx].Update(msg)
		}
	case screenQuestion:
		m.answer, cmd = m.answer.Update(msg)
	}
	return cmd
}

func (m *Model) updateConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextMode):
		m.cycleMode()
		return m, m.focusField(0)
	case key.Matches(msg, m.keys.Down):
		return m, m.focusField(m.fieldIndex + 1)
	case key.Matches(msg, m.keys.Up):
		return m, m.focusField(m.fieldIndex - 1)
	case key.Matches(msg, m.keys.Start):
		return m, m.start()
	}
	return m, m.updateInputs(msg)
}

func (m *Model) cycleMode() {
	for i, mode := range modes {
		if mode == m.mode {
			m.mode = modes[(i+1)%len(modes)]
			m.errMsg = ""
			return
		}
	}
	m.mode = model.ModeRange
}

func (m *Model) start() tea.Cmd {
	params, err := m.params()
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	items, err := quiz.Select(m.bank, params)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if err := m.session.Start(items); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.startedAt = time.Now()
	m.screen = screenQuestion
	for i := range m.fields {
		m.fields[i].Blur()
	}
	return m.prepareQuestion()
}

func (m *Model) params() (quiz.Params, error) {
	p := quiz.Params{Mode: m.mode, Seed: m.cfg.Seed}
	var err error
	switch m.mode {
	case model.ModeRange:
		if p.Start, err = fieldInt(m.fields[fieldStart], "start"); err != nil {
			return p, err
		}
		if p.End, err = fieldInt(m.fields[fieldEnd], "end"); err != nil {
			return p, err
		}
	case model.ModeRandom:
		if p.Count, err = fieldInt(m.fields[fieldCount], "count"); err != nil {
			return p, err
		}
	case model.ModeRecall:
		if p.Memory, err = m.recallMemory(); err != nil {
			return p, err
		}
	}
	return p, nil
}

func fieldInt(input textinput.Model, name string) (int, error) {
	value := strings.TrimSpace(input.Value())
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s (use a positive integer)", name)
	}
	return n, nil
}

// recallMemory prefers the wrong log of the last in-process session over
// the stored history.
func (m *Model) recallMemory() ([]int, error) {
	if m.hasLastRun {
		return quiz.MemoryFromLog(m.lastWrong), nil
	}
	if m.history == nil {
		return nil, nil
	}
	memory, err := m.history.RecallMemory(context.Background(), m.bankName, m.recallWindow())
	if err != nil {
		return nil, fmt.Errorf("failed to load recall memory: %w", err)
	}
	return memory, nil
}

func (m *Model) recallWindow() int {
	if m.cfg.RecallWindow > 0 {
		return m.cfg.RecallWindow
	}
	return 1
}

func (m *Model) prepareQuestion() tea.Cmd {
	item, err := m.session.Current()
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.cursor = 0
	m.selected = map[int]bool{}
	if item.Question.FreeText {
		m.answer.Reset()
		return m.answer.Focus()
	}
	m.answer.Blur()
	return nil
}

func (m *Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.End) {
		return m, m.endEarly()
	}
	item, err := m.session.Current()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	q := item.Question
	if q.FreeText {
		if key.Matches(msg, m.keys.SubmitText) {
			return m, m.submit(model.Single(m.answer.Value()))
		}
		return m, m.updateInputs(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if q.Answer.IsMulti() {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case key.Matches(msg, m.keys.Submit):
		answer, err := m.choiceAnswer(q)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m, m.submit(answer)
	}
	return m, nil
}

func (m *Model) choiceAnswer(q model.Question) (model.Answer, error) {
	if !q.Answer.IsMulti() {
		return model.Single(q.Options[m.cursor]), nil
	}
	values := make([]string, 0, len(q.Options))
	for i, option := range q.Options {
		if m.selected[i] {
			values = append(values, option)
		}
	}
	if len(values) == 0 {
		return model.Answer{}, errors.New("select at least one option with space")
	}
	return model.Multi(values...), nil
}

func (m *Model) submit(answer model.Answer) tea.Cmd {
	feedback, err := m.session.Submit(answer)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.feedback = feedback
	m.answer.Blur()
	m.screen = screenFeedback
	return nil
}

func (m *Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.feedback.Finished || key.Matches(msg, m.keys.End) {
		return m, m.endEarly()
	}
	m.screen = screenQuestion
	return m, m.prepareQuestion()
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewQuiz):
		return m, m.reset()
	}
	var cmd tea.Cmd
	m.summaryView, cmd = m.summaryView.Update(msg)
	return m, cmd
}

// endEarly ends an active session and shows the summary. A session that
// already ended is only summarized.
func (m *Model) endEarly() tea.Cmd {
	if m.session.Phase() == quiz.PhaseActive {
		if err := m.session.EndEarly(); err != nil {
			m.errMsg = err.Error()
			return nil
		}
	}
	m.finish()
	return nil
}

func (m *Model) finish() {
	sum, err := quiz.Summarize(m.session)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.summary = sum
	m.lastWrong = sum.ReviewItems
	m.hasLastRun = true
	m.save(sum)
	m.answer.Blur()
	m.screen = screenSummary
	m.renderSummary()
}

// finishPending summarizes and saves a session that ended on its last answer
// but was left before the summary was shown.
func (m *Model) finishPending() {
	if m.session.Phase() == quiz.PhaseEnded && m.screen != screenSummary {
		m.finish()
	}
}

func (m *Model) save(sum model.Summary) {
	if m.history == nil {
		return
	}
	rec := model.SessionRecord{
		Bank:      m.bankName,
		Mode:      m.mode,
		StartedAt: m.startedAt,
		EndedAt:   time.Now(),
		Summary:   sum,
	}
	if _, err := m.history.SaveSession(context.Background(), rec); err != nil {
		m.errMsg = fmt.Sprintf("failed to save session: %v", err)
	}
}

// reset discards the current session and returns to the configuring screen.
func (m *Model) reset() tea.Cmd {
	m.finishPending()
	if m.session.Phase() != quiz.PhaseConfiguring {
		m.lastWrong = m.session.WrongLog()
		m.hasLastRun = true
	}
	m.session.Reset()
	m.screen = screenConfig
	m.errMsg = ""
	m.feedback = model.Feedback{}
	m.answer.Blur()
	return m.focusField(0)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.summaryView.Width = m.width
	m.summaryView.Height = maxInt(1, m.height-1)
	m.answer.SetWidth(maxInt(10, m.contentWidth()))
	if m.screen == screenSummary {
		m.renderSummary()
	}
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return maxInt(20, int(float64(m.width)*0.70))
}

func (m *Model) renderSummary() {
	var buf bytes.Buffer
	if err := report.Render(&buf, m.summary); err != nil {
		buf.WriteString(err.Error())
	}
	content := wrapText(buf.String(), m.width)
	if m.errMsg != "" {
		content = errorStyle.Render(wrapText(m.errMsg, m.width)) + "\n\n" + content
	}
	m.summaryView.SetContent(content)
	m.summaryView.GotoTop()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
