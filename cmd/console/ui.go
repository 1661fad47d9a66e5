package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kamiworld/engine/internal/storage"
	"github.com/kamiworld/engine/pkg/adapter/quest"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/holder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.English)

// ProgressUI is the BubbleTea model that runs the viewer.
type ProgressUI struct {
	store    *storage.RedisStore
	logger   *slog.Logger
	account  *holder.Account
	quests   *quest.Adapter
	viewport viewport.Model

	questIndex uint32
	conds      []condition.Condition
	statuses   []condition.Status
	ready      bool
	width      int
	height     int
	err        error
	notice     string
}

type progressMsg struct {
	questIndex uint32
	conds      []condition.Condition
	statuses   []condition.Status
	err        error
}

// NewProgressUI creates the viewer for one account.
func NewProgressUI(store *storage.RedisStore, logger *slog.Logger, account *holder.Account) ProgressUI {
	return ProgressUI{
		store:   store,
		logger:  logger,
		account: account,
		quests:  quest.New(store, logger),
	}
}

func (m ProgressUI) Init() tea.Cmd {
	return m.loadProgress(m.questIndex)
}

func (m ProgressUI) loadProgress(questIndex uint32) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conds, err := m.quests.Objectives(ctx, questIndex)
		if err != nil {
			return progressMsg{questIndex: questIndex, err: err}
		}
		statuses, err := m.quests.Progress(ctx, questIndex, m.account)
		if err != nil {
			return progressMsg{questIndex: questIndex, err: err}
		}
		return progressMsg{questIndex: questIndex, conds: conds, statuses: statuses}
	}
}

func (m ProgressUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.viewport.SetContent(m.renderProgress())
		return m, nil

	case progressMsg:
		m.questIndex = msg.questIndex
		m.conds = msg.conds
		m.statuses = msg.statuses
		m.err = msg.err
		m.notice = ""
		if m.ready {
			m.viewport.SetContent(m.renderProgress())
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.loadProgress(m.questIndex)
		case "right", "+":
			return m, m.loadProgress(m.questIndex + 1)
		case "left", "-":
			if m.questIndex > 0 {
				return m, m.loadProgress(m.questIndex - 1)
			}
			return m, nil
		case "c":
			if err := clipboard.WriteAll(m.reportText()); err != nil {
				m.err = err
			} else {
				m.notice = "Report copied to clipboard"
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ProgressUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render(fmt.Sprintf("Quest %d — %s", m.questIndex, m.account.Name))
	help := helpStyle.Render("←/→ quest · r refresh · c copy · q quit")
	if m.notice != "" {
		help = helpStyle.Render(m.notice)
	}
	return header + "\n" + m.viewport.View() + "\n" + help
}

func (m ProgressUI) renderProgress() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if len(m.conds) == 0 {
		return helpStyle.Render("No objectives authored for this quest.")
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder
	for i, cond := range m.conds {
		st := m.statuses[i]
		line := describe(cond, st)
		if st.Completable {
			line = passStyle.Render("[done] " + line)
		} else {
			line = failStyle.Render("[    ] " + line)
		}
		sb.WriteString(wordwrap.String(line, width))
		sb.WriteString("\n")
	}
	return sb.String()
}

// reportText is the unstyled progress report for clipboard export.
func (m ProgressUI) reportText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quest %d progress for %s\n", m.questIndex, m.account.Name)
	for i, cond := range m.conds {
		mark := " "
		if m.statuses[i].Completable {
			mark = "x"
		}
		fmt.Fprintf(&sb, "[%s] %s\n", mark, describe(cond, m.statuses[i]))
	}
	return sb.String()
}

// describe renders one condition and its status in panel language.
func describe(cond condition.Condition, st condition.Status) string {
	kind := titleCaser.String(strings.ToLower(strings.ReplaceAll(string(cond.Target.Kind), "_", " ")))
	name := kind
	if cond.Target.Index != 0 {
		name = fmt.Sprintf("%s %d", kind, cond.Target.Index)
	}

	if st.Current != nil && st.Target != nil {
		return fmt.Sprintf("%s — %d/%d", name, *st.Current, *st.Target)
	}
	return name
}
