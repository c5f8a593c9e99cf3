// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui implements the interactive wizard that runs when hostmaster
// is started without a subcommand. It collects the same inputs the
// subcommand flags would and hands them back to the CLI layer.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/hostmaster/internal/i18n"
)

// Task identifiers the wizard can select.
const (
	TaskDocker = "docker"
	TaskK3s    = "k3s"
	TaskUser   = "user"
)

// WizardResult carries the collected answers back to the CLI dispatcher.
type WizardResult struct {
	Task string

	// docker
	DockerAddUser string

	// k3s
	DisableTraefik bool
	MetalLBRange   string

	// user
	Username         string
	FullName         string
	Groups           []string
	GeneratePassword bool
	GenerateKey      bool
}

// ErrWizardAborted is returned when the operator quits the wizard.
var ErrWizardAborted = errors.New("wizard aborted")

var (
	wizTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	wizCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	wizHelpStyle   = lipgloss.NewStyle().Faint(true)
)

// question is one sequential prompt of a task's flow.
type question struct {
	id       string
	prompt   string
	def      string
	boolean  bool
	optional bool
}

type stage int

const (
	stageMenu stage = iota
	stageQuestions
	stageDone
)

type wizardModel struct {
	stage     stage
	cursor    int
	tasks     []string
	questions []question
	answers   map[string]string
	qIndex    int
	input     textinput.Model
	aborted   bool
}

func newWizardModel() wizardModel {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40
	return wizardModel{
		tasks:   []string{TaskDocker, TaskK3s, TaskUser},
		answers: map[string]string{},
		input:   ti,
	}
}

func questionsFor(task string) []question {
	switch task {
	case TaskDocker:
		return []question{
			{id: "adduser", prompt: i18n.T("wizard.q_docker_adduser"), optional: true},
		}
	case TaskK3s:
		return []question{
			{id: "traefik", prompt: i18n.T("wizard.q_k3s_traefik"), def: "y", boolean: true},
			{id: "metallb", prompt: i18n.T("wizard.q_k3s_metallb"), optional: true},
		}
	case TaskUser:
		return []question{
			{id: "username", prompt: i18n.T("wizard.q_username")},
			{id: "fullname", prompt: i18n.T("wizard.q_fullname"), optional: true},
			{id: "groups", prompt: i18n.T("wizard.q_groups"), def: "sudo", optional: true},
			{id: "password", prompt: i18n.T("wizard.q_password"), def: "y", boolean: true},
			{id: "key", prompt: i18n.T("wizard.q_key"), def: "y", boolean: true},
		}
	}
	return nil
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	}

	switch m.stage {
	case stageMenu:
		switch keyMsg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "enter":
			m.answers["task"] = m.tasks[m.cursor]
			m.questions = questionsFor(m.tasks[m.cursor])
			m.stage = stageQuestions
			m.qIndex = 0
			m.prepareInput()
			return m, textinput.Blink
		case "q":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case stageQuestions:
		if keyMsg.Type == tea.KeyEnter {
			q := m.questions[m.qIndex]
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				value = q.def
			}
			if value == "" && !q.optional {
				// Required answer; stay on the question.
				return m, nil
			}
			m.answers[q.id] = value
			m.qIndex++
			if m.qIndex >= len(m.questions) {
				m.stage = stageDone
				return m, tea.Quit
			}
			m.prepareInput()
			return m, textinput.Blink
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *wizardModel) prepareInput() {
	q := m.questions[m.qIndex]
	m.input.SetValue("")
	if q.def != "" {
		m.input.Placeholder = q.def
	} else {
		m.input.Placeholder = ""
	}
	m.input.Focus()
}

func (m wizardModel) View() string {
	var b strings.Builder
	b.WriteString(wizTitleStyle.Render(i18n.T("wizard.title")) + "\n\n")

	switch m.stage {
	case stageMenu:
		b.WriteString(i18n.T("wizard.pick_task") + "\n")
		for i, t := range m.tasks {
			cursor := "  "
			if i == m.cursor {
				cursor = wizCursorStyle.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s\n", cursor, i18n.T("wizard.task_"+t)))
		}
		b.WriteString("\n" + wizHelpStyle.Render(i18n.T("wizard.help_menu")))
	case stageQuestions:
		q := m.questions[m.qIndex]
		b.WriteString(q.prompt + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(wizHelpStyle.Render(i18n.T("wizard.help_question")))
	}
	return b.String()
}

// RunWizard drives the interactive flow and returns the collected answers.
func RunWizard() (*WizardResult, error) {
	final, err := tea.NewProgram(newWizardModel()).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(wizardModel)
	if !ok || m.aborted || m.stage != stageDone {
		return nil, ErrWizardAborted
	}
	return resultFromAnswers(m.answers), nil
}

func resultFromAnswers(answers map[string]string) *WizardResult {
	res := &WizardResult{Task: answers["task"]}
	switch res.Task {
	case TaskDocker:
		res.DockerAddUser = answers["adduser"]
	case TaskK3s:
		res.DisableTraefik = !isYes(answers["traefik"])
		res.MetalLBRange = answers["metallb"]
	case TaskUser:
		res.Username = answers["username"]
		res.FullName = answers["fullname"]
		res.GeneratePassword = isYes(answers["password"])
		res.GenerateKey = isYes(answers["key"])
		for _, g := range strings.Split(answers["groups"], ",") {
			if g = strings.TrimSpace(g); g != "" {
				res.Groups = append(res.Groups, g)
			}
		}
	}
	return res
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "ja":
		return true
	}
	return false
}
