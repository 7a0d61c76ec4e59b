// Package tui is the full-screen terminal front-end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"golden-casino/internal/casino"
	"golden-casino/internal/service"
	"golden-casino/internal/session"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateBusy
	stateOver
)

type model struct {
	state     sessionState
	sess      *session.Session
	saves     *service.SaveService
	slot      string
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1C1C1C")).
			Background(lipgloss.Color("#FFD700")).
			Bold(true).
			PaddingLeft(1).
			PaddingRight(1)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func newModel(sess *session.Session, saves *service.SaveService, slot, intro string) model {
	ti := textinput.New()
	ti.Placeholder = "go slots, play 5, help..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return model{
		state:     statePlaying,
		sess:      sess,
		saves:     saves,
		slot:      slot,
		textInput: ti,
		viewport:  viewport.New(80, 20),
		gameLog:   gameStyle.Render(intro) + "\n\n",
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// outcomeMsg carries the result of a command run off the UI goroutine.
type outcomeMsg struct {
	text     string
	failed   bool
	standing session.Standing
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateOver {
				return m, tea.Quit
			}
			if m.state != statePlaying {
				return m, nil
			}
			line := m.textInput.Value()
			m.textInput.Reset()
			return m.submit(line)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 3)
		m.refresh()

	case outcomeMsg:
		m.state = statePlaying
		m = m.appendOutcome(msg)
		return m, nil
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit echoes line to the log and starts the command it names.
func (m model) submit(line string) (model, tea.Cmd) {
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.gameLog += userStyle.Width(m.logWidth()).Render("> "+line) + "\n\n"

	c, err := parseCommand(line)
	if err != nil {
		m.gameLog += errorStyle.Render(err.Error()) + "\n\n"
		m.refresh()
		return m, nil
	}

	switch c.verb {
	case verbQuit:
		return m, tea.Quit
	case verbHelp:
		m.gameLog += helpStyle.Render(helpText) + "\n\n"
		m.refresh()
		return m, nil
	}

	m.state = stateBusy
	m.refresh()
	return m, m.execute(c)
}

func (m model) appendOutcome(msg outcomeMsg) model {
	style := gameStyle
	if msg.failed {
		style = errorStyle
	}
	m.gameLog += style.Width(m.logWidth()).Render(msg.text) + "\n\n"

	switch msg.standing {
	case session.Rescued:
		m.gameLog += gameStyle.Render(fmt.Sprintf("You have run out of money. A stranger in the casino gives you %d coins to continue playing.", m.sess.Stipend())) + "\n\n"
	case session.Bust:
		m.gameLog += errorStyle.Render("You have run out of money. You are being kicked out of the casino. Game over.") + "\n\n"
		m.gameLog += helpStyle.Render("Press Enter to leave.") + "\n\n"
		m.state = stateOver
	}
	m.refresh()
	return m
}

// execute runs c against the session as a tea.Cmd.
func (m model) execute(c command) tea.Cmd {
	sess, saves, slot := m.sess, m.saves, m.slot
	return func() tea.Msg {
		ctx := context.Background()
		switch c.verb {
		case verbGo:
			return move(sess, c.target)
		case verbUnlock:
			name, err := sess.UnlockExit(c.target)
			if err != nil {
				return failure(err)
			}
			return outcomeMsg{text: fmt.Sprintf("You have successfully unlocked %s!", name)}
		case verbLook:
			return outcomeMsg{text: sess.CurrentDetails()}
		case verbHistory:
			return outcomeMsg{text: history(sess)}
		case verbPlay:
			return play(ctx, sess, saves, c)
		case verbSave:
			if saves == nil {
				return outcomeMsg{text: "Saving is not available.", failed: true}
			}
			if err := saves.Save(ctx, slot, sess); err != nil {
				return outcomeMsg{text: "Error saving game: " + err.Error(), failed: true}
			}
			return outcomeMsg{text: "Game saved successfully!"}
		case verbLoad:
			if saves == nil {
				return outcomeMsg{text: "Loading is not available.", failed: true}
			}
			err := saves.Load(ctx, slot, sess)
			switch {
			case errors.Is(err, session.ErrSnapshotUnavailable):
				return outcomeMsg{text: "No saved game found.", failed: true}
			case err != nil:
				return outcomeMsg{text: "Error loading game: " + err.Error(), failed: true}
			}
			return outcomeMsg{
				text:     "Game loaded successfully!\n" + sess.CurrentDetails(),
				standing: sess.CheckBankruptcy(),
			}
		default:
			return outcomeMsg{text: "Unknown action. Please try again.", failed: true}
		}
	}
}

func failure(err error) outcomeMsg {
	return outcomeMsg{text: session.Message(err), failed: !session.IsInformational(err)}
}

func move(sess *session.Session, exit string) outcomeMsg {
	room, err := sess.Move(exit)
	if errors.Is(err, casino.ErrRoomLocked) {
		return outcomeMsg{text: fmt.Sprintf("This room is locked and costs %d coins to unlock. Type 'unlock %s' to open it.", room.UnlockCost, exit)}
	}
	if err != nil {
		return failure(err)
	}
	return outcomeMsg{text: fmt.Sprintf("You move to the %s.\n%s", exit, sess.CurrentDetails())}
}

func play(ctx context.Context, sess *session.Session, saves *service.SaveService, c command) outcomeMsg {
	turn, err := sess.PlayChoice(ctx, c.bet, c.choice)
	if err != nil {
		return failure(err)
	}
	if saves != nil {
		if err := saves.RecordRound(ctx, sess.PlayerName(), turn.Round); err != nil {
			log.Warn().Err(err).Msg("Failed to record round")
		}
	}
	return outcomeMsg{text: turn.Description, standing: sess.CheckBankruptcy()}
}

func history(sess *session.Session) string {
	rounds := sess.History()
	if len(rounds) == 0 {
		return "No bets yet."
	}
	lines := make([]string, 0, len(rounds))
	for _, r := range rounds {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * 0.7)
}

// refresh pushes the log into the viewport and scrolls to the end.
func (m *model) refresh() {
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) View() string {
	header := headerStyle.Render(fmt.Sprintf("GOLDEN CASINO  %s  %d coins  %s mode",
		m.sess.PlayerName(), m.sess.Balance(), m.sess.Mode()))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	footer := m.textInput.View()
	switch m.state {
	case stateBusy:
		footer = helpStyle.Render("...")
	case stateOver:
		footer = helpStyle.Render("Game over. Press Enter to leave.")
	}

	help := helpStyle.Render("Commands: go, unlock, play, look, history, save, load, help, quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, mainView, "\n"+footer, help)
}

// renderState draws the side panel: rooms with their locks, then the
// recent bets.
func (m model) renderState() string {
	current := m.sess.CurrentRoom()

	var b strings.Builder
	b.WriteString(titleStyle.Render("ROOMS") + "\n")
	for _, r := range m.sess.Rooms() {
		marker := "  "
		if r.Name == current.Name {
			marker = "> "
		}
		b.WriteString(marker + r.Name)
		if r.Locked {
			fmt.Fprintf(&b, " [locked, %d]", r.UnlockCost)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + titleStyle.Render("EXITS") + "\n")
	b.WriteString(strings.Join(current.Directions(), ", ") + "\n")

	b.WriteString("\n" + titleStyle.Render("BETS") + "\n")
	rounds := m.sess.History()
	if len(rounds) == 0 {
		b.WriteString("(none)\n")
	}
	for i := len(rounds) - 1; i >= 0; i-- {
		b.WriteString(rounds[i].String() + "\n")
	}

	width := m.width - m.logWidth() - 4
	if width < 20 {
		width = 30
	}
	return stateStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

// Run starts the full-screen UI over sess. saves may be nil.
func Run(ctx context.Context, sess *session.Session, saves *service.SaveService, slot, intro string) error {
	p := tea.NewProgram(newModel(sess, saves, slot, intro), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
