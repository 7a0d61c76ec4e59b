// Package cli is the line-oriented front-end: a setup dialogue followed by
// a read-eval loop over the session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"golden-casino/internal/casino"
	"golden-casino/internal/game"
	"golden-casino/internal/model"
	"golden-casino/internal/service"
	"golden-casino/internal/session"
	"golden-casino/internal/story"
)

// errQuit ends the loop when input runs out.
var errQuit = errors.New("input closed")

// Config holds what the CLI needs to start a session.
type Config struct {
	Slot    string          // Save slot used by save and load
	Session session.Options // PlayerName empty means ask for it
}

// CLI drives one session from a reader and a writer.
type CLI struct {
	in      *bufio.Scanner
	out     io.Writer
	story   *story.Story
	catalog *game.Registry
	rng     game.Rand
	saves   *service.SaveService
	cfg     Config

	sess *session.Session
}

// New creates a CLI. saves may be nil, which disables save and load.
func New(in io.Reader, out io.Writer, st *story.Story, catalog *game.Registry, rng game.Rand, saves *service.SaveService, cfg Config) *CLI {
	return &CLI{
		in:      bufio.NewScanner(in),
		out:     out,
		story:   st,
		catalog: catalog,
		rng:     rng,
		saves:   saves,
		cfg:     cfg,
	}
}

// Session returns the running session, or nil before setup finishes.
func (c *CLI) Session() *session.Session {
	return c.sess
}

// Run performs the setup dialogue and then the game loop. It returns nil
// when the player leaves or input ends, and an error only when setup
// cannot continue.
func (c *CLI) Run(ctx context.Context) error {
	err := c.run(ctx)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (c *CLI) run(ctx context.Context) error {
	ok, err := c.setup(ctx)
	if err != nil || !ok {
		return err
	}
	c.intro()
	return c.loop(ctx)
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) println(s string) {
	fmt.Fprintln(c.out, s)
}

// ask prints prompt and reads one trimmed line.
func (c *CLI) ask(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *CLI) newSession(opts session.Options) (*session.Session, error) {
	return session.New(opts, c.story, c.catalog, c.rng)
}

// setup runs the disclaimer, mode, load-or-new and name prompts.
// It reports false when the player declines to play.
func (c *CLI) setup(ctx context.Context) (bool, error) {
	if d := c.story.Disclaimer(); d != "" {
		c.println(d)
		answer, err := c.ask("Do you still want to play? (yes/no): ")
		if err != nil {
			return false, err
		}
		if strings.ToLower(answer) != "yes" {
			c.println("You chose not to play. Exiting the game.")
			return false, nil
		}
	}

	answer, err := c.ask("Select mode: easy or normal: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	if !model.Mode(answer).Valid() {
		c.println("Invalid mode selected. Defaulting to normal mode.")
	}
	mode := model.ParseMode(answer)

	opts := c.cfg.Session
	opts.Mode = mode

	if c.saves != nil {
		answer, err = c.ask("Do you want to load a game or create a new one? (load/new): ")
		if err != nil {
			return false, err
		}
		if strings.ToLower(answer) == "load" {
			sess, err := c.newSession(opts)
			if err != nil {
				return false, err
			}
			err = c.saves.Load(ctx, c.cfg.Slot, sess)
			switch {
			case err == nil:
				sess.SetMode(mode)
				c.sess = sess
				c.println("Game loaded successfully!")
				return true, nil
			case errors.Is(err, session.ErrSnapshotUnavailable):
				c.println("No saved game found. Starting a new game.")
			default:
				return false, fmt.Errorf("load saved game: %w", err)
			}
		}
	}

	if opts.PlayerName == "" {
		name, err := c.ask("Enter your name: ")
		if err != nil {
			return false, err
		}
		opts.PlayerName = name
	}

	sess, err := c.newSession(opts)
	if err != nil {
		return false, err
	}
	c.sess = sess
	log.Info().Str("player", opts.PlayerName).Str("mode", string(mode)).Msg("New game started")
	return true, nil
}

func (c *CLI) intro() {
	c.println(c.story.Welcome())
	if tour := c.story.Tour(); tour != "" {
		c.println(tour)
		for _, line := range c.story.TourRooms() {
			c.println(line)
		}
	}
	c.println(c.sess.CurrentDetails())
}

const prompt = "\nWhat would you like to do? (a direction such as 'slots', 'play', 'purse', 'look', 'rooms', 'history', 'save', 'load', 'saves', 'help' or 'exit'): "

func (c *CLI) loop(ctx context.Context) error {
	for {
		switch c.sess.CheckBankruptcy() {
		case session.Rescued:
			c.printf("You have run out of money. A stranger in the casino gives you %d coins to continue playing.\n", c.sess.Stipend())
		case session.Bust:
			c.println("You have run out of money. You are being kicked out of the casino. Game over.")
			return nil
		}

		action, err := c.ask(prompt)
		if err != nil {
			return err
		}
		action = strings.ToLower(action)

		switch action {
		case "exit", "quit":
			c.println("You leave the game.")
			return nil
		case "purse":
			c.printf("You have %d coins.\n", c.sess.Balance())
		case "look":
			c.println(c.sess.CurrentDetails())
		case "rooms":
			c.rooms()
		case "history":
			c.history()
		case "help":
			c.help()
		case "save":
			c.save(ctx)
		case "load":
			c.load(ctx)
		case "saves":
			c.listSaves(ctx)
		case "play":
			if err := c.play(ctx); err != nil {
				return err
			}
		default:
			if _, ok := c.sess.CurrentRoom().Exits[action]; ok {
				if err := c.move(action); err != nil {
					return err
				}
				continue
			}
			c.println("Unknown action. Please try again.")
		}
	}
}

// move walks through an exit, offering to unlock a locked room on the way.
func (c *CLI) move(direction string) error {
	_, err := c.sess.Move(direction)
	if errors.Is(err, casino.ErrRoomLocked) {
		target := c.targetOf(direction)
		if c.sess.Balance() < target.UnlockCost {
			c.println("You don't have enough coins to unlock this room.")
			return nil
		}
		answer, err := c.ask(fmt.Sprintf("This room is locked and costs %d coins to unlock. Do you want to unlock it? (yes/no): ", target.UnlockCost))
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "yes" {
			c.println("You chose not to unlock the room.")
			return nil
		}
		name, err := c.sess.UnlockExit(direction)
		if err != nil {
			c.println(session.Message(err))
			return nil
		}
		c.printf("You have successfully unlocked %s!\n", name)
		_, err = c.sess.Move(direction)
	}
	if err != nil {
		c.println(session.Message(err))
		return nil
	}

	c.printf("You move to the %s.\n", direction)
	c.println(c.sess.CurrentDetails())
	return nil
}

func (c *CLI) targetOf(direction string) casino.Room {
	name := c.sess.CurrentRoom().Exits[direction]
	for _, r := range c.sess.Rooms() {
		if r.Name == name {
			return r
		}
	}
	return casino.Room{Name: name}
}

// play prompts for a bet and, when the game needs one, a choice. Bad input
// is re-prompted here and never reaches the session.
func (c *CLI) play(ctx context.Context) error {
	g, ok := c.sess.CurrentGame()
	if !ok {
		c.println("There is no game to play here.")
		return nil
	}

	c.printf("%s: %s\n", g.Name(), g.Description())
	bet, err := c.askBet(g)
	if err != nil {
		return err
	}

	var params map[string]any
	if spec := g.Choices(); spec != nil {
		choice, err := c.askChoice(spec)
		if err != nil {
			return err
		}
		params = map[string]any{spec.Param: choice}
	}

	turn, err := c.sess.Play(ctx, bet, params)
	if err != nil {
		c.println(session.Message(err))
		return nil
	}
	c.println(turn.Description)

	if c.saves != nil {
		if err := c.saves.RecordRound(ctx, c.sess.PlayerName(), turn.Round); err != nil {
			log.Warn().Err(err).Msg("Failed to record round")
		}
	}
	return nil
}

func (c *CLI) askBet(g game.Game) (int64, error) {
	for {
		answer, err := c.ask(fmt.Sprintf("Place your bet (minimum %d coins, you have %d): ", g.MinBet(), c.sess.Balance()))
		if err != nil {
			return 0, err
		}
		bet, err := strconv.ParseInt(answer, 10, 64)
		if err != nil {
			c.println("Please enter a whole number of coins.")
			continue
		}
		return bet, nil
	}
}

func (c *CLI) askChoice(spec *game.ChoiceSpec) (string, error) {
	for {
		label := spec.Prompt
		if !spec.Numeric() {
			label = fmt.Sprintf("%s (%s)", spec.Prompt, strings.Join(spec.Options, ", "))
		}
		answer, err := c.ask(label + ": ")
		if err != nil {
			return "", err
		}
		if choice, ok := spec.Parse(answer); ok {
			return choice, nil
		}
		if spec.Numeric() {
			c.printf("Please pick a number from %d to %d.\n", spec.Min, spec.Max)
		} else {
			c.println("That is not one of the choices.")
		}
	}
}

func (c *CLI) rooms() {
	current := c.sess.CurrentRoom().Name
	for _, r := range c.sess.Rooms() {
		marker := "  "
		if r.Name == current {
			marker = "> "
		}
		status := "open"
		if r.Locked {
			status = fmt.Sprintf("locked, %d coins", r.UnlockCost)
		}
		c.printf("%s%s (%s)\n", marker, r.Name, status)
	}
}

func (c *CLI) history() {
	rounds := c.sess.History()
	if len(rounds) == 0 {
		c.println("No bets yet.")
		return
	}
	for _, r := range rounds {
		c.println(r.String())
	}
}

func (c *CLI) help() {
	c.println("Commands:")
	c.println("  <exit name>  walk through an exit of this room")
	c.println("  play         play the game in this room")
	c.println("  purse        show your coins")
	c.println("  look         describe this room again")
	c.println("  rooms        list every room and its lock")
	c.println("  history      show your recent bets")
	c.println("  save, load   save or restore your game")
	c.println("  saves        list saved games")
	c.println("  exit         leave the casino")
	c.println("Tables:")
	for _, g := range c.catalog.List() {
		c.printf("  %-12s minimum bet %d\n", g.Name(), g.MinBet())
	}
}

func (c *CLI) save(ctx context.Context) {
	if c.saves == nil {
		c.println("Saving is not available.")
		return
	}
	if err := c.saves.Save(ctx, c.cfg.Slot, c.sess); err != nil {
		log.Error().Err(err).Str("slot", c.cfg.Slot).Msg("Save failed")
		c.printf("Error saving game: %v\n", err)
		return
	}
	c.println("Game saved successfully!")
}

func (c *CLI) load(ctx context.Context) {
	if c.saves == nil {
		c.println("Loading is not available.")
		return
	}
	err := c.saves.Load(ctx, c.cfg.Slot, c.sess)
	switch {
	case err == nil:
		c.println("Game loaded successfully!")
		c.println(c.sess.CurrentDetails())
	case errors.Is(err, session.ErrSnapshotUnavailable):
		c.println("No saved game found.")
	default:
		log.Error().Err(err).Str("slot", c.cfg.Slot).Msg("Load failed")
		c.printf("Error loading game: %v\n", err)
	}
}

// listSaves prints every stored save, marking the slot save and load use.
func (c *CLI) listSaves(ctx context.Context) {
	if c.saves == nil {
		c.println("Saving is not available.")
		return
	}
	infos, err := c.saves.Slots(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Listing saves failed")
		c.printf("Error listing saved games: %v\n", err)
		return
	}
	if len(infos) == 0 {
		c.println("No saved games.")
		return
	}
	c.println("Saved games:")
	for _, info := range infos {
		marker := "  "
		if info.Slot == c.cfg.Slot {
			marker = "* "
		}
		c.printf("%s%s (saved %s)\n", marker, info.Slot, info.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}
