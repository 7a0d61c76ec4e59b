package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUsage = errors.New("usage")

// Verbs understood by the prompt.
const (
	verbGo      = "go"
	verbUnlock  = "unlock"
	verbPlay    = "play"
	verbLook    = "look"
	verbSave    = "save"
	verbLoad    = "load"
	verbHelp    = "help"
	verbQuit    = "quit"
	verbHistory = "history"
)

type command struct {
	verb   string
	target string // exit for go and unlock
	bet    int64
	choice string
}

// parseCommand turns one line of input into a command. It checks shape
// only; rooms, bets and choices are judged by the session.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{}, fmt.Errorf("%w: type help for the list of commands", errUsage)
	}

	verb, args := fields[0], fields[1:]
	switch verb {
	case "exit", "q":
		verb = verbQuit
	case "l":
		verb = verbLook
	}

	switch verb {
	case verbGo, verbUnlock:
		if len(args) != 1 {
			return command{}, fmt.Errorf("%w: %s <exit>", errUsage, verb)
		}
		return command{verb: verb, target: args[0]}, nil

	case verbPlay:
		if len(args) < 1 || len(args) > 2 {
			return command{}, fmt.Errorf("%w: play <bet> [choice]", errUsage)
		}
		bet, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return command{}, fmt.Errorf("%w: the bet must be a whole number of coins", errUsage)
		}
		cmd := command{verb: verb, bet: bet}
		if len(args) == 2 {
			cmd.choice = args[1]
		}
		return cmd, nil

	case verbLook, verbSave, verbLoad, verbHelp, verbQuit, verbHistory:
		if len(args) != 0 {
			return command{}, fmt.Errorf("%w: %s takes no arguments", errUsage, verb)
		}
		return command{verb: verb}, nil

	default:
		// a bare exit name walks through it
		if len(args) == 0 {
			return command{verb: verbGo, target: verb}, nil
		}
		return command{}, fmt.Errorf("%w: unknown command %q", errUsage, verb)
	}
}

const helpText = `Commands:
  go <exit>            walk through an exit (or just type the exit)
  unlock <exit>        pay to open the room behind an exit
  play <bet> [choice]  play this room's game, e.g. play 8 wind
  look                 describe this room again
  history              list your recent bets
  save, load           save or restore your game
  quit                 leave the casino`
