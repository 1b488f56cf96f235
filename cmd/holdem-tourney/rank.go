package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdem-tourney/poker"
	"github.com/muesli/termenv"
)

type RankCmd struct {
	Hands   []string `arg:"" help:"Hands of five to seven cards, e.g. 'As Ks Qs Js Ts 2c 3d' or AsKsQsJsTs2c3d"`
	Board   string   `short:"b" help:"Community cards shared by every hand"`
	NoColor bool     `help:"Disable colour output"`
}

func (c *RankCmd) Run() error {
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return rankHands(os.Stdout, c.Hands, c.Board)
}

// rankHands evaluates each hand (plus the board) and marks the best.
func rankHands(w io.Writer, hands []string, boardSpec string) error {
	var board []poker.Card
	if boardSpec != "" {
		var err error
		if board, err = poker.ParseCards(boardSpec); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}

	cards := make([][]poker.Card, len(hands))
	ranks := make([]poker.HandRank, len(hands))
	var best poker.HandRank
	for i, spec := range hands {
		hand, err := poker.ParseCards(spec)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		all := append(hand, board...)
		rank, err := poker.Evaluate(all)
		if err != nil {
			return fmt.Errorf("hand %d (%s): %w", i+1, poker.FormatCards(all), err)
		}
		cards[i], ranks[i] = hand, rank
		best = max(best, rank)
	}

	if len(board) > 0 {
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("board"), poker.FormatCards(board))
	}
	for i, rank := range ranks {
		line := fmt.Sprintf("%-22s %s", poker.FormatCards(cards[i]), rank)
		if len(ranks) > 1 && rank == best {
			line = winnerStyle.Render(line + "  *")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
