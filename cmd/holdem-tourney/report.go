package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdem-tourney/internal/simulator"
	"github.com/lox/holdem-tourney/internal/tournament"
	"github.com/lox/holdem-tourney/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	bustStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderRound prints one line per round: the board, the pot and the stacks.
func renderRound(w io.Writer, s tournament.RoundSummary) {
	var stacks []string
	for _, st := range s.Stacks {
		if st.Chips == 0 {
			continue
		}
		stacks = append(stacks, fmt.Sprintf("%s %d", st.Name, st.Chips))
	}
	board := poker.FormatCards(s.Hand.Board)
	if board == "" {
		board = "-"
	}
	fmt.Fprintf(w, "%s %-14s pot %-6d %s\n",
		mutedStyle.Render(fmt.Sprintf("#%-4d", s.Round)), board, s.Hand.Pot(), strings.Join(stacks, "  "))
	for _, e := range s.Eliminated {
		fmt.Fprintf(w, "      %s\n", bustStyle.Render(fmt.Sprintf("%s busts in %s place", e.Name, ordinal(e.Place))))
	}
}

// renderTournament prints the final standings of a single tournament.
func renderTournament(w io.Writer, res *tournament.Result) {
	title := fmt.Sprintf("Tournament %s: %d rounds", res.ID, res.Rounds)
	if winner, ok := res.Winner(); ok {
		title += ", won by " + winnerStyle.Render(winner.Name)
	} else {
		title += warnStyle.Render(" (round limit reached)")
	}
	fmt.Fprintln(w, headerStyle.Render(title))
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "PLACE\tPLAYER\tSTRATEGY\tCHIPS\tOUT\tTIMEOUTS\tERRORS\tCORRECTED")
	for _, s := range res.Standings {
		out := "-"
		if s.EliminatedRound > 0 {
			out = fmt.Sprintf("round %d", s.EliminatedRound)
		}
		f := res.Failures[s.PlayerID]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%d\n",
			ordinal(s.Place), s.Name, s.Tag, s.Chips, out, f.Timeouts, f.Errors, f.Corrections)
	}
	_ = tw.Flush()
}

// renderReport prints per-player aggregates over a batch.
func renderReport(w io.Writer, batch *simulator.Batch) {
	r := batch.Report
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d tournaments, %d played to a winner, %.1f rounds on average",
		r.Tournaments, r.Finished, r.Rounds.Mean())))
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "PLAYER\tSTRATEGY\tWINS\tWIN%\tAVG PLACE\tNET CHIPS\tVOLATILITY\tAVG BET\tAGGRESSION\tPASSIVITY\tFAILURES")
	for _, p := range r.Players() {
		failures := p.Failures.Timeouts + p.Failures.Errors
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.2f\t%+d\t%.0f\t%.1f\t%.2f\t%.2f\t%d\n",
			p.Name, p.Tag, p.Wins, 100*p.WinRate(), p.Places.Mean(), p.NetChips,
			p.Volatility(), p.AvgBet(), p.Aggression(), p.Passivity(), failures)
	}
	_ = tw.Flush()
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
