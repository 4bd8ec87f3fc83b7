package tui

import (
	"fmt"
	"strings"

	"github.com/lox/holdemtable/internal/table"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(" Texas Hold'em "))
	b.WriteString("\n\n")

	if !m.view.Active {
		b.WriteString(HelpStyle.Render("waiting for the server...\n"))
		b.WriteString("\n")
		b.WriteString(m.logView.View())
		b.WriteString("\n")
		b.WriteString(m.helpLine())
		return b.String()
	}

	b.WriteString(PhaseStyle.Render(fmt.Sprintf("*** %s ***", m.view.Phase)))
	b.WriteString("  ")
	b.WriteString(PotStyle.Render(fmt.Sprintf("pot %d", m.view.Pot)))
	if m.view.CurrentBet > 0 {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("  bet to match %d", m.view.CurrentBet)))
	}
	b.WriteString("\n\n")

	b.WriteString("Board: ")
	if len(m.view.Board) == 0 {
		b.WriteString(HelpStyle.Render("(no cards yet)"))
	} else {
		b.WriteString(FormatCards(m.view.Board))
	}
	b.WriteString("\n\n")

	for _, seat := range m.view.Seats {
		b.WriteString(m.renderSeat(seat))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.view.HandOver && m.view.Winner != "" {
		b.WriteString(WinnerStyle.Render(m.view.Winner))
		b.WriteString("\n\n")
	}

	b.WriteString(m.logView.View())
	b.WriteString("\n")

	if m.raising {
		b.WriteString("Raise to: " + m.raise.View() + HelpStyle.Render("  enter to confirm, esc to cancel"))
		b.WriteString("\n")
	} else if m.view.YourTurn {
		b.WriteString(YourTurnStyle.Render("Your turn."))
		b.WriteString(" ")
		b.WriteString(m.helpLine())
	} else {
		b.WriteString(m.helpLine())
	}

	return b.String()
}

func (m *Model) renderSeat(seat table.PlayerView) string {
	marker := " "
	if m.view.Human != nil && seat.ID == m.view.Human.ID {
		marker = "➤"
	}

	line := fmt.Sprintf("%s %-12s chips %5d  bet %4d", marker, seat.Name, seat.Chips, seat.BetAmount)
	if len(seat.Hand) > 0 {
		line += "  " + FormatCards(seat.Hand)
	}

	switch {
	case seat.Folded:
		return FoldedSeatStyle.Render(line + "  (folded)")
	case seat.AllIn():
		return SeatStyle.Render(line + "  (all-in)")
	default:
		return SeatStyle.Render(line)
	}
}

func (m *Model) renderLog() string {
	var b strings.Builder
	for _, e := range m.entries {
		if e.kind == kindDiagnostic {
			b.WriteString(ErrorStyle.Render(e.text))
		} else {
			b.WriteString(e.text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) helpLine() string {
	return HelpStyle.Render("f fold · c check · r raise · a all-in · n new match · g new game · R reset · q quit")
}

// FormatCards renders cards in short form with suit colouring.
func FormatCards(cards []table.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Red() {
			parts[i] = RedCardStyle.Render(c.String())
		} else {
			parts[i] = BlackCardStyle.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}
