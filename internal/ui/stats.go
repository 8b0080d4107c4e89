package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vpet/internal/game"
	"vpet/internal/pet"
)

const historyLines = 5

// StatsModel is a one-shot Bubble Tea model showing the pet's stats card
type StatsModel struct {
	Pet         *pet.Pet
	Hibernating bool
	Remaining   string
	Evolution   pet.EvolutionConfig
	Now         time.Time
}

// NewStatsModel captures the card from a loaded game
func NewStatsModel(g *game.Game) StatsModel {
	now := g.Now()
	return StatsModel{
		Pet:         g.Pet(),
		Hibernating: g.Hibernating(),
		Remaining:   g.Gate().RemainingFormatted(now),
		Evolution:   g.Config().Pet.Evolution,
		Now:         now,
	}
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// makeBar renders value out of 100 as width cells
func makeBar(value float64, width int) string {
	filled := int(math.Round(pet.Clamp(value) / pet.MaxStat * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// View implements tea.Model
func (m StatsModel) View() string {
	p := m.Pet
	row := func(label, value string) string {
		return fmt.Sprintf("║  %-10s %-30s ║\n", label+":", value)
	}
	bar := func(label string, value float64) string {
		return row(label, fmt.Sprintf("[%s] %3.0f%%", makeBar(value, 10), value))
	}

	var s strings.Builder
	s.WriteString("╔════════════════════════════════════════════╗\n")
	s.WriteString(row("Name", p.Stage.Emoji()+" "+p.Name))
	s.WriteString("╠════════════════════════════════════════════╣\n")
	s.WriteString(row("Stage", p.Stage.Title()))
	s.WriteString(row("Status", pet.GetStatusWithLabel(p, m.Hibernating)))
	if m.Hibernating {
		s.WriteString(row("Wakes in", m.Remaining))
	}

	if p.IsEgg() {
		s.WriteString(bar("Warmth", p.Warmth))
	} else {
		s.WriteString(row("Level", fmt.Sprintf("%d (%.1f)", p.WholeLevel(), p.Level)))
		s.WriteString(row("Age", p.AgeDisplay()))
		if progress, ok := p.EvolutionProgress(m.Evolution); ok {
			s.WriteString(row("Growth", fmt.Sprintf("%.0f%% to %s", progress.Percent, progress.Next.Title())))
		}
		s.WriteString(row("Traits", p.PersonalityDescription()))
		s.WriteString("║                                            ║\n")
		s.WriteString(bar("Hunger", p.Hunger))
		s.WriteString(bar("Happiness", p.Happiness))
		s.WriteString(bar("Energy", p.Energy))
		s.WriteString(bar("Health", p.Health))
		s.WriteString(bar("Clean", p.Cleanliness))
		s.WriteString("║                                            ║\n")
		s.WriteString(row("Sick", map[bool]string{true: "Yes", false: "No"}[p.IsSick]))
		s.WriteString(row("Battles", fmt.Sprintf("%d wins, %.0f%% of recent", p.Wins, p.WinRate()*100)))
		for i, record := range p.BattleHistory {
			if i == historyLines {
				break
			}
			s.WriteString(row("", record.Summary(m.Now)))
		}
	}

	s.WriteString("╚════════════════════════════════════════════╝\n")
	s.WriteString("\nPress ESC, click, or any key to close...")
	return s.String()
}

// DisplayStats shows the stats card until a key is pressed
func DisplayStats(m StatsModel) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	return err
}
