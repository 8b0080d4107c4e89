package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vpet/internal/battle"
	"vpet/internal/notify"
	"vpet/internal/pet"
)

const battleLogLines = 5

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	hp      lipgloss.Style
	anim    lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(40),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(40),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	hp: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7CFC00")),

	anim: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2),
}

var messageColors = map[notify.Kind]lipgloss.Color{
	notify.Success: lipgloss.Color("#7CFC00"),
	notify.Warning: lipgloss.Color("#FFD700"),
	notify.Error:   lipgloss.Color("#FF4040"),
	notify.Info:    lipgloss.Color("#87CEFA"),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}
	if b := m.game.Battle(); b != nil {
		return m.renderBattle(b)
	}

	p := m.game.Pet()
	sections := []string{m.renderTitle(p), "", m.renderStats(p), "", m.renderStatus(p)}

	if message := m.renderMessage(); message != "" {
		sections = append(sections, "", message)
	}

	var help string
	switch m.mode {
	case modeRename:
		sections = append(sections, "", gameStyles.menuBox.Render("New name: "+m.input+"▏"))
		help = "enter to confirm • esc to cancel"
	case modeHibernate:
		sections = append(sections, "", gameStyles.menuBox.Render(fmt.Sprintf("Hibernate for ◀ %s ▶", plural(m.days, "day"))))
		help = "arrows to change • enter to start • esc to cancel"
	default:
		sections = append(sections, "", m.renderMenu())
		help = "Use arrows to move • enter to select • q to quit"
		if !p.IsEgg() {
			help = "Use arrows to move • enter to select • n to rename • q to quit"
		}
		if m.Searching {
			help = "Waiting for the relay..."
		}
	}

	sections = append(sections, "", gameStyles.status.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle(p *pet.Pet) string {
	emoji := p.Stage.Emoji()
	return gameStyles.title.Render(emoji + " " + p.Name + " " + emoji)
}

func (m Model) renderMessage() string {
	if m.Message == "" || !m.game.Now().Before(m.MessageExpires) {
		return ""
	}
	style := gameStyles.status
	if color, ok := messageColors[m.MessageKind]; ok {
		style = style.Foreground(color)
	}
	return style.Render(m.Message)
}

func (m Model) renderStats(p *pet.Pet) string {
	var stats []struct{ name, value string }
	add := func(name, value string) {
		stats = append(stats, struct{ name, value string }{name, value})
	}

	if p.IsEgg() {
		add("Stage", p.Stage.Title())
		add("Warmth", fmt.Sprintf("%.0f%%", p.Warmth))
		add("Incubator", map[bool]string{true: "On", false: "Off"}[p.IsIncubating])
	} else {
		add("Stage", p.Stage.Title())
		add("Level", fmt.Sprintf("%d", p.WholeLevel()))
		add("Age", p.AgeDisplay())
		add("Hunger", fmt.Sprintf("%.0f%%", p.Hunger))
		add("Happiness", fmt.Sprintf("%.0f%%", p.Happiness))
		add("Energy", fmt.Sprintf("%.0f%%", p.Energy))
		add("Health", fmt.Sprintf("%.0f%%", p.Health))
		add("Clean", fmt.Sprintf("%.0f%%", p.Cleanliness))
		add("Wins", fmt.Sprintf("%d", p.Wins))
		add("Traits", p.PersonalityDescription())
		if progress, ok := p.EvolutionProgress(m.game.Config().Pet.Evolution); ok {
			add("Growth", fmt.Sprintf("%.0f%% to %s", progress.Percent, progress.Next.Title()))
		}
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-10s %s", stat.name+":", stat.value))
	}
	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus(p *pet.Pet) string {
	hibernating := m.game.Hibernating()
	status := "Status: " + pet.GetStatusWithLabel(p, hibernating)
	if hibernating {
		status += "\nWakes in: " + m.game.Gate().RemainingFormatted(m.game.Now())
	}
	return gameStyles.status.Render(status)
}

func (m Model) renderMenu() string {
	items := m.menu()
	choice := min(m.Choice, len(items)-1)

	var menuItems []string
	for i, item := range items {
		cursor := " "
		if choice == i {
			cursor = ">"
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, item.label))
	}
	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderBattle(b *battle.Battle) string {
	title := gameStyles.title.Render(fmt.Sprintf("⚔️ %s vs %s ⚔️", b.Player.Name, b.Opponent.Name))

	fighters := lipgloss.JoinVertical(lipgloss.Left,
		fighterLine(b.Player, b.PlayerDefending()),
		fighterLine(b.Opponent, b.OpponentDefending()),
	)

	log := b.Log()
	if len(log) > battleLogLines {
		log = log[len(log)-battleLogLines:]
	}

	sections := []string{title, "", fighters, "", gameStyles.status.Render(strings.Join(log, "\n"))}

	var help string
	switch {
	case !b.Active():
		help = "Press enter to continue"
	case b.Turn() == battle.SideOpponent:
		sections = append(sections, "", gameStyles.menuBox.Render("Opponent is thinking..."))
		help = "esc to flee"
	default:
		var menuItems []string
		for i, action := range battleActions {
			cursor := " "
			if m.BattleChoice == i {
				cursor = ">"
			}
			menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, strings.ToUpper(string(action[:1]))+string(action[1:])))
		}
		sections = append(sections, "", gameStyles.menuBox.Render(strings.Join(menuItems, "\n")))
		help = "[A]ttack [D]efend [S]pecial • esc to flee"
	}

	if message := m.renderMessage(); message != "" {
		sections = append(sections, "", message)
	}
	sections = append(sections, "", gameStyles.status.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func fighterLine(s battle.Stats, defending bool) string {
	guard := ""
	if defending {
		guard = " 🛡️"
	}
	return fmt.Sprintf("%-16s Lv %-3d %s %3d/%-3d%s",
		s.Name, s.Level, gameStyles.hp.Render(makeBar(s.HPFraction()*100, 10)), s.CurrentHP, s.MaxHP, guard)
}

func (m Model) renderAnimation() string {
	p := m.game.Pet()
	sections := []string{m.renderTitle(p), "", gameStyles.anim.Render(GetAnimationFrame(m.Animation))}
	if message := m.renderMessage(); message != "" {
		sections = append(sections, "", message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
