package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"vpet/internal/battle"
	"vpet/internal/game"
	"vpet/internal/notify"
	"vpet/internal/pet"
)

// MessageDuration is how long a notification stays on screen
const MessageDuration = 3 * time.Second

// Inbox queues game notifications until the model draws them. Background
// commands notify through it, so it is locked.
type Inbox struct {
	mu      sync.Mutex
	pending []notify.Message
}

func (i *Inbox) Notify(message string, kind notify.Kind) {
	if message == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending = append(i.pending, notify.Message{Text: message, Kind: kind})
}

// Drain returns and clears the queued notifications
func (i *Inbox) Drain() []notify.Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.pending
	i.pending = nil
	return out
}

type mode int

const (
	modeMain mode = iota
	modeRename
	modeHibernate
)

// Options carries optional start-up state for the model
type Options struct {
	// Feed enables online battles when set
	Feed game.OpponentFeed
	// Away is shown once on start-up
	Away *pet.TimeAway
}

// Model is the Bubble Tea model for the main game screen
type Model struct {
	game  *game.Game
	inbox *Inbox
	feed  game.OpponentFeed
	ctx   context.Context

	Choice         int
	BattleChoice   int
	Quitting       bool
	Searching      bool
	Message        string
	MessageKind    notify.Kind
	MessageExpires time.Time
	Animation      Animation

	mode  mode
	input string
	days  int
}

type tickMsg time.Time

type animTickMsg struct {
	started time.Time
}

// opponentTurnMsg fires after the turn delay for the battle it names
type opponentTurnMsg struct {
	id uuid.UUID
}

type matchMsg struct {
	err error
}

// NewModel creates the game screen. The inbox must be the sink g notifies.
func NewModel(ctx context.Context, g *game.Game, inbox *Inbox, opts Options) Model {
	m := Model{
		game:  g,
		inbox: inbox,
		feed:  opts.Feed,
		ctx:   ctx,
		days:  1,
	}
	m.drain()
	if opts.Away != nil {
		m.setMessage(opts.Away.Describe(), notify.Info)
		m.MessageExpires = m.game.Now().Add(3 * MessageDuration)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.game.Config().Game.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.drain()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.game.Tick(m.ctx)
		return m.tick()

	case animTickMsg:
		// drop ticks that belong to an older animation
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return nil
		}
		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return nil
		}
		return animTick(m.Animation.StartTime)

	case opponentTurnMsg:
		m.game.ResolveOpponentTurn(m.ctx, msg.id)

	case matchMsg:
		m.Searching = false
		m.BattleChoice = 0
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	// while an animation is playing only quitting works
	if m.Animation.Type != AnimNone {
		if key == "q" {
			return m.quit()
		}
		return nil
	}

	switch {
	case m.mode == modeRename:
		return m.handleRename(msg)
	case m.mode == modeHibernate:
		return m.handleHibernate(key)
	case m.game.Battle() != nil:
		return m.handleBattle(key)
	case m.Searching:
		return nil
	}

	items := m.menu()
	switch key {
	case "q":
		return m.quit()
	case "n":
		if !m.game.Pet().IsEgg() {
			m.mode = modeRename
			m.input = ""
		}
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(items)-1 {
			m.Choice++
		}
	case "enter", " ":
		if m.Choice >= len(items) {
			m.Choice = len(items) - 1
		}
		return items[m.Choice].run(m)
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Quitting = true
	return tea.Quit
}

type menuItem struct {
	label string
	run   func(m *Model) tea.Cmd
}

// menu lists what the player can do right now. Eggs only get the
// incubator controls.
func (m Model) menu() []menuItem {
	quit := menuItem{"Quit", (*Model).quit}

	if m.game.Pet().IsEgg() {
		return []menuItem{
			{"Warm", func(m *Model) tea.Cmd { return m.act(AnimNone, m.game.Warm) }},
			{"Hatch", func(m *Model) tea.Cmd { return m.act(AnimHatch, m.game.Hatch) }},
			quit,
		}
	}

	items := []menuItem{
		{"Feed", func(m *Model) tea.Cmd { return m.act(AnimFeed, m.game.Feed) }},
		{"Play", func(m *Model) tea.Cmd { return m.act(AnimPlay, m.game.Play) }},
		{"Train", func(m *Model) tea.Cmd { return m.act(AnimTrain, m.game.Train) }},
		{"Clean", func(m *Model) tea.Cmd { return m.act(AnimClean, m.game.Clean) }},
		{"Sleep", (*Model).toggleSleep},
		{"Medicine", func(m *Model) tea.Cmd { return m.act(AnimMedicine, m.game.GiveMedicine) }},
		{"Battle", (*Model).startBattle},
	}
	if m.feed != nil {
		items = append(items, menuItem{"Online Battle", (*Model).findOpponent})
	}
	if m.game.Hibernating() {
		items = append(items, menuItem{"Wake Up", (*Model).wakeUp})
	} else {
		items = append(items, menuItem{"Hibernate", (*Model).openHibernate})
	}
	return append(items, quit)
}

// act runs a game action and plays its animation when it applied
func (m *Model) act(anim AnimationType, fn func(context.Context) pet.ActionResult) tea.Cmd {
	if result := fn(m.ctx); !result.OK || anim == AnimNone {
		return nil
	}
	return m.startAnimation(anim)
}

func (m *Model) toggleSleep() tea.Cmd {
	result := m.game.Sleep(m.ctx)
	if result.OK && m.game.Pet().IsSleeping {
		return m.startAnimation(AnimSleep)
	}
	return nil
}

func (m *Model) startBattle() tea.Cmd {
	if b, _ := m.game.StartBattle(m.ctx); b != nil {
		m.BattleChoice = 0
	}
	return nil
}

// findOpponent waits for a relay match in the background
func (m *Model) findOpponent() tea.Cmd {
	m.Searching = true
	m.setMessage("🌐 Searching for an opponent...", notify.Info)
	g, ctx, feed := m.game, m.ctx, m.feed
	return func() tea.Msg {
		_, _, err := g.StartOnlineBattle(ctx, feed)
		return matchMsg{err: err}
	}
}

func (m *Model) wakeUp() tea.Cmd {
	m.game.WakeFromHibernation(m.ctx)
	return nil
}

func (m *Model) openHibernate() tea.Cmd {
	m.mode = modeHibernate
	m.days = 1
	return nil
}

func (m *Model) handleHibernate(key string) tea.Cmd {
	maxDays := m.game.Gate().Limits().MaxDays
	switch key {
	case "q":
		return m.quit()
	case "esc":
		m.mode = modeMain
	case "up", "k", "right", "l", "+":
		if m.days < maxDays {
			m.days++
		}
	case "down", "j", "left", "h", "-":
		if m.days > 1 {
			m.days--
		}
	case "enter", " ":
		m.game.StartHibernation(m.ctx, m.days)
		m.mode = modeMain
	}
	return nil
}

func (m *Model) handleRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeMain
	case tea.KeyEnter:
		if m.game.Rename(m.ctx, m.input).Valid {
			m.mode = modeMain
		}
	case tea.KeyBackspace:
		if runes := []rune(m.input); len(runes) > 0 {
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return nil
}

var battleActions = []battle.Action{battle.ActionAttack, battle.ActionDefend, battle.ActionSpecial}

func (m *Model) handleBattle(key string) tea.Cmd {
	b := m.game.Battle()
	if !b.Active() {
		switch key {
		case "q":
			return m.quit()
		case "enter", " ", "esc":
			m.game.EndBattle(m.ctx)
		}
		return nil
	}

	switch key {
	case "esc":
		m.game.EndBattle(m.ctx)
		m.setMessage("🏃 You fled the battle.", notify.Info)
		return nil
	case "a":
		return m.submit(b, battle.ActionAttack)
	case "d":
		return m.submit(b, battle.ActionDefend)
	case "s":
		return m.submit(b, battle.ActionSpecial)
	case "up", "k":
		if m.BattleChoice > 0 {
			m.BattleChoice--
		}
	case "down", "j":
		if m.BattleChoice < len(battleActions)-1 {
			m.BattleChoice++
		}
	case "enter", " ":
		return m.submit(b, battleActions[m.BattleChoice])
	}
	return nil
}

// submit plays the player's move and schedules the opponent's reply
func (m *Model) submit(b *battle.Battle, action battle.Action) tea.Cmd {
	result := m.game.BattleAction(m.ctx, action)
	if !result.OpponentPending {
		return nil
	}
	id := b.ID
	return tea.Tick(m.game.Config().Battle.TurnDelay, func(time.Time) tea.Msg {
		return opponentTurnMsg{id: id}
	})
}

func (m *Model) drain() {
	for _, msg := range m.inbox.Drain() {
		m.setMessage(msg.Text, msg.Kind)
	}
}

func (m *Model) setMessage(text string, kind notify.Kind) {
	m.Message = text
	m.MessageKind = kind
	m.MessageExpires = m.game.Now().Add(MessageDuration)
}

func (m *Model) startAnimation(animType AnimationType) tea.Cmd {
	m.Animation = Animation{
		Type:      animType,
		StartTime: m.game.Now(),
	}
	return animTick(m.Animation.StartTime)
}
