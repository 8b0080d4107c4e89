package battle

import (
	"fmt"

	"github.com/google/uuid"
)

// Action is a combat move
type Action string

const (
	ActionAttack  Action = "attack"
	ActionDefend  Action = "defend"
	ActionSpecial Action = "special"
)

// Valid reports whether a is a known action
func (a Action) Valid() bool {
	return a == ActionAttack || a == ActionDefend || a == ActionSpecial
}

// Side identifies whose turn it is
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SideOpponent {
		return "opponent"
	}
	return "player"
}

// Outcome is the terminal result of a battle from the player's view
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

// TurnResult reports what a single call did to the battle
type TurnResult struct {
	Accepted        bool
	Messages        []string
	OpponentPending bool
	Ended           bool
	Outcome         Outcome
}

// Battle is one combat session. It is not safe for concurrent use; the game
// drives it from a single goroutine.
type Battle struct {
	ID       uuid.UUID
	Player   Stats
	Opponent Stats

	turn              Side
	active            bool
	outcome           Outcome
	playerDefending   bool
	opponentDefending bool
	log               []string

	rng Rand
	cfg Config
}

// New starts a battle against a procedurally generated opponent
func New(player Stats, rng Rand, cfg Config) *Battle {
	return StartWith(player, GenerateOpponent(player.Level, rng, cfg), rng, cfg)
}

// StartWith starts a battle against a known opponent, local or remote.
// The player always moves first.
func StartWith(player, opponent Stats, rng Rand, cfg Config) *Battle {
	player.CurrentHP = player.MaxHP
	opponent.CurrentHP = opponent.MaxHP
	return &Battle{
		ID:       uuid.New(),
		Player:   player,
		Opponent: opponent,
		turn:     SidePlayer,
		active:   true,
		rng:      rng,
		cfg:      cfg,
	}
}

// Active reports whether the battle still accepts actions
func (b *Battle) Active() bool { return b.active }

// Turn returns whose move it is
func (b *Battle) Turn() Side { return b.turn }

// Outcome returns the terminal result, or OutcomeNone while active or abandoned
func (b *Battle) Outcome() Outcome { return b.outcome }

// PlayerWon reports whether the battle ended with the player still standing
func (b *Battle) PlayerWon() bool {
	return !b.active && b.Player.CurrentHP > 0
}

// PlayerDefending reports whether the player's guard is up
func (b *Battle) PlayerDefending() bool { return b.playerDefending }

// OpponentDefending reports whether the opponent's guard is up
func (b *Battle) OpponentDefending() bool { return b.opponentDefending }

// Log returns a copy of the narration so far
func (b *Battle) Log() []string {
	return append([]string(nil), b.log...)
}

// Abandon ends the battle without an outcome. Later calls are no-ops.
func (b *Battle) Abandon() {
	if !b.active {
		return
	}
	b.active = false
	b.addLog("The battle was abandoned.")
}

// Submit resolves the player's action. Out-of-turn or post-battle calls are
// ignored and return an unaccepted result.
func (b *Battle) Submit(action Action) TurnResult {
	if !b.active || b.turn != SidePlayer || !action.Valid() {
		return TurnResult{}
	}

	mark := len(b.log)
	b.resolve(SidePlayer, action)

	result := TurnResult{Accepted: true}
	if !b.checkEnd() {
		b.turn = SideOpponent
		result.OpponentPending = true
	}
	return b.finish(result, mark)
}

// ResolveOpponentTurn runs the AI's move. A no-op unless the battle is
// active and waiting on the opponent.
func (b *Battle) ResolveOpponentTurn() TurnResult {
	if !b.active || b.turn != SideOpponent {
		return TurnResult{}
	}

	mark := len(b.log)
	b.resolve(SideOpponent, ChooseAction(b.Opponent.HPFraction(), b.rng, b.cfg))

	if !b.checkEnd() {
		b.turn = SidePlayer
	}
	return b.finish(TurnResult{Accepted: true}, mark)
}

// Exchange submits the player's action and immediately resolves the
// opponent's reply, for callers that do not pace turns
func (b *Battle) Exchange(action Action) TurnResult {
	result := b.Submit(action)
	if !result.OpponentPending {
		return result
	}
	reply := b.ResolveOpponentTurn()
	result.Messages = append(result.Messages, reply.Messages...)
	result.OpponentPending = false
	result.Ended = reply.Ended
	result.Outcome = reply.Outcome
	return result
}

func (b *Battle) finish(result TurnResult, mark int) TurnResult {
	result.Messages = append([]string(nil), b.log[mark:]...)
	result.Ended = !b.active
	result.Outcome = b.outcome
	return result
}

func (b *Battle) resolve(actor Side, action Action) {
	attacker, defender := &b.Player, &b.Opponent
	ownGuard, targetGuard := &b.playerDefending, &b.opponentDefending
	who := "Your pet"
	if actor == SideOpponent {
		attacker, defender = &b.Opponent, &b.Player
		ownGuard, targetGuard = &b.opponentDefending, &b.playerDefending
		who = "Opponent"
	}

	switch action {
	case ActionDefend:
		*ownGuard = true
		b.addLog(who + " takes a defensive stance!")
	case ActionAttack, ActionSpecial:
		attack := float64(attacker.Attack)
		if action == ActionSpecial {
			attack *= b.cfg.SpecialMultiplier
		}
		damage := CalculateDamage(attack, float64(defender.Defense), *targetGuard, b.rng, b.cfg)
		defender.takeDamage(damage)
		*targetGuard = false
		if action == ActionSpecial {
			b.addLog(fmt.Sprintf("%s uses a special attack for %d damage!", who, damage))
		} else {
			b.addLog(fmt.Sprintf("%s attacks for %d damage!", who, damage))
		}
	}
}

func (b *Battle) checkEnd() bool {
	playerDown := !b.Player.Alive()
	opponentDown := !b.Opponent.Alive()

	switch {
	case playerDown && opponentDown:
		b.outcome = OutcomeDraw
		b.addLog("🤝 The battle ended in a draw!")
	case opponentDown:
		b.outcome = OutcomeWin
		b.addLog("🏆 Victory! Your pet won the battle!")
	case playerDown:
		b.outcome = OutcomeLose
		b.addLog("💔 Defeat! Your pet lost the battle.")
	default:
		return false
	}
	b.active = false
	return true
}

func (b *Battle) addLog(message string) {
	b.log = append(b.log, message)
}
