// Package relay talks to the battle relay server that pairs pets for
// online battles.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/oops"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vpet/internal/logger"
	"vpet/internal/pet"
	"vpet/internal/validate"
)

// Message types exchanged with the relay
const (
	TypeRequestBattle = "request_battle"
	TypeWaiting       = "waiting"
	TypeBattleStart   = "battle_start"
	TypeBattleAction  = "battle_action"
	TypeLeaveBattle   = "leave_battle"
	TypeBattleEnd     = "battle_end"
	TypeError         = "error"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// ErrRejected is returned when the relay answers a request with an error
var ErrRejected = errors.New("relay rejected request")

// Config holds relay connection settings
type Config struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

func DefaultConfig() Config {
	return Config{
		URL:       "ws://localhost:3000",
		Timeout:   30 * time.Second,
		RateLimit: 5,
		Burst:     5,
	}
}

// Validate checks the relay URL and limits
func (c Config) Validate() error {
	errb := oops.Code("INVALID_RELAY_CONFIG").In("relay")
	if res := validate.ServerURL(c.URL); !res.Valid {
		return errb.With("url", c.URL).Errorf("%s", res.Error)
	}
	if c.Timeout <= 0 {
		return errb.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit <= 0 || c.Burst < 1 {
		return errb.Errorf("rate_limit and burst must be positive, got %v/%d", c.RateLimit, c.Burst)
	}
	return nil
}

// Message is the relay's JSON envelope
type Message struct {
	Type     string          `json:"type"`
	BattleID string          `json:"battleId,omitempty"`
	PetData  *pet.Card       `json:"petData,omitempty"`
	Action   string          `json:"action,omitempty"`
	Message  string          `json:"message,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type battleStartData struct {
	YourPet     pet.Card `json:"yourPet"`
	OpponentPet pet.Card `json:"opponentPet"`
	YourTurn    bool     `json:"yourTurn"`
}

// Match is a battle the relay has paired us into
type Match struct {
	BattleID string
	Opponent pet.Card
	YourTurn bool
}

// Client is a single relay connection. A read pump owns the socket's read
// side for the connection's lifetime and hands matchmaking replies to
// RequestBattle. Writes are serialized.
type Client struct {
	ID uuid.UUID

	conn    *websocket.Conn
	limiter *rate.Limiter
	logger  *zap.Logger
	timeout time.Duration
	writeMu sync.Mutex

	// replies carries waiting, battle_start and error messages
	replies chan Message
	// done is closed when the read pump stops
	done    chan struct{}
	readErr error

	mu       sync.Mutex
	battleID string
}

// Dial connects to the relay at cfg.URL and starts the read pump
func Dial(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	header := http.Header{}
	header.Set("X-Client-ID", id.String())

	dialer := websocket.Dialer{HandshakeTimeout: cfg.Timeout}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		return nil, oops.Code("RELAY_DIAL").In("relay").With("url", cfg.URL).Wrapf(err, "connecting to relay")
	}
	conn.SetReadLimit(maxMessageSize)

	c := &Client{
		ID:      id,
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		logger:  logger.WithComponent(log, "relay").With(zap.String("client_id", id.String())),
		timeout: cfg.Timeout,
		replies: make(chan Message, 16),
		done:    make(chan struct{}),
	}
	go c.readPump()
	c.logger.Info("connected to relay", zap.String("url", cfg.URL))
	return c, nil
}

func (c *Client) send(ctx context.Context, msg Message) error {
	errb := oops.Code("RELAY_SEND").In("relay").With("type", msg.Type)
	if err := c.limiter.Wait(ctx); err != nil {
		return errb.Wrapf(err, "waiting for send slot")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errb.Wrapf(err, "encoding message")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errb.Wrapf(err, "writing message")
	}
	return nil
}

// readPump reads every frame until the connection fails or closes.
// Matchmaking replies go to RequestBattle; battle traffic is handled here.
func (c *Client) readPump() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("relay connection lost", zap.Error(err))
			}
			c.readErr = err
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("ignoring malformed relay message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case TypeWaiting, TypeBattleStart, TypeError:
			if msg.Type == TypeBattleStart {
				c.mu.Lock()
				c.battleID = msg.BattleID
				c.mu.Unlock()
			}
			select {
			case c.replies <- msg:
			default:
				c.logger.Warn("dropping relay reply, nobody is waiting", zap.String("type", msg.Type))
			}
		case TypeBattleEnd:
			c.mu.Lock()
			if msg.BattleID == "" || msg.BattleID == c.battleID {
				c.battleID = ""
			}
			c.mu.Unlock()
			c.logger.Info("relay battle ended", zap.String("battle_id", msg.BattleID), zap.ByteString("data", msg.Data))
		case TypeBattleAction:
			c.logger.Debug("opponent action relayed", zap.String("battle_id", msg.BattleID), zap.String("action", msg.Action))
		default:
			c.logger.Debug("ignoring relay message", zap.String("type", msg.Type))
		}
	}
}

// RequestBattle queues the pet for matchmaking and blocks until the relay
// starts a battle, rejects the request, or ctx ends. Without a ctx deadline
// the configured timeout applies. A timed out request leaves the
// connection usable.
func (c *Client) RequestBattle(ctx context.Context, card pet.Card) (Match, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	errb := oops.Code("RELAY_MATCH").In("relay")
	select {
	case <-c.done:
		return Match{}, errb.Wrapf(c.readErr, "relay connection closed")
	default:
	}

	c.drainReplies(ctx)
	if err := c.send(ctx, Message{Type: TypeRequestBattle, PetData: &card}); err != nil {
		return Match{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return Match{}, errb.Wrapf(ctx.Err(), "waiting for opponent")
		case <-c.done:
			return Match{}, errb.Wrapf(c.readErr, "relay connection closed")
		case msg := <-c.replies:
			switch msg.Type {
			case TypeWaiting:
				c.logger.Debug("queued for battle", zap.String("message", msg.Message))
			case TypeBattleStart:
				var start battleStartData
				if err := json.Unmarshal(msg.Data, &start); err != nil {
					return Match{}, errb.Wrapf(err, "decoding battle_start")
				}
				c.logger.Info("battle matched",
					zap.String("battle_id", msg.BattleID),
					zap.String("opponent", start.OpponentPet.Name),
					zap.Float64("opponent_level", start.OpponentPet.Level))
				return Match{BattleID: msg.BattleID, Opponent: start.OpponentPet, YourTurn: start.YourTurn}, nil
			case TypeError:
				return Match{}, errb.With("message", msg.Message).Wrapf(ErrRejected, "%s", msg.Message)
			}
		}
	}
}

// drainReplies discards replies left over from an earlier request. A battle
// the relay started after we stopped waiting is left at once.
func (c *Client) drainReplies(ctx context.Context) {
	for {
		select {
		case msg := <-c.replies:
			c.logger.Debug("discarding stale relay reply", zap.String("type", msg.Type))
			if msg.Type == TypeBattleStart {
				if err := c.Leave(ctx); err != nil {
					c.logger.Warn("leaving stale relay battle", zap.Error(err))
				}
			}
		default:
			return
		}
	}
}

// BattleID returns the current relay battle, or "" when none is active
func (c *Client) BattleID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.battleID
}

// SendAction forwards the player's action to the relay battle
func (c *Client) SendAction(ctx context.Context, action string) error {
	id := c.BattleID()
	if id == "" {
		return oops.Code("RELAY_SEND").In("relay").Errorf("no active relay battle")
	}
	return c.send(ctx, Message{Type: TypeBattleAction, BattleID: id, Action: action})
}

// Leave abandons the current relay battle. A no-op when none is active.
func (c *Client) Leave(ctx context.Context) error {
	c.mu.Lock()
	id := c.battleID
	c.battleID = ""
	c.mu.Unlock()
	if id == "" {
		return nil
	}
	return c.send(ctx, Message{Type: TypeLeaveBattle, BattleID: id})
}

// Close says goodbye and closes the connection
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return c.conn.Close()
}
