package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vpet/internal/pet"
)

var upgrader = websocket.Upgrader{}

// fakeRelay runs handle for every websocket connection and records the
// messages it reads through the returned channel
func fakeRelay(t *testing.T, handle func(conn *websocket.Conn, received chan<- Message)) (string, <-chan Message) {
	t.Helper()
	received := make(chan Message, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn, received)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), received
}

func readMessage(conn *websocket.Conn) (Message, error) {
	var msg Message
	_, data, err := conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	err = json.Unmarshal(data, &msg)
	return msg, err
}

func testConfig(url string) Config {
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = 100
	return cfg
}

var card = pet.Card{Name: "Pixel", Stage: "child", Health: 90, Hunger: 80, Happiness: 70, Energy: 60, Level: 3, Wins: 2}

func TestRequestBattle(t *testing.T) {
	opponent := pet.Card{Name: "Byte", Stage: "teen", Health: 100, Hunger: 100, Happiness: 100, Energy: 100, Level: 4}

	url, received := fakeRelay(t, func(conn *websocket.Conn, received chan<- Message) {
		for {
			msg, err := readMessage(conn)
			if err != nil {
				return
			}
			received <- msg
			if msg.Type == TypeRequestBattle {
				conn.WriteJSON(Message{Type: TypeWaiting, Message: "Waiting for opponent..."})
				conn.WriteJSON(map[string]any{"type": "battle_request"})
				data, _ := json.Marshal(battleStartData{YourPet: *msg.PetData, OpponentPet: opponent, YourTurn: true})
				conn.WriteJSON(Message{Type: TypeBattleStart, BattleID: "b-1", Data: data})
			}
		}
	})

	ctx := context.Background()
	c, err := Dial(ctx, testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	match, err := c.RequestBattle(ctx, card)
	require.NoError(t, err)
	assert.Equal(t, "b-1", match.BattleID)
	assert.Equal(t, opponent, match.Opponent)
	assert.True(t, match.YourTurn)
	assert.Equal(t, "b-1", c.BattleID())

	req := <-received
	assert.Equal(t, TypeRequestBattle, req.Type)
	require.NotNil(t, req.PetData)
	assert.Equal(t, card, *req.PetData)

	require.NoError(t, c.SendAction(ctx, "attack"))
	action := <-received
	assert.Equal(t, TypeBattleAction, action.Type)
	assert.Equal(t, "b-1", action.BattleID)
	assert.Equal(t, "attack", action.Action)

	require.NoError(t, c.Leave(ctx))
	leave := <-received
	assert.Equal(t, TypeLeaveBattle, leave.Type)
	assert.Equal(t, "b-1", leave.BattleID)
	assert.Empty(t, c.BattleID())
}

func TestRequestBattleRejected(t *testing.T) {
	url, _ := fakeRelay(t, func(conn *websocket.Conn, _ chan<- Message) {
		if _, err := readMessage(conn); err != nil {
			return
		}
		conn.WriteJSON(Message{Type: TypeError, Message: "Invalid message format"})
		readMessage(conn)
	})

	ctx := context.Background()
	c, err := Dial(ctx, testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.RequestBattle(ctx, card)
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid message format")
}

func TestRequestBattleTimeout(t *testing.T) {
	url, _ := fakeRelay(t, func(conn *websocket.Conn, _ chan<- Message) {
		for {
			if _, err := readMessage(conn); err != nil {
				return
			}
		}
	})

	c, err := Dial(context.Background(), testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = c.RequestBattle(ctx, card)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestBattleAfterTimeout(t *testing.T) {
	url, received := fakeRelay(t, func(conn *websocket.Conn, received chan<- Message) {
		requests := 0
		for {
			msg, err := readMessage(conn)
			if err != nil {
				return
			}
			received <- msg
			if msg.Type != TypeRequestBattle {
				continue
			}
			requests++
			if requests == 1 {
				// nobody else is queued yet
				conn.WriteJSON(Message{Type: TypeWaiting, Message: "Waiting for opponent..."})
				continue
			}
			conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"battle_start","battleId":"b-2",`+
				`"data":{"yourTurn":false,"opponentPet":{"name":"Remote","stage":"teen","level":3.4,"health":80}}}`))
		}
	})

	c, err := Dial(context.Background(), testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = c.RequestBattle(ctx, card)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	match, err := c.RequestBattle(context.Background(), card)
	require.NoError(t, err)
	assert.Equal(t, "b-2", match.BattleID)
	assert.Equal(t, "Remote", match.Opponent.Name)
	assert.InDelta(t, 3.4, match.Opponent.Level, 1e-9)
	assert.Equal(t, 3, match.Opponent.WholeLevel())
	assert.False(t, match.YourTurn)

	assert.Equal(t, TypeRequestBattle, (<-received).Type)
	assert.Equal(t, TypeRequestBattle, (<-received).Type)
}

func TestBattleEndClearsBattle(t *testing.T) {
	url, _ := fakeRelay(t, func(conn *websocket.Conn, _ chan<- Message) {
		for {
			msg, err := readMessage(conn)
			if err != nil {
				return
			}
			if msg.Type == TypeRequestBattle {
				data, _ := json.Marshal(battleStartData{OpponentPet: card})
				conn.WriteJSON(Message{Type: TypeBattleStart, BattleID: "b-3", Data: data})
				conn.WriteJSON(Message{Type: TypeBattleAction, BattleID: "b-3", Action: "defend"})
				conn.WriteJSON(Message{Type: TypeBattleEnd, BattleID: "b-3", Data: json.RawMessage(`{"winner":"opponent","reason":"opponent_left"}`)})
			}
		}
	})

	c, err := Dial(context.Background(), testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.RequestBattle(context.Background(), card)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return c.BattleID() == "" }, time.Second, 10*time.Millisecond)
	assert.Error(t, c.SendAction(context.Background(), "attack"))
}

func TestRequestBattleConnectionLost(t *testing.T) {
	url, _ := fakeRelay(t, func(conn *websocket.Conn, _ chan<- Message) {
		readMessage(conn)
	})

	c, err := Dial(context.Background(), testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.RequestBattle(context.Background(), card)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendActionWithoutBattle(t *testing.T) {
	url, _ := fakeRelay(t, func(conn *websocket.Conn, _ chan<- Message) {
		readMessage(conn)
	})

	c, err := Dial(context.Background(), testConfig(url), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.SendAction(context.Background(), "attack"))
	assert.NoError(t, c.Leave(context.Background()))
}

func TestDialRejectsBadConfig(t *testing.T) {
	_, err := Dial(context.Background(), testConfig("http://localhost:3000"), zap.NewNop())
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Burst = 0
	assert.Error(t, cfg.Validate())
}
