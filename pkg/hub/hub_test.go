package hub

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/tictactoe"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/messages"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/queue"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/registry"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/rooms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records every envelope written to a connection.
type fakeSender struct {
	mu   sync.Mutex
	msgs []messages.Message
}

func (f *fakeSender) WriteMessage(messageType int, data []byte) error {
	var m messages.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeSender) ofType(msgType string) []messages.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []messages.Message
	for _, m := range f.msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = nil
}

type testRig struct {
	hub   *Hub
	queue queue.Queue
	a, b  *fakeSender
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	rig := &testRig{
		queue: queue.NewInMemoryQueue(64),
		a:     &fakeSender{},
		b:     &fakeSender{},
	}
	rig.hub = NewHub(NewHubOptions{
		Catalog:        registry.NewCatalog(map[games.Variant]games.Factory{games.VariantTicTacToe: tictactoe.New}),
		Presence:       rooms.NewTracker(),
		SnapshotQueue:  rig.queue,
		CompletedDelay: 5 * time.Millisecond,
	})
	rig.hub.Connect("conn-a", rig.a)
	rig.hub.Connect("conn-b", rig.b)
	return rig
}

func inbound(t *testing.T, msgType, room, game string, payload interface{}) *messages.Message {
	t.Helper()
	msg, err := messages.New(msgType, room, game, payload)
	require.NoError(t, err)
	return msg
}

func (r *testRig) joinGame(t *testing.T, connID, name string) {
	t.Helper()
	r.hub.HandleMessage(connID, inbound(t, messages.MessageTypeClientJoinGame, "room-1", "tictactoe",
		messages.ClientJoinGame{Name: name}))
}

func (r *testRig) act(t *testing.T, connID string, cell int) {
	t.Helper()
	data, err := json.Marshal(map[string]int{"cell": cell})
	require.NoError(t, err)
	r.hub.HandleMessage(connID, inbound(t, messages.MessageTypeClientAction, "room-1", "tictactoe",
		messages.ClientAction{Action: tictactoe.ActionPlace, Data: data}))
}

func TestHub_Ping(t *testing.T) {
	rig := newTestRig(t)

	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientPing, "", "", nil))
	require.Len(t, rig.a.ofType(messages.MessageTypeServerPong), 1)
	assert.Zero(t, rig.b.count(), "pong goes to the pinger only")
}

func TestHub_JoinRoomBroadcastsRoster(t *testing.T) {
	rig := newTestRig(t)

	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "caitlyn"}))
	rig.hub.HandleMessage("conn-b", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "vi"}))

	states := rig.a.ofType(messages.MessageTypeServerRoomState)
	require.Len(t, states, 2, "one roster per join")

	var state messages.ServerRoomState
	require.NoError(t, json.Unmarshal(states[1].Payload, &state))
	names := []string{state.Members[0].Name, state.Members[1].Name}
	assert.ElementsMatch(t, []string{"caitlyn", "vi"}, names)
}

func TestHub_ChatFansOutToRoomMembers(t *testing.T) {
	rig := newTestRig(t)
	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "caitlyn"}))
	rig.hub.HandleMessage("conn-b", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "vi"}))

	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientChat, "room-1", "",
		messages.ClientChat{Text: "ready?"}))

	for _, s := range []*fakeSender{rig.a, rig.b} {
		chats := s.ofType(messages.MessageTypeServerChat)
		require.Len(t, chats, 1)
		var chat messages.ServerChat
		require.NoError(t, json.Unmarshal(chats[0].Payload, &chat))
		assert.Equal(t, "caitlyn", chat.From)
		assert.Equal(t, "ready?", chat.Text)
	}
}

func TestHub_ChatFromOutsideTheRoomIsDropped(t *testing.T) {
	rig := newTestRig(t)
	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "caitlyn"}))

	rig.hub.HandleMessage("conn-b", inbound(t, messages.MessageTypeClientChat, "room-1", "",
		messages.ClientChat{Text: "let me in"}))
	assert.Empty(t, rig.a.ofType(messages.MessageTypeServerChat))
}

func TestHub_JoinGameAssignsRoles(t *testing.T) {
	rig := newTestRig(t)

	rig.joinGame(t, "conn-a", "caitlyn")
	joined := rig.a.ofType(messages.MessageTypeServerJoined)
	require.Len(t, joined, 1)
	var j messages.ServerJoined
	require.NoError(t, json.Unmarshal(joined[0].Payload, &j))
	assert.Equal(t, "piltover", j.Role)

	rig.joinGame(t, "conn-b", "vi")
	joined = rig.b.ofType(messages.MessageTypeServerJoined)
	require.Len(t, joined, 1)
	require.NoError(t, json.Unmarshal(joined[0].Payload, &j))
	assert.Equal(t, "zaun", j.Role)

	// The second join refreshed both players' views.
	assert.NotEmpty(t, rig.a.ofType(messages.MessageTypeServerPlayerView))
	assert.NotEmpty(t, rig.b.ofType(messages.MessageTypeServerGameState))
}

func TestHub_ThirdJoinerGetsGameFull(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")

	c := &fakeSender{}
	rig.hub.Connect("conn-c", c)
	rig.hub.HandleMessage("conn-c", inbound(t, messages.MessageTypeClientJoinGame, "room-1", "tictactoe",
		messages.ClientJoinGame{Name: "jayce"}))

	require.Len(t, c.ofType(messages.MessageTypeServerGameFull), 1)
	assert.Empty(t, c.ofType(messages.MessageTypeServerJoined))
}

func TestHub_ActionWithoutInstanceIsDroppedSilently(t *testing.T) {
	rig := newTestRig(t)

	rig.act(t, "conn-a", 4)
	assert.Zero(t, rig.a.count(), "no instance, no reply")

	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientAction, "room-1", "unknown-variant",
		messages.ClientAction{Action: "place"}))
	assert.Zero(t, rig.a.count(), "unknown variant, no reply")
}

func TestHub_InvalidActionGoesToActorOnly(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")
	rig.a.reset()
	rig.b.reset()

	// Zaun moves out of turn.
	rig.act(t, "conn-b", 4)

	invalid := rig.b.ofType(messages.MessageTypeServerInvalidAction)
	require.Len(t, invalid, 1)
	var p messages.ServerInvalidAction
	require.NoError(t, json.Unmarshal(invalid[0].Payload, &p))
	assert.Equal(t, "It is not your turn", p.Reason)

	assert.Zero(t, rig.a.count(), "the partner sees nothing on a rejected action")
	assert.Equal(t, 0, rig.queue.Size(), "rejected actions are not snapshotted")
}

func TestHub_AcceptedActionFansOutAndSnapshots(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")
	rig.a.reset()
	rig.b.reset()

	rig.act(t, "conn-a", 4)

	for _, s := range []*fakeSender{rig.a, rig.b} {
		require.Len(t, s.ofType(messages.MessageTypeServerPlayerView), 1)
		require.Len(t, s.ofType(messages.MessageTypeServerGameState), 1)
	}
	assert.Equal(t, 1, rig.queue.Size())
}

func TestHub_CompletionNotifiesOnceThenRefreshes(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")

	// X takes the top row.
	rig.act(t, "conn-a", 0)
	rig.act(t, "conn-b", 4)
	rig.act(t, "conn-a", 1)
	rig.act(t, "conn-b", 8)
	rig.a.reset()
	rig.b.reset()
	rig.act(t, "conn-a", 2)

	for _, s := range []*fakeSender{rig.a, rig.b} {
		completed := s.ofType(messages.MessageTypeServerCompleted)
		require.Len(t, completed, 1, "completion is announced exactly once")
		var p messages.ServerCompleted
		require.NoError(t, json.Unmarshal(completed[0].Payload, &p))
		assert.Equal(t, 100, p.Score)
		assert.Equal(t, "piltover completes a line", p.Message)
	}

	// The refreshed views arrive after the pacing delay.
	assert.Empty(t, rig.a.ofType(messages.MessageTypeServerPlayerView))
	require.Eventually(t, func() bool {
		return len(rig.a.ofType(messages.MessageTypeServerPlayerView)) == 1 &&
			len(rig.b.ofType(messages.MessageTypeServerPlayerView)) == 1
	}, time.Second, time.Millisecond)
}

func TestHub_HintGoesToRequester(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")
	rig.a.reset()
	rig.b.reset()

	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientHint, "room-1", "tictactoe", nil))

	hints := rig.a.ofType(messages.MessageTypeServerHint)
	require.Len(t, hints, 1)
	var p messages.ServerHint
	require.NoError(t, json.Unmarshal(hints[0].Payload, &p))
	assert.Equal(t, "Cell 4 is open", p.Hint)
	assert.Equal(t, 2, p.Remaining)

	assert.Empty(t, rig.b.ofType(messages.MessageTypeServerHint), "the hint text stays with the requester")
	assert.Len(t, rig.b.ofType(messages.MessageTypeServerGameState), 1, "the spent budget is visible room-wide")
}

func TestHub_HintExhaustionRejected(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")

	for i := 0; i < games.HintBudget; i++ {
		rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientHint, "room-1", "tictactoe", nil))
	}
	rig.a.reset()
	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientHint, "room-1", "tictactoe", nil))

	invalid := rig.a.ofType(messages.MessageTypeServerInvalidAction)
	require.Len(t, invalid, 1)
	var p messages.ServerInvalidAction
	require.NoError(t, json.Unmarshal(invalid[0].Payload, &p))
	assert.Equal(t, "No hints remaining", p.Reason)
}

func TestHub_RestartFansOutFreshState(t *testing.T) {
	rig := newTestRig(t)
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")
	rig.act(t, "conn-a", 4)
	rig.a.reset()
	rig.b.reset()

	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientRestart, "room-1", "tictactoe", nil))

	states := rig.b.ofType(messages.MessageTypeServerGameState)
	require.Len(t, states, 1)
	var summary games.Summary
	require.NoError(t, json.Unmarshal(states[0].Payload, &summary))
	assert.Equal(t, "active", summary.Phase)
	assert.Equal(t, "0 moves", summary.Progress)
}

func TestHub_DisconnectSweep(t *testing.T) {
	rig := newTestRig(t)
	rig.hub.HandleMessage("conn-a", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "caitlyn"}))
	rig.hub.HandleMessage("conn-b", inbound(t, messages.MessageTypeClientJoinRoom, "room-1", "",
		messages.ClientJoinRoom{Name: "vi"}))
	rig.joinGame(t, "conn-a", "caitlyn")
	rig.joinGame(t, "conn-b", "vi")
	rig.a.reset()
	rig.b.reset()
	rig.queue.ClearQueue()

	rig.hub.Disconnect("conn-b")

	// The remaining member sees the shrunken roster.
	states := rig.a.ofType(messages.MessageTypeServerRoomState)
	require.Len(t, states, 1)
	var state messages.ServerRoomState
	require.NoError(t, json.Unmarshal(states[0].Payload, &state))
	require.Len(t, state.Members, 1)
	assert.Equal(t, "caitlyn", state.Members[0].Name)

	// The game dropped to waiting and the survivor got fresh views.
	gameStates := rig.a.ofType(messages.MessageTypeServerGameState)
	require.Len(t, gameStates, 1)
	var summary games.Summary
	require.NoError(t, json.Unmarshal(gameStates[0].Payload, &summary))
	assert.Equal(t, "waiting", summary.Phase)

	assert.Equal(t, 1, rig.queue.Size(), "the sweep snapshots the affected instance")
	assert.Zero(t, rig.b.count(), "nothing is sent to the closed connection")
}

func TestHub_DisconnectUnknownConnectionIsSilent(t *testing.T) {
	rig := newTestRig(t)
	rig.hub.Disconnect("conn-x")
	assert.Zero(t, rig.a.count())
	assert.Zero(t, rig.b.count())
}
