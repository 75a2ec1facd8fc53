package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSession(t *testing.T, url string) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	ws, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.CloseNow() })
	return ws, ctx
}

func TestWebsocketPlay(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)
	ws, ctx := dialSession(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/sessions/"+id)

	var reply wsReply
	require.NoError(t, wsjson.Read(ctx, ws, &reply))
	require.Equal(t, msgState, reply.Type)
	assert.Equal(t, id, reply.Session.ID)
	assert.Equal(t, "Challenge 1: Basic Math", reply.Session.Challenge.Title)

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: msgAnswer, Answer: "12"}))
	require.NoError(t, wsjson.Read(ctx, ws, &reply))
	require.Equal(t, msgAnswer, reply.Type)
	assert.True(t, reply.Result.Correct)
	assert.Equal(t, 10, reply.Result.PointsEarned)

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: msgAdvance}))
	reply = wsReply{}
	require.NoError(t, wsjson.Read(ctx, ws, &reply))
	require.Equal(t, msgAdvance, reply.Type)
	assert.False(t, reply.Advance.Completed)
	assert.Equal(t, "Challenge 2: Logic Puzzle", reply.Advance.Challenge.Title)

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: "teleport"}))
	reply = wsReply{}
	require.NoError(t, wsjson.Read(ctx, ws, &reply))
	assert.Equal(t, msgError, reply.Type)
	assert.Contains(t, reply.Error, "teleport")

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: msgState}))
	reply = wsReply{}
	require.NoError(t, wsjson.Read(ctx, ws, &reply))
	assert.Equal(t, 10, reply.Session.State.TotalScore)
	assert.Equal(t, 1, reply.Session.State.CurrentIndex)
}

func TestWebsocketUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/sessions/nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocketSessionEndedElsewhere(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)
	ws, ctx := dialSession(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/sessions/"+id)

	var reply wsReply
	require.NoError(t, wsjson.Read(ctx, ws, &reply))

	resp, _ := do(t, http.MethodDelete, ts.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, msg := range []wsMessage{{Type: msgAnswer, Answer: "12"}, {Type: msgAdvance}} {
		require.NoError(t, wsjson.Write(ctx, ws, msg))
		reply = wsReply{}
		require.NoError(t, wsjson.Read(ctx, ws, &reply))
		assert.Equal(t, msgError, reply.Type, msg.Type)
		assert.Contains(t, reply.Error, "session not found")
	}
}

func TestWebsocketAcceptsMultiLineAnswer(t *testing.T) {
	ts := newTestServer(t)
	id := startSession(t, ts)
	ws, ctx := dialSession(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/sessions/"+id)

	var reply wsReply
	require.NoError(t, wsjson.Read(ctx, ws, &reply))

	require.NoError(t, wsjson.Write(ctx, ws, wsMessage{Type: msgAnswer, Answer: "12\n"}))
	reply = wsReply{}
	require.NoError(t, wsjson.Read(ctx, ws, &reply))
	require.Equal(t, msgAnswer, reply.Type)
	assert.True(t, reply.Result.Correct)
}
