package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	murmur_errors "murmur/pkg/errors"
)

// testRelay serves the relay endpoint over a real HTTP server and returns a dial function.
func testRelay(t *testing.T, origins string) (*Hub, func(header http.Header) *ws.Conn, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := NewWebSocketLoggerWith(zap.NewNop())
	hub := startHub(t)
	handler := NewHandler(hub, NewOriginAuthorizer(origins, logger), logger)

	engine := gin.New()
	engine.GET("/api/socketio", handler.Connect)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/socketio"
	dial := func(header http.Header) *ws.Conn {
		t.Helper()
		conn, _, err := ws.DefaultDialer.Dial(url, header)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}
	return hub, dial, url
}

func waitForCount(t *testing.T, hub *Hub, expected int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == expected }, 2*time.Second, time.Millisecond)
}

func readFrame(t *testing.T, conn *ws.Conn) (int, string) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return kind, string(data)
}

func expectSilence(t *testing.T, conn *ws.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	if assert.ErrorAs(t, err, &netErr) {
		assert.True(t, netErr.Timeout(), "expected read timeout, got %v", err)
	}
}

func TestHandler_ThreeClientsScenario(t *testing.T) {
	hub, dial, _ := testRelay(t, "*")

	a := dial(nil)
	waitForCount(t, hub, 1)
	b := dial(nil)
	waitForCount(t, hub, 2)
	c := dial(nil)
	waitForCount(t, hub, 3)

	require.NoError(t, a.WriteMessage(ws.TextMessage, []byte(`{"text":"hi"}`)))

	kind, msg := readFrame(t, b)
	assert.Equal(t, ws.TextMessage, kind)
	assert.Equal(t, `{"text":"hi"}`, msg)

	_, msg = readFrame(t, c)
	assert.Equal(t, `{"text":"hi"}`, msg)

	expectSilence(t, a)
}

func TestHandler_DisconnectedClientScenario(t *testing.T) {
	hub, dial, _ := testRelay(t, "*")

	a := dial(nil)
	b := dial(nil)
	waitForCount(t, hub, 2)

	require.NoError(t, b.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, "")))
	b.Close()
	waitForCount(t, hub, 1)

	require.NoError(t, a.WriteMessage(ws.TextMessage, []byte(`{"text":"x"}`)))
	expectSilence(t, a)
}

func TestHandler_BinaryFramesKeepKind(t *testing.T) {
	hub, dial, _ := testRelay(t, "*")

	a := dial(nil)
	b := dial(nil)
	waitForCount(t, hub, 2)

	require.NoError(t, a.WriteMessage(ws.BinaryMessage, []byte{1, 2, 3}))

	kind, msg := readFrame(t, b)
	assert.Equal(t, ws.BinaryMessage, kind)
	assert.Equal(t, string([]byte{1, 2, 3}), msg)
}

func TestHandler_PerSenderOrder(t *testing.T) {
	hub, dial, _ := testRelay(t, "*")

	a := dial(nil)
	b := dial(nil)
	waitForCount(t, hub, 2)

	for _, s := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, a.WriteMessage(ws.TextMessage, []byte(s)))
	}
	for _, want := range []string{"1", "2", "3", "4", "5"} {
		_, got := readFrame(t, b)
		assert.Equal(t, want, got)
	}
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	hub, dial, url := testRelay(t, "https://app.murmur.example")

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := ws.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://app.murmur.example")
	dial(header)
	waitForCount(t, hub, 1)
}

func TestHandler_NonWebSocketRequest(t *testing.T) {
	_, _, url := testRelay(t, "*")

	resp, err := http.Get("http" + strings.TrimPrefix(url, "ws"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClient_SendAfterClose(t *testing.T) {
	c := &Client{id: "c", send: make(chan Message, 1), logger: NewWebSocketLoggerWith(zap.NewNop())}

	require.NoError(t, c.Send(text("a")))
	assert.ErrorIs(t, c.Send(text("b")), murmur_errors.ErrSendBufferFull)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Send(text("c")), murmur_errors.ErrPeerClosed)
}

func TestHandler_HubStopClosesConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewWebSocketLoggerWith(zap.NewNop())
	hub := NewHub(logger)
	go hub.Run(context.Background())

	engine := gin.New()
	engine.GET("/ws", NewHandler(hub, nil, logger).Connect)
	server := httptest.NewServer(engine)
	defer server.Close()

	conn, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForCount(t, hub, 1)

	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, ws.IsCloseError(err, ws.CloseNormalClosure), "expected normal close, got %v", err)
}
