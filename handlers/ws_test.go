package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialAccountFeed(t *testing.T, srv *httptest.Server, accountID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/accounts/" + accountID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Each session must stay tagged with the account from its own upgrade
// request, even when another client connects to a different account
// afterwards. The broadcast may only reach the session watching the
// mutated account.
func TestBroadcastReachesOnlyWatchedAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewWSHandler()

	router := gin.New()
	router.GET("/ws/accounts/:id", h.HandleWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	watcher := dialAccountFeed(t, srv, "acc-1")
	other := dialAccountFeed(t, srv, "acc-2")

	// Sessions finish registering just after the upgrade completes.
	time.Sleep(50 * time.Millisecond)

	h.BroadcastAccountUpdate("acc-1", "transaction:created")

	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := watcher.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "transaction:created"}`, string(msg))

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "session watching another account received the broadcast")
}
