package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes lightweight change signals to dashboard clients.
// Sessions subscribe to one account; mutations on that account trigger a
// broadcast so the client refetches.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		accountID, _ := s.Get("account_id")
		log.Printf("🔌 Client disconnected from account feed: %v", accountID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and tags the session with the account it
// watches. The tag travels with the upgrade itself, so concurrent
// connections to different accounts can never see each other's id.
func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{"account_id": c.Param("id")}

	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastAccountUpdate signals every session watching the account.
func (h *WSHandler) BroadcastAccountUpdate(accountID, updateType string) {
	if h == nil || h.M == nil {
		return
	}

	msg := []byte(`{"type": "` + updateType + `"}`)
	err := h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("account_id")
		return exists && id == accountID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to account %s: %v", accountID, err)
	}
}
