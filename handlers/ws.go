package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// The refresh bus replaces the old stringly-typed DOM event: clients
// subscribe per campaign (or to "all") and mutating handlers broadcast a
// typed payload telling dashboards to re-fetch.

const refreshAllScope = "all"

type RefreshEvent struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaign_id,omitempty"`
	Reason     string `json:"reason"`
}

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive for cloud hosting proxies.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	// Melody keeps a single global connect handler, so the scope has to be
	// read off the session's own upgrade request. Registering a closure per
	// request would let concurrent upgrades swap scopes.
	m.HandleConnect(func(s *melody.Session) {
		scope := scopeFromPath(s.Request.URL.Path)
		s.Set("campaign_scope", scope)
		log.Printf("✅ Client subscribed to campaign scope: %s", scope)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		scope, _ := s.Get("campaign_scope")
		log.Printf("🔌 Client unsubscribed from campaign scope: %v", scope)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request. The :id route param scopes the session to
// one campaign; "all" subscribes to every refresh event.
func (h *WSHandler) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// scopeFromPath pulls the campaign scope out of the upgrade path, e.g.
// "/api/v1/ws/campaigns/abc" subscribes to campaign abc.
func scopeFromPath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" || trimmed == "campaigns" {
		return refreshAllScope
	}
	return trimmed
}

// BroadcastRefresh notifies every session watching this campaign (and the
// "all" subscribers) that its data changed.
func (h *WSHandler) BroadcastRefresh(campaignID, reason string) {
	event := RefreshEvent{Type: "campaigns.refresh", CampaignID: campaignID, Reason: reason}
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		scope, exists := s.Get("campaign_scope")
		if !exists {
			return false
		}
		return scope == refreshAllScope || scope == campaignID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting refresh for campaign %s: %v", campaignID, err)
	}
}
