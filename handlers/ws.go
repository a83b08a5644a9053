package handlers

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LovationAdmin/birthday-api/middleware"
	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/services"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

const invitationKey = "invitation_id"

// WSHandler streams RSVP events to the owner of an invitation. Sessions hold
// no domain state; every event carries stats recomputed from the store.
type WSHandler struct {
	M           *melody.Melody
	invitations *services.InvitationService
}

func NewWSHandler(invitations *services.InvitationService) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		slog.Debug("live feed connected", "invitation", utils.MaskID(sessionInvitation(s)))
	})

	m.HandleDisconnect(func(s *melody.Session) {
		slog.Debug("live feed disconnected", "invitation", utils.MaskID(sessionInvitation(s)))
	})

	m.HandleError(func(s *melody.Session, err error) {
		slog.Warn("websocket error", "err", err)
	})

	return &WSHandler{M: m, invitations: invitations}
}

// HandleWS upgrades the request once the caller is known to own the invitation.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	inv, err := h.invitations.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]any{
		invitationKey: inv.ID,
	}); err != nil {
		slog.Warn("failed to upgrade websocket", "err", err)
	}
}

// BroadcastRSVP sends the event to every session watching invitationID.
func (h *WSHandler) BroadcastRSVP(invitationID string, guest models.Guest, stats models.RSVPStats) {
	msg, err := json.Marshal(models.RSVPEvent{
		Type:         "rsvp",
		InvitationID: invitationID,
		GuestID:      guest.ID,
		GuestName:    guest.Name,
		RSVPStatus:   guest.RSVPStatus,
		RSVPStats:    stats,
	})
	if err != nil {
		slog.Error("cannot encode rsvp event", "err", err)
		return
	}

	err = h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		return sessionInvitation(q) == invitationID
	})
	if err != nil {
		slog.Warn("broadcast failed", "invitation", utils.MaskID(invitationID), "err", err)
	}
}

func sessionInvitation(s *melody.Session) string {
	v, _ := s.Get(invitationKey)
	id, _ := v.(string)
	return id
}

func (h *WSHandler) Close() error {
	return h.M.Close()
}
