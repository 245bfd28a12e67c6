package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/server/http/dto"
)

// WebhookHandler receives WhatsApp Cloud API callbacks.
type WebhookHandler struct {
	facade MessagingFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade MessagingFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Verify handles GET /api/whatsapp/webhook, the subscription handshake.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, ok := h.facade.VerifyWebhook(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if !ok {
		c.Status(http.StatusForbidden)
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive handles POST /api/whatsapp/webhook. It acknowledges every
// well-formed notification, since the platform redelivers unacknowledged ones.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload dto.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "malformed notification")
		return
	}

	for _, msg := range inboundMessages(payload) {
		h.facade.HandleInbound(c.Request.Context(), msg)
	}
	c.Status(http.StatusOK)
}

func inboundMessages(payload dto.WebhookPayload) []model.InboundMessage {
	var out []model.InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, contact := range change.Value.Contacts {
				names[contact.WaID] = contact.Profile.Name
			}
			for _, m := range change.Value.Messages {
				text := strings.TrimSpace(m.Text.Body)
				if m.From == "" || text == "" {
					continue
				}
				out = append(out, model.InboundMessage{From: m.From, Name: names[m.From], Text: text})
			}
		}
	}
	return out
}
