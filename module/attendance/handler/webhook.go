package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"AProject/logger"
	"AProject/module/attendance/event"
	"AProject/module/attendance/intake"
	"AProject/module/attendance/ledger"
	"AProject/module/attendance/model"
	"AProject/module/attendance/service"
	"AProject/tools/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler owns the HTTP surface: webhook intake plus the render-time views.
type Handler struct {
	writer  *ledger.Writer
	svc     *service.Attendance
	relay   *intake.Relay // nil applies synchronously
	secret  string
	maxDays int // upper bound on the ?numDays window, <=0 means unbounded
}

func New(writer *ledger.Writer, svc *service.Attendance, relay *intake.Relay, secret string, maxDays int) *Handler {
	return &Handler{writer: writer, svc: svc, relay: relay, secret: secret, maxDays: maxDays}
}

// HandleWebhook ingests one provider notification.
//
// Status mapping: 401 from the auth middleware, 400 empty body, 422 body
// without event/payload or with an unhandled event type, 200 for the
// url_validation challenge, 204 once the event is settled (applied or
// confirmed duplicate, both are success), 500 when the store is unavailable.
func (h *Handler) HandleWebhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		logger.Error("there was no body/payload in the request")
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No content was sent in the request body"})
		return
	}

	var body model.WebhookBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Event == "" || body.Payload == nil {
		logger.Error("the body exists but appears to have invalid content", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"msg": "The body must contain a payload and an event"})
		return
	}

	if body.Event == model.EventURLValidation {
		h.handleValidation(c, &body)
		return
	}

	ev, err := event.Normalize(&body)
	if err != nil {
		logger.Error("rejected webhook event", zap.String("event", body.Event), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"msg": "Unexpected event type: " + body.Event})
		return
	}
	logger.Info(ev.Kind.String(),
		zap.String("meeting", ev.MeetingID),
		zap.String("participant", ev.ParticipantID),
		zap.Int64("identity", ev.EventIdentity),
	)

	if h.relay != nil {
		if err := h.relay.Publish(c.Request.Context(), raw, ev.EventIdentity); err != nil {
			logger.Error("relay publish failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	outcome, err := h.writer.Apply(c.Request.Context(), ev)
	if err != nil {
		logger.Error("ledger apply failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
		return
	}
	service.NotePresence(ev, outcome)
	c.Status(http.StatusNoContent)
}

// handleValidation answers the provider's endpoint ownership challenge.
func (h *Handler) handleValidation(c *gin.Context, body *model.WebhookBody) {
	plain := body.Payload.PlainToken
	if plain == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"msg": "url_validation requires a plainToken"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plainToken":     plain,
		"encryptedToken": event.EncryptToken(plain, h.secret),
	})
}
