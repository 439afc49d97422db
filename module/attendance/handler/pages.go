package handler

import (
	"net/http"
	"strconv"

	"AProject/logger"
	"AProject/module/attendance/service"
	"AProject/tools/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListMeetings serves the grouped recent-meetings view.
// ?numDays bounds the window, defaulting to 7 as the original page did.
func (h *Handler) HandleListMeetings(c *gin.Context) {
	numDays := 7
	if s := c.Query("numDays"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			numDays = n
		}
	}
	if h.maxDays > 0 && numDays > h.maxDays {
		numDays = h.maxDays
	}
	page, err := h.svc.MeetingsView(c.Request.Context(), numDays)
	if err != nil {
		logger.Error("meetings view failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleListParticipants serves one meeting's attendance page.
func (h *Handler) HandleListParticipants(c *gin.Context) {
	meetingID := c.Param("meeting_id")
	if meetingID == "" {
		logger.Error("the meeting ID is missing from the path somehow")
		c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
		return
	}
	page, err := h.svc.ParticipantsView(c.Request.Context(), meetingID)
	if err != nil {
		logger.Error("participants view failed", zap.String("meeting", meetingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleLiveCount answers "how many are in the room right now". The Redis
// presence cache serves it when warm; otherwise the ledger is consulted.
func (h *Handler) HandleLiveCount(c *gin.Context) {
	meetingID := c.Param("meeting_id")
	if n, ok := service.LiveCount(meetingID); ok {
		c.JSON(http.StatusOK, gin.H{"meetingId": meetingID, "count": n, "cached": true})
		return
	}
	page, err := h.svc.ParticipantsView(c.Request.Context(), meetingID)
	if err != nil {
		logger.Error("live count fallback failed", zap.String("meeting", meetingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingId": meetingID, "count": page.Meeting.CurrentCount, "cached": false})
}

// HandleHealthz is the keep-alive ping target; replies 204 like the webhook
// does for provider keep-alives.
func (h *Handler) HandleHealthz(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
