package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/comptrack/backend/api/transport"
	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/pkg/httpcontext"
	authUC "github.com/comptrack/backend/usecase/auth"
	notificationUC "github.com/comptrack/backend/usecase/notification"
)

type NotificationHandler struct {
	baseHandler
	uc   *notificationUC.UseCase
	auth *authUC.UseCase
}

func NewNotificationHandler(uc *notificationUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		auth:        auth,
	}
}

// @Summary Send escalation alerts for overdue milestones
// @Tags notifications
// @Router /api/v1/notifications/escalate [post]
func (h *NotificationHandler) Escalate(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.EscalateOverdue(stdCtx, time.Now(), h.recipient(stdCtx, sessionID))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary Send reminders for upcoming milestones (or one by id)
// @Tags notifications
// @Router /api/v1/notifications/remind [post]
func (h *NotificationHandler) Remind(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	var req transport.RemindRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	recipient := h.recipient(stdCtx, sessionID)

	var (
		summary *notificationUC.Summary
		err     error
	)
	if req.MilestoneID > 0 {
		summary, err = h.uc.RemindMilestone(stdCtx, req.MilestoneID, recipient)
	} else {
		summary, err = h.uc.RemindUpcoming(stdCtx, time.Now(), recipient)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

func (h *NotificationHandler) recipient(ctx context.Context, sessionID string) string {
	session, err := h.auth.GetSession(ctx, sessionID)
	if err != nil {
		return ""
	}
	return session.PhoneNumber
}
