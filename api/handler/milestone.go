package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/comptrack/backend/api/transport"
	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/pkg/httpcontext"
	"github.com/comptrack/backend/repository"
	authUC "github.com/comptrack/backend/usecase/auth"
	milestoneUC "github.com/comptrack/backend/usecase/milestone"
	notificationUC "github.com/comptrack/backend/usecase/notification"
)

type MilestoneHandler struct {
	baseHandler
	uc            *milestoneUC.UseCase
	notifications *notificationUC.UseCase
	auth          *authUC.UseCase
}

func NewMilestoneHandler(
	uc *milestoneUC.UseCase,
	notifications *notificationUC.UseCase,
	auth *authUC.UseCase,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *MilestoneHandler {
	return &MilestoneHandler{
		baseHandler:   newBaseHandler(adapter, logger),
		uc:            uc,
		notifications: notifications,
		auth:          auth,
	}
}

// @Summary List milestones
// @Tags milestones
// @Router /api/v1/milestones [get]
func (h *MilestoneHandler) List(ctx *fasthttp.RequestCtx) {
	filter := repository.MilestoneFilter{
		Status: string(ctx.QueryArgs().Peek("status")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 0),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	milestones, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, milestones)
}

// @Summary Add a milestone
// @Tags milestones
// @Router /api/v1/milestones [post]
func (h *MilestoneHandler) Create(ctx *fasthttp.RequestCtx) {
	if h.sessionID(ctx) == "" {
		return
	}

	var req transport.MilestoneRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Add(stdCtx, req.Title, req.DueDate, domain.ParseStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update milestone status
// @Tags milestones
// @Router /api/v1/milestones/{id}/status [put]
func (h *MilestoneHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing milestone id", nil))
		return
	}

	var req transport.StatusUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Status == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateStatus(stdCtx, id, domain.ParseStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	// Confirmation SMS is best-effort: its failure is reported inline but
	// never undoes the update.
	var meta interface{}
	if req.Notify == nil || *req.Notify {
		if err := h.notifications.ConfirmStatusUpdate(stdCtx, *updated, h.sessionPhone(stdCtx, sessionID)); err != nil {
			meta = map[string]string{"sms_error": err.Error()}
		}
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(updated, meta))
}

// @Summary Bulk import milestones from extracted document text
// @Tags milestones
// @Router /api/v1/milestones/import [post]
func (h *MilestoneHandler) Import(ctx *fasthttp.RequestCtx) {
	if h.sessionID(ctx) == "" {
		return
	}

	body := ctx.PostBody()
	if len(body) == 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "empty import body", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	inserted, err := h.uc.Import(stdCtx, string(body))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ImportResponse{Inserted: inserted})
}

// sessionPhone resolves the per-admin recipient override; empty means the
// configured default applies.
func (h *MilestoneHandler) sessionPhone(ctx context.Context, sessionID string) string {
	session, err := h.auth.GetSession(ctx, sessionID)
	if err != nil {
		return ""
	}
	return session.PhoneNumber
}

func pathID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
