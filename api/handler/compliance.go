package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/pkg/httpcontext"
	milestoneUC "github.com/comptrack/backend/usecase/milestone"
)

type ComplianceHandler struct {
	baseHandler
	uc          *milestoneUC.UseCase
	horizonDays int
}

func NewComplianceHandler(uc *milestoneUC.UseCase, horizonDays int, adapter *httpcontext.Adapter, logger *zap.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		horizonDays: horizonDays,
	}
}

// @Summary Compliance report: score, overdue, upcoming
// @Tags compliance
// @Router /api/v1/compliance [get]
func (h *ComplianceHandler) Report(ctx *fasthttp.RequestCtx) {
	asOf := time.Now()
	if raw := string(ctx.QueryArgs().Peek("as_of")); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "invalid as_of date", err))
			return
		}
		asOf = parsed
	}

	horizon := parseInt(string(ctx.QueryArgs().Peek("horizon_days")), h.horizonDays)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.Report(stdCtx, asOf, horizon)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
