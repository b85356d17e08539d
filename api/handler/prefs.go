package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
	prefsUC "github.com/taskdeck/backend/usecase/prefs"
)

type PrefsHandler struct {
	baseHandler
	uc *prefsUC.UseCase
}

func NewPrefsHandler(uc *prefsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PrefsHandler {
	return &PrefsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Read UI preferences
// @Tags preferences
// @Router /api/v1/preferences [get]
func (h *PrefsHandler) GetPreferences(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	prefs, err := h.uc.Get(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, prefs)
}

// @Summary Save UI preferences
// @Tags preferences
// @Router /api/v1/preferences [put]
func (h *PrefsHandler) UpdatePreferences(ctx *fasthttp.RequestCtx) {
	var req transport.PreferencesRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, err := h.uc.Set(stdCtx, domain.Preferences{DarkMode: req.DarkMode, Font: req.Font})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saved)
}
