package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// baseHandler 各 handler 共用的 session/flash 處理
type baseHandler struct {
	sessions service.ISessionService
}

func newBaseHandler(sessions service.ISessionService) baseHandler {
	if sessions == nil {
		panic("sessionService cannot be nil")
	}
	return baseHandler{sessions: sessions}
}

// session middleware 保證存在, 沒有的話給一個不會被保存的暫時 session
func (b *baseHandler) session(r *http.Request) *model.Session {
	if s := util.GetSession(r.Context()); s != nil {
		return s
	}
	return model.NewSession("")
}

// render 回傳資料並帶出 flash 訊息
func (b *baseHandler) render(w http.ResponseWriter, r *http.Request, data any) {
	flashes, err := b.sessions.PopFlashes(r.Context(), b.session(r))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to pop flashes")
	}
	api.SuccessJSON(w, data, flashes)
}

func (b *baseHandler) flashRedirect(w http.ResponseWriter, r *http.Request, category, message, location string) {
	if err := b.sessions.Flash(r.Context(), b.session(r), category, message); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to save flash")
	}
	api.Redirect(w, r, location)
}

func (b *baseHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("internal error")
	api.ErrorJSON(w, http.StatusInternalServerError, "Internal Server Error", nil)
}

func notFound(w http.ResponseWriter) {
	api.ErrorJSON(w, http.StatusNotFound, "Not Found", nil)
}

func validationFailed(w http.ResponseWriter, ve *service.ValidationError) {
	api.ErrorJSON(w, http.StatusUnprocessableEntity, "Validation failed", ve.Fields)
}

// idParam 路徑上的 {id}, 非正整數回傳 false
func idParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
