package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	baseHandler
	userService service.IUserService
}

func NewAuthHandler(userService service.IUserService, sessionService service.ISessionService) *AuthHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(sessionService),
		userService: userService,
	}
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, dto.CurrentUserDTO{User: dto.NewUserDTO(util.GetCurrentUser(r.Context()))})
}

// RegisterPage GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, dto.CurrentUserDTO{User: dto.NewUserDTO(util.GetCurrentUser(r.Context()))})
}

// Register POST /register, 成功後直接登入
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Bad Request", nil)
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Email:    r.PostFormValue("email"),
		Name:     r.PostFormValue("name"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			validationFailed(w, ve)
		case errors.Is(err, service.ErrEmailExists):
			h.flashRedirect(w, r, model.FlashWarning, "Email already registered", "/register")
		default:
			h.internalError(w, r, err)
		}
		return
	}

	if err := h.sessions.Login(r.Context(), h.session(r), user.ID); err != nil {
		h.internalError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Uint("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("user registered")
	h.flashRedirect(w, r, model.FlashSuccess, "Registered and logged in", "/")
}

// Login POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Bad Request", nil)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	ve := service.NewValidationError()
	if email == "" {
		ve.Add("email", "This field is required.")
	}
	if password == "" {
		ve.Add("password", "This field is required.")
	}
	if ve.HasErrors() {
		validationFailed(w, ve)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			api.ErrorJSON(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		h.internalError(w, r, err)
		return
	}

	if err := h.sessions.Login(r.Context(), h.session(r), user.ID); err != nil {
		h.internalError(w, r, err)
		return
	}
	h.flashRedirect(w, r, model.FlashSuccess, "Logged in", "/")
}

// Logout POST /logout, 購物車保留
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), h.session(r)); err != nil {
		h.internalError(w, r, err)
		return
	}
	h.flashRedirect(w, r, model.FlashInfo, "Logged out", "/")
}
