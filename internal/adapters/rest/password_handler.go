package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
)

const (
	resetEmailSentMessage  = "Email was sent"
	passwordUpdatedMessage = "Password updated, please sign in"
)

type PasswordHandlers struct {
	sendResetUC    usecases_port.SendPasswordResetUseCasePort
	confirmResetUC usecases_port.ConfirmPasswordResetUseCasePort
	renderer       *Renderer
}

func NewPasswordHandlers(sendResetUC usecases_port.SendPasswordResetUseCasePort, confirmResetUC usecases_port.ConfirmPasswordResetUseCasePort, renderer *Renderer) *PasswordHandlers {
	return &PasswordHandlers{
		sendResetUC:    sendResetUC,
		confirmResetUC: confirmResetUC,
		renderer:       renderer,
	}
}

// ForgotPasswordPage обрабатывает GET /forgot-password. Уведомлений до отправки нет.
func (h *PasswordHandlers) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageForgotPassword, "Forgot Password", nil, forgotPasswordForm{})
}

// ForgotPassword обрабатывает POST /forgot-password. Ответ несет ровно одно
// уведомление: об успехе или об ошибке.
func (h *PasswordHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ForgotPassword"})

	if err := r.ParseForm(); err != nil {
		logger.Warn("Failed to parse forgot-password form", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, http.StatusBadRequest, pageForgotPassword, "Forgot Password", domain.ErrorNotification(domain.ErrInvalidEmail), forgotPasswordForm{})
		return
	}
	form := forgotPasswordForm{Email: strings.TrimSpace(r.PostFormValue("email"))}

	if err := h.sendResetUC.Execute(r.Context(), form.Email); err != nil {
		logger.Warn("Password reset request failed", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, statusForError(err), pageForgotPassword, "Forgot Password", domain.ErrorNotification(err), form)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageForgotPassword, "Forgot Password", domain.SuccessNotification(resetEmailSentMessage), forgotPasswordForm{})
}

// ResetPasswordPage обрабатывает GET /reset-password?token=...
func (h *PasswordHandlers) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.renderer.Render(w, r, http.StatusBadRequest, pageForgotPassword, "Forgot Password", domain.ErrorNotification(domain.ErrTokenInvalid), forgotPasswordForm{})
		return
	}
	h.renderer.Render(w, r, http.StatusOK, pageResetPassword, "Reset Password", nil, resetPasswordForm{Token: token})
}

// ResetPassword обрабатывает POST /reset-password
func (h *PasswordHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ResetPassword"})

	if err := r.ParseForm(); err != nil {
		logger.Warn("Failed to parse reset-password form", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, http.StatusBadRequest, pageForgotPassword, "Forgot Password", domain.ErrorNotification(domain.ErrTokenInvalid), forgotPasswordForm{})
		return
	}
	form := resetPasswordForm{Token: r.PostFormValue("token")}

	if err := h.confirmResetUC.Execute(r.Context(), form.Token, r.PostFormValue("password")); err != nil {
		logger.Warn("Password reset confirm failed", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, statusForError(err), pageResetPassword, "Reset Password", domain.ErrorNotification(err), form)
		return
	}

	logger.Info("Password reset confirmed", nil)
	h.renderer.Render(w, r, http.StatusOK, pageSignIn, "Sign In", domain.SuccessNotification(passwordUpdatedMessage), signInForm{})
}

// RequestPasswordReset обрабатывает POST /api/v1/auth/password-reset
func (h *PasswordHandlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RequestPasswordReset"})

	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode password reset request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sendResetUC.Execute(r.Context(), req.Email); err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Password reset use case failed", err, nil)
		} else {
			logger.Warn("Password reset rejected", port.Fields{"error": err.Error()})
		}
		WriteJSONError(w, status, domain.UserMessage(err))
		return
	}

	RespondWithJSON(w, http.StatusAccepted, PasswordResetResponse{Status: "accepted"})
}
