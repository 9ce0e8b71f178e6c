package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/api/metrics"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/web"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// SignupForm renders the registration form.
//
// @Summary      Signup form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /signup [get]
func (h *AuthHandler) SignupForm(c echo.Context) error {
	return render(c, http.StatusOK, web.PageSignup, web.Page{Title: "Sign Up"})
}

// Signup creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        firstName        formData  string  true  "First name"
// @Param        lastName         formData  string  true  "Last name"
// @Param        email            formData  string  true  "Email"
// @Param        password         formData  string  true  "Password, at least 6 characters"
// @Param        confirmPassword  formData  string  true  "Password confirmation"
// @Success      303  "Redirect to /login"
// @Failure      422  "Form re-rendered with errors"
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var form signupForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	form.normalize()

	msgs, err := validate(c, &form)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return h.signupFailed(c, form, msgs...)
	}

	_, err = h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return h.signupFailed(c, form, "Email is already in use")
	case err != nil:
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("signup failed")
		return h.signupFailed(c, form, genericErrorMessage)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return flashRedirect(c, domain.FlashSuccess, "You are now registered and can log in", "/login")
}

func (h *AuthHandler) signupFailed(c echo.Context, form signupForm, msgs ...string) error {
	return render(c, http.StatusUnprocessableEntity, web.PageSignup, web.Page{
		Title:  "Sign Up",
		Errors: msgs,
		Form:   form.values(),
	})
}

// LoginForm renders the login form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, web.PageLogin, web.Page{Title: "Login"})
}

// Login verifies the credentials and binds a fresh session to the user.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        email     formData  string  true  "Email"
// @Param        password  formData  string  true  "Password"
// @Success      303  "Redirect to / on success, /login on failure"
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.authService.Authenticate(ctx, form.Email, form.Password)
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return flashRedirect(c, domain.FlashError, "Missing credentials", "/login")
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return flashRedirect(c, domain.FlashError, "Password or username is incorrect", "/login")
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("login failed")
		return flashRedirect(c, domain.FlashError, genericErrorMessage, "/login")
	}

	if err := sess.Login(ctx, user.ID); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         auth
// @Success      303  "Redirect to /"
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := sess.Logout(c.Request().Context()); err != nil {
		return err
	}
	return flashRedirect(c, domain.FlashSuccess, "You are logged out", "/")
}
