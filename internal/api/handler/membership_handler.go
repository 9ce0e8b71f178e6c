package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/api/metrics"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/web"
)

type MembershipHandler struct {
	membership ports.MembershipService
	log        zerolog.Logger
}

func NewMembershipHandler(membership ports.MembershipService, log zerolog.Logger) *MembershipHandler {
	return &MembershipHandler{membership: membership, log: log}
}

// grantFlow describes one passcode page.
type grantFlow struct {
	role    domain.Role
	page    string
	title   string
	success string
	grant   func(ctx context.Context, userID, passcode string) error
}

func (h *MembershipHandler) member() grantFlow {
	return grantFlow{
		role:    domain.RoleMember,
		page:    web.PageJoin,
		title:   "Join the Club",
		success: "You are now a member",
		grant:   h.membership.GrantMember,
	}
}

func (h *MembershipHandler) admin() grantFlow {
	return grantFlow{
		role:    domain.RoleAdmin,
		page:    web.PageAdmin,
		title:   "Admin Access",
		success: "You are now an admin",
		grant:   h.membership.GrantAdmin,
	}
}

// JoinForm renders the membership passcode form.
//
// @Summary      Membership form
// @Tags         membership
// @Produce      html
// @Success      200
// @Router       /join [get]
func (h *MembershipHandler) JoinForm(c echo.Context) error {
	return h.showForm(c, h.member())
}

// Join grants the member role when the passcode matches.
//
// @Summary      Become a member
// @Tags         membership
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        passcode  formData  string  true  "Membership passcode"
// @Success      303  "Redirect to /"
// @Failure      422  "Incorrect passcode"
// @Router       /join [post]
func (h *MembershipHandler) Join(c echo.Context) error {
	return h.submit(c, h.member())
}

// AdminForm renders the admin passcode form.
//
// @Summary      Admin form
// @Tags         membership
// @Produce      html
// @Success      200
// @Router       /admin [get]
func (h *MembershipHandler) AdminForm(c echo.Context) error {
	return h.showForm(c, h.admin())
}

// Admin grants the admin role when the passcode matches.
//
// @Summary      Become an admin
// @Tags         membership
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        passcode  formData  string  true  "Admin passcode"
// @Success      303  "Redirect to /"
// @Failure      422  "Incorrect passcode"
// @Router       /admin [post]
func (h *MembershipHandler) Admin(c echo.Context) error {
	return h.submit(c, h.admin())
}

func (h *MembershipHandler) showForm(c echo.Context, flow grantFlow) error {
	return render(c, http.StatusOK, flow.page, web.Page{Title: flow.title})
}

func (h *MembershipHandler) submit(c echo.Context, flow grantFlow) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var form passcodeForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	err = flow.grant(c.Request().Context(), user.ID, form.Passcode)
	switch {
	case errors.Is(err, domain.ErrIncorrectPasscode):
		metrics.RoleGrantsTotal.WithLabelValues(string(flow.role), "rejected").Inc()
		return render(c, http.StatusUnprocessableEntity, flow.page, web.Page{
			Title:  flow.title,
			Errors: []string{"Incorrect passcode"},
		})
	case err != nil:
		metrics.RoleGrantsTotal.WithLabelValues(string(flow.role), "error").Inc()
		h.log.Error().Err(err).Str("user_id", user.ID).Str("role", string(flow.role)).Msg("role grant failed")
		return render(c, http.StatusInternalServerError, flow.page, web.Page{
			Title:  flow.title,
			Errors: []string{genericErrorMessage},
		})
	}

	metrics.RoleGrantsTotal.WithLabelValues(string(flow.role), "granted").Inc()
	return flashRedirect(c, domain.FlashSuccess, flow.success, "/")
}
