package handler

import (
	"errors"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhouse/members-only/internal/api/metrics"
	"github.com/clubhouse/members-only/internal/api/middleware"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/web"
)

const (
	newMessageTitle  = "Create a New Message"
	editMessageTitle = "Edit a Message"
)

type MessageHandler struct {
	messages ports.MessageService
	log      zerolog.Logger
}

func NewMessageHandler(messages ports.MessageService, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

// Index lists every message, oldest first.
//
// @Summary      Message board
// @Tags         messages
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *MessageHandler) Index(c echo.Context) error {
	msgs, err := h.messages.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, web.PageIndex, web.Page{Title: "Messages", Messages: msgs})
}

// NewForm renders the message composer.
//
// @Summary      New message form
// @Tags         messages
// @Produce      html
// @Success      200
// @Router       /new-message [get]
func (h *MessageHandler) NewForm(c echo.Context) error {
	return render(c, http.StatusOK, web.PageNewMessage, web.Page{Title: newMessageTitle})
}

// Create posts a message as the current user.
//
// @Summary      Create a message
// @Tags         messages
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        title  formData  string  true  "Title"
// @Param        text   formData  string  true  "Text"
// @Success      303  "Redirect to /"
// @Failure      422  "Form re-rendered with errors"
// @Router       /new-message [post]
func (h *MessageHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var form messageForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	form.normalize()

	msgs, err := validate(c, &form)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		metrics.MessageOpsTotal.WithLabelValues("create", "invalid").Inc()
		return render(c, http.StatusUnprocessableEntity, web.PageNewMessage, web.Page{
			Title:  newMessageTitle,
			Errors: msgs,
			Form:   form.values(),
		})
	}

	if _, err := h.messages.Create(c.Request().Context(), user.ID, form.Title, form.Text); err != nil {
		metrics.MessageOpsTotal.WithLabelValues("create", "error").Inc()
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("create message failed")
		return flashRedirect(c, domain.FlashError, "Error creating message", "/")
	}

	metrics.MessageOpsTotal.WithLabelValues("create", "ok").Inc()
	return flashRedirect(c, domain.FlashSuccess, "Message created", "/")
}

// EditForm renders the editor pre-filled with the stored message.
//
// @Summary      Edit message form
// @Tags         messages
// @Produce      html
// @Param        id   path      string  true  "Message ID"
// @Success      200
// @Success      303  "Redirect to / when the message does not exist"
// @Router       /edit/{id} [get]
func (h *MessageHandler) EditForm(c echo.Context) error {
	m, err := h.messages.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrMessageNotFound) {
		return flashRedirect(c, domain.FlashError, "Message not found", "/")
	}
	if err != nil {
		return err
	}

	// Stored values are escaped; the template escapes again on output.
	return render(c, http.StatusOK, web.PageEditMessage, web.Page{
		Title:   editMessageTitle,
		Message: m,
		Form: map[string]string{
			"title": html.UnescapeString(m.Title),
			"text":  html.UnescapeString(m.Text),
		},
	})
}

// Update revises a message. Admins only.
//
// @Summary      Update a message
// @Tags         messages
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        id     path      string  true  "Message ID"
// @Param        title  formData  string  true  "Title"
// @Param        text   formData  string  true  "Text"
// @Success      303  "Redirect to /"
// @Failure      422  "Form re-rendered with errors"
// @Router       /edit-message/{id} [post]
func (h *MessageHandler) Update(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if !user.HasRole(domain.RoleAdmin) {
		metrics.MessageOpsTotal.WithLabelValues("update", "forbidden").Inc()
		return flashRedirect(c, domain.FlashError, "Unauthorized action", "/")
	}

	id := c.Param("id")
	var form messageForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	form.normalize()

	msgs, err := validate(c, &form)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		metrics.MessageOpsTotal.WithLabelValues("update", "invalid").Inc()
		return render(c, http.StatusUnprocessableEntity, web.PageEditMessage, web.Page{
			Title:   "Edit Message",
			Errors:  msgs,
			Form:    form.values(),
			Message: &domain.Message{ID: id},
		})
	}

	_, err = h.messages.Update(c.Request().Context(), user, id, form.Title, form.Text)
	switch {
	case errors.Is(err, domain.ErrForbidden):
		metrics.MessageOpsTotal.WithLabelValues("update", "forbidden").Inc()
		return flashRedirect(c, domain.FlashError, "Unauthorized action", "/")
	case errors.Is(err, domain.ErrMessageNotFound):
		metrics.MessageOpsTotal.WithLabelValues("update", "not_found").Inc()
		return flashRedirect(c, domain.FlashError, "Message not found", "/")
	case err != nil:
		metrics.MessageOpsTotal.WithLabelValues("update", "error").Inc()
		h.log.Error().Err(err).Str("message_id", id).Msg("update message failed")
		return flashRedirect(c, domain.FlashError, "Error updating message", "/")
	}

	metrics.MessageOpsTotal.WithLabelValues("update", "ok").Inc()
	return flashRedirect(c, domain.FlashSuccess, "Message updated", "/")
}

// Delete removes a message. Admins only.
//
// @Summary      Delete a message
// @Tags         messages
// @Param        id   path      string  true  "Message ID"
// @Success      303  "Redirect to /"
// @Router       /delete-message/{id} [post]
func (h *MessageHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	err := h.messages.Delete(c.Request().Context(), middleware.CurrentUser(c), id)
	switch {
	case errors.Is(err, domain.ErrForbidden):
		metrics.MessageOpsTotal.WithLabelValues("delete", "forbidden").Inc()
		return flashRedirect(c, domain.FlashError, "Unauthorized action", "/")
	case errors.Is(err, domain.ErrMessageNotFound):
		metrics.MessageOpsTotal.WithLabelValues("delete", "not_found").Inc()
		return flashRedirect(c, domain.FlashError, "Message not found", "/")
	case err != nil:
		metrics.MessageOpsTotal.WithLabelValues("delete", "error").Inc()
		h.log.Error().Err(err).Str("message_id", id).Msg("delete message failed")
		return flashRedirect(c, domain.FlashError, "Error deleting message", "/")
	}

	metrics.MessageOpsTotal.WithLabelValues("delete", "ok").Inc()
	return flashRedirect(c, domain.FlashSuccess, "Message deleted", "/")
}
