package handlers

import (
	"github.com/geoincidents/backend/internal/middleware"
	"github.com/geoincidents/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}

	notifications, pagination, err := h.notifications.List(
		userID,
		c.QueryBool("unread_only", false),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 20),
	)
	if err != nil {
		return fail(c, err)
	}
	return paginated(c, notifications, pagination)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	notification, err := h.notifications.MarkRead(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, notification)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}

	updated, err := h.notifications.MarkAllRead(userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"updated": updated})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return fail(c, err)
	}

	count, err := h.notifications.UnreadCount(userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"count": count})
}
