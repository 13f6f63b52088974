package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
	"github.com/portosite/backend/pkg/response"
)

type NotificationHandler struct {
	service *domain.NotificationService
	logger  *zap.Logger
}

func NewNotificationHandler(service *domain.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// List returns all notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		response.InternalError(w, "failed to fetch notifications")
		return
	}

	response.OK(w, notifications)
}

// Create persists a notification and fans it out to connected sessions.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string     `json:"title"`
		Message   string     `json:"message"`
		Type      string     `json:"type"`
		MessageID *uuid.UUID `json:"messageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}
	if req.Title == "" || req.Message == "" {
		response.BadRequest(w, "title and message are required")
		return
	}

	n, err := h.service.Create(r.Context(), domain.CreateNotificationParams{
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		MessageID: req.MessageID,
	})
	if err != nil {
		h.logger.Error("failed to create notification", zap.Error(err))
		response.InternalError(w, "failed to create notification")
		return
	}

	response.Created(w, n)
}

// SetRead updates the read flag for one notification. Repeating the call
// with the same value succeeds and changes nothing.
func (h *NotificationHandler) SetRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid notification id")
		return
	}

	var req struct {
		IsRead *bool `json:"isRead"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}
	isRead := true
	if req.IsRead != nil {
		isRead = *req.IsRead
	}

	n, err := h.service.SetRead(r.Context(), id, isRead)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "notification not found")
			return
		}
		h.logger.Error("failed to update notification", zap.String("id", id.String()), zap.Error(err))
		response.InternalError(w, "failed to update notification")
		return
	}

	response.OK(w, n)
}

// Delete removes one notification.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "notification not found")
			return
		}
		h.logger.Error("failed to delete notification", zap.String("id", id.String()), zap.Error(err))
		response.InternalError(w, "failed to delete notification")
		return
	}

	response.OK(w, map[string]string{"status": "deleted"})
}
