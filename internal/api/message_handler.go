package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
	"github.com/portosite/backend/pkg/response"
)

type MessageHandler struct {
	service *domain.MessageService
	logger  *zap.Logger
}

func NewMessageHandler(service *domain.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger,
	}
}

// Create accepts a contact-form submission. This is the public write that
// ultimately drives the whole notification pipeline.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		response.BadRequest(w, "all fields are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		response.BadRequest(w, "invalid email address")
		return
	}

	msg, err := h.service.Create(r.Context(), domain.CreateMessageParams{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Content: req.Message,
	})
	if err != nil {
		h.logger.Error("failed to create message", zap.Error(err))
		response.InternalError(w, "failed to send message")
		return
	}

	response.Created(w, msg)
}

// List returns all inbound messages, newest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		response.InternalError(w, "failed to fetch messages")
		return
	}

	response.OK(w, messages)
}

// Delete removes a message. Notifications referencing it are left in place
// with a dangling messageId.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid message id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "message not found")
			return
		}
		h.logger.Error("failed to delete message", zap.String("id", id.String()), zap.Error(err))
		response.InternalError(w, "failed to delete message")
		return
	}

	response.OK(w, map[string]string{"status": "deleted"})
}
