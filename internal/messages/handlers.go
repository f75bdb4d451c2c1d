package messages

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
)

// Handler exposes message endpoints.
type Handler struct {
	Service *Service
}

type submitRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// MessageView is the JSON shape for a stored message.
type MessageView struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Message   string    `json:"message"`
}

// Submit handles POST /api/v1/messages.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "messages service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing or invalid token", nil)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request payload", nil)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}
	msg, err := h.Service.Submit(r.Context(), userID, req.Message)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": convertMessage(msg)})
}

// List handles GET /api/v1/admin/messages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "messages service not configured", nil)
		return
	}
	msgs, err := h.Service.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, convertMessage(msg))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

func convertMessage(msg db.Message) MessageView {
	return MessageView{
		ID:        msg.ID,
		CreatedAt: msg.CreatedAt,
		UserName:  msg.UserName,
		UserEmail: msg.UserEmail,
		Message:   msg.MessageText,
	}
}
