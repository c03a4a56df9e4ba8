package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "volunteerhub/internal/delivery/http/helpers"
	"volunteerhub/internal/domain"
)

// SendMessageRequest is the request body for POST /chat/messages
type SendMessageRequest struct {
	EventID     string `json:"event_id"`
	ChatType    string `json:"chat_type"`
	CommitteeID string `json:"committee_id"`
	Body        string `json:"body"`
}

// Validate implements Validator.
func (s SendMessageRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(s.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	if !domain.ChatType(s.ChatType).Valid() {
		errs = append(errs, "chat_type must be \"global\", \"committee\", or \"head_subhead\"")
	}
	if domain.ChatType(s.ChatType) == domain.ChatCommittee && strings.TrimSpace(s.CommitteeID) == "" {
		errs = append(errs, "committee_id is required for committee chat")
	}
	if strings.TrimSpace(s.Body) == "" {
		errs = append(errs, "body is required")
	}
	return errs
}

// ChatController serves the REST side of chat: sending through HTTP and
// paging through history. Live delivery happens over the socket gateway.
type ChatController struct {
	Logger  *slog.Logger
	Service domain.ChatService
}

func NewChatController(logger *slog.Logger, svc domain.ChatService) *ChatController {
	return &ChatController{
		Logger:  logger,
		Service: svc,
	}
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Persists the message and pushes it to the channel's connected subscribers. The caller must hold the role the channel requires.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} helpers.APIResponse "data contains the stored message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /chat/messages [post]
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	senderID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	msg, err := c.Service.SendMessage(r.Context(), senderID, req.EventID, domain.ChatType(req.ChatType), req.CommitteeID, req.Body)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, msg)
}

// History godoc
// @Summary Get chat history
// @Description Returns the channel's messages in chronological order with sender names resolved. Reading a channel takes the same membership as writing to it. Query params: committee_id (for committee chat), limit, offset.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param chatType path string true "Channel: global, committee, or head_subhead"
// @Param committee_id query string false "Committee ID (required for committee chat)"
// @Param limit query int false "Max messages to return (default 50, max 100)"
// @Param offset query int false "Messages to skip from the newest"
// @Success 200 {object} helpers.APIResponse "data contains the messages, oldest first"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /chat/{eventID}/{chatType} [get]
func (c *ChatController) History(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	chatType := domain.ChatType(r.PathValue("chatType"))
	if !chatType.Valid() {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "chat type must be \"global\", \"committee\", or \"head_subhead\"")
		return
	}
	committeeID := r.URL.Query().Get("committee_id")
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	limit, offset := h.ParseLimitOffset(r)
	messages, err := c.Service.History(r.Context(), callerID, eventID, chatType, committeeID, limit, offset)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, messages)
}
