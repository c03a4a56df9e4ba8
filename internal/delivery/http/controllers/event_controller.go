package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "volunteerhub/internal/delivery/http/helpers"
	"volunteerhub/internal/domain"
)

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	HasCommittees      bool   `json:"has_committees"`
	CommitteeJoinLimit string `json:"committee_join_limit"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.HasCommittees {
		if !domain.JoinLimit(c.CommitteeJoinLimit).Valid() {
			errs = append(errs, "committee_join_limit must be \"one\", \"two\", or \"unlimited\"")
		}
	}
	return errs
}

// JoinEventRequest is the request body for POST /events/join
type JoinEventRequest struct {
	EventCode string `json:"event_code"`
}

// Validate implements Validator.
func (j JoinEventRequest) Validate() []string {
	if strings.TrimSpace(j.EventCode) == "" {
		return []string{"event_code is required"}
	}
	return nil
}

// JoinEventResponse is the response body for POST /events/join. Joined is
// false when the caller was already a participant.
type JoinEventResponse struct {
	Event  *domain.Event `json:"event"`
	Joined bool          `json:"joined"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event with the caller as head. Committee settings are fixed at creation; the join limit is required when committees are enabled.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event with its join code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	event := domain.NewEvent(req.Title, req.Description, userID, req.HasCommittees, domain.JoinLimit(req.CommitteeJoinLimit), time.Now())
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// JoinEvent godoc
// @Summary Join an event by code
// @Description Joins the caller to the event as a volunteer. Joining an event the caller already belongs to returns the event with joined=false.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinEventRequest true "Join code"
// @Success 200 {object} helpers.APIResponse "data contains the event and whether a new membership was created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/join [post]
func (c *EventController) JoinEvent(w http.ResponseWriter, r *http.Request) {
	var req JoinEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	event, joined, err := c.Service.JoinEvent(r.Context(), req.EventCode, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, JoinEventResponse{Event: event, Joined: joined})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its participant list. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListMyEvents godoc
// @Summary List the caller's events
// @Description Returns every event the caller participates in, in any role.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the list of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/me [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// RemoveParticipant godoc
// @Summary Remove a participant from an event
// @Description Removes the participant and purges their committee memberships. Head only; the head cannot remove itself.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param userID path string true "User ID of the participant to remove"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants/{userID} [delete]
func (c *EventController) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	targetID := r.PathValue("userID")
	if targetID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing userID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.RemoveParticipant(r.Context(), eventID, targetID, callerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "participant removed"})
}

// Roster godoc
// @Summary Get the event roster
// @Description Returns every participant except the head, with their user record and committee memberships. Head and sub-heads only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the roster entries"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/volunteers [get]
func (c *EventController) Roster(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	roster, err := c.Service.Roster(r.Context(), eventID, callerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, roster)
}
