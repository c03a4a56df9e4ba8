package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "volunteerhub/internal/delivery/http/helpers"
	"volunteerhub/internal/domain"
)

// CreateAnnouncementRequest is the request body for POST /announcements
type CreateAnnouncementRequest struct {
	EventID         string     `json:"event_id"`
	Type            string     `json:"type"`
	CommitteeID     string     `json:"committee_id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	PaymentAmount   *float64   `json:"payment_amount"`
	PaymentPurpose  *string    `json:"payment_purpose"`
	PaymentDeadline *time.Time `json:"payment_deadline"`
	ExpiryDate      *time.Time `json:"expiry_date"`
}

// Validate implements Validator.
func (c CreateAnnouncementRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(c.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	annType := domain.AnnouncementType(c.Type)
	if !annType.Valid() {
		errs = append(errs, "type must be \"global\", \"committee\", or \"payment\"")
	}
	if annType == domain.AnnouncementCommittee && strings.TrimSpace(c.CommitteeID) == "" {
		errs = append(errs, "committee_id is required for committee announcements")
	}
	if annType == domain.AnnouncementPayment && (c.PaymentAmount == nil || *c.PaymentAmount <= 0) {
		errs = append(errs, "payment_amount must be positive for payment announcements")
	}
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		errs = append(errs, "content is required")
	}
	return errs
}

type AnnouncementController struct {
	Logger  *slog.Logger
	Service domain.AnnouncementService
}

func NewAnnouncementController(logger *slog.Logger, svc domain.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an announcement
// @Description Creates an announcement and pushes it to the event's connected participants. Global and payment types are head-gated (sub-heads may post global); committee announcements take the head or that committee's sub-head. Payment announcements also email every participant.
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAnnouncementRequest true "Announcement data"
// @Success 201 {object} helpers.APIResponse "data contains the created announcement"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcements [post]
func (c *AnnouncementController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAnnouncementRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	fields := domain.AnnouncementFields{
		Title:           req.Title,
		Content:         req.Content,
		PaymentAmount:   req.PaymentAmount,
		PaymentPurpose:  req.PaymentPurpose,
		PaymentDeadline: req.PaymentDeadline,
		ExpiryDate:      req.ExpiryDate,
	}
	announcement, err := c.Service.Create(r.Context(), callerID, req.EventID, domain.AnnouncementType(req.Type), req.CommitteeID, fields)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, announcement)
}

// List godoc
// @Summary List announcements
// @Description Returns the event's announcements, pinned first, then newest first. Optional filters: type, committee_id. Participants only.
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param type query string false "Filter by type: global, committee, or payment"
// @Param committee_id query string false "Filter by committee"
// @Success 200 {object} helpers.APIResponse "data contains the announcements"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcements/{eventID} [get]
func (c *AnnouncementController) List(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	annType := domain.AnnouncementType(r.URL.Query().Get("type"))
	committeeID := r.URL.Query().Get("committee_id")
	announcements, err := c.Service.List(r.Context(), callerID, eventID, annType, committeeID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, announcements)
}

// TogglePin godoc
// @Summary Pin or unpin an announcement
// @Description Flips the announcement's pin flag. Head only. Pinned announcements sort first in lists.
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param announcementID path string true "Announcement ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the announcement with its new pin state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcements/{announcementID}/pin [put]
func (c *AnnouncementController) TogglePin(w http.ResponseWriter, r *http.Request) {
	announcementID := r.PathValue("announcementID")
	if !uuidRegex.MatchString(announcementID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid announcementID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	announcement, err := c.Service.TogglePin(r.Context(), announcementID, callerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, announcement)
}

// Delete godoc
// @Summary Delete an announcement
// @Description Deletes the announcement. Head only.
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param announcementID path string true "Announcement ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcements/{announcementID} [delete]
func (c *AnnouncementController) Delete(w http.ResponseWriter, r *http.Request) {
	announcementID := r.PathValue("announcementID")
	if !uuidRegex.MatchString(announcementID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid announcementID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), announcementID, callerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "announcement deleted"})
}
