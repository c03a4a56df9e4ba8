package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "volunteerhub/internal/delivery/http/helpers"
	"volunteerhub/internal/domain"
)

// CreateCommitteeRequest is the request body for POST /committees
type CreateCommitteeRequest struct {
	EventID     string `json:"event_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CreateCommitteeRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(c.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// AssignSubHeadRequest is the request body for PUT /committees/{committeeID}/subhead
type AssignSubHeadRequest struct {
	UserID string `json:"user_id"`
}

// Validate implements Validator.
func (a AssignSubHeadRequest) Validate() []string {
	if strings.TrimSpace(a.UserID) == "" {
		return []string{"user_id is required"}
	}
	return nil
}

// JoinCommitteesRequest is the request body for POST /committees/join
type JoinCommitteesRequest struct {
	EventID      string   `json:"event_id"`
	CommitteeIDs []string `json:"committee_ids"`
}

// Validate implements Validator.
func (j JoinCommitteesRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(j.EventID) {
		errs = append(errs, "event_id must be a valid UUID")
	}
	if len(j.CommitteeIDs) == 0 {
		errs = append(errs, "committee_ids must not be empty")
	}
	return errs
}

// JoinCommitteesResponse is the response body for POST /committees/join.
// Joined holds the names of committees the caller was added to; LimitReached
// is true when the event's join limit cut the list short.
type JoinCommitteesResponse struct {
	Joined       []string `json:"joined"`
	LimitReached bool     `json:"limit_reached"`
}

type CommitteeController struct {
	Logger  *slog.Logger
	Service domain.CommitteeService
}

func NewCommitteeController(logger *slog.Logger, svc domain.CommitteeService) *CommitteeController {
	return &CommitteeController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCommittee godoc
// @Summary Create a committee
// @Description Creates a committee in the event. Head only; the event must have committees enabled. Names are unique per event.
// @Tags committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCommitteeRequest true "Committee data"
// @Success 201 {object} helpers.APIResponse "data contains the created committee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees [post]
func (c *CommitteeController) CreateCommittee(w http.ResponseWriter, r *http.Request) {
	var req CreateCommitteeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	committee, err := c.Service.CreateCommittee(r.Context(), req.EventID, req.Name, req.Description, callerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, committee)
}

// ListCommittees godoc
// @Summary List the event's committees
// @Description Returns every committee of the event with sub-head and volunteer sets. Participants only.
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the list of committees"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/committees [get]
func (c *CommitteeController) ListCommittees(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	committees, err := c.Service.ListCommittees(r.Context(), eventID, callerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, committees)
}

// AssignSubHead godoc
// @Summary Assign a committee sub-head
// @Description Promotes an existing participant to sub-head of the committee. Head only.
// @Tags committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param committeeID path string true "Committee ID (UUID)"
// @Param body body AssignSubHeadRequest true "User to promote"
// @Success 200 {object} helpers.APIResponse "data contains the updated committee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees/{committeeID}/subhead [put]
func (c *CommitteeController) AssignSubHead(w http.ResponseWriter, r *http.Request) {
	committeeID := r.PathValue("committeeID")
	if !uuidRegex.MatchString(committeeID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid committeeID")
		return
	}
	var req AssignSubHeadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	committee, err := c.Service.AssignSubHead(r.Context(), committeeID, req.UserID, callerID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, committee)
}

// JoinCommittees godoc
// @Summary Join committees
// @Description Joins the calling volunteer to the given committees, honoring the event's join limit. When the limit cuts the list short, the joins within the limit stick and the response reports them with a 409 and limit_reached=true.
// @Tags committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinCommitteesRequest true "Event and committee IDs to join"
// @Success 200 {object} helpers.APIResponse "data contains the joined committee names"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "data contains the joined names; limit_reached is true"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees/join [post]
func (c *CommitteeController) JoinCommittees(w http.ResponseWriter, r *http.Request) {
	var req JoinCommitteesRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	joined, err := c.Service.JoinCommittees(r.Context(), req.EventID, req.CommitteeIDs, callerID)
	if err != nil {
		// Hitting the join limit mid-list is a partial success: the joins
		// within the limit stick. Report them under a conflict status so
		// clients see both the outcome and the cutoff.
		if errors.Is(err, domain.ErrJoinLimitExceeded) {
			h.WriteJSONSuccess(w, http.StatusConflict, JoinCommitteesResponse{Joined: joined, LimitReached: true})
			return
		}
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, JoinCommitteesResponse{Joined: joined})
}

// RemoveVolunteer godoc
// @Summary Remove a volunteer from a committee
// @Description Removes the volunteer from the committee's volunteer set. Head or that committee's sub-head only.
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Param committeeID path string true "Committee ID (UUID)"
// @Param userID path string true "User ID of the volunteer to remove"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees/{committeeID}/volunteers/{userID} [delete]
func (c *CommitteeController) RemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	committeeID := r.PathValue("committeeID")
	if !uuidRegex.MatchString(committeeID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid committeeID")
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
	if err := c.Service.RemoveVolunteer(r.Context(), committeeID, targetID, callerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "volunteer removed"})
}

// DeleteCommittee godoc
// @Summary Delete a committee
// @Description Deletes the committee. Head only.
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Param committeeID path string true "Committee ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees/{committeeID} [delete]
func (c *CommitteeController) DeleteCommittee(w http.ResponseWriter, r *http.Request) {
	committeeID := r.PathValue("committeeID")
	if !uuidRegex.MatchString(committeeID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid committeeID")
		return
	}
	callerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteCommittee(r.Context(), committeeID, callerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "committee deleted"})
}
