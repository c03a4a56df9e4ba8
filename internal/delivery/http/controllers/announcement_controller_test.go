package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"volunteerhub/internal/delivery/http/helpers"
	"volunteerhub/internal/delivery/http/middleware"
	"volunteerhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementController_Create(t *testing.T) {
	created := &domain.Announcement{
		ID:      testAnnouncementID,
		EventID: testEventID,
		Type:    domain.AnnouncementGlobal,
		Title:   "Venue change",
	}

	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "global success",
			body:       `{"event_id":"` + testEventID + `","type":"global","title":"Venue change","content":"new hall"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "payment without amount",
			body:           `{"event_id":"` + testEventID + `","type":"payment","title":"Fee","content":"pay up"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "payment_amount must be positive",
		},
		{
			name:           "payment with non-positive amount",
			body:           `{"event_id":"` + testEventID + `","type":"payment","title":"Fee","content":"pay up","payment_amount":0}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "payment_amount must be positive",
		},
		{
			name:           "committee type without committee id",
			body:           `{"event_id":"` + testEventID + `","type":"committee","title":"Meet","content":"room 4"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "committee_id is required",
		},
		{
			name:           "volunteer denied",
			body:           `{"event_id":"` + testEventID + `","type":"global","title":"Venue change","content":"new hall"}`,
			fakeErr:        domain.Forbid("announcements take the head or a sub-head"),
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "head or a sub-head",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAnnouncementService{createErr: tt.fakeErr, createResult: created}
			ctrl := NewAnnouncementController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/announcements", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(middleware.SetUserID(req.Context(), "head-1"))
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var a domain.Announcement
				require.NoError(t, json.Unmarshal(dataBytes, &a))
				assert.Equal(t, testAnnouncementID, a.ID)
				assert.Equal(t, domain.AnnouncementGlobal, fake.lastCreateType)
				assert.Equal(t, "Venue change", fake.lastCreateFields.Title)
			} else if tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestAnnouncementController_List(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		fake := &fakeAnnouncementService{listResult: []*domain.Announcement{{ID: testAnnouncementID}}}
		ctrl := NewAnnouncementController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/announcements/"+testEventID+"?type=payment", nil)
		req.SetPathValue("eventID", testEventID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "vol1"))
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.AnnouncementPayment, fake.lastListType)
	})

	t.Run("outsider denied", func(t *testing.T) {
		fake := &fakeAnnouncementService{listErr: domain.Forbid("announcements are visible to participants only")}
		ctrl := NewAnnouncementController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/announcements/"+testEventID, nil)
		req.SetPathValue("eventID", testEventID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "stranger"))
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAnnouncementController_TogglePin(t *testing.T) {
	t.Run("returns new pin state", func(t *testing.T) {
		fake := &fakeAnnouncementService{pinResult: &domain.Announcement{ID: testAnnouncementID, IsPinned: true}}
		ctrl := NewAnnouncementController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPut, "http://test/announcements/"+testAnnouncementID+"/pin", nil)
		req.SetPathValue("announcementID", testAnnouncementID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "head-1"))
		rr := httptest.NewRecorder()

		ctrl.TogglePin(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var a domain.Announcement
		require.NoError(t, json.Unmarshal(dataBytes, &a))
		assert.True(t, a.IsPinned)
	})

	t.Run("non-head denied", func(t *testing.T) {
		fake := &fakeAnnouncementService{pinErr: domain.Forbid("only the event head can pin announcements")}
		ctrl := NewAnnouncementController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPut, "http://test/announcements/"+testAnnouncementID+"/pin", nil)
		req.SetPathValue("announcementID", testAnnouncementID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "sub1"))
		rr := httptest.NewRecorder()

		ctrl.TogglePin(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAnnouncementController_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := NewAnnouncementController(testLogger, &fakeAnnouncementService{})
		req := httptest.NewRequest(http.MethodDelete, "http://test/announcements/"+testAnnouncementID, nil)
		req.SetPathValue("announcementID", testAnnouncementID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "head-1"))
		rr := httptest.NewRecorder()

		ctrl.Delete(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing announcement", func(t *testing.T) {
		fake := &fakeAnnouncementService{deleteErr: domain.ErrNotFound}
		ctrl := NewAnnouncementController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "http://test/announcements/"+testAnnouncementID, nil)
		req.SetPathValue("announcementID", testAnnouncementID)
		req = req.WithContext(middleware.SetUserID(req.Context(), "head-1"))
		rr := httptest.NewRecorder()

		ctrl.Delete(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
