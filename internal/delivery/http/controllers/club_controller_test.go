package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/domain"
)

var managerUser = domain.Principal{UserID: "user-2", Email: "mgr@example.com", Role: domain.RoleManager}

func TestClubController_CreateClub(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
	}{
		{"success", CreateClubRequest{Name: "Chess", MembershipFee: 10}, nil, http.StatusCreated},
		{"missing name", CreateClubRequest{MembershipFee: 10}, nil, http.StatusBadRequest},
		{"negative fee", CreateClubRequest{Name: "Chess", MembershipFee: -5}, nil, http.StatusBadRequest},
		{"bad banner url", CreateClubRequest{Name: "Chess", BannerURL: "not a url"}, nil, http.StatusBadRequest},
		{"forbidden", CreateClubRequest{Name: "Chess"}, domain.ErrForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewClubController(testLogger, &fakeClubService{err: tt.svcErr})
			rr := httptest.NewRecorder()

			ctrl.CreateClub(rr, newRequest(t, http.MethodPost, "/clubs", tt.body, &managerUser, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				var club domain.Club
				decodeEnvelope(t, rr, &club)
				assert.Equal(t, "club-1", club.ID)
				assert.Equal(t, domain.ClubStatusPending, club.Status)
			}
		})
	}
}

func TestClubController_ListClubs(t *testing.T) {
	svc := &fakeClubService{clubs: []*domain.Club{{ID: "c1", Name: "Chess"}}, total: 41}
	ctrl := NewClubController(testLogger, svc)
	rr := httptest.NewRecorder()

	ctrl.ListClubs(rr, newRequest(t, http.MethodGet, "/clubs?search=+chess+&category=games&page=2&page_size=20", nil, nil, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "chess", svc.lastFilter.Search)
	assert.Equal(t, "games", svc.lastFilter.Category)
	assert.Equal(t, 2, svc.lastFilter.Pagination.Page)
	var list ClubListResponse
	decodeEnvelope(t, rr, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 41, list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.TotalPages)
}

func TestClubController_GetClub_notFound(t *testing.T) {
	ctrl := NewClubController(testLogger, &fakeClubService{err: domain.ErrNotFound})
	rr := httptest.NewRecorder()

	ctrl.GetClub(rr, newRequest(t, http.MethodGet, "/clubs/c1", nil, nil, map[string]string{"clubID": "c1"}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventController_CreateEvent(t *testing.T) {
	date := time.Date(2030, 1, 2, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
	}{
		{"success", CreateEventRequest{Title: "Blitz", Date: date, IsPaid: true, Fee: 5}, nil, http.StatusCreated},
		{"missing date", CreateEventRequest{Title: "Blitz"}, nil, http.StatusBadRequest},
		{"zero capacity", `{"title":"Blitz","date":"2030-01-02T18:00:00Z","max_attendees":0}`, nil, http.StatusBadRequest},
		{"club pending", CreateEventRequest{Title: "Blitz", Date: date}, domain.ErrInvalidState, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.svcErr}
			ctrl := NewEventController(testLogger, svc)
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, newRequest(t, http.MethodPost, "/clubs/c1/events", tt.body, &managerUser, map[string]string{"clubID": "c1"}))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				require.NotNil(t, svc.created)
				assert.Equal(t, "c1", svc.created.ClubID)
				assert.Equal(t, date, svc.created.Date)
			}
		})
	}
}

func TestEventController_ListUpcoming(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{{ID: "e1"}, {ID: "e2"}}, total: 2}
	ctrl := NewEventController(testLogger, svc)
	rr := httptest.NewRecorder()

	ctrl.ListUpcoming(rr, newRequest(t, http.MethodGet, "/events", nil, nil, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var list EventListResponse
	decodeEnvelope(t, rr, &list)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 1, list.Pagination.TotalPages)
}
