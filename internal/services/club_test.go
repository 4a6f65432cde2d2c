package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/domain"
)

var (
	mgr   = domain.Principal{UserID: "u-2", Email: "MGR@example.com", Role: domain.RoleManager}
	admin = domain.Principal{UserID: "u-3", Email: "root@example.com", Role: domain.RoleAdmin}
)

func TestClubService_CreateClub(t *testing.T) {
	store := newMemStore()
	svc := NewClubService(memClubs{store}, memMemberships{store})
	ctx := context.Background()

	t.Run("manager creates pending club", func(t *testing.T) {
		club := &domain.Club{Name: "  Go Readers ", MembershipFee: 12.5, Status: domain.ClubStatusApproved}
		require.NoError(t, svc.CreateClub(ctx, mgr, club))
		assert.NotEmpty(t, club.ID)
		assert.Equal(t, "Go Readers", club.Name)
		assert.Equal(t, domain.ClubStatusPending, club.Status)
		assert.Equal(t, "mgr@example.com", club.ManagerEmail)
	})

	t.Run("member forbidden", func(t *testing.T) {
		err := svc.CreateClub(ctx, ana, &domain.Club{Name: "x"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	tests := []struct {
		name string
		club *domain.Club
	}{
		{"empty name", &domain.Club{Name: "   "}},
		{"negative fee", &domain.Club{Name: "x", MembershipFee: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateClub(ctx, mgr, tt.club)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestClubService_ListClubs_onlyApproved(t *testing.T) {
	store := newMemStore()
	approved := store.addClub(0, domain.ClubStatusApproved)
	store.addClub(0, domain.ClubStatusPending)
	store.addClub(0, domain.ClubStatusRejected)
	svc := NewClubService(memClubs{store}, memMemberships{store})

	clubs, total, err := svc.ListClubs(context.Background(), domain.ClubFilter{Status: domain.ClubStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, clubs, 1)
	assert.Equal(t, approved.ID, clubs[0].ID)
}

func TestClubService_GetClub(t *testing.T) {
	store := newMemStore()
	club := store.addClub(0, domain.ClubStatusApproved)
	svc := NewClubService(memClubs{store}, memMemberships{store})
	ctx := context.Background()

	got, err := svc.GetClub(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, club.Name, got.Name)

	_, err = svc.GetClub(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetClub(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClubService_SetStatus(t *testing.T) {
	store := newMemStore()
	club := store.addClub(0, domain.ClubStatusPending)
	svc := NewClubService(memClubs{store}, memMemberships{store})
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, mgr, club.ID, domain.ClubStatusApproved)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SetStatus(ctx, admin, club.ID, domain.ClubStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := svc.SetStatus(ctx, admin, club.ID, domain.ClubStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.ClubStatusApproved, got.Status)

	_, err = svc.SetStatus(ctx, admin, club.ID, domain.ClubStatusRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestClubService_ListMembers(t *testing.T) {
	store := newMemStore()
	club := store.addClub(0, domain.ClubStatusApproved)
	svc := NewClubService(memClubs{store}, memMemberships{store})
	ctx := context.Background()
	require.NoError(t, memMemberships{store}.Create(ctx, &domain.Membership{UserEmail: anaEmail, ClubID: club.ID}))

	members, err := svc.ListMembers(ctx, mgr, club.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, anaEmail, members[0].UserEmail)

	_, err = svc.ListMembers(ctx, admin, club.ID)
	require.NoError(t, err)

	other := domain.Principal{UserID: "u-9", Email: "other@example.com", Role: domain.RoleManager}
	_, err = svc.ListMembers(ctx, other, club.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ListMembers(ctx, ana, club.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClubService_ListManagedClubs(t *testing.T) {
	store := newMemStore()
	store.addClub(0, domain.ClubStatusPending)
	store.addClub(0, domain.ClubStatusApproved)
	svc := NewClubService(memClubs{store}, memMemberships{store})

	clubs, err := svc.ListManagedClubs(context.Background(), mgr)
	require.NoError(t, err)
	assert.Len(t, clubs, 2)

	_, err = svc.ListManagedClubs(context.Background(), ana)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
