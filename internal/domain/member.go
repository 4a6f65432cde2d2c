package domain

import "context"

// MemberService lists what the calling principal has joined and paid for.
type MemberService interface {
	ListMyMemberships(ctx context.Context, p Principal) ([]*MembershipWithClub, error)
	ListMyRegistrations(ctx context.Context, p Principal) ([]*EventRegistrationWithEvent, error)
	ListMyPayments(ctx context.Context, p Principal) ([]*Payment, error)
}
