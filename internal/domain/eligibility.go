package domain

import (
	"fmt"
	"math"
)

// MinorUnits converts a currency amount to integral minor units (cents).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// IsFree reports whether joining the club costs nothing.
func (c *Club) IsFree() bool {
	return c.MembershipFee <= 0
}

// IsJoinable reports whether the club accepts members. Only approved clubs do.
func (c *Club) IsJoinable() bool {
	return c.Status == ClubStatusApproved
}

// IsFree reports whether registering for the event costs nothing.
func (e *Event) IsFree() bool {
	return !e.IsPaid || e.Fee <= 0
}

// HasCapacity reports whether another registration fits given the current count.
// An unset or non-positive cap means unlimited.
func (e *Event) HasCapacity(registered int) bool {
	if e.MaxAttendees == nil || *e.MaxAttendees <= 0 {
		return true
	}
	return registered < *e.MaxAttendees
}

func formatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
