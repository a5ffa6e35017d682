package entities

import "time"

// EarnedBadges is the per-user earned-badge record. A badge, once earned,
// is permanent.
type EarnedBadges struct {
	Earned []string             `json:"earned_badges"`
	Dates  map[string]time.Time `json:"badge_dates"`
}

// NewEarnedBadges creates an empty earned-badge record.
func NewEarnedBadges() *EarnedBadges {
	return &EarnedBadges{
		Earned: []string{},
		Dates:  make(map[string]time.Time),
	}
}

// Has reports whether the badge has already been earned.
func (b *EarnedBadges) Has(badgeID string) bool {
	for _, id := range b.Earned {
		if id == badgeID {
			return true
		}
	}
	return false
}

// Award records a newly earned badge. It returns false without modifying the
// record if the badge was already earned, so timestamps are never overwritten.
func (b *EarnedBadges) Award(badgeID string, at time.Time) bool {
	if b.Has(badgeID) {
		return false
	}
	b.Earned = append(b.Earned, badgeID)
	b.Dates[badgeID] = at
	return true
}
