// Package gamify holds the pure scoring rules of the platform: rank
// computation, earned-item merging, and the change descriptions used
// for admin-edit notifications. It has no storage or transport
// dependencies so the rules can be tested in isolation.
package gamify

import (
	"fmt"
	"time"
)

// Earned is an item a user holds together with the time it was acquired.
// It covers both badges and solved challenges.
type Earned struct {
	ID int64
	At time.Time
}

// Rank returns the 1-based rank for a score among peerPoints, where rank
// is one more than the number of peers with a strictly greater score.
// Equal scores share a rank.
func Rank(points int, peerPoints []int) int {
	rank := 1
	for _, p := range peerPoints {
		if p > points {
			rank++
		}
	}
	return rank
}

// MergeEarned replaces current with the set identified by wantIDs,
// keeping the original acquisition time for items that were already
// held and stamping now on new ones. It returns the merged set in
// wantIDs order and the number of newly added items. Duplicate IDs in
// wantIDs collapse to a single entry.
func MergeEarned(current []Earned, wantIDs []int64, now time.Time) ([]Earned, int) {
	held := make(map[int64]time.Time, len(current))
	for _, e := range current {
		if _, ok := held[e.ID]; !ok {
			held[e.ID] = e.At
		}
	}

	merged := make([]Earned, 0, len(wantIDs))
	seen := make(map[int64]bool, len(wantIDs))
	added := 0
	for _, id := range wantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		at, ok := held[id]
		if !ok {
			at = now
			added++
		}
		merged = append(merged, Earned{ID: id, At: at})
	}
	return merged, added
}

// ChangeSet accumulates human-readable fragments describing what an
// admin edit changed on a user account.
type ChangeSet struct {
	fragments []string
}

// RecordPoints notes a points change. No fragment is recorded when the
// value did not move.
func (c *ChangeSet) RecordPoints(before, after int) {
	if after > before {
		c.fragments = append(c.fragments, fmt.Sprintf("gained %d points", after-before))
	} else if after < before {
		c.fragments = append(c.fragments, fmt.Sprintf("lost %d points", before-after))
	}
}

// RecordStreak notes a streak change.
func (c *ChangeSet) RecordStreak(before, after int) {
	if after != before {
		c.fragments = append(c.fragments, fmt.Sprintf("streak updated to %d", after))
	}
}

// RecordBadges notes newly earned badges.
func (c *ChangeSet) RecordBadges(added int) {
	if added > 0 {
		c.fragments = append(c.fragments, fmt.Sprintf("earned %d new badge(s)", added))
	}
}

// RecordSolved notes newly recorded challenge completions.
func (c *ChangeSet) RecordSolved(added int) {
	if added > 0 {
		c.fragments = append(c.fragments, fmt.Sprintf("marked %d new challenge(s) as solved", added))
	}
}

// Record appends a literal fragment, used for credential and profile
// picture updates.
func (c *ChangeSet) Record(fragment string) {
	c.fragments = append(c.fragments, fragment)
}

// Empty reports whether no change was recorded.
func (c *ChangeSet) Empty() bool {
	return len(c.fragments) == 0
}

// Fragments returns the recorded fragments in order.
func (c *ChangeSet) Fragments() []string {
	return c.fragments
}

// NotificationMessage renders the message delivered to the edited user,
// or "" when nothing changed.
func (c *ChangeSet) NotificationMessage() string {
	if c.Empty() {
		return ""
	}
	msg := "Admin update: You have " + c.fragments[0]
	for _, f := range c.fragments[1:] {
		msg += ", " + f
	}
	return msg + "."
}
