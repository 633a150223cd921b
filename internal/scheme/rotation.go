package scheme

import "time"

// RotationPolicy selects how monthly winners are decided. The two policies
// are mutually exclusive per deployment: direct assignment by an owner/admin,
// or peer-driven nomination with admin approval.
type RotationPolicy string

const (
	// RotationDirect lets an owner/admin set or clear the winner for a
	// month, gated by the taken date.
	RotationDirect RotationPolicy = "direct"

	// RotationNomination makes rotation peer-driven: the incumbent winner
	// nominates a replacement, the scheme admin approves or rejects.
	RotationNomination RotationPolicy = "nomination"
)

// ParseRotationPolicy maps a config string to a policy, defaulting to
// nomination for anything unrecognized.
func ParseRotationPolicy(s string) RotationPolicy {
	if s == string(RotationDirect) {
		return RotationDirect
	}
	return RotationNomination
}

// startDateLayout is the on-disk format of Scheme.StartDate.
const startDateLayout = "2006-01-02"

// TakenDate computes the calendar date at which month m (1-based) becomes
// eligible for winner assignment: the start date advanced by m-1 calendar
// months, with the day-of-month clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func TakenDate(start time.Time, month int) time.Time {
	return addMonthsClamped(start, month-1)
}

func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// Normalize to the first of the target month, then clamp the day.
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// parseStartDate parses a scheme's start date. The second return is false
// when the field is empty or malformed, in which case the eligibility gate
// cannot be computed and is skipped.
func parseStartDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(startDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
