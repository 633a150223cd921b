package scheme

import "github.com/nithinkp/kurihub/internal/models"

// Collection summarizes contribution progress for one month. All values are
// derived on read and never stored.
type Collection struct {
	Month           int     `json:"month"`
	PaidCount       int     `json:"paidCount"`
	TotalExpected   float64 `json:"totalExpected"`
	TotalCollected  float64 `json:"totalCollected"`
	ProgressPercent float64 `json:"progressPercent"`
}

// MonthlyCollection computes collection analytics for the given month:
// how many members have paid, the expected and collected totals, and the
// progress percentage (0 when nothing is expected).
func MonthlyCollection(s *models.Scheme, month int) Collection {
	paid := 0
	for _, p := range s.Payments {
		if p.Month == month && p.Status == models.PaymentPaid {
			paid++
		}
	}

	c := Collection{
		Month:          month,
		PaidCount:      paid,
		TotalExpected:  s.MonthlyAmount * float64(len(s.MemberIDs)),
		TotalCollected: s.MonthlyAmount * float64(paid),
	}
	if c.TotalExpected > 0 {
		c.ProgressPercent = c.TotalCollected / c.TotalExpected * 100
	}
	return c
}

// HasPaid reports whether the member's contribution for the month is marked
// paid. This is the only payment detail a plain member may see.
func HasPaid(s *models.Scheme, memberID string, month int) bool {
	p := s.PaymentFor(memberID, month)
	return p != nil && p.Status == models.PaymentPaid
}
