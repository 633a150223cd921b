package scheme

import "github.com/nithinkp/kurihub/internal/models"

// CanManage reports whether the actor may mutate the scheme or view its
// full payment breakdown. Role admins act on any scheme; everyone else must
// be the scheme's admin or its creator.
func CanManage(actor *models.User, s *models.Scheme) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.ID == s.AdminID || actor.ID == s.CreatedBy
}

// Visible reports whether the scheme shows up in the given user's listing.
// Broader than CanManage: plain membership is enough to see a scheme, just
// not to change it.
func Visible(userID string, s *models.Scheme) bool {
	if s.AdminID == userID || s.CreatedBy == userID {
		return true
	}
	return s.HasMember(userID)
}
