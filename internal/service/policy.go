package service

import "reviewhub/internal/models"

// canModerate reports whether the caller may edit content they do not own.
func canModerate(c *Claims) bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleModerator || c.Superuser
}

// canModify is the write policy for reviews and comments: the author,
// moderators and admins.
func canModify(c *Claims, authorID string) bool {
	return c.UserID == authorID || canModerate(c)
}
