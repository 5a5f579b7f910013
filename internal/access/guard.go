// Package access restricts the bot to a single trusted operator.
package access

// Guard admits requests from exactly one user id.
type Guard struct {
	UserID int64
}

// Allowed reports whether id is present and equal to the configured id.
// A zero configured id admits nobody.
func (g Guard) Allowed(id *int64) bool {
	return id != nil && g.UserID != 0 && *id == g.UserID
}
