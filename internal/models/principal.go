package models

// Principal is the authenticated identity attached to a request by the
// auth boundary. Services receive it as an explicit argument; they never
// read identity out of ambient request state.
type Principal struct {
	UserID uint `json:"user_id"`
	Role   Role `json:"role"`
}

// Elevated reports whether the principal may act beyond its own
// resources (admin capability).
func (p Principal) Elevated() bool {
	return p.Role == RoleAdmin
}
