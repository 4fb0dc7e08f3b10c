package models

const RoleAdmin = "admin"

// Principal is the authenticated identity carried by a session. Role is a
// snapshot taken at login and is never re-read from the identity store.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`

	// CSRFToken is minted at login and echoed back by the dashboard on writes.
	CSRFToken string `json:"-"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
