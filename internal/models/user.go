// internal/models/user.go
package models

// Location is the last position a driver app reported.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp float64  `json:"timestamp"` // unix millis
}

// User is a record under users/{uid}. Staff and drivers share the subtree;
// PasswordHash and EmailVerified are only used by the local identity driver.
type User struct {
	Email           string    `json:"email,omitempty"`
	FirstName       string    `json:"firstName,omitempty"`
	LastName        string    `json:"lastName,omitempty"`
	Role            string    `json:"role,omitempty"`
	PasswordHash    string    `json:"passwordHash,omitempty"`
	EmailVerified   bool      `json:"emailVerified,omitempty"`
	CurrentLocation *Location `json:"currentLocation,omitempty"`
}
