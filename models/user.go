// models/user.go
package models

// Role is issued by the external auth service.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleServiceman Role = "serviceman"
	RoleUser       Role = "user"
)

// User is the read-only view of an account this service needs for dispatch.
type User struct {
	Username   string `bson:"username" json:"username"`
	Name       string `bson:"name" json:"name"`
	Role       Role   `bson:"role" json:"role"`
	TelegramID int64  `bson:"telegram_id,omitempty" json:"telegramId,omitempty"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
}

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
