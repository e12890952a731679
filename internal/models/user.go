package models

import "time"

// User is a registered InstaClone account.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"size:100" json:"displayName"`
	Bio         string    `gorm:"size:500" json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}

// Profile is the public view of a user.
type Profile struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToProfile strips credentials from u.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
	}
}

// FeatureFlags lists the configured flag values and their state for the caller.
type FeatureFlags struct {
	Raw       map[string]string `json:"raw"`
	Evaluated map[string]bool   `json:"evaluated"`
}
