package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "ROLE_USER"
	UserRoleAdmin UserRole = "ROLE_ADMIN"
)

type User struct {
	ID           string
	Name         string
	Surname      string
	Nick         string
	Email        string
	PasswordHash []byte
	Role         UserRole
	Image        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the projection embedded in follow, publication and message listings.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Nick:    u.Nick,
		Image:   u.Image,
	}
}

type UserSummary struct {
	ID      string
	Name    string
	Surname string
	Nick    string
	Image   *string
}

type ProfileUpdate struct {
	Name    string
	Surname string
	Nick    string
	Email   string
}
