package models

import "time"

type Publication struct {
	ID        string
	UserID    string
	Text      string
	File      *string
	CreatedAt time.Time
}

type PublicationView struct {
	Publication
	Author UserSummary
}
