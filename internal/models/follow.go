package models

import (
	"slices"
	"time"
)

// Follow is a directed edge: UserID follows FollowedID.
type Follow struct {
	ID         string
	UserID     string
	FollowedID string
	CreatedAt  time.Time
}

type FollowView struct {
	Follow
	User     UserSummary
	Followed UserSummary
}

// Relations lists the ids a user follows and the ids following that user.
type Relations struct {
	Following []string
	Followers []string
}

func (r Relations) IsFollowing(id string) bool {
	return slices.Contains(r.Following, id)
}

func (r Relations) IsFollowedBy(id string) bool {
	return slices.Contains(r.Followers, id)
}

