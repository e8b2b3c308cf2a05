package model

import "time"

const Collection = "groups"

// Group is a member-run community inside the forum.
type Group struct {
	GroupID     string `bson:"group_id" json:"group_id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     string `bson:"owner_id" json:"owner_id"`

	Members []string `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
