package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction targets a post or comment through a polymorphic
// (entity_type, entity_id) pair; no foreign key backs the target, so existence
// is checked explicitly before insert. A user holds at most one reaction per
// target; re-reacting overwrites the reaction type instead of duplicating.
type Reaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_reactions_user_target" json:"user_id"`
	EntityType   string    `gorm:"type:varchar(50);not null;uniqueIndex:uk_reactions_user_target" json:"entity_type"`
	EntityID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_reactions_user_target" json:"entity_id"`
	ReactionType string    `gorm:"type:varchar(50);not null" json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)

	if r.EntityType != "Post" && r.EntityType != "Comment" {
		return fmt.Errorf("%w: entity_type must be Post or Comment", ErrValidation)
	}
	exists, err := entityExists(tx, r.EntityType, r.EntityID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s %s does not exist", ErrValidation, r.EntityType, r.EntityID)
	}
	return nil
}

func (r *Reaction) OwnerID() uuid.UUID      { return r.UserID }
func (r *Reaction) SetOwnerID(id uuid.UUID) { r.UserID = id }
