package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrValidation marks domain validation failures raised by model hooks.
// Handlers translate anything wrapping it into a 400 response.
var ErrValidation = errors.New("validation failed")

// Owned is implemented by entities that carry an owner reference,
// either author-style (user_id, sender_id) or creator-style (creator_id).
// The owner, or an admin, is the only caller allowed to mutate the row.
type Owned interface {
	OwnerID() uuid.UUID
	SetOwnerID(id uuid.UUID)
}

// All returns one instance of every entity kind, in migration order.
func All() []any {
	return []any{
		&User{},
		&Community{},
		&Role{},
		&Membership{},
		&Channel{},
		&Post{},
		&Comment{},
		&Reaction{},
		&Event{},
		&EventAttendee{},
		&DirectMessage{},
		&Notification{},
	}
}

// assignID fills a zero primary key before insert. IDs are generated
// application-side so the same models run on postgres and sqlite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// entityExists checks a polymorphic (entity_type, entity_id) target, which has
// no foreign key backing it.
func entityExists(tx *gorm.DB, entityType string, entityID uuid.UUID) (bool, error) {
	var count int64
	var err error
	switch entityType {
	case "Post":
		err = tx.Model(&Post{}).Where("id = ?", entityID).Count(&count).Error
	case "Comment":
		err = tx.Model(&Comment{}).Where("id = ?", entityID).Count(&count).Error
	case "Event":
		err = tx.Model(&Event{}).Where("id = ?", entityID).Count(&count).Error
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
