package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to a post. ParentID threads replies: a reply's parent must
// belong to the same post. Depth is unbounded; replies are fetched by id, the
// tree is never materialized eagerly.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PostID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Author *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Post   *Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Parent *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"parent,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return checkParentPost(tx, c.PostID, c.ParentID)
}

// BeforeUpdate keeps the threading invariant across partial updates: moving a
// comment to another post must not detach a reply from its parent's post. The
// hook runs on the merge payload; fields absent from it come from the stored
// row.
func (c *Comment) BeforeUpdate(tx *gorm.DB) error {
	postID, parentID := c.PostID, c.ParentID
	if stored, ok := tx.Statement.Model.(*Comment); ok {
		if postID == uuid.Nil {
			postID = stored.PostID
		}
		if parentID == nil {
			parentID = stored.ParentID
		}
	}
	return checkParentPost(tx, postID, parentID)
}

func checkParentPost(tx *gorm.DB, postID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	var parent Comment
	if err := tx.Where("id = ?", *parentID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: parent comment not found", ErrValidation)
		}
		return err
	}
	if parent.PostID != postID {
		return fmt.Errorf("%w: parent comment belongs to another post", ErrValidation)
	}
	return nil
}

func (c *Comment) OwnerID() uuid.UUID      { return c.UserID }
func (c *Comment) SetOwnerID(id uuid.UUID) { c.UserID = id }
