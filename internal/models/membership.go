package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipPending MembershipStatus = "pending"
	MembershipBanned  MembershipStatus = "banned"
)

// Membership joins a user to a community under a role.
// A user holds at most one membership per community.
type Membership struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_memberships_user_community" json:"user_id"`
	CommunityID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_memberships_user_community" json:"community_id"`
	RoleID      uuid.UUID        `gorm:"type:uuid;not null" json:"role_id"`
	Status      MembershipStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	JoinedAt    time.Time        `gorm:"autoCreateTime" json:"joined_at"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"community,omitempty"`
	Role      *Role      `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role,omitempty"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (m *Membership) OwnerID() uuid.UUID      { return m.UserID }
func (m *Membership) SetOwnerID(id uuid.UUID) { m.UserID = id }
