package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionSet maps named capabilities to booleans,
// e.g. {"can_post": true, "can_moderate": false}.
type PermissionSet map[string]bool

func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionSet{}
	}
	return json.Marshal(p)
}

func (p *PermissionSet) Scan(value any) error {
	if value == nil {
		*p = PermissionSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported permission set type %T", value)
	}
}

// Role is a per-community role. Role names are unique within a community,
// not globally. Roles have no owner field, so only admins may mutate them.
type Role struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(50);not null;uniqueIndex:uk_roles_name_community" json:"name"`
	Permissions PermissionSet `gorm:"type:jsonb" json:"permissions"`
	CommunityID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uk_roles_name_community" json:"community_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"community,omitempty"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
