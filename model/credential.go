// model/credential.go
package model

import (
	"encoding/json"
	"time"
)

// Credential maps access codes to a session. One Credential per Session;
// ownership lives outside the progression engine, which only performs
// lookups. The child and guardian flows carry independent codes.
type Credential struct {
	SessionID     string          `json:"session_id" gorm:"primaryKey;type:text;not null"`
	ChildCode     string          `json:"child_code" gorm:"uniqueIndex;not null;size:64"`
	GuardianCode  string          `json:"guardian_code" gorm:"uniqueIndex;not null;size:64"`
	Email         string          `json:"email" gorm:"index;size:255"`
	Subscribed    bool            `json:"subscribed" gorm:"default:false;not null"`
	CalendarNotes json.RawMessage `json:"calendar_notes,omitempty" gorm:"type:text"` // optional per-day annotations
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null"`
}

// Access roles resolved from which code matched.
const (
	RoleChild    = "child"
	RoleGuardian = "guardian"
)
