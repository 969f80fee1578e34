// Package domain defines the admin audit trail entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the admin operation an entry records.
type Action string

const (
	ActionUserCreate        Action = "user.create"
	ActionUserUpdate        Action = "user.update"
	ActionUserDelete        Action = "user.delete"
	ActionUserRoleChange    Action = "user.role_change"
	ActionUserPasswordReset Action = "user.password_reset"
)

// Entry records one admin mutation: who did what to whom, when, with an
// HMAC signature over the canonical bytes so tampering is detectable.
type Entry struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	ActorID   int64
	TargetID  int64
	Action    Action
	Metadata  map[string]any
	Signature []byte
	CreatedAt time.Time
}
