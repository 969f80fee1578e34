package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/domain"
)

// Repository is the audit persistence the usecase needs.
type Repository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*domain.Entry, error)
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RecordInput describes one admin mutation to record.
type RecordInput struct {
	RequestID uuid.UUID
	ActorID   int64
	TargetID  int64
	Action    domain.Action
	Metadata  map[string]any
}

// VerificationReport summarizes a batch integrity check.
type VerificationReport struct {
	TotalChecked  int64       `json:"totalChecked"`
	ValidCount    int64       `json:"valid"`
	InvalidCount  int64       `json:"invalid"`
	UnsignedCount int64       `json:"unsigned"`
	InvalidIDs    []uuid.UUID `json:"invalidIds,omitempty"`
}

// UseCase defines the audit trail operations.
type UseCase interface {
	// Record signs and persists one audit entry.
	Record(ctx context.Context, input RecordInput) error

	// List retrieves entries newest first with pagination and optional
	// inclusive time bounds.
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*domain.Entry, error)

	// VerifyBatch recomputes signatures over the stored entries in the time
	// range and reports tampering.
	VerifyBatch(ctx context.Context, startTime, endTime time.Time) (*VerificationReport, error)

	// CountOlderThan reports how many entries DeleteOlderThan would prune,
	// for dry runs.
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOlderThan prunes entries created before the cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
