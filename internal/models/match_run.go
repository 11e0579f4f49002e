package models

import (
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/talent-matcher/internal/matching"
)

type MatchStatus string

const (
	StatusQueued     MatchStatus = "queued"
	StatusProcessing MatchStatus = "processing"
	StatusCompleted  MatchStatus = "completed"
	StatusFailed     MatchStatus = "failed"
)

// MatchRun is a queued match request and, once completed, its ranked results.
type MatchRun struct {
	ID             uuid.UUID               `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID          string                  `gorm:"type:text;not null;index" json:"job_id"`
	JobDescription string                  `gorm:"type:text" json:"job_description"`
	CandidateIDs   []string                `gorm:"type:jsonb;serializer:json" json:"candidate_ids,omitempty"`
	RequestedBy    string                  `gorm:"type:text" json:"requested_by,omitempty"`
	Status         MatchStatus             `gorm:"not null;default:'queued'" json:"status"`
	Result         *matching.MatchResponse `gorm:"type:jsonb;serializer:json" json:"result,omitempty"`
	ErrorCode      string                  `gorm:"type:text" json:"error_code,omitempty"`
	ErrorMessage   string                  `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time               `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time               `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MatchRun) TableName() string {
	return "match_runs"
}

func (r *MatchRun) Request() matching.MatchRequest {
	return matching.MatchRequest{
		JobID:          r.JobID,
		JobDescription: r.JobDescription,
		CandidateIDs:   r.CandidateIDs,
	}
}
