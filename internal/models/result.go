package models

import "alfredoptarigan/talent-matcher/internal/matching"

type CandidateResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	ResumeFilename  string                   `json:"resume_filename"`
	ExtractedFields matching.ExtractedFields `json:"extracted_fields"`
}

type CreateJobRequest struct {
	JobID       string `json:"job_id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description" validate:"required"`
}

type JobResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	EmbeddingSize int    `json:"embedding_size"`
}

type MatchRequest struct {
	JobID          string   `json:"job_id" validate:"required"`
	JobDescription string   `json:"job_description" validate:"required"`
	CandidateIDs   []string `json:"candidate_ids" validate:"omitempty,dive,required"`
}

func (r MatchRequest) ToMatching() matching.MatchRequest {
	return matching.MatchRequest{
		JobID:          r.JobID,
		JobDescription: r.JobDescription,
		CandidateIDs:   r.CandidateIDs,
	}
}

type MatchRunResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string                  `json:"id"`
	Status       string                  `json:"status"`
	Result       *matching.MatchResponse `json:"result,omitempty"`
	ErrorCode    string                  `json:"error_code,omitempty"`
	ErrorMessage string                  `json:"error_message,omitempty"`
}

type SimilarCandidate struct {
	CandidateID string  `json:"candidate_id"`
	Score       float32 `json:"score"`
}
