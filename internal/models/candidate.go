package models

import (
	"time"

	"alfredoptarigan/talent-matcher/internal/matching"
)

type Candidate struct {
	ID             string    `gorm:"type:text;primary_key" json:"id"`
	Name           string    `gorm:"type:text" json:"name"`
	ResumeFilename string    `gorm:"type:text" json:"resume_filename"`
	ResumePath     string    `gorm:"type:text" json:"-"`
	Skills         []string  `gorm:"type:jsonb;serializer:json" json:"skills"`
	Experience     []string  `gorm:"type:jsonb;serializer:json" json:"experience"`
	Education      []string  `gorm:"type:jsonb;serializer:json" json:"education"`
	Certifications []string  `gorm:"type:jsonb;serializer:json" json:"certifications"`
	Summary        string    `gorm:"type:text" json:"summary"`
	CreatedAt      time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) ExtractedFields() matching.ExtractedFields {
	return matching.ExtractedFields{
		Skills:         c.Skills,
		Experience:     c.Experience,
		Education:      c.Education,
		Certifications: c.Certifications,
		Summary:        c.Summary,
	}
}

func (c *Candidate) SetExtractedFields(f matching.ExtractedFields) {
	c.Skills = f.Skills
	c.Experience = f.Experience
	c.Education = f.Education
	c.Certifications = f.Certifications
	c.Summary = f.Summary
}
