// Package matching scores candidates against a job description and ranks them.
package matching

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high-school"
	EducationAssociates EducationLevel = "associates"
	EducationBachelors  EducationLevel = "bachelors"
	EducationMasters    EducationLevel = "masters"
	EducationPhD        EducationLevel = "phd"
)

// JobRequirements is the structured form of a free-text job description.
// Every string slice is lower-cased, deduplicated and sorted.
type JobRequirements struct {
	RequiredSkills  []string              `json:"required_skills"`
	PreferredSkills []string              `json:"preferred_skills"`
	Experience      ExperienceRequirement `json:"experience"`
	Education       EducationRequirement  `json:"education"`
	Certifications  []string              `json:"certifications"`
}

type ExperienceRequirement struct {
	MinimumYears *int            `json:"minimum_years,omitempty"`
	Level        ExperienceLevel `json:"level"`
	Domains      []string        `json:"domains"`
}

type EducationRequirement struct {
	Required bool           `json:"required"`
	Level    EducationLevel `json:"level"`
	Fields   []string       `json:"fields"`
}

// ExtractedFields holds the structured resume data of a candidate.
type ExtractedFields struct {
	Skills         []string `json:"skills"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
	Summary        string   `json:"summary,omitempty"`
}

func (f ExtractedFields) IsEmpty() bool {
	return len(f.Skills) == 0 &&
		len(f.Experience) == 0 &&
		len(f.Education) == 0 &&
		len(f.Certifications) == 0
}

type CandidateProfile struct {
	CandidateID string          `json:"candidate_id"`
	Embedding   []float32       `json:"-"`
	Fields      ExtractedFields `json:"extracted_fields"`
}

type MatchScore struct {
	CandidateID     string         `json:"candidate_id"`
	OverallScore    float64        `json:"overall_score"`
	SkillsScore     float64        `json:"skills_score"`
	ExperienceScore float64        `json:"experience_score"`
	EducationScore  float64        `json:"education_score"`
	SemanticScore   float64        `json:"semantic_score"`
	Breakdown       MatchBreakdown `json:"breakdown"`
}

type MatchBreakdown struct {
	RequiredSkillsMatched  []string `json:"required_skills_matched"`
	PreferredSkillsMatched []string `json:"preferred_skills_matched"`
	MissingRequiredSkills  []string `json:"missing_required_skills"`
	ExperienceLevel        string   `json:"experience_level"`
	EducationLevel         string   `json:"education_level"`
	AdditionalStrengths    []string `json:"additional_strengths"`
}

type MatchRequest struct {
	JobID          string   `json:"job_id"`
	JobDescription string   `json:"job_description"`
	CandidateIDs   []string `json:"candidate_ids,omitempty"`
}

type MatchResponse struct {
	Results         []MatchScore    `json:"results"`
	JobRequirements JobRequirements `json:"job_requirements"`
	TotalCandidates int             `json:"total_candidates"`
}
