package matching

import (
	"fmt"
	"math"
	"strings"
)

const maxAdditionalSkills = 5

// Weights are the fixed coefficients of the scoring model.
type Weights struct {
	Skills     float64
	Experience float64
	Education  float64
	Semantic   float64

	// RequiredSkills and PreferredSkills split the skills score.
	RequiredSkills  float64
	PreferredSkills float64

	// Base and Blend mix a level score with a domain or field fraction.
	Base  float64
	Blend float64
}

func DefaultWeights() Weights {
	return Weights{
		Skills:          0.4,
		Experience:      0.25,
		Education:       0.15,
		Semantic:        0.2,
		RequiredSkills:  0.7,
		PreferredSkills: 0.3,
		Base:            0.7,
		Blend:           0.3,
	}
}

// Validate rejects negative weights and component weights that do not sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"skills": w.Skills, "experience": w.Experience, "education": w.Education,
		"semantic": w.Semantic, "required skills": w.RequiredSkills,
		"preferred skills": w.PreferredSkills, "base": w.Base, "blend": w.Blend,
	} {
		if v < 0 {
			return fmt.Errorf("weight %q must be non-negative, got %v", name, v)
		}
	}
	if sum := w.Skills + w.Experience + w.Education + w.Semantic; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("component weights must sum to 1, got %v", sum)
	}
	return nil
}

// SkillMatch is the outcome of comparing a candidate's skills with a job's skills.
type SkillMatch struct {
	Score            float64
	RequiredMatched  []string
	PreferredMatched []string
	Missing          []string
}

// Scorer computes per-candidate component scores.
type Scorer struct {
	patterns *Patterns
	weights  Weights
}

func NewScorer(patterns *Patterns, weights Weights) *Scorer {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Scorer{patterns: patterns, weights: weights}
}

func (s *Scorer) MatchSkills(candidateSkills []string, req JobRequirements) SkillMatch {
	skills := normalizeSkills(candidateSkills)

	match := SkillMatch{
		RequiredMatched:  []string{},
		PreferredMatched: []string{},
		Missing:          []string{},
	}
	for _, skill := range req.RequiredSkills {
		if s.hasSkill(skills, skill) {
			match.RequiredMatched = append(match.RequiredMatched, skill)
		} else {
			match.Missing = append(match.Missing, skill)
		}
	}
	for _, skill := range req.PreferredSkills {
		if s.hasSkill(skills, skill) {
			match.PreferredMatched = append(match.PreferredMatched, skill)
		}
	}

	requiredRatio := 1.0
	if len(req.RequiredSkills) > 0 {
		requiredRatio = float64(len(match.RequiredMatched)) / float64(len(req.RequiredSkills))
	}
	preferredRatio := 0.0
	if len(req.PreferredSkills) > 0 {
		preferredRatio = float64(len(match.PreferredMatched)) / float64(len(req.PreferredSkills))
	}

	match.Score = clamp(s.weights.RequiredSkills*requiredRatio + s.weights.PreferredSkills*preferredRatio)
	return match
}

func (s *Scorer) hasSkill(candidateSkills []string, jobSkill string) bool {
	jobSkill = normalizeTerm(jobSkill)
	for _, c := range candidateSkills {
		if overlaps(c, jobSkill) || s.patterns.synonymous(c, jobSkill) {
			return true
		}
	}
	return false
}

func (s *Scorer) ScoreExperience(lines []string, req JobRequirements) float64 {
	text := strings.ToLower(strings.Join(lines, " "))

	hasSenior := s.patterns.seniorTier.MatchString(text)
	hasMid := s.patterns.midTier.MatchString(text)
	hasEntry := s.patterns.entryTier.MatchString(text)

	var score float64
	switch req.Experience.Level {
	case LevelEntry:
		switch {
		case hasEntry:
			score = 1.0
		case hasMid:
			score = 0.8
		case hasSenior:
			score = 0.6
		default:
			score = 0.4
		}
	case LevelSenior:
		switch {
		case hasSenior:
			score = 1.0
		case hasMid:
			score = 0.7
		default:
			score = 0.4
		}
	case LevelLead, LevelExecutive:
		switch {
		case hasSenior:
			score = 0.9
		case hasMid:
			score = 0.5
		default:
			score = 0.3
		}
	default:
		switch {
		case hasMid:
			score = 1.0
		case hasSenior:
			score = 0.9
		case hasEntry:
			score = 0.7
		default:
			score = 0.5
		}
	}

	if len(req.Experience.Domains) > 0 {
		score = s.blend(score, fractionPresent(text, req.Experience.Domains))
	}

	return clamp(score)
}

func (s *Scorer) ScoreEducation(lines []string, req JobRequirements) float64 {
	if !req.Education.Required {
		return 1.0
	}

	text := strings.ToLower(strings.Join(lines, " "))
	hasPhD := s.hasDegree(text, EducationPhD)
	hasMasters := s.hasDegree(text, EducationMasters)
	hasBachelors := s.hasDegree(text, EducationBachelors)
	hasAssociates := s.hasDegree(text, EducationAssociates)

	var score float64
	switch req.Education.Level {
	case EducationHighSchool:
		score = 1.0
	case EducationAssociates:
		if hasPhD || hasMasters || hasBachelors || hasAssociates {
			score = 1.0
		} else {
			score = 0.5
		}
	case EducationMasters:
		switch {
		case hasMasters || hasPhD:
			score = 1.0
		case hasBachelors:
			score = 0.8
		default:
			score = 0.5
		}
	case EducationPhD:
		switch {
		case hasPhD:
			score = 1.0
		case hasMasters:
			score = 0.7
		default:
			score = 0.5
		}
	default:
		switch {
		case hasBachelors || hasMasters || hasPhD:
			score = 1.0
		case hasAssociates:
			score = 0.7
		default:
			score = 0.4
		}
	}

	if len(req.Education.Fields) > 0 {
		score = s.blend(score, fractionPresent(text, req.Education.Fields))
	}

	return clamp(score)
}

func (s *Scorer) hasDegree(text string, level EducationLevel) bool {
	re, ok := s.patterns.candidateDegrees[level]
	return ok && re.MatchString(text)
}

func (s *Scorer) blend(score, fraction float64) float64 {
	return score*s.weights.Base + fraction*s.weights.Blend
}

// Score runs every stage for one candidate in a fixed order.
func (s *Scorer) Score(candidate CandidateProfile, req JobRequirements, jobEmbedding []float32) (MatchScore, error) {
	skills := s.MatchSkills(candidate.Fields.Skills, req)
	experience := s.ScoreExperience(candidate.Fields.Experience, req)
	education := s.ScoreEducation(candidate.Fields.Education, req)

	similarity, err := CosineSimilarity(jobEmbedding, candidate.Embedding)
	if err != nil {
		return MatchScore{}, fmt.Errorf("candidate %s: %w", candidate.CandidateID, err)
	}
	semantic := clamp(math.Max(similarity, 0))

	overall := s.weights.Skills*skills.Score +
		s.weights.Experience*experience +
		s.weights.Education*education +
		s.weights.Semantic*semantic

	return MatchScore{
		CandidateID:     candidate.CandidateID,
		OverallScore:    clamp(overall),
		SkillsScore:     skills.Score,
		ExperienceScore: experience,
		EducationScore:  education,
		SemanticScore:   semantic,
		Breakdown: MatchBreakdown{
			RequiredSkillsMatched:  skills.RequiredMatched,
			PreferredSkillsMatched: skills.PreferredMatched,
			MissingRequiredSkills:  skills.Missing,
			ExperienceLevel:        string(req.Experience.Level),
			EducationLevel:         string(req.Education.Level),
			AdditionalStrengths:    additionalStrengths(candidate.Fields, req),
		},
	}, nil
}

// additionalStrengths lists candidate skills the job did not ask for, and any certifications.
func additionalStrengths(fields ExtractedFields, req JobRequirements) []string {
	jobSkills := make([]string, 0, len(req.RequiredSkills)+len(req.PreferredSkills))
	jobSkills = append(jobSkills, req.RequiredSkills...)
	jobSkills = append(jobSkills, req.PreferredSkills...)

	var extra []string
	for _, skill := range fields.Skills {
		lower := normalizeTerm(skill)
		if lower == "" {
			continue
		}
		related := false
		for _, js := range jobSkills {
			if overlaps(lower, js) {
				related = true
				break
			}
		}
		if !related {
			extra = append(extra, strings.TrimSpace(skill))
		}
		if len(extra) == maxAdditionalSkills {
			break
		}
	}

	strengths := []string{}
	if len(extra) > 0 {
		strengths = append(strengths, "Additional skills: "+strings.Join(extra, ", "))
	}
	if len(fields.Certifications) > 0 {
		strengths = append(strengths, "Certifications: "+strings.Join(fields.Certifications, ", "))
	}
	return strengths
}

func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func fractionPresent(text string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	found := 0
	for _, t := range terms {
		if strings.Contains(text, normalizeTerm(t)) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = normalizeTerm(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
