package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer() *Scorer {
	return NewScorer(nil, DefaultWeights())
}

func TestMatchSkills_EmptyRequiredGivesFullRequiredTerm(t *testing.T) {
	req := JobRequirements{}

	match := newTestScorer().MatchSkills([]string{"Cobol"}, req)

	// 0.7 * 1.0 from the required term, 0.3 * 0 from the empty preferred term
	assert.InDelta(t, 0.7, match.Score, 1e-9)
	assert.Empty(t, match.Missing)
}

func TestMatchSkills_RequiredAndPreferred(t *testing.T) {
	req := JobRequirements{
		RequiredSkills:  []string{"python", "django", "kafka"},
		PreferredSkills: []string{"docker", "terraform"},
	}

	match := newTestScorer().MatchSkills([]string{"Python", "Django", "Docker"}, req)

	assert.Equal(t, []string{"python", "django"}, match.RequiredMatched)
	assert.Equal(t, []string{"docker"}, match.PreferredMatched)
	assert.Equal(t, []string{"kafka"}, match.Missing)
	assert.InDelta(t, 0.7*2.0/3.0+0.3*0.5, match.Score, 1e-9)
}

func TestMatchSkills_Synonyms(t *testing.T) {
	req := JobRequirements{
		RequiredSkills: []string{"javascript", "postgresql", "kubernetes"},
	}

	match := newTestScorer().MatchSkills([]string{"ES6", "Postgres", "k8s"}, req)

	assert.Equal(t, []string{"javascript", "postgresql", "kubernetes"}, match.RequiredMatched)
	assert.InDelta(t, 0.7, match.Score, 1e-9)
}

func TestMatchSkills_SynonymsStayWithinGroup(t *testing.T) {
	req := JobRequirements{RequiredSkills: []string{"typescript"}}

	match := newTestScorer().MatchSkills([]string{"es6"}, req)

	assert.Empty(t, match.RequiredMatched)
	assert.Equal(t, []string{"typescript"}, match.Missing)
}

func TestMatchSkills_Substring(t *testing.T) {
	req := JobRequirements{RequiredSkills: []string{"react"}}

	match := newTestScorer().MatchSkills([]string{"React Native"}, req)

	assert.Equal(t, []string{"react"}, match.RequiredMatched)
}

func TestMatchSkills_IgnoresBlankCandidateSkills(t *testing.T) {
	req := JobRequirements{RequiredSkills: []string{"rust"}}

	match := newTestScorer().MatchSkills([]string{"", "   "}, req)

	assert.Empty(t, match.RequiredMatched)
	assert.Equal(t, 0.0, match.Score)
}

func TestScoreExperience_Table(t *testing.T) {
	tests := []struct {
		name  string
		level ExperienceLevel
		lines []string
		want  float64
	}{
		{"entry with entry tier", LevelEntry, []string{"Junior developer"}, 1.0},
		{"entry with mid tier", LevelEntry, []string{"Software engineer"}, 0.8},
		{"entry with senior tier", LevelEntry, []string{"Director of sales"}, 0.6},
		{"entry with nothing", LevelEntry, []string{"Barista"}, 0.4},
		{"mid with mid tier", LevelMid, []string{"Data analyst"}, 1.0},
		{"mid with senior tier", LevelMid, []string{"Engineering manager"}, 0.9},
		{"mid with entry tier", LevelMid, []string{"Summer intern"}, 0.7},
		{"mid with nothing", LevelMid, []string{"Barista"}, 0.5},
		{"senior with senior tier", LevelSenior, []string{"Principal consultant"}, 1.0},
		{"senior with mid tier", LevelSenior, []string{"Backend developer"}, 0.7},
		{"senior with nothing", LevelSenior, []string{"Barista"}, 0.4},
		{"lead with senior tier", LevelLead, []string{"Tech lead"}, 0.9},
		{"executive with mid tier", LevelExecutive, []string{"QA specialist"}, 0.5},
		{"executive with nothing", LevelExecutive, []string{"Barista"}, 0.3},
	}

	scorer := newTestScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := JobRequirements{Experience: ExperienceRequirement{Level: tt.level}}
			assert.InDelta(t, tt.want, scorer.ScoreExperience(tt.lines, req), 1e-9)
		})
	}
}

func TestScoreExperience_DomainBlend(t *testing.T) {
	req := JobRequirements{
		Experience: ExperienceRequirement{
			Level:   LevelSenior,
			Domains: []string{"fintech", "healthcare"},
		},
	}

	score := newTestScorer().ScoreExperience([]string{"Senior engineer at a fintech startup"}, req)

	assert.InDelta(t, 1.0*0.7+0.5*0.3, score, 1e-9)
}

func TestScoreEducation_NotRequiredIsFullScore(t *testing.T) {
	req := JobRequirements{
		Education: EducationRequirement{Required: false, Level: EducationPhD, Fields: []string{"physics"}},
	}

	assert.Equal(t, 1.0, newTestScorer().ScoreEducation(nil, req))
	assert.Equal(t, 1.0, newTestScorer().ScoreEducation([]string{"High school dropout"}, req))
}

func TestScoreEducation_Table(t *testing.T) {
	tests := []struct {
		name  string
		level EducationLevel
		lines []string
		want  float64
	}{
		{"high school always", EducationHighSchool, []string{"none"}, 1.0},
		{"associates with bachelor", EducationAssociates, []string{"BA History"}, 1.0},
		{"associates with nothing", EducationAssociates, []string{"self taught"}, 0.5},
		{"bachelors with masters", EducationBachelors, []string{"MSc Physics"}, 1.0},
		{"bachelors with associate", EducationBachelors, []string{"Associate of Arts"}, 0.7},
		{"bachelors with nothing", EducationBachelors, []string{"bootcamp"}, 0.4},
		{"masters with phd", EducationMasters, []string{"PhD in Biology"}, 1.0},
		{"masters with bachelor", EducationMasters, []string{"Bachelor of Science"}, 0.8},
		{"masters with nothing", EducationMasters, []string{"bootcamp"}, 0.5},
		{"phd with phd", EducationPhD, []string{"Ph.D. Chemistry"}, 1.0},
		{"phd with masters", EducationPhD, []string{"Master of Engineering"}, 0.7},
		{"phd with bachelor only", EducationPhD, []string{"BS Computer Science"}, 0.5},
	}

	scorer := newTestScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := JobRequirements{Education: EducationRequirement{Required: true, Level: tt.level}}
			assert.InDelta(t, tt.want, scorer.ScoreEducation(tt.lines, req), 1e-9)
		})
	}
}

func TestScoreEducation_FieldBlend(t *testing.T) {
	req := JobRequirements{
		Education: EducationRequirement{
			Required: true,
			Level:    EducationMasters,
			Fields:   []string{"computer science", "mathematics"},
		},
	}

	score := newTestScorer().ScoreEducation([]string{"BS Computer Science"}, req)

	assert.InDelta(t, 0.8*0.7+0.5*0.3, score, 1e-9)
}

func TestScore_AdditionalStrengths(t *testing.T) {
	req := JobRequirements{RequiredSkills: []string{"python"}}
	candidate := CandidateProfile{
		CandidateID: "c1",
		Embedding:   []float32{1, 0},
		Fields: ExtractedFields{
			Skills:         []string{"Python", "Go", "Rust", "Elixir", "Haskell", "OCaml", "Zig", "Nim"},
			Certifications: []string{"CKA", "AWS Certified"},
		},
	}

	score, err := newTestScorer().Score(candidate, req, []float32{1, 0})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Additional skills: Go, Rust, Elixir, Haskell, OCaml",
		"Certifications: CKA, AWS Certified",
	}, score.Breakdown.AdditionalStrengths)
}

func TestScore_BoundsAndNegativeSimilarity(t *testing.T) {
	req := JobRequirements{
		RequiredSkills: []string{"python"},
		Experience:     ExperienceRequirement{Level: LevelSenior},
		Education:      EducationRequirement{Required: true, Level: EducationMasters},
	}
	candidate := CandidateProfile{
		CandidateID: "c1",
		Embedding:   []float32{-1, -2, -3},
		Fields:      ExtractedFields{Skills: []string{"python"}, Experience: []string{"Senior engineer"}},
	}

	score, err := newTestScorer().Score(candidate, req, []float32{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 0.0, score.SemanticScore)
	for _, v := range []float64{score.OverallScore, score.SkillsScore, score.ExperienceScore, score.EducationScore, score.SemanticScore} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestScore_DimensionMismatch(t *testing.T) {
	candidate := CandidateProfile{
		CandidateID: "c1",
		Embedding:   make([]float32, 512),
		Fields:      ExtractedFields{Skills: []string{"go"}},
	}

	_, err := newTestScorer().Score(candidate, JobRequirements{}, make([]float32, 768))

	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.Semantic = 0.5
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Blend = -0.1
	assert.Error(t, w.Validate())
}
