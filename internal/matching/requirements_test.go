package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_EmptyDescription(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("   \n\t ")

	assert.Empty(t, req.RequiredSkills)
	assert.Empty(t, req.PreferredSkills)
	assert.Empty(t, req.Certifications)
	assert.Empty(t, req.Experience.Domains)
	assert.Empty(t, req.Education.Fields)
	assert.Nil(t, req.Experience.MinimumYears)
	assert.Equal(t, LevelMid, req.Experience.Level)
	assert.Equal(t, EducationBachelors, req.Education.Level)
	assert.False(t, req.Education.Required)
}

func TestExtract_PythonDjangoScenario(t *testing.T) {
	desc := "5+ years required experience in Python, Django required. Bachelor's degree required in Computer Science."

	req := NewRequirementExtractor(nil).Extract(desc)

	assert.Equal(t, []string{"django", "python"}, req.RequiredSkills)
	assert.Empty(t, req.PreferredSkills)
	require.NotNil(t, req.Experience.MinimumYears)
	assert.Equal(t, 5, *req.Experience.MinimumYears)
	assert.Equal(t, LevelMid, req.Experience.Level)
	assert.True(t, req.Education.Required)
	assert.Equal(t, EducationBachelors, req.Education.Level)
	assert.Contains(t, req.Education.Fields, "computer science")
}

func TestExtract_PreferredSkillsFromContext(t *testing.T) {
	desc := "We build services in Golang. " +
		"Experience with Kubernetes is a strong plus, and Terraform would be nice to have."

	req := NewRequirementExtractor(nil).Extract(desc)

	assert.Contains(t, req.PreferredSkills, "kubernetes")
	assert.Contains(t, req.PreferredSkills, "terraform")
	assert.NotContains(t, req.RequiredSkills, "kubernetes")
}

func TestExtract_SkillWithoutSignalDefaultsToRequired(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("Our stack is Rust.")

	assert.Equal(t, []string{"rust"}, req.RequiredSkills)
	assert.Empty(t, req.PreferredSkills)
}

func TestExtract_WholeWordMatching(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("Strong JavaScript and PostgreSQL skills required.")

	assert.Contains(t, req.RequiredSkills, "javascript")
	assert.Contains(t, req.RequiredSkills, "postgresql")
	assert.NotContains(t, req.RequiredSkills, "java")
	assert.NotContains(t, req.RequiredSkills, "sql")
}

func TestExtract_SymbolKeywords(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("Must have C++ and C# plus Node.js.")

	all := append(append([]string{}, req.RequiredSkills...), req.PreferredSkills...)
	assert.Contains(t, all, "c++")
	assert.Contains(t, all, "c#")
	assert.Contains(t, all, "node.js")
}

func TestExtract_NegationIsStillAMention(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("No Python experience required.")

	assert.Contains(t, req.RequiredSkills, "python")
}

func TestExtract_EducationLevelPriority(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("PhD preferred, Bachelor's required.")

	assert.Equal(t, EducationPhD, req.Education.Level)
	assert.True(t, req.Education.Required)
}

func TestExtract_EducationNotRequiredWithoutRequirementWord(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("A master's degree in statistics is welcome.")

	assert.False(t, req.Education.Required)
	assert.Equal(t, EducationMasters, req.Education.Level)
	assert.Contains(t, req.Education.Fields, "statistics")
}

func TestExtract_ScrumMasterIsNotADegree(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("Certified Scrum Master a plus. Bachelor's degree required.")

	assert.Equal(t, EducationBachelors, req.Education.Level)
	assert.True(t, req.Education.Required)
	assert.Contains(t, req.Certifications, "certified scrum master")

	req = NewRequirementExtractor(nil).Extract("Scrum Master experience required.")
	assert.False(t, req.Education.Required)
}

func TestExtract_DomainsAndCertifications(t *testing.T) {
	desc := "Join our fintech team serving healthcare clients. AWS Certified or CKA preferred."

	req := NewRequirementExtractor(nil).Extract(desc)

	assert.Equal(t, []string{"fintech", "healthcare"}, req.Experience.Domains)
	assert.Equal(t, []string{"aws certified", "cka"}, req.Certifications)
}

func TestLevelForYears(t *testing.T) {
	tests := []struct {
		years int
		want  ExperienceLevel
	}{
		{0, LevelEntry},
		{2, LevelEntry},
		{3, LevelMid},
		{5, LevelMid},
		{6, LevelSenior},
		{8, LevelSenior},
		{9, LevelLead},
		{12, LevelLead},
		{13, LevelExecutive},
		{20, LevelExecutive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForYears(tt.years), "years=%d", tt.years)
	}
}

func TestExtract_YearsMapToLevel(t *testing.T) {
	req := NewRequirementExtractor(nil).Extract("10 years of professional experience building APIs.")

	require.NotNil(t, req.Experience.MinimumYears)
	assert.Equal(t, 10, *req.Experience.MinimumYears)
	assert.Equal(t, LevelLead, req.Experience.Level)
}

func TestExtract_Idempotent(t *testing.T) {
	desc := `Senior Backend Engineer (fintech)
Requirements: 7+ years of experience with Golang, PostgreSQL and Kafka. Docker is a bonus.
Master's degree in Computer Science required. PMP nice to have. Strong communication skills.`

	extractor := NewRequirementExtractor(nil)
	first := extractor.Extract(desc)
	second := extractor.Extract(desc)

	assert.Equal(t, first, second)
}

func TestPatternSet_CompileRejectsBadRegex(t *testing.T) {
	ps := DefaultPatternSet
	ps.YearsPattern = "(unclosed"

	_, err := ps.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "years pattern")
}

func TestPatterns_SkillsAndCertifications(t *testing.T) {
	p := DefaultPatterns()

	assert.Equal(t, []string{"docker", "python"}, p.Skills("Python, Docker, python"))
	assert.Equal(t, []string{"cissp"}, p.CertificationsIn("Holds CISSP since 2019"))
	assert.True(t, p.HasDegree("BSc, Bachelor of Science"))
	assert.True(t, p.HasSeniority("Senior engineer at Acme"))
	assert.False(t, p.HasSeniority("Volunteer at the local library"))
}

func TestPatterns_HighestDegree(t *testing.T) {
	p := DefaultPatterns()

	level, ok := p.HighestDegree("MSc Data Science, BSc Mathematics")
	require.True(t, ok)
	assert.Equal(t, EducationMasters, level)

	level, ok = p.HighestDegree("B.S. in Physics")
	require.True(t, ok)
	assert.Equal(t, EducationBachelors, level)

	level, ok = p.HighestDegree("Certified Scrum Master\nBachelor of Arts, History")
	require.True(t, ok)
	assert.Equal(t, EducationBachelors, level)

	_, ok = p.HighestDegree("Self-taught programmer")
	assert.False(t, ok)
}
