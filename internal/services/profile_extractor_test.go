package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/talent-matcher/internal/matching"
)

const sectionedResume = `Jane Doe
Backend engineer focused on payments.

Experience
Senior Python Developer, Acme Fintech, 2018 - Present
- Built Django services on AWS

Education:
BS Computer Science, State University

Skills
Python, Django, Docker, PostgreSQL

Certifications
AWS Certified Solutions Architect`

func TestProfileExtractor_SectionedResume(t *testing.T) {
	fields := NewProfileExtractor(matching.DefaultPatterns()).Extract(sectionedResume)

	assert.Subset(t, fields.Skills, []string{"aws", "django", "docker", "postgresql", "python"})
	assert.NotContains(t, fields.Skills, "sql")
	assert.Equal(t, []string{
		"Senior Python Developer, Acme Fintech, 2018 - Present",
		"Built Django services on AWS",
	}, fields.Experience)
	assert.Equal(t, []string{"BS Computer Science, State University"}, fields.Education)
	assert.Contains(t, fields.Certifications, "aws certified")
	assert.Equal(t, "Jane Doe Backend engineer focused on payments.", fields.Summary)
}

func TestProfileExtractor_UnsectionedResume(t *testing.T) {
	text := "John Smith\nSoftware engineer with 7 years of experience\nLead Developer at Globex 2015-2022\nMSc Software Engineering"

	fields := NewProfileExtractor(matching.DefaultPatterns()).Extract(text)

	assert.Equal(t, []string{
		"Software engineer with 7 years of experience",
		"Lead Developer at Globex 2015-2022",
	}, fields.Experience)
	assert.Equal(t, []string{"MSc Software Engineering"}, fields.Education)
	assert.Equal(t, "John Smith", fields.Summary)
}

func TestProfileExtractor_SummaryIsBounded(t *testing.T) {
	text := "Summary\n" + strings.Repeat("word ", 300)

	fields := NewProfileExtractor(matching.DefaultPatterns()).Extract(text)

	assert.LessOrEqual(t, utf8.RuneCountInString(fields.Summary), maxSummaryLength)
	assert.True(t, fields.IsEmpty())
}

func TestCleanText(t *testing.T) {
	raw := "  Jane   Doe \r\n\r\n\r\n Engineer\n\n\nSkills:  Go  \n"

	assert.Equal(t, "Jane Doe\n\nEngineer\n\nSkills: Go", CleanText(raw))
}
