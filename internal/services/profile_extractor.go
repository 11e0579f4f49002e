package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/talent-matcher/internal/matching"
)

const maxSummaryLength = 500

type resumeSection int

const (
	sectionNone resumeSection = iota
	sectionSummary
	sectionExperience
	sectionEducation
	sectionSkills
	sectionCertifications
	sectionOther
)

var sectionHeadings = map[string]resumeSection{
	"summary":                 sectionSummary,
	"professional summary":    sectionSummary,
	"profile":                 sectionSummary,
	"objective":               sectionSummary,
	"about me":                sectionSummary,
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"professional experience": sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"work history":            sectionExperience,
	"education":               sectionEducation,
	"academic background":     sectionEducation,
	"skills":                  sectionSkills,
	"technical skills":        sectionSkills,
	"core skills":             sectionSkills,
	"certifications":          sectionCertifications,
	"certificates":            sectionCertifications,
	"licenses":                sectionCertifications,
	"projects":                sectionOther,
	"languages":               sectionOther,
	"interests":               sectionOther,
	"awards":                  sectionOther,
	"references":              sectionOther,
}

var (
	dateRangePattern   = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*(?:-|–|to)\s*(?:(?:19|20)\d{2}|present|current|now)\b`)
	yearsPattern       = regexp.MustCompile(`(?i)\b\d+\+?\s*(?:years?|yrs?)\b`)
	institutionPattern = regexp.MustCompile(`(?i)\b(?:university|college|institute|polytechnic|academy)\b`)
	bulletPrefix       = regexp.MustCompile(`^[\-\*•·▪●]+\s*`)
)

// ProfileExtractor turns plain resume text into ExtractedFields using the same
// keyword tables as requirement extraction, so both sides of a match agree on
// skill names.
type ProfileExtractor struct {
	patterns *matching.Patterns
}

func NewProfileExtractor(patterns *matching.Patterns) *ProfileExtractor {
	return &ProfileExtractor{patterns: patterns}
}

func (e *ProfileExtractor) Extract(text string) matching.ExtractedFields {
	fields := matching.ExtractedFields{
		Skills:         e.patterns.Skills(text),
		Certifications: e.patterns.CertificationsIn(text),
	}

	var summary []string
	section := sectionNone

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(raw), ""))
		if line == "" {
			continue
		}

		if s, ok := headingOf(line); ok {
			section = s
			continue
		}

		switch section {
		case sectionSummary:
			summary = append(summary, line)
		case sectionExperience:
			fields.Experience = append(fields.Experience, line)
		case sectionEducation:
			fields.Education = append(fields.Education, line)
		case sectionNone:
			switch {
			case e.isEducationLine(line):
				fields.Education = append(fields.Education, line)
			case e.isExperienceLine(line):
				fields.Experience = append(fields.Experience, line)
			case len(fields.Experience) == 0 && len(fields.Education) == 0:
				summary = append(summary, line)
			}
		}
	}

	fields.Summary = truncateRunes(strings.Join(summary, " "), maxSummaryLength)
	return fields
}

func (e *ProfileExtractor) isEducationLine(line string) bool {
	if institutionPattern.MatchString(line) {
		return true
	}
	_, ok := e.patterns.HighestDegree(line)
	return ok
}

func (e *ProfileExtractor) isExperienceLine(line string) bool {
	if dateRangePattern.MatchString(line) {
		return true
	}
	return yearsPattern.MatchString(line) && e.patterns.HasSeniority(line)
}

func headingOf(line string) (resumeSection, bool) {
	key := strings.ToLower(strings.TrimRight(line, ": "))
	s, ok := sectionHeadings[key]
	return s, ok
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
