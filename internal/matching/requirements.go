package matching

import (
	"sort"
	"strconv"
	"strings"
)

// RequirementExtractor turns a free-text job description into JobRequirements.
type RequirementExtractor struct {
	patterns *Patterns
}

func NewRequirementExtractor(patterns *Patterns) *RequirementExtractor {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &RequirementExtractor{patterns: patterns}
}

// Extract never fails. Negations are not handled: "no Python required" still counts as a Python mention.
func (e *RequirementExtractor) Extract(description string) JobRequirements {
	text := strings.ToLower(description)

	req := JobRequirements{
		RequiredSkills:  []string{},
		PreferredSkills: []string{},
		Experience: ExperienceRequirement{
			Level:   LevelMid,
			Domains: []string{},
		},
		Education: EducationRequirement{
			Level:  EducationBachelors,
			Fields: []string{},
		},
		Certifications: []string{},
	}
	if strings.TrimSpace(text) == "" {
		return req
	}

	req.RequiredSkills, req.PreferredSkills = e.classifySkills(text)
	req.Experience = e.extractExperience(text)
	req.Education = e.extractEducation(text)
	req.Certifications = findKeywords(e.patterns.certifications, text)

	return req
}

func (e *RequirementExtractor) classifySkills(text string) ([]string, []string) {
	required := newStringSet()
	preferred := newStringSet()

	for _, kp := range e.patterns.skills {
		idx := kp.find(text)
		if idx < 0 {
			continue
		}
		// A skill listed in several groups is classified once.
		if required.has(kp.keyword) || preferred.has(kp.keyword) {
			continue
		}

		window := contextWindow(text, idx, len(kp.keyword), e.patterns.window)
		switch {
		case e.patterns.required.MatchString(window):
			required.add(kp.keyword)
		case e.patterns.preferred.MatchString(window):
			preferred.add(kp.keyword)
		default:
			// No signal either way: treated as required.
			required.add(kp.keyword)
		}
	}

	return required.sorted(), preferred.sorted()
}

func (e *RequirementExtractor) extractExperience(text string) ExperienceRequirement {
	exp := ExperienceRequirement{
		Level:   LevelMid,
		Domains: findKeywords(e.patterns.domains, text),
	}

	if m := e.patterns.years.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			exp.MinimumYears = &years
			exp.Level = LevelForYears(years)
		}
	}

	return exp
}

func (e *RequirementExtractor) extractEducation(text string) EducationRequirement {
	edu := EducationRequirement{
		Required: e.patterns.HasDegree(text) && e.patterns.requirement.MatchString(text),
		Level:    EducationBachelors,
		Fields:   findKeywords(e.patterns.fields, text),
	}

	for _, lm := range e.patterns.jobEducation {
		if lm.re.MatchString(text) {
			edu.Level = lm.level
			break
		}
	}

	return edu
}

// LevelForYears maps a minimum years-of-experience figure to an ExperienceLevel.
func LevelForYears(years int) ExperienceLevel {
	switch {
	case years <= 2:
		return LevelEntry
	case years <= 5:
		return LevelMid
	case years <= 8:
		return LevelSenior
	case years <= 12:
		return LevelLead
	default:
		return LevelExecutive
	}
}

func contextWindow(text string, start, length, radius int) string {
	from := start - radius
	if from < 0 {
		from = 0
	}
	to := start + length + radius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

type stringSet map[string]struct{}

func newStringSet() stringSet {
	return make(stringSet)
}

func (s stringSet) add(v string) {
	s[v] = struct{}{}
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
