package matching

import (
	"fmt"
	"regexp"
	"strings"
)

// KeywordGroup is a named list of literal keywords matched as whole words.
type KeywordGroup struct {
	Name     string
	Keywords []string
}

// LevelPattern maps a regular expression to the education level it signals.
type LevelPattern struct {
	Level   EducationLevel
	Pattern string
}

// PatternSet is the keyword and regex table driving requirement extraction and scoring.
// It is plain data so the lists can be changed without touching the scoring code.
type PatternSet struct {
	SkillGroups []KeywordGroup

	RequiredIndicators  []string
	PreferredIndicators []string
	// ContextWindow is the number of characters inspected on each side of a skill mention.
	ContextWindow int

	YearsPattern string
	Domains      []string

	DegreeKeywords      []string
	RequirementKeywords []string
	// JobEducationLevels is checked in order, first match wins.
	JobEducationLevels []LevelPattern
	EducationFields    []string
	Certifications     []string

	CandidateDegrees map[EducationLevel]string

	SeniorTier []string
	MidTier    []string
	EntryTier  []string

	SynonymGroups [][]string
}

var DefaultPatternSet = PatternSet{
	SkillGroups: []KeywordGroup{
		{
			Name: "technical",
			Keywords: []string{
				"javascript", "typescript", "python", "java", "c++", "c#", "golang", "rust", "ruby",
				"php", "swift", "kotlin", "scala", "sql", "nosql", "html", "css", "bash", "perl",
				"dart", "elixir", "haskell", "matlab", "objective-c", "aws", "gcp", "azure", "linux",
				"ios", "android",
			},
		},
		{
			Name: "frameworks",
			Keywords: []string{
				"react", "angular", "vue", "next.js", "node.js", "express.js", "django", "flask",
				"fastapi", "spring boot", ".net", "rails", "laravel", "docker", "kubernetes",
				"terraform", "ansible", "jenkins", "git", "github actions", "ci/cd", "postgresql",
				"mysql", "mongodb", "redis", "elasticsearch", "kafka", "rabbitmq", "graphql",
				"rest api", "grpc", "tensorflow", "pytorch", "scikit-learn", "pandas", "spark",
				"hadoop", "airflow", "figma", "jira", "microservices",
			},
		},
		{
			Name: "soft",
			Keywords: []string{
				"communication", "leadership", "teamwork", "collaboration", "problem solving",
				"problem-solving", "mentoring", "critical thinking", "time management",
				"stakeholder management", "agile", "scrum", "adaptability",
			},
		},
	},

	RequiredIndicators:  []string{"required", "must have", "essential", "mandatory", "need", "necessary"},
	PreferredIndicators: []string{"preferred", "nice to have", "bonus", "plus", "desired", "advantageous"},
	ContextWindow:       100,

	YearsPattern: `(\d+)\s*\+?\s*(?:years?|yrs?)\b[a-z\s,'/-]{0,40}?\bexperience`,

	Domains: []string{
		"fintech", "finance", "banking", "healthcare", "e-commerce", "ecommerce", "retail",
		"insurance", "edtech", "gaming", "logistics", "telecommunications", "automotive",
		"real estate", "media", "entertainment", "saas", "cybersecurity", "biotech",
		"pharmaceutical", "government", "energy", "manufacturing", "travel", "advertising",
		"blockchain",
	},

	DegreeKeywords:      []string{"degree", "bachelor", "master's", "masters", "master of", "phd", "ph.d", "doctorate", "mba", "diploma", "associate"},
	RequirementKeywords: []string{"required", "require", "must", "essential", "mandatory", "necessary"},
	JobEducationLevels: []LevelPattern{
		{Level: EducationPhD, Pattern: `\bph\.?\s?d|\bdoctorate|\bdoctoral`},
		{Level: EducationMasters, Pattern: `\bmaster['’]?s\b|\bmasters?\s+(?:degree|of|in)\b|\bmba\b`},
		{Level: EducationBachelors, Pattern: `\bbachelor|\bdegree`},
		{Level: EducationAssociates, Pattern: `\bassociate`},
		{Level: EducationHighSchool, Pattern: `\bhigh school|\bged\b`},
	},
	EducationFields: []string{
		"computer science", "software engineering", "computer engineering",
		"information technology", "information systems", "electrical engineering",
		"mechanical engineering", "engineering", "mathematics", "statistics", "physics",
		"data science", "business administration", "business", "economics", "finance",
		"accounting", "marketing", "design", "psychology",
	},
	Certifications: []string{
		"aws certified", "azure certified", "google cloud certified", "pmp", "cissp", "cism",
		"cisa", "ccna", "ccnp", "cka", "ckad", "comptia", "itil", "certified scrum master",
		"csm", "six sigma", "cpa", "cfa", "oscp",
	},

	CandidateDegrees: map[EducationLevel]string{
		EducationPhD:        `\bph\.?\s?d|\bdoctorate|\bdoctoral|\bdphil\b`,
		EducationMasters:    `\bmaster['’]?s\b|\bmasters?\s+(?:degree|of|in)\b|\b(?:mba|msc|meng|ms)\b|\bm\.(?:s|sc|a|eng)\b`,
		EducationBachelors:  `\bbachelor|\b(?:bs|ba|bsc|beng|btech|bba)\b|\bb\.(?:s|a|sc|eng|tech)\b`,
		EducationAssociates: `\bassociate`,
	},

	SeniorTier: []string{"senior", "lead", "principal", "architect", "manager", "director"},
	MidTier:    []string{"developer", "engineer", "analyst", "specialist"},
	EntryTier:  []string{"junior", "intern", "internship", "entry", "trainee", "graduate"},

	SynonymGroups: [][]string{
		{"javascript", "js", "ecmascript", "es6", "es2015"},
		{"typescript", "ts"},
		{"react", "reactjs", "react.js"},
		{"node.js", "node", "nodejs"},
		{"python", "py", "python3"},
		{"postgresql", "postgres", "psql"},
		{"mongodb", "mongo"},
		{"aws", "amazon web services"},
		{"gcp", "google cloud", "google cloud platform"},
		{"azure", "microsoft azure"},
		{"golang", "go"},
		{"kubernetes", "k8s"},
	},
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// find returns the offset of the first whole-word occurrence of the keyword, or -1.
func (k keywordPattern) find(text string) int {
	loc := k.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return -1
	}
	return loc[2]
}

type levelMatcher struct {
	level EducationLevel
	re    *regexp.Regexp
}

// Patterns is the compiled form of a PatternSet. It is safe for concurrent use.
type Patterns struct {
	skills         []keywordPattern
	required       *regexp.Regexp
	preferred      *regexp.Regexp
	window         int
	years          *regexp.Regexp
	domains        []keywordPattern
	degree         *regexp.Regexp
	requirement    *regexp.Regexp
	jobEducation   []levelMatcher
	fields         []keywordPattern
	certifications []keywordPattern

	candidateDegrees map[EducationLevel]*regexp.Regexp

	seniorTier *regexp.Regexp
	midTier    *regexp.Regexp
	entryTier  *regexp.Regexp

	synonyms map[string]int
}

// Compile validates the pattern set and builds its regular expressions.
func (ps PatternSet) Compile() (*Patterns, error) {
	p := &Patterns{
		window:           ps.ContextWindow,
		candidateDegrees: make(map[EducationLevel]*regexp.Regexp, len(ps.CandidateDegrees)),
		synonyms:         make(map[string]int),
	}
	if p.window <= 0 {
		p.window = 100
	}

	var err error
	for _, group := range ps.SkillGroups {
		compiled, err := compileKeywords(group.Keywords)
		if err != nil {
			return nil, fmt.Errorf("failed to compile skill group %q: %w", group.Name, err)
		}
		p.skills = append(p.skills, compiled...)
	}

	if p.required, err = compileAlternation(ps.RequiredIndicators, ""); err != nil {
		return nil, fmt.Errorf("failed to compile required indicators: %w", err)
	}
	if p.preferred, err = compileAlternation(ps.PreferredIndicators, ""); err != nil {
		return nil, fmt.Errorf("failed to compile preferred indicators: %w", err)
	}
	if p.years, err = regexp.Compile(ps.YearsPattern); err != nil {
		return nil, fmt.Errorf("failed to compile years pattern: %w", err)
	}
	if p.domains, err = compileKeywords(ps.Domains); err != nil {
		return nil, fmt.Errorf("failed to compile domains: %w", err)
	}
	if p.degree, err = compileAlternation(ps.DegreeKeywords, `\b`); err != nil {
		return nil, fmt.Errorf("failed to compile degree keywords: %w", err)
	}
	if p.requirement, err = compileAlternation(ps.RequirementKeywords, `\b`); err != nil {
		return nil, fmt.Errorf("failed to compile requirement keywords: %w", err)
	}
	for _, lp := range ps.JobEducationLevels {
		re, err := regexp.Compile(lp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile education level %s: %w", lp.Level, err)
		}
		p.jobEducation = append(p.jobEducation, levelMatcher{level: lp.Level, re: re})
	}
	if p.fields, err = compileKeywords(ps.EducationFields); err != nil {
		return nil, fmt.Errorf("failed to compile education fields: %w", err)
	}
	if p.certifications, err = compileKeywords(ps.Certifications); err != nil {
		return nil, fmt.Errorf("failed to compile certifications: %w", err)
	}
	for level, pattern := range ps.CandidateDegrees {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile candidate degree %s: %w", level, err)
		}
		p.candidateDegrees[level] = re
	}

	if p.seniorTier, err = compileTier(ps.SeniorTier); err != nil {
		return nil, fmt.Errorf("failed to compile senior tier: %w", err)
	}
	if p.midTier, err = compileTier(ps.MidTier); err != nil {
		return nil, fmt.Errorf("failed to compile mid tier: %w", err)
	}
	if p.entryTier, err = compileTier(ps.EntryTier); err != nil {
		return nil, fmt.Errorf("failed to compile entry tier: %w", err)
	}

	for i, group := range ps.SynonymGroups {
		for _, term := range group {
			p.synonyms[normalizeTerm(term)] = i
		}
	}

	return p, nil
}

// DefaultPatterns compiles DefaultPatternSet and panics if it is invalid.
func DefaultPatterns() *Patterns {
	p, err := DefaultPatternSet.Compile()
	if err != nil {
		panic(err)
	}
	return p
}

// Skills returns every skill keyword found in text, deduplicated and sorted.
func (p *Patterns) Skills(text string) []string {
	return findKeywords(p.skills, strings.ToLower(text))
}

func (p *Patterns) CertificationsIn(text string) []string {
	return findKeywords(p.certifications, strings.ToLower(text))
}

func (p *Patterns) HasDegree(text string) bool {
	return p.degree.MatchString(strings.ToLower(text))
}

func (p *Patterns) HasSeniority(text string) bool {
	lower := strings.ToLower(text)
	return p.seniorTier.MatchString(lower) || p.midTier.MatchString(lower) || p.entryTier.MatchString(lower)
}

// HighestDegree returns the highest degree level mentioned in resume text.
func (p *Patterns) HighestDegree(text string) (EducationLevel, bool) {
	lower := strings.ToLower(text)
	for _, level := range []EducationLevel{EducationPhD, EducationMasters, EducationBachelors, EducationAssociates} {
		if re, ok := p.candidateDegrees[level]; ok && re.MatchString(lower) {
			return level, true
		}
	}
	return "", false
}

// synonymous reports whether a and b belong to the same synonym group.
func (p *Patterns) synonymous(a, b string) bool {
	ga, ok := p.synonyms[a]
	if !ok {
		return false
	}
	gb, ok := p.synonyms[b]
	return ok && ga == gb
}

func compileKeywords(keywords []string) ([]keywordPattern, error) {
	out := make([]keywordPattern, 0, len(keywords))
	for _, kw := range keywords {
		kw = normalizeTerm(kw)
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`(?:^|[^a-z0-9_])(` + regexp.QuoteMeta(kw) + `)(?:$|[^a-z0-9_+#])`)
		if err != nil {
			return nil, err
		}
		out = append(out, keywordPattern{keyword: kw, re: re})
	}
	return out, nil
}

func compileAlternation(terms []string, boundary string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, regexp.QuoteMeta(normalizeTerm(t)))
	}
	if len(quoted) == 0 {
		return regexp.Compile(`$^`)
	}
	return regexp.Compile(boundary + `(?:` + strings.Join(quoted, "|") + `)`)
}

func compileTier(terms []string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, regexp.QuoteMeta(normalizeTerm(t)))
	}
	if len(quoted) == 0 {
		return regexp.Compile(`$^`)
	}
	return regexp.Compile(`\b(?:` + strings.Join(quoted, "|") + `)s?\b`)
}

func findKeywords(patterns []keywordPattern, lower string) []string {
	set := newStringSet()
	for _, kp := range patterns {
		if kp.find(lower) >= 0 {
			set.add(kp.keyword)
		}
	}
	return set.sorted()
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
