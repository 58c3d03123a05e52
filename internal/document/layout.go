package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalOrder is the section order of exported documents.
var CanonicalOrder = []string{"SUMMARY", "EDUCATION", "SKILLS", "EXPERIENCE", "PROJECTS", "CERTIFICATIONS"}

// ContactPlaceholder is printed when no contact details were found.
const ContactPlaceholder = "Phone | Email | LinkedIn | GitHub | Location"

// BlockKind describes how a block is rendered.
type BlockKind int

const (
	BlockName BlockKind = iota
	BlockContact
	BlockHeading
	BlockParagraph
	BlockSubheading
	BlockBullet
)

// Block is one rendered paragraph of the exported document.
type Block struct {
	Kind BlockKind
	Text string
}

// Header identifies the candidate at the top of the document.
type Header struct {
	Name    string
	Contact string
}

// certificationTerms move items of a combined skills and certifications section.
var certificationTerms = []string{"CERTIFICATION", "CERTIFIED", "AWS", "MICROSOFT", "SCRUM"}

// Order arranges sections in CanonicalOrder. A combined "SKILLS & CERTIFICATIONS"
// section is split first. Sections matching no canonical slot are dropped.
func Order(sections []Section) []Section {
	var clean []Section
	var combined *Section
	for i := range sections {
		upper := strings.ToUpper(sections[i].Title)
		if strings.Contains(upper, "SKILLS") && strings.Contains(upper, "CERTIFICATIONS") {
			if combined == nil {
				combined = &sections[i]
			}
			continue
		}
		clean = append(clean, sections[i])
	}

	if combined != nil {
		var skills, certs []string
		for _, item := range combined.Content {
			if containsAnyUpper(item, certificationTerms) {
				certs = append(certs, item)
			} else {
				skills = append(skills, item)
			}
		}
		if len(skills) > 0 {
			clean = append(clean, Section{Title: "SKILLS", Content: skills})
		}
		if len(certs) > 0 {
			clean = append(clean, Section{Title: "CERTIFICATIONS", Content: certs})
		}
	}

	ordered := make([]Section, 0, len(CanonicalOrder))
	for _, name := range CanonicalOrder {
		for _, s := range clean {
			if strings.Contains(strings.ToUpper(s.Title), name) {
				ordered = append(ordered, s)
				break
			}
		}
	}
	return ordered
}

// Layout converts a header and ordered sections into document blocks.
func Layout(h Header, sections []Section) []Block {
	var blocks []Block
	if h.Name != "" {
		blocks = append(blocks, Block{BlockName, h.Name})
	}
	contact := h.Contact
	if contact == "" {
		contact = ContactPlaceholder
	}
	blocks = append(blocks, Block{BlockContact, contact})

	for _, s := range Order(sections) {
		title := strings.ToUpper(s.Title)
		blocks = append(blocks, Block{BlockHeading, title})

		switch {
		case strings.Contains(title, "SUMMARY"):
			for _, item := range s.Content {
				if strings.TrimSpace(item) != "" {
					blocks = append(blocks, Block{BlockParagraph, StripMarker(item)})
				}
			}
		case strings.Contains(title, "EDUCATION"):
			for _, item := range s.Content {
				if rest, ok := strings.CutPrefix(item, SubsectionMarker); ok {
					blocks = append(blocks, Block{BlockParagraph, rest})
					continue
				}
				if strings.TrimSpace(item) != "" {
					blocks = append(blocks, Block{BlockParagraph, FormatEducationLine(StripMarker(item))})
				}
			}
		case strings.Contains(title, "SKILLS"):
			for _, line := range SkillLines(s.Content) {
				blocks = append(blocks, Block{BlockParagraph, line})
			}
		case strings.Contains(title, "CERTIFICATIONS"):
			for _, item := range s.Content {
				if rest, ok := strings.CutPrefix(item, SubsectionMarker); ok {
					blocks = append(blocks, Block{BlockSubheading, FormatCertification(rest)})
					continue
				}
				if strings.TrimSpace(item) != "" {
					blocks = append(blocks, Block{BlockBullet, StripMarker(item)})
				}
			}
		default:
			for _, item := range s.Content {
				if rest, ok := strings.CutPrefix(item, SubsectionMarker); ok {
					blocks = append(blocks, Block{BlockSubheading, rest})
					continue
				}
				if strings.TrimSpace(item) != "" {
					blocks = append(blocks, Block{BlockBullet, StripMarker(item)})
				}
			}
		}
	}
	return blocks
}

// SkillCategories is the order of skill categories in the SKILLS section.
var SkillCategories = []string{"Languages", "Frameworks/Libraries", "Databases", "Cloud/DevOps", "Tools", "Practices"}

var skillCategoryTerms = map[string][]string{
	"Languages": {
		"java", "python", "javascript", "typescript", "c#", "c++", "html", "css", "sql",
		"dart", "php", "ruby", "go", "rust", "swift", "kotlin", "scala",
	},
	"Frameworks/Libraries": {
		"spring", "react", "angular", "vue", "node", "express", "django", "flask", "asp.net",
		"laravel", "flutter", "jquery", "bootstrap", "tailwind", "next.js", "nuxt.js",
	},
	"Databases": {
		"mysql", "postgresql", "mongodb", "sql server", "oracle", "dynamodb", "redis",
		"elasticsearch", "firebase", "cassandra", "neo4j",
	},
	"Cloud/DevOps": {
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "github", "gitlab",
		"ci/cd", "terraform", "ansible", "nginx", "apache", "helm", "prometheus", "github actions",
	},
	"Tools": {
		"visual studio", "vs code", "intellij", "eclipse", "postman", "jira", "confluence",
		"figma", "sketch", "cursor ai", "chatgpt", "maven", "gradle", "npm", "yarn", "tableau",
	},
	"Practices": {
		"agile", "scrum", "kanban", "tdd", "bdd", "unit testing", "integration testing",
		"code review", "pair programming", "devops", "system design", "security", "automation",
		"microservices", "api design", "rest apis", "graphql", "automated testing",
	},
}

// DefaultSkills fill categories that would otherwise be empty.
var DefaultSkills = map[string][]string{
	"Languages":            {"Java", "Python", "JavaScript (ES6+)", "TypeScript", "C++", "HTML5", "CSS3", "Kotlin", "Swift"},
	"Frameworks/Libraries": {"Spring Boot", "Node.js", "React", "React Native", "Express", "Laravel"},
	"Databases":            {"MySQL", "PostgreSQL", "MongoDB", "Firebase"},
	"Cloud/DevOps":         {"AWS", "Docker", "Kubernetes", "Jenkins", "GitHub Actions", "CI/CD"},
	"Tools":                {"Git", "Jira", "Visual Studio", "Postman", "Tableau"},
	"Practices":            {"Agile/Scrum", "Code Reviews", "TDD", "Unit Testing", "Automated Testing"},
}

var excludedSkillLines = []string{"security clearance", "eligible", "u.s. citizen"}

// CategorizeSkills groups the skills listed in content by category. Skills
// matching no category are filed under Languages.
func CategorizeSkills(content []string) map[string][]string {
	out := make(map[string][]string, len(SkillCategories))
	for _, item := range content {
		item = StripMarker(item)
		if strings.TrimSpace(item) == "" {
			continue
		}
		lower := strings.ToLower(item)
		if containsAnyOf(lower, excludedSkillLines) {
			continue
		}
		for _, skill := range ExtractSkills(item) {
			category := categoryOf(strings.ToLower(strings.TrimSpace(skill)))
			if !contains(out[category], skill) {
				out[category] = append(out[category], skill)
			}
		}
	}
	return out
}

func categoryOf(normalized string) string {
	for _, category := range SkillCategories {
		if containsAnyOf(normalized, skillCategoryTerms[category]) {
			return category
		}
	}
	return "Languages"
}

// SkillLines renders categorized skills as aligned "Category: a, b" lines.
func SkillLines(content []string) []string {
	byCategory := CategorizeSkills(content)
	lines := make([]string, 0, len(SkillCategories))
	for _, category := range SkillCategories {
		skills := byCategory[category]
		if len(skills) == 0 {
			skills = DefaultSkills[category]
		}
		unique := dedupe(skills)
		sort.Strings(unique)
		pad := strings.Repeat(" ", max(1, 20-len(category)))
		lines = append(lines, fmt.Sprintf("%s:%s%s", category, pad, strings.Join(unique, ", ")))
	}
	return lines
}

var (
	skillPrefix     = regexp.MustCompile(`(?i)^(languages?|frameworks?|databases?|tools?|practices?):\s*`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	trailingPeriod  = regexp.MustCompile(`\.$`)
	skillStandards  = standardSkillNames()
	educationDegree = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)
	educationSchool = regexp.MustCompile(`(?:[A-Z][\w.&']*\s+)*(?:University|College|Institute|School)(?:\s+of(?:\s+[A-Z][\w.&']*)+)?`)
	educationDates  = regexp.MustCompile(`\d{4}[-–]\d{4}|\d{4}`)
)

// ExtractSkills splits a comma separated skills line into standardised names.
func ExtractSkills(line string) []string {
	line = skillPrefix.ReplaceAllString(line, "")
	var skills []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		part = leadingBullet.ReplaceAllString(part, "")
		part = whitespaceRun.ReplaceAllString(part, " ")
		part = trailingPeriod.ReplaceAllString(part, "")
		if name := StandardizeSkill(part); name != "" {
			skills = append(skills, name)
		}
	}
	return skills
}

type skillStandard struct {
	variant, name string
}

func standardSkillNames() []skillStandard {
	pairs := []string{
		"postgres", "PostgreSQL", "postgresql", "PostgreSQL", "postgres sql", "PostgreSQL",
		"nodejs", "Node.js", "node.js", "Node.js", "reactjs", "React.js", "react.js", "React.js",
		"angularjs", "Angular.js", "angular.js", "Angular.js", "vuejs", "Vue.js", "vue.js", "Vue.js",
		"expressjs", "Express.js", "express.js", "Express.js", "spring boot", "Spring Boot",
		"springboot", "Spring Boot", "asp.net", "ASP.NET", "aspnet", "ASP.NET",
		"rest api", "REST APIs", "rest apis", "REST APIs", "restapi", "REST APIs",
		"ci/cd", "CI/CD", "cicd", "CI/CD", "vs code", "VS Code", "vscode", "VS Code",
		"visual studio code", "VS Code", "nextjs", "Next.js", "next.js", "Next.js",
		"nuxtjs", "Nuxt.js", "nuxt.js", "Nuxt.js", "typescript", "TypeScript",
		"javascript", "JavaScript", "html5", "HTML5", "css3", "CSS3", "aws", "AWS",
		"azure", "Azure", "gcp", "GCP", "kubernetes", "Kubernetes", "docker", "Docker",
		"jenkins", "Jenkins", "git", "Git", "github", "GitHub", "gitlab", "GitLab",
		"terraform", "Terraform", "ansible", "Ansible", "nginx", "Nginx", "apache", "Apache",
		"mysql", "MySQL", "mongodb", "MongoDB", "redis", "Redis", "elasticsearch", "Elasticsearch",
		"firebase", "Firebase", "cassandra", "Cassandra", "neo4j", "Neo4j", "java", "Java",
		"python", "Python", "c#", "C#", "c++", "C++", "sql", "SQL", "dart", "Dart", "php", "PHP",
		"ruby", "Ruby", "go", "Go", "rust", "Rust", "swift", "Swift", "kotlin", "Kotlin",
		"scala", "Scala", "agile", "Agile", "scrum", "Scrum", "kanban", "Kanban", "tdd", "TDD",
		"bdd", "BDD", "unit testing", "Unit Testing", "integration testing", "Integration Testing",
		"code review", "Code Review", "pair programming", "Pair Programming", "devops", "DevOps",
		"system design", "System Design", "security", "Security", "automation", "Automation",
		"microservices", "Microservices", "api design", "API Design", "graphql", "GraphQL",
	}
	out := make([]skillStandard, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, skillStandard{pairs[i], pairs[i+1]})
	}
	return out
}

// StandardizeSkill maps common spellings to a canonical name: exact matches
// first, then the first variant contained in the skill, else title case.
func StandardizeSkill(skill string) string {
	lower := strings.ToLower(skill)
	for _, s := range skillStandards {
		if lower == s.variant {
			return s.name
		}
	}
	for _, s := range skillStandards {
		if strings.Contains(lower, s.variant) {
			return s.name
		}
	}
	return cases.Title(language.English).String(skill)
}

var certYear = regexp.MustCompile(`\((\d{4})\)`)

// FormatCertification rewrites a certification line as "Name (YYYY)", moving
// the first parenthesised year to the end. Lines without one are trimmed only.
func FormatCertification(line string) string {
	loc := certYear.FindStringSubmatchIndex(line)
	if loc == nil {
		return strings.TrimSpace(line)
	}
	year := line[loc[2]:loc[3]]
	name := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
	return name + " (" + year + ")"
}

// FormatEducationLine rewrites an education line as "Degree – Institution (Dates)"
// when both parts are detectable, otherwise returns it unchanged.
func FormatEducationLine(line string) string {
	school := educationSchool.FindString(line)
	if school == "" {
		return line
	}
	var degree string
	for _, candidate := range educationDegree.FindAllString(line, -1) {
		if !strings.Contains(school, candidate) {
			degree = candidate
			break
		}
	}
	if degree == "" {
		return line
	}
	formatted := degree + " – " + strings.TrimSpace(school)
	if dates := educationDates.FindString(line); dates != "" {
		formatted += " (" + dates + ")"
	}
	return formatted
}

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().]{6,}\d`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[a-zA-Z0-9-]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9-]+`)
	locationPattern = regexp.MustCompile(`[A-Z][a-z]+(?:[\s,]+[A-Z][a-z]+)*`)
)

var headerWords = []string{"SUMMARY", "EXPERIENCE", "PROJECTS", "SKILLS", "EDUCATION", "CERTIFICATIONS"}

func isHeaderCandidate(trimmed string) bool {
	return trimmed != "" &&
		!containsAnyOf(trimmed, headerWords) &&
		!strings.Contains(trimmed, "•") &&
		!strings.Contains(trimmed, "-")
}

// ExtractHeader finds the candidate name (the first plain line of the original
// résumé) and builds a contact line from the plain lines between it and the
// first section header. A location is taken from the first line holding no
// other contact detail.
func ExtractHeader(original string) Header {
	var (
		h                                    Header
		phone, email, linkedin, github, city string
	)
	for _, line := range strings.Split(original, "\n") {
		trimmed := strings.TrimSpace(line)
		if h.Name != "" && isSectionHeader(trimmed) {
			break
		}
		if !isHeaderCandidate(trimmed) {
			continue
		}
		if h.Name == "" {
			h.Name = trimmed
			continue
		}
		found := false
		if m := emailPattern.FindString(trimmed); m != "" {
			email, found = m, true
		}
		if m := phonePattern.FindString(trimmed); m != "" {
			phone, found = strings.TrimSpace(m), true
		}
		if m := linkedinPattern.FindString(trimmed); m != "" {
			linkedin, found = "linkedin.com/in/"+m[strings.LastIndex(m, "/")+1:], true
		}
		if m := githubPattern.FindString(trimmed); m != "" {
			github, found = "github.com/"+m[strings.LastIndex(m, "/")+1:], true
		}
		if !found && city == "" {
			city = locationPattern.FindString(trimmed)
		}
	}

	var parts []string
	for _, p := range []string{phone, email, linkedin, github, city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	h.Contact = strings.Join(parts, " | ")
	return h
}

func containsAnyUpper(s string, terms []string) bool {
	return containsAnyOf(strings.ToUpper(s), terms)
}

func containsAnyOf(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
