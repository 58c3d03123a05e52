package document

import (
	"archive/zip"
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const sampleTailored = `Jane Doe
jane@example.com

SUMMARY
Backend engineer.

EXPERIENCE
Acme Corp – Senior Engineer
• Built APIs
• Led team

SKILLS
Go, Python, Docker
`

func TestParse(t *testing.T) {
	got := Parse(sampleTailored)
	want := []Section{
		{Title: "SUMMARY", Content: []string{"Backend engineer."}},
		{Title: "EXPERIENCE", Content: []string{
			SubsectionMarker + "Acme Corp – Senior Engineer",
			ContentMarker + "Built APIs",
			ContentMarker + "Led team",
		}},
		{Title: "SKILLS", Content: []string{"Go, Python, Docker"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %#v\nwant %#v", got, want)
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"sample", sampleTailored},
		{"bullets naming headers", "EXPERIENCE\nAcme Corp – Engineer\n• Mentored juniors on communication skills\n• Led summary reviews\nEDUCATION\nState University (2015)\n"},
		{"plain lines naming headers", "SUMMARY\nStrong project skills\nSKILLS\nGo, SQL\n"},
		{"plain before subsection", "PROJECTS\nSide work\nSearch Service (Go, Postgres)\n- Indexed 1 million documents\n* Cut latency by 40%\n"},
		{"nested bullet", "SKILLS\n• - Kubernetes\n"},
		{"headers only", "SUMMARY\nEDUCATION\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Parse(tt.text)
			second := Parse(Render(first))
			if !reflect.DeepEqual(first, second) {
				t.Errorf("Parse(Render(x)) = %#v\nwant %#v", second, first)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if got := Parse("no headers at all\njust prose"); len(got) != 0 {
		t.Errorf("Parse() = %v, want no sections", got)
	}
}

func TestIsSectionHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"EXPERIENCE", true},
		{"Work Experience", true},
		{"Technical Skills", true},
		{"• Skills matter", false},
		{"Skills - core", false},
		{"Experienced engineer who writes a lot of words about skills", false},
		{"Jane Doe", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isSectionHeader(tt.line); got != tt.want {
				t.Errorf("isSectionHeader(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsSubsectionHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Acme Corp – Engineer", true},
		{"Search Service (Go)", true},
		{"Tech Stack: Go, Postgres", true},
		{"- bullet", false},
		{"Plain sentence", false},
		{strings.Repeat("a", 99) + "-", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isSubsectionHeader(tt.line); got != tt.want {
				t.Errorf("isSubsectionHeader(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestOrderSplitsCombinedSection(t *testing.T) {
	sections := []Section{
		{Title: "Work Experience", Content: []string{"x"}},
		{Title: "Skills & Certifications", Content: []string{"Go, Python", "AWS Certified Developer"}},
		{Title: "Summary", Content: []string{"y"}},
		{Title: "Awards", Content: []string{"z"}},
	}

	got := Order(sections)

	var titles []string
	for _, s := range got {
		titles = append(titles, s.Title)
	}
	want := []string{"Summary", "SKILLS", "Work Experience", "CERTIFICATIONS"}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	if !reflect.DeepEqual(got[1].Content, []string{"Go, Python"}) {
		t.Errorf("skills = %v", got[1].Content)
	}
	if !reflect.DeepEqual(got[3].Content, []string{"AWS Certified Developer"}) {
		t.Errorf("certifications = %v", got[3].Content)
	}
}

func TestStandardizeSkill(t *testing.T) {
	tests := map[string]string{
		"postgres": "PostgreSQL",
		"nodejs":   "Node.js",
		"ReactJS":  "React.js",
		"Golang":   "Go",
		"kafka":    "Kafka",
	}
	for in, want := range tests {
		if got := StandardizeSkill(in); got != want {
			t.Errorf("StandardizeSkill(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSkillLines(t *testing.T) {
	lines := SkillLines([]string{
		"Languages: Go, Python",
		"Docker, Redis.",
		"Active security clearance",
	})

	if len(lines) != len(SkillCategories) {
		t.Fatalf("got %d lines, want %d", len(lines), len(SkillCategories))
	}
	want := map[int]string{
		0: "Languages:" + strings.Repeat(" ", 11) + "Go, Python",
		2: "Databases:" + strings.Repeat(" ", 11) + "Redis",
		3: "Cloud/DevOps:" + strings.Repeat(" ", 8) + "Docker",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if !strings.Contains(lines[1], "React Native") {
		t.Errorf("empty category should use defaults: %q", lines[1])
	}
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), "clearance") {
			t.Errorf("clearance line leaked into %q", l)
		}
	}
}

func TestFormatEducationLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Computer Science, Stanford University, 2015-2019", "Computer Science – Stanford University (2015-2019)"},
		{"Coursework in algorithms", "Coursework in algorithms"},
	}
	for _, tt := range tests {
		if got := FormatEducationLine(tt.in); got != tt.want {
			t.Errorf("FormatEducationLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCertification(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AWS Certified Developer (2022)", "AWS Certified Developer (2022)"},
		{"(2021) Certified Kubernetes Administrator", "Certified Kubernetes Administrator (2021)"},
		{"Google Cloud Architect (Professional) (2020)", "Google Cloud Architect (Professional) (2020)"},
		{"Scrum Master (2019) – renewed (2023)", "Scrum Master  – renewed (2023) (2019)"},
		{"  Azure Fundamentals  ", "Azure Fundamentals"},
		{"CISSP (20xx)", "CISSP (20xx)"},
	}
	for _, tt := range tests {
		if got := FormatCertification(tt.in); got != tt.want {
			t.Errorf("FormatCertification(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLayoutCertifications(t *testing.T) {
	sections := []Section{{Title: "CERTIFICATIONS", Content: []string{
		SubsectionMarker + "(2021) Certified Kubernetes Administrator",
		ContentMarker + "Cluster operations",
		"Issued by CNCF",
	}}}

	blocks := Layout(Header{Name: "Jane"}, sections)
	want := []Block{
		{BlockName, "Jane"},
		{BlockContact, ContactPlaceholder},
		{BlockHeading, "CERTIFICATIONS"},
		{BlockSubheading, "Certified Kubernetes Administrator (2021)"},
		{BlockBullet, "Cluster operations"},
		{BlockBullet, "Issued by CNCF"},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("Layout() = %+v\nwant %+v", blocks, want)
	}
}

func TestExtractHeader(t *testing.T) {
	original := "Jane Doe\nSan Francisco, CA\njane.doe@example.com | +1 555 123 4567\nlinkedin.com/in/janedoe\n\nSUMMARY\nShipped 2019 2021 releases\n"

	got := ExtractHeader(original)

	if got.Name != "Jane Doe" {
		t.Errorf("Name = %q", got.Name)
	}
	want := "+1 555 123 4567 | jane.doe@example.com | linkedin.com/in/janedoe | San Francisco"
	if got.Contact != want {
		t.Errorf("Contact = %q, want %q", got.Contact, want)
	}
}

func TestLayoutUsesPlaceholderContact(t *testing.T) {
	blocks := Layout(Header{Name: "Jane"}, Parse(sampleTailored))

	if blocks[0] != (Block{BlockName, "Jane"}) {
		t.Errorf("first block = %+v", blocks[0])
	}
	if blocks[1] != (Block{BlockContact, ContactPlaceholder}) {
		t.Errorf("second block = %+v", blocks[1])
	}

	var kinds []BlockKind
	for _, b := range blocks {
		if b.Kind == BlockSubheading || b.Kind == BlockBullet {
			kinds = append(kinds, b.Kind)
		}
	}
	if !reflect.DeepEqual(kinds, []BlockKind{BlockSubheading, BlockBullet, BlockBullet}) {
		t.Errorf("experience blocks = %v", kinds)
	}
}

func TestExportWritesDocx(t *testing.T) {
	data, err := ExportBytes("Jane Doe\njane@example.com\n", sampleTailored, DefaultOptions)
	if err != nil {
		t.Fatalf("ExportBytes() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	var body string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(rc)
		rc.Close()
		body = buf.String()
	}
	for _, want := range []string{"Jane Doe", "jane@example.com", "EXPERIENCE", "Built APIs"} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}
