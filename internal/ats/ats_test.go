package ats

import (
	"reflect"
	"strings"
	"testing"
)

const scenarioLine = "• Built scalable APIs using Python and AWS, improved latency by 30%. Experience, Skills, Projects sections present."

// scenarioResume pads the scenario line into the 500-2000 length window with
// lines that trigger no keyword, verb, header or metric rule.
func scenarioResume() string {
	return scenarioLine + strings.Repeat("\nLorem ipsum dolor sit amet consectetur adipiscing elit.", 10)
}

func TestScenarioLength(t *testing.T) {
	if !goodLength(scenarioResume()) {
		t.Fatalf("scenario resume length %d outside (500, 2000)", textLength(scenarioResume()))
	}
}

func TestJobscanScenario(t *testing.T) {
	in := Input{
		ResumeText:         scenarioResume(),
		JobDescriptionText: "Backend engineer with Python, AWS and teamwork",
		Keywords:           []string{"python", "aws", "teamwork"},
	}

	got := ScoreJobscan(in)
	want := JobscanBreakdown{
		KeywordMatch:     89,  // 8 of 9 weighted points
		SectionPlacement: 23,  // experience, projects and skills all present
		Coverage:         67,  // 2 of 3 keywords
		Format:           20,  // length, bullet, percent sign
		Overall:          100, // (8+23+20)/(9+25) clamps at 100
	}
	if got != want {
		t.Errorf("ScoreJobscan() = %+v, want %+v", got, want)
	}
}

func TestResumewordedScenario(t *testing.T) {
	in := Input{
		ResumeText: scenarioResume(),
		Keywords:   []string{"python", "aws", "teamwork"},
	}

	got := ScoreResumeworded(in)
	want := ResumewordedBreakdown{
		KeywordMatch: 67, // 66.7 rounded
		Impact:       15, // "30%"
		Brevity:      20, // one bullet of 17 words
		Skills:       0,  // skills span holds no keyword
		Style:        10, // built, improved
		Overall:      59, // 20 + 3.75 + 4 + 0 + 1 + 30
	}
	if got != want {
		t.Errorf("ScoreResumeworded() = %+v, want %+v", got, want)
	}
	if got.Impact <= 0 {
		t.Error("expected impact score from the percentage metric")
	}
}

func TestEmptyKeywords(t *testing.T) {
	in := Input{ResumeText: scenarioResume()}

	js := ScoreJobscan(in)
	if js.Overall != 0 || js.KeywordMatch != 0 || js.Coverage != 0 {
		t.Errorf("jobscan with no keywords = %+v, want zero keyword components", js)
	}

	rw := ScoreResumeworded(in)
	if rw.KeywordMatch != 0 || rw.Skills != 0 {
		t.Errorf("resumeworded with no keywords = %+v, want zero keyword components", rw)
	}
}

func TestSubstringMatching(t *testing.T) {
	// "Java" deliberately matches inside "JavaScript".
	in := Input{
		ResumeText: "JavaScript developer",
		Keywords:   []string{"Java"},
	}

	for _, method := range Methods {
		t.Run(string(method), func(t *testing.T) {
			res := Score(in, method)
			if !reflect.DeepEqual(res.MatchedKeywords, []string{"Java"}) {
				t.Errorf("MatchedKeywords = %v, want [Java]", res.MatchedKeywords)
			}
		})
	}

	if cov := ScoreJobscan(in).Coverage; cov != 100 {
		t.Errorf("jobscan coverage = %d, want 100", cov)
	}
	if kw := ScoreResumeworded(in).KeywordMatch; kw != 100 {
		t.Errorf("resumeworded keyword match = %d, want 100", kw)
	}
}

func TestRepetitionBonusCap(t *testing.T) {
	resume := strings.Repeat("python ", 5)

	if bonus := repetitionBonus(resume, "python"); bonus != 2 {
		t.Errorf("repetitionBonus() = %v, want 2", bonus)
	}

	// weight 4 plus the capped bonus of 2 gives 6 of 4 possible points
	got := ScoreJobscan(Input{ResumeText: resume, Keywords: []string{"python"}})
	if got.KeywordMatch != 150 {
		t.Errorf("KeywordMatch = %d, want 150", got.KeywordMatch)
	}
}

func TestRepetitionBonus(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		want   float64
	}{
		{"absent", "go developer", 0},
		{"once", "python developer", 0},
		{"twice", "python and python", 1},
		{"three times", "python python python", 2},
		{"many times", strings.Repeat("python ", 10), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repetitionBonus(tt.resume, "python"); got != tt.want {
				t.Errorf("repetitionBonus() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Occurrences are literal substrings: the dot in "node.js" matches only a dot.
func TestRepetitionBonusIsLiteral(t *testing.T) {
	tests := []struct {
		resume string
		want   float64
	}{
		{"node.js and node.js", 1},
		{"node.js and nodexjs and node-js", 0},
		{"node.js node.js node.js", 2},
	}
	for _, tt := range tests {
		t.Run(tt.resume, func(t *testing.T) {
			if got := repetitionBonus(tt.resume, "node.js"); got != tt.want {
				t.Errorf("repetitionBonus(%q) = %v, want %v", tt.resume, got, tt.want)
			}
		})
	}
}

// Case folding is ASCII only: ſ (U+017F) and K (U+212A) do not stand in for s and k.
func TestResumewordedASCIICaseFolding(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantFormat float64
		wantImpact int
	}{
		{"upper case header", "EXPERIENCE", 10, 0},
		{"mixed case header", "Skills", 10, 0},
		{"long s header", "ſkills", 0, 0},
		{"kelvin sign header", "\u212Aills", 0, 0},
		{"impact upper case", "reached 500 USERS", 0, 1},
		{"impact long s", "reached 500 uſers", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resumewordedFormat(tt.text); got != tt.wantFormat {
				t.Errorf("resumewordedFormat(%q) = %v, want %v", tt.text, got, tt.wantFormat)
			}
			lower := strings.ToLower(tt.text)
			if got := len(impactPattern.FindAllStringIndex(lower, -1)); got != tt.wantImpact {
				t.Errorf("impact matches in %q = %d, want %d", lower, got, tt.wantImpact)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	in := Input{
		ResumeText: scenarioResume(),
		Keywords:   []string{"python", "aws", "teamwork", "docker", "leadership"},
	}
	for _, method := range Methods {
		first := Score(in, method)
		for range 5 {
			if again := Score(in, method); !reflect.DeepEqual(first, again) {
				t.Fatalf("%s: results differ between calls: %+v vs %+v", method, first, again)
			}
		}
	}
}

func TestBoundedness(t *testing.T) {
	heavy := strings.Repeat("• Led and built python aws docker react sql systems for 5000 users, saving $200 and 40%\n", 30)
	inputs := []Input{
		{},
		{ResumeText: "x"},
		{ResumeText: heavy, Keywords: []string{"python", "aws", "docker", "react", "sql"}},
		{ResumeText: heavy, Keywords: []string{"unknown", "nothing"}},
		{ResumeText: scenarioResume(), Keywords: HardSkills},
		{ResumeText: "Skills\npython, aws\n\nExperience", Keywords: []string{"python", "aws"}},
	}

	for i, in := range inputs {
		for _, method := range Methods {
			res := Score(in, method)
			if res.Overall < 0 || res.Overall > 100 {
				t.Errorf("input %d %s: overall %d out of range", i, method, res.Overall)
			}
		}
	}
}

func TestJobscanMonotonicity(t *testing.T) {
	resume := scenarioResume() + "\nDocker, Kubernetes, React, SQL"
	base := []string{"python", "teamwork", "agile"}
	additions := []string{"aws", "docker", "kubernetes", "react", "sql"}

	prev := ScoreJobscan(Input{ResumeText: resume, Keywords: base}).Overall
	keywords := append([]string{}, base...)
	for _, k := range additions {
		keywords = append(keywords, k)
		got := ScoreJobscan(Input{ResumeText: resume, Keywords: keywords}).Overall
		if got < prev {
			t.Errorf("adding %q lowered overall from %d to %d", k, prev, got)
		}
		prev = got
	}
}

func TestJobscanUnclassifiedKeywords(t *testing.T) {
	in := Input{ResumeText: "golang rust", Keywords: []string{"golang", "rust"}}
	got := ScoreJobscan(in)
	if got.Overall != 0 || got.KeywordMatch != 0 {
		t.Errorf("unclassified keywords should not score: %+v", got)
	}
	if got.Coverage != 100 {
		t.Errorf("Coverage = %d, want 100", got.Coverage)
	}
}

func TestSkillsSpan(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"end of text", "Summary\nSkills: python, aws", "Skills: python, aws", true},
		{"followed by heading", "SKILLS: python\nExperience", "SKILLS: python", true},
		{"followed by blank line", "Tools: git\n\nmore", "Tools: git", true},
		{"bullet line does not close", "Skills\n• python\nLanguages: go\nNext", "Languages: go", true},
		{"prefix of a word", "Toolset ready\nDone", "Toolset ready", true},
		{"none", "Experience\nNothing here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := skillsSpan(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("skillsSpan() ok = %v, want %v (span %q)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("skillsSpan() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBrevityScore(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  float64
	}{
		{"no bullets", nil, 0},
		{"optimal", []string{"- one two three four five six seven eight nine ten eleven"}, 20},
		{"acceptable", []string{"- one two three four five six seven"}, 10},
		{"too short", []string{"- one two"}, 0},
		{"mixed", []string{"- one two three four five six seven eight nine ten eleven", "- one two"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := brevityScore(tt.lines); got != tt.want {
				t.Errorf("brevityScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"", MethodJobscan, false},
		{"jobscan", MethodJobscan, false},
		{"ResumeWorded", MethodResumeworded, false},
		{" resumeworded ", MethodResumeworded, false},
		{"lever", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScoreSelectsBreakdown(t *testing.T) {
	in := Input{ResumeText: scenarioResume(), Keywords: []string{"python"}}

	js := Score(in, "")
	if js.Method != MethodJobscan || js.Jobscan == nil || js.Resumeworded != nil {
		t.Errorf("default method result = %+v", js)
	}
	if js.Breakdown()["sectionPlacement"] != 23 {
		t.Errorf("Breakdown() = %v", js.Breakdown())
	}

	rw := Score(in, MethodResumeworded)
	if rw.Method != MethodResumeworded || rw.Resumeworded == nil || rw.Jobscan != nil {
		t.Errorf("resumeworded result = %+v", rw)
	}
	if rw.Overall != rw.Resumeworded.Overall {
		t.Errorf("Overall = %d, breakdown overall = %d", rw.Overall, rw.Resumeworded.Overall)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		keyword string
		want    Tier
	}{
		{"Python", TierHardSkill},
		{"node.js", TierHardSkill},
		{"Software Engineer", TierJobTitle},
		{"AWS Certified", TierEducationCert},
		{"Problem Solving", TierSoftSkill},
		{"golang", TierNone},
		{"pythonic", TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := Classify(tt.keyword); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{"Python", " aws ", "python", "", "AWS", "Docker"})
	want := []string{"Python", "aws", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeKeywords() = %v, want %v", got, want)
	}
}

func TestTextLength(t *testing.T) {
	if n := textLength("•a"); n != 2 {
		t.Errorf("textLength() = %d, want 2", n)
	}
	if n := textLength("😀"); n != 2 {
		t.Errorf("textLength() = %d, want 2", n)
	}
}

func BenchmarkScore(b *testing.B) {
	in := Input{
		ResumeText: scenarioResume(),
		Keywords:   []string{"python", "aws", "teamwork", "docker", "leadership"},
	}
	for b.Loop() {
		Score(in, MethodJobscan)
		Score(in, MethodResumeworded)
	}
}
