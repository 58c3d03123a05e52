package ai

import (
	"strings"

	"resumeforge/internal/config"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

// genaiSchemas are the structured-output schemas sent to Gemini
var genaiSchemas = map[string]*genai.Schema{
	config.OpKeywords: {
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"keywords": stringArray(),
			"skills":   stringArray(),
		},
		Required: []string{"keywords", "skills"},
	},
	config.OpOptimize: {
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"optimizedContent": {Type: genai.TypeString},
			"improvements": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"section":   {Type: genai.TypeString},
						"before":    {Type: genai.TypeString},
						"after":     {Type: genai.TypeString},
						"reasoning": {Type: genai.TypeString},
					},
					Required: []string{"section", "before", "after", "reasoning"},
				},
			},
			"keywordMatches": stringArray(),
		},
		Required: []string{"optimizedContent", "improvements", "keywordMatches"},
	},
	config.OpCoverLetter: {
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"content":   {Type: genai.TypeString},
			"tone":      {Type: genai.TypeString},
			"keyPoints": stringArray(),
		},
		Required: []string{"content", "keyPoints"},
	},
	config.OpInterview: {
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":        {Type: genai.TypeString},
						"suggestedAnswer": {Type: genai.TypeString},
						"category":        {Type: genai.TypeString, Enum: []string{"behavioral", "technical", "situational", "leadership"}},
						"difficulty":      {Type: genai.TypeString, Enum: []string{"easy", "medium", "hard"}},
					},
					Required: []string{"question", "suggestedAnswer", "category", "difficulty"},
				},
			},
		},
		Required: []string{"questions"},
	},
	config.OpMultiJob: {
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"commonKeywords":     stringArray(),
			"masterOptimization": {Type: genai.TypeString},
			"jobSpecificInsights": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":          {Type: genai.TypeString},
						"uniqueKeywords": stringArray(),
						"matchScore":     {Type: genai.TypeInteger},
					},
					Required: []string{"title", "uniqueKeywords", "matchScore"},
				},
			},
		},
		Required: []string{"commonKeywords", "masterOptimization", "jobSpecificInsights"},
	},
}

// jsonSchemas validate replies from providers without structured output.
// They require only what the decoders cannot default.
var jsonSchemas = map[string]string{
	config.OpKeywords: `{
		"type": "object",
		"properties": {
			"keywords": {"type": "array", "items": {"type": "string"}},
			"skills": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["keywords"]
	}`,
	config.OpOptimize: `{
		"type": "object",
		"properties": {
			"optimizedContent": {"type": "string"},
			"improvements": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"section": {"type": "string"},
						"before": {"type": "string"},
						"after": {"type": "string"},
						"reasoning": {"type": "string"}
					}
				}
			},
			"keywordMatches": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["optimizedContent"]
	}`,
	config.OpCoverLetter: `{
		"type": "object",
		"properties": {
			"content": {"type": "string", "minLength": 1},
			"tone": {"type": "string"},
			"keyPoints": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["content"]
	}`,
	config.OpInterview: `{
		"type": "object",
		"properties": {
			"questions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"question": {"type": "string"},
						"suggestedAnswer": {"type": "string"}
					},
					"required": ["question"]
				}
			}
		},
		"required": ["questions"]
	}`,
	config.OpMultiJob: `{
		"type": "object",
		"properties": {
			"commonKeywords": {"type": "array", "items": {"type": "string"}},
			"masterOptimization": {"type": "string"},
			"jobSpecificInsights": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"title": {"type": "string"},
						"uniqueKeywords": {"type": "array", "items": {"type": "string"}},
						"matchScore": {"type": "number"}
					},
					"required": ["title"]
				}
			}
		},
		"required": ["jobSpecificInsights"]
	}`,
}

// compiledSchemas are loaded once at init; a broken schema is a programming error
var compiledSchemas = func() map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema, len(jsonSchemas))
	for op, src := range jsonSchemas {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic("invalid schema for " + op + ": " + err.Error())
		}
		out[op] = s
	}
	return out
}()

// SchemaError lists the fields of a reply that failed validation
type SchemaError struct {
	Operation string
	Fields    []string
}

func (e *SchemaError) Error() string {
	return "reply for " + e.Operation + " does not match schema: " + strings.Join(e.Fields, "; ")
}

// validateReply checks a JSON document against the operation's schema
func validateReply(op, doc string) error {
	schema, ok := compiledSchemas[op]
	if !ok {
		return nil
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{Operation: op}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		se.Fields = append(se.Fields, field+": "+desc.Description())
	}
	return se
}

// extractJSON returns the JSON object embedded in a model reply. Code fences
// and prose around the object are dropped.
func extractJSON(reply string) (string, bool) {
	s := strings.TrimSpace(reply)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.LastIndex(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		s = strings.TrimSpace(rest)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	s = s[start : end+1]
	if !gjson.Valid(s) {
		return "", false
	}
	return s, true
}
