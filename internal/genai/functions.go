// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains function declarations for the tool router and filter selector.
//
// Design Principles:
// - functions.go: WHAT the function does (descriptions + parameter formats)
// - prompts.go: WHEN/HOW to use (decision trees, trigger conditions)
//
// IMPORTANT: Function declarations use genai.Type* constants (e.g., genai.TypeString = "STRING").
// When converting to other provider formats (e.g., Groq), ensure types are lowercased to match
// JSON Schema spec ("string" not "STRING"). See buildOpenAITools() in openai.go for example.
package genai

import "google.golang.org/genai"

// BuildToolFunctions returns the function declarations for tool routing.
// These functions represent the tools the router can dispatch to.
func BuildToolFunctions() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		// ============================================
		// Events
		// ============================================
		{
			Name:        "duke_events",
			Description: "Look up upcoming Duke University events matching an interest or topic.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"prompt": {
						Type:        genai.TypeString,
						Description: "The user's interest or topic, in their own words. Examples: \"data science talks\", \"music performances this month\"",
					},
				},
				Required: []string{"prompt"},
			},
		},

		// ============================================
		// Curriculum
		// ============================================
		{
			Name:        "duke_curriculum",
			Description: "List courses offered under a Duke subject.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"subject": {
						Type:        genai.TypeString,
						Description: "The subject exactly as listed in the catalog, code and description. Example: \"AIPI - Artificial Intelligence for Product Innovation\"",
					},
				},
				Required: []string{"subject"},
			},
		},
		{
			Name:        "duke_course_details",
			Description: "Get detailed information about a specific Duke course offering.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"course_id": {
						Type:        genai.TypeString,
						Description: "The course's numeric identifier from a previous curriculum lookup. Example: \"029248\"",
					},
					"course_offer_number": {
						Type:        genai.TypeString,
						Description: "The course offer number from a previous curriculum lookup. Example: \"1\"",
					},
				},
				Required: []string{"course_id", "course_offer_number"},
			},
		},
		{
			Name:        "duke_subject_lookup",
			Description: "Find catalog subjects matching a topic when the exact subject code is unknown.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "A topic or field of study. Examples: \"machine learning\", \"biology\"",
					},
				},
				Required: []string{"query"},
			},
		},

		// ============================================
		// People
		// ============================================
		{
			Name:        "duke_people",
			Description: "Look up Duke faculty, staff, or student directory information by name.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "The person's name, full or partial. Example: \"Brinnae Bent\"",
					},
				},
				Required: []string{"name"},
			},
		},

		// ============================================
		// Web search
		// ============================================
		{
			Name:        "pratt_search",
			Description: "Search the web for information about Duke University or the Pratt School of Engineering not covered by the other tools.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "The search query. Examples: \"Pratt school application deadline\", \"Duke AIPI program tuition\"",
					},
				},
				Required: []string{"query"},
			},
		},

		// ============================================
		// Direct reply
		// ============================================
		{
			Name:        "direct_reply",
			Description: "Answer directly without calling any Duke data source. Use for greetings, small talk, and questions unrelated to Duke.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"message": {
						Type:        genai.TypeString,
						Description: "The reply to send to the user.",
					},
				},
				Required: []string{"message"},
			},
		},
	}
}

// FilterSelectionFunctionName is the function the filter selector is forced to call.
const FilterSelectionFunctionName = "select_event_filters"

// BuildFilterSelectionFunction returns the function declaration used to extract
// event groups and categories from a user prompt as a structured selection.
func BuildFilterSelectionFunction() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        FilterSelectionFunctionName,
		Description: "Record the event groups and categories that match the user's request.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"groups": {
					Type:        genai.TypeArray,
					Description: "Matching group names, taken verbatim from the candidate list, or [\"All\"] when every group applies.",
					Items:       &genai.Schema{Type: genai.TypeString},
				},
				"categories": {
					Type:        genai.TypeArray,
					Description: "Matching category names, taken verbatim from the candidate list, or [\"All\"] when every category applies.",
					Items:       &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"groups", "categories"},
		},
	}
}

// ToolParamsMap maps tool names to their expected parameter keys.
// This is used to extract parameter values from function call args.
var ToolParamsMap = map[string][]string{
	"duke_events":         {"prompt"},
	"duke_curriculum":     {"subject"},
	"duke_course_details": {"course_id", "course_offer_number"},
	"duke_subject_lookup": {"query"},
	"duke_people":         {"name"},
	"pratt_search":        {"query"},
	"direct_reply":        {"message"},
}

// IsKnownTool reports whether name is a tool the router may dispatch to.
func IsKnownTool(name string) bool {
	_, ok := ToolParamsMap[name]
	return ok
}
