package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukebot/dukebot-go/internal/dukeapi"
)

// Routing names of the curriculum tools.
const (
	CurriculumToolName    = "duke_curriculum"
	CourseDetailsToolName = "duke_course_details"
)

// ErrUnparsableResponse is the string returned when an upstream payload is
// not valid JSON.
const ErrUnparsableResponse = "Error: Could not parse API response"

// maxCourseRecords caps how many course summaries go back to the model.
const maxCourseRecords = 5

// curriculumBodyLimit caps course list payloads that carry no oversized
// course array, such as verbose single-course subjects.
const curriculumBodyLimit = 1000

// CurriculumTool lists courses for a subject, trimming oversized course
// lists so big departments do not flood the model context.
type CurriculumTool struct {
	client *dukeapi.Client
}

func NewCurriculumTool(client *dukeapi.Client) *CurriculumTool {
	return &CurriculumTool{client: client}
}

func (t *CurriculumTool) Name() string { return CurriculumToolName }

func (t *CurriculumTool) Call(ctx context.Context, params map[string]string) string {
	body, err := t.client.FetchSubjectCourses(ctx, params["subject"])
	if err != nil {
		return fetchErrorString(err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ErrUnparsableResponse
	}

	doc, truncated := truncateCourseLists(doc)
	if !truncated {
		return truncateBody(body, curriculumBodyLimit)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return ErrUnparsableResponse
	}
	return string(out)
}

// truncateCourseLists walks the payload and truncates the first array longer
// than maxCourseRecords to its head plus a note entry. The curriculum schema
// nests the course list several levels deep and the exact wrapping varies by
// endpoint version, so this matches on shape rather than on field names.
func truncateCourseLists(v any) (any, bool) {
	switch node := v.(type) {
	case []any:
		if len(node) > maxCourseRecords {
			trimmed := make([]any, 0, maxCourseRecords+1)
			trimmed = append(trimmed, node[:maxCourseRecords]...)
			trimmed = append(trimmed, map[string]any{
				"note": fmt.Sprintf("Showing first %d of %d courses. Ask about a specific course for details.",
					maxCourseRecords, len(node)),
			})
			return trimmed, true
		}
		for i, child := range node {
			if replaced, ok := truncateCourseLists(child); ok {
				node[i] = replaced
				return node, true
			}
		}
	case map[string]any:
		for key, child := range node {
			if replaced, ok := truncateCourseLists(child); ok {
				node[key] = replaced
				return node, true
			}
		}
	}
	return v, false
}

// CourseDetailsTool fetches one course offering and passes the payload
// through untouched.
type CourseDetailsTool struct {
	client *dukeapi.Client
}

func NewCourseDetailsTool(client *dukeapi.Client) *CourseDetailsTool {
	return &CourseDetailsTool{client: client}
}

func (t *CourseDetailsTool) Name() string { return CourseDetailsToolName }

func (t *CourseDetailsTool) Call(ctx context.Context, params map[string]string) string {
	body, err := t.client.FetchCourseDetails(ctx, params["course_id"], params["course_offer_number"])
	if err != nil {
		return fetchErrorString(err)
	}
	return string(body)
}
