package tools

import (
	"context"
	"encoding/json"

	"github.com/dukebot/dukebot-go/internal/subjects"
)

// SubjectLookupToolName is the routing name of the subject lookup tool.
const SubjectLookupToolName = "duke_subject_lookup"

// subjectLookupTopN is how many subject matches go back to the model.
const subjectLookupTopN = 5

// SubjectLookupTool maps free-text queries like "computer science" to
// curriculum subject codes using the keyword index.
type SubjectLookupTool struct {
	index *subjects.Index
}

func NewSubjectLookupTool(index *subjects.Index) *SubjectLookupTool {
	return &SubjectLookupTool{index: index}
}

func (t *SubjectLookupTool) Name() string { return SubjectLookupToolName }

func (t *SubjectLookupTool) Call(ctx context.Context, params map[string]string) string {
	results, err := t.index.Search(params["query"], subjectLookupTopN)
	if err != nil {
		return "Error: " + err.Error()
	}

	if results == nil {
		results = []subjects.Result{}
	}
	out, err := json.Marshal(results)
	if err != nil {
		return "Error: " + err.Error()
	}
	return string(out)
}
