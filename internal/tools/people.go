package tools

import (
	"context"

	"github.com/dukebot/dukebot-go/internal/dukeapi"
)

// PeopleToolName is the routing name of the directory search tool.
const PeopleToolName = "duke_people"

// PeopleTool searches the Duke directory by name, passing the payload
// through untouched.
type PeopleTool struct {
	client *dukeapi.Client
}

func NewPeopleTool(client *dukeapi.Client) *PeopleTool {
	return &PeopleTool{client: client}
}

func (t *PeopleTool) Name() string { return PeopleToolName }

func (t *PeopleTool) Call(ctx context.Context, params map[string]string) string {
	body, err := t.client.FetchPeople(ctx, params["name"])
	if err != nil {
		return fetchErrorString(err)
	}
	return string(body)
}
