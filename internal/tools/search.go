package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dukebot/dukebot-go/internal/serpapi"
)

// PrattSearchToolName is the routing name of the web search tool.
const PrattSearchToolName = "pratt_search"

// PrattSearchTool runs a Duke-scoped web search and returns the distilled
// results plus the text of the best matching page.
type PrattSearchTool struct {
	client *serpapi.Client
}

func NewPrattSearchTool(client *serpapi.Client) *PrattSearchTool {
	return &PrattSearchTool{client: client}
}

func (t *PrattSearchTool) Name() string { return PrattSearchToolName }

// searchScope anchors generic queries to the school so the engine does not
// wander off to unrelated institutions.
const searchScope = "Duke Pratt School of Engineering"

func (t *PrattSearchTool) Call(ctx context.Context, params map[string]string) string {
	raw, err := t.client.Search(ctx, scopeQuery(params["query"]))
	if err != nil {
		return fetchErrorString(err)
	}

	result := serpapi.Process(raw)
	result.PageContent = t.client.PageText(ctx, result.TopLink())

	out, err := json.Marshal(result)
	if err != nil {
		return "Error: " + err.Error()
	}
	return string(out)
}

// scopeQuery prefixes the query with the school name unless the caller
// already mentions it.
func scopeQuery(query string) string {
	if strings.Contains(strings.ToLower(query), "duke pratt") {
		return query
	}
	return searchScope + " " + query
}

// disabledSearchTool stands in when no SerpAPI key is configured. The router
// can still select the tool; the answer explains why there is no data.
type disabledSearchTool struct{}

func (disabledSearchTool) Name() string { return PrattSearchToolName }

func (disabledSearchTool) Call(ctx context.Context, params map[string]string) string {
	return "Error: web search is not configured."
}
