package serpapi

import (
	"net/url"
	"sort"
	"strings"
)

const (
	// maxOrganicResults caps how many filtered organic results survive.
	maxOrganicResults = 8

	// maxRelatedQuestions caps the "people also ask" entries kept.
	maxRelatedQuestions = 4

	// maxFallbackResults caps the unfiltered results returned when domain
	// filtering leaves nothing.
	maxFallbackResults = 5
)

// RawResponse mirrors the SerpAPI fields this application consumes.
type RawResponse struct {
	OrganicResults   []OrganicResult   `json:"organic_results"`
	KnowledgeGraph   *KnowledgeGraph   `json:"knowledge_graph"`
	RelatedQuestions []RelatedQuestion `json:"related_questions"`
}

// OrganicResult is one regular search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// KnowledgeGraph is the Google knowledge panel summary for an entity.
type KnowledgeGraph struct {
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// RelatedQuestion is one "people also ask" entry.
type RelatedQuestion struct {
	Question string `json:"question"`
	Snippet  string `json:"snippet,omitempty"`
}

// Result is the distilled search payload handed to the composer model.
type Result struct {
	Results          []OrganicResult   `json:"results"`
	KnowledgeGraph   *KnowledgeGraph   `json:"knowledge_graph,omitempty"`
	RelatedQuestions []RelatedQuestion `json:"related_questions,omitempty"`
	PageContent      string            `json:"page_content,omitempty"`
}

// Process filters and trims a raw search response. duke.edu results are
// kept, with pratt.duke.edu hosts ranked first since engineering pages answer
// most queries this tool serves. When no result is on a duke.edu host the
// top raw hits are passed through so the composer still has something to
// work with.
func Process(raw *RawResponse) *Result {
	result := &Result{
		Results: filterOrganic(raw.OrganicResults),
	}

	if raw.KnowledgeGraph != nil && raw.KnowledgeGraph.Title != "" {
		result.KnowledgeGraph = raw.KnowledgeGraph
	}

	questions := raw.RelatedQuestions
	if len(questions) > maxRelatedQuestions {
		questions = questions[:maxRelatedQuestions]
	}
	result.RelatedQuestions = questions

	return result
}

// TopLink returns the best organic link to follow for page content,
// or "" when no organic result survived filtering.
func (r *Result) TopLink() string {
	if len(r.Results) == 0 {
		return ""
	}
	return r.Results[0].Link
}

func filterOrganic(organic []OrganicResult) []OrganicResult {
	filtered := make([]OrganicResult, 0, len(organic))
	for _, o := range organic {
		if isDukeDomain(o.Link) {
			filtered = append(filtered, o)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return isPrattDomain(filtered[i].Link) && !isPrattDomain(filtered[j].Link)
	})

	// An over-aggressive filter is worse than an off-domain answer. Keep
	// the top raw hits when nothing survives.
	if len(filtered) == 0 && len(organic) > 0 {
		if len(organic) > maxFallbackResults {
			organic = organic[:maxFallbackResults]
		}
		return organic
	}

	if len(filtered) > maxOrganicResults {
		filtered = filtered[:maxOrganicResults]
	}
	return filtered
}

func isDukeDomain(link string) bool {
	host := hostOf(link)
	return host == "duke.edu" || strings.HasSuffix(host, ".duke.edu")
}

func isPrattDomain(link string) bool {
	host := hostOf(link)
	return host == "pratt.duke.edu" || strings.HasSuffix(host, ".pratt.duke.edu")
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
