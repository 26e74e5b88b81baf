// Package subjects provides keyword lookup over the curriculum subject
// vocabulary. Uses BM25 so queries like "computer science" match the
// subject description even when the code is unknown.
package subjects

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/crawlab-team/bm25"

	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/match"
	"github.com/dukebot/dukebot-go/internal/vocab"
)

// Result is one subject lookup hit.
type Result struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
}

// Index provides keyword-based subject search using BM25.
type Index struct {
	bm25Okapi   *bm25.BM25Okapi
	subjects    []vocab.Subject
	logger      *logger.Logger
	mu          sync.RWMutex
	initialized bool
}

// NewIndex creates an empty subject index.
func NewIndex(log *logger.Logger) *Index {
	return &Index{logger: log}
}

// Initialize builds the BM25 index from the subject vocabulary.
func (idx *Index) Initialize(subjects []vocab.Subject) error {
	if idx == nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(subjects) == 0 {
		idx.initialized = true
		return nil
	}

	corpus := make([]string, 0, len(subjects))
	kept := make([]vocab.Subject, 0, len(subjects))
	for _, s := range subjects {
		doc := strings.TrimSpace(s.Code + " " + s.Description)
		if doc == "" {
			continue
		}
		corpus = append(corpus, doc)
		kept = append(kept, s)
	}

	if len(corpus) == 0 {
		idx.initialized = true
		return nil
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	bm25Okapi, err := bm25.NewBM25Okapi(corpus, tokenize, 1.5, 0.75, nil)
	if err != nil {
		return fmt.Errorf("failed to create BM25 index: %w", err)
	}
	idx.bm25Okapi = bm25Okapi
	idx.subjects = kept
	idx.initialized = true

	idx.logger.WithField("docs", len(corpus)).Info("Subject index initialized")
	return nil
}

// Search performs BM25 keyword search over the subject vocabulary.
// Returns results sorted by score (descending), limited to topN.
func (idx *Index) Search(query string, topN int) ([]Result, error) {
	if idx == nil {
		return nil, nil
	}

	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.initialized || idx.bm25Okapi == nil {
		return nil, nil
	}

	tokenizedQuery := tokenize(query)
	if len(tokenizedQuery) == 0 {
		return nil, nil
	}

	scores, err := idx.bm25Okapi.GetScores(tokenizedQuery)
	if err != nil {
		return nil, fmt.Errorf("BM25 scoring failed: %w", err)
	}

	results := make([]Result, 0, len(scores))
	for docID, score := range scores {
		if score <= 0 || docID >= len(idx.subjects) {
			continue
		}
		s := idx.subjects[docID]
		results = append(results, Result{
			Code:        s.Code,
			Description: s.Description,
			Score:       score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	return results, nil
}

// IsEnabled returns true if the index is initialized with documents.
func (idx *Index) IsEnabled() bool {
	if idx == nil {
		return false
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.initialized && idx.bm25Okapi != nil
}

// Count returns the number of subjects in the index.
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.subjects)
}

func tokenize(text string) []string {
	return match.Tokenize(text)
}
