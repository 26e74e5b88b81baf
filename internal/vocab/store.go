// Package vocab loads the filter vocabularies accepted by Duke's public
// APIs: event groups, event categories, and curriculum subjects. Each
// vocabulary is a newline-delimited UTF-8 text file with one value per
// line. The store is built once at startup and read-only afterwards.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dukebot/dukebot-go/internal/logger"
)

// All is the reserved vocabulary value meaning "apply no filter on this
// axis". It is accepted by the filter resolver even though it never
// appears in the vocabulary files.
const All = "All"

// Store holds the three filter vocabularies.
type Store struct {
	Groups     []string
	Categories []string
	Subjects   []string

	groupSet    map[string]struct{}
	categorySet map[string]struct{}
}

// Paths names the three vocabulary files to load.
type Paths struct {
	Groups     string
	Categories string
	Subjects   string
}

// Load reads the vocabulary files and builds a Store. A missing or
// unreadable file yields an empty vocabulary with a logged warning, not
// an error, so the server can still start with partial data.
func Load(paths Paths, log *logger.Logger) *Store {
	s := &Store{
		Groups:     loadLines(paths.Groups, log),
		Categories: loadLines(paths.Categories, log),
		Subjects:   loadLines(paths.Subjects, log),
	}
	s.groupSet = toSet(s.Groups)
	s.categorySet = toSet(s.Categories)
	return s
}

// NewStore builds a Store from in-memory vocabularies.
func NewStore(groups, categories, subjects []string) *Store {
	return &Store{
		Groups:      groups,
		Categories:  categories,
		Subjects:    subjects,
		groupSet:    toSet(groups),
		categorySet: toSet(categories),
	}
}

// HasGroup reports whether value is a known event group or the All sentinel.
func (s *Store) HasGroup(value string) bool {
	if value == All {
		return true
	}
	_, ok := s.groupSet[value]
	return ok
}

// HasCategory reports whether value is a known event category or the All sentinel.
func (s *Store) HasCategory(value string) bool {
	if value == All {
		return true
	}
	_, ok := s.categorySet[value]
	return ok
}

// Subject is one curriculum subject vocabulary entry.
type Subject struct {
	Code        string
	Description string
}

// ParseSubject splits a "CODE - Description" vocabulary line. Lines
// without the separator are returned with the whole line as the code.
func ParseSubject(line string) Subject {
	code, desc, found := strings.Cut(line, " - ")
	if !found {
		return Subject{Code: strings.TrimSpace(line)}
	}
	return Subject{
		Code:        strings.TrimSpace(code),
		Description: strings.TrimSpace(desc),
	}
}

// ParsedSubjects returns the subject vocabulary split into code and
// description pairs.
func (s *Store) ParsedSubjects() []Subject {
	subjects := make([]Subject, 0, len(s.Subjects))
	for _, line := range s.Subjects {
		subjects = append(subjects, ParseSubject(line))
	}
	return subjects
}

func loadLines(path string, log *logger.Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		if log != nil {
			log.WithError(err).Warn(fmt.Sprintf("vocabulary file %s not loaded, using empty vocabulary", path))
		}
		return nil
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil && log != nil {
		log.WithError(err).Warn(fmt.Sprintf("error reading vocabulary file %s", path))
	}
	return lines
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
