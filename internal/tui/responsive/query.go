package responsive

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

// Landscape reports whether the area is at least twice as wide as it is
// tall. Cells are roughly twice as tall as they are wide, so this is the
// visual square point.
func (s Size) Landscape() bool {
	return s.Width >= 2*s.Height
}

type feature string

const (
	featureMinWidth    feature = "min-width"
	featureMaxWidth    feature = "max-width"
	featureMinHeight   feature = "min-height"
	featureMaxHeight   feature = "max-height"
	featureOrientation feature = "orientation"
)

type clause struct {
	feature   feature
	value     int
	landscape bool
}

func (c clause) match(s Size) bool {
	switch c.feature {
	case featureMinWidth:
		return s.Width >= c.value
	case featureMaxWidth:
		return s.Width <= c.value
	case featureMinHeight:
		return s.Height >= c.value
	case featureMaxHeight:
		return s.Height <= c.value
	case featureOrientation:
		return s.Landscape() == c.landscape
	default:
		return false
	}
}

// Query is a parsed layout predicate such as
// "(min-width: 120) and (orientation: landscape)".
type Query struct {
	source  string
	clauses []clause
}

// String returns the query as it was written.
func (q Query) String() string {
	return q.source
}

// Match reports whether every clause holds for s.
func (q Query) Match(s Size) bool {
	for _, c := range q.clauses {
		if !c.match(s) {
			return false
		}
	}
	return len(q.clauses) > 0
}

// Parse parses a predicate made of "(feature: value)" clauses joined by
// "and". Features are min-width, max-width, min-height, max-height (cells)
// and orientation (landscape or portrait).
func Parse(src string) (Query, error) {
	q := Query{source: strings.TrimSpace(src)}
	rest := strings.ToLower(q.source)
	if rest == "" {
		return Query{}, fmt.Errorf("empty query")
	}

	for {
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "(") {
			return Query{}, fmt.Errorf("query %q: expected '('", src)
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return Query{}, fmt.Errorf("query %q: missing ')'", src)
		}

		c, err := parseClause(rest[1:end])
		if err != nil {
			return Query{}, fmt.Errorf("query %q: %w", src, err)
		}
		q.clauses = append(q.clauses, c)

		rest = strings.TrimSpace(rest[end+1:])
		if rest == "" {
			return q, nil
		}

		next, ok := strings.CutPrefix(rest, "and")
		if !ok || !strings.HasPrefix(strings.TrimSpace(next), "(") {
			return Query{}, fmt.Errorf("query %q: expected 'and' between clauses", src)
		}
		rest = next
	}
}

func parseClause(body string) (clause, error) {
	name, value, ok := strings.Cut(body, ":")
	if !ok {
		return clause{}, fmt.Errorf("clause %q: expected 'feature: value'", body)
	}
	f := feature(strings.TrimSpace(name))
	value = strings.TrimSpace(value)

	switch f {
	case featureMinWidth, featureMaxWidth, featureMinHeight, featureMaxHeight:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return clause{}, fmt.Errorf("%s: %q is not a cell count", f, value)
		}
		return clause{feature: f, value: n}, nil
	case featureOrientation:
		switch value {
		case "landscape":
			return clause{feature: f, landscape: true}, nil
		case "portrait":
			return clause{feature: f}, nil
		}
		return clause{}, fmt.Errorf("orientation: %q must be landscape or portrait", value)
	default:
		return clause{}, fmt.Errorf("unknown feature %q", f)
	}
}
