package jsondoc

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a mapping key, a sequence index, or the
// [*] wildcard addressing every element of a sequence.
type Segment struct {
	Field    string
	Index    int
	IsIndex  bool
	Wildcard bool
}

func (s Segment) String() string {
	switch {
	case s.Wildcard:
		return "[*]"
	case s.IsIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	default:
		return s.Field
	}
}

// Path is a parsed property path expression.
type Path struct {
	expr string
	segs []Segment
}

// ParsePath parses a dotted/bracketed path expression. An index may follow a
// field without a separating dot (A.B[2].C); a path may also begin with an
// index when the root value is a sequence.
func ParsePath(expr string) (Path, error) {
	if expr == "" {
		return Path{}, fmt.Errorf("empty path expression")
	}
	var segs []Segment
	rest := expr
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			if len(segs) == 0 {
				return Path{}, fmt.Errorf("path %q: unexpected leading '.'", expr)
			}
			rest = rest[1:]
			if rest == "" {
				return Path{}, fmt.Errorf("path %q: trailing '.'", expr)
			}
			if rest[0] == '.' {
				return Path{}, fmt.Errorf("path %q: empty segment", expr)
			}
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return Path{}, fmt.Errorf("path %q: unterminated index", expr)
			}
			idx := rest[1:end]
			if idx == "*" {
				segs = append(segs, Segment{Wildcard: true})
			} else {
				n, err := strconv.ParseUint(idx, 10, 31)
				if err != nil {
					return Path{}, fmt.Errorf("path %q: invalid index %q", expr, idx)
				}
				segs = append(segs, Segment{Index: int(n), IsIndex: true})
			}
			rest = rest[end+1:]
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			segs = append(segs, Segment{Field: rest[:end]})
			rest = rest[end:]
		}
	}
	return Path{expr: expr, segs: segs}, nil
}

// MustParsePath is ParsePath for statically known expressions; it panics on error.
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical form of the path.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.segs {
		if !s.IsIndex && !s.Wildcard && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Segments returns the parsed segments in order.
func (p Path) Segments() []Segment { return p.segs }

// HasWildcard reports whether the path contains a [*] segment.
func (p Path) HasWildcard() bool {
	for _, s := range p.segs {
		if s.Wildcard {
			return true
		}
	}
	return false
}

// Parent returns the path without its final segment, and the final segment.
// ok is false when the path has fewer than two segments.
func (p Path) Parent() (Path, Segment, bool) {
	if len(p.segs) < 2 {
		return Path{}, Segment{}, false
	}
	parent := Path{segs: p.segs[:len(p.segs)-1]}
	parent.expr = parent.String()
	return parent, p.segs[len(p.segs)-1], true
}

// joinAt renders the prefix of the expression up to and including segment i,
// for error attribution.
func (p Path) joinAt(i int) string {
	var b strings.Builder
	for j := 0; j <= i && j < len(p.segs); j++ {
		s := p.segs[j]
		if !s.IsIndex && !s.Wildcard && j > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}
