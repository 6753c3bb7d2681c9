package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseQuery turns a lookup line into a JobSearch. Recognised terms are
// title:, loc:, level:, min: and max:; anything else is a title keyword.
// Values may be double-quoted to include spaces and may list several
// alternatives separated by commas:
//
//	title:data loc:"United States",Germany level:Senior min:50000 engineer
func ParseQuery(query string) (*JobSearch, error) {
	tokens, err := tokenize(query)
	if err != nil {
		return nil, err
	}

	f := &JobSearch{}
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, ":")
		if !ok {
			f.TitleKeywords = append(f.TitleKeywords, tok)
			continue
		}
		switch strings.ToLower(key) {
		case "title":
			f.TitleKeywords = append(f.TitleKeywords, splitList(value)...)
		case "loc", "location":
			f.Locations = append(f.Locations, splitList(value)...)
		case "level":
			f.Levels = append(f.Levels, splitList(value)...)
		case "min":
			if f.MinSalaryEUR, err = parseAmount(key, value); err != nil {
				return nil, err
			}
		case "max":
			if f.MaxSalaryEUR, err = parseAmount(key, value); err != nil {
				return nil, err
			}
		default:
			f.TitleKeywords = append(f.TitleKeywords, tok)
		}
	}

	if f.MinSalaryEUR > 0 && f.MaxSalaryEUR > 0 && f.MinSalaryEUR > f.MaxSalaryEUR {
		return nil, fmt.Errorf("parse query: min %v is above max %v", f.MinSalaryEUR, f.MaxSalaryEUR)
	}
	return f, nil
}

func parseAmount(key, value string) (float64, error) {
	value = strings.ReplaceAll(value, "_", "")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("parse query: %s must be a non-negative number, got %q", key, value)
	}
	return v, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// tokenize splits on whitespace outside double quotes and strips the quotes.
func tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		pending bool
	)
	flush := func() {
		if pending {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		pending = false
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("parse query: unterminated quote")
	}
	flush()
	return tokens, nil
}

// String renders f back into query syntax.
func (f *JobSearch) String() string {
	var parts []string
	for _, kw := range f.TitleKeywords {
		parts = append(parts, "title:"+quote(kw))
	}
	if len(f.Locations) > 0 {
		parts = append(parts, "loc:"+joinQuoted(f.Locations))
	}
	if len(f.Levels) > 0 {
		parts = append(parts, "level:"+joinQuoted(f.Levels))
	}
	if f.MinSalaryEUR > 0 {
		parts = append(parts, "min:"+strconv.FormatFloat(f.MinSalaryEUR, 'f', -1, 64))
	}
	if f.MaxSalaryEUR > 0 {
		parts = append(parts, "max:"+strconv.FormatFloat(f.MaxSalaryEUR, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

func joinQuoted(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = quote(v)
	}
	return strings.Join(q, ",")
}

func quote(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}
