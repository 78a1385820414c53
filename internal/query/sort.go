package query

import "strings"

type Direction int

const (
	Asc  Direction = 1
	Desc Direction = -1
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// SortRule orders results by one field. A slice of rules is a tie-break
// chain: the first rule is the primary key.
type SortRule struct {
	Field     Field
	Direction Direction
}

// DefaultSort lists newest products first.
var DefaultSort = []SortRule{{Field: FieldCreatedAt, Direction: Desc}}

// ParseSort reads a comma-separated field list such as "-stock,name".
// A leading '-' sorts that field descending. Field names are not checked.
func ParseSort(spec string) []SortRule {
	var rules []SortRule
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		dir := Asc
		if strings.HasPrefix(part, "-") {
			dir = Desc
			part = strings.TrimSpace(part[1:])
		}
		if part == "" {
			continue
		}
		rules = append(rules, SortRule{Field: Field(part), Direction: dir})
	}
	if len(rules) == 0 {
		return append([]SortRule(nil), DefaultSort...)
	}
	return rules
}
