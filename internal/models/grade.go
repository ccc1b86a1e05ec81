package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grades lists every valid grade in display order
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}

func (g Grade) IsValid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

func (g Grade) String() string {
	return string(g)
}

// ParseGrade accepts a grade letter in either case.
// An empty string means "not yet graded" and yields a nil grade.
func ParseGrade(s string) (*Grade, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	g := Grade(strings.ToUpper(s))
	if !g.IsValid() {
		return nil, fmt.Errorf("invalid grade %q", s)
	}
	return &g, nil
}

func (g *Grade) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseGrade(s)
	if err != nil {
		return err
	}
	if parsed == nil {
		return fmt.Errorf("grade cannot be empty")
	}
	*g = *parsed
	return nil
}
