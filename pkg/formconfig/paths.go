package formconfig

import "fmt"

// StepPath returns the dot/bracket path locating a step by index.
func StepPath(stepIdx int) string {
	return fmt.Sprintf("steps[%d]", stepIdx)
}

// FieldPath returns the dot/bracket path locating a field by step and field
// index, e.g. "steps[0].fields[2]".
func FieldPath(stepIdx, fieldIdx int) string {
	return fmt.Sprintf("steps[%d].fields[%d]", stepIdx, fieldIdx)
}

// FieldChildPath appends a child property segment to a field path, e.g.
// "steps[0].fields[2].validation".
func FieldChildPath(stepIdx, fieldIdx int, child string) string {
	return FieldPath(stepIdx, fieldIdx) + "." + child
}
