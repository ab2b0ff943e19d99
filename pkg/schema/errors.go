package schema

import (
	"fmt"
	"strings"
)

// IssueKind classifies a parse finding.
type IssueKind string

const (
	// IssueDecode marks text that is not well-formed JSON.
	IssueDecode IssueKind = "decode"
	// IssueStructural marks JSON that does not match the form schema shape.
	IssueStructural IssueKind = "structural"
	// IssueWarning marks a non-fatal finding such as an unsupported field kind.
	IssueWarning IssueKind = "warning"
)

// Issue is a single finding with an optional location in the document, using
// the `fields[2].options[0].value` path notation.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Path    string    `json:"path,omitempty"`
	Message string    `json:"message"`
}

// String renders the issue as a human-readable message.
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ErrorList is the ordered set of issues that prevented a document from
// becoming a FormSchema. It is never truncated to the first problem.
type ErrorList []Issue

// Error implements error.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "schema: no errors"
	case 1:
		return "schema: " + l[0].String()
	default:
		return fmt.Sprintf("schema: %d errors: %s", len(l), strings.Join(l.Messages(), "; "))
	}
}

// Messages returns the issues as display strings, in order.
func (l ErrorList) Messages() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, issue := range l {
		out = append(out, issue.String())
	}
	return out
}

// Decode reports whether the list describes a JSON syntax failure.
func (l ErrorList) Decode() bool {
	return len(l) == 1 && l[0].Kind == IssueDecode
}

type collector struct {
	errors   ErrorList
	warnings []Issue
}

func (c *collector) structural(path, format string, args ...any) {
	c.errors = append(c.errors, Issue{
		Kind:    IssueStructural,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *collector) warn(path, format string, args ...any) {
	c.warnings = append(c.warnings, Issue{
		Kind:    IssueWarning,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}
