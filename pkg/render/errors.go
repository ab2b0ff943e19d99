package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// FieldErrors converts a validation report into the per-field map renderers
// consume.
func FieldErrors(report validation.Report) map[string][]string {
	return report.Errors()
}

// MapErrorPayload routes externally produced errors (JSON pointers such as
// "/body/email", dotted paths, "non_field_errors") onto the form's field ids.
// Paths that do not name a rendered field become form-level errors so no
// message is lost.
func MapErrorPayload(form directive.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	ids := make(map[string]struct{}, len(form.Controls))
	for _, control := range form.Rendered() {
		ids[control.FieldID()] = struct{}{}
	}

	for _, rawPath := range sortedKeys(payload) {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		id, ok := mapErrorPath(rawPath, ids)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[id] = normalizeMessages(append(mapping.Fields[id], messages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// Field ids are flat, so the first segment left after dropping wrappers and
// array indexes decides the target.
func mapErrorPath(raw string, ids map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	for _, segment := range dropWrapperSegments(parsePathSegments(raw)) {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if _, ok := ids[segment]; ok {
			return segment, true
		}
		return "", false
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data", "values", "fields":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

func sortedKeys(payload map[string][]string) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
