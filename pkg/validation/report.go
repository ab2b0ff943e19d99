package validation

// FieldResult pairs a field id with its validation outcome.
type FieldResult struct {
	FieldID string `json:"fieldId"`
	Result
}

// Report collects the outcome for every validated field in schema order.
type Report struct {
	Results []FieldResult `json:"results"`
}

// Valid reports whether every field passed.
func (r Report) Valid() bool {
	for _, result := range r.Results {
		if !result.Valid {
			return false
		}
	}
	return true
}

// Failures returns the failing results in schema order.
func (r Report) Failures() []FieldResult {
	var out []FieldResult
	for _, result := range r.Results {
		if !result.Valid {
			out = append(out, result)
		}
	}
	return out
}

// Errors returns failure messages keyed by field id, the shape renderers use
// to mark invalid controls.
func (r Report) Errors() map[string][]string {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	out := make(map[string][]string, len(failures))
	for _, failure := range failures {
		out[failure.FieldID] = append(out[failure.FieldID], failure.Message)
	}
	return out
}

// Result returns the outcome recorded for id.
func (r Report) Result(id string) (Result, bool) {
	for _, result := range r.Results {
		if result.FieldID == id {
			return result.Result, true
		}
	}
	return Result{}, false
}
