// Package sample fetches an example form schema from a server and holds it
// until the user asks to load it into the editor. A default sample is
// embedded for servers that want to publish one.
package sample

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/goliatone/go-formschema/pkg/schema"
)

// Path is where servers publish the sample and where Fetcher looks for it.
const Path = "/data.json"

//go:embed data.json
var defaultSample []byte

// Default returns a copy of the embedded sample schema.
func Default() []byte {
	out := make([]byte, len(defaultSample))
	copy(out, defaultSample)
	return out
}

// DefaultSchema parses the embedded sample.
func DefaultSchema() (schema.FormSchema, error) {
	return schema.Parse(defaultSample)
}

// FetchError describes why a sample could not be retrieved. It is reported
// and discarded; it never affects the loaded schema.
type FetchError struct {
	URL         string
	StatusCode  int
	ContentType string
	Err         error
}

// ErrNotJSON marks a response whose content type is not application/json.
var ErrNotJSON = errors.New("sample: response is not JSON")

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("sample: fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case errors.Is(e.Err, ErrNotJSON):
		return fmt.Sprintf("sample: fetch %s: expected JSON, got %q", e.URL, e.ContentType)
	default:
		return fmt.Sprintf("sample: fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
