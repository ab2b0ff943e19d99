// Package loader reads schema documents from disk, an fs.FS or over HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// maxDocumentBytes caps every read. Form schemas are small; anything larger is
// almost certainly the wrong file.
const maxDocumentBytes = 4 << 20

var errBufferSource = errors.New("loader: buffer sources carry their own text")

// Loader implements schema.Loader. URL sources are refused unless an HTTP
// client or the HTTP fallback was configured.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		client = &clone
	case options.AllowHTTPFallback:
		client = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      client,
		allowHTTP: client != nil,
		timeout:   timeout,
	}
}

// Load reads src and wraps the bytes in a Document. Empty documents are an
// error.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	case schema.SourceKindBuffer:
		err = errBufferSource
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: %s %s: %w", src.Kind(), src.Location(), err)
	}
	if len(data) > maxDocumentBytes {
		return schema.Document{}, fmt.Errorf("loader: %s exceeds %d bytes", src.Location(), maxDocumentBytes)
	}

	logger.Debug(ctx, "schema loaded", "kind", src.Kind(), "location", src.Location(), "bytes", len(data))
	return schema.NewDocument(src, data)
}
