package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	if files == nil {
		return nil, errors.New("no fs configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := files.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
}
