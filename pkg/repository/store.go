package repository

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/interfaces"
	"github.com/m-mizutani/provlog/pkg/model"
)

const recordExt = ".csv"

// fileStore implements Store with append-only CSV files partitioned
// as <root>/<year>/<month>/<day>/<session_id>.csv. The date is
// derived from the session start time so concurrent or historical
// sessions never share a file.
type fileStore struct {
	root string
}

// NewFileStore creates a partitioned file store rooted at the given
// directory. The directory does not need to exist yet.
func NewFileStore(root string) interfaces.Store {
	return &fileStore{root: root}
}

func (s *fileStore) Write(ctx context.Context, session *model.Session, bindings []model.Binding) error {
	if session == nil {
		return goerr.Wrap(model.ErrStorage, "no session to partition by")
	}

	day := session.StartedAt.UTC()
	dir := filepath.Join(s.root, day.Format("2006"), day.Format("01"), day.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(model.ErrStorage, "failed to create partition directory",
			goerr.V("dir", dir), goerr.V("cause", err))
	}

	path := filepath.Join(dir, string(session.ID)+recordExt)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return goerr.Wrap(model.ErrStorage, "failed to open record file",
			goerr.V("path", path), goerr.V("cause", err))
	}

	if err := model.EncodeRows(f, bindings); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to append records", goerr.V("path", path))
	}

	if err := f.Close(); err != nil {
		return goerr.Wrap(model.ErrStorage, "failed to close record file",
			goerr.V("path", path), goerr.V("cause", err))
	}
	return nil
}

func (s *fileStore) ReadAll(ctx context.Context) ([]model.Binding, error) {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return nil, nil
	}

	var bindings []model.Binding
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return goerr.Wrap(model.ErrStorage, "failed to walk storage root",
				goerr.V("path", path), goerr.V("cause", err))
		}
		if d.IsDir() || !strings.HasSuffix(path, recordExt) {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return goerr.Wrap(model.ErrStorage, "failed to open record file",
				goerr.V("path", path), goerr.V("cause", err))
		}
		defer f.Close()

		rows, err := model.DecodeRows(f)
		if err != nil {
			return goerr.Wrap(err, "failed to parse record file", goerr.V("path", path))
		}
		bindings = append(bindings, rows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bindings, nil
}
