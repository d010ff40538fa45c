package adapter

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/interfaces"
	"github.com/m-mizutani/provlog/pkg/model"
)

// DefaultInitializer is the log2prov template initializer class the
// expansion tool applies to the binding corpus.
const DefaultInitializer = "org.openprovenance.sais.Init"

// provConvert implements Expander by shelling out to provconvert. The
// corpus is piped on stdin and the expanded document is read back
// from a file in a temporary directory.
type provConvert struct {
	path        string
	initializer string
	timeout     time.Duration
}

// NewProvConvert creates an Expander backed by the provconvert
// executable at path.
func NewProvConvert(path, initializer string, timeout time.Duration) interfaces.Expander {
	if initializer == "" {
		initializer = DefaultInitializer
	}
	return &provConvert{
		path:        path,
		initializer: initializer,
		timeout:     timeout,
	}
}

func (x *provConvert) Expand(ctx context.Context, corpus string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "provlog-expand-*")
	if err != nil {
		return "", goerr.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "expansion.provn")
	args := []string{
		"--infile", "-",
		"--log2prov", x.initializer,
		"--outfile", outPath,
	}

	if _, err := runTool(ctx, x.timeout, x.path, args, corpus); err != nil {
		return "", err
	}

	doc, err := os.ReadFile(outPath)
	if err != nil {
		return "", goerr.Wrap(model.ErrToolExecution, "tool produced no output document",
			goerr.V("path", outPath), goerr.V("cause", err))
	}
	return string(doc), nil
}
