package adapter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/interfaces"
	"github.com/m-mizutani/provlog/pkg/model"
)

// provMan implements Narrator by shelling out to the provmanagement
// "explain" command. The expanded document is piped on stdin; the
// narrative mapping is read back as JSON from a named output file.
type provMan struct {
	path            string
	templateLibrary string
	timeout         time.Duration
}

// NewProvMan creates a Narrator backed by the provmanagement
// executable at path, rendering with the given template library.
func NewProvMan(path, templateLibrary string, timeout time.Duration) interfaces.Narrator {
	return &provMan{
		path:            path,
		templateLibrary: templateLibrary,
		timeout:         timeout,
	}
}

func (x *provMan) Narrate(ctx context.Context, document string, plans []string, profile string) (map[string]string, error) {
	batch := make([]string, 0, len(plans))
	for _, plan := range plans {
		batch = append(batch, "["+plan+"]")
	}

	tmpDir, err := os.MkdirTemp("", "provlog-narrate-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir)

	graphPath := filepath.Join(tmpDir, "narrative.provn")
	textPath := filepath.Join(tmpDir, "narrative.json")
	args := []string{
		"explain",
		"--infile", "-",
		"--outfile", graphPath,
		"--text", textPath,
		"--language", x.templateLibrary,
		"--batch-templates=" + strings.Join(batch, ","),
		"-X", "0", // plain text, no HTML mark-ups
	}
	if profile != "" {
		args = append(args, "--profile="+profile)
	}

	if _, err := runTool(ctx, x.timeout, x.path, args, document); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(textPath)
	if err != nil {
		return nil, goerr.Wrap(model.ErrToolExecution, "tool produced no narrative file",
			goerr.V("path", textPath), goerr.V("cause", err))
	}

	var narratives map[string]string
	if err := json.Unmarshal(raw, &narratives); err != nil {
		return nil, goerr.Wrap(model.ErrToolExecution, "failed to parse narrative file",
			goerr.V("path", textPath), goerr.V("cause", err))
	}
	return narratives, nil
}
