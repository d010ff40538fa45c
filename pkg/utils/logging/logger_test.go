package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/provlog/pkg/utils/logging"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", buf)
	gt.V(t, logger).NotNil()

	logger.Info("test message")
	gt.S(t, buf.String()).Contains("test message")

	logger.Debug("hidden at info level")
	gt.S(t, buf.String()).NotContains("hidden at info level")
}

func TestContextCarriage(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", buf)

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Debug("from context")
	gt.S(t, buf.String()).Contains("from context")

	// Without a logger on the context, From falls back to the default
	gt.V(t, logging.From(context.Background())).NotNil()
}
