package model

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Field counts per variant, discriminator column included.
const (
	intentMatchingFields  = 10
	userDatapointFields   = 5
	skillInvocationFields = 15
)

// EncodeRows writes bindings as CSV rows, one row per binding, in the
// given order.
func EncodeRows(w io.Writer, bindings []Binding) error {
	cw := csv.NewWriter(w)
	for _, b := range bindings {
		if err := cw.Write(b.Record()); err != nil {
			return goerr.Wrap(err, "failed to write binding row", goerr.V("kind", b.Kind()))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush binding rows")
	}
	return nil
}

// EncodeString serializes bindings to a CSV document. This is the
// corpus format handed to the expansion collaborator.
func EncodeString(bindings []Binding) (string, error) {
	var sb strings.Builder
	if err := EncodeRows(&sb, bindings); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// DecodeRows parses CSV rows back into bindings, preserving row order.
func DecodeRows(r io.Reader) ([]Binding, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated per variant below

	var bindings []Binding
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return bindings, nil
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read binding row")
		}

		b, err := ParseRecord(rec)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
}

// ParseRecord converts one CSV row into its binding variant.
func ParseRecord(rec []string) (Binding, error) {
	if len(rec) == 0 {
		return nil, goerr.Wrap(ErrInvalidRecord, "empty row")
	}

	switch BindingKind(rec[0]) {
	case BindingIntentMatching:
		if len(rec) != intentMatchingFields {
			return nil, goerr.Wrap(ErrInvalidRecord, "wrong field count",
				goerr.V("kind", rec[0]), goerr.V("fields", len(rec)))
		}
		ts, err := parseTimestamp(rec[9])
		if err != nil {
			return nil, err
		}
		return &IntentMatching{
			User:          rec[1],
			Assistant:     rec[2],
			UtteranceID:   ID(rec[3]),
			UtteranceText: rec[4],
			IntentID:      ID(rec[5]),
			IntentType:    rec[6],
			SkillID:       rec[7],
			IntentData:    rec[8],
			Timestamp:     ts,
		}, nil

	case BindingUserDatapoint:
		if len(rec) != userDatapointFields {
			return nil, goerr.Wrap(ErrInvalidRecord, "wrong field count",
				goerr.V("kind", rec[0]), goerr.V("fields", len(rec)))
		}
		return &UserDatapoint{
			User:          rec[1],
			DatapointID:   ID(rec[2]),
			DatapointType: rec[3],
			Value:         rec[4],
		}, nil

	case BindingSkillInvocation:
		if len(rec) != skillInvocationFields {
			return nil, goerr.Wrap(ErrInvalidRecord, "wrong field count",
				goerr.V("kind", rec[0]), goerr.V("fields", len(rec)))
		}
		reqTS, err := parseTimestamp(rec[9])
		if err != nil {
			return nil, err
		}
		respTS, err := parseTimestamp(rec[13])
		if err != nil {
			return nil, err
		}
		return &SkillInvocation{
			SkillID:           rec[1],
			ServiceHost:       rec[2],
			IntentID:          ID(rec[3]),
			UserIP:            rec[4],
			UserDatapointID:   ID(rec[5]),
			RequestID:         ID(rec[6]),
			RequestType:       rec[7],
			RequestPayload:    rec[8],
			RequestTimestamp:  reqTS,
			ResponseID:        ID(rec[10]),
			ResponseType:      rec[11],
			ResponsePayload:   rec[12],
			ResponseTimestamp: respTS,
			ActionID:          ID(rec[14]),
		}, nil

	default:
		return nil, goerr.Wrap(ErrInvalidRecord, "unknown discriminator", goerr.V("kind", rec[0]))
	}
}

func parseTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidRecord, "invalid timestamp", goerr.V("value", s))
	}
	return ts, nil
}
