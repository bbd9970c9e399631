// Package snapshot encodes user data to, and decodes it from, the versioned JSON document
// handed over to the persistence layer.
//
// Encoding always produces the current version. Decoding accepts every version ever written
// and upgrades it step by step.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// CurrentVersion is the version written by [Codec.Encode].
const CurrentVersion = 3

// ErrUnknownVersion is reported for documents written by a newer (or broken) program.
var ErrUnknownVersion = errors.New("unknown snapshot version")

// DecodeError reports a snapshot that cannot be loaded.
type DecodeError struct {
	Version int
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Version == 0 {
		return fmt.Sprintf("decoding snapshot: %v", e.Err)
	}

	return fmt.Sprintf("decoding snapshot version %d: %v", e.Version, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Codec converts between [userdata.UserData] and snapshot documents.
type Codec struct {
	options

	l *slog.Logger
}

// New [Codec].
func New(opts ...Option) *Codec {
	return &Codec{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "snapshot")),
	}
}

// Encode produces a document of the current version.
func (c *Codec) Encode(u *userdata.UserData) ([]byte, error) {
	data, err := fromParts(u.Parts())
	if err != nil {
		return nil, err
	}

	raw, err := c.marshal(data)
	if err != nil {
		return nil, err
	}

	return c.marshal(document{Version: CurrentVersion, Data: raw})
}

func (c *Codec) marshal(v any) ([]byte, error) {
	if c.indent {
		return json.MarshalIndent(v, "", "  ")
	}

	return json.Marshal(v)
}

// Decode loads a document of any known version. Failures are reported as [*DecodeError].
func (c *Codec) Decode(blob []byte) (*userdata.UserData, error) {
	var doc document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, &DecodeError{Err: err}
	}

	data, err := upgrade(doc)
	if err != nil {
		return nil, &DecodeError{Version: doc.Version, Err: err}
	}

	parts, err := data.toParts()
	if err != nil {
		return nil, &DecodeError{Version: doc.Version, Err: err}
	}

	u, err := userdata.FromParts(parts, c.userdataOptions...)
	if err != nil {
		return nil, &DecodeError{Version: doc.Version, Err: err}
	}

	c.l.Info("snapshot decoded",
		slog.Int("version", doc.Version),
		slog.Int("trackables", u.Trackables().Len()),
		slog.Int("chartables", u.Chartables().Len()),
		slog.Int("line_charts", u.LineCharts().Len()),
	)

	return u, nil
}

// DecodeFile loads a snapshot from a file, or from standard input when file is "-".
func (c *Codec) DecodeFile(file string) (*userdata.UserData, error) {
	var reader io.ReadCloser = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("input file %q: %w", file, err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	blob, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", file, err)
	}

	return c.Decode(blob)
}

func upgrade(doc document) (dataV3, error) {
	switch doc.Version {
	case 1:
		var d dataV1
		if err := json.Unmarshal(doc.Data, &d); err != nil {
			return dataV3{}, err
		}

		return d.upgrade().upgrade(), nil
	case 2:
		var d dataV2
		if err := json.Unmarshal(doc.Data, &d); err != nil {
			return dataV3{}, err
		}

		return d.upgrade(), nil
	case CurrentVersion:
		var d dataV3
		if err := json.Unmarshal(doc.Data, &d); err != nil {
			return dataV3{}, err
		}

		return d, nil
	default:
		return dataV3{}, fmt.Errorf("%w: %d", ErrUnknownVersion, doc.Version)
	}
}
