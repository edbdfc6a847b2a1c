package output

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes v as a YAML document with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return errors.Wrap(enc.Close(), "close yaml encoder")
}
