package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/chartgeom/pkg/chart"
	"github.com/matzehuels/chartgeom/pkg/render/theme"
)

// Load reads a payload from path. A path of "-" reads from stdin. The
// format is inferred from the extension unless given explicitly; stdin
// defaults to JSON. The payload is decoded but not validated.
func Load(path, format string, stdin io.Reader) (chart.Payload, error) {
	if path == "-" {
		f, err := chart.ParseFormat(format)
		if err != nil {
			return chart.Payload{}, err
		}
		if stdin == nil {
			stdin = os.Stdin
		}
		return chart.Decode(stdin, f)
	}
	if format == "" {
		return chart.DecodeFile(path)
	}

	f, err := chart.ParseFormat(format)
	if err != nil {
		return chart.Payload{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return chart.Payload{}, err
	}
	return chart.Unmarshal(data, f, path)
}

// LoadTheme reads a TOML theme file. An empty path returns nil, which
// selects the default theme.
func LoadTheme(path string) (*theme.Theme, error) {
	if path == "" {
		return nil, nil
	}
	th, err := theme.Load(path)
	if err != nil {
		return nil, err
	}
	return &th, nil
}
