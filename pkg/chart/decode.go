package chart

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartgeom/pkg/errors"
)

// Format is a payload encoding.
type Format string

// Payload formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath infers the payload format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer payload format from %q", path)
}

// ParseFormat parses a format name. An empty name selects JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTOML, FormatHCL:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown payload format %q (use json, yaml, toml or hcl)", s)
}

// Decode reads a payload in the given format. It does not validate.
func Decode(r io.Reader, format Format) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, err
	}
	return Unmarshal(data, format, "payload."+string(format))
}

// Unmarshal decodes a payload held in memory. name is used in HCL
// diagnostics.
func Unmarshal(data []byte, format Format, name string) (Payload, error) {
	var p Payload
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&p)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &p)
		if err == nil {
			if extra := md.Undecoded(); len(extra) > 0 {
				return Payload{}, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", extra[0].String())
			}
		}
	case FormatHCL:
		return decodeHCL(data, name)
	default:
		return Payload{}, errors.New(errors.ErrCodeInvalidFormat, "unknown payload format %q", format)
	}
	if err != nil {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s payload", format)
	}
	return p, nil
}

// DecodeFile reads a payload file, inferring the format from its extension.
func DecodeFile(path string) (Payload, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Payload{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Payload{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload %s", path)
		}
		return Payload{}, err
	}
	return Unmarshal(data, format, path)
}
