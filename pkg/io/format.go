package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// Format is a definition file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (must be toml or json)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeUnsupported, "cannot infer format of %s (use .toml or .json)", path)
	}
	return ParseFormat(ext)
}

// Read decodes a definition from r. Unknown keys are rejected.
func Read(r io.Reader, f Format) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data, f)
}

// Decode decodes a definition from data.
func Decode(data []byte, f Format) (*Definition, error) {
	switch f {
	case FormatTOML:
		return decodeTOML(data)
	case FormatJSON:
		return decodeJSON(data)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

func decodeTOML(data []byte) (*Definition, error) {
	var d Definition
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &d, nil
}

func decodeJSON(data []byte) (*Definition, error) {
	var d Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return &d, nil
}

// ImportFile reads a definition from path, choosing the format by extension.
func ImportFile(path string) (*Definition, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	d, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes a definition as TOML.
func WriteTOML(w io.Writer, d *Definition) error {
	if err := toml.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write encodes a definition in format f.
func Write(w io.Writer, d *Definition, f Format) error {
	switch f {
	case FormatTOML:
		return WriteTOML(w, d)
	case FormatJSON:
		return WriteJSON(w, d)
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// ExportFile writes a definition to path, choosing the format by extension.
func ExportFile(d *Definition, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return Write(file, d, f)
}
