package toon

import (
	"bytes"
	"encoding/json"

	toonerrors "github.com/KimNorgaard/go-toon/errors"
	"github.com/KimNorgaard/go-toon/internal/parser"
)

// Format names a text format known to the converter.
type Format string

const (
	FormatJSON    Format = "json"
	FormatTOON    Format = "toon"
	FormatUnknown Format = "unknown"
)

// DetectFormat guesses the format of data:
//
//   - text delimited by {} or [] that is valid JSON is JSON;
//   - text carrying an array header, or a fragment resembling one, is TOON;
//   - text that parses as TOON into anything but a lone string is TOON;
//   - any other valid JSON is JSON.
//
// Everything else is FormatUnknown.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if (first == '{' && last == '}') || (first == '[' && last == ']') {
		if json.Valid(trimmed) {
			return FormatJSON
		}
	}
	if parser.IsHeaderLike(string(trimmed)) {
		return FormatTOON
	}
	if v, err := Parse(data); err == nil && v.kind != KindString {
		return FormatTOON
	}
	if json.Valid(trimmed) {
		return FormatJSON
	}
	return FormatUnknown
}

// Validation is the outcome of Validate.
type Validation struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Format Format `json:"format,omitempty"`
}

// Validate reports whether data is a well-formed TOON document.
func Validate(data []byte, opts ...Option) Validation {
	if len(bytes.TrimSpace(data)) == 0 {
		return Validation{Error: toonerrors.ErrEmptyInput.Error()}
	}
	if _, err := Parse(data, opts...); err != nil {
		return Validation{Error: err.Error()}
	}
	return Validation{Valid: true, Format: FormatTOON}
}

// Conversion is the outcome of AutoConvert.
type Conversion struct {
	Output        string `json:"output"`
	ConvertedFrom Format `json:"convertedFrom"`
	ConvertedTo   Format `json:"convertedTo"`
}

// AutoConvert detects the format of data and converts it to the other
// one: TOON becomes JSON indented by two spaces, JSON becomes TOON. The
// options apply to the TOON side.
func AutoConvert(data []byte, opts ...Option) (Conversion, error) {
	switch DetectFormat(data) {
	case FormatTOON:
		v, err := Parse(data, opts...)
		if err != nil {
			return Conversion{}, err
		}
		out, err := ToJSON(v, "  ")
		if err != nil {
			return Conversion{}, err
		}
		return Conversion{Output: string(out), ConvertedFrom: FormatTOON, ConvertedTo: FormatJSON}, nil
	case FormatJSON:
		v, err := FromJSON(data)
		if err != nil {
			return Conversion{}, err
		}
		out, err := Stringify(v, opts...)
		if err != nil {
			return Conversion{}, err
		}
		return Conversion{Output: string(out), ConvertedFrom: FormatJSON, ConvertedTo: FormatTOON}, nil
	}
	return Conversion{}, toonerrors.Newf(toonerrors.ErrFormatUndetected, "input is neither JSON nor TOON")
}
