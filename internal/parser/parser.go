package parser

import (
	"bytes"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/mcncl/json2raml/internal/errors" // Custom errors package
	"github.com/mcncl/json2raml/internal/models"
)

// Options tweaks how raw text is turned into JSON.
type Options struct {
	// AllowComments strips // and /* */ comments and trailing commas
	// before decoding.
	AllowComments bool
}

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation.
// Object keys keep their source order.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	rootValue, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, wrapDecodeError(err)
	}

	// Anything but EOF after the root value is trailing data.
	if _, err := decoder.Token(); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	// Token skips ',' and ':' without checking where they appear, so the
	// document is validated as a whole as well.
	var discard interface{}
	if err := json.Unmarshal(data, &discard); err != nil {
		return models.IntermediateRepresentation{}, wrapDecodeError(err)
	}

	return models.IntermediateRepresentation{Root: rootValue}, nil
}

// ParseBytes parses raw JSON bytes with the given options.
func ParseBytes(data []byte, opts Options) (models.IntermediateRepresentation, error) {
	if opts.AllowComments {
		data = jsonc.ToJSON(data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	return Parse(bytes.NewReader(data))
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	return ParseBytes([]byte(jsonString), Options{})
}

// Valid reports whether text holds exactly one JSON value.
func Valid(text string, opts Options) bool {
	_, err := ParseBytes([]byte(text), opts)
	return err == nil
}

// ReadFile returns the raw contents of the file at filePath.
func ReadFile(fsys afero.Fs, filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := afero.ReadFile(fsys, filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return "", errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	return string(data), nil
}

func decodeValue(decoder *json.Decoder) (models.JSONValue, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(decoder, tok)
}

// decodeToken builds the value that starts with tok, consuming the rest
// of it from the decoder.
func decodeToken(decoder *json.Decoder, tok interface{}) (models.JSONValue, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
		}
	case string, bool, json.Number:
		return v, nil
	case float64:
		return json.Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %v (%T)", v, v)
	}
}

func decodeObject(decoder *json.Decoder) (models.JSONValue, error) {
	obj := models.NewJSONObject()
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, noEOF(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, found %v", keyTok)
		}
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, noEOF(err)
		}
		obj.Set(key, value)
	}
	if err := expectDelim(decoder, '}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(decoder *json.Decoder) (models.JSONValue, error) {
	arr := models.JSONArray{}
	for decoder.More() {
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, noEOF(err)
		}
		arr = append(arr, value)
	}
	if err := expectDelim(decoder, ']'); err != nil {
		return nil, err
	}
	return arr, nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return noEOF(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, found %v", rune(want), tok)
	}
	return nil
}

// noEOF turns an EOF inside an unfinished value into a syntax failure so
// that truncated documents are not mistaken for empty ones.
func noEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func wrapDecodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}
