package script

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".yaml", ".yml", ".cue"}

// Load reads, decodes and validates the script at path. The format is
// chosen by file extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeRead, Message: fmt.Sprintf("failed to read script file: %v", err), Err: err}
	}

	var s *Script
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	case ".cue":
		s, err = ParseCUE(path, data)
	default:
		return nil, &Error{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported script extension %q (want .yaml, .yml or .cue)", filepath.Ext(path))}
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IsScriptFile reports whether path has an extension Load accepts.
func IsScriptFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseYAML decodes and validates a YAML script. Unknown fields are rejected.
func ParseYAML(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Code: ErrCodeParse, Message: "script is empty"}
		}
		return nil, &Error{Code: ErrCodeParse, Message: fmt.Sprintf("failed to parse YAML: %v", err), Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseCUE compiles a CUE script, unifies it with the #Script schema and
// decodes the concrete result. filename is used in error positions.
func ParseCUE(filename string, data []byte) (*Script, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("compiling embedded schema: %v", err), Err: err}
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: fmt.Sprintf("failed to parse CUE: %v", err), Err: err}
	}

	unified := schema.LookupPath(cue.ParsePath("#Script")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("script does not match schema: %v", err), Err: err}
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return nil, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("exporting CUE value: %v", err), Err: err}
	}

	var s Script
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: fmt.Sprintf("decoding CUE export: %v", err), Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
