package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides read by the CLI.
const EnvPrefix = "DELLVE_"

// NamedReader is an open document that knows its name, such as *os.File.
// The caller owns it; the store only reads from it.
type NamedReader interface {
	io.Reader
	Name() string
}

// parserFor picks a decoder from the document name suffix. Suffixes are
// matched case-sensitively.
func parserFor(name string) (koanf.Parser, string, error) {
	switch filepath.Ext(name) {
	case ".json":
		return json.Parser(), "json", nil
	case ".yaml", ".yml":
		return yaml.Parser(), "yaml", nil
	default:
		return nil, "unknown", &UnsupportedFormatError{Name: name}
	}
}

// Load decodes doc as JSON (.json) or YAML (.yml, .yaml) and merges its top
// level keys into the store. Keys absent from the document keep their value;
// an empty document changes nothing. Decoder errors are returned unchanged.
func (s *Store) Load(doc NamedReader) error {
	name := doc.Name()
	parser, format, err := parserFor(name)
	if err != nil {
		s.rec.RecordLoad(format, err)
		return err
	}
	data, err := io.ReadAll(doc)
	if err != nil {
		s.rec.RecordLoad(format, err)
		return fmt.Errorf("read %s: %w", name, err)
	}
	return s.loadBytes(name, format, parser, data)
}

// LoadPath reads the file at path and loads it like Load.
func (s *Store) LoadPath(path string) error {
	parser, format, err := parserFor(path)
	if err != nil {
		s.rec.RecordLoad(format, err)
		return err
	}
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		s.rec.RecordLoad(format, err)
		return err
	}
	return s.loadBytes(path, format, parser, data)
}

func (s *Store) loadBytes(name, format string, parser koanf.Parser, data []byte) error {
	parsed, err := parser.Unmarshal(data)
	if err != nil {
		s.rec.RecordLoad(format, err)
		return err
	}
	if err := s.merge(parsed); err != nil {
		s.rec.RecordLoad(format, err)
		return err
	}
	s.rec.RecordLoad(format, nil)
	s.log.Debugw("config loaded", map[string]any{"file": name, "format": format, "keys": len(parsed)})
	return nil
}

// LoadEnv merges environment variables starting with prefix. The remainder of
// the variable name is lower-cased and underscores become dashes, so
// DELLVE_HTTP_PORT sets http-port.
func (s *Store) LoadEnv(prefix string) error {
	p := env.Provider(prefix, ".", func(k string) string {
		return envKey(prefix, k)
	})
	data, err := p.Read()
	if err == nil {
		err = s.merge(data)
	}
	s.rec.RecordLoad("env", err)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		s.log.Debugw("config loaded", map[string]any{"format": "env", "prefix": prefix, "keys": len(data)})
	}
	return nil
}

func envKey(prefix, name string) string {
	k := strings.TrimPrefix(name, prefix)
	return strings.ReplaceAll(strings.ToLower(k), "_", "-")
}
