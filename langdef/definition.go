package langdef

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Definition is a decoded language description.
type Definition struct {
	Tokenizers []TokenizerDef `yaml:"tokenizers" toml:"tokenizers"`
	Rules      []RuleDef      `yaml:"rules" toml:"rules"`
}

// TokenizerDef describes a lexer.Tokenizer.
type TokenizerDef struct {
	Name      string        `yaml:"name" toml:"name"`
	SkipSpace *bool         `yaml:"skip-space" toml:"skip-space"`
	Terminals []TerminalDef `yaml:"terminals" toml:"terminals"`
	Comments  []CommentDef  `yaml:"comments" toml:"comments"`
	Indent    *IndentDef    `yaml:"indent" toml:"indent"`
}

// TerminalDef describes a terminal, Action is a key in Actions or empty.
type TerminalDef struct {
	Name    string `yaml:"name" toml:"name"`
	Pattern string `yaml:"pattern" toml:"pattern"`
	Action  string `yaml:"action" toml:"action"`
}

// CommentDef describes a comment style.
type CommentDef struct {
	Pattern string   `yaml:"pattern" toml:"pattern"`
	Flags   []string `yaml:"flags" toml:"flags"`
}

// IndentDef enables indent tokens.
type IndentDef struct {
	Indent  string `yaml:"indent" toml:"indent"`
	Outdent string `yaml:"outdent" toml:"outdent"`
	TabSize int    `yaml:"tab-size" toml:"tab-size"`
	Inline  bool   `yaml:"inline" toml:"inline"`
}

// RuleDef describes a rule. Empty Tokenizer means the tokenizer of calling rule.
type RuleDef struct {
	Name         string           `yaml:"name" toml:"name"`
	Tokenizer    string           `yaml:"tokenizer" toml:"tokenizer"`
	Alternatives []AlternativeDef `yaml:"alternatives" toml:"alternatives"`
}

// AlternativeDef describes an alternative: space-separated element specifiers and an action name.
type AlternativeDef struct {
	Elements string `yaml:"elements" toml:"elements"`
	Action   string `yaml:"action" toml:"action"`
}

// ParseYAML decodes YAML description. Unknown fields are reported as errors.
// name is used in error messages.
func ParseYAML(name string, content []byte) (*Definition, error) {
	d := &Definition{}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if e := dec.Decode(d); e != nil {
		return nil, decodeError(name, e)
	}
	return d, nil
}

// ParseTOML decodes TOML description. Unknown fields are reported as errors.
// name is used in error messages.
func ParseTOML(name string, content []byte) (*Definition, error) {
	d := &Definition{}
	md, e := toml.Decode(string(content), d)
	if e != nil {
		return nil, decodeError(name, e)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		fields := make([]string, len(undecoded))
		for i, key := range undecoded {
			fields[i] = key.String()
		}
		sort.Strings(fields)
		return nil, unknownFieldError(name, fields)
	}
	return d, nil
}

// ParseBytes decodes description choosing format by name extension:
// .yaml and .yml for YAML, .toml for TOML.
func ParseBytes(name string, content []byte) (*Definition, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(name, content)
	case ".toml":
		return ParseTOML(name, content)
	default:
		return nil, unknownFormatError(name)
	}
}

// LoadFile reads and decodes description file.
func LoadFile(path string) (*Definition, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, errors.Wrapf(e, "cannot read language definition %s", path)
	}

	return ParseBytes(path, content)
}
