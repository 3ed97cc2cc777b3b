package style

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tagstorm/tag"
)

// themeFile is the TOML schema for a theme file.
type themeFile struct {
	Name     string                `toml:"name"`
	Fallback styleEntry            `toml:"fallback"`
	Styles   map[string]styleEntry `toml:"styles"`
}

type styleEntry struct {
	Foreground    string `toml:"foreground"`
	Background    string `toml:"background"`
	Bold          bool   `toml:"bold"`
	Italic        bool   `toml:"italic"`
	Underline     bool   `toml:"underline"`
	Strikethrough bool   `toml:"strikethrough"`
}

func (e styleEntry) style() Style {
	return Style{
		Foreground:    e.Foreground,
		Background:    e.Background,
		Bold:          e.Bold,
		Italic:        e.Italic,
		Underline:     e.Underline,
		Strikethrough: e.Strikethrough,
	}
}

// Load reads a theme from a TOML file. A missing file is not an error: it
// returns (nil, nil) so callers can fall back to DefaultTheme.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading theme file %s: %w", path, err)
	}
	return parse(path, data)
}

// Parse parses a theme from TOML data read elsewhere.
func Parse(r io.Reader) (*Theme, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading theme: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (*Theme, error) {
	var file themeFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}

	name := file.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	styles := make(map[tag.Kind]Style, len(file.Styles))
	for kind, entry := range file.Styles {
		styles[tag.Kind(kind)] = entry.style()
	}

	return NewTheme(name, styles, file.Fallback.style()), nil
}

// ParseError represents an error while parsing a theme file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
