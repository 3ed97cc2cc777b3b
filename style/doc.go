// Package style maps tag kinds to visual styles.
//
// A Theme is an immutable lookup table from tag.Kind to Style. Lookup walks
// the kind hierarchy: a request for "syntax.keyword.control" falls back to
// "syntax.keyword", then "syntax", then the theme's fallback style. Themes
// load from TOML files, and a Watcher can reload a theme file on change so
// long-running consumers pick up edits without restarting.
package style
