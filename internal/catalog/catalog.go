// Package catalog holds the static alias tables: which executable an alias
// launches, which window title identifies it, and how long it takes to start.
// A Catalog is immutable once built and safe for concurrent use.
package catalog

import (
	"os"
	"regexp"
	"sort"
	"strings"
)

// Entry describes one application alias.
type Entry struct {
	Alias string `yaml:"alias"                  json:"alias"`
	// Path is an executable path or name; ${VAR} and %VAR% are expanded
	// against the environment when the catalog is built. Empty means the
	// alias has no launch mapping.
	Path string `yaml:"path,omitempty"         json:"path,omitempty"`
	// WindowTitle is a substring expected in the app's window title.
	WindowTitle string `yaml:"window_title,omitempty" json:"window_title,omitempty"`
	// Heavy marks slow starters (office suites, IDEs) that get longer waits.
	Heavy bool `yaml:"heavy,omitempty"        json:"heavy,omitempty"`
}

// Source records how Resolve produced its command.
type Source string

const (
	SourceTable Source = "table" // mapped path exists on disk
	SourceStale Source = "stale" // mapped path missing, raw input used
	SourceRaw   Source = "raw"   // alias unmapped, raw input used
)

// Resolution is the output of Resolve.
type Resolution struct {
	Input   string `yaml:"input"   json:"input"`
	Alias   string `yaml:"alias"   json:"alias"`
	Command string `yaml:"command" json:"command"`
	Source  Source `yaml:"source"  json:"source"`
}

// StatFunc reports file info for a path; os.Stat by default.
type StatFunc func(name string) (os.FileInfo, error)

// LookupFunc resolves an environment variable; os.LookupEnv by default.
type LookupFunc func(key string) (string, bool)

// Option configures a Catalog at construction.
type Option func(*Catalog)

// WithStat overrides the filesystem check used by Resolve.
func WithStat(stat StatFunc) Option {
	return func(c *Catalog) { c.stat = stat }
}

// WithLookup overrides the environment used to expand path templates.
func WithLookup(lookup LookupFunc) Option {
	return func(c *Catalog) { c.lookup = lookup }
}

// Catalog is the immutable alias configuration.
type Catalog struct {
	paths   map[string]string
	titles  map[string]string
	heavy   map[string]bool
	browser string
	editor  string
	stat    StatFunc
	lookup  LookupFunc
}

// New builds a Catalog. Aliases are lowercased; later entries override
// earlier ones with the same alias.
func New(entries []Entry, browserAlias, editorAlias string, opts ...Option) *Catalog {
	c := &Catalog{
		paths:   make(map[string]string),
		titles:  make(map[string]string),
		heavy:   make(map[string]bool),
		browser: strings.ToLower(browserAlias),
		editor:  strings.ToLower(editorAlias),
		stat:    os.Stat,
		lookup:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, e := range entries {
		alias := strings.ToLower(strings.TrimSpace(e.Alias))
		if alias == "" {
			continue
		}
		delete(c.paths, alias)
		delete(c.titles, alias)
		delete(c.heavy, alias)
		if e.Path != "" {
			c.paths[alias] = ExpandPath(e.Path, c.lookup)
		}
		if e.WindowTitle != "" {
			c.titles[alias] = e.WindowTitle
		}
		if e.Heavy {
			c.heavy[alias] = true
		}
	}
	return c
}

// Resolve maps raw to the command to execute. It never fails: an unknown
// alias, or one whose mapped path is missing on disk, resolves to raw
// unchanged and surfaces later as a launch failure.
func (c *Catalog) Resolve(raw string) Resolution {
	alias := strings.ToLower(strings.TrimSpace(raw))
	res := Resolution{Input: raw, Alias: alias, Command: raw, Source: SourceRaw}

	path, ok := c.paths[alias]
	if !ok {
		return res
	}
	if _, err := c.stat(path); err != nil {
		res.Source = SourceStale
		return res
	}
	res.Command = path
	res.Source = SourceTable
	return res
}

// Path returns the expanded path mapped to alias.
func (c *Catalog) Path(alias string) (string, bool) {
	p, ok := c.paths[strings.ToLower(alias)]
	return p, ok
}

// WindowTitle returns the title substring for alias.
func (c *Catalog) WindowTitle(alias string) (string, bool) {
	t, ok := c.titles[strings.ToLower(alias)]
	return t, ok
}

func (c *Catalog) IsHeavy(alias string) bool {
	return c.heavy[strings.ToLower(alias)]
}

func (c *Catalog) IsBrowser(alias string) bool {
	return c.browser != "" && strings.ToLower(alias) == c.browser
}

func (c *Catalog) IsEditor(alias string) bool {
	return c.editor != "" && strings.ToLower(alias) == c.editor
}

func (c *Catalog) BrowserAlias() string { return c.browser }

func (c *Catalog) EditorAlias() string { return c.editor }

// Entries lists every alias known to either table, sorted, with expanded paths.
func (c *Catalog) Entries() []Entry {
	seen := make(map[string]bool)
	var aliases []string
	for a := range c.paths {
		if !seen[a] {
			seen[a] = true
			aliases = append(aliases, a)
		}
	}
	for a := range c.titles {
		if !seen[a] {
			seen[a] = true
			aliases = append(aliases, a)
		}
	}
	sort.Strings(aliases)

	entries := make([]Entry, 0, len(aliases))
	for _, a := range aliases {
		entries = append(entries, Entry{
			Alias:       a,
			Path:        c.paths[a],
			WindowTitle: c.titles[a],
			Heavy:       c.heavy[a],
		})
	}
	return entries
}

var percentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

// ExpandPath expands ${VAR}, $VAR and Windows-style %VAR% references.
// Unset variables expand to the empty string, like os.ExpandEnv.
func ExpandPath(tmpl string, lookup LookupFunc) string {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	out := percentVar.ReplaceAllStringFunc(tmpl, func(m string) string {
		return get(m[1 : len(m)-1])
	})
	return os.Expand(out, get)
}
