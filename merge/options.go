// Package merge implements the msgmerge catalog-merge engine: it
// reconciles a translator-maintained definitions catalog against a
// freshly extracted reference template, preserving existing
// translations while tracking source changes through exact and fuzzy
// matching, header reconciliation and plural-shape repair.
package merge

import (
	"fmt"
	"io"
	"os"

	"github.com/minios-linux/pomerge/format"
	"gopkg.in/yaml.v3"
)

// Options configures one merge run. It replaces gettext's process-wide
// flags with an explicit value threaded through the engine.
type Options struct {
	// FuzzyMatching enables similarity search for reference messages
	// without an exact match.
	FuzzyMatching bool
	// KeepPrevious records the definition msgid as "previous msgid"
	// bookkeeping on fuzzy-merged messages.
	KeepPrevious bool
	// ForMsgfmt produces output for the catalog compiler instead of a
	// translator: fuzzy matching is disabled, comments and file
	// positions are suppressed, and untranslated or fuzzy entries
	// (except the header) are filtered out.
	ForMsgfmt bool
	// MultiDomain matches the reference's default-domain messages
	// against every definition domain in turn.
	MultiDomain bool
	// CatalogName, when set, overrides the header's Language field.
	CatalogName string

	// Quiet suppresses progress dots and the completion note.
	Quiet bool
	// Verbosity enables the statistics line (>0) and per-message
	// merge diagnostics (>1).
	Verbosity int
	// Progress receives dots, diagnostics and statistics.
	// Defaults to os.Stderr; merge never writes anywhere else.
	Progress io.Writer

	// Checker validates translations against format kinds during
	// merging. Defaults to format.DirectiveChecker.
	Checker format.Checker
}

// DefaultOptions returns the options msgmerge-compatible callers start
// from.
func DefaultOptions() Options {
	return Options{
		FuzzyMatching: true,
		Progress:      os.Stderr,
		Checker:       format.DirectiveChecker{},
	}
}

// normalized resolves defaults and option interactions.
func (o Options) normalized() Options {
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	if o.Checker == nil {
		o.Checker = format.DirectiveChecker{}
	}
	if o.ForMsgfmt {
		o.FuzzyMatching = false
	}
	return o
}

// FileConfig is the subset of options readable from a .pomerge.yaml
// project file. Pointer fields distinguish "unset" from a false value
// so the file only overrides what it mentions.
type FileConfig struct {
	FuzzyMatching *bool    `yaml:"fuzzy-matching"`
	KeepPrevious  *bool    `yaml:"keep-previous"`
	ForMsgfmt     *bool    `yaml:"for-msgfmt"`
	MultiDomain   *bool    `yaml:"multi-domain"`
	Lang          string   `yaml:"lang"`
	Quiet         *bool    `yaml:"quiet"`
	Verbosity     *int     `yaml:"verbosity"`
	Compendiums   []string `yaml:"compendiums"`
}

// LoadConfig reads a project config file and applies it over opts,
// returning the updated options and any compendium paths listed.
func LoadConfig(path string, opts Options) (Options, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, nil, fmt.Errorf("%s: %w", path, err)
	}
	if fc.FuzzyMatching != nil {
		opts.FuzzyMatching = *fc.FuzzyMatching
	}
	if fc.KeepPrevious != nil {
		opts.KeepPrevious = *fc.KeepPrevious
	}
	if fc.ForMsgfmt != nil {
		opts.ForMsgfmt = *fc.ForMsgfmt
	}
	if fc.MultiDomain != nil {
		opts.MultiDomain = *fc.MultiDomain
	}
	if fc.Lang != "" {
		opts.CatalogName = fc.Lang
	}
	if fc.Quiet != nil {
		opts.Quiet = *fc.Quiet
	}
	if fc.Verbosity != nil {
		opts.Verbosity = *fc.Verbosity
	}
	return opts, fc.Compendiums, nil
}
