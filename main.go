// pomerge — merge a translated message catalog with an up-to-date
// reference template, preserving translations and tracking source
// changes (the msgmerge workflow).
package main

import (
	"fmt"
	"os"

	"github.com/minios-linux/pomerge/i18n"
	"github.com/minios-linux/pomerge/langmeta"
	"github.com/minios-linux/pomerge/merge"
	"github.com/minios-linux/pomerge/pofile"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
)

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Flags
// ---------------------------------------------------------------------------

var (
	outputFile      string
	updateInPlace   bool
	compendiumFiles []string
	noFuzzyMatching bool
	keepPrevious    bool
	forMsgfmt       bool
	multiDomain     bool
	lang            string
	quiet           bool
	verbosity       int
	configFile      string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pomerge DEF.po REF.pot",
		Short: "Merge a message catalog with a reference template",
		Long: `pomerge — merge a translated PO catalog with a freshly extracted template.

DEF.po holds the existing translations, REF.pot the up-to-date source
references. The merged output keeps every translation whose msgid still
exists, fuzzy-matches slightly changed msgids, adds new msgids
untranslated, and preserves dropped msgids as obsolete entries.

Compendium files (--compendium) provide additional read-only
translation memory consulted as a fallback.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMerge,
	}

	root.Flags().StringVarP(&outputFile, "output-file", "o", "-", "Write output to this file ('-' is stdout)")
	root.Flags().BoolVarP(&updateInPlace, "update", "U", false, "Update DEF.po in place instead of writing output")
	root.Flags().StringArrayVarP(&compendiumFiles, "compendium", "C", nil, "Additional library of translations (repeatable)")
	root.Flags().BoolVarP(&noFuzzyMatching, "no-fuzzy-matching", "N", false, "Do not use fuzzy matching")
	root.Flags().BoolVar(&keepPrevious, "previous", false, "Keep the previous msgids of translated messages")
	root.Flags().BoolVar(&forMsgfmt, "for-msgfmt", false, "Produce output for msgfmt, not for a translator")
	root.Flags().BoolVar(&multiDomain, "multi-domain", false, "Apply REF.pot to each domain of DEF.po")
	root.Flags().StringVar(&lang, "lang", "", "Set the Language field of the header")
	root.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress indicators")
	root.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity level")
	root.Flags().StringVar(&configFile, "config", "", "Project config file (default: .pomerge.yaml if present)")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pomerge %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	opts := merge.DefaultOptions()

	// Project config applies first, explicit flags win.
	compendiums := compendiumFiles
	path := configFile
	if path == "" {
		if _, err := os.Stat(".pomerge.yaml"); err == nil {
			path = ".pomerge.yaml"
		}
	}
	if path != "" {
		var extra []string
		var err error
		opts, extra, err = merge.LoadConfig(path, opts)
		if err != nil {
			return err
		}
		compendiums = append(extra, compendiums...)
	}

	if noFuzzyMatching {
		opts.FuzzyMatching = false
	}
	if keepPrevious {
		opts.KeepPrevious = true
	}
	if forMsgfmt {
		opts.ForMsgfmt = true
	}
	if multiDomain {
		opts.MultiDomain = true
	}
	if lang != "" {
		opts.CatalogName = langmeta.Canonical(lang)
	}
	if quiet {
		opts.Quiet = true
	}
	if verbosity > 0 {
		opts.Verbosity = verbosity
	}

	defFile, refFile := args[0], args[1]
	var sources []merge.Source
	for _, c := range compendiums {
		sources = append(sources, pofile.FileSource(c))
	}

	result, _, stats, err := merge.Merge(opts,
		pofile.FileSource(defFile), pofile.FileSource(refFile), sources...)
	if err != nil {
		return err
	}

	dest := outputFile
	if updateInPlace {
		dest = defFile
	}
	if dest == "-" {
		if err := pofile.Write(os.Stdout, result); err != nil {
			return err
		}
	} else if err := pofile.WriteFile(dest, result); err != nil {
		return err
	}

	if opts.Verbosity > 0 && dest != "-" {
		logSuccess("%s: merged %d, fuzzied %d, missing %d, obsolete %d",
			dest, stats.Merged, stats.Fuzzied, stats.Missing, stats.Obsolete)
	}
	if stats.Missing > 0 && opts.Verbosity > 0 {
		logWarning("%d message(s) need translation", stats.Missing)
	}
	return nil
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}
