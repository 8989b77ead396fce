package merge

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/minios-linux/pomerge/catalog"
	"github.com/minios-linux/pomerge/i18n"
	"github.com/minios-linux/pomerge/plural"
)

// Source is an opaque catalog handle resolved by a syntax-specific
// reader, e.g. pofile.FileSource. The engine never inspects
// syntax-specific state.
type Source interface {
	Read() (*catalog.Catalog, error)
	Location() string
}

// Stats are the per-run merge counters, reported when verbosity is
// enabled. They are diagnostic output, not an error signal.
type Stats struct {
	Merged   int
	Fuzzied  int
	Missing  int
	Obsolete int
}

// Dots are printed every dotFrequency processed reference messages so
// long merges signal progress.
const dotFrequency = 10

// Merge reconciles the definitions catalog against the reference
// template and returns the merged catalog along with the definitions
// catalog as read. Recoverable anomalies never fail the merge; they are
// encoded into the output as fuzzy flags, obsolete flags and counters.
func Merge(opts Options, defs, refs Source, compendiums ...Source) (*catalog.Catalog, *catalog.Catalog, Stats, error) {
	opts = opts.normalized()
	var stats Stats

	// The definitions file, maintained by a translator.
	def, err := defs.Read()
	if err != nil {
		return nil, nil, stats, fmt.Errorf("reading definitions: %w", err)
	}
	// The references file, extracted from current sources.
	ref, err := refs.Read()
	if err != nil {
		return nil, nil, stats, fmt.Errorf("reading references: %w", err)
	}

	// Compendiums contribute candidate translations but never receive
	// merge results.
	var compLists []*catalog.List
	for _, cs := range compendiums {
		c, err := cs.Read()
		if err != nil {
			return nil, nil, stats, fmt.Errorf("reading compendium: %w", err)
		}
		for _, dom := range c.Domains {
			compLists = append(compLists, dom.Messages)
		}
	}

	// Give every reference domain a header entry; the header drives
	// plural counting and is always emitted.
	for _, dom := range ref.Domains {
		if dom.Messages.Search("", "") == nil {
			dom.Messages.Prepend(&catalog.Message{Str: []string{""}})
		}
	}

	// The canonical definitions charset only matters for picking fuzzy
	// comparison units; unspecified means a unibyte encoding.
	canonCharset := def.Encoding
	if canonCharset == "" {
		canonCharset = "ASCII"
	}
	d := newDefinitions(compLists, canonCharset)

	result := catalog.New()
	var processed atomic.Uint64
	emptyList := catalog.NewList()

	if !opts.MultiDomain {
		// Every reference domain is matched against the definition
		// domain of the same name.
		for _, dom := range ref.Domains {
			resultList := result.Sublist(dom.Name, true)
			defList := def.Sublist(dom.Name, false)
			if defList == nil {
				defList = emptyList
			}
			d.setCurrentList(defList)
			matchDomain(defs.Location(), d, dom.Messages, resultList, opts, &stats, &processed)
		}
	} else if len(ref.Domains) > 0 {
		// Apply the reference's default-domain messages to each of the
		// definition domains in turn.
		refList := ref.Domains[0].Messages
		for k, dom := range def.Domains {
			// Ignore the default definition domain if it is empty.
			if k == 0 && dom.Messages.Len() == 0 {
				continue
			}
			resultList := result.Sublist(dom.Name, true)
			d.setCurrentList(dom.Messages)
			matchDomain(defs.Location(), d, refList, resultList, opts, &stats, &processed)
		}
	}

	// Definition messages never referenced by the template hold
	// translator work on since-removed strings; keep them as obsolete
	// instead of discarding them. Compendiums are not scanned.
	if !opts.ForMsgfmt {
		for _, dom := range def.Domains {
			for _, defmsg := range dom.Messages.Messages {
				if defmsg.Referenced {
					continue
				}
				mp := defmsg.Copy()
				mp.ExtractedComments = nil
				mp.Positions = nil
				mp.Obsolete = true
				result.Sublist(dom.Name, true).Append(mp)
				stats.Obsolete++
			}
		}
	}

	// The a-priori encoding is only known when both inputs agree.
	if def.Encoding == ref.Encoding {
		result.Encoding = def.Encoding
	}

	if opts.Verbosity > 0 {
		lead := ""
		if !opts.Quiet && opts.Verbosity <= 1 {
			lead = "\n"
		}
		fmt.Fprintf(opts.Progress,
			lead+i18n.T("Read %d old + %d reference, merged %d, fuzzied %d, missing %d, obsolete %d.")+"\n",
			countMessages(def), countMessages(ref),
			stats.Merged, stats.Fuzzied, stats.Missing, stats.Obsolete)
	} else if !opts.Quiet {
		fmt.Fprint(opts.Progress, i18n.T(" done.")+"\n")
	}

	return result, def, stats, nil
}

func countMessages(c *catalog.Catalog) int {
	n := 0
	for _, dom := range c.Domains {
		n += dom.Messages.Len()
	}
	return n
}

// searchResult is the outcome of the parallel lookup phase for one
// reference message.
type searchResult struct {
	found *catalog.Message
	fuzzy bool
}

// matchDomain merges one reference domain against the definitions
// aggregate's current list, appending to resultList in reference order.
func matchDomain(defLocation string, d *definitions, refList, resultList *catalog.List,
	opts Options, stats *Stats, processed *atomic.Uint64) {

	// nplurals of the definition domain, for shaping untranslated
	// plural entries; 0 if the header is absent or unparseable.
	nplurals := 0
	if h := d.currentList().Search("", ""); h != nil {
		nplurals = plural.Nplurals(h.Singular())
	}

	// Phase one: the exact and fuzzy lookups dominate the runtime and
	// are independent per reference message, so they run on a worker
	// pool. Nothing shared is written here except the lazily built
	// indexes (mutex-guarded) and the progress counter (atomic).
	results := lookupAll(d, refList, opts, processed)

	// Phase two: merge and append serially, in original reference
	// order, marking definition messages as referenced.
	for j, refmsg := range refList.Messages {
		if refmsg.IsHeader() {
			// The header never goes through matching; it is merged
			// against the definition header when there is one, or a
			// synthesized empty definition otherwise, and always
			// emitted.
			defHeader := d.currentList().Search("", "")
			src := defHeader
			if src == nil {
				src = &catalog.Message{Str: []string{""}}
			}
			mp := mergeMessage(src, refmsg, false, opts)
			resultList.Append(mp)
			if defHeader != nil {
				defHeader.Referenced = true
				stats.Merged++
			}
			continue
		}

		sr := results[j]
		switch {
		case sr.found != nil && !sr.fuzzy:
			mp := mergeMessage(sr.found, refmsg, false, opts)
			// msgfmt ignores untranslated and fuzzy messages, so
			// for-msgfmt output omits them.
			if !(opts.ForMsgfmt && (mp.Singular() == "" || mp.Fuzzy)) {
				resultList.Append(mp)
				sr.found.Referenced = true
			}
			stats.Merged++

		case sr.found != nil:
			if opts.Verbosity > 1 {
				diag(opts.Progress, refmsg, i18n.T("this message is used but not defined"))
				diag(opts.Progress, sr.found, i18n.T("but this definition is similar"))
			}
			mp := mergeMessage(sr.found, refmsg, true, opts)
			resultList.Append(mp)
			sr.found.Referenced = true
			stats.Fuzzied++
			if !opts.Quiet && opts.Verbosity <= 1 {
				// Always show progress for a fuzzy match; they are
				// the slow ones.
				fmt.Fprint(opts.Progress, ".")
			}

		default:
			if opts.Verbosity > 1 {
				diag(opts.Progress, refmsg,
					fmt.Sprintf(i18n.T("this message is used but not defined in %s"), defLocation))
			}
			mp := refmsg.Copy()
			if opts.ForMsgfmt {
				mp.TranslatorComments = nil
				mp.ExtractedComments = nil
				mp.Positions = nil
			}
			untranslated := mp.IsUntranslated()
			if mp.IDPlural != "" && untranslated {
				plural.ShapeUntranslated(mp, nplurals)
			}
			if !(opts.ForMsgfmt && (untranslated || mp.Fuzzy)) {
				resultList.Append(mp)
			}
			stats.Missing++
		}
	}

	repairShapes(resultList, opts)

	// Now that the fuzzy flags are final, previous-msgid bookkeeping is
	// only meaningful on fuzzy, translated entries.
	for _, mp := range resultList.Messages {
		if !mp.Fuzzy || mp.Singular() == "" {
			mp.PrevCtxt, mp.PrevID, mp.PrevIDPlural = "", "", ""
		}
	}
}

// lookupAll runs the exact/fuzzy lookups for every reference message on
// a worker pool and returns one result per message, in order. The
// channel-fed pool gives the dynamic scheduling the lookup costs need:
// exact hits are cheap, fuzzy misses are not.
func lookupAll(d *definitions, refList *catalog.List, opts Options, processed *atomic.Uint64) []searchResult {
	n := refList.Len()
	results := make([]searchResult, n)
	if n == 0 {
		return results
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				refmsg := refList.Messages[j]

				// Merging can take a while; signal we are not dead.
				if !opts.Quiet && opts.Verbosity <= 1 &&
					processed.Add(1)%dotFrequency == 0 {
					fmt.Fprint(opts.Progress, ".")
				}

				if refmsg.IsHeader() {
					continue
				}
				if m := d.search(refmsg.Ctxt, refmsg.ID); m != nil {
					results[j] = searchResult{found: m}
				} else if opts.FuzzyMatching {
					// Not defined at all: look for a very similar
					// message; it could be a typo, or the suggestion
					// may help.
					if m := d.searchFuzzy(refmsg.Ctxt, refmsg.ID); m != nil {
						results[j] = searchResult{found: m, fuzzy: true}
					}
				}
			}
		}()
	}
	for j := 0; j < n; j++ {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	return results
}

// repairShapes postprocesses the problematic merges so the result still
// passes strict plural-count validation.
func repairShapes(resultList *catalog.List, opts Options) {
	needRepair := false
	needNplurals := false
	for _, mp := range resultList.Messages {
		if mp.ShapeIssue != catalog.ShapeOK {
			needRepair = true
			if mp.ShapeIssue == catalog.ShapeRefPlural {
				needNplurals = true
			}
		}
	}
	if !needRepair {
		return
	}

	// Replication needs the nplurals of the *result* domain.
	nplurals := 0
	if needNplurals {
		if h := resultList.Search("", ""); h != nil {
			nplurals = plural.Nplurals(h.Singular())
		}
	}

	for _, mp := range resultList.Messages {
		switch mp.ShapeIssue {
		case catalog.ShapeRefPlural:
			if nplurals > 0 {
				if opts.Verbosity > 1 {
					diag(opts.Progress, mp, i18n.T("this message should define plural forms"))
				}
				plural.RepairRefPlural(mp, nplurals)
			}
		case catalog.ShapeDefPlural:
			if len(mp.Str) > 1 {
				if opts.Verbosity > 1 {
					diag(opts.Progress, mp, i18n.T("this message should not define plural forms"))
				}
				plural.RepairDefPlural(mp)
			}
		}
		mp.ShapeIssue = catalog.ShapeOK
	}
}

// diag prints one per-message diagnostic with its first source location
// when known.
func diag(w io.Writer, m *catalog.Message, text string) {
	if len(m.Positions) > 0 {
		p := m.Positions[0]
		fmt.Fprintf(w, "%s:%d: msgid %q: %s\n", p.File, p.Line, m.ID, text)
		return
	}
	fmt.Fprintf(w, "msgid %q: %s\n", m.ID, text)
}
