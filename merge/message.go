package merge

import (
	"github.com/minios-linux/pomerge/catalog"
	"github.com/minios-linux/pomerge/format"
)

// mergeMessage merges a definition message with a reference message
// into a new message. Neither input is mutated.
//
// The msgid, msgid_plural and msgctxt always come from the reference:
// when fuzzy matches are made the definition is not unique, but the
// reference is. The msgstr comes from the definition, except for the
// header entry, which goes through reconcileHeader.
func mergeMessage(def, ref *catalog.Message, forceFuzzy bool, opts Options) *catalog.Message {
	result := &catalog.Message{
		Ctxt:     ref.Ctxt,
		ID:       ref.ID,
		IDPlural: ref.IDPlural,
	}

	var prevCtxt, prevID, prevIDPlural string
	if ref.IsHeader() {
		result.Str = []string{reconcileHeader(def.Singular(), ref.Singular(), opts.CatalogName)}
	} else {
		result.Str = append([]string(nil), def.Str...)
		if len(result.Str) == 0 {
			result.Str = []string{""}
		}

		// The "previous msgid" is the msgid that produced the current
		// msgstr: the definition's own previous fields if it was
		// already fuzzy, its current identity otherwise.
		if def.Fuzzy {
			prevCtxt = def.PrevCtxt
			prevID = def.PrevID
			prevIDPlural = def.PrevIDPlural
		} else {
			prevCtxt = def.Ctxt
			prevID = def.ID
			prevIDPlural = def.IDPlural
		}
	}

	// Translator comments belong to the definition; extracted comments
	// and file positions to the reference, which was freshly scanned
	// from the sources. For-msgfmt output carries none of them.
	if !opts.ForMsgfmt {
		result.TranslatorComments = append([]string(nil), def.TranslatorComments...)
		result.ExtractedComments = append([]string(nil), ref.ExtractedComments...)
		result.Positions = append([]catalog.Position(nil), ref.Positions...)
	}

	result.Fuzzy = def.Fuzzy || forceFuzzy

	// Disagreement on the plural form is itself a reason for fuzzy.
	if !result.Fuzzy && ref.IDPlural != def.IDPlural {
		result.Fuzzy = true
	}

	for k := format.Kind(0); int(k) < format.NumKinds; k++ {
		result.Formats[k] = ref.Formats[k]

		// The reference marks this message as a format string but
		// the stale definition does not: if the kept msgstr would no
		// longer pass strict format checking, mark the merge fuzzy.
		// msgmerge must not turn a catalog that passes "msgfmt -c"
		// into one that does not.
		if !result.Fuzzy &&
			ref.Formats[k].Possible() && !def.Formats[k].Possible() &&
			opts.Checker.Check(k, ref.ID, ref.IDPlural, result.Str) != nil {
			result.Fuzzy = true
		}
	}

	if ref.Range != nil {
		r := *ref.Range
		result.Range = &r
	}
	// A definition range the reference no longer contains needs the
	// translator's attention, for the same msgfmt -c reason.
	if !result.Fuzzy && def.HasRange() &&
		!(ref.HasRange() && ref.Range.Min >= def.Range.Min && ref.Range.Max <= def.Range.Max) {
		result.Fuzzy = true
	}

	result.Wrap = ref.Wrap

	if opts.KeepPrevious {
		result.PrevCtxt = prevCtxt
		result.PrevID = prevID
		result.PrevIDPlural = prevIDPlural
	}

	// A reference is normally a POT file and never obsolete, but users
	// sometimes re-merge msgmerge output.
	result.Obsolete = ref.Obsolete

	// Plural-shape disagreements are repaired in a post-pass, once the
	// result domain's plural count is known.
	switch {
	case ref.IDPlural != "" && def.IDPlural == "":
		result.ShapeIssue = catalog.ShapeRefPlural
	case ref.IDPlural == "" && def.IDPlural != "":
		result.ShapeIssue = catalog.ShapeDefPlural
	}

	return result
}
