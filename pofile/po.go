// Package pofile implements reading and writing of PO/POT files
// following the GNU gettext format specification, mapping the surface
// syntax onto the catalog model used by the merge engine.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/minios-linux/pomerge/catalog"
	"github.com/minios-linux/pomerge/format"
)

// FileSource is an opaque catalog source backed by a PO file on disk.
type FileSource string

// Read parses the file into a catalog.
func (s FileSource) Read() (*catalog.Catalog, error) {
	return ParseFile(string(s))
}

// Location returns the file path, used in diagnostics.
func (s FileSource) Location() string {
	return string(s)
}

// ParseFile reads a PO/POT file from disk.
func ParseFile(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads a PO/POT file from a reader into a catalog. Messages land
// in the default domain unless a `domain "name"` directive switches it.
func Parse(r io.Reader) (*catalog.Catalog, error) {
	c := catalog.New()
	list := c.Sublist(catalog.DefaultDomain, true)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var current *catalog.Message
	var lastField string // tracks the field continuation lines extend
	sawStr := false      // msgstr seen for the current entry
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if len(current.Str) == 0 {
			current.Str = []string{""}
		}
		list.Append(current)
		current = nil
		lastField = ""
		sawStr = false
	}

	setStr := func(idx int, val string) {
		for len(current.Str) <= idx {
			current.Str = append(current.Str, "")
		}
		current.Str[idx] += val
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		obsoleteLine := false
		if after, ok := strings.CutPrefix(line, "#~"); ok {
			obsoleteLine = true
			line = strings.TrimPrefix(after, " ")
		}

		if strings.HasPrefix(line, "domain ") {
			flush()
			name := unquote(strings.TrimSpace(strings.TrimPrefix(line, "domain")))
			if name == "" {
				return nil, fmt.Errorf("line %d: missing domain name", lineNum)
			}
			list = c.Sublist(name, true)
			continue
		}

		// A keyword line after msgstr starts the next entry even
		// without a separating blank line.
		if sawStr && !strings.HasPrefix(line, "\"") &&
			!strings.HasPrefix(line, "msgstr") {
			flush()
		}

		if current == nil {
			current = &catalog.Message{Str: []string{}}
		}
		if obsoleteLine {
			current.Obsolete = true
		}

		if strings.HasPrefix(line, "#") {
			if err := parseComment(current, line, &lastField); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "msgctxt "):
			current.Ctxt = unquote(strings.TrimPrefix(line, "msgctxt "))
			lastField = "msgctxt"
		case strings.HasPrefix(line, "msgid_plural "):
			current.IDPlural = unquote(strings.TrimPrefix(line, "msgid_plural "))
			lastField = "msgid_plural"
		case strings.HasPrefix(line, "msgid "):
			current.ID = unquote(strings.TrimPrefix(line, "msgid "))
			lastField = "msgid"
		case strings.HasPrefix(line, "msgstr["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			idx, err := strconv.Atoi(line[len("msgstr["):end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			setStr(idx, unquote(strings.TrimSpace(line[end+1:])))
			lastField = "msgstr[" + strconv.Itoa(idx) + "]"
			sawStr = true
		case strings.HasPrefix(line, "msgstr "):
			setStr(0, unquote(strings.TrimPrefix(line, "msgstr ")))
			lastField = "msgstr"
			sawStr = true
		case strings.HasPrefix(line, "\""):
			val := unquote(line)
			switch {
			case lastField == "msgctxt":
				current.Ctxt += val
			case lastField == "msgid":
				current.ID += val
			case lastField == "msgid_plural":
				current.IDPlural += val
			case lastField == "msgstr":
				setStr(0, val)
			case strings.HasPrefix(lastField, "msgstr["):
				idx, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(lastField, "msgstr["), "]"))
				setStr(idx, val)
			case lastField == "prev-msgctxt":
				current.PrevCtxt += val
			case lastField == "prev-msgid":
				current.PrevID += val
			case lastField == "prev-msgid_plural":
				current.PrevIDPlural += val
			default:
				return nil, fmt.Errorf("line %d: unexpected continuation line", lineNum)
			}
		default:
			return nil, fmt.Errorf("line %d: unrecognized line: %s", lineNum, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}

	if header := c.Sublist(catalog.DefaultDomain, true).Search("", ""); header != nil {
		c.Encoding = headerCharset(header.Singular())
	}
	return c, nil
}

func parseComment(m *catalog.Message, line string, lastField *string) error {
	switch {
	case strings.HasPrefix(line, "#:"):
		for _, ref := range strings.Fields(line[2:]) {
			m.Positions = append(m.Positions, parsePosition(ref))
		}
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			parseFlag(m, strings.TrimSpace(flag))
		}
	case strings.HasPrefix(line, "#."):
		m.ExtractedComments = append(m.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		prev := strings.TrimSpace(line[2:])
		switch {
		case strings.HasPrefix(prev, "msgctxt "):
			m.PrevCtxt = unquote(strings.TrimPrefix(prev, "msgctxt "))
			*lastField = "prev-msgctxt"
		case strings.HasPrefix(prev, "msgid_plural "):
			m.PrevIDPlural = unquote(strings.TrimPrefix(prev, "msgid_plural "))
			*lastField = "prev-msgid_plural"
		case strings.HasPrefix(prev, "msgid "):
			m.PrevID = unquote(strings.TrimPrefix(prev, "msgid "))
			*lastField = "prev-msgid"
		case strings.HasPrefix(prev, "\""):
			switch *lastField {
			case "prev-msgctxt":
				m.PrevCtxt += unquote(prev)
			case "prev-msgid":
				m.PrevID += unquote(prev)
			case "prev-msgid_plural":
				m.PrevIDPlural += unquote(prev)
			default:
				return fmt.Errorf("stray previous-msgid continuation")
			}
		}
	default:
		comment := strings.TrimPrefix(line, "#")
		comment = strings.TrimPrefix(comment, " ")
		m.TranslatorComments = append(m.TranslatorComments, comment)
	}
	return nil
}

func parseFlag(m *catalog.Message, flag string) {
	switch {
	case flag == "":
	case flag == "fuzzy":
		m.Fuzzy = true
	case flag == "wrap":
		m.Wrap = catalog.Yes
	case flag == "no-wrap":
		m.Wrap = catalog.No
	case strings.HasPrefix(flag, "range:"):
		spec := strings.TrimSpace(flag[len("range:"):])
		lo, hi, ok := strings.Cut(spec, "..")
		if !ok {
			return
		}
		min, err1 := strconv.Atoi(strings.TrimSpace(lo))
		max, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 == nil && err2 == nil && min <= max {
			m.Range = &catalog.ArgRange{Min: min, Max: max}
		}
	default:
		if kind, hint, ok := format.KindByFlag(flag); ok {
			m.Formats[kind] = hint
		}
	}
}

func parsePosition(ref string) catalog.Position {
	if idx := strings.LastIndex(ref, ":"); idx > 0 {
		if line, err := strconv.Atoi(ref[idx+1:]); err == nil {
			return catalog.Position{File: ref[:idx], Line: line}
		}
	}
	return catalog.Position{File: ref}
}

// headerCharset extracts the charset name from a header msgstr's
// Content-Type field, or "" when unspecified.
func headerCharset(header string) string {
	idx := strings.Index(header, "charset=")
	if idx < 0 {
		return ""
	}
	rest := header[idx+len("charset="):]
	end := strings.IndexAny(rest, " \t\n")
	if end < 0 {
		end = len(rest)
	}
	charset := rest[:end]
	if charset == "" || strings.EqualFold(charset, "CHARSET") {
		return ""
	}
	return charset
}

// WriteFile writes the catalog to disk in PO syntax.
func WriteFile(path string, c *catalog.Catalog) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := Write(out, c); err != nil {
		return err
	}
	return out.Close()
}

// Write renders the catalog in PO syntax. Domains beyond the default
// one are introduced with a `domain "name"` directive.
func Write(w io.Writer, c *catalog.Catalog) error {
	bw := bufio.NewWriter(w)
	first := true
	for _, d := range c.Domains {
		if d.Name != catalog.DefaultDomain || len(c.Domains) > 1 {
			if !first {
				fmt.Fprintln(bw)
			}
			fmt.Fprintf(bw, "domain %s\n", quote(d.Name))
			first = false
		}
		for _, m := range d.Messages.Messages {
			if !first {
				fmt.Fprintln(bw)
			}
			writeMessage(bw, m)
			first = false
		}
	}
	return bw.Flush()
}

func writeMessage(w *bufio.Writer, m *catalog.Message) {
	prefix := ""
	if m.Obsolete {
		prefix = "#~ "
	}

	for _, c := range m.TranslatorComments {
		if c == "" {
			fmt.Fprintln(w, "#")
		} else {
			fmt.Fprintf(w, "# %s\n", c)
		}
	}
	for _, c := range m.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, p := range m.Positions {
		if p.Line > 0 {
			fmt.Fprintf(w, "#: %s:%d\n", p.File, p.Line)
		} else {
			fmt.Fprintf(w, "#: %s\n", p.File)
		}
	}
	if flags := flagList(m); len(flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(flags, ", "))
	}

	if m.PrevCtxt != "" {
		fmt.Fprintf(w, "#| msgctxt %s\n", quote(m.PrevCtxt))
	}
	if m.PrevID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(m.PrevID))
	}
	if m.PrevIDPlural != "" {
		fmt.Fprintf(w, "#| msgid_plural %s\n", quote(m.PrevIDPlural))
	}

	if m.Ctxt != "" {
		writeQuotedField(w, prefix+"msgctxt", m.Ctxt)
	}
	writeQuotedField(w, prefix+"msgid", m.ID)
	if m.IDPlural != "" {
		writeQuotedField(w, prefix+"msgid_plural", m.IDPlural)
		for i, s := range m.Str {
			writeQuotedField(w, fmt.Sprintf("%smsgstr[%d]", prefix, i), s)
		}
		if len(m.Str) == 0 {
			writeQuotedField(w, prefix+"msgstr[0]", "")
		}
	} else {
		writeQuotedField(w, prefix+"msgstr", m.Singular())
	}
}

// flagList renders the "#," flag line: fuzzy first, then format flags
// in kind order, then range and wrap preferences.
func flagList(m *catalog.Message) []string {
	var flags []string
	if m.Fuzzy {
		flags = append(flags, "fuzzy")
	}
	for k := format.Kind(0); int(k) < format.NumKinds; k++ {
		switch m.Formats[k] {
		case format.Yes:
			flags = append(flags, k.FlagName())
		case format.No:
			flags = append(flags, "no-"+k.FlagName())
		case format.Possible:
			flags = append(flags, "possible-"+k.FlagName())
		case format.Impossible:
			flags = append(flags, "impossible-"+k.FlagName())
		}
	}
	if m.Range != nil {
		flags = append(flags, fmt.Sprintf("range: %d..%d", m.Range.Min, m.Range.Max))
	}
	if m.Wrap == catalog.No {
		flags = append(flags, "no-wrap")
	}
	return flags
}

// writeQuotedField writes a PO field with multiline quoting.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

// quote produces a PO-style quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}

// unquote removes PO-style quoting from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}
	return result.String()
}
