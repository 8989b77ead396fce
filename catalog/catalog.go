// Package catalog provides the in-memory representation of gettext
// message catalogs: a single translatable message, an insertion-ordered
// message list with exact lookup by (context, msgid), and a multi-domain
// catalog. Everything else in pomerge operates on these types.
package catalog

import "github.com/minios-linux/pomerge/format"

// DefaultDomain is the reserved name of a catalog's primary domain.
const DefaultDomain = "messages"

// TriState is a yes/no preference that may also be left undecided,
// used for per-message line-wrapping preferences.
type TriState int

const (
	Undecided TriState = iota
	Yes
	No
)

// Position is one source-code reference ("#:" comment in PO syntax).
type Position struct {
	File string
	Line int
}

// ArgRange is a declared argument-count range ("range: min..max" flag),
// used for format-string argument-count checking.
type ArgRange struct {
	Min int
	Max int
}

// ShapeIssue records a plural-shape disagreement between a reference
// message and its matched definition, discovered during merge and
// repaired by the post-merge pass.
type ShapeIssue int

const (
	ShapeOK ShapeIssue = iota
	// ShapeRefPlural: the reference has a plural id but the definition
	// does not; the single translation must be replicated nplurals times.
	ShapeRefPlural
	// ShapeDefPlural: the definition has a plural id but the reference
	// does not; the translation must be truncated to its first form.
	ShapeDefPlural
)

// Message is one translatable unit.
type Message struct {
	// Ctxt is the msgctxt disambiguation key; empty means no context.
	Ctxt string
	// ID is the untranslated singular string (msgid).
	ID string
	// IDPlural is the untranslated plural string; empty means the
	// message has no plural form.
	IDPlural string
	// Str holds the translations: one string for singular messages,
	// nplurals strings for plural messages once finalized.
	Str []string

	Fuzzy    bool
	Obsolete bool

	// Formats classifies the message per supported format language.
	Formats [format.NumKinds]format.Hint
	// Range is the declared argument-count range, nil if none.
	Range *ArgRange
	// Wrap is the line-wrapping preference.
	Wrap TriState

	// TranslatorComments are "#" comments, owned by the translator.
	TranslatorComments []string
	// ExtractedComments are "#." comments, produced by extraction.
	ExtractedComments []string
	// Positions are "#:" source references.
	Positions []Position

	// PrevCtxt, PrevID and PrevIDPlural record the msgid a fuzzy
	// translation was originally made for ("#|" comments).
	PrevCtxt     string
	PrevID       string
	PrevIDPlural string

	// Referenced marks definition messages that were matched by some
	// reference message; unmarked ones become obsolete.
	Referenced bool
	// ShapeIssue is transient merge state, always ShapeOK on output.
	ShapeIssue ShapeIssue
}

// IsHeader reports whether m is the distinguished header entry.
func (m *Message) IsHeader() bool {
	return m.Ctxt == "" && m.ID == ""
}

// Singular returns the first translation, or "" if there is none.
func (m *Message) Singular() string {
	if len(m.Str) == 0 {
		return ""
	}
	return m.Str[0]
}

// IsUntranslated reports whether every stored translation is empty.
func (m *Message) IsUntranslated() bool {
	for _, s := range m.Str {
		if s != "" {
			return false
		}
	}
	return true
}

// HasRange reports whether the message declares an argument-count range.
func (m *Message) HasRange() bool {
	return m.Range != nil
}

// Copy returns a deep copy of m. Comment sequences, positions and the
// translation slice are copied; the transient merge markers are reset.
func (m *Message) Copy() *Message {
	c := *m
	c.Str = append([]string(nil), m.Str...)
	c.TranslatorComments = append([]string(nil), m.TranslatorComments...)
	c.ExtractedComments = append([]string(nil), m.ExtractedComments...)
	c.Positions = append([]Position(nil), m.Positions...)
	if m.Range != nil {
		r := *m.Range
		c.Range = &r
	}
	c.Referenced = false
	c.ShapeIssue = ShapeOK
	return &c
}

type key struct {
	ctxt string
	id   string
}

// List is an insertion-ordered sequence of messages with exact lookup
// by (context, msgid). The lookup map tracks the first message appended
// under each key; order is preserved for output.
type List struct {
	Messages []*Message
	byKey    map[key]*Message
}

// NewList creates an empty message list.
func NewList() *List {
	return &List{byKey: make(map[key]*Message)}
}

// Append adds a message at the end of the list.
func (l *List) Append(m *Message) {
	l.Messages = append(l.Messages, m)
	l.index(m)
}

// Prepend adds a message at the front of the list. Used to give a
// reference domain a dummy header entry when the template lacks one.
func (l *List) Prepend(m *Message) {
	l.Messages = append([]*Message{m}, l.Messages...)
	l.index(m)
}

func (l *List) index(m *Message) {
	if l.byKey == nil {
		l.byKey = make(map[key]*Message)
	}
	k := key{m.Ctxt, m.ID}
	if _, dup := l.byKey[k]; !dup {
		l.byKey[k] = m
	}
}

// Search returns the message with the given context and msgid, or nil.
func (l *List) Search(ctxt, id string) *Message {
	if l == nil || l.byKey == nil {
		return nil
	}
	return l.byKey[key{ctxt, id}]
}

// Len returns the number of messages in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Messages)
}

// Domain pairs a domain name with its message list.
type Domain struct {
	Name     string
	Messages *List
}

// Catalog is an ordered sequence of domains plus an optional
// catalog-wide encoding tag (empty means unspecified).
type Catalog struct {
	Domains  []*Domain
	Encoding string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Sublist returns the message list of the named domain. With create
// set, a missing domain is inserted in first-seen order; otherwise
// nil is returned when the domain is absent.
func (c *Catalog) Sublist(name string, create bool) *List {
	for _, d := range c.Domains {
		if d.Name == name {
			return d.Messages
		}
	}
	if !create {
		return nil
	}
	d := &Domain{Name: name, Messages: NewList()}
	c.Domains = append(c.Domains, d)
	return d.Messages
}
