package atom

import "time"

// NS is the Atom syndication namespace. Child element lookups are fixed
// to this namespace; elements from other namespaces are ignored.
const NS = "http://www.w3.org/2005/Atom"

// TextType is the kind of content carried by a text construct.
type TextType string

const (
	TypeText  TextType = "text"
	TypeHTML  TextType = "html"
	TypeXHTML TextType = "xhtml"
)

// ParseTextType maps a type attribute value to a TextType. The empty
// string is not a valid value; callers apply the absent-attribute default
// themselves.
func ParseTextType(value string) (TextType, error) {
	switch TextType(value) {
	case TypeText, TypeHTML, TypeXHTML:
		return TextType(value), nil
	}
	return "", &InvalidTextTypeError{Value: value}
}

// TextConstruct is an Atom text construct (title, subtitle, summary,
// content, rights). Type defaults to TypeText when the source element
// carries no type attribute.
type TextConstruct struct {
	Type  TextType
	Lang  string
	Value string
}

// Person is an Atom person construct (author or contributor).
type Person struct {
	Name  string
	URI   string
	Email string
}

// Link is an Atom link element. Length is nil when the length attribute
// is absent or empty.
type Link struct {
	Href     string
	Rel      string
	Type     string
	HrefLang string
	Title    string
	Length   *int64
}

// Category is an Atom category element.
type Category struct {
	Term   string
	Scheme string
	Label  string
}

// Generator identifies the agent that produced a feed. Name comes from
// the element text, URI and Version from attributes.
type Generator struct {
	Name    string
	URI     string
	Version string
}

// Entry is a single Atom entry.
//
// Updated should be mandatory per RFC 4287, but many feeds omit it and
// use published instead, so it is kept optional.
type Entry struct {
	Title TextConstruct
	ID    string

	Updated *time.Time

	Authors      []Person
	Contributors []Person
	Links        []Link
	Categories   []Category
	Published    *time.Time
	Rights       *TextConstruct
	Summary      *TextConstruct
	Content      *TextConstruct

	// Source is the metadata of the feed this entry was aggregated
	// from, or nil. A source feed never carries entries of its own.
	Source *Feed
}

// Feed is a parsed Atom feed document.
//
// Updated should be mandatory per RFC 4287, but many feeds omit it,
// so it is kept optional. Sequence fields are never nil; an absent
// element yields an empty slice.
type Feed struct {
	Title TextConstruct
	ID    string

	Updated *time.Time

	Authors      []Person
	Contributors []Person
	Links        []Link
	Categories   []Category
	Generator    *Generator
	Subtitle     *TextConstruct
	Rights       *TextConstruct
	Icon         string
	Logo         string

	Entries []Entry
}
