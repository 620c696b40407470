// Package atom parses Atom syndication documents (RFC 4287) into a
// strongly-typed feed model. Parsing is all-or-nothing per document: a
// missing mandatory element or attribute aborts the whole parse. The
// single exception is an entry's embedded <source> feed, whose failures
// are contained so a broken source block cannot invalidate an otherwise
// valid entry.
package atom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ParseBytes parses an Atom feed from a byte buffer containing XML data.
func ParseBytes(data []byte) (*Feed, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses an Atom feed read from r.
func ParseReader(r io.Reader) (*Feed, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &XMLSyntaxError{Err: err}
	}

	root := documentElement(doc)
	if root == nil {
		return nil, &XMLSyntaxError{Err: fmt.Errorf("document has no root element")}
	}

	return buildFeed(root, true)
}

// ParseFile parses an Atom feed from a local XML file.
func ParseFile(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// buildFeed assembles a Feed from a feed (or source) element. When
// parseEntries is false, entry children are skipped and Entries is left
// empty; this is used for the embedded <source> case only, so a source
// feed never expands its own entries.
func buildFeed(root *xmlquery.Node, parseEntries bool) (*Feed, error) {
	title, err := textConstructChild(root, "title", false)
	if err != nil {
		return nil, err
	}

	id, err := childText(root, "id", false)
	if err != nil {
		return nil, err
	}

	updated, err := childTime(root, "updated", true)
	if err != nil {
		return nil, err
	}

	authors, err := personChildren(root, "author")
	if err != nil {
		return nil, err
	}

	contributors, err := personChildren(root, "contributor")
	if err != nil {
		return nil, err
	}

	links, err := linkChildren(root)
	if err != nil {
		return nil, err
	}

	categories, err := categoryChildren(root)
	if err != nil {
		return nil, err
	}

	generator, err := generatorChild(root)
	if err != nil {
		return nil, err
	}

	subtitle, err := textConstructChild(root, "subtitle", true)
	if err != nil {
		return nil, err
	}

	rights, err := textConstructChild(root, "rights", true)
	if err != nil {
		return nil, err
	}

	icon, err := childText(root, "icon", true)
	if err != nil {
		return nil, err
	}

	logo, err := childText(root, "logo", true)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	if parseEntries {
		for _, el := range childElements(root, "entry") {
			entry, err := buildEntry(el, authors)
			if err != nil {
				return nil, err
			}
			entries = append(entries, *entry)
		}
	}

	return &Feed{
		Title:        *title,
		ID:           id,
		Updated:      updated,
		Authors:      authors,
		Contributors: contributors,
		Links:        links,
		Categories:   categories,
		Generator:    generator,
		Subtitle:     subtitle,
		Rights:       rights,
		Icon:         icon,
		Logo:         logo,
		Entries:      entries,
	}, nil
}

// buildEntry assembles one Entry. Authors resolve by precedence: the
// entry's own <author> children, then defaultAuthors from the owning
// feed, then the authors of a successfully parsed <source>.
func buildEntry(el *xmlquery.Node, defaultAuthors []Person) (*Entry, error) {
	title, err := textConstructChild(el, "title", false)
	if err != nil {
		return nil, err
	}

	id, err := childText(el, "id", false)
	if err != nil {
		return nil, err
	}

	// A malformed embedded source must not invalidate the entry, so
	// source parse failures are swallowed here and nowhere else.
	var source *Feed
	var sourceAuthors []Person
	if srcEl, _ := childElement(el, "source", true); srcEl != nil {
		if parsed, err := buildFeed(srcEl, false); err == nil {
			source = parsed
			sourceAuthors = parsed.Authors
		}
	}

	authors, err := personChildren(el, "author")
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		authors = slices.Clone(defaultAuthors)
	}
	if len(authors) == 0 {
		authors = slices.Clone(sourceAuthors)
	}
	if authors == nil {
		authors = []Person{}
	}

	contributors, err := personChildren(el, "contributor")
	if err != nil {
		return nil, err
	}

	links, err := linkChildren(el)
	if err != nil {
		return nil, err
	}

	categories, err := categoryChildren(el)
	if err != nil {
		return nil, err
	}

	updated, err := childTime(el, "updated", true)
	if err != nil {
		return nil, err
	}

	published, err := childTime(el, "published", true)
	if err != nil {
		return nil, err
	}

	rights, err := textConstructChild(el, "rights", true)
	if err != nil {
		return nil, err
	}

	summary, err := textConstructChild(el, "summary", true)
	if err != nil {
		return nil, err
	}

	content, err := textConstructChild(el, "content", true)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Title:        *title,
		ID:           id,
		Updated:      updated,
		Authors:      authors,
		Contributors: contributors,
		Links:        links,
		Categories:   categories,
		Published:    published,
		Rights:       rights,
		Summary:      summary,
		Content:      content,
		Source:       source,
	}, nil
}

// textConstructChild parses a named child as a text construct. The type
// attribute defaults to text only when absent; a present but unknown
// value is an InvalidTextTypeError.
func textConstructChild(parent *xmlquery.Node, name string, optional bool) (*TextConstruct, error) {
	el, err := childElement(parent, name, optional)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}

	textType := TypeText
	if raw, ok := attrValue(el, "type"); ok {
		textType, err = ParseTextType(raw)
		if err != nil {
			return nil, err
		}
	}

	value := strings.TrimSpace(el.InnerText())
	if value == "" {
		return nil, &EmptyElementError{Name: name}
	}

	return &TextConstruct{
		Type:  textType,
		Lang:  langAttr(el),
		Value: value,
	}, nil
}

func parsePerson(el *xmlquery.Node) (*Person, error) {
	name, err := childText(el, "name", false)
	if err != nil {
		return nil, err
	}

	uri, err := childText(el, "uri", true)
	if err != nil {
		return nil, err
	}

	email, err := childText(el, "email", true)
	if err != nil {
		return nil, err
	}

	return &Person{Name: name, URI: uri, Email: email}, nil
}

func parseLink(el *xmlquery.Node) (*Link, error) {
	href, ok := attrValue(el, "href")
	if !ok {
		return nil, &MissingAttributeError{Name: "href", Element: el.Data}
	}

	var length *int64
	if raw, ok := attrValue(el, "length"); ok && raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return nil, &InvalidIntegerError{Name: "length", Value: raw}
		}
		length = &value
	}

	rel, _ := attrValue(el, "rel")
	linkType, _ := attrValue(el, "type")
	hrefLang, _ := attrValue(el, "hreflang")
	title, _ := attrValue(el, "title")

	return &Link{
		Href:     href,
		Rel:      rel,
		Type:     linkType,
		HrefLang: hrefLang,
		Title:    title,
		Length:   length,
	}, nil
}

func parseCategory(el *xmlquery.Node) (*Category, error) {
	term, ok := attrValue(el, "term")
	if !ok {
		return nil, &MissingAttributeError{Name: "term", Element: el.Data}
	}

	scheme, _ := attrValue(el, "scheme")
	label, _ := attrValue(el, "label")

	return &Category{Term: term, Scheme: scheme, Label: label}, nil
}

func generatorChild(parent *xmlquery.Node) (*Generator, error) {
	el, err := childElement(parent, "generator", true)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}

	name := strings.TrimSpace(el.InnerText())
	if name == "" {
		return nil, &EmptyElementError{Name: "generator"}
	}

	uri, _ := attrValue(el, "uri")
	version, _ := attrValue(el, "version")

	return &Generator{Name: name, URI: uri, Version: version}, nil
}

func personChildren(parent *xmlquery.Node, name string) ([]Person, error) {
	persons := []Person{}
	for _, el := range childElements(parent, name) {
		person, err := parsePerson(el)
		if err != nil {
			return nil, err
		}
		persons = append(persons, *person)
	}
	return persons, nil
}

func linkChildren(parent *xmlquery.Node) ([]Link, error) {
	links := []Link{}
	for _, el := range childElements(parent, "link") {
		link, err := parseLink(el)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, nil
}

func categoryChildren(parent *xmlquery.Node) ([]Category, error) {
	categories := []Category{}
	for _, el := range childElements(parent, "category") {
		category, err := parseCategory(el)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}
