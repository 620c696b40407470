package atom

import (
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/araddon/dateparse"
)

const xmlNS = "http://www.w3.org/XML/1998/namespace"

// childElement returns the first direct child of parent with the given
// local name in the Atom namespace. When optional is false an absent
// child is a MissingElementError.
func childElement(parent *xmlquery.Node, name string, optional bool) (*xmlquery.Node, error) {
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.NamespaceURI == NS && child.Data == name {
			return child, nil
		}
	}

	if optional {
		return nil, nil
	}

	return nil, &MissingElementError{Name: name, Parent: parent.Data}
}

// childElements returns all direct children of parent with the given
// local name in the Atom namespace, in document order.
func childElements(parent *xmlquery.Node, name string) []*xmlquery.Node {
	var matches []*xmlquery.Node
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.NamespaceURI == NS && child.Data == name {
			matches = append(matches, child)
		}
	}
	return matches
}

// childText returns the trimmed text of a named child element. A missing
// optional child yields the empty string. A required child with no text
// is an EmptyElementError.
func childText(parent *xmlquery.Node, name string, optional bool) (string, error) {
	child, err := childElement(parent, name, optional)
	if err != nil {
		return "", err
	}
	if child == nil {
		return "", nil
	}

	text := strings.TrimSpace(child.InnerText())
	if text == "" && !optional {
		return "", &EmptyElementError{Name: name}
	}

	return text, nil
}

// childTime parses the text of a named child element as a timestamp.
// Accepts RFC 3339 and the looser date formats feeds use in the wild.
func childTime(parent *xmlquery.Node, name string, optional bool) (*time.Time, error) {
	text, err := childText(parent, name, optional)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	ts, err := dateparse.ParseAny(text)
	if err != nil {
		return nil, &InvalidTimestampError{Name: name, Value: text, Err: err}
	}

	return &ts, nil
}

// childInt parses the text of a named child element as a non-negative
// integer.
func childInt(parent *xmlquery.Node, name string, optional bool) (*int64, error) {
	text, err := childText(parent, name, optional)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil || value < 0 {
		return nil, &InvalidIntegerError{Name: name, Value: text}
	}

	return &value, nil
}

// attrValue looks up an unprefixed attribute, distinguishing an absent
// attribute from an empty one.
func attrValue(el *xmlquery.Node, name string) (string, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local == name && attr.Name.Space == "" {
			return attr.Value, true
		}
	}
	return "", false
}

// langAttr returns the xml:lang attribute of el, or the empty string.
func langAttr(el *xmlquery.Node) string {
	for _, attr := range el.Attr {
		if attr.Name.Local != "lang" {
			continue
		}
		if attr.Name.Space == xmlNS || attr.Name.Space == "xml" || attr.NamespaceURI == xmlNS {
			return attr.Value
		}
	}
	return ""
}
