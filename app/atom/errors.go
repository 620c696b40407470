package atom

import "fmt"

// XMLSyntaxError reports input that is not well-formed XML. The
// underlying decoder error is available via Unwrap.
type XMLSyntaxError struct {
	Err error
}

func (e *XMLSyntaxError) Error() string {
	return fmt.Sprintf("not a valid XML document: %v", e.Err)
}

func (e *XMLSyntaxError) Unwrap() error {
	return e.Err
}

// MissingElementError reports a mandatory child element that is absent.
type MissingElementError struct {
	Name   string
	Parent string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("could not parse Atom feed: %q required in %q", e.Name, e.Parent)
}

// EmptyElementError reports a mandatory element with no text content.
type EmptyElementError struct {
	Name string
}

func (e *EmptyElementError) Error() string {
	return fmt.Sprintf("could not parse Atom feed: %q text is required but is empty", e.Name)
}

// MissingAttributeError reports a mandatory attribute that is absent.
type MissingAttributeError struct {
	Name    string
	Element string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("could not parse Atom feed: attribute %q required on %q", e.Name, e.Element)
}

// InvalidTextTypeError reports a text construct whose type attribute is
// present but not one of text, html or xhtml.
type InvalidTextTypeError struct {
	Value string
}

func (e *InvalidTextTypeError) Error() string {
	return fmt.Sprintf("could not parse Atom feed: unknown text type %q", e.Value)
}

// InvalidTimestampError reports date text the timestamp parser rejected.
type InvalidTimestampError struct {
	Name  string
	Value string
	Err   error
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("could not parse Atom feed: %q holds invalid timestamp %q: %v", e.Name, e.Value, e.Err)
}

func (e *InvalidTimestampError) Unwrap() error {
	return e.Err
}

// InvalidIntegerError reports numeric text that is not a valid
// non-negative integer.
type InvalidIntegerError struct {
	Name  string
	Value string
}

func (e *InvalidIntegerError) Error() string {
	return fmt.Sprintf("could not parse Atom feed: %q holds invalid integer %q", e.Name, e.Value)
}
