package api

import (
	"context"
	"time"

	"github.com/mkrutov/atom-comb/app/atom"
	"github.com/mkrutov/atom-comb/app/fetcher"
	"github.com/mkrutov/atom-comb/app/metrics"
)

type FetcherInterface interface {
	Run(ctx context.Context, url string) ([]byte, error)
}

var _ FetcherInterface = (*fetcher.Fetcher)(nil)

type Handler struct {
	fetcher   FetcherInterface
	collector *metrics.Collector
	version   string
	startedAt time.Time
}

// The parser model carries no JSON tags; the API owns its wire
// representation and maps the parsed graph into these types.

type TextConstruct struct {
	Type  string `json:"type"`
	Lang  string `json:"lang,omitempty"`
	Value string `json:"value"`
}

type Person struct {
	Name  string `json:"name"`
	URI   string `json:"uri,omitempty"`
	Email string `json:"email,omitempty"`
}

type Link struct {
	Href     string `json:"href"`
	Rel      string `json:"rel,omitempty"`
	Type     string `json:"type,omitempty"`
	HrefLang string `json:"hreflang,omitempty"`
	Title    string `json:"title,omitempty"`
	Length   *int64 `json:"length,omitempty"`
}

type Category struct {
	Term   string `json:"term"`
	Scheme string `json:"scheme,omitempty"`
	Label  string `json:"label,omitempty"`
}

type Generator struct {
	Name    string `json:"name"`
	URI     string `json:"uri,omitempty"`
	Version string `json:"version,omitempty"`
}

type Entry struct {
	Title        TextConstruct  `json:"title"`
	ID           string         `json:"id"`
	Updated      *time.Time     `json:"updated,omitempty"`
	Authors      []Person       `json:"authors"`
	Contributors []Person       `json:"contributors"`
	Links        []Link         `json:"links"`
	Categories   []Category     `json:"categories"`
	Published    *time.Time     `json:"published,omitempty"`
	Rights       *TextConstruct `json:"rights,omitempty"`
	Summary      *TextConstruct `json:"summary,omitempty"`
	Content      *TextConstruct `json:"content,omitempty"`
	Source       *Feed          `json:"source,omitempty"`
}

type Feed struct {
	Title        TextConstruct  `json:"title"`
	ID           string         `json:"id"`
	Updated      *time.Time     `json:"updated,omitempty"`
	Authors      []Person       `json:"authors"`
	Contributors []Person       `json:"contributors"`
	Links        []Link         `json:"links"`
	Categories   []Category     `json:"categories"`
	Generator    *Generator     `json:"generator,omitempty"`
	Subtitle     *TextConstruct `json:"subtitle,omitempty"`
	Rights       *TextConstruct `json:"rights,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	Logo         string         `json:"logo,omitempty"`
	Entries      []Entry        `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewFeed(feed *atom.Feed) *Feed {
	entries := make([]Entry, 0, len(feed.Entries))
	for i := range feed.Entries {
		entries = append(entries, newEntry(&feed.Entries[i]))
	}

	return &Feed{
		Title:        newTextConstruct(feed.Title),
		ID:           feed.ID,
		Updated:      feed.Updated,
		Authors:      newPersons(feed.Authors),
		Contributors: newPersons(feed.Contributors),
		Links:        newLinks(feed.Links),
		Categories:   newCategories(feed.Categories),
		Generator:    newGenerator(feed.Generator),
		Subtitle:     newOptionalTextConstruct(feed.Subtitle),
		Rights:       newOptionalTextConstruct(feed.Rights),
		Icon:         feed.Icon,
		Logo:         feed.Logo,
		Entries:      entries,
	}
}

func newEntry(entry *atom.Entry) Entry {
	var source *Feed
	if entry.Source != nil {
		source = NewFeed(entry.Source)
	}

	return Entry{
		Title:        newTextConstruct(entry.Title),
		ID:           entry.ID,
		Updated:      entry.Updated,
		Authors:      newPersons(entry.Authors),
		Contributors: newPersons(entry.Contributors),
		Links:        newLinks(entry.Links),
		Categories:   newCategories(entry.Categories),
		Published:    entry.Published,
		Rights:       newOptionalTextConstruct(entry.Rights),
		Summary:      newOptionalTextConstruct(entry.Summary),
		Content:      newOptionalTextConstruct(entry.Content),
		Source:       source,
	}
}

func newTextConstruct(tc atom.TextConstruct) TextConstruct {
	return TextConstruct{
		Type:  string(tc.Type),
		Lang:  tc.Lang,
		Value: tc.Value,
	}
}

func newOptionalTextConstruct(tc *atom.TextConstruct) *TextConstruct {
	if tc == nil {
		return nil
	}
	mapped := newTextConstruct(*tc)
	return &mapped
}

func newPersons(persons []atom.Person) []Person {
	mapped := make([]Person, 0, len(persons))
	for _, p := range persons {
		mapped = append(mapped, Person{Name: p.Name, URI: p.URI, Email: p.Email})
	}
	return mapped
}

func newLinks(links []atom.Link) []Link {
	mapped := make([]Link, 0, len(links))
	for _, l := range links {
		mapped = append(mapped, Link{
			Href:     l.Href,
			Rel:      l.Rel,
			Type:     l.Type,
			HrefLang: l.HrefLang,
			Title:    l.Title,
			Length:   l.Length,
		})
	}
	return mapped
}

func newCategories(categories []atom.Category) []Category {
	mapped := make([]Category, 0, len(categories))
	for _, c := range categories {
		mapped = append(mapped, Category{Term: c.Term, Scheme: c.Scheme, Label: c.Label})
	}
	return mapped
}

func newGenerator(g *atom.Generator) *Generator {
	if g == nil {
		return nil
	}
	return &Generator{Name: g.Name, URI: g.URI, Version: g.Version}
}
