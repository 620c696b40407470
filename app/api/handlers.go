package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkrutov/atom-comb/app/atom"
	"github.com/mkrutov/atom-comb/app/metrics"
)

func NewHandler(fetcher FetcherInterface, collector *metrics.Collector, version string) *Handler {
	return &Handler{
		fetcher:   fetcher,
		collector: collector,
		version:   version,
		startedAt: time.Now(),
	}
}

// ParseFeed parses an Atom document posted as the request body and
// responds with the feed as JSON.
func (h *Handler) ParseFeed(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body is empty"})
		return
	}

	feed, err := h.parse(data)
	if err != nil {
		slog.Error("Parse failed", "size", len(data), "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewFeed(feed))
}

// GetFeed fetches the Atom document at the url query parameter, parses
// it and responds with the feed as JSON.
func (h *Handler) GetFeed(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "url query parameter is required"})
		return
	}

	data, err := h.fetcher.Run(c.Request.Context(), url)
	if err != nil {
		h.collector.RecordFetchFailure()
		slog.Error("Fetch failed", "url", url, "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	h.collector.RecordFetchSuccess()

	feed, err := h.parse(data)
	if err != nil {
		slog.Error("Parse failed", "url", url, "error", err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewFeed(feed))
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) parse(data []byte) (*atom.Feed, error) {
	start := time.Now()
	feed, err := atom.ParseBytes(data)
	h.collector.RecordParseDuration(time.Since(start))

	if err != nil {
		h.collector.RecordParseFailure(errorKind(err))
		return nil, err
	}

	h.collector.RecordParseSuccess()
	return feed, nil
}

// errorKind labels a parse error for metrics.
func errorKind(err error) string {
	var (
		syntaxErr  *atom.XMLSyntaxError
		missingEl  *atom.MissingElementError
		emptyEl    *atom.EmptyElementError
		missingAt  *atom.MissingAttributeError
		textType   *atom.InvalidTextTypeError
		timestamp  *atom.InvalidTimestampError
		integerErr *atom.InvalidIntegerError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return "xml_syntax"
	case errors.As(err, &missingEl):
		return "missing_element"
	case errors.As(err, &emptyEl):
		return "empty_element"
	case errors.As(err, &missingAt):
		return "missing_attribute"
	case errors.As(err, &textType):
		return "invalid_text_type"
	case errors.As(err, &timestamp):
		return "invalid_timestamp"
	case errors.As(err, &integerErr):
		return "invalid_integer"
	}
	return "other"
}
