// Package ui is the dashboard host: it embeds the hot-news panel, supplies
// its query-picking callback and owns the downstream query input.
package ui

import "github.com/abelbrown/hotnews/internal/store"

// QueryPicked is sent when the panel hands over an item title.
type QueryPicked struct {
	Query string
}

// QueryRecorded is sent after a query was written to history.
type QueryRecorded struct {
	Query store.Query
	Err   error
}

// HistoryLoaded carries the most recent queries.
type HistoryLoaded struct {
	Queries []store.Query
	Err     error
}

// URLOpened reports the outcome of opening an item link.
type URLOpened struct {
	URL string
	Err error
}
