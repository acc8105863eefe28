package panel

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/hotnews/internal/fetch"
	"github.com/abelbrown/hotnews/internal/hotnews"
)

// FetchResult is sent when one fetch attempt settles, successfully or not.
// Seq identifies the attempt; it is used for correlation only and never to
// discard a result.
type FetchResult struct {
	Seq      uint64
	SourceID string
	Data     *hotnews.Response
	Err      error
}

// Fetcher is what the panel needs from the network layer.
type Fetcher interface {
	Fetch(ctx context.Context, sourceID string) (*hotnews.Response, error)
}

var _ Fetcher = (*fetch.Fetcher)(nil)

// FetchWith adapts a Fetcher to Config.Fetch. Requests are never cancelled:
// each runs on a background context until the transport gives up.
func FetchWith(f Fetcher) func(seq uint64, sourceID string) tea.Cmd {
	return func(seq uint64, sourceID string) tea.Cmd {
		return func() tea.Msg {
			data, err := f.Fetch(context.Background(), sourceID)
			return FetchResult{Seq: seq, SourceID: sourceID, Data: data, Err: err}
		}
	}
}
