// Package hotnews holds the hot-news payload types and the static list of
// selectable news sources.
//
// Payload values are immutable per fetch: every response replaces the
// previous one wholesale, so nothing here supports merging or patching.
package hotnews

// Item is one ranked entry. Rank is the 1-based ordinal assigned by the
// server and is only ever used as display text.
type Item struct {
	ID          string `json:"id" yaml:"id"`
	Source      string `json:"source" yaml:"source"`
	Rank        int    `json:"rank" yaml:"rank"`
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	PublishTime string `json:"publish_time,omitempty" yaml:"publish_time,omitempty"`
}

// SourceGroup is one source's ranked list. Items arrive in server order and
// must be rendered in that order.
type SourceGroup struct {
	Source     string `json:"source" yaml:"source"`
	SourceName string `json:"source_name" yaml:"source_name"`
	Items      []Item `json:"items" yaml:"items"`
}

// Response is the top-level payload of GET /api/hot-news.
type Response struct {
	UpdatedAt string        `json:"updated_at" yaml:"updated_at"`
	Sources   []SourceGroup `json:"sources" yaml:"sources"`
}

// Empty reports whether there is nothing to render.
// A nil response counts as empty.
func (r *Response) Empty() bool {
	return r == nil || len(r.Sources) == 0
}

// ItemCount returns the total number of items across all groups.
func (r *Response) ItemCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, g := range r.Sources {
		n += len(g.Items)
	}
	return n
}

// Flatten returns all items in render order: groups in payload order, items
// in group order. No item is dropped, de-duplicated or re-sorted.
func (r *Response) Flatten() []Item {
	if r == nil {
		return nil
	}
	items := make([]Item, 0, r.ItemCount())
	for _, g := range r.Sources {
		items = append(items, g.Items...)
	}
	return items
}
