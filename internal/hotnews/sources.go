package hotnews

import "strings"

// AllSourceID is the aggregate option meaning "every concrete source".
const AllSourceID = "all"

// DefaultItemCount is the per-source item count requested from the server.
const DefaultItemCount = 8

// SourceOption is one selectable source chip.
type SourceOption struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DefaultSources returns the compiled-in source options. The aggregate
// option is always first.
func DefaultSources() []SourceOption {
	return []SourceOption{
		{ID: AllSourceID, Name: "全部"},
		{ID: "cls", Name: "财联社"},
		{ID: "wallstreetcn", Name: "华尔街见闻"},
		{ID: "xueqiu", Name: "雪球"},
		{ID: "eastmoney", Name: "东方财富"},
		{ID: "yicai", Name: "第一财经"},
	}
}

// ConcreteIDs returns the ids of every option except the aggregate, in
// declared order.
func ConcreteIDs(options []SourceOption) []string {
	ids := make([]string, 0, len(options))
	for _, o := range options {
		if o.ID == AllSourceID {
			continue
		}
		ids = append(ids, o.ID)
	}
	return ids
}

// SourcesParam builds the value of the sources query parameter for a
// selected id. The aggregate expands to the comma-joined concrete ids;
// anything else passes through untouched, unknown ids included.
func SourcesParam(sourceID string, options []SourceOption) string {
	if sourceID == AllSourceID {
		return strings.Join(ConcreteIDs(options), ",")
	}
	return sourceID
}

// IndexOf returns the position of id in options, or -1.
func IndexOf(options []SourceOption, id string) int {
	for i, o := range options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// NameOf returns the display name for id, falling back to the id itself.
func NameOf(options []SourceOption, id string) string {
	if i := IndexOf(options, id); i >= 0 {
		return options[i].Name
	}
	return id
}
