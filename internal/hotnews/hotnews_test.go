package hotnews

import (
	"encoding/json"
	"testing"
)

func TestDefaultSourcesAllFirst(t *testing.T) {
	opts := DefaultSources()
	if len(opts) != 6 {
		t.Fatalf("expected 6 options, got %d", len(opts))
	}
	if opts[0].ID != AllSourceID {
		t.Errorf("first option should be %q, got %q", AllSourceID, opts[0].ID)
	}

	seen := make(map[string]bool)
	for _, o := range opts {
		if seen[o.ID] {
			t.Errorf("duplicate option id %q", o.ID)
		}
		seen[o.ID] = true
		if o.Name == "" {
			t.Errorf("option %q has no display name", o.ID)
		}
	}
}

func TestSourcesParamAll(t *testing.T) {
	got := SourcesParam(AllSourceID, DefaultSources())
	want := "cls,wallstreetcn,xueqiu,eastmoney,yicai"
	if got != want {
		t.Errorf("SourcesParam(all) = %q, want %q", got, want)
	}
}

func TestSourcesParamConcrete(t *testing.T) {
	for _, o := range DefaultSources()[1:] {
		if got := SourcesParam(o.ID, DefaultSources()); got != o.ID {
			t.Errorf("SourcesParam(%q) = %q, want %q", o.ID, got, o.ID)
		}
	}
}

func TestSourcesParamUnknownPassesThrough(t *testing.T) {
	if got := SourcesParam("nope", DefaultSources()); got != "nope" {
		t.Errorf("unknown id should pass through, got %q", got)
	}
}

func TestNameOf(t *testing.T) {
	opts := DefaultSources()
	if got := NameOf(opts, "xueqiu"); got != "雪球" {
		t.Errorf("NameOf(xueqiu) = %q", got)
	}
	if got := NameOf(opts, "missing"); got != "missing" {
		t.Errorf("NameOf(missing) = %q, want fallback to id", got)
	}
	if IndexOf(opts, "yicai") != 5 {
		t.Errorf("IndexOf(yicai) = %d, want 5", IndexOf(opts, "yicai"))
	}
}

func TestResponseDecodeKeepsOrder(t *testing.T) {
	body := `{
		"updated_at": "2026-10-19T08:00:00Z",
		"sources": [
			{"source": "xueqiu", "source_name": "雪球", "items": [
				{"id": "x2", "source": "xueqiu", "rank": 2, "title": "second"},
				{"id": "x1", "source": "xueqiu", "rank": 1, "title": "first", "publish_time": "08:00"}
			]},
			{"source": "cls", "source_name": "财联社", "items": []}
		]
	}`

	var resp Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Empty() {
		t.Fatal("response should not be empty")
	}
	if resp.Sources[0].Source != "xueqiu" || resp.Sources[1].Source != "cls" {
		t.Errorf("group order not preserved: %+v", resp.Sources)
	}

	// Items are trusted as given, not re-sorted by rank.
	flat := resp.Flatten()
	if len(flat) != 2 || flat[0].ID != "x2" || flat[1].ID != "x1" {
		t.Errorf("item order not preserved: %+v", flat)
	}
	if flat[0].PublishTime != "" || flat[1].PublishTime != "08:00" {
		t.Errorf("publish_time not decoded as optional: %+v", flat)
	}
}

func TestNilResponse(t *testing.T) {
	var r *Response
	if !r.Empty() {
		t.Error("nil response should be empty")
	}
	if r.ItemCount() != 0 || r.Flatten() != nil {
		t.Error("nil response should have no items")
	}
}
