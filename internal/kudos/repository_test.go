package kudos

import (
	"strings"
	"testing"
)

func TestBuildFeedQueryDefaultSort(t *testing.T) {
	query, args := buildFeedQuery(FeedFilter{Sort: "date"})

	if !strings.Contains(query, "ORDER BY k.created_at DESC") {
		t.Errorf("expected date ordering, got:\n%s", query)
	}
	if strings.Contains(query, "WHERE") {
		t.Errorf("expected no search clause, got:\n%s", query)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildFeedQuerySenderSort(t *testing.T) {
	query, _ := buildFeedQuery(FeedFilter{Sort: "sender"})

	if !strings.Contains(query, "ORDER BY ap.first_name ASC") {
		t.Errorf("expected sender ordering, got:\n%s", query)
	}
}

func TestBuildFeedQueryEmojiSort(t *testing.T) {
	query, _ := buildFeedQuery(FeedFilter{Sort: "emoji"})

	if !strings.Contains(query, "ORDER BY k.emoji ASC") {
		t.Errorf("expected emoji ordering, got:\n%s", query)
	}
}

func TestBuildFeedQuerySearch(t *testing.T) {
	query, args := buildFeedQuery(FeedFilter{Sort: "date", Search: "great work"})

	if !strings.Contains(query, "k.message ILIKE $1") {
		t.Errorf("expected message search clause, got:\n%s", query)
	}
	if !strings.Contains(query, "ap.first_name ILIKE $1") || !strings.Contains(query, "ap.last_name ILIKE $1") {
		t.Errorf("expected author name search clauses, got:\n%s", query)
	}
	if len(args) != 1 || args[0] != "%great work%" {
		t.Errorf("expected single wildcard arg, got %v", args)
	}
}

func TestBuildFeedQueryBlankSearchIgnored(t *testing.T) {
	query, args := buildFeedQuery(FeedFilter{Sort: "date", Search: "   "})

	if strings.Contains(query, "WHERE") {
		t.Errorf("blank search must not add a clause, got:\n%s", query)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestApplyDefaultStyle(t *testing.T) {
	style := Style{}
	applyDefaultStyle(&style)

	if style.BackgroundColor != "red" || style.TextColor != "white" || style.Emoji != "thumbsup" {
		t.Errorf("unexpected defaults: %+v", style)
	}

	chosen := Style{BackgroundColor: "blue", TextColor: "black", Emoji: "rocket"}
	applyDefaultStyle(&chosen)

	if chosen.BackgroundColor != "blue" || chosen.TextColor != "black" || chosen.Emoji != "rocket" {
		t.Errorf("chosen style must not be overwritten: %+v", chosen)
	}
}

func TestPreviewTruncation(t *testing.T) {
	short := "well done"
	if got := preview(short); got != short {
		t.Errorf("short message must pass through, got %q", got)
	}

	long := strings.Repeat("a", previewMaxLen+50)
	got := preview(long)
	if len(got) != previewMaxLen+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("long message must be truncated with ellipsis, got len %d", len(got))
	}
}
