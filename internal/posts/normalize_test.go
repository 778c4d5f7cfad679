package posts

import (
	"math"
	"reflect"
	"testing"

	"github.com/spacesedan/sentiscope/internal/models"
)

func mustDecode(t *testing.T, body string) any {
	t.Helper()
	payload, err := decodePayload([]byte(body))
	if err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return payload
}

func TestUnwrap(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantOK      bool
		wantReplies int
	}{
		{"empty posts", `{"posts":[]}`, false, 0},
		{"post without id", `{"posts":[{}]}`, false, 0},
		{"scalar", `"hello"`, false, 0},
		{"bare array", `[{"id":"1"}]`, true, 0},
		{"post envelope", `{"post":{"id":"1"},"comments":[{"text":"a"},{"text":"b"}]}`, true, 2},
		{"own replies", `{"data":{"uri":"at://did/app.bsky.feed.post/1","replies":[{"text":"a"}]}}`, true, 1},
		{"thread", `{"thread":{"post":{"cid":"x"},"replies":[{"post":{"text":"a"}}]}}`, true, 1},
		{"facebook comments", `{"data":[{"id":"9","comments":{"data":[{"message":"a"}]}}]}`, true, 1},
		{"first object in array", `{"results":[null,{"id":"2"}]}`, true, 0},
	}

	for _, c := range cases {
		_, replies, ok := unwrap(mustDecode(t, c.body))
		if ok != c.wantOK {
			t.Errorf("%s: expected ok=%v, got %v", c.name, c.wantOK, ok)
			continue
		}
		if len(replies) != c.wantReplies {
			t.Errorf("%s: expected %d replies, got %d", c.name, c.wantReplies, len(replies))
		}
	}
}

func TestNormalizeBlueskyPartialStats(t *testing.T) {
	payload := mustDecode(t, `{"posts":[{"id":"3kxyz","text":"hello world","author":"alice.bsky.social","likes":5,"created":"2024-01-02T03:04:05Z"}]}`)

	resp, ok := NormalizeBluesky(payload, BlueskySearch{Query: "hello"}, 0)
	if !ok {
		t.Fatalf("expected a post")
	}
	want := models.Post{
		ID: "3kxyz",
		Author: models.User{
			Name:      "alice.bsky.social",
			Handle:    "alice.bsky.social",
			AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=alice.bsky.social",
		},
		Content:   "hello world",
		Timestamp: "1/2/2024, 3:04:05 AM",
		Stats:     models.PostStats{Likes: 5, Comments: 0, Shares: 0},
	}
	if !reflect.DeepEqual(resp.Post, want) {
		t.Fatalf("expected %+v, got %+v", want, resp.Post)
	}
	if resp.Comments == nil || len(resp.Comments) != 0 {
		t.Fatalf("expected empty comment list, got %#v", resp.Comments)
	}
}

func TestNormalizeBlueskyPost(t *testing.T) {
	payload := mustDecode(t, `{
		"post": {
			"uri": "at://did:plc:abc/app.bsky.feed.post/3kxyz",
			"author": {"handle": "alice.bsky.social", "displayName": "Alice", "avatar": "https://cdn.bsky.app/a.jpg"},
			"record": {"text": "shipping today", "createdAt": "2024-05-06T07:08:09.123Z"},
			"likeCount": "12",
			"replyCount": -3,
			"repostCount": "many"
		},
		"replies": [
			{"post": {"uri": "at://did:plc:def/app.bsky.feed.post/r1", "author": {"handle": "bob.bsky.social"}, "record": {"text": "congrats"}}},
			{"text": "no id here", "author": {"handle": "carol.bsky.social", "name": "Carol"}},
			{"text": "third"}
		]
	}`)

	resp, ok := NormalizeBluesky(payload, BlueskyPost{}, 2)
	if !ok {
		t.Fatalf("expected a post")
	}
	p := resp.Post
	if p.ID != "3kxyz" || p.Content != "shipping today" || p.Timestamp != "5/6/2024, 7:08:09 AM" {
		t.Fatalf("unexpected post %+v", p)
	}
	if p.Author.Name != "Alice" || p.Author.AvatarURL != "https://cdn.bsky.app/a.jpg" {
		t.Fatalf("unexpected author %+v", p.Author)
	}
	if p.Stats != (models.PostStats{Likes: 12, Comments: 0, Shares: 0}) {
		t.Fatalf("unexpected stats %+v", p.Stats)
	}

	if len(resp.Comments) != 2 {
		t.Fatalf("expected comments capped at 2, got %d", len(resp.Comments))
	}
	if resp.Comments[0].ID != "r1" || resp.Comments[0].Author.Name != "bob.bsky.social" {
		t.Fatalf("unexpected first comment %+v", resp.Comments[0])
	}
	second := resp.Comments[1]
	if second.ID != FallbackCommentID("carol.bsky.social", "no id here", "") || second.Author.Name != "Carol" {
		t.Fatalf("unexpected second comment %+v", second)
	}
}

func TestNormalizeSearchIgnoresReplies(t *testing.T) {
	payload := mustDecode(t, `{"posts":[{"id":"1","text":"x","replies":[{"text":"a"}]}]}`)
	resp, ok := NormalizeBluesky(payload, BlueskySearch{Query: "x"}, 0)
	if !ok || len(resp.Comments) != 0 {
		t.Fatalf("search results never carry comments: %+v", resp)
	}
}

func TestNormalizeFacebook(t *testing.T) {
	payload := mustDecode(t, `{
		"data": {
			"id": "123_456",
			"message": "Big news",
			"created_time": "2024-01-02T15:04:05+0000",
			"from": {"name": "Some Page", "id": "123"},
			"reactions": {"summary": {"total_count": 40}},
			"shares": {"count": 7},
			"comments": {
				"data": [{"id": "c1", "message": "nice", "from": {"name": "Dan"}, "created_time": "2024-01-02T16:00:00+0000"}],
				"summary": {"total_count": 9}
			}
		}
	}`)

	resp, ok := NormalizeFacebook(payload, FacebookPost{}, 0)
	if !ok {
		t.Fatalf("expected a post")
	}
	p := resp.Post
	if p.ID != "123_456" || p.Content != "Big news" || p.Timestamp != "1/2/2024, 3:04:05 PM" {
		t.Fatalf("unexpected post %+v", p)
	}
	if p.Author.Name != "Some Page" || p.Author.Handle != "123" {
		t.Fatalf("unexpected author %+v", p.Author)
	}
	if p.Stats != (models.PostStats{Likes: 40, Comments: 9, Shares: 7}) {
		t.Fatalf("unexpected stats %+v", p.Stats)
	}
	if len(resp.Comments) != 1 || resp.Comments[0].Content != "nice" || resp.Comments[0].Author.Name != "Dan" {
		t.Fatalf("unexpected comments %+v", resp.Comments)
	}
}

func TestNormalizeUnknownAuthor(t *testing.T) {
	resp, ok := NormalizeFacebook(mustDecode(t, `{"id":"1","message":"anon"}`), FacebookPost{}, 0)
	if !ok {
		t.Fatalf("expected a post")
	}
	if resp.Post.Author.Name != "Unknown" || resp.Post.Author.AvatarURL != AvatarURL("") {
		t.Fatalf("unexpected author %+v", resp.Post.Author)
	}
}

func TestFallbackCommentIDIsDeterministic(t *testing.T) {
	a := FallbackCommentID("bob", "hi", "1/2/2024, 3:04:05 AM")
	b := FallbackCommentID("bob", "hi", "1/2/2024, 3:04:05 AM")
	c := FallbackCommentID("bob", "hi!", "1/2/2024, 3:04:05 AM")
	if a != b {
		t.Fatalf("same input produced %s and %s", a, b)
	}
	if a == c {
		t.Fatalf("different input produced the same id")
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[string]string{
		"2024-01-02T03:04:05Z":        "1/2/2024, 3:04:05 AM",
		"2024-01-02T03:04:05.5-05:00": "1/2/2024, 8:04:05 AM",
		"2024-01-02T15:04:05+0000":    "1/2/2024, 3:04:05 PM",
		"2024-01-02T15:04:05":         "1/2/2024, 3:04:05 PM",
		"1700000000":                  "11/14/2023, 10:13:20 PM",
		"1700000000.0":                "11/14/2023, 10:13:20 PM",
		"1/2/2024, 3:04:05 AM":        "1/2/2024, 3:04:05 AM",
		"yesterday":                   "yesterday",
		"":                            "",
	}
	for in, want := range cases {
		if got := FormatTimestamp(in); got != want {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenormalizeIsNoOp(t *testing.T) {
	payload := mustDecode(t, `{
		"post": {"uri": "at://x/app.bsky.feed.post/abc", "text": "hello", "author": {"handle": "h", "displayName": "H"}, "likes": 3, "reposts": 1, "created": "2024-01-02T03:04:05Z"},
		"comments": [{"text": "first", "author": "z"}, {"id": "c2", "text": "second", "createdAt": "1700000000"}]
	}`)
	resp, ok := NormalizeBluesky(payload, BlueskyPost{}, 0)
	if !ok {
		t.Fatalf("expected a post")
	}

	again := NormalizePostResponse(resp)
	if !reflect.DeepEqual(resp, again) {
		t.Fatalf("renormalization changed the response:\nfirst:  %+v\nsecond: %+v", resp, again)
	}

	comment := models.Comment{ID: "x", Author: models.User{Name: "Unknown", Handle: "", AvatarURL: AvatarURL("")}, Content: "c", Timestamp: "not a date"}
	if got := NormalizeCanonicalComment(comment); got != comment {
		t.Fatalf("comment changed: %+v", got)
	}
}

func TestNormalizeReddit(t *testing.T) {
	thread := models.RedditThreadResponse{
		{Data: models.RedditListingData{Children: []models.RedditAPIChild{{Kind: "t3", Data: models.RedditAPIChildData{
			ID: "abc", Author: "gopher", Title: "Title", Selftext: "Body", Score: "42", NumComments: "3", CreatedUTC: "1700000000.0",
		}}}}},
		{Data: models.RedditListingData{Children: []models.RedditAPIChild{
			{Kind: "t1", Data: models.RedditAPIChildData{ID: "c1", Author: "one", Body: "first"}},
			{Kind: "t1", Data: models.RedditAPIChildData{ID: "c2", Author: "[deleted]", Body: "[removed]"}},
			{Kind: "t1", Data: models.RedditAPIChildData{ID: "c3", Author: "three", Body: "third"}},
			{Kind: "more", Data: models.RedditAPIChildData{ID: "m"}},
		}}},
	}

	resp, ok := NormalizeReddit(thread, 0)
	if !ok {
		t.Fatalf("expected a post")
	}
	want := models.Post{
		ID:        "abc",
		Author:    models.User{Name: "gopher", Handle: "gopher", AvatarURL: AvatarURL("gopher")},
		Content:   "Title\n\nBody",
		Timestamp: "11/14/2023, 10:13:20 PM",
		Stats:     models.PostStats{Likes: 42, Comments: 3, Shares: 0},
	}
	if !reflect.DeepEqual(resp.Post, want) {
		t.Fatalf("expected %+v, got %+v", want, resp.Post)
	}
	if len(resp.Comments) != 2 || resp.Comments[0].ID != "c1" || resp.Comments[1].ID != "c3" {
		t.Fatalf("unexpected comments %+v", resp.Comments)
	}

	limited, _ := NormalizeReddit(thread, 1)
	if len(limited.Comments) != 1 {
		t.Fatalf("expected limit 1, got %d", len(limited.Comments))
	}

	if _, ok := NormalizeReddit(models.RedditThreadResponse{}, 0); ok {
		t.Fatalf("empty listing must not produce a post")
	}
}

func TestComposeText(t *testing.T) {
	resp := models.PostResponse{
		Post:     models.Post{Content: "post"},
		Comments: []models.Comment{{Content: "a"}, {Content: "b"}},
	}
	if got := ComposeText(resp); got != "post\n\na\n\nb" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestNormalizeClampsHugeCounts(t *testing.T) {
	payload := mustDecode(t, `{"posts":[{"id":"1","likes":1e20,"replies":"1e300","reposts":-4}]}`)

	resp, ok := NormalizeBluesky(payload, BlueskySearch{Query: "big"}, 0)
	if !ok {
		t.Fatalf("expected a post")
	}
	want := models.PostStats{Likes: math.MaxInt, Comments: math.MaxInt, Shares: 0}
	if resp.Post.Stats != want {
		t.Fatalf("expected %+v, got %+v", want, resp.Post.Stats)
	}
}

func TestRenormalizeKeepsBlankStrings(t *testing.T) {
	post := models.Post{
		ID:        "p1",
		Author:    models.User{Name: "  ", Handle: "h", AvatarURL: AvatarURL("h")},
		Content:   "   ",
		Timestamp: "not a date",
	}
	if got := NormalizeCanonicalPost(post); got != post {
		t.Fatalf("post changed: %+v", got)
	}

	comment := models.Comment{
		ID:        "c1",
		Author:    models.User{Name: "  ", Handle: "h", AvatarURL: AvatarURL("h")},
		Content:   " ",
		Timestamp: "not a date",
	}
	if got := NormalizeCanonicalComment(comment); got != comment {
		t.Fatalf("comment changed: %+v", got)
	}
}
