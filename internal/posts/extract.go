package posts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// record is one decoded provider object. Numbers are json.Number.
type record map[string]any

func asRecord(v any) (record, bool) {
	m, ok := v.(map[string]any)
	return record(m), ok
}

// lookup walks a dotted key path such as "author.displayName".
func (r record) lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func (r record) object(path string) (record, bool) {
	v, ok := r.lookup(path)
	if !ok {
		return nil, false
	}
	return asRecord(v)
}

// textExtractor yields a present, non-blank string for a field.
type textExtractor func(record) (string, bool)

// countExtractor yields a present numeric value for a stat.
type countExtractor func(record) (int, bool)

// text reads a string or number at path.
func text(path string) textExtractor {
	return func(r record) (string, bool) {
		v, ok := r.lookup(path)
		if !ok {
			return "", false
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) == "" {
				return "", false
			}
			return t, true
		case json.Number:
			return t.String(), true
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		}
		return "", false
	}
}

// kept reads a string at path as-is. Only an absent or empty value is missing.
func kept(path string) textExtractor {
	return func(r record) (string, bool) {
		v, ok := r.lookup(path)
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok && s != ""
	}
}

// uriTail reads the last path segment of an AT URI or URL at path.
func uriTail(path string) textExtractor {
	return func(r record) (string, bool) {
		s, ok := text(path)(r)
		if !ok {
			return "", false
		}
		s = strings.TrimRight(s, "/")
		if i := strings.LastIndex(s, "/"); i >= 0 {
			s = s[i+1:]
		}
		return s, s != ""
	}
}

// count reads a number or numeric string at path. Negative values clamp to 0.
func count(path string) countExtractor {
	return func(r record) (int, bool) {
		v, ok := r.lookup(path)
		if !ok {
			return 0, false
		}
		var f float64
		switch t := v.(type) {
		case json.Number:
			parsed, err := t.Float64()
			if err != nil {
				return 0, false
			}
			f = parsed
		case float64:
			f = t
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return 0, false
			}
			f = parsed
		default:
			return 0, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if f < 0 {
			return 0, true
		}
		if f >= math.MaxInt {
			return math.MaxInt, true
		}
		return int(f), true
	}
}

func firstText(r record, chain []textExtractor) string {
	for _, extract := range chain {
		if s, ok := extract(r); ok {
			return s
		}
	}
	return ""
}

func firstCount(r record, chain []countExtractor) int {
	for _, extract := range chain {
		if n, ok := extract(r); ok {
			return n
		}
	}
	return 0
}

func texts(paths ...string) []textExtractor {
	chain := make([]textExtractor, 0, len(paths))
	for _, p := range paths {
		chain = append(chain, text(p))
	}
	return chain
}

func counts(paths ...string) []countExtractor {
	chain := make([]countExtractor, 0, len(paths))
	for _, p := range paths {
		chain = append(chain, count(p))
	}
	return chain
}

// fieldMap is the extractor chain per canonical field for one provider.
type fieldMap struct {
	id         []textExtractor
	content    []textExtractor
	timestamp  []textExtractor
	authorName []textExtractor
	handle     []textExtractor
	avatar     []textExtractor
	likes      []countExtractor
	comments   []countExtractor
	shares     []countExtractor
}

// Canonical keys appear in every chain so canonical input maps onto itself.
var blueskyFields = fieldMap{
	id:         append(texts("id"), uriTail("uri"), text("cid")),
	content:    texts("content", "text", "record.text", "body"),
	timestamp:  texts("timestamp", "created", "createdAt", "created_at", "record.createdAt", "indexedAt"),
	authorName: texts("author.displayName", "author.display_name", "author.name", "displayName"),
	handle:     texts("author.handle", "author", "handle"),
	avatar:     texts("author.avatarUrl", "author.avatar", "avatarUrl", "avatar"),
	likes:      counts("stats.likes", "likes", "likeCount", "like_count"),
	comments:   counts("stats.comments", "replies", "replyCount", "reply_count"),
	shares:     counts("stats.shares", "reposts", "repostCount", "repost_count"),
}

// canonicalFields reads the canonical shape back without trimming, so
// normalizing a canonical value leaves it unchanged.
var canonicalFields = fieldMap{
	id:         []textExtractor{kept("id")},
	content:    []textExtractor{kept("content")},
	timestamp:  []textExtractor{kept("timestamp")},
	authorName: []textExtractor{kept("author.name")},
	handle:     []textExtractor{kept("author.handle")},
	avatar:     []textExtractor{kept("author.avatarUrl")},
	likes:      counts("stats.likes"),
	comments:   counts("stats.comments"),
	shares:     counts("stats.shares"),
}

var facebookFields = fieldMap{
	id:         texts("id", "post_id", "postId"),
	content:    texts("content", "message", "text", "story", "description"),
	timestamp:  texts("timestamp", "created_time", "createdTime", "created", "time"),
	authorName: texts("author.displayName", "author.name", "from.name", "user.name", "author"),
	handle:     texts("author.handle", "author.username", "from.username", "user.username", "from.id", "author"),
	avatar:     texts("author.avatarUrl", "author.picture", "from.picture.data.url", "user.picture", "avatarUrl"),
	likes: counts("stats.likes", "likes", "likes.summary.total_count", "reactions.summary.total_count",
		"reaction_count", "reactions", "like_count", "likeCount"),
	comments: counts("stats.comments", "comments", "comments.summary.total_count", "comment_count", "commentCount"),
	shares:   counts("stats.shares", "shares", "shares.count", "share_count", "shareCount"),
}
