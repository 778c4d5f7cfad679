package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	TimestampLayout = "1/2/2006, 3:04:05 PM"

	unknownAuthor   = "Unknown"
	avatarURLFormat = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"

	maxEnvelopeDepth = 8
)

// envelopeKeys are followed in order when an object is not itself a post.
var envelopeKeys = []string{"post", "data", "result", "posts", "items", "thread", "results"}

// replyKeys name the reply arrays kept next to a post candidate.
var replyKeys = []string{"replies", "comments", "comments.data"}

var identifierKeys = []string{"id", "uri", "cid"}

// commentNamespace seeds the deterministic ids of replies that have none.
var commentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spacesedan/sentiscope/comments"))

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// unwrap finds the post candidate in a decoded aggregator payload along with
// the nearest reply array. ok is false when no identified candidate exists.
func unwrap(payload any) (candidate record, replies []any, ok bool) {
	var parents []record
	cur := payload

	for depth := 0; depth < maxEnvelopeDepth; depth++ {
		switch v := cur.(type) {
		case []any:
			next, found := firstObject(v)
			if !found {
				return nil, nil, false
			}
			cur = next

		case map[string]any:
			r := record(v)
			if hasIdentifier(r) {
				for _, scope := range append([]record{r}, reversed(parents)...) {
					if list, found := replyList(scope); found {
						return r, list, true
					}
				}
				return r, nil, true
			}

			next, found := followEnvelope(r)
			if !found {
				return nil, nil, false
			}
			parents = append(parents, r)
			cur = next

		default:
			return nil, nil, false
		}
	}
	return nil, nil, false
}

func firstObject(list []any) (map[string]any, bool) {
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

func followEnvelope(r record) (any, bool) {
	for _, key := range envelopeKeys {
		switch v := r[key].(type) {
		case map[string]any, []any:
			return v, true
		}
	}
	return nil, false
}

func hasIdentifier(r record) bool {
	for _, key := range identifierKeys {
		if _, ok := text(key)(r); ok {
			return true
		}
	}
	return false
}

func replyList(r record) ([]any, bool) {
	for _, key := range replyKeys {
		if v, ok := r.lookup(key); ok {
			if list, ok := v.([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

func reversed(rs []record) []record {
	out := make([]record, len(rs))
	for i, r := range rs {
		out[len(rs)-1-i] = r
	}
	return out
}

// normalizePost maps one provider object onto the canonical Post.
func normalizePost(r record, fields fieldMap) models.Post {
	return models.Post{
		ID:        firstText(r, fields.id),
		Author:    normalizeUser(r, fields),
		Content:   firstText(r, fields.content),
		Timestamp: FormatTimestamp(firstText(r, fields.timestamp)),
		Stats: models.PostStats{
			Likes:    firstCount(r, fields.likes),
			Comments: firstCount(r, fields.comments),
			Shares:   firstCount(r, fields.shares),
		},
	}
}

// normalizeComments maps reply entries onto Comments; entries wrapped as
// {post: {...}} are unwrapped first. limit <= 0 keeps all of them.
func normalizeComments(entries []any, fields fieldMap, limit int) []models.Comment {
	comments := make([]models.Comment, 0, len(entries))
	for _, entry := range entries {
		if limit > 0 && len(comments) >= limit {
			break
		}
		r, ok := asRecord(entry)
		if !ok {
			continue
		}
		if inner, ok := r.object("post"); ok && !hasIdentifier(r) {
			r = inner
		}
		comments = append(comments, normalizeComment(r, fields))
	}
	return comments
}

func normalizeComment(r record, fields fieldMap) models.Comment {
	c := models.Comment{
		Author:    normalizeUser(r, fields),
		Content:   firstText(r, fields.content),
		Timestamp: FormatTimestamp(firstText(r, fields.timestamp)),
	}
	c.ID = firstText(r, fields.id)
	if c.ID == "" {
		c.ID = FallbackCommentID(c.Author.Handle, c.Content, c.Timestamp)
	}
	return c
}

func normalizeUser(r record, fields fieldMap) models.User {
	handle := firstText(r, fields.handle)
	name := firstText(r, fields.authorName)
	if name == "" {
		name = handle
	}
	if name == "" {
		name = unknownAuthor
	}
	avatar := firstText(r, fields.avatar)
	if avatar == "" {
		avatar = AvatarURL(handle)
	}
	return models.User{Name: name, Handle: handle, AvatarURL: avatar}
}

// AvatarURL is the generated placeholder avatar for handle.
func AvatarURL(handle string) string {
	return fmt.Sprintf(avatarURLFormat, url.QueryEscape(handle))
}

// FallbackCommentID derives a stable id from a reply's visible fields.
func FallbackCommentID(handle, content, timestamp string) string {
	return uuid.NewSHA1(commentNamespace, []byte(handle+"|"+content+"|"+timestamp)).String()
}

// FormatTimestamp renders provider timestamps as "1/2/2006, 3:04:05 PM" in
// UTC. Values that do not parse, including already formatted ones, are
// returned unchanged.
func FormatTimestamp(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(TimestampLayout)
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil && secs > 0 {
		whole := int64(secs)
		nanos := int64((secs - float64(whole)) * float64(time.Second))
		return time.Unix(whole, nanos).UTC().Format(TimestampLayout)
	}
	return raw
}

// NormalizeBluesky maps a decoded aggregator payload for a Bluesky post or
// search. Replies are only read when the source exposes them.
func NormalizeBluesky(payload any, src Source, limit int) (models.PostResponse, bool) {
	return normalizeAggregated(payload, src, blueskyFields, limit)
}

func NormalizeFacebook(payload any, src Source, limit int) (models.PostResponse, bool) {
	return normalizeAggregated(payload, src, facebookFields, limit)
}

func normalizeAggregated(payload any, src Source, fields fieldMap, limit int) (models.PostResponse, bool) {
	candidate, replies, ok := unwrap(payload)
	if !ok {
		return models.PostResponse{}, false
	}
	post := normalizePost(candidate, fields)
	if post.ID == "" {
		return models.PostResponse{}, false
	}

	comments := []models.Comment{}
	if src.CommentsSupported() {
		comments = normalizeComments(replies, fields, limit)
	}
	return models.PostResponse{Post: post, Comments: comments}, true
}

// NormalizePostResponse re-applies normalization to a canonical response.
func NormalizePostResponse(resp models.PostResponse) models.PostResponse {
	out := models.PostResponse{
		Post:     NormalizeCanonicalPost(resp.Post),
		Comments: make([]models.Comment, 0, len(resp.Comments)),
	}
	for _, c := range resp.Comments {
		out.Comments = append(out.Comments, NormalizeCanonicalComment(c))
	}
	return out
}

func NormalizeCanonicalPost(p models.Post) models.Post {
	return normalizePost(canonicalRecord(p), canonicalFields)
}

func NormalizeCanonicalComment(c models.Comment) models.Comment {
	return normalizeComment(canonicalRecord(c), canonicalFields)
}

// canonicalRecord round-trips a canonical value through JSON so it can be fed
// to the extractor chains.
func canonicalRecord(v any) record {
	b, err := json.Marshal(v)
	if err != nil {
		return record{}
	}
	payload, err := decodePayload(b)
	if err != nil {
		return record{}
	}
	r, _ := asRecord(payload)
	return r
}

func decodePayload(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
