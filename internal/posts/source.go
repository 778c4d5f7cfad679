package posts

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/spacesedan/sentiscope/internal/apperr"
)

const (
	ProviderBluesky  = "bluesky"
	ProviderFacebook = "facebook"
	ProviderReddit   = "reddit"

	invalidURLMessage        = "Please enter a valid URL."
	unsupportedSourceMessage = "Unsupported source. Paste a Bluesky, Facebook or Reddit post URL, or search by topic."
)

// Source is the resolved target of a fetch. Exactly one variant is produced
// per request during dispatch.
type Source interface {
	Provider() string
	// CommentsSupported reports whether the provider exposes a reply list.
	CommentsSupported() bool
	source()
}

type BlueskyPost struct {
	URL   string
	Actor string
	RKey  string
}

type BlueskySearch struct {
	Query string
}

type FacebookPost struct {
	URL string
}

type RedditThread struct {
	URL       string
	Subreddit string
	PostID    string
}

func (BlueskyPost) Provider() string   { return ProviderBluesky }
func (BlueskySearch) Provider() string { return ProviderBluesky }
func (FacebookPost) Provider() string  { return ProviderFacebook }
func (RedditThread) Provider() string  { return ProviderReddit }

func (BlueskyPost) CommentsSupported() bool   { return true }
func (BlueskySearch) CommentsSupported() bool { return false }
func (FacebookPost) CommentsSupported() bool  { return true }
func (RedditThread) CommentsSupported() bool  { return true }

func (BlueskyPost) source()   {}
func (BlueskySearch) source() {}
func (FacebookPost) source()  {}
func (RedditThread) source()  {}

var (
	blueskyPostPath = regexp.MustCompile(`^/profile/([^/]+)/post/([^/]+)/?$`)
	redditPostPath  = regexp.MustCompile(`^/r/([^/]+)/comments/([A-Za-z0-9]+)(?:/|$)`)
	redditShortPath = regexp.MustCompile(`^/([A-Za-z0-9]+)/?$`)
)

var (
	blueskyHosts  = hostSet("bsky.app", "www.bsky.app")
	redditHosts   = hostSet("reddit.com", "www.reddit.com", "old.reddit.com", "new.reddit.com", "m.reddit.com")
	redditShort   = hostSet("redd.it", "www.redd.it")
	facebookHosts = hostSet(
		"facebook.com", "www.facebook.com", "m.facebook.com", "web.facebook.com", "mbasic.facebook.com",
		"fb.com", "www.fb.com", "m.fb.com",
		"fb.watch", "www.fb.watch",
	)
)

func hostSet(hosts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		set[h] = struct{}{}
	}
	return set
}

// ParseURL checks that raw is an absolute http(s) URL with a host.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperr.Validation(invalidURLMessage)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Hostname() == "" {
		return nil, apperr.Validation(invalidURLMessage)
	}
	return u, nil
}

// Classify resolves a post URL to a Source. Patterns are tried in priority
// order: Bluesky, Reddit, Reddit short links, Facebook.
func Classify(raw string) (Source, error) {
	u, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}
	normalized := u.String()
	host := strings.ToLower(u.Hostname())
	path := u.EscapedPath()

	if _, ok := blueskyHosts[host]; ok {
		if m := blueskyPostPath.FindStringSubmatch(path); m != nil {
			return BlueskyPost{URL: normalized, Actor: m[1], RKey: m[2]}, nil
		}
	}
	if _, ok := redditHosts[host]; ok {
		if m := redditPostPath.FindStringSubmatch(path); m != nil {
			return RedditThread{URL: normalized, Subreddit: m[1], PostID: m[2]}, nil
		}
	}
	if _, ok := redditShort[host]; ok {
		if m := redditShortPath.FindStringSubmatch(path); m != nil {
			return RedditThread{URL: normalized, PostID: m[1]}, nil
		}
	}
	if _, ok := facebookHosts[host]; ok && strings.Trim(path, "/") != "" {
		return FacebookPost{URL: normalized}, nil
	}

	return nil, apperr.UnsupportedSource(unsupportedSourceMessage)
}
