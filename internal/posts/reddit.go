package posts

import (
	"encoding/json"
	"strings"

	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	redditDefaultCommentLimit = 10

	redditDeletedName   = "[deleted]"
	redditDeletedHandle = "deleted"
	redditCommentKind   = "t1"
)

// NormalizeReddit maps a comments listing pair onto a Post and its top-level
// comments. Deleted comment authors are skipped.
func NormalizeReddit(thread models.RedditThreadResponse, limit int) (models.PostResponse, bool) {
	if len(thread) == 0 || len(thread[0].Data.Children) == 0 {
		return models.PostResponse{}, false
	}
	submission := thread[0].Data.Children[0].Data
	if submission.ID == "" {
		return models.PostResponse{}, false
	}

	post := models.Post{
		ID:        submission.ID,
		Author:    redditUser(submission.Author),
		Content:   submission.Title + "\n\n" + submission.Selftext,
		Timestamp: FormatTimestamp(submission.CreatedUTC.String()),
		Stats: models.PostStats{
			Likes:    redditCount(submission.Score, submission.Ups),
			Comments: redditCount(submission.NumComments),
			Shares:   0,
		},
	}

	if limit <= 0 {
		limit = redditDefaultCommentLimit
	}
	comments := []models.Comment{}
	if len(thread) > 1 {
		for _, child := range thread[1].Data.Children {
			if len(comments) >= limit {
				break
			}
			if child.Kind != redditCommentKind {
				continue
			}
			c := child.Data
			if c.Author == "" || c.Author == redditDeletedName {
				continue
			}
			comment := models.Comment{
				ID:        c.ID,
				Author:    redditUser(c.Author),
				Content:   c.Body,
				Timestamp: FormatTimestamp(c.CreatedUTC.String()),
			}
			if comment.ID == "" {
				comment.ID = FallbackCommentID(comment.Author.Handle, comment.Content, comment.Timestamp)
			}
			comments = append(comments, comment)
		}
	}

	return models.PostResponse{Post: post, Comments: comments}, true
}

func redditUser(author string) models.User {
	if strings.TrimSpace(author) == "" || author == redditDeletedName {
		return models.User{Name: redditDeletedName, Handle: redditDeletedHandle, AvatarURL: AvatarURL(redditDeletedHandle)}
	}
	return models.User{Name: author, Handle: author, AvatarURL: AvatarURL(author)}
}

// redditCount returns the first usable number, clamped at zero.
func redditCount(values ...json.Number) int {
	for _, v := range values {
		if n, ok := count("n")(record{"n": v}); ok {
			return n
		}
	}
	return 0
}
