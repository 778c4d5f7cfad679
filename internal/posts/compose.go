package posts

import (
	"strings"

	"github.com/spacesedan/sentiscope/internal/models"
)

// ComposeText joins the post body and its comments into the text that is
// sent for analysis.
func ComposeText(resp models.PostResponse) string {
	contents := make([]string, 0, len(resp.Comments))
	for _, c := range resp.Comments {
		contents = append(contents, c.Content)
	}
	return resp.Post.Content + "\n\n" + strings.Join(contents, "\n\n")
}
