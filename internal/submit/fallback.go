package submit

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildIssueLink returns a pre-filled new-issue deep link the user can
// open in a browser when the automated path is unavailable or fails. The
// title and body are exactly what the automated path would have posted,
// modulo URL-encoding, so nothing is lost on the degraded path.
func BuildIssueLink(owner, repo, title, body string, labels []string) string {
	v := url.Values{}
	v.Set("title", title)
	v.Set("body", body)
	if len(labels) > 0 {
		v.Set("labels", strings.Join(labels, ","))
	}
	return fmt.Sprintf("https://github.com/%s/%s/issues/new?%s", owner, repo, v.Encode())
}
