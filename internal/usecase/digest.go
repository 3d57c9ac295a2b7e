package usecase

import (
	"fmt"
	"strings"

	"github.com/peterdokim/news-summary-ai/internal/domain"
)

// FormatDigest renders a run result as plain text for terminals and chat.
func FormatDigest(res domain.Result) string {
	if res.IsEmpty() {
		reason := res.Empty
		if reason == domain.NotEmpty {
			reason = domain.EmptyNoValidArticles
		}
		return fmt.Sprintf("No results for %q (%s)\n", res.Keyword, reason)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%q: %d groups from %d articles\n\n", res.Keyword, len(res.Groups), res.Valid)
	for _, g := range res.Groups {
		fmt.Fprintf(&b, "[%d] %s (%d articles)\n", g.ClusterID+1, g.RepresentativeTitle, g.ArticleCount)
		if g.RepresentativeURL != "" {
			fmt.Fprintf(&b, "%s\n", g.RepresentativeURL)
		}
		fmt.Fprintf(&b, "%s\n", g.Summary)
		for _, title := range g.RelatedTitles {
			fmt.Fprintf(&b, "- %s\n", title)
		}
		b.WriteString("\n")
	}
	return b.String()
}
