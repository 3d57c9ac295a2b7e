package usecase

import "github.com/peterdokim/news-summary-ai/internal/domain"

// bodyPrefixRunes bounds how much of the body enters the embedding text.
const bodyPrefixRunes = 1500

// FilterArticles keeps successful results that carry a body and builds the
// embedding text for each. Both returned slices share the same order.
func FilterArticles(results []domain.ExtractionResult) ([]domain.Article, []string) {
	articles := make([]domain.Article, 0, len(results))
	texts := make([]string, 0, len(results))

	for _, res := range results {
		if !res.Success || res.Body == "" {
			continue
		}

		text := EmbeddingText(res.Title, res.Body)
		articles = append(articles, domain.Article{
			URL:           res.URL,
			Title:         res.Title,
			Body:          res.Body,
			EmbeddingText: text,
		})
		texts = append(texts, text)
	}
	return articles, texts
}

// EmbeddingText renders the labelled title/body text sent to the embedder.
func EmbeddingText(title, body string) string {
	return "[제목] " + title + "\n\n[본문] " + truncateRunes(body, bodyPrefixRunes)
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
