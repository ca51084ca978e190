package news

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"
)

// PlaceholderImageURL backs articles that ship without a thumbnail.
const PlaceholderImageURL = "https://placehold.co/600x400?text=News"

// Disclaimer is appended to the panel when synthetic articles are shown.
const Disclaimer = "Showing demo headlines. Live news is unavailable right now."

// View is the rendered state of the news panel. Exactly one of Articles or
// Message is meaningful; Fallback marks the synthetic set.
type View struct {
	Query    string    `json:"query"`
	Articles []Article `json:"articles,omitempty"`
	Message  string    `json:"message,omitempty"`
	Fallback bool      `json:"fallback"`
}

// Service fetches headlines and owns the degradation policy.
type Service struct {
	client *Client
	max    int
}

// NewService creates a news service. max bounds how many articles one
// refresh shows; values outside 5..10 are clamped.
func NewService(client *Client, max int) *Service {
	if max < 5 {
		max = 5
	}
	if max > 10 {
		max = 10
	}
	return &Service{client: client, max: max}
}

// Headlines returns the news panel view for a place-name query. A failed
// fetch substitutes the synthetic fallback set; an empty result is a
// message, not an error. This method never returns an error to callers.
func (s *Service) Headlines(ctx context.Context, query string) View {
	articles, err := s.client.Search(ctx, query, s.max)
	if err != nil {
		log.Printf("news fetch failed for %q: %v", query, err)
		return View{
			Query:    query,
			Articles: FallbackArticles(query),
			Fallback: true,
			Message:  Disclaimer,
		}
	}

	if len(articles) == 0 {
		return View{
			Query:   query,
			Message: fmt.Sprintf("No recent news found for %s.", query),
		}
	}

	if len(articles) > s.max {
		articles = articles[:s.max]
	}
	for i := range articles {
		if articles[i].ImageURL == "" {
			articles[i].ImageURL = PlaceholderImageURL
		}
	}
	return View{Query: query, Articles: articles}
}

// FallbackArticles builds the fixed synthetic set shown when the news
// upstream fails. Every entry carries the query in its title and links out
// to a web search for it.
func FallbackArticles(query string) []Article {
	now := time.Now()
	templates := []struct {
		title  string
		search string
	}{
		{"Breaking News: %s Tech Scene Booms", "%s technology news"},
		{"%s Weather Patterns Shift This Season", "%s weather report"},
		{"Travel Spotlight: 48 Hours in %s", "%s travel guide"},
		{"Local Business Roundup: What's New in %s", "%s business news"},
	}

	articles := make([]Article, 0, len(templates))
	for i, tpl := range templates {
		search := fmt.Sprintf(tpl.search, query)
		articles = append(articles, Article{
			Title:       fmt.Sprintf(tpl.title, query),
			URL:         "https://www.google.com/search?q=" + url.QueryEscape(search),
			SourceName:  "Cityscope Demo",
			ImageURL:    PlaceholderImageURL,
			PublishedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return articles
}
