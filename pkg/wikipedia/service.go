package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ExtractLimit is the number of runes kept from an article introduction.
const ExtractLimit = 500

// ErrNotFound is returned when a page carries none of the requested data.
var ErrNotFound = errors.New("wikipedia: no data for page")

// pageFetcher is the part of Client used by CategoryService.
type pageFetcher interface {
	FetchCategoryMembers(ctx context.Context, lang, categoryTitle, cmContinue string, limit int) (*APIResponse, error)
	FetchPageProps(ctx context.Context, lang, pageTitle, prop string, extra url.Values) (*PageAPIResponse, error)
}

// CategoryService turns raw API responses into the values the dataset builder needs.
type CategoryService struct {
	client    pageFetcher
	extractor *CategoryExtractor
}

func NewCategoryService(client *Client, extractor *CategoryExtractor) *CategoryService {
	return newCategoryService(client, extractor)
}

func newCategoryService(client pageFetcher, extractor *CategoryExtractor) *CategoryService {
	if extractor == nil {
		extractor = NewCategoryExtractor(nil)
	}
	return &CategoryService{client: client, extractor: extractor}
}

// GetCategoryMembers returns up to limit article titles of a category,
// following continuation tokens until the limit is reached.
func (s *CategoryService) GetCategoryMembers(ctx context.Context, lang, title string, limit int) ([]string, error) {
	var titles []string
	cmContinue := ""
	for len(titles) < limit {
		resp, err := s.client.FetchCategoryMembers(ctx, lang, title, cmContinue, limit-len(titles))
		if err != nil {
			return titles, fmt.Errorf("category members of %q: %w", title, err)
		}
		for _, m := range resp.Query.CategoryMembers {
			if m.NS != 0 {
				continue
			}
			titles = append(titles, m.Title)
		}
		cmContinue = resp.Continue.CMContinue
		if cmContinue == "" {
			break
		}
	}
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

// GetCoordinates returns the primary coordinates of a page.
func (s *CategoryService) GetCoordinates(ctx context.Context, lang, title string) (Coordinate, error) {
	resp, err := s.client.FetchPageProps(ctx, lang, title, "coordinates", nil)
	if err != nil {
		return Coordinate{}, fmt.Errorf("coordinates of %q: %w", title, err)
	}
	for _, page := range resp.Query.Pages {
		if len(page.Coordinates) > 0 {
			return page.Coordinates[0], nil
		}
	}
	return Coordinate{}, fmt.Errorf("coordinates of %q: %w", title, ErrNotFound)
}

// GetExtract returns the plain-text introduction of a page, cut to
// ExtractLimit runes with "..." appended when longer.
func (s *CategoryService) GetExtract(ctx context.Context, lang, title string) (string, error) {
	extra := url.Values{}
	extra.Set("exintro", "1")
	extra.Set("explaintext", "1")
	extra.Set("exsectionformat", "plain")

	resp, err := s.client.FetchPageProps(ctx, lang, title, "extracts", extra)
	if err != nil {
		return "", fmt.Errorf("extract of %q: %w", title, err)
	}
	for _, page := range resp.Query.Pages {
		if text := strings.TrimSpace(page.Extract); text != "" {
			return truncateExtract(text), nil
		}
	}
	return "", fmt.Errorf("extract of %q: %w", title, ErrNotFound)
}

// GetCategories returns the cleaned category names of a page.
func (s *CategoryService) GetCategories(ctx context.Context, lang, title string) ([]string, error) {
	extra := url.Values{}
	extra.Set("cllimit", "max")

	resp, err := s.client.FetchPageProps(ctx, lang, title, "categories", extra)
	if err != nil {
		return nil, fmt.Errorf("categories of %q: %w", title, err)
	}
	var categories []string
	for _, page := range resp.Query.Pages {
		categories = append(categories, s.extractor.ExtractCategories(page.Categories)...)
	}
	return categories, nil
}

func truncateExtract(s string) string {
	r := []rune(s)
	if len(r) <= ExtractLimit {
		return s
	}
	return string(r[:ExtractLimit]) + "..."
}
