package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

// DefaultRate is the request budget shared by all calls of one Client.
const DefaultRate = 10

// Client performs raw MediaWiki API queries against <lang>.wikipedia.org.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient returns a client allowing at most rps requests per second.
func NewClient(rps float64) *Client {
	if rps <= 0 {
		rps = DefaultRate
	}
	return &Client{
		httpClient: http.DefaultClient,
		userAgent:  "PlacefactsDatasetBuilder/1.0",
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func apiURL(lang string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
}

// PageURL returns the article URL for title.
func PageURL(lang, title string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, strings.ReplaceAll(title, " ", "_"))
}

// CategoryTitle prefixes name with the category namespace of lang.
func CategoryTitle(lang, name string) string {
	if lang == "ru" {
		return "Категория:" + name
	}
	return "Category:" + name
}

func (c *Client) FetchCategoryMembers(ctx context.Context, lang, categoryTitle, cmContinue string, limit int) (*APIResponse, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "categorymembers")
	params.Set("cmtitle", strings.ReplaceAll(categoryTitle, " ", "_"))
	params.Set("cmnamespace", "0")
	params.Set("cmlimit", strconv.Itoa(limit))
	params.Set("format", "json")
	if cmContinue != "" {
		params.Set("cmcontinue", cmContinue)
	}

	var apiResp APIResponse
	if err := c.get(ctx, lang, params, &apiResp); err != nil {
		return nil, err
	}
	return &apiResp, nil
}

// FetchPageProps queries a single page for the given prop (coordinates,
// extracts or categories). extra holds prop-specific parameters.
func (c *Client) FetchPageProps(ctx context.Context, lang, pageTitle, prop string, extra url.Values) (*PageAPIResponse, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", pageTitle)
	params.Set("prop", prop)
	params.Set("format", "json")
	for k, v := range extra {
		params[k] = v
	}

	var apiResp PageAPIResponse
	if err := c.get(ctx, lang, params, &apiResp); err != nil {
		return nil, err
	}
	return &apiResp, nil
}

func (c *Client) get(ctx context.Context, lang string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL(lang)+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia api: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wikipedia api: decode response: %w", err)
	}
	return nil
}
