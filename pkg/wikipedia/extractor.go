package wikipedia

import (
	"regexp"
	"strings"
)

// namespacePrefix matches a leading "Category:" or "Категория:" namespace.
var namespacePrefix = regexp.MustCompile(`(?i)^(category|категория):\s*`)

// CategoryExtractor cleans page category titles and drops maintenance
// categories whose name starts with a blocklisted prefix.
type CategoryExtractor struct {
	blocklisted []string
}

func NewCategoryExtractor(blocklisted []string) *CategoryExtractor {
	return &CategoryExtractor{blocklisted: blocklisted}
}

// DefaultBlocklist covers the common tracking categories of en and ru wikis.
var DefaultBlocklist = []string{
	"Articles ", "All articles", "Pages ", "Wikipedia ", "CS1 ", "Webarchive ", "Coordinates on Wikidata",
	"Статьи ", "Страницы ", "Википедия:", "Википедия ", "Карточка ",
}

// ExtractCategories strips the namespace prefix from each link title and
// returns the remaining names in order.
func (e *CategoryExtractor) ExtractCategories(links []PageLink) []string {
	var categories []string
	for _, link := range links {
		name := strings.TrimSpace(namespacePrefix.ReplaceAllString(link.Title, ""))
		if name == "" || !e.include(name) {
			continue
		}
		categories = append(categories, name)
	}
	return categories
}

func (e *CategoryExtractor) include(s string) bool {
	for _, bl := range e.blocklisted {
		if strings.HasPrefix(s, bl) {
			return false
		}
	}
	return true
}
