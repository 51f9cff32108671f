package geo

import (
	"strings"
	"unicode"

	"placefacts/internal/models"
)

var countries = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Antigua and Barbuda", "Argentina", "Armenia", "Australia", "Austria", "Azerbaijan",
	"Bahamas", "Bahrain", "Bangladesh", "Barbados", "Belarus", "Belgium", "Belize", "Benin", "Bhutan", "Bolivia", "Bosnia and Herzegovina", "Botswana", "Brazil", "Brunei", "Bulgaria", "Burkina Faso", "Burundi",
	"Cambodia", "Cameroon", "Canada", "Cape Verde", "Central African Republic", "Chad", "Chile", "China", "Colombia", "Comoros", "Costa Rica", "Croatia", "Cuba", "Cyprus", "Czech Republic",
	"Denmark", "Djibouti", "Dominica", "Dominican Republic",
	"East Timor", "Ecuador", "Egypt", "El Salvador", "Equatorial Guinea", "Eritrea", "Estonia", "Eswatini", "Ethiopia",
	"Fiji", "Finland", "France",
	"Gabon", "Gambia", "Georgia", "Germany", "Ghana", "Greece", "Grenada", "Guatemala", "Guinea", "Guinea-Bissau", "Guyana",
	"Haiti", "Honduras", "Hungary",
	"Iceland", "India", "Indonesia", "Iran", "Iraq", "Ireland", "Israel", "Italy",
	"Jamaica", "Japan", "Jordan",
	"Kazakhstan", "Kenya", "Kiribati", "North Korea", "South Korea", "Kuwait", "Kyrgyzstan",
	"Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya", "Liechtenstein", "Lithuania", "Luxembourg",
	"Madagascar", "Malawi", "Malaysia", "Maldives", "Mali", "Malta", "Marshall Islands", "Mauritania", "Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco", "Mongolia", "Montenegro", "Morocco", "Mozambique", "Myanmar",
	"Namibia", "Nauru", "Nepal", "Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria", "North Macedonia", "Norway",
	"Oman",
	"Pakistan", "Palau", "Panama", "Papua New Guinea", "Paraguay", "Peru", "Philippines", "Poland", "Portugal",
	"Qatar",
	"Romania", "Russia", "Rwanda",
	"Saint Kitts and Nevis", "Saint Lucia", "Saint Vincent and the Grenadines", "Samoa", "San Marino", "Sao Tome and Principe", "Saudi Arabia", "Senegal", "Serbia", "Seychelles", "Sierra Leone", "Singapore", "Slovakia", "Slovenia", "Solomon Islands", "Somalia", "South Africa", "South Sudan", "Spain", "Sri Lanka", "Sudan", "Suriname", "Sweden", "Switzerland", "Syria",
	"Taiwan", "Tajikistan", "Tanzania", "Thailand", "Togo", "Tonga", "Trinidad and Tobago", "Tunisia", "Turkey", "Turkmenistan", "Tuvalu", "the Federated States of Micronesia",
	"Uganda", "Ukraine", "United Arab Emirates", "United Kingdom", "United States", "Uruguay", "Uzbekistan",
	"Vanuatu", "Vatican City", "Venezuela", "Vietnam",
	"Yemen",
	"Zambia", "Zimbabwe",
}

// knownCities maps lowercase category fragments (Russian and English) to the
// city and country they identify.
var knownCities = []struct {
	keywords []string
	city     string
	country  string
}{
	{[]string{"москв", "moscow"}, "Moscow", "Russia"},
	{[]string{"петербург", "petersburg"}, "Saint Petersburg", "Russia"},
	{[]string{"париж", "paris"}, "Paris", "France"},
	{[]string{"нью-йорк", "new york"}, "New York", "United States"},
	{[]string{"рим", "rome"}, "Rome", "Italy"},
	{[]string{"лондон", "london"}, "London", "United Kingdom"},
}

// placeTypes is checked in order; the first matching keyword wins.
var placeTypes = []struct {
	keywords []string
	kind     string
}{
	{[]string{"музе", "museum"}, "museum"},
	{[]string{"парк", "park", "сад", "garden"}, "park"},
	{[]string{"памятник", "monument"}, "monument"},
	{[]string{"церковь", "собор", "храм", "church", "cathedral"}, "religious building"},
	{[]string{"площадь", "square"}, "square"},
	{[]string{"театр", "theater", "theatre"}, "theatre"},
	{[]string{"дворец", "palace"}, "palace"},
}

func IsCountry(place string) bool {
	for _, c := range countries {
		if strings.EqualFold(c, place) {
			return true
		}
	}
	return false
}

// ExtractCountry returns the place named after the last " in " or " at " of
// text, normalised to a known country spelling when possible.
func ExtractCountry(text string) string {
	text = strings.TrimSpace(text)

	prepositions := []string{" in ", " at "}
	candidate := ""
	for _, prep := range prepositions {
		if idx := strings.LastIndex(strings.ToLower(text), prep); idx != -1 {
			candidate = strings.TrimSpace(text[idx+len(prep):])
			break
		}
	}

	if candidate == "" {
		return ""
	}

	for _, c := range countries {
		if strings.EqualFold(c, candidate) {
			return c
		}
	}

	return candidate
}

// ClassifyType derives a landmark type from its title, then from its
// categories. DefaultType is returned when nothing matches.
func ClassifyType(title string, categories []string) string {
	if kind := matchType(title); kind != "" {
		return kind
	}
	for _, c := range categories {
		if kind := matchType(c); kind != "" {
			return kind
		}
	}
	return models.DefaultType
}

func matchType(s string) string {
	s = strings.ToLower(s)
	for _, pt := range placeTypes {
		if containsAny(s, pt.keywords) {
			return pt.kind
		}
	}
	return ""
}

// ResolvePlace determines the city and country a page belongs to from its
// category titles. Unresolved parts are models.Unknown.
func ResolvePlace(categories []string) (city, country string) {
	for _, c := range categories {
		lower := strings.ToLower(c)
		for _, kc := range knownCities {
			if containsAny(lower, kc.keywords) {
				return kc.city, kc.country
			}
		}
	}
	for _, c := range categories {
		if candidate := ExtractCountry(c); candidate != "" && IsCountry(candidate) {
			return models.Unknown, candidate
		}
	}
	return models.Unknown, models.Unknown
}

// containsAny reports whether any keyword starts a word of s. Keywords that
// span several words are matched as plain substrings.
func containsAny(s string, keywords []string) bool {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, kw := range keywords {
		if strings.ContainsFunc(kw, func(r rune) bool { return !unicode.IsLetter(r) }) {
			if strings.Contains(s, kw) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if strings.HasPrefix(tok, kw) {
				return true
			}
		}
	}
	return false
}
