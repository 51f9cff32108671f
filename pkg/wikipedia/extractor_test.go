package wikipedia

import "testing"

func TestCategoryExtractor_ExtractCategories(t *testing.T) {
	tests := []struct {
		name      string
		blocklist []string
		links     []PageLink
		want      []string
	}{
		{
			name:  "strips english and russian prefixes",
			links: []PageLink{{NS: 14, Title: "Category:Museums in Paris"}, {NS: 14, Title: "Категория:Музеи Москвы"}},
			want:  []string{"Museums in Paris", "Музеи Москвы"},
		},
		{
			name:      "filters blocklisted prefixes",
			blocklist: DefaultBlocklist,
			links: []PageLink{
				{Title: "Category:Articles with short description"},
				{Title: "Category:Palaces in Rome"},
				{Title: "Категория:Статьи с источниками из Викиданных"},
			},
			want: []string{"Palaces in Rome"},
		},
		{
			name:  "keeps titles without a prefix",
			links: []PageLink{{Title: "Landmarks"}},
			want:  []string{"Landmarks"},
		},
		{
			name:  "drops empty names",
			links: []PageLink{{Title: "Category:"}, {Title: "  "}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCategoryExtractor(tt.blocklist).ExtractCategories(tt.links)
			if len(got) != len(tt.want) {
				t.Fatalf("unexpected count: got %d want %d (values: %v)", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("idx %d: got %q want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
