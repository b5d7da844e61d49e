package naming

import "testing"

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		name   string
		full   string
		prefix string
		want   string
	}{
		{"simple prefix", "Büro Homepod", "Büro", "Homepod"},
		{"multi word prefix", "Wohnzimmer Deckenleuchte Licht", "Wohnzimmer Deckenleuchte", "Licht"},
		{"case insensitive", "büro Homepod", "Büro", "Homepod"},
		{"exact match", "Büro", "Büro", ""},
		{"exact match different case", "büro", "Büro", ""},
		{"no word boundary", "Gartenlicht", "Garten", "Gartenlicht"},
		{"not a prefix", "Küche Lampe", "Büro", "Küche Lampe"},
		{"empty prefix", "Büro Homepod", "", "Büro Homepod"},
		{"empty full", "", "Büro", ""},
		{"both empty", "", "", ""},
		{"prefix longer than full", "Büro", "Büro Homepod", "Büro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripPrefix(tt.full, tt.prefix); got != tt.want {
				t.Errorf("StripPrefix(%q, %q) = %q, want %q", tt.full, tt.prefix, got, tt.want)
			}
		})
	}
}
