package classify

import "testing"

func TestClassifyKnownTypes(t *testing.T) {
	fallback := Fallback()

	for _, typ := range []string{TypeFire, TypeTechnical, TypeHazmat} {
		theme := Classify(typ)
		if theme.Icon == "" || theme.Color == "" || theme.Background == "" {
			t.Errorf("Classify(%q) returned incomplete theme: %+v", typ, theme)
		}
		if theme.Color == fallback.Color {
			t.Errorf("Classify(%q) shares the fallback color %s", typ, fallback.Color)
		}
	}
}

func TestClassifyFallback(t *testing.T) {
	fallback := Fallback()

	for _, typ := range []string{"", "medical", "FIRE", "Fire", "other", "unknown"} {
		if theme := Classify(typ); theme != fallback {
			t.Errorf("Classify(%q) = %+v, want fallback theme", typ, theme)
		}
	}
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	if Classify("Fire") == Classify("fire") {
		t.Error("Classify should match type tags case-sensitively")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	if Classify("fire") != Classify("fire") {
		t.Error("Classify should be deterministic")
	}
	if Classify("does-not-exist") != Classify("does-not-exist") {
		t.Error("Classify should be deterministic for unknown tags")
	}
}

func TestDeriveType(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"", TypeUnknown},
		{"B2 Wohnungsbrand", TypeFire},
		{"Feuer Dachstuhl", TypeFire},
		{"BMA Alarm", TypeFire},
		{"TH Person eingeklemmt", TypeTechnical},
		{"VU mit PKW", TypeTechnical},
		{"H1 Türöffnung", TypeTechnical},
		{"GSG 2", TypeHazmat},
		{"Gasaustritt", TypeHazmat},
		{"Ölspur", TypeHazmat},
		{"Katze auf Baum", TypeOther},
	}

	for _, tt := range tests {
		if got := DeriveType(tt.keyword); got != tt.want {
			t.Errorf("DeriveType(%q) = %q, want %q", tt.keyword, got, tt.want)
		}
	}
}

func TestDeriveTypeCaseInsensitive(t *testing.T) {
	if DeriveType("brand in lagerhalle") != TypeFire {
		t.Error("DeriveType should match keywords case-insensitively")
	}
}
