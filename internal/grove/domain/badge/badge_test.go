package badge

import "testing"

func TestLoadCatalogDefaults(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("load embedded badges: %v", err)
	}
	if len(catalog.Badges) != 4 {
		t.Fatalf("expected 4 badges, got %d", len(catalog.Badges))
	}

	for _, id := range []uint32{FirstSeed, FirstTree, GreenThumb, EarlyAdopter} {
		if _, ok := catalog.Lookup(id); !ok {
			t.Errorf("expected badge %d in catalog", id)
		}
	}
	if _, ok := catalog.Lookup(99); ok {
		t.Fatalf("expected badge 99 to be absent")
	}
}

func TestCatalogValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
	}{
		{"empty", Catalog{}},
		{"zero id", Catalog{Badges: []Badge{{ID: 0, Name: "x"}}}},
		{"duplicate id", Catalog{Badges: []Badge{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}}},
		{"blank name", Catalog{Badges: []Badge{{ID: 1, Name: " "}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.catalog.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
