package operators

import "testing"

func TestSlugRoundTrip(t *testing.T) {
	for slug, ref := range Slugs {
		gotRef, found := OperatorRefForSlug(slug)
		if !found || gotRef != ref {
			t.Errorf("OperatorRefForSlug(%q) = %q, %v", slug, gotRef, found)
		}

		gotSlug, found := SlugForOperatorRef(ref)
		if !found || gotSlug != slug {
			t.Errorf("SlugForOperatorRef(%q) = %q, %v", ref, gotSlug, found)
		}
	}
}

func TestUnknownSlug(t *testing.T) {
	if _, found := OperatorRefForSlug("definitely-not-an-operator"); found {
		t.Error("unknown slug should not resolve")
	}
}

func TestEnglishName(t *testing.T) {
	if name := EnglishName("5"); name != "Dan" {
		t.Errorf("expected a known operator name, got %q", name)
	}
	if name := EnglishName("unmapped-ref"); name != "" {
		t.Errorf("unknown refs should yield an empty name, got %q", name)
	}
}

func TestEveryOperatorHasAName(t *testing.T) {
	for slug, ref := range Slugs {
		if _, ok := EnglishNames[ref]; !ok {
			t.Errorf("operator %s (%s) has no English name", slug, ref)
		}
	}
}
