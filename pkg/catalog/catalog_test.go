package catalog

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if got := len(c.Categories()); got != 2 {
		t.Fatalf("expected 2 categories, got %d", got)
	}
	if got := len(c.Articles()); got != 4 {
		t.Fatalf("expected 4 articles, got %d", got)
	}

	a, ok := c.ByFile("数学块.md")
	if !ok {
		t.Fatalf("expected 数学块.md in catalog")
	}
	if a.Category != "Obsidian" {
		t.Fatalf("expected category Obsidian, got %q", a.Category)
	}
	if a.Path() != "Document/Obsidian/数学块.md" {
		t.Fatalf("unexpected path %q", a.Path())
	}
	if a.Name() != "数学块" {
		t.Fatalf("unexpected name %q", a.Name())
	}
}

func TestCategoryLookupIgnoresCase(t *testing.T) {
	c := Default()
	cat, ok := c.Category("blender")
	if !ok || cat.Name != "Blender" {
		t.Fatalf("expected Blender category, got %+v ok=%v", cat, ok)
	}
	if _, ok := c.Category(""); ok {
		t.Fatalf("empty category name should not match")
	}
	if _, ok := c.Lookup("Obsidian", "Dataview.md"); !ok {
		t.Fatalf("expected Obsidian/Dataview.md")
	}
	if _, ok := c.Lookup("Blender", "Dataview.md"); ok {
		t.Fatalf("Dataview.md is not a Blender article")
	}
}
