package content

import (
	"io/fs"
	"strings"
	"testing"

	"tableflip.dev/termblog/pkg/catalog"
)

func TestEveryArticleIsEmbedded(t *testing.T) {
	for _, a := range catalog.Default().Articles() {
		body, err := fs.ReadFile(FS(), a.Path())
		if err != nil {
			t.Fatalf("article %s missing: %v", a.Path(), err)
		}
		if !strings.HasPrefix(string(body), "# ") {
			t.Fatalf("article %s does not start with a heading", a.Path())
		}
	}
}
