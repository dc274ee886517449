// Package mcp provides the Model Context Protocol server integration for termblog.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"tableflip.dev/termblog/pkg/catalog"
	"tableflip.dev/termblog/pkg/printers"
	"tableflip.dev/termblog/pkg/terminal"
	"tableflip.dev/termblog/pkg/vfs"
)

// Service answers blog queries shared by the MCP tools and resources.
type Service struct {
	// mu serializes commands on the shared session; every MCP client
	// drives the same one.
	mu      sync.Mutex
	session *terminal.Session
	loader  terminal.Loader
	catalog *catalog.Catalog
	tree    *vfs.Tree
}

// ErrArticleNotFound is returned when no article matches a category and file name.
var ErrArticleNotFound = errors.New("article not found")

// ArticleDTO is the JSON shape of an article's metadata.
type ArticleDTO struct {
	Path       string   `json:"path"`
	Category   string   `json:"category"`
	File       string   `json:"file"`
	Title      string   `json:"title"`
	DocTitle   string   `json:"doc_title"`
	Type       string   `json:"type"`
	Tags       []string `json:"tags,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	ReadTime   string   `json:"read_time,omitempty"`
	Updated    string   `json:"updated,omitempty"`
	URI        string   `json:"uri"`
}

// CategoryDTO groups articles for the catalog resource.
type CategoryDTO struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Articles    []ArticleDTO `json:"articles"`
}

// EntryDTO is one directory entry.
type EntryDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DirectoryDTO is a listed directory.
type DirectoryDTO struct {
	Path    string     `json:"path"`
	Entries []EntryDTO `json:"entries"`
}

// ArticleContent is a loaded article.
type ArticleContent struct {
	Article  ArticleDTO `json:"article"`
	Markdown string     `json:"markdown"`
}

// CommandResult is the plain text output of one terminal line.
type CommandResult struct {
	Line   string `json:"line"`
	Output string `json:"output"`
	Cwd    string `json:"cwd"`
	Theme  string `json:"theme"`
}

// NewService builds a service around session. Articles are read through
// loader, the same loader the session uses for cat.
func NewService(session *terminal.Session, loader terminal.Loader) *Service {
	return &Service{
		session: session,
		loader:  loader,
		catalog: session.Catalog(),
		tree:    session.Tree(),
	}
}

// Catalog returns every category with its articles.
func (s *Service) Catalog(ctx context.Context) []CategoryDTO {
	var out []CategoryDTO
	for _, cat := range s.catalog.Categories() {
		out = append(out, CategoryDTO{
			Name:        cat.Name,
			Title:       cat.Title,
			Description: cat.Description,
			Articles:    toDTOs(cat.Articles),
		})
	}
	return out
}

// ListDirectory lists path, resolved from the root.
func (s *Service) ListDirectory(ctx context.Context, path string) (*DirectoryDTO, error) {
	p := s.tree.Resolve(nil, path)
	nodes, err := s.tree.List(p)
	if err != nil {
		return nil, err
	}
	dir := &DirectoryDTO{Path: p.String(), Entries: make([]EntryDTO, 0, len(nodes))}
	for _, n := range nodes {
		kind := "file"
		if n.IsDir() {
			kind = "directory"
		}
		dir.Entries = append(dir.Entries, EntryDTO{Name: n.Name, Type: kind})
	}
	return dir, nil
}

// ReadArticle loads an article's markdown. Load failures come back as a
// document describing the failure, the same text a visitor would see.
func (s *Service) ReadArticle(ctx context.Context, category, filename string) (*ArticleContent, error) {
	a, ok := s.catalog.Lookup(category, filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrArticleNotFound, category, filename)
	}
	return &ArticleContent{
		Article:  toDTO(a),
		Markdown: s.loader.Load(ctx, a.Category, a.File),
	}, nil
}

// FindArticles matches pattern against paths, titles and tags, ignoring
// case. An empty pattern matches everything.
func (s *Service) FindArticles(ctx context.Context, pattern string, limit int) []ArticleDTO {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(pattern))
	var out []ArticleDTO
	for _, a := range s.catalog.Articles() {
		if limit > 0 && len(out) >= limit {
			break
		}
		haystack := []string{a.Path(), a.Title, a.DocTitle}
		haystack = append(haystack, a.Tags...)
		for _, h := range haystack {
			if strings.Contains(fold.String(h), want) {
				out = append(out, toDTO(a))
				break
			}
		}
	}
	return out
}

// RunCommand runs line in the service's terminal session without the
// artificial delay and returns its output as plain text.
func (s *Service) RunCommand(ctx context.Context, line string) CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.session.Execute(ctx, line)
	blocks := res.Blocks
	if len(blocks) > 0 {
		blocks = blocks[1:] // echo
	}
	p := printers.Text{}
	return CommandResult{
		Line:   strings.TrimSpace(line),
		Output: p.Render(blocks...),
		Cwd:    s.session.Cwd().String(),
		Theme:  s.session.Theme(),
	}
}

func toDTOs(articles []catalog.Article) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toDTO(a))
	}
	return out
}

func toDTO(a catalog.Article) ArticleDTO {
	return ArticleDTO{
		Path:       a.Path(),
		Category:   a.Category,
		File:       a.File,
		Title:      a.Title,
		DocTitle:   a.DocTitle,
		Type:       a.Type,
		Tags:       append([]string(nil), a.Tags...),
		Difficulty: a.Difficulty,
		ReadTime:   a.ReadTime,
		Updated:    a.Updated,
		URI:        articleURI(a.Category, a.File),
	}
}

func articleURI(category, file string) string {
	return articlesURI + "/" + category + "/" + file
}
