// Package catalog holds the fixed set of articles the blog serves and the
// metadata shown by the articles and docs listings.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Root is the top level directory every article lives under.
const Root = "Document"

// Article describes one markdown document.
type Article struct {
	// Title is the short name shown by `articles`.
	Title string
	// DocTitle is the long name shown by `docs`.
	DocTitle   string
	File       string
	Category   string
	Type       string
	Icon       string
	Tags       []string
	Difficulty string
	ReadTime   string
	Updated    string
}

// Path returns the article location inside the virtual filesystem.
func (a Article) Path() string {
	return Root + "/" + a.Category + "/" + a.File
}

// Name is the file name without its extension.
func (a Article) Name() string {
	return strings.TrimSuffix(a.File, ".md")
}

// Category groups articles under a directory.
type Category struct {
	Name        string
	Title       string
	Icon        string
	Description string
	Articles    []Article
}

// Catalog is an immutable, ordered set of categories.
type Catalog struct {
	categories []Category
	byFile     map[string]Article
}

// New builds a catalog from the given categories. Articles inherit the
// category name they are listed under.
func New(categories ...Category) *Catalog {
	c := &Catalog{byFile: make(map[string]Article)}
	for _, cat := range categories {
		cp := cat
		cp.Articles = make([]Article, 0, len(cat.Articles))
		for _, a := range cat.Articles {
			a.Category = cat.Name
			cp.Articles = append(cp.Articles, a)
			if _, dup := c.byFile[a.File]; !dup {
				c.byFile[a.File] = a
			}
		}
		c.categories = append(c.categories, cp)
	}
	return c
}

// Default returns the blog's built-in catalog.
func Default() *Catalog {
	return New(
		Category{
			Name:        "Blender",
			Title:       "Blender 学习文档",
			Icon:        "🎨",
			Description: "3D建模、动画制作相关教程",
			Articles: []Article{{
				Title:      "Blender基础",
				DocTitle:   "Blender基础入门",
				File:       "Blender基础.md",
				Type:       "教程",
				Icon:       "🎨",
				Tags:       []string{"基础", "入门", "3D建模"},
				Difficulty: "初级",
				ReadTime:   "15分钟",
				Updated:    "2024-01-15",
			}},
		},
		Category{
			Name:        "Obsidian",
			Title:       "Obsidian 使用指南",
			Icon:        "🔮",
			Description: "知识管理、笔记组织相关文档",
			Articles: []Article{
				{
					Title:      "Dataview插件使用",
					DocTitle:   "Dataview插件详解",
					File:       "Dataview.md",
					Type:       "插件",
					Icon:       "📊",
					Tags:       []string{"插件", "数据查询", "进阶"},
					Difficulty: "中级",
					ReadTime:   "20分钟",
					Updated:    "2024-01-10",
				},
				{
					Title:      "Markdown基础语法",
					DocTitle:   "Markdown基础语法",
					File:       "markdown基础语法.md",
					Type:       "语法",
					Icon:       "📝",
					Tags:       []string{"基础", "语法", "写作"},
					Difficulty: "初级",
					ReadTime:   "10分钟",
					Updated:    "2024-01-08",
				},
				{
					Title:      "数学块写法",
					DocTitle:   "数学公式写法",
					File:       "数学块.md",
					Type:       "数学",
					Icon:       "🧮",
					Tags:       []string{"数学", "LaTeX", "公式"},
					Difficulty: "中级",
					ReadTime:   "12分钟",
					Updated:    "2024-01-05",
				},
			},
		},
	)
}

// Categories returns every category in catalog order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Category looks a category up by name, ignoring case.
func (c *Catalog) Category(name string) (Category, bool) {
	want := cases.Fold().String(strings.TrimSpace(name))
	if want == "" {
		return Category{}, false
	}
	for _, cat := range c.categories {
		if cases.Fold().String(cat.Name) == want {
			return cat, true
		}
	}
	return Category{}, false
}

// Articles returns every article in catalog order.
func (c *Catalog) Articles() []Article {
	var all []Article
	for _, cat := range c.categories {
		all = append(all, cat.Articles...)
	}
	return all
}

// ByFile maps a bare file name to its article. This is the only lookup
// `cat` uses, so the directory part of a path never matters.
func (c *Catalog) ByFile(name string) (Article, bool) {
	a, ok := c.byFile[name]
	return a, ok
}

// Lookup finds an article by category and file name.
func (c *Catalog) Lookup(category, file string) (Article, bool) {
	cat, ok := c.Category(category)
	if !ok {
		return Article{}, false
	}
	for _, a := range cat.Articles {
		if a.File == file {
			return a, true
		}
	}
	return Article{}, false
}

// Paths lists every article path in catalog order.
func (c *Catalog) Paths() []string {
	all := c.Articles()
	paths := make([]string, len(all))
	for i, a := range all {
		paths[i] = a.Path()
	}
	return paths
}
