package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const articlesURI = "termblog://articles"

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCatalogResource(srv, svc)
	registerArticleTemplate(srv, svc)
}

func registerCatalogResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		articlesURI,
		"Articles",
		mcp.WithResourceDescription("Every blog category with its articles and their metadata."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		categories := svc.Catalog(ctx)
		count := 0
		for _, c := range categories {
			count += len(c.Articles)
		}
		payload := map[string]any{
			"categories": categories,
			"count":      count,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerArticleTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		articlesURI+"/{category}/{filename}",
		"Article",
		mcp.WithTemplateDescription("Markdown source of one article."),
		mcp.WithTemplateMIMEType("text/markdown"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		category := templateArg(request.Params.Arguments, "category")
		filename := templateArg(request.Params.Arguments, "filename")
		if category == "" || filename == "" {
			return nil, fmt.Errorf("category and filename are required")
		}

		content, err := svc.ReadArticle(ctx, category, filename)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "text/markdown",
				Text:     content.Markdown,
			},
		}, nil
	})
}

// templateArg reads a URI template variable. The server hands them over as
// string slices and they arrive percent-encoded.
func templateArg(args map[string]any, name string) string {
	var raw string
	switch v := args[name].(type) {
	case string:
		raw = v
	case []string:
		if len(v) > 0 {
			raw = v[0]
		}
	}
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
