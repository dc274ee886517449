package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerRunCommandTool(srv, svc)
	registerListDirectoryTool(srv, svc)
	registerReadArticleTool(srv, svc)
	registerFindArticlesTool(srv, svc)
}

func registerRunCommandTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"run_command",
		mcp.WithDescription("Run one line in the blog terminal (ls, cd, cat, tree, find, articles, help...) and return its text output."),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("Command line exactly as typed at the prompt."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		line, err := request.RequireString("line")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if strings.TrimSpace(line) == "" {
			return mcp.NewToolResultError("line must not be empty"), nil
		}
		return toJSONResult(svc.RunCommand(ctx, line))
	})
}

func registerListDirectoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_directory",
		mcp.WithDescription("List a directory of the blog filesystem."),
		mcp.WithString("path",
			mcp.Description("Absolute path such as /Document/Obsidian (default /)."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := request.GetString("path", "/")
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		dir, err := svc.ListDirectory(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dir)
	})
}

func registerReadArticleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"read_article",
		mcp.WithDescription("Read an article's markdown source."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category directory, for example Obsidian."),
		),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("Markdown file name including the .md extension."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Category string `json:"category"`
			Filename string `json:"filename"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		content, err := svc.ReadArticle(ctx, args.Category, args.Filename)
		if errors.Is(err, ErrArticleNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, err
		}
		return toJSONResult(content)
	})
}

func registerFindArticlesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"find_articles",
		mcp.WithDescription("Search articles by path, title or tag. Matching ignores case."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Text to look for."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of articles to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pattern, err := request.RequireString("pattern")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results := svc.FindArticles(ctx, pattern, limit)
		return toJSONResult(map[string]any{
			"pattern":  pattern,
			"limit":    limit,
			"articles": results,
			"count":    len(results),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultStructured(data, string(text)), nil
}
