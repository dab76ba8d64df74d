// readmode-mcp exposes the conversion pipeline as an MCP tool over stdio,
// so LLM agents can pull clean article Markdown for any URL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/readmode/cache"
	"github.com/use-agent/readmode/config"
	"github.com/use-agent/readmode/convert"
	"github.com/use-agent/readmode/engine"
	"github.com/use-agent/readmode/models"
)

func main() {
	cfg := config.Load()

	// Log to stderr only; stdout carries the MCP protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	orch := engine.New(cfg.Engine.StrategyTimeout)
	urlCache := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	converter := convert.New(orch, urlCache)

	s := server.NewMCPServer(
		"readmode",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	convertTool := mcp.NewTool("convert_url",
		mcp.WithDescription("Convert a web URL into clean reader-mode Markdown. Races multiple fetch strategies (search-engine impersonation, archives, reader proxies) to get past paywalls and anti-bot screens."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to convert"),
		),
		mcp.WithBoolean("bypass",
			mcp.Description("Enable tiered strategy racing to defeat paywalls and bot walls (default: true)"),
		),
		mcp.WithString("strategy",
			mcp.Description("Force a single fetch strategy instead of racing"),
			mcp.Enum("direct", "googlebot", "facebookbot", "bingbot", "archive", "twelveft", "jina", "exa", "googlenews"),
		),
		mcp.WithBoolean("preserve_images",
			mcp.Description("Keep images in the Markdown output (default: true)"),
		),
	)

	s.AddTool(convertTool, handleConvert(converter))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleConvert(cv *convert.Converter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		bypass := request.GetBool("bypass", true)
		preserve := request.GetBool("preserve_images", true)
		opts := models.ConvertOptions{
			Bypass:         bypass,
			Strategy:       request.GetString("strategy", ""),
			PreserveImages: &preserve,
		}

		result, err := cv.Convert(ctx, url, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
		}

		header := fmt.Sprintf("Source: %s\nStrategy: %s\n\n", result.URL, result.Strategy)
		return mcp.NewToolResultText(header + result.Content), nil
	}
}
