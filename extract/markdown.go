package extract

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// NewMarkdownConverter creates a reusable, goroutine-safe Converter producing
// GFM-flavoured reader-mode Markdown:
//
//   - base plugin: strips script, style, iframe, noscript, head, meta, link,
//     input, textarea, HTML comments.
//   - commonmark plugin: ATX headings, "-" bullets, fenced code blocks,
//     "---" horizontal rules, "*" emphasis and "**" strong.
//   - table plugin: keeps tabular article data with minimal cell padding.
func NewMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithStrongDelimiter("**"),
				commonmark.WithEmDelimiter("*"),
				commonmark.WithBulletListMarker("-"),
				commonmark.WithHorizontalRule("---"),
				commonmark.WithCodeBlockFence("```"),
			),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// ToMarkdown converts clean HTML to Markdown. baseURL is used to resolve
// relative URLs in <a> tags so the output is self-contained.
func ToMarkdown(conv *converter.Converter, htmlContent string, baseURL string) (string, error) {
	return conv.ConvertString(htmlContent, converter.WithDomain(baseURL))
}
