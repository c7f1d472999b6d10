package web

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/hpungsan/stickerpack/internal/sticker"
)

// KindEmbed is the node kind of an ![[target|size]] embed.
var KindEmbed = ast.NewNodeKind("Embed")

// Embed is an inline ![[target|size]] embed. Size is 0 when absent.
type Embed struct {
	ast.BaseInline
	Target string
	Size   int
}

// Kind implements ast.Node.
func (n *Embed) Kind() ast.NodeKind {
	return KindEmbed
}

// Dump implements ast.Node.
func (n *Embed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": n.Target,
		"Size":   fmt.Sprint(n.Size),
	}, nil)
}

var (
	embedOpen  = []byte("![[")
	embedClose = []byte("]]")
)

// embedParser parses ![[...]] before the link parser sees the "!".
type embedParser struct{}

func (p *embedParser) Trigger() []byte {
	return []byte{'!'}
}

func (p *embedParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, embedOpen) {
		return nil
	}
	end := bytes.Index(line[len(embedOpen):], embedClose)
	if end < 0 {
		return nil
	}
	inner := string(line[len(embedOpen) : len(embedOpen)+end])
	target, size, hasSize := strings.Cut(inner, "|")
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}

	block.Advance(len(embedOpen) + end + len(embedClose))
	node := &Embed{Target: target}
	if hasSize {
		node.Size = sticker.ParseSize(size)
	}
	return node
}

// embedRenderer renders image embeds as <img> pointing at the vault route.
// Other embeds are shown as their source text.
type embedRenderer struct{}

func (r *embedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindEmbed, r.renderEmbed)
}

func (r *embedRenderer) renderEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Embed)

	ext := path.Ext(n.Target)
	if !sticker.IsAllowedExtension(ext) {
		_, _ = w.WriteString(`<span class="embed">`)
		_, _ = w.WriteString(html.EscapeString("![[" + n.Target + "]]"))
		_, _ = w.WriteString(`</span>`)
		return ast.WalkSkipChildren, nil
	}

	alt := strings.TrimSuffix(path.Base(n.Target), ext)
	_, _ = fmt.Fprintf(w, `<img class="sticker" src="%s" alt="%s"`,
		html.EscapeString(vaultURL(n.Target)), html.EscapeString(alt))
	if n.Size > 0 {
		_, _ = fmt.Fprintf(w, ` width="%d"`, n.Size)
	}
	_, _ = w.WriteString(`>`)
	return ast.WalkSkipChildren, nil
}

type embedExtension struct{}

// EmbedExtension adds ![[target|size]] embeds to a goldmark instance.
var EmbedExtension goldmark.Extender = &embedExtension{}

func (e *embedExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&embedParser{}, 199),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&embedRenderer{}, 500),
	))
}

// newMarkdown returns the goldmark instance used for document previews.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(EmbedExtension))
}

// renderMarkdown converts markdown text to HTML, falling back to escaped text.
func renderMarkdown(md goldmark.Markdown, src []byte) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(string(src)) + "</pre>")
	}
	return template.HTML(buf.String())
}

// vaultURL returns the image route for a vault-relative path.
func vaultURL(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return "/vault/" + strings.Join(parts, "/")
}
