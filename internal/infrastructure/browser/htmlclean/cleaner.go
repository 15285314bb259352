// Package htmlclean strips page HTML down to the parts an agent can act on.
package htmlclean

import (
	"strings"

	"golang.org/x/net/html"
)

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// AttrPrefixesToRemove drops every attribute whose name starts with one of these.
	AttrPrefixesToRemove []string
	// MaxOutputSize caps the rendered output in bytes. Zero means no cap.
	MaxOutputSize    int
	CustomAttrFilter func(attr html.Attribute) bool
}

func DefaultConfig() Config {
	return Config{
		TagsToRemove: []string{
			"script", "style", "noscript", "svg", "iframe",
			"link", "meta", "head", "title", "template",
		},
		AttrsToRemove: []string{
			"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
		},
		AttrPrefixesToRemove: []string{"data-", "aria-", "on"},
	}
}

type Cleaner struct {
	cfg Config
}

func New(cfg Config) *Cleaner {
	return &Cleaner{cfg: cfg}
}

// Clean returns the cleaned <body> of rawHTML. Input without a body, or input
// the parser rejects, is returned unchanged.
func (c *Cleaner) Clean(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	body := findBody(doc)
	if body == nil {
		return rawHTML
	}

	c.cleanNode(body)

	var sb strings.Builder
	if err := html.Render(&sb, body); err != nil {
		return rawHTML
	}
	return c.truncate(sb.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if b := findBody(child); b != nil {
			return b
		}
	}
	return nil
}

func (c *Cleaner) cleanNode(n *html.Node) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if oneOf(n.Data, c.cfg.TagsToRemove) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = c.filterAttributes(n.Attr)

	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		c.cleanNode(child)
		child = next
	}
}

func (c *Cleaner) filterAttributes(attrs []html.Attribute) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if c.dropAttr(attr) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func (c *Cleaner) dropAttr(attr html.Attribute) bool {
	if oneOf(attr.Key, c.cfg.AttrsToRemove) {
		return true
	}
	for _, prefix := range c.cfg.AttrPrefixesToRemove {
		if strings.HasPrefix(attr.Key, prefix) {
			return true
		}
	}
	return c.cfg.CustomAttrFilter != nil && c.cfg.CustomAttrFilter(attr)
}

func (c *Cleaner) truncate(s string) string {
	if c.cfg.MaxOutputSize > 0 && len(s) > c.cfg.MaxOutputSize {
		return s[:c.cfg.MaxOutputSize] + "\n<!-- HTML truncated -->"
	}
	return s
}

func oneOf(s string, candidates []string) bool {
	for _, candidate := range candidates {
		if s == candidate {
			return true
		}
	}
	return false
}
