package gallery

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Attribute names of the generator's markup contract.
const (
	attrFullImage   = "data-full-image"
	attrOrientation = "data-orientation"
	attrFocalLength = "data-focal-length"
	attrDate        = "data-date"
	attrSrcFull     = "data-src-full"
	attrSlate       = "data-slate"
	attrLazy        = "data-lazy-loading"
)

// ParseHTML reads a generated gallery page. Every element carrying
// data-full-image becomes a record; elements with class "slate" group the
// records that follow inside them.
func ParseHTML(r io.Reader) (*Gallery, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gallery html: %w", err)
	}

	p := &htmlParser{}
	p.walk(doc, nil)
	g, err := New(p.slates)
	if err != nil {
		return nil, err
	}
	g.LazyLoading = p.lazy
	return g, nil
}

type htmlParser struct {
	slates []*Slate
	loose  map[string]*Slate
	lazy   bool
}

func (p *htmlParser) walk(n *html.Node, slate *Slate) {
	if n.Type == html.ElementNode {
		if n.Data == "body" && strings.EqualFold(attr(n, attrLazy), "true") {
			p.lazy = true
		}
		if hasClass(n, "slate") || hasAttr(n, attrSlate) {
			slate = &Slate{Name: slateName(n)}
			p.slates = append(p.slates, slate)
		}
		if hasAttr(n, attrFullImage) {
			p.addRecord(n, slate)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, slate)
	}
}

// addRecord builds a record from an image wrapper. Wrappers outside any
// slate are grouped by their parent directory.
func (p *htmlParser) addRecord(n *html.Node, slate *Slate) {
	rec := &Record{
		Path:        strings.TrimSpace(attr(n, attrFullImage)),
		Orientation: ParseOrientation(attr(n, attrOrientation)),
		Focal:       ParseFocalLength(attr(n, attrFocalLength)),
		Date:        ParseCaptureDate(attr(n, attrDate)),
	}
	if img := find(n, func(c *html.Node) bool { return c.Data == "img" }); img != nil {
		rec.FullSrc = attr(img, attrSrcFull)
		rec.Thumb = attr(img, "src")
		if rec.Thumb == "" {
			rec.Thumb = attr(img, "data-src")
		}
	}
	if rec.FullSrc == "" {
		rec.FullSrc = rec.Path
	}
	if meta := find(n, func(c *html.Node) bool { return hasClass(c, "filename") }); meta != nil {
		rec.Filename = strings.TrimSpace(text(meta))
	}
	if rec.Filename == "" {
		rec.Filename = filepath.Base(rec.Path)
	}

	if slate == nil {
		dir := filepath.Base(filepath.Dir(rec.Path))
		if p.loose == nil {
			p.loose = make(map[string]*Slate)
		}
		slate = p.loose[dir]
		if slate == nil {
			slate = &Slate{Name: dir}
			p.loose[dir] = slate
			p.slates = append(p.slates, slate)
		}
	}
	slate.Records = append(slate.Records, rec)
}

func slateName(n *html.Node) string {
	if name := strings.TrimSpace(attr(n, attrSlate)); name != "" {
		return name
	}
	heading := find(n, func(c *html.Node) bool {
		switch c.Data {
		case "h1", "h2", "h3", "h4":
			return true
		}
		return false
	})
	if heading != nil {
		return strings.TrimSpace(text(heading))
	}
	return attr(n, "id")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// find returns the first element below n (depth first) matching match.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
