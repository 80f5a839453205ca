package render

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
	"apidiff/internal/errors"
)

// Markup renders diffs as nested div elements. Each diff gets the classes
// "Diff <Type> <Kind>", tag diffs add "Tags", and every token becomes a span
// whose class is its token class.
func Markup(diffs []*diff.Diff) (string, error) {
	nodes := make([]*html.Node, 0, len(diffs))
	for _, d := range diffs {
		nodes = append(nodes, diffNode(d))
	}
	return renderNodes(nodes)
}

// DescribeMarkup renders db as one div per class or enum, with members or
// items nested under a Children div.
func DescribeMarkup(db *descriptor.Database) (string, error) {
	var nodes []*html.Node
	for _, group := range describeGroups(db) {
		n := descriptorNode(group.owner)
		if len(group.children) > 0 {
			children := element(atom.Div, "Children")
			for _, child := range group.children {
				children.AppendChild(descriptorNode(child))
			}
			n.AppendChild(children)
		}
		nodes = append(nodes, n)
	}
	return renderNodes(nodes)
}

func renderNodes(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", errors.New(errors.RenderFailed, "failed to render markup", err)
		}
	}
	return sb.String(), nil
}

func element(a atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func diffNode(d *diff.Diff) *html.Node {
	classes := []string{"Diff", d.Type.String(), d.Target.Kind().String()}
	if d.IsTagDiff() {
		classes = append(classes, "Tags")
	}
	n := element(atom.Div, strings.Join(classes, " "))
	n.AppendChild(lineNode("Header", d.Header()))

	if body := d.Body(); len(body) > 0 {
		b := element(atom.Div, "Body")
		for _, line := range body {
			b.AppendChild(lineNode("Line", line))
		}
		n.AppendChild(b)
	}
	if len(d.Children) > 0 {
		children := element(atom.Div, "Children")
		for _, child := range d.Children {
			children.AppendChild(diffNode(child))
		}
		n.AppendChild(children)
	}
	return n
}

func descriptorNode(d descriptor.Descriptor) *html.Node {
	n := element(atom.Div, "Descriptor "+d.Kind().String())
	n.AppendChild(lineNode("Header", descriptor.Describe(d, true)))
	return n
}

// lineNode wraps tokens in spans, inserting a space text node before every
// token that does not attach to its predecessor.
func lineNode(class string, tokens []descriptor.Token) *html.Node {
	line := element(atom.Div, class)
	for i, tok := range tokens {
		if i > 0 && !tok.Attach {
			line.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
		}
		span := element(atom.Span, string(tok.Class))
		span.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Text})
		line.AppendChild(span)
	}
	return line
}

func sortDescriptors(ds []descriptor.Descriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		return descriptor.Compare(ds[i], ds[j]) < 0
	})
}
