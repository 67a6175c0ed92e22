package pagexml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/net/html/charset"

	"github.com/ironsheep/page-overlay/internal/logging"
)

// DefaultNamespace is the PAGE content namespace assumed when a document does
// not declare one.
const DefaultNamespace = "https://schema.primaresearch.org/PAGE/gts/pagecontent/2013-07-15"

// ErrMalformedDocument is returned when an annotation file cannot be parsed as XML.
var ErrMalformedDocument = errors.New("malformed PAGE document")

// Region is one TextRegion of a PAGE document.
type Region struct {
	// ID is the region's id attribute; it may be empty.
	ID string

	// Type is the lowercase layout label, e.g. "header" or "page-number".
	Type string

	// ReadingOrder is the 1-based position from the custom attribute, or 0
	// when HasReadingOrder is false.
	ReadingOrder    int
	HasReadingOrder bool

	// Points is the polygon outline from the region's Coords element.
	Points []image.Point

	// HasCoords is false when the region has no Coords element at all.
	HasCoords bool
}

// Document is the parsed form of one annotation file.
type Document struct {
	// Namespace is the PAGE namespace the regions were matched in.
	Namespace string

	// Regions holds every TextRegion in document order, nested ones included.
	Regions []Region

	// OrderRefs are the regionRef values of the explicit reading order, in
	// document order. HasExplicitOrder reports whether a ReadingOrder with an
	// OrderedGroup was present at all.
	OrderRefs        []string
	HasExplicitOrder bool
}

// node is a generic element tree; PAGE files vary too much between schema
// versions to unmarshal into fixed structs.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) is(ns, local string) bool {
	return n.XMLName.Space == ns && n.XMLName.Local == local
}

// walk visits the descendants of n in document order. Returning false from fn
// stops the walk.
func (n *node) walk(fn func(*node) bool) bool {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *node) findAll(ns, local string) []*node {
	var out []*node
	n.walk(func(c *node) bool {
		if c.is(ns, local) {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (n *node) find(ns, local string) *node {
	var found *node
	n.walk(func(c *node) bool {
		if c.is(ns, local) {
			found = c
			return false
		}
		return true
	})
	return found
}

// ParseFile reads and parses the annotation file at path.
func ParseFile(path, fallbackNS string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f, fallbackNS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a PAGE document. fallbackNS is used, with a warning, when the
// root element declares no namespace.
func Parse(r io.Reader, fallbackNS string) (*Document, error) {
	var root node
	dec := xml.NewDecoder(r)
	// Older exports declare ISO-8859-1 or windows-1252.
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	ns := detectNamespace(&root, fallbackNS)
	doc := &Document{Namespace: ns}

	for _, el := range root.findAll(ns, "TextRegion") {
		doc.Regions = append(doc.Regions, parseRegion(el, ns))
	}

	if ro := root.find(ns, "ReadingOrder"); ro != nil {
		if group := ro.find(ns, "OrderedGroup"); group != nil {
			doc.HasExplicitOrder = true
			for _, ref := range group.findAll(ns, "RegionRefIndexed") {
				if id, _ := ref.attr("regionRef"); id != "" {
					doc.OrderRefs = append(doc.OrderRefs, id)
				}
			}
		}
	}

	return doc, nil
}

// detectNamespace returns the root element's namespace, then the first
// prefixed namespace declared on it, then fallback.
func detectNamespace(root *node, fallback string) string {
	if root.XMLName.Space != "" {
		return root.XMLName.Space
	}
	for _, a := range root.Attrs {
		if a.Name.Space == "xmlns" && a.Value != "" {
			return a.Value
		}
	}
	logging.Warnf("No namespace found in XML. Using default namespace.")
	return fallback
}

func parseRegion(el *node, ns string) Region {
	id, _ := el.attr("id")
	custom, _ := el.attr("custom")
	typeAttr, _ := el.attr("type")

	r := Region{
		ID:   id,
		Type: RegionType(custom, typeAttr),
	}
	r.ReadingOrder, r.HasReadingOrder = ExtractReadingOrder(custom)

	if coords := el.find(ns, "Coords"); coords != nil {
		r.HasCoords = true
		pts, _ := coords.attr("points")
		r.Points = ParsePoints(pts)
	}
	return r
}

// DisplayID returns the region id for log messages.
func (r Region) DisplayID() string {
	if r.ID == "" {
		return UnknownType
	}
	return r.ID
}
