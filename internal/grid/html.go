package grid

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// ErrNoTable is returned when the document lacks the expected
// grid-container div with a table inside.
var ErrNoTable = errors.New("grid: no schedule table in document")

const (
	classGridContainer = "grid-container"
	classFreezebarCell = "freezebar-cell"
)

var (
	cssRuleRe   = regexp.MustCompile(`([^{}]+)\{([^}]*)\}`)
	cssHeightRe = regexp.MustCompile(`height\s*:\s*([\d.]+)`)
	cssBgRe     = regexp.MustCompile(`background-color\s*:\s*([^;]+)`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// TokenizeDocument parses the exported HTML and returns one RowNode per
// <tr> of the main schedule table, with spans, flattened text and resolved
// background colors. Color resolution prefers the cell's inline style and
// falls back to class rules collected from <style> elements; cells with
// neither resolve to white.
func TokenizeDocument(doc string) ([]models.RowNode, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}

	classColors := collectClassColors(root)

	table := findMainTable(root)
	if table == nil {
		return nil, ErrNoTable
	}

	body := findFirstChild(table, atom.Tbody)
	if body == nil {
		// Some exports omit tbody and keep rows directly under table.
		body = table
	}

	var rows []models.RowNode
	for tr := body.FirstChild; tr != nil; tr = tr.NextSibling {
		if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
			continue
		}
		rows = append(rows, tokenizeRow(tr, classColors))
	}

	return rows, nil
}

func tokenizeRow(tr *html.Node, classColors map[string]models.Color) models.RowNode {
	row := models.RowNode{Height: -1}

	if style := attr(tr, "style"); style != "" {
		if m := cssHeightRe.FindStringSubmatch(style); m != nil {
			if h, err := strconv.ParseFloat(m[1], 64); err == nil {
				row.Height = h
			}
		}
	}

	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type != html.ElementNode || td.DataAtom != atom.Td {
			continue
		}

		cell := models.CellNode{
			Colspan:   spanValue(attr(td, "colspan")),
			Rowspan:   spanValue(attr(td, "rowspan")),
			Text:      flattenText(td),
			Color:     cellColor(td, classColors),
			Separator: hasClass(td, classFreezebarCell),
		}
		row.Cells = append(row.Cells, cell)
	}

	return row
}

func cellColor(td *html.Node, classColors map[string]models.Color) models.Color {
	if style := attr(td, "style"); style != "" {
		if m := cssBgRe.FindStringSubmatch(style); m != nil {
			if c, err := models.ParseColor(m[1]); err == nil {
				return c
			}
		}
	}
	for _, class := range strings.Fields(attr(td, "class")) {
		if c, ok := classColors[class]; ok {
			return c
		}
	}
	return models.White
}

// collectClassColors extracts background-color declarations from every
// <style> element, keyed by class name.
func collectClassColors(root *html.Node) map[string]models.Color {
	colors := map[string]models.Color{}

	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Style {
			return
		}
		sheet := flattenText(n)
		for _, rule := range cssRuleRe.FindAllStringSubmatch(sheet, -1) {
			bg := cssBgRe.FindStringSubmatch(rule[2])
			if bg == nil {
				continue
			}
			color, err := models.ParseColor(strings.TrimSpace(bg[1]))
			if err != nil {
				continue
			}
			for _, sel := range strings.Split(rule[1], ",") {
				sel = strings.TrimSpace(sel)
				if strings.HasPrefix(sel, ".") {
					colors[strings.TrimPrefix(sel, ".")] = color
				}
			}
		}
	})

	return colors
}

func findMainTable(root *html.Node) *html.Node {
	var table *html.Node
	walk(root, func(n *html.Node) {
		if table != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Div && hasClass(n, classGridContainer) {
			table = findFirstChild(n, atom.Table)
		}
	})
	if table != nil {
		return table
	}
	// Fall back to the first table anywhere: manually saved copies lose
	// the container div.
	walk(root, func(n *html.Node) {
		if table == nil && n.Type == html.ElementNode && n.DataAtom == atom.Table {
			table = n
		}
	})
	return table
}

func findFirstChild(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func spanValue(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

// flattenText joins every nested text node, collapses whitespace and
// normalizes to NFC so regex matching sees composed characters.
func flattenText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	})
	return norm.NFC.String(strings.TrimSpace(spaceRe.ReplaceAllString(b.String(), " ")))
}
