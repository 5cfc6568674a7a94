package hocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Parse converts raw hOCR data into a structured Document. Both scantab's
// own output and Tesseract-generated hOCR are accepted; elements beyond
// ocr_page and ocrx_word (areas, paragraphs, lines) are descended through
// and their words collected flat per page.
func Parse(data []byte) (Document, error) {
	var result Document

	// Figure out the character encoding; legacy hOCR files occasionally
	// declare Latin-1
	content := string(data)
	encoding := "utf-8"
	if idx := strings.Index(content, "charset="); idx >= 0 {
		rest := content[idx+len("charset="):]
		enc := strings.ToLower(strings.FieldsFunc(rest, func(r rune) bool {
			return r == '"' || r == ';' || r == '\'' || r == '>'
		})[0])
		if enc != "" {
			encoding = enc
		}
	}

	decoded := data
	switch encoding {
	case "utf-8", "utf8", "us-ascii", "ascii":
		// already usable as-is
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		var err error
		decoded, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s: %w", encoding, err)
		}
	case "windows-1252", "cp1252":
		var err error
		decoded, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s: %w", encoding, err)
		}
	default:
		// Unrecognized declaration; passing the bytes through unmodified
		// beats guessing a single-byte decode and corrupting UTF-8
	}

	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return result, err
	}

	result.Title = findTitle(doc)
	result.Language = attrValue(findElement(doc, "html"), "lang")

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			result.Pages = append(result.Pages, parsePage(n, len(result.Pages)+1))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// ParseTitle breaks down an hOCR title attribute into its components.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// parsePage extracts one ocr_page element and all ocrx_word descendants.
func parsePage(n *html.Node, ordinal int) Page {
	page := Page{
		ID:         attrValue(n, "id"),
		PageNumber: ordinal,
	}

	props := ParseTitle(attrValue(n, "title"))
	if img, ok := props["image"]; ok && len(img) > 0 {
		page.Image = strings.Trim(strings.Join(img, " "), `"`)
	}
	if bbox, ok := parseBBox(props); ok {
		page.Width = bbox.X2 - bbox.X1
		page.Height = bbox.Y2 - bbox.Y1
	}
	if pn, ok := props["ppageno"]; ok && len(pn) > 0 {
		// hOCR ppageno is zero-based; Tesseract emits ppageno 0 for the
		// first page
		if v, err := strconv.Atoi(pn[0]); err == nil && v >= 0 {
			page.PageNumber = v + 1
		}
	}

	var findWords func(*html.Node)
	findWords = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if word, ok := parseWord(n); ok {
				page.Words = append(page.Words, word)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findWords(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		findWords(c)
	}

	return page
}

// parseWord extracts one ocrx_word element. Words with empty text are
// dropped rather than fabricated.
func parseWord(n *html.Node) (Word, bool) {
	word := Word{
		ID:   attrValue(n, "id"),
		Text: strings.TrimSpace(textContent(n)),
	}
	if word.Text == "" {
		return word, false
	}

	props := ParseTitle(attrValue(n, "title"))
	if bbox, ok := parseBBox(props); ok {
		word.BBox = bbox
	}
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		if v, err := strconv.ParseFloat(conf[0], 64); err == nil {
			word.Confidence = v
		}
	}

	return word, true
}

func parseBBox(props map[string][]string) (BoundingBox, bool) {
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return BoundingBox{}, false
	}
	x1, err1 := strconv.Atoi(bbox[0])
	y1, err2 := strconv.Atoi(bbox[1])
	x2, err3 := strconv.Atoi(bbox[2])
	y2, err4 := strconv.Atoi(bbox[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return BoundingBox{}, false
	}
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}, true
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, class) {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func findTitle(doc *html.Node) string {
	if title := findElement(doc, "title"); title != nil {
		return strings.TrimSpace(textContent(title))
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
