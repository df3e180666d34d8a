package conversion

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"html"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// DocxConverter renders the main document part of a .docx file as HTML:
// headings by paragraph style, paragraphs with bold/italic/underline runs,
// numbered or bulleted paragraphs as list items, line breaks and tables.
type DocxConverter struct{}

// Name implements Converter.
func (c *DocxConverter) Name() string { return "docx" }

// Convert implements Converter.
func (c *DocxConverter) Convert(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &ConversionError{Message: "empty document"}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ConversionError{Message: "not a valid .docx archive", Cause: err}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == documentPart {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", &ConversionError{Message: "word/document.xml not found in archive"}
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", &ConversionError{Message: "failed to open document.xml", Cause: err}
	}
	defer rc.Close()

	out, err := renderDocument(rc)
	if err != nil {
		return "", &ConversionError{Message: "malformed document.xml", Cause: err}
	}
	return out, nil
}

type docxRun struct {
	bold, italic, underline bool
	body                    strings.Builder
}

func (r *docxRun) render() string {
	s := r.body.String()
	if s == "" {
		return ""
	}
	if r.underline {
		s = "<u>" + s + "</u>"
	}
	if r.italic {
		s = "<em>" + s + "</em>"
	}
	if r.bold {
		s = "<strong>" + s + "</strong>"
	}
	return s
}

type docxParagraph struct {
	style string
	list  bool
	body  strings.Builder
	text  bool
}

// docxFrame is the paragraph and run a nested paragraph interrupts.
type docxFrame struct {
	para *docxParagraph
	run  *docxRun
}

type docxRenderer struct {
	out        strings.Builder
	para       *docxParagraph
	run        *docxRun
	inRunProps bool
	inText     bool
	inList     bool
	tableDepth int

	// outer holds the paragraphs enclosing the current one. Text boxes nest
	// whole paragraphs inside a run of their anchor paragraph.
	outer []docxFrame

	// nested collects finished inner paragraphs until the outermost
	// paragraph is emitted.
	nested []*docxParagraph
}

func renderDocument(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	w := &docxRenderer{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			// mc:Fallback repeats the mc:Choice content for older readers.
			if t.Name.Local == "Fallback" {
				if err := dec.Skip(); err != nil {
					return "", err
				}
				continue
			}
			w.start(t)
		case xml.CharData:
			if w.inText && w.run != nil {
				w.run.body.WriteString(html.EscapeString(string(t)))
				if strings.TrimSpace(string(t)) != "" && w.para != nil {
					w.para.text = true
				}
			}
		case xml.EndElement:
			w.end(t)
		}
	}
	w.closeList()
	return w.out.String(), nil
}

func (w *docxRenderer) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		if w.para != nil {
			w.outer = append(w.outer, docxFrame{para: w.para, run: w.run})
		}
		w.para = &docxParagraph{}
		w.run = nil
	case "pStyle":
		if w.para != nil {
			w.para.style = attr(t, "val")
		}
	case "numPr":
		if w.para != nil {
			w.para.list = true
		}
	case "r":
		if w.para != nil {
			w.run = &docxRun{}
		}
	case "rPr":
		w.inRunProps = w.run != nil
	case "b":
		if w.inRunProps {
			w.run.bold = toggleOn(t)
		}
	case "i":
		if w.inRunProps {
			w.run.italic = toggleOn(t)
		}
	case "u":
		if w.inRunProps {
			v := attr(t, "val")
			w.run.underline = v != "none" && v != "0" && v != "false"
		}
	case "t":
		w.inText = true
	case "tab":
		if w.run != nil && !w.inRunProps {
			w.run.body.WriteString(" ")
		}
	case "br":
		if w.run != nil {
			w.run.body.WriteString("<br>")
		}
	case "tbl":
		w.closeList()
		w.tableDepth++
		w.out.WriteString("<table>")
	case "tr":
		w.out.WriteString("<tr>")
	case "tc":
		w.out.WriteString("<td>")
	}
}

func (w *docxRenderer) end(t xml.EndElement) {
	switch t.Name.Local {
	case "t":
		w.inText = false
	case "rPr":
		w.inRunProps = false
	case "r":
		if w.run != nil && w.para != nil {
			w.para.body.WriteString(w.run.render())
		}
		w.run = nil
	case "p":
		w.endParagraph()
	case "tc":
		w.out.WriteString("</td>")
	case "tr":
		w.out.WriteString("</tr>")
	case "tbl":
		w.out.WriteString("</table>")
		if w.tableDepth > 0 {
			w.tableDepth--
		}
	}
}

// endParagraph emits the current paragraph, or defers it while it is nested
// in another one. Deferred paragraphs follow their outermost paragraph.
func (w *docxRenderer) endParagraph() {
	if w.para == nil {
		return
	}
	if n := len(w.outer); n > 0 {
		w.nested = append(w.nested, w.para)
		w.para, w.run = w.outer[n-1].para, w.outer[n-1].run
		w.outer = w.outer[:n-1]
		return
	}
	w.emitParagraph(w.para)
	for _, p := range w.nested {
		w.emitParagraph(p)
	}
	w.para, w.run, w.nested = nil, nil, nil
}

func (w *docxRenderer) emitParagraph(p *docxParagraph) {
	if !p.text {
		return
	}
	content := p.body.String()

	if level := headingLevel(p.style); level > 0 {
		w.closeList()
		tag := "h" + string(rune('0'+level))
		w.out.WriteString("<" + tag + ">" + content + "</" + tag + ">")
		return
	}
	if p.list && w.tableDepth == 0 {
		if !w.inList {
			w.out.WriteString("<ul>")
			w.inList = true
		}
		w.out.WriteString("<li>" + content + "</li>")
		return
	}
	w.closeList()
	w.out.WriteString("<p>" + content + "</p>")
}

func (w *docxRenderer) closeList() {
	if w.inList {
		w.out.WriteString("</ul>")
		w.inList = false
	}
}

// headingLevel maps a paragraph style id such as "Heading2" or "Title" to a
// heading level, or 0 for body styles.
func headingLevel(style string) int {
	lower := strings.ToLower(style)
	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(lower[len(prefix):])
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off property: absent val means on.
func toggleOn(t xml.StartElement) bool {
	switch attr(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
