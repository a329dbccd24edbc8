package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// extractDOCX returns the body paragraphs of a .docx file joined by newlines.
// Tables, headers, footers and text boxes are not part of the body paragraph
// list and are skipped. Empty paragraphs are kept as blank lines.
func extractDOCX(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx: %v", ErrParse, err)
	}
	defer doc.Close()

	paragraphs, err := bodyParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// bodyParagraphs walks word/document.xml and returns the text of every w:p
// that is a direct child of w:body, in document order.
func bodyParagraphs(documentXML string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))
	var (
		paragraphs []string
		stack      []string
		current    *strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if embeddedObject(t.Name) {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("document.xml: %w", err)
				}
				continue
			}
			name := wordName(t.Name)
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, name)
			switch {
			case name == "p" && parent == "body":
				current = &strings.Builder{}
			case current == nil:
			case name == "t":
				inText = true
			case name == "tab":
				current.WriteByte('\t')
			case name == "br" || name == "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case name == "t":
				inText = false
			case name == "p" && current != nil && len(stack) > 0 && stack[len(stack)-1] == "body":
				paragraphs = append(paragraphs, current.String())
				current = nil
			}
		case xml.CharData:
			if inText && current != nil {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// embeddedObject reports elements whose subtree is not paragraph text:
// text boxes, drawings, VML pictures, OLE objects and markup-compatibility
// wrappers (which repeat a text box in both Choice and Fallback).
func embeddedObject(n xml.Name) bool {
	switch n.Local {
	case "AlternateContent":
		return true
	case "txbxContent", "drawing", "pict", "object":
		return n.Space == wordNS || n.Space == "w"
	}
	return false
}

// wordName returns the local name of WordprocessingML elements and a
// sentinel for everything else, so that e.g. math m:t runs are ignored.
func wordName(n xml.Name) string {
	if n.Space == wordNS || n.Space == "w" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}
