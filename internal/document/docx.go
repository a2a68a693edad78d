package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read docx: %w", ErrCorruptDocument, err)
	}
	defer doc.Close()

	units, err := paragraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: parse docx body: %w", ErrCorruptDocument, err)
	}

	return joinUnits(units), nil
}

// paragraphs walks word/document.xml and returns the text of every paragraph
// that is a direct child of w:body, in document order. Paragraphs in tables,
// text boxes and other containers are skipped. Tab stop definitions in
// paragraph properties are not text.
func paragraphs(body string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))

	var (
		units   []string
		path    []string
		current *strings.Builder
		nested  int
		inText  bool
		inTabs  bool
	)

	// collecting is true only inside a body paragraph and outside anything
	// nested in it that has paragraphs of its own.
	collecting := func() bool { return current != nil && nested == 0 }

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := token.(type) {
		case xml.StartElement:
			parent := ""
			if len(path) > 0 {
				parent = path[len(path)-1]
			}
			name := el.Name.Local
			if el.Name.Space != wordNamespace {
				name = ""
			}
			path = append(path, name)

			switch name {
			case "p":
				if current == nil && parent == "body" {
					current = &strings.Builder{}
				} else if current != nil {
					nested++
				}
			case "t":
				inText = true
			case "tabs":
				inTabs = true
			case "tab":
				if collecting() && !inTabs {
					current.WriteString("\t")
				}
			case "br", "cr":
				if collecting() {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "p":
				switch {
				case nested > 0:
					nested--
				case current != nil:
					units = append(units, current.String())
					current = nil
				}
			case "t":
				inText = false
			case "tabs":
				inTabs = false
			}
		case xml.CharData:
			if inText && collecting() {
				current.Write(el)
			}
		}
	}

	return units, nil
}
