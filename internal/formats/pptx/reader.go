// Package pptx reads and appends to .pptx (PowerPoint) files.
package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Slide represents a single slide's extracted content.
type Slide struct {
	Number      int      `json:"number"`
	Part        string   `json:"part"`
	Title       string   `json:"title,omitempty"`
	TextContent []string `json:"textContent"`
	Pictures    int      `json:"pictures"`
}

// Presentation represents a parsed PowerPoint file.
type Presentation struct {
	Slides []Slide `json:"slides"`
}

// ReadFile reads and parses a .pptx file from the given path.
func ReadFile(path string) (*Presentation, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	return d.Presentation()
}

// Parse reads and parses a .pptx file from the given byte slice.
func Parse(data []byte) (*Presentation, error) {
	d, err := Load(data)
	if err != nil {
		return nil, err
	}
	return d.Presentation()
}

// Presentation extracts slide content in the order presentation.xml lists it.
func (d *Deck) Presentation() (*Presentation, error) {
	parts, err := d.SlideParts()
	if err != nil {
		return nil, err
	}

	pres := &Presentation{Slides: make([]Slide, 0, len(parts))}
	for i, part := range parts {
		data, ok := d.parts[part]
		if !ok {
			return nil, fmt.Errorf("slide %d points at missing part %s", i+1, part)
		}
		slide, err := parseSlide(data, i+1)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", part, err)
		}
		slide.Part = part
		pres.Slides = append(pres.Slides, *slide)
	}
	return pres, nil
}

func parseSlide(data []byte, number int) (*Slide, error) {
	slide := &Slide{Number: number}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var inTitle bool
	var texts []string

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ph":
				if v := attrValue(t, "type"); v == "title" || v == "ctrTitle" {
					inTitle = true
				}
			case "pic":
				slide.Pictures++
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text != "" {
				if inTitle && slide.Title == "" {
					slide.Title = text
				}
				texts = append(texts, text)
			}
		case xml.EndElement:
			if t.Name.Local == "sp" {
				inTitle = false
			}
		}
	}

	slide.TextContent = texts
	return slide, nil
}

// PlainText returns all slide content as plain text.
func (p *Presentation) PlainText() string {
	var b strings.Builder
	for _, slide := range p.Slides {
		fmt.Fprintf(&b, "--- Slide %d ---\n", slide.Number)
		if slide.Title != "" {
			fmt.Fprintf(&b, "%s\n\n", slide.Title)
		}
		for _, text := range slide.TextContent {
			fmt.Fprintf(&b, "%s\n", text)
		}
		if slide.Pictures > 0 {
			fmt.Fprintf(&b, "[%d picture(s)]\n", slide.Pictures)
		}
		b.WriteString("\n")
	}
	return b.String()
}
