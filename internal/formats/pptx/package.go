package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeOfficeDocument = nsOfficeRels + "/officeDocument"
	relTypeSlide          = nsOfficeRels + "/slide"
	relTypeSlideLayout    = nsOfficeRels + "/slideLayout"
	relTypeSlideMaster    = nsOfficeRels + "/slideMaster"
	relTypeTheme          = nsOfficeRels + "/theme"
	relTypeImage          = nsOfficeRels + "/image"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

	presentationPart = "ppt/presentation.xml"
	contentTypesPart = "[Content_Types].xml"
)

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// nextID returns the first unused "rIdN" after the highest existing one.
func (r *relationships) nextID() string {
	highest := 0
	for _, rel := range r.Rels {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("rId%d", highest+1)
}

func (r *relationships) byID(id string) (relationship, bool) {
	for _, rel := range r.Rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return relationship{}, false
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (c *contentTypes) ensureDefault(ext, contentType string) {
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	c.Defaults = append(c.Defaults, ctDefault{Extension: ext, ContentType: contentType})
}

func (c *contentTypes) setOverride(partName, contentType string) {
	for i, o := range c.Overrides {
		if o.PartName == partName {
			c.Overrides[i].ContentType = contentType
			return
		}
	}
	c.Overrides = append(c.Overrides, ctOverride{PartName: partName, ContentType: contentType})
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// relsPart returns the relationships part name for a package part,
// e.g. ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func relsPart(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget turns a relationship target into a package part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// relativeTarget is the inverse of resolveTarget for parts in sibling directories.
func relativeTarget(source, part string) string {
	srcDir := path.Dir(source)
	if path.Dir(part) == srcDir {
		return path.Base(part)
	}
	if path.Dir(path.Dir(part)) == srcDir {
		return strings.TrimPrefix(part, srcDir+"/")
	}
	return "../" + strings.TrimPrefix(part, path.Dir(srcDir)+"/")
}

// numberedParts returns the numbers N of parts matching prefix+N+suffix, sorted.
func numberedParts(names []string, prefix, suffix string) []int {
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)` + regexp.QuoteMeta(suffix) + "$")
	var nums []int
	for _, name := range names {
		if m := re.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums
}

type slideRef struct {
	ID  uint32
	RID string
}

// slideRefs reads the sldIdLst of presentation.xml in document order.
func slideRefs(data []byte) ([]slideRef, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var refs []slideRef
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse presentation.xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sldId" {
			continue
		}
		var ref slideRef
		for _, attr := range start.Attr {
			switch {
			case attr.Name.Local == "id" && attr.Name.Space == nsOfficeRels:
				ref.RID = attr.Value
			case attr.Name.Local == "id" && attr.Name.Space == "":
				id, err := strconv.ParseUint(attr.Value, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("invalid slide id %q: %w", attr.Value, err)
				}
				ref.ID = uint32(id)
			}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

var rootPrefixRe = regexp.MustCompile(`<([A-Za-z_][\w.-]*):presentation[\s>]`)

// insertSlideID adds an sldId entry to presentation.xml, creating the
// sldIdLst in its schema position when the deck has no slides yet.
func insertSlideID(data []byte, id uint32, rid string) ([]byte, error) {
	prefix := "p"
	if m := rootPrefixRe.FindSubmatch(data); m != nil {
		prefix = string(m[1])
	}
	entry := fmt.Sprintf(`<%s:sldId id="%d" r:id="%s"/>`, prefix, id, rid)
	doc := string(data)

	closing := "</" + prefix + ":sldIdLst>"
	if i := strings.Index(doc, closing); i >= 0 {
		return []byte(doc[:i] + entry + doc[i:]), nil
	}

	list := "<" + prefix + ":sldIdLst>" + entry + closing
	if empty := "<" + prefix + ":sldIdLst/>"; strings.Contains(doc, empty) {
		return []byte(strings.Replace(doc, empty, list, 1)), nil
	}

	for _, before := range []string{"handoutMasterIdLst", "notesMasterIdLst", "sldMasterIdLst"} {
		end := "</" + prefix + ":" + before + ">"
		if i := strings.Index(doc, end); i >= 0 {
			i += len(end)
			return []byte(doc[:i] + list + doc[i:]), nil
		}
	}
	return nil, fmt.Errorf("presentation.xml has no slide master list")
}

type layoutInfo struct {
	Part     string
	Type     string
	Name     string
	HasTitle bool
}

func parseLayout(part string, data []byte) layoutInfo {
	info := layoutInfo{Part: part}
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "sldLayout":
			info.Type = attrValue(start, "type")
		case "cSld":
			info.Name = attrValue(start, "name")
		case "ph":
			if t := attrValue(start, "type"); t == "title" || t == "ctrTitle" {
				info.HasTitle = true
			}
		}
	}
	return info
}

func attrValue(start xml.StartElement, local string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == local && attr.Name.Space == "" {
			return attr.Value
		}
	}
	return ""
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
