package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image/png"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// EMUPerInch is the number of English Metric Units in an inch.
const EMUPerInch = 914400

// Inches converts inches to EMU.
func Inches(in float64) int64 {
	return int64(in * EMUPerInch)
}

// Placement positions a picture on a slide. Height follows the image aspect ratio.
type Placement struct {
	Left  int64
	Top   int64
	Width int64
}

// ChartPlacement puts a chart 1in from the left, 2in from the top, 7in wide.
var ChartPlacement = Placement{Left: Inches(1), Top: Inches(2), Width: Inches(7)}

// Deck is an editable .pptx package held in memory. Parts the deck does not
// touch are written back byte for byte.
type Deck struct {
	names []string
	parts map[string][]byte
}

// Open loads a deck from disk.
func Open(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return Load(data)
}

// Load reads a deck from the bytes of a .pptx file.
func Load(data []byte) (*Deck, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .pptx file — the file does not appear to be a valid ZIP archive: %w", err)
	}

	d := &Deck{parts: make(map[string][]byte)}
	for _, f := range reader.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", f.Name, err)
		}
		d.put(f.Name, content)
	}

	if _, ok := d.parts[presentationPart]; !ok {
		return nil, fmt.Errorf("invalid .pptx file — %s is missing", presentationPart)
	}
	return d, nil
}

// New returns an empty deck with a single "Title Only" layout.
func New() *Deck {
	d := &Deck{parts: make(map[string][]byte)}
	for _, p := range blankDeckParts {
		d.put(p.name, []byte(xml.Header+p.body))
	}
	return d
}

func (d *Deck) put(name string, data []byte) {
	if _, ok := d.parts[name]; !ok {
		d.names = append(d.names, name)
	}
	d.parts[name] = data
}

// Part returns the raw bytes of a package part.
func (d *Deck) Part(name string) ([]byte, bool) {
	data, ok := d.parts[name]
	return data, ok
}

// SlideCount returns the number of slides listed in presentation.xml.
func (d *Deck) SlideCount() int {
	refs, err := slideRefs(d.parts[presentationPart])
	if err != nil {
		return 0
	}
	return len(refs)
}

// SlideParts returns slide part names in presentation order.
func (d *Deck) SlideParts() ([]string, error) {
	refs, err := slideRefs(d.parts[presentationPart])
	if err != nil {
		return nil, err
	}
	rels, err := d.rels(presentationPart)
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		rel, ok := rels.byID(ref.RID)
		if !ok {
			return nil, fmt.Errorf("slide %d references missing relationship %s", ref.ID, ref.RID)
		}
		parts = append(parts, resolveTarget(presentationPart, rel.Target))
	}
	return parts, nil
}

// AddPictureSlide appends a slide with a title and a PNG picture.
func (d *Deck) AddPictureSlide(title string, img []byte, at Placement) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("could not read picture: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("picture has no pixels")
	}
	height := at.Width * int64(cfg.Height) / int64(cfg.Width)

	layout, err := d.pickLayout()
	if err != nil {
		return err
	}

	presRels, err := d.rels(presentationPart)
	if err != nil {
		return err
	}
	refs, err := slideRefs(d.parts[presentationPart])
	if err != nil {
		return err
	}
	types, err := d.contentTypes()
	if err != nil {
		return err
	}

	slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", d.nextNumber("ppt/slides/slide", ".xml"))
	mediaPart := fmt.Sprintf("ppt/media/image%d.png", d.nextMediaNumber())

	slideRels := relationships{Rels: []relationship{
		{ID: "rId1", Type: relTypeSlideLayout, Target: relativeTarget(slidePart, layout.Part)},
		{ID: "rId2", Type: relTypeImage, Target: relativeTarget(slidePart, mediaPart)},
	}}
	slideRelsXML, err := marshalPart(&slideRels)
	if err != nil {
		return fmt.Errorf("could not encode slide relationships: %w", err)
	}

	rid := presRels.nextID()
	presRels.Rels = append(presRels.Rels, relationship{
		ID:     rid,
		Type:   relTypeSlide,
		Target: relativeTarget(presentationPart, slidePart),
	})
	presRelsXML, err := marshalPart(presRels)
	if err != nil {
		return fmt.Errorf("could not encode presentation relationships: %w", err)
	}

	id := uint32(256)
	for _, ref := range refs {
		if ref.ID >= id {
			id = ref.ID + 1
		}
	}
	presXML, err := insertSlideID(d.parts[presentationPart], id, rid)
	if err != nil {
		return err
	}

	types.ensureDefault("png", "image/png")
	types.setOverride("/"+slidePart, ctSlide)
	typesXML, err := marshalPart(types)
	if err != nil {
		return fmt.Errorf("could not encode content types: %w", err)
	}

	d.put(mediaPart, img)
	d.put(slidePart, []byte(pictureSlideXML(title, path.Base(mediaPart), at, height)))
	d.put(relsPart(slidePart), slideRelsXML)
	d.put(relsPart(presentationPart), presRelsXML)
	d.put(presentationPart, presXML)
	d.put(contentTypesPart, typesXML)
	return nil
}

// Bytes serializes the deck as a .pptx archive.
func (d *Deck) Bytes() ([]byte, error) {
	names := make([]string, 0, len(d.names))
	for _, name := range d.names {
		if name != contentTypesPart {
			names = append(names, name)
		}
	}
	if _, ok := d.parts[contentTypesPart]; ok {
		names = append([]string{contentTypesPart}, names...)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("could not add %s: %w", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize .pptx archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the deck to path, replacing any existing file.
func (d *Deck) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

func (d *Deck) rels(part string) (*relationships, error) {
	var rels relationships
	data, ok := d.parts[relsPart(part)]
	if !ok {
		return &rels, nil
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("could not parse relationships of %s: %w", part, err)
	}
	return &rels, nil
}

func (d *Deck) contentTypes() (*contentTypes, error) {
	var types contentTypes
	data, ok := d.parts[contentTypesPart]
	if !ok {
		return nil, fmt.Errorf("invalid .pptx file — %s is missing", contentTypesPart)
	}
	if err := xml.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("could not parse content types: %w", err)
	}
	return &types, nil
}

func (d *Deck) nextNumber(prefix, suffix string) int {
	nums := numberedParts(d.names, prefix, suffix)
	if len(nums) == 0 {
		return 1
	}
	return nums[len(nums)-1] + 1
}

func (d *Deck) nextMediaNumber() int {
	next := 1
	for _, name := range d.names {
		if !strings.HasPrefix(name, "ppt/media/image") {
			continue
		}
		base := strings.TrimSuffix(path.Base(name), path.Ext(name))
		var n int
		if _, err := fmt.Sscanf(base, "image%d", &n); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

// pickLayout prefers "Title Only", then "Title and Content", then any
// layout with a title placeholder, then the first layout.
func (d *Deck) pickLayout() (layoutInfo, error) {
	var layouts []layoutInfo
	for _, n := range numberedParts(d.names, "ppt/slideLayouts/slideLayout", ".xml") {
		part := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", n)
		layouts = append(layouts, parseLayout(part, d.parts[part]))
	}
	if len(layouts) == 0 {
		return layoutInfo{}, fmt.Errorf("deck has no slide layouts")
	}

	rank := func(l layoutInfo) int {
		switch {
		case l.Type == "titleOnly":
			return 0
		case l.Type == "obj":
			return 1
		case l.HasTitle:
			return 2
		}
		return 3
	}
	sort.SliceStable(layouts, func(i, j int) bool {
		return rank(layouts[i]) < rank(layouts[j])
	})
	return layouts[0], nil
}

func pictureSlideXML(title, mediaName string, at Placement, height int64) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>`)
	b.WriteString(xmlEscape(title))
	b.WriteString(`</a:t></a:r></a:p></p:txBody></p:sp>`)

	fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="3" name="Picture 2" descr="%s"/>`, xmlEscape(mediaName))
	b.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	b.WriteString(`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, at.Left, at.Top, at.Width, height)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}
