package notes

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Calibri"
	bodySize  = 11
	titleSize = 16
)

// Indexed by heading level minus one; deeper levels use bodySize.
var headingSizes = []uint64{15, 13, 12}

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBullet   = regexp.MustCompile(`^( *)[\-\*+]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^( *)(\d+)[.)]\s+(.+)$`)
	reTableSep = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

type blockKind int

const (
	blockText blockKind = iota
	blockHeading
	blockBullet
	blockNumbered
	blockRow
)

// block is one rendered paragraph of the notes.
type block struct {
	kind   blockKind
	level  int // heading level, or list nesting depth
	text   string
	cells  []string
	header bool
}

// parseNotes splits markdown into the paragraph kinds the notes use.
// Horizontal rules and table separator rows produce nothing.
func parseNotes(markdown string) []block {
	lines := strings.Split(strings.ReplaceAll(markdown, "\t", "    "), "\n")

	var out []block
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == "---":
		case isSeparator(trimmed):
		case strings.HasPrefix(trimmed, "|"):
			out = append(out, block{
				kind:   blockRow,
				cells:  splitRow(trimmed),
				header: i+1 < len(lines) && isSeparator(strings.TrimSpace(lines[i+1])),
			})
		default:
			out = append(out, classify(strings.TrimRight(line, " ")))
		}
	}
	return out
}

func isSeparator(line string) bool {
	return strings.HasPrefix(line, "|") && reTableSep.MatchString(line)
}

func classify(line string) block {
	trimmed := strings.TrimSpace(line)
	if m := reHeading.FindStringSubmatch(trimmed); m != nil {
		return block{kind: blockHeading, level: len(m[1]), text: m[2]}
	}
	if m := reNumbered.FindStringSubmatch(line); m != nil {
		return block{kind: blockNumbered, level: len(m[1]) / 2, text: m[2] + ". " + m[3]}
	}
	if m := reBullet.FindStringSubmatch(line); m != nil {
		return block{kind: blockBullet, level: len(m[1]) / 2, text: m[2]}
	}
	return block{kind: blockText, text: trimmed}
}

func splitRow(row string) []string {
	row = strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	cells := strings.Split(row, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// WriteDocx renders markdown notes into a word document at path.
func WriteDocx(title, markdown, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), title, true, titleSize)

	for _, b := range parseNotes(markdown) {
		p := doc.AddParagraph("")
		indent := strings.Repeat("    ", b.level)
		switch b.kind {
		case blockHeading:
			size := uint64(bodySize)
			if b.level <= len(headingSizes) {
				size = headingSizes[b.level-1]
			}
			addRun(p, b.text, true, size)
		case blockBullet:
			addInline(p, indent+"• "+b.text)
		case blockNumbered:
			addInline(p, indent+b.text)
		case blockRow:
			cells := strings.Join(b.cells, "\t")
			if b.header {
				addRun(p, cells, true, bodySize)
			} else {
				addInline(p, cells)
			}
		default:
			addInline(p, b.text)
		}
	}

	return doc.SaveTo(path)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(stripMarkers(text)).Font(fontName).Size(size)
	if bold {
		run.Bold(true)
	}
}

// addInline keeps **bold** spans bold.
func addInline(p *docx.Paragraph, text string) {
	last := 0
	for _, m := range reBold.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			addRun(p, text[last:m[0]], false, bodySize)
		}
		addRun(p, text[m[2]:m[3]], true, bodySize)
		last = m[1]
	}
	if last < len(text) {
		addRun(p, text[last:], false, bodySize)
	}
}

func stripMarkers(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
