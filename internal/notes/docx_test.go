package notes

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseNotes(t *testing.T) {
	md := `# Weekly sync

## Action items
1. Ship the release
2) Update **docs**
  3. Ping infra
- top
  - nested

---

| Owner | Task |
|-------|:----:|
| Ann | Review |

Plain text.`

	want := []block{
		{kind: blockHeading, level: 1, text: "Weekly sync"},
		{kind: blockHeading, level: 2, text: "Action items"},
		{kind: blockNumbered, text: "1. Ship the release"},
		{kind: blockNumbered, text: "2. Update **docs**"},
		{kind: blockNumbered, level: 1, text: "3. Ping infra"},
		{kind: blockBullet, text: "top"},
		{kind: blockBullet, level: 1, text: "nested"},
		{kind: blockRow, cells: []string{"Owner", "Task"}, header: true},
		{kind: blockRow, cells: []string{"Ann", "Review"}},
		{kind: blockText, text: "Plain text."},
	}

	got := parseNotes(md)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseNotes() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestParseNotesRowWithoutSeparator(t *testing.T) {
	got := parseNotes("| a | b |\n| c | d |")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i, b := range got {
		if b.kind != blockRow || b.header {
			t.Errorf("block %d = %+v, want plain row", i, b)
		}
	}
}

func TestWriteDocxListsAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	md := "## Decisions\n1. **Keep** chunks\n\n| Who | What |\n|---|---|\n| Bo | Ship |"

	if err := WriteDocx("Meeting notes", md, path); err != nil {
		t.Fatalf("WriteDocx() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("docx not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("docx is empty")
	}
}
