package savegame

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFilesSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"beta.sav", "alpha.sav", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.sav"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alpha.sav", "beta.sav"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files = %v, want %v", files, want)
		}
	}
}

func TestListFilesMissingDirIsEmpty(t *testing.T) {
	files, err := ListFiles(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("files = %v, want none", files)
	}
}

func TestFilenameNormalizesClientInput(t *testing.T) {
	got := Filename("/srv/save", "../../etc/passwd")
	if got != filepath.Join("/srv/save", "passwd"+FileExtension) {
		t.Fatalf("filename = %q, want sanitized basename", got)
	}
	got = Filename("/srv/save", "campaign.sav")
	if got != "/srv/save/campaign.sav" {
		t.Fatalf("filename = %q, want /srv/save/campaign.sav", got)
	}
}
