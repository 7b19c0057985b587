package browser

import (
	"testing"
	"time"

	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

func testCollection() ([]models.FolderEntry, []models.FileEntry) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	folders := []models.FolderEntry{
		{ID: "d1", Name: "Projects", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d2", Name: "archive", CreatedAt: base.Add(1 * time.Hour)},
	}
	files := []models.FileEntry{
		{ID: "f1", Name: "beach.jpg", ContentType: "image/jpeg", Size: 300, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "f2", Name: "clip.mp4", ContentType: "video/mp4", Size: 5000, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "f3", Name: "Report.pdf", ContentType: "application/pdf", Size: 120, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "f4", Name: "notes.txt", ContentType: "text/plain", Size: 10, CreatedAt: base.Add(4 * time.Hour)},
	}
	return folders, files
}

func fileIDs(files []models.FileEntry) []string {
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyViewFilters(t *testing.T) {
	folders, files := testCollection()

	tests := []struct {
		filter      TypeFilter
		wantFiles   []string
		wantFolders int
	}{
		{FilterAll, []string{"f1", "f2", "f3", "f4"}, 2},
		{FilterImages, []string{"f1"}, 2},
		{FilterVideos, []string{"f2"}, 2},
		{FilterDocuments, []string{"f3", "f4"}, 2},
		{FilterFoldersOnly, nil, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			prefs := DefaultPrefs()
			prefs.Sort = SortByDate // preserve insertion-independent check via ids
			prefs.Filter = tt.filter
			gotFolders, gotFiles := ApplyView(folders, files, prefs)
			if len(gotFolders) != tt.wantFolders {
				t.Errorf("folders = %d, want %d (media filters must not hide folders)",
					len(gotFolders), tt.wantFolders)
			}
			got := fileIDs(gotFiles)
			want := make(map[string]bool, len(tt.wantFiles))
			for _, id := range tt.wantFiles {
				want[id] = true
			}
			if len(got) != len(tt.wantFiles) {
				t.Fatalf("files = %v, want %v", got, tt.wantFiles)
			}
			for _, id := range got {
				if !want[id] {
					t.Errorf("unexpected file %s in view", id)
				}
			}
		})
	}
}

func TestApplyViewSortByName(t *testing.T) {
	folders, files := testCollection()
	prefs := DefaultPrefs()

	gotFolders, gotFiles := ApplyView(folders, files, prefs)

	if gotFolders[0].Name != "archive" || gotFolders[1].Name != "Projects" {
		t.Errorf("folder order = [%s %s], want case-insensitive [archive Projects]",
			gotFolders[0].Name, gotFolders[1].Name)
	}
	want := []string{"f1", "f2", "f4", "f3"} // beach, clip, notes, Report
	if got := fileIDs(gotFiles); !equalIDs(got, want) {
		t.Errorf("file order = %v, want %v", got, want)
	}
}

func TestApplyViewSortBySize(t *testing.T) {
	folders, files := testCollection()
	prefs := DefaultPrefs()
	prefs.Sort = SortBySize

	gotFolders, gotFiles := ApplyView(folders, files, prefs)

	// Folders tie on size, so they fall back to name order.
	if gotFolders[0].Name != "archive" {
		t.Errorf("folders should order by name under size sort, got %s first", gotFolders[0].Name)
	}
	want := []string{"f4", "f3", "f1", "f2"}
	if got := fileIDs(gotFiles); !equalIDs(got, want) {
		t.Errorf("file order = %v, want %v", got, want)
	}
}

func TestApplyViewDirectionReversal(t *testing.T) {
	folders, files := testCollection()
	asc := DefaultPrefs()
	desc := asc
	desc.Direction = Descending

	_, ascFiles := ApplyView(folders, files, asc)
	_, descFiles := ApplyView(folders, files, desc)

	if len(ascFiles) != len(descFiles) {
		t.Fatal("direction must not change the visible set")
	}
	for i := range ascFiles {
		if ascFiles[i].ID != descFiles[len(descFiles)-1-i].ID {
			t.Fatalf("descending is not the exact reverse: asc=%v desc=%v",
				fileIDs(ascFiles), fileIDs(descFiles))
		}
	}
}

func TestApplyViewDoesNotMutateInput(t *testing.T) {
	folders, files := testCollection()
	origFirst := files[0].ID

	prefs := DefaultPrefs()
	prefs.Sort = SortBySize
	prefs.Direction = Descending
	ApplyView(folders, files, prefs)

	if files[0].ID != origFirst {
		t.Error("ApplyView must not reorder its inputs")
	}
}
