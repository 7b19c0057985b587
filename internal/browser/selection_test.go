package browser

import (
	"testing"

	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

func TestSelectionToggle(t *testing.T) {
	sel := NewSelection()

	if sel.Active() {
		t.Error("empty selection should not be active")
	}
	if !sel.Toggle("file-1") {
		t.Error("first toggle should select")
	}
	if !sel.Active() || !sel.Has("file-1") {
		t.Error("selection should contain file-1")
	}
	if sel.Toggle("file-1") {
		t.Error("second toggle should deselect")
	}
	if sel.Active() {
		t.Error("selection mode should end when the last key is removed")
	}
}

func TestSelectionSelectAllAndClear(t *testing.T) {
	sel := NewSelection()
	folders := []models.FolderEntry{{ID: "d1"}, {ID: "d2"}}
	files := []models.FileEntry{{ID: "f1"}}

	sel.SelectAll(folders, files)
	if sel.Len() != 3 {
		t.Fatalf("Len = %d, want 3", sel.Len())
	}
	for _, key := range []string{"folder-d1", "folder-d2", "file-f1"} {
		if !sel.Has(key) {
			t.Errorf("missing key %s", key)
		}
	}

	sel.Clear()
	if sel.Len() != 0 || sel.Active() {
		t.Error("Clear should empty the selection")
	}
}

func TestSelectionKeysWellFormed(t *testing.T) {
	sel := NewSelection()
	sel.SelectAll(
		[]models.FolderEntry{{ID: "d1"}},
		[]models.FileEntry{{ID: "f1"}},
	)
	for _, key := range sel.Keys() {
		if _, _, err := models.ParseSelectionKey(key); err != nil {
			t.Errorf("key %q does not parse: %v", key, err)
		}
	}
}

func TestSelectionPruneDropsMissing(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("file-f1")
	sel.Toggle("file-f2")
	sel.Toggle("folder-d1")

	// f2 disappeared from the collection (deleted elsewhere).
	dropped := sel.Prune(
		[]models.FolderEntry{{ID: "d1"}},
		[]models.FileEntry{{ID: "f1"}},
	)

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if sel.Has("file-f2") {
		t.Error("pruned key must be gone")
	}
	if !sel.Has("file-f1") || !sel.Has("folder-d1") {
		t.Error("surviving keys must stay selected")
	}
}

func TestSelectionPruneAllEndsSelectionMode(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("file-f1")
	sel.Prune(nil, nil)
	if sel.Active() {
		t.Error("pruning every key should end selection mode")
	}
}
