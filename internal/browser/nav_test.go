package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SDRoan/Filebox-sub001/pkg/cache"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

type fakeFolderSource struct {
	folders map[string]models.FolderEntry
	fetches int
}

func (s *fakeFolderSource) FetchFolder(_ context.Context, id string) (*models.FolderEntry, error) {
	s.fetches++
	if f, ok := s.folders[id]; ok {
		return &f, nil
	}
	return nil, errors.New("not found")
}

func TestNavPushAndUp(t *testing.T) {
	nav := NewNav(&fakeFolderSource{}, nil)

	if !nav.CurrentScope().IsRoot() {
		t.Fatal("nav should start at root")
	}

	nav.PushFolder("a")
	scope := nav.PushFolder("b")
	if id, _ := scope.FolderID(); id != "b" {
		t.Errorf("scope after push = %v", scope)
	}
	if nav.Depth() != 2 {
		t.Errorf("depth = %d, want 2", nav.Depth())
	}

	scope = nav.NavigateUp()
	if id, _ := scope.FolderID(); id != "a" {
		t.Errorf("scope after up = %v", scope)
	}
	scope = nav.NavigateUp()
	if !scope.IsRoot() {
		t.Errorf("scope after second up = %v, want root", scope)
	}
	// Up at the root stays at the root.
	if !nav.NavigateUp().IsRoot() {
		t.Error("up at root must stay at root")
	}
}

func TestNavJumpToTruncatesOnce(t *testing.T) {
	nav := NewNav(&fakeFolderSource{}, nil)
	nav.PushFolder("a")
	nav.PushFolder("b")
	nav.PushFolder("c")

	scope := nav.JumpTo(0)
	if id, _ := scope.FolderID(); id != "a" {
		t.Errorf("jump to index 0 landed at %v, want folder a", scope)
	}
	if nav.Depth() != 1 {
		t.Errorf("depth = %d, want 1", nav.Depth())
	}

	if !nav.JumpTo(-1).IsRoot() {
		t.Error("negative index should reset to root")
	}
	if nav.Depth() != 0 {
		t.Errorf("depth = %d, want 0", nav.Depth())
	}
}

func TestNavJumpToCurrentIsNoop(t *testing.T) {
	nav := NewNav(&fakeFolderSource{}, nil)
	nav.PushFolder("a")
	nav.PushFolder("b")

	scope := nav.JumpTo(1)
	if id, _ := scope.FolderID(); id != "b" {
		t.Errorf("jumping to the current crumb changed scope to %v", scope)
	}
	if nav.Depth() != 2 {
		t.Errorf("depth = %d, want 2", nav.Depth())
	}
}

func TestBreadcrumbsResolutionOrder(t *testing.T) {
	source := &fakeFolderSource{folders: map[string]models.FolderEntry{
		"c": {ID: "c", Name: "gamma"},
	}}
	folderCache := cache.New(16, time.Minute)
	folderCache.Put(models.FolderEntry{ID: "b", Name: "beta"})

	nav := NewNav(source, folderCache)
	nav.PushFolder("a")
	nav.PushFolder("b")
	nav.PushFolder("c")

	loaded := func(id string) (models.FolderEntry, bool) {
		if id == "a" {
			return models.FolderEntry{ID: "a", Name: "alpha"}, true
		}
		return models.FolderEntry{}, false
	}

	crumbs := nav.Breadcrumbs(context.Background(), loaded)
	if len(crumbs) != 3 {
		t.Fatalf("crumbs = %d, want 3", len(crumbs))
	}
	names := []string{"alpha", "beta", "gamma"}
	for i, want := range names {
		if crumbs[i].Name != want {
			t.Errorf("crumb %d = %s, want %s", i, crumbs[i].Name, want)
		}
	}
	if source.fetches != 1 {
		t.Errorf("fetches = %d, want 1 (only the uncached id)", source.fetches)
	}
}

func TestBreadcrumbsOmitUnresolvable(t *testing.T) {
	source := &fakeFolderSource{}
	nav := NewNav(source, nil)
	nav.PushFolder("gone")
	nav.PushFolder("also-gone")

	crumbs := nav.Breadcrumbs(context.Background(), nil)
	if len(crumbs) != 0 {
		t.Errorf("unresolvable crumbs should be omitted, got %d", len(crumbs))
	}
}
