package models

import "testing"

func TestScopeContains(t *testing.T) {
	tests := []struct {
		name   string
		scope  Scope
		parent ParentRef
		want   bool
	}{
		{"root contains root parent", ScopeRoot(), Root(), true},
		{"root excludes folder parent", ScopeRoot(), InFolder("a"), false},
		{"folder contains its own parent", ScopeFolder("a"), InFolder("a"), true},
		{"folder excludes other folder", ScopeFolder("a"), InFolder("b"), false},
		{"folder excludes root", ScopeFolder("a"), Root(), false},
		{"trash never contains", ScopeTrash(), Root(), false},
		{"starred never contains", ScopeStarred(), InFolder("a"), false},
		{"team never contains", ScopeTeamFolder("t"), InFolder("t"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Contains(tt.parent); got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeEqual(t *testing.T) {
	if !ScopeFolder("a").Equal(ScopeFolder("a")) {
		t.Error("same folder scopes should be equal")
	}
	if ScopeFolder("a").Equal(ScopeFolder("b")) {
		t.Error("different folder scopes should differ")
	}
	if ScopeTrash().Equal(ScopeStarred()) {
		t.Error("trash and starred should differ")
	}
	if !ScopeFolder("").Equal(ScopeRoot()) {
		t.Error("empty folder id should normalize to root")
	}
}

func TestScopeForParent(t *testing.T) {
	if !ScopeForParent(Root()).IsRoot() {
		t.Error("root parent should yield root scope")
	}
	id, ok := ScopeForParent(InFolder("x")).FolderID()
	if !ok || id != "x" {
		t.Errorf("folder parent: got (%q, %v)", id, ok)
	}
}
