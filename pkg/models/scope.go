package models

type scopeKind int

const (
	scopeRoot scopeKind = iota
	scopeFolder
	scopeTrash
	scopeStarred
	scopeTeamFolder
)

// Scope is the listing context that determines which entry collection is
// authoritative: a folder (or the root), the trash, the starred view, or a
// team folder. The zero value is the root.
type Scope struct {
	kind scopeKind
	id   string
}

// ScopeRoot returns the root folder scope.
func ScopeRoot() Scope { return Scope{} }

// ScopeFolder returns the scope for one folder.
func ScopeFolder(id string) Scope {
	if id == "" {
		return ScopeRoot()
	}
	return Scope{kind: scopeFolder, id: id}
}

// ScopeForParent returns the scope that lists the contents of a parent
// reference.
func ScopeForParent(p ParentRef) Scope {
	if id, ok := p.FolderID(); ok {
		return ScopeFolder(id)
	}
	return ScopeRoot()
}

// ScopeTrash returns the trash scope.
func ScopeTrash() Scope { return Scope{kind: scopeTrash} }

// ScopeStarred returns the starred scope.
func ScopeStarred() Scope { return Scope{kind: scopeStarred} }

// ScopeTeamFolder returns the scope for one team folder.
func ScopeTeamFolder(id string) Scope { return Scope{kind: scopeTeamFolder, id: id} }

// IsRoot reports whether the scope is the root folder.
func (s Scope) IsRoot() bool { return s.kind == scopeRoot }

// IsTrash reports whether the scope is the trash view.
func (s Scope) IsTrash() bool { return s.kind == scopeTrash }

// IsStarred reports whether the scope is the starred view.
func (s Scope) IsStarred() bool { return s.kind == scopeStarred }

// FolderID returns the folder id for folder scopes, or false otherwise.
func (s Scope) FolderID() (string, bool) {
	if s.kind == scopeFolder {
		return s.id, true
	}
	return "", false
}

// TeamFolderID returns the team folder id for team scopes, or false otherwise.
func (s Scope) TeamFolderID() (string, bool) {
	if s.kind == scopeTeamFolder {
		return s.id, true
	}
	return "", false
}

// Equal reports whether two scopes denote the same listing context.
func (s Scope) Equal(other Scope) bool {
	return s.kind == other.kind && s.id == other.id
}

// Contains reports whether an entry created under the given parent would
// appear in this scope. Only folder scopes (including root) can match; trash,
// starred, and team scopes never match a creation parent.
func (s Scope) Contains(p ParentRef) bool {
	switch s.kind {
	case scopeRoot:
		return p.IsRoot()
	case scopeFolder:
		id, ok := p.FolderID()
		return ok && id == s.id
	}
	return false
}

// Kind returns a stable label for logging and metrics.
func (s Scope) Kind() string {
	switch s.kind {
	case scopeFolder:
		return "folder"
	case scopeTrash:
		return "trash"
	case scopeStarred:
		return "starred"
	case scopeTeamFolder:
		return "team"
	}
	return "root"
}

func (s Scope) String() string {
	switch s.kind {
	case scopeFolder:
		return "folder:" + s.id
	case scopeTeamFolder:
		return "team:" + s.id
	}
	return s.Kind()
}
