// Package models contains the shared entry types for the drive client.
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes the two entry variants.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// ParentRef identifies where an entry lives: the drive root or a folder.
// The zero value is the root.
type ParentRef struct {
	folderID string
}

// Root returns the root parent reference.
func Root() ParentRef {
	return ParentRef{}
}

// InFolder returns a reference to the folder with the given id.
func InFolder(id string) ParentRef {
	return ParentRef{folderID: id}
}

// IsRoot reports whether the reference is the drive root.
func (p ParentRef) IsRoot() bool {
	return p.folderID == ""
}

// FolderID returns the parent folder id, or false for the root.
func (p ParentRef) FolderID() (string, bool) {
	if p.folderID == "" {
		return "", false
	}
	return p.folderID, true
}

// Equal reports whether two references denote the same location.
func (p ParentRef) Equal(other ParentRef) bool {
	return p.folderID == other.folderID
}

func (p ParentRef) String() string {
	if p.folderID == "" {
		return "root"
	}
	return p.folderID
}

// MarshalJSON encodes the root as null and a folder as its id string.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.folderID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(p.folderID)
}

// UnmarshalJSON accepts null, "", or "root" as the root reference.
func (p *ParentRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Root()
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	if id == "" || id == "root" {
		*p = Root()
		return nil
	}
	*p = InFolder(id)
	return nil
}

// FileEntry is a file record as returned by the listing API.
type FileEntry struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Size           int64      `json:"size"`
	ContentType    string     `json:"content_type"`
	Parent         ParentRef  `json:"parent_folder_id"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	Starred        bool       `json:"starred"`
	Classification string     `json:"classification,omitempty"`
}

// FolderEntry is a folder record as returned by the listing API.
type FolderEntry struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Parent             ParentRef  `json:"parent_folder_id"`
	CreatedAt          time.Time  `json:"created_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	Starred            bool       `json:"starred"`
	RecoveryPeriodDays int        `json:"recovery_period_days,omitempty"`
	Classification     string     `json:"classification,omitempty"`
}

// DefaultRecoveryPeriodDays is used when the server does not set a
// per-folder recovery window.
const DefaultRecoveryPeriodDays = 30

// MutationAPI is the per-kind mutation surface an entry dispatches to.
// The HTTP client implements it; tests substitute fakes.
type MutationAPI interface {
	DeleteFile(ctx context.Context, id string) error
	DeleteFolder(ctx context.Context, id string) error
	RestoreFile(ctx context.Context, id string) error
	RestoreFolder(ctx context.Context, id string) error
	PurgeFile(ctx context.Context, id string) error
	PurgeFolder(ctx context.Context, id string) error
	MoveFile(ctx context.Context, id string, dest ParentRef) error
	MoveFolder(ctx context.Context, id string, dest ParentRef) error
}

// Entry is the common capability surface of files and folders. Mutations
// dispatch through the variant, never by inspecting a key string.
type Entry interface {
	EntryID() string
	EntryKind() Kind
	DisplayName() string
	Created() time.Time
	Trashed() *time.Time
	SelectionKey() string

	Delete(ctx context.Context, api MutationAPI) error
	Restore(ctx context.Context, api MutationAPI) error
	Purge(ctx context.Context, api MutationAPI) error
	Move(ctx context.Context, api MutationAPI, dest ParentRef) error
}

func (f FileEntry) EntryID() string      { return f.ID }
func (f FileEntry) EntryKind() Kind      { return KindFile }
func (f FileEntry) DisplayName() string  { return f.Name }
func (f FileEntry) Created() time.Time   { return f.CreatedAt }
func (f FileEntry) Trashed() *time.Time  { return f.DeletedAt }
func (f FileEntry) SelectionKey() string { return SelectionKey(KindFile, f.ID) }

func (f FileEntry) Delete(ctx context.Context, api MutationAPI) error {
	return api.DeleteFile(ctx, f.ID)
}

func (f FileEntry) Restore(ctx context.Context, api MutationAPI) error {
	return api.RestoreFile(ctx, f.ID)
}

func (f FileEntry) Purge(ctx context.Context, api MutationAPI) error {
	return api.PurgeFile(ctx, f.ID)
}

func (f FileEntry) Move(ctx context.Context, api MutationAPI, dest ParentRef) error {
	return api.MoveFile(ctx, f.ID, dest)
}

// InTrash reports whether the file has been soft-deleted.
func (f FileEntry) InTrash() bool {
	return f.DeletedAt != nil
}

func (d FolderEntry) EntryID() string      { return d.ID }
func (d FolderEntry) EntryKind() Kind      { return KindFolder }
func (d FolderEntry) DisplayName() string  { return d.Name }
func (d FolderEntry) Created() time.Time   { return d.CreatedAt }
func (d FolderEntry) Trashed() *time.Time  { return d.DeletedAt }
func (d FolderEntry) SelectionKey() string { return SelectionKey(KindFolder, d.ID) }

func (d FolderEntry) Delete(ctx context.Context, api MutationAPI) error {
	return api.DeleteFolder(ctx, d.ID)
}

func (d FolderEntry) Restore(ctx context.Context, api MutationAPI) error {
	return api.RestoreFolder(ctx, d.ID)
}

func (d FolderEntry) Purge(ctx context.Context, api MutationAPI) error {
	return api.PurgeFolder(ctx, d.ID)
}

func (d FolderEntry) Move(ctx context.Context, api MutationAPI, dest ParentRef) error {
	return api.MoveFolder(ctx, d.ID, dest)
}

// InTrash reports whether the folder has been soft-deleted.
func (d FolderEntry) InTrash() bool {
	return d.DeletedAt != nil
}

// DaysRemaining returns the number of whole days before a trashed entry is
// purged. recoveryDays <= 0 falls back to the default window. Returns 0 for
// entries not in the trash or already past their window.
func DaysRemaining(deletedAt *time.Time, recoveryDays int, now time.Time) int {
	if deletedAt == nil {
		return 0
	}
	if recoveryDays <= 0 {
		recoveryDays = DefaultRecoveryPeriodDays
	}
	purgeAt := deletedAt.AddDate(0, 0, recoveryDays)
	if !purgeAt.After(now) {
		return 0
	}
	return int(purgeAt.Sub(now).Hours() / 24)
}

// SelectionKey builds the composite key for one entry. Files and folders may
// share an id space, so the kind is part of the key.
func SelectionKey(kind Kind, id string) string {
	return string(kind) + "-" + id
}

// ParseSelectionKey splits a composite selection key into kind and id.
func ParseSelectionKey(key string) (Kind, string, error) {
	kind, id, ok := strings.Cut(key, "-")
	if !ok || id == "" {
		return "", "", fmt.Errorf("malformed selection key: %q", key)
	}
	switch Kind(kind) {
	case KindFile, KindFolder:
		return Kind(kind), id, nil
	}
	return "", "", fmt.Errorf("unknown kind in selection key: %q", key)
}
