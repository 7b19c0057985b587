// Package protocol defines the API request/response types.
package protocol

import (
	"time"

	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

// ListResponse is returned by the listing endpoints. Files and folders are
// delivered as two flat collections; ids are unique per kind within one
// response.
type ListResponse struct {
	Folders []models.FolderEntry `json:"folders"`
	Files   []models.FileEntry   `json:"files"`
}

// ErrorResponse is returned on API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// CreateFolderRequest is the body for POST /api/v1/folders.
type CreateFolderRequest struct {
	Name   string           `json:"name"`
	Parent models.ParentRef `json:"parent_folder_id"`
}

// MoveRequest is the body for POST /api/v1/{files|folders}/{id}/move.
type MoveRequest struct {
	Destination models.ParentRef `json:"destination_folder_id"`
}

// UploadResponse is returned after a successful file upload.
type UploadResponse struct {
	File models.FileEntry `json:"file"`
}

// StarResponse is returned by the star/unstar endpoints.
type StarResponse struct {
	ID      string `json:"id"`
	Starred bool   `json:"starred"`
}

// Push event types delivered over the per-user event stream. Unknown types
// must be ignored by consumers.
const (
	EventFileUploaded   = "file-uploaded"
	EventFolderCreated  = "folder-created"
	EventFileDeleted    = "file-deleted"
	EventFolderDeleted  = "folder-deleted"
	EventFileRestored   = "file-restored"
	EventFolderRestored = "folder-restored"
	EventFileStarred    = "file-starred"
	EventFileUnstarred  = "file-unstarred"
	EventFileRenamed    = "file-renamed"
	EventFolderRenamed  = "folder-renamed"
)

// RootParentID is the explicit wire sentinel for the drive root in push
// events, distinct from an absent parent field.
const RootParentID = "root"

// PushEvent is one mutation notification from the per-user event stream.
// ParentID is only set for upload/create events; RootParentID marks the root.
type PushEvent struct {
	Type      string  `json:"type"`
	EntityID  string  `json:"entity_id"`
	ParentID  *string `json:"parent_folder_id,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Parent resolves the event's parent field into a tagged reference. The
// second return is false when the event carries no parent information.
func (e PushEvent) Parent() (models.ParentRef, bool) {
	if e.ParentID == nil {
		return models.ParentRef{}, false
	}
	if *e.ParentID == RootParentID || *e.ParentID == "" {
		return models.Root(), true
	}
	return models.InFolder(*e.ParentID), true
}

// TrashedEntry pairs a trashed entry's identity with its computed recovery
// countdown for display.
type TrashedEntry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	DeletedAt     time.Time `json:"deleted_at"`
	DaysRemaining int       `json:"days_remaining"`
}
