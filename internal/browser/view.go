package browser

import (
	"sort"
	"strings"

	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

// SortField selects the comparator key for the rendered view.
type SortField string

const (
	SortByName SortField = "name"
	SortByDate SortField = "date"
	SortBySize SortField = "size"
	SortByType SortField = "type"
)

// SortDirection flips the comparator uniformly.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// TypeFilter restricts which files are shown. Folders are only affected by
// FoldersOnly; they have no content type, so the media filters pass them
// through untouched.
type TypeFilter string

const (
	FilterAll         TypeFilter = "all"
	FilterImages      TypeFilter = "images"
	FilterVideos      TypeFilter = "videos"
	FilterDocuments   TypeFilter = "documents"
	FilterFoldersOnly TypeFilter = "folders-only"
)

// DisplayMode is how the view layer renders the listing.
type DisplayMode string

const (
	DisplayGrid DisplayMode = "grid"
	DisplayList DisplayMode = "list"
)

// ViewPrefs holds the session's sort, filter, and display settings.
type ViewPrefs struct {
	Sort      SortField
	Direction SortDirection
	Filter    TypeFilter
	Display   DisplayMode
}

// DefaultPrefs returns the initial view preferences.
func DefaultPrefs() ViewPrefs {
	return ViewPrefs{
		Sort:      SortByName,
		Direction: Ascending,
		Filter:    FilterAll,
		Display:   DisplayGrid,
	}
}

var documentTypes = []string{"pdf", "word", "excel", "text"}

func fileMatchesFilter(f models.FileEntry, filter TypeFilter) bool {
	switch filter {
	case FilterFoldersOnly:
		return false
	case FilterImages:
		return strings.HasPrefix(f.ContentType, "image/")
	case FilterVideos:
		return strings.HasPrefix(f.ContentType, "video/")
	case FilterDocuments:
		for _, t := range documentTypes {
			if strings.Contains(f.ContentType, t) {
				return true
			}
		}
		return false
	}
	return true
}

// compareNames orders display names case-insensitively, falling back to a
// byte compare so distinct names never compare equal.
func compareNames(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// folderLess orders folders by the given field. Folders have size 0 and the
// literal content type "folder".
func folderLess(a, b models.FolderEntry, field SortField) bool {
	switch field {
	case SortByDate:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortBySize, SortByType:
		// All folders tie on size and type; fall through to name for a
		// deterministic order.
		return compareNames(a.Name, b.Name) < 0
	}
	return compareNames(a.Name, b.Name) < 0
}

func fileLess(a, b models.FileEntry, field SortField) bool {
	switch field {
	case SortByDate:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortBySize:
		return a.Size < b.Size
	case SortByType:
		if a.ContentType != b.ContentType {
			return a.ContentType < b.ContentType
		}
		return compareNames(a.Name, b.Name) < 0
	}
	return compareNames(a.Name, b.Name) < 0
}

// ApplyView derives the rendered view from the authoritative collections:
// filter, then stable sort, with the direction flip applied uniformly. Pure
// function; inputs are not modified.
func ApplyView(folders []models.FolderEntry, files []models.FileEntry, prefs ViewPrefs) ([]models.FolderEntry, []models.FileEntry) {
	outFolders := append([]models.FolderEntry(nil), folders...)

	outFiles := make([]models.FileEntry, 0, len(files))
	for _, f := range files {
		if fileMatchesFilter(f, prefs.Filter) {
			outFiles = append(outFiles, f)
		}
	}

	desc := prefs.Direction == Descending

	sort.SliceStable(outFolders, func(i, j int) bool {
		if desc {
			return folderLess(outFolders[j], outFolders[i], prefs.Sort)
		}
		return folderLess(outFolders[i], outFolders[j], prefs.Sort)
	})
	sort.SliceStable(outFiles, func(i, j int) bool {
		if desc {
			return fileLess(outFiles[j], outFiles[i], prefs.Sort)
		}
		return fileLess(outFiles[i], outFiles[j], prefs.Sort)
	})

	return outFolders, outFiles
}
