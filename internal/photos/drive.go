package photos

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"listforge/internal/types"
)

// File is the subset of Drive file metadata the resolver works with.
type File struct {
	ID       string
	Name     string
	MimeType string
}

// Lister enumerates the files of a Drive folder. It exists so Assign can be
// tested without a live Drive service.
type Lister interface {
	ListFolder(ctx context.Context, folderID string) ([]File, error)
}

// Resolver matches seed rows to images in a Google Drive folder and fills
// the PhotoURL column with direct links.
type Resolver struct {
	svc    *drive.Service
	logger *slog.Logger
}

// NewResolver builds a read-only Drive client from a credentials file.
func NewResolver(ctx context.Context, credentialsFile string, logger *slog.Logger) (*Resolver, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Resolver{svc: svc, logger: logger.With("component", "photos")}, nil
}

// ListFolder returns every non-trashed file in the folder, following page
// tokens until exhausted.
func (r *Resolver) ListFolder(ctx context.Context, folderID string) ([]File, error) {
	var files []File
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	pageToken := ""
	for {
		call := r.svc.Files.List().
			Context(ctx).
			Q(query).
			Spaces("drive").
			Fields("nextPageToken, files(id, name, mimeType)")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list drive folder: %w", err)
		}
		for _, f := range resp.Files {
			files = append(files, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	r.logger.Debug("drive folder listed", "folder", folderID, "files", len(files))
	return files, nil
}

// DirectLink converts a Drive file ID into a hotlinkable image URL.
func DirectLink(fileID string) string {
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

var labelPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// NormalizeLabel lowercases a label and strips everything that is not a
// letter or digit, so "Card #12 (PSA 9)" and "card12psa9" compare equal.
func NormalizeLabel(s string) string {
	return labelPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// GroupByLabel buckets files by the normalized form of their base name.
// Files with no usable label land in the "misc" bucket.
func GroupByLabel(files []File) map[string][]File {
	groups := make(map[string][]File)
	for _, f := range files {
		base := strings.TrimSuffix(f.Name, path.Ext(f.Name))
		core := NormalizeLabel(base)
		if core == "" {
			core = "misc"
		}
		groups[core] = append(groups[core], f)
	}
	return groups
}

// BestImage picks the alphabetically first image file from candidates,
// falling back to any file when none has an image mime type.
func BestImage(candidates []File) (File, bool) {
	images := make([]File, 0, len(candidates))
	for _, f := range candidates {
		if strings.HasPrefix(f.MimeType, "image/") {
			images = append(images, f)
		}
	}
	if len(images) == 0 {
		images = append(images, candidates...)
	}
	if len(images) == 0 {
		return File{}, false
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images[0], true
}

// Assign fills the PhotoURL column of each seed row from the folder's
// images. Rows are matched by normalized label, with a substring fallback;
// byOrder skips matching and hands images out alphabetically instead.
// Unmatched rows are also filled by order when label matching assigned
// nothing at all.
func Assign(ctx context.Context, lister Lister, rows []types.SeedRow, folderID, labelCol string, byOrder bool, logger *slog.Logger) (int, error) {
	files, err := lister.ListFolder(ctx, folderID)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		logger.Warn("drive folder is empty", "folder", folderID)
		return 0, nil
	}

	groups := GroupByLabel(files)
	assigned := 0

	if !byOrder {
		for _, row := range rows {
			label := NormalizeLabel(row.Get(labelCol))
			if label == "" {
				continue
			}
			candidates := groups[label]
			if len(candidates) == 0 {
				for key, flist := range groups {
					if strings.Contains(key, label) {
						candidates = append(candidates, flist...)
					}
				}
			}
			if best, ok := BestImage(candidates); ok {
				row["PhotoURL"] = DirectLink(best.ID)
				assigned++
			}
		}
	}

	if byOrder || assigned == 0 {
		var images []File
		for _, f := range files {
			if strings.HasPrefix(f.MimeType, "image/") {
				images = append(images, f)
			}
		}
		sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
		idx := 0
		for _, row := range rows {
			if row["PhotoURL"] != "" || idx >= len(images) {
				continue
			}
			row["PhotoURL"] = DirectLink(images[idx].ID)
			idx++
			assigned++
		}
	}

	logger.Info("photo assignment complete", "rows", len(rows), "assigned", assigned)
	return assigned, nil
}
