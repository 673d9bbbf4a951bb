package media

import (
	"context"
	"strings"

	"spyglass/internal/logging"
	"spyglass/internal/services"
)

// browseRecordingFolders lists the sub-folders one level below a recordings
// node. Entries whose names do not fit the expected layout are logged and
// skipped rather than failing the whole listing.
func (s *Source) browseRecordingFolders(ctx context.Context, ident RecordingIdentifier) (*BrowseNode, error) {
	entries, err := s.client.GetRecordingsFolder(ctx, ident.ServerPath())
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "media-source", "browse", "fetch recordings folder", err)
	}
	base, err := s.recordingBaseNode(ident)
	if err != nil {
		return nil, err
	}

	logger := logging.WithContext(ctx, s.logger)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name, ".mp4") {
			continue
		}
		title, err := recordingChildTitle(ident, entry.Name)
		if err != nil {
			logger.Warn("skipping non-standard folder name",
				logging.String("name", entry.Name), logging.Error(err))
			continue
		}
		child, err := ident.WithNextField(entry.Name)
		if err != nil {
			logger.Warn("skipping non-standard folder name",
				logging.String("name", entry.Name), logging.Error(err))
			continue
		}
		base.Children = append(base.Children, &BrowseNode{
			Identifier: child.String(),
			Title:      title,
			MediaClass: ClassDirectory,
			CanExpand:  true,
		})
	}
	return base, nil
}

// browseRecordings lists the playable segments inside a camera's hour
// folder.
func (s *Source) browseRecordings(ctx context.Context, ident RecordingIdentifier) (*BrowseNode, error) {
	entries, err := s.client.GetRecordingsFolder(ctx, ident.ServerPath())
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "media-source", "browse", "fetch recordings folder", err)
	}
	base, err := s.recordingBaseNode(ident)
	if err != nil {
		return nil, err
	}

	logger := logging.WithContext(ctx, s.logger)
	for _, entry := range entries {
		title, err := recordingChildTitle(ident, entry.Name)
		if err != nil {
			logger.Warn("skipping non-standard recording name",
				logging.String("name", entry.Name), logging.Error(err))
			continue
		}
		child := ident
		child.RecordingName = entry.Name
		base.Children = append(base.Children, &BrowseNode{
			Identifier: child.String(),
			Title:      title,
			MediaClass: ClassVideo,
			CanPlay:    true,
		})
	}
	return base, nil
}

// recordingBaseNode names the folder being browsed. A node whose own fields
// cannot be titled is unrepresentable, so the browse fails.
func (s *Source) recordingBaseNode(ident RecordingIdentifier) (*BrowseNode, error) {
	title, err := recordingTitle(ident)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidIdentifier, "media-source", "browse", "name recordings folder", err)
	}
	return &BrowseNode{
		Identifier: ident.String(),
		Title:      title,
		MediaClass: ClassDirectory,
		CanExpand:  true,
	}, nil
}
