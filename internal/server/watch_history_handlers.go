package server

import (
	"github.com/gofiber/fiber/v2"

	"kidtube/internal/models"
)

// RecordWatch upserts a watch-history entry for (userId, videoId).
// Repeat watches refresh the timestamp instead of inserting a second
// row. progress is optional; -1 preserves the stored value.
func (s *Server) RecordWatch(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		UserID   uint `json:"userId"`
		VideoID  uint `json:"videoId"`
		Progress *int `json:"progress"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if req.UserID == 0 || req.VideoID == 0 {
		return respondError(c, models.NewValidationError("userId and videoId are required"))
	}

	progress := -1
	if req.Progress != nil {
		progress = *req.Progress
	}

	entry, err := s.historyService.Record(ctx, req.UserID, req.VideoID, progress)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, entry)
}

func (s *Server) GetWatchHistoryEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	view, err := s.historyService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, view)
}

// GetWatchHistory returns the user's full history, newest first, with
// video snapshots attached.
func (s *Server) GetWatchHistory(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	views, err := s.historyService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, views)
}

func (s *Server) GetWatchHistoryPaged(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePaging(c)
	page, err := s.historyService.ListForUserPaged(c.UserContext(), userID, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

// GetRecentWatchHistory returns entries from the last seven days.
func (s *Server) GetRecentWatchHistory(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	views, err := s.historyService.ListRecent(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, views)
}

func (s *Server) CountWatchedVideos(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	count, err := s.historyService.CountDistinctVideos(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, count)
}

func (s *Server) CheckWatched(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	watched, err := s.historyService.HasWatched(c.UserContext(), userID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, watched)
}

// GetWatchProgress returns the stored playback position, zero when the
// user has never watched the video.
func (s *Server) GetWatchProgress(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	progress, err := s.historyService.GetProgress(c.UserContext(), userID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, progress)
}

// UpdateWatchProgress sets the playback position, creating the entry
// when the user has no history for the video yet.
func (s *Server) UpdateWatchProgress(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}

	var req struct {
		Progress int `json:"progress"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	entry, err := s.historyService.UpdateProgress(ctx, userID, videoID, req.Progress)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, entry)
}

func (s *Server) DeleteWatchHistoryEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.historyService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}

// DeleteWatchForVideo clears the user's entry for one video. Absent
// entries are a silent success.
func (s *Server) DeleteWatchForVideo(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.historyService.DeleteForUserVideo(c.UserContext(), userID, videoID); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}
