package server

import (
	"github.com/gofiber/fiber/v2"

	"kidtube/internal/models"
)

// CreateVideo adds a video to the catalog with zeroed counters.
func (s *Server) CreateVideo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var video models.Video
	if err := c.BodyParser(&video); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if err := s.videoService.Create(ctx, &video); err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, video)
}

// GetVideos lists the catalog, optionally filtered by type and title.
func (s *Server) GetVideos(c *fiber.Ctx) error {
	p := parsePaging(c)
	page, err := s.videoService.List(c.UserContext(),
		models.VideoType(c.Query("type")), c.Query("title"), p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

// SearchVideos matches titles by substring, optionally narrowed to a
// type.
func (s *Server) SearchVideos(c *fiber.Ctx) error {
	title := c.Query("title")
	if title == "" {
		return respondError(c, models.NewValidationError("title is required"))
	}
	p := parsePaging(c)
	page, err := s.videoService.List(c.UserContext(),
		models.VideoType(c.Query("type")), title, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

func (s *Server) GetVideosByType(c *fiber.Ctx) error {
	p := parsePaging(c)
	page, err := s.videoService.List(c.UserContext(),
		models.VideoType(c.Params("type")), "", p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

// GetHotVideos lists videos by likes count descending.
func (s *Server) GetHotVideos(c *fiber.Ctx) error {
	p := parsePaging(c)
	page, err := s.videoService.ListHot(c.UserContext(),
		models.VideoType(c.Query("type")), p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

// GetLatestVideos lists videos by creation time descending.
func (s *Server) GetLatestVideos(c *fiber.Ctx) error {
	p := parsePaging(c)
	page, err := s.videoService.ListLatest(c.UserContext(),
		models.VideoType(c.Query("type")), p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

func (s *Server) GetVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	video, err := s.videoService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, video)
}

func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var video models.Video
	if parseErr := c.BodyParser(&video); parseErr != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	video.ID = id

	if err := s.videoService.Update(ctx, &video); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, video)
}

func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.videoService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}

// IncrementVideoLikes bumps the likes counter directly. The per-user
// like toggle lives under /liked-videos; this endpoint backs anonymous
// kiosk-style clients that track nothing per user.
func (s *Server) IncrementVideoLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.videoService.IncrementLikes(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}

func (s *Server) DecrementVideoLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.videoService.DecrementLikes(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}
