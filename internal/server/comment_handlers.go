package server

import (
	"github.com/gofiber/fiber/v2"

	"kidtube/internal/models"
)

// CreateComment posts a comment on a video and bumps the video's
// comments counter.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		VideoID uint   `json:"videoId"`
		UserID  uint   `json:"userId"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if req.VideoID == 0 || req.UserID == 0 {
		return respondError(c, models.NewValidationError("videoId and userId are required"))
	}

	comment := &models.Comment{
		VideoID: req.VideoID,
		UserID:  req.UserID,
		Content: req.Content,
	}
	if err := s.commentService.Create(ctx, comment); err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, comment)
}

func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, comment)
}

// GetVideoComments returns a video's comments newest first, enriched
// with author display fields.
func (s *Server) GetVideoComments(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	views, err := s.commentService.ListForVideo(c.UserContext(), videoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, views)
}

func (s *Server) GetVideoCommentsPaged(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	p := parsePaging(c)
	page, err := s.commentService.ListForVideoPaged(c.UserContext(), videoID, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}

func (s *Server) CountVideoComments(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	count, err := s.commentService.CountForVideo(c.UserContext(), videoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, count)
}

func (s *Server) GetUserComments(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	comments, err := s.commentService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, comments)
}

func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.commentService.Update(ctx, id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, comment)
}

// DeleteComment removes a comment and decrements the video's counter.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}
