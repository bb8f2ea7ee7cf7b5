package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikeVideo records the user's like on a video. A repeat like of the
// same video is rejected with a conflict.
func (s *Server) LikeVideo(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.likeService.Like(c.UserContext(), userID, videoID); err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, nil)
}

// UnlikeVideo removes the user's like. Unliking a video the user never
// liked is rejected with a conflict.
func (s *Server) UnlikeVideo(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.likeService.Unlike(c.UserContext(), userID, videoID); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}

func (s *Server) CheckLiked(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	liked, err := s.likeService.HasLiked(c.UserContext(), userID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, liked)
}

// GetLikedVideos pages through the user's like rows, most recent
// first.
func (s *Server) GetLikedVideos(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePaging(c)
	page, err := s.likeService.ListLiked(c.UserContext(), userID, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, page)
}
