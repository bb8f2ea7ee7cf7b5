package server

import (
	"errors"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"kidtube/internal/models"
)

// errResponseWritten is a sentinel indicating the HTTP response was
// already committed by a helper. Handlers must return nil (not this
// error) so the Fiber error handler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

// Paging holds parsed page/size query parameters. page is 0-based.
type Paging struct {
	Page int
	Size int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePaging extracts the page and size query parameters.
func parsePaging(c *fiber.Ctx) Paging {
	page := c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}

	size := c.QueryInt("size", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return Paging{Page: page, Size: size}
}

// parseID extracts a route parameter by name as a positive uint. On
// failure it writes a 400 response and returns errResponseWritten;
// callers should check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = respondError(c, models.NewValidationError("invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a readable label,
// e.g. "id" -> "ID", "videoId" -> "video ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		return strings.ToLower(strings.Join(splitCamel(prefix), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}
