package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kidtube/internal/models"
)

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	Verification string `json:"verificationCode"`
}

// Register creates a new account, optionally gated by an email
// verification code.
func (s *Server) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Email:    strings.TrimSpace(req.Email),
		Nickname: strings.TrimSpace(req.Nickname),
	}
	if err := s.userService.Register(ctx, user, req.Verification); err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, user)
}

// Login authenticates by username or email plus password.
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if req.Username == "" || req.Password == "" {
		return respondError(c, models.NewValidationError("username and password are required"))
	}

	user, err := s.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

// SendVerificationCode issues a code for the given email. The response
// does not echo the code in production; here it is returned so the
// flow is usable without an SMTP relay.
func (s *Server) SendVerificationCode(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return respondError(c, models.NewValidationError("email is required"))
	}

	code, err := s.verifier.Issue(ctx, req.Email)
	if err != nil {
		return respondError(c, models.NewInternalError("failed to issue verification code", err))
	}
	return respondOK(c, fiber.Map{"email": req.Email, "code": code})
}

// CreateUser stores an account directly, without the verification
// gate. Kept for admin tooling.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if err := s.userService.Create(ctx, &user); err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, user)
}

func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, users)
}

func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

func (s *Server) GetUserByUsername(c *fiber.Ctx) error {
	user, err := s.userService.FindByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

func (s *Server) GetUserByNickname(c *fiber.Ctx) error {
	user, err := s.userService.FindByNickname(c.UserContext(), c.Params("nickname"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

// CheckUsername reports whether the username query parameter is taken.
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return respondError(c, models.NewValidationError("username is required"))
	}
	exists, err := s.userService.ExistsByUsername(c.UserContext(), username)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{"exists": exists})
}

func (s *Server) CheckNickname(c *fiber.Ctx) error {
	nickname := c.Query("nickname")
	if nickname == "" {
		return respondError(c, models.NewValidationError("nickname is required"))
	}
	exists, err := s.userService.ExistsByNickname(c.UserContext(), nickname)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{"exists": exists})
}

func (s *Server) CheckEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return respondError(c, models.NewValidationError("email is required"))
	}
	exists, err := s.userService.ExistsByEmail(c.UserContext(), email)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.Map{"exists": exists})
}

// UpdateUser edits profile fields. Password and creation time are
// immutable through this endpoint.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var user models.User
	if parseErr := c.BodyParser(&user); parseErr != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	user.ID = id

	if err := s.userService.Update(ctx, &user); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

// ChangePassword resets a password using an emailed verification code.
// The data field reports whether the reset took effect.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	changed, err := s.userService.ChangePassword(ctx, req.Email, req.Code, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, changed)
}

func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}
