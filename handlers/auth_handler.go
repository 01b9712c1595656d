package handlers

import (
	"time"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token              string `json:"token,omitempty"`
	FullName           string `json:"full_name"`
	Club               string `json:"club"`
	MustChangePassword bool   `json:"must_change_password"`
}

func signStaffToken(staff *models.StaffUser) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  staff.ID,
		"username": staff.Username,
		"club":     staff.Club,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

// LoginStaff authenticates a dashboard user. A first login with the
// temporary password succeeds but returns no API token until a permanent
// password has been set.
func LoginStaff(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var staff models.StaffUser
	if err := database.DB.Where("username = ?", req.Username).First(&staff).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if !staff.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	if staff.MustChangePassword && staff.TempPassword != nil {
		if req.Password == *staff.TempPassword {
			return c.JSON(LoginResponse{
				FullName:           staff.FullName,
				Club:               staff.Club,
				MustChangePassword: true,
			})
		}
	}

	if staff.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*staff.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	now := time.Now()
	staff.LastLogin = &now
	database.DB.Save(&staff)

	token, err := signStaffToken(&staff)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign token"})
	}

	return c.JSON(LoginResponse{
		Token:    token,
		FullName: staff.FullName,
		Club:     staff.Club,
	})
}

type SetPasswordRequest struct {
	Username     string `json:"username" validate:"required"`
	TempPassword string `json:"temp_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required,min=8"`
}

// SetPassword completes first-time setup: the temporary password is
// exchanged for a permanent bcrypt hash and a token is issued.
func SetPassword(c *fiber.Ctx) error {
	var req SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var staff models.StaffUser
	if err := database.DB.Where("username = ?", req.Username).First(&staff).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if !staff.IsActive || !staff.MustChangePassword || staff.TempPassword == nil || *staff.TempPassword != req.TempPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	hashStr := string(hashed)
	now := time.Now()
	staff.PasswordHash = &hashStr
	staff.TempPassword = nil
	staff.MustChangePassword = false
	staff.LastLogin = &now
	if err := database.DB.Save(&staff).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update password"})
	}

	token, err := signStaffToken(&staff)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign token"})
	}

	return c.JSON(LoginResponse{
		Token:    token,
		FullName: staff.FullName,
		Club:     staff.Club,
	})
}
