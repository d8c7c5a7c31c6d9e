package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Interface-corporation/grow-movement-app/internal/matching"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/database"
	"github.com/Interface-corporation/grow-movement-app/pkg/jwtutil"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

// AuthHandler serves account registration and login. Registration is gated by
// the signup eligibility roster check.
type AuthHandler struct {
	Engine *matching.Engine
	JWT    *jwtutil.JWTUtil
}

// CheckEligibility is the public signup roster check.
func (h *AuthHandler) CheckEligibility(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	result, err := h.Engine.CheckSignupEligibility(req.Email)
	if err != nil {
		logger.FromEcho(c).Error("Eligibility check failed", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "eligibility check failed"})
	}
	return c.JSON(http.StatusOK, result)
}

// Register creates an account for an email on the coach/entrepreneur roster.
// Coach emails get the coach role and a link to their coach record.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		FullName string `json:"full_name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	eligibility, err := h.Engine.CheckSignupEligibility(email)
	if err != nil {
		log.Error("Eligibility check failed during registration", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	if !eligibility.Eligible {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "this email is not eligible for an account"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if result := database.GetDB().Where("email = ?", email).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	var coachID *string
	if eligibility.Type == "coach" {
		coachID, err = h.Engine.CoachIDByEmail(email)
		if err != nil {
			log.Error("Failed to resolve coach record", zap.Error(err))
			prometheus.RecordError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
		}
	}

	user := model.User{
		Email:    email,
		Password: string(hashed),
		FullName: req.FullName,
		CoachID:  coachID,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if eligibility.Type == "coach" {
			return tx.Create(&model.UserRole{UserID: user.ID, Role: model.RoleCoach}).Error
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created successfully",
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// Login verifies credentials and issues a JWT carrying the account's role.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().Where("email = ?", email).First(&user); result.Error != nil {
		log.Warn("Login for unknown user", zap.String("email", email))
		prometheus.RecordError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", email))
		prometheus.RecordError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	role := resolveRole(user.ID)

	token, err := h.JWT.GenerateToken(user.Email, user.ID, role, user.CoachID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":       user.ID,
			"email":    user.Email,
			"role":     role,
			"coach_id": user.CoachID,
		},
	})
}

// resolveRole picks the account's effective role. Priority follows the source
// system: admin > program_admin > coach.
func resolveRole(userID string) string {
	var roles []model.UserRole
	if result := database.GetDB().Where("user_id = ?", userID).Find(&roles); result.Error != nil {
		return ""
	}

	var effective string
	for _, r := range roles {
		switch r.Role {
		case model.RoleAdmin:
			return model.RoleAdmin
		case model.RoleProgramAdmin:
			effective = model.RoleProgramAdmin
		case model.RoleCoach:
			if effective == "" {
				effective = model.RoleCoach
			}
		}
	}
	return effective
}
