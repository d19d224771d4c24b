package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"

	"ecosnap/internal/repositories"
	"ecosnap/internal/services"
	"ecosnap/pkg/classifier"

	"github.com/gofiber/fiber/v2"
)

// ClassifyHandler handles the authenticated image classification flow and
// profile retrieval.
type ClassifyHandler struct {
	classifier   *classifier.Client
	statsService *services.StatsService
	authService  *services.AuthService
}

// NewClassifyHandler creates a new ClassifyHandler.
func NewClassifyHandler(classifierClient *classifier.Client, statsService *services.StatsService, authService *services.AuthService) *ClassifyHandler {
	return &ClassifyHandler{
		classifier:   classifierClient,
		statsService: statsService,
		authService:  authService,
	}
}

// RegisterRoutes registers the protected routes with the Fiber app. The
// router is expected to carry the auth middleware.
func (h *ClassifyHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.HandleUpload)
	router.Get("/profile", h.HandleProfile)
}

// HandleUpload forwards the uploaded image to the classification service,
// records the result in the user's stats and echoes the classification back
// together with a data URI of the image.
func (h *ClassifyHandler) HandleUpload(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	lang := c.Query("lang", "en")

	result, err := h.classifier.Classify(c.UserContext(), image, fileHeader.Filename, contentType, lang)
	if err != nil {
		log.Printf("Classification failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to classify image",
		})
	}

	// Bookkeeping is best-effort: a classification the user already paid the
	// latency for is delivered even if the stats write fails.
	if err := h.statsService.RecordClassification(userID, result.WasteType); err != nil {
		log.Printf("Stats update skipped for user %s: %v", userID, err)
	}

	response := fiber.Map{}
	for key, value := range result.Raw {
		response[key] = value
	}
	response["imageUrl"] = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))

	return c.JSON(response)
}

// HandleProfile returns the authenticated user's name, email and stats.
func (h *ClassifyHandler) HandleProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		log.Printf("Error loading profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	return c.JSON(fiber.Map{
		"name":  user.Name,
		"email": user.Email,
		"stats": user.Stats,
	})
}
