package handlers

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File

	var responses []models.UploadResponse

	for _, fileType := range []string{models.FileTypeResume, models.FileTypeJobDescription} {
		uploads, exists := files[fileType]
		if !exists || len(uploads) == 0 {
			continue
		}

		response, status, err := h.storeDocument(uploads[0], fileType)
		if err != nil {
			return c.Status(status).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		responses = append(responses, *response)
	}

	if len(responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid files uploaded. Please upload 'resume' and/or 'job_description' as PDF files.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

func (h *UploadHandler) storeDocument(file *multipart.FileHeader, fileType string) (*models.UploadResponse, int, error) {
	if file.Size > h.maxFileSize {
		return nil, fiber.StatusBadRequest, fmt.Errorf("%s file too large. Max size: %d bytes", fileType, h.maxFileSize)
	}

	stored, err := h.storageService.SaveFile(file, fileType)
	if err != nil {
		return nil, fiber.StatusInternalServerError, fmt.Errorf("failed to save %s file: %v", fileType, err)
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         stored.Filename,
		OriginalFileName: file.Filename,
		FileType:         fileType,
		FilePath:         stored.FilePath,
		SizeBytes:        stored.SizeBytes,
		SHA256:           stored.SHA256,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(stored.Filename)
		return nil, fiber.StatusInternalServerError, fmt.Errorf("failed to save %s document record: %v", fileType, err)
	}

	return &models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
		SizeBytes:    doc.SizeBytes,
	}, 0, nil
}
