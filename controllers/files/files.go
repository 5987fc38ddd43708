package fileController

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"svault/config"
	"svault/database"
	"svault/middleware"
	"svault/models"
	"svault/storage"
	fileValidator "svault/validators/files"
)

// Store is the object storage backend, wired up in main.
var Store storage.Provider

// Upload validates the multipart payload, reserves a slug and stores
// the object. The record is removed again if the object store fails,
// so records and objects stay coupled on the happy path.
func Upload(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"file": "No file provided",
		})
	}

	if fieldErrors := models.ValidateFile(fileHeader.Filename, fileHeader.Size); len(fieldErrors) > 0 {
		return middleware.ValidationErrorResponse(c, fieldErrors)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	db := database.Database.Db

	record := models.SecureFile{
		OriginalFilename: fileHeader.Filename,
		ContentType:      contentType,
		FileSize:         fileHeader.Size,
		Description:      c.FormValue("description"),
		UploadedByID:     userID,
	}
	if err := record.CreateWithSlug(db, config.AppConfig.S3Location); err != nil {
		log.Printf("Error creating file record: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	src, err := fileHeader.Open()
	if err != nil {
		db.Unscoped().Delete(&record)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}
	defer src.Close()

	if err := Store.Put(c.Context(), record.StorageKey, src, contentType, fileHeader.Size); err != nil {
		log.Printf("Error storing object %s: %v", record.StorageKey, err)
		db.Unscoped().Delete(&record)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully.", record)
}

// List returns the caller's files.
func List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var files []models.SecureFile
	if err := database.Database.Db.
		Where("uploaded_by_id = ?", userID).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch files!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File list.", files)
}

// ownedFile loads the record by slug, scoped to the caller. On failure
// the error response has already been written and nil is returned.
func ownedFile(c *fiber.Ctx) *models.SecureFile {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil
	}

	var file models.SecureFile
	if err := database.Database.Db.
		Where("slug = ? AND uploaded_by_id = ?", c.Params("slug"), userID).
		First(&file).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found!", nil)
		return nil
	}
	return &file
}

// Get returns a single owned file record.
func Get(c *fiber.Ctx) error {
	file := ownedFile(c)
	if file == nil {
		return nil
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "File details.", file)
}

// Update changes the file description.
func Update(c *fiber.Ctx) error {
	file := ownedFile(c)
	if file == nil {
		return nil
	}

	reqData := c.Locals("validatedBody").(*fileValidator.UpdateFileRequest)

	file.Description = reqData.Description
	if err := database.Database.Db.Save(file).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File updated successfully.", file)
}

// Delete removes the stored object and then the record. Best effort:
// if the object delete fails the record stays, so no orphaned objects
// are left behind.
func Delete(c *fiber.Ctx) error {
	file := ownedFile(c)
	if file == nil {
		return nil
	}

	if err := Store.Delete(c.Context(), file.StorageKey); err != nil {
		log.Printf("Error deleting object %s: %v", file.StorageKey, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete file!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(file).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File deleted successfully.", nil)
}

// Download returns a presigned URL for the object. Invalid disposition
// values fall back to inline.
func Download(c *fiber.Ctx) error {
	file := ownedFile(c)
	if file == nil {
		return nil
	}

	disposition := c.Query("disposition", "inline")
	if disposition != "attachment" && disposition != "inline" {
		disposition = "inline"
	}

	expires := time.Duration(config.AppConfig.PresignExpirySeconds) * time.Second
	url, err := Store.PresignedURL(c.Context(), file.StorageKey, file.OriginalFilename, file.ContentType, disposition, expires)
	if err != nil {
		log.Printf("Error generating presigned URL for %s: %v", file.StorageKey, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not generate download URL", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Download URL generated.", fiber.Map{
		"download_url": url,
		"filename":     file.OriginalFilename,
		"content_type": file.ContentType,
	})
}
