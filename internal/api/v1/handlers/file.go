package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"taskhub/internal/middleware"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxAvatarSize = 5 << 20

var avatarExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Fungsi untuk validasi file avatar
func validateAvatar(file *multipart.FileHeader) error {
	// Validasi ukuran file maksimal 5MB
	if file.Size > maxAvatarSize {
		return fiber.NewError(fiber.StatusBadRequest, "File size exceeds the limit of 5MB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !avatarExts[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "File type not allowed. Use jpg, jpeg or png")
	}

	// Validasi tipe konten
	if contentType := file.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "image/") {
		return fiber.NewError(fiber.StatusBadRequest, "File must be an image")
	}
	return nil
}

// UploadAvatar menyimpan avatar di <UploadDir>/avatars/user_<id>/ lalu
// menyimpan URL publiknya di profil.
func (h *Handler) UploadAvatar(c *fiber.Ctx) error {
	me := middleware.Identity(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "upload avatar", err)
	}
	if err := validateAvatar(file); err != nil {
		logger.AuditLogger.Warn("Rejected avatar", zap.Int("user_id", me.UserID), zap.Error(err))
		return failure(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	userDir := fmt.Sprintf("user_%d", me.UserID)
	dir := filepath.Join(h.UploadDir, "avatars", userDir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.ErrorLogger.Error("Error creating upload directory", zap.Error(err))
		return failure(c, fiber.StatusInternalServerError, "Error creating upload directory", nil)
	}

	// Ubah nama file menjadi unik (berdasarkan timestamp)
	newFilename := fmt.Sprintf("%d%s", time.Now().UnixNano(), strings.ToLower(filepath.Ext(file.Filename)))
	if err := c.SaveFile(file, filepath.Join(dir, newFilename)); err != nil {
		logger.ErrorLogger.Error("Error saving file", zap.Error(err))
		return failure(c, fiber.StatusInternalServerError, "Error saving file", nil)
	}

	fileURL := path.Join("/uploads", "avatars", userDir, newFilename)
	u, err := h.Users.SetAvatar(c.UserContext(), me.UserID, fileURL)
	if err != nil {
		return fail(c, "upload avatar", err)
	}

	logger.AuditLogger.Info("Avatar uploaded", zap.Int("user_id", me.UserID), zap.String("filename", newFilename))
	return success(c, fiber.StatusOK, "Avatar uploaded successfully", u)
}
