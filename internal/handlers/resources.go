package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

const MaxFileSize = 50 * 1024 * 1024 // 50 MB

var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true, // docx
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true, // pptx
	"image/jpeg": true,
	"image/png":  true,
	"text/plain": true,
}

// FileStore stores uploaded resource files.
type FileStore interface {
	UploadFile(ctx context.Context, r io.Reader, key string, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, *services.FileInfo, error)
	DeleteFile(ctx context.Context, key string) error
}

// TextExtractor pulls searchable text out of an uploaded file.
type TextExtractor interface {
	ExtractText(ctx context.Context, file io.ReadSeeker) (string, error)
}

type resourceQuery struct {
	services.ResourceFilter
	Type models.ResourceType `form:"type"`
}

// ListResources returns the resources of one kind narrowed by the optional
// q, branch, semester and subject filters.
func ListResources(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q resourceQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
			return
		}

		resources, err := svc.ListResources(c.Request.Context(), q.Type)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, q.ResourceFilter.Apply(resources))
	}
}

func TrendingResources(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resources, err := svc.TrendingResources(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, resources)
	}
}

func GetResource(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource, err := svc.GetResource(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, resource)
	}
}

// CreateResource accepts either a JSON body or a multipart form. A form
// may carry a file, which is stored and text-extracted before the record
// is created.
func CreateResource(svc *services.DataService, files FileStore, extractor TextExtractor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}

		var in services.ResourceInput
		if err := c.ShouldBind(&in); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
			return
		}

		ctx := c.Request.Context()
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			if header, err := c.FormFile("file"); err == nil {
				if err := storeUpload(ctx, header, files, extractor, &in, logger); err != nil {
					response.Error(c, err)
					return
				}
			}
		}

		resource, err := svc.CreateResource(ctx, actor, in)
		if err != nil {
			if in.ObjectKey != "" {
				if delErr := files.DeleteFile(context.Background(), in.ObjectKey); delErr != nil {
					logger.Warn("failed to clean up upload", zap.String("object_key", in.ObjectKey), zap.Error(delErr))
				}
			}
			response.Error(c, err)
			return
		}
		response.Created(c, resource)
	}
}

func storeUpload(ctx context.Context, header *multipart.FileHeader, files FileStore, extractor TextExtractor, in *services.ResourceInput, logger *zap.Logger) error {
	if files == nil {
		return apperrors.Clone(apperrors.ErrUnavailable, "file storage is not configured")
	}
	if header.Size > MaxFileSize {
		return apperrors.Clone(apperrors.ErrValidation, "file exceeds 50MB limit")
	}
	mimeType := header.Header.Get("Content-Type")
	if !AllowedMimeTypes[mimeType] {
		return apperrors.Clone(apperrors.ErrValidation, "unsupported file type")
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, "failed to read uploaded file")
	}
	defer file.Close()

	key := fmt.Sprintf("resources/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(header.Filename)))
	if err := files.UploadFile(ctx, file, key, header.Size, mimeType); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal, "failed to upload file")
	}

	if extractor != nil && services.IsTextExtractable(mimeType) {
		text, err := extractor.ExtractText(ctx, file)
		if err != nil {
			logger.Warn("text extraction failed", zap.String("object_key", key), zap.Error(err))
		} else {
			in.ContentText = text
		}
	}

	if in.Title == "" {
		in.Title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}
	in.ObjectKey = key
	in.DownloadURL = "/api/v1/files/" + key
	return nil
}

// DownloadFile streams a stored upload.
func DownloadFile(files FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if files == nil {
			response.Error(c, apperrors.Clone(apperrors.ErrUnavailable, "file storage is not configured"))
			return
		}
		key := strings.TrimPrefix(c.Param("key"), "/")
		if !strings.HasPrefix(key, "resources/") || strings.Contains(key, "..") {
			response.Error(c, apperrors.Clone(apperrors.ErrNotFound, "file not found"))
			return
		}

		body, info, err := files.DownloadFile(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, services.ErrFileNotFound) {
				response.Error(c, apperrors.Clone(apperrors.ErrNotFound, "file not found"))
				return
			}
			response.Error(c, apperrors.Wrap(err, apperrors.ErrInternal, "failed to retrieve file"))
			return
		}
		defer body.Close()

		extraHeaders := map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filepath.Base(key)),
		}
		c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, extraHeaders)
	}
}

func DeleteResource(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}
		if err := svc.DeleteResource(c.Request.Context(), actor, c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Resource deleted"})
	}
}
