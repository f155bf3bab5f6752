package handler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/rs/zerolog"

	"filemeta/internal/service"
	"filemeta/internal/upload"
)

const (
	// PublicPrefix is where public assets are mounted.
	PublicPrefix = "/public"
	// AnalysePath is the upload endpoint.
	AnalysePath = "/api/fileanalyse"
	// UploadField is the multipart field holding the file.
	UploadField = "upfile"

	indexFile = "views/index.html"
	publicDir = "public"
)

// RegisterRoutes attaches the public HTTP surface to app: the landing page,
// the public asset mount and the analyse endpoint. No other routes exist.
// assets must contain views/index.html and a public/ directory.
func RegisterRoutes(app *fiber.App, assets fs.FS, recv *upload.Receiver, svc service.FileMetadataService) error {
	index, err := fs.ReadFile(assets, indexFile)
	if err != nil {
		return fmt.Errorf("read landing page: %w", err)
	}
	public, err := fs.Sub(assets, publicDir)
	if err != nil {
		return fmt.Errorf("open public assets: %w", err)
	}

	app.Get("/", Index(index))
	app.Use(PublicPrefix, filesystem.New(filesystem.Config{
		Root: http.FS(public),
	}))
	app.Post(AnalysePath, AnalyseFile(recv, svc))
	return nil
}

// Index serves the landing page.
func Index(page []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(page)
	}
}

// analyseRequest is everything the analyse endpoint extracted from one request.
type analyseRequest struct {
	Form *multipart.Form
	File *upload.File
}

// AnalyseFile handles multipart uploads carrying one file under "upfile".
//
// @Summary      Analyse an uploaded file
// @Description  Stores the file's name, declared type and size and returns them.
// @Accept       multipart/form-data
// @Produce      json
// @Param        upfile  formData  file  true  "File to analyse"
// @Success      200  {object}  model.FileMetadata
// @Failure      400  {object}  errorPayload
// @Failure      413  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /api/fileanalyse [post]
func AnalyseFile(recv *upload.Receiver, svc service.FileMetadataService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		var req analyseRequest

		// A body that is not multipart cannot carry the file.
		form, err := c.MultipartForm()
		if err == nil {
			req.Form = form
		}

		req.File, err = recv.Receive(ctx, req.Form)
		if err != nil {
			return writeUploadError(c, err)
		}
		defer release(ctx, req.File)

		rec, err := svc.Analyse(ctx, req.File)
		if err != nil {
			var perr *service.PersistenceError
			switch {
			case errors.Is(err, service.ErrMissingFile):
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required in field "+recv.Field())
			case errors.As(err, &perr):
				zerolog.Ctx(ctx).Error().Err(err).Msg("store file metadata")
				return writeError(c, fiber.StatusInternalServerError, "PERSISTENCE_ERROR", "failed to store file metadata")
			default:
				zerolog.Ctx(ctx).Error().Err(err).Msg("analyse file")
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusOK).JSON(rec)
	}
}

func writeUploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upload.ErrTooManyFiles):
		return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES", "only one file may be uploaded")
	case errors.Is(err, upload.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "uploaded file is too large")
	default:
		zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("receive upload")
		return writeError(c, fiber.StatusInternalServerError, "UPLOAD_FAILED", "failed to receive upload")
	}
}

// release drops the staged bytes even if the client has gone away.
func release(ctx context.Context, f *upload.File) {
	if f == nil {
		return
	}
	if err := f.Release(context.WithoutCancel(ctx)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("location", f.Location).Msg("release staged upload")
	}
}
