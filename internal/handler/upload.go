package handler

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/models"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

// sniffLen is how much of an upload is buffered for content detection.
const sniffLen = 512

// readUpload opens the multipart file under field and buffers its head for sniffing.
// The returned reader replays the head so the full object is stored.
func readUpload(c *gin.Context, field string) (models.UploadInput, io.Reader, io.Closer, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.UploadInput{}, nil, nil, appErrors.Wrap(err, appErrors.ErrFileTooLarge.Code, appErrors.ErrFileTooLarge.Status, appErrors.ErrFileTooLarge.Message)
		}
		return models.UploadInput{}, nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, field+" is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return models.UploadInput{}, nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read upload")
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = file.Close()
		return models.UploadInput{}, nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read upload")
	}
	head = head[:n]
	in := models.UploadInput{Size: fileHeader.Size, Header: head}
	return in, io.MultiReader(bytes.NewReader(head), file), file, nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
