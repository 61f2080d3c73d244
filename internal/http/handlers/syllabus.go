package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/http/response"
)

const maxSyllabusBytes = 32 << 20

type SyllabusUploader interface {
	Upload(ctx context.Context, filename string, pdf []byte) *learning.UploadResult
}

type SyllabusHandler struct {
	uploader SyllabusUploader
}

func NewSyllabusHandler(uploader SyllabusUploader) *SyllabusHandler {
	return &SyllabusHandler{uploader: uploader}
}

// Upload indexes a syllabus PDF. Processing failures come back as a 200
// {error} payload; only a missing file part is a 400.
func (h *SyllabusHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("file is required"))
		return
	}
	if fh.Size > maxSyllabusBytes {
		response.RespondOK(c, &learning.UploadResult{Error: fmt.Sprintf("File too large (max %d MB)", maxSyllabusBytes>>20)})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxSyllabusBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF")) {
		response.RespondOK(c, &learning.UploadResult{Error: "Uploaded file is not a PDF"})
		return
	}
	response.RespondOK(c, h.uploader.Upload(c.Request.Context(), fh.Filename, data))
}
