package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
)

type AttachmentHandler struct {
	Attachments *application.AttachmentService
	Logger      *logrus.Logger
}

func NewAttachmentHandler(attachments *application.AttachmentService, logger *logrus.Logger) *AttachmentHandler {
	return &AttachmentHandler{Attachments: attachments, Logger: logger}
}

// Upload POST /api/posts/:id/attachments (multipart field "file")
func (h *AttachmentHandler) Upload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.FailStatus(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.FailStatus(c, http.StatusBadRequest, "cannot read uploaded file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	view, err := h.Attachments.Upload(c.Request.Context(), p, postID, fh.Filename, contentType, fh.Size, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, view, "attachment uploaded")
}

// Download streams the stored file. GET /api/attachments/:id.
func (h *AttachmentHandler) Download(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	a, rc, err := h.Attachments.Open(c.Request.Context(), p, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer func() { _ = rc.Close() }()

	c.Header("Content-Disposition", `attachment; filename="`+a.OriginalName+`"`)
	c.Header("Content-Length", strconv.FormatInt(a.SizeBytes, 10))
	c.DataFromReader(http.StatusOK, a.SizeBytes, a.MimeType, rc, nil)
}
