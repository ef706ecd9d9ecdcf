package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type MatrixHandler struct {
	Matrix *application.MatrixService
	Logger *logrus.Logger
}

func NewMatrixHandler(matrix *application.MatrixService, logger *logrus.Logger) *MatrixHandler {
	return &MatrixHandler{Matrix: matrix, Logger: logger}
}

// Get returns the combined roles/menus/boards view. GET /api/admin/role-matrix.
func (h *MatrixHandler) Get(c *gin.Context) {
	m, err := h.Matrix.Matrix(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, m, "ok")
}

// Put applies the payload atomically and echoes the re-read matrix so the
// client sees derived board lists immediately. PUT /api/admin/role-matrix.
func (h *MatrixHandler) Put(c *gin.Context) {
	var payload application.Matrix
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Matrix.UpdateMatrix(c.Request.Context(), &payload)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, m, "matrix updated")
}
