package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/apierror"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	svc            service.ReportService
	pdfStoragePath string
}

func NewReportsHandler(svc service.ReportService, pdfStoragePath string) *ReportsHandler {
	return &ReportsHandler{svc: svc, pdfStoragePath: pdfStoragePath}
}

// Request godoc
// @Summary      Request an allocation report by email
// @Description  Queues PDF generation and delivery. Returns 202 immediately; poll GET /v1/allocation-reports/{id} for status.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Production UUID"
// @Param        body body dto.RequestReportRequest true "Recipient"
// @Success      202  {object} dto.ReportResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productions/{id}/allocation-report [post]
func (h *ReportsHandler) Request(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RequestReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RequestReport(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *ReportsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ServePDF godoc
// @Summary      Download a generated allocation report
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Report UUID"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/allocation-reports/{id}/pdf [get]
func (h *ReportsHandler) ServePDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if resp.PDFPath == nil {
		c.JSON(http.StatusNotFound, apierror.New("report PDF not generated yet"))
		return
	}
	path := filepath.Join(h.pdfStoragePath, *resp.PDFPath)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("report PDF not found"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
