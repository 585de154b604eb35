package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"presshealth/domain/press"
	"presshealth/internal/errors"
	"presshealth/internal/report"
)

const defaultUploadListLimit = 20

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload parses a multipart "file" upload
func (s *Server) handleUpload(c *gin.Context) {
	if s.maxUploadSize > 0 {
		// Extra room for the multipart envelope.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize+1<<20)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(c, errors.PayloadTooLarge(fmt.Sprintf("file exceeds the %d MB limit", s.maxUploadSize>>20)))
			return
		}
		s.writeError(c, errors.InvalidInput("no file uploaded"))
		return
	}
	defer file.Close()

	if s.maxUploadSize > 0 && header.Size > s.maxUploadSize {
		s.writeError(c, errors.PayloadTooLarge(fmt.Sprintf("file size (%.1f MB) exceeds the %d MB limit",
			float64(header.Size)/(1024*1024), s.maxUploadSize>>20)))
		return
	}

	result, err := s.service.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		s.writeError(c, errors.Wrapf(err, "failed to process %s", header.Filename))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetPressData(c *gin.Context) {
	var req press.PressDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	data, err := s.service.FetchPressData(c.Request.Context(), req.Filename, req.SN)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) handleProcessData(c *gin.Context) {
	var req press.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	result, err := s.service.ProcessData(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleErrorStats(c *gin.Context) {
	var req press.ErrorStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	stats, err := s.service.ErrorStats(c.Request.Context(), req.SessionData)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleSessionHealth(c *gin.Context) {
	var req press.SessionHealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	h, err := s.service.SessionHealth(c.Request.Context(), req.Filename, req.SN, req.SessionKey)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) handleListUploads(c *gin.Context) {
	limit := defaultUploadListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(c, errors.InvalidInput(fmt.Sprintf("invalid limit %q", raw)))
			return
		}
		limit = n
	}
	uploads, err := s.service.Uploads(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

func (s *Server) handleReport(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	doc, err := s.service.Report(c.Request.Context(), c.Param("filename"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), doc.Render(format))
}

// writeError answers with {error, code} and the status derived from the error
func (s *Server) writeError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.CodeOf(err),
	})
}
