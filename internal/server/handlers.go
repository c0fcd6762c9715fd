package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/eleven-am/fwaudit/internal/source"
)

type ErrorResponse struct {
	Code    int         `json:"code"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func NewErrorResponse(code int, err, message string, details interface{}) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Error:   err,
		Message: message,
		Details: details,
	}
}

// AuditRequest carries raw rule records; they are normalized server-side
// with the same defaults as file input.
type AuditRequest struct {
	Rules []source.Record `json:"rules"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTables(c *gin.Context) {
	c.JSON(http.StatusOK, s.auditor.Tables())
}

func (s *Server) handleAudit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(
			http.StatusBadRequest, "invalid_request", "Request body is not valid JSON", err.Error()))
		return
	}
	if req.Rules == nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(
			http.StatusBadRequest, "invalid_request", "Field rules is required", nil))
		return
	}

	rules, err := source.Normalize(req.Rules)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(
			http.StatusBadRequest, "invalid_rules", "One or more rules could not be normalized", errorList(err)))
		return
	}

	report := s.auditor.Audit(rules)
	log.Debugf("Audit %s: %d rules, %d findings", report.ID, len(rules), report.TotalFindings())
	c.JSON(http.StatusOK, report)
}

func errorList(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
