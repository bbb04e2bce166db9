package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"selecionei-client/api"
	"selecionei-client/models"
	"selecionei-client/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// AppHandler exposes the controller to the browser view
type AppHandler struct {
	app         *service.App
	cues        *ViewCues
	maxFileSize int64
}

// NewAppHandler creates a new app handler
func NewAppHandler(app *service.App, cues *ViewCues) *AppHandler {
	return &AppHandler{
		app:         app,
		cues:        cues,
		maxFileSize: 10 * 1024 * 1024, // 10MB
	}
}

// Routes registers every endpoint on r
func (h *AppHandler) Routes(r gin.IRouter) {
	r.GET("/state", h.GetState)
	r.GET("/view", h.GetView)
	r.POST("/navigate", h.Navigate)
	r.PUT("/credentials", h.SetCredentials)
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	r.POST("/file", h.SelectFile)
	r.DELETE("/file", h.ClearFile)
	r.PUT("/job-description", h.SetJobDescription)
	r.POST("/analyze", h.Analyze)
	r.POST("/reset", h.Reset)
	r.POST("/payments", h.CreatePayment)
	r.POST("/popup/dismiss", h.DismissPopup)
	r.POST("/popup/lead", h.SubmitLead)
	r.DELETE("/error", h.ClearError)
}

// NavigateRequest represents the request body for POST /navigate
type NavigateRequest struct {
	Page models.Page `json:"page" binding:"required"`
}

// CredentialsRequest represents the login and register form fields
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Company  string `json:"company"`
}

// JobDescriptionRequest represents the request body for PUT /job-description
type JobDescriptionRequest struct {
	JobDescription string `json:"job_description"`
}

// PaymentRequest represents the request body for POST /payments
type PaymentRequest struct {
	Plan models.PlanKey `json:"plan" binding:"required"`
}

// LeadRequest represents the request body for POST /popup/lead
type LeadRequest struct {
	Email string `json:"email" binding:"required"`
}

// GetState handles GET /state. Queued view cues are drained with it.
func (h *AppHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"state": h.app.Snapshot(),
			"cues":  h.cues.Drain(),
		},
	})
}

// GetView handles GET /view
func (h *AppHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.app.View(),
	})
}

// Navigate handles POST /navigate
func (h *AppHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.app.Navigate(req.Page); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c)
}

// SetCredentials handles PUT /credentials
func (h *AppHandler) SetCredentials(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.app.SetCredentials(req.Email, req.Password, req.Name, req.Company)
	h.respondView(c)
}

// Login handles POST /login
func (h *AppHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.app.Login(backendContext(c), req.Email, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c)
}

// Register handles POST /register
func (h *AppHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.app.Register(backendContext(c), req.Name, req.Email, req.Password, req.Company); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c)
}

// Logout handles POST /logout
func (h *AppHandler) Logout(c *gin.Context) {
	h.app.Logout()
	h.respondView(c)
}

// SelectFile handles POST /file with a multipart "file" part
func (h *AppHandler) SelectFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond(c, http.StatusBadRequest, "MISSING_FILE", service.MsgMissingFile)
		return
	}

	if fileHeader.Size > h.maxFileSize {
		respond(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respond(c, http.StatusInternalServerError, "FILE_READ_ERROR", err.Error())
		return
	}

	// The declared type wins; sniff only when the browser sent none
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(content).String()
	}

	if err := h.app.SelectFile(models.NewSelectedFile(fileHeader.Filename, mimeType, content)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c)
}

// ClearFile handles DELETE /file
func (h *AppHandler) ClearFile(c *gin.Context) {
	_ = h.app.SelectFile(nil)
	h.respondView(c)
}

// SetJobDescription handles PUT /job-description
func (h *AppHandler) SetJobDescription(c *gin.Context) {
	var req JobDescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.app.SetJobDescription(req.JobDescription)
	h.respondView(c)
}

// Analyze handles POST /analyze
func (h *AppHandler) Analyze(c *gin.Context) {
	if _, err := h.app.Analyze(backendContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c)
}

// Reset handles POST /reset
func (h *AppHandler) Reset(c *gin.Context) {
	h.app.Reset()
	h.respondView(c)
}

// CreatePayment handles POST /payments
func (h *AppHandler) CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.app.CreatePayment(backendContext(c), req.Plan); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondView(c)
}

// DismissPopup handles POST /popup/dismiss
func (h *AppHandler) DismissPopup(c *gin.Context) {
	h.app.DismissPopup()
	h.respondView(c)
}

// SubmitLead handles POST /popup/lead
func (h *AppHandler) SubmitLead(c *gin.Context) {
	var req LeadRequest
	if !bindJSON(c, &req) {
		return
	}
	h.app.SubmitLeadEmail()
	h.respondView(c)
}

// ClearError handles DELETE /error
func (h *AppHandler) ClearError(c *gin.Context) {
	h.app.ClearError()
	h.app.ClearNotice()
	h.respondView(c)
}

func (h *AppHandler) respondView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.app.View(),
	})
}

// respondError maps controller errors onto the response envelope. Backend
// failures carry the same user-facing message the view shows.
func (h *AppHandler) respondError(c *gin.Context, err error) {
	var (
		verr    *service.ValidationError
		respErr *api.ResponseError
	)
	switch {
	case errors.As(err, &verr):
		respond(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, service.ErrUnknownPage):
		respond(c, http.StatusBadRequest, "UNKNOWN_PAGE", err.Error())
	case errors.Is(err, service.ErrBusy):
		respond(c, http.StatusConflict, "BUSY", err.Error())
	case errors.Is(err, service.ErrSuperseded):
		respond(c, http.StatusConflict, "SUPERSEDED", err.Error())
	case errors.Is(err, service.ErrClosed):
		respond(c, http.StatusServiceUnavailable, "CLOSED", err.Error())
	case errors.As(err, &respErr):
		respond(c, http.StatusBadGateway, "BACKEND_ERROR", h.app.Snapshot().Error)
	default:
		respond(c, http.StatusBadGateway, "CONNECTION_ERROR", service.MsgConnection)
	}
}

// backendContext keeps request values but not cancellation: a backend call
// runs to completion even when the browser goes away
func backendContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respond(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

func respond(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
