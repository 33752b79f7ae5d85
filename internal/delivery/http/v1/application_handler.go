package v1

import (
	"net/http"
	"strconv"
	"strings"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	appUC          domain.ApplicationUsecase
	maxUploadBytes int64
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, maxUploadBytes int64, uploadLimit gin.HandlerFunc) {
	handler := &ApplicationHandler{appUC: appUC, maxUploadBytes: maxUploadBytes}
	jobseekerOnly := middleware.RequireRole(domain.RoleJobseeker)
	employerOnly := middleware.RequireRole(domain.RoleEmployer)

	apps := protected.Group("/job-applications")
	{
		apps.POST("/upload", jobseekerOnly, uploadLimit, limitBody(maxUploadBytes), handler.Apply)
		apps.GET("/employer/:employerId", employerOnly, handler.ListReceived)
		apps.GET("/employer/:employerId/export", employerOnly, handler.ExportReceived)
		apps.GET("/jobseeker/:jobseekerId", jobseekerOnly, handler.ListSubmitted)
		apps.PUT("/:id", jobseekerOnly, uploadLimit, limitBody(maxUploadBytes), handler.Update)
		apps.DELETE("/:id", jobseekerOnly, handler.Delete)
	}
}

func applicationForm(c *gin.Context) *domain.ApplicationInput {
	return &domain.ApplicationInput{
		FullName:    strings.TrimSpace(c.PostForm("full_name")),
		Email:       strings.TrimSpace(c.PostForm("email")),
		Phone:       strings.TrimSpace(c.PostForm("phone")),
		CoverLetter: optionalString(c.PostForm("cover_letter")),
	}
}

// ApplyJob godoc
// @Summary      Apply to a job
// @Description  Submits an application with an optional resume (pdf, doc, docx). One application per job and jobseeker.
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        job_id        formData  int     true   "Job ID"
// @Param        full_name     formData  string  true   "Full name"
// @Param        email         formData  string  true   "Email"
// @Param        phone         formData  string  true   "Phone"
// @Param        cover_letter  formData  string  false  "Cover letter"
// @Param        resume        formData  file    false  "Resume"
// @Success      201           {object}  response.Response
// @Failure      400           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Failure      409           {object}  response.Response
// @Router       /job-applications/upload [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	resume, err := readUpload(c, "resume", h.maxUploadBytes)
	if err != nil {
		c.Error(err)
		return
	}

	if raw := c.PostForm("jobseeker_id"); raw != "" && identityMismatch(raw, callerID(c)) {
		c.Error(apperror.Forbidden("You can only apply for yourself"))
		return
	}

	jobID, err := strconv.ParseInt(c.PostForm("job_id"), 10, 64)
	if err != nil || jobID <= 0 {
		c.Error(apperror.BadRequest("job_id is required"))
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), callerID(c), jobID, applicationForm(c), resume)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListReceivedApplications godoc
// @Summary      Applications received by an employer
// @Tags         applications
// @Produce      json
// @Param        employerId  path      int  true  "Employer user ID"
// @Success      200         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Router       /job-applications/employer/{employerId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListReceived(c *gin.Context) {
	employerID, err := pathID(c, "employerId")
	if err != nil {
		c.Error(err)
		return
	}

	apps, err := h.appUC.ListReceived(c.Request.Context(), callerID(c), employerID)
	if err != nil {
		c.Error(err)
		return
	}
	if apps == nil {
		apps = []domain.ReceivedApplication{}
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// ExportReceivedApplications godoc
// @Summary      Export received applications
// @Description  Downloads the employer's received applications as an XLSX workbook
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        employerId  path  int  true  "Employer user ID"
// @Success      200
// @Failure      403  {object}  response.Response
// @Router       /job-applications/employer/{employerId}/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportReceived(c *gin.Context) {
	employerID, err := pathID(c, "employerId")
	if err != nil {
		c.Error(err)
		return
	}

	data, filename, err := h.appUC.ExportReceived(c.Request.Context(), callerID(c), employerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ListSubmittedApplications godoc
// @Summary      Applications submitted by a jobseeker
// @Tags         applications
// @Produce      json
// @Param        jobseekerId  path      int  true  "Jobseeker user ID"
// @Success      200          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Router       /job-applications/jobseeker/{jobseekerId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListSubmitted(c *gin.Context) {
	jobseekerID, err := pathID(c, "jobseekerId")
	if err != nil {
		c.Error(err)
		return
	}

	apps, err := h.appUC.ListSubmitted(c.Request.Context(), callerID(c), jobseekerID)
	if err != nil {
		c.Error(err)
		return
	}
	if apps == nil {
		apps = []domain.SubmittedApplication{}
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// UpdateApplication godoc
// @Summary      Update an application
// @Description  A new resume replaces the stored one; without a file the stored resume is kept
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      int     true   "Application ID"
// @Param        full_name     formData  string  true   "Full name"
// @Param        email         formData  string  true   "Email"
// @Param        phone         formData  string  true   "Phone"
// @Param        cover_letter  formData  string  false  "Cover letter"
// @Param        resume        formData  file    false  "Resume"
// @Success      200           {object}  response.Response
// @Failure      400           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Router       /job-applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	resume, err := readUpload(c, "resume", h.maxUploadBytes)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.appUC.UpdateApplication(c.Request.Context(), callerID(c), id, applicationForm(c), resume); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application updated successfully.", nil)
}

// DeleteApplication godoc
// @Summary      Withdraw an application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /job-applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.appUC.DeleteApplication(c.Request.Context(), callerID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application deleted successfully.", nil)
}
