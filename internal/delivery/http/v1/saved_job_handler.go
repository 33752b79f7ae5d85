package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type SavedJobHandler struct {
	savedUC domain.SavedJobUsecase
}

func NewSavedJobHandler(protected *gin.RouterGroup, savedUC domain.SavedJobUsecase) {
	handler := &SavedJobHandler{savedUC: savedUC}

	saved := protected.Group("/saved", middleware.RequireRole(domain.RoleJobseeker))
	{
		saved.POST("", handler.Save)
		saved.GET("/:jobseekerId", handler.List)
		saved.DELETE("/:jobId", handler.Remove)
	}
}

type SaveJobRequest struct {
	JobID       int64       `json:"job_id"`
	JobseekerID interface{} `json:"jobseeker_id"`
}

// SaveJob godoc
// @Summary      Save a job
// @Tags         saved-jobs
// @Accept       json
// @Produce      json
// @Param        saved  body      SaveJobRequest  true  "Job to save"
// @Success      201    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /saved [post]
// @Security     BearerAuth
func (h *SavedJobHandler) Save(c *gin.Context) {
	var req SaveJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if identityMismatch(req.JobseekerID, callerID(c)) {
		c.Error(apperror.Forbidden("You can only save jobs for yourself"))
		return
	}

	saved, err := h.savedUC.SaveJob(c.Request.Context(), callerID(c), req.JobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job saved successfully", saved)
}

// ListSavedJobs godoc
// @Summary      List saved jobs
// @Tags         saved-jobs
// @Produce      json
// @Param        jobseekerId  path      int  true  "Jobseeker user ID"
// @Success      200          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Router       /saved/{jobseekerId} [get]
// @Security     BearerAuth
func (h *SavedJobHandler) List(c *gin.Context) {
	jobseekerID, err := pathID(c, "jobseekerId")
	if err != nil {
		c.Error(err)
		return
	}

	saved, err := h.savedUC.ListSavedJobs(c.Request.Context(), callerID(c), jobseekerID)
	if err != nil {
		c.Error(err)
		return
	}
	if saved == nil {
		saved = []domain.SavedJobDetail{}
	}
	response.Success(c, http.StatusOK, "Saved jobs retrieved", saved)
}

// RemoveSavedJob godoc
// @Summary      Remove a saved job
// @Tags         saved-jobs
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /saved/{jobId} [delete]
// @Security     BearerAuth
func (h *SavedJobHandler) Remove(c *gin.Context) {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.savedUC.RemoveSavedJob(c.Request.Context(), callerID(c), jobID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Saved job removed successfully", nil)
}
