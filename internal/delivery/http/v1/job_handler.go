package v1

import (
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}
	employerOnly := middleware.RequireRole(domain.RoleEmployer)

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("", employerOnly, handler.Create)
		jobs.GET("/search", handler.Search)
		jobs.GET("/categories", handler.Categories)
		jobs.GET("/locations", handler.Locations)
		jobs.GET("/employer/:employerId", handler.ListByEmployer)
		jobs.GET("/:id", handler.GetDetails)
		jobs.PUT("/:id", employerOnly, handler.Update)
		jobs.DELETE("/:id", employerOnly, handler.Delete)
	}
}

type JobRequest struct {
	CategoryID   *int64 `json:"category_id"`
	LocationID   *int64 `json:"location_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	SalaryRange  string `json:"salary_range"`
	JobType      string `json:"job_type"`
	Deadline     string `json:"deadline"`
}

func (r *JobRequest) toJob() *domain.Job {
	return &domain.Job{
		CategoryID:   r.CategoryID,
		LocationID:   r.LocationID,
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		SalaryRange:  r.SalaryRange,
		JobType:      r.JobType,
		Deadline:     r.Deadline,
	}
}

// CreateJob godoc
// @Summary      Create a new job
// @Description  Create a job posting owned by the calling employer
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job := req.toJob()
	if err := h.jobUC.CreateJob(c.Request.Context(), callerID(c), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", job)
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Jobs with category, location and company details, newest first
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size (max 100)"
// @Success      200        {object}  response.Response
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	if jobs == nil {
		jobs = []domain.JobWithDetails{}
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", response.PagedData{
		Items:    jobs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetJob godoc
// @Summary      Get job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// ListEmployerJobs godoc
// @Summary      List jobs of an employer
// @Tags         jobs
// @Produce      json
// @Param        employerId  path      int  true  "Employer user ID"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /jobs/employer/{employerId} [get]
// @Security     BearerAuth
func (h *JobHandler) ListByEmployer(c *gin.Context) {
	employerID, err := pathID(c, "employerId")
	if err != nil {
		c.Error(err)
		return
	}

	jobs, err := h.jobUC.ListJobsByEmployer(c.Request.Context(), employerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// SearchJobs godoc
// @Summary      Search jobs
// @Description  Case-insensitive match on title, category, city, country and company name
// @Tags         jobs
// @Produce      json
// @Param        query     query     string    false  "Search text"
// @Param        job_type  query     []string  false  "Job type filter"  collectionFormat(multi)
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Router       /jobs/search [get]
// @Security     BearerAuth
func (h *JobHandler) Search(c *gin.Context) {
	filter := domain.JobSearch{
		Query:    c.Query("query"),
		JobTypes: c.QueryArray("job_type"),
	}

	jobs, err := h.jobUC.SearchJobs(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	if len(jobs) == 0 {
		response.Success(c, http.StatusOK, "No jobs found.", []domain.JobWithDetails{})
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Only the owning employer may update; all fields are required
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int         true  "Job ID"
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job := req.toJob()
	job.ID = id
	if err := h.jobUC.UpdateJob(c.Request.Context(), callerID(c), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated successfully", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), callerID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted successfully", nil)
}

// ListCategories godoc
// @Summary      List job categories
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /jobs/categories [get]
// @Security     BearerAuth
func (h *JobHandler) Categories(c *gin.Context) {
	categories, err := h.jobUC.ListCategories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Categories retrieved", categories)
}

// ListLocations godoc
// @Summary      List job locations
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /jobs/locations [get]
// @Security     BearerAuth
func (h *JobHandler) Locations(c *gin.Context) {
	locations, err := h.jobUC.ListLocations(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Locations retrieved", locations)
}
