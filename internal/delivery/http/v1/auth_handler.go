package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, authLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	public.POST("/employers/signup", authLimit, handler.SignupEmployer)
	public.POST("/jobseekers/signup", authLimit, handler.SignupJobseeker)
	public.POST("/auth/signin", authLimit, handler.Signin)

	// Logout verifies the token itself so an expired token gets a 401 from
	// the usecase rather than the middleware
	public.POST("/auth/logout", handler.Logout)
}

type EmployerSignupRequest struct {
	CompanyName string  `json:"companyName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Industry    string  `json:"industry"`
	Website     *string `json:"website"`
}

type JobseekerSignupRequest struct {
	FullName         string  `json:"fullName"`
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	Phone            *string `json:"phone"`
	Location         *string `json:"location"`
	Skills           *string `json:"skills"`
	ExperienceLevel  *string `json:"experienceLevel"`
	DesiredJobTitles *string `json:"desiredJobTitles"`
	Education        *string `json:"education"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignupEmployer godoc
// @Summary      Employer signup
// @Description  Creates the account and the employer profile in one transaction and logs the user in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup  body      EmployerSignupRequest  true  "Employer signup"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Router       /employers/signup [post]
func (h *AuthHandler) SignupEmployer(c *gin.Context) {
	var req EmployerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	res, err := h.authUC.SignupEmployer(c.Request.Context(), &domain.EmployerSignup{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Password:    req.Password,
		Industry:    req.Industry,
		Website:     req.Website,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Signup successful and logged in", res)
}

// SignupJobseeker godoc
// @Summary      Jobseeker signup
// @Description  Creates the account and the jobseeker profile in one transaction and logs the user in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup  body      JobseekerSignupRequest  true  "Jobseeker signup"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Router       /jobseekers/signup [post]
func (h *AuthHandler) SignupJobseeker(c *gin.Context) {
	var req JobseekerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	res, err := h.authUC.SignupJobseeker(c.Request.Context(), &domain.JobseekerSignup{
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
		Phone:            req.Phone,
		Location:         req.Location,
		Skills:           req.Skills,
		ExperienceLevel:  req.ExperienceLevel,
		DesiredJobTitles: req.DesiredJobTitles,
		Education:        req.Education,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Signup successful and logged in", res)
}

// Signin godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signin  body      SigninRequest  true  "Credentials and role"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	res, err := h.authUC.Signin(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Signin successful", res)
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the bearer token until it expires
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUC.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}
