package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC      domain.ProfileUsecase
	maxUploadBytes int64
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, maxUploadBytes int64, uploadLimit gin.HandlerFunc) {
	handler := &ProfileHandler{profileUC: profileUC, maxUploadBytes: maxUploadBytes}

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.Get)
		profile.PUT("", handler.Update)
		profile.DELETE("", handler.Delete)
		profile.PUT("/image", uploadLimit, limitBody(maxUploadBytes), handler.UploadImage)
	}
}

// checkIdentity rejects a body userId or role that disagrees with the token
func checkIdentity(c *gin.Context, body map[string]interface{}) error {
	uid := callerID(c)
	for _, key := range []string{"userId", "user_id"} {
		if identityMismatch(body[key], uid) {
			return apperror.Forbidden("You can only modify your own account")
		}
	}
	if raw, ok := body["role"]; ok && raw != nil {
		r, _ := raw.(string)
		if parsed, ok := domain.ParseRole(r); !ok || parsed != callerRole(c) {
			return apperror.Forbidden("Role does not match the authenticated user")
		}
	}
	return nil
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c.Request.Context(), callerID(c), string(callerRole(c)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Changes the account email and the role's editable profile fields atomically. Unknown fields are ignored.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        profile  body      map[string]interface{}  true  "email plus profile fields"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /profile [put]
// @Security     BearerAuth
func (h *ProfileHandler) Update(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	if err := checkIdentity(c, body); err != nil {
		c.Error(err)
		return
	}

	email, _ := body["email"].(string)
	if err := h.profileUC.UpdateProfile(c.Request.Context(), callerID(c), string(callerRole(c)), email, body); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", nil)
}

// DeleteProfile godoc
// @Summary      Delete own account
// @Description  Removes the role profile and then the account in one transaction
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile [delete]
// @Security     BearerAuth
func (h *ProfileHandler) Delete(c *gin.Context) {
	if c.Request.ContentLength > 0 {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err == nil {
			if err := checkIdentity(c, body); err != nil {
				c.Error(err)
				return
			}
		}
	}

	if err := h.profileUC.DeleteAccount(c.Request.Context(), callerID(c), string(callerRole(c))); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile deleted successfully", nil)
}

// UploadProfileImage godoc
// @Summary      Upload profile image
// @Description  Image is validated, re-encoded to JPEG and replaces the previous one
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      413    {object}  response.Response
// @Router       /profile/image [put]
// @Security     BearerAuth
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	file, err := readUpload(c, "image", h.maxUploadBytes)
	if err != nil {
		c.Error(err)
		return
	}

	url, err := h.profileUC.UploadProfileImage(c.Request.Context(), callerID(c), string(callerRole(c)), file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile image updated", gin.H{"profile_image": url})
}
