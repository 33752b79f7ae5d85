package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// callerID returns the user id put in the context by AuthMiddleware
func callerID(c *gin.Context) int64 {
	id, _ := c.Get(string(domain.KeyUserID))
	v, _ := id.(int64)
	return v
}

func callerRole(c *gin.Context) domain.Role {
	r, _ := c.Get(string(domain.KeyUserRole))
	v, _ := r.(domain.Role)
	return v
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid " + name)
	}
	return id, nil
}

// bindError turns a gin binding failure into a 400 with readable messages
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.New(http.StatusBadRequest, strings.Join(validation.FormatValidationErrors(err), "; "), err)
	}
	return apperror.BadRequest("Invalid request body")
}

// readUpload reads an optional multipart file. A missing file yields nil.
func readUpload(c *gin.Context, field string, maxBytes int64) (*domain.UploadedFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.New(http.StatusRequestEntityTooLarge, "File too large", err)
		}
		return nil, apperror.BadRequest("Invalid multipart form")
	}
	if header.Size > maxBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, "File too large", nil)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, "File too large", nil)
	}
	return &domain.UploadedFile{Filename: header.Filename, Data: data}, nil
}

// limitBody caps the request body for multipart routes. The slack covers
// the form fields next to the file.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
		c.Next()
	}
}

// identityMismatch reports whether a client supplied id disagrees with the token
func identityMismatch(raw interface{}, id int64) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case float64:
		return int64(v) != id
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return err != nil || n != id
	}
	return true
}

func optionalString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
