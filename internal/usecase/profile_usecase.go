package usecase

import (
	"context"
	"errors"
	"strconv"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/metrics"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	repo     domain.ProfileRepository
	files    domain.FileStorage
	validate *validator.Validate
	secLog   *security.SecurityLogger
}

func NewProfileUsecase(
	repo domain.ProfileRepository,
	files domain.FileStorage,
	validate *validator.Validate,
	secLog *security.SecurityLogger,
) domain.ProfileUsecase {
	return &profileUsecase{repo: repo, files: files, validate: validate, secLog: secLog}
}

func parseRole(role string) (domain.Role, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return "", apperror.BadRequest("Invalid role")
	}
	return r, nil
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID int64, role string) (interface{}, error) {
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}

	var profile interface{}
	switch r {
	case domain.RoleEmployer:
		profile, err = u.repo.GetEmployer(ctx, userID)
	case domain.RoleJobseeker:
		profile, err = u.repo.GetJobseeker(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, internalError(ctx, "get profile", err)
	}
	return profile, nil
}

// UpdateProfile changes the email and the allowlisted profile fields of the
// user in one transaction
func (u *profileUsecase) UpdateProfile(ctx context.Context, userID int64, role, email string, fields map[string]interface{}) error {
	r, err := parseRole(role)
	if err != nil {
		return err
	}

	email = normalizeEmail(email)
	if err := u.validate.Var(email, "required,email,max=255"); err != nil {
		return apperror.BadRequest("A valid email is required")
	}

	upd, err := domain.NewProfileUpdate(userID, r, email, fields)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidField) {
			return apperror.BadRequest(err.Error())
		}
		return apperror.BadRequest("Invalid role")
	}
	if err := u.validateProfileUpdate(upd); err != nil {
		return err
	}

	err = u.repo.Update(ctx, upd)
	switch {
	case err == nil:
		metrics.ObserveTransaction("profile_update", metrics.OutcomeCommitted)
		u.secLog.LogAccountEvent(ctx, security.EventProfileUpdated, userID, string(r))
		return nil
	case errors.Is(err, domain.ErrNotFound):
		metrics.ObserveTransaction("profile_update", metrics.OutcomeNotFound)
		return apperror.NotFound("User not found")
	case errors.Is(err, domain.ErrEmailTaken):
		metrics.ObserveTransaction("profile_update", metrics.OutcomeConflict)
		return apperror.Conflict("Email already registered")
	}
	metrics.ObserveTransaction("profile_update", metrics.OutcomeRolledBack)
	return internalError(ctx, "update profile", err)
}

// validateProfileUpdate applies the column limits signup enforces to the
// values being written
func (u *profileUsecase) validateProfileUpdate(upd *domain.ProfileUpdate) error {
	var err error
	switch upd.Role {
	case domain.RoleEmployer:
		err = u.validate.Struct(upd.Employer)
	case domain.RoleJobseeker:
		err = u.validate.Struct(upd.Jobseeker)
	}
	if err != nil {
		return validationError(err)
	}
	return nil
}

// DeleteAccount removes the profile and credential rows, then the stored
// profile image
func (u *profileUsecase) DeleteAccount(ctx context.Context, userID int64, role string) error {
	r, err := parseRole(role)
	if err != nil {
		return err
	}

	image, err := u.repo.Delete(ctx, userID, r)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveTransaction("account_delete", metrics.OutcomeNotFound)
			return apperror.NotFound("Profile not found")
		}
		metrics.ObserveTransaction("account_delete", metrics.OutcomeRolledBack)
		return internalError(ctx, "delete account", err)
	}
	metrics.ObserveTransaction("account_delete", metrics.OutcomeCommitted)
	u.secLog.LogAccountEvent(ctx, security.EventAccountDeleted, userID, string(r))

	if image != nil && *image != "" {
		u.removeFile(ctx, *image)
	}
	return nil
}

// UploadProfileImage validates and compresses the image, stores it and
// points the profile at it. The replaced image is removed afterwards.
func (u *profileUsecase) UploadProfileImage(ctx context.Context, userID int64, role string, file *domain.UploadedFile) (string, error) {
	r, err := parseRole(role)
	if err != nil {
		return "", err
	}
	if file == nil || len(file.Data) == 0 {
		return "", apperror.BadRequest("No image uploaded")
	}

	if _, err := storage.Validate(storage.KindImage, file.Filename, file.Data); err != nil {
		u.secLog.Log(ctx, security.SecurityEvent{
			Event:     security.EventUploadRejected,
			RequestID: requestID(ctx),
			Details:   map[string]interface{}{"reason": err.Error()},
		})
		return "", apperror.BadRequest(err.Error())
	}

	data, err := storage.CompressImage(file.Data, storage.MaxImageDimension, storage.ImageQuality)
	if err != nil {
		return "", apperror.BadRequest("Image could not be decoded")
	}

	name := storage.ObjectName("profile", strconv.FormatInt(userID, 10)+"_"+file.Filename, ".jpg")
	url, err := u.files.Save(ctx, name, "image/jpeg", data)
	if err != nil {
		if errors.Is(err, storage.ErrFileRejected) {
			u.secLog.Log(ctx, security.SecurityEvent{
				Event:     security.EventUploadRejected,
				RequestID: requestID(ctx),
				Details:   map[string]interface{}{"reason": err.Error()},
			})
			return "", apperror.BadRequest(err.Error())
		}
		return "", internalError(ctx, "save profile image", err)
	}

	previous, err := u.repo.SetProfileImage(ctx, userID, r, url)
	if err != nil {
		u.removeFile(ctx, url)
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.NotFound("Profile not found")
		}
		return "", internalError(ctx, "set profile image", err)
	}

	if previous != nil && *previous != "" && *previous != url {
		u.removeFile(ctx, *previous)
	}
	return url, nil
}

func (u *profileUsecase) removeFile(ctx context.Context, url string) {
	if err := u.files.Delete(ctx, url); err != nil {
		logger.Log.WarnContext(ctx, "failed to remove stored file", "url", url, "error", err)
	}
}
