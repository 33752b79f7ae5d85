package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

type applicationUsecase struct {
	repo     domain.ApplicationRepository
	files    domain.FileStorage
	validate *validator.Validate
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(repo domain.ApplicationRepository, files domain.FileStorage, validate *validator.Validate) domain.ApplicationUsecase {
	return &applicationUsecase{repo: repo, files: files, validate: validate}
}

func (u *applicationUsecase) checkInput(in *domain.ApplicationInput) error {
	if in.FullName == "" || in.Email == "" || in.Phone == "" {
		return apperror.BadRequest("Full Name, Email, and Phone are required.")
	}
	if err := u.validate.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

// storeResume validates and stores an uploaded resume. A nil file yields a
// nil link.
func (u *applicationUsecase) storeResume(ctx context.Context, jobseekerID int64, file *domain.UploadedFile) (*string, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, nil
	}

	v, err := storage.Validate(storage.KindResume, file.Filename, file.Data)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	name := storage.ObjectName("resumes", strconv.FormatInt(jobseekerID, 10)+"_"+file.Filename, v.Extension)
	url, err := u.files.Save(ctx, name, v.ContentType, file.Data)
	if err != nil {
		if errors.Is(err, storage.ErrFileRejected) {
			return nil, apperror.BadRequest(err.Error())
		}
		return nil, internalError(ctx, "save resume", err)
	}
	return &url, nil
}

func (u *applicationUsecase) removeFile(ctx context.Context, link *string) {
	if link == nil || *link == "" {
		return
	}
	if err := u.files.Delete(ctx, *link); err != nil {
		logger.Log.WarnContext(ctx, "failed to remove stored file", "url", *link, "error", err)
	}
}

// Apply submits an application. A stored resume is removed again when the
// insert fails.
func (u *applicationUsecase) Apply(ctx context.Context, jobseekerID, jobID int64, in *domain.ApplicationInput, resume *domain.UploadedFile) (*domain.Application, error) {
	if jobID <= 0 {
		return nil, apperror.BadRequest("job_id is required")
	}
	if err := u.checkInput(in); err != nil {
		return nil, err
	}

	link, err := u.storeResume(ctx, jobseekerID, resume)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		JobID:       jobID,
		JobseekerID: jobseekerID,
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		CoverLetter: in.CoverLetter,
		ResumeLink:  link,
	}
	if err := u.repo.Create(ctx, app); err != nil {
		u.removeFile(ctx, link)
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, apperror.Conflict("You have already applied for this job.")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Job not found.")
		}
		return nil, internalError(ctx, "create application", err)
	}
	return app, nil
}

func (u *applicationUsecase) ListReceived(ctx context.Context, callerID, employerID int64) ([]domain.ReceivedApplication, error) {
	if callerID != employerID {
		return nil, apperror.Forbidden("You can only view applications to your own jobs")
	}
	apps, err := u.repo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, internalError(ctx, "list received applications", err)
	}
	return apps, nil
}

func (u *applicationUsecase) ListSubmitted(ctx context.Context, callerID, jobseekerID int64) ([]domain.SubmittedApplication, error) {
	if callerID != jobseekerID {
		return nil, apperror.Forbidden("You can only view your own applications")
	}
	apps, err := u.repo.ListByJobseeker(ctx, jobseekerID)
	if err != nil {
		return nil, internalError(ctx, "list submitted applications", err)
	}
	return apps, nil
}

// ownApplication loads an application and hides other jobseekers' rows
func (u *applicationUsecase) ownApplication(ctx context.Context, jobseekerID, id int64) (*domain.Application, error) {
	app, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found.")
		}
		return nil, internalError(ctx, "get application", err)
	}
	if app.JobseekerID != jobseekerID {
		return nil, apperror.NotFound("Application not found.")
	}
	return app, nil
}

// UpdateApplication rewrites the applicant fields. A new resume replaces the
// stored one; without a file the stored link is kept.
func (u *applicationUsecase) UpdateApplication(ctx context.Context, jobseekerID, id int64, in *domain.ApplicationInput, resume *domain.UploadedFile) error {
	if err := u.checkInput(in); err != nil {
		return err
	}

	existing, err := u.ownApplication(ctx, jobseekerID, id)
	if err != nil {
		return err
	}

	link, err := u.storeResume(ctx, jobseekerID, resume)
	if err != nil {
		return err
	}

	if err := u.repo.Update(ctx, id, jobseekerID, in, link); err != nil {
		u.removeFile(ctx, link)
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found.")
		}
		return internalError(ctx, "update application", err)
	}

	if link != nil {
		u.removeFile(ctx, existing.ResumeLink)
	}
	return nil
}

func (u *applicationUsecase) DeleteApplication(ctx context.Context, jobseekerID, id int64) error {
	existing, err := u.ownApplication(ctx, jobseekerID, id)
	if err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id, jobseekerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found.")
		}
		return internalError(ctx, "delete application", err)
	}

	u.removeFile(ctx, existing.ResumeLink)
	return nil
}

var exportColumns = []string{
	"APPLICATION ID", "APPLIED AT", "JOB ID", "JOB TITLE", "JOB TYPE", "DEADLINE",
	"FULL NAME", "EMAIL", "PHONE", "LOCATION", "EXPERIENCE LEVEL", "SKILLS",
	"DESIRED JOB TITLES", "EDUCATION", "RESUME", "COVER LETTER",
}

// ExportReceived renders the employer's received applications as XLSX
func (u *applicationUsecase) ExportReceived(ctx context.Context, callerID, employerID int64) ([]byte, string, error) {
	apps, err := u.ListReceived(ctx, callerID, employerID)
	if err != nil {
		return nil, "", err
	}

	data, err := applicationsWorkbook(apps)
	if err != nil {
		return nil, "", internalError(ctx, "export applications", err)
	}

	filename := fmt.Sprintf("applications_%d_%s.xlsx", employerID, time.Now().Format("20060102_150405"))
	return data, filename, nil
}

func applicationsWorkbook(apps []domain.ReceivedApplication) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, a := range apps {
		row := []interface{}{
			a.ID, a.ApplicationDate.Format("2006-01-02 15:04"), a.JobID, a.Title, a.JobType, a.Deadline,
			a.FullName, a.Email, deref(a.Phone), deref(a.JobseekerLocation), deref(a.ExperienceLevel), deref(a.Skills),
			deref(a.DesiredJobTitles), deref(a.Education), deref(a.ResumeLink), deref(a.CoverLetter),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
