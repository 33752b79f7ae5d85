package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Signup / profile
	"CompanyName":      "Company name",
	"Industry":         "Industry",
	"Website":          "Website",
	"FullName":         "Full name",
	"Phone":            "Phone",
	"Location":         "Location",
	"ExperienceLevel":  "Experience level",
	"DesiredJobTitles": "Desired job titles",
	"Email":            "Email",
	"Password":         "Password",
	"Role":             "Role",

	// Job fields
	"CategoryID":   "Category",
	"LocationID":   "Location",
	"Title":        "Title",
	"Description":  "Description",
	"Requirements": "Requirements",
	"SalaryRange":  "Salary range",
	"JobType":      "Job type",
	"Deadline":     "Deadline",

	// Saved jobs / applications
	"JobID":       "Job",
	"JobseekerID": "Jobseeker",
	"CoverLetter": "Cover letter",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins FormatValidationErrors into a single response message
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))

	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)

	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)

	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)

	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits, optionally starting with +", label)

	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)

	case "job_type":
		return fmt.Sprintf("%s must be one of: full-time, part-time, contract, internship", label)

	case "date_ymd":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)

	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
