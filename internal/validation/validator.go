package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"
)

// Validator provides request validation functionality. Everything here runs
// before the core logic does; a non-empty ValidationErrors short-circuits
// the request with a 400.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateLogin validates the login request body.
func (v *Validator) ValidateLogin(username, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(username) == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	} else if len(username) < 3 || len(username) > 50 {
		errors = append(errors, domain.NewOutOfRangeError("username", len(username), 3, 50))
	}

	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	} else if len(password) < 6 || len(password) > 100 {
		errors = append(errors, domain.NewOutOfRangeError("password", len(password), 6, 100))
	}

	return errors
}

// ValidateCreateQuiz validates the quiz creation request.
func (v *Validator) ValidateCreateQuiz(grade, subject string, questionCount int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(grade) == "" {
		errors = append(errors, domain.NewMissingFieldError("grade"))
	} else if len(grade) > 10 {
		errors = append(errors, domain.NewOutOfRangeError("grade", len(grade), 1, 10))
	}

	errors = append(errors, v.validateSubject(subject, true)...)

	if questionCount < 1 || questionCount > 20 {
		errors = append(errors, domain.NewOutOfRangeError("questionCount", questionCount, 1, 20))
	}

	return errors
}

// ValidateSubmit validates a submitted answer sequence.
func (v *Validator) ValidateSubmit(answers []int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(answers) == 0 {
		errors = append(errors, domain.NewMissingFieldError("answers"))
		return errors
	}
	if len(answers) > 20 {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(answers), 1, 20))
	}
	for _, a := range answers {
		if a < 0 || a > 3 {
			errors = append(errors, domain.NewOutOfRangeError("answers", a, 0, 3))
			break
		}
	}

	return errors
}

// ValidateHint validates the optional current answer on a hint request.
func (v *Validator) ValidateHint(userAnswer *int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if userAnswer != nil && (*userAnswer < 0 || *userAnswer > 3) {
		errors = append(errors, domain.NewOutOfRangeError("userAnswer", *userAnswer, 0, 3))
	}

	return errors
}

// ValidateLeaderboard validates leaderboard query parameters.
func (v *Validator) ValidateLeaderboard(grade, subject string, limit int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(grade) == "" {
		errors = append(errors, domain.NewMissingFieldError("grade"))
	} else if len(grade) > 10 {
		errors = append(errors, domain.NewOutOfRangeError("grade", len(grade), 1, 10))
	}

	errors = append(errors, v.validateSubject(subject, true)...)

	if limit < 1 || limit > 100 {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, 100))
	}

	return errors
}

// ValidateHistory validates optional history filters. Dates use YYYY-MM-DD.
func (v *Validator) ValidateHistory(grade, subject, fromDate, toDate string) (from, to *time.Time, errs domain.ValidationErrors) {
	if grade != "" && len(grade) > 10 {
		errs = append(errs, domain.NewOutOfRangeError("grade", len(grade), 1, 10))
	}
	errs = append(errs, v.validateSubject(subject, false)...)

	if fromDate != "" {
		t, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			errs = append(errs, domain.NewInvalidFormatError("fromDate", fromDate))
		} else {
			from = &t
		}
	}
	if toDate != "" {
		t, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			errs = append(errs, domain.NewInvalidFormatError("toDate", toDate))
		} else {
			to = &t
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		errs = append(errs, domain.NewValidationError("toDate", "must not be before fromDate"))
	}

	return from, to, errs
}

// ValidateAnalytics validates the optional analytics subject filter.
func (v *Validator) ValidateAnalytics(subject string) domain.ValidationErrors {
	return v.validateSubject(subject, false)
}

// ValidateSendEmail validates the send-results request body.
func (v *Validator) ValidateSendEmail(submissionID int64, email string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if submissionID <= 0 {
		errors = append(errors, domain.NewMissingFieldError("submissionId"))
	}
	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if !emailPattern.MatchString(email) {
		errors = append(errors, domain.NewInvalidFormatError("email", email))
	}

	return errors
}

func (v *Validator) validateSubject(subject string, required bool) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(subject) == "" {
		if required {
			errors = append(errors, domain.NewMissingFieldError("subject"))
		}
		return errors
	}
	if len(subject) < 2 || len(subject) > 50 {
		errors = append(errors, domain.NewOutOfRangeError("subject", len(subject), 2, 50))
	}

	return errors
}
