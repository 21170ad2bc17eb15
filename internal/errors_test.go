package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/job-board/internal"
)

var _ = Describe("AppError", func() {
	It("should match sentinels through wrapping and copies", func() {
		cause := errors.New("duplicate key")
		err := fmt.Errorf("create: %w", internal.ErrUsernameTaken.WithCause(cause))

		Expect(errors.Is(err, internal.ErrUsernameTaken)).To(BeTrue())
		Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeFalse())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(internal.ErrUsernameTaken.Cause).To(BeNil())
	})

	It("should render only code, message and field errors", func() {
		appErr := internal.NewValidationFieldError("email", "must be a valid email", internal.ErrCodeValidationFailed).
			WithCause(errors.New("internal detail"))

		status, body := appErr.ToHTTPResponse()
		raw, err := json.Marshal(body)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(raw).To(MatchJSON(`{
			"code": "VALIDATION_FAILED",
			"message": "Validation failed",
			"errors": [{"field": "email", "message": "must be a valid email", "code": "VALIDATION_FAILED"}]
		}`))
	})

	It("should hide the cause of internal errors from the body", func() {
		raw, err := json.Marshal(internal.NewInternalError("Failed to load job", errors.New("connection reset")))

		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(MatchJSON(`{"code":"INTERNAL_ERROR","message":"Failed to load job"}`))
	})

	It("should find an AppError anywhere in the chain", func() {
		appErr, ok := internal.IsAppError(fmt.Errorf("wrapped: %w", internal.ErrJobNotFound))

		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})
})
