// Package contact serves the public contact form endpoints and the admin
// submission listing.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/handler/http/respond"
	contactUC "contact-pipeline/internal/usecase/contact"
)

// maxMultipartMemory keeps multipart parsing in memory; the body limit
// middleware already caps the request well below it.
const maxMultipartMemory = 1 << 20

// Submitter runs one submission through the pipeline.
type Submitter interface {
	Submit(ctx context.Context, raw entity.RawFields) contactUC.Result
}

type SubmitHandler struct{ Pipeline Submitter }

// ServeHTTP お問い合わせ送信
// @Summary      Submit the contact form
// @Description  Validates and stores a contact message. The summary for the site owner is produced in the background and never delays the response.
// @Tags         contact
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        request body entity.RawFields true "Form values"
// @Success      200 {object} contactUC.Result "Stored"
// @Failure      400 {object} respond.ErrorBody "Body could not be parsed"
// @Failure      413 {object} respond.ErrorBody "Body too large"
// @Failure      422 {object} contactUC.Result "Validation failed; fields are echoed back"
// @Failure      429 {object} respond.ErrorBody "Too many requests" headers(Retry-After=integer)
// @Failure      503 {object} contactUC.Result "Store unavailable"
// @Router       /contact [post]
func (h SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeFields(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.JSON(w, http.StatusRequestEntityTooLarge, respond.ErrorBody{Error: "request body too large"})
			return
		}
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.Pipeline.Submit(r.Context(), raw)
	respond.JSON(w, statusFor(result), result)
}

func statusFor(r contactUC.Result) int {
	switch r.Outcome() {
	case "success":
		return http.StatusOK
	case "validation_failed":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

// decodeFields reads name, email and message from a JSON, urlencoded or
// multipart body. Absent fields stay "".
func decodeFields(r *http.Request) (entity.RawFields, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/x-www-form-urlencoded"
	}

	switch mediaType {
	case "application/json":
		var raw entity.RawFields
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return entity.RawFields{}, nil
			}
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return entity.RawFields{}, err
			}
			return entity.RawFields{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		return raw, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return entity.RawFields{}, formError(err)
		}

	default:
		if err := r.ParseForm(); err != nil {
			return entity.RawFields{}, formError(err)
		}
	}

	return entity.RawFields{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
	}, nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return fmt.Errorf("invalid form body: %w", err)
}
