package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/handler/http/auth"
	"contact-pipeline/internal/handler/http/pathutil"
	"contact-pipeline/internal/handler/http/respond"
	contactUC "contact-pipeline/internal/usecase/contact"
)

// SubmissionReader is the read side of the contact use case.
type SubmissionReader interface {
	List(ctx context.Context) ([]*entity.Submission, error)
	Get(ctx context.Context, id string) (*entity.Submission, error)
}

type ListHandler struct{ Viewer SubmissionReader }

// ServeHTTP お問い合わせ一覧取得
// @Summary      List submissions
// @Description  Every stored submission, newest first.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} listResponse
// @Failure      401 {object} respond.ErrorBody "Missing or invalid token"
// @Failure      503 {object} respond.ErrorBody "Store unavailable"
// @Router       /admin/submissions [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Viewer.List(r.Context())
	if err != nil {
		respond.SafeError(w, storeErrorCode(err), err)
		return
	}

	slog.InfoContext(r.Context(), "submissions listed",
		slog.String("user", auth.UserFromContext(r.Context())),
		slog.Int("count", len(subs)))

	out := listResponse{Submissions: make([]SubmissionDTO, 0, len(subs)), Total: len(subs)}
	for _, s := range subs {
		out.Submissions = append(out.Submissions, toDTO(s))
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetHandler struct{ Viewer SubmissionReader }

// ServeHTTP お問い合わせ詳細取得
// @Summary      Get one submission
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200 {object} SubmissionDTO
// @Failure      400 {object} respond.ErrorBody "Invalid ID"
// @Failure      401 {object} respond.ErrorBody "Missing or invalid token"
// @Failure      404 {object} respond.ErrorBody "Not found"
// @Failure      503 {object} respond.ErrorBody "Store unavailable"
// @Router       /admin/submissions/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/admin/submissions/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	sub, err := h.Viewer.Get(r.Context(), id)
	if err != nil {
		code := storeErrorCode(err)
		switch {
		case errors.Is(err, contactUC.ErrInvalidSubmissionID):
			code = http.StatusBadRequest
		case errors.Is(err, contactUC.ErrSubmissionNotFound):
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	slog.InfoContext(r.Context(), "submission viewed",
		slog.String("user", auth.UserFromContext(r.Context())),
		slog.String("submission_id", sub.ID))
	respond.JSON(w, http.StatusOK, toDTO(sub))
}

func storeErrorCode(err error) int {
	if errors.Is(err, entity.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
