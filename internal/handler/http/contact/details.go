package contact

import (
	"net/http"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/handler/http/respond"
)

// DetailsHandler serves the public contact information shown next to the
// form.
type DetailsHandler struct{ Details entity.ContactDetails }

// ServeHTTP 連絡先情報取得
// @Summary      Contact details
// @Description  Public email address and phone number of the site owner.
// @Tags         contact
// @Produce      json
// @Success      200 {object} entity.ContactDetails
// @Router       /contact/details [get]
func (h DetailsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	respond.JSON(w, http.StatusOK, h.Details)
}
