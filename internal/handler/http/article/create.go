package article

import (
	"errors"
	"net/http"

	"news-site/internal/handler/http/respond"
	artUC "news-site/internal/usecase/article"
)

// Create 記事作成
// @Summary      記事作成
// @Description  新しい記事を作成します。slug を省略するとタイトルから生成されます。画像は multipart/form-data の image フィールドで送信します。
// @Tags         articles
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        article body      ArticleRequest true  "記事情報"
// @Success      201     {object}  DTO "作成された記事"
// @Failure      400     {object}  respond.ErrorBody "Bad request - invalid input"
// @Failure      409     {object}  respond.ErrorBody "Conflict - slug already exists"
// @Failure      500     {object}  respond.ErrorBody "サーバーエラー"
// @Router       /admin/articles [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.decodeForm(w, r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	a, err := h.Svc.Create(r.Context(), artUC.CreateInput{
		Title:   valueOf(form.Title),
		Slug:    valueOf(form.Slug),
		Content: valueOf(form.Content),
		Image:   valueOf(form.Image),
	})
	if err != nil {
		h.discardUpload(r.Context(), form)
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/admin/articles/"+itoa(a.ID))
	respond.JSON(w, http.StatusCreated, h.toDTO(a))
}

func (h *Handler) writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadBody) {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	writeError(w, err)
}
