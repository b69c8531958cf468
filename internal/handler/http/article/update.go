package article

import (
	"net/http"

	"news-site/internal/handler/http/pathutil"
	"news-site/internal/handler/http/respond"
	artUC "news-site/internal/usecase/article"
)

// Update 記事更新
// @Summary      記事更新
// @Description  既存の記事を更新します。送信されたフィールドのみ変更され、タイトルを変更しても slug は再生成されません。
// @Tags         articles
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        id      path      int         true  "記事ID"
// @Param        article body      ArticleRequest true  "更新する記事情報"
// @Success      200     {object}  DTO "更新後の記事"
// @Failure      400     {object}  respond.ErrorBody "Bad request - invalid input"
// @Failure      404     {object}  respond.ErrorBody "Not found - article not found"
// @Failure      409     {object}  respond.ErrorBody "Conflict - slug already exists"
// @Failure      500     {object}  respond.ErrorBody "サーバーエラー"
// @Router       /admin/articles/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	form, err := h.decodeForm(w, r)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	a, err := h.Svc.Update(r.Context(), artUC.UpdateInput{
		ID:         id,
		Title:      form.Title,
		Slug:       form.Slug,
		Content:    form.Content,
		Image:      form.Image,
		ClearImage: form.ClearImage,
	})
	if err != nil {
		h.discardUpload(r.Context(), form)
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.toDTO(a))
}
