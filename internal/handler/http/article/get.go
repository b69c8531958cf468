package article

import (
	"net/http"

	"news-site/internal/handler/http/pathutil"
	"news-site/internal/handler/http/respond"
)

// Get 記事詳細取得
// @Summary      記事詳細取得
// @Description  指定されたIDの記事を取得します
// @Tags         articles
// @Produce      json
// @Param        id path int true "記事ID"
// @Success      200 {object} DTO "記事詳細"
// @Failure      400 {object} respond.ErrorBody "Bad request - invalid article ID"
// @Failure      404 {object} respond.ErrorBody "Not found - article not found"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /admin/articles/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.toDTO(a))
}
