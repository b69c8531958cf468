package article

import (
	"encoding/json"
	"fmt"
	"net/http"

	"news-site/internal/handler/http/pathutil"
	"news-site/internal/handler/http/respond"
)

// Delete 記事削除
// @Summary      記事削除
// @Description  記事と画像ファイルを削除します
// @Tags         articles
// @Param        id path int true "記事ID"
// @Success      204 "No Content"
// @Failure      400 {object} respond.ErrorBody "Bad request - invalid ID"
// @Failure      404 {object} respond.ErrorBody "Not found - article not found"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /admin/articles/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete 記事一括削除
// @Summary      記事一括削除
// @Description  指定された ID の記事をまとめて削除します。存在しない ID は無視されます。
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        request body     BulkDeleteRequest true "削除する記事ID"
// @Success      200     {object} BulkDeleteResponse "削除件数"
// @Failure      400     {object} respond.ErrorBody "Bad request - invalid input"
// @Failure      500     {object} respond.ErrorBody "サーバーエラー"
// @Router       /admin/articles/bulk-delete [post]
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}

	deleted, err := h.Svc.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	h.Logger.InfoContext(r.Context(), "articles deleted",
		"requested", len(req.IDs),
		"deleted", deleted)
	respond.JSON(w, http.StatusOK, BulkDeleteResponse{Deleted: deleted})
}
