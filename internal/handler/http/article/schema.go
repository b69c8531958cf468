package article

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"news-site/internal/admin"
	"news-site/internal/handler/http/respond"
)

var errMissingTitle = errors.New("title is required")

// Schema 管理画面設定取得
// @Summary      管理画面設定取得
// @Description  一覧表示カラム、フィルタ、検索対象、slug の自動入力元、フィールドセットを返します
// @Tags         admin
// @Produce      json
// @Success      200 {object} admin.ModelAdmin "記事の管理画面設定"
// @Router       /admin/articles/schema [get]
func (h *Handler) Schema(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.Admin)
}

// Slugify slug プレビュー
// @Summary      slug プレビュー
// @Description  タイトルから生成される slug を返します（保存はしません）
// @Tags         admin
// @Produce      json
// @Param        title query string true "記事タイトル"
// @Success      200 {object} SlugResponse "生成された slug"
// @Failure      400 {object} respond.ErrorBody "Bad request - title is required"
// @Router       /admin/slugify [get]
func (h *Handler) Slugify(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		respond.FieldError(w, http.StatusBadRequest, "title", errMissingTitle.Error())
		return
	}
	respond.JSON(w, http.StatusOK, SlugResponse{Title: title, Slug: admin.PrepopulateSlug(title)})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
