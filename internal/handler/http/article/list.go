package article

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"news-site/internal/common/pagination"
	"news-site/internal/handler/http/respond"
	"news-site/internal/observability/logging"
	"news-site/internal/observability/metrics"
	artUC "news-site/internal/usecase/article"
)

// MaxQueryLength bounds the q parameter of the admin list.
const MaxQueryLength = 200

// List 記事一覧取得
// @Summary      記事一覧取得（検索・ページネーション対応）
// @Description  公開日の新しい順に記事を返します。q はタイトルと本文をスペース区切りの AND 条件で検索します。
// @Tags         articles
// @Produce      json
// @Param        q      query    string  false  "検索キーワード（スペース区切り）"
// @Param        from   query    string  false  "公開日の開始（YYYY-MM-DD または RFC3339）"
// @Param        to     query    string  false  "公開日の終了（YYYY-MM-DD または RFC3339）"
// @Param        page   query    int     false  "ページ番号 (1-based)" default(1) minimum(1)
// @Param        limit  query    int     false  "1ページあたりの件数" default(20) minimum(1) maximum(100)
// @Success      200 {object} ListResponse "ページネーション付き記事一覧"
// @Failure      400 {object} respond.ErrorBody "Invalid query parameters"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /admin/articles [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	query := r.URL.Query()
	params, err := pagination.Parse(query, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		var pe *pagination.ParamError
		if errors.As(err, &pe) {
			respond.FieldError(w, http.StatusBadRequest, pe.Param, pe.Message)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	in := artUC.SearchInput{
		Query: strings.TrimSpace(query.Get("q")),
		Page:  params.Page,
		Limit: params.Limit,
	}
	if len(in.Query) > MaxQueryLength {
		respond.FieldError(w, http.StatusBadRequest, "q", fmt.Sprintf("must be at most %d bytes", MaxQueryLength))
		return
	}
	if in.From, err = artUC.ParseDateBound(query.Get("from"), false); err != nil {
		respond.FieldError(w, http.StatusBadRequest, "from", err.Error())
		return
	}
	if in.To, err = artUC.ParseDateBound(query.Get("to"), true); err != nil {
		respond.FieldError(w, http.StatusBadRequest, "to", err.Error())
		return
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		pagination.RecordError("validation")
		respond.FieldError(w, http.StatusBadRequest, "to", "must not be before from")
		return
	}

	result, err := h.Svc.Search(ctx, in)
	if err != nil {
		logger.Error("Failed to list articles",
			"error", respond.SanitizeError(err),
			"page", params.Page,
			"limit", params.Limit)
		pagination.RecordError("database")
		writeError(w, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, a := range result.Data {
		dtos = append(dtos, h.toDTO(a))
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, result.Pagination.Page)
	metrics.RecordOperationDuration("admin_list", duration)

	logger.Debug("Admin article list",
		"page", result.Pagination.Page,
		"limit", result.Pagination.Limit,
		"returned_count", len(dtos),
		"duration_ms", duration.Milliseconds())

	respond.JSON(w, http.StatusOK, ListResponse{
		Data:       dtos,
		Columns:    h.Admin.ListDisplay,
		Pagination: result.Pagination,
	})
}
