package article

import (
	"errors"
	"net/http"

	"news-site/internal/domain/entity"
	"news-site/internal/handler/http/respond"
	"news-site/internal/infra/storage"
	artUC "news-site/internal/usecase/article"
)

// writeError maps use case errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.FieldError(w, http.StatusBadRequest, ve.Field, ve.Message)
	case errors.Is(err, artUC.ErrInvalidArticleID):
		respond.SafeError(w, http.StatusBadRequest, artUC.ErrInvalidArticleID)
	case errors.Is(err, artUC.ErrArticleNotFound):
		respond.SafeError(w, http.StatusNotFound, artUC.ErrArticleNotFound)
	case errors.Is(err, artUC.ErrDuplicateSlug):
		appErr := respond.NewAppError(http.StatusConflict, artUC.ErrDuplicateSlug.Error(), err)
		appErr.Field = "slug"
		respond.AppErrorResponse(w, http.StatusConflict, appErr)
	case errors.Is(err, storage.ErrUnsupportedType):
		respond.FieldError(w, http.StatusBadRequest, "image", "unsupported image type")
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
