// Package docs holds the swagger document of the admin API.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/articles": {
            "get": {
                "description": "公開日の新しい順に記事を返します。q はタイトルと本文をスペース区切りの AND 条件で検索します。",
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "記事一覧取得（検索・ページネーション対応）",
                "parameters": [
                    {"type": "string", "description": "検索キーワード（スペース区切り）", "name": "q", "in": "query"},
                    {"type": "string", "description": "公開日の開始（YYYY-MM-DD または RFC3339）", "name": "from", "in": "query"},
                    {"type": "string", "description": "公開日の終了（YYYY-MM-DD または RFC3339）", "name": "to", "in": "query"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "ページ番号 (1-based)", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "1ページあたりの件数", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "ページネーション付き記事一覧", "schema": {"$ref": "#/definitions/article.ListResponse"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "サーバーエラー", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            },
            "post": {
                "description": "新しい記事を作成します。slug を省略するとタイトルから生成されます。画像は multipart/form-data の image フィールドで送信します。",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "記事作成",
                "parameters": [
                    {"description": "記事情報", "name": "article", "in": "body", "required": true, "schema": {"$ref": "#/definitions/article.ArticleRequest"}}
                ],
                "responses": {
                    "201": {"description": "作成された記事", "schema": {"$ref": "#/definitions/article.DTO"}},
                    "400": {"description": "Bad request - invalid input", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "409": {"description": "Conflict - slug already exists", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "サーバーエラー", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/admin/articles/bulk-delete": {
            "post": {
                "description": "指定された ID の記事をまとめて削除します。存在しない ID は無視されます。",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "記事一括削除",
                "parameters": [
                    {"description": "削除する記事ID", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/article.BulkDeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "削除件数", "schema": {"$ref": "#/definitions/article.BulkDeleteResponse"}},
                    "400": {"description": "Bad request - invalid input", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "サーバーエラー", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/admin/articles/schema": {
            "get": {
                "description": "一覧表示カラム、フィルタ、検索対象、slug の自動入力元、フィールドセットを返します",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "管理画面設定取得",
                "responses": {
                    "200": {"description": "記事の管理画面設定", "schema": {"$ref": "#/definitions/admin.ModelAdmin"}}
                }
            }
        },
        "/admin/articles/{id}": {
            "get": {
                "description": "指定されたIDの記事を取得します",
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "記事詳細取得",
                "parameters": [
                    {"type": "integer", "description": "記事ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "記事詳細", "schema": {"$ref": "#/definitions/article.DTO"}},
                    "400": {"description": "Bad request - invalid article ID", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "404": {"description": "Not found - article not found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "サーバーエラー", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            },
            "put": {
                "description": "既存の記事を更新します。送信されたフィールドのみ変更され、タイトルを変更しても slug は再生成されません。",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "記事更新",
                "parameters": [
                    {"type": "integer", "description": "記事ID", "name": "id", "in": "path", "required": true},
                    {"description": "更新する記事情報", "name": "article", "in": "body", "required": true, "schema": {"$ref": "#/definitions/article.ArticleRequest"}}
                ],
                "responses": {
                    "200": {"description": "更新後の記事", "schema": {"$ref": "#/definitions/article.DTO"}},
                    "400": {"description": "Bad request - invalid input", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "404": {"description": "Not found - article not found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "409": {"description": "Conflict - slug already exists", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "サーバーエラー", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            },
            "delete": {
                "description": "記事と画像ファイルを削除します",
                "tags": ["articles"],
                "summary": "記事削除",
                "parameters": [
                    {"type": "integer", "description": "記事ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad request - invalid ID", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "404": {"description": "Not found - article not found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "サーバーエラー", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/admin/slugify": {
            "get": {
                "description": "タイトルから生成される slug を返します（保存はしません）",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "slug プレビュー",
                "parameters": [
                    {"type": "string", "description": "記事タイトル", "name": "title", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "生成された slug", "schema": {"$ref": "#/definitions/article.SlugResponse"}},
                    "400": {"description": "Bad request - title is required", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "admin.Fieldset": {
            "type": "object",
            "properties": {
                "fields": {"type": "array", "items": {"type": "string"}, "example": ["title", "slug", "content"]},
                "name": {"type": "string", "example": "Main"}
            }
        },
        "admin.ModelAdmin": {
            "type": "object",
            "properties": {
                "date_hierarchy": {"type": "string", "example": "publication_date"},
                "fieldsets": {"type": "array", "items": {"$ref": "#/definitions/admin.Fieldset"}},
                "list_display": {"type": "array", "items": {"type": "string"}},
                "list_filter": {"type": "array", "items": {"type": "string"}},
                "model": {"type": "string", "example": "article"},
                "ordering": {"type": "array", "items": {"type": "string"}},
                "prepopulated_fields": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "search_fields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "article.ArticleRequest": {
            "type": "object",
            "properties": {
                "clear_image": {"type": "boolean"},
                "content": {"type": "string"},
                "image": {"type": "string", "description": "multipart file only; rejected in JSON bodies"},
                "slug": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "article.BulkDeleteRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}, "example": [1, 2, 3]}
            }
        },
        "article.BulkDeleteResponse": {
            "type": "object",
            "properties": {
                "deleted": {"type": "integer", "example": 3}
            }
        },
        "article.DTO": {
            "type": "object",
            "properties": {
                "content": {"type": "string", "example": "<p>The town hall opens its doors again on Monday.</p>"},
                "id": {"type": "integer", "example": 1},
                "image": {"type": "string", "example": "news_images/1718000000000000000_hall.jpg"},
                "image_url": {"type": "string", "example": "/media/news_images/1718000000000000000_hall.jpg"},
                "publication_date": {"type": "string", "example": "2025-10-26T10:00:00Z"},
                "slug": {"type": "string", "example": "town-hall-reopens-after-renovation"},
                "title": {"type": "string", "example": "Town hall reopens after renovation"},
                "updated_at": {"type": "string", "example": "2025-10-26T12:00:00Z"},
                "url": {"type": "string", "example": "/news/town-hall-reopens-after-renovation/"}
            }
        },
        "article.ListResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}, "example": ["title", "publication_date", "slug"]},
                "data": {"type": "array", "items": {"$ref": "#/definitions/article.DTO"}},
                "pagination": {"$ref": "#/definitions/pagination.Metadata"}
            }
        },
        "article.SlugResponse": {
            "type": "object",
            "properties": {
                "slug": {"type": "string", "example": "hello-world"},
                "title": {"type": "string", "example": "Hello World"}
            }
        },
        "pagination.Metadata": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "page": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "respond.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "News Site Admin API",
	Description:      "ニュース記事の管理 API。記事の作成・更新・削除、一覧検索、slug プレビューを提供します。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
