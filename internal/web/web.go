package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var viewsFS embed.FS

// NewEngine은 바이너리에 포함된 뷰로 HTML 템플릿 엔진을 만듭니다.
func NewEngine() *html.Engine {
	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		// embed 경로가 고정이므로 발생하지 않음
		panic(err)
	}
	return html.NewFileSystem(http.FS(views), ".html")
}
