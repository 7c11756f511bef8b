package api

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const fallbackPage = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8" />
<title>MedDRA 28.1 한국어 증상 코드 조회</title>
</head>
<body>
<h1>MedDRA 28.1 한국어 증상 코드 조회</h1>
<p>UI 파일(기본: <code>index.html</code>)을 찾지 못해 기본 페이지를 표시합니다.</p>
</body>
</html>`

// uiPage is the HTML served at "/". It is read once at startup.
type uiPage struct {
	body     []byte
	fallback bool
}

func loadUIPage(path string, logger *zap.Logger) *uiPage {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-provided UI path
	switch {
	case err == nil:
		logger.Info("Serving UI", zap.String("path", path))
		return &uiPage{body: data}
	case errors.Is(err, os.ErrNotExist):
		logger.Info("UI file not found, serving built-in page", zap.String("path", path))
		return &uiPage{body: []byte(fallbackPage), fallback: true}
	default:
		logger.Warn("Failed to read UI file", zap.String("path", path), zap.Error(err))
		page := fmt.Sprintf(`<!DOCTYPE html><html lang="ko"><body><h1>UI 로드 오류</h1><p>%s</p></body></html>`, html.EscapeString(err.Error()))
		return &uiPage{body: []byte(page), fallback: true}
	}
}

// UIHandler serves the HTML page at "/" and "/index.html".
func (api *API) UIHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", api.ui.body)
}
