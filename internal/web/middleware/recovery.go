package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hankerbiao/Registration-System/internal/middleware"
)

// Recovery creates panic recovery middleware for the web console
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="zh-CN">
<head><meta charset="utf-8"><title>服务器错误</title></head>
<body>
<h1>服务器内部错误</h1>
<p>出现了错误。请稍后再试。</p>
<p><a href="/">返回首页</a></p>
</body>
</html>`))
}
