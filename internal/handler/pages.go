package handler

import (
	"html/template"
	"net/http"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"

	"github.com/gin-gonic/gin"
)

// PageTemplates is the HTML shell served for browser navigation. The
// client app mounts itself into #app and talks to /api.
var PageTemplates = template.Must(template.New("page.html").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.title}}</title>
</head>
<body>
<div id="app" data-page="{{.page}}"{{with .callbackUrl}} data-callback-url="{{.}}"{{end}}{{with .user}} data-user="{{.Name}}"{{end}}></div>
</body>
</html>
`))

// Page renders the shell for a named page.
func Page(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := gin.H{
			"title": title,
			"page":  name,
		}
		if cb := c.Query("callbackUrl"); cb != "" {
			data["callbackUrl"] = cb
		}
		if user := authz.Principal(c); user != nil {
			data["user"] = user
		}
		c.HTML(http.StatusOK, "page.html", data)
	}
}
