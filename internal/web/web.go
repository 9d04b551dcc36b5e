package web

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplates parses every embedded page and its shared layout blocks.
func ParseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// LoadTemplates installs the embedded templates as the engine's HTML renderer.
func LoadTemplates(r *gin.Engine) error {
	tmpl, err := ParseTemplates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}
