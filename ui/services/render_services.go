package services

import (
	"bytes"
	"html/template"
	"log"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderService turns markdown and chart output into trusted HTML for the
// dashboard templates.
type RenderService struct {
	templates *template.Template
}

func NewRenderService() *RenderService {
	return &RenderService{}
}

// SetTemplates attaches the parsed template set used by Render.
func (s *RenderService) SetTemplates(t *template.Template) {
	s.templates = t
}

// Markdown renders src with the common extensions. Raw HTML in src is
// skipped.
func (s *RenderService) Markdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

// SVG marks chart output as safe to embed inline.
func (s *RenderService) SVG(b []byte) template.HTML {
	return template.HTML(b)
}

// Render executes the named template into a buffer so a failure never
// leaves a half-written page.
func (s *RenderService) Render(name string, data interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[RenderService] template %s failed: %v", name, err)
		return nil, err
	}
	return &buf, nil
}
