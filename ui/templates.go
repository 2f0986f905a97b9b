package ui

import (
	"log"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data and status
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	buf, err := s.render.Render(templateName, data)
	if err != nil {
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}
