package ui

import (
	"fmt"
	"log"
	"net/http"

	"evaldash/domain/evaluation"
	"evaldash/internal/errors"
	"evaldash/ui/services"

	"github.com/gin-gonic/gin"
)

const pageTitle = "AI Model Evaluation Dashboard"

type dashboardPage struct {
	Title string
	*services.Dashboard
	Error          string
	MissingColumns []string
	SummaryColumns []string
	SummaryRows    [][]string
	NumericShare   []string
}

// handleDashboard renders the full page for the dataset named by ?file=.
func (s *Server) handleDashboard(c *gin.Context) {
	file := c.Query("file")
	view, err := s.data.Dashboard(file)

	page := dashboardPage{Title: pageTitle, Dashboard: view}
	status := http.StatusOK

	if err != nil {
		page.Error = err.Error()
		var rejection *evaluation.Rejection
		switch {
		case errors.As(err, &rejection):
			page.MissingColumns = rejection.Missing
		case errors.HasCode(err, errors.CodeNotFound):
			status = http.StatusNotFound
		case errors.HasCode(err, errors.CodeNoFiles), errors.HasCode(err, errors.CodeNoDatasets):
			// shown on the page, nothing else to render
		default:
			log.Printf("[Dashboard] %s: %v", file, err)
			status = http.StatusInternalServerError
		}
	}

	if view.Summary != nil {
		page.SummaryColumns = view.Summary.Columns()
		page.SummaryRows = summaryCells(view.Summary)
		page.NumericShare = numericShare(view.Summary)
	}

	s.renderTemplate(c, status, "dashboard.html", page)
}

func summaryCells(summary *evaluation.AggregateTable) [][]string {
	width := len(summary.Columns())
	rows := make([][]string, len(summary.Rows))
	for r := range summary.Rows {
		rows[r] = make([]string, width)
		for col := 0; col < width; col++ {
			rows[r][col] = summary.Cell(r, col)
		}
	}
	return rows
}

// numericShare renders each metric's numeric ratio as a percentage.
func numericShare(summary *evaluation.AggregateTable) []string {
	share := make([]string, len(summary.Profiles))
	for i, p := range summary.Profiles {
		share[i] = fmt.Sprintf("%.0f%%", p.NumericRatio*100)
	}
	return share
}
