package ui

import (
	"net/http"
	"time"

	"evaldash/domain/dataset"
	"evaldash/domain/evaluation"
	"evaldash/internal/errors"

	"github.com/gin-gonic/gin"
)

type summaryRow struct {
	PromptType *string             `json:"prompt_type"`
	Model      *string             `json:"model"`
	Rows       int                 `json:"rows"`
	Means      map[string]*float64 `json:"means"`
}

type summaryResponse struct {
	File         string             `json:"file"`
	Columns      []string           `json:"columns"`
	Rows         []summaryRow       `json:"rows"`
	Repaired     map[string]int     `json:"repaired"`
	NumericRatio map[string]float64 `json:"numeric_ratio"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"data_dir":  s.data.Dir(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListDatasets(c *gin.Context) {
	files, warnings, err := s.data.Datasets()
	if err != nil {
		if errors.HasCode(err, errors.CodeNoFiles) {
			c.JSON(http.StatusOK, gin.H{"files": []string{}, "warnings": []string{}, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	if files == nil {
		files = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files, "warnings": warnings})
}

func (s *Server) handleDatasetSummary(c *gin.Context) {
	name := c.Param("name")
	summary, err := s.data.Summary(name)
	if err != nil {
		var rejection *evaluation.Rejection
		switch {
		case errors.As(err, &rejection):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":           rejection.Error(),
				"missing_columns": rejection.Missing,
			})
		case errors.HasCode(err, errors.CodeNotFound),
			errors.HasCode(err, errors.CodeNoFiles),
			errors.HasCode(err, errors.CodeNoDatasets):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		}
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func toSummaryResponse(summary *evaluation.AggregateTable) summaryResponse {
	metrics := summary.Contract.MetricColumns()
	resp := summaryResponse{
		File:         summary.Source,
		Columns:      summary.Columns(),
		Rows:         make([]summaryRow, 0, len(summary.Rows)),
		Repaired:     make(map[string]int, len(metrics)),
		NumericRatio: make(map[string]float64, len(metrics)),
	}
	for _, p := range summary.Profiles {
		resp.Repaired[p.Column] = p.Rejected
		resp.NumericRatio[p.Column] = p.NumericRatio
	}

	for _, row := range summary.Rows {
		out := summaryRow{
			PromptType: optionalString(row.Key.PromptType),
			Model:      optionalString(row.Key.Model),
			Rows:       row.Rows,
			Means:      make(map[string]*float64, len(metrics)),
		}
		for i, col := range metrics {
			if f, ok := row.Means[i].Float(); ok {
				out.Means[col] = &f
			} else {
				out.Means[col] = nil
			}
		}
		resp.Rows = append(resp.Rows, out)
	}
	return resp
}

func optionalString(v dataset.Value) *string {
	if v.IsMissing() {
		return nil
	}
	s := v.String()
	return &s
}
