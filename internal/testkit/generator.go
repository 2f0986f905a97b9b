package testkit

import (
	"math/rand"
)

// EvaluationGeneratorConfig configures the synthetic evaluation sheet
type EvaluationGeneratorConfig struct {
	PromptTypes    []string `json:"prompt_types"`
	Models         []string `json:"models"`
	RunsPerPair    int      `json:"runs_per_pair"`
	InvalidRate    float64  `json:"invalid_rate"`     // chance a metric cell holds "N/A"
	MissingKeyRate float64  `json:"missing_key_rate"` // chance a prompt type or model cell is empty
	Seed           int64    `json:"seed"`
}

// DefaultEvaluationConfig returns sensible defaults for evaluation data generation
func DefaultEvaluationConfig() EvaluationGeneratorConfig {
	return EvaluationGeneratorConfig{
		PromptTypes:    []string{"factual", "creative", "reasoning", "summarisation"},
		Models:         []string{"llama-3-8b", "mistral-7b", "phi-3-mini"},
		RunsPerPair:    5,
		InvalidRate:    0.1,
		MissingKeyRate: 0.05,
		Seed:           42,
	}
}

// EvaluationGenerator produces evaluation sheets with a known layout
type EvaluationGenerator struct {
	config EvaluationGeneratorConfig
	rng    *rand.Rand
}

// NewEvaluationGenerator creates a new evaluation data generator
func NewEvaluationGenerator(config EvaluationGeneratorConfig) *EvaluationGenerator {
	return &EvaluationGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns a header row followed by RunsPerPair rows for every
// (prompt type, model) pair, in shuffled order.
func (g *EvaluationGenerator) Generate() [][]interface{} {
	var body [][]interface{}
	for _, prompt := range g.config.PromptTypes {
		for _, model := range g.config.Models {
			for run := 0; run < g.config.RunsPerPair; run++ {
				body = append(body, g.row(prompt, model))
			}
		}
	}
	g.rng.Shuffle(len(body), func(i, j int) { body[i], body[j] = body[j], body[i] })

	return append([][]interface{}{EvaluationHeader()}, body...)
}

func (g *EvaluationGenerator) row(prompt, model string) []interface{} {
	var promptCell, modelCell interface{} = prompt, model
	if g.rng.Float64() < g.config.MissingKeyRate {
		promptCell = nil
	}
	if g.rng.Float64() < g.config.MissingKeyRate {
		modelCell = nil
	}

	quality := float64(g.rng.Intn(6))
	electricity := 0.5 + g.rng.Float64()*4
	co2 := electricity * 0.233
	latency := 0.2 + g.rng.Float64()*8

	return []interface{}{
		promptCell,
		modelCell,
		g.maybeInvalid(quality),
		g.maybeInvalid(electricity),
		g.maybeInvalid(co2),
		g.maybeInvalid(latency),
	}
}

func (g *EvaluationGenerator) maybeInvalid(v float64) interface{} {
	if g.rng.Float64() < g.config.InvalidRate {
		return "N/A"
	}
	return v
}
