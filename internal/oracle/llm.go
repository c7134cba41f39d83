package oracle

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

const promptFile = "oracle.json"

// LLMOracle asks a generative model for the analysis directly.
type LLMOracle struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
}

// NewLLMOracle wraps client. A zero timeout means DefaultTimeout.
func NewLLMOracle(client llm.Client, tier llm.ModelTier, timeout time.Duration) *LLMOracle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tier == "" {
		tier = llm.TierStandard
	}
	return &LLMOracle{client: client, tier: tier, timeout: timeout}
}

// Name implements Oracle.
func (o *LLMOracle) Name() string { return "llm:" + o.client.GetModel(o.tier) }

// Analyze implements Oracle.
func (o *LLMOracle) Analyze(ctx context.Context, req Request) Outcome[*scoring.AnalysisResult] {
	prompt, err := analyzePrompt(req)
	if err != nil {
		return Fallback[*scoring.AnalysisResult](ReasonNotConfigured, err)
	}
	out, err := o.generate(ctx, prompt)
	if err != nil {
		return failed[*scoring.AnalysisResult](err)
	}
	result, err := DecodeAnalysis([]byte(out))
	if err != nil {
		return failed[*scoring.AnalysisResult](err)
	}
	return Success(result)
}

// Parse implements Oracle.
func (o *LLMOracle) Parse(ctx context.Context, text string) Outcome[*parsing.StructuredResume] {
	intro, err := prompts.Get(promptFile, "parse-resume")
	if err != nil {
		return Fallback[*parsing.StructuredResume](ReasonNotConfigured, err)
	}
	schema := llm.ResumeFieldsSchema()
	schema.Description += "\n" + intro

	out, err := o.generate(ctx, llm.BuildExtractionPrompt(schema, text))
	if err != nil {
		return failed[*parsing.StructuredResume](err)
	}
	resume, err := DecodeResume([]byte(out))
	if err != nil {
		return failed[*parsing.StructuredResume](err)
	}
	return Success(resume)
}

func (o *LLMOracle) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.client.GenerateJSON(ctx, prompt, o.tier)
	if err != nil {
		// Some clients surface an expired context as their own error type.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return llm.CleanJSONBlock(out), nil
}

func analyzePrompt(req Request) (string, error) {
	withJob := strings.TrimSpace(req.JobDescription) != ""

	intro, err := prompts.Get(promptFile, "analyze-resume")
	if err != nil {
		return "", err
	}
	intro = prompts.Format(intro, map[string]string{"Categories": strings.Join(Categories(withJob), ", ")})
	if withJob {
		job, err := prompts.Get(promptFile, "analyze-resume-job")
		if err != nil {
			return "", err
		}
		intro += "\n\n" + prompts.Format(job, map[string]string{"JobDescription": req.JobDescription})
	}

	schema := llm.AnalysisSchema(Categories(withJob))
	schema.Description += "\n" + intro
	return llm.BuildExtractionPrompt(schema, req.Text), nil
}
