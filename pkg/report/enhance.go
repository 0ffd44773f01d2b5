package report

import (
	"context"
	"strings"

	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/pkg/llm"
)

const enhanceSystemPrompt = `You are a data storytelling assistant. You expand short data-cleaning narratives into richer prose for a specific audience.

Rules:
1. Keep every figure, count, and percentage from the original exactly as written
2. Keep the markdown structure (headings, bullet lists)
3. Do not invent metrics or findings that are not in the original
4. Match the requested tone and audience throughout`

// Enhancer expands short narratives with an LLM provider. Enhancement
// is strictly best-effort: any provider failure, or output that does
// not improve on the template, falls back to the deterministic story.
type Enhancer struct {
	// Provider executes the enhancement request.
	Provider llm.Provider

	// MinLength is the story length at which enhancement stops being
	// worthwhile; stories at least this long pass through untouched.
	// Defaults to 500.
	MinLength int

	// MaxTokens caps the enhanced output. Defaults to 1024.
	MaxTokens int

	// Temperature for the enhancement request. Defaults to 0.3.
	Temperature float64
}

// NewEnhancer creates an enhancer with the default thresholds.
func NewEnhancer(p llm.Provider) *Enhancer {
	return &Enhancer{
		Provider:    p,
		MinLength:   500,
		Temperature: 0.3,
		MaxTokens:   1024,
	}
}

// Enhance returns an expanded version of story in the given style, or
// the original story whenever enhancement does not apply or fails.
// It never returns an error; enhancement is cosmetic.
func (e *Enhancer) Enhance(ctx context.Context, story string, style Style) string {
	if e == nil || e.Provider == nil {
		return story
	}
	if len(story) >= e.minLength() {
		return story
	}

	resp, err := e.Provider.Execute(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: enhanceSystemPrompt},
			{Role: llm.RoleUser, Content: buildEnhancementPrompt(story, style)},
		},
		MaxTokens:   e.maxTokens(),
		Temperature: e.Temperature,
	})
	if err != nil {
		logger.Debug("story enhancement failed, using template story",
			"provider", e.Provider.Name(), "error", err)
		return story
	}

	enhanced := strings.TrimSpace(resp.Content)
	if len(enhanced) <= len(story) {
		logger.Debug("enhanced story no longer than template, discarding",
			"provider", e.Provider.Name(),
			"template_len", len(story), "enhanced_len", len(enhanced))
		return story
	}

	logger.Debug("story enhanced",
		"provider", e.Provider.Name(), "model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", resp.Duration)
	return enhanced
}

func (e *Enhancer) minLength() int {
	if e.MinLength > 0 {
		return e.MinLength
	}
	return 500
}

func (e *Enhancer) maxTokens() int {
	if e.MaxTokens > 0 {
		return e.MaxTokens
	}
	return 1024
}

// buildEnhancementPrompt creates the user prompt for story expansion.
func buildEnhancementPrompt(story string, style Style) string {
	profile, ok := styleProfiles[style]
	if !ok {
		profile = styleProfiles[StyleExecutive]
	}

	var prompt strings.Builder
	prompt.WriteString("Expand the following data-cleaning narrative.\n\n")
	prompt.WriteString("## Voice\n")
	prompt.WriteString("Tone: " + profile.Tone + "\n")
	prompt.WriteString("Audience: " + profile.Audience + "\n")
	prompt.WriteString("Focus: " + profile.Focus + "\n")
	prompt.WriteString("\n## Narrative\n")
	prompt.WriteString("```\n")
	prompt.WriteString(story)
	prompt.WriteString("\n```\n")
	return prompt.String()
}
