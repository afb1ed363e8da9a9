package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"
)

const analyzeSystemPrompt = `You are a high school football defensive coordinator preparing a game plan.
You are given structured tendency data computed from an opponent's offensive
play-by-play breakdown and a question from the coaching staff.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers (percentages and play counts) when making a claim.
- Small samples are unreliable: call out any tendency built on fewer than 5 plays.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on calls and alignments the defense can use.

Data glossary:
- summary: run/pass split over all plays, and the most frequent play calls.
- down_distance: run/pass split per down and distance bucket (0-6, 7-10, 10+).
  Percentages are of run+pass plays in the bucket.
- formation_tendencies: hierarchical rows. A "formation" row is its share of all
  route plays; a "backfield" row is its share of the formation above it; a
  "routes" row is its share of the backfield above it.
- Only plays with a route concept contribute to formation_tendencies.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-assisted scouting analysis of the filtered plays (requires ANTHROPIC_API_KEY)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	addFilterFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	plays, filter, err := loadPlays()
	if err != nil {
		return err
	}
	if len(plays) == 0 {
		return fmt.Errorf("no plays match the filters (%s)", describeFilter(filter))
	}
	doc, err := buildExport(plays, filter, false)
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, string(b), question)
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── Scouting Analysis ───────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
