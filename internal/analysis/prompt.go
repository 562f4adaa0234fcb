package analysis

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/yourname/sleepscope/internal"
)

const promptTemplate = `You are a sleep science expert. Analyze the following sleep data and provide a concise, helpful analysis.
The analysis should be easy to understand for a layperson.
Format your response with a summary, positive points, areas for improvement, and actionable tips.
Use markdown-style bolding for headers (e.g., **Summary**).

Sleep Data:
- Bedtime: {{.Bedtime}}
- Wake-up Time: {{.WakeupTime}}
- Number of Night-time Disturbances: {{.Disturbances}}

Please provide your expert analysis.
`

var prompt = template.Must(template.New("prompt").Parse(promptTemplate))

// BuildPrompt embeds the record fields verbatim.
func BuildPrompt(rec internal.SleepRecord) (string, error) {
	var buf bytes.Buffer
	if err := prompt.Execute(&buf, rec); err != nil {
		return "", fmt.Errorf("analysis: render prompt: %w", err)
	}
	return buf.String(), nil
}
