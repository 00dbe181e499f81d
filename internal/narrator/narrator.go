// Package narrator asks Gemini for a personalised celebration line. It is an
// optional garnish: callers keep their static text when it fails.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/celebration.txt
var celebrationPrompt string

var celebrationTmpl = template.Must(template.New("celebration").Parse(celebrationPrompt))

// ErrEmpty is returned when the model answers without usable text.
var ErrEmpty = errors.New("narrator: no content returned from Gemini")

// Brief is what the model is told about the playthrough.
type Brief struct {
	Title      string
	Setting    string
	Player     string
	Partner    string
	Hits       int
	Milestones []string
	Message    string
	Narration  string
}

// Celebration is the text shown on the success overlay.
type Celebration struct {
	Message   string `yaml:"message"`
	Narration string `yaml:"narration"`
}

// Composer produces a celebration for a brief.
type Composer interface {
	Celebration(ctx context.Context, b Brief) (Celebration, error)
}

type Narrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func New(ctx context.Context, apiKey string) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("narrator: creating client: %w", err)
	}
	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.9)
	return &Narrator{client: client, model: model}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

func (n *Narrator) Celebration(ctx context.Context, b Brief) (Celebration, error) {
	prompt, err := Prompt(b)
	if err != nil {
		return Celebration{}, err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Celebration{}, fmt.Errorf("narrator: generating: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Celebration{}, ErrEmpty
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Celebration{}, fmt.Errorf("narrator: unexpected response type %T", resp.Candidates[0].Content.Parts[0])
	}
	return Parse(string(text))
}

// Prompt renders the request sent to the model.
func Prompt(b Brief) (string, error) {
	var buf bytes.Buffer
	if err := celebrationTmpl.Execute(&buf, b); err != nil {
		return "", fmt.Errorf("narrator: rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// Parse reads the model's YAML answer, with or without a code fence.
func Parse(text string) (Celebration, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var c Celebration
	if err := yaml.Unmarshal([]byte(clean), &c); err != nil {
		return Celebration{}, fmt.Errorf("narrator: parsing YAML: %w\nOutput was: %s", err, clean)
	}
	c.Message = strings.TrimSpace(c.Message)
	c.Narration = strings.TrimSpace(c.Narration)
	if c.Message == "" {
		return Celebration{}, ErrEmpty
	}
	return c, nil
}
