package config

import "strings"

// Preset is a known OpenAI-compatible endpoint.
type Preset struct {
	Name     string
	BaseURL  string
	Models   []string
	NeedsKey bool
	Local    bool
}

// DefaultModel returns the first suggested model, if any.
func (p Preset) DefaultModel() string {
	if len(p.Models) == 0 {
		return ""
	}
	return p.Models[0]
}

var presets = []Preset{
	{Name: "OpenAI", BaseURL: "https://api.openai.com/v1", Models: []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-4.1-mini", "gpt-4.1", "o1-mini", "o1"}, NeedsKey: true},
	{Name: "Anthropic", BaseURL: "https://api.anthropic.com/v1", Models: []string{"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022", "claude-3-opus-20240229"}, NeedsKey: true},
	{Name: "DeepSeek", BaseURL: "https://api.deepseek.com/v1", Models: []string{"deepseek-chat", "deepseek-coder", "deepseek-reasoner"}, NeedsKey: true},
	{Name: "Google AI", BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", Models: []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"}, NeedsKey: true},
	{Name: "Mistral", BaseURL: "https://api.mistral.ai/v1", Models: []string{"mistral-large-latest", "mistral-medium-latest", "mistral-small-latest", "codestral-latest"}, NeedsKey: true},
	{Name: "Groq", BaseURL: "https://api.groq.com/openai/v1", Models: []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant", "mixtral-8x7b-32768", "gemma2-9b-it"}, NeedsKey: true},
	{Name: "OpenRouter", BaseURL: "https://openrouter.ai/api/v1", Models: []string{"openai/gpt-4o-mini", "anthropic/claude-3.5-sonnet", "google/gemini-2.0-flash-exp:free", "deepseek/deepseek-chat"}, NeedsKey: true},
	{Name: "Together", BaseURL: "https://api.together.xyz/v1", Models: []string{"meta-llama/Llama-3.3-70B-Instruct-Turbo", "mistralai/Mixtral-8x7B-Instruct-v0.1", "Qwen/Qwen2.5-72B-Instruct-Turbo"}, NeedsKey: true},
	{Name: "Fireworks", BaseURL: "https://api.fireworks.ai/inference/v1", Models: []string{"accounts/fireworks/models/llama-v3p1-70b-instruct", "accounts/fireworks/models/mixtral-8x7b-instruct"}, NeedsKey: true},
	{Name: "Cerebras", BaseURL: "https://api.cerebras.ai/v1", Models: []string{"llama3.1-70b", "llama3.1-8b"}, NeedsKey: true},
	{Name: "Perplexity", BaseURL: "https://api.perplexity.ai", Models: []string{"llama-3.1-sonar-large-128k-chat", "llama-3.1-sonar-small-128k-chat"}, NeedsKey: true},
	{Name: "Cohere", BaseURL: "https://api.cohere.ai/v1", Models: []string{"command-r-plus", "command-r", "command"}, NeedsKey: true},
	{Name: "Ollama", BaseURL: "http://localhost:11434/v1", Models: []string{"llama3.2", "llama3.1", "mistral", "gemma2", "qwen2.5", "phi3", "deepseek-r1"}, Local: true},
	{Name: "LM Studio", BaseURL: "http://localhost:1234/v1", Models: []string{"local-model"}, Local: true},
	{Name: "LocalAI", BaseURL: "http://localhost:8080/v1", Models: []string{"gpt-4", "ggml-model"}, Local: true},
	{Name: "Text Gen WebUI", BaseURL: "http://localhost:5000/v1", Models: []string{"local-model"}, Local: true},
	{Name: "Jan", BaseURL: "http://localhost:1337/v1", Models: []string{"local-model"}, Local: true},
	{Name: "GPT4All", BaseURL: "http://localhost:4891/v1", Models: []string{"local-model"}, Local: true},
	{Name: "Kobold", BaseURL: "http://localhost:5001/v1", Models: []string{"local-model"}, Local: true},
	{Name: "vLLM", BaseURL: "http://localhost:8000/v1", Models: []string{"local-model"}, Local: true},
	{Name: "Custom", NeedsKey: true},
}

// Presets returns every known provider in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a provider by name, ignoring case, spaces and dashes.
func LookupPreset(name string) (Preset, bool) {
	want := normalize(name)
	for _, p := range presets {
		if normalize(p.Name) == want {
			return p, true
		}
	}
	return Preset{}, false
}

func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
