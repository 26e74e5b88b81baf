package genai

import (
	"strings"
	"testing"
)

func TestFilterSelectionPrompt(t *testing.T) {
	t.Parallel()
	prompt := FilterSelectionPrompt("data science events",
		[]string{"+DataScience (+DS)", "Duke Arts"},
		[]string{"Lecture/Talk"})

	for _, want := range []string{"+DataScience (+DS)", "Duke Arts", "Lecture/Talk", "data science events"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestComposePrompt(t *testing.T) {
	t.Parallel()
	prompt := ComposePrompt("any events?", "duke_events", "Event: Jazz Night")

	for _, want := range []string{"any events?", "duke_events", "Event: Jazz Night"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRouterSystemPrompt_MentionsAllTools(t *testing.T) {
	t.Parallel()
	for name := range ToolParamsMap {
		if !strings.Contains(RouterSystemPrompt, name) {
			t.Errorf("router prompt does not mention tool %q", name)
		}
	}
}
