package text_test

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/relink/pkg/text"
)

func ExampleRegexpTextReplacer_ReplaceText() {
	replacer := text.NewRegexpTextReplacer()

	rules := []text.ReplacementRule{
		{
			Name:     "preview",
			Pattern:  regexp.MustCompile(`https://preview-\w+\.example\.app(/\S*)?`),
			Template: "https://docs.example.org${1}",
		},
		text.Literal("trailing", "org/guide", "org/guide/"),
	}

	content := strings.NewReader("Read https://preview-7.example.app/guide now")

	result, err := replacer.ReplaceText(context.Background(), content, "README.md", rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Modified: Read https://docs.example.org/guide/ now
	// Changes: 2
	// Was Modified: true
}

func ExampleRegexpTextReplacer_ValidateRules() {
	replacer := text.NewRegexpTextReplacer()

	rules := []text.ReplacementRule{
		text.Literal("foo", "foo", "bar"),
		{Name: "broken"},
	}

	err := replacer.ValidateRules(rules)
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1 (broken): pattern is required
}
