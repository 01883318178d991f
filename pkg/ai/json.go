package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	for {
		idx := strings.Index(s, "```")
		if idx == -1 {
			return s
		}
		rest := s[idx+3:]
		if lang := strings.IndexByte(rest, '\n'); lang != -1 && !strings.ContainsAny(rest[:lang], "{}[]") {
			rest = rest[lang+1:]
		}
		s = s[:idx] + rest
	}
}

// ExtractJSONSpan returns the first balanced {...} or [...] span in s,
// ignoring braces inside string literals. Oracle responses often wrap JSON
// in code fences or prepend commentary; this strips both. Returns "" when
// no balanced span exists.
func ExtractJSONSpan(s string) string {
	t := stripCodeFences(s)

	start := -1
	var opener, closer byte
	for i := 0; i < len(t); i++ {
		if t[i] == '{' {
			start, opener, closer = i, '{', '}'
			break
		}
		if t[i] == '[' {
			start, opener, closer = i, '[', ']'
			break
		}
	}
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(t); i++ {
		c := t[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return t[start : i+1]
			}
		}
	}
	return ""
}

// UnmarshalFlexible attempts to unmarshal oracle output into the target with
// multiple fallback strategies: the first balanced JSON span, then the raw
// input, then a repaired version of either.
//
// This is useful for parsing AI-generated JSON which may be malformed,
// fenced, or preceded by commentary.
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if span := ExtractJSONSpan(input); span != "" {
		if err := json.Unmarshal([]byte(span), out); err == nil {
			return nil
		}
		input = span
	}

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal failed after repair: %w", err)
	}
	return nil
}

// CompleteJSON asks the oracle for a JSON document and parses it into out.
// The first attempt is a free-text completion parsed flexibly; on failure it
// performs exactly one strict retry through the schema-enforced format path.
// The returned error means both attempts failed and callers should fall back
// to an empty default rather than aborting the pipeline.
func CompleteJSON(
	ctx context.Context,
	client ConceptAIClient,
	name string,
	description string,
	prompt string,
	out any,
	opts ...GenerateOption,
) error {
	res, err := client.GenerateCompletion(ctx, prompt, opts...)
	if err == nil {
		if perr := UnmarshalFlexible(res, out); perr == nil {
			return nil
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	strict := append(append([]GenerateOption{}, opts...), func(o *GenerateOptions) {
		o.SystemPrompt = strings.TrimSpace(o.SystemPrompt + "\n\nIMPORTANT: Output raw JSON only. No markdown, no commentary.")
	})
	if err := client.GenerateCompletionWithFormat(ctx, name, description, prompt, out, strict...); err != nil {
		return fmt.Errorf("oracle call %q failed: %w", name, err)
	}
	return nil
}
