package portfolio

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// DecodeDocument splits raw into its YAML front matter and markdown body.
//
// Input that does not open with a fence line has no front matter and is
// returned whole as the body. An opening fence without a closing one, or
// front matter that is not a YAML mapping, is an error.
func DecodeDocument(raw []byte) (Document, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterFence {
		return Document{Config: Config{}, Body: text}, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterFence {
			end = i
			break
		}
	}
	if end == -1 {
		return Document{}, ErrMalformedFrontMatter
	}

	cfg, err := decodeConfig(strings.Join(lines[1:end], "\n"))
	if err != nil {
		return Document{}, err
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimLeft(body, "\n")
	return Document{Config: cfg, Body: body}, nil
}

// decodeConfig reads a flat mapping. Scalar values are kept as written, so
// dates and numbers are not reformatted. Nested mappings and sequences are
// skipped with a warning.
func decodeConfig(header string) (Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(header), &root); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}

	cfg := Config{}
	if root.Kind == 0 {
		return cfg, nil
	}
	mapping := &root
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		mapping = root.Content[0]
	}
	if mapping.Kind == yaml.ScalarNode && mapping.Tag == "!!null" {
		return cfg, nil
	}
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse front matter: expected a mapping at line %d", mapping.Line)
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, val := mapping.Content[i], mapping.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind != yaml.ScalarNode {
			slog.Warn("Skipping nested front matter value", "key", key.Value, "line", val.Line)
			continue
		}
		if val.Tag == "!!null" {
			cfg[key.Value] = ""
			continue
		}
		cfg[key.Value] = val.Value
	}
	return cfg, nil
}

// EncodeDocument writes cfg as a YAML front matter block followed by body.
// Keys are sorted and every value is double-quoted.
func EncodeDocument(cfg Config, body string) ([]byte, error) {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cfg[k], Style: yaml.DoubleQuotedStyle},
		)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterFence + "\n")
	if len(keys) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(mapping); err != nil {
			return nil, fmt.Errorf("failed to encode front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode front matter: %w", err)
		}
	}
	buf.WriteString(frontMatterFence + "\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
