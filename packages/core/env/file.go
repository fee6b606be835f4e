package env

import (
	"fmt"
	"os"
	"strings"
)

const separator = "###"

// Block is one request of a request file.
type Block struct {
	Name string
	// Text starts with the newline ending the separator line and ends with
	// a single newline. Blank lines before the next separator are dropped.
	Text string
	// Line is the 1-based line of the separator, or 1 for a preamble.
	Line int
}

// SplitRequests cuts content at lines starting with "###". The rest of a
// separator line names the block. Unnamed blocks are called request-N after
// their position. Content before the first separator is a block of its own
// unless it is blank.
func SplitRequests(content string) []Block {
	var blocks []Block
	var current *Block
	var text strings.Builder

	flush := func() {
		if current == nil {
			if strings.TrimSpace(text.String()) == "" {
				text.Reset()
				return
			}
			current = &Block{Line: 1}
		}
		current.Text = trimTrailingBlank(text.String())
		if current.Name == "" {
			current.Name = fmt.Sprintf("request-%d", len(blocks)+1)
		}
		blocks = append(blocks, *current)
		text.Reset()
	}

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, separator) {
			text.WriteString(line)
			continue
		}
		flush()
		body := strings.TrimSuffix(line, "\n")
		current = &Block{
			Name: strings.TrimSpace(strings.TrimLeft(body, "#")),
			Line: i + 1,
		}
		if len(body) < len(line) {
			text.WriteString("\n")
		}
	}
	flush()
	return blocks
}

func trimTrailingBlank(s string) string {
	trimmed := strings.TrimRight(s, " \t\r\n")
	if trimmed == "" {
		return ""
	}
	return trimmed + "\n"
}

// ReadRequests reads a request file and splits it. Block names must be
// unique within a file.
func ReadRequests(path string) ([]Block, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	blocks := SplitRequests(string(content))

	seen := make(map[string]int, len(blocks))
	for _, b := range blocks {
		if line, ok := seen[b.Name]; ok {
			return nil, fmt.Errorf("%s:%d: request %q already defined on line %d", path, b.Line, b.Name, line)
		}
		seen[b.Name] = b.Line
	}
	return blocks, nil
}
