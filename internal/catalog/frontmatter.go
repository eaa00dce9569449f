package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelim = []byte("---")

// splitFrontmatter separates a leading frontmatter block (delimited by
// "---" lines) from the document body. ok is false when no block exists.
// Delimiters must be whole lines: a longer dash run such as a "----"
// thematic break never opens or closes a block.
func splitFrontmatter(content []byte) (block, body []byte, ok bool) {
	lines := bytes.SplitAfter(content, []byte("\n"))
	if len(lines) < 2 || !isDelimLine(lines[0]) {
		return nil, content, false
	}

	blockStart := len(lines[0])
	blockLen := 0
	for _, line := range lines[1:] {
		if isDelimLine(line) {
			block = content[blockStart : blockStart+blockLen]
			body = content[blockStart+blockLen+len(line):]
			return block, body, true
		}
		blockLen += len(line)
	}
	return nil, content, false
}

// isDelimLine reports whether line is exactly "---" aside from trailing
// whitespace and the line ending.
func isDelimLine(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r\n"), frontmatterDelim)
}

// parseFrontmatter decodes the document's embedded header block into a
// key-value mapping. A document without a block returns (nil, false, nil);
// a block that is not valid YAML returns an error so the caller can mark
// the record degraded instead of dropping it.
func parseFrontmatter(content []byte) (map[string]interface{}, bool, error) {
	block, _, ok := splitFrontmatter(content)
	if !ok {
		return nil, false, nil
	}

	fields := make(map[string]interface{})
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return nil, true, fmt.Errorf("frontmatter is not valid YAML: %w", err)
	}
	return fields, true, nil
}
