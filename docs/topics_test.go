package docs

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// This test ensures that the documentation is in sync with the code.
	// It checks two things:
	// 1. Every topic listed in readme.md can be successfully loaded by the shd topic <topic_name> command.
	// 2. Every .md file in this directory (excluding readme.md itself) is present in the list of topics extracted from readme.md.

	// Read readme.md line by line and extract topics using regex.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)

	for scanner.Scan() {
		line := scanner.Text()
		matches := topicRegex.FindStringSubmatch(line)
		if len(matches) > 1 {
			topic := strings.TrimSpace(matches[1])
			topicsInReadme = append(topicsInReadme, topic)
		}
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	// Check 1: Every topic listed in readme.md can be successfully loaded.
	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			_, err := GetTopic(topic)
			if err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	// Check 2: Every .md file in this directory (excluding readme.md itself) is present in the list of topics extracted from readme.md.
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}

	var mdFiles []string
	for _, file := range files {
		base := filepath.Base(file)
		if base != "readme.md" {
			mdFiles = append(mdFiles, strings.TrimSuffix(base, ".md"))
		}
	}

	for _, mdFile := range mdFiles {
		found := false
		for _, topic := range topicsInReadme {
			if topic == mdFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", mdFile)
		}
	}
}

// TestDocuments lints every topic file plus the repository README: each
// document opens with a top-level title, and every `sh` block is a plain
// transcript of shd invocations, so the examples stay copy-pasteable.
func TestDocuments(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			lintDocument(t, file)
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Lang    string
	Content string
	File    string
	Line    int
}

func lintDocument(t *testing.T, file string) {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	mdParser := goldmark.DefaultParser()
	root := mdParser.Parse(text.NewReader(content))

	// Collect the sh blocks and the first heading.

	var blocks []*Block
	var firstHeading *ast.Heading

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if h, ok := n.(*ast.Heading); ok && firstHeading == nil {
			firstHeading = h
		}

		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			if fcb.Info == nil {
				return ast.WalkContinue, nil
			}
			lang := string(fcb.Info.Segment.Value(content))
			if lang != "sh" {
				return ast.WalkContinue, nil
			}

			var blockContent strings.Builder
			for i := 0; i < fcb.Lines().Len(); i++ {
				line := fcb.Lines().At(i)
				blockContent.WriteString(string(line.Value(content)))
			}

			// Get the line number of the block
			startOffset := fcb.Info.Segment.Start

			blocks = append(blocks, &Block{
				Lang:    lang,
				Content: blockContent.String(),
				File:    file,
				Line:    lineNumber(content, startOffset),
			})
		}
		return ast.WalkContinue, nil
	})

	if firstHeading == nil {
		t.Errorf("%s: no heading at all", file)
	} else if firstHeading.Level != 1 {
		t.Errorf("%s: first heading is level %d, want a top-level title", file, firstHeading.Level)
	}

	for _, b := range blocks {
		checkShellBlock(t, b)
	}
}

// checkShellBlock accepts blank lines, comments, continuations of a line
// ending in a backslash, and shd invocations. Anything else in an sh block
// is a doc bug: the examples must run against this very tool.
func checkShellBlock(t *testing.T, b *Block) {
	t.Helper()

	continued := false
	for i, line := range strings.Split(b.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		wasContinued := continued
		continued = strings.HasSuffix(trimmed, `\`) && !strings.HasPrefix(trimmed, "#")

		if trimmed == "" || strings.HasPrefix(trimmed, "#") || wasContinued {
			continue
		}
		if trimmed != "shd" && !strings.HasPrefix(trimmed, "shd ") {
			t.Errorf("%s:%d: not an shd invocation: %q", b.File, b.Line+i, trimmed)
		}
	}
}

// lineNumber computes the lineNumber for a given AST offset.
// the markdown parser we use does not support that feature so we
// have to implement it.
func lineNumber(source []byte, offset int) (lineNumber int) {
	newline := []byte{'\n'}
	// Create a slice of the source from the beginning to the node's offset.
	sourceToNode := source[:offset]

	// Count the number of newlines in that slice.
	lineCount := bytes.Count(sourceToNode, newline)

	// The line number is the number of newlines + 1.
	return lineCount + 1
}
