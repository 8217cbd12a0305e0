package tablescout

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Statement is a SQL statement found in a file.
type Statement struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

var newlines = regexp.MustCompile(`\r\n|\r|\n`)

// convertLineEnding converts all newline variations in content to the target style.
func convertLineEnding(content, lineEnding string) (string, error) {
	var target string
	switch lineEnding {
	case "LF":
		target = "\n"
	case "CR":
		target = "\r"
	case "CRLF":
		target = "\r\n"
	default:
		return "", fmt.Errorf("newline must be one of: LF, CR, CRLF")
	}
	return newlines.ReplaceAllString(content, target), nil
}

// GrepSQLFiles searches the *.sql files directly inside dir for needle.
// Each line containing needle starts a statement that runs through the
// next line containing a semicolon. Files are read in name order.
func GrepSQLFiles(dir, needle string) ([]Statement, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []Statement
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		found, err := grepStatements(file, string(data), needle)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func grepStatements(file, content, needle string) ([]Statement, error) {
	content, err := convertLineEnding(content, "LF")
	if err != nil {
		return nil, err
	}

	var (
		out   []Statement
		cur   *Statement
		lines []string
	)
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, needle) && cur == nil {
			cur = &Statement{File: file, Line: i + 1}
			lines = lines[:0]
		}
		if cur == nil {
			continue
		}
		lines = append(lines, line)
		if strings.Contains(line, ";") {
			cur.Text = strings.Join(lines, "\n")
			out = append(out, *cur)
			cur = nil
		}
	}
	if cur != nil {
		cur.Text = strings.Join(lines, "\n")
		out = append(out, *cur)
	}
	return out, nil
}
