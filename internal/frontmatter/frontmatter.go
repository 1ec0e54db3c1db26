// Package frontmatter splits `+++` delimited JSON front matter from the
// body of a content file.
package frontmatter

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline shape and does not attempt to preserve
// original JSON formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Delimiter is the fixed front-matter fence line.
const Delimiter = "+++"

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates JSON front matter (`+++` delimited) from the body.
//
// If the document does not start with a front-matter delimiter line, had is
// false and body is the full input unchanged.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte(Delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	frontmatterStart := len(open)
	closeLine := []byte(Delimiter + nl)
	if bytes.HasPrefix(content[frontmatterStart:], closeLine) {
		bodyStart := frontmatterStart + len(closeLine)
		return []byte{}, content[bodyStart:], true, style, nil
	}

	closeSeq := []byte(nl + Delimiter + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// A fence at end-of-file without a trailing newline still closes.
		closeEOF := []byte(nl + Delimiter)
		if bytes.HasSuffix(content[frontmatterStart:], closeEOF) {
			end := len(content) - len(closeEOF)
			return content[frontmatterStart : end+len(nl)], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, style, nil
}

// ParseJSON parses raw front matter (without +++ delimiters) into a map.
func ParseJSON(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits a document and decodes its front matter in one step.
// Documents without front matter yield an empty map and the full input.
func Parse(content []byte) (map[string]any, []byte, error) {
	raw, body, had, _, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	if !had {
		return map[string]any{}, body, nil
	}
	fields, err := ParseJSON(raw)
	if err != nil {
		return nil, nil, err
	}
	return fields, body, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
