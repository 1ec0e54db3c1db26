package frontmatter

import (
	"bytes"
	"encoding/json"
)

// SerializeJSON serializes a front-matter map into an indented JSON block
// (without delimiters). Key order is stable: encoding/json sorts map keys.
//
// If fields is empty, SerializeJSON returns an empty slice.
func SerializeJSON(fields map[string]any, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, err
	}
	out = append(out, '\n')
	if nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}

// Join reassembles a document from raw front matter and body.
//
// If had is false, Join returns body as-is. If had is true, Join emits the
// front matter between `+++` fences using the newline style in Style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	fence := []byte(Delimiter + nl)

	out := make([]byte, 0, 2*len(fence)+len(frontmatter)+len(body))
	out = append(out, fence...)
	out = append(out, frontmatter...)
	out = append(out, fence...)
	out = append(out, body...)
	return out
}
