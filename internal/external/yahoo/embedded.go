package yahoo

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var errNoChartPayload = errors.New("yahoo: no esgChart payload in document")

// looksLikeHTML reports whether the body is an HTML document rather than raw JSON
func looksLikeHTML(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

// extractEmbeddedChart pulls the esgChart JSON object out of an HTML page.
// Yahoo sometimes answers the API path with a full quote page; the chart
// payload lives inside one of its script tags.
func extractEmbeddedChart(body []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var payload []byte
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		keyIdx := strings.Index(text, `"esgChart"`)
		if keyIdx == -1 {
			return true
		}

		value, ok := jsonValueAfterKey(text, keyIdx+len(`"esgChart"`))
		if !ok {
			return true
		}

		payload = []byte(`{"esgChart":` + value + `}`)
		return false
	})

	if payload == nil {
		return nil, errNoChartPayload
	}
	return payload, nil
}

// jsonValueAfterKey extracts the balanced JSON object following a key's colon.
// String contents are skipped so braces inside values don't break the balance.
func jsonValueAfterKey(text string, after int) (string, bool) {
	rest := text[after:]

	colon := strings.IndexByte(rest, ':')
	if colon == -1 {
		return "", false
	}

	start := -1
	for i := colon + 1; i < len(rest); i++ {
		c := rest[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c == '{' {
			start = i
		}
		break
	}
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(rest); i++ {
		c := rest[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[start : i+1], true
			}
		}
	}

	return "", false
}
