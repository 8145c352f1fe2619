// Package annotate extracts citation, reasoning-step, and follow-up-question markers from the
// raw text returned by the answer service, leaving clean display prose behind.
package annotate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oselz/docqa-web-ui/internal/models"
)

// Result is the outcome of parsing one raw answer. Citations appear once per marker occurrence
// in document order and may contain duplicates; deduplication is the caller's concern.
type Result struct {
	DisplayText       string
	Citations         []models.Citation
	FollowingSteps    []string
	FollowupQuestions []string
}

// Parser turns raw answer text into a Result. The zero value is ready to use.
type Parser struct{}

var (
	followupRe = regexp.MustCompile(`<<([^<>]+)>>`)
	citationRe = regexp.MustCompile(`\[([^\[\]]+)\]`)
	stepLineRe = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)
)

// Parse extracts the three annotation kinds from raw.
//
// Follow-up questions are <<question>> markers, removed from the display text in order of
// appearance. Citations are [label] markers; each distinct label is assigned a stable 1-based
// reference in first-seen order and the marker is rewritten to that reference. Following steps
// are the numbered lines of a trailing block introduced by a line ending in "Steps:"; the whole
// block is removed from the display text.
func (Parser) Parse(raw string) Result {
	res := Result{}

	text, steps := splitSteps(raw)
	res.FollowingSteps = steps

	for _, m := range followupRe.FindAllStringSubmatch(text, -1) {
		if q := strings.TrimSpace(m[1]); q != "" {
			res.FollowupQuestions = append(res.FollowupQuestions, q)
		}
	}
	text = followupRe.ReplaceAllString(text, "")

	refs := make(map[string]int)
	text = citationRe.ReplaceAllStringFunc(text, func(marker string) string {
		label := strings.TrimSpace(marker[1 : len(marker)-1])
		if label == "" {
			return ""
		}

		ref, ok := refs[label]
		if !ok {
			ref = len(refs) + 1
			refs[label] = ref
		}
		res.Citations = append(res.Citations, models.Citation{
			Ref:  strconv.Itoa(ref),
			Text: label,
		})
		return "[" + strconv.Itoa(ref) + "]"
	})

	res.DisplayText = strings.TrimSpace(text)
	return res
}

// splitSteps cuts the trailing steps block off raw, returning the remaining text and the steps
// in listed order. A steps block starts at the last line ending in "Steps:" and consists of the
// numbered lines after it; raw is returned unchanged when no such block exists.
func splitSteps(raw string) (string, []string) {
	lines := strings.Split(raw, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasSuffix(strings.TrimSpace(line), "Steps:") {
			start = i
		}
	}
	if start == -1 {
		return raw, nil
	}

	var steps []string
	for _, line := range lines[start+1:] {
		m := stepLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		steps = append(steps, strings.TrimSpace(m[1]))
	}
	if len(steps) == 0 {
		return raw, nil
	}

	return strings.Join(lines[:start], "\n"), steps
}
