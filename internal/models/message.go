package models

// Message represents a single transcript entry. It contains the display text of either the
// operator's question or the answer service's reply, alongside the annotations extracted from a
// raw answer. A Message is created once by the session controller and never mutated afterwards.
type Message struct {
	ID        string
	Text      string
	Timestamp string
	IsUser    bool

	// Citations is deduplicated by Ref before the message is built; display order is
	// first-seen order.
	Citations []Citation
	// FollowupQuestions keeps the order returned by the annotation parser, which doubles as
	// suggestion priority.
	FollowupQuestions []string
	// FollowingSteps keeps the order returned by the annotation parser, which is the order the
	// answer service executed them in.
	FollowingSteps []string
}

// Citation is a human-visible source label plus its target reference. Two citations are the
// same citation when their Ref values match, regardless of object identity.
type Citation struct {
	Ref  string
	Text string
}

// DedupCitations returns the citations with duplicate Refs removed, keeping the first
// occurrence of each Ref so display order stays stable.
func DedupCitations(citations []Citation) []Citation {
	if len(citations) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(citations))
	out := make([]Citation, 0, len(citations))
	for _, c := range citations {
		if _, ok := seen[c.Ref]; ok {
			continue
		}
		seen[c.Ref] = struct{}{}
		out = append(out, c)
	}
	return out
}
