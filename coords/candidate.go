package coords

// candidate is a pattern match that has not been decoded or checked
// against other matches yet.
type candidate struct {
	kind   Kind
	span   span
	text   string   // matched substring of the normalized text
	groups []string // captured values, matcher specific
}

// matcher finds and decodes one notation.
type matcher interface {
	kind() Kind
	find(text string, runeAt []int) []candidate
	decode(c candidate) (lat, lon float64, canonical string, err error)
}

// matchers in priority order.
var matchers = []matcher{
	mgrsMatcher{},
	decimalMatcher{},
	sk42Matcher{},
}

// runeOffsets maps every byte offset of text that starts a rune, plus
// len(text), to its rune index.
func runeOffsets(text string) []int {
	idx := make([]int, len(text)+1)
	n := 0
	for i := range text {
		idx[i] = n
		n++
	}
	idx[len(text)] = n
	return idx
}

func newCandidate(kind Kind, text string, runeAt []int, byteStart, byteEnd int) candidate {
	start := runeAt[byteStart]
	return candidate{
		kind: kind,
		span: span{start: start, length: runeAt[byteEnd] - start},
		text: text[byteStart:byteEnd],
	}
}
