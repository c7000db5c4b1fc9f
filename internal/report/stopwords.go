package report

// stopWords are dropped from the top-word counts. Reviews are lowercased
// by the text normalizer before they get here.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "all": true, "any": true, "can": true, "had": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true, "him": true,
	"his": true, "how": true, "its": true, "who": true, "did": true, "she": true,
	"they": true, "them": true, "their": true, "there": true, "this": true,
	"that": true, "with": true, "have": true, "from": true, "were": true,
	"been": true, "what": true, "when": true, "which": true, "would": true,
	"could": true, "should": true, "about": true, "into": true, "than": true,
	"then": true, "just": true, "also": true, "very": true, "some": true,
	"more": true, "much": true, "will": true, "your": true, "because": true,
	"being": true, "does": true, "only": true, "even": true, "like": true,
	"movie": true, "film": true, "is": true, "it": true, "i": true, "am": true,
	"do": true, "so": true, "me": true, "my": true, "of": true, "to": true,
}
