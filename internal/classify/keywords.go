package classify

// Fixed vocabularies the scoring heuristics run on. These are matched as
// case-insensitive substrings against lowercased text; changing an entry
// changes scores, so treat the lists as part of the scoring contract.

var leftBiasTerms = []string{
	"progressive",
	"liberal",
	"democrat",
	"socialism",
	"green new deal",
	"universal healthcare",
}

var rightBiasTerms = []string{
	"conservative",
	"republican",
	"trump",
	"tax cuts",
	"border wall",
	"deregulation",
}

// Absolutist language, repeated punctuation and alert words. Hits are
// counted by presence, once per indicator.
var propagandaIndicators = []string{
	"must",
	"always",
	"never",
	"every",
	"all",
	"none",
	"everyone",
	"nobody",
	"undoubtedly",
	"certainly",
	"absolutely",
	"obviously",
	"clearly",
	"definitely",
	"!!",
	"??",
	"breaking",
	"exclusive",
}

// TopicUncategorized is assigned when no topic keyword matches. An article
// always carries at least one topic.
const TopicUncategorized = "uncategorized"

type topicEntry struct {
	label    string
	keywords []string
}

// topicTable is ordered; detected topics come out in this order so the
// same text always yields the same topic list.
var topicTable = []topicEntry{
	{"politics", []string{"politics", "government", "election", "president", "congress", "senate", "democracy"}},
	{"business", []string{"business", "economy", "market", "stock", "finance", "company", "industry"}},
	{"technology", []string{"technology", "tech", "ai", "software", "hardware", "internet", "app", "digital"}},
	{"science", []string{"science", "research", "study", "discovery", "scientist", "physics", "chemistry", "biology"}},
	{"health", []string{"health", "medical", "medicine", "disease", "doctor", "patient", "hospital", "wellness"}},
	{"sports", []string{"sports", "game", "team", "player", "tournament", "championship", "league", "score"}},
	{"entertainment", []string{"entertainment", "movie", "film", "music", "celebrity", "actor", "director", "tv", "television"}},
	{"world", []string{"world", "international", "global", "foreign", "country", "nation", "diplomatic", "crisis"}},
}
