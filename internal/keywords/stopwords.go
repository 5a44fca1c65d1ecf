package keywords

import (
	"fmt"
	"strings"
)

// StopSet is a lowercase stopword membership set.
type StopSet map[string]struct{}

// Has reports whether w (lowercased) is a stopword.
func (s StopSet) Has(w string) bool {
	_, ok := s[strings.ToLower(w)]
	return ok
}

// StopWords returns the built-in stop set for a language code ("fr", "en").
func StopWords(lang string) (StopSet, error) {
	switch strings.ToLower(lang) {
	case "fr":
		return frenchStopWords, nil
	case "en":
		return englishStopWords, nil
	default:
		return nil, fmt.Errorf("no stopword list for language %q", lang)
	}
}

func makeSet(words []string) StopSet {
	s := make(StopSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

var frenchStopWords = makeSet([]string{
	"a", "à", "â", "afin", "ai", "aie", "aient", "aies", "ainsi", "ait",
	"alors", "après", "as", "assez", "au", "aucun", "aucune", "aujourd",
	"auquel", "aura", "aurai", "auraient", "aurais", "aurait", "auras",
	"aurez", "auriez", "aurions", "aurons", "auront", "aussi", "autre",
	"autres", "aux", "auxquelles", "auxquels", "avaient", "avais", "avait",
	"avant", "avec", "avez", "aviez", "avions", "avoir", "avons", "ayant",
	"ayez", "ayons", "beaucoup", "bien", "c", "ça", "car", "ce", "ceci",
	"cela", "celle", "celles", "celui", "cependant", "certain", "certaine",
	"certaines", "certains", "ces", "cet", "cette", "ceux", "chacun",
	"chaque", "chez", "ci", "comme", "comment", "d", "dans", "de", "dedans",
	"dehors", "déjà", "depuis", "des", "désormais", "deux", "devant",
	"doit", "donc", "dont", "du", "duquel", "durant", "dès", "effet",
	"elle", "elles", "en", "encore", "enfin", "entre", "envers", "es",
	"est", "et", "étaient", "étais", "était", "étant", "été", "êtes",
	"étiez", "étions", "être", "eu", "eue", "eues", "eurent", "eus",
	"eusse", "eussent", "eusses", "eussiez", "eussions", "eut", "eux",
	"faire", "fais", "faisaient", "faisait", "faisant", "fait", "faites",
	"faut", "fois", "font", "furent", "fus", "fusse", "fussent", "fusses",
	"fussiez", "fussions", "fut", "hors", "ici", "il", "ils", "j", "je",
	"jusqu", "jusque", "l", "la", "laquelle", "le", "lequel", "les",
	"lesquelles", "lesquels", "leur", "leurs", "lors", "lorsque", "lui",
	"là", "m", "ma", "mais", "malgré", "me", "même", "mêmes", "mes",
	"mien", "mienne", "miennes", "miens", "moi", "moins", "mon", "n",
	"ne", "ni", "non", "nos", "notamment", "notre", "nous", "nôtre",
	"nôtres", "on", "ont", "or", "ou", "où", "par", "parce", "parmi",
	"pas", "pendant", "peu", "peut", "peuvent", "plus", "plusieurs",
	"plutôt", "pour", "pourquoi", "près", "puis", "puisque", "qu",
	"quand", "que", "quel", "quelle", "quelles", "quelque", "quelques",
	"quels", "qui", "quoi", "s", "sa", "sans", "se", "selon", "sera",
	"serai", "seraient", "serais", "serait", "seras", "serez", "seriez",
	"serions", "serons", "seront", "ses", "si", "sien", "sienne",
	"siennes", "siens", "soi", "soient", "sois", "soit", "sommes", "son",
	"sont", "sous", "soyez", "soyons", "suis", "sur", "t", "ta", "tandis",
	"te", "tel", "telle", "telles", "tels", "tes", "tien", "tienne",
	"tiennes", "tiens", "toi", "ton", "toujours", "tous", "tout", "toute",
	"toutes", "très", "tu", "un", "une", "vers", "via", "voici", "voilà",
	"vos", "votre", "vôtre", "vôtres", "vous", "y", "étant",
})

var englishStopWords = makeSet([]string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"cannot", "could", "couldn", "did", "didn", "do", "does", "doesn",
	"doing", "don", "down", "during", "each", "few", "for", "from",
	"further", "had", "hadn", "has", "hasn", "have", "haven", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his",
	"how", "i", "if", "in", "into", "is", "isn", "it", "its", "itself",
	"just", "me", "more", "most", "mustn", "my", "myself", "no", "nor",
	"not", "now", "of", "off", "on", "once", "only", "or", "other",
	"ought", "our", "ours", "ourselves", "out", "over", "own", "same",
	"shan", "she", "should", "shouldn", "so", "some", "such", "than",
	"that", "the", "their", "theirs", "them", "themselves", "then",
	"there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "very", "was", "wasn", "we", "were", "weren",
	"what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "won", "would", "wouldn", "you", "your", "yours",
	"yourself", "yourselves",
})
