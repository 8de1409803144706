// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nathoo/crawlcore/types"
)

// Verbs is the set of canonical verbs the engine understands.
var Verbs = []string{
	"ambush",
	"ascend",
	"attack",
	"buy",
	"descend",
	"drink",
	"equip",
	"inventory",
	"look",
	"sell",
	"shop",
	"status",
	"wait",
}

// SuggestDistance is the maximum edit distance for a verb suggestion.
const SuggestDistance = 2

var verbAliases = map[string]string{
	// Look
	"l":       "look",
	"examine": "look",
	"x":       "look",

	// Stairs
	">":    "descend",
	"down": "descend",
	"d":    "descend",
	"<":    "ascend",
	"up":   "ascend",
	"u":    "ascend",

	// Attack
	"a":      "attack",
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"kill":   "attack",

	// Shops
	"purchase": "buy",
	"trade":    "shop",
	"market":   "shop",
	"browse":   "shop",

	// Items
	"quaff":   "drink",
	"sip":     "drink",
	"use":     "drink",
	"wield":   "equip",
	"wear":    "equip",
	"don":     "equip",
	"inv":     "inventory",
	"i":       "inventory",

	// Misc
	"z":     "wait",
	"rest":  "wait",
	"stats": "status",
	"st":    "status",
	"lure":  "ambush",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "from": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// Known reports whether verb is a canonical verb.
func Known(verb string) bool {
	_, ok := slices.BinarySearch(Verbs, verb)
	return ok
}

// Suggest returns the closest known verb within SuggestDistance edits of
// an unknown verb. Ties go to the alphabetically first verb.
func Suggest(verb string) (string, bool) {
	if verb == "" || Known(verb) {
		return "", false
	}
	best, bestDist := "", SuggestDistance+1
	for _, cand := range Verbs {
		dist := levenshtein.ComputeDistance(verb, cand)
		if dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best, best != ""
}

// expandMultiWordVerbs handles "go down", "look at", "pick a fight" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "go", "take", "climb":
		switch words[1] {
		case "down", "downstairs":
			return append([]string{"descend"}, words[2:]...)
		case "up", "upstairs":
			return append([]string{"ascend"}, words[2:]...)
		}
	case "look":
		if words[1] == "at" || words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	case "visit":
		return append([]string{"shop"}, words[1:]...)
	case "put":
		if words[1] == "on" {
			return append([]string{"equip"}, words[2:]...)
		}
	case "set":
		if words[1] == "ambush" || words[1] == "trap" {
			return append([]string{"ambush"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
