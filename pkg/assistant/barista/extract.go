package barista

import "strings"

// Fixed vocabularies for transcript extraction. Matching is literal
// case-insensitive substring containment; first match wins per category,
// except extras, which accumulate.
var (
	knownDrinks = []string{"latte", "cappuccino", "americano", "mocha", "espresso", "flat white"}
	knownSizes  = []string{"small", "medium", "large", "regular"}
	knownMilks  = []string{"oat milk", "regular", "whole", "skim", "soy", "almond", "oat"}
	knownExtras = []string{"whipped cream", "caramel", "chocolate", "hazelnut", "vanilla", "extra shot"}

	nameMarkers = []string{"my name is", "this is", "it's", "its"}
)

// maxNameWords bounds how much of the utterance after a name marker is taken
// as the customer name.
const maxNameWords = 6

// ExtractPatch scans one user transcript for order details using the fixed
// vocabularies. It is a best-effort heuristic, not language understanding;
// the behavior is deterministic so it can be tested exactly.
func ExtractPatch(transcript string) Patch {
	lt := strings.ToLower(transcript)
	var p Patch

	for _, d := range knownDrinks {
		if strings.Contains(lt, d) {
			p.DrinkType = d
			break
		}
	}
	for _, s := range knownSizes {
		if strings.Contains(lt, s) {
			p.Size = s
			break
		}
	}
	for _, m := range knownMilks {
		if strings.Contains(lt, m) {
			p.Milk = NormalizeMilk(m)
			break
		}
	}
	for _, ex := range knownExtras {
		if strings.Contains(lt, ex) {
			p.Extras = append(p.Extras, ex)
		}
	}

	for _, marker := range nameMarkers {
		idx := strings.Index(lt, marker)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(lt[idx+len(marker):])
		if len(rest) == 0 {
			continue
		}
		if len(rest) > maxNameWords {
			rest = rest[:maxNameWords]
		}
		p.Name = strings.Join(rest, " ")
		break
	}

	return p
}
