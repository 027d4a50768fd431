package brackets

import "github.com/Dosada05/fight-events/models"

// FlattenBouts lists every bout of every bracket, in bracket order, with the
// owning bracket's context attached.
func FlattenBouts(brackets []models.Bracket) []models.FightCardBout {
	total := 0
	for _, b := range brackets {
		total += len(b.Bouts)
	}

	card := make([]models.FightCardBout, 0, total)
	for _, b := range brackets {
		info := models.BracketInfo{
			BracketNumber: b.BracketNumber,
			Title:         b.Title,
			AgeClass:      b.AgeClass,
			Sport:         b.Sport,
			RuleStyle:     b.RuleStyle,
			Ring:          b.Ring,
		}
		for _, bout := range b.Bouts {
			card = append(card, models.FightCardBout{Bout: bout, BracketInfo: info})
		}
	}
	return card
}

// MembersOf collects the members of all brackets, stamping each with its
// bracket's number when the member does not carry one.
func MembersOf(brackets []models.Bracket) []models.BracketMember {
	members := make([]models.BracketMember, 0)
	for _, b := range brackets {
		for _, m := range b.Members {
			if m.Bracket == nil && b.BracketNumber > 0 {
				n := b.BracketNumber
				m.Bracket = &n
			}
			members = append(members, m)
		}
	}
	return members
}

// TitlesOf maps bracket numbers to division titles.
func TitlesOf(brackets []models.Bracket) map[int]string {
	titles := make(map[int]string, len(brackets))
	for _, b := range brackets {
		titles[b.BracketNumber] = b.Title
	}
	return titles
}

// FilterByAgeClass keeps brackets of the given age class. An empty ageClass keeps all.
func FilterByAgeClass(brackets []models.Bracket, ageClass string) []models.Bracket {
	if ageClass == "" {
		return brackets
	}
	filtered := make([]models.Bracket, 0, len(brackets))
	for _, b := range brackets {
		if b.AgeClass == ageClass {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// AssignPositions gives every member without a position the lowest slot not
// already taken in its bracket. Explicit positions are left as they are.
func AssignPositions(members []models.BracketMember) {
	taken := make(map[int]bool, len(members))
	for _, m := range members {
		if m.Position > 0 {
			taken[m.Position] = true
		}
	}
	next := 1
	for i := range members {
		if members[i].Position != 0 {
			continue
		}
		for taken[next] {
			next++
		}
		members[i].Position = next
		taken[next] = true
	}
}
