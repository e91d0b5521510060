package event

import (
	"fmt"
	"strings"

	"github.com/agenthands/textgraph/internal/core/model"
)

// Name builds a readable event title from its participants, degrading gracefully when there
// are too few for the type's usual template.
func Name(t model.EventType, participants []string) string {
	if len(participants) == 0 {
		switch t {
		case model.EventConference:
			return "Conference event"
		case model.EventFundingRound:
			return "Funding round"
		}
		return "Event"
	}

	switch t {
	case model.EventAcquisition:
		if len(participants) >= 2 {
			return fmt.Sprintf("%s acquires %s", participants[0], participants[1])
		}
		return participants[0] + " acquisition"

	case model.EventProductLaunch:
		var orgs, products []string
		for _, p := range participants {
			if looksLikeOrg(p) {
				orgs = append(orgs, p)
			} else {
				products = append(products, p)
			}
		}
		switch {
		case len(orgs) > 0 && len(products) > 0:
			return fmt.Sprintf("%s launches %s", orgs[0], products[0])
		case len(products) > 0:
			return products[0] + " launch"
		}
		return participants[0] + " product launch"

	case model.EventLeadershipChange:
		if len(participants) >= 2 {
			return fmt.Sprintf("%s joins %s", participants[0], participants[1])
		}
		return participants[0] + " leadership change"

	case model.EventConference:
		return participants[0]

	case model.EventFundingRound:
		return participants[0] + " funding round"
	}

	if len(participants) > 2 {
		participants = participants[:2]
	}
	return strings.Join(participants, " - ")
}

// looksLikeOrg is a rough split of launch participants: one-word names and names containing
// Inc or Corp count as organizations.
func looksLikeOrg(name string) bool {
	return strings.Contains(name, "Inc") || strings.Contains(name, "Corp") || len(strings.Fields(name)) == 1
}
