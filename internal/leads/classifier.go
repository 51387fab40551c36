package leads

import "strings"

// TierRule pairs a predicate with the tier it grants.
type TierRule struct {
	Tier  Tier
	Match func(Lead) bool
}

// DefaultTierRules is the ladder evaluated top-down; the first match wins.
// Adding or reordering tiers is a change to this slice only.
var DefaultTierRules = []TierRule{
	{Tier: TierPriority, Match: func(l Lead) bool {
		return hasName(l) && has(l.Phone) && has(l.Email) && has(l.DetailedCondition) &&
			(l.Pregnant != nil || dateSet(l.BirthDate))
	}},
	{Tier: TierQualified, Match: func(l Lead) bool {
		return hasName(l) && has(l.Phone) && has(l.Email) && has(l.Condition)
	}},
	{Tier: TierContact, Match: func(l Lead) bool {
		return has(l.Phone) && has(l.Email)
	}},
}

// ClassifyTier evaluates DefaultTierRules. Anything less than tier 2 data is tier 1.
func ClassifyTier(l Lead) Tier {
	return ClassifyTierWith(DefaultTierRules, l)
}

// ClassifyTierWith evaluates rules in order and falls back to tier 1.
func ClassifyTierWith(rules []TierRule, l Lead) Tier {
	for _, r := range rules {
		if r.Match != nil && r.Match(l) {
			return r.Tier
		}
	}
	return TierSocialOnly
}

// DeriveTemperature grades engagement intensity. It is a triage aid only and
// never gates task creation.
func DeriveTemperature(l Lead) Temperature {
	switch {
	case l.SMSReplied || l.EmailsClicked >= 2:
		return TemperatureHot
	case l.EmailsClicked >= 1 || l.EmailsOpened >= 2:
		return TemperatureWarm
	default:
		return TemperatureCold
	}
}

func hasName(l Lead) bool { return has(l.FirstName) && has(l.LastName) }

func has(s string) bool { return strings.TrimSpace(s) != "" }
