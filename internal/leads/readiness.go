package leads

// Readiness thresholds per tier.
const (
	qualifiedMinOpens  = 2
	qualifiedMinClicks = 1
	contactMinOpens    = 3
	contactMinClicks   = 1
)

// IsReady reports whether the lead should trigger task creation now.
//
// Rules (by tier):
//  4) stage engaged or action_ready
//  3) opens >= 2 AND clicks >= 1
//  2) opens >= 3 OR clicks >= 1
//  1) stage action_ready only (set by the CRM after unanswered outreach)
//
// Unknown tiers are never ready. The gate holds no state.
func IsReady(l Lead) bool {
	switch l.Tier {
	case TierPriority:
		return l.Stage == StageEngaged || l.Stage == StageActionReady
	case TierQualified:
		return l.EmailsOpened >= qualifiedMinOpens && l.EmailsClicked >= qualifiedMinClicks
	case TierContact:
		return l.EmailsOpened >= contactMinOpens || l.EmailsClicked >= contactMinClicks
	case TierSocialOnly:
		return l.Stage == StageActionReady
	default:
		return false
	}
}
