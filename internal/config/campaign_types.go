package config

// Step names used by the upload workflow. The order within a campaign
// type's step list is the wizard order.
const (
	StepDesign      = "design"
	StepQRPosition  = "qr_position"
	StepVideo       = "video"
	StepDocuments   = "documents"
	StepSocialLinks = "social_links"
	StepFinalize    = "finalize"
)

// StepPolicy describes one wizard step for a campaign type.
type StepPolicy struct {
	Name string

	// Required steps block finalization until their completion predicate
	// holds. Optional steps only need to have been visited; they may be
	// skipped with no data.
	Required bool

	// RedoOnUpgrade forces the step to be redone when the workflow runs
	// in upgrade mode, even if historical data already satisfies it.
	// Kept as a per-step flag rather than step indices so the rule
	// survives changes to step count or order.
	RedoOnUpgrade bool
}

// campaignSteps maps campaign type to its ordered wizard steps. Cardinality
// varies by type: the links hub has no video or document steps.
var campaignSteps = map[string][]StepPolicy{
	"redirect": {
		{Name: StepDesign, Required: true, RedoOnUpgrade: true},
		{Name: StepQRPosition, Required: true, RedoOnUpgrade: true},
		{Name: StepSocialLinks, Required: false},
		{Name: StepFinalize, Required: true},
	},
	"links": {
		{Name: StepDesign, Required: true, RedoOnUpgrade: true},
		{Name: StepQRPosition, Required: true, RedoOnUpgrade: true},
		{Name: StepSocialLinks, Required: true},
		{Name: StepFinalize, Required: true},
	},
	"video": {
		{Name: StepDesign, Required: true, RedoOnUpgrade: true},
		{Name: StepQRPosition, Required: true, RedoOnUpgrade: true},
		{Name: StepVideo, Required: true},
		{Name: StepSocialLinks, Required: false},
		{Name: StepFinalize, Required: true},
	},
	"document": {
		{Name: StepDesign, Required: true, RedoOnUpgrade: true},
		{Name: StepQRPosition, Required: true, RedoOnUpgrade: true},
		{Name: StepVideo, Required: true},
		{Name: StepDocuments, Required: false},
		{Name: StepSocialLinks, Required: false},
		{Name: StepFinalize, Required: true},
	},
	"ar": {
		{Name: StepDesign, Required: true, RedoOnUpgrade: true},
		{Name: StepQRPosition, Required: true, RedoOnUpgrade: true},
		{Name: StepVideo, Required: true},
		{Name: StepDocuments, Required: false},
		{Name: StepSocialLinks, Required: false},
		{Name: StepFinalize, Required: true},
	},
}

// StepsForCampaignType returns the ordered step policies for a campaign
// type, or nil for an unknown type.
func StepsForCampaignType(campaignType string) []StepPolicy {
	steps, ok := campaignSteps[campaignType]
	if !ok {
		return nil
	}
	out := make([]StepPolicy, len(steps))
	copy(out, steps)
	return out
}

// KnownCampaignType reports whether the type has a step table.
func KnownCampaignType(campaignType string) bool {
	_, ok := campaignSteps[campaignType]
	return ok
}
