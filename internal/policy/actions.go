package policy

import "github.com/fracturelabs/antifragile/go-engine/internal/pathway"

// #region action-space

// InterventionActions is the servable action space, in index order.
// ActionNone sits at the final index of every value vector but is never
// returned from exploration.
var InterventionActions = []Action{
	ActionReduceComplexity,
	ActionIncreaseSpacing,
	ActionDimPeriphery,
	ActionHighlightFocus,
	ActionDelayNotifications,
	ActionSimplifyNavigation,
	ActionIncreaseContrast,
	ActionReduceAnimation,
	ActionGroupRelatedElements,
	ActionProvideContextHint,
	ActionAdjustColorTemperature,
	ActionModifyLayoutDensity,
}

// allActions is the full indexable set backing each Q-table row.
var allActions = append(append([]Action{}, InterventionActions...), ActionNone)

// actionIndex maps an action to its row offset. Unknown actions are
// absent, which TD updates treat as a silent no-op.
var actionIndex = func() map[Action]int {
	m := make(map[Action]int, len(allActions))
	for i, a := range allActions {
		m[a] = i
	}
	return m
}()

// #endregion action-space

// #region opportunity-mapping

// opportunityAction maps every intervention opportunity type to the
// action trained as its hypothetical counterfactual. The mapping must
// stay exhaustive over pathway's opportunity types; a test enforces it.
var opportunityAction = map[pathway.OpportunityType]Action{
	pathway.OpportunityFISpike:         ActionReduceComplexity,
	pathway.OpportunityStressThreshold: ActionDelayNotifications,
	pathway.OpportunityComplexityJump:  ActionSimplifyNavigation,
}

// potentialReward fixes the reward tier per intervention potential.
var potentialReward = map[pathway.Potential]float64{
	pathway.PotentialHigh:   0.8,
	pathway.PotentialMedium: 0.5,
	pathway.PotentialLow:    0.2,
}

// #endregion opportunity-mapping
