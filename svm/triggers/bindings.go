package triggers

import "github.com/strataplatform/strata-go/model/strata"

// bindingsV0 is the genesis trigger binding set. New platform versions add
// new binding sets; released sets are never edited.
func bindingsV0() ([]Binding, error) {
	return []Binding{
		{
			Key: Key{
				ContractID:   RewardSharesContractID,
				DocumentType: "rewardShare",
				Action:       strata.DocumentTransitionCreate,
			},
			TopLevelIdentity: RewardSharesSystemIdentity,
			Trigger:          TriggerFunc(executeRewardShareCreate),
		},
		{
			Key: Key{
				ContractID:   DomainsContractID,
				DocumentType: "domain",
				Action:       strata.DocumentTransitionCreate,
			},
			Trigger: TriggerFunc(executeDomainCreate),
		},
		{
			Key: Key{
				ContractID:   DomainsContractID,
				DocumentType: "domain",
				Action:       strata.DocumentTransitionReplace,
			},
			Trigger: TriggerFunc(rejectDomainModification),
		},
		{
			Key: Key{
				ContractID:   DomainsContractID,
				DocumentType: "domain",
				Action:       strata.DocumentTransitionDelete,
			},
			Trigger: TriggerFunc(rejectDomainModification),
		},
	}, nil
}
