package triggers

import "github.com/strataplatform/strata-go/model/strata"

// Well-known system contract and identity ids. These are network constants
// agreed at genesis.
var (
	RewardSharesContractID     strata.Identifier
	RewardSharesSystemIdentity strata.Identifier
	DomainsContractID          strata.Identifier
	DomainsSystemIdentity      strata.Identifier
)

func init() {
	RewardSharesContractID = mustID("0cace205246693a7c8d9171b5e1d509d57f33ecba5588ea5ffcc730d4c5d5f03")
	RewardSharesSystemIdentity = mustID("19040b6189ba9b5a0a94c2b210bbc7f98ba0a4a1bafdbb17998f4f1ce314bf53")
	DomainsContractID = mustID("566f1e6ea1f0e316c8e5b7bdca281b4b2fab74e4b829b0a365b2bdf7b46d9702")
	DomainsSystemIdentity = mustID("3012c2ed68f90eb2e2430e0dabb0b275d87154b7e45fbcaba7d49c63e38060f0")
}

func mustID(hex string) strata.Identifier {
	id, err := strata.HexStringToIdentifier(hex)
	if err != nil {
		panic(err)
	}
	return id
}
