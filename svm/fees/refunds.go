// Package fees converts low-level storage operations into processing fees,
// storage fees and per-epoch refund ledgers.
package fees

import (
	"golang.org/x/exp/slices"

	"github.com/strataplatform/strata-go/model/strata"
)

// CreditsPerEpoch maps an epoch index to refundable credits.
type CreditsPerEpoch map[strata.EpochIndex]strata.Credits

// FeeRefunds ledgers the credits owed back to identities for freed storage,
// tracked per (identity, epoch) because the effective storage price differs
// by epoch.
type FeeRefunds map[strata.Identifier]CreditsPerEpoch

// AddRefund credits an identity for a given epoch, failing on overflow.
func (fr FeeRefunds) AddRefund(identityID strata.Identifier, epoch strata.EpochIndex, amount strata.Credits) error {
	perEpoch, ok := fr[identityID]
	if !ok {
		perEpoch = CreditsPerEpoch{}
		fr[identityID] = perEpoch
	}
	sum, err := perEpoch[epoch].CheckedAdd(amount)
	if err != nil {
		return err
	}
	perEpoch[epoch] = sum
	return nil
}

// Merge folds the other ledger into this one. Merging is commutative and
// associative: same-key entries sum with overflow checking, disjoint entries
// union. On error the receiver may be partially updated and must be
// discarded.
func (fr FeeRefunds) Merge(other FeeRefunds) error {
	for identityID, perEpoch := range other {
		for epoch, amount := range perEpoch {
			err := fr.AddRefund(identityID, epoch, amount)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Clone deep-copies the ledger.
func (fr FeeRefunds) Clone() FeeRefunds {
	out := make(FeeRefunds, len(fr))
	for identityID, perEpoch := range fr {
		cp := make(CreditsPerEpoch, len(perEpoch))
		for epoch, amount := range perEpoch {
			cp[epoch] = amount
		}
		out[identityID] = cp
	}
	return out
}

// TotalFor sums an identity's refunds across epochs, failing on overflow.
func (fr FeeRefunds) TotalFor(identityID strata.Identifier) (strata.Credits, error) {
	var total strata.Credits
	perEpoch := fr[identityID]

	epochs := make([]strata.EpochIndex, 0, len(perEpoch))
	for epoch := range perEpoch {
		epochs = append(epochs, epoch)
	}
	slices.Sort(epochs)

	var err error
	for _, epoch := range epochs {
		total, err = total.CheckedAdd(perEpoch[epoch])
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Identities returns the refunded identities in deterministic order.
func (fr FeeRefunds) Identities() []strata.Identifier {
	ids := make([]strata.Identifier, 0, len(fr))
	for id := range fr {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b strata.Identifier) bool {
		return strata.CompareIdentifiers(a, b) < 0
	})
	return ids
}
