package triggers

import (
	"github.com/strataplatform/strata-go/svm/action"
	"github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/validation"
)

// Masternode reward shares: a share document routes a percentage of an
// operator's rewards to another identity.
const (
	maxRewardSharePercentage = 10000
)

// executeRewardShareCreate validates a new reward share document: the
// percentage must be within bounds and the receiving identity must exist.
func executeRewardShareCreate(sub action.SubAction, ctx *Context) (*validation.Result[validation.Void], error) {
	result := validation.NewSimpleResult()

	create, ok := sub.(*action.DocumentCreateAction)
	if !ok {
		return result, nil
	}
	doc := create.Document

	percentage, ok := doc.Data["percentage"].(int64)
	if !ok {
		result.AddError(errors.NewInvalidFieldTypeError("percentage", "integer"))
		return result, nil
	}
	if percentage < 1 || percentage > maxRewardSharePercentage {
		result.AddError(errors.NewValueOutOfRangeErrorf(
			"percentage", "%d is not within [1, %d]", percentage, maxRewardSharePercentage))
		return result, nil
	}

	payToIDBytes, ok := doc.Data["payToId"].([]byte)
	if !ok {
		result.AddError(errors.NewInvalidFieldTypeError("payToId", "identifier"))
		return result, nil
	}
	payToID, err := identifierFromValue(payToIDBytes)
	if err != nil {
		result.AddError(errors.NewInvalidFieldTypeError("payToId", "identifier"))
		return result, nil
	}

	if ctx.DryRun {
		return result, nil
	}

	identity, err := ctx.View.FetchIdentity(payToID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		result.AddError(errors.NewDataTriggerConditionError(
			doc.ContractID, doc.ID, "payToId identity does not exist"))
	}

	return result, nil
}
