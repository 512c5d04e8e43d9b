package triggers

import (
	"crypto/sha256"
	"strings"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/svm/action"
	"github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/validation"
)

// Domain documents form the platform's naming tree. Users register labels
// under an existing parent domain; creating a top-level domain is reserved
// for the domains system identity (enforced inside the trigger because the
// same document type serves both cases).

// executeDomainCreate validates a new domain document.
func executeDomainCreate(sub action.SubAction, ctx *Context) (*validation.Result[validation.Void], error) {
	result := validation.NewSimpleResult()

	create, ok := sub.(*action.DocumentCreateAction)
	if !ok {
		return result, nil
	}
	doc := create.Document

	label, ok := doc.Data["label"].(string)
	if !ok {
		result.AddError(errors.NewInvalidFieldTypeError("label", "string"))
		return result, nil
	}
	normalized, ok := doc.Data["normalizedLabel"].(string)
	if !ok {
		result.AddError(errors.NewInvalidFieldTypeError("normalizedLabel", "string"))
		return result, nil
	}
	if strings.ToLower(label) != normalized {
		result.AddError(errors.NewDataTriggerConditionError(
			doc.ContractID, doc.ID, "normalizedLabel is not the lowercase of label"))
	}

	parentName, ok := doc.Data["parentDomainName"].(string)
	if !ok {
		result.AddError(errors.NewInvalidFieldTypeError("parentDomainName", "string"))
		return result, nil
	}

	if parentName == "" {
		if ctx.OwnerID != DomainsSystemIdentity {
			result.AddError(errors.NewDataTriggerAuthorizationError(doc.ContractID, doc.ID, ctx.OwnerID))
		}
		return result, nil
	}

	if ctx.DryRun {
		return result, nil
	}

	parent, _, err := ctx.View.FetchDocument(doc.ContractID, doc.Type, DomainDocumentID(parentName))
	if err != nil {
		return nil, err
	}
	if parent == nil {
		result.AddError(errors.NewDataTriggerConditionError(
			doc.ContractID, doc.ID, "parent domain does not exist"))
	}

	return result, nil
}

// rejectDomainModification fails any replace or delete of a domain document.
// Registered names are permanent.
func rejectDomainModification(sub action.SubAction, _ *Context) (*validation.Result[validation.Void], error) {
	result := validation.NewSimpleResult()

	switch a := sub.(type) {
	case *action.DocumentReplaceAction:
		result.AddError(errors.NewDataTriggerConditionError(
			a.Document.ContractID, a.Document.ID, "domain documents cannot be modified"))
	case *action.DocumentDeleteAction:
		result.AddError(errors.NewDataTriggerConditionError(
			a.Document.ContractID, a.Document.ID, "domain documents cannot be deleted"))
	}
	return result, nil
}

// DomainDocumentID derives the deterministic document id of a domain from
// its full normalized name.
func DomainDocumentID(normalizedName string) strata.Identifier {
	sum := sha256.Sum256([]byte(normalizedName))
	return strata.Identifier(sum)
}

func identifierFromValue(bz []byte) (strata.Identifier, error) {
	return strata.IdentifierFromBytes(bz)
}
