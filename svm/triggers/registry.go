// Package triggers implements the data trigger registry: named business
// rules attached to specific (contract, document type, action) keys and run
// during state validation of matching document operations.
package triggers

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/svm/action"
	"github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/validation"
)

// Context is what a trigger executes against.
//
// DryRun marks balance-estimation passes: triggers validate their cheap
// preconditions and return before touching state-dependent checks, so the
// estimate stays stateless.
type Context struct {
	View      *state.View
	BlockInfo strata.BlockInfo
	OwnerID   strata.Identifier
	DryRun    bool
}

// Key identifies the transitions a trigger fires on.
type Key struct {
	ContractID   strata.Identifier
	DocumentType string
	Action       strata.DocumentTransitionAction
}

// Trigger is one pluggable business rule. A failing trigger appends
// consensus errors to its result; it never aborts sibling triggers. The
// error return is reserved for internal failures.
type Trigger interface {
	Execute(sub action.SubAction, ctx *Context) (*validation.Result[validation.Void], error)
}

// TriggerFunc adapts a function to the Trigger interface.
type TriggerFunc func(sub action.SubAction, ctx *Context) (*validation.Result[validation.Void], error)

func (f TriggerFunc) Execute(sub action.SubAction, ctx *Context) (*validation.Result[validation.Void], error) {
	return f(sub, ctx)
}

// Binding attaches a trigger to its key. TopLevelIdentity, when non-zero, is
// the only identity authorized to perform the matching action.
type Binding struct {
	Key              Key
	TopLevelIdentity strata.Identifier
	Trigger          Trigger
}

// Registry holds the trigger bindings active for one platform version.
type Registry struct {
	bindings map[Key][]Binding
}

// NewRegistry builds the registry for a platform version.
func NewRegistry(pv *protocol.PlatformVersion) (*Registry, error) {
	bindings, err := protocol.Dispatch(
		"triggers.NewRegistry",
		pv.DataTriggers.Bindings,
		map[protocol.FeatureVersion]func() ([]Binding, error){
			0: bindingsV0,
		},
	)
	if err != nil {
		return nil, err
	}

	r := &Registry{bindings: make(map[Key][]Binding)}
	for _, b := range bindings {
		r.bindings[b.Key] = append(r.bindings[b.Key], b)
	}
	return r, nil
}

// MatchingTriggers returns the bindings registered for a key, in
// registration order.
func (r *Registry) MatchingTriggers(contractID strata.Identifier, documentType string, act strata.DocumentTransitionAction) []Binding {
	return r.bindings[Key{ContractID: contractID, DocumentType: documentType, Action: act}]
}

// ExecuteFor runs every matching trigger for a document sub-action and
// collects all their errors. Triggers run in order; one failing trigger does
// not stop the next.
func (r *Registry) ExecuteFor(
	contractID strata.Identifier,
	documentType string,
	act strata.DocumentTransitionAction,
	documentID strata.Identifier,
	sub action.SubAction,
	ctx *Context,
) (*validation.Result[validation.Void], error) {
	result := validation.NewSimpleResult()

	for _, binding := range r.MatchingTriggers(contractID, documentType, act) {
		if !binding.TopLevelIdentity.IsZero() && binding.TopLevelIdentity != ctx.OwnerID {
			result.AddError(errors.NewDataTriggerAuthorizationError(contractID, documentID, ctx.OwnerID))
			continue
		}
		triggerResult, err := binding.Trigger.Execute(sub, ctx)
		if err != nil {
			return nil, err
		}
		result.MergeErrors(triggerResult)
	}

	return result, nil
}
