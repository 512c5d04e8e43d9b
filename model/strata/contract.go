package strata

// FieldType enumerates the value types a document-type field may declare.
type FieldType uint8

const (
	FieldTypeString FieldType = iota
	FieldTypeInteger
	FieldTypeBoolean
	FieldTypeBytes
	FieldTypeIdentifier
)

// FieldConstraint describes one field of a document type: whether it must be
// present and what shape its value must have. This is the compiled form of
// the contract's schema; full JSON-Schema compilation happens outside the
// processing core.
type FieldConstraint struct {
	Name      string
	Type      FieldType
	Required  bool
	MinLength int
	MaxLength int
	// Min and Max bound integer fields. Both zero means unbounded.
	Min int64
	Max int64
}

// TradeMode controls how documents of a type change hands.
type TradeMode uint8

const (
	// TradeModeNone forbids transfers and purchases.
	TradeModeNone TradeMode = 0
	// TradeModeDirectPurchase allows an owner to set a price and any identity
	// to buy at that price.
	TradeModeDirectPurchase TradeMode = 1
)

// TokenAction enumerates the token operations a document type may attach a
// token cost to.
type TokenAction uint8

const (
	TokenActionCreate TokenAction = iota
	TokenActionReplace
	TokenActionDelete
	TokenActionTransfer
	TokenActionPurchase
)

// DocumentType defines the schema of one document kind within a contract.
type DocumentType struct {
	Name string

	Fields []FieldConstraint

	// RequiredCreatedAt and RequiredUpdatedAt force documents of this type to
	// carry block-consistent timestamps.
	RequiredCreatedAt bool
	RequiredUpdatedAt bool

	// Mutable controls whether documents of this type may be replaced after
	// creation.
	Mutable bool

	TradeMode TradeMode

	// TokenCosts maps a document action to the amount of an associated token
	// that performing the action consumes. Empty for most types.
	TokenCosts map[TokenAction]TokenAmount

	// TokenID is the token the costs above are charged in. Zero when no costs
	// are set.
	TokenID Identifier
}

// FieldByName returns the constraint for the named field, or nil.
func (dt *DocumentType) FieldByName(name string) *FieldConstraint {
	for i := range dt.Fields {
		if dt.Fields[i].Name == name {
			return &dt.Fields[i]
		}
	}
	return nil
}

// DataContract is a versioned schema namespace owned by an identity. Document
// types are keyed by name.
type DataContract struct {
	ID            Identifier
	OwnerID       Identifier
	Version       uint32
	DocumentTypes map[string]*DocumentType
}

// DocumentType returns the named document type, or nil if the contract does
// not define it.
func (dc *DataContract) DocumentType(name string) *DocumentType {
	return dc.DocumentTypes[name]
}
