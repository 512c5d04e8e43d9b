package strata

// Value is a document field value. Values are restricted to the small set of
// scalar shapes FieldType can express; nested objects live behind Bytes.
type Value interface{}

// Document is a schema-conformant record stored under a data contract.
//
// CreatorID is the identity that originally created the document. It survives
// ownership transfers so that storage refunds for the original bytes can be
// attributed to whoever paid for them.
type Document struct {
	ID         Identifier
	ContractID Identifier
	Type       string
	OwnerID    Identifier
	CreatorID  Identifier
	Revision   Revision
	CreatedAt  Timestamp
	UpdatedAt  Timestamp

	// Price is the direct-purchase listing price in credits. Zero means the
	// document is not for sale.
	Price Credits

	Data map[string]Value
}
