package visitor

import "time"

// Visitor is the durable record of an enrolled visitor. The identity key is
// assigned at enrollment and never changes; the photo history only grows.
type Visitor struct {
	IdentityKey string
	Name        string
	PhoneNumber string
	Photos      []PhotoRecord
	// Version stamps each persisted revision for conditional writes.
	Version int64
}

// PhotoRecord points at one archived capture of the visitor. Immutable;
// slice order is capture chronology.
type PhotoRecord struct {
	ObjectKey string    `json:"objectKey"`
	Bucket    string    `json:"bucket"`
	CreatedAt time.Time `json:"createdTimestamp"`
}
