package models

import "github.com/lib/pq"

// AreaLocation is a block and its panchayats. Block names are unique
// case-insensitively and panchayat names are unique within their block, but
// both rules are enforced by the state store against its mirror rather than
// by a database constraint.
type AreaLocation struct {
	ID         string         `json:"id" db:"id"`
	BlockName  string         `json:"block_name" db:"block_name"`
	Panchayats pq.StringArray `json:"panchayats" db:"panchayats"`
}

// CreateLocationRequest is the request body for adding a block.
type CreateLocationRequest struct {
	BlockName  string   `json:"block_name" validate:"required"`
	Panchayats []string `json:"panchayats"`
}

// LocationUpdate is a typed field-update set for an area location. Panchayats
// replaces the whole ordered list when set.
type LocationUpdate struct {
	BlockName  *string   `json:"block_name,omitempty"`
	Panchayats *[]string `json:"panchayats,omitempty"`
}

func (u LocationUpdate) IsEmpty() bool {
	return u.BlockName == nil && u.Panchayats == nil
}

func (u LocationUpdate) Apply(loc *AreaLocation) {
	if u.BlockName != nil {
		loc.BlockName = *u.BlockName
	}
	if u.Panchayats != nil {
		loc.Panchayats = append(pq.StringArray{}, *u.Panchayats...)
	}
}

// AddPanchayatRequest is the request body for appending a panchayat to a block.
type AddPanchayatRequest struct {
	Name string `json:"name" validate:"required"`
}
