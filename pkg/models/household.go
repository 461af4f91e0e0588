package models

// CollectionStatus is the live pickup status of a household. It is a two-value
// lifecycle: Pending -> Collected via a collector action, Collected -> Pending
// via the daily bulk reset. History lives in CollectionRecord, not here.
type CollectionStatus string

const (
	StatusPending   CollectionStatus = "Pending"
	StatusCollected CollectionStatus = "Collected"
)

// Household is a registered residence on a collection route. Block and
// panchayat reference an AreaLocation's (blockName, panchayat) pair by name;
// the pair must exist when it is assigned, but renames are not cascaded.
type Household struct {
	ID          string           `json:"id" db:"id"`
	HouseNumber string           `json:"house_number" db:"house_number"`
	Address     string           `json:"address" db:"address"`
	OwnerName   string           `json:"owner_name" db:"owner_name"`
	Block       string           `json:"block" db:"block"`
	Panchayat   string           `json:"panchayat" db:"panchayat"`
	Status      CollectionStatus `json:"status" db:"status"`
}

// CreateHouseholdRequest is the request body for registering a household.
// Status is not accepted from the caller; new households always start Pending.
type CreateHouseholdRequest struct {
	HouseNumber string `json:"house_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
	OwnerName   string `json:"owner_name" validate:"required"`
	Block       string `json:"block" validate:"required"`
	Panchayat   string `json:"panchayat" validate:"required"`
}

// HouseholdUpdate is a typed field-update set for a household. Nil fields are
// left untouched by the gateway and the mirror.
type HouseholdUpdate struct {
	HouseNumber *string           `json:"house_number,omitempty"`
	Address     *string           `json:"address,omitempty"`
	OwnerName   *string           `json:"owner_name,omitempty"`
	Block       *string           `json:"block,omitempty"`
	Panchayat   *string           `json:"panchayat,omitempty"`
	Status      *CollectionStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending Collected"`
}

// IsEmpty reports whether the update would change nothing.
func (u HouseholdUpdate) IsEmpty() bool {
	return u.HouseNumber == nil && u.Address == nil && u.OwnerName == nil &&
		u.Block == nil && u.Panchayat == nil && u.Status == nil
}

// Apply copies the set fields onto a household. Used by the state store to
// mutate its mirror only after the gateway write succeeded.
func (u HouseholdUpdate) Apply(h *Household) {
	if u.HouseNumber != nil {
		h.HouseNumber = *u.HouseNumber
	}
	if u.Address != nil {
		h.Address = *u.Address
	}
	if u.OwnerName != nil {
		h.OwnerName = *u.OwnerName
	}
	if u.Block != nil {
		h.Block = *u.Block
	}
	if u.Panchayat != nil {
		h.Panchayat = *u.Panchayat
	}
	if u.Status != nil {
		h.Status = *u.Status
	}
}
