package models

import "time"

// Voucher is a single-use code entitling its holder to one vote
type Voucher struct {
	ID         int64     `gorm:"column:VoucherID;primaryKey;index" json:"VoucherID"`
	Code       int64     `gorm:"column:Voucher;unique" json:"Voucher"`
	ExpiryDate time.Time `gorm:"column:ExpiryDate" json:"ExpiryDate"`
	Used       bool      `gorm:"column:Used;default:false" json:"Used"`
	ProjectID  *int64    `gorm:"column:ProjectID" json:"ProjectID"` // set once redeemed
}

func (Voucher) TableName() string { return "voucher_codes" }

// Expired reports whether the voucher can no longer be redeemed at now.
func (v Voucher) Expired(now time.Time) bool {
	return !v.ExpiryDate.After(now)
}

// VoteEcho is returned by the vote endpoint that only echoes its inputs
type VoteEcho struct {
	VoucherCode int64 `json:"VoucherCode"`
	ProjectID   int64 `json:"ProjectId"`
}

// Redemption is the outcome of a successful vote
type Redemption struct {
	Voucher Voucher
	Project Project
}
