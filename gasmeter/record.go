package gasmeter

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
)

const codespace = "gasmeter"

// ErrInvalidRecord is returned when a gas estimation record is constructed
// with missing or negative gas values. It signals a caller bug in the
// measurement layer and must not be swallowed.
var ErrInvalidRecord = errorsmod.Register(codespace, 2, "invalid gas estimation record")

// Category classifies gas estimation records by the kind of operation measured.
type Category string

const (
	CategoryEOATransfer   Category = "eoa_transfer"
	CategoryContractCall  Category = "contract_call"
	CategoryERC20Transfer Category = "erc20_transfer"
	CategoryBatchTransfer Category = "batch_transfer"
	CategoryDeployment    Category = "deployment"
	CategoryOther         Category = "other"
)

// Categories lists all known categories in report order.
var Categories = []Category{
	CategoryEOATransfer,
	CategoryContractCall,
	CategoryERC20Transfer,
	CategoryBatchTransfer,
	CategoryDeployment,
	CategoryOther,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryEOATransfer, CategoryContractCall, CategoryERC20Transfer,
		CategoryBatchTransfer, CategoryDeployment, CategoryOther:
		return true
	}
	return false
}

// ParseCategory maps a free-text tag onto the closed category set.
// Unknown tags land in CategoryOther rather than failing.
func ParseCategory(s string) Category {
	if c := Category(s); c.Valid() {
		return c
	}
	return CategoryOther
}

// Record is one (estimated, actual) gas measurement. Both values are captured
// together when the operation's receipt becomes known and are immutable
// afterwards. Gas values are kept as big integers so totals above 2^53 never
// lose precision.
type Record struct {
	category  Category
	operation string
	estimated *big.Int
	actual    *big.Int
}

// NewRecord validates and builds an immutable record. Both gas values must be
// non-negative; the inputs are copied so later mutation by the caller cannot
// leak into the record.
func NewRecord(category Category, operation string, estimated, actual *big.Int) (Record, error) {
	if !category.Valid() {
		return Record{}, errorsmod.Wrapf(ErrInvalidRecord, "unknown category %q", category)
	}
	if estimated == nil || actual == nil {
		return Record{}, errorsmod.Wrap(ErrInvalidRecord, "estimated and actual gas must be set")
	}
	if estimated.Sign() < 0 {
		return Record{}, errorsmod.Wrapf(ErrInvalidRecord, "negative estimated gas %s", estimated)
	}
	if actual.Sign() < 0 {
		return Record{}, errorsmod.Wrapf(ErrInvalidRecord, "negative actual gas %s", actual)
	}

	return Record{
		category:  category,
		operation: operation,
		estimated: new(big.Int).Set(estimated),
		actual:    new(big.Int).Set(actual),
	}, nil
}

func (r Record) Category() Category { return r.category }

// Operation is a free-text sub-grouping within a category, e.g. the contract
// function name or transfer type. May be empty.
func (r Record) Operation() string { return r.operation }

func (r Record) EstimatedGas() *big.Int { return new(big.Int).Set(r.estimated) }

func (r Record) ActualGas() *big.Int { return new(big.Int).Set(r.actual) }
