package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source names the statement a transaction was read from (bank, payment provider).
type Source string

// Noise is the cluster ID of a transaction that belongs to no recurring group.
const Noise = -1

// Transaction is one parsed statement row.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal // negative = outgoing debit, positive = incoming credit
	Description string
	Source      Source
	Row         int // 1-based data row within the source file
}

// Incoming reports whether the transaction is a credit.
func (t Transaction) Incoming() bool {
	return t.Amount.IsPositive()
}

// ClassifiedTransaction is an incoming Transaction with its clustering result.
type ClassifiedTransaction struct {
	Transaction
	Day       int // day of month, 1-31
	ClusterID int // Noise for irregular payments
	Regular   bool
}

// ClusterSummary aggregates the regular payments sharing a cluster and description.
type ClusterSummary struct {
	ClusterID   int
	Description string
	Count       int
	AvgAmount   decimal.Decimal
	AvgDay      float64
}
