// Package classifier separates recurring incoming payments from one-off ones
// by clustering them on (amount, day of month).
package classifier

import (
	"fmt"

	"github.com/IO-n-A/quant-fin/internal/cluster"
	"github.com/IO-n-A/quant-fin/internal/config"
	"github.com/IO-n-A/quant-fin/internal/model"
)

// Classifier labels incoming transactions as regular or irregular.
type Classifier struct {
	dbscan cluster.DBSCAN
}

// New creates a Classifier from the clustering settings.
func New(params config.Clustering) *Classifier {
	return &Classifier{dbscan: cluster.DBSCAN{Eps: params.Epsilon, MinSamples: params.MinSamples}}
}

// Result holds the classified transactions and the scaling statistics of the run.
type Result struct {
	Transactions []model.ClassifiedTransaction
	Scaler       *cluster.Scaler
	Clusters     int
}

// Classify returns one ClassifiedTransaction per input, in input order.
// Features are standardized over this input only.
func (c *Classifier) Classify(txns []model.Transaction) (*Result, error) {
	features := make([][]float64, len(txns))
	for i, txn := range txns {
		features[i] = []float64{txn.Amount.InexactFloat64(), float64(txn.Date.Day())}
	}

	scaled, scaler, err := cluster.Standardize(features)
	if err != nil {
		return nil, fmt.Errorf("standardizing features: %w", err)
	}
	labels, err := c.dbscan.Fit(scaled)
	if err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}

	res := &Result{
		Transactions: make([]model.ClassifiedTransaction, len(txns)),
		Scaler:       scaler,
	}
	for i, txn := range txns {
		res.Transactions[i] = model.ClassifiedTransaction{
			Transaction: txn,
			Day:         txn.Date.Day(),
			ClusterID:   labels[i],
			Regular:     labels[i] != cluster.Noise,
		}
		if labels[i] >= res.Clusters {
			res.Clusters = labels[i] + 1
		}
	}
	return res, nil
}

// Split partitions classified transactions into regular and irregular ones,
// preserving order.
func Split(classified []model.ClassifiedTransaction) (regular, irregular []model.ClassifiedTransaction) {
	for _, ct := range classified {
		if ct.Regular {
			regular = append(regular, ct)
		} else {
			irregular = append(irregular, ct)
		}
	}
	return regular, irregular
}
