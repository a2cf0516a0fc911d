// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/minter-tx/common"
)

// DefaultSendersCacheSize is the number of recovered senders kept by a SenderRecoverer.
const DefaultSendersCacheSize = 4096

// SenderRecoverer recovers the senders of many transactions in parallel and remembers
// them by transaction hash. It is safe for concurrent use.
type SenderRecoverer struct {
	cache  *lru.ARCCache[common.Hash, common.Address]
	logger log.Logger

	hits, misses atomic.Uint64
}

// NewSenderRecoverer creates a recoverer caching up to size senders. A nil logger
// falls back to log.Root().
func NewSenderRecoverer(size int, logger log.Logger) (*SenderRecoverer, error) {
	if logger == nil {
		logger = log.Root()
	}
	cache, err := lru.NewARC[common.Hash, common.Address](size)
	if err != nil {
		return nil, err
	}
	return &SenderRecoverer{cache: cache, logger: logger}, nil
}

// Recover returns the sender of every transaction, in order. At most workers
// recoveries run at once (unlimited when workers <= 0). The first failure cancels
// the rest and is returned with the index of the offending transaction.
func (sr *SenderRecoverer) Recover(ctx context.Context, txs []*Transaction, workers int) ([]common.Address, error) {
	start := time.Now()
	senders := make([]common.Address, len(txs))

	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	var hits atomic.Uint64
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			h := tx.Hash()
			if addr, ok := sr.cache.Get(h); ok {
				hits.Add(1)
				senders[i] = addr
				return nil
			}
			addr, err := tx.Sender()
			if err != nil {
				return fmt.Errorf("tx %d (%s): %w", i, h, err)
			}
			sr.cache.Add(h, addr)
			senders[i] = addr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sr.hits.Add(hits.Load())
	sr.misses.Add(uint64(len(txs)) - hits.Load())
	sr.logger.Debug("[senders] recovered", "txs", len(txs), "cached", hits.Load(), "took", time.Since(start))
	return senders, nil
}

// Stats returns cache hits and misses since creation.
func (sr *SenderRecoverer) Stats() (hits, misses uint64) {
	return sr.hits.Load(), sr.misses.Load()
}
