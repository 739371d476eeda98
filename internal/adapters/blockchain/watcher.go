package blockchain

import (
	"context"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
)

// maxPollFailures is how many consecutive RPC failures end a watch
const maxPollFailures = 5

// Watcher polls a node for a transaction's receipt and the chain head and
// feeds what it sees into a Tracker.
type Watcher struct {
	client   *w3.Client
	interval time.Duration
	log      *slog.Logger
}

// NewWatcher creates a new watcher
func NewWatcher(client *w3.Client, interval time.Duration, log *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{client: client, interval: interval, log: log}
}

// Watch blocks until the tracker reaches a terminal state or ctx ends. When
// ctx ends first the tracker is failed with a NetworkError.
func (w *Watcher) Watch(ctx context.Context, hash common.Hash, tracker *domain.Tracker) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		receipt  *types.Receipt
		failures int
	)

	for {
		err := w.poll(ctx, hash, tracker, &receipt)
		if err != nil {
			failures++
			w.log.Debug("poll failed", "hash", hash, "attempt", failures, "error", err)
			if failures >= maxPollFailures {
				tracker.Fail(&domain.NetworkError{Op: "wait for confirmation", Err: err})
				return
			}
		} else {
			failures = 0
		}

		select {
		case <-tracker.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			tracker.Fail(&domain.NetworkError{Op: "wait for confirmation", Err: ctx.Err()})
			return
		case <-tracker.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Watcher) poll(ctx context.Context, hash common.Hash, tracker *domain.Tracker, receipt **types.Receipt) error {
	if *receipt == nil {
		var r *types.Receipt
		if err := w.client.CallCtx(ctx, eth.TxReceipt(hash).Returns(&r)); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		if r == nil {
			return nil
		}
		*receipt = r
		tracker.Receipt(r)
		if tracker.Snapshot().State.Terminal() {
			return nil
		}
	}

	var head *big.Int
	if err := w.client.CallCtx(ctx, eth.BlockNumber().Returns(&head)); err != nil {
		return err
	}

	tracker.Confirmation(confirmations((*receipt).BlockNumber, head))
	return nil
}

// confirmations counts blocks from the inclusion block to head, inclusive
func confirmations(included, head *big.Int) uint64 {
	if included == nil || head == nil || head.Cmp(included) < 0 {
		return 0
	}
	return new(big.Int).Sub(head, included).Uint64() + 1
}

func isNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
