package domain

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxState is the lifecycle state of a submitted transaction
type TxState string

const (
	TxPending    TxState = "pending"
	TxBroadcast  TxState = "broadcast"
	TxConfirming TxState = "confirming"
	TxFinalized  TxState = "finalized"
	TxFailed     TxState = "failed"
)

// Terminal reports whether no further transitions are possible
func (s TxState) Terminal() bool {
	return s == TxFinalized || s == TxFailed
}

// TxEventKind names a lifecycle event
type TxEventKind string

const (
	EventTransactionHash TxEventKind = "transactionHash"
	EventConfirmation    TxEventKind = "confirmation"
	EventReceipt         TxEventKind = "receipt"
	EventError           TxEventKind = "error"
)

// TxEvent is emitted for every accepted transition. State is the state after
// the event was applied.
type TxEvent struct {
	Kind          TxEventKind
	State         TxState
	Hash          common.Hash
	Confirmations uint64
	Receipt       *types.Receipt
	Err           error
}

// TxRecord is a point-in-time view of a tracked transaction.
// Receipt and Err are never both set.
type TxRecord struct {
	State         TxState
	Hash          common.Hash
	Confirmations uint64
	Receipt       *types.Receipt
	Err           error
}

// ConfirmationPolicy decides when a confirmed transaction is accepted.
//
// Confirmations count blocks from the inclusion block up to the head, so a
// freshly mined transaction has one confirmation. A transaction is finalized
// once its count exceeds Threshold. Low thresholds accept transactions that a
// chain reorganization can still drop.
type ConfirmationPolicy struct {
	Threshold uint64
}

// Satisfied reports whether count confirmations are enough
func (p ConfirmationPolicy) Satisfied(count uint64) bool {
	return count > p.Threshold
}

// Tracker is the state machine behind a single transaction's lifecycle:
// Pending -> Broadcast -> Confirming -> Finalized | Failed.
//
// Inputs that do not fit the current state are dropped, so the first terminal
// transition wins and receipt/error stay mutually exclusive.
type Tracker struct {
	mu      sync.Mutex
	policy  ConfirmationPolicy
	record  TxRecord
	history []TxEvent
	subs    []*subscription
	done    chan struct{}
}

// NewTracker creates a tracker in the Pending state
func NewTracker(policy ConfirmationPolicy) *Tracker {
	return &Tracker{
		policy: policy,
		record: TxRecord{State: TxPending},
		done:   make(chan struct{}),
	}
}

// Policy returns the confirmation policy in use
func (t *Tracker) Policy() ConfirmationPolicy {
	return t.policy
}

// Hash records the broadcast transaction hash
func (t *Tracker) Hash(hash common.Hash) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.hashLocked(hash)
}

func (t *Tracker) hashLocked(hash common.Hash) bool {
	if t.record.State != TxPending {
		return false
	}
	t.record.Hash = hash
	t.record.State = TxBroadcast
	t.emitLocked(TxEvent{Kind: EventTransactionHash, Hash: hash})
	return true
}

// Receipt records the inclusion receipt. A receipt with a failed status
// moves the transaction to Failed instead.
func (t *Tracker) Receipt(receipt *types.Receipt) bool {
	if receipt == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.record.State.Terminal() || t.record.Receipt != nil {
		return false
	}
	if t.record.State == TxPending {
		t.hashLocked(receipt.TxHash)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		t.failLocked(&TransactionRevertedError{Hash: t.record.Hash, Receipt: receipt})
		return true
	}

	t.record.Receipt = receipt
	t.emitLocked(TxEvent{Kind: EventReceipt, Receipt: receipt})
	return true
}

// Confirmation records a new confirmation count. Counts that do not increase
// are ignored, and confirmations before the receipt are undefined.
func (t *Tracker) Confirmation(count uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.record.State.Terminal() || t.record.Receipt == nil {
		return false
	}
	if count == 0 || count <= t.record.Confirmations {
		return false
	}

	t.record.Confirmations = count
	t.record.State = TxConfirming
	finalized := t.policy.Satisfied(count)
	if finalized {
		t.record.State = TxFinalized
	}
	t.emitLocked(TxEvent{Kind: EventConfirmation, Confirmations: count, Receipt: t.record.Receipt})

	if finalized {
		t.closeLocked()
	}
	return true
}

// Fail moves the transaction to Failed
func (t *Tracker) Fail(err error) bool {
	if err == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.record.State.Terminal() {
		return false
	}
	t.failLocked(err)
	return true
}

func (t *Tracker) failLocked(err error) {
	t.record.State = TxFailed
	t.record.Err = err
	t.record.Receipt = nil
	t.emitLocked(TxEvent{Kind: EventError, Err: err})
	t.closeLocked()
}

// Snapshot returns the current record
func (t *Tracker) Snapshot() TxRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record
}

// Done is closed once the tracker reaches a terminal state
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the transaction is finalized or failed, or ctx ends.
func (t *Tracker) Wait(ctx context.Context) (TxRecord, error) {
	select {
	case <-t.done:
		rec := t.Snapshot()
		if rec.State == TxFailed {
			return rec, rec.Err
		}
		return rec, nil
	case <-ctx.Done():
		return t.Snapshot(), ctx.Err()
	}
}

// Subscribe streams every event, starting with those already emitted, in
// order. The channel is closed after the terminal event or when ctx ends.
func (t *Tracker) Subscribe(ctx context.Context) <-chan TxEvent {
	out := make(chan TxEvent)
	sub := &subscription{notify: make(chan struct{}, 1)}

	t.mu.Lock()
	sub.queue = append(sub.queue, t.history...)
	if t.record.State.Terminal() {
		sub.closed = true
	} else {
		t.subs = append(t.subs, sub)
	}
	t.mu.Unlock()

	sub.signal()
	go sub.run(ctx, out)
	return out
}

func (t *Tracker) emitLocked(ev TxEvent) {
	ev.State = t.record.State
	if ev.Hash == (common.Hash{}) {
		ev.Hash = t.record.Hash
	}
	if ev.Confirmations == 0 {
		ev.Confirmations = t.record.Confirmations
	}
	t.history = append(t.history, ev)
	for _, sub := range t.subs {
		sub.push(ev)
	}
}

func (t *Tracker) closeLocked() {
	close(t.done)
	for _, sub := range t.subs {
		sub.close()
	}
	t.subs = nil
}

type subscription struct {
	mu     sync.Mutex
	queue  []TxEvent
	closed bool
	notify chan struct{}
}

func (s *subscription) push(ev TxEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscription) run(ctx context.Context, out chan<- TxEvent) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notify:
		}

		s.mu.Lock()
		pending := s.queue
		s.queue = nil
		closed := s.closed
		s.mu.Unlock()

		for _, ev := range pending {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if closed {
			s.mu.Lock()
			drained := len(s.queue) == 0
			s.mu.Unlock()
			if drained {
				return
			}
			s.signal()
		}
	}
}
