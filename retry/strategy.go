// Package retry implements the retry token bucket, backoff strategies, and
// the Simple/Standard retry strategies that drive the pipeline's attempt
// loop.
//
// Backoff delay computation follows the same shape as
// waiter.ComputeDelay: an exponential delay bounded by a max, jittered per
// BackoffMode, derived per attempt count.
package retry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// BackoffMode selects how a computed exponential delay is jittered before
// use.
type BackoffMode int

// BackoffMode values.
const (
	// BackoffNone applies no jitter; the raw exponential delay is used.
	BackoffNone BackoffMode = iota
	// BackoffFullJitter selects a delay uniformly from [0, exponential).
	BackoffFullJitter
	// BackoffEqualJitter selects a delay from [exponential/2, exponential).
	BackoffEqualJitter
	// BackoffDecorrelatedJitter selects a delay from [base, prior*3),
	// bounded by max, decorrelating successive delays from the attempt
	// count alone.
	BackoffDecorrelatedJitter
)

// Backoff computes attempt delays for a retry loop.
type Backoff struct {
	Mode      BackoffMode
	BaseDelay time.Duration
	MaxDelay  time.Duration

	priorDelay time.Duration
}

// NewBackoff creates a Backoff with the given mode and delay bounds.
func NewBackoff(mode BackoffMode, base, max time.Duration) *Backoff {
	return &Backoff{Mode: mode, BaseDelay: base, MaxDelay: max, priorDelay: base}
}

// Delay returns the delay to use before the given attempt (1-indexed: the
// first retry is attempt 1).
func (b *Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}

	exp := exponentialDelay(attempt, b.BaseDelay, b.MaxDelay)

	switch b.Mode {
	case BackoffNone:
		return exp
	case BackoffFullJitter:
		return jitterBetween(0, exp)
	case BackoffEqualJitter:
		return jitterBetween(exp/2, exp)
	case BackoffDecorrelatedJitter:
		next := jitterBetween(b.BaseDelay, time.Duration(float64(b.priorDelay)*3))
		if next > b.MaxDelay {
			next = b.MaxDelay
		}
		b.priorDelay = next
		return next
	default:
		return exp
	}
}

func exponentialDelay(attempt int, base, max time.Duration) time.Duration {
	if base < 1 {
		base = 1
	}
	ri := uint64(1) << uint64(attempt-1)
	d := base * time.Duration(ri)
	if d <= 0 || d > max { // overflow or exceeds ceiling
		return max
	}
	return d
}

func jitterBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)))
}

// Quota is the token bucket gating how many retries a client may issue
// across concurrently in-flight calls, so a burst of failures degrades to
// exponential backoff rather than a retry storm.
//
// Capacity and costs follow the standard retry strategy's defaults:
// capacity 500, a successful retry debits 5, a retry that times out debits
// an additional 10 on top, and any call that completes with no retries
// credits 1 back (up to capacity).
type Quota struct {
	Capacity         int
	RetryCost        int
	TimeoutCost      int
	NoRetryIncrement int

	mu        sync.Mutex
	available int
}

// NewQuota creates a Quota at full capacity (500/5/10/1, the Standard retry
// strategy's defaults).
func NewQuota() *Quota {
	q := &Quota{Capacity: 500, RetryCost: 5, TimeoutCost: 10, NoRetryIncrement: 1}
	q.available = q.Capacity
	return q
}

// Acquire attempts to debit RetryCost from the bucket. ok is false if the
// bucket lacks sufficient balance, meaning the caller must not retry.
func (q *Quota) Acquire() (ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.available < q.RetryCost {
		return false
	}
	q.available -= q.RetryCost
	return true
}

// AcquireTimeout additionally debits TimeoutCost, for a retry attributed to
// a client-side timeout rather than a server response.
func (q *Quota) AcquireTimeout() (ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	cost := q.RetryCost + q.TimeoutCost
	if q.available < cost {
		return false
	}
	q.available -= cost
	return true
}

// Release credits NoRetryIncrement back to the bucket, capped at Capacity,
// called once a call completes without needing any further retry.
func (q *Quota) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.available += q.NoRetryIncrement
	if q.available > q.Capacity {
		q.available = q.Capacity
	}
}

// Available returns the bucket's current balance.
func (q *Quota) Available() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.available
}

// RetryToken represents the outcome of a single ShouldRetry decision: the
// attempt to run next, the delay to wait before it, and whether the
// strategy permits it at all.
type RetryToken struct {
	Attempt       int
	Delay         time.Duration
	RetryAfter    time.Duration
	HasRetryAfter bool
}

// Strategy decides whether a failed attempt should be retried.
type Strategy interface {
	// ShouldRetry evaluates whether attempt (0-indexed: 0 is the initial
	// attempt, not a retry) should be retried given err, returning a
	// RetryToken describing the next attempt if so.
	ShouldRetry(attempt int, err error) (RetryToken, bool)
	// Release is called once the operation completes regardless of outcome.
	// Standard credits NoRetryIncrement back to its quota if no retry
	// debited it since the previous Release; Simple does nothing.
	Release()
}

// RetryableError is implemented by errors the retry strategy can classify.
type RetryableError interface {
	error
	IsRetrySafe() bool
	RetryAfter() (float64, bool)
}

// Simple is a retry strategy bounded purely by a maximum attempt count and a
// backoff, with no token bucket. Useful for local testing or for clients
// that intentionally forgo the shared quota.
type Simple struct {
	MaxAttempts int
	Backoff     *Backoff
}

// NewSimple creates a Simple strategy with the given attempt ceiling and a
// full-jitter exponential backoff between 20ms and 20s, the Standard retry
// strategy's own defaults.
func NewSimple(maxAttempts int) *Simple {
	return &Simple{
		MaxAttempts: maxAttempts,
		Backoff:     NewBackoff(BackoffFullJitter, 20*time.Millisecond, 20*time.Second),
	}
}

func (s *Simple) ShouldRetry(attempt int, err error) (RetryToken, bool) {
	if attempt+1 >= s.MaxAttempts {
		return RetryToken{}, false
	}
	if !isRetryable(err) {
		return RetryToken{}, false
	}

	next := attempt + 1
	tok := RetryToken{Attempt: next, Delay: s.Backoff.Delay(next)}
	if re, ok := err.(RetryableError); ok {
		if secs, has := re.RetryAfter(); has {
			tok.RetryAfter = time.Duration(secs * float64(time.Second))
			tok.HasRetryAfter = true
		}
	}
	return tok, true
}

func (s *Simple) Release() {}

// Standard is the token-bucket-gated retry strategy: on top of Simple's
// attempt ceiling and backoff, every retry must be affordable against the
// shared Quota, and a clean completion (Release) credits the bucket back.
type Standard struct {
	Simple
	Quota *Quota

	usedQuota bool
}

// NewStandard creates a Standard strategy sharing quota across calls. quota
// may be shared across concurrent Standard instances: its own mutex
// serializes every Acquire, AcquireTimeout, Release and Available call. A
// Standard's record of whether the current call debited the quota is not
// synchronized, so one Standard serves one call at a time.
func NewStandard(maxAttempts int, quota *Quota) *Standard {
	return &Standard{
		Simple: *NewSimple(maxAttempts),
		Quota:  quota,
	}
}

func (s *Standard) ShouldRetry(attempt int, err error) (RetryToken, bool) {
	tok, ok := s.Simple.ShouldRetry(attempt, err)
	if !ok {
		return tok, false
	}

	timeout := isTimeoutError(err)
	var acquired bool
	if timeout {
		acquired = s.Quota.AcquireTimeout()
	} else {
		acquired = s.Quota.Acquire()
	}
	if !acquired {
		return RetryToken{}, false
	}

	s.usedQuota = true
	return tok, true
}

func (s *Standard) Release() {
	if !s.usedQuota {
		s.Quota.Release()
	}
	s.usedQuota = false
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	re, ok := err.(RetryableError)
	return ok && re.IsRetrySafe()
}

// timeoutError is implemented by errors produced by a client-side deadline
// expiring, as distinct from a server response.
type timeoutError interface {
	Timeout() bool
}

func isTimeoutError(err error) bool {
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}

var _ Strategy = (*Simple)(nil)
var _ Strategy = (*Standard)(nil)
var _ fmt.Stringer = BackoffMode(0)

func (m BackoffMode) String() string {
	switch m {
	case BackoffNone:
		return "none"
	case BackoffFullJitter:
		return "full"
	case BackoffEqualJitter:
		return "equal"
	case BackoffDecorrelatedJitter:
		return "decorrelated"
	default:
		return "unknown"
	}
}
