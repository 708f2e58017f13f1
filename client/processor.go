package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RedemptionTask is one queued redemption attempt. The caller owns
// durability and retry bookkeeping; TaskID is the caller's correlation key.
type RedemptionTask struct {
	TaskID    string
	Signature []byte
	Execution ExecutionObject
}

// RedemptionResult reports the outcome of a processed task.
type RedemptionResult struct {
	TaskID          string
	TransactionHash string
	Err             error
}

// ResultHandler receives the outcome of each processed task. The caller is
// responsible for recording outcomes durably; the processor keeps nothing.
type ResultHandler func(RedemptionResult)

// RedemptionProcessor processes redemption tasks from an in-memory queue
// with a pool of workers. A circuit breaker protects against delegation
// server downtime: after consecutive health failures, incoming tasks are
// parked and requeued once the server recovers.
type RedemptionProcessor struct {
	tasks            chan RedemptionTask
	delegationClient *DelegationClient
	onResult         ResultHandler
	logger           *zap.Logger
	workerCount      int
	wg               sync.WaitGroup
	ctx              context.Context
	cancel           context.CancelFunc

	mu                  sync.Mutex
	circuitOpen         bool
	consecutiveFailures int
	failureThreshold    int
	resetTimeout        time.Duration
	healthCheckInterval time.Duration
	lastFailureTime     time.Time
	pendingTasks        []RedemptionTask
}

// NewRedemptionProcessor creates a processor with the given number of
// workers and queue buffer size.
func NewRedemptionProcessor(
	delegationClient *DelegationClient,
	onResult ResultHandler,
	logger *zap.Logger,
	workerCount int,
	bufferSize int,
) *RedemptionProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	return &RedemptionProcessor{
		tasks:               make(chan RedemptionTask, bufferSize),
		delegationClient:    delegationClient,
		onResult:            onResult,
		logger:              logger,
		workerCount:         workerCount,
		ctx:                 ctx,
		cancel:              cancel,
		failureThreshold:    3,
		resetTimeout:        5 * time.Minute,
		healthCheckInterval: 30 * time.Second,
		pendingTasks:        make([]RedemptionTask, 0),
	}
}

// Start launches the worker pool and the health monitor.
func (rp *RedemptionProcessor) Start() {
	rp.logger.Info("Starting redemption processor", zap.Int("worker_count", rp.workerCount))

	go rp.monitorServerHealth()

	for i := 0; i < rp.workerCount; i++ {
		workerID := i
		rp.wg.Add(1)

		go func() {
			defer rp.wg.Done()
			rp.logger.Debug("Redemption worker started", zap.Int("worker_id", workerID))

			for {
				select {
				case <-rp.ctx.Done():
					rp.logger.Debug("Redemption worker stopped", zap.Int("worker_id", workerID))
					return
				case task := <-rp.tasks:
					rp.processRedemption(task)
				}
			}
		}()
	}
}

// Stop drains the workers and stops the processor.
func (rp *RedemptionProcessor) Stop() {
	rp.logger.Info("Stopping redemption processor")
	rp.cancel()
	rp.wg.Wait()
	rp.logger.Info("Redemption processor stopped")
}

// QueueRedemption adds a task to the queue. While the circuit breaker is
// open, tasks are parked for requeue after recovery instead of failing.
func (rp *RedemptionProcessor) QueueRedemption(task RedemptionTask) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.circuitOpen {
		rp.logger.Info("Circuit breaker open, storing task for later",
			zap.String("task_id", task.TaskID),
		)
		rp.pendingTasks = append(rp.pendingTasks, task)
		return nil
	}

	select {
	case rp.tasks <- task:
		rp.logger.Debug("Redemption task queued", zap.String("task_id", task.TaskID))
		return nil
	case <-time.After(5 * time.Second):
		return errors.New("redemption queue is full, try again later")
	}
}

func (rp *RedemptionProcessor) processRedemption(task RedemptionTask) {
	ctx, cancel := context.WithTimeout(rp.ctx, rp.delegationClient.rpcTimeout)
	defer cancel()

	if err := rp.delegationClient.HealthCheck(ctx); err != nil {
		rp.logger.Warn("Delegation server unavailable, incrementing failure counter",
			zap.Error(err),
			zap.String("task_id", task.TaskID),
		)

		rp.mu.Lock()
		rp.consecutiveFailures++
		rp.lastFailureTime = time.Now()

		if rp.consecutiveFailures >= rp.failureThreshold && !rp.circuitOpen {
			rp.logger.Warn("Opening circuit breaker due to consecutive failures",
				zap.Int("failure_count", rp.consecutiveFailures),
				zap.Int("threshold", rp.failureThreshold),
			)
			rp.circuitOpen = true
		}

		// Park the task for requeue after recovery.
		rp.pendingTasks = append(rp.pendingTasks, task)
		rp.mu.Unlock()
		return
	}

	rp.mu.Lock()
	if rp.consecutiveFailures > 0 {
		rp.consecutiveFailures = 0
		rp.logger.Info("Reset consecutive failures counter, delegation server is available")
	}
	rp.mu.Unlock()

	txHash, err := rp.delegationClient.RedeemDelegation(ctx, task.Signature, task.Execution)
	if err != nil {
		rp.logger.Error("Failed to redeem delegation",
			zap.Error(err),
			zap.String("task_id", task.TaskID),
		)
		rp.onResult(RedemptionResult{TaskID: task.TaskID, Err: err})
		return
	}

	rp.logger.Info("Delegation redemption successful",
		zap.String("task_id", task.TaskID),
		zap.String("tx_hash", txHash),
	)
	rp.onResult(RedemptionResult{TaskID: task.TaskID, TransactionHash: txHash})
}

// monitorServerHealth periodically probes the server while the circuit
// breaker is open and requeues parked tasks once it recovers.
func (rp *RedemptionProcessor) monitorServerHealth() {
	ticker := time.NewTicker(rp.healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rp.ctx.Done():
			return
		case <-ticker.C:
			rp.mu.Lock()
			if !rp.circuitOpen || time.Since(rp.lastFailureTime) < rp.resetTimeout {
				rp.mu.Unlock()
				continue
			}
			rp.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := rp.delegationClient.HealthCheck(ctx)
			cancel()

			if err != nil {
				continue
			}

			rp.mu.Lock()
			if !rp.circuitOpen {
				rp.mu.Unlock()
				continue
			}
			rp.logger.Info("Delegation server is available, resetting circuit breaker")
			rp.circuitOpen = false
			rp.consecutiveFailures = 0
			pendingTasks := rp.pendingTasks
			rp.pendingTasks = make([]RedemptionTask, 0)
			rp.mu.Unlock()

			for _, task := range pendingTasks {
				rp.logger.Info("Requeuing pending task after circuit breaker reset",
					zap.String("task_id", task.TaskID),
				)
				_ = rp.QueueRedemption(task)
			}
		}
	}
}
