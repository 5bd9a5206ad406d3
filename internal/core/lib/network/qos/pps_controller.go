package qos

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/ratelimit"
)

// TimingTemplate 是六档计时模板之一，决定 RTO 与发包节奏的默认值
type TimingTemplate int

const (
	TimingParanoid TimingTemplate = iota
	TimingSneaky
	TimingPolite
	TimingNormal
	TimingAggressive
	TimingInsane
)

// TimingParams 是某个计时模板对应的具体参数
type TimingParams struct {
	InitialRTO     time.Duration
	MaxRTO         time.Duration
	MaxRetries     int
	ScanDelay      time.Duration
	AggregatePPS   int // 0 表示该模板未给出具体数值，由调用方指定
}

// TimingParamsFor 返回计时模板对应的默认参数
func TimingParamsFor(t TimingTemplate) TimingParams {
	switch t {
	case TimingParanoid:
		return TimingParams{300 * time.Second, 300 * time.Second, 5, 5 * time.Minute, 0}
	case TimingSneaky:
		return TimingParams{15 * time.Second, 15 * time.Second, 5, 15 * time.Second, 0}
	case TimingPolite:
		return TimingParams{time.Second, 10 * time.Second, 5, 400 * time.Millisecond, 0}
	case TimingAggressive:
		return TimingParams{500 * time.Millisecond, 1250 * time.Millisecond, 6, 0, 0}
	case TimingInsane:
		return TimingParams{250 * time.Millisecond, 300 * time.Millisecond, 2, 0, 0}
	default: // TimingNormal
		return TimingParams{time.Second, 10 * time.Second, 2, 0, 0}
	}
}

// PPSController 是 Tier 1 限速器：聚合 pps 上限 + 自修正批量大小
// Tier 1 — aggregate packet-per-second ceiling，批量大小 B 根据观测到的
// 实际发送速率自修正：B ← B · sqrt(R_target / R_observed)，钳制在 [1, 10000]
type PPSController struct {
	targetPPS int
	bucket    ratelimit.Limiter

	batchSize int64 // 原子访问，放宽内存序即可，只要求最终收敛
	sent      int64 // 累计已发送计数 (原子)，供调用方计算观测速率
}

const (
	minBatchSize = 1
	maxBatchSize = 10000
)

// NewPPSController 创建一个新的 Tier 1 限速器
// targetPPS: 目标聚合 pps 上限
func NewPPSController(targetPPS int) *PPSController {
	if targetPPS < 1 {
		targetPPS = 1
	}
	return &PPSController{
		targetPPS: targetPPS,
		bucket:    ratelimit.New(targetPPS),
		batchSize: 1,
	}
}

// Sent returns the cumulative count of tokens acquired so far, for the
// caller to derive an observed-rate sample over its own window.
func (c *PPSController) Sent() int64 {
	return atomic.LoadInt64(&c.sent)
}

// Acquire 获取一个发送令牌，context 取消时立即返回
func (c *PPSController) Acquire(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.bucket.Take()
		close(done)
	}()
	select {
	case <-done:
		atomic.AddInt64(&c.sent, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BatchSize 返回当前批量大小建议值：worker 在一次令牌获取后最多可以
// 连续发送的探测数，在不依赖严格顺序一致性的前提下吸收短暂抖动。
func (c *PPSController) BatchSize() int {
	return int(atomic.LoadInt64(&c.batchSize))
}

// Observe 记录一次速率观测并据此重新校正批量大小。observedPPS 通常由
// 调用方每隔固定窗口（如 1 秒）统计一次实际发送速率后传入。
func (c *PPSController) Observe(observedPPS float64) {
	if observedPPS <= 0 {
		return
	}
	current := float64(atomic.LoadInt64(&c.batchSize))
	ratio := float64(c.targetPPS) / observedPPS
	next := current * math.Sqrt(ratio)

	if next < minBatchSize {
		next = minBatchSize
	}
	if next > maxBatchSize {
		next = maxBatchSize
	}
	atomic.StoreInt64(&c.batchSize, int64(next))
}

// TargetPPS 返回配置的目标聚合速率
func (c *PPSController) TargetPPS() int {
	return c.targetPPS
}
