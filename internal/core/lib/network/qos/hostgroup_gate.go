package qos

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// HostgroupGate 是 Tier 2 限流器：按目标维度限制"同时处于多端口扫描中
// 的目标数量"。仅适用于按目标展开多端口的扫描类型；按端口迭代的扫描类型
// (UDP、隐蔽扫描、idle、decoy) 不经过该闸门。
type HostgroupGate struct {
	sem         *semaphore.Weighted
	maxHostgroup int64
	minHostgroup int64
}

// NewHostgroupGate 创建一个新的 Tier 2 闸门
// maxHostgroup: 同时活跃目标数上限
// minHostgroup: 调度器尽量维持的下限 (仅供参考，不强制)
func NewHostgroupGate(maxHostgroup, minHostgroup int) *HostgroupGate {
	if maxHostgroup < 1 {
		maxHostgroup = 1
	}
	return &HostgroupGate{
		sem:          semaphore.NewWeighted(int64(maxHostgroup)),
		maxHostgroup: int64(maxHostgroup),
		minHostgroup: int64(minHostgroup),
	}
}

// Acquire 占用一个目标名额，context 取消时立即返回
func (g *HostgroupGate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release 释放一个目标名额
func (g *HostgroupGate) Release() {
	g.sem.Release(1)
}

// MaxHostgroup 返回配置的并发目标数上限
func (g *HostgroupGate) MaxHostgroup() int {
	return int(g.maxHostgroup)
}

// MinHostgroup 返回调度器应尽量维持的下限
func (g *HostgroupGate) MinHostgroup() int {
	return int(g.minHostgroup)
}
