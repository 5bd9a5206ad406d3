/**
 * Agent监控服务 - 尚未调用
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Agent性能监控、健康检查和指标收集
 * @func: 占位符实现，待后续完善
 */
package monitor

import (
	"context"
	"fmt"
	"time"
)

// AgentMonitorService Agent监控服务接口
type AgentMonitorService interface {
	// ==================== 性能指标收集（✅ Agent端独立实现，定期上报给Master） ====================
	CollectMetrics(ctx context.Context) (*PerformanceMetrics, error)                              // 收集性能指标
	GetCurrentMetrics(ctx context.Context) (*PerformanceMetrics, error)                           // 获取当前性能指标
	GetHistoryMetrics(ctx context.Context, duration time.Duration) ([]*PerformanceMetrics, error) // 获取历史性能指标

	// ==================== 健康检查（🟡 混合实现 - Agent自检 + 响应Master检查） ====================
	HealthCheck(ctx context.Context) (*HealthStatus, error)     // 执行健康检查
	GetHealthStatus(ctx context.Context) (*HealthStatus, error) // 获取健康状态

	// ==================== 监控告警（🔴 需要向Master端上报） ====================
	CheckAlerts(ctx context.Context) ([]*Alert, error)     // 检查告警条件
	SendAlert(ctx context.Context, alert *Alert) error     // 发送告警到Master端
	GetAlertHistory(ctx context.Context) ([]*Alert, error) // 获取告警历史

	// ==================== 日志管理（🟡 混合实现 - Agent收集 + Master查询） ====================
	CollectLogs(ctx context.Context, level string, limit int) ([]string, error) // 收集日志
	GetLogStream(ctx context.Context, follow bool) (<-chan string, error)       // 获取日志流
	RotateLogs(ctx context.Context) error                                       // 轮转日志文件
}

// agentMonitorService Agent监控服务实现
type agentMonitorService struct {
	// TODO: 添加必要的依赖注入
	// logger      logger.Logger
	// config      *config.Config
	// metricsRepo MetricsRepository
	// alertRepo   AlertRepository
}

// NewAgentMonitorService 创建Agent监控服务实例
func NewAgentMonitorService() AgentMonitorService {
	return &agentMonitorService{
		// TODO: 初始化依赖
	}
}

// ==================== 性能指标收集实现 ====================

// CollectMetrics 收集性能指标
func (s *agentMonitorService) CollectMetrics(ctx context.Context) (*PerformanceMetrics, error) {
	// TODO: 实现性能指标收集逻辑
	// 1. 收集系统资源使用情况（CPU、内存、磁盘、网络）
	// 2. 收集Agent运行状态指标
	// 3. 收集任务执行指标
	// 4. 格式化指标数据
	// 5. 保存到本地存储
	// 6. 定期上报给Master端
	return &PerformanceMetrics{
		Timestamp:   time.Now(),
		CPUUsage:    0.0,
		MemoryUsage: 0.0,
		DiskUsage:   0.0,
		NetworkIO:   0,
		TaskCount:   0,
		Status:      "placeholder",
	}, fmt.Errorf("CollectMetrics功能待实现 - 需要实现性能指标收集逻辑")
}

// GetCurrentMetrics 获取当前性能指标
func (s *agentMonitorService) GetCurrentMetrics(ctx context.Context) (*PerformanceMetrics, error) {
	// TODO: 实现当前指标获取逻辑
	// 1. 实时收集当前系统指标
	// 2. 返回最新的性能数据
	return s.CollectMetrics(ctx)
}

// GetHistoryMetrics 获取历史性能指标
func (s *agentMonitorService) GetHistoryMetrics(ctx context.Context, duration time.Duration) ([]*PerformanceMetrics, error) {
	// TODO: 实现历史指标获取逻辑
	// 1. 根据时间范围查询历史指标
	// 2. 过滤和聚合数据
	// 3. 返回历史指标列表
	return []*PerformanceMetrics{
		{
			Timestamp:   time.Now().Add(-duration),
			CPUUsage:    0.0,
			MemoryUsage: 0.0,
			Status:      "placeholder",
		},
	}, fmt.Errorf("GetHistoryMetrics功能待实现 - 需要实现历史指标获取逻辑，时间范围: %v", duration)
}

// ==================== 健康检查实现 ====================

// HealthCheck 执行健康检查
func (s *agentMonitorService) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	// TODO: 实现健康检查逻辑
	// 1. 检查系统资源状态
	// 2. 检查服务组件状态
	// 3. 检查网络连接状态
	// 4. 检查存储空间状态
	// 5. 汇总健康状态
	return &HealthStatus{
		Status:    "placeholder",
		Message:   "HealthCheck功能待实现",
		Timestamp: time.Now(),
		Checks: map[string]string{
			"system":  "placeholder",
			"network": "placeholder",
			"storage": "placeholder",
		},
	}, nil
}

// GetHealthStatus 获取健康状态
func (s *agentMonitorService) GetHealthStatus(ctx context.Context) (*HealthStatus, error) {
	// TODO: 实现健康状态获取逻辑
	// 1. 获取缓存的健康状态
	// 2. 如果缓存过期，执行新的健康检查
	// 3. 返回健康状态信息
	return s.HealthCheck(ctx)
}

// ==================== 监控告警实现 ====================

// CheckAlerts 检查告警条件
func (s *agentMonitorService) CheckAlerts(ctx context.Context) ([]*Alert, error) {
	// TODO: 实现告警检查逻辑
	// 1. 获取当前性能指标
	// 2. 根据告警规则检查阈值
	// 3. 生成告警信息
	// 4. 返回触发的告警列表
	return []*Alert{
		{
			ID:        "placeholder-alert-1",
			Type:      "system",
			Level:     "info",
			Message:   "CheckAlerts功能待实现",
			Timestamp: time.Now(),
		},
	}, nil
}

// SendAlert 发送告警到Master端
func (s *agentMonitorService) SendAlert(ctx context.Context, alert *Alert) error {
	// TODO: 实现告警发送逻辑
	// 1. 格式化告警信息
	// 2. 通过gRPC或HTTP发送到Master端
	// 3. 处理发送结果
	// 4. 记录发送状态
	return fmt.Errorf("SendAlert功能待实现 - 需要实现告警发送逻辑，告警ID: %s", alert.ID)
}

// GetAlertHistory 获取告警历史
func (s *agentMonitorService) GetAlertHistory(ctx context.Context) ([]*Alert, error) {
	// TODO: 实现告警历史获取逻辑
	// 1. 从本地存储查询告警历史
	// 2. 按时间排序
	// 3. 返回告警历史列表
	return []*Alert{
		{
			ID:        "history-alert-1",
			Type:      "system",
			Level:     "info",
			Message:   "GetAlertHistory功能待实现",
			Timestamp: time.Now().Add(-time.Hour),
		},
	}, nil
}

// ==================== 日志管理实现 ====================

// CollectLogs 收集日志
func (s *agentMonitorService) CollectLogs(ctx context.Context, level string, limit int) ([]string, error) {
	// TODO: 实现日志收集逻辑
	// 1. 读取日志文件
	// 2. 根据级别过滤日志
	// 3. 限制返回数量
	// 4. 返回日志行数组
	return []string{
		"CollectLogs功能待实现 - 需要实现日志收集逻辑",
		fmt.Sprintf("日志级别: %s, 限制数量: %d", level, limit),
	}, nil
}

// GetLogStream 获取日志流
func (s *agentMonitorService) GetLogStream(ctx context.Context, follow bool) (<-chan string, error) {
	// TODO: 实现日志流获取逻辑
	// 1. 创建日志流通道
	// 2. 启动日志读取协程
	// 3. 实时推送日志内容
	// 4. 处理follow模式
	logChan := make(chan string, 100)

	// 占位符实现
	go func() {
		defer close(logChan)
		logChan <- "GetLogStream功能待实现 - 需要实现日志流获取逻辑"
		logChan <- fmt.Sprintf("Follow模式: %v", follow)
	}()

	return logChan, nil
}

// RotateLogs 轮转日志文件
func (s *agentMonitorService) RotateLogs(ctx context.Context) error {
	// TODO: 实现日志轮转逻辑
	// 1. 检查日志文件大小
	// 2. 备份当前日志文件
	// 3. 创建新的日志文件
	// 4. 清理过期的日志文件
	return fmt.Errorf("RotateLogs功能待实现 - 需要实现日志轮转逻辑")
}

// ==================== 数据模型定义 ====================

// PerformanceMetrics 性能指标
type PerformanceMetrics struct {
	Timestamp   time.Time `json:"timestamp"`    // 指标时间戳
	CPUUsage    float64   `json:"cpu_usage"`    // CPU使用率（0-100）
	MemoryUsage float64   `json:"memory_usage"` // 内存使用率（0-100）
	DiskUsage   float64   `json:"disk_usage"`   // 磁盘使用率（0-100）
	NetworkIO   int64     `json:"network_io"`   // 网络IO字节数
	TaskCount   int       `json:"task_count"`   // 当前任务数量
	Status      string    `json:"status"`       // Agent状态
	// TODO: 添加更多指标字段
	// LoadAverage []float64 `json:"load_average"` // 系统负载
	// Uptime      int64     `json:"uptime"`       // 运行时间
	// Version     string    `json:"version"`      // Agent版本
}

// HealthStatus 健康状态
type HealthStatus struct {
	Status    string            `json:"status"`    // 健康状态：healthy, warning, critical
	Message   string            `json:"message"`   // 状态描述
	Timestamp time.Time         `json:"timestamp"` // 检查时间
	Checks    map[string]string `json:"checks"`    // 各项检查结果
	// TODO: 添加更多健康检查字段
	// Score     int               `json:"score"`     // 健康评分（0-100）
	// Issues    []string          `json:"issues"`    // 发现的问题
}

// Alert 告警信息
type Alert struct {
	ID        string    `json:"id"`        // 告警ID
	Type      string    `json:"type"`      // 告警类型：system, task, network等
	Level     string    `json:"level"`     // 告警级别：info, warning, error, critical
	Message   string    `json:"message"`   // 告警消息
	Data      any       `json:"data"`      // 告警数据
	Timestamp time.Time `json:"timestamp"` // 告警时间
	// TODO: 添加更多告警字段
	// Source    string    `json:"source"`    // 告警源
	// Resolved  bool      `json:"resolved"`  // 是否已解决
	// ResolvedAt *time.Time `json:"resolved_at"` // 解决时间
}
