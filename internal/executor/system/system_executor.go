/**
 * 系统通用执行器
 * @author: sun977
 * @date: 2025.10.21
 * @description: 系统通用执行器实现，支持通用命令执行和系统操作
 * @func: 占位符实现，待后续完善
 */
package system

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"prtip/internal/executor/base"
)

// SystemExecutor 系统通用执行器
type SystemExecutor struct {
	config     *base.ExecutorConfig
	status     *base.ExecutorStatus
	tasks      map[string]*base.Task
	tasksMutex sync.RWMutex
	running    bool
	startTime  time.Time
	metrics    *base.ExecutorMetrics

	// 任务管理
	taskQueue   chan *base.Task
	cancelFuncs map[string]context.CancelFunc
	cancelMutex sync.RWMutex
}

// NewSystemExecutor 创建系统执行器实例
func NewSystemExecutor() base.Executor {
	return &SystemExecutor{
		tasks:       make(map[string]*base.Task),
		taskQueue:   make(chan *base.Task, 100),
		cancelFuncs: make(map[string]context.CancelFunc),
		metrics: &base.ExecutorMetrics{
			Timestamp: time.Now(),
		},
	}
}

// ==================== 基础信息实现 ====================

// GetType 获取执行器类型
func (e *SystemExecutor) GetType() base.ExecutorType {
	return base.ExecutorTypeSystem
}

// GetName 获取执行器名称
func (e *SystemExecutor) GetName() string {
	return "System Executor"
}

// GetVersion 获取执行器版本
func (e *SystemExecutor) GetVersion() string {
	return "1.0.0"
}

// GetDescription 获取执行器描述
func (e *SystemExecutor) GetDescription() string {
	return "系统通用执行器，支持通用命令执行和系统操作"
}

// GetCapabilities 获取执行器能力列表
func (e *SystemExecutor) GetCapabilities() []string {
	return []string{
		"command_execution",   // 命令执行
		"file_operations",     // 文件操作
		"process_management",  // 进程管理
		"system_monitoring",   // 系统监控
		"resource_management", // 资源管理
		"log_collection",      // 日志收集
	}
}

// ==================== 生命周期管理实现 ====================

// Initialize 初始化执行器
func (e *SystemExecutor) Initialize(config *base.ExecutorConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	// TODO: 实现执行器初始化逻辑
	// 1. 验证配置
	// 2. 初始化工作目录
	// 3. 设置资源限制
	// 4. 初始化日志
	// 5. 初始化指标收集

	e.config = config
	e.status = &base.ExecutorStatus{
		Type:      base.ExecutorTypeSystem,
		Name:      e.GetName(),
		Status:    "initialized",
		IsRunning: false,
		Timestamp: time.Now(),
	}

	return nil
}

// Start 启动执行器
func (e *SystemExecutor) Start() error {
	if e.running {
		return fmt.Errorf("executor is already running")
	}

	// TODO: 实现执行器启动逻辑
	// 1. 启动任务处理goroutine
	// 2. 启动指标收集goroutine
	// 3. 启动健康检查goroutine
	// 4. 更新状态

	e.running = true
	e.startTime = time.Now()

	// 启动任务处理器
	go e.taskProcessor()

	// 更新状态
	e.status.Status = "running"
	e.status.IsRunning = true
	e.status.StartTime = e.startTime
	e.status.Timestamp = time.Now()

	return nil
}

// Stop 停止执行器
func (e *SystemExecutor) Stop() error {
	if !e.running {
		return fmt.Errorf("executor is not running")
	}

	// TODO: 实现执行器停止逻辑
	// 1. 停止接收新任务
	// 2. 等待当前任务完成或取消
	// 3. 清理资源
	// 4. 更新状态

	e.running = false

	// 取消所有运行中的任务
	e.cancelMutex.Lock()
	for taskID, cancelFunc := range e.cancelFuncs {
		cancelFunc()
		delete(e.cancelFuncs, taskID)
	}
	e.cancelMutex.Unlock()

	// 关闭任务队列
	close(e.taskQueue)

	// 更新状态
	e.status.Status = "stopped"
	e.status.IsRunning = false
	e.status.Timestamp = time.Now()

	return nil
}

// Restart 重启执行器
func (e *SystemExecutor) Restart() error {
	if err := e.Stop(); err != nil {
		return fmt.Errorf("stop executor: %w", err)
	}

	// 等待一段时间确保完全停止
	time.Sleep(1 * time.Second)

	if err := e.Start(); err != nil {
		return fmt.Errorf("start executor: %w", err)
	}

	return nil
}

// IsRunning 检查执行器是否运行中
func (e *SystemExecutor) IsRunning() bool {
	return e.running
}

// GetStatus 获取执行器状态
func (e *SystemExecutor) GetStatus() *base.ExecutorStatus {
	e.status.Timestamp = time.Now()
	if e.running {
		e.status.Uptime = time.Since(e.startTime)
	}

	// 更新任务统计
	e.tasksMutex.RLock()
	e.status.TaskCount = len(e.tasks)
	e.tasksMutex.RUnlock()

	return e.status
}

// ==================== 任务执行实现 ====================

// Execute 执行任务
func (e *SystemExecutor) Execute(ctx context.Context, task *base.Task) (*base.TaskResult, error) {
	if !e.running {
		return nil, fmt.Errorf("executor is not running")
	}

	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	// TODO: 实现任务执行逻辑
	// 1. 验证任务
	// 2. 准备执行环境
	// 3. 执行任务
	// 4. 收集结果
	// 5. 清理资源

	// 设置任务状态
	task.Status = base.TaskStatusRunning
	task.StartTime = time.Now()
	task.UpdatedAt = time.Now()

	// 保存任务
	e.tasksMutex.Lock()
	e.tasks[task.ID] = task
	e.tasksMutex.Unlock()

	// 创建取消上下文
	taskCtx, cancel := context.WithCancel(ctx)
	e.cancelMutex.Lock()
	e.cancelFuncs[task.ID] = cancel
	e.cancelMutex.Unlock()

	// 执行任务
	result := &base.TaskResult{
		TaskID:    task.ID,
		StartTime: task.StartTime,
		Timestamp: time.Now(),
	}

	// 占位符实现 - 模拟命令执行
	if err := e.executeSystemCommand(taskCtx, task, result); err != nil {
		result.Status = base.TaskStatusFailed
		result.Success = false
		result.Error = err.Error()
	} else {
		result.Status = base.TaskStatusCompleted
		result.Success = true
	}

	// 更新任务状态
	task.Status = result.Status
	task.EndTime = time.Now()
	task.UpdatedAt = time.Now()
	result.EndTime = task.EndTime
	result.Duration = task.EndTime.Sub(task.StartTime)

	// 清理取消函数
	e.cancelMutex.Lock()
	delete(e.cancelFuncs, task.ID)
	e.cancelMutex.Unlock()

	// 更新指标
	e.updateMetrics(result)

	return result, nil
}

// executeSystemCommand 执行系统命令
func (e *SystemExecutor) executeSystemCommand(ctx context.Context, task *base.Task, result *base.TaskResult) error {
	// TODO: 实现具体的系统命令执行逻辑
	// 1. 解析任务配置
	// 2. 构建命令
	// 3. 执行命令
	// 4. 收集输出
	// 5. 处理结果

	// 占位符实现
	command, ok := task.Config["command"].(string)
	if !ok {
		return fmt.Errorf("missing or invalid command in task config")
	}

	// 创建命令
	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	// 执行命令
	output, err := cmd.CombinedOutput()
	if err != nil {
		result.Error = err.Error()
		result.Logs = []string{string(output)}
		return err
	}

	// 设置结果
	result.Output = &base.TaskOutput{
		Results: []base.ScanResult{
			{
				Target:    "system",
				Extra:     map[string]interface{}{"output": string(output)},
				Timestamp: time.Now(),
			},
		},
		Summary: &base.ScanSummary{
			TotalTargets:   1,
			ScannedTargets: 1,
			Duration:       result.Duration,
			StartTime:      result.StartTime,
			EndTime:        result.EndTime,
		},
	}

	result.Logs = []string{string(output)}

	return nil
}

// Cancel 取消任务
func (e *SystemExecutor) Cancel(taskID string) error {
	e.cancelMutex.Lock()
	defer e.cancelMutex.Unlock()

	cancelFunc, exists := e.cancelFuncs[taskID]
	if !exists {
		return fmt.Errorf("task %s not found or not running", taskID)
	}

	// 取消任务
	cancelFunc()

	// 更新任务状态
	e.tasksMutex.Lock()
	if task, exists := e.tasks[taskID]; exists {
		task.Status = base.TaskStatusCanceled
		task.EndTime = time.Now()
		task.UpdatedAt = time.Now()
	}
	e.tasksMutex.Unlock()

	return nil
}

// Pause 暂停任务
func (e *SystemExecutor) Pause(taskID string) error {
	// TODO: 实现任务暂停逻辑
	// 系统执行器可能不支持暂停，返回不支持错误
	return fmt.Errorf("pause operation not supported by system executor")
}

// Resume 恢复任务
func (e *SystemExecutor) Resume(taskID string) error {
	// TODO: 实现任务恢复逻辑
	// 系统执行器可能不支持恢复，返回不支持错误
	return fmt.Errorf("resume operation not supported by system executor")
}

// ==================== 任务管理实现 ====================

// GetTask 获取任务信息
func (e *SystemExecutor) GetTask(taskID string) (*base.Task, error) {
	e.tasksMutex.RLock()
	defer e.tasksMutex.RUnlock()

	task, exists := e.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task %s not found", taskID)
	}

	return task, nil
}

// GetTasks 获取所有任务
func (e *SystemExecutor) GetTasks() ([]*base.Task, error) {
	e.tasksMutex.RLock()
	defer e.tasksMutex.RUnlock()

	tasks := make([]*base.Task, 0, len(e.tasks))
	for _, task := range e.tasks {
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// GetTaskStatus 获取任务状态
func (e *SystemExecutor) GetTaskStatus(taskID string) (base.TaskStatus, error) {
	task, err := e.GetTask(taskID)
	if err != nil {
		return "", err
	}

	return task.Status, nil
}

// GetTaskResult 获取任务结果
func (e *SystemExecutor) GetTaskResult(taskID string) (*base.TaskResult, error) {
	// TODO: 实现任务结果获取逻辑
	// 1. 查找任务
	// 2. 检查任务状态
	// 3. 返回结果

	task, err := e.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	// 占位符实现
	result := &base.TaskResult{
		TaskID:    task.ID,
		Status:    task.Status,
		Success:   task.Status == base.TaskStatusCompleted,
		Output:    task.Output,
		Error:     task.ErrorMessage,
		Logs:      task.Logs,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
		Duration:  task.EndTime.Sub(task.StartTime),
		Timestamp: time.Now(),
	}

	return result, nil
}

// GetTaskLogs 获取任务日志
func (e *SystemExecutor) GetTaskLogs(taskID string) ([]string, error) {
	task, err := e.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	return task.Logs, nil
}

// ==================== 配置管理实现 ====================

// UpdateConfig 更新配置
func (e *SystemExecutor) UpdateConfig(config *base.ExecutorConfig) error {
	if err := e.ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.config = config
	e.config.UpdatedAt = time.Now()

	return nil
}

// GetConfig 获取当前配置
func (e *SystemExecutor) GetConfig() *base.ExecutorConfig {
	return e.config
}

// ValidateConfig 验证配置
func (e *SystemExecutor) ValidateConfig(config *base.ExecutorConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.Type != base.ExecutorTypeSystem {
		return fmt.Errorf("invalid executor type: %s", config.Type)
	}

	if config.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be greater than 0")
	}

	if config.TaskTimeout <= 0 {
		return fmt.Errorf("task_timeout must be greater than 0")
	}

	return nil
}

// ==================== 健康检查实现 ====================

// HealthCheck 健康检查
func (e *SystemExecutor) HealthCheck() *base.HealthStatus {
	checks := make(map[string]base.CheckResult)
	isHealthy := true

	// 检查执行器状态
	checks["executor_status"] = base.CheckResult{
		Name:      "Executor Status",
		Status:    "ok",
		Message:   fmt.Sprintf("Executor is %s", e.status.Status),
		Timestamp: time.Now(),
	}

	// 检查任务队列
	queueSize := len(e.taskQueue)
	if queueSize > 80 { // 队列使用率超过80%
		checks["task_queue"] = base.CheckResult{
			Name:      "Task Queue",
			Status:    "warning",
			Message:   fmt.Sprintf("Queue size: %d (high)", queueSize),
			Timestamp: time.Now(),
		}
	} else {
		checks["task_queue"] = base.CheckResult{
			Name:      "Task Queue",
			Status:    "ok",
			Message:   fmt.Sprintf("Queue size: %d", queueSize),
			Timestamp: time.Now(),
		}
	}

	// 检查资源使用
	// TODO: 实现资源使用检查
	checks["resource_usage"] = base.CheckResult{
		Name:      "Resource Usage",
		Status:    "ok",
		Message:   "Resource usage within limits",
		Timestamp: time.Now(),
	}

	// 判断整体健康状态
	for _, check := range checks {
		if check.Status == "error" {
			isHealthy = false
			break
		}
	}

	status := "healthy"
	if !isHealthy {
		status = "unhealthy"
	}

	return &base.HealthStatus{
		IsHealthy: isHealthy,
		Status:    status,
		Checks:    checks,
		LastCheck: time.Now(),
	}
}

// GetMetrics 获取执行器指标
func (e *SystemExecutor) GetMetrics() *base.ExecutorMetrics {
	e.metrics.Timestamp = time.Now()
	return e.metrics
}

// ==================== 资源管理实现 ====================

// GetResourceUsage 获取资源使用情况
func (e *SystemExecutor) GetResourceUsage() *base.ResourceUsage {
	// TODO: 实现资源使用情况收集
	// 1. 收集CPU使用率
	// 2. 收集内存使用量
	// 3. 收集磁盘使用量
	// 4. 收集网络使用量
	// 5. 收集进程/线程数量

	// 占位符实现
	return &base.ResourceUsage{
		CPUUsage:     0.0,
		MemoryUsage:  0,
		DiskUsage:    0,
		NetworkUsage: 0,
		FileCount:    0,
		ProcessCount: 1,
		ThreadCount:  1,
		Timestamp:    time.Now(),
	}
}

// CleanupResources 清理资源
func (e *SystemExecutor) CleanupResources() error {
	// TODO: 实现资源清理逻辑
	// 1. 清理临时文件
	// 2. 关闭文件句柄
	// 3. 释放内存
	// 4. 清理日志文件

	// 清理已完成的任务
	e.tasksMutex.Lock()
	for taskID, task := range e.tasks {
		if task.Status == base.TaskStatusCompleted ||
			task.Status == base.TaskStatusFailed ||
			task.Status == base.TaskStatusCanceled {
			delete(e.tasks, taskID)
		}
	}
	e.tasksMutex.Unlock()

	return nil
}

// ==================== 内部方法 ====================

// taskProcessor 任务处理器
func (e *SystemExecutor) taskProcessor() {
	for task := range e.taskQueue {
		if !e.running {
			break
		}

		// 处理任务
		go func(t *base.Task) {
			ctx := context.Background()
			if t.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, t.Timeout)
				defer cancel()
			}

			_, err := e.Execute(ctx, t)
			if err != nil {
				// 记录错误
				t.ErrorMessage = err.Error()
				t.Status = base.TaskStatusFailed
			}
		}(task)
	}
}

// updateMetrics 更新指标
func (e *SystemExecutor) updateMetrics(result *base.TaskResult) {
	e.metrics.TasksTotal++

	if result.Success {
		e.metrics.TasksCompleted++
	} else {
		e.metrics.TasksFailed++
	}

	// 计算平均任务时间
	if e.metrics.TasksTotal > 0 {
		totalTime := e.metrics.AverageTaskTime * time.Duration(e.metrics.TasksTotal-1)
		e.metrics.AverageTaskTime = (totalTime + result.Duration) / time.Duration(e.metrics.TasksTotal)
	} else {
		e.metrics.AverageTaskTime = result.Duration
	}

	// 计算错误率
	if e.metrics.TasksTotal > 0 {
		e.metrics.ErrorRate = float64(e.metrics.TasksFailed) / float64(e.metrics.TasksTotal)
	}

	e.metrics.Timestamp = time.Now()
}
