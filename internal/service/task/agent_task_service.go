/**
 * Agent任务管理服务
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Master端发送的任务管理命令和本地任务执行
 * @func: 占位符实现，待后续完善
 */
package task

import (
	"context"
	"fmt"
	"time"
)

// AgentTaskService Agent任务管理服务接口
type AgentTaskService interface {
	// ==================== Agent任务管理（🔴 需要响应Master端命令） ====================
	GetTaskList(ctx context.Context) ([]*Task, error)                    // 获取Agent任务列表 [响应Master端GET /:id/tasks]
	CreateTask(ctx context.Context, task *Task) (*Task, error)           // 创建新任务 [响应Master端POST /:id/tasks]
	GetTask(ctx context.Context, taskID string) (*Task, error)           // 获取特定任务信息 [响应Master端GET /:id/tasks/:task_id]
	DeleteTask(ctx context.Context, taskID string) error                 // 删除任务 [响应Master端DELETE /:id/tasks/:task_id]
	
	// ==================== 任务执行控制 ====================
	StartTask(ctx context.Context, taskID string) error                  // 启动任务执行
	StopTask(ctx context.Context, taskID string) error                   // 停止任务执行
	PauseTask(ctx context.Context, taskID string) error                  // 暂停任务执行
	ResumeTask(ctx context.Context, taskID string) error                 // 恢复任务执行
	GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) // 获取任务执行状态
	
	// ==================== 任务结果管理 ====================
	GetTaskResult(ctx context.Context, taskID string) (*TaskResult, error) // 获取任务执行结果
	GetTaskLog(ctx context.Context, taskID string) ([]string, error)       // 获取任务执行日志
	CleanupTask(ctx context.Context, taskID string) error                  // 清理任务资源
}

// agentTaskService Agent任务管理服务实现
type agentTaskService struct {
	// TODO: 添加必要的依赖注入
	// logger    logger.Logger
	// config    *config.Config
	// executor  TaskExecutor
	// storage   TaskStorage
}

// NewAgentTaskService 创建Agent任务管理服务实例
func NewAgentTaskService() AgentTaskService {
	return &agentTaskService{
		// TODO: 初始化依赖
	}
}

// ==================== Agent任务管理实现 ====================

// GetTaskList 获取Agent任务列表
func (s *agentTaskService) GetTaskList(ctx context.Context) ([]*Task, error) {
	// TODO: 实现任务列表获取逻辑
	// 1. 从本地存储获取任务列表
	// 2. 过滤和排序任务
	// 3. 返回任务基本信息
	return []*Task{
		{
			ID:        "placeholder-task-1",
			Name:      "示例任务1",
			Type:      "scan",
			Status:    "pending",
			CreatedAt: time.Now(),
		},
	}, nil
}

// CreateTask 创建新任务
func (s *agentTaskService) CreateTask(ctx context.Context, task *Task) (*Task, error) {
	// TODO: 实现任务创建逻辑
	// 1. 验证任务参数有效性
	// 2. 分配任务ID和资源
	// 3. 保存任务到本地存储
	// 4. 初始化任务执行环境
	// 5. 返回创建的任务信息
	task.ID = fmt.Sprintf("task-%d", time.Now().Unix())
	task.Status = "created"
	task.CreatedAt = time.Now()
	
	return task, fmt.Errorf("CreateTask功能待实现 - 需要实现任务创建逻辑")
}

// GetTask 获取特定任务信息
func (s *agentTaskService) GetTask(ctx context.Context, taskID string) (*Task, error) {
	// TODO: 实现任务信息获取逻辑
	// 1. 根据任务ID查询任务信息
	// 2. 获取任务执行状态和进度
	// 3. 返回完整的任务信息
	return &Task{
		ID:        taskID,
		Name:      "示例任务",
		Type:      "scan",
		Status:    "placeholder",
		CreatedAt: time.Now(),
	}, fmt.Errorf("GetTask功能待实现 - 需要实现任务信息获取逻辑，任务ID: %s", taskID)
}

// DeleteTask 删除任务
func (s *agentTaskService) DeleteTask(ctx context.Context, taskID string) error {
	// TODO: 实现任务删除逻辑
	// 1. 检查任务是否可以删除（未在执行中）
	// 2. 停止任务执行（如果正在运行）
	// 3. 清理任务相关资源
	// 4. 从存储中删除任务记录
	return fmt.Errorf("DeleteTask功能待实现 - 需要实现任务删除逻辑，任务ID: %s", taskID)
}

// ==================== 任务执行控制实现 ====================

// StartTask 启动任务执行
func (s *agentTaskService) StartTask(ctx context.Context, taskID string) error {
	// TODO: 实现任务启动逻辑
	// 1. 验证任务状态是否可启动
	// 2. 分配执行资源
	// 3. 启动任务执行器
	// 4. 更新任务状态为运行中
	// 5. 开始监控任务执行
	return fmt.Errorf("StartTask功能待实现 - 需要实现任务启动逻辑，任务ID: %s", taskID)
}

// StopTask 停止任务执行
func (s *agentTaskService) StopTask(ctx context.Context, taskID string) error {
	// TODO: 实现任务停止逻辑
	// 1. 发送停止信号给任务执行器
	// 2. 等待任务优雅停止
	// 3. 强制终止（如果超时）
	// 4. 清理执行资源
	// 5. 更新任务状态为已停止
	return fmt.Errorf("StopTask功能待实现 - 需要实现任务停止逻辑，任务ID: %s", taskID)
}

// PauseTask 暂停任务执行
func (s *agentTaskService) PauseTask(ctx context.Context, taskID string) error {
	// TODO: 实现任务暂停逻辑
	// 1. 发送暂停信号给任务执行器
	// 2. 保存当前执行状态
	// 3. 释放部分资源
	// 4. 更新任务状态为已暂停
	return fmt.Errorf("PauseTask功能待实现 - 需要实现任务暂停逻辑，任务ID: %s", taskID)
}

// ResumeTask 恢复任务执行
func (s *agentTaskService) ResumeTask(ctx context.Context, taskID string) error {
	// TODO: 实现任务恢复逻辑
	// 1. 验证任务是否处于暂停状态
	// 2. 恢复执行环境和资源
	// 3. 从暂停点继续执行
	// 4. 更新任务状态为运行中
	return fmt.Errorf("ResumeTask功能待实现 - 需要实现任务恢复逻辑，任务ID: %s", taskID)
}

// GetTaskStatus 获取任务执行状态
func (s *agentTaskService) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	// TODO: 实现任务状态获取逻辑
	// 1. 查询任务当前执行状态
	// 2. 获取执行进度信息
	// 3. 收集性能指标
	// 4. 返回完整的状态信息
	return &TaskStatus{
		TaskID:    taskID,
		Status:    "placeholder",
		Progress:  0,
		Message:   "GetTaskStatus功能待实现",
		Timestamp: time.Now(),
	}, nil
}

// ==================== 任务结果管理实现 ====================

// GetTaskResult 获取任务执行结果
func (s *agentTaskService) GetTaskResult(ctx context.Context, taskID string) (*TaskResult, error) {
	// TODO: 实现任务结果获取逻辑
	// 1. 查询任务执行结果
	// 2. 格式化结果数据
	// 3. 返回结果信息
	return &TaskResult{
		TaskID:    taskID,
		Status:    "placeholder",
		Message:   "GetTaskResult功能待实现",
		Timestamp: time.Now(),
	}, nil
}

// GetTaskLog 获取任务执行日志
func (s *agentTaskService) GetTaskLog(ctx context.Context, taskID string) ([]string, error) {
	// TODO: 实现任务日志获取逻辑
	// 1. 读取任务执行日志文件
	// 2. 过滤和格式化日志内容
	// 3. 返回日志行数组
	return []string{
		"GetTaskLog功能待实现 - 需要实现任务日志获取逻辑",
		fmt.Sprintf("任务ID: %s", taskID),
	}, nil
}

// CleanupTask 清理任务资源
func (s *agentTaskService) CleanupTask(ctx context.Context, taskID string) error {
	// TODO: 实现任务资源清理逻辑
	// 1. 清理任务临时文件
	// 2. 释放分配的资源
	// 3. 清理执行环境
	// 4. 更新任务状态
	return fmt.Errorf("CleanupTask功能待实现 - 需要实现任务资源清理逻辑，任务ID: %s", taskID)
}

// ==================== 数据模型定义 ====================

// Task 任务信息
type Task struct {
	ID          string                 `json:"id"`           // 任务ID
	Name        string                 `json:"name"`         // 任务名称
	Type        string                 `json:"type"`         // 任务类型：scan, monitor, update等
	Status      string                 `json:"status"`       // 任务状态：pending, running, completed, failed, paused
	Priority    int                    `json:"priority"`     // 任务优先级
	Config      map[string]interface{} `json:"config"`       // 任务配置参数
	CreatedAt   time.Time              `json:"created_at"`   // 创建时间
	StartedAt   *time.Time             `json:"started_at"`   // 开始时间
	CompletedAt *time.Time             `json:"completed_at"` // 完成时间
	// TODO: 添加更多任务字段
	// Target      string    `json:"target"`       // 扫描目标
	// Progress    int       `json:"progress"`     // 执行进度
	// ErrorMsg    string    `json:"error_msg"`    // 错误信息
}

// TaskStatus 任务执行状态
type TaskStatus struct {
	TaskID    string    `json:"task_id"`   // 任务ID
	Status    string    `json:"status"`    // 执行状态
	Progress  int       `json:"progress"`  // 执行进度（0-100）
	Message   string    `json:"message"`   // 状态描述
	Timestamp time.Time `json:"timestamp"` // 状态更新时间
	// TODO: 添加更多状态字段
	// CPUUsage    float64 `json:"cpu_usage"`    // CPU使用率
	// MemoryUsage float64 `json:"memory_usage"` // 内存使用率
	// NetworkIO   int64   `json:"network_io"`   // 网络IO
}

// TaskResult 任务执行结果
type TaskResult struct {
	TaskID    string    `json:"task_id"`   // 任务ID
	Status    string    `json:"status"`    // 执行状态：success, failed
	Message   string    `json:"message"`   // 结果描述
	Data      any       `json:"data"`      // 结果数据
	Timestamp time.Time `json:"timestamp"` // 结果时间戳
	// TODO: 添加更多结果字段
	// Duration    time.Duration `json:"duration"`     // 执行耗时
	// ResultCount int           `json:"result_count"` // 结果数量
	// ErrorCount  int           `json:"error_count"`  // 错误数量
}