/**
 * Agent控制服务
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Master端发送的Agent进程控制命令
 * @func: 占位符实现，待后续完善
 */
package control

import (
	"context"
	"fmt"
	"time"
)

// AgentControlService Agent控制服务接口
type AgentControlService interface {
	// ==================== Agent进程控制（🔴 需要响应Master端命令） ====================
	StartAgent(ctx context.Context) error                    // 启动Agent进程 [响应Master端POST /:id/start]
	StopAgent(ctx context.Context) error                     // 停止Agent进程 [响应Master端POST /:id/stop]
	RestartAgent(ctx context.Context) error                  // 重启Agent进程 [响应Master端POST /:id/restart]
	GetAgentStatus(ctx context.Context) (*AgentStatus, error) // 获取Agent实时状态 [响应Master端GET /:id/status]
	
	// ==================== Agent配置管理（🟡 混合实现 - 接收Master端配置推送） ====================
	ApplyConfig(ctx context.Context, config *AgentConfig) error // 应用Master端推送的配置 [响应Master端PUT /:id/config]
	
	// ==================== Agent通信和控制（🔴 需要响应Master端通信） ====================
	ExecuteCommand(ctx context.Context, command *Command) (*CommandResult, error) // 执行Master端发送的控制命令 [响应Master端POST /:id/command]
	GetCommandStatus(ctx context.Context, cmdID string) (*CommandStatus, error)   // 获取命令执行状态 [响应Master端GET /:id/command/:cmd_id]
	SyncConfig(ctx context.Context) error                                         // 同步配置到Agent [响应Master端POST /:id/sync]
	UpgradeAgent(ctx context.Context, version string) error                       // 升级Agent版本 [响应Master端POST /:id/upgrade]
	ResetConfig(ctx context.Context) error                                        // 重置Agent配置 [响应Master端POST /:id/reset]
}

// agentControlService Agent控制服务实现
type agentControlService struct {
	// TODO: 添加必要的依赖注入
	// logger logger.Logger
	// config *config.Config
}

// NewAgentControlService 创建Agent控制服务实例
func NewAgentControlService() AgentControlService {
	return &agentControlService{
		// TODO: 初始化依赖
	}
}

// ==================== Agent进程控制实现 ====================

// StartAgent 启动Agent进程
func (s *agentControlService) StartAgent(ctx context.Context) error {
	// TODO: 实现Agent进程启动逻辑
	// 1. 检查当前Agent状态
	// 2. 启动必要的服务组件
	// 3. 更新Agent状态为运行中
	// 4. 向Master端报告启动成功
	return fmt.Errorf("StartAgent功能待实现 - 需要实现Agent进程启动逻辑")
}

// StopAgent 停止Agent进程
func (s *agentControlService) StopAgent(ctx context.Context) error {
	// TODO: 实现Agent进程停止逻辑
	// 1. 优雅停止正在执行的任务
	// 2. 关闭服务组件
	// 3. 清理资源
	// 4. 向Master端报告停止状态
	return fmt.Errorf("StopAgent功能待实现 - 需要实现Agent进程停止逻辑")
}

// RestartAgent 重启Agent进程
func (s *agentControlService) RestartAgent(ctx context.Context) error {
	// TODO: 实现Agent进程重启逻辑
	// 1. 先执行停止流程
	// 2. 等待资源清理完成
	// 3. 重新启动Agent进程
	// 4. 向Master端报告重启状态
	return fmt.Errorf("RestartAgent功能待实现 - 需要实现Agent进程重启逻辑")
}

// GetAgentStatus 获取Agent实时状态
func (s *agentControlService) GetAgentStatus(ctx context.Context) (*AgentStatus, error) {
	// TODO: 实现Agent状态获取逻辑
	// 1. 收集系统资源使用情况
	// 2. 获取当前任务执行状态
	// 3. 检查服务组件健康状态
	// 4. 返回完整的Agent状态信息
	return &AgentStatus{
		Status:    "placeholder",
		Message:   "GetAgentStatus功能待实现",
		Timestamp: time.Now(),
	}, nil
}

// ==================== Agent配置管理实现 ====================

// ApplyConfig 应用Master端推送的配置
func (s *agentControlService) ApplyConfig(ctx context.Context, config *AgentConfig) error {
	// TODO: 实现配置应用逻辑
	// 1. 验证配置有效性
	// 2. 备份当前配置
	// 3. 应用新配置
	// 4. 重启相关服务组件
	// 5. 向Master端确认配置应用结果
	return fmt.Errorf("ApplyConfig功能待实现 - 需要实现配置应用逻辑")
}

// ==================== Agent通信和控制实现 ====================

// ExecuteCommand 执行Master端发送的控制命令
func (s *agentControlService) ExecuteCommand(ctx context.Context, command *Command) (*CommandResult, error) {
	// TODO: 实现命令执行逻辑
	// 1. 验证命令权限和有效性
	// 2. 根据命令类型分发到对应处理器
	// 3. 异步执行命令并记录状态
	// 4. 返回命令执行结果
	return &CommandResult{
		CommandID: command.ID,
		Status:    "placeholder",
		Message:   "ExecuteCommand功能待实现",
		Timestamp: time.Now(),
	}, nil
}

// GetCommandStatus 获取命令执行状态
func (s *agentControlService) GetCommandStatus(ctx context.Context, cmdID string) (*CommandStatus, error) {
	// TODO: 实现命令状态查询逻辑
	// 1. 根据命令ID查询执行状态
	// 2. 返回命令执行进度和结果
	return &CommandStatus{
		CommandID: cmdID,
		Status:    "placeholder",
		Message:   "GetCommandStatus功能待实现",
		Timestamp: time.Now(),
	}, nil
}

// SyncConfig 同步配置到Agent
func (s *agentControlService) SyncConfig(ctx context.Context) error {
	// TODO: 实现配置同步逻辑
	// 1. 从Master端拉取最新配置
	// 2. 比较配置差异
	// 3. 应用配置变更
	// 4. 确认同步结果
	return fmt.Errorf("SyncConfig功能待实现 - 需要实现配置同步逻辑")
}

// UpgradeAgent 升级Agent版本
func (s *agentControlService) UpgradeAgent(ctx context.Context, version string) error {
	// TODO: 实现Agent版本升级逻辑
	// 1. 下载新版本文件
	// 2. 验证版本文件完整性
	// 3. 备份当前版本
	// 4. 执行版本升级
	// 5. 重启Agent服务
	return fmt.Errorf("UpgradeAgent功能待实现 - 需要实现版本升级逻辑，目标版本: %s", version)
}

// ResetConfig 重置Agent配置
func (s *agentControlService) ResetConfig(ctx context.Context) error {
	// TODO: 实现配置重置逻辑
	// 1. 停止当前服务
	// 2. 恢复默认配置
	// 3. 清理临时数据
	// 4. 重启服务组件
	return fmt.Errorf("ResetConfig功能待实现 - 需要实现配置重置逻辑")
}

// ==================== 数据模型定义 ====================

// AgentStatus Agent状态信息
type AgentStatus struct {
	Status    string    `json:"status"`     // Agent状态：running, stopped, error
	Message   string    `json:"message"`    // 状态描述信息
	Timestamp time.Time `json:"timestamp"`  // 状态更新时间
	// TODO: 添加更多状态字段
	// CPUUsage    float64 `json:"cpu_usage"`    // CPU使用率
	// MemoryUsage float64 `json:"memory_usage"` // 内存使用率
	// TaskCount   int     `json:"task_count"`   // 当前任务数量
}

// AgentConfig Agent配置信息
type AgentConfig struct {
	ID      string                 `json:"id"`      // 配置ID
	Version string                 `json:"version"` // 配置版本
	Data    map[string]interface{} `json:"data"`    // 配置数据
	// TODO: 定义具体的配置结构
}

// Command Master端发送的控制命令
type Command struct {
	ID        string                 `json:"id"`         // 命令ID
	Type      string                 `json:"type"`       // 命令类型
	Params    map[string]interface{} `json:"params"`     // 命令参数
	Timestamp time.Time              `json:"timestamp"`  // 命令时间戳
}

// CommandResult 命令执行结果
type CommandResult struct {
	CommandID string    `json:"command_id"` // 命令ID
	Status    string    `json:"status"`     // 执行状态：success, failed, running
	Message   string    `json:"message"`    // 结果描述
	Data      any       `json:"data"`       // 结果数据
	Timestamp time.Time `json:"timestamp"`  // 结果时间戳
}

// CommandStatus 命令执行状态
type CommandStatus struct {
	CommandID string    `json:"command_id"` // 命令ID
	Status    string    `json:"status"`     // 执行状态
	Progress  int       `json:"progress"`   // 执行进度（0-100）
	Message   string    `json:"message"`    // 状态描述
	Timestamp time.Time `json:"timestamp"`  // 状态更新时间
}