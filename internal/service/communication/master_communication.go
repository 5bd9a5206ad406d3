/**
 * Master通信服务
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Agent与Master端的通信，包括注册、心跳、数据上报等
 * @func: 占位符实现，待后续完善
 */
package communication

import (
	"context"
	"fmt"
	"time"
)

// MasterCommunicationService Master通信服务接口
type MasterCommunicationService interface {
	// ==================== Agent注册和认证 ====================
	RegisterToMaster(ctx context.Context, info *AgentInfo) error    // 向Master注册Agent
	UnregisterFromMaster(ctx context.Context) error                 // 从Master注销Agent
	AuthenticateWithMaster(ctx context.Context, token string) error // 与Master进行认证

	// ==================== 心跳和状态同步 ====================
	SendHeartbeat(ctx context.Context) error                   // 发送心跳到Master
	SyncStatus(ctx context.Context, status *AgentStatus) error // 同步Agent状态到Master

	// ==================== 数据上报 ====================
	ReportMetrics(ctx context.Context, metrics *PerformanceMetrics) error // 上报性能指标
	ReportTaskResult(ctx context.Context, result *TaskResult) error       // 上报任务执行结果
	ReportAlert(ctx context.Context, alert *Alert) error                  // 上报告警信息

	// ==================== 配置同步 ====================
	FetchConfig(ctx context.Context) (*AgentConfig, error) // 从Master获取配置
	SyncConfigFromMaster(ctx context.Context) error        // 同步Master端配置

	// ==================== 命令接收和响应 ====================
	ReceiveCommands(ctx context.Context) (<-chan *Command, error)             // 接收Master端命令
	SendCommandResponse(ctx context.Context, response *CommandResponse) error // 发送命令执行响应

	// ==================== 连接管理 ====================
	Connect(ctx context.Context) error    // 连接到Master
	Disconnect(ctx context.Context) error // 断开与Master的连接
	IsConnected() bool                    // 检查连接状态
	Reconnect(ctx context.Context) error  // 重新连接Master
}

// masterCommunicationService Master通信服务实现
type masterCommunicationService struct {
	// TODO: 添加必要的依赖注入
	// logger     logger.Logger
	// config     *config.Config
	// grpcClient MasterGRPCClient
	// httpClient MasterHTTPClient
	// connected  bool
	// masterAddr string
}

// NewMasterCommunicationService 创建Master通信服务实例
func NewMasterCommunicationService() MasterCommunicationService {
	return &masterCommunicationService{
		// TODO: 初始化依赖
	}
}

// ==================== Agent注册和认证实现 ====================

// RegisterToMaster 向Master注册Agent
func (s *masterCommunicationService) RegisterToMaster(ctx context.Context, info *AgentInfo) error {
	// TODO: 实现Agent注册逻辑
	// 1. 准备Agent基本信息（ID、版本、能力等）
	// 2. 通过gRPC或HTTP向Master发送注册请求
	// 3. 处理Master的注册响应
	// 4. 保存注册凭证和配置
	// 5. 启动心跳机制
	return fmt.Errorf("RegisterToMaster功能待实现 - 需要实现Agent注册逻辑，Agent ID: %s", info.ID)
}

// UnregisterFromMaster 从Master注销Agent
func (s *masterCommunicationService) UnregisterFromMaster(ctx context.Context) error {
	// TODO: 实现Agent注销逻辑
	// 1. 向Master发送注销请求
	// 2. 停止心跳机制
	// 3. 清理注册信息
	// 4. 断开连接
	return fmt.Errorf("UnregisterFromMaster功能待实现 - 需要实现Agent注销逻辑")
}

// AuthenticateWithMaster 与Master进行认证
func (s *masterCommunicationService) AuthenticateWithMaster(ctx context.Context, token string) error {
	// TODO: 实现认证逻辑
	// 1. 使用提供的token向Master进行认证
	// 2. 验证认证结果
	// 3. 保存认证凭证
	// 4. 更新连接状态
	return fmt.Errorf("AuthenticateWithMaster功能待实现 - 需要实现认证逻辑")
}

// ==================== 心跳和状态同步实现 ====================

// SendHeartbeat 发送心跳到Master
func (s *masterCommunicationService) SendHeartbeat(ctx context.Context) error {
	// TODO: 实现心跳发送逻辑
	// 1. 收集Agent当前状态信息
	// 2. 构造心跳消息
	// 3. 发送心跳到Master
	// 4. 处理Master的心跳响应
	// 5. 更新本地状态
	return fmt.Errorf("SendHeartbeat功能待实现 - 需要实现心跳发送逻辑")
}

// SyncStatus 同步Agent状态到Master
func (s *masterCommunicationService) SyncStatus(ctx context.Context, status *AgentStatus) error {
	// TODO: 实现状态同步逻辑
	// 1. 格式化Agent状态信息
	// 2. 发送状态更新到Master
	// 3. 处理同步结果
	return fmt.Errorf("SyncStatus功能待实现 - 需要实现状态同步逻辑，状态: %s", status.Status)
}

// ==================== 数据上报实现 ====================

// ReportMetrics 上报性能指标
func (s *masterCommunicationService) ReportMetrics(ctx context.Context, metrics *PerformanceMetrics) error {
	// TODO: 实现指标上报逻辑
	// 1. 格式化性能指标数据
	// 2. 批量或实时上报到Master
	// 3. 处理上报结果
	// 4. 重试机制（如果失败）
	return fmt.Errorf("ReportMetrics功能待实现 - 需要实现指标上报逻辑，时间戳: %v", metrics.Timestamp)
}

// ReportTaskResult 上报任务执行结果
func (s *masterCommunicationService) ReportTaskResult(ctx context.Context, result *TaskResult) error {
	// TODO: 实现任务结果上报逻辑
	// 1. 格式化任务执行结果
	// 2. 发送结果到Master
	// 3. 处理上报响应
	// 4. 更新本地任务状态
	return fmt.Errorf("ReportTaskResult功能待实现 - 需要实现任务结果上报逻辑，任务ID: %s", result.TaskID)
}

// ReportAlert 上报告警信息
func (s *masterCommunicationService) ReportAlert(ctx context.Context, alert *Alert) error {
	// TODO: 实现告警上报逻辑
	// 1. 格式化告警信息
	// 2. 立即发送告警到Master
	// 3. 处理告警响应
	// 4. 记录上报状态
	return fmt.Errorf("ReportAlert功能待实现 - 需要实现告警上报逻辑，告警ID: %s", alert.ID)
}

// ==================== 配置同步实现 ====================

// FetchConfig 从Master获取配置
func (s *masterCommunicationService) FetchConfig(ctx context.Context) (*AgentConfig, error) {
	// TODO: 实现配置获取逻辑
	// 1. 向Master请求最新配置
	// 2. 验证配置有效性
	// 3. 返回配置信息
	return &AgentConfig{
		ID:      "placeholder-config",
		Version: "1.0.0",
		Data: map[string]interface{}{
			"message": "FetchConfig功能待实现",
		},
	}, fmt.Errorf("FetchConfig功能待实现 - 需要实现配置获取逻辑")
}

// SyncConfigFromMaster 同步Master端配置
func (s *masterCommunicationService) SyncConfigFromMaster(ctx context.Context) error {
	// TODO: 实现配置同步逻辑
	// 1. 获取Master端最新配置
	// 2. 比较配置版本差异
	// 3. 应用配置变更
	// 4. 确认同步结果
	return fmt.Errorf("SyncConfigFromMaster功能待实现 - 需要实现配置同步逻辑")
}

// ==================== 命令接收和响应实现 ====================

// ReceiveCommands 接收Master端命令
func (s *masterCommunicationService) ReceiveCommands(ctx context.Context) (<-chan *Command, error) {
	// TODO: 实现命令接收逻辑
	// 1. 建立与Master的命令通道
	// 2. 监听Master发送的命令
	// 3. 解析和验证命令
	// 4. 通过通道返回命令
	cmdChan := make(chan *Command, 100)

	// 占位符实现
	go func() {
		defer close(cmdChan)
		// 模拟接收命令
		cmdChan <- &Command{
			ID:        "placeholder-cmd-1",
			Type:      "test",
			Params:    map[string]interface{}{"message": "ReceiveCommands功能待实现"},
			Timestamp: time.Now(),
		}
	}()

	return cmdChan, nil
}

// SendCommandResponse 发送命令执行响应
func (s *masterCommunicationService) SendCommandResponse(ctx context.Context, response *CommandResponse) error {
	// TODO: 实现命令响应发送逻辑
	// 1. 格式化命令执行响应
	// 2. 发送响应到Master
	// 3. 处理发送结果
	return fmt.Errorf("SendCommandResponse功能待实现 - 需要实现命令响应发送逻辑，命令ID: %s", response.CommandID)
}

// ==================== 连接管理实现 ====================

// Connect 连接到Master
func (s *masterCommunicationService) Connect(ctx context.Context) error {
	// TODO: 实现连接建立逻辑
	// 1. 建立gRPC或HTTP连接
	// 2. 执行认证流程
	// 3. 启动心跳机制
	// 4. 更新连接状态
	return fmt.Errorf("Connect功能待实现 - 需要实现连接建立逻辑")
}

// Disconnect 断开与Master的连接
func (s *masterCommunicationService) Disconnect(ctx context.Context) error {
	// TODO: 实现连接断开逻辑
	// 1. 停止心跳机制
	// 2. 关闭命令通道
	// 3. 断开网络连接
	// 4. 清理连接资源
	return fmt.Errorf("Disconnect功能待实现 - 需要实现连接断开逻辑")
}

// IsConnected 检查连接状态
func (s *masterCommunicationService) IsConnected() bool {
	// TODO: 实现连接状态检查逻辑
	// 1. 检查网络连接状态
	// 2. 验证认证状态
	// 3. 返回连接状态
	return false // 占位符返回
}

// Reconnect 重新连接Master
func (s *masterCommunicationService) Reconnect(ctx context.Context) error {
	// TODO: 实现重连逻辑
	// 1. 断开当前连接
	// 2. 等待重连间隔
	// 3. 重新建立连接
	// 4. 恢复服务状态
	return fmt.Errorf("Reconnect功能待实现 - 需要实现重连逻辑")
}

// ==================== 数据模型定义 ====================

// AgentInfo Agent基本信息
type AgentInfo struct {
	ID           string            `json:"id"`            // Agent唯一标识
	Name         string            `json:"name"`          // Agent名称
	Version      string            `json:"version"`       // Agent版本
	Capabilities []string          `json:"capabilities"`  // Agent能力列表
	Tags         map[string]string `json:"tags"`          // Agent标签
	RegisteredAt time.Time         `json:"registered_at"` // 注册时间
	// TODO: 添加更多Agent信息字段
	// HostInfo    *HostInfo `json:"host_info"`    // 主机信息
	// Config      *Config   `json:"config"`       // 配置信息
}

// AgentStatus Agent状态信息
type AgentStatus struct {
	Status    string    `json:"status"`    // Agent状态：online, offline, busy, error
	Message   string    `json:"message"`   // 状态描述
	Timestamp time.Time `json:"timestamp"` // 状态更新时间
	// TODO: 添加更多状态字段
}

// AgentConfig Agent配置信息
type AgentConfig struct {
	ID      string                 `json:"id"`      // 配置ID
	Version string                 `json:"version"` // 配置版本
	Data    map[string]interface{} `json:"data"`    // 配置数据
}

// PerformanceMetrics 性能指标
type PerformanceMetrics struct {
	Timestamp   time.Time `json:"timestamp"`    // 指标时间戳
	CPUUsage    float64   `json:"cpu_usage"`    // CPU使用率
	MemoryUsage float64   `json:"memory_usage"` // 内存使用率
	// TODO: 添加更多指标字段
}

// TaskResult 任务执行结果
type TaskResult struct {
	TaskID    string    `json:"task_id"`   // 任务ID
	Status    string    `json:"status"`    // 执行状态
	Message   string    `json:"message"`   // 结果描述
	Timestamp time.Time `json:"timestamp"` // 结果时间戳
	// TODO: 添加更多结果字段
}

// Alert 告警信息
type Alert struct {
	ID        string    `json:"id"`        // 告警ID
	Type      string    `json:"type"`      // 告警类型
	Level     string    `json:"level"`     // 告警级别
	Message   string    `json:"message"`   // 告警消息
	Timestamp time.Time `json:"timestamp"` // 告警时间
}

// Command Master端发送的命令
type Command struct {
	ID        string                 `json:"id"`        // 命令ID
	Type      string                 `json:"type"`      // 命令类型
	Params    map[string]interface{} `json:"params"`    // 命令参数
	Timestamp time.Time              `json:"timestamp"` // 命令时间戳
}

// CommandResponse 命令执行响应
type CommandResponse struct {
	CommandID string    `json:"command_id"` // 命令ID
	Status    string    `json:"status"`     // 执行状态：success, failed, running
	Message   string    `json:"message"`    // 响应消息
	Data      any       `json:"data"`       // 响应数据
	Timestamp time.Time `json:"timestamp"`  // 响应时间戳
}
