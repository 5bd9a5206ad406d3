/**
 * HTTP通信客户端
 * @author: sun977
 * @date: 2025.10.21
 * @description: Agent端与Master端的HTTP通信客户端
 * @func: 占位符实现，待后续完善
 */
package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"prtip/internal/model/client"
	"net/http"
	"time"
)

// HTTPClient HTTP客户端接口
type HTTPClient interface {
	// ==================== 基础HTTP方法 ====================
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)
	Post(ctx context.Context, url string, data interface{}, headers map[string]string) (*http.Response, error)
	Put(ctx context.Context, url string, data interface{}, headers map[string]string) (*http.Response, error)
	Delete(ctx context.Context, url string, headers map[string]string) (*http.Response, error)

	// ==================== Agent注册和认证 ====================
	RegisterAgent(ctx context.Context, agentInfo *client.AgentInfo) (*client.RegisterResponse, error)
	AuthenticateAgent(ctx context.Context, authData *client.AuthData) (*client.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*client.AuthResponse, error)

	// ==================== 心跳和状态同步 ====================
	SendHeartbeat(ctx context.Context, heartbeat *client.Heartbeat) (*client.HeartbeatResponse, error)
	SyncStatus(ctx context.Context, status *client.AgentStatus) (*client.SyncResponse, error)

	// ==================== 数据上报 ====================
	ReportMetrics(ctx context.Context, metrics *client.PerformanceMetrics) (*client.ReportResponse, error)
	ReportTaskResult(ctx context.Context, result *client.TaskResult) (*client.ReportResponse, error)
	ReportAlert(ctx context.Context, alert *client.Alert) (*client.ReportResponse, error)

	// ==================== 配置同步 ====================
	SyncConfig(ctx context.Context, request *client.ConfigSyncRequest) (*client.ConfigSyncResponse, error)
	GetConfig(ctx context.Context, agentID string) (*client.AgentConfig, error)

	// ==================== 命令处理 ====================
	PollCommands(ctx context.Context, agentID string) ([]*client.Command, error)
	SendCommandResponse(ctx context.Context, response *client.CommandResponse) error
	GetCommandStatus(ctx context.Context, commandID string) (*client.CommandStatus, error)

	// ==================== 任务管理 ====================
	GetTasks(ctx context.Context, agentID string) ([]*client.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status string, progress float64) error

	// ==================== 连接管理 ====================
	SetBaseURL(baseURL string)
	SetTimeout(timeout time.Duration)
	SetRetryConfig(maxRetries int, retryDelay time.Duration)
	SetAuthToken(token string)
}

// httpClient HTTP客户端实现
type httpClient struct {
	client     *http.Client
	baseURL    string
	authToken  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

// NewHTTPClient 创建HTTP客户端实例
func NewHTTPClient(baseURL string) HTTPClient {
	return &httpClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    baseURL,
		timeout:    30 * time.Second,
		maxRetries: 3,
		retryDelay: 5 * time.Second,
		userAgent:  "NeoAgent/1.0",
	}
}

// ==================== 连接管理实现 ====================

// SetBaseURL 设置基础URL
func (c *httpClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetTimeout 设置超时时间
func (c *httpClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
	c.client.Timeout = timeout
}

// SetRetryConfig 设置重试配置
func (c *httpClient) SetRetryConfig(maxRetries int, retryDelay time.Duration) {
	c.maxRetries = maxRetries
	c.retryDelay = retryDelay
}

// SetAuthToken 设置认证令牌
func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

// ==================== 基础HTTP方法实现 ====================

// Get 发送GET请求
func (c *httpClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.doRequest(ctx, "GET", url, nil, headers)
}

// Post 发送POST请求
func (c *httpClient) Post(ctx context.Context, url string, data interface{}, headers map[string]string) (*http.Response, error) {
	return c.doRequest(ctx, "POST", url, data, headers)
}

// Put 发送PUT请求
func (c *httpClient) Put(ctx context.Context, url string, data interface{}, headers map[string]string) (*http.Response, error) {
	return c.doRequest(ctx, "PUT", url, data, headers)
}

// Delete 发送DELETE请求
func (c *httpClient) Delete(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.doRequest(ctx, "DELETE", url, nil, headers)
}

// doRequest 执行HTTP请求
func (c *httpClient) doRequest(ctx context.Context, method, url string, data interface{}, headers map[string]string) (*http.Response, error) {
	fullURL := c.baseURL + url

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal request data: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// 设置默认头部
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	// 设置认证头部
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	// 设置自定义头部
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	// 执行请求（带重试）
	var resp *http.Response
	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			break
		}

		if i < c.maxRetries {
			time.Sleep(c.retryDelay)
		}
	}

	return resp, err
}

// ==================== Agent注册和认证实现 ====================

// RegisterAgent Agent注册
func (c *httpClient) RegisterAgent(ctx context.Context, agentInfo *client.AgentInfo) (*client.RegisterResponse, error) {
	// TODO: 实现Agent注册HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/register
	// 2. 处理响应
	// 3. 返回注册结果

	resp, err := c.Post(ctx, "/api/v1/agents/register", agentInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("register agent request: %w", err)
	}
	defer resp.Body.Close()

	var result client.RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}

	// 占位符实现
	result.Message = "RegisterAgent HTTP调用待完善"

	return &result, nil
}

// AuthenticateAgent Agent认证
func (c *httpClient) AuthenticateAgent(ctx context.Context, authData *client.AuthData) (*client.AuthResponse, error) {
	// TODO: 实现Agent认证HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/auth
	// 2. 处理认证响应
	// 3. 更新认证令牌
	// 4. 返回认证结果

	resp, err := c.Post(ctx, "/api/v1/agents/auth", authData, nil)
	if err != nil {
		return nil, fmt.Errorf("authenticate agent request: %w", err)
	}
	defer resp.Body.Close()

	var result client.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	// 更新认证令牌
	if result.Success && result.AccessToken != "" {
		c.SetAuthToken(result.AccessToken)
	}

	// 占位符实现
	result.Message = "AuthenticateAgent HTTP调用待完善"

	return &result, nil
}

// RefreshToken 刷新令牌
func (c *httpClient) RefreshToken(ctx context.Context, refreshToken string) (*client.AuthResponse, error) {
	// TODO: 实现令牌刷新HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/refresh
	// 2. 处理刷新响应
	// 3. 更新认证令牌
	// 4. 返回刷新结果

	data := map[string]string{"refresh_token": refreshToken}
	resp, err := c.Post(ctx, "/api/v1/agents/refresh", data, nil)
	if err != nil {
		return nil, fmt.Errorf("refresh token request: %w", err)
	}
	defer resp.Body.Close()

	var result client.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}

	// 更新认证令牌
	if result.Success && result.AccessToken != "" {
		c.SetAuthToken(result.AccessToken)
	}

	// 占位符实现
	result.Message = "RefreshToken HTTP调用待完善"

	return &result, nil
}

// ==================== 心跳和状态同步实现 ====================

// SendHeartbeat 发送心跳
func (c *httpClient) SendHeartbeat(ctx context.Context, heartbeat *client.Heartbeat) (*client.HeartbeatResponse, error) {
	// TODO: 实现心跳发送HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/{id}/heartbeat
	// 2. 处理心跳响应
	// 3. 返回心跳结果

	url := fmt.Sprintf("/api/v1/agents/%s/heartbeat", heartbeat.AgentID)
	resp, err := c.Post(ctx, url, heartbeat, nil)
	if err != nil {
		return nil, fmt.Errorf("send heartbeat request: %w", err)
	}
	defer resp.Body.Close()

	var result client.HeartbeatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode heartbeat response: %w", err)
	}

	// 占位符实现
	result.Message = "SendHeartbeat HTTP调用待完善"

	return &result, nil
}

// SyncStatus 同步状态
func (c *httpClient) SyncStatus(ctx context.Context, status *client.AgentStatus) (*client.SyncResponse, error) {
	// TODO: 实现状态同步HTTP调用
	// 1. 发送PUT请求到 /api/v1/agents/{id}/status
	// 2. 处理同步响应
	// 3. 返回同步结果

	url := fmt.Sprintf("/api/v1/agents/%s/status", status.ID)
	resp, err := c.Put(ctx, url, status, nil)
	if err != nil {
		return nil, fmt.Errorf("sync status request: %w", err)
	}
	defer resp.Body.Close()

	var result client.SyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode sync response: %w", err)
	}

	// 占位符实现
	result.Message = "SyncStatus HTTP调用待完善"

	return &result, nil
}

// ==================== 数据上报实现 ====================

// ReportMetrics 上报性能指标
func (c *httpClient) ReportMetrics(ctx context.Context, metrics *client.PerformanceMetrics) (*client.ReportResponse, error) {
	// TODO: 实现性能指标上报HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/{id}/metrics
	// 2. 处理上报响应
	// 3. 返回上报结果

	url := fmt.Sprintf("/api/v1/agents/%s/metrics", metrics.AgentID)
	resp, err := c.Post(ctx, url, metrics, nil)
	if err != nil {
		return nil, fmt.Errorf("report metrics request: %w", err)
	}
	defer resp.Body.Close()

	var result client.ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode report response: %w", err)
	}

	// 占位符实现
	result.Message = "ReportMetrics HTTP调用待完善"

	return &result, nil
}

// ReportTaskResult 上报任务结果
func (c *httpClient) ReportTaskResult(ctx context.Context, result *client.TaskResult) (*client.ReportResponse, error) {
	// TODO: 实现任务结果上报HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/{id}/tasks/{task_id}/result
	// 2. 处理上报响应
	// 3. 返回上报结果

	url := fmt.Sprintf("/api/v1/agents/%s/tasks/%s/result", result.AgentID, result.TaskID)
	resp, err := c.Post(ctx, url, result, nil)
	if err != nil {
		return nil, fmt.Errorf("report task result request: %w", err)
	}
	defer resp.Body.Close()

	var response client.ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode report response: %w", err)
	}

	// 占位符实现
	response.Message = "ReportTaskResult HTTP调用待完善"

	return &response, nil
}

// ReportAlert 上报告警
func (c *httpClient) ReportAlert(ctx context.Context, alert *client.Alert) (*client.ReportResponse, error) {
	// TODO: 实现告警上报HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/{id}/alerts
	// 2. 处理上报响应
	// 3. 返回上报结果

	url := fmt.Sprintf("/api/v1/agents/%s/alerts", alert.AgentID)
	resp, err := c.Post(ctx, url, alert, nil)
	if err != nil {
		return nil, fmt.Errorf("report alert request: %w", err)
	}
	defer resp.Body.Close()

	var result client.ReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode report response: %w", err)
	}

	// 占位符实现
	result.Message = "ReportAlert HTTP调用待完善"

	return &result, nil
}

// ==================== 配置同步实现 ====================

// SyncConfig 同步配置
func (c *httpClient) SyncConfig(ctx context.Context, request *client.ConfigSyncRequest) (*client.ConfigSyncResponse, error) {
	// TODO: 实现配置同步HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/{id}/config/sync
	// 2. 处理配置响应
	// 3. 返回配置数据

	url := fmt.Sprintf("/api/v1/agents/%s/config/sync", request.AgentID)
	resp, err := c.Post(ctx, url, request, nil)
	if err != nil {
		return nil, fmt.Errorf("sync config request: %w", err)
	}
	defer resp.Body.Close()

	var result client.ConfigSyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode config response: %w", err)
	}

	// 占位符实现
	result.Message = "SyncConfig HTTP调用待完善"

	return &result, nil
}

// GetConfig 获取配置
func (c *httpClient) GetConfig(ctx context.Context, agentID string) (*client.AgentConfig, error) {
	// TODO: 实现获取配置HTTP调用
	// 1. 发送GET请求到 /api/v1/agents/{id}/config
	// 2. 处理配置响应
	// 3. 返回配置数据

	url := fmt.Sprintf("/api/v1/agents/%s/config", agentID)
	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get config request: %w", err)
	}
	defer resp.Body.Close()

	var result client.AgentConfig
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode config response: %w", err)
	}

	// 占位符实现
	result.Custom = map[string]interface{}{"message": "GetConfig HTTP调用待完善"}

	return &result, nil
}

// ==================== 命令处理实现 ====================

// PollCommands 轮询命令
func (c *httpClient) PollCommands(ctx context.Context, agentID string) ([]*client.Command, error) {
	// TODO: 实现命令轮询HTTP调用
	// 1. 发送GET请求到 /api/v1/agents/{id}/commands
	// 2. 处理命令响应
	// 3. 返回命令列表

	url := fmt.Sprintf("/api/v1/agents/%s/commands", agentID)
	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("poll commands request: %w", err)
	}
	defer resp.Body.Close()

	var result []*client.Command
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode commands response: %w", err)
	}

	// 占位符实现
	if len(result) == 0 {
		result = []*client.Command{
			{
				ID:        "placeholder-cmd",
				Type:      "heartbeat",
				Action:    "ping",
				Payload:   map[string]interface{}{"message": "PollCommands HTTP调用待完善"},
				Timestamp: time.Now(),
			},
		}
	}

	return result, nil
}

// SendCommandResponse 发送命令响应
func (c *httpClient) SendCommandResponse(ctx context.Context, response *client.CommandResponse) error {
	// TODO: 实现命令响应发送HTTP调用
	// 1. 发送POST请求到 /api/v1/agents/{id}/commands/{cmd_id}/response
	// 2. 处理响应确认
	// 3. 返回发送结果

	url := fmt.Sprintf("/api/v1/agents/%s/commands/%s/response", response.AgentID, response.CommandID)
	resp, err := c.Post(ctx, url, response, nil)
	if err != nil {
		return fmt.Errorf("send command response request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send command response failed with status: %d", resp.StatusCode)
	}

	return nil
}

// GetCommandStatus 获取命令状态
func (c *httpClient) GetCommandStatus(ctx context.Context, commandID string) (*client.CommandStatus, error) {
	// TODO: 实现获取命令状态HTTP调用
	// 1. 发送GET请求到 /api/v1/commands/{id}/status
	// 2. 处理状态响应
	// 3. 返回命令状态

	url := fmt.Sprintf("/api/v1/commands/%s/status", commandID)
	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get command status request: %w", err)
	}
	defer resp.Body.Close()

	var result client.CommandStatus
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode command status response: %w", err)
	}

	// 占位符实现
	result.Message = "GetCommandStatus HTTP调用待完善"

	return &result, nil
}

// ==================== 任务管理实现 ====================

// GetTasks 获取任务列表
func (c *httpClient) GetTasks(ctx context.Context, agentID string) ([]*client.Task, error) {
	// TODO: 实现获取任务列表HTTP调用
	// 1. 发送GET请求到 /api/v1/agents/{id}/tasks
	// 2. 处理任务响应
	// 3. 返回任务列表

	url := fmt.Sprintf("/api/v1/agents/%s/tasks", agentID)
	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get tasks request: %w", err)
	}
	defer resp.Body.Close()

	var result []*client.Task
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tasks response: %w", err)
	}

	return result, nil
}

// UpdateTaskStatus 更新任务状态
func (c *httpClient) UpdateTaskStatus(ctx context.Context, taskID string, status string, progress float64) error {
	// TODO: 实现更新任务状态HTTP调用
	// 1. 发送PUT请求到 /api/v1/tasks/{id}/status
	// 2. 处理更新响应
	// 3. 返回更新结果

	data := map[string]interface{}{
		"status":   status,
		"progress": progress,
	}

	url := fmt.Sprintf("/api/v1/tasks/%s/status", taskID)
	resp, err := c.Put(ctx, url, data, nil)
	if err != nil {
		return fmt.Errorf("update task status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("update task status failed with status: %d", resp.StatusCode)
	}

	return nil
}
