/**
 * Master通信处理器
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Agent与Master端的通信HTTP请求
 * @func: 占位符实现，待后续完善
 */
package communication

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MasterCommunicationHandler Master通信处理器接口
type MasterCommunicationHandler interface {
	// ==================== Agent注册和认证 ====================
	RegisterToMaster(c *gin.Context)       // 向Master注册Agent
	AuthenticateWithMaster(c *gin.Context) // 与Master进行认证

	// ==================== 心跳和状态同步 ====================
	SendHeartbeat(c *gin.Context) // 发送心跳到Master
	SyncStatus(c *gin.Context)    // 同步状态到Master

	// ==================== 数据上报 ====================
	ReportMetrics(c *gin.Context)    // 上报性能指标
	ReportTaskResult(c *gin.Context) // 上报任务结果
	ReportAlert(c *gin.Context)      // 上报告警信息

	// ==================== 配置同步 ====================
	SyncConfig(c *gin.Context)  // 从Master同步配置
	ApplyConfig(c *gin.Context) // 应用Master下发的配置

	// ==================== 命令接收和响应 ====================
	ReceiveCommand(c *gin.Context)      // 接收Master命令
	SendCommandResponse(c *gin.Context) // 发送命令执行结果

	// ==================== 连接管理 ====================
	CheckConnection(c *gin.Context)   // 检查与Master的连接
	ReconnectToMaster(c *gin.Context) // 重连到Master
}

// masterCommunicationHandler Master通信处理器实现
type masterCommunicationHandler struct {
	// TODO: 添加必要的依赖注入
	// communicationService communication.MasterCommunicationService
	// logger               logger.Logger
}

// NewMasterCommunicationHandler 创建Master通信处理器实例
func NewMasterCommunicationHandler() MasterCommunicationHandler {
	return &masterCommunicationHandler{
		// TODO: 初始化依赖
	}
}

// ==================== Agent注册和认证处理器实现 ====================

// RegisterToMaster 向Master注册Agent
// @Summary 向Master注册Agent
// @Description Agent向Master端注册自己
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param registration body map[string]interface{} true "注册数据"
// @Success 200 {object} map[string]interface{} "注册成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/register [post]
func (h *masterCommunicationHandler) RegisterToMaster(c *gin.Context) {
	var registrationData map[string]interface{}
	if err := c.ShouldBindJSON(&registrationData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "注册数据格式错误: " + err.Error(),
		})
		return
	}

	// TODO: 实现Agent注册处理逻辑
	// 1. 验证注册数据有效性
	// 2. 调用通信服务向Master注册
	// 3. 处理注册响应
	// 4. 返回注册结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "RegisterToMaster处理器待实现 - 需要实现Agent注册处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":        "agent-001",
			"register_status": "registered",
			"master_endpoint": "http://master:8080",
			"registered_at":   time.Now(),
			"token":           "placeholder-auth-token",
		},
	})
}

// AuthenticateWithMaster 与Master进行认证
// @Summary 与Master进行认证
// @Description Agent与Master端进行身份认证
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param auth body map[string]interface{} true "认证数据"
// @Success 200 {object} map[string]interface{} "认证成功"
// @Failure 401 {object} map[string]interface{} "认证失败"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/authenticate [post]
func (h *masterCommunicationHandler) AuthenticateWithMaster(c *gin.Context) {
	var authData map[string]interface{}
	if err := c.ShouldBindJSON(&authData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "认证数据格式错误: " + err.Error(),
		})
		return
	}

	// TODO: 实现Agent认证处理逻辑
	// 1. 验证认证数据有效性
	// 2. 调用通信服务与Master认证
	// 3. 处理认证响应
	// 4. 返回认证结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "AuthenticateWithMaster处理器待实现 - 需要实现Agent认证处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":         "agent-001",
			"auth_status":      "authenticated",
			"access_token":     "placeholder-access-token",
			"expires_at":       time.Now().Add(24 * time.Hour),
			"authenticated_at": time.Now(),
		},
	})
}

// ==================== 心跳和状态同步处理器实现 ====================

// SendHeartbeat 发送心跳到Master
// @Summary 发送心跳到Master
// @Description Agent向Master发送心跳信号
// @Tags Agent通信
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "心跳发送成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/heartbeat [post]
func (h *masterCommunicationHandler) SendHeartbeat(c *gin.Context) {
	// TODO: 实现心跳发送处理逻辑
	// 1. 收集Agent当前状态信息
	// 2. 调用通信服务发送心跳
	// 3. 处理Master响应
	// 4. 返回心跳结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "SendHeartbeat处理器待实现 - 需要实现心跳发送处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":         "agent-001",
			"heartbeat_status": "sent",
			"master_response":  "acknowledged",
			"sent_at":          time.Now(),
			"next_heartbeat":   time.Now().Add(30 * time.Second),
		},
	})
}

// SyncStatus 同步状态到Master
// @Summary 同步状态到Master
// @Description Agent向Master同步当前状态
// @Tags Agent通信
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "状态同步成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/sync-status [post]
func (h *masterCommunicationHandler) SyncStatus(c *gin.Context) {
	// TODO: 实现状态同步处理逻辑
	// 1. 收集Agent完整状态信息
	// 2. 调用通信服务同步状态
	// 3. 处理Master响应
	// 4. 返回同步结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "SyncStatus处理器待实现 - 需要实现状态同步处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":    "agent-001",
			"sync_status": "completed",
			"synced_data": gin.H{
				"agent_status":   "running",
				"active_tasks":   3,
				"cpu_usage":      25.5,
				"memory_usage":   2048,
				"last_heartbeat": time.Now().Add(-30 * time.Second),
			},
			"synced_at": time.Now(),
		},
	})
}

// ==================== 数据上报处理器实现 ====================

// ReportMetrics 上报性能指标
// @Summary 上报性能指标
// @Description Agent向Master上报性能指标数据
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param metrics body map[string]interface{} true "性能指标数据"
// @Success 200 {object} map[string]interface{} "指标上报成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/report-metrics [post]
func (h *masterCommunicationHandler) ReportMetrics(c *gin.Context) {
	var metricsData map[string]interface{}
	if err := c.ShouldBindJSON(&metricsData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "性能指标数据格式错误: " + err.Error(),
		})
		return
	}

	// TODO: 实现性能指标上报处理逻辑
	// 1. 验证指标数据有效性
	// 2. 调用通信服务上报指标
	// 3. 处理Master响应
	// 4. 返回上报结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ReportMetrics处理器待实现 - 需要实现性能指标上报处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":      "agent-001",
			"report_status": "reported",
			"metrics_count": len(metricsData),
			"reported_at":   time.Now(),
		},
	})
}

// ReportTaskResult 上报任务结果
// @Summary 上报任务结果
// @Description Agent向Master上报任务执行结果
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param result body map[string]interface{} true "任务结果数据"
// @Success 200 {object} map[string]interface{} "任务结果上报成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/report-task-result [post]
func (h *masterCommunicationHandler) ReportTaskResult(c *gin.Context) {
	var resultData map[string]interface{}
	if err := c.ShouldBindJSON(&resultData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "任务结果数据格式错误: " + err.Error(),
		})
		return
	}

	// 验证必需字段
	taskID, exists := resultData["task_id"].(string)
	if !exists || taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "任务ID不能为空",
		})
		return
	}

	// TODO: 实现任务结果上报处理逻辑
	// 1. 验证任务结果数据有效性
	// 2. 调用通信服务上报任务结果
	// 3. 处理Master响应
	// 4. 返回上报结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ReportTaskResult处理器待实现 - 需要实现任务结果上报处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":      "agent-001",
			"task_id":       taskID,
			"report_status": "reported",
			"reported_at":   time.Now(),
		},
	})
}

// ReportAlert 上报告警信息
// @Summary 上报告警信息
// @Description Agent向Master上报告警信息
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param alert body map[string]interface{} true "告警数据"
// @Success 200 {object} map[string]interface{} "告警上报成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/report-alert [post]
func (h *masterCommunicationHandler) ReportAlert(c *gin.Context) {
	var alertData map[string]interface{}
	if err := c.ShouldBindJSON(&alertData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "告警数据格式错误: " + err.Error(),
		})
		return
	}

	// 验证必需字段
	alertLevel, exists := alertData["level"].(string)
	if !exists || alertLevel == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "告警级别不能为空",
		})
		return
	}

	// TODO: 实现告警上报处理逻辑
	// 1. 验证告警数据有效性
	// 2. 调用通信服务上报告警
	// 3. 处理Master响应
	// 4. 返回上报结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ReportAlert处理器待实现 - 需要实现告警上报处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":      "agent-001",
			"alert_level":   alertLevel,
			"report_status": "reported",
			"reported_at":   time.Now(),
		},
	})
}

// ==================== 配置同步处理器实现 ====================

// SyncConfig 从Master同步配置
// @Summary 从Master同步配置
// @Description Agent从Master同步配置信息
// @Tags Agent通信
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "配置同步成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/sync-config [post]
func (h *masterCommunicationHandler) SyncConfig(c *gin.Context) {
	// TODO: 实现配置同步处理逻辑
	// 1. 调用通信服务从Master获取配置
	// 2. 验证配置数据有效性
	// 3. 应用新配置
	// 4. 返回同步结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "SyncConfig处理器待实现 - 需要实现配置同步处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":       "agent-001",
			"sync_status":    "completed",
			"config_version": "v1.2.3",
			"synced_configs": []string{
				"scan_config",
				"monitor_config",
				"log_config",
			},
			"synced_at": time.Now(),
		},
	})
}

// ApplyConfig 应用Master下发的配置
// @Summary 应用Master下发的配置
// @Description Agent应用Master下发的配置
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param config body map[string]interface{} true "配置数据"
// @Success 200 {object} map[string]interface{} "配置应用成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/apply-config [post]
func (h *masterCommunicationHandler) ApplyConfig(c *gin.Context) {
	var configData map[string]interface{}
	if err := c.ShouldBindJSON(&configData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "配置数据格式错误: " + err.Error(),
		})
		return
	}

	// TODO: 实现配置应用处理逻辑
	// 1. 验证配置数据有效性
	// 2. 调用通信服务应用配置
	// 3. 重启相关服务（如需要）
	// 4. 返回应用结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ApplyConfig处理器待实现 - 需要实现配置应用处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":         "agent-001",
			"apply_status":     "applied",
			"config_count":     len(configData),
			"applied_at":       time.Now(),
			"restart_required": false,
		},
	})
}

// ==================== 命令接收和响应处理器实现 ====================

// ReceiveCommand 接收Master命令
// @Summary 接收Master命令
// @Description Agent接收Master发送的命令
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param command body map[string]interface{} true "命令数据"
// @Success 200 {object} map[string]interface{} "命令接收成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/receive-command [post]
func (h *masterCommunicationHandler) ReceiveCommand(c *gin.Context) {
	var commandData map[string]interface{}
	if err := c.ShouldBindJSON(&commandData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "命令数据格式错误: " + err.Error(),
		})
		return
	}

	// 验证必需字段
	commandType, exists := commandData["type"].(string)
	if !exists || commandType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "命令类型不能为空",
		})
		return
	}

	// TODO: 实现命令接收处理逻辑
	// 1. 验证命令数据有效性
	// 2. 调用通信服务处理命令
	// 3. 执行相应的命令操作
	// 4. 返回命令接收结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ReceiveCommand处理器待实现 - 需要实现命令接收处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":       "agent-001",
			"command_type":   commandType,
			"receive_status": "received",
			"received_at":    time.Now(),
			"execution_id":   "exec-" + time.Now().Format("20060102150405"),
		},
	})
}

// SendCommandResponse 发送命令执行结果
// @Summary 发送命令执行结果
// @Description Agent向Master发送命令执行结果
// @Tags Agent通信
// @Accept json
// @Produce json
// @Param response body map[string]interface{} true "命令响应数据"
// @Success 200 {object} map[string]interface{} "命令响应发送成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/send-command-response [post]
func (h *masterCommunicationHandler) SendCommandResponse(c *gin.Context) {
	var responseData map[string]interface{}
	if err := c.ShouldBindJSON(&responseData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "命令响应数据格式错误: " + err.Error(),
		})
		return
	}

	// 验证必需字段
	executionID, exists := responseData["execution_id"].(string)
	if !exists || executionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "执行ID不能为空",
		})
		return
	}

	// TODO: 实现命令响应发送处理逻辑
	// 1. 验证响应数据有效性
	// 2. 调用通信服务发送响应
	// 3. 处理Master确认
	// 4. 返回发送结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "SendCommandResponse处理器待实现 - 需要实现命令响应发送处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":     "agent-001",
			"execution_id": executionID,
			"send_status":  "sent",
			"sent_at":      time.Now(),
		},
	})
}

// ==================== 连接管理处理器实现 ====================

// CheckConnection 检查与Master的连接
// @Summary 检查与Master的连接
// @Description Agent检查与Master的连接状态
// @Tags Agent通信
// @Produce json
// @Success 200 {object} map[string]interface{} "连接检查成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/check-connection [get]
func (h *masterCommunicationHandler) CheckConnection(c *gin.Context) {
	// TODO: 实现连接检查处理逻辑
	// 1. 调用通信服务检查连接状态
	// 2. 测试与Master的通信
	// 3. 返回连接状态

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "CheckConnection处理器待实现 - 需要实现连接检查处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":          "agent-001",
			"connection_status": "connected",
			"master_endpoint":   "http://master:8080",
			"last_heartbeat":    time.Now().Add(-30 * time.Second),
			"response_time":     "50ms",
			"checked_at":        time.Now(),
		},
	})
}

// ReconnectToMaster 重连到Master
// @Summary 重连到Master
// @Description Agent重新连接到Master
// @Tags Agent通信
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "重连成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/reconnect [post]
func (h *masterCommunicationHandler) ReconnectToMaster(c *gin.Context) {
	// TODO: 实现重连处理逻辑
	// 1. 断开当前连接
	// 2. 调用通信服务重新连接Master
	// 3. 重新认证和注册
	// 4. 返回重连结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ReconnectToMaster处理器待实现 - 需要实现重连处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":         "agent-001",
			"reconnect_status": "reconnected",
			"master_endpoint":  "http://master:8080",
			"reconnected_at":   time.Now(),
			"new_token":        "placeholder-new-token",
		},
	})
}
