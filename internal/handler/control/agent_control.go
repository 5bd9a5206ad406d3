/**
 * Agent控制处理器
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Master端发送的Agent控制命令HTTP请求
 * @func: 占位符实现，待后续完善
 */
package control

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// AgentControlHandler Agent控制处理器接口
type AgentControlHandler interface {
	// ==================== Agent进程控制（🔴 响应Master端命令） ====================
	StartAgent(c *gin.Context)    // 启动Agent进程 [响应Master端POST /:id/start]
	StopAgent(c *gin.Context)     // 停止Agent进程 [响应Master端POST /:id/stop]
	RestartAgent(c *gin.Context)  // 重启Agent进程 [响应Master端POST /:id/restart]
	GetAgentStatus(c *gin.Context) // 获取Agent实时状态 [响应Master端GET /:id/status]
	
	// ==================== Agent配置管理（🟡 混合实现 - 接收Master端配置推送） ====================
	ApplyConfig(c *gin.Context)   // 应用Master端推送的配置 [响应Master端PUT /:id/config]
	GetConfig(c *gin.Context)     // 获取当前配置 [响应Master端GET /:id/config]
	
	// ==================== Agent通信和控制（🔴 响应Master端通信） ====================
	ExecuteCommand(c *gin.Context)     // 执行Master端发送的控制命令 [响应Master端POST /:id/command]
	GetCommandStatus(c *gin.Context)   // 获取命令执行状态 [响应Master端GET /:id/command/:cmd_id]
	SyncConfig(c *gin.Context)         // 同步配置到Agent [响应Master端POST /:id/sync]
	UpgradeAgent(c *gin.Context)       // 升级Agent版本 [响应Master端POST /:id/upgrade]
	ResetConfig(c *gin.Context)        // 重置Agent配置 [响应Master端POST /:id/reset]
}

// agentControlHandler Agent控制处理器实现
type agentControlHandler struct {
	// TODO: 添加必要的依赖注入
	// controlService control.AgentControlService
	// logger         logger.Logger
}

// NewAgentControlHandler 创建Agent控制处理器实例
func NewAgentControlHandler() AgentControlHandler {
	return &agentControlHandler{
		// TODO: 初始化依赖
	}
}

// ==================== Agent进程控制处理器实现 ====================

// StartAgent 启动Agent进程
// @Summary 启动Agent进程
// @Description 响应Master端的Agent启动命令
// @Tags Agent控制
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "启动成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/start [post]
func (h *agentControlHandler) StartAgent(c *gin.Context) {
	// TODO: 实现Agent启动处理逻辑
	// 1. 验证请求权限和参数
	// 2. 调用控制服务启动Agent
	// 3. 返回启动结果
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "StartAgent处理器待实现 - 需要实现Agent启动处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_status": "starting",
		},
	})
}

// StopAgent 停止Agent进程
// @Summary 停止Agent进程
// @Description 响应Master端的Agent停止命令
// @Tags Agent控制
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "停止成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/stop [post]
func (h *agentControlHandler) StopAgent(c *gin.Context) {
	// TODO: 实现Agent停止处理逻辑
	// 1. 验证请求权限
	// 2. 调用控制服务停止Agent
	// 3. 返回停止结果
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "StopAgent处理器待实现 - 需要实现Agent停止处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_status": "stopping",
		},
	})
}

// RestartAgent 重启Agent进程
// @Summary 重启Agent进程
// @Description 响应Master端的Agent重启命令
// @Tags Agent控制
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "重启成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/restart [post]
func (h *agentControlHandler) RestartAgent(c *gin.Context) {
	// TODO: 实现Agent重启处理逻辑
	// 1. 验证请求权限
	// 2. 调用控制服务重启Agent
	// 3. 返回重启结果
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "RestartAgent处理器待实现 - 需要实现Agent重启处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_status": "restarting",
		},
	})
}

// GetAgentStatus 获取Agent实时状态
// @Summary 获取Agent实时状态
// @Description 响应Master端的Agent状态查询
// @Tags Agent控制
// @Produce json
// @Success 200 {object} map[string]interface{} "状态获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/status [get]
func (h *agentControlHandler) GetAgentStatus(c *gin.Context) {
	// TODO: 实现Agent状态获取处理逻辑
	// 1. 调用控制服务获取Agent状态
	// 2. 格式化状态信息
	// 3. 返回状态数据
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetAgentStatus处理器待实现 - 需要实现Agent状态获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":     "placeholder-agent-id",
			"status":       "running",
			"cpu_usage":    0.0,
			"memory_usage": 0.0,
			"task_count":   0,
			"uptime":       "0h 0m 0s",
		},
	})
}

// ==================== Agent配置管理处理器实现 ====================

// ApplyConfig 应用Master端推送的配置
// @Summary 应用配置
// @Description 接收并应用Master端推送的配置
// @Tags Agent配置
// @Accept json
// @Produce json
// @Param config body map[string]interface{} true "配置数据"
// @Success 200 {object} map[string]interface{} "配置应用成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/config [put]
func (h *agentControlHandler) ApplyConfig(c *gin.Context) {
	// TODO: 实现配置应用处理逻辑
	// 1. 解析请求中的配置数据
	// 2. 验证配置有效性
	// 3. 调用控制服务应用配置
	// 4. 返回应用结果
	
	var configData map[string]interface{}
	if err := c.ShouldBindJSON(&configData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "配置数据格式错误: " + err.Error(),
		})
		return
	}
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ApplyConfig处理器待实现 - 需要实现配置应用处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"config_applied": true,
			"config_version": "placeholder-version",
		},
	})
}

// GetConfig 获取当前配置
// @Summary 获取当前配置
// @Description 获取Agent当前配置信息
// @Tags Agent配置
// @Produce json
// @Success 200 {object} map[string]interface{} "配置获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/config [get]
func (h *agentControlHandler) GetConfig(c *gin.Context) {
	// TODO: 实现配置获取处理逻辑
	// 1. 调用控制服务获取当前配置
	// 2. 格式化配置信息
	// 3. 返回配置数据
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetConfig处理器待实现 - 需要实现配置获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"config_id":      "placeholder-config-id",
			"config_version": "1.0.0",
			"config_data": gin.H{
				"placeholder": "配置数据待实现",
			},
		},
	})
}

// ==================== Agent通信和控制处理器实现 ====================

// ExecuteCommand 执行Master端发送的控制命令
// @Summary 执行控制命令
// @Description 执行Master端发送的控制命令
// @Tags Agent控制
// @Accept json
// @Produce json
// @Param command body map[string]interface{} true "命令数据"
// @Success 200 {object} map[string]interface{} "命令执行成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/command [post]
func (h *agentControlHandler) ExecuteCommand(c *gin.Context) {
	// TODO: 实现命令执行处理逻辑
	// 1. 解析命令数据
	// 2. 验证命令权限和有效性
	// 3. 调用控制服务执行命令
	// 4. 返回执行结果
	
	var commandData map[string]interface{}
	if err := c.ShouldBindJSON(&commandData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "命令数据格式错误: " + err.Error(),
		})
		return
	}
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ExecuteCommand处理器待实现 - 需要实现命令执行处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"command_id":     "placeholder-cmd-id",
			"execution_status": "running",
		},
	})
}

// GetCommandStatus 获取命令执行状态
// @Summary 获取命令执行状态
// @Description 获取指定命令的执行状态
// @Tags Agent控制
// @Produce json
// @Param cmd_id path string true "命令ID"
// @Success 200 {object} map[string]interface{} "状态获取成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "命令不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/command/{cmd_id} [get]
func (h *agentControlHandler) GetCommandStatus(c *gin.Context) {
	cmdID := c.Param("cmd_id")
	if cmdID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "命令ID不能为空",
		})
		return
	}
	
	// TODO: 实现命令状态获取处理逻辑
	// 1. 验证命令ID有效性
	// 2. 调用控制服务获取命令状态
	// 3. 返回状态信息
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetCommandStatus处理器待实现 - 需要实现命令状态获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"command_id": cmdID,
			"status":     "running",
			"progress":   50,
			"message":    "命令执行中...",
		},
	})
}

// SyncConfig 同步配置到Agent
// @Summary 同步配置
// @Description 从Master端同步配置到Agent
// @Tags Agent配置
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "同步成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/sync [post]
func (h *agentControlHandler) SyncConfig(c *gin.Context) {
	// TODO: 实现配置同步处理逻辑
	// 1. 调用控制服务从Master同步配置
	// 2. 返回同步结果
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "SyncConfig处理器待实现 - 需要实现配置同步处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"sync_status": "completed",
			"sync_time":   time.Now(),
		},
	})
}

// UpgradeAgent 升级Agent版本
// @Summary 升级Agent版本
// @Description 升级Agent到指定版本
// @Tags Agent控制
// @Accept json
// @Produce json
// @Param upgrade body map[string]interface{} true "升级信息"
// @Success 200 {object} map[string]interface{} "升级成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/upgrade [post]
func (h *agentControlHandler) UpgradeAgent(c *gin.Context) {
	var upgradeData map[string]interface{}
	if err := c.ShouldBindJSON(&upgradeData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "升级数据格式错误: " + err.Error(),
		})
		return
	}
	
	version, exists := upgradeData["version"].(string)
	if !exists || version == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "版本号不能为空",
		})
		return
	}
	
	// TODO: 实现Agent升级处理逻辑
	// 1. 验证版本号有效性
	// 2. 调用控制服务执行升级
	// 3. 返回升级结果
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "UpgradeAgent处理器待实现 - 需要实现Agent升级处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"target_version":  version,
			"upgrade_status":  "started",
			"current_version": "1.0.0",
		},
	})
}

// ResetConfig 重置Agent配置
// @Summary 重置Agent配置
// @Description 重置Agent配置到默认状态
// @Tags Agent配置
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "重置成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/reset [post]
func (h *agentControlHandler) ResetConfig(c *gin.Context) {
	// TODO: 实现配置重置处理逻辑
	// 1. 调用控制服务重置配置
	// 2. 返回重置结果
	
	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ResetConfig处理器待实现 - 需要实现配置重置处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"reset_status": "completed",
			"reset_time":   time.Now(),
		},
	})
}

// ==================== 辅助函数 ====================

// parseIntParam 解析整数参数
func parseIntParam(c *gin.Context, paramName string, defaultValue int) int {
	if paramStr := c.Query(paramName); paramStr != "" {
		if value, err := strconv.Atoi(paramStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// validateRequiredParam 验证必需参数
func validateRequiredParam(c *gin.Context, paramName, paramValue string) bool {
	if paramValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": paramName + "不能为空",
		})
		return false
	}
	return true
}