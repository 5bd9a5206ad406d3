/**
 * Agent监控处理器
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Master端发送的监控管理HTTP请求
 * @func: 占位符实现，待后续完善
 */
package monitor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// AgentMonitorHandler Agent监控处理器接口
type AgentMonitorHandler interface {
	// ==================== 性能指标管理（✅ Agent端独立实现） ====================
	GetPerformanceMetrics(c *gin.Context) // 获取性能指标 [响应Master端GET /:id/metrics]
	GetSystemInfo(c *gin.Context)         // 获取系统信息
	GetResourceUsage(c *gin.Context)      // 获取资源使用情况

	// ==================== 健康检查（🟡 混合实现） ====================
	GetHealthStatus(c *gin.Context)    // 获取健康状态 [响应Master端GET /:id/health]
	PerformHealthCheck(c *gin.Context) // 执行健康检查

	// ==================== 监控告警（🔴 需要向Master端上报） ====================
	GetAlerts(c *gin.Context)        // 获取告警信息 [响应Master端GET /:id/alerts]
	CreateAlert(c *gin.Context)      // 创建告警
	AcknowledgeAlert(c *gin.Context) // 确认告警

	// ==================== 日志管理（🟡 混合实现） ====================
	GetLogs(c *gin.Context)     // 获取日志 [响应Master端GET /:id/logs]
	SetLogLevel(c *gin.Context) // 设置日志级别
	RotateLogs(c *gin.Context)  // 轮转日志
}

// agentMonitorHandler Agent监控处理器实现
type agentMonitorHandler struct {
	// TODO: 添加必要的依赖注入
	// monitorService monitor.AgentMonitorService
	// logger         logger.Logger
}

// NewAgentMonitorHandler 创建Agent监控处理器实例
func NewAgentMonitorHandler() AgentMonitorHandler {
	return &agentMonitorHandler{
		// TODO: 初始化依赖
	}
}

// ==================== 性能指标管理处理器实现 ====================

// GetPerformanceMetrics 获取性能指标
// @Summary 获取性能指标
// @Description 获取Agent的性能指标数据
// @Tags Agent监控
// @Produce json
// @Param duration query string false "时间范围" default("1h")
// @Param metrics query string false "指标类型过滤"
// @Success 200 {object} map[string]interface{} "性能指标获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/metrics [get]
func (h *agentMonitorHandler) GetPerformanceMetrics(c *gin.Context) {
	duration := c.DefaultQuery("duration", "1h")
	metricsFilter := c.Query("metrics")

	// TODO: 实现性能指标获取处理逻辑
	// 1. 调用监控服务获取性能指标
	// 2. 根据参数过滤指标数据
	// 3. 格式化返回数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetPerformanceMetrics处理器待实现 - 需要实现性能指标获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id": "agent-001",
			"metrics": gin.H{
				"cpu": gin.H{
					"usage_percent": 25.5,
					"cores":         8,
					"load_avg":      []float64{1.2, 1.5, 1.8},
				},
				"memory": gin.H{
					"total_mb":      8192,
					"used_mb":       2048,
					"free_mb":       6144,
					"usage_percent": 25.0,
				},
				"disk": gin.H{
					"total_gb":      500,
					"used_gb":       200,
					"free_gb":       300,
					"usage_percent": 40.0,
				},
				"network": gin.H{
					"bytes_sent":       1024000,
					"bytes_received":   2048000,
					"packets_sent":     1000,
					"packets_received": 2000,
				},
			},
			"filter": gin.H{
				"duration": duration,
				"metrics":  metricsFilter,
			},
			"collected_at": time.Now(),
		},
	})
}

// GetSystemInfo 获取系统信息
// @Summary 获取系统信息
// @Description 获取Agent运行的系统信息
// @Tags Agent监控
// @Produce json
// @Success 200 {object} map[string]interface{} "系统信息获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/system [get]
func (h *agentMonitorHandler) GetSystemInfo(c *gin.Context) {
	// TODO: 实现系统信息获取处理逻辑
	// 1. 调用监控服务获取系统信息
	// 2. 格式化系统信息
	// 3. 返回系统数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetSystemInfo处理器待实现 - 需要实现系统信息获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id": "agent-001",
			"system": gin.H{
				"os":           "Windows 11",
				"architecture": "amd64",
				"hostname":     "agent-node-001",
				"kernel":       "10.0.22000",
				"uptime":       "72h 30m 15s",
			},
			"runtime": gin.H{
				"go_version":   "go1.25.0",
				"goroutines":   50,
				"memory_alloc": "128MB",
				"gc_cycles":    100,
			},
			"agent": gin.H{
				"version":    "1.0.0",
				"build_time": "2025-01-14T10:00:00Z",
				"start_time": time.Now().Add(-72 * time.Hour),
			},
		},
	})
}

// GetResourceUsage 获取资源使用情况
// @Summary 获取资源使用情况
// @Description 获取Agent的资源使用详细情况
// @Tags Agent监控
// @Produce json
// @Param interval query int false "采样间隔(秒)" default(60)
// @Success 200 {object} map[string]interface{} "资源使用情况获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/resources [get]
func (h *agentMonitorHandler) GetResourceUsage(c *gin.Context) {
	interval := parseIntParam(c, "interval", 60)

	// TODO: 实现资源使用情况获取处理逻辑
	// 1. 调用监控服务获取资源使用情况
	// 2. 根据采样间隔计算平均值
	// 3. 返回资源使用数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetResourceUsage处理器待实现 - 需要实现资源使用情况获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id": "agent-001",
			"usage": gin.H{
				"cpu_history": []gin.H{
					{"timestamp": time.Now().Add(-5 * time.Minute), "usage": 20.5},
					{"timestamp": time.Now().Add(-4 * time.Minute), "usage": 25.0},
					{"timestamp": time.Now().Add(-3 * time.Minute), "usage": 30.2},
					{"timestamp": time.Now().Add(-2 * time.Minute), "usage": 28.8},
					{"timestamp": time.Now().Add(-1 * time.Minute), "usage": 25.5},
				},
				"memory_history": []gin.H{
					{"timestamp": time.Now().Add(-5 * time.Minute), "usage": 2000},
					{"timestamp": time.Now().Add(-4 * time.Minute), "usage": 2100},
					{"timestamp": time.Now().Add(-3 * time.Minute), "usage": 2050},
					{"timestamp": time.Now().Add(-2 * time.Minute), "usage": 2080},
					{"timestamp": time.Now().Add(-1 * time.Minute), "usage": 2048},
				},
			},
			"config": gin.H{
				"interval": interval,
			},
		},
	})
}

// ==================== 健康检查处理器实现 ====================

// GetHealthStatus 获取健康状态
// @Summary 获取健康状态
// @Description 获取Agent的健康状态信息
// @Tags Agent监控
// @Produce json
// @Success 200 {object} map[string]interface{} "健康状态获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/health [get]
func (h *agentMonitorHandler) GetHealthStatus(c *gin.Context) {
	// TODO: 实现健康状态获取处理逻辑
	// 1. 调用监控服务获取健康状态
	// 2. 检查各个组件状态
	// 3. 返回健康状态数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetHealthStatus处理器待实现 - 需要实现健康状态获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":       "agent-001",
			"overall_status": "healthy",
			"components": gin.H{
				"database": gin.H{
					"status":        "healthy",
					"response_time": "5ms",
					"last_check":    time.Now().Add(-30 * time.Second),
				},
				"task_executor": gin.H{
					"status":       "healthy",
					"active_tasks": 3,
					"last_check":   time.Now().Add(-30 * time.Second),
				},
				"communication": gin.H{
					"status":           "healthy",
					"master_connected": true,
					"last_heartbeat":   time.Now().Add(-10 * time.Second),
				},
				"plugins": gin.H{
					"status":         "healthy",
					"loaded_plugins": 5,
					"failed_plugins": 0,
				},
			},
			"uptime":            "72h 30m 15s",
			"last_health_check": time.Now().Add(-30 * time.Second),
		},
	})
}

// PerformHealthCheck 执行健康检查
// @Summary 执行健康检查
// @Description 主动执行Agent健康检查
// @Tags Agent监控
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "健康检查执行成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/health/check [post]
func (h *agentMonitorHandler) PerformHealthCheck(c *gin.Context) {
	// TODO: 实现健康检查执行处理逻辑
	// 1. 调用监控服务执行健康检查
	// 2. 检查各个组件状态
	// 3. 返回检查结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "PerformHealthCheck处理器待实现 - 需要实现健康检查执行处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id":     "agent-001",
			"check_id":     "health-check-" + strconv.FormatInt(time.Now().Unix(), 10),
			"check_status": "completed",
			"check_result": gin.H{
				"overall_status": "healthy",
				"issues_found":   0,
				"warnings":       1,
				"recommendations": []string{
					"建议增加内存以提高性能",
				},
			},
			"check_duration": "2.5s",
			"checked_at":     time.Now(),
		},
	})
}

// ==================== 监控告警处理器实现 ====================

// GetAlerts 获取告警信息
// @Summary 获取告警信息
// @Description 获取Agent的告警信息列表
// @Tags Agent监控
// @Produce json
// @Param status query string false "告警状态过滤"
// @Param level query string false "告警级别过滤"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} map[string]interface{} "告警信息获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/alerts [get]
func (h *agentMonitorHandler) GetAlerts(c *gin.Context) {
	status := c.Query("status")
	level := c.Query("level")
	page := parseIntParam(c, "page", 1)
	size := parseIntParam(c, "size", 10)

	// TODO: 实现告警信息获取处理逻辑
	// 1. 调用监控服务获取告警信息
	// 2. 根据参数过滤告警
	// 3. 分页返回告警数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetAlerts处理器待实现 - 需要实现告警信息获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id": "agent-001",
			"alerts": []gin.H{
				{
					"id":         "alert-001",
					"level":      "warning",
					"status":     "active",
					"title":      "CPU使用率过高",
					"message":    "CPU使用率持续超过80%",
					"created_at": time.Now().Add(-2 * time.Hour),
					"updated_at": time.Now().Add(-30 * time.Minute),
				},
				{
					"id":          "alert-002",
					"level":       "info",
					"status":      "resolved",
					"title":       "任务执行完成",
					"message":     "扫描任务task-001执行完成",
					"created_at":  time.Now().Add(-1 * time.Hour),
					"resolved_at": time.Now().Add(-30 * time.Minute),
				},
			},
			"pagination": gin.H{
				"page":       page,
				"size":       size,
				"total":      2,
				"total_page": 1,
			},
			"filter": gin.H{
				"status": status,
				"level":  level,
			},
		},
	})
}

// CreateAlert 创建告警
// @Summary 创建告警
// @Description 创建新的告警信息
// @Tags Agent监控
// @Accept json
// @Produce json
// @Param alert body map[string]interface{} true "告警数据"
// @Success 201 {object} map[string]interface{} "告警创建成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/alerts [post]
func (h *agentMonitorHandler) CreateAlert(c *gin.Context) {
	var alertData map[string]interface{}
	if err := c.ShouldBindJSON(&alertData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "告警数据格式错误: " + err.Error(),
		})
		return
	}

	// 验证必需字段
	title, exists := alertData["title"].(string)
	if !exists || title == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "告警标题不能为空",
		})
		return
	}

	level, exists := alertData["level"].(string)
	if !exists || level == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "告警级别不能为空",
		})
		return
	}

	// TODO: 实现告警创建处理逻辑
	// 1. 验证告警数据有效性
	// 2. 调用监控服务创建告警
	// 3. 向Master端上报告警
	// 4. 返回创建的告警信息

	// 占位符实现
	alertID := "alert-" + strconv.FormatInt(time.Now().Unix(), 10)
	c.JSON(http.StatusCreated, gin.H{
		"status":    "success",
		"message":   "CreateAlert处理器待实现 - 需要实现告警创建处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"alert_id":   alertID,
			"title":      title,
			"level":      level,
			"status":     "active",
			"created_at": time.Now(),
		},
	})
}

// AcknowledgeAlert 确认告警
// @Summary 确认告警
// @Description 确认指定的告警信息
// @Tags Agent监控
// @Accept json
// @Produce json
// @Param alert_id path string true "告警ID"
// @Success 200 {object} map[string]interface{} "告警确认成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "告警不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/alerts/{alert_id}/acknowledge [post]
func (h *agentMonitorHandler) AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("alert_id")
	if !validateRequiredParam(c, "告警ID", alertID) {
		return
	}

	// TODO: 实现告警确认处理逻辑
	// 1. 验证告警是否存在
	// 2. 调用监控服务确认告警
	// 3. 向Master端同步告警状态
	// 4. 返回确认结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "AcknowledgeAlert处理器待实现 - 需要实现告警确认处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"alert_id":           alertID,
			"acknowledge_status": "acknowledged",
			"acknowledged_at":    time.Now(),
		},
	})
}

// ==================== 日志管理处理器实现 ====================

// GetLogs 获取日志
// @Summary 获取日志
// @Description 获取Agent的日志信息
// @Tags Agent监控
// @Produce json
// @Param level query string false "日志级别过滤"
// @Param lines query int false "日志行数" default(100)
// @Param since query string false "开始时间"
// @Success 200 {object} map[string]interface{} "日志获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/logs [get]
func (h *agentMonitorHandler) GetLogs(c *gin.Context) {
	level := c.Query("level")
	lines := parseIntParam(c, "lines", 100)
	since := c.Query("since")

	// TODO: 实现日志获取处理逻辑
	// 1. 调用监控服务获取日志
	// 2. 根据参数过滤日志
	// 3. 返回日志数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetLogs处理器待实现 - 需要实现日志获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"agent_id": "agent-001",
			"logs": []string{
				"[INFO] 2025-01-14 10:00:00 - Agent启动成功",
				"[INFO] 2025-01-14 10:00:01 - 连接Master成功",
				"[INFO] 2025-01-14 10:00:02 - 开始执行任务task-001",
				"[WARN] 2025-01-14 10:00:03 - CPU使用率较高: 85%",
				"[INFO] 2025-01-14 10:00:04 - 任务task-001执行完成",
			},
			"filter": gin.H{
				"level": level,
				"lines": lines,
				"since": since,
			},
			"total_lines": 1000,
		},
	})
}

// SetLogLevel 设置日志级别
// @Summary 设置日志级别
// @Description 动态设置Agent的日志级别
// @Tags Agent监控
// @Accept json
// @Produce json
// @Param level body map[string]interface{} true "日志级别数据"
// @Success 200 {object} map[string]interface{} "日志级别设置成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/logs/level [post]
func (h *agentMonitorHandler) SetLogLevel(c *gin.Context) {
	var levelData map[string]interface{}
	if err := c.ShouldBindJSON(&levelData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "日志级别数据格式错误: " + err.Error(),
		})
		return
	}

	level, exists := levelData["level"].(string)
	if !exists || level == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "日志级别不能为空",
		})
		return
	}

	// TODO: 实现日志级别设置处理逻辑
	// 1. 验证日志级别有效性
	// 2. 调用监控服务设置日志级别
	// 3. 返回设置结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "SetLogLevel处理器待实现 - 需要实现日志级别设置处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"old_level": "info",
			"new_level": level,
			"set_at":    time.Now(),
		},
	})
}

// RotateLogs 轮转日志
// @Summary 轮转日志
// @Description 执行Agent日志轮转操作
// @Tags Agent监控
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "日志轮转成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/logs/rotate [post]
func (h *agentMonitorHandler) RotateLogs(c *gin.Context) {
	// TODO: 实现日志轮转处理逻辑
	// 1. 调用监控服务执行日志轮转
	// 2. 返回轮转结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "RotateLogs处理器待实现 - 需要实现日志轮转处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"rotate_status": "completed",
			"old_log_size":  "50MB",
			"new_log_file":  "agent-" + time.Now().Format("20060102-150405") + ".log",
			"rotated_at":    time.Now(),
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
