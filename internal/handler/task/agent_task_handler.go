/**
 * Agent任务处理器
 * @author: sun977
 * @date: 2025.10.21
 * @description: 处理Master端发送的任务管理HTTP请求
 * @func: 占位符实现，待后续完善
 */
package task

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// AgentTaskHandler Agent任务处理器接口
type AgentTaskHandler interface {
	// ==================== Agent任务管理（🔴 响应Master端命令） ====================
	GetTaskList(c *gin.Context) // 获取Agent任务列表 [响应Master端GET /:id/tasks]
	CreateTask(c *gin.Context)  // 创建新任务 [响应Master端POST /:id/tasks]
	GetTask(c *gin.Context)     // 获取特定任务信息 [响应Master端GET /:id/tasks/:task_id]
	DeleteTask(c *gin.Context)  // 删除任务 [响应Master端DELETE /:id/tasks/:task_id]

	// ==================== 任务执行控制 ====================
	StartTask(c *gin.Context)     // 启动任务执行
	StopTask(c *gin.Context)      // 停止任务执行
	PauseTask(c *gin.Context)     // 暂停任务执行
	ResumeTask(c *gin.Context)    // 恢复任务执行
	GetTaskStatus(c *gin.Context) // 获取任务执行状态

	// ==================== 任务结果管理 ====================
	GetTaskResult(c *gin.Context) // 获取任务执行结果
	GetTaskLog(c *gin.Context)    // 获取任务执行日志
	CleanupTask(c *gin.Context)   // 清理任务资源
}

// agentTaskHandler Agent任务处理器实现
type agentTaskHandler struct {
	// TODO: 添加必要的依赖注入
	// taskService task.AgentTaskService
	// logger      logger.Logger
}

// NewAgentTaskHandler 创建Agent任务处理器实例
func NewAgentTaskHandler() AgentTaskHandler {
	return &agentTaskHandler{
		// TODO: 初始化依赖
	}
}

// ==================== Agent任务管理处理器实现 ====================

// GetTaskList 获取Agent任务列表
// @Summary 获取任务列表
// @Description 获取Agent上的所有任务列表
// @Tags Agent任务
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param status query string false "任务状态过滤"
// @Success 200 {object} map[string]interface{} "任务列表获取成功"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks [get]
func (h *agentTaskHandler) GetTaskList(c *gin.Context) {
	// 解析查询参数
	page := parseIntParam(c, "page", 1)
	size := parseIntParam(c, "size", 10)
	status := c.Query("status")

	// TODO: 实现任务列表获取处理逻辑
	// 1. 调用任务服务获取任务列表
	// 2. 根据参数进行分页和过滤
	// 3. 格式化返回数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetTaskList处理器待实现 - 需要实现任务列表获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"tasks": []gin.H{
				{
					"id":         "placeholder-task-1",
					"name":       "示例任务1",
					"type":       "scan",
					"status":     "pending",
					"created_at": time.Now(),
				},
				{
					"id":         "placeholder-task-2",
					"name":       "示例任务2",
					"type":       "monitor",
					"status":     "running",
					"created_at": time.Now().Add(-time.Hour),
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
			},
		},
	})
}

// CreateTask 创建新任务
// @Summary 创建新任务
// @Description 在Agent上创建新的执行任务
// @Tags Agent任务
// @Accept json
// @Produce json
// @Param task body map[string]interface{} true "任务数据"
// @Success 201 {object} map[string]interface{} "任务创建成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks [post]
func (h *agentTaskHandler) CreateTask(c *gin.Context) {
	var taskData map[string]interface{}
	if err := c.ShouldBindJSON(&taskData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "任务数据格式错误: " + err.Error(),
		})
		return
	}

	// 验证必需字段
	taskName, exists := taskData["name"].(string)
	if !exists || taskName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "任务名称不能为空",
		})
		return
	}

	taskType, exists := taskData["type"].(string)
	if !exists || taskType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "任务类型不能为空",
		})
		return
	}

	// TODO: 实现任务创建处理逻辑
	// 1. 验证任务数据有效性
	// 2. 调用任务服务创建任务
	// 3. 返回创建的任务信息

	// 占位符实现
	taskID := "task-" + strconv.FormatInt(time.Now().Unix(), 10)
	c.JSON(http.StatusCreated, gin.H{
		"status":    "success",
		"message":   "CreateTask处理器待实现 - 需要实现任务创建处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":    taskID,
			"name":       taskName,
			"type":       taskType,
			"status":     "created",
			"created_at": time.Now(),
		},
	})
}

// GetTask 获取特定任务信息
// @Summary 获取任务信息
// @Description 获取指定任务的详细信息
// @Tags Agent任务
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务信息获取成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id} [get]
func (h *agentTaskHandler) GetTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务信息获取处理逻辑
	// 1. 验证任务ID有效性
	// 2. 调用任务服务获取任务信息
	// 3. 返回任务详细信息

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetTask处理器待实现 - 需要实现任务信息获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":              taskID,
			"name":                 "示例任务",
			"type":                 "scan",
			"status":               "running",
			"priority":             1,
			"progress":             50,
			"created_at":           time.Now().Add(-time.Hour),
			"started_at":           time.Now().Add(-30 * time.Minute),
			"estimated_completion": time.Now().Add(30 * time.Minute),
		},
	})
}

// DeleteTask 删除任务
// @Summary 删除任务
// @Description 删除指定的任务
// @Tags Agent任务
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务删除成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id} [delete]
func (h *agentTaskHandler) DeleteTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务删除处理逻辑
	// 1. 验证任务是否可以删除
	// 2. 调用任务服务删除任务
	// 3. 返回删除结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "DeleteTask处理器待实现 - 需要实现任务删除处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":       taskID,
			"delete_status": "completed",
			"deleted_at":    time.Now(),
		},
	})
}

// ==================== 任务执行控制处理器实现 ====================

// StartTask 启动任务执行
// @Summary 启动任务执行
// @Description 启动指定任务的执行
// @Tags Agent任务
// @Accept json
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务启动成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/start [post]
func (h *agentTaskHandler) StartTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务启动处理逻辑
	// 1. 验证任务状态是否可启动
	// 2. 调用任务服务启动任务
	// 3. 返回启动结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "StartTask处理器待实现 - 需要实现任务启动处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":      taskID,
			"start_status": "started",
			"started_at":   time.Now(),
		},
	})
}

// StopTask 停止任务执行
// @Summary 停止任务执行
// @Description 停止指定任务的执行
// @Tags Agent任务
// @Accept json
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务停止成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/stop [post]
func (h *agentTaskHandler) StopTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务停止处理逻辑
	// 1. 验证任务状态是否可停止
	// 2. 调用任务服务停止任务
	// 3. 返回停止结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "StopTask处理器待实现 - 需要实现任务停止处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":     taskID,
			"stop_status": "stopped",
			"stopped_at":  time.Now(),
		},
	})
}

// PauseTask 暂停任务执行
// @Summary 暂停任务执行
// @Description 暂停指定任务的执行
// @Tags Agent任务
// @Accept json
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务暂停成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/pause [post]
func (h *agentTaskHandler) PauseTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务暂停处理逻辑
	// 1. 验证任务状态是否可暂停
	// 2. 调用任务服务暂停任务
	// 3. 返回暂停结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "PauseTask处理器待实现 - 需要实现任务暂停处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":      taskID,
			"pause_status": "paused",
			"paused_at":    time.Now(),
		},
	})
}

// ResumeTask 恢复任务执行
// @Summary 恢复任务执行
// @Description 恢复指定任务的执行
// @Tags Agent任务
// @Accept json
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务恢复成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/resume [post]
func (h *agentTaskHandler) ResumeTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务恢复处理逻辑
	// 1. 验证任务状态是否可恢复
	// 2. 调用任务服务恢复任务
	// 3. 返回恢复结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "ResumeTask处理器待实现 - 需要实现任务恢复处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":       taskID,
			"resume_status": "resumed",
			"resumed_at":    time.Now(),
		},
	})
}

// GetTaskStatus 获取任务执行状态
// @Summary 获取任务执行状态
// @Description 获取指定任务的执行状态和进度
// @Tags Agent任务
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务状态获取成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/status [get]
func (h *agentTaskHandler) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务状态获取处理逻辑
	// 1. 调用任务服务获取任务状态
	// 2. 格式化状态信息
	// 3. 返回状态数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetTaskStatus处理器待实现 - 需要实现任务状态获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":             taskID,
			"status":              "running",
			"progress":            75,
			"message":             "任务执行中...",
			"cpu_usage":           25.5,
			"memory_usage":        128.0,
			"start_time":          time.Now().Add(-2 * time.Hour),
			"elapsed_time":        "2h 0m 0s",
			"estimated_remaining": "30m 0s",
		},
	})
}

// ==================== 任务结果管理处理器实现 ====================

// GetTaskResult 获取任务执行结果
// @Summary 获取任务执行结果
// @Description 获取指定任务的执行结果
// @Tags Agent任务
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务结果获取成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/result [get]
func (h *agentTaskHandler) GetTaskResult(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务结果获取处理逻辑
	// 1. 调用任务服务获取任务结果
	// 2. 格式化结果数据
	// 3. 返回结果信息

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetTaskResult处理器待实现 - 需要实现任务结果获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":        taskID,
			"result_status":  "completed",
			"result_message": "任务执行成功",
			"result_data": gin.H{
				"items_processed": 1000,
				"items_found":     50,
				"errors":          0,
			},
			"completed_at": time.Now().Add(-time.Hour),
			"duration":     "1h 30m 0s",
		},
	})
}

// GetTaskLog 获取任务执行日志
// @Summary 获取任务执行日志
// @Description 获取指定任务的执行日志
// @Tags Agent任务
// @Produce json
// @Param task_id path string true "任务ID"
// @Param lines query int false "日志行数" default(100)
// @Param level query string false "日志级别过滤"
// @Success 200 {object} map[string]interface{} "任务日志获取成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/log [get]
func (h *agentTaskHandler) GetTaskLog(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	lines := parseIntParam(c, "lines", 100)
	level := c.Query("level")

	// TODO: 实现任务日志获取处理逻辑
	// 1. 调用任务服务获取任务日志
	// 2. 根据参数过滤日志
	// 3. 返回日志数据

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "GetTaskLog处理器待实现 - 需要实现任务日志获取处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id": taskID,
			"logs": []string{
				"[INFO] 2025-01-14 10:00:00 - 任务开始执行",
				"[INFO] 2025-01-14 10:00:01 - 初始化扫描参数",
				"[INFO] 2025-01-14 10:00:02 - 开始扫描目标",
				"[WARN] 2025-01-14 10:00:03 - 发现潜在风险项",
				"[INFO] 2025-01-14 10:00:04 - 扫描进度: 50%",
			},
			"filter": gin.H{
				"lines": lines,
				"level": level,
			},
			"total_lines": 1000,
		},
	})
}

// CleanupTask 清理任务资源
// @Summary 清理任务资源
// @Description 清理指定任务的相关资源
// @Tags Agent任务
// @Accept json
// @Produce json
// @Param task_id path string true "任务ID"
// @Success 200 {object} map[string]interface{} "任务资源清理成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 404 {object} map[string]interface{} "任务不存在"
// @Failure 500 {object} map[string]interface{} "内部服务器错误"
// @Router /agent/tasks/{task_id}/cleanup [post]
func (h *agentTaskHandler) CleanupTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !validateRequiredParam(c, "任务ID", taskID) {
		return
	}

	// TODO: 实现任务资源清理处理逻辑
	// 1. 调用任务服务清理任务资源
	// 2. 返回清理结果

	// 占位符实现
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "CleanupTask处理器待实现 - 需要实现任务资源清理处理逻辑",
		"timestamp": time.Now(),
		"data": gin.H{
			"task_id":        taskID,
			"cleanup_status": "completed",
			"cleaned_at":     time.Now(),
			"resources_freed": gin.H{
				"temp_files": "50MB",
				"memory":     "256MB",
				"processes":  3,
			},
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
