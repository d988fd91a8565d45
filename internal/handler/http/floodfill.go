package http

import (
	"net/http"
	"strconv"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/middleware"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/render"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxImageSide 限制渲染图片的最大边长
const maxImageSide = 4096

// defaultImageScale 是未指定 scale 时每个像素的边长
const defaultImageScale = 16

// FloodFillHandler 封装了画布相关的 HTTP 处理逻辑
type FloodFillHandler struct {
	floodfillService *service.FloodFillService
}

// NewFloodFillHandler 创建 FloodFillHandler 实例
func NewFloodFillHandler(floodfillService *service.FloodFillService) *FloodFillHandler {
	return &FloodFillHandler{floodfillService: floodfillService}
}

// RegisterRoutes 在 rg 下注册 /floodfills 路由，rg 需要已经挂载 UserID 中间件
func (h *FloodFillHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/floodfills", h.List)
	rg.POST("/floodfills", h.Create)
	rg.GET("/floodfills/:floodfillId", h.Get)
	rg.PUT("/floodfills/:floodfillId", h.Paint)
	rg.DELETE("/floodfills/:floodfillId", h.Delete)
	rg.GET("/floodfills/:floodfillId/history", h.History)
	rg.GET("/floodfills/:floodfillId/image", h.Image)
}

// CreateFloodFillRequest 定义创建画布请求的结构体
type CreateFloodFillRequest struct {
	Name   string   `json:"name" binding:"required"`
	SizeX  int      `json:"sizeX" binding:"required,min=1"`
	SizeY  int      `json:"sizeY" binding:"required,min=1"`
	Colors []string `json:"colors" binding:"required,min=1,dive,required"`
}

// CreateFloodFillResponse 定义创建画布成功的响应
type CreateFloodFillResponse struct {
	ID uint `json:"id"`
}

// PaintRequest 定义填色请求。坐标用指针区分 "缺失" 和 0。
type PaintRequest struct {
	X     *int   `json:"x" binding:"required"`
	Y     *int   `json:"y" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// List 返回当前用户的全部画布
func (h *FloodFillHandler) List(c *gin.Context) {
	userID := middleware.UserIDFrom(c)
	floodfills, err := h.floodfillService.ListFloodFills(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, floodfills)
}

// Create 处理创建画布请求，返回新画布的 ID
func (h *FloodFillHandler) Create(c *gin.Context) {
	userID := middleware.UserIDFrom(c)
	var req CreateFloodFillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Handler.Create: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	ff, err := h.floodfillService.CreateFloodFill(c.Request.Context(), userID, service.CreateFloodFillInput{
		Name:   req.Name,
		SizeX:  req.SizeX,
		SizeY:  req.SizeY,
		Colors: req.Colors,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, CreateFloodFillResponse{ID: ff.ID})
}

// Get 返回单个画布
func (h *FloodFillHandler) Get(c *gin.Context) {
	id, ok := floodfillID(c)
	if !ok {
		return
	}
	ff, err := h.floodfillService.GetFloodFill(c.Request.Context(), middleware.UserIDFrom(c), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, ff)
}

// Paint 从请求中的坐标开始填色，返回更新后的画布
func (h *FloodFillHandler) Paint(c *gin.Context) {
	id, ok := floodfillID(c)
	if !ok {
		return
	}
	userID := middleware.UserIDFrom(c)

	var req PaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "floodfill_id": id}).Warn("Handler.Paint: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: x, y and color are required", "details": err.Error()})
		return
	}

	ff, err := h.floodfillService.PaintFloodFill(c.Request.Context(), userID, id, service.PaintInput{
		X:     req.X,
		Y:     req.Y,
		Color: req.Color,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, ff)
}

// Delete 删除画布
func (h *FloodFillHandler) Delete(c *gin.Context) {
	id, ok := floodfillID(c)
	if !ok {
		return
	}
	if err := h.floodfillService.DeleteFloodFill(c.Request.Context(), middleware.UserIDFrom(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// History 返回画布的填色历史，可用 ?limit= 控制条数
func (h *FloodFillHandler) History(c *gin.Context) {
	id, ok := floodfillID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			ErrorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	actions, err := h.floodfillService.ListPaintHistory(c.Request.Context(), middleware.UserIDFrom(c), id, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, actions)
}

// Image 把画布渲染为 PNG，可用 ?scale= 指定每个像素的边长
func (h *FloodFillHandler) Image(c *gin.Context) {
	id, ok := floodfillID(c)
	if !ok {
		return
	}
	ff, err := h.floodfillService.GetFloodFill(c.Request.Context(), middleware.UserIDFrom(c), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	longest := ff.SizeX
	if ff.SizeY > longest {
		longest = ff.SizeY
	}
	scale := defaultImageScale
	if raw := c.Query("scale"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > render.MaxScale {
			ErrorResponse(c, http.StatusBadRequest, "scale must be an integer between 1 and "+strconv.Itoa(render.MaxScale))
			return
		}
		scale = v
		if longest*scale > maxImageSide {
			ErrorResponse(c, http.StatusBadRequest, "requested image is too large")
			return
		}
	} else if longest*scale > maxImageSide {
		scale = maxImageSide / longest
		if scale < 1 {
			scale = 1
		}
	}

	data, err := render.PNG(ff, scale)
	if err != nil {
		logrus.WithError(err).WithField("floodfill_id", id).Error("Handler.Image: Render failed")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to render floodfill")
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// floodfillID 解析路径参数，失败时直接写 400 响应
func floodfillID(c *gin.Context) (uint, bool) {
	raw := c.Param("floodfillId")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "floodfillId must be a non-negative integer")
		return 0, false
	}
	return uint(id), true
}
