package stubserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.String(http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.String(http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.log.Errorw("failed to issue token", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	// The login contract is raw token text, not JSON.
	c.String(http.StatusOK, token)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing User
	if err := s.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := User{Username: req.Username, Email: req.Email, Password: string(hashed), CreatedAt: time.Now()}
	if err := s.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully"})
}

// wireSortColumns maps the client's sort field names onto columns.
var wireSortColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"status":      "status",
	"createDate":  "create_date",
	"deadLine":    "dead_line",
}

func (s *Server) handleListTasks(c *gin.Context) {
	userID := c.GetInt64("user_id")

	page, size := pagingParams(c)
	scope := s.db.Model(&Task{}).Where("assigned_to = ?", userID)

	if search := c.Query("search"); search != "" {
		scope = scope.Where("title LIKE ?", "%"+search+"%")
	}

	order := "create_date desc"
	if sortSpec := c.Query("sort"); sortSpec != "" {
		field, dir, ok := strings.Cut(sortSpec, ",")
		if !ok {
			dir = "asc"
		}
		if dir != "asc" && dir != "desc" {
			dir = "asc"
		}
		if column, allowed := wireSortColumns[field]; allowed {
			order = column + " " + dir
		}
	}

	s.respondPage(c, scope, order, page, size)
}

func (s *Server) handleFilterTasks(c *gin.Context) {
	userID := c.GetInt64("user_id")

	status := c.Query("status")
	switch status {
	case "PENDING", "IN_PROGRESS", "COMPLETED":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status filter"})
		return
	}

	page, size := pagingParams(c)
	scope := s.db.Model(&Task{}).Where("assigned_to = ? AND status = ?", userID, status)
	s.respondPage(c, scope, "create_date desc", page, size)
}

func (s *Server) respondPage(c *gin.Context, scope *gorm.DB, order string, page, size int) {
	var total int64
	if err := scope.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tasks := []Task{}
	if err := scope.Order(order).Offset(page * size).Limit(size).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pageResponse{
		Content:       tasks,
		TotalElements: total,
		Number:        page,
		Size:          size,
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description" binding:"required"`
		Status      string    `json:"status"`
		DeadLine    time.Time `json:"deadLine" binding:"required"`
		AssignedTo  int64     `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = "PENDING"
	}

	task := Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		CreateDate:  time.Now().UTC(),
		DeadLine:    req.DeadLine.UTC(),
		AssignedTo:  userID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid task id"})
		return
	}

	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description" binding:"required"`
		Status      string    `json:"status" binding:"required"`
		DeadLine    time.Time `json:"deadLine" binding:"required"`
		AssignedTo  int64     `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if task.AssignedTo != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "you do not own this task"})
		return
	}

	// Full replacement of the mutable fields; CreateDate stays untouched.
	task.Title = req.Title
	task.Description = req.Description
	task.Status = req.Status
	task.DeadLine = req.DeadLine.UTC()
	if err := s.db.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.String(http.StatusAccepted, "task updated")
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid task id"})
		return
	}

	var task Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if task.AssignedTo != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "you do not own this task"})
		return
	}

	if err := s.db.Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.String(http.StatusAccepted, "task deleted")
}

func pagingParams(c *gin.Context) (page, size int) {
	page = 0
	size = 10
	if v, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil && v >= 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("size", "10")); err == nil && v > 0 && v <= 100 {
		size = v
	}
	return page, size
}
