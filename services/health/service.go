package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"quatro-backend/services/recurring"
)

type Dependency struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Health struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Deps    []Dependency `json:"deps,omitempty"`
}

// Service exposes the engine's operational surface: liveness, readiness and
// the last cycle report, plus a manual cycle trigger for operators.
type Service struct {
	db        *gorm.DB
	redis     *redis.Client
	recurring *recurring.Service
}

type Params struct {
	fx.In
	DB        *gorm.DB      `optional:"true"`
	Redis     *redis.Client `optional:"true"`
	Recurring *recurring.Service
}

func NewService(p Params) *Service {
	return &Service{
		db:        p.DB,
		redis:     p.Redis,
		recurring: p.Recurring,
	}
}

func (s *Service) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, &Health{
		Status:  "healthy",
		Message: "OK",
	})
}

func (s *Service) Readiness(c *gin.Context) {
	this := &Health{
		Status:  "healthy",
		Message: "OK",
	}

	deps := make([]Dependency, 0)
	if s.db != nil {
		dep := Dependency{Name: "database", Status: "healthy", Message: "OK"}

		sql, err := s.db.DB()
		if err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
		} else if err := sql.Ping(); err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
		}

		deps = append(deps, dep)
	}

	if s.redis != nil {
		dep := Dependency{Name: "redis", Status: "healthy", Message: "OK"}

		if err := s.redis.Ping(c.Request.Context()).Err(); err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
		}

		deps = append(deps, dep)
	}

	this.Deps = deps

	for _, dep := range deps {
		if dep.Status != "healthy" {
			this.Status = "unhealthy"
			this.Message = dep.Name + ": " + dep.Message
			c.JSON(http.StatusServiceUnavailable, this)
			return
		}
	}

	c.JSON(http.StatusOK, this)
}

// LastCycle returns the most recent cycle report, 404 before the first run.
func (s *Service) LastCycle(c *gin.Context) {
	report := s.recurring.LastReport()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "no cycle has run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// RunCycle triggers a spawn cycle immediately, outside the schedule.
func (s *Service) RunCycle(c *gin.Context) {
	report, err := s.recurring.RunCycle(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
