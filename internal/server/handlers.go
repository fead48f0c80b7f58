package server

import (
	"errors"
	"net/http"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/auth"
	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/gin-gonic/gin"
)

type unlockRequest struct {
	PIN string `json:"pin" binding:"required"`
}

type settingsRequest struct {
	ProLabore      *string `json:"proLabore"`
	AllocationRate *string `json:"allocationRate"`
	TaxRate        *string `json:"taxRate"`
}

type dashboardResponse struct {
	engine.Dashboard
	LeakageWarning bool `json:"leakageWarning"`
}

func (s *Server) unlockHandler(c *gin.Context) {
	if s.gate == nil {
		c.JSON(http.StatusOK, gin.H{"unlocked": true})
		return
	}

	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.gate.Unlock(c.Request.Context(), req.PIN); err != nil {
		if errors.Is(err, auth.ErrWrongPIN) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "PIN incorreto"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": true})
}

func (s *Server) lockHandler(c *gin.Context) {
	if s.gate != nil {
		if err := s.gate.Lock(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": false})
}

func (s *Server) dashboardHandler(c *gin.Context) {
	d := s.store.Dashboard()
	c.JSON(http.StatusOK, dashboardResponse{Dashboard: d, LeakageWarning: d.Stats.LeakageWarning()})
}

func (s *Server) getSettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Settings())
}

func (s *Server) putSettingsHandler(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cmds []store.Command
	if req.ProLabore != nil {
		cmds = append(cmds, store.SetProLabore{Value: *req.ProLabore})
	}
	if req.AllocationRate != nil {
		cmds = append(cmds, store.SetAllocationRate{Value: *req.AllocationRate})
	}
	if req.TaxRate != nil {
		cmds = append(cmds, store.SetTaxRate{Value: *req.TaxRate})
	}

	var warning error
	for _, cmd := range cmds {
		res, err := s.store.Dispatch(c.Request.Context(), cmd)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.Warning != nil {
			warning = res.Warning
		}
	}

	body := gin.H{"settings": s.store.Settings()}
	if warning != nil {
		body["warning"] = warning.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) adviceHandler(c *gin.Context) {
	if s.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor not configured"})
		return
	}

	advice, err := s.advisor.Advise(c.Request.Context(), advisor.SnapshotFrom(s.store.Dashboard()))
	if err != nil {
		if errors.Is(err, advisor.ErrRequestInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "another advice request is in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, advice)
}

// dispatchError maps a rejected command to a response.
func dispatchError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, store.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "delete requires ?confirm=true"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// respond writes the outcome of a dispatched command.
func respond(c *gin.Context, status int, res store.Result) {
	body := gin.H{"id": res.ID, "changed": res.Changed}
	if res.Warning != nil {
		body["warning"] = res.Warning.Error()
	}
	c.JSON(status, body)
}
