package server

import (
	"net/http"

	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/gin-gonic/gin"
)

// resource describes CRUD routes for one record kind with draft type D.
type resource[D any] struct {
	path   string
	list   func(store.State) any
	get    func(*store.Store, string) (any, bool)
	create func(D) store.Command
	update func(string, D) store.Command
	remove func(string, bool) store.Command
}

var transactions = resource[model.TransactionDraft]{
	path: "/transactions",
	list: func(st store.State) any { return st.Transactions },
	get: func(s *store.Store, id string) (any, bool) {
		return s.Transaction(id)
	},
	create: func(d model.TransactionDraft) store.Command { return store.CreateTransaction{Draft: d} },
	update: func(id string, d model.TransactionDraft) store.Command {
		return store.UpdateTransaction{ID: id, Draft: d}
	},
	remove: func(id string, ok bool) store.Command { return store.DeleteTransaction{ID: id, Confirmed: ok} },
}

var debts = resource[model.DebtDraft]{
	path: "/debts",
	list: func(st store.State) any { return st.Debts },
	get: func(s *store.Store, id string) (any, bool) {
		return s.Debt(id)
	},
	create: func(d model.DebtDraft) store.Command { return store.CreateDebt{Draft: d} },
	update: func(id string, d model.DebtDraft) store.Command { return store.UpdateDebt{ID: id, Draft: d} },
	remove: func(id string, ok bool) store.Command { return store.DeleteDebt{ID: id, Confirmed: ok} },
}

var taxPayments = resource[model.TaxPaymentDraft]{
	path: "/taxes",
	list: func(st store.State) any { return st.TaxPayments },
	get: func(s *store.Store, id string) (any, bool) {
		return s.TaxPayment(id)
	},
	create: func(d model.TaxPaymentDraft) store.Command { return store.CreateTaxPayment{Draft: d} },
	update: func(id string, d model.TaxPaymentDraft) store.Command {
		return store.UpdateTaxPayment{ID: id, Draft: d}
	},
	remove: func(id string, ok bool) store.Command { return store.DeleteTaxPayment{ID: id, Confirmed: ok} },
}

var fixedCosts = resource[model.FixedCostDraft]{
	path: "/fixed-costs",
	list: func(st store.State) any { return st.FixedCosts },
	get: func(s *store.Store, id string) (any, bool) {
		return s.FixedCost(id)
	},
	create: func(d model.FixedCostDraft) store.Command { return store.CreateFixedCost{Draft: d} },
	update: func(id string, d model.FixedCostDraft) store.Command {
		return store.UpdateFixedCost{ID: id, Draft: d}
	},
	remove: func(id string, ok bool) store.Command { return store.DeleteFixedCost{ID: id, Confirmed: ok} },
}

func registerResource[D any](g *gin.RouterGroup, s *Server, r resource[D]) {
	g.GET(r.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, r.list(s.store.Snapshot()))
	})

	g.GET(r.path+"/:id", func(c *gin.Context) {
		rec, ok := r.get(s.store, c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	g.POST(r.path, func(c *gin.Context) {
		var draft D
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := s.store.Dispatch(c.Request.Context(), r.create(draft))
		if err != nil {
			dispatchError(c, err)
			return
		}
		respond(c, http.StatusCreated, res)
	})

	g.PUT(r.path+"/:id", func(c *gin.Context) {
		var draft D
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := s.store.Dispatch(c.Request.Context(), r.update(c.Param("id"), draft))
		if err != nil {
			dispatchError(c, err)
			return
		}
		if !res.Changed {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		respond(c, http.StatusOK, res)
	})

	g.DELETE(r.path+"/:id", func(c *gin.Context) {
		confirmed := c.Query("confirm") == "true"
		res, err := s.store.Dispatch(c.Request.Context(), r.remove(c.Param("id"), confirmed))
		if err != nil {
			dispatchError(c, err)
			return
		}
		if !res.Changed {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		respond(c, http.StatusOK, res)
	})
}
