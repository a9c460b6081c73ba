package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
	"github.com/rustyeddy/fxledger/service"
)

type TradeHandler struct {
	Svc *service.Service
}

func (h *TradeHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/trades")
	group.GET("", h.listTrades)
	group.POST("/merge", h.merge)
	group.PUT("/:id/memo", h.updateMemo)
	group.POST("/:id/labels", h.addLabel)
	group.DELETE("/:id/labels/:label", h.deleteLabel)
}

// filterFromQuery reads from, to (YYYYMMDD), min_hold, max_hold (Go
// durations), pair, side, account and label.
func filterFromQuery(c *gin.Context) (ledger.TradeFilter, error) {
	var f ledger.TradeFilter
	var err error

	if v := strings.TrimSpace(c.Query("from")); v != "" {
		if f.From, err = market.ParseBusinessDate(v); err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		if f.To, err = market.ParseBusinessDate(v); err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
	}
	if v := strings.TrimSpace(c.Query("min_hold")); v != "" {
		if f.MinHold, err = time.ParseDuration(v); err != nil {
			return f, fmt.Errorf("min_hold: %w", err)
		}
	}
	if v := strings.TrimSpace(c.Query("max_hold")); v != "" {
		if f.MaxHold, err = time.ParseDuration(v); err != nil {
			return f, fmt.Errorf("max_hold: %w", err)
		}
	}
	if v := strings.TrimSpace(c.Query("side")); v != "" {
		if f.Side, err = market.ParseSide(v); err != nil {
			return f, err
		}
	}
	f.Pair = strings.TrimSpace(c.Query("pair"))
	f.Account = strings.TrimSpace(c.Query("account"))
	f.Label = strings.TrimSpace(c.Query("label"))
	return f, nil
}

func tradeID(c *gin.Context) (ledger.TradeID, bool) {
	id, err := ledger.ParseTradeID(c.Param("id"))
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return 0, false
	}
	return id, true
}

func (h *TradeHandler) listTrades(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	trades, err := h.Svc.Trades(c.Request.Context(), f)
	if err != nil {
		Fail(c, err)
		return
	}
	if trades == nil {
		trades = []ledger.Trade{}
	}
	Ok(c, trades, map[string]any{"total": len(trades)})
}

type mergeRequest struct {
	IDs []ledger.TradeID `json:"ids"`
}

func (h *TradeHandler) merge(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	id, err := h.Svc.MergeTrades(c.Request.Context(), req.IDs)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{"id": id}, nil)
}

type memoRequest struct {
	Memo string `json:"memo"`
}

func (h *TradeHandler) updateMemo(c *gin.Context) {
	id, ok := tradeID(c)
	if !ok {
		return
	}
	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Svc.UpdateMemo(c.Request.Context(), id, req.Memo); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{"id": id, "memo": req.Memo}, nil)
}

type labelRequest struct {
	Label string `json:"label"`
}

func (h *TradeHandler) addLabel(c *gin.Context) {
	id, ok := tradeID(c)
	if !ok {
		return
	}
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		Error(c, http.StatusBadRequest, "label required", nil)
		return
	}
	if err := h.Svc.AttachLabel(c.Request.Context(), id, req.Label); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{"id": id, "label": req.Label}, nil)
}

func (h *TradeHandler) deleteLabel(c *gin.Context) {
	id, ok := tradeID(c)
	if !ok {
		return
	}
	if err := h.Svc.DetachLabel(c.Request.Context(), id, c.Param("label")); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, nil, nil)
}
