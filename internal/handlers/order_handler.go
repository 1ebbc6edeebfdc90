package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"order_kiosk/internal/notify"
	"order_kiosk/internal/store"
)

// CreateOrder prices the request, persists the order and queues its
// receipt. Persistence failure is a hard 500 so the register UI can stop
// and show the number was not committed.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req store.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.store.PrinterState().PaperOut {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "paper out, replace the roll before taking orders"})
		return
	}

	lines := h.store.BuildLines(req)
	order, err := h.store.CreateOrder(lines)
	if err != nil {
		var perr *store.PersistenceError
		if errors.As(err, &perr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order not committed: " + perr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.publish(notify.EventOrderCreated, order)

	job, err := h.printer.Enqueue(order)
	if err != nil {
		log.Printf("[api] print enqueue for %s failed: %v", order.OrderNo, err)
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "printJobId": job.ID})
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req struct {
		OrderNo string `json:"orderNo" binding:"required"`
		Status  string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.store.UpdateOrderStatus(req.OrderNo, req.Status)
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventOrderUpdated, order)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) OrderDetail(c *gin.Context) {
	orderNo := c.Query("orderNo")
	if orderNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderNo required"})
		return
	}
	order, ok := h.store.FindOrder(orderNo)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	var req struct {
		OrderNo string `json:"orderNo" binding:"required"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.store.CancelOrder(req.OrderNo, req.Reason)
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventOrderCancelled, order)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) MarkCooked(c *gin.Context) {
	order, err := h.store.MarkCooked(c.Param("orderNo"))
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventOrderCooked, order)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) MarkPicked(c *gin.Context) {
	order, err := h.store.MarkPicked(c.Param("orderNo"))
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventOrderPicked, order)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Reprint re-queues an existing receipt. Cancelled and empty orders are
// refused; archived ones are fine.
func (h *Handler) Reprint(c *gin.Context) {
	var req struct {
		OrderNo string `json:"orderNo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, ok := h.store.FindOrder(req.OrderNo)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status == "CANCELLED" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order is cancelled"})
		return
	}
	if len(order.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
		return
	}
	job, err := h.printer.Enqueue(order)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"printJobId": job.ID})
}

func (h *Handler) ArchiveOrder(c *gin.Context) {
	var req struct {
		OrderNo string `json:"orderNo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	moved := h.store.ArchiveOnPickup(req.OrderNo)
	c.JSON(http.StatusOK, gin.H{"archived": moved})
}

func (h *Handler) CallList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.store.CallList()})
}

func (h *Handler) orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, store.ErrOrderCancelled):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order already cancelled"})
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
